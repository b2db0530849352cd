package model

import (
	"errors"
	"fmt"
	"strings"
)

// ValidationError reports malformed or missing upstream fields.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation errors: %s", strings.Join(e.Problems, ", "))
}

// DomainErrorKind enumerates the actuarial domain failures.
type DomainErrorKind string

const (
	// InvalidSex means the lookup table has no entry for the sex key.
	InvalidSex DomainErrorKind = "InvalidSex"

	// EmptyTimeline means the remaining life or active work-life window is
	// empty, so the loss would silently be zero.
	EmptyTimeline DomainErrorKind = "EmptyTimeline"
)

// DomainError is raised when inputs are well-formed but fall outside what the
// actuarial model can answer.
type DomainError struct {
	Kind   DomainErrorKind
	Detail string
}

func (e *DomainError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("domain error: %s", e.Kind)
	}
	return fmt.Sprintf("domain error: %s: %s", e.Kind, e.Detail)
}

// Is matches another DomainError of the same kind, so the sentinels below
// work with errors.Is.
func (e *DomainError) Is(target error) bool {
	var other *DomainError
	if !errors.As(target, &other) {
		return false
	}
	return other.Kind == e.Kind
}

// NumericErrorKind enumerates numeric failures.
type NumericErrorKind string

const (
	// NegativeRate means a rate at or below -100%, for which (1+r)^t is undefined.
	NegativeRate NumericErrorKind = "NegativeRate"
)

// NumericError is raised for rates that would make the arithmetic undefined.
type NumericError struct {
	Kind  NumericErrorKind
	Name  string
	Value float64
}

func (e *NumericError) Error() string {
	return fmt.Sprintf("numeric error: %s: %s rate %v is at or below -100%%", e.Kind, e.Name, e.Value)
}

// Is matches another NumericError of the same kind.
func (e *NumericError) Is(target error) bool {
	var other *NumericError
	if !errors.As(target, &other) {
		return false
	}
	return other.Kind == e.Kind
}

// Sentinels for errors.Is.
var (
	ErrInvalidSex    error = &DomainError{Kind: InvalidSex}
	ErrEmptyTimeline error = &DomainError{Kind: EmptyTimeline}
	ErrNegativeRate  error = &NumericError{Kind: NegativeRate}
)
