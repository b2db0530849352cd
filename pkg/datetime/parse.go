// Package datetime provides date and time utility functions.
package datetime

import (
	"fmt"
	"strings"
	"time"

	"github.com/iwvelando/economic-loss/pkg/constants"
)

const (
	// DateLayout is the ISO date format expected in case files and is also
	// the output date format.
	DateLayout = constants.DateLayout
)

// MustParseDate parses an ISO date and panics on error.
// This is intended for use in tests where the date string is known to be valid.
func MustParseDate(dateStr string) time.Time {
	t, err := ParseDate(dateStr)
	if err != nil {
		panic(err)
	}
	return t
}

// ParseDate parses an ISO (YYYY-MM-DD) date into a UTC midnight time.Time.
// A trailing time component (RFC 3339) is accepted and truncated to the day.
func ParseDate(dateStr string) (time.Time, error) {
	trimmed := strings.TrimSpace(dateStr)
	if trimmed == "" {
		return time.Time{}, fmt.Errorf("date cannot be empty")
	}
	t, err := time.Parse(DateLayout, trimmed)
	if err == nil {
		return t, nil
	}
	if full, fullErr := time.Parse(time.RFC3339, trimmed); fullErr == nil {
		return Truncate(full), nil
	}
	return time.Time{}, fmt.Errorf("failed to parse date %q with layout %s: %w", dateStr, DateLayout, err)
}

// Truncate drops the time-of-day component and normalises to UTC.
func Truncate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// IsLeapYear reports whether year has 366 days in the Gregorian calendar.
func IsLeapYear(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

// DaysInYear returns 365 or 366 for the given calendar year.
func DaysInYear(year int) int {
	if IsLeapYear(year) {
		return 366
	}
	return 365
}

// DayOfYear returns the 1-based ordinal day of t within its year.
func DayOfYear(t time.Time) int {
	return t.YearDay()
}

// AddDays offsets a date by a whole number of days.
func AddDays(t time.Time, days int) time.Time {
	return t.AddDate(0, 0, days)
}

// DaysBetween returns the number of whole days from start to end.
func DaysBetween(start, end time.Time) int {
	return int(Truncate(end).Sub(Truncate(start)).Hours() / 24)
}

// WholeYearsBetween returns the completed years from start to end using a
// month/day comparison, i.e. a person's age in whole years.
func WholeYearsBetween(start, end time.Time) int {
	years := end.Year() - start.Year()
	if end.Month() < start.Month() || (end.Month() == start.Month() && end.Day() < start.Day()) {
		years--
	}
	return years
}

// FractionalYearsBetween returns the elapsed days from start to end divided by
// the average year length.
func FractionalYearsBetween(start, end time.Time) float64 {
	return float64(DaysBetween(start, end)) / constants.DaysPerYear
}

// Format renders a date with the ISO layout.
func Format(t time.Time) string {
	return t.Format(DateLayout)
}
