// Package model defines the records that flow through the economic-loss
// pipeline and the errors it reports.
package model

import (
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/iwvelando/economic-loss/pkg/datetime"
)

// Sex is the actuarial sex key used for table lookups.
type Sex string

const (
	SexMale   Sex = "Male"
	SexFemale Sex = "Female"
)

// ParseSex normalises the accepted spellings (Male, M, Female, F).
func ParseSex(value string) (Sex, bool) {
	switch strings.TrimSpace(value) {
	case "Male", "M":
		return SexMale, true
	case "Female", "F":
		return SexFemale, true
	}
	return Sex(value), false
}

// EducationLevel is one of seven ordered attainment categories.
type EducationLevel string

const (
	EducationLessThanHighSchool EducationLevel = "Less than High School"
	EducationHighSchool         EducationLevel = "High School"
	EducationSomeCollege        EducationLevel = "Some College"
	EducationBachelors          EducationLevel = "Bachelor's"
	EducationMasters            EducationLevel = "Master's"
	EducationDoctoral           EducationLevel = "Doctoral"
	EducationProfessional       EducationLevel = "Professional"
)

// EducationLevels lists the categories in attainment order.
var EducationLevels = []EducationLevel{
	EducationLessThanHighSchool,
	EducationHighSchool,
	EducationSomeCollege,
	EducationBachelors,
	EducationMasters,
	EducationDoctoral,
	EducationProfessional,
}

// Valid reports whether e is one of the known categories.
func (e EducationLevel) Valid() bool {
	for _, level := range EducationLevels {
		if e == level {
			return true
		}
	}
	return false
}

// Status is the employment status recorded for the case.
type Status string

const (
	StatusActive   Status = "Active"
	StatusInactive Status = "Inactive"
)

// PersonProfile is the validated, immutable description of the decedent or
// claimant. Build it with NewPersonProfile; the derived ages are computed
// once there.
type PersonProfile struct {
	Name           string
	DateOfBirth    time.Time
	DateOfDeath    time.Time
	Sex            Sex
	EducationLevel EducationLevel
	Occupation     string
	AnnualSalary   float64
	HomeCounty     string
	HomeState      string
	Status         Status

	ageAtDeath        int
	ageAtDeathDecimal float64
}

// NewPersonProfile derives the ages at death and returns the profile. The
// caller is expected to have validated the inputs already (see
// pkg/validation); NewPersonProfile only rejects a death date that is not
// after the birth date since every derived value depends on it.
func NewPersonProfile(p PersonProfile) (PersonProfile, error) {
	p.DateOfBirth = datetime.Truncate(p.DateOfBirth)
	p.DateOfDeath = datetime.Truncate(p.DateOfDeath)
	if !p.DateOfDeath.After(p.DateOfBirth) {
		return PersonProfile{}, &ValidationError{Problems: []string{"DOD must be after DOB"}}
	}
	p.ageAtDeath = datetime.WholeYearsBetween(p.DateOfBirth, p.DateOfDeath)
	p.ageAtDeathDecimal = datetime.FractionalYearsBetween(p.DateOfBirth, p.DateOfDeath)
	return p, nil
}

// AgeAtDeath is the completed whole years at the valuation date.
func (p PersonProfile) AgeAtDeath() int {
	return p.ageAtDeath
}

// AgeAtDeathDecimal is days elapsed from birth to death divided by 365.25.
func (p PersonProfile) AgeAtDeathDecimal() float64 {
	return p.ageAtDeathDecimal
}

// ValuationDate is the date all future earnings are discounted to.
func (p PersonProfile) ValuationDate() time.Time {
	return p.DateOfDeath
}

type personProfileJSON struct {
	Name              string         `json:"name"`
	DateOfBirth       string         `json:"dob"`
	DateOfDeath       string         `json:"dod"`
	Sex               Sex            `json:"sex"`
	EducationLevel    EducationLevel `json:"educationLevel"`
	Occupation        string         `json:"occupation"`
	AnnualSalary      float64        `json:"annualSalary"`
	HomeCounty        string         `json:"homeCounty"`
	HomeState         string         `json:"homeState"`
	Status            Status         `json:"status"`
	AgeAtDeath        int            `json:"ageAtDeath"`
	AgeAtDeathDecimal float64        `json:"ageAtDeathDecimal"`
}

// MarshalJSON includes the derived ages alongside the recorded fields.
func (p PersonProfile) MarshalJSON() ([]byte, error) {
	return json.Marshal(personProfileJSON{
		Name:              p.Name,
		DateOfBirth:       datetime.Format(p.DateOfBirth),
		DateOfDeath:       datetime.Format(p.DateOfDeath),
		Sex:               p.Sex,
		EducationLevel:    p.EducationLevel,
		Occupation:        p.Occupation,
		AnnualSalary:      p.AnnualSalary,
		HomeCounty:        p.HomeCounty,
		HomeState:         p.HomeState,
		Status:            p.Status,
		AgeAtDeath:        p.ageAtDeath,
		AgeAtDeathDecimal: p.ageAtDeathDecimal,
	})
}
