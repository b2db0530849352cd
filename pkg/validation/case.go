package validation

import (
	"fmt"
	"math"
	"strings"

	"github.com/iwvelando/economic-loss/internal/model"
	"github.com/iwvelando/economic-loss/pkg/constants"
	"github.com/iwvelando/economic-loss/pkg/datetime"
)

var validSexValues = []string{"Male", "Female", "M", "F"}

// ValidateCase checks every field of a raw case record and, when all pass,
// returns the normalised person profile. All problems found are reported
// together in one *model.ValidationError.
func ValidateCase(input model.CaseInput) (model.PersonProfile, error) {
	var problems []string

	required := []struct {
		field   string
		missing bool
	}{
		{"name", strings.TrimSpace(input.Name) == ""},
		{"dob", input.DateOfBirth == ""},
		{"dod", input.DateOfDeath == ""},
		{"occupation", strings.TrimSpace(input.Occupation) == ""},
		{"annualSalary", input.AnnualSalary == nil},
		{"sex", input.Sex == ""},
		{"educationLevel", input.EducationLevel == ""},
		{"homeCounty", input.HomeCounty == ""},
		{"homeState", input.HomeState == ""},
		{"status", input.Status == ""},
	}
	for _, r := range required {
		if r.missing {
			problems = append(problems, fmt.Sprintf("missing required field: %s", r.field))
		}
	}

	profile := model.PersonProfile{
		Name:           strings.TrimSpace(input.Name),
		Occupation:     strings.TrimSpace(input.Occupation),
		HomeCounty:     input.HomeCounty,
		HomeState:      input.HomeState,
		EducationLevel: model.EducationLevel(input.EducationLevel),
		Status:         model.Status(input.Status),
	}

	datesOK := true
	if input.DateOfBirth != "" {
		dob, err := datetime.ParseDate(input.DateOfBirth)
		if err != nil {
			problems = append(problems, "invalid DOB format")
			datesOK = false
		}
		profile.DateOfBirth = dob
	} else {
		datesOK = false
	}
	if input.DateOfDeath != "" {
		dod, err := datetime.ParseDate(input.DateOfDeath)
		if err != nil {
			problems = append(problems, "invalid DOD format")
			datesOK = false
		}
		profile.DateOfDeath = dod
	} else {
		datesOK = false
	}
	if datesOK {
		if !profile.DateOfDeath.After(profile.DateOfBirth) {
			problems = append(problems, "DOD must be after DOB")
		} else if age := datetime.WholeYearsBetween(profile.DateOfBirth, profile.DateOfDeath); age > constants.MaxAge {
			problems = append(problems, fmt.Sprintf("age at death %d exceeds %d", age, constants.MaxAge))
		}
	}

	if input.Sex != "" {
		sex, ok := model.ParseSex(input.Sex)
		if !ok {
			problems = append(problems, fmt.Sprintf("invalid sex: %s. Must be one of %s", input.Sex, strings.Join(validSexValues, ", ")))
		}
		profile.Sex = sex
	}

	if input.EducationLevel != "" && !profile.EducationLevel.Valid() {
		problems = append(problems, fmt.Sprintf("invalid education level: %s", input.EducationLevel))
	}

	if input.Status != "" && profile.Status != model.StatusActive && profile.Status != model.StatusInactive {
		problems = append(problems, fmt.Sprintf("invalid status: %s", input.Status))
	}

	if input.AnnualSalary != nil {
		salary := *input.AnnualSalary
		switch {
		case math.IsNaN(salary) || math.IsInf(salary, 0):
			problems = append(problems, "annual salary must be a number")
		case salary < constants.MinSalary:
			problems = append(problems, "annual salary must not be negative")
		case salary > constants.MaxSalary:
			problems = append(problems, fmt.Sprintf("annual salary exceeds %.0f", constants.MaxSalary))
		}
		profile.AnnualSalary = salary
	}

	if len(problems) > 0 {
		return model.PersonProfile{}, &model.ValidationError{Problems: problems}
	}
	return model.NewPersonProfile(profile)
}
