package validation

import (
	"errors"
	"testing"

	"github.com/iwvelando/economic-loss/internal/model"
	"github.com/iwvelando/economic-loss/pkg/testutil"
)

func validInput() model.CaseInput {
	input := testutil.SampleCase()
	input.Sex = "M"
	return input
}

func TestValidateCaseValid(t *testing.T) {
	profile, err := ValidateCase(validInput())
	if err != nil {
		t.Fatalf("ValidateCase() error = %v", err)
	}
	if profile.Sex != model.SexMale {
		t.Errorf("Sex = %q, expected normalised Male", profile.Sex)
	}
	if profile.AgeAtDeath() != 44 {
		t.Errorf("AgeAtDeath() = %d, expected 44", profile.AgeAtDeath())
	}
	if profile.AnnualSalary != 120000 {
		t.Errorf("AnnualSalary = %v", profile.AnnualSalary)
	}
}

func TestValidateCaseProblems(t *testing.T) {
	tests := []struct {
		name     string
		modify   func(*model.CaseInput)
		expected []string
	}{
		{
			name:     "Missing name",
			modify:   func(in *model.CaseInput) { in.Name = "  " },
			expected: []string{"missing required field: name"},
		},
		{
			name:     "Missing salary",
			modify:   func(in *model.CaseInput) { in.AnnualSalary = nil },
			expected: []string{"missing required field: annualSalary"},
		},
		{
			name:     "Bad DOB",
			modify:   func(in *model.CaseInput) { in.DateOfBirth = "01/15/1980" },
			expected: []string{"invalid DOB format"},
		},
		{
			name:     "DOD before DOB",
			modify:   func(in *model.CaseInput) { in.DateOfDeath = "1979-01-01" },
			expected: []string{"DOD must be after DOB"},
		},
		{
			name:     "Invalid sex",
			modify:   func(in *model.CaseInput) { in.Sex = "X" },
			expected: []string{"invalid sex: X. Must be one of Male, Female, M, F"},
		},
		{
			name:     "Invalid education",
			modify:   func(in *model.CaseInput) { in.EducationLevel = "PhD" },
			expected: []string{"invalid education level: PhD"},
		},
		{
			name:     "Invalid status",
			modify:   func(in *model.CaseInput) { in.Status = "Retired" },
			expected: []string{"invalid status: Retired"},
		},
		{
			name:     "Negative salary",
			modify:   func(in *model.CaseInput) { in.AnnualSalary = testutil.Float64(-1) },
			expected: []string{"annual salary must not be negative"},
		},
		{
			name:     "Salary too large",
			modify:   func(in *model.CaseInput) { in.AnnualSalary = testutil.Float64(20000000) },
			expected: []string{"annual salary exceeds 10000000"},
		},
		{
			name:     "Implausible age",
			modify:   func(in *model.CaseInput) { in.DateOfBirth = "1880-01-01" },
			expected: []string{"age at death 144 exceeds 120"},
		},
		{
			name: "Several problems reported together",
			modify: func(in *model.CaseInput) {
				in.Status = ""
				in.Sex = "Unknown"
				in.AnnualSalary = testutil.Float64(-5)
			},
			expected: []string{
				"missing required field: status",
				"invalid sex: Unknown. Must be one of Male, Female, M, F",
				"annual salary must not be negative",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := validInput()
			tt.modify(&input)

			_, err := ValidateCase(input)
			var validationErr *model.ValidationError
			if !errors.As(err, &validationErr) {
				t.Fatalf("ValidateCase() error = %v, expected ValidationError", err)
			}
			if len(validationErr.Problems) != len(tt.expected) {
				t.Fatalf("Problems = %v, expected %v", validationErr.Problems, tt.expected)
			}
			for i := range tt.expected {
				if validationErr.Problems[i] != tt.expected[i] {
					t.Errorf("Problems[%d] = %q, expected %q", i, validationErr.Problems[i], tt.expected[i])
				}
			}
		})
	}
}
