// Package testutil provides common utility functions for testing.
package testutil

import (
	"github.com/iwvelando/economic-loss/internal/model"
)

// Float64 returns a pointer to v, for optional salary and rate fields.
func Float64(v float64) *float64 {
	return &v
}

// SampleCase returns the John Doe reference case: a 44-year-old male software
// engineer with a bachelor's degree, earning $120,000, who died on 2024-03-20.
func SampleCase() model.CaseInput {
	return model.CaseInput{
		Name:           "John Doe",
		DateOfBirth:    "1980-01-15",
		DateOfDeath:    "2024-03-20",
		Sex:            "Male",
		EducationLevel: "Bachelor's",
		Occupation:     "Software Engineer",
		AnnualSalary:   Float64(120000),
		HomeCounty:     "Los Angeles",
		HomeState:      "California",
		Status:         "Active",
	}
}

// FindEntry finds the schedule row for a calendar year.
// Returns a pointer to the entry if found, nil otherwise.
func FindEntry(entries []model.DiscountEntry, year int) *model.DiscountEntry {
	for i := range entries {
		if entries[i].CalendarYear == year {
			return &entries[i]
		}
	}
	return nil
}
