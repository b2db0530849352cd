// Package earnings projects annual earnings across a remaining-life timeline.
package earnings

import (
	"fmt"
	"math"

	"github.com/iwvelando/economic-loss/internal/model"
	"github.com/iwvelando/economic-loss/pkg/constants"
)

// Project grows salary by growthRate per year for every timeline entry whose
// offset is within workLifeYears (inclusive, fractional tail included). Later
// entries earn nothing. A non-positive workLifeYears yields no active years.
func Project(salary, growthRate, workLifeYears float64, timeline []model.TimelineEntry) ([]model.EarningsEntry, error) {
	if growthRate <= constants.MinRate {
		return nil, &model.NumericError{Kind: model.NegativeRate, Name: "wage growth", Value: growthRate}
	}
	if salary < 0 || math.IsNaN(salary) {
		return nil, fmt.Errorf("annual salary must be non-negative, got %v", salary)
	}

	entries := make([]model.EarningsEntry, len(timeline))
	var cumulative float64
	for i, year := range timeline {
		var projected float64
		if isActive(year.YearOffset, workLifeYears) {
			projected = salary * math.Pow(1+growthRate, float64(year.YearOffset))
		}
		cumulative += projected
		entries[i] = model.EarningsEntry{
			TimelineEntry:      year,
			ProjectedEarnings:  projected,
			CumulativeEarnings: cumulative,
		}
	}
	return entries, nil
}

func isActive(offset int, workLifeYears float64) bool {
	return workLifeYears > 0 && float64(offset) <= workLifeYears
}
