// Package timeline lays out the calendar years of a person's remaining life.
package timeline

import (
	"fmt"
	"math"

	"github.com/iwvelando/economic-loss/internal/model"
)

// Build returns one entry per calendar year from the valuation year through
// floor(remainingLife) years later, inclusive. The final partial year is
// prorated later by the discounting step, not by trimming the timeline.
func Build(profile model.PersonProfile, remainingLife float64) ([]model.TimelineEntry, error) {
	if math.IsNaN(remainingLife) || remainingLife <= 0 {
		return nil, &model.DomainError{
			Kind:   model.EmptyTimeline,
			Detail: fmt.Sprintf("remaining life expectancy %v leaves no years to project", remainingLife),
		}
	}
	if math.IsInf(remainingLife, 1) {
		return nil, fmt.Errorf("remaining life expectancy must be finite")
	}

	years := int(math.Floor(remainingLife))
	startYear := profile.ValuationDate().Year()
	startAge := profile.AgeAtDeathDecimal()

	entries := make([]model.TimelineEntry, 0, years+1)
	for k := 0; k <= years; k++ {
		entries = append(entries, model.TimelineEntry{
			YearOffset:    k,
			CalendarYear:  startYear + k,
			FractionalAge: startAge + float64(k),
		})
	}
	return entries, nil
}
