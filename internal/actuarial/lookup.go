package actuarial

import (
	"fmt"
	"strings"

	"github.com/iwvelando/economic-loss/internal/model"
	"github.com/iwvelando/economic-loss/pkg/mathutil"
)

const (
	yearsPlaces = 2
	ratePlaces  = 4
)

// LifeExpectancy returns remaining life expectancy in years at the given age.
func (t *Tables) LifeExpectancy(sex model.Sex, age int) (model.RateLookupResult, error) {
	table, ok := t.lifeExpectancy[sex]
	if !ok {
		return model.RateLookupResult{}, &model.DomainError{
			Kind:   model.InvalidSex,
			Detail: fmt.Sprintf("no life expectancy table for sex %q", sex),
		}
	}
	lookup := table.Interpolate(float64(age))
	return model.RateLookupResult{
		Value:        mathutil.RoundTo(lookup.Value, yearsPlaces),
		Matched:      fmt.Sprintf("%s, age %d", sex, age),
		Interpolated: lookup.Interpolated,
		Source:       t.doc.LifeExpectancy.Source,
	}, nil
}

// WorkLifeExpectancy returns remaining work-life expectancy in years. An
// unknown education level silently uses the default education table, which
// Matched reports.
func (t *Tables) WorkLifeExpectancy(sex model.Sex, education model.EducationLevel, age int) (model.RateLookupResult, error) {
	byEducation, ok := t.workLife[sex]
	if !ok {
		return model.RateLookupResult{}, &model.DomainError{
			Kind:   model.InvalidSex,
			Detail: fmt.Sprintf("no work-life table for sex %q", sex),
		}
	}
	table, ok := byEducation[education]
	if !ok {
		education = model.EducationLevel(t.doc.WorkLife.DefaultEducation)
		table = byEducation[education]
	}
	lookup := table.Interpolate(float64(age))
	value := lookup.Value
	if value < 0 {
		value = 0
	}
	return model.RateLookupResult{
		Value:        mathutil.RoundTo(value, yearsPlaces),
		Matched:      fmt.Sprintf("%s, %s, age %d", sex, education, age),
		Interpolated: lookup.Interpolated,
		Source:       t.doc.WorkLife.Source,
	}, nil
}

// WageGrowth returns the annual wage growth rate for an occupation, adjusted
// for the home county when the state carries county multipliers.
func (t *Tables) WageGrowth(occupation, county, state string) model.RateLookupResult {
	wage := t.doc.WageGrowth
	category, rate := t.matchCategory(occupation)

	adjusted := rate
	if state == wage.AdjustmentState && county != "" {
		multiplier, ok := wage.CountyAdjustments[county]
		if !ok {
			multiplier = 1.0
		}
		adjusted = rate * multiplier
	}

	clamped := mathutil.Clamp(adjusted, wage.MinRate, wage.MaxRate)
	source := wage.Source
	if wage.Method != "" {
		source = fmt.Sprintf("%s (%s)", wage.Source, wage.Method)
	}
	return model.RateLookupResult{
		Value:    mathutil.RoundTo(clamped, ratePlaces),
		Matched:  category,
		Source:   source,
		Fallback: category == wage.FallbackCategory,
	}
}

// matchCategory resolves an occupation to a category: exact name first, then
// a case-insensitive substring match in either direction in table order, then
// the fallback category.
func (t *Tables) matchCategory(occupation string) (string, float64) {
	wage := t.doc.WageGrowth
	for _, category := range wage.Categories {
		if category.Name == occupation {
			return category.Name, category.Rate
		}
	}

	needle := strings.ToLower(strings.TrimSpace(occupation))
	if needle != "" {
		for _, category := range wage.Categories {
			name := strings.ToLower(category.Name)
			if strings.Contains(needle, name) || strings.Contains(name, needle) {
				return category.Name, category.Rate
			}
		}
	}

	return wage.FallbackCategory, t.fallbackRate
}
