// Package discount prorates projected earnings to partial first and last
// years and discounts them to the valuation date with a mid-period
// convention.
package discount

import (
	"fmt"
	"math"
	"time"

	"github.com/iwvelando/economic-loss/internal/model"
	"github.com/iwvelando/economic-loss/pkg/constants"
	"github.com/iwvelando/economic-loss/pkg/datetime"
)

// Discount builds the earnings-loss schedule for the active entries of
// earnings, those with positive projected earnings.
//
// The first active year is prorated from the valuation date (inclusive) to
// year end and the last active year from January 1 to the work-life end
// date. When a single year is active the first-year portion applies. Each
// payment is discounted from the midpoint of its interval; intervals whose
// midpoint is under constants.MinDiscountPeriod years away are not
// discounted.
//
// When no year is active the returned schedule is empty with a zero total
// and the error is an EmptyTimeline DomainError, so callers can report both.
// Nothing is rounded here.
func Discount(earnings []model.EarningsEntry, valuationDate time.Time, workLifeYears, discountRate float64) (*model.Schedule, error) {
	if discountRate <= constants.MinRate {
		return nil, &model.NumericError{Kind: model.NegativeRate, Name: "discount", Value: discountRate}
	}
	if math.IsNaN(discountRate) || math.IsNaN(workLifeYears) {
		return nil, fmt.Errorf("discount rate and work-life must be numbers")
	}

	valuationDate = datetime.Truncate(valuationDate)
	endDate := WorkLifeEndDate(valuationDate, workLifeYears)

	schedule := &model.Schedule{
		Entries:          []model.DiscountEntry{},
		DiscountRate:     discountRate,
		PortionFirstYear: PortionFirstYear(valuationDate),
		PortionLastYear:  PortionLastYear(endDate),
		WorkLifeEndDate:  endDate,
	}

	active := make([]model.EarningsEntry, 0, len(earnings))
	for _, entry := range earnings {
		if entry.ProjectedEarnings > 0 {
			active = append(active, entry)
		}
	}
	if len(active) == 0 {
		return schedule, &model.DomainError{
			Kind:   model.EmptyTimeline,
			Detail: fmt.Sprintf("no active work-life years for work-life expectancy %v", workLifeYears),
		}
	}

	startAge := active[0].FractionalAge
	var accumulated, cumulativeValue, cumulativePV float64
	schedule.Entries = make([]model.DiscountEntry, 0, len(active))
	for i, entry := range active {
		portion := 1.0
		switch {
		case i == 0:
			portion = schedule.PortionFirstYear
		case i == len(active)-1:
			portion = schedule.PortionLastYear
		}

		period := accumulated + portion/2
		factor := Factor(discountRate, period)
		actual := entry.ProjectedEarnings * portion
		presentValue := actual * factor
		cumulativeValue += actual
		cumulativePV += presentValue

		schedule.Entries = append(schedule.Entries, model.DiscountEntry{
			EarningsEntry:          entry,
			PortionOfYear:          portion,
			PeriodStartAge:         startAge + accumulated,
			ActualValue:            actual,
			CumulativeValue:        cumulativeValue,
			DiscountPeriod:         period,
			DiscountFactor:         factor,
			PresentValue:           presentValue,
			CumulativePresentValue: cumulativePV,
		})
		accumulated += portion
	}

	schedule.TotalActualValue = cumulativeValue
	schedule.TotalEconomicLoss = cumulativePV
	return schedule, nil
}

// Factor is 1/(1+rate)^period, or exactly 1 for periods under
// constants.MinDiscountPeriod.
func Factor(rate, period float64) float64 {
	if period < constants.MinDiscountPeriod {
		return 1.0
	}
	return 1 / math.Pow(1+rate, period)
}

// PortionFirstYear is the share of the valuation year from the valuation
// date through December 31, both inclusive.
func PortionFirstYear(valuationDate time.Time) float64 {
	daysInYear := float64(datetime.DaysInYear(valuationDate.Year()))
	return (daysInYear - float64(datetime.DayOfYear(valuationDate)) + 1) / daysInYear
}

// PortionLastYear is the share of the end date's year elapsed by the end
// date, at most 1.
func PortionLastYear(endDate time.Time) float64 {
	portion := float64(datetime.DayOfYear(endDate)) / float64(datetime.DaysInYear(endDate.Year()))
	return math.Min(1.0, portion)
}

// WorkLifeEndDate adds the work-life expectancy, converted to whole days and
// rounded half away from zero, to the valuation date.
func WorkLifeEndDate(valuationDate time.Time, workLifeYears float64) time.Time {
	days := int(math.Round(workLifeYears * constants.DaysPerYear))
	return datetime.AddDays(valuationDate, days)
}
