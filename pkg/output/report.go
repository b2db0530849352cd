// Package output provides utilities for formatting and displaying analysis results.
package output

import (
	"github.com/iwvelando/economic-loss/internal/analysis"
	"github.com/iwvelando/economic-loss/pkg/constants"
	"github.com/shopspring/decimal"
)

const (
	agePlaces     = 1
	portionPlaces = 4
	yearsPlaces   = 2
)

// Report is the display form of an analysis: the earnings-loss header and
// table with money rounded to cents and discount factors to five places.
// Rounding happens only here, after every sum has been taken at full
// precision.
type Report struct {
	RunID                  string   `json:"runId"`
	TablesVersion          string   `json:"tablesVersion"`
	Item                   string   `json:"item"`
	Name                   string   `json:"name"`
	PresentValueDate       string   `json:"presentValueDate"`
	AgeAtDeath             int      `json:"ageAtDeath"`
	BaseValue              float64  `json:"baseValue"`
	DiscountRate           float64  `json:"discountRate"`
	DiscountRateSource     string   `json:"discountRateSource"`
	GrowthRate             float64  `json:"growthRate"`
	GrowthRateSource       string   `json:"growthRateSource"`
	LifeExpectancy         float64  `json:"lifeExpectancy"`
	WorkLifeExpectancy     float64  `json:"workLifeExpectancy"`
	TotalExpectedLifespan  float64  `json:"totalExpectedLifespan"`
	WorkLifeEndDate        string   `json:"workLifeEndDate"`
	CumulativePresentValue float64  `json:"cumulativePresentValue"`
	Warnings               []string `json:"warnings,omitempty"`
	Rows                   []Row    `json:"rows"`
}

// Row is one year of the earnings-loss table.
type Row struct {
	Age                    float64 `json:"age"`
	Year                   int     `json:"year"`
	YearNumber             int     `json:"yearNumber"`
	PortionOfYear          float64 `json:"portionOfYear"`
	FullYearValue          float64 `json:"fullYearValue"`
	ActualValue            float64 `json:"actualValue"`
	CumulativeValue        float64 `json:"cumulativeValue"`
	DiscountFactor         float64 `json:"discountFactor"`
	PresentValue           float64 `json:"presentValue"`
	CumulativePresentValue float64 `json:"cumulativePresentValue"`
}

// ReportItem is the heading of the earnings-loss table.
const ReportItem = "Earnings Loss (More Conservative)"

// NewReport rounds an analysis result for display.
func NewReport(result *analysis.Result) Report {
	report := Report{
		RunID:                 result.RunID,
		TablesVersion:         result.TablesVersion,
		Item:                  ReportItem,
		Name:                  result.Profile.Name,
		PresentValueDate:      result.Profile.ValuationDate().Format(constants.DateLayout),
		AgeAtDeath:            result.Profile.AgeAtDeath(),
		BaseValue:             money(result.Profile.AnnualSalary),
		DiscountRate:          result.DiscountRate.Value,
		DiscountRateSource:    result.DiscountRate.Source,
		GrowthRate:            result.WageGrowth.Value,
		GrowthRateSource:      result.WageGrowth.Source,
		LifeExpectancy:        round(result.LifeExpectancy.Value, yearsPlaces),
		WorkLifeExpectancy:    round(result.WorkLifeExpectancy.Value, yearsPlaces),
		TotalExpectedLifespan: round(result.TotalExpectedLifespan, yearsPlaces),
		Warnings:              result.Warnings,
		Rows:                  []Row{},
	}

	schedule := result.Schedule
	if schedule == nil {
		return report
	}
	report.WorkLifeEndDate = schedule.WorkLifeEndDate.Format(constants.DateLayout)
	report.CumulativePresentValue = money(schedule.TotalEconomicLoss)

	for _, entry := range schedule.Entries {
		report.Rows = append(report.Rows, Row{
			Age:                    round(entry.PeriodStartAge, agePlaces),
			Year:                   entry.CalendarYear,
			YearNumber:             entry.YearOffset + 1,
			PortionOfYear:          round(entry.PortionOfYear, portionPlaces),
			FullYearValue:          money(entry.ProjectedEarnings),
			ActualValue:            money(entry.ActualValue),
			CumulativeValue:        money(entry.CumulativeValue),
			DiscountFactor:         round(entry.DiscountFactor, constants.FactorPlaces),
			PresentValue:           money(entry.PresentValue),
			CumulativePresentValue: money(entry.CumulativePresentValue),
		})
	}
	return report
}

func money(v float64) float64 {
	return round(v, constants.CurrencyPlaces)
}

func round(v float64, places int32) float64 {
	return decimal.NewFromFloat(v).Round(places).InexactFloat64()
}

func fixed(v float64, places int32) string {
	return decimal.NewFromFloat(v).StringFixed(places)
}
