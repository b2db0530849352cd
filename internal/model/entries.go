package model

import "time"

// RateLookupResult is the outcome of one table or rate lookup.
type RateLookupResult struct {
	Value        float64 `json:"value"`
	Matched      string  `json:"matched"`
	Interpolated bool    `json:"interpolated"`
	Source       string  `json:"source"`
	Fallback     bool    `json:"fallback,omitempty"`
}

// TimelineEntry is one calendar year of the remaining-life timeline.
type TimelineEntry struct {
	YearOffset    int     `json:"yearOffset"`
	CalendarYear  int     `json:"calendarYear"`
	FractionalAge float64 `json:"fractionalAge"`
}

// EarningsEntry extends a timeline year with projected earnings.
type EarningsEntry struct {
	TimelineEntry
	ProjectedEarnings  float64 `json:"projectedEarnings"`
	CumulativeEarnings float64 `json:"cumulativeEarnings"`
}

// DiscountEntry extends an active earnings year with proration and discounting.
type DiscountEntry struct {
	EarningsEntry
	PortionOfYear          float64 `json:"portionOfYear"`
	PeriodStartAge         float64 `json:"periodStartAge"`
	ActualValue            float64 `json:"actualValue"`
	CumulativeValue        float64 `json:"cumulativeValue"`
	DiscountPeriod         float64 `json:"discountPeriod"`
	DiscountFactor         float64 `json:"discountFactor"`
	PresentValue           float64 `json:"presentValue"`
	CumulativePresentValue float64 `json:"cumulativePresentValue"`
}

// Schedule is the discounted earnings-loss table and its summary figures.
type Schedule struct {
	Entries           []DiscountEntry `json:"entries"`
	DiscountRate      float64         `json:"discountRate"`
	PortionFirstYear  float64         `json:"portionFirstYear"`
	PortionLastYear   float64         `json:"portionLastYear"`
	WorkLifeEndDate   time.Time       `json:"workLifeEndDate"`
	TotalActualValue  float64         `json:"totalActualValue"`
	TotalEconomicLoss float64         `json:"totalEconomicLoss"`
}
