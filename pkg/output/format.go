package output

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/goccy/go-json"
	"github.com/iwvelando/economic-loss/internal/analysis"
	"github.com/iwvelando/economic-loss/pkg/constants"
	"github.com/iwvelando/economic-loss/pkg/format"
	"github.com/iwvelando/economic-loss/pkg/validation"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var tableHeader = []string{
	"Age", "Year", "Year Number", "Portion of Year",
	"Full Year Value", "Actual Value", "Cumulative Value",
	"Discount Factor", "Present Value", "Cumulative Present Value",
}

// Write renders result to w in the named format (pretty, csv or json).
func Write(w io.Writer, outputFormat string, result *analysis.Result) error {
	if err := validation.ValidateOutputFormat(outputFormat); err != nil {
		return err
	}
	report := NewReport(result)
	switch outputFormat {
	case constants.OutputFormatCSV:
		return CsvFormat(w, report)
	case constants.OutputFormatJSON:
		return JSONFormat(w, report)
	default:
		return PrettyFormat(w, report)
	}
}

// PrettyFormat outputs a human-readable rather than machine-readable table.
func PrettyFormat(w io.Writer, report Report) error {
	p := message.NewPrinter(language.English)

	lines := []struct {
		label string
		value string
	}{
		{"Item", report.Item},
		{"Name", report.Name},
		{"Present Value Date", report.PresentValueDate},
		{"Age at Death", fmt.Sprintf("%d years", report.AgeAtDeath)},
		{"Base Value", format.Currency(report.BaseValue)},
		{"Discount rate", fmt.Sprintf("%s (%s)", format.Percent(report.DiscountRate), report.DiscountRateSource)},
		{"Annual growth rate", format.Percent(report.GrowthRate)},
		{"Annual growth rate source", report.GrowthRateSource},
		{"Life expectancy", fmt.Sprintf("%.2f years (total lifespan %.2f)", report.LifeExpectancy, report.TotalExpectedLifespan)},
		{"Work-life expectancy", fmt.Sprintf("%.2f years (ends %s)", report.WorkLifeExpectancy, report.WorkLifeEndDate)},
		{"Cumulative Present Value", format.Currency(report.CumulativePresentValue)},
	}
	for _, line := range lines {
		if _, err := fmt.Fprintf(w, "%-27s %s\n", line.label+":", line.value); err != nil {
			return err
		}
	}
	for _, warning := range report.Warnings {
		if _, err := fmt.Fprintf(w, "Warning: %s\n", warning); err != nil {
			return err
		}
	}

	if _, err := fmt.Fprintf(w, "\nAge  | Year | Year # | Portion | Full Year Value | Actual Value  | Cumulative Value | Factor  | Present Value | Cumulative PV\n"); err != nil {
		return err
	}
	for _, row := range report.Rows {
		_, err := p.Fprintf(w, "%4.1f | %s | %6d | %7.4f | %15.2f | %13.2f | %16.2f | %7.5f | %13.2f | %.2f\n",
			row.Age, strconv.Itoa(row.Year), row.YearNumber, row.PortionOfYear,
			row.FullYearValue, row.ActualValue, row.CumulativeValue,
			row.DiscountFactor, row.PresentValue, row.CumulativePresentValue)
		if err != nil {
			return err
		}
	}
	return nil
}

// CsvFormat outputs the earnings-loss table in comma-separated value format.
func CsvFormat(w io.Writer, report Report) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(tableHeader); err != nil {
		return err
	}
	for _, row := range report.Rows {
		record := []string{
			fixed(row.Age, agePlaces),
			strconv.Itoa(row.Year),
			strconv.Itoa(row.YearNumber),
			fixed(row.PortionOfYear, portionPlaces),
			fixed(row.FullYearValue, constants.CurrencyPlaces),
			fixed(row.ActualValue, constants.CurrencyPlaces),
			fixed(row.CumulativeValue, constants.CurrencyPlaces),
			fixed(row.DiscountFactor, constants.FactorPlaces),
			fixed(row.PresentValue, constants.CurrencyPlaces),
			fixed(row.CumulativePresentValue, constants.CurrencyPlaces),
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// JSONFormat outputs the full report as indented JSON.
func JSONFormat(w io.Writer, report Report) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(report)
}
