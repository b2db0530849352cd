package output

import (
	"bytes"
	"context"
	"encoding/csv"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/iwvelando/economic-loss/internal/actuarial"
	"github.com/iwvelando/economic-loss/internal/analysis"
	"github.com/iwvelando/economic-loss/pkg/testutil"
	"go.uber.org/zap"
)

func testResult(t *testing.T) *analysis.Result {
	t.Helper()
	tables, err := actuarial.Default()
	if err != nil {
		t.Fatalf("Default() error = %v", err)
	}
	result, err := analysis.New(zap.NewNop(), tables).Run(context.Background(), analysis.Request{
		Case: testutil.SampleCase(),
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	return result
}

func TestNewReport(t *testing.T) {
	report := NewReport(testResult(t))

	if report.CumulativePresentValue != 2227603.2 {
		t.Errorf("CumulativePresentValue = %v, expected 2227603.2", report.CumulativePresentValue)
	}
	if report.PresentValueDate != "2024-03-20" || report.WorkLifeEndDate != "2044-09-26" {
		t.Errorf("dates = %s / %s", report.PresentValueDate, report.WorkLifeEndDate)
	}
	if len(report.Rows) != 21 {
		t.Fatalf("len(Rows) = %d, expected 21", len(report.Rows))
	}

	first := report.Rows[0]
	if first.Year != 2024 || first.YearNumber != 1 {
		t.Errorf("first row year = %d, number = %d", first.Year, first.YearNumber)
	}
	if first.Age != 44.2 {
		t.Errorf("first row age = %v, expected 44.2", first.Age)
	}
	if first.PortionOfYear != 0.7842 {
		t.Errorf("first row portion = %v, expected 0.7842", first.PortionOfYear)
	}
	if first.FullYearValue != 120000 {
		t.Errorf("first row full year value = %v", first.FullYearValue)
	}
	last := report.Rows[len(report.Rows)-1]
	if last.CumulativePresentValue != report.CumulativePresentValue {
		t.Errorf("last row cumulative %v != header %v", last.CumulativePresentValue, report.CumulativePresentValue)
	}
	if last.PortionOfYear != 0.7377 {
		t.Errorf("last row portion = %v, expected 0.7377", last.PortionOfYear)
	}
}

func TestPrettyFormat(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, "pretty", testResult(t)); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	output := buf.String()

	expected := []string{
		"Item:                       Earnings Loss (More Conservative)",
		"Base Value:                 $120,000.00",
		"Annual growth rate:         3.57%",
		"Cumulative Present Value:   $2,227,603.20",
		"Age  | Year | Year # | Portion",
		" | 2024 | ",
		"120,000.00",
	}
	for _, fragment := range expected {
		if !strings.Contains(output, fragment) {
			t.Errorf("PrettyFormat output missing %q\n%s", fragment, output)
		}
	}
	if strings.Contains(output, "2,024") {
		t.Errorf("PrettyFormat grouped a calendar year")
	}
}

func TestCsvFormat(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, "csv", testResult(t)); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}
	if len(records) != 22 {
		t.Fatalf("len(records) = %d, expected header plus 21 rows", len(records))
	}
	if strings.Join(records[0], ",") != strings.Join(tableHeader, ",") {
		t.Errorf("header = %v", records[0])
	}
	first := records[1]
	if first[1] != "2024" || first[2] != "1" || first[4] != "120000.00" {
		t.Errorf("first row = %v", first)
	}
	if last := records[21]; last[9] != "2227603.20" {
		t.Errorf("last cumulative PV = %s, expected 2227603.20", last[9])
	}
}

func TestJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, "json", testResult(t)); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	var report Report
	if err := json.Unmarshal(buf.Bytes(), &report); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if report.Name != "John Doe" || len(report.Rows) != 21 {
		t.Errorf("decoded report = %+v", report)
	}
	if report.CumulativePresentValue != 2227603.2 {
		t.Errorf("CumulativePresentValue = %v", report.CumulativePresentValue)
	}
}

func TestWriteInvalidFormat(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, "xml", testResult(t)); err == nil {
		t.Errorf("Write() expected error for xml")
	}
	if buf.Len() != 0 {
		t.Errorf("Write() wrote output for an invalid format")
	}
}
