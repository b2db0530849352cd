package earnings

import (
	"errors"
	"math"
	"testing"

	"github.com/iwvelando/economic-loss/internal/model"
)

func makeTimeline(years int) []model.TimelineEntry {
	timeline := make([]model.TimelineEntry, years)
	for k := range timeline {
		timeline[k] = model.TimelineEntry{YearOffset: k, CalendarYear: 2023 + k, FractionalAge: 40.5 + float64(k)}
	}
	return timeline
}

func TestProject(t *testing.T) {
	tests := []struct {
		name           string
		salary         float64
		growth         float64
		workLife       float64
		years          int
		expectedActive int
	}{
		{"Work-life inside timeline", 120000, 0.035, 10.0, 31, 11},
		{"Fractional work-life includes the tail offset", 120000, 0.035, 9.5, 31, 10},
		{"Work-life beyond timeline", 50000, 0.02, 40, 5, 5},
		{"Sub-year work-life keeps offset zero", 80000, 0.03, 0.5, 5, 1},
		{"Zero work-life", 80000, 0.03, 0, 5, 0},
		{"Negative growth", 80000, -0.02, 3, 5, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entries, err := Project(tt.salary, tt.growth, tt.workLife, makeTimeline(tt.years))
			if err != nil {
				t.Fatalf("Project() error = %v", err)
			}
			if len(entries) != tt.years {
				t.Fatalf("Project() returned %d entries, expected %d", len(entries), tt.years)
			}

			active := 0
			var sum, previous float64
			for _, entry := range entries {
				offset := float64(entry.YearOffset)
				if offset > tt.workLife || tt.workLife <= 0 {
					if entry.ProjectedEarnings != 0 {
						t.Errorf("offset %d earned %v past work-life %v", entry.YearOffset, entry.ProjectedEarnings, tt.workLife)
					}
				} else {
					active++
					expected := tt.salary * math.Pow(1+tt.growth, offset)
					if math.Abs(entry.ProjectedEarnings-expected) > 1e-6 {
						t.Errorf("offset %d earned %v, expected %v", entry.YearOffset, entry.ProjectedEarnings, expected)
					}
				}
				sum += entry.ProjectedEarnings
				if entry.CumulativeEarnings < previous {
					t.Errorf("cumulative earnings decreased at offset %d", entry.YearOffset)
				}
				previous = entry.CumulativeEarnings
			}

			if active != tt.expectedActive {
				t.Errorf("active years = %d, expected %d", active, tt.expectedActive)
			}
			if math.Abs(previous-sum) > 1e-6 {
				t.Errorf("final cumulative %v != sum %v", previous, sum)
			}
			if tt.expectedActive > 0 && entries[0].ProjectedEarnings != tt.salary {
				t.Errorf("offset 0 earned %v, expected exactly %v", entries[0].ProjectedEarnings, tt.salary)
			}
		})
	}
}

func TestProjectNegativeRate(t *testing.T) {
	for _, growth := range []float64{-1, -1.5} {
		_, err := Project(50000, growth, 10, makeTimeline(5))
		if !errors.Is(err, model.ErrNegativeRate) {
			t.Errorf("Project(growth=%v) error = %v, expected NegativeRate", growth, err)
		}
		var numeric *model.NumericError
		if errors.As(err, &numeric) && numeric.Name != "wage growth" {
			t.Errorf("NumericError.Name = %q", numeric.Name)
		}
	}
}

func TestProjectDoesNotAliasTimeline(t *testing.T) {
	timeline := makeTimeline(3)
	entries, err := Project(1000, 0, 5, timeline)
	if err != nil {
		t.Fatalf("Project() error = %v", err)
	}
	entries[0].CalendarYear = 1900
	if timeline[0].CalendarYear != 2023 {
		t.Errorf("Project() output shares storage with its input")
	}
}
