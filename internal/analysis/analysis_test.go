package analysis

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/iwvelando/economic-loss/internal/actuarial"
	"github.com/iwvelando/economic-loss/internal/model"
	"github.com/iwvelando/economic-loss/pkg/constants"
	"github.com/iwvelando/economic-loss/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newAnalyzer(t *testing.T) *Analyzer {
	t.Helper()
	tables, err := actuarial.Default()
	require.NoError(t, err)
	return New(zap.NewNop(), tables)
}

func johnDoe() Request {
	return Request{Case: testutil.SampleCase()}
}

func TestRunJohnDoe(t *testing.T) {
	result, err := newAnalyzer(t).Run(context.Background(), johnDoe())
	require.NoError(t, err)

	_, err = uuid.Parse(result.RunID)
	assert.NoError(t, err)
	assert.Equal(t, "2019.1", result.TablesVersion)

	assert.Equal(t, 34.06, result.LifeExpectancy.Value)
	assert.True(t, result.LifeExpectancy.Interpolated)
	assert.Equal(t, 20.52, result.WorkLifeExpectancy.Value)
	assert.Equal(t, 0.0357, result.WageGrowth.Value)
	assert.Equal(t, "Software Engineer", result.WageGrowth.Matched)
	assert.Equal(t, constants.DefaultDiscountRate, result.DiscountRate.Value)
	assert.True(t, result.DiscountRate.Fallback)
	assert.Equal(t, constants.FallbackDiscountRateSource, result.DiscountRate.Source)
	assert.InDelta(t, 78.06, result.TotalExpectedLifespan, 1e-9)
	assert.Empty(t, result.Warnings)

	assert.Len(t, result.Timeline, 35)
	assert.Len(t, result.Earnings, 35)
	require.Len(t, result.Schedule.Entries, 21)
	assert.Equal(t, "2044-09-26", result.Schedule.WorkLifeEndDate.Format(constants.DateLayout))
	assert.InDelta(t, 2227603.195997021, result.TotalEconomicLoss, 2227603.195997021*1e-9)
	assert.Equal(t, result.Schedule.TotalEconomicLoss, result.TotalEconomicLoss)
}

func TestRunWithRateOverrides(t *testing.T) {
	req := johnDoe()
	req.Case.DateOfBirth = "1983-02-01"
	req.Case.DateOfDeath = "2023-06-15"
	req.Overrides = model.RateOverrides{
		LifeExpectancy:     testutil.Float64(30),
		WorkLifeExpectancy: testutil.Float64(10),
		WageGrowthRate:     testutil.Float64(0.035),
		DiscountRate:       testutil.Float64(0.045),
	}

	result, err := newAnalyzer(t).Run(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, OverrideSource, result.LifeExpectancy.Source)
	assert.Equal(t, OverrideSource, result.WageGrowth.Source)
	assert.False(t, result.DiscountRate.Fallback)
	assert.Equal(t, constants.DiscountRateSource, result.DiscountRate.Source)
	require.Len(t, result.Schedule.Entries, 11)
	assert.InDelta(t, 1142481.5027739403, result.TotalEconomicLoss, 1e-3)
}

func TestRunClampsWorkLifeToRemainingLife(t *testing.T) {
	req := johnDoe()
	req.Overrides.LifeExpectancy = testutil.Float64(3.0)

	result, err := newAnalyzer(t).Run(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, 3.0, result.WorkLifeExpectancy.Value)
	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], "exceeds remaining life expectancy")
	assert.Len(t, result.Timeline, 4)
	assert.Len(t, result.Schedule.Entries, 4)
}

func TestRunZeroWorkLife(t *testing.T) {
	req := johnDoe()
	req.Overrides.WorkLifeExpectancy = testutil.Float64(0)

	result, err := newAnalyzer(t).Run(context.Background(), req)
	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrEmptyTimeline))
	require.NotNil(t, result)
	assert.Equal(t, 0.0, result.TotalEconomicLoss)
	assert.Empty(t, result.Schedule.Entries)
}

func TestRunErrors(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Request)
		check  func(error) bool
	}{
		{
			name:   "Validation errors propagate unchanged",
			modify: func(r *Request) { r.Case.Sex = "Unknown"; r.Case.AnnualSalary = nil },
			check: func(err error) bool {
				var validationErr *model.ValidationError
				return errors.As(err, &validationErr) && len(validationErr.Problems) == 2
			},
		},
		{
			name:   "Negative discount rate",
			modify: func(r *Request) { r.Overrides.DiscountRate = testutil.Float64(-1.5) },
			check:  func(err error) bool { return errors.Is(err, model.ErrNegativeRate) },
		},
		{
			name:   "Negative growth rate",
			modify: func(r *Request) { r.Overrides.WageGrowthRate = testutil.Float64(-1) },
			check:  func(err error) bool { return errors.Is(err, model.ErrNegativeRate) },
		},
		{
			name:   "Non-positive remaining life",
			modify: func(r *Request) { r.Overrides.LifeExpectancy = testutil.Float64(0) },
			check:  func(err error) bool { return errors.Is(err, model.ErrEmptyTimeline) },
		},
	}

	analyzer := newAnalyzer(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := johnDoe()
			tt.modify(&req)
			result, err := analyzer.Run(context.Background(), req)
			assert.Nil(t, result)
			assert.True(t, tt.check(err), "unexpected error: %v", err)
		})
	}
}

func TestRunInvalidSexTable(t *testing.T) {
	doc := newAnalyzer(t).Tables().Document()
	delete(doc.LifeExpectancy.Tables, "Female")
	tables, err := actuarial.New(doc)
	require.NoError(t, err)

	req := johnDoe()
	req.Case.Sex = "F"
	_, err = New(nil, tables).Run(context.Background(), req)
	assert.True(t, errors.Is(err, model.ErrInvalidSex), "unexpected error: %v", err)
}

func TestRunCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := newAnalyzer(t).Run(ctx, johnDoe())
	assert.Nil(t, result)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunDeterministic(t *testing.T) {
	analyzer := newAnalyzer(t)

	first, err := analyzer.Run(context.Background(), johnDoe())
	require.NoError(t, err)
	second, err := analyzer.Run(context.Background(), johnDoe())
	require.NoError(t, err)

	assert.NotEqual(t, first.RunID, second.RunID)

	firstJSON, err := json.Marshal(first.Schedule)
	require.NoError(t, err)
	secondJSON, err := json.Marshal(second.Schedule)
	require.NoError(t, err)
	assert.Equal(t, string(firstJSON), string(secondJSON))
	assert.Equal(t, first.Earnings, second.Earnings)
	assert.Equal(t, first.Timeline, second.Timeline)
}

func TestRunConcurrent(t *testing.T) {
	analyzer := newAnalyzer(t)
	expected, err := analyzer.Run(context.Background(), johnDoe())
	require.NoError(t, err)

	var wg sync.WaitGroup
	totals := make([]float64, 8)
	for i := range totals {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			result, err := analyzer.Run(context.Background(), johnDoe())
			if err == nil {
				totals[i] = result.TotalEconomicLoss
			}
		}(i)
	}
	wg.Wait()

	for i, total := range totals {
		assert.Equal(t, expected.TotalEconomicLoss, total, "run %d", i)
	}
}

func TestCacheKey(t *testing.T) {
	analyzer := newAnalyzer(t)

	first, err := analyzer.CacheKey(johnDoe())
	require.NoError(t, err)
	second, err := analyzer.CacheKey(johnDoe())
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Len(t, first, 64)

	changed := johnDoe()
	changed.Overrides.DiscountRate = testutil.Float64(0.04)
	third, err := analyzer.CacheKey(changed)
	require.NoError(t, err)
	assert.NotEqual(t, first, third)
}
