// Package analysis runs the full economic-loss pipeline for one case: rate
// lookups, the remaining-life timeline, earnings projection and discounting.
package analysis

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/iwvelando/economic-loss/internal/actuarial"
	"github.com/iwvelando/economic-loss/internal/discount"
	"github.com/iwvelando/economic-loss/internal/earnings"
	"github.com/iwvelando/economic-loss/internal/model"
	"github.com/iwvelando/economic-loss/internal/timeline"
	"github.com/iwvelando/economic-loss/pkg/constants"
	"github.com/iwvelando/economic-loss/pkg/validation"
	"go.uber.org/zap"
)

// OverrideSource labels a value supplied by the caller instead of looked up.
const OverrideSource = "caller override"

// Request is one case to analyse.
type Request struct {
	Case      model.CaseInput     `json:"case"`
	Overrides model.RateOverrides `json:"overrides"`
}

// Result holds everything one analysis produced.
type Result struct {
	RunID         string        `json:"runId"`
	CreatedAt     time.Time     `json:"createdAt"`
	Duration      time.Duration `json:"durationNs"`
	TablesVersion string        `json:"tablesVersion"`

	Profile               model.PersonProfile    `json:"profile"`
	LifeExpectancy        model.RateLookupResult `json:"lifeExpectancy"`
	WorkLifeExpectancy    model.RateLookupResult `json:"workLifeExpectancy"`
	WageGrowth            model.RateLookupResult `json:"wageGrowth"`
	DiscountRate          model.RateLookupResult `json:"discountRate"`
	TotalExpectedLifespan float64                `json:"totalExpectedLifespan"`

	Timeline          []model.TimelineEntry `json:"timeline"`
	Earnings          []model.EarningsEntry `json:"earnings"`
	Schedule          *model.Schedule       `json:"schedule"`
	TotalEconomicLoss float64               `json:"totalEconomicLoss"`
	Warnings          []string              `json:"warnings,omitempty"`
}

// Analyzer runs analyses against one set of tables. It holds no per-run
// state, so a single Analyzer may serve concurrent requests.
type Analyzer struct {
	logger *zap.Logger
	tables *actuarial.Tables
	now    func() time.Time
}

// New returns an Analyzer. A nil logger is replaced by a no-op logger.
func New(logger *zap.Logger, tables *actuarial.Tables) *Analyzer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Analyzer{logger: logger, tables: tables, now: time.Now}
}

// Tables returns the tables the Analyzer looks values up in.
func (a *Analyzer) Tables() *actuarial.Tables {
	return a.tables
}

// Run validates the case and computes the loss schedule.
//
// When the active work-life window is empty the returned Result is populated
// with a zero total and the error is an EmptyTimeline DomainError. Every other
// error returns a nil Result.
func (a *Analyzer) Run(ctx context.Context, req Request) (*Result, error) {
	start := a.now()
	runID := uuid.NewString()
	logger := a.logger.With(zap.String("runId", runID))

	profile, err := validation.ValidateCase(req.Case)
	if err != nil {
		return nil, err
	}
	logger.Debug("validated case",
		zap.String("op", "analysis.Run"),
		zap.String("name", profile.Name),
		zap.Int("ageAtDeath", profile.AgeAtDeath()),
	)

	result := &Result{
		RunID:         runID,
		CreatedAt:     start.UTC(),
		TablesVersion: a.tables.Version(),
		Profile:       profile,
	}

	if err := a.lookupRates(ctx, logger, profile, req.Overrides, result); err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	result.Timeline, err = timeline.Build(profile, result.LifeExpectancy.Value)
	if err != nil {
		return nil, err
	}

	result.Earnings, err = earnings.Project(profile.AnnualSalary, result.WageGrowth.Value, result.WorkLifeExpectancy.Value, result.Timeline)
	if err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	result.Schedule, err = discount.Discount(result.Earnings, profile.ValuationDate(), result.WorkLifeExpectancy.Value, result.DiscountRate.Value)
	if err != nil && !errors.Is(err, model.ErrEmptyTimeline) {
		return nil, err
	}
	result.TotalEconomicLoss = result.Schedule.TotalEconomicLoss
	result.Duration = a.now().Sub(start)

	if err != nil {
		logger.Warn("no active work-life years; total economic loss is zero",
			zap.String("op", "analysis.Run"),
			zap.Float64("workLifeExpectancy", result.WorkLifeExpectancy.Value),
		)
		return result, err
	}

	logger.Info("analysis complete",
		zap.String("op", "analysis.Run"),
		zap.Int("activeYears", len(result.Schedule.Entries)),
		zap.Float64("totalEconomicLoss", result.TotalEconomicLoss),
		zap.Duration("duration", result.Duration),
	)
	return result, nil
}

func (a *Analyzer) lookupRates(ctx context.Context, logger *zap.Logger, profile model.PersonProfile, overrides model.RateOverrides, result *Result) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	age := profile.AgeAtDeath()

	if overrides.LifeExpectancy != nil {
		result.LifeExpectancy = overrideResult(*overrides.LifeExpectancy)
	} else {
		lookup, err := a.tables.LifeExpectancy(profile.Sex, age)
		if err != nil {
			return fmt.Errorf("life expectancy lookup: %w", err)
		}
		result.LifeExpectancy = lookup
	}
	result.TotalExpectedLifespan = float64(age) + result.LifeExpectancy.Value

	if overrides.WorkLifeExpectancy != nil {
		result.WorkLifeExpectancy = overrideResult(*overrides.WorkLifeExpectancy)
	} else {
		lookup, err := a.tables.WorkLifeExpectancy(profile.Sex, profile.EducationLevel, age)
		if err != nil {
			return fmt.Errorf("work-life expectancy lookup: %w", err)
		}
		result.WorkLifeExpectancy = lookup
	}

	if result.WorkLifeExpectancy.Value > result.LifeExpectancy.Value {
		warning := fmt.Sprintf("work-life expectancy %.2f exceeds remaining life expectancy %.2f; using %.2f",
			result.WorkLifeExpectancy.Value, result.LifeExpectancy.Value, result.LifeExpectancy.Value)
		logger.Warn(warning, zap.String("op", "analysis.Run"))
		result.Warnings = append(result.Warnings, warning)
		result.WorkLifeExpectancy.Value = result.LifeExpectancy.Value
	}

	if overrides.WageGrowthRate != nil {
		result.WageGrowth = overrideResult(*overrides.WageGrowthRate)
	} else {
		result.WageGrowth = a.tables.WageGrowth(profile.Occupation, profile.HomeCounty, profile.HomeState)
		if result.WageGrowth.Fallback {
			logger.Debug(fmt.Sprintf("occupation %q matched no wage category; using %s", profile.Occupation, result.WageGrowth.Matched),
				zap.String("op", "analysis.Run"),
			)
		}
	}

	if overrides.DiscountRate != nil {
		result.DiscountRate = model.RateLookupResult{
			Value:   *overrides.DiscountRate,
			Matched: "supplied",
			Source:  constants.DiscountRateSource,
		}
	} else {
		result.DiscountRate = model.RateLookupResult{
			Value:    constants.DefaultDiscountRate,
			Matched:  "fallback",
			Source:   constants.FallbackDiscountRateSource,
			Fallback: true,
		}
	}

	logger.Debug("rates resolved",
		zap.String("op", "analysis.Run"),
		zap.Float64("lifeExpectancy", result.LifeExpectancy.Value),
		zap.Float64("workLifeExpectancy", result.WorkLifeExpectancy.Value),
		zap.Float64("wageGrowth", result.WageGrowth.Value),
		zap.Float64("discountRate", result.DiscountRate.Value),
	)
	return nil
}

func overrideResult(value float64) model.RateLookupResult {
	return model.RateLookupResult{Value: value, Matched: "override", Source: OverrideSource}
}

// CacheKey identifies req together with the tables it would be run against.
// Identical keys produce identical loss schedules.
func (a *Analyzer) CacheKey(req Request) (string, error) {
	payload, err := json.Marshal(struct {
		Tables  string  `json:"tables"`
		Request Request `json:"request"`
	}{a.tables.Version(), req})
	if err != nil {
		return "", fmt.Errorf("failed to encode request: %w", err)
	}
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:]), nil
}
