// Package constants provides shared constants for the economic-loss application.
package constants

// DateLayout is the ISO date format expected for dates of birth and death in
// case files and API requests. It is also the output date format.
const DateLayout = "2006-01-02"

// Actuarial constants
const (
	// DaysPerYear is the average year length used for fractional ages and
	// work-life end dates.
	DaysPerYear = 365.25

	// CurrencyPlaces is the number of decimals displayed for money.
	CurrencyPlaces = 2

	// FactorPlaces is the number of decimals displayed for discount factors.
	FactorPlaces = 5

	// MinDiscountPeriod is the discount exponent below which a payment is
	// treated as already being in present terms.
	MinDiscountPeriod = 0.01

	// MinRate is the lowest admissible growth or discount rate (exclusive).
	MinRate = -1.0
)

// Fallback rate constants used when no sourced value is available.
const (
	// DefaultDiscountRate is the fallback risk-free discount rate (4.5%).
	DefaultDiscountRate = 0.045

	// MinWageGrowthRate is the lower clamp for wage growth (0.5%).
	MinWageGrowthRate = 0.005

	// MaxWageGrowthRate is the upper clamp for wage growth (5%).
	MaxWageGrowthRate = 0.05

	// DiscountRateSource labels a discount rate supplied by the caller.
	DiscountRateSource = "Federal Reserve H.15 (1-year Treasury constant maturity)"

	// FallbackDiscountRateSource labels the fallback discount rate.
	FallbackDiscountRateSource = "Federal Reserve H.15 - estimated rate (fallback)"
)

// Input validation bounds
const (
	// MinSalary is the lowest accepted annual salary.
	MinSalary = 0.0

	// MaxSalary is the highest accepted annual salary.
	MaxSalary = 10000000.0

	// MaxAge is the oldest accepted age at death.
	MaxAge = 120

	// MaxWorkLifeYears is the largest accepted work-life override.
	MaxWorkLifeYears = 50.0
)

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"

	// OutputFormatCSV is the CSV output format
	OutputFormatCSV = "csv"

	// OutputFormatJSON is the JSON output format
	OutputFormatJSON = "json"
)

// Configuration file constants
const (
	// DefaultConfigFile is the default case configuration file name
	DefaultConfigFile = "case.yaml"

	// ExampleConfigFile is the example configuration file name
	ExampleConfigFile = "case.yaml.example"

	// DefaultServerConfigFile is the default server configuration file name
	DefaultServerConfigFile = "server-config.yaml"

	// EnvPrefix is the prefix for environment variable overrides.
	EnvPrefix = "ECONLOSS"
)

// Server configuration defaults
const (
	// DefaultServerAddress is the default HTTP listen address for the API
	DefaultServerAddress = ":8080"

	// DefaultMaxBodySizeBytes is the default maximum request body size (256 KB)
	DefaultMaxBodySizeBytes int64 = 256 * 1024

	// DefaultCacheTTLSeconds is the default lifetime of cached analysis results.
	DefaultCacheTTLSeconds = 3600
)

// Display constants
const (
	// PercentageMultiplier is used for percentage conversions
	PercentageMultiplier = 100.0
)
