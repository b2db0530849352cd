// Package config defines the data structures related to configuration and
// includes functions for loading and checking a case file.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/iwvelando/economic-loss/internal/analysis"
	"github.com/iwvelando/economic-loss/internal/model"
	"github.com/iwvelando/economic-loss/pkg/constants"
	"github.com/iwvelando/economic-loss/pkg/validation"
	"github.com/spf13/viper"
)

// DateLayout is the format expected in case files and is also the output
// date format.
const DateLayout = constants.DateLayout

// Configuration holds all configuration for one economic-loss case.
type Configuration struct {
	Person  model.CaseInput     `mapstructure:"person"`
	Rates   model.RateOverrides `mapstructure:"rates"`
	Tables  TablesConfig        `mapstructure:"tables"`
	Logging LoggingConfig       `mapstructure:"logging"`
	Output  OutputConfig        `mapstructure:"output"`
	Storage StorageConfig       `mapstructure:"storage"`
	Cache   CacheConfig         `mapstructure:"cache"`
}

// TablesConfig selects the actuarial tables resource.
type TablesConfig struct {
	Path string `mapstructure:"path" yaml:"path"` // empty uses the embedded tables
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `mapstructure:"level" yaml:"level"`           // debug, info, warn, error
	Format     string `mapstructure:"format" yaml:"format"`         // json, console
	OutputFile string `mapstructure:"outputFile" yaml:"outputFile"` // optional file output
}

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format string `mapstructure:"format" yaml:"format"` // pretty, csv, json
}

// StorageConfig holds the run-history database options.
type StorageConfig struct {
	Enabled bool   `mapstructure:"enabled" yaml:"enabled"`
	Path    string `mapstructure:"path" yaml:"path"`
}

// CacheConfig holds result cache options.
type CacheConfig struct {
	Backend    string `mapstructure:"backend" yaml:"backend"` // memory, redis, or empty to disable
	Address    string `mapstructure:"address" yaml:"address"`
	Password   string `mapstructure:"password" yaml:"password"`
	DB         int    `mapstructure:"db" yaml:"db"`
	TTLSeconds int    `mapstructure:"ttlSeconds" yaml:"ttlSeconds"`
}

// Cache backends.
const (
	CacheBackendMemory = "memory"
	CacheBackendRedis  = "redis"
)

// DefaultStoragePath is where run history is kept when no path is set.
const DefaultStoragePath = "economic-loss.db"

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// configuration there. Any key may be overridden from the environment with
// the ECONLOSS_ prefix, e.g. ECONLOSS_RATES_DISCOUNTRATE=0.04.
func LoadConfiguration(configPath string) (*Configuration, error) {
	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("yml")
	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file, %s", err)
	}

	var configuration Configuration
	if err := v.Unmarshal(&configuration); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %s", err)
	}

	return &configuration, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("output.format", constants.OutputFormatPretty)
	v.SetDefault("storage.path", DefaultStoragePath)
	v.SetDefault("cache.ttlSeconds", constants.DefaultCacheTTLSeconds)
	for _, key := range []string{"rates.lifeExpectancy", "rates.workLifeExpectancy", "rates.wageGrowthRate", "rates.discountRate"} {
		// Registers the key for environment lookups without giving it a value.
		_ = v.BindEnv(key)
	}
}

// Request builds the analysis request described by the configuration.
func (c *Configuration) Request() analysis.Request {
	return analysis.Request{Case: c.Person, Overrides: c.Rates}
}

// ValidateConfiguration performs general validation of the configuration and
// returns warnings. Problems with the person record itself are reported by
// the analysis as a validation error.
func (c *Configuration) ValidateConfiguration() []string {
	var warnings []string

	if c.Output.Format != "" {
		if err := validation.ValidateOutputFormat(c.Output.Format); err != nil {
			warnings = append(warnings, err.Error())
		}
	}

	if c.Tables.Path != "" {
		if _, err := os.Stat(c.Tables.Path); err != nil {
			warnings = append(warnings, fmt.Sprintf("tables file %s is not readable: %v", c.Tables.Path, err))
		}
	}

	switch c.Cache.Backend {
	case "", CacheBackendMemory:
	case CacheBackendRedis:
		if c.Cache.Address == "" {
			warnings = append(warnings, "redis cache selected but cache.address is empty")
		}
	default:
		warnings = append(warnings, fmt.Sprintf("unknown cache backend %q; expected %s or %s", c.Cache.Backend, CacheBackendMemory, CacheBackendRedis))
	}

	if c.Rates.DiscountRate == nil {
		warnings = append(warnings, fmt.Sprintf("no discount rate configured; the %.1f%% fallback will be used", constants.DefaultDiscountRate*constants.PercentageMultiplier))
	}
	if r := c.Rates.WorkLifeExpectancy; r != nil && *r > constants.MaxWorkLifeYears {
		warnings = append(warnings, fmt.Sprintf("work-life expectancy override %.2f exceeds %.0f years", *r, constants.MaxWorkLifeYears))
	}

	return warnings
}
