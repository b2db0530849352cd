// Package actuarial holds the versioned reference tables behind the
// life-expectancy, work-life-expectancy and wage-growth lookups.
package actuarial

import (
	_ "embed"
	"fmt"
	"os"
	"sort"

	"github.com/iwvelando/economic-loss/internal/model"
	"github.com/iwvelando/economic-loss/pkg/constants"
	"gopkg.in/yaml.v3"
)

//go:embed default_tables.yaml
var defaultTablesYAML []byte

// Document is the on-disk YAML shape of a tables resource.
type Document struct {
	Version        string             `yaml:"version" json:"version"`
	LifeExpectancy LifeExpectancyData `yaml:"lifeExpectancy" json:"lifeExpectancy"`
	WorkLife       WorkLifeData       `yaml:"workLife" json:"workLife"`
	WageGrowth     WageGrowthData     `yaml:"wageGrowth" json:"wageGrowth"`
}

// LifeExpectancyData maps sex to remaining life expectancy by age.
type LifeExpectancyData struct {
	Source string                     `yaml:"source" json:"source"`
	Tables map[string]map[int]float64 `yaml:"tables" json:"tables"`
}

// WorkLifeData maps sex and education to remaining work-life by age.
type WorkLifeData struct {
	Source           string                                `yaml:"source" json:"source"`
	DefaultEducation string                                `yaml:"defaultEducation" json:"defaultEducation"`
	Tables           map[string]map[string]map[int]float64 `yaml:"tables" json:"tables"`
}

// WageGrowthData is the occupation category table and county multipliers.
type WageGrowthData struct {
	Source            string             `yaml:"source" json:"source"`
	Method            string             `yaml:"method" json:"method"`
	FallbackCategory  string             `yaml:"fallbackCategory" json:"fallbackCategory"`
	AdjustmentState   string             `yaml:"adjustmentState" json:"adjustmentState"`
	MinRate           float64            `yaml:"minRate" json:"minRate"`
	MaxRate           float64            `yaml:"maxRate" json:"maxRate"`
	Categories        []Category         `yaml:"categories" json:"categories"`
	CountyAdjustments map[string]float64 `yaml:"countyAdjustments" json:"countyAdjustments"`
}

// Category is one occupation category and its annual growth rate.
type Category struct {
	Name string  `yaml:"name" json:"name"`
	Rate float64 `yaml:"rate" json:"rate"`
}

// Tables is a validated, read-only set of lookup tables. It is safe for
// concurrent use once built.
type Tables struct {
	doc            Document
	lifeExpectancy map[model.Sex]AgeTable
	workLife       map[model.Sex]map[model.EducationLevel]AgeTable
	fallbackRate   float64
}

// Default returns the tables embedded in the binary.
func Default() (*Tables, error) {
	return Parse(defaultTablesYAML)
}

// Load reads a YAML tables resource from disk.
func Load(path string) (*Tables, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read tables file %s: %w", path, err)
	}
	tables, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("tables file %s: %w", path, err)
	}
	return tables, nil
}

// LoadOrDefault loads path when set and falls back to the embedded tables.
func LoadOrDefault(path string) (*Tables, error) {
	if path == "" {
		return Default()
	}
	return Load(path)
}

// Parse decodes and validates a YAML tables resource.
func Parse(data []byte) (*Tables, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse tables: %w", err)
	}
	return New(doc)
}

// New validates doc and builds the lookup indices.
func New(doc Document) (*Tables, error) {
	if doc.Version == "" {
		return nil, fmt.Errorf("tables version is required")
	}

	t := &Tables{
		doc:            doc,
		lifeExpectancy: make(map[model.Sex]AgeTable),
		workLife:       make(map[model.Sex]map[model.EducationLevel]AgeTable),
	}

	if len(doc.LifeExpectancy.Tables) == 0 {
		return nil, fmt.Errorf("life expectancy tables are required")
	}
	for sexKey, values := range doc.LifeExpectancy.Tables {
		table, err := NewAgeTable(values)
		if err != nil {
			return nil, fmt.Errorf("life expectancy table %s: %w", sexKey, err)
		}
		t.lifeExpectancy[model.Sex(sexKey)] = table
	}

	if len(doc.WorkLife.Tables) == 0 {
		return nil, fmt.Errorf("work-life tables are required")
	}
	if doc.WorkLife.DefaultEducation == "" {
		t.doc.WorkLife.DefaultEducation = string(model.EducationBachelors)
	}
	for sexKey, byEducation := range doc.WorkLife.Tables {
		tables := make(map[model.EducationLevel]AgeTable, len(byEducation))
		for education, values := range byEducation {
			table, err := NewAgeTable(values)
			if err != nil {
				return nil, fmt.Errorf("work-life table %s/%s: %w", sexKey, education, err)
			}
			tables[model.EducationLevel(education)] = table
		}
		if _, ok := tables[model.EducationLevel(t.doc.WorkLife.DefaultEducation)]; !ok {
			return nil, fmt.Errorf("work-life tables for %s lack the default education %q", sexKey, t.doc.WorkLife.DefaultEducation)
		}
		t.workLife[model.Sex(sexKey)] = tables
	}

	wage := &t.doc.WageGrowth
	if len(wage.Categories) == 0 {
		return nil, fmt.Errorf("wage growth categories are required")
	}
	if wage.FallbackCategory == "" {
		wage.FallbackCategory = "Other"
	}
	found := false
	seen := make(map[string]struct{}, len(wage.Categories))
	for _, category := range wage.Categories {
		if _, dup := seen[category.Name]; dup {
			return nil, fmt.Errorf("duplicate wage growth category %q", category.Name)
		}
		seen[category.Name] = struct{}{}
		if category.Name == wage.FallbackCategory {
			t.fallbackRate = category.Rate
			found = true
		}
	}
	if !found {
		return nil, fmt.Errorf("wage growth fallback category %q is not in the category list", wage.FallbackCategory)
	}
	if wage.MinRate == 0 && wage.MaxRate == 0 {
		wage.MinRate, wage.MaxRate = constants.MinWageGrowthRate, constants.MaxWageGrowthRate
	}
	if wage.MinRate > wage.MaxRate {
		return nil, fmt.Errorf("wage growth minRate %v exceeds maxRate %v", wage.MinRate, wage.MaxRate)
	}

	return t, nil
}

// Version identifies the tables resource.
func (t *Tables) Version() string {
	return t.doc.Version
}

// Document returns the decoded resource, e.g. for display.
func (t *Tables) Document() Document {
	return t.doc
}

// LifeTable returns the life expectancy table for sex.
func (t *Tables) LifeTable(sex model.Sex) (AgeTable, bool) {
	table, ok := t.lifeExpectancy[sex]
	return table, ok
}

// Sexes returns the sex keys with a life expectancy table, sorted.
func (t *Tables) Sexes() []model.Sex {
	sexes := make([]model.Sex, 0, len(t.lifeExpectancy))
	for sex := range t.lifeExpectancy {
		sexes = append(sexes, sex)
	}
	sort.Slice(sexes, func(i, j int) bool { return sexes[i] < sexes[j] })
	return sexes
}
