package model

// CaseInput is the raw case record as it arrives from a case file or an API
// request, before validation.
type CaseInput struct {
	Name           string   `json:"name" mapstructure:"name"`
	DateOfBirth    string   `json:"dob" mapstructure:"dob"`
	DateOfDeath    string   `json:"dod" mapstructure:"dod"`
	Sex            string   `json:"sex" mapstructure:"sex"`
	EducationLevel string   `json:"educationLevel" mapstructure:"educationLevel"`
	Occupation     string   `json:"occupation" mapstructure:"occupation"`
	AnnualSalary   *float64 `json:"annualSalary" mapstructure:"annualSalary"`
	HomeCounty     string   `json:"homeCounty" mapstructure:"homeCounty"`
	HomeState      string   `json:"homeState" mapstructure:"homeState"`
	Status         string   `json:"status" mapstructure:"status"`
}

// RateOverrides replaces individual lookups with caller-supplied values. A nil
// field means the value is looked up or defaulted.
type RateOverrides struct {
	LifeExpectancy     *float64 `json:"lifeExpectancy,omitempty" mapstructure:"lifeExpectancy"`
	WorkLifeExpectancy *float64 `json:"workLifeExpectancy,omitempty" mapstructure:"workLifeExpectancy"`
	WageGrowthRate     *float64 `json:"wageGrowthRate,omitempty" mapstructure:"wageGrowthRate"`
	DiscountRate       *float64 `json:"discountRate,omitempty" mapstructure:"discountRate"`
}
