package factory_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/payroll-engine/factory"
	"github.com/warp/payroll-engine/statutory"
)

// =============================================================================
// PARSING
// =============================================================================

func TestParseRuleset_FullDocument(t *testing.T) {
	f := factory.NewRulesetFactory()

	rs, err := f.ParseRuleset(`{
		"version": "ph-custom",
		"sss": [
			{"min_salary": 0, "max_salary": 9999.99, "msc": 8000, "employee_share": 400, "employer_share": 800},
			{"min_salary": 10000, "max_salary": 0, "msc": 12000, "employee_share": 600, "employer_share": 1200}
		],
		"philhealth": {"rate": 0.04, "salary_floor": 8000, "salary_ceiling": 80000},
		"pagibig": {"employee_rate": 0.01, "employer_rate": 0.02, "fund_salary_ceiling": 5000},
		"tax_brackets": [
			{"min_annual": 0, "max_annual": 300000, "base_tax": 0, "rate_on_excess": 0},
			{"min_annual": 300000, "max_annual": 0, "base_tax": 0, "rate_on_excess": 0.25}
		],
		"multipliers": {"rest_day": 1.5},
		"de_minimis_monthly_cap": 3000
	}`)
	require.NoError(t, err)

	assert.Equal(t, "ph-custom", rs.Version)
	require.Len(t, rs.SSS, 2)
	assert.True(t, rs.SSS[0].MSC.Equal(decimal.NewFromInt(8000)))
	assert.True(t, rs.SSS[1].MaxSalary.IsZero(), "last bracket stays open-ended")
	assert.True(t, rs.PhilHealth.Rate.Equal(decimal.NewFromFloat(0.04)))
	assert.True(t, rs.Pagibig.FundSalaryCeiling.Equal(decimal.NewFromInt(5000)))
	require.Len(t, rs.TaxBrackets, 2)
	assert.True(t, rs.TaxBrackets[1].RateOnExcess.Equal(decimal.NewFromFloat(0.25)))
	assert.True(t, rs.Multipliers.RestDay.Equal(decimal.NewFromFloat(1.5)))
	assert.True(t, rs.DeMinimisMonthlyCap.Equal(decimal.NewFromInt(3000)))
}

func TestParseRuleset_OmittedSectionsFallBackToPreset(t *testing.T) {
	// A revision that only touches PhilHealth keeps every other table
	f := factory.NewRulesetFactory()
	base := statutory.DefaultRuleset()

	rs, err := f.ParseRuleset(`{
		"version": "ph-2025-r2",
		"philhealth": {"rate": 0.055, "salary_floor": 10000, "salary_ceiling": 100000}
	}`)
	require.NoError(t, err)

	assert.Equal(t, "ph-2025-r2", rs.Version)
	assert.True(t, rs.PhilHealth.Rate.Equal(decimal.NewFromFloat(0.055)))
	assert.Len(t, rs.SSS, len(base.SSS))
	assert.Len(t, rs.TaxBrackets, len(base.TaxBrackets))
	assert.True(t, rs.Pagibig.EmployeeRate.Equal(base.Pagibig.EmployeeRate))
	assert.True(t, rs.DeMinimisMonthlyCap.Equal(base.DeMinimisMonthlyCap))
}

func TestParseRuleset_EmptyDocumentIsPreset(t *testing.T) {
	f := factory.NewRulesetFactory()
	base := statutory.DefaultRuleset()

	rs, err := f.ParseRuleset(`{}`)
	require.NoError(t, err)

	assert.Equal(t, base.Version, rs.Version)
	assert.Len(t, rs.SSS, len(base.SSS))
}

func TestParseRuleset_PartialMultipliersKeepDefaults(t *testing.T) {
	f := factory.NewRulesetFactory()

	rs, err := f.ParseRuleset(`{"multipliers": {"ot_regular": 1.3}}`)
	require.NoError(t, err)

	assert.True(t, rs.Multipliers.OTRegular.Equal(decimal.NewFromFloat(1.3)))
	// untouched entries keep the preset values
	defaults := statutory.DefaultMultipliers()
	assert.True(t, rs.Multipliers.RegularHoliday.Equal(defaults.RegularHoliday))
	assert.True(t, rs.Multipliers.RestDay.Equal(defaults.RestDay))
}

func TestParseRuleset_MalformedJSON(t *testing.T) {
	f := factory.NewRulesetFactory()

	_, err := f.ParseRuleset(`{"version": `)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid ruleset JSON")
}

// =============================================================================
// VALIDATION
// =============================================================================

func TestParseRuleset_SSSValidation(t *testing.T) {
	f := factory.NewRulesetFactory()

	tests := []struct {
		name    string
		json    string
		wantErr string
	}{
		{
			name: "negative share",
			json: `{"sss": [
				{"min_salary": 0, "max_salary": 0, "msc": 5000, "employee_share": -1, "employer_share": 500}
			]}`,
			wantErr: "negative share",
		},
		{
			name: "open-ended in the middle",
			json: `{"sss": [
				{"min_salary": 0, "max_salary": 0, "msc": 5000, "employee_share": 250, "employer_share": 500},
				{"min_salary": 5250, "max_salary": 5749.99, "msc": 5500, "employee_share": 275, "employer_share": 550}
			]}`,
			wantErr: "open-ended",
		},
		{
			name: "descending brackets",
			json: `{"sss": [
				{"min_salary": 5250, "max_salary": 5749.99, "msc": 5500, "employee_share": 275, "employer_share": 550},
				{"min_salary": 0, "max_salary": 0, "msc": 5000, "employee_share": 250, "employer_share": 500}
			]}`,
			wantErr: "ascend",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.ParseRuleset(tc.json)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestParseRuleset_TaxValidation(t *testing.T) {
	f := factory.NewRulesetFactory()

	tests := []struct {
		name    string
		json    string
		wantErr string
	}{
		{
			name:    "rate above one",
			json:    `{"tax_brackets": [{"min_annual": 0, "max_annual": 0, "base_tax": 0, "rate_on_excess": 1.5}]}`,
			wantErr: "rate must be in [0,1]",
		},
		{
			name: "gap between brackets",
			json: `{"tax_brackets": [
				{"min_annual": 0, "max_annual": 250000, "base_tax": 0, "rate_on_excess": 0},
				{"min_annual": 260000, "max_annual": 0, "base_tax": 0, "rate_on_excess": 0.2}
			]}`,
			wantErr: "contiguous",
		},
		{
			name: "open-ended in the middle",
			json: `{"tax_brackets": [
				{"min_annual": 0, "max_annual": 0, "base_tax": 0, "rate_on_excess": 0},
				{"min_annual": 0, "max_annual": 400000, "base_tax": 0, "rate_on_excess": 0.2}
			]}`,
			wantErr: "open-ended",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.ParseRuleset(tc.json)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestParseRuleset_NegativePhilHealthRate(t *testing.T) {
	f := factory.NewRulesetFactory()

	_, err := f.ParseRuleset(`{"philhealth": {"rate": -0.05, "salary_floor": 0, "salary_ceiling": 0}}`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "philhealth")
}

func TestParseRuleset_NegativePagibigRate(t *testing.T) {
	f := factory.NewRulesetFactory()

	_, err := f.ParseRuleset(`{"pagibig": {"employee_rate": 0.02, "employer_rate": -0.02, "fund_salary_ceiling": 10000}}`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pagibig")
}
