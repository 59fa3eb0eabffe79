package engine_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/payroll-engine/engine"
	"github.com/warp/payroll-engine/statutory"
)

func semiMonthly() decimal.Decimal { return decimal.NewFromInt(2) }

func juneFirstHalf() engine.PayPeriod {
	return engine.PayPeriod{
		Start:        date(2025, time.June, 1),
		End:          date(2025, time.June, 15),
		PeriodNumber: 11,
		Frequency:    engine.FrequencySemiMonthly,
	}
}

// =============================================================================
// ELIGIBILITY TESTS
// =============================================================================

func TestIsEligibleForStatutory(t *testing.T) {
	period := juneFirstHalf()
	regDateBefore := date(2025, time.May, 1)
	regDateAfter := date(2025, time.July, 1)

	cases := []struct {
		name     string
		reg      engine.Regularization
		benefits bool
		want     bool
	}{
		{"regular and benefits-eligible", engine.Regularization{EmploymentType: engine.EmploymentRegular}, true, true},
		{"regular but not benefits-eligible", engine.Regularization{EmploymentType: engine.EmploymentRegular}, false, false},
		{"probationary, no date", engine.Regularization{EmploymentType: engine.EmploymentProbationary}, true, false},
		{"probationary, regularized before period end", engine.Regularization{
			EmploymentType: engine.EmploymentProbationary, RegularizationDate: &regDateBefore}, true, true},
		{"probationary, regularizes after period end", engine.Regularization{
			EmploymentType: engine.EmploymentProbationary, RegularizationDate: &regDateAfter}, true, false},
		{"contractual, no date", engine.Regularization{EmploymentType: engine.EmploymentContractual}, true, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, engine.IsEligibleForStatutory(tc.reg, period, tc.benefits))
		})
	}
}

// =============================================================================
// SSS TESTS
// =============================================================================

func TestSSS_BracketLookup(t *testing.T) {
	// GIVEN: 2025 schedule at 5%/10% of bracket MSC
	// WHEN: monthly gross 20,100 (bracket MSC 20,000)
	// THEN: EE 1000/month -> 500 per semi-monthly period

	calc := &engine.StatutoryCalculator{Ruleset: statutory.DefaultRuleset()}

	c, err := calc.SSS(d(20100), semiMonthly())
	require.NoError(t, err)

	assertDecimalEqual(t, d(500), c.Employee)
	assertDecimalEqual(t, d(1000), c.Employer)
}

func TestSSS_BelowFloorClampsToFirstBracket(t *testing.T) {
	calc := &engine.StatutoryCalculator{Ruleset: statutory.DefaultRuleset()}

	low, err := calc.SSS(d(1200), decimal.NewFromInt(1))
	require.NoError(t, err)
	first, err := calc.SSS(d(5000), decimal.NewFromInt(1))
	require.NoError(t, err)

	assertDecimalEqual(t, first.Employee, low.Employee)
}

func TestSSS_AboveCeilingUsesLastBracket(t *testing.T) {
	calc := &engine.StatutoryCalculator{Ruleset: statutory.DefaultRuleset()}

	c, err := calc.SSS(d(120000), decimal.NewFromInt(1))
	require.NoError(t, err)

	// top MSC is 35,000: EE 1750, ER 3500 monthly
	assertDecimalEqual(t, d(1750), c.Employee)
	assertDecimalEqual(t, d(3500), c.Employer)
}

func TestSSS_EmptyTable(t *testing.T) {
	calc := &engine.StatutoryCalculator{Ruleset: engine.Ruleset{}}

	_, err := calc.SSS(d(20000), decimal.NewFromInt(1))
	require.Error(t, err)
	assert.ErrorIs(t, err, engine.ErrEmptyRuleset)
}

// =============================================================================
// PHILHEALTH TESTS
// =============================================================================

func TestPhilHealth_FiftyFiftySplit(t *testing.T) {
	// 5% of 30,000 = 1500; EE 750/month -> 375 semi-monthly
	calc := &engine.StatutoryCalculator{Ruleset: statutory.DefaultRuleset()}

	c := calc.PhilHealth(d(30000), semiMonthly())
	assertDecimalEqual(t, d(375), c.Employee)
	assertDecimalEqual(t, d(375), c.Employer)
}

func TestPhilHealth_FloorAndCeiling(t *testing.T) {
	calc := &engine.StatutoryCalculator{Ruleset: statutory.DefaultRuleset()}
	one := decimal.NewFromInt(1)

	// below floor: computed on 10,000
	low := calc.PhilHealth(d(6000), one)
	assertDecimalEqual(t, d(250), low.Employee)

	// above ceiling: computed on 100,000
	high := calc.PhilHealth(d(250000), one)
	assertDecimalEqual(t, d(2500), high.Employee)
}

// =============================================================================
// PAG-IBIG TESTS
// =============================================================================

func TestPagibig_FundSalaryCeiling(t *testing.T) {
	// 2% of min(gross, 10,000)
	calc := &engine.StatutoryCalculator{Ruleset: statutory.DefaultRuleset()}
	one := decimal.NewFromInt(1)

	c := calc.Pagibig(d(8000), one)
	assertDecimalEqual(t, d(160), c.Employee)

	capped := calc.Pagibig(d(45000), one)
	assertDecimalEqual(t, d(200), capped.Employee)
	assertDecimalEqual(t, d(200), capped.Employer)
}

func TestPagibig_PerPeriodDivision(t *testing.T) {
	calc := &engine.StatutoryCalculator{Ruleset: statutory.DefaultRuleset()}

	c := calc.Pagibig(d(45000), semiMonthly())
	assertDecimalEqual(t, d(100), c.Employee)
}
