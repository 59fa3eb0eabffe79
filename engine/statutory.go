/*
statutory.go - Government contribution lookups and eligibility

PURPOSE:
  Table-driven lookups for SSS, PhilHealth, and Pag-IBIG contributions,
  plus the eligibility rule that gates all statutory and tax computation.

ELIGIBILITY:
  Contributions and withholding run only when eligibility is affirmatively
  established: the profile must be benefits-eligible AND the employee must
  be REGULAR, or have a regularization date on or before the period end.
  Ineligible employees get zero contributions and zero tax - never an error.

SHARES:
  Employee and employer shares are both computed and both reported; only
  the employee share is deducted from net pay.

PER-PERIOD DIVISION:
  Tables express MONTHLY amounts. Each lookup divides by the pay
  frequency's periods-per-month to produce the per-period contribution.

SEE ALSO:
  - ruleset.go: table shapes
  - tax.go: withholding tax (subtracts the employee shares computed here)
  - statutory/tables.go: current Philippine presets
*/
package engine

import "github.com/shopspring/decimal"

// =============================================================================
// ELIGIBILITY
// =============================================================================

// IsEligibleForStatutory gates contribution and tax computation.
func IsEligibleForStatutory(reg Regularization, period PayPeriod, benefitsEligible bool) bool {
	if !benefitsEligible {
		return false
	}
	if reg.EmploymentType == EmploymentRegular {
		return true
	}
	if reg.RegularizationDate != nil && !reg.RegularizationDate.After(period.End) {
		return true
	}
	return false
}

// =============================================================================
// CONTRIBUTION RESULT
// =============================================================================

// Contribution is one scheme's per-period shares.
type Contribution struct {
	Employee decimal.Decimal
	Employer decimal.Decimal
}

// =============================================================================
// STATUTORY CALCULATOR
// =============================================================================

// StatutoryCalculator performs bracket and flat-rate lookups against one
// ruleset revision.
type StatutoryCalculator struct {
	Ruleset Ruleset
}

// SSS looks up the bracket containing the monthly gross and divides the
// bracket's fixed monthly shares across the month's pay periods. A gross
// below the first bracket clamps to the first bracket.
func (sc *StatutoryCalculator) SSS(monthlyGross decimal.Decimal, periodsPerMonth decimal.Decimal) (Contribution, error) {
	if len(sc.Ruleset.SSS) == 0 {
		return Contribution{}, &RulesetError{Table: "sss", Reason: "no brackets"}
	}

	bracket := sc.Ruleset.SSS[0]
	for _, b := range sc.Ruleset.SSS {
		if b.Contains(monthlyGross) {
			bracket = b
			break
		}
	}

	return Contribution{
		Employee: Round4(bracket.EmployeeShare.Div(periodsPerMonth)),
		Employer: Round4(bracket.EmployerShare.Div(periodsPerMonth)),
	}, nil
}

// PhilHealth applies the flat premium rate to the monthly gross clamped to
// the schedule's floor and ceiling, splits it equally, and divides per
// period.
func (sc *StatutoryCalculator) PhilHealth(monthlyGross decimal.Decimal, periodsPerMonth decimal.Decimal) Contribution {
	t := sc.Ruleset.PhilHealth
	base := monthlyGross
	if base.LessThan(t.SalaryFloor) {
		base = t.SalaryFloor
	}
	if !t.SalaryCeiling.IsZero() && base.GreaterThan(t.SalaryCeiling) {
		base = t.SalaryCeiling
	}

	premium := base.Mul(t.Rate)
	half := premium.Div(decimal.NewFromInt(2))
	return Contribution{
		Employee: Round4(half.Div(periodsPerMonth)),
		Employer: Round4(half.Div(periodsPerMonth)),
	}
}

// Pagibig applies the employee and employer rates to the fund salary
// capped at the schedule's ceiling, divided per period.
func (sc *StatutoryCalculator) Pagibig(monthlyGross decimal.Decimal, periodsPerMonth decimal.Decimal) Contribution {
	t := sc.Ruleset.Pagibig
	base := monthlyGross
	if !t.FundSalaryCeiling.IsZero() && base.GreaterThan(t.FundSalaryCeiling) {
		base = t.FundSalaryCeiling
	}

	return Contribution{
		Employee: Round4(base.Mul(t.EmployeeRate).Div(periodsPerMonth)),
		Employer: Round4(base.Mul(t.EmployerRate).Div(periodsPerMonth)),
	}
}
