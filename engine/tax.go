/*
tax.go - Cumulative-projection withholding tax

PURPOSE:
  Implements the BIR cumulative-projection withholding method over the
  TRAIN-law graduated annual brackets, with two taxable-base strategies.

TAXABLE-BASE MODES (a policy switch, passed as a parameter):
  TaxBasicPay (default):
    base = basic pay - late/undertime deduction - employee statutory shares
    Overtime, holiday pay, and allowances are excluded entirely.

  TaxFullEarnings (opt-in):
    base = all earning-category line amounts
         - employee statutory shares
         - non-taxable de minimis (capped at the legal ceiling, prorated
           per period)

CUMULATIVE PROJECTION:
  projectedAnnual = (ytdTaxable + currentTaxable) / periodNumber x periodsPerYear
  annualTax       = bracket lookup on projectedAnnual
  taxDueToDate    = annualTax / periodsPerYear x periodNumber
  withholding     = max(0, taxDueToDate - ytdTaxWithheld)

  The method self-corrects: an over- or under-withheld earlier period is
  absorbed by later periods as the projection converges on actual income.

NEW-HIRE RULE:
  When the employee has no prior-year-to-date taxable income, the period
  number is forced to 1 regardless of the calendar period. A new hire
  starting in July has 1 period of income, not 13; using the calendar
  index would project an annual income far below reality and under-withhold.
*/
package engine

import "github.com/shopspring/decimal"

// =============================================================================
// TAX MODE
// =============================================================================

// TaxMode selects the taxable-base strategy.
type TaxMode int

const (
	TaxBasicPay TaxMode = iota
	TaxFullEarnings
)

// =============================================================================
// WITHHOLDING INPUT / RESULT
// =============================================================================

// WithholdingInput carries everything one period's withholding needs.
type WithholdingInput struct {
	Mode TaxMode

	// Basic-pay mode components.
	BasicPay      decimal.Decimal
	LateUndertime decimal.Decimal

	// Full-earnings mode components.
	TotalEarnings decimal.Decimal
	DeMinimisPaid decimal.Decimal // de minimis actually paid this period

	// Shared.
	StatutoryShares     decimal.Decimal // SSS + PhilHealth + Pag-IBIG employee shares
	YTDTaxable          decimal.Decimal
	YTDTaxWithheld      decimal.Decimal
	PeriodNumber        int
	PeriodsPerMonth     decimal.Decimal
	PeriodsPerYear      decimal.Decimal
	DeMinimisMonthlyCap decimal.Decimal
}

// WithholdingResult reports the period's withholding and its inputs for
// audit.
type WithholdingResult struct {
	TaxableBase     decimal.Decimal
	TaxPeriodNumber int
	ProjectedAnnual decimal.Decimal
	AnnualTax       decimal.Decimal
	TaxDueToDate    decimal.Decimal
	Withholding     decimal.Decimal
}

// =============================================================================
// CALCULATION
// =============================================================================

// Withholding computes the period's withholding tax with the cumulative
// projection method.
func (sc *StatutoryCalculator) Withholding(in WithholdingInput) (WithholdingResult, error) {
	if len(sc.Ruleset.TaxBrackets) == 0 {
		return WithholdingResult{}, &RulesetError{Table: "tax", Reason: "no brackets"}
	}

	base := sc.taxableBase(in)

	periodNumber := in.PeriodNumber
	if periodNumber < 1 {
		periodNumber = 1
	}
	// New-hire rule: no prior taxable income this year means this is the
	// employee's first taxed period, whatever the calendar says.
	if in.YTDTaxable.IsZero() {
		periodNumber = 1
	}
	pn := decimal.NewFromInt(int64(periodNumber))

	projected := Round4(in.YTDTaxable.Add(base).Div(pn).Mul(in.PeriodsPerYear))
	annual := sc.AnnualTax(projected)
	dueToDate := Round4(annual.Div(in.PeriodsPerYear).Mul(pn))
	withholding := ClampZero(dueToDate.Sub(in.YTDTaxWithheld))

	return WithholdingResult{
		TaxableBase:     base,
		TaxPeriodNumber: periodNumber,
		ProjectedAnnual: projected,
		AnnualTax:       annual,
		TaxDueToDate:    dueToDate,
		Withholding:     Round4(withholding),
	}, nil
}

// taxableBase applies the selected strategy.
func (sc *StatutoryCalculator) taxableBase(in WithholdingInput) decimal.Decimal {
	switch in.Mode {
	case TaxFullEarnings:
		// De minimis is non-taxable up to the legal ceiling, prorated to
		// the period; anything paid above the prorated cap stays taxable.
		exempt := in.DeMinimisPaid
		if !in.DeMinimisMonthlyCap.IsZero() && in.PeriodsPerMonth.IsPositive() {
			cap := in.DeMinimisMonthlyCap.Div(in.PeriodsPerMonth)
			if exempt.GreaterThan(cap) {
				exempt = cap
			}
		}
		return ClampZero(Round4(in.TotalEarnings.Sub(in.StatutoryShares).Sub(exempt)))
	default:
		return ClampZero(Round4(in.BasicPay.Sub(in.LateUndertime).Sub(in.StatutoryShares)))
	}
}

// AnnualTax evaluates the graduated bracket table on an annual income.
func (sc *StatutoryCalculator) AnnualTax(annualIncome decimal.Decimal) decimal.Decimal {
	for _, b := range sc.Ruleset.TaxBrackets {
		if b.Contains(annualIncome) {
			excess := annualIncome.Sub(b.MinAnnual)
			return Round4(b.BaseTax.Add(excess.Mul(b.RateOnExcess)))
		}
	}
	return decimal.Zero
}
