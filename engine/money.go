/*
money.go - Decimal helpers and rounding rules

PURPOSE:
  All monetary values in the engine are decimal.Decimal. This file defines
  the two rounding granularities the engine uses and small helpers shared
  by every component.

ROUNDING RULES:
  Round4: applied after every accumulation step (rates, per-day amounts,
          running totals). Keeps intermediate precision stable so repeated
          folds produce identical results regardless of grouping.
  Round2: applied once, on emitted payslip line amounts and final totals.

  Both are half-up. Identical inputs must always produce byte-identical
  payslips, so rounding happens at fixed points, never ad hoc.

SEE ALSO:
  - lines.go: Round2 on line emission
  - compute.go: Round4 on accumulation, Round2 on totals
*/
package engine

import "github.com/shopspring/decimal"

// =============================================================================
// SHARED CONSTANTS
// =============================================================================

var (
	d60      = decimal.NewFromInt(60)
	d26      = decimal.NewFromInt(26)
	dHundred = decimal.NewFromInt(100)

	// NightDiffRate is the statutory night differential premium: 10% of the
	// hourly rate per hour worked between 10PM and 6AM.
	NightDiffRate = decimal.NewFromFloat(0.10)

	// RestDayPremiumRate is the additional premium on minutes worked on a
	// rest day: 30% on top of the regular rate.
	RestDayPremiumRate = decimal.NewFromFloat(0.30)
)

// =============================================================================
// ROUNDING
// =============================================================================

// Round4 rounds to 4 decimal places, half-up. Used on every accumulation step.
func Round4(d decimal.Decimal) decimal.Decimal { return d.Round(4) }

// Round2 rounds to 2 decimal places, half-up. Used on emitted line amounts.
func Round2(d decimal.Decimal) decimal.Decimal { return d.Round(2) }

// ClampZero floors a value at zero. Negative computed amounts (over-adjusted
// undertime, break overrides larger than the shift break) never surface as
// negative earnings or deductions.
func ClampZero(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}

// MinutesToHours converts a minute count to fractional hours.
func MinutesToHours(minutes decimal.Decimal) decimal.Decimal {
	return minutes.Div(d60)
}

// FromMinutes builds a decimal from an integer minute count.
func FromMinutes(minutes int) decimal.Decimal {
	return decimal.NewFromInt(int64(minutes))
}
