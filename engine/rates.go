/*
rates.go - Wage rate derivation and per-day override resolution

PURPOSE:
  Derives the four rate bases (monthly, daily, hourly, minute) plus the
  Monthly Salary Credit from a wage profile, and resolves the effective
  rates for a specific day when the attendance record overrides the daily
  rate.

KEY INVARIANTS:
  hourlyRate = dailyRate / standardHoursPerDay
  minuteRate = hourlyRate / 60
  msc        = standard dailyRate x 26   (for every wage type)

  A per-day override rebuilds dailyRate/hourlyRate/minuteRate from the
  override value but COPIES msc and monthlyRate from the standard rates:
  overrides reshape that day's earnings and deductions, never the
  statutory or tax base.

SEE ALSO:
  - lines.go: uses DayRates per attendance day
  - statutory.go: uses MSC as the contribution base
*/
package engine

import "github.com/shopspring/decimal"

// =============================================================================
// DERIVED RATES
// =============================================================================

// DerivedRates holds the rate bases for one profile (or one day, when a
// daily override is in effect). Computed once, never mutated.
type DerivedRates struct {
	Monthly decimal.Decimal
	Daily   decimal.Decimal
	Hourly  decimal.Decimal
	Minute  decimal.Decimal

	// MSC is the Monthly Salary Credit: the statutory base for SSS,
	// PhilHealth, and Pag-IBIG. Always standard dailyRate x 26.
	MSC decimal.Decimal
}

// CalculateDerivedRates derives all rate bases from the profile, branching
// on wage type to fill the missing bases. Unknown wage types are fatal for
// the employee's computation.
func CalculateDerivedRates(profile PayProfile) (DerivedRates, error) {
	if profile.WorkDaysPerMonth.IsZero() || profile.HoursPerDay.IsZero() {
		return DerivedRates{}, &ProfileError{
			Field:  "schedule",
			Reason: "work days per month and hours per day must be positive",
		}
	}

	var monthly, daily, hourly decimal.Decimal
	switch profile.WageType {
	case WageMonthly:
		monthly = profile.BaseRate
		daily = monthly.Div(profile.WorkDaysPerMonth)
		hourly = daily.Div(profile.HoursPerDay)
	case WageDaily:
		daily = profile.BaseRate
		monthly = daily.Mul(profile.WorkDaysPerMonth)
		hourly = daily.Div(profile.HoursPerDay)
	case WageHourly:
		hourly = profile.BaseRate
		daily = hourly.Mul(profile.HoursPerDay)
		monthly = daily.Mul(profile.WorkDaysPerMonth)
	default:
		return DerivedRates{}, &UnknownWageTypeError{WageType: profile.WageType}
	}

	return DerivedRates{
		Monthly: Round4(monthly),
		Daily:   Round4(daily),
		Hourly:  Round4(hourly),
		Minute:  Round4(hourly.Div(d60)),
		MSC:     Round4(daily.Mul(d26)),
	}, nil
}

// DayRates resolves the effective rates for one day. When override is a
// positive amount it becomes that day's daily rate, with hourly and minute
// rates rebuilt from it; monthly and MSC are copied unchanged from the
// standard rates. A nil or non-positive override returns the standard
// rates as-is.
func DayRates(standard DerivedRates, hoursPerDay decimal.Decimal, override *decimal.Decimal) DerivedRates {
	if override == nil || !override.IsPositive() {
		return standard
	}

	hourly := override.Div(hoursPerDay)
	return DerivedRates{
		Monthly: standard.Monthly,
		Daily:   Round4(*override),
		Hourly:  Round4(hourly),
		Minute:  Round4(hourly.Div(d60)),
		MSC:     standard.MSC,
	}
}

// StatutoryBase returns the monthly gross used for contribution lookups:
// the profile's MSC, or an MSC-equivalent built from an explicit statutory
// override wage (a daily-rate-equivalent amount, mapped through the same
// x 26 pipeline as the standard base).
func StatutoryBase(standard DerivedRates, statutoryOverride *decimal.Decimal) decimal.Decimal {
	if statutoryOverride == nil || !statutoryOverride.IsPositive() {
		return standard.MSC
	}
	return Round4(statutoryOverride.Mul(d26))
}
