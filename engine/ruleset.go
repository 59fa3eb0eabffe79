/*
ruleset.go - Versioned statutory table data

PURPOSE:
  Defines the data shapes of the statutory tables the engine computes from.
  Tables are DATA, not code: a payroll run is supplied a Ruleset (or falls
  back to the caller's default), so bracket revisions never require engine
  changes.

TABLE SHAPES:
  SSS:        bracket array with explicit min/max salary boundaries and
              fixed employee/employer amounts per bracket
  PhilHealth: single rate with salary floor and ceiling, split 50/50
  Pag-IBIG:   employee/employer rates with a fund-salary ceiling
  Tax:        annual income brackets with base tax + rate on excess
  Multipliers: day-type and overtime multiplier table

SEE ALSO:
  - statutory.go: contribution lookups against these tables
  - tax.go: cumulative-projection withholding using TaxBrackets
  - statutory/tables.go: current Philippine presets
  - factory/ruleset.go: JSON parsing for swappable versions
*/
package engine

import "github.com/shopspring/decimal"

// =============================================================================
// CONTRIBUTION TABLES
// =============================================================================

// SSSBracket is one row of the SSS contribution schedule. A monthly gross
// in [MinSalary, MaxSalary] maps to the bracket's fixed monthly shares.
type SSSBracket struct {
	MinSalary     decimal.Decimal
	MaxSalary     decimal.Decimal // zero max on the last bracket means open-ended
	MSC           decimal.Decimal // the bracket's Monthly Salary Credit
	EmployeeShare decimal.Decimal
	EmployerShare decimal.Decimal
}

// Contains reports whether the monthly gross falls in this bracket.
func (b SSSBracket) Contains(monthlyGross decimal.Decimal) bool {
	if monthlyGross.LessThan(b.MinSalary) {
		return false
	}
	if b.MaxSalary.IsZero() {
		return true
	}
	return monthlyGross.LessThanOrEqual(b.MaxSalary)
}

// PhilHealthTable is the flat-rate premium schedule: Rate applied to the
// monthly basic clamped to [SalaryFloor, SalaryCeiling], split equally
// between employee and employer.
type PhilHealthTable struct {
	Rate          decimal.Decimal
	SalaryFloor   decimal.Decimal
	SalaryCeiling decimal.Decimal
}

// PagibigTable is the Pag-IBIG (HDMF) schedule: rates applied to the fund
// salary capped at FundSalaryCeiling.
type PagibigTable struct {
	EmployeeRate      decimal.Decimal
	EmployerRate      decimal.Decimal
	FundSalaryCeiling decimal.Decimal
}

// =============================================================================
// WITHHOLDING TAX TABLE
// =============================================================================

// TaxBracket is one graduated annual bracket: tax = BaseTax +
// RateOnExcess x (income - MinAnnual). Zero MaxAnnual on the last bracket
// means open-ended.
type TaxBracket struct {
	MinAnnual    decimal.Decimal
	MaxAnnual    decimal.Decimal
	BaseTax      decimal.Decimal
	RateOnExcess decimal.Decimal
}

// Contains reports whether the annual income falls in this bracket.
func (b TaxBracket) Contains(annual decimal.Decimal) bool {
	if annual.LessThan(b.MinAnnual) {
		return false
	}
	if b.MaxAnnual.IsZero() {
		return true
	}
	return annual.LessThan(b.MaxAnnual)
}

// =============================================================================
// MULTIPLIER TABLE
// =============================================================================

// MultiplierTable carries the DOLE premium and overtime multipliers.
// Day-type multipliers apply to worked holiday/rest-day minutes; OT
// multipliers apply to approved overtime minutes of each category.
type MultiplierTable struct {
	RegularWorkingDay     decimal.Decimal
	RestDay               decimal.Decimal
	SpecialHoliday        decimal.Decimal
	RegularHoliday        decimal.Decimal
	SpecialHolidayRestDay decimal.Decimal
	RegularHolidayRestDay decimal.Decimal

	OTRegular        decimal.Decimal
	OTRestDay        decimal.Decimal
	OTSpecialHoliday decimal.Decimal
	OTRegularHoliday decimal.Decimal
}

// ForDayType returns the premium multiplier for worked minutes on the day.
func (m MultiplierTable) ForDayType(dt DayType) decimal.Decimal {
	switch dt {
	case RestDay:
		return m.RestDay
	case SpecialHoliday:
		return m.SpecialHoliday
	case RegularHoliday:
		return m.RegularHoliday
	case SpecialHolidayRestDay:
		return m.SpecialHolidayRestDay
	case RegularHolidayRestDay:
		return m.RegularHolidayRestDay
	default:
		return m.RegularWorkingDay
	}
}

// ForOvertime returns the overtime multiplier for the day's OT category.
func (m MultiplierTable) ForOvertime(dt DayType) decimal.Decimal {
	switch dt {
	case RestDay:
		return m.OTRestDay
	case SpecialHoliday, SpecialHolidayRestDay:
		return m.OTSpecialHoliday
	case RegularHoliday, RegularHolidayRestDay:
		return m.OTRegularHoliday
	default:
		return m.OTRegular
	}
}

// =============================================================================
// RULESET - versioned bundle supplied per payroll run
// =============================================================================

// Ruleset bundles the statutory tables for one revision of the rules.
type Ruleset struct {
	Version string

	SSS         []SSSBracket
	PhilHealth  PhilHealthTable
	Pagibig     PagibigTable
	TaxBrackets []TaxBracket
	Multipliers MultiplierTable

	// DeMinimisMonthlyCap is the legal non-taxable ceiling for de minimis
	// allowances, per month. Amounts above the cap are taxable in
	// full-earnings mode.
	DeMinimisMonthlyCap decimal.Decimal
}
