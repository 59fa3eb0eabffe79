/*
Package engine computes Philippine statutory payroll.

PURPOSE:
  This package contains the pure computation core: it turns a wage profile,
  per-day attendance facts, and a versioned statutory ruleset into a
  ComputedPayslip with categorized, ordered line items, government
  contributions (SSS / PhilHealth / Pag-IBIG), and TRAIN-law withholding tax.

KEY CONCEPTS IN THIS FILE (types.go):
  - PayProfile: The wage contract (wage type, base rate, eligibility flags)
  - AttendanceDayInput: One calendar day of attendance facts
  - PayPeriod: The pay-period boundary and its position in the tax year
  - PayslipLine: An immutable, categorized output line
  - ComputedPayslip: The complete result for one employee and period

DESIGN PRINCIPLES:
  1. Purity: No I/O, no clocks, no hidden state. Same inputs, same payslip.
  2. Precision: decimal.Decimal everywhere; fixed rounding points (money.go).
  3. Immutability: Lines are append-only; inputs are never mutated.
  4. Explicit carry-forward: YTD figures flow in via PreviousYTD, never via
     state kept between computations.

USAGE:
  eng := engine.New(statutory.DefaultRuleset())
  payslip, err := eng.ComputePayslip(input, period)

SEE ALSO:
  - rates.go: Derived rate calculation and per-day override resolution
  - lines.go: Line generation rules
  - compute.go: Orchestration and batch runs
*/
package engine

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// WAGE PROFILE
// =============================================================================

// WageType determines which base the profile's BaseRate expresses.
type WageType string

const (
	WageMonthly WageType = "MONTHLY"
	WageDaily   WageType = "DAILY"
	WageHourly  WageType = "HOURLY"
)

// PayProfile is the wage contract for one employee. Immutable per
// computation; the engine snapshots it into the payslip it produces.
type PayProfile struct {
	WageType WageType
	BaseRate decimal.Decimal

	// Standard schedule used to derive the other rate bases.
	WorkDaysPerMonth decimal.Decimal
	HoursPerDay      decimal.Decimal

	// Eligibility flags.
	OvertimeEligible  bool
	NightDiffEligible bool
	BenefitsEligible  bool

	// Monthly allowance amounts, divided across the month's pay periods.
	// De minimis is non-taxable up to the ruleset's legal ceiling.
	DeMinimisAllowance decimal.Decimal
	OtherAllowance     decimal.Decimal
}

// StandardDayMinutes returns the standard working minutes of one day.
func (p PayProfile) StandardDayMinutes() decimal.Decimal {
	return p.HoursPerDay.Mul(d60)
}

// =============================================================================
// EMPLOYMENT / REGULARIZATION
// =============================================================================

type EmploymentType string

const (
	EmploymentRegular      EmploymentType = "REGULAR"
	EmploymentProbationary EmploymentType = "PROBATIONARY"
	EmploymentContractual  EmploymentType = "CONTRACTUAL"
)

// Regularization carries the facts statutory eligibility depends on.
// Probationary and contractual employees are excluded from contributions
// until a regularization date on or before the period end exists.
type Regularization struct {
	EmploymentType     EmploymentType
	RegularizationDate *time.Time
}

// =============================================================================
// PAY PERIOD
// =============================================================================

// PayFrequency determines periods-per-month and the tax-year denominator.
type PayFrequency string

const (
	FrequencyMonthly     PayFrequency = "MONTHLY"
	FrequencySemiMonthly PayFrequency = "SEMI_MONTHLY"
	FrequencyWeekly      PayFrequency = "WEEKLY"
)

// PeriodsPerMonth returns how many pay periods fall in one calendar month.
func (f PayFrequency) PeriodsPerMonth() decimal.Decimal {
	switch f {
	case FrequencySemiMonthly:
		return decimal.NewFromInt(2)
	case FrequencyWeekly:
		return decimal.NewFromInt(4)
	default:
		return decimal.NewFromInt(1)
	}
}

// PeriodsPerYear returns the tax-year denominator for the cumulative
// projection method.
func (f PayFrequency) PeriodsPerYear() decimal.Decimal {
	switch f {
	case FrequencySemiMonthly:
		return decimal.NewFromInt(24)
	case FrequencyWeekly:
		return decimal.NewFromInt(52)
	default:
		return decimal.NewFromInt(12)
	}
}

// PayPeriod bounds one payroll computation.
type PayPeriod struct {
	Start   time.Time
	End     time.Time
	Cutoff  time.Time
	PayDate time.Time

	// PeriodNumber is the 1-based index within the tax year.
	PeriodNumber int
	Frequency    PayFrequency
}

// =============================================================================
// ATTENDANCE DAY - per-day facts produced by the attendance layer
// =============================================================================

// AttendanceDayInput is one calendar day of attendance facts, consumed
// read-only. Minute buckets are mutually exclusive by construction upstream
// (see AttendanceTimeCalculator in attendance.go).
type AttendanceDayInput struct {
	Date    time.Time
	DayType DayType

	WorkedMinutes    int
	LateMinutes      int
	UndertimeMinutes int
	AbsentMinutes    int

	// Approved overtime buckets on regular working days; on holiday day
	// types the early-in/late-out buckets feed the holiday OT category.
	EarlyInOTMinutes int
	LateOutOTMinutes int
	BreakOTMinutes   int
	EarlyInApproved  bool
	LateOutApproved  bool

	// Overtime on rest days is auto-approved.
	RestDayOTMinutes int
	// Extra holiday OT recorded by the attendance layer beyond the
	// early-in/late-out buckets.
	HolidayOTMinutes int

	NightDiffMinutes int

	// DailyRateOverride, when positive, replaces the daily rate for this
	// day's earnings and deductions. It never touches MSC or monthly rate.
	DailyRateOverride *decimal.Decimal

	// IsPaidLeave marks the day as a paid leave day: it counts as a work
	// day for basic pay even with zero worked minutes.
	IsPaidLeave bool
}

// =============================================================================
// ADJUSTMENTS
// =============================================================================

// ManualAdjustment is an ad hoc earning or deduction, applied verbatim.
type ManualAdjustment struct {
	Description string
	Amount      decimal.Decimal
	IsDeduction bool
}

// PenaltyDeduction is one installment of a penalty, applied verbatim.
type PenaltyDeduction struct {
	Description string
	Amount      decimal.Decimal
}

// =============================================================================
// LINE CATEGORIES - closed set with fixed sort order
// =============================================================================

// LineCategory is the closed set of payslip line categories. Downstream
// rendering depends on the fixed sort order, so new categories must be
// added to all three tables below.
type LineCategory string

const (
	// Earnings (sort 100-800)
	CategoryBasicPay       LineCategory = "BASIC_PAY"
	CategoryOTRegular      LineCategory = "OVERTIME_REGULAR"
	CategoryOTRestDay      LineCategory = "OVERTIME_REST_DAY"
	CategoryOTHoliday      LineCategory = "OVERTIME_HOLIDAY"
	CategoryNightDiff      LineCategory = "NIGHT_DIFFERENTIAL"
	CategoryHolidayPay     LineCategory = "HOLIDAY_PAY"
	CategoryRestDayPay     LineCategory = "REST_DAY_PAY"
	CategoryAllowance      LineCategory = "ALLOWANCE"
	CategoryAdjustmentAdd  LineCategory = "ADJUSTMENT_ADD"

	// Deductions (sort 1000-1500)
	CategorySSSEmployee        LineCategory = "SSS_EE"
	CategoryPhilHealthEmployee LineCategory = "PHILHEALTH_EE"
	CategoryPagibigEmployee    LineCategory = "PAGIBIG_EE"
	CategoryTaxWithholding     LineCategory = "TAX_WITHHOLDING"
	CategoryLateUndertime      LineCategory = "LATE_UT_DEDUCTION"
	CategoryAbsent             LineCategory = "ABSENT_DEDUCTION"
	CategoryPenalty            LineCategory = "PENALTY_DEDUCTION"
	CategoryAdjustmentDeduct   LineCategory = "ADJUSTMENT_DEDUCT"
	CategoryOtherDeduction     LineCategory = "OTHER_DEDUCTION"

	// Employer shares: reported on the payslip, excluded from both totals.
	CategorySSSEmployer        LineCategory = "SSS_ER"
	CategoryPhilHealthEmployer LineCategory = "PHILHEALTH_ER"
	CategoryPagibigEmployer    LineCategory = "PAGIBIG_ER"
)

// LineKind classifies how a category contributes to totals.
type LineKind int

const (
	KindEarning LineKind = iota
	KindDeduction
	KindEmployerShare
)

var categorySortOrder = map[LineCategory]int{
	CategoryBasicPay:      100,
	CategoryOTRegular:     200,
	CategoryOTRestDay:     250,
	CategoryOTHoliday:     300,
	CategoryNightDiff:     400,
	CategoryHolidayPay:    500,
	CategoryRestDayPay:    600,
	CategoryAllowance:     700,
	CategoryAdjustmentAdd: 800,

	CategorySSSEmployee:        1000,
	CategoryPhilHealthEmployee: 1050,
	CategoryPagibigEmployee:    1100,
	CategoryTaxWithholding:     1150,
	CategoryLateUndertime:      1200,
	CategoryAbsent:             1250,
	CategoryPenalty:            1300,
	CategoryAdjustmentDeduct:   1350,
	CategoryOtherDeduction:     1400,

	CategorySSSEmployer:        1450,
	CategoryPhilHealthEmployer: 1460,
	CategoryPagibigEmployer:    1470,
}

var categoryKind = map[LineCategory]LineKind{
	CategoryBasicPay:      KindEarning,
	CategoryOTRegular:     KindEarning,
	CategoryOTRestDay:     KindEarning,
	CategoryOTHoliday:     KindEarning,
	CategoryNightDiff:     KindEarning,
	CategoryHolidayPay:    KindEarning,
	CategoryRestDayPay:    KindEarning,
	CategoryAllowance:     KindEarning,
	CategoryAdjustmentAdd: KindEarning,

	CategorySSSEmployee:        KindDeduction,
	CategoryPhilHealthEmployee: KindDeduction,
	CategoryPagibigEmployee:    KindDeduction,
	CategoryTaxWithholding:     KindDeduction,
	CategoryLateUndertime:      KindDeduction,
	CategoryAbsent:             KindDeduction,
	CategoryPenalty:            KindDeduction,
	CategoryAdjustmentDeduct:   KindDeduction,
	CategoryOtherDeduction:     KindDeduction,

	CategorySSSEmployer:        KindEmployerShare,
	CategoryPhilHealthEmployer: KindEmployerShare,
	CategoryPagibigEmployer:    KindEmployerShare,
}

// SortOrder returns the fixed rendering order for the category.
func (c LineCategory) SortOrder() int { return categorySortOrder[c] }

// Kind returns whether the category is an earning, a deduction, or a
// reported employer share.
func (c LineCategory) Kind() LineKind { return categoryKind[c] }

// Valid reports membership in the closed category set.
func (c LineCategory) Valid() bool {
	_, ok := categorySortOrder[c]
	return ok
}

// =============================================================================
// PAYSLIP LINE - append-only output
// =============================================================================

// PayslipLine is one computed line item. Lines are never mutated after
// creation; Amount is rounded to 2 decimal places on emission.
type PayslipLine struct {
	Category    LineCategory
	Description string

	// Optional computation detail for rendering.
	Quantity   *decimal.Decimal
	Rate       *decimal.Decimal
	Multiplier *decimal.Decimal

	Amount    decimal.Decimal
	SortOrder int
	RuleCode  string
}

// NewLine builds a line with the category's fixed sort order and a
// 2-decimal amount.
func NewLine(category LineCategory, description string, amount decimal.Decimal, ruleCode string) PayslipLine {
	return PayslipLine{
		Category:    category,
		Description: description,
		Amount:      Round2(amount),
		SortOrder:   category.SortOrder(),
		RuleCode:    ruleCode,
	}
}

// =============================================================================
// STATUTORY BREAKDOWN AND YEAR-TO-DATE
// =============================================================================

// StatutoryBreakdown reports both shares of each contribution plus the
// withholding tax for the period. Only employee shares reduce net pay.
type StatutoryBreakdown struct {
	SSSEmployee        decimal.Decimal
	SSSEmployer        decimal.Decimal
	PhilHealthEmployee decimal.Decimal
	PhilHealthEmployer decimal.Decimal
	PagibigEmployee    decimal.Decimal
	PagibigEmployer    decimal.Decimal
	WithholdingTax     decimal.Decimal
}

// EmployeeTotal sums the employee-side contributions (excluding tax).
func (s StatutoryBreakdown) EmployeeTotal() decimal.Decimal {
	return s.SSSEmployee.Add(s.PhilHealthEmployee).Add(s.PagibigEmployee)
}

// YearToDate is the explicit carry-forward snapshot. The engine never keeps
// cross-period state; callers pass the previous snapshot in and receive the
// rolled-forward one back.
type YearToDate struct {
	Gross          decimal.Decimal
	TaxableIncome  decimal.Decimal
	TaxWithheld    decimal.Decimal
	SSSEmployee    decimal.Decimal
	PhilHealthEE   decimal.Decimal
	PagibigEE      decimal.Decimal
	NetPay         decimal.Decimal
}

// =============================================================================
// COMPUTED PAYSLIP
// =============================================================================

// ComputedPayslip is the complete output for one employee and pay period.
// Created fresh on every computation.
type ComputedPayslip struct {
	ID         string
	EmployeeID string
	Period     PayPeriod

	Lines []PayslipLine

	GrossPay        decimal.Decimal
	TotalEarnings   decimal.Decimal
	TotalDeductions decimal.Decimal
	NetPay          decimal.Decimal

	Statutory StatutoryBreakdown
	YTD       YearToDate

	// ProfileSnapshot records the exact wage profile the computation used.
	ProfileSnapshot PayProfile
}
