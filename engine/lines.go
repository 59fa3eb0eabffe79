/*
lines.go - Payslip line generation rules

PURPOSE:
  Turns aggregated attendance days and resolved rates into categorized,
  orderable payslip lines. Every rule resolves the day's EFFECTIVE rates
  via DayRates, so a pay period mixing standard and override days emits
  grouped lines per distinct rate instead of one blended amount.

DOUBLE-COUNT GUARDS (the rules that keep the arithmetic honest):
  - Basic pay counts leave days and worked non-holiday days only. Work on
    a holiday is paid through the holiday premium line at the holiday
    multiplier, never through basic pay as well.
  - Holiday premium pays at most the standard daily minutes; minutes beyond
    the standard day belong to the holiday-OT category at the higher OT
    multiplier. One minute, one rate.
  - Rest-day premium is likewise capped at the standard day; the excess is
    rest-day overtime.
  - Lateness / early-in OT and undertime / late-out OT are mutually
    exclusive buckets by construction (attendance.go).

OVERTIME APPROVAL:
  Regular and holiday OT count only explicitly approved early-in/late-out
  minutes (plus recorded break-OT / holiday-OT buckets). Rest-day OT is
  auto-approved: showing up on a rest day is itself the approval. No OT of
  any kind is paid on a day with zero worked minutes.

SEE ALSO:
  - rates.go: DayRates override resolution
  - compute.go: calls these generators in fixed order
*/
package engine

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// LineGenerator emits payslip lines for one employee's period.
type LineGenerator struct {
	Profile     PayProfile
	Standard    DerivedRates
	Multipliers MultiplierTable
}

// NewLineGenerator builds a generator over resolved standard rates.
func NewLineGenerator(profile PayProfile, standard DerivedRates, multipliers MultiplierTable) *LineGenerator {
	return &LineGenerator{Profile: profile, Standard: standard, Multipliers: multipliers}
}

func (g *LineGenerator) dayRates(day AttendanceDayInput) DerivedRates {
	return DayRates(g.Standard, g.Profile.HoursPerDay, day.DailyRateOverride)
}

// isWorkDay decides whether the day earns basic pay: paid leave always,
// otherwise any day with worked minutes that is not a holiday type.
func isWorkDay(day AttendanceDayInput) bool {
	if day.IsPaidLeave {
		return true
	}
	return day.WorkedMinutes > 0 && !day.DayType.IsHoliday()
}

// =============================================================================
// BASIC PAY - grouped by effective daily rate
// =============================================================================

// BasicPayLines sums the daily rate over work days, grouped by effective
// rate so override days render as their own line. Group order is first
// appearance in the period, which is deterministic for identical inputs.
func (g *LineGenerator) BasicPayLines(days []AttendanceDayInput) []PayslipLine {
	type group struct {
		rate decimal.Decimal
		days int
	}
	var order []string
	groups := make(map[string]*group)

	for _, day := range days {
		if !isWorkDay(day) {
			continue
		}
		rate := g.dayRates(day).Daily
		key := rate.String()
		if _, ok := groups[key]; !ok {
			groups[key] = &group{rate: rate}
			order = append(order, key)
		}
		groups[key].days++
	}

	var lines []PayslipLine
	for _, key := range order {
		grp := groups[key]
		count := decimal.NewFromInt(int64(grp.days))
		amount := Round4(grp.rate.Mul(count))

		code := "BP-STD"
		if !grp.rate.Equal(g.Standard.Daily) {
			code = "BP-OVR"
		}
		line := NewLine(CategoryBasicPay,
			fmt.Sprintf("Basic Pay (%d days @ %s)", grp.days, grp.rate.StringFixed(2)),
			amount, code)
		line.Quantity = &count
		line.Rate = &grp.rate
		lines = append(lines, line)
	}
	return lines
}

// =============================================================================
// LATE / UNDERTIME AND ABSENCES
// =============================================================================

// LateUndertimeLine emits the single combined late/undertime deduction:
// each day's minute rate times its late plus undertime minutes.
func (g *LineGenerator) LateUndertimeLine(days []AttendanceDayInput) (PayslipLine, bool) {
	total := decimal.Zero
	minutes := 0
	for _, day := range days {
		m := day.LateMinutes + day.UndertimeMinutes
		if m == 0 {
			continue
		}
		minutes += m
		total = Round4(total.Add(g.dayRates(day).Minute.Mul(FromMinutes(m))))
	}
	if total.IsZero() {
		return PayslipLine{}, false
	}

	qty := FromMinutes(minutes)
	line := NewLine(CategoryLateUndertime,
		fmt.Sprintf("Late / Undertime (%d mins)", minutes), total, "LUT")
	line.Quantity = &qty
	return line, true
}

// AbsentLine deducts absences for MONTHLY profiles only. Daily and hourly
// employees are inherently unpaid for absent days: their basic pay already
// counts only days present.
func (g *LineGenerator) AbsentLine(days []AttendanceDayInput) (PayslipLine, bool) {
	if g.Profile.WageType != WageMonthly {
		return PayslipLine{}, false
	}

	total := decimal.Zero
	minutes := 0
	for _, day := range days {
		if day.AbsentMinutes == 0 {
			continue
		}
		minutes += day.AbsentMinutes
		total = Round4(total.Add(g.dayRates(day).Minute.Mul(FromMinutes(day.AbsentMinutes))))
	}
	if total.IsZero() {
		return PayslipLine{}, false
	}

	qty := FromMinutes(minutes)
	line := NewLine(CategoryAbsent,
		fmt.Sprintf("Absences (%d mins)", minutes), total, "ABS")
	line.Quantity = &qty
	return line, true
}

// =============================================================================
// OVERTIME - four categories by day type
// =============================================================================

// approvedRegularOT sums the approved OT buckets used on regular working
// days and on holidays (where they feed the holiday OT category instead).
func approvedRegularOT(day AttendanceDayInput) int {
	m := day.BreakOTMinutes
	if day.EarlyInApproved {
		m += day.EarlyInOTMinutes
	}
	if day.LateOutApproved {
		m += day.LateOutOTMinutes
	}
	return m
}

// OvertimeLines emits up to four overtime lines. OT minutes on a day with
// zero worked minutes are ignored regardless of stored fields.
func (g *LineGenerator) OvertimeLines(days []AttendanceDayInput) []PayslipLine {
	if !g.Profile.OvertimeEligible {
		return nil
	}

	type bucket struct {
		amount  decimal.Decimal
		minutes int
	}
	var regular, restDay, regHoliday, spcHoliday bucket

	for _, day := range days {
		if day.WorkedMinutes == 0 {
			continue
		}
		rates := g.dayRates(day)
		mult := g.Multipliers.ForOvertime(day.DayType)

		add := func(b *bucket, minutes int) {
			if minutes <= 0 {
				return
			}
			hours := MinutesToHours(FromMinutes(minutes))
			b.amount = Round4(b.amount.Add(rates.Hourly.Mul(hours).Mul(mult)))
			b.minutes += minutes
		}

		switch {
		case day.DayType == RestDay:
			add(&restDay, day.RestDayOTMinutes)
		case day.DayType == RegularHoliday || day.DayType == RegularHolidayRestDay:
			add(&regHoliday, day.HolidayOTMinutes+approvedRegularOT(day))
		case day.DayType == SpecialHoliday || day.DayType == SpecialHolidayRestDay:
			add(&spcHoliday, day.HolidayOTMinutes+approvedRegularOT(day))
		default:
			add(&regular, approvedRegularOT(day))
		}
	}

	var lines []PayslipLine
	emit := func(category LineCategory, b bucket, mult decimal.Decimal, label, code string) {
		if b.amount.IsZero() {
			return
		}
		qty := FromMinutes(b.minutes)
		line := NewLine(category,
			fmt.Sprintf("%s (%d mins @ %s%%)", label, b.minutes, mult.Mul(dHundred).StringFixed(0)),
			b.amount, code)
		line.Quantity = &qty
		line.Multiplier = &mult
		lines = append(lines, line)
	}

	emit(CategoryOTRegular, regular, g.Multipliers.OTRegular, "Overtime", "OT-REG")
	emit(CategoryOTRestDay, restDay, g.Multipliers.OTRestDay, "Rest Day Overtime", "OT-RD")
	emit(CategoryOTHoliday, regHoliday, g.Multipliers.OTRegularHoliday, "Regular Holiday Overtime", "OT-RH")
	emit(CategoryOTHoliday, spcHoliday, g.Multipliers.OTSpecialHoliday, "Special Holiday Overtime", "OT-SH")
	return lines
}

// =============================================================================
// NIGHT DIFFERENTIAL
// =============================================================================

// NightDiffLine pays 10% of the hourly rate per night hour, override-aware
// per day.
func (g *LineGenerator) NightDiffLine(days []AttendanceDayInput) (PayslipLine, bool) {
	if !g.Profile.NightDiffEligible {
		return PayslipLine{}, false
	}

	total := decimal.Zero
	minutes := 0
	for _, day := range days {
		if day.NightDiffMinutes == 0 || day.WorkedMinutes == 0 {
			continue
		}
		minutes += day.NightDiffMinutes
		hours := MinutesToHours(FromMinutes(day.NightDiffMinutes))
		total = Round4(total.Add(g.dayRates(day).Hourly.Mul(NightDiffRate).Mul(hours)))
	}
	if total.IsZero() {
		return PayslipLine{}, false
	}

	qty := FromMinutes(minutes)
	line := NewLine(CategoryNightDiff,
		fmt.Sprintf("Night Differential (%d mins @ 10%%)", minutes), total, "ND")
	line.Quantity = &qty
	return line, true
}

// =============================================================================
// HOLIDAY AND REST-DAY PREMIUMS
// =============================================================================

// HolidayLines emits worked holiday premiums per holiday type plus the
// unworked regular-holiday entitlement. Worked minutes are capped at the
// standard day; the excess is holiday overtime, not premium.
func (g *LineGenerator) HolidayLines(days []AttendanceDayInput) []PayslipLine {
	type bucket struct {
		amount  decimal.Decimal
		minutes int
	}
	worked := make(map[DayType]*bucket)
	var workedOrder []DayType
	unworked := decimal.Zero
	unworkedDays := 0

	stdMinutes := g.Profile.StandardDayMinutes()

	for _, day := range days {
		if !day.DayType.IsHoliday() {
			continue
		}
		rates := g.dayRates(day)

		if day.WorkedMinutes > 0 {
			paid := FromMinutes(day.WorkedMinutes)
			if paid.GreaterThan(stdMinutes) {
				paid = stdMinutes
			}
			mult := g.Multipliers.ForDayType(day.DayType)
			b, ok := worked[day.DayType]
			if !ok {
				b = &bucket{}
				worked[day.DayType] = b
				workedOrder = append(workedOrder, day.DayType)
			}
			b.amount = Round4(b.amount.Add(rates.Hourly.Mul(MinutesToHours(paid)).Mul(mult)))
			b.minutes += int(paid.IntPart())
			continue
		}

		// No work: regular holidays still pay the full daily rate.
		if day.DayType.PaidIfNotWorked() {
			unworked = Round4(unworked.Add(rates.Daily))
			unworkedDays++
		}
	}

	var lines []PayslipLine
	for _, dt := range workedOrder {
		b := worked[dt]
		mult := g.Multipliers.ForDayType(dt)
		qty := FromMinutes(b.minutes)
		line := NewLine(CategoryHolidayPay,
			fmt.Sprintf("%s Pay (%d mins @ %s%%)", holidayLabel(dt), b.minutes, mult.Mul(dHundred).StringFixed(0)),
			b.amount, holidayRuleCode(dt))
		line.Quantity = &qty
		line.Multiplier = &mult
		lines = append(lines, line)
	}
	if unworkedDays > 0 {
		qty := decimal.NewFromInt(int64(unworkedDays))
		line := NewLine(CategoryHolidayPay,
			fmt.Sprintf("Regular Holiday Pay - Unworked (%d days)", unworkedDays),
			unworked, "HOL-RH-UW")
		line.Quantity = &qty
		lines = append(lines, line)
	}
	return lines
}

func holidayLabel(dt DayType) string {
	switch dt {
	case RegularHoliday:
		return "Regular Holiday"
	case SpecialHoliday:
		return "Special Holiday"
	case RegularHolidayRestDay:
		return "Regular Holiday on Rest Day"
	case SpecialHolidayRestDay:
		return "Special Holiday on Rest Day"
	default:
		return string(dt)
	}
}

func holidayRuleCode(dt DayType) string {
	switch dt {
	case RegularHoliday:
		return "HOL-RH"
	case SpecialHoliday:
		return "HOL-SH"
	case RegularHolidayRestDay:
		return "HOL-RH-RD"
	case SpecialHolidayRestDay:
		return "HOL-SH-RD"
	default:
		return "HOL"
	}
}

// RestDayLine pays the 30% rest-day premium on minutes worked on a plain
// rest day, capped at the standard day. Holiday-on-rest-day combinations
// are paid via the combined holiday multiplier instead.
func (g *LineGenerator) RestDayLine(days []AttendanceDayInput) (PayslipLine, bool) {
	total := decimal.Zero
	minutes := 0
	stdMinutes := g.Profile.StandardDayMinutes()

	for _, day := range days {
		if day.DayType != RestDay || day.WorkedMinutes == 0 {
			continue
		}
		paid := FromMinutes(day.WorkedMinutes)
		if paid.GreaterThan(stdMinutes) {
			paid = stdMinutes
		}
		minutes += int(paid.IntPart())
		total = Round4(total.Add(g.dayRates(day).Hourly.Mul(MinutesToHours(paid)).Mul(RestDayPremiumRate)))
	}
	if total.IsZero() {
		return PayslipLine{}, false
	}

	qty := FromMinutes(minutes)
	line := NewLine(CategoryRestDayPay,
		fmt.Sprintf("Rest Day Premium (%d mins @ 30%%)", minutes), total, "RD-PREM")
	line.Quantity = &qty
	return line, true
}

// =============================================================================
// ALLOWANCES AND PASS-THROUGH LINES
// =============================================================================

// AllowanceLines divides the monthly allowances across the month's periods.
func (g *LineGenerator) AllowanceLines(periodsPerMonth decimal.Decimal) []PayslipLine {
	var lines []PayslipLine
	if g.Profile.DeMinimisAllowance.IsPositive() {
		amount := Round4(g.Profile.DeMinimisAllowance.Div(periodsPerMonth))
		lines = append(lines, NewLine(CategoryAllowance, "De Minimis Allowance", amount, "ALW-DM"))
	}
	if g.Profile.OtherAllowance.IsPositive() {
		amount := Round4(g.Profile.OtherAllowance.Div(periodsPerMonth))
		lines = append(lines, NewLine(CategoryAllowance, "Allowance", amount, "ALW-OTH"))
	}
	return lines
}

// AdjustmentLines passes manual adjustments through verbatim.
func (g *LineGenerator) AdjustmentLines(adjustments []ManualAdjustment) []PayslipLine {
	var lines []PayslipLine
	for _, adj := range adjustments {
		category := CategoryAdjustmentAdd
		code := "ADJ-ADD"
		if adj.IsDeduction {
			category = CategoryAdjustmentDeduct
			code = "ADJ-DED"
		}
		lines = append(lines, NewLine(category, adj.Description, adj.Amount, code))
	}
	return lines
}

// PenaltyLines passes penalty installments through verbatim.
func (g *LineGenerator) PenaltyLines(penalties []PenaltyDeduction) []PayslipLine {
	var lines []PayslipLine
	for _, p := range penalties {
		lines = append(lines, NewLine(CategoryPenalty, p.Description, p.Amount, "PEN"))
	}
	return lines
}
