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

// =============================================================================
// TEST HELPERS
// =============================================================================

func newGenerator(t *testing.T, profile engine.PayProfile) *engine.LineGenerator {
	t.Helper()
	standard, err := engine.CalculateDerivedRates(profile)
	require.NoError(t, err)
	return engine.NewLineGenerator(profile, standard, statutory.DefaultMultipliers())
}

func workedDay(day int, minutes int) engine.AttendanceDayInput {
	return engine.AttendanceDayInput{
		Date:          date(2025, time.June, day),
		DayType:       engine.RegularWorkingDay,
		WorkedMinutes: minutes,
	}
}

func fullDays(start, n int) []engine.AttendanceDayInput {
	days := make([]engine.AttendanceDayInput, n)
	for i := range days {
		days[i] = workedDay(start+i, 480)
	}
	return days
}

// =============================================================================
// BASIC PAY TESTS
// =============================================================================

func TestBasicPayLines_GroupedByEffectiveRate(t *testing.T) {
	// GIVEN: daily rate 1000, 10 standard days plus 2 days overridden to 500
	// THEN: two lines, 10,000 and 1,000, total 11,000

	g := newGenerator(t, monthlyProfile(26000))
	days := fullDays(2, 10)
	override := d(500)
	for i := 0; i < 2; i++ {
		day := workedDay(16+i, 480)
		day.DailyRateOverride = &override
		days = append(days, day)
	}

	lines := g.BasicPayLines(days)
	require.Len(t, lines, 2)

	assert.Equal(t, "BP-STD", lines[0].RuleCode)
	assertDecimalEqual(t, d(10000), lines[0].Amount)
	assert.Equal(t, "BP-OVR", lines[1].RuleCode)
	assertDecimalEqual(t, d(1000), lines[1].Amount)

	total := lines[0].Amount.Add(lines[1].Amount)
	assertDecimalEqual(t, d(11000), total)
}

func TestBasicPayLines_PaidLeaveCountsWithoutWork(t *testing.T) {
	g := newGenerator(t, monthlyProfile(26000))
	days := []engine.AttendanceDayInput{
		workedDay(2, 480),
		{Date: date(2025, time.June, 3), DayType: engine.RegularWorkingDay, IsPaidLeave: true},
	}

	lines := g.BasicPayLines(days)
	require.Len(t, lines, 1)
	assertDecimalEqual(t, d(2000), lines[0].Amount)
}

func TestBasicPayLines_HolidayWorkExcluded(t *testing.T) {
	// Worked holiday minutes are paid through the holiday premium line,
	// never through basic pay too.
	g := newGenerator(t, monthlyProfile(26000))
	days := []engine.AttendanceDayInput{
		workedDay(2, 480),
		{Date: date(2025, time.June, 12), DayType: engine.RegularHoliday, WorkedMinutes: 480},
	}

	lines := g.BasicPayLines(days)
	require.Len(t, lines, 1)
	assertDecimalEqual(t, d(1000), lines[0].Amount)
}

// =============================================================================
// LATE / UNDERTIME / ABSENT TESTS
// =============================================================================

func TestLateUndertimeLine_Combined(t *testing.T) {
	g := newGenerator(t, monthlyProfile(26000))
	day1 := workedDay(2, 450)
	day1.LateMinutes = 30
	day2 := workedDay(3, 460)
	day2.UndertimeMinutes = 20

	line, ok := g.LateUndertimeLine([]engine.AttendanceDayInput{day1, day2})
	require.True(t, ok)

	// minute rate 2.0833 x 50 mins
	assertDecimalEqual(t, d(104.17), line.Amount)
	assert.Equal(t, engine.CategoryLateUndertime, line.Category)
}

func TestLateUndertimeLine_OverrideDayUsesOverrideMinuteRate(t *testing.T) {
	g := newGenerator(t, monthlyProfile(26000))
	override := d(1500)
	day := workedDay(2, 420)
	day.LateMinutes = 60
	day.DailyRateOverride = &override

	line, ok := g.LateUndertimeLine([]engine.AttendanceDayInput{day})
	require.True(t, ok)

	// 1500/8/60 = 3.125 per minute
	assertDecimalEqual(t, d(187.50), line.Amount)
}

func TestAbsentLine_MonthlyOnly(t *testing.T) {
	// GIVEN: a full absent day on a monthly and on a daily profile
	// THEN: only the monthly profile deducts; daily earns nothing to deduct from

	absent := workedDay(2, 0)
	absent.AbsentMinutes = 480

	mLine, ok := newGenerator(t, monthlyProfile(26000)).AbsentLine([]engine.AttendanceDayInput{absent})
	require.True(t, ok)
	assertDecimalEqual(t, d(999.98), mLine.Amount) // 2.0833/min x 480 mins

	daily := engine.PayProfile{
		WageType:         engine.WageDaily,
		BaseRate:         d(1000),
		WorkDaysPerMonth: d(26),
		HoursPerDay:      d(8),
	}
	_, ok = newGenerator(t, daily).AbsentLine([]engine.AttendanceDayInput{absent})
	assert.False(t, ok)
}

// =============================================================================
// OVERTIME TESTS
// =============================================================================

func TestOvertimeLines_RegularApprovedOnly(t *testing.T) {
	g := newGenerator(t, monthlyProfile(26000))
	day := workedDay(2, 480)
	day.LateOutOTMinutes = 120
	day.LateOutApproved = true
	day.EarlyInOTMinutes = 30 // not approved, must not count

	lines := g.OvertimeLines([]engine.AttendanceDayInput{day})
	require.Len(t, lines, 1)

	// 125/hr x 2h x 1.25 = 312.50
	assert.Equal(t, "OT-REG", lines[0].RuleCode)
	assertDecimalEqual(t, d(312.50), lines[0].Amount)
}

func TestOvertimeLines_ZeroWhenNoWork(t *testing.T) {
	// OT minutes on a day with zero worked minutes are data errors; pay nothing.
	g := newGenerator(t, monthlyProfile(26000))
	day := workedDay(2, 0)
	day.LateOutOTMinutes = 120
	day.LateOutApproved = true
	day.RestDayOTMinutes = 60
	day.HolidayOTMinutes = 60

	assert.Empty(t, g.OvertimeLines([]engine.AttendanceDayInput{day}))
}

func TestOvertimeLines_NotEligible(t *testing.T) {
	profile := monthlyProfile(26000)
	profile.OvertimeEligible = false
	g := newGenerator(t, profile)

	day := workedDay(2, 480)
	day.LateOutOTMinutes = 120
	day.LateOutApproved = true

	assert.Empty(t, g.OvertimeLines([]engine.AttendanceDayInput{day}))
}

func TestOvertimeLines_RegularHolidayRate(t *testing.T) {
	// GIVEN: daily 1000 (hourly 125), 60 OT minutes on a regular holiday
	// THEN: 125 x 1h x 2.60 = 325

	g := newGenerator(t, monthlyProfile(26000))
	day := engine.AttendanceDayInput{
		Date:             date(2025, time.June, 12),
		DayType:          engine.RegularHoliday,
		WorkedMinutes:    480,
		HolidayOTMinutes: 60,
	}

	lines := g.OvertimeLines([]engine.AttendanceDayInput{day})
	require.Len(t, lines, 1)
	assert.Equal(t, "OT-RH", lines[0].RuleCode)
	assertDecimalEqual(t, d(325), lines[0].Amount)
}

func TestOvertimeLines_RestDayAutoApproved(t *testing.T) {
	g := newGenerator(t, monthlyProfile(26000))
	day := engine.AttendanceDayInput{
		Date:             date(2025, time.June, 7),
		DayType:          engine.RestDay,
		WorkedMinutes:    480,
		RestDayOTMinutes: 120,
	}

	lines := g.OvertimeLines([]engine.AttendanceDayInput{day})
	require.Len(t, lines, 1)

	// 125 x 2h x 1.69 = 422.50
	assert.Equal(t, "OT-RD", lines[0].RuleCode)
	assertDecimalEqual(t, d(422.50), lines[0].Amount)
}

// =============================================================================
// NIGHT DIFFERENTIAL TESTS
// =============================================================================

func TestNightDiffLine_TenPercentOfHourly(t *testing.T) {
	profile := monthlyProfile(26000)
	profile.NightDiffEligible = true
	g := newGenerator(t, profile)

	day := workedDay(2, 480)
	day.NightDiffMinutes = 480

	line, ok := g.NightDiffLine([]engine.AttendanceDayInput{day})
	require.True(t, ok)

	// 125 x 0.10 x 8h = 100
	assertDecimalEqual(t, d(100), line.Amount)
}

func TestNightDiffLine_NotEligible(t *testing.T) {
	g := newGenerator(t, monthlyProfile(26000)) // NightDiffEligible false
	day := workedDay(2, 480)
	day.NightDiffMinutes = 480

	_, ok := g.NightDiffLine([]engine.AttendanceDayInput{day})
	assert.False(t, ok)
}

// =============================================================================
// HOLIDAY AND REST-DAY PREMIUM TESTS
// =============================================================================

func TestHolidayLines_WorkedRegularHoliday(t *testing.T) {
	g := newGenerator(t, monthlyProfile(26000))
	day := engine.AttendanceDayInput{
		Date:          date(2025, time.June, 12),
		DayType:       engine.RegularHoliday,
		WorkedMinutes: 480,
	}

	lines := g.HolidayLines([]engine.AttendanceDayInput{day})
	require.Len(t, lines, 1)

	// 125 x 8h x 2.00 = 2000
	assert.Equal(t, "HOL-RH", lines[0].RuleCode)
	assertDecimalEqual(t, d(2000), lines[0].Amount)
}

func TestHolidayLines_PremiumCappedAtStandardDay(t *testing.T) {
	// GIVEN: 600 minutes worked on a special holiday (standard day is 480)
	// THEN: premium pays 480 minutes; the rest belongs to holiday OT

	g := newGenerator(t, monthlyProfile(26000))
	day := engine.AttendanceDayInput{
		Date:          date(2025, time.August, 21),
		DayType:       engine.SpecialHoliday,
		WorkedMinutes: 600,
	}

	lines := g.HolidayLines([]engine.AttendanceDayInput{day})
	require.Len(t, lines, 1)

	// 125 x 8h x 1.30 = 1300, not 125 x 10h x 1.30
	assertDecimalEqual(t, d(1300), lines[0].Amount)
}

func TestHolidayLines_UnworkedRegularHolidayStillPays(t *testing.T) {
	g := newGenerator(t, monthlyProfile(26000))
	days := []engine.AttendanceDayInput{
		{Date: date(2025, time.June, 12), DayType: engine.RegularHoliday},
		{Date: date(2025, time.August, 21), DayType: engine.SpecialHoliday}, // unworked, unpaid
	}

	lines := g.HolidayLines(days)
	require.Len(t, lines, 1)
	assert.Equal(t, "HOL-RH-UW", lines[0].RuleCode)
	assertDecimalEqual(t, d(1000), lines[0].Amount)
}

func TestRestDayLine_ThirtyPercentPremium(t *testing.T) {
	g := newGenerator(t, monthlyProfile(26000))
	day := engine.AttendanceDayInput{
		Date:          date(2025, time.June, 7),
		DayType:       engine.RestDay,
		WorkedMinutes: 480,
	}

	line, ok := g.RestDayLine([]engine.AttendanceDayInput{day})
	require.True(t, ok)

	// 125 x 8h x 0.30 = 300
	assertDecimalEqual(t, d(300), line.Amount)
}

func TestRestDayLine_HolidayCombosExcluded(t *testing.T) {
	// Holiday-on-rest-day is paid by the combined holiday multiplier instead
	g := newGenerator(t, monthlyProfile(26000))
	day := engine.AttendanceDayInput{
		Date:          date(2025, time.June, 1),
		DayType:       engine.RegularHolidayRestDay,
		WorkedMinutes: 480,
	}

	_, ok := g.RestDayLine([]engine.AttendanceDayInput{day})
	assert.False(t, ok)
}

// =============================================================================
// ALLOWANCES, ADJUSTMENTS, PENALTIES
// =============================================================================

func TestAllowanceLines_DividedPerPeriod(t *testing.T) {
	profile := monthlyProfile(26000)
	profile.DeMinimisAllowance = d(2000)
	profile.OtherAllowance = d(1000)
	g := newGenerator(t, profile)

	lines := g.AllowanceLines(decimal.NewFromInt(2))
	require.Len(t, lines, 2)
	assert.Equal(t, "ALW-DM", lines[0].RuleCode)
	assertDecimalEqual(t, d(1000), lines[0].Amount)
	assert.Equal(t, "ALW-OTH", lines[1].RuleCode)
	assertDecimalEqual(t, d(500), lines[1].Amount)
}

func TestAdjustmentAndPenaltyLines_Verbatim(t *testing.T) {
	g := newGenerator(t, monthlyProfile(26000))

	adj := g.AdjustmentLines([]engine.ManualAdjustment{
		{Description: "Referral bonus", Amount: d(5000)},
		{Description: "Laptop damage", Amount: d(1500), IsDeduction: true},
	})
	require.Len(t, adj, 2)
	assert.Equal(t, engine.CategoryAdjustmentAdd, adj[0].Category)
	assert.Equal(t, engine.CategoryAdjustmentDeduct, adj[1].Category)

	pen := g.PenaltyLines([]engine.PenaltyDeduction{
		{Description: "Cash shortage 2/3", Amount: d(250)},
	})
	require.Len(t, pen, 1)
	assert.Equal(t, "PEN", pen[0].RuleCode)
	assertDecimalEqual(t, d(250), pen[0].Amount)
}
