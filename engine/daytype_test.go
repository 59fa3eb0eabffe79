package engine_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/warp/payroll-engine/engine"
)

func date(y int, m time.Month, day int) time.Time {
	return time.Date(y, m, day, 0, 0, 0, 0, time.UTC)
}

func TestDayTypeResolver_DefaultRestDays(t *testing.T) {
	// GIVEN: no events, no configured rest days
	// THEN: Saturday/Sunday resolve as rest days, weekdays as working days

	r := engine.NewDayTypeResolver(nil, nil)

	assert.Equal(t, engine.RestDay, r.Resolve(date(2025, time.June, 7)))  // Saturday
	assert.Equal(t, engine.RestDay, r.Resolve(date(2025, time.June, 8)))  // Sunday
	assert.Equal(t, engine.RegularWorkingDay, r.Resolve(date(2025, time.June, 9)))
}

func TestDayTypeResolver_ConfiguredRestDays(t *testing.T) {
	// Friday-only rest day: Saturday becomes a working day
	r := engine.NewDayTypeResolver(nil, []time.Weekday{time.Friday})

	assert.Equal(t, engine.RestDay, r.Resolve(date(2025, time.June, 6)))
	assert.Equal(t, engine.RegularWorkingDay, r.Resolve(date(2025, time.June, 7)))
}

func TestDayTypeResolver_Holidays(t *testing.T) {
	events := []engine.CalendarEvent{
		{Date: date(2025, time.June, 12), Type: engine.HolidayRegular, Name: "Independence Day"},
		{Date: date(2025, time.August, 21), Type: engine.HolidaySpecial, Name: "Ninoy Aquino Day"},
	}
	r := engine.NewDayTypeResolver(events, nil)

	assert.Equal(t, engine.RegularHoliday, r.Resolve(date(2025, time.June, 12)))  // Thursday
	assert.Equal(t, engine.SpecialHoliday, r.Resolve(date(2025, time.August, 21))) // Thursday
}

func TestDayTypeResolver_HolidayOnRestDay(t *testing.T) {
	// GIVEN: holidays landing on a default rest day (Saturday/Sunday)
	// THEN: the combined day types apply

	events := []engine.CalendarEvent{
		{Date: date(2025, time.June, 1), Type: engine.HolidayRegular},   // Sunday
		{Date: date(2025, time.December, 6), Type: engine.HolidaySpecial}, // Saturday
	}
	r := engine.NewDayTypeResolver(events, nil)

	assert.Equal(t, engine.RegularHolidayRestDay, r.Resolve(date(2025, time.June, 1)))
	assert.Equal(t, engine.SpecialHolidayRestDay, r.Resolve(date(2025, time.December, 6)))
}

func TestDayType_Predicates(t *testing.T) {
	assert.True(t, engine.RegularHoliday.IsHoliday())
	assert.True(t, engine.SpecialHolidayRestDay.IsHoliday())
	assert.False(t, engine.RestDay.IsHoliday())
	assert.False(t, engine.RegularWorkingDay.IsHoliday())

	assert.True(t, engine.RestDay.IsRestDay())
	assert.True(t, engine.RegularHolidayRestDay.IsRestDay())
	assert.False(t, engine.RegularHoliday.IsRestDay())

	// Only regular holidays pay without work
	assert.True(t, engine.RegularHoliday.PaidIfNotWorked())
	assert.True(t, engine.RegularHolidayRestDay.PaidIfNotWorked())
	assert.False(t, engine.SpecialHoliday.PaidIfNotWorked())
	assert.False(t, engine.RestDay.PaidIfNotWorked())
}
