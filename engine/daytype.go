/*
daytype.go - Calendar date classification

PURPOSE:
  Classifies each calendar date into a day type: regular workday, rest day,
  regular/special holiday, or the holiday-falls-on-rest-day combinations.
  The classification drives which pay rules apply to the day's minutes.

RESOLUTION ORDER (pure function per date):
  1. Calendar event for the date? Holiday type wins. If the date is also a
     configured rest day, the combined type applies.
  2. Weekday in the rest-day set (default Saturday/Sunday)? REST_DAY.
  3. Otherwise REGULAR_WORKING_DAY.

PAID-IF-NOT-WORKED:
  Only regular holidays (and their rest-day combination) pay without work.
  Everything else is "no work, no pay".

SEE ALSO:
  - ruleset.go: MultiplierTable consulted per day type
  - lines.go: premium and OT line rules keyed on day type
*/
package engine

import "time"

// =============================================================================
// DAY TYPES
// =============================================================================

type DayType string

const (
	RegularWorkingDay     DayType = "REGULAR_WORKING_DAY"
	RestDay               DayType = "REST_DAY"
	RegularHoliday        DayType = "REGULAR_HOLIDAY"
	SpecialHoliday        DayType = "SPECIAL_HOLIDAY"
	RegularHolidayRestDay DayType = "REGULAR_HOLIDAY_REST_DAY"
	SpecialHolidayRestDay DayType = "SPECIAL_HOLIDAY_REST_DAY"
)

// IsHoliday reports whether the type is any of the four holiday variants.
// Holiday work is paid via premium lines, never via basic pay.
func (dt DayType) IsHoliday() bool {
	switch dt {
	case RegularHoliday, SpecialHoliday, RegularHolidayRestDay, SpecialHolidayRestDay:
		return true
	}
	return false
}

// IsRestDay reports whether the day is a rest day or falls on one.
func (dt DayType) IsRestDay() bool {
	switch dt {
	case RestDay, RegularHolidayRestDay, SpecialHolidayRestDay:
		return true
	}
	return false
}

// PaidIfNotWorked reports whether the day pays its daily rate with zero
// attendance. True only for regular holidays and their rest-day combination.
func (dt DayType) PaidIfNotWorked() bool {
	return dt == RegularHoliday || dt == RegularHolidayRestDay
}

// =============================================================================
// CALENDAR EVENTS
// =============================================================================

// HolidayType is the calendar-event classification feeding the resolver.
type HolidayType string

const (
	HolidayRegular HolidayType = "REGULAR"
	HolidaySpecial HolidayType = "SPECIAL"
)

// CalendarEvent marks one date as a holiday.
type CalendarEvent struct {
	Date time.Time
	Type HolidayType
	Name string
}

// =============================================================================
// RESOLVER
// =============================================================================

// DayTypeResolver classifies dates using calendar events and a configurable
// rest-day set. Stateless after construction; Resolve is a pure function.
type DayTypeResolver struct {
	events   map[string]HolidayType
	restDays map[time.Weekday]bool
}

// NewDayTypeResolver builds a resolver. A nil or empty restDays defaults to
// Saturday and Sunday.
func NewDayTypeResolver(events []CalendarEvent, restDays []time.Weekday) *DayTypeResolver {
	r := &DayTypeResolver{
		events:   make(map[string]HolidayType, len(events)),
		restDays: make(map[time.Weekday]bool),
	}
	for _, e := range events {
		r.events[dateKey(e.Date)] = e.Type
	}
	if len(restDays) == 0 {
		r.restDays[time.Saturday] = true
		r.restDays[time.Sunday] = true
	} else {
		for _, wd := range restDays {
			r.restDays[wd] = true
		}
	}
	return r
}

// Resolve classifies one calendar date.
func (r *DayTypeResolver) Resolve(date time.Time) DayType {
	rest := r.restDays[date.Weekday()]

	if holiday, ok := r.events[dateKey(date)]; ok {
		switch {
		case holiday == HolidayRegular && rest:
			return RegularHolidayRestDay
		case holiday == HolidayRegular:
			return RegularHoliday
		case rest:
			return SpecialHolidayRestDay
		default:
			return SpecialHoliday
		}
	}

	if rest {
		return RestDay
	}
	return RegularWorkingDay
}

func dateKey(t time.Time) string { return t.Format("2006-01-02") }
