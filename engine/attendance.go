/*
attendance.go - Clock-time to minute-bucket conversion

PURPOSE:
  Converts raw clock-in/out timestamps plus a shift schedule into late,
  undertime, and approved early-in/late-out overtime minutes for one
  attendance day.

TIMEZONE CORRECTNESS:
  Schedule times are wall-clock times in the workplace's timezone. The
  calculator anchors them on the attendance date using a fixed wall-clock
  offset (default UTC+8, Asia/Manila), NOT the host's runtime timezone.
  A server running in UTC must produce the same minutes as one running in
  Manila. Overnight shifts (end hour earlier than start hour) roll the
  schedule end to the next day.

MUTUAL EXCLUSION:
  A clock-in before schedule start is either early-in overtime (when
  approved) or nothing; it is never lateness. A clock-out after schedule
  end is either late-out overtime (when approved) or nothing; it is never
  undertime. The buckets cannot overlap by construction.

BREAK OVERRIDES:
  When the day explicitly overrides the shift's unpaid break (employee
  worked through lunch), the unused break minutes extend the completed work
  window: adjustment = shiftBreak - appliedBreak, subtracted from undertime
  and floored at zero. Lateness is NEVER adjusted by break overrides;
  arriving late in the morning is independent of lunch behavior. Negative
  adjustments (override larger than the shift break) are ignored.

MISSING DATA:
  No clock times or no schedule is a valid "nothing to calculate" state:
  the result is all zeros, not an error.
*/
package engine

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DefaultWorkplaceOffset is the Philippine wall-clock offset.
var DefaultWorkplaceOffset = time.FixedZone("PHT", 8*60*60)

// =============================================================================
// SHIFT SCHEDULE
// =============================================================================

// Shift is a scheduled work window in local wall-clock time. Start and End
// accept "HH:MM" 24-hour or "3:04 PM" 12-hour forms.
type Shift struct {
	Start        string
	End          string
	BreakMinutes int
}

// defined reports whether the shift carries a usable schedule.
func (s Shift) defined() bool { return s.Start != "" && s.End != "" }

// parseWallClock parses a local time-of-day string.
func parseWallClock(s string) (hour, minute int, err error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{"15:04", "15:04:05", "3:04 PM", "3:04PM"} {
		if t, perr := time.Parse(layout, s); perr == nil {
			return t.Hour(), t.Minute(), nil
		}
	}
	// Bare "HHMM" form from some time clocks.
	if len(s) == 4 {
		if h, herr := strconv.Atoi(s[:2]); herr == nil {
			if m, merr := strconv.Atoi(s[2:]); merr == nil && h < 24 && m < 60 {
				return h, m, nil
			}
		}
	}
	return 0, 0, fmt.Errorf("unparseable schedule time %q", s)
}

// =============================================================================
// TIME RESULT
// =============================================================================

// TimeResult is the minute buckets for one attendance day.
type TimeResult struct {
	LateMinutes      int
	UndertimeMinutes int
	EarlyInOTMinutes int
	LateOutOTMinutes int
}

// =============================================================================
// CALCULATOR
// =============================================================================

// AttendanceTimeCalculator converts clock events to minute buckets.
// The zero value uses the Philippine wall-clock offset.
type AttendanceTimeCalculator struct {
	// Offset is the workplace wall-clock location. Nil means DefaultWorkplaceOffset.
	Offset *time.Location
}

func (c *AttendanceTimeCalculator) location() *time.Location {
	if c.Offset != nil {
		return c.Offset
	}
	return DefaultWorkplaceOffset
}

// ClockInput is the raw attendance facts for one day.
type ClockInput struct {
	Date     time.Time
	Shift    Shift
	ClockIn  *time.Time
	ClockOut *time.Time

	EarlyInApproved bool
	LateOutApproved bool

	// BreakMinutesApplied, when non-nil, overrides the shift's unpaid
	// break for this day.
	BreakMinutesApplied *int
}

// Compute derives the day's minute buckets. Missing clock times or an
// undefined schedule yield a zero result.
func (c *AttendanceTimeCalculator) Compute(in ClockInput) (TimeResult, error) {
	var out TimeResult

	if !in.Shift.defined() || in.ClockIn == nil || in.ClockOut == nil {
		return out, nil
	}

	schedStart, schedEnd, err := c.scheduleInstants(in.Date, in.Shift)
	if err != nil {
		return out, err
	}

	// Clock-in side: lateness and early-in OT are mutually exclusive.
	inDelta := wholeMinutes(in.ClockIn.Sub(schedStart))
	if inDelta > 0 {
		out.LateMinutes = inDelta
	} else if inDelta < 0 && in.EarlyInApproved {
		out.EarlyInOTMinutes = -inDelta
	}

	// Clock-out side: undertime and late-out OT are mutually exclusive.
	outDelta := wholeMinutes(schedEnd.Sub(*in.ClockOut))
	if outDelta > 0 {
		out.UndertimeMinutes = outDelta
	} else if outDelta < 0 && in.LateOutApproved {
		out.LateOutOTMinutes = -outDelta
	}

	// Break override extends the completed work window: unused break
	// minutes offset undertime, floored at zero. Lateness stays untouched.
	if in.BreakMinutesApplied != nil && in.Shift.BreakMinutes > 0 {
		adjustment := in.Shift.BreakMinutes - *in.BreakMinutesApplied
		if adjustment > 0 {
			out.UndertimeMinutes -= adjustment
			if out.UndertimeMinutes < 0 {
				out.UndertimeMinutes = 0
			}
		}
	}

	return out, nil
}

// scheduleInstants anchors the shift's wall-clock times on the attendance
// date in the workplace timezone. Overnight shifts roll the end instant to
// the next day.
func (c *AttendanceTimeCalculator) scheduleInstants(date time.Time, shift Shift) (start, end time.Time, err error) {
	startH, startM, err := parseWallClock(shift.Start)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	endH, endM, err := parseWallClock(shift.End)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}

	loc := c.location()
	y, m, d := date.Year(), date.Month(), date.Day()
	start = time.Date(y, m, d, startH, startM, 0, 0, loc)
	end = time.Date(y, m, d, endH, endM, 0, 0, loc)

	if endH*60+endM <= startH*60+startM {
		end = end.AddDate(0, 0, 1)
	}
	return start, end, nil
}

// wholeMinutes truncates a duration to whole minutes, keeping the sign.
func wholeMinutes(d time.Duration) int {
	return int(d / time.Minute)
}
