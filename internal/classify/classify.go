package classify

import (
	"strings"
	"time"

	"bioattend/attendance"
)

// Rules holds the attendance thresholds. Clock values are minutes after midnight.
type Rules struct {
	LateAfter      int
	HalfDayAfter   int
	EarlyBefore    int
	LateAllowance  int
	EarlyAllowance int
	WeeklyOff      []time.Weekday
}

func DefaultRules() Rules {
	return Rules{
		LateAfter:      9*60 + 15,
		HalfDayAfter:   11 * 60,
		EarlyBefore:    15*60 + 30,
		LateAllowance:  3,
		EarlyAllowance: 2,
		WeeklyOff:      []time.Weekday{time.Sunday},
	}
}

func (r Rules) IsWeeklyOff(date time.Time) bool {
	for _, day := range r.WeeklyOff {
		if date.Weekday() == day {
			return true
		}
	}
	return false
}

// Key identifies one employee-month for the late and early counters.
type Key struct {
	Employee string
	Year     int
	Month    time.Month
}

func KeyFor(employeeID string, date time.Time) Key {
	return Key{Employee: strings.ToLower(strings.TrimSpace(employeeID)), Year: date.Year(), Month: date.Month()}
}

type Counters struct {
	Late  int
	Early int
}

// Tally carries counters for every employee-month seen during one import run.
type Tally map[Key]Counters

// Outcome is the classification applied to a record.
type Outcome struct {
	Status    attendance.Status
	Present   float64
	Absent    float64
	WeeklyOff float64
}

func present() Outcome {
	return Outcome{Status: attendance.StatusPresent, Present: 1}
}

func halfPresent() Outcome {
	return Outcome{Status: attendance.StatusHalfPresent, Present: 0.5}
}

// Lateness classifies a recorded time-in. Arrivals in [LateAfter, HalfDayAfter)
// count against the monthly allowance; later arrivals are always half days.
func Lateness(rules Rules, inMinutes int, counters Counters) (Outcome, Counters) {
	switch {
	case inMinutes >= rules.HalfDayAfter:
		return halfPresent(), counters
	case inMinutes >= rules.LateAfter:
		counters.Late++
		if counters.Late <= rules.LateAllowance {
			return present(), counters
		}
		return halfPresent(), counters
	default:
		return present(), counters
	}
}

// EarlyDeparture counts a time-out before EarlyBefore and downgrades the
// outcome to a half day once the monthly allowance is exceeded. It never
// promotes a status. outMinutes of zero means no time-out was recorded.
func EarlyDeparture(rules Rules, outMinutes int, current Outcome, counters Counters) (Outcome, Counters) {
	if outMinutes <= 0 || outMinutes >= rules.EarlyBefore {
		return current, counters
	}
	counters.Early++
	if counters.Early > rules.EarlyAllowance && current.Present > 0.5 {
		return halfPresent(), counters
	}
	return current, counters
}

// Classify applies the weekly-off, absence, lateness and early-departure rules
// in that order. Zero minutes means the time was not recorded.
func Classify(rules Rules, date time.Time, inMinutes, outMinutes int, counters Counters) (Outcome, Counters) {
	if rules.IsWeeklyOff(date) {
		return Outcome{Status: attendance.StatusWeeklyOff, WeeklyOff: 1}, counters
	}
	if inMinutes <= 0 {
		return Outcome{Status: attendance.StatusAbsent, Absent: 1}, counters
	}

	outcome, counters := Lateness(rules, inMinutes, counters)
	return EarlyDeparture(rules, outMinutes, outcome, counters)
}

// Apply runs Classify for a record and stores the updated counters in tally.
func (t Tally) Apply(rules Rules, record *attendance.Record, inMinutes, outMinutes int) {
	key := KeyFor(record.EmployeeID, record.Date)
	outcome, counters := Classify(rules, record.Date, inMinutes, outMinutes, t[key])
	t[key] = counters

	record.Status = outcome.Status
	record.Present = outcome.Present
	record.Absent = outcome.Absent
	record.WeeklyOff = outcome.WeeklyOff
	if outcome.Status == attendance.StatusWeeklyOff {
		record.Shift = "WO"
	}
}
