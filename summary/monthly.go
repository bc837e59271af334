package summary

import (
	"sort"

	"bioattend/attendance"
	"bioattend/internal/timeutil"
)

type monthKey struct {
	year  int
	month int
}

type monthTotals struct {
	summary         attendance.MonthlySummary
	duration        int
	totalDuration   int
	overtime        int
	lateBy          int
	earlyBy         int
	regularOvertime int
}

// BuildMonthly groups one employee's records by calendar month and sums
// the status counts and durations of each group. Summaries are ordered by
// year and month.
func BuildMonthly(employeeID, employeeName string, records []attendance.Record) []attendance.MonthlySummary {
	if len(records) == 0 {
		return []attendance.MonthlySummary{}
	}

	groups := make(map[monthKey]*monthTotals)
	for _, record := range records {
		key := monthKey{year: record.Date.Year(), month: int(record.Date.Month())}
		totals, ok := groups[key]
		if !ok {
			totals = &monthTotals{summary: attendance.MonthlySummary{
				EmployeeID:   employeeID,
				EmployeeName: employeeName,
				Year:         key.year,
				Month:        key.month,
				MonthName:    timeutil.MonthName(key.month),
			}}
			groups[key] = totals
		}
		totals.add(record)
	}

	keys := make([]monthKey, 0, len(groups))
	for key := range groups {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].year != keys[j].year {
			return keys[i].year < keys[j].year
		}
		return keys[i].month < keys[j].month
	})

	summaries := make([]attendance.MonthlySummary, 0, len(keys))
	for _, key := range keys {
		summaries = append(summaries, groups[key].finish())
	}
	return summaries
}

func (t *monthTotals) add(record attendance.Record) {
	t.summary.Days++

	status, _ := attendance.ParseStatus(string(record.Status))
	switch status {
	case attendance.StatusPresent:
		t.summary.Present++
	case attendance.StatusHalfPresent:
		t.summary.Present += 0.5
	case attendance.StatusAbsent:
		t.summary.Absent++
	case attendance.StatusLeave:
		t.summary.LeaveTaken++
	case attendance.StatusWeeklyOff:
		t.summary.WeeklyOffCount++
		if record.TimeInActual != "" && record.TimeInActual != attendance.ZeroTime {
			t.summary.WeeklyOffPresent++
		}
	case attendance.StatusHoliday:
		t.summary.HolidayCount++
	}

	t.duration += timeutil.ClockMinutes(record.Duration)
	t.totalDuration += timeutil.ClockMinutes(record.TotalDuration)
	t.overtime += timeutil.ClockMinutes(record.Overtime)
	t.lateBy += timeutil.ClockMinutes(record.LateBy)
	t.earlyBy += timeutil.ClockMinutes(record.EarlyBy)
	t.regularOvertime += timeutil.ClockMinutes(record.RegularOvertime)
}

func (t *monthTotals) finish() attendance.MonthlySummary {
	result := t.summary
	result.Duration = timeutil.FormatHHMM(t.duration)
	result.TotalDuration = timeutil.FormatHHMM(t.totalDuration)
	result.Overtime = timeutil.FormatHHMM(t.overtime)
	result.LateBy = timeutil.FormatHHMM(t.lateBy)
	result.EarlyBy = timeutil.FormatHHMM(t.earlyBy)
	result.RegularOvertime = timeutil.FormatHHMM(t.regularOvertime)
	return result
}

// BuildMonthlyByEmployee aggregates a mixed record set, grouping by the
// case-insensitive employee code. The name and code of the latest record
// in each group are used.
func BuildMonthlyByEmployee(records []attendance.Record) []attendance.MonthlySummary {
	byEmployee := make(map[string][]attendance.Record)
	order := make([]string, 0)
	for _, record := range records {
		key := attendance.EmployeeKey(record.EmployeeID)
		if _, ok := byEmployee[key]; !ok {
			order = append(order, key)
		}
		byEmployee[key] = append(byEmployee[key], record)
	}
	sort.Strings(order)

	summaries := make([]attendance.MonthlySummary, 0, len(order))
	for _, key := range order {
		group := byEmployee[key]
		latest := group[len(group)-1]
		summaries = append(summaries, BuildMonthly(latest.EmployeeID, latest.EmployeeName, group)...)
	}
	return summaries
}
