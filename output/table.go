package output

import (
	"strconv"

	"bioattend/attendance"
	"bioattend/internal/timeutil"
)

// Table is a header row plus data rows. Cells are strings, ints or float64.
type Table struct {
	Sheet   string
	Headers []string
	Rows    [][]any
}

func RecordsTable(records []attendance.Record) Table {
	table := Table{
		Sheet: "Activities",
		Headers: []string{
			"EmpID", "EmpName", "Date", "Shift", "TimeIn", "TimeOut", "LateBy", "EarlyBy", "OT",
			"Duration", "TDuration", "RegularOT", "Status", "Present", "Absent", "Leave", "WeeklyOff", "Holiday",
		},
		Rows: make([][]any, 0, len(records)),
	}
	for _, record := range records {
		table.Rows = append(table.Rows, []any{
			record.EmployeeID,
			record.EmployeeName,
			timeutil.FormatDate(record.Date),
			record.Shift,
			record.TimeInActual,
			record.TimeOutActual,
			record.LateBy,
			record.EarlyBy,
			record.Overtime,
			record.Duration,
			record.TotalDuration,
			record.RegularOvertime,
			string(record.Status),
			record.Present,
			record.Absent,
			record.Leave,
			record.WeeklyOff,
			record.Holiday,
		})
	}
	return table
}

func SummariesTable(summaries []attendance.MonthlySummary) Table {
	table := Table{
		Sheet: "Monthly Summaries",
		Headers: []string{
			"EmpID", "EmpName", "Year", "Month", "Days", "Present", "Absent", "Leave", "WOPresent", "WOCount",
			"HOCount", "Duration", "TDuration", "OT", "LateBy", "EarlyBy", "RegularOT",
		},
		Rows: make([][]any, 0, len(summaries)),
	}
	for _, summary := range summaries {
		table.Rows = append(table.Rows, []any{
			summary.EmployeeID,
			summary.EmployeeName,
			summary.Year,
			summary.MonthName,
			summary.Days,
			summary.Present,
			summary.Absent,
			summary.LeaveTaken,
			summary.WeeklyOffPresent,
			summary.WeeklyOffCount,
			summary.HolidayCount,
			summary.Duration,
			summary.TotalDuration,
			summary.Overtime,
			summary.LateBy,
			summary.EarlyBy,
			summary.RegularOvertime,
		})
	}
	return table
}

func formatCell(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case int:
		return strconv.Itoa(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return ""
	}
}
