package importer

import (
	"strings"

	"bioattend/attendance"
	"bioattend/internal/classify"
	"bioattend/internal/timeutil"
)

type fieldSpec struct {
	labels []string
	clock  bool
	actual bool
	assign func(record *attendance.Record, value string)
}

// fieldSpecs lists the recognized block rows. The first label present in the
// block wins.
var fieldSpecs = []fieldSpec{
	{
		labels: []string{"shift"},
		assign: func(r *attendance.Record, v string) { r.Shift = v },
	},
	{
		labels: []string{"in time", "time in", "intime", "in_time", "timein"},
		clock:  true, actual: true,
		assign: func(r *attendance.Record, v string) { r.TimeInActual = v },
	},
	{
		labels: []string{"out time", "time out", "outtime", "out_time", "timeout"},
		clock:  true, actual: true,
		assign: func(r *attendance.Record, v string) { r.TimeOutActual = v },
	},
	{
		labels: []string{"late by", "late_by", "lateby", "late"},
		clock:  true,
		assign: func(r *attendance.Record, v string) { r.LateBy = v },
	},
	{
		labels: []string{"early by", "early_by", "earlyby", "early"},
		clock:  true,
		assign: func(r *attendance.Record, v string) { r.EarlyBy = v },
	},
	{
		labels: []string{"total ot", "ot", "overtime", "over time"},
		clock:  true,
		assign: func(r *attendance.Record, v string) { r.Overtime = v },
	},
	{
		labels: []string{"duration", "dur"},
		clock:  true,
		assign: func(r *attendance.Record, v string) { r.Duration = v },
	},
	{
		labels: []string{"t duration", "total duration", "total_duration", "tduration"},
		clock:  true,
		assign: func(r *attendance.Record, v string) { r.TotalDuration = v },
	},
	{
		labels: []string{"status"},
		assign: func(r *attendance.Record, v string) {
			if v == "" {
				r.Status = attendance.StatusAbsent
				return
			}
			r.Status = attendance.Status(v)
		},
	},
}

// BuildOptions carries the per-run inputs of the record builder.
type BuildOptions struct {
	Year       int
	Rules      classify.Rules
	SourceFile string
	ImportRun  string
}

// BuildRecords produces one record per parseable date column of the block.
// The tally is updated in place and returned; a nil tally starts a new one.
func BuildRecords(grid Grid, block Block, options BuildOptions, tally classify.Tally) ([]attendance.Record, []attendance.SkipEntry, classify.Tally) {
	if tally == nil {
		tally = classify.Tally{}
	}

	records := make([]attendance.Record, 0, len(block.DateColumns))
	var skipped []attendance.SkipEntry
	for _, col := range block.DateColumns {
		header := grid.Cell(block.DatesRow, col)
		date, ok := ParseDayMonth(header, options.Year)
		if !ok {
			skipped = append(skipped, attendance.SkipCell(block.DatesRow, col, "Invalid date format: "+header.String()))
			continue
		}

		record := attendance.NewRecord(block.EmployeeID, block.EmployeeName, date)
		record.SourceFile = options.SourceFile
		record.ImportRun = options.ImportRun
		for _, spec := range fieldSpecs {
			row, found := lookupFieldRow(block.FieldRows, spec.labels)
			if !found {
				continue
			}
			spec.assign(&record, fieldValue(grid.Cell(row, col), spec))
		}

		tally.Apply(options.Rules, &record, timeutil.ClockMinutes(record.TimeInActual), timeutil.ClockMinutes(record.TimeOutActual))
		records = append(records, record)
	}

	return records, skipped, tally
}

func lookupFieldRow(fields map[string]int, labels []string) (int, bool) {
	for _, label := range labels {
		if row, ok := fields[label]; ok {
			return row, true
		}
	}
	return 0, false
}

func fieldValue(cell Cell, spec fieldSpec) string {
	value := cell.String()
	if spec.actual && cell.IsNumber() && cell.Number > 0 && cell.Number < 1 {
		value = FractionToClock(cell.Number)
	}
	value = strings.TrimSpace(value)
	if spec.clock {
		return NormalizeTime(value)
	}
	return value
}
