package importer

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"bioattend/attendance"
	"bioattend/internal/timeutil"
)

// RecordInput is one attendance record submitted as JSON.
type RecordInput struct {
	EmployeeID      string  `json:"empId" validate:"required"`
	EmployeeName    string  `json:"empName" validate:"required"`
	Date            string  `json:"date" validate:"required"`
	Shift           string  `json:"shift"`
	TimeInActual    string  `json:"timeInActual"`
	TimeOutActual   string  `json:"timeOutActual"`
	LateBy          string  `json:"lateBy"`
	EarlyBy         string  `json:"earlyBy"`
	Overtime        string  `json:"ot"`
	Duration        string  `json:"duration"`
	TotalDuration   string  `json:"totalDuration"`
	RegularOvertime string  `json:"totalRegularOt"`
	Status          string  `json:"status"`
	Present         float64 `json:"present" validate:"gte=0,lte=1"`
	Absent          float64 `json:"absent" validate:"gte=0,lte=1"`
	Leave           float64 `json:"leave" validate:"gte=0,lte=1"`
	WeeklyOff       float64 `json:"weeklyOff" validate:"gte=0,lte=1"`
	Holiday         float64 `json:"holiday" validate:"gte=0,lte=1"`
}

var inputValidator = validator.New()

// NormalizeInputs validates submitted records and converts the valid ones.
// Invalid inputs are reported by index and never stop the batch.
func NormalizeInputs(inputs []RecordInput) ([]attendance.Record, []attendance.SkipEntry) {
	records := make([]attendance.Record, 0, len(inputs))
	skipped := make([]attendance.SkipEntry, 0)
	for i, input := range inputs {
		input.EmployeeID = strings.TrimSpace(input.EmployeeID)
		input.EmployeeName = strings.TrimSpace(input.EmployeeName)
		record, err := normalizeInput(input)
		if err != nil {
			skipped = append(skipped, attendance.SkipRow(i, err.Error()))
			continue
		}
		records = append(records, record)
	}
	return records, skipped
}

func normalizeInput(input RecordInput) (attendance.Record, error) {
	if err := inputValidator.Struct(input); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) && len(validationErrors) > 0 {
			field := validationErrors[0]
			return attendance.Record{}, fmt.Errorf("invalid %s: failed %q", field.Field(), field.Tag())
		}
		return attendance.Record{}, fmt.Errorf("invalid record: %w", err)
	}

	date, err := parseInputDate(input.Date)
	if err != nil {
		return attendance.Record{}, err
	}

	status := attendance.StatusAbsent
	if strings.TrimSpace(input.Status) != "" {
		parsed, ok := attendance.ParseStatus(input.Status)
		if !ok {
			return attendance.Record{}, fmt.Errorf("unknown status %q", input.Status)
		}
		status = parsed
	}

	record := attendance.NewRecord(input.EmployeeID, input.EmployeeName, date)
	record.Shift = strings.TrimSpace(input.Shift)
	record.TimeInActual = NormalizeTime(input.TimeInActual)
	record.TimeOutActual = NormalizeTime(input.TimeOutActual)
	record.LateBy = NormalizeTime(input.LateBy)
	record.EarlyBy = NormalizeTime(input.EarlyBy)
	record.Overtime = NormalizeTime(input.Overtime)
	record.Duration = NormalizeTime(input.Duration)
	record.TotalDuration = NormalizeTime(input.TotalDuration)
	record.RegularOvertime = NormalizeTime(input.RegularOvertime)
	record.Status = status
	record.Present = input.Present
	record.Absent = input.Absent
	record.Leave = input.Leave
	record.WeeklyOff = input.WeeklyOff
	record.Holiday = input.Holiday
	return record, nil
}

// parseInputDate accepts a calendar date or an RFC 3339 timestamp.
func parseInputDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if parsed, err := timeutil.ParseDate(value); err == nil {
		return parsed, nil
	}
	parsed, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q", value)
	}
	return timeutil.StartOfDay(parsed), nil
}
