package attendance

import (
	"strings"
	"time"
)

// Status is the attendance code stored on a record.
type Status string

const (
	StatusPresent     Status = "P"
	StatusHalfPresent Status = "½P"
	StatusAbsent      Status = "A"
	StatusLeave       Status = "L"
	StatusWeeklyOff   Status = "WO"
	StatusHoliday     Status = "HO"
)

// ZeroTime is the placeholder for time fields that carry no value.
const ZeroTime = "00:00:00"

var statusNames = map[Status]string{
	StatusPresent:     "PRESENT",
	StatusHalfPresent: "HALF_PRESENT",
	StatusAbsent:      "ABSENT",
	StatusLeave:       "LEAVE",
	StatusWeeklyOff:   "WEEKLY_OFF",
	StatusHoliday:     "HOLIDAY",
}

// Name returns the canonical upper-case name, or the raw code for unknown values.
func (s Status) Name() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return string(s)
}

// ParseStatus accepts either a code ("½P") or a canonical name ("half_present").
func ParseStatus(raw string) (Status, bool) {
	value := strings.ToUpper(strings.TrimSpace(raw))
	if value == "" {
		return "", false
	}
	for code, name := range statusNames {
		if value == strings.ToUpper(string(code)) || value == name {
			return code, true
		}
	}
	return "", false
}

// Record is one employee-day derived from a biometric export.
type Record struct {
	ID              int64     `json:"id,omitempty"`
	EmployeeID      string    `json:"empId"`
	EmployeeName    string    `json:"empName"`
	Date            time.Time `json:"date"`
	Shift           string    `json:"shift"`
	TimeInActual    string    `json:"timeInActual"`
	TimeOutActual   string    `json:"timeOutActual"`
	LateBy          string    `json:"lateBy"`
	EarlyBy         string    `json:"earlyBy"`
	Overtime        string    `json:"ot"`
	Duration        string    `json:"duration"`
	TotalDuration   string    `json:"totalDuration"`
	RegularOvertime string    `json:"totalRegularOt"`
	Status          Status    `json:"status"`
	Present         float64   `json:"present"`
	Absent          float64   `json:"absent"`
	Leave           float64   `json:"leave"`
	WeeklyOff       float64   `json:"weeklyOff"`
	Holiday         float64   `json:"holiday"`
	SourceFile      string    `json:"sourceFile,omitempty"`
	ImportRun       string    `json:"importRun,omitempty"`
}

// NewRecord returns a record with every time field zeroed and status ABSENT.
func NewRecord(employeeID, employeeName string, date time.Time) Record {
	return Record{
		EmployeeID:      employeeID,
		EmployeeName:    employeeName,
		Date:            date,
		TimeInActual:    ZeroTime,
		TimeOutActual:   ZeroTime,
		LateBy:          ZeroTime,
		EarlyBy:         ZeroTime,
		Overtime:        ZeroTime,
		Duration:        ZeroTime,
		TotalDuration:   ZeroTime,
		RegularOvertime: ZeroTime,
		Status:          StatusAbsent,
	}
}

// EmployeeKey is the case-insensitive form of an employee code used for dedup.
func EmployeeKey(employeeID string) string {
	return strings.ToLower(strings.TrimSpace(employeeID))
}

// MonthlySummary is the per employee-month rollup of records. Durations are HH:MM.
type MonthlySummary struct {
	ID               int64     `json:"id,omitempty"`
	EmployeeID       string    `json:"empId"`
	EmployeeName     string    `json:"empName"`
	Year             int       `json:"year"`
	Month            int       `json:"month"`
	MonthName        string    `json:"monthName"`
	Days             int       `json:"totalDays"`
	Present          float64   `json:"totalPresent"`
	Absent           float64   `json:"totalAbsent"`
	LeaveTaken       float64   `json:"totalLeaveTaken"`
	WeeklyOffPresent float64   `json:"totalWeeklyOffPresent"`
	WeeklyOffCount   float64   `json:"totalWOCount"`
	HolidayCount     float64   `json:"totalHOCount"`
	Duration         string    `json:"totalDuration"`
	TotalDuration    string    `json:"totalTDuration"`
	Overtime         string    `json:"totalOverTime"`
	LateBy           string    `json:"totalLateBy"`
	EarlyBy          string    `json:"totalEarlyBy"`
	RegularOvertime  string    `json:"totalRegularOT"`
	UpdatedAt        time.Time `json:"updatedAt,omitzero"`
}

// SkipEntry reports a row (and optionally a column) the scan could not use.
type SkipEntry struct {
	Row    int    `json:"row"`
	Col    *int   `json:"col,omitempty"`
	Reason string `json:"reason"`
}

func SkipRow(row int, reason string) SkipEntry {
	return SkipEntry{Row: row, Reason: reason}
}

func SkipCell(row, col int, reason string) SkipEntry {
	return SkipEntry{Row: row, Col: &col, Reason: reason}
}
