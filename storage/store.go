package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"bioattend/attendance"
	"bioattend/internal/timeutil"
)

var ErrSummaryNotFound = errors.New("monthly summary not found")

const defaultSummaryLimit = 50

// Store persists attendance records and monthly summaries keyed by their
// natural keys. Employee codes are matched case-insensitively.
type Store interface {
	UpsertRecords(ctx context.Context, records []attendance.Record) (int, error)
	UpsertSummaries(ctx context.Context, summaries []attendance.MonthlySummary) (int, error)
	ListRecords(ctx context.Context, filter RecordFilter) ([]attendance.Record, int, error)
	DeleteAllRecords(ctx context.Context) (int64, error)
	ListSummaries(ctx context.Context, filter SummaryFilter) ([]attendance.MonthlySummary, int, error)
	EmployeeSummaries(ctx context.Context, employeeID string, year, month int) ([]attendance.MonthlySummary, error)
	DeleteSummary(ctx context.Context, id int64) error
	DeleteEmployeeSummaries(ctx context.Context, employeeID string) (int64, error)
	DeleteAllSummaries(ctx context.Context) (int64, error)
	SummaryStats(ctx context.Context) (SummaryStats, error)
	Close() error
}

// RecordFilter narrows ListRecords. Zero values disable a condition; a zero
// Limit returns every match.
type RecordFilter struct {
	EmployeeID   string
	EmployeeName string
	Statuses     []attendance.Status
	From         time.Time
	To           time.Time
	SortBy       string
	SortOrder    string
	Page         int
	Limit        int
}

type SummaryFilter struct {
	EmployeeID string
	Year       int
	Month      int
	Page       int
	Limit      int
}

type SummaryStats struct {
	TotalSummaries  int      `json:"totalSummaries"`
	UniqueEmployees int      `json:"uniqueEmployees"`
	Employees       []string `json:"employees"`
	Years           []int    `json:"years"`
}

var recordSortColumns = map[string]string{
	"date":          "date",
	"empid":         "employee_key",
	"employee_id":   "employee_key",
	"empname":       "employee_name",
	"employee_name": "employee_name",
	"status":        "status",
}

type dialect int

const (
	sqliteDialect dialect = iota
	postgresDialect
)

func (d dialect) bind(n int) string {
	if d == postgresDialect {
		return fmt.Sprintf("$%d", n)
	}
	return "?"
}

// dateArg converts a calendar date to the driver's parameter type.
func (d dialect) dateArg(value time.Time) any {
	if d == postgresDialect {
		return timeutil.StartOfDay(value)
	}
	return timeutil.FormatDate(value)
}

func (d dialect) timestampArg(value time.Time) any {
	if d == postgresDialect {
		return value.UTC()
	}
	return value.UTC().Format(time.RFC3339)
}

func (d dialect) dateColumn(column string) string {
	if d == postgresDialect {
		return fmt.Sprintf("to_char(%s, 'YYYY-MM-DD')", column)
	}
	return column
}

func (d dialect) timestampColumn(column string) string {
	if d == postgresDialect {
		return fmt.Sprintf(`to_char(%s AT TIME ZONE 'UTC', 'YYYY-MM-DD"T"HH24:MI:SS"Z"')`, column)
	}
	return column
}

const recordInsertColumns = `employee_key, employee_id, employee_name, date, shift,
	time_in_actual, time_out_actual, late_by, early_by, overtime, duration, total_duration, regular_overtime,
	status, present, absent, on_leave, weekly_off, holiday, source_file, import_run, updated_at`

var recordUpdateColumns = []string{
	"employee_id", "employee_name", "shift",
	"time_in_actual", "time_out_actual", "late_by", "early_by", "overtime", "duration", "total_duration", "regular_overtime",
	"status", "present", "absent", "on_leave", "weekly_off", "holiday", "source_file", "import_run", "updated_at",
}

const summaryInsertColumns = `employee_key, employee_id, employee_name, year, month, month_name, total_days,
	total_present, total_absent, total_leave_taken, total_weekly_off_present, total_weekly_off_count, total_holiday_count,
	total_duration, total_t_duration, total_overtime, total_late_by, total_early_by, total_regular_ot, updated_at`

var summaryUpdateColumns = []string{
	"employee_id", "employee_name", "month_name", "total_days",
	"total_present", "total_absent", "total_leave_taken", "total_weekly_off_present", "total_weekly_off_count", "total_holiday_count",
	"total_duration", "total_t_duration", "total_overtime", "total_late_by", "total_early_by", "total_regular_ot", "updated_at",
}

func upsertStatement(d dialect, table, columns string, count int, conflict string, updates []string) string {
	placeholders := make([]string, count)
	for i := range placeholders {
		placeholders[i] = d.bind(i + 1)
	}
	assignments := make([]string, len(updates))
	for i, column := range updates {
		assignments[i] = fmt.Sprintf("%s = excluded.%s", column, column)
	}
	return fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s) ON CONFLICT(%s) DO UPDATE SET %s",
		table, columns, strings.Join(placeholders, ", "), conflict, strings.Join(assignments, ", "),
	)
}

func recordUpsertStatement(d dialect) string {
	return upsertStatement(d, "attendance_records", recordInsertColumns, 22, "employee_key, date", recordUpdateColumns)
}

func summaryUpsertStatement(d dialect) string {
	return upsertStatement(d, "monthly_summaries", summaryInsertColumns, 20, "employee_key, year, month", summaryUpdateColumns)
}

func recordArgs(d dialect, record attendance.Record, now time.Time) []any {
	return []any{
		attendance.EmployeeKey(record.EmployeeID),
		strings.TrimSpace(record.EmployeeID),
		record.EmployeeName,
		d.dateArg(record.Date),
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
		record.SourceFile,
		record.ImportRun,
		d.timestampArg(now),
	}
}

func summaryArgs(d dialect, summary attendance.MonthlySummary, now time.Time) []any {
	return []any{
		attendance.EmployeeKey(summary.EmployeeID),
		strings.TrimSpace(summary.EmployeeID),
		summary.EmployeeName,
		summary.Year,
		summary.Month,
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
		d.timestampArg(now),
	}
}

func recordSelectColumns(d dialect) string {
	return fmt.Sprintf(`id, employee_id, employee_name, %s, shift,
	time_in_actual, time_out_actual, late_by, early_by, overtime, duration, total_duration, regular_overtime,
	status, present, absent, on_leave, weekly_off, holiday, source_file, import_run`, d.dateColumn("date"))
}

func summarySelectColumns(d dialect) string {
	return fmt.Sprintf(`id, employee_id, employee_name, year, month, month_name, total_days,
	total_present, total_absent, total_leave_taken, total_weekly_off_present, total_weekly_off_count, total_holiday_count,
	total_duration, total_t_duration, total_overtime, total_late_by, total_early_by, total_regular_ot, %s`, d.timestampColumn("updated_at"))
}

// whereBuilder collects conditions with dialect-specific placeholders.
type whereBuilder struct {
	d          dialect
	conditions []string
	args       []any
}

func (w *whereBuilder) add(condition string, args ...any) {
	for _, arg := range args {
		w.args = append(w.args, arg)
		condition = strings.Replace(condition, "?", w.d.bind(len(w.args)), 1)
	}
	w.conditions = append(w.conditions, condition)
}

func (w *whereBuilder) clause() string {
	if len(w.conditions) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.conditions, " AND ")
}

func recordWhere(d dialect, filter RecordFilter) *whereBuilder {
	where := &whereBuilder{d: d}
	if value := strings.TrimSpace(filter.EmployeeID); value != "" {
		where.add("employee_key LIKE ?", "%"+strings.ToLower(value)+"%")
	}
	if value := strings.TrimSpace(filter.EmployeeName); value != "" {
		where.add("LOWER(employee_name) LIKE ?", "%"+strings.ToLower(value)+"%")
	}
	if len(filter.Statuses) > 0 {
		placeholders := make([]string, len(filter.Statuses))
		args := make([]any, len(filter.Statuses))
		for i, status := range filter.Statuses {
			placeholders[i] = "?"
			args[i] = string(status)
		}
		where.add("status IN ("+strings.Join(placeholders, ", ")+")", args...)
	}
	if !filter.From.IsZero() {
		where.add("date >= ?", d.dateArg(filter.From))
	}
	if !filter.To.IsZero() {
		where.add("date <= ?", d.dateArg(filter.To))
	}
	return where
}

func recordOrder(filter RecordFilter) string {
	column, ok := recordSortColumns[strings.ToLower(strings.TrimSpace(filter.SortBy))]
	if !ok {
		column = "date"
	}
	direction := "DESC"
	if strings.EqualFold(strings.TrimSpace(filter.SortOrder), "asc") {
		direction = "ASC"
	}
	order := fmt.Sprintf(" ORDER BY %s %s", column, direction)
	if column != "employee_key" {
		order += ", employee_key ASC"
	}
	return order + ", id ASC"
}

func summaryWhere(d dialect, filter SummaryFilter) *whereBuilder {
	where := &whereBuilder{d: d}
	if value := strings.TrimSpace(filter.EmployeeID); value != "" {
		where.add("employee_key LIKE ?", "%"+strings.ToLower(value)+"%")
	}
	if filter.Year > 0 {
		where.add("year = ?", filter.Year)
	}
	if filter.Month > 0 {
		where.add("month = ?", filter.Month)
	}
	return where
}

// pageClause renders LIMIT/OFFSET for a 1-based page. A zero limit means no paging.
func pageClause(page, limit int) string {
	if limit <= 0 {
		return ""
	}
	if page < 1 {
		page = 1
	}
	return fmt.Sprintf(" LIMIT %d OFFSET %d", limit, (page-1)*limit)
}

func summaryLimit(limit int) int {
	if limit <= 0 {
		return defaultSummaryLimit
	}
	return limit
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (attendance.Record, error) {
	var (
		record  attendance.Record
		dateRaw string
		status  string
	)
	if err := row.Scan(
		&record.ID,
		&record.EmployeeID,
		&record.EmployeeName,
		&dateRaw,
		&record.Shift,
		&record.TimeInActual,
		&record.TimeOutActual,
		&record.LateBy,
		&record.EarlyBy,
		&record.Overtime,
		&record.Duration,
		&record.TotalDuration,
		&record.RegularOvertime,
		&status,
		&record.Present,
		&record.Absent,
		&record.Leave,
		&record.WeeklyOff,
		&record.Holiday,
		&record.SourceFile,
		&record.ImportRun,
	); err != nil {
		return attendance.Record{}, fmt.Errorf("scan attendance record: %w", err)
	}
	date, err := timeutil.ParseDate(dateRaw)
	if err != nil {
		return attendance.Record{}, err
	}
	record.Date = date
	record.Status = attendance.Status(status)
	return record, nil
}

func scanSummary(row rowScanner) (attendance.MonthlySummary, error) {
	var (
		summary    attendance.MonthlySummary
		updatedRaw string
	)
	if err := row.Scan(
		&summary.ID,
		&summary.EmployeeID,
		&summary.EmployeeName,
		&summary.Year,
		&summary.Month,
		&summary.MonthName,
		&summary.Days,
		&summary.Present,
		&summary.Absent,
		&summary.LeaveTaken,
		&summary.WeeklyOffPresent,
		&summary.WeeklyOffCount,
		&summary.HolidayCount,
		&summary.Duration,
		&summary.TotalDuration,
		&summary.Overtime,
		&summary.LateBy,
		&summary.EarlyBy,
		&summary.RegularOvertime,
		&updatedRaw,
	); err != nil {
		return attendance.MonthlySummary{}, fmt.Errorf("scan monthly summary: %w", err)
	}
	if updated, err := time.Parse(time.RFC3339, updatedRaw); err == nil {
		summary.UpdatedAt = updated
	}
	return summary, nil
}

const (
	statsEmployeesQuery = `SELECT MIN(employee_id) FROM monthly_summaries GROUP BY employee_key ORDER BY employee_key;`
	statsYearsQuery     = `SELECT DISTINCT year FROM monthly_summaries ORDER BY year DESC;`
)
