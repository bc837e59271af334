package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"bioattend/attendance"

	_ "modernc.org/sqlite"
)

type SQLiteStore struct {
	db  *sql.DB
	now func() time.Time
}

func OpenSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}

	store := &SQLiteStore{db: db, now: time.Now}
	if err := store.ensureSchema(); err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) ensureSchema() error {
	const schema = `
CREATE TABLE IF NOT EXISTS attendance_records (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	employee_key TEXT NOT NULL,
	employee_id TEXT NOT NULL,
	employee_name TEXT NOT NULL,
	date TEXT NOT NULL,
	shift TEXT NOT NULL DEFAULT '',
	time_in_actual TEXT NOT NULL DEFAULT '00:00:00',
	time_out_actual TEXT NOT NULL DEFAULT '00:00:00',
	late_by TEXT NOT NULL DEFAULT '00:00:00',
	early_by TEXT NOT NULL DEFAULT '00:00:00',
	overtime TEXT NOT NULL DEFAULT '00:00:00',
	duration TEXT NOT NULL DEFAULT '00:00:00',
	total_duration TEXT NOT NULL DEFAULT '00:00:00',
	regular_overtime TEXT NOT NULL DEFAULT '00:00:00',
	status TEXT NOT NULL DEFAULT 'A',
	present REAL NOT NULL DEFAULT 0,
	absent REAL NOT NULL DEFAULT 0,
	on_leave REAL NOT NULL DEFAULT 0,
	weekly_off REAL NOT NULL DEFAULT 0,
	holiday REAL NOT NULL DEFAULT 0,
	source_file TEXT NOT NULL DEFAULT '',
	import_run TEXT NOT NULL DEFAULT '',
	updated_at TEXT NOT NULL,
	UNIQUE(employee_key, date)
);

CREATE INDEX IF NOT EXISTS idx_attendance_records_date ON attendance_records(date);

CREATE TABLE IF NOT EXISTS monthly_summaries (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	employee_key TEXT NOT NULL,
	employee_id TEXT NOT NULL,
	employee_name TEXT NOT NULL,
	year INTEGER NOT NULL,
	month INTEGER NOT NULL CHECK(month BETWEEN 1 AND 12),
	month_name TEXT NOT NULL,
	total_days INTEGER NOT NULL DEFAULT 0,
	total_present REAL NOT NULL DEFAULT 0,
	total_absent REAL NOT NULL DEFAULT 0,
	total_leave_taken REAL NOT NULL DEFAULT 0,
	total_weekly_off_present REAL NOT NULL DEFAULT 0,
	total_weekly_off_count REAL NOT NULL DEFAULT 0,
	total_holiday_count REAL NOT NULL DEFAULT 0,
	total_duration TEXT NOT NULL DEFAULT '00:00',
	total_t_duration TEXT NOT NULL DEFAULT '00:00',
	total_overtime TEXT NOT NULL DEFAULT '00:00',
	total_late_by TEXT NOT NULL DEFAULT '00:00',
	total_early_by TEXT NOT NULL DEFAULT '00:00',
	total_regular_ot TEXT NOT NULL DEFAULT '00:00',
	updated_at TEXT NOT NULL,
	UNIQUE(employee_key, year, month)
);
`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// UpsertRecords writes the batch in one transaction. A later record with the
// same employee and date replaces the earlier one.
func (s *SQLiteStore) UpsertRecords(ctx context.Context, records []attendance.Record) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}
	now := s.now()
	return s.upsertBatch(ctx, recordUpsertStatement(sqliteDialect), len(records), func(i int) []any {
		return recordArgs(sqliteDialect, records[i], now)
	})
}

func (s *SQLiteStore) UpsertSummaries(ctx context.Context, summaries []attendance.MonthlySummary) (int, error) {
	if len(summaries) == 0 {
		return 0, nil
	}
	now := s.now()
	return s.upsertBatch(ctx, summaryUpsertStatement(sqliteDialect), len(summaries), func(i int) []any {
		return summaryArgs(sqliteDialect, summaries[i], now)
	})
}

func (s *SQLiteStore) upsertBatch(ctx context.Context, statement string, count int, args func(i int) []any) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, statement)
	if err != nil {
		_ = tx.Rollback()
		return 0, fmt.Errorf("prepare upsert statement: %w", err)
	}
	defer stmt.Close()

	written := 0
	for i := 0; i < count; i++ {
		if _, err := stmt.ExecContext(ctx, args(i)...); err != nil {
			_ = tx.Rollback()
			return written, fmt.Errorf("upsert row %d: %w", i, err)
		}
		written++
	}

	if err := tx.Commit(); err != nil {
		return written, fmt.Errorf("commit transaction: %w", err)
	}
	return written, nil
}

func (s *SQLiteStore) ListRecords(ctx context.Context, filter RecordFilter) ([]attendance.Record, int, error) {
	where := recordWhere(sqliteDialect, filter)

	total := 0
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM attendance_records`+where.clause(), where.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count attendance records: %w", err)
	}

	query := `SELECT ` + recordSelectColumns(sqliteDialect) + ` FROM attendance_records` +
		where.clause() + recordOrder(filter) + pageClause(filter.Page, filter.Limit)
	rows, err := s.db.QueryContext(ctx, query, where.args...)
	if err != nil {
		return nil, 0, fmt.Errorf("query attendance records: %w", err)
	}
	defer rows.Close()

	records := make([]attendance.Record, 0, 64)
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, 0, err
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate attendance records: %w", err)
	}
	return records, total, nil
}

func (s *SQLiteStore) DeleteAllRecords(ctx context.Context) (int64, error) {
	return s.execCount(ctx, "delete attendance records", `DELETE FROM attendance_records;`)
}

func (s *SQLiteStore) ListSummaries(ctx context.Context, filter SummaryFilter) ([]attendance.MonthlySummary, int, error) {
	where := summaryWhere(sqliteDialect, filter)

	total := 0
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM monthly_summaries`+where.clause(), where.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count monthly summaries: %w", err)
	}

	query := `SELECT ` + summarySelectColumns(sqliteDialect) + ` FROM monthly_summaries` + where.clause() +
		` ORDER BY year DESC, month DESC, employee_key ASC` + pageClause(filter.Page, summaryLimit(filter.Limit))
	summaries, err := s.querySummaries(ctx, query, where.args...)
	if err != nil {
		return nil, 0, err
	}
	return summaries, total, nil
}

func (s *SQLiteStore) EmployeeSummaries(ctx context.Context, employeeID string, year, month int) ([]attendance.MonthlySummary, error) {
	where := &whereBuilder{d: sqliteDialect}
	where.add("employee_key = ?", attendance.EmployeeKey(employeeID))
	if year > 0 {
		where.add("year = ?", year)
	}
	if month > 0 {
		where.add("month = ?", month)
	}
	query := `SELECT ` + summarySelectColumns(sqliteDialect) + ` FROM monthly_summaries` + where.clause() +
		` ORDER BY year DESC, month DESC`
	return s.querySummaries(ctx, query, where.args...)
}

func (s *SQLiteStore) querySummaries(ctx context.Context, query string, args ...any) ([]attendance.MonthlySummary, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query monthly summaries: %w", err)
	}
	defer rows.Close()

	summaries := make([]attendance.MonthlySummary, 0, 16)
	for rows.Next() {
		summary, err := scanSummary(rows)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, summary)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate monthly summaries: %w", err)
	}
	return summaries, nil
}

func (s *SQLiteStore) DeleteSummary(ctx context.Context, id int64) error {
	if id <= 0 {
		return fmt.Errorf("summary id must be > 0")
	}
	deleted, err := s.execCount(ctx, "delete monthly summary", `DELETE FROM monthly_summaries WHERE id = ?;`, id)
	if err != nil {
		return err
	}
	if deleted == 0 {
		return ErrSummaryNotFound
	}
	return nil
}

func (s *SQLiteStore) DeleteEmployeeSummaries(ctx context.Context, employeeID string) (int64, error) {
	return s.execCount(ctx, "delete employee summaries", `DELETE FROM monthly_summaries WHERE employee_key = ?;`, attendance.EmployeeKey(employeeID))
}

func (s *SQLiteStore) DeleteAllSummaries(ctx context.Context) (int64, error) {
	return s.execCount(ctx, "delete monthly summaries", `DELETE FROM monthly_summaries;`)
}

func (s *SQLiteStore) SummaryStats(ctx context.Context) (SummaryStats, error) {
	stats := SummaryStats{Employees: []string{}, Years: []int{}}
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM monthly_summaries;`).Scan(&stats.TotalSummaries); err != nil {
		return SummaryStats{}, fmt.Errorf("count monthly summaries: %w", err)
	}

	employees, err := s.db.QueryContext(ctx, statsEmployeesQuery)
	if err != nil {
		return SummaryStats{}, fmt.Errorf("query summary employees: %w", err)
	}
	defer employees.Close()
	for employees.Next() {
		var employeeID string
		if err := employees.Scan(&employeeID); err != nil {
			return SummaryStats{}, fmt.Errorf("scan summary employee: %w", err)
		}
		stats.Employees = append(stats.Employees, employeeID)
	}
	if err := employees.Err(); err != nil {
		return SummaryStats{}, fmt.Errorf("iterate summary employees: %w", err)
	}
	stats.UniqueEmployees = len(stats.Employees)

	years, err := s.db.QueryContext(ctx, statsYearsQuery)
	if err != nil {
		return SummaryStats{}, fmt.Errorf("query summary years: %w", err)
	}
	defer years.Close()
	for years.Next() {
		var year int
		if err := years.Scan(&year); err != nil {
			return SummaryStats{}, fmt.Errorf("scan summary year: %w", err)
		}
		stats.Years = append(stats.Years, year)
	}
	if err := years.Err(); err != nil {
		return SummaryStats{}, fmt.Errorf("iterate summary years: %w", err)
	}
	return stats, nil
}

func (s *SQLiteStore) execCount(ctx context.Context, action, statement string, args ...any) (int64, error) {
	res, err := s.db.ExecContext(ctx, statement, args...)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", action, err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("read deleted row count: %w", err)
	}
	return rows, nil
}
