package storage

import (
	"context"
	"fmt"
	"time"

	"bioattend/attendance"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresStore struct {
	pool *pgxpool.Pool
	now  func() time.Time
}

func OpenPostgres(ctx context.Context, dsn string) (*PostgresStore, error) {
	config, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse postgres dsn: %w", err)
	}

	// Connection pool settings
	config.MaxConns = 25
	config.MinConns = 5

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("open postgres pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	store := &PostgresStore{pool: pool, now: time.Now}
	if err := store.ensureSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return store, nil
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func (s *PostgresStore) ensureSchema(ctx context.Context) error {
	const schema = `
CREATE TABLE IF NOT EXISTS attendance_records (
	id BIGSERIAL PRIMARY KEY,
	employee_key TEXT NOT NULL,
	employee_id TEXT NOT NULL,
	employee_name TEXT NOT NULL,
	date DATE NOT NULL,
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
	present DOUBLE PRECISION NOT NULL DEFAULT 0,
	absent DOUBLE PRECISION NOT NULL DEFAULT 0,
	on_leave DOUBLE PRECISION NOT NULL DEFAULT 0,
	weekly_off DOUBLE PRECISION NOT NULL DEFAULT 0,
	holiday DOUBLE PRECISION NOT NULL DEFAULT 0,
	source_file TEXT NOT NULL DEFAULT '',
	import_run TEXT NOT NULL DEFAULT '',
	updated_at TIMESTAMPTZ NOT NULL,
	UNIQUE(employee_key, date)
);

CREATE INDEX IF NOT EXISTS idx_attendance_records_date ON attendance_records(date);

CREATE TABLE IF NOT EXISTS monthly_summaries (
	id BIGSERIAL PRIMARY KEY,
	employee_key TEXT NOT NULL,
	employee_id TEXT NOT NULL,
	employee_name TEXT NOT NULL,
	year INTEGER NOT NULL,
	month INTEGER NOT NULL CHECK(month BETWEEN 1 AND 12),
	month_name TEXT NOT NULL,
	total_days INTEGER NOT NULL DEFAULT 0,
	total_present DOUBLE PRECISION NOT NULL DEFAULT 0,
	total_absent DOUBLE PRECISION NOT NULL DEFAULT 0,
	total_leave_taken DOUBLE PRECISION NOT NULL DEFAULT 0,
	total_weekly_off_present DOUBLE PRECISION NOT NULL DEFAULT 0,
	total_weekly_off_count DOUBLE PRECISION NOT NULL DEFAULT 0,
	total_holiday_count DOUBLE PRECISION NOT NULL DEFAULT 0,
	total_duration TEXT NOT NULL DEFAULT '00:00',
	total_t_duration TEXT NOT NULL DEFAULT '00:00',
	total_overtime TEXT NOT NULL DEFAULT '00:00',
	total_late_by TEXT NOT NULL DEFAULT '00:00',
	total_early_by TEXT NOT NULL DEFAULT '00:00',
	total_regular_ot TEXT NOT NULL DEFAULT '00:00',
	updated_at TIMESTAMPTZ NOT NULL,
	UNIQUE(employee_key, year, month)
);
`
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

func (s *PostgresStore) UpsertRecords(ctx context.Context, records []attendance.Record) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}
	now := s.now()
	statement := recordUpsertStatement(postgresDialect)

	batch := &pgx.Batch{}
	for _, record := range records {
		batch.Queue(statement, recordArgs(postgresDialect, record, now)...)
	}
	return s.sendBatch(ctx, batch)
}

func (s *PostgresStore) UpsertSummaries(ctx context.Context, summaries []attendance.MonthlySummary) (int, error) {
	if len(summaries) == 0 {
		return 0, nil
	}
	now := s.now()
	statement := summaryUpsertStatement(postgresDialect)

	batch := &pgx.Batch{}
	for _, summary := range summaries {
		batch.Queue(statement, summaryArgs(postgresDialect, summary, now)...)
	}
	return s.sendBatch(ctx, batch)
}

// sendBatch runs the queued upserts inside one transaction.
func (s *PostgresStore) sendBatch(ctx context.Context, batch *pgx.Batch) (int, error) {
	written := 0
	err := s.withTransaction(ctx, func(tx pgx.Tx) error {
		results := tx.SendBatch(ctx, batch)
		for i := 0; i < batch.Len(); i++ {
			if _, err := results.Exec(); err != nil {
				_ = results.Close()
				return fmt.Errorf("upsert row %d: %w", i, err)
			}
			written++
		}
		return results.Close()
	})
	if err != nil {
		return 0, err
	}
	return written, nil
}

func (s *PostgresStore) withTransaction(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil {
			return fmt.Errorf("rollback error: %v (original error: %w)", rbErr, err)
		}
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListRecords(ctx context.Context, filter RecordFilter) ([]attendance.Record, int, error) {
	where := recordWhere(postgresDialect, filter)

	total := 0
	if err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM attendance_records`+where.clause(), where.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count attendance records: %w", err)
	}

	query := `SELECT ` + recordSelectColumns(postgresDialect) + ` FROM attendance_records` +
		where.clause() + recordOrder(filter) + pageClause(filter.Page, filter.Limit)
	rows, err := s.pool.Query(ctx, query, where.args...)
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

func (s *PostgresStore) DeleteAllRecords(ctx context.Context) (int64, error) {
	return s.execCount(ctx, "delete attendance records", `DELETE FROM attendance_records`)
}

func (s *PostgresStore) ListSummaries(ctx context.Context, filter SummaryFilter) ([]attendance.MonthlySummary, int, error) {
	where := summaryWhere(postgresDialect, filter)

	total := 0
	if err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM monthly_summaries`+where.clause(), where.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count monthly summaries: %w", err)
	}

	query := `SELECT ` + summarySelectColumns(postgresDialect) + ` FROM monthly_summaries` + where.clause() +
		` ORDER BY year DESC, month DESC, employee_key ASC` + pageClause(filter.Page, summaryLimit(filter.Limit))
	summaries, err := s.querySummaries(ctx, query, where.args...)
	if err != nil {
		return nil, 0, err
	}
	return summaries, total, nil
}

func (s *PostgresStore) EmployeeSummaries(ctx context.Context, employeeID string, year, month int) ([]attendance.MonthlySummary, error) {
	where := &whereBuilder{d: postgresDialect}
	where.add("employee_key = ?", attendance.EmployeeKey(employeeID))
	if year > 0 {
		where.add("year = ?", year)
	}
	if month > 0 {
		where.add("month = ?", month)
	}
	query := `SELECT ` + summarySelectColumns(postgresDialect) + ` FROM monthly_summaries` + where.clause() +
		` ORDER BY year DESC, month DESC`
	return s.querySummaries(ctx, query, where.args...)
}

func (s *PostgresStore) querySummaries(ctx context.Context, query string, args ...any) ([]attendance.MonthlySummary, error) {
	rows, err := s.pool.Query(ctx, query, args...)
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

func (s *PostgresStore) DeleteSummary(ctx context.Context, id int64) error {
	if id <= 0 {
		return fmt.Errorf("summary id must be > 0")
	}
	var deleted int64
	err := s.pool.QueryRow(ctx, `DELETE FROM monthly_summaries WHERE id = $1 RETURNING id`, id).Scan(&deleted)
	if err == pgx.ErrNoRows {
		return ErrSummaryNotFound
	}
	if err != nil {
		return fmt.Errorf("delete monthly summary: %w", err)
	}
	return nil
}

func (s *PostgresStore) DeleteEmployeeSummaries(ctx context.Context, employeeID string) (int64, error) {
	return s.execCount(ctx, "delete employee summaries", `DELETE FROM monthly_summaries WHERE employee_key = $1`, attendance.EmployeeKey(employeeID))
}

func (s *PostgresStore) DeleteAllSummaries(ctx context.Context) (int64, error) {
	return s.execCount(ctx, "delete monthly summaries", `DELETE FROM monthly_summaries`)
}

func (s *PostgresStore) SummaryStats(ctx context.Context) (SummaryStats, error) {
	stats := SummaryStats{Employees: []string{}, Years: []int{}}
	if err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM monthly_summaries`).Scan(&stats.TotalSummaries); err != nil {
		return SummaryStats{}, fmt.Errorf("count monthly summaries: %w", err)
	}

	employees, err := s.pool.Query(ctx, statsEmployeesQuery)
	if err != nil {
		return SummaryStats{}, fmt.Errorf("query summary employees: %w", err)
	}
	stats.Employees, err = pgx.CollectRows(employees, pgx.RowTo[string])
	if err != nil {
		return SummaryStats{}, fmt.Errorf("collect summary employees: %w", err)
	}
	stats.UniqueEmployees = len(stats.Employees)

	years, err := s.pool.Query(ctx, statsYearsQuery)
	if err != nil {
		return SummaryStats{}, fmt.Errorf("query summary years: %w", err)
	}
	stats.Years, err = pgx.CollectRows(years, pgx.RowTo[int])
	if err != nil {
		return SummaryStats{}, fmt.Errorf("collect summary years: %w", err)
	}
	return stats, nil
}

func (s *PostgresStore) execCount(ctx context.Context, action, statement string, args ...any) (int64, error) {
	tag, err := s.pool.Exec(ctx, statement, args...)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", action, err)
	}
	return tag.RowsAffected(), nil
}
