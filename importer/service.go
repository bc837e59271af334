package importer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"bioattend/attendance"
	"bioattend/internal/classify"
	"bioattend/summary"
)

// ErrNoRecords is returned when a sheet yields no attendance records at all.
var ErrNoRecords = errors.New("no attendance records could be parsed from the sheet")

// shortMonthColumns is the block width below which a warning is logged.
const shortMonthColumns = 25

type Options struct {
	Rules      classify.Rules
	SourceFile string
	Now        func() time.Time
	Logger     *slog.Logger
}

func (o Options) withDefaults() Options {
	if o.Rules.HalfDayAfter == 0 {
		o.Rules = classify.DefaultRules()
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	return o
}

type Result struct {
	RunID         string
	SourceFile    string
	EmployeeCount int
	Records       []attendance.Record
	Summaries     []attendance.MonthlySummary
	SkippedRows   []attendance.SkipEntry
	RowsScanned   int
	TotalRows     int
}

// Ingest scans the grid for employee blocks, builds their records and
// monthly summaries. Skips never abort the scan; ErrNoRecords is returned
// together with the partial result when nothing was produced.
func Ingest(grid Grid, options Options) (*Result, error) {
	options = options.withDefaults()
	result := &Result{
		RunID:       uuid.NewString(),
		SourceFile:  options.SourceFile,
		Records:     make([]attendance.Record, 0, 256),
		Summaries:   make([]attendance.MonthlySummary, 0, 16),
		SkippedRows: make([]attendance.SkipEntry, 0),
		TotalRows:   len(grid),
	}
	logger := options.Logger.With("run_id", result.RunID)

	buildOptions := BuildOptions{
		Year:       options.Now().Year(),
		Rules:      options.Rules,
		SourceFile: options.SourceFile,
		ImportRun:  result.RunID,
	}

	locator := NewLocator(grid, logger)
	var tally classify.Tally
	for {
		block, ok := locator.Next()
		result.SkippedRows = append(result.SkippedRows, locator.DrainSkipped()...)
		if !ok {
			break
		}
		if len(block.DateColumns) < shortMonthColumns {
			logger.Warn("few date columns for employee", "employee", block.EmployeeID, "date_columns", len(block.DateColumns))
		}

		var (
			records []attendance.Record
			skipped []attendance.SkipEntry
		)
		records, skipped, tally = BuildRecords(grid, block, buildOptions, tally)
		result.SkippedRows = append(result.SkippedRows, skipped...)
		result.Records = append(result.Records, records...)

		logger.Debug("employee processed", "employee", block.EmployeeID, "records", len(records), "skipped", len(skipped))
	}

	// An employee may appear in several blocks; each summary covers every
	// record that will be stored under its key.
	result.Summaries = summary.BuildMonthlyByEmployee(latestPerDay(result.Records))
	result.EmployeeCount = locator.EmployeesFound()
	result.RowsScanned = min(locator.Cursor(), len(grid))

	logger.Info("sheet scanned",
		"rows", result.TotalRows,
		"employees", result.EmployeeCount,
		"records", len(result.Records),
		"summaries", len(result.Summaries),
		"skipped", len(result.SkippedRows),
	)

	if len(result.Records) == 0 {
		return result, ErrNoRecords
	}
	return result, nil
}

// latestPerDay keeps the last record for each employee and date, matching
// what the store keeps after the upsert.
func latestPerDay(records []attendance.Record) []attendance.Record {
	type dayKey struct {
		employee string
		date     time.Time
	}
	index := make(map[dayKey]int, len(records))
	kept := make([]attendance.Record, 0, len(records))
	for _, record := range records {
		key := dayKey{employee: attendance.EmployeeKey(record.EmployeeID), date: record.Date}
		if i, ok := index[key]; ok {
			kept[i] = record
			continue
		}
		index[key] = len(kept)
		kept = append(kept, record)
	}
	return kept
}

// Gateway is the persistence side of an import.
type Gateway interface {
	UpsertRecords(ctx context.Context, records []attendance.Record) (int, error)
	UpsertSummaries(ctx context.Context, summaries []attendance.MonthlySummary) (int, error)
}

type Report struct {
	RunID                 string                 `json:"runId"`
	SourceFile            string                 `json:"sourceFile,omitempty"`
	EmployeeCount         int                    `json:"employeeCount"`
	TotalRecords          int                    `json:"totalRecords"`
	MonthlySummariesCount int                    `json:"monthlySummariesCount"`
	RecordsUpserted       int                    `json:"insertedActivities"`
	SummariesUpserted     int                    `json:"insertedSummaries"`
	SkippedRows           []attendance.SkipEntry `json:"skippedRows"`
}

func (r *Result) Report() *Report {
	return &Report{
		RunID:                 r.RunID,
		SourceFile:            r.SourceFile,
		EmployeeCount:         r.EmployeeCount,
		TotalRecords:          len(r.Records),
		MonthlySummariesCount: len(r.Summaries),
		SkippedRows:           r.SkippedRows,
	}
}

// Import ingests the grid and upserts both batches. Nothing is written when
// ingestion fails.
func Import(ctx context.Context, gateway Gateway, grid Grid, options Options) (*Report, error) {
	result, err := Ingest(grid, options)
	if err != nil {
		return result.Report(), err
	}
	report := result.Report()

	report.RecordsUpserted, err = gateway.UpsertRecords(ctx, result.Records)
	if err != nil {
		return report, fmt.Errorf("store attendance records: %w", err)
	}
	report.SummariesUpserted, err = gateway.UpsertSummaries(ctx, result.Summaries)
	if err != nil {
		return report, fmt.Errorf("store monthly summaries: %w", err)
	}
	return report, nil
}
