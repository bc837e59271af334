package reconcile

import (
	"context"
	"fmt"

	"bioattend/attendance"
	"bioattend/storage"
	"bioattend/summary"
)

type Result struct {
	RecordsRead        int `json:"recordsRead"`
	EmployeesProcessed int `json:"employeesProcessed"`
	SummariesWritten   int `json:"summariesWritten"`
}

// Store is the subset of storage.Store used to rebuild summaries.
type Store interface {
	ListRecords(ctx context.Context, filter storage.RecordFilter) ([]attendance.Record, int, error)
	UpsertSummaries(ctx context.Context, summaries []attendance.MonthlySummary) (int, error)
}

// Run recomputes every employee-month summary from the stored records and
// upserts the result. Summaries of months without records are left untouched.
func Run(ctx context.Context, store Store) (*Result, error) {
	records, _, err := store.ListRecords(ctx, storage.RecordFilter{SortBy: "date", SortOrder: "asc"})
	if err != nil {
		return nil, fmt.Errorf("load attendance records: %w", err)
	}

	result := &Result{RecordsRead: len(records)}
	if len(records) == 0 {
		return result, nil
	}

	summaries := summary.BuildMonthlyByEmployee(records)
	result.EmployeesProcessed = countEmployees(summaries)

	written, err := store.UpsertSummaries(ctx, summaries)
	if err != nil {
		return nil, fmt.Errorf("persist monthly summaries: %w", err)
	}
	result.SummariesWritten = written

	return result, nil
}

func countEmployees(summaries []attendance.MonthlySummary) int {
	seen := make(map[string]struct{}, len(summaries))
	for _, item := range summaries {
		seen[attendance.EmployeeKey(item.EmployeeID)] = struct{}{}
	}
	return len(seen)
}
