package importer

import (
	"context"
	"errors"
	"testing"

	"bioattend/attendance"
)

type fakeGateway struct {
	records   []attendance.Record
	summaries []attendance.MonthlySummary
	calls     int
	err       error
}

func (g *fakeGateway) UpsertRecords(_ context.Context, records []attendance.Record) (int, error) {
	g.calls++
	if g.err != nil {
		return 0, g.err
	}
	g.records = append(g.records, records...)
	return len(records), nil
}

func (g *fakeGateway) UpsertSummaries(_ context.Context, summaries []attendance.MonthlySummary) (int, error) {
	g.calls++
	g.summaries = append(g.summaries, summaries...)
	return len(summaries), nil
}

func TestIngest_FullMonthBlock(t *testing.T) {
	t.Parallel()

	grid := textGrid(employeeBlock("E1", "Asha Rao", monthDays("Apr", 1, 30, "09:00", "18:00")))
	result, err := Ingest(grid, Options{Now: testNow})
	if err != nil {
		t.Fatalf("ingest: %v", err)
	}
	if result.EmployeeCount != 1 {
		t.Fatalf("expected 1 employee, got %d", result.EmployeeCount)
	}
	if len(result.Records) != 30 {
		t.Fatalf("expected 30 records, got %d", len(result.Records))
	}
	if len(result.Summaries) != 1 {
		t.Fatalf("expected 1 summary, got %d", len(result.Summaries))
	}
	if result.RunID == "" || result.Records[0].ImportRun != result.RunID {
		t.Fatalf("expected records to carry the run id %q", result.RunID)
	}

	summary := result.Summaries[0]
	accounted := summary.Present + summary.Absent + summary.LeaveTaken + summary.WeeklyOffCount + summary.HolidayCount
	if accounted != 30 {
		t.Fatalf("expected 30 accounted days, got %v (%+v)", accounted, summary)
	}
	if summary.WeeklyOffCount != 4 || summary.Present != 26 {
		t.Fatalf("expected 26 present and 4 weekly offs, got %v/%v", summary.Present, summary.WeeklyOffCount)
	}
	if summary.Duration != "240:00" {
		t.Fatalf("expected 240:00 duration over 30 days, got %s", summary.Duration)
	}
}

func TestIngest_NoEmployeeMarkerFails(t *testing.T) {
	t.Parallel()

	grid := GridFromStrings([][]string{
		{"Name", "Date", "In"},
		{"Asha", "3-Mar", "09:00"},
		{"Ravi", "3-Mar", "09:10"},
	}, false)

	result, err := Ingest(grid, Options{Now: testNow})
	if !errors.Is(err, ErrNoRecords) {
		t.Fatalf("expected ErrNoRecords, got %v", err)
	}
	if result.EmployeeCount != 0 || len(result.Records) != 0 {
		t.Fatalf("expected empty result, got %+v", result)
	}
}

func TestIngest_SkipsDoNotAbortLaterBlocks(t *testing.T) {
	t.Parallel()

	broken := employeeBlock("E1", "Asha Rao", []dayColumn{{header: "31-Feb", in: "09:00"}})
	grid := textGrid(broken, employeeBlock("E2", "Ravi Kumar", monthDays("Mar", 3, 7, "09:00", "18:00")))

	result, err := Ingest(grid, Options{Now: testNow})
	if err != nil {
		t.Fatalf("ingest: %v", err)
	}
	if result.EmployeeCount != 2 {
		t.Fatalf("expected 2 employees, got %d", result.EmployeeCount)
	}
	if len(result.Records) != 5 || result.Records[0].EmployeeID != "E2" {
		t.Fatalf("expected 5 records for E2, got %d", len(result.Records))
	}
	if len(result.SkippedRows) != 1 || result.SkippedRows[0].Reason != "Invalid date format: 31-Feb" {
		t.Fatalf("unexpected skips: %+v", result.SkippedRows)
	}
}

func TestIngest_RepeatedEmployeeSharesMonthlySummary(t *testing.T) {
	t.Parallel()

	grid := textGrid(
		employeeBlock("E1", "Asha Rao", monthDays("Mar", 3, 4, "09:00", "18:00")),
		employeeBlock("e1", "Asha Rao", monthDays("Mar", 4, 6, "09:00", "18:00")),
	)

	result, err := Ingest(grid, Options{Now: testNow})
	if err != nil {
		t.Fatalf("ingest: %v", err)
	}
	if len(result.Records) != 5 {
		t.Fatalf("expected 5 records, got %d", len(result.Records))
	}
	if len(result.Summaries) != 1 {
		t.Fatalf("expected one summary for the employee-month, got %+v", result.Summaries)
	}
	got := result.Summaries[0]
	if got.EmployeeID != "e1" || got.Year != 2025 || got.Month != 3 {
		t.Fatalf("unexpected summary key: %+v", got)
	}
	if got.Days != 4 || got.Present != 4 {
		t.Fatalf("expected 4 distinct present days, got days=%d present=%v", got.Days, got.Present)
	}
}

func TestImport_PersistsBothBatches(t *testing.T) {
	t.Parallel()

	grid := textGrid(
		employeeBlock("E1", "Asha Rao", monthDays("Mar", 3, 7, "09:00", "18:00")),
		employeeBlock("E2", "Ravi Kumar", monthDays("Mar", 3, 4, "09:00", "18:00")),
	)
	gateway := &fakeGateway{}

	report, err := Import(context.Background(), gateway, grid, Options{Now: testNow, SourceFile: "march.xlsx"})
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if gateway.calls != 2 {
		t.Fatalf("expected one call per batch, got %d", gateway.calls)
	}
	if report.TotalRecords != 7 || report.RecordsUpserted != 7 {
		t.Fatalf("unexpected record counts: %+v", report)
	}
	if report.MonthlySummariesCount != 2 || report.SummariesUpserted != 2 {
		t.Fatalf("unexpected summary counts: %+v", report)
	}
	if gateway.records[0].SourceFile != "march.xlsx" {
		t.Fatalf("expected source file on records, got %q", gateway.records[0].SourceFile)
	}
}

func TestImport_WritesNothingWhenEmpty(t *testing.T) {
	t.Parallel()

	gateway := &fakeGateway{}
	report, err := Import(context.Background(), gateway, Grid{}, Options{Now: testNow})
	if !errors.Is(err, ErrNoRecords) {
		t.Fatalf("expected ErrNoRecords, got %v", err)
	}
	if gateway.calls != 0 {
		t.Fatalf("expected no gateway calls, got %d", gateway.calls)
	}
	if report == nil || report.EmployeeCount != 0 {
		t.Fatalf("expected an empty report, got %+v", report)
	}
}

func TestImport_WrapsGatewayErrors(t *testing.T) {
	t.Parallel()

	gateway := &fakeGateway{err: errors.New("disk full")}
	grid := textGrid(employeeBlock("E1", "Asha Rao", monthDays("Mar", 3, 4, "09:00", "18:00")))
	if _, err := Import(context.Background(), gateway, grid, Options{Now: testNow}); err == nil {
		t.Fatalf("expected gateway error")
	}
}
