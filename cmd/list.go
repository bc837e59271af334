package cmd

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"bioattend/attendance"
	"bioattend/internal/timeutil"
	"bioattend/storage"

	"github.com/spf13/cobra"
)

var (
	listEmployeeID   string
	listEmployeeName string
	listStatuses     []string
	listFrom         string
	listTo           string
	listSortBy       string
	listSortOrder    string
	listPage         int
	listLimit        int
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored attendance records",
	Long: `List attendance records with optional filters.

Employee code and name filters match substrings case-insensitively.
--status accepts codes (P, ½P, A, L, WO, HO) or names (PRESENT, HALF_PRESENT, ...).`,
	Example: `
  # Latest records first
  bioattend list --limit 20

  # Absences of one employee in April
  bioattend list --emp E01 --status A --from 2025-04-01 --to 2025-04-30

  # Sorted by employee code
  bioattend list --sort employee_id --order asc
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		filter, err := buildRecordFilter()
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		_, store, err := loadStore(ctx)
		if err != nil {
			return err
		}
		defer store.Close()

		records, total, err := store.ListRecords(ctx, filter)
		if err != nil {
			return err
		}

		writer := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(writer, "EMP ID\tNAME\tDATE\tIN\tOUT\tLATE BY\tEARLY BY\tDURATION\tSTATUS")
		for _, record := range records {
			fmt.Fprintf(writer, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
				record.EmployeeID,
				record.EmployeeName,
				timeutil.FormatDate(record.Date),
				record.TimeInActual,
				record.TimeOutActual,
				record.LateBy,
				record.EarlyBy,
				record.Duration,
				record.Status,
			)
		}
		if err := writer.Flush(); err != nil {
			return err
		}
		fmt.Printf("Showing %d of %d records\n", len(records), total)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().StringVar(&listEmployeeID, "emp", "", "Employee code substring")
	listCmd.Flags().StringVar(&listEmployeeName, "name", "", "Employee name substring")
	listCmd.Flags().StringSliceVar(&listStatuses, "status", nil, "Status codes or names (comma separated)")
	listCmd.Flags().StringVar(&listFrom, "from", "", "First date, format YYYY-MM-DD")
	listCmd.Flags().StringVar(&listTo, "to", "", "Last date, format YYYY-MM-DD")
	listCmd.Flags().StringVar(&listSortBy, "sort", "date", "Sort field: date|employee_id|employee_name|status")
	listCmd.Flags().StringVar(&listSortOrder, "order", "desc", "Sort order: asc|desc")
	listCmd.Flags().IntVar(&listPage, "page", 1, "Page number (with --limit)")
	listCmd.Flags().IntVar(&listLimit, "limit", 50, "Rows per page, 0 for all")
}

func buildRecordFilter() (storage.RecordFilter, error) {
	filter := storage.RecordFilter{
		EmployeeID:   listEmployeeID,
		EmployeeName: listEmployeeName,
		SortBy:       listSortBy,
		SortOrder:    listSortOrder,
		Page:         listPage,
		Limit:        listLimit,
	}

	statuses, err := parseStatuses(listStatuses)
	if err != nil {
		return filter, err
	}
	filter.Statuses = statuses

	if strings.TrimSpace(listFrom) != "" {
		if filter.From, err = timeutil.ParseDate(listFrom); err != nil {
			return filter, fmt.Errorf("invalid --from value: %w", err)
		}
	}
	if strings.TrimSpace(listTo) != "" {
		if filter.To, err = timeutil.ParseDate(listTo); err != nil {
			return filter, fmt.Errorf("invalid --to value: %w", err)
		}
	}
	if !filter.From.IsZero() && !filter.To.IsZero() && filter.From.After(filter.To) {
		return filter, fmt.Errorf("invalid range: --from must be <= --to")
	}
	return filter, nil
}

func parseStatuses(values []string) ([]attendance.Status, error) {
	statuses := make([]attendance.Status, 0, len(values))
	for _, value := range values {
		if strings.TrimSpace(value) == "" {
			continue
		}
		status, ok := attendance.ParseStatus(value)
		if !ok {
			return nil, fmt.Errorf("unknown status %q", value)
		}
		statuses = append(statuses, status)
	}
	return statuses, nil
}
