package cmd

import (
	"fmt"
	"strings"

	"bioattend/output"
	"bioattend/storage"

	"github.com/spf13/cobra"
)

var (
	exportFormat string
	exportKind   string
	exportOutput string
	exportYear   int
	exportMonth  int
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export attendance records or monthly summaries to CSV/Excel",
	Long: `Export stored data.

Kinds:
- records: one row per employee and day
- summaries: one row per employee and month (--year/--month narrow the export)

Output format can be selected explicitly via --format or inferred from --output extension.`,
	Example: `
  # Export all records to CSV
  bioattend export --kind records --output ./records.csv

  # Export April summaries to Excel
  bioattend export --kind summaries --year 2025 --month 4 --output ./april.xlsx

  # Force Excel format independent of extension
  bioattend export --kind summaries --format excel --output ./summaries.out
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := output.InferFormat(exportOutput, exportFormat)
		if err != nil {
			return err
		}
		writer, err := output.WriterForFormat(format)
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		_, store, err := loadStore(ctx)
		if err != nil {
			return err
		}
		defer store.Close()

		var table output.Table
		switch strings.TrimSpace(strings.ToLower(exportKind)) {
		case "", "records":
			records, _, err := store.ListRecords(ctx, storage.RecordFilter{SortBy: "employee_id", SortOrder: "asc"})
			if err != nil {
				return err
			}
			table = output.RecordsTable(records)
		case "summaries":
			summaries, _, err := store.ListSummaries(ctx, storage.SummaryFilter{
				Year:  exportYear,
				Month: exportMonth,
				Limit: exportSummaryLimit,
			})
			if err != nil {
				return err
			}
			table = output.SummariesTable(summaries)
		default:
			return fmt.Errorf("unsupported export kind: %s (supported: records, summaries)", exportKind)
		}

		if err := writer.Write(exportOutput, table); err != nil {
			return err
		}
		fmt.Printf("Export completed. Rows: %d, Kind: %s, Format: %s, File: %s\n", len(table.Rows), exportKind, format, exportOutput)
		return nil
	},
}

// exportSummaryLimit lifts the list default; summaries are one row per employee-month.
const exportSummaryLimit = 1 << 20

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringVar(&exportKind, "kind", "records", "Export kind: records|summaries")
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "", "Output format: csv|excel (optional, inferred from output extension)")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Output file path")
	exportCmd.Flags().IntVar(&exportYear, "year", 0, "Summary year filter")
	exportCmd.Flags().IntVar(&exportMonth, "month", 0, "Summary month filter (1-12)")

	_ = exportCmd.MarkFlagRequired("output")
}
