package cmd

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"bioattend/attendance"
	"bioattend/importer"
	"bioattend/reconcile"

	"github.com/spf13/cobra"
)

var (
	importInputs          []string
	importFormat          string
	importRecalculateMode string
	importShowSkipped     bool
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import biometric attendance exports into the attendance store",
	Long: `Scan each input sheet for employee blocks, build one attendance record per
employee and day, and upsert the records and their monthly summaries.

A block starts at an "Employee Code" row, followed by a "Days" row with one
column per date and the field rows (Shift, In Time, Out Time, Late By, ...).
Rows that cannot be interpreted are reported as skipped; they never abort the import.
When --format is omitted, format is inferred from each input file extension.

Records are keyed by employee code and date: importing the same month again
replaces the earlier values.`,
	Example: `
  # Import one Excel export
  bioattend import -i ./attendance-april.xlsx

  # Import several exports into a specific SQLite file
  bioattend import -i ./april.xlsx -i ./may.xls --db ./bioattend.db

  # Import a UTF-16 tab separated export
  bioattend import -i ./export.txt --format tsv

  # Rebuild all monthly summaries from stored records after the import
  bioattend import -i ./april.xlsx --recalculate on
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		cfg, store, err := loadStore(ctx)
		if err != nil {
			return err
		}
		defer store.Close()

		imported := 0
		for _, input := range importInputs {
			grid, err := importer.ReadFile(input, importFormat)
			if err != nil {
				return err
			}

			report, err := importer.Import(ctx, store, grid, importer.Options{
				Rules:      cfg.ClassifyRules(),
				SourceFile: filepath.Base(input),
			})
			if errors.Is(err, importer.ErrNoRecords) {
				fmt.Printf("Import of %s produced no records. Employees found: %d, Rows skipped: %d\n",
					input, report.EmployeeCount, len(report.SkippedRows))
				printSkipped(report.SkippedRows)
				continue
			}
			if err != nil {
				return err
			}
			imported++

			fmt.Printf("Import completed. File: %s, Employees: %d, Records: %d, Monthly summaries: %d, Rows skipped: %d\n",
				input,
				report.EmployeeCount,
				report.RecordsUpserted,
				report.SummariesUpserted,
				len(report.SkippedRows),
			)
			if importShowSkipped {
				printSkipped(report.SkippedRows)
			}
		}
		if imported == 0 {
			return importer.ErrNoRecords
		}

		shouldRecalculate, err := resolveRecalculateMode(importRecalculateMode, cfg.Import.RecalculateAfterImport)
		if err != nil {
			return err
		}
		if shouldRecalculate {
			result, err := reconcile.Run(ctx, store)
			if err != nil {
				return err
			}
			printRecalculateResult("Auto-recalculate completed.", result)
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(importCmd)

	importCmd.Flags().StringArrayVarP(&importInputs, "input", "i", nil, "Input file path (repeatable)")
	importCmd.Flags().StringVarP(&importFormat, "format", "f", "", "Input format: excel|xls|csv|tsv (optional, inferred from extension when omitted)")
	importCmd.Flags().StringVar(&importRecalculateMode, "recalculate", "auto", "Rebuild all monthly summaries after import: auto|on|off")
	importCmd.Flags().BoolVar(&importShowSkipped, "show-skipped", false, "Print every skipped row with its reason")

	_ = importCmd.MarkFlagRequired("input")
}

func resolveRecalculateMode(mode string, configDefault bool) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "", "auto":
		return configDefault, nil
	case "on", "true", "yes":
		return true, nil
	case "off", "false", "no":
		return false, nil
	default:
		return false, fmt.Errorf("invalid recalculate mode %q (supported: auto|on|off)", mode)
	}
}

func printSkipped(entries []attendance.SkipEntry) {
	for _, entry := range entries {
		fmt.Println("  " + formatSkip(entry))
	}
}

func formatSkip(entry attendance.SkipEntry) string {
	if entry.Col != nil {
		return fmt.Sprintf("row %d, col %d: %s", entry.Row, *entry.Col, entry.Reason)
	}
	return fmt.Sprintf("row %d: %s", entry.Row, entry.Reason)
}

func printRecalculateResult(prefix string, result *reconcile.Result) {
	fmt.Printf("%s Records read: %d, Employees: %d, Monthly summaries written: %d\n",
		prefix,
		result.RecordsRead,
		result.EmployeesProcessed,
		result.SummariesWritten,
	)
}
