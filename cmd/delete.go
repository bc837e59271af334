package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"bioattend/storage"

	"github.com/spf13/cobra"
)

var (
	deleteSummariesOnly bool
	deleteEmployeeID    string
	deleteSummaryID     int64
)

var (
	deletePromptInput  io.Reader = os.Stdin
	deletePromptOutput io.Writer = os.Stdout
)

var deleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Delete stored attendance records and monthly summaries",
	Long: `Destructive cleanup command.

Without flags, every attendance record and every monthly summary is deleted.
--summaries keeps the records and deletes summaries only; combine it with --emp
to limit the deletion to one employee. --id deletes a single summary.
Before deletion, an interactive security prompt requires typing exactly "Y".`,
	Example: `
  # Delete everything (requires interactive confirmation)
  bioattend delete

  # Delete all monthly summaries, keep records
  bioattend delete --summaries

  # Delete the summaries of one employee
  bioattend delete --summaries --emp E01

  # Delete one summary by id (see "bioattend summaries")
  bioattend delete --id 42
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		target, err := describeDeleteTarget(deleteSummariesOnly, deleteEmployeeID, deleteSummaryID)
		if err != nil {
			return err
		}

		confirmed, err := confirmDeletePrompt(deletePromptInput, deletePromptOutput, target)
		if err != nil {
			return err
		}
		if !confirmed {
			return fmt.Errorf("delete aborted: confirmation was not 'Y'")
		}

		ctx := cmd.Context()
		_, store, err := loadStore(ctx)
		if err != nil {
			return err
		}
		defer store.Close()

		return runDelete(ctx, store, deleteSummariesOnly, deleteEmployeeID, deleteSummaryID)
	},
}

func init() {
	rootCmd.AddCommand(deleteCmd)

	deleteCmd.Flags().BoolVar(&deleteSummariesOnly, "summaries", false, "Delete monthly summaries only")
	deleteCmd.Flags().StringVar(&deleteEmployeeID, "emp", "", "Employee code whose summaries are deleted (with --summaries)")
	deleteCmd.Flags().Int64Var(&deleteSummaryID, "id", 0, "Delete one monthly summary by id")
}

func describeDeleteTarget(summariesOnly bool, employeeID string, summaryID int64) (string, error) {
	employeeID = strings.TrimSpace(employeeID)
	switch {
	case summaryID < 0:
		return "", fmt.Errorf("--id must be > 0")
	case summaryID > 0 && employeeID != "":
		return "", fmt.Errorf("--id and --emp cannot be combined")
	case summaryID > 0:
		return fmt.Sprintf("monthly summary %d", summaryID), nil
	case employeeID != "" && !summariesOnly:
		return "", fmt.Errorf("--emp requires --summaries")
	case employeeID != "":
		return fmt.Sprintf("all monthly summaries of employee %s", employeeID), nil
	case summariesOnly:
		return "all monthly summaries", nil
	default:
		return "all attendance records and monthly summaries", nil
	}
}

func runDelete(ctx context.Context, store storage.Store, summariesOnly bool, employeeID string, summaryID int64) error {
	employeeID = strings.TrimSpace(employeeID)
	switch {
	case summaryID > 0:
		if err := store.DeleteSummary(ctx, summaryID); err != nil {
			return err
		}
		fmt.Printf("Deleted monthly summary %d\n", summaryID)
	case employeeID != "":
		deleted, err := store.DeleteEmployeeSummaries(ctx, employeeID)
		if err != nil {
			return err
		}
		fmt.Printf("Deleted monthly summaries of %s: %d\n", employeeID, deleted)
	default:
		summaries, err := store.DeleteAllSummaries(ctx)
		if err != nil {
			return err
		}
		if summariesOnly {
			fmt.Printf("Deleted monthly summaries: %d\n", summaries)
			return nil
		}
		records, err := store.DeleteAllRecords(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("Deleted attendance records: %d, monthly summaries: %d\n", records, summaries)
	}
	return nil
}

func confirmDeletePrompt(input io.Reader, output io.Writer, target string) (bool, error) {
	if input == nil {
		return false, fmt.Errorf("delete confirmation input is not available")
	}

	if output == nil {
		output = io.Discard
	}

	if _, err := fmt.Fprintf(output, "Delete %s? Type Y to confirm: ", target); err != nil {
		return false, fmt.Errorf("write delete confirmation prompt: %w", err)
	}

	line, err := bufio.NewReader(input).ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) {
			line = strings.TrimSpace(line)
			return line == "Y", nil
		}
		return false, fmt.Errorf("read delete confirmation: %w", err)
	}
	return strings.TrimSpace(line) == "Y", nil
}
