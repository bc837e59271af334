package cmd

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"bioattend/attendance"
	"bioattend/storage"

	"github.com/spf13/cobra"
)

var (
	summariesEmployeeID string
	summariesYear       int
	summariesMonth      int
	summariesPage       int
	summariesLimit      int
)

var summariesCmd = &cobra.Command{
	Use:   "summaries",
	Short: "Show monthly attendance summaries",
	Long: `Show per employee-month summaries, newest month first.

Summaries are written by "bioattend import" and rebuilt by "bioattend recalculate".`,
	Example: `
  # All summaries of April 2025
  bioattend summaries --year 2025 --month 4

  # Summaries of employees whose code contains "E0"
  bioattend summaries --emp E0
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if summariesMonth < 0 || summariesMonth > 12 {
			return fmt.Errorf("invalid --month %d (expected 1-12)", summariesMonth)
		}

		ctx := cmd.Context()
		_, store, err := loadStore(ctx)
		if err != nil {
			return err
		}
		defer store.Close()

		summaries, total, err := store.ListSummaries(ctx, storage.SummaryFilter{
			EmployeeID: summariesEmployeeID,
			Year:       summariesYear,
			Month:      summariesMonth,
			Page:       summariesPage,
			Limit:      summariesLimit,
		})
		if err != nil {
			return err
		}

		if err := printSummaries(summaries); err != nil {
			return err
		}
		fmt.Printf("Showing %d of %d monthly summaries\n", len(summaries), total)
		return nil
	},
}

var summariesStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show counts of stored monthly summaries",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		_, store, err := loadStore(ctx)
		if err != nil {
			return err
		}
		defer store.Close()

		stats, err := store.SummaryStats(ctx)
		if err != nil {
			return err
		}

		years := make([]string, len(stats.Years))
		for i, year := range stats.Years {
			years[i] = fmt.Sprint(year)
		}
		fmt.Printf("Monthly summaries: %d\n", stats.TotalSummaries)
		fmt.Printf("Employees: %d (%s)\n", stats.UniqueEmployees, strings.Join(stats.Employees, ", "))
		fmt.Printf("Years: %s\n", strings.Join(years, ", "))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(summariesCmd)
	summariesCmd.AddCommand(summariesStatsCmd)

	summariesCmd.Flags().StringVar(&summariesEmployeeID, "emp", "", "Employee code substring")
	summariesCmd.Flags().IntVar(&summariesYear, "year", 0, "Year filter")
	summariesCmd.Flags().IntVar(&summariesMonth, "month", 0, "Month filter (1-12)")
	summariesCmd.Flags().IntVar(&summariesPage, "page", 1, "Page number")
	summariesCmd.Flags().IntVar(&summariesLimit, "limit", 50, "Rows per page")
}

func printSummaries(summaries []attendance.MonthlySummary) error {
	writer := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(writer, "ID\tEMP ID\tNAME\tMONTH\tDAYS\tPRESENT\tABSENT\tLEAVE\tWO\tHO\tDURATION\tLATE BY\tEARLY BY")
	for _, s := range summaries {
		fmt.Fprintf(writer, "%d\t%s\t%s\t%s %d\t%d\t%g\t%g\t%g\t%g\t%g\t%s\t%s\t%s\n",
			s.ID,
			s.EmployeeID,
			s.EmployeeName,
			s.MonthName,
			s.Year,
			s.Days,
			s.Present,
			s.Absent,
			s.LeaveTaken,
			s.WeeklyOffCount,
			s.HolidayCount,
			s.Duration,
			s.LateBy,
			s.EarlyBy,
		)
	}
	return writer.Flush()
}
