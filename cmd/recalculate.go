package cmd

import (
	"bioattend/reconcile"

	"github.com/spf13/cobra"
)

var recalculateCmd = &cobra.Command{
	Use:   "recalculate",
	Short: "Rebuild monthly summaries from stored attendance records",
	Long: `Rebuild every employee-month summary from the stored attendance records.

Why this exists:
- JSON uploads store records without summaries.
- Records of one month may arrive in several imports.

Summaries are upserted; summaries of months without records are kept.`,
	Example: `
  # Rebuild summaries
  bioattend recalculate

  # Typical workflow: upload, recalculate, export
  bioattend upload -i ./activities.json
  bioattend recalculate
  bioattend export --kind summaries --output ./summaries.csv
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		_, store, err := loadStore(ctx)
		if err != nil {
			return err
		}
		defer store.Close()

		result, err := reconcile.Run(ctx, store)
		if err != nil {
			return err
		}

		printRecalculateResult("Recalculate completed.", result)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(recalculateCmd)
}
