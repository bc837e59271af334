package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"bioattend/importer"
	"bioattend/reconcile"

	"github.com/spf13/cobra"
)

var (
	uploadInput           string
	uploadRecalculateMode string
)

var uploadCmd = &cobra.Command{
	Use:   "upload",
	Short: "Upload attendance records from a JSON file",
	Long: `Read attendance records from JSON and upsert them by employee code and date.

The file holds either an array of records or an object {"activities": [...]}.
Each record needs empId, empName and an ISO date; invalid records are skipped.
Monthly summaries are not derived from uploads; run "bioattend recalculate"
or pass --recalculate on.`,
	Example: `
  # Upload records exported by another system
  bioattend upload -i ./activities.json

  # Upload and rebuild monthly summaries
  bioattend upload -i ./activities.json --recalculate on
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		content, err := os.ReadFile(uploadInput)
		if err != nil {
			return fmt.Errorf("read upload file: %w", err)
		}
		inputs, err := decodeRecordInputs(content)
		if err != nil {
			return err
		}

		records, skipped := importer.NormalizeInputs(inputs)
		if len(records) == 0 {
			printSkipped(skipped)
			return fmt.Errorf("no valid activities in %s", uploadInput)
		}

		ctx := cmd.Context()
		cfg, store, err := loadStore(ctx)
		if err != nil {
			return err
		}
		defer store.Close()

		inserted, err := store.UpsertRecords(ctx, records)
		if err != nil {
			return err
		}
		fmt.Printf("Upload completed. Received: %d, Stored: %d, Skipped: %d\n", len(inputs), inserted, len(skipped))
		printSkipped(skipped)

		shouldRecalculate, err := resolveRecalculateMode(uploadRecalculateMode, cfg.Import.RecalculateAfterImport)
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
	rootCmd.AddCommand(uploadCmd)

	uploadCmd.Flags().StringVarP(&uploadInput, "input", "i", "", "JSON file with attendance records")
	uploadCmd.Flags().StringVar(&uploadRecalculateMode, "recalculate", "auto", "Rebuild all monthly summaries after upload: auto|on|off")

	_ = uploadCmd.MarkFlagRequired("input")
}

func decodeRecordInputs(content []byte) ([]importer.RecordInput, error) {
	trimmed := bytes.TrimSpace(content)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var inputs []importer.RecordInput
		if err := json.Unmarshal(trimmed, &inputs); err != nil {
			return nil, fmt.Errorf("decode activities: %w", err)
		}
		return inputs, nil
	}

	var wrapped struct {
		Activities []importer.RecordInput `json:"activities"`
	}
	if err := json.Unmarshal(trimmed, &wrapped); err != nil {
		return nil, fmt.Errorf("decode activities: %w", err)
	}
	if wrapped.Activities == nil {
		return nil, fmt.Errorf(`expected an array or an object with "activities"`)
	}
	return wrapped.Activities, nil
}
