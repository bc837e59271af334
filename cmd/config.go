package cmd

import "github.com/spf13/cobra"

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage bioattend configuration file values.",
	Long: `Create, edit, display, and delete the bioattend configuration file.

The configuration stores:
- storage.driver / storage.path / storage.dsn
- server.port / server.allowed_origins / server.max_upload_mb
- rules.late_after / half_day_after / early_before / late_allowance / early_allowance / weekly_off
- import.recalculate_after_import

Every key can also be set from the environment, e.g. BIOATTEND_STORAGE_DSN.`,
	Example: `
  # Create default config in $HOME/.bioattend.yaml
  bioattend config create

  # Show active config and source file
  bioattend config show

  # Open active config in editor (creates example if missing)
  bioattend config edit

  # Delete active config file
  bioattend config delete
`,
}

func init() {
	rootCmd.AddCommand(configCmd)
}
