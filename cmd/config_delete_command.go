package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var configDeleteYes bool

var configDeleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Delete the active configuration file.",
	Long: `Delete the configuration file currently selected by bioattend.

The database is not touched. If no configuration file is active, the command returns an error.`,
	Example: `
  # Delete active config after confirmation
  bioattend config delete

  # Delete config at a custom path without prompting
  bioattend --configFile ./attendance.yaml config delete --yes
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath := viper.ConfigFileUsed()
		if configPath == "" {
			return fmt.Errorf("no configuration file found")
		}

		if !configDeleteYes {
			confirmed, err := confirmDeletePrompt(cmd.InOrStdin(), cmd.OutOrStdout(), "config file "+configPath)
			if err != nil {
				return err
			}
			if !confirmed {
				fmt.Println("Delete cancelled.")
				return nil
			}
		}

		if err := os.Remove(configPath); err != nil {
			return fmt.Errorf("delete configuration file: %w", err)
		}

		fmt.Printf("Configuration file deleted: %s\n", configPath)
		return nil
	},
}

func init() {
	configCmd.AddCommand(configDeleteCmd)

	configDeleteCmd.Flags().BoolVarP(&configDeleteYes, "yes", "y", false, "Delete without confirmation")
}
