package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"bioattend/config"
)

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show active configuration values.",
	Long: `Display the currently loaded configuration and the resolved config file path.

This command validates the configuration before printing values.`,
	Example: `
  # Show active configuration
  bioattend config show
`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.LoadAndValidate()
		if err != nil {
			fmt.Println("Invalid config:", err)
			return
		}

		if configPath := viper.ConfigFileUsed(); configPath != "" {
			fmt.Println("Config file loaded from:", configPath)
		} else {
			fmt.Println("No config file loaded, showing defaults.")
		}
		fmt.Println("Configuration:")
		fmt.Printf("storage.driver: %s\n", cfg.Storage.Driver)
		fmt.Printf("storage.path: %s\n", cfg.Storage.Path)
		fmt.Printf("storage.dsn: %s\n", maskDSN(cfg.Storage.DSN))
		fmt.Printf("server.port: %d\n", cfg.Server.Port)
		fmt.Printf("server.allowed_origins: %s\n", strings.Join(cfg.Server.AllowedOrigins, ", "))
		fmt.Printf("server.max_upload_mb: %d\n", cfg.Server.MaxUploadMB)
		fmt.Printf("rules.late_after: %s\n", cfg.Rules.LateAfter)
		fmt.Printf("rules.half_day_after: %s\n", cfg.Rules.HalfDayAfter)
		fmt.Printf("rules.early_before: %s\n", cfg.Rules.EarlyBefore)
		fmt.Printf("rules.late_allowance: %d\n", cfg.Rules.LateAllowance)
		fmt.Printf("rules.early_allowance: %d\n", cfg.Rules.EarlyAllowance)
		fmt.Printf("rules.weekly_off: %s\n", strings.Join(cfg.Rules.WeeklyOff, ", "))
		fmt.Printf("import.recalculate_after_import: %t\n", cfg.Import.RecalculateAfterImport)
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
}

// maskDSN hides the password of a postgres URL.
func maskDSN(dsn string) string {
	at := strings.LastIndex(dsn, "@")
	scheme := strings.Index(dsn, "://")
	if at < 0 || scheme < 0 || at < scheme {
		return dsn
	}
	credentials := dsn[scheme+3 : at]
	user, _, hasPassword := strings.Cut(credentials, ":")
	if !hasPassword {
		return dsn
	}
	return dsn[:scheme+3] + user + ":****" + dsn[at:]
}
