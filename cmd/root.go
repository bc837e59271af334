/*
Copyright © 2025 riad@rsworld.eu

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"bioattend/config"
)

var (
	cfgFile  string
	dbPath   string
	logLevel string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "bioattend",
	Short: "Import biometric attendance exports and maintain monthly attendance summaries.",
	Long: `
**********************************************
*              BIOATTEND                     *
**********************************************

This CLI reads monthly attendance exports of biometric devices (Excel, CSV),
derives one attendance record per employee and day, classifies late arrivals
and early departures, and keeps per-month summaries in a SQLite or PostgreSQL store.

Supported input formats:
- Excel: .xlsx, .xlsm, .xls
- CSV: .csv, .tsv (UTF-8 or UTF-16)
`,
	Example: `
  # Create configuration file
  bioattend config create

  # Import a biometric export
  bioattend import -i ./attendance-april.xlsx

  # List half-day records of one employee
  bioattend list --emp E01 --status HALF_PRESENT

  # Show monthly summaries
  bioattend summaries --year 2025 --month 4

  # Rebuild monthly summaries from stored records
  bioattend recalculate

  # Export summaries to Excel
  bioattend export --kind summaries --output ./summaries.xlsx

  # Serve the REST API
  bioattend serve --port 8080
`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		setupLogger(logLevel)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	config.SetDefaults()

	rootCmd.PersistentFlags().StringVar(&cfgFile, "configFile", "", "Config file override (default discovery: $HOME/.bioattend.yaml, then ./.bioattend.yaml)")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "Path to SQLite database (overrides storage.path)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "Diagnostic log level: debug|info|warn|error")
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	// A missing .env is fine; variables may come from the shell.
	_ = godotenv.Load()

	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		// Search config in home directory with name ".bioattend" (without extension).
		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".bioattend")
	}

	viper.SetEnvPrefix("BIOATTEND")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err != nil {
		fmt.Fprintln(os.Stderr, "No config file found, using defaults. Create one with: bioattend config create")
	}
}

func setupLogger(level string) {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: parseLogLevel(level)})))
}

// parseLogLevel maps the --log-level value; unknown values mean warn.
func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}
