package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"bioattend/config"
)

var configCreateStdout bool

var configCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a configuration file from the example template.",
	Long: `Create a new configuration file from the same example template used by "config edit".

If a configuration file is already in use, no new file is written. With --stdout the
template is printed instead, e.g. to seed a container image or a secrets manager.

A relative storage.path is resolved next to the config file, so the command reports
where the SQLite database will live.`,
	Example: `
  # Create default config at $HOME/.bioattend.yaml
  bioattend config create

  # Print the template
  bioattend config create --stdout > bioattend.yaml
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if configCreateStdout {
			_, err := io.WriteString(cmd.OutOrStdout(), config.ExampleYAML())
			return err
		}
		return saveDefaultConfig()
	},
}

func saveDefaultConfig() error {
	configPath, err := resolveConfigEditPath(cfgFile, viper.ConfigFileUsed())
	if err != nil {
		return err
	}

	created, err := ensureConfigFileWithTemplate(configPath)
	if err != nil {
		return err
	}

	if !created {
		fmt.Printf("Config file already exists at: %s\n", configPath)
		return nil
	}

	fmt.Printf("New config file created at: %s\n", configPath)
	if location, err := describeStorage(configPath); err == nil {
		fmt.Println(location)
	}
	return nil
}

// describeStorage reads the config at path and names the store it selects.
func describeStorage(path string) (string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	cfg, err := config.ValidateYAMLContent(content)
	if err != nil {
		return "", err
	}
	if cfg.Storage.Driver == config.DriverPostgres {
		return "Attendance data will be stored in PostgreSQL (" + maskDSN(cfg.Storage.DSN) + ")", nil
	}
	return "Attendance data will be stored in SQLite at " + resolveSQLitePath(cfg.Storage.Path, path), nil
}

func init() {
	configCmd.AddCommand(configCreateCmd)

	configCreateCmd.Flags().BoolVar(&configCreateStdout, "stdout", false, "Print the example template instead of writing a file")
}
