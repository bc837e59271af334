package cmd

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"bioattend/config"
	"bioattend/storage"
)

// openStore opens the configured backend. The --db flag forces SQLite.
func openStore(ctx context.Context, cfg *config.Config) (storage.Store, error) {
	if path := strings.TrimSpace(dbPath); path != "" {
		return storage.OpenSQLite(path)
	}
	if cfg.Storage.Driver == config.DriverPostgres {
		return storage.OpenPostgres(ctx, cfg.Storage.DSN)
	}
	return storage.OpenSQLite(resolveSQLitePath(cfg.Storage.Path, viper.ConfigFileUsed()))
}

// resolveSQLitePath places a relative storage.path next to the config file
// it came from, so commands find the same database from any directory.
func resolveSQLitePath(storagePath, configFile string) string {
	if filepath.IsAbs(storagePath) || strings.TrimSpace(configFile) == "" {
		return storagePath
	}
	return filepath.Join(filepath.Dir(configFile), storagePath)
}

// loadStore loads the validated config and opens its store.
func loadStore(ctx context.Context) (*config.Config, storage.Store, error) {
	cfg, err := config.LoadAndValidate()
	if err != nil {
		return nil, nil, err
	}
	store, err := openStore(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	return cfg, store, nil
}
