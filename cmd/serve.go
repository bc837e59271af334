package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bioattend/web"

	"github.com/spf13/cobra"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the attendance REST API",
	Long: `Start an HTTP server exposing upload, query and maintenance endpoints
under /api for the back-office UI.

Endpoints:
- POST   /api/activities/upload-excel   multipart field "file"
- POST   /api/activities/upload         JSON {"activities": [...]}
- GET    /api/activities                filters: empId, empName, status, startDate, endDate
- DELETE /api/activities
- GET    /api/monthly-summaries         filters: empId, year, month
- GET    /api/monthly-summaries/stats
- GET    /api/monthly-summaries/employee/{empId}
- DELETE /api/monthly-summaries/{id}
- DELETE /api/monthly-summaries/employee/{empId}
- POST   /api/monthly-summaries/recalculate

Request logs are JSON (ECS fields) on stdout and follow --log-level; use
--log-level info to log every request.`,
	Example: `
  # Start server on the configured port with request logs
  bioattend serve --log-level info

  # Start with explicit port and PostgreSQL from the environment
  BIOATTEND_STORAGE_DRIVER=postgres BIOATTEND_STORAGE_DSN=postgres://localhost/bioattend bioattend serve --port 9090
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		cfg, store, err := loadStore(ctx)
		if err != nil {
			return err
		}
		defer store.Close()

		port := resolveServePort(cfg.Server.Port, servePort, cmd.Flags().Changed("port"))

		addr := fmt.Sprintf(":%d", port)
		server := &http.Server{
			Addr:              addr,
			Handler:           web.NewServer(store, *cfg, web.NewLogger(os.Stdout, parseLogLevel(logLevel))),
			ReadHeaderTimeout: 10 * time.Second,
		}

		errCh := make(chan error, 1)
		go func() {
			errCh <- server.ListenAndServe()
		}()

		fmt.Printf("Listening on http://localhost:%d\n", port)

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
		defer signal.Stop(sigCh)

		select {
		case err := <-errCh:
			if err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		case <-sigCh:
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := server.Shutdown(ctx); err != nil {
				return fmt.Errorf("shutdown server: %w", err)
			}
			err := <-errCh
			if err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		}
	},
}

// resolveServePort prefers an explicit --port over server.port.
func resolveServePort(configPort, flagPort int, flagSet bool) int {
	if flagSet && flagPort > 0 {
		return flagPort
	}
	if configPort > 0 {
		return configPort
	}
	return 8080
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().IntVar(&servePort, "port", 8080, "HTTP port (overrides server.port)")
}
