package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"invoicehub-backend/config"
	"invoicehub-backend/logger"
	"invoicehub-backend/models"
	"invoicehub-backend/routes"
	"invoicehub-backend/services"
)

const shutdownTimeout = 15 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API and the background scheduler",
	Example: `  # Serve on the configured PORT with the scheduler
  invoicehub serve

  # API only, for instances that must not run jobs
  invoicehub serve --no-scheduler --port 9090`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	addServeFlags(serveCmd)
}

func addServeFlags(cmd *cobra.Command) {
	cmd.Flags().String("port", "", "Port to listen on (default: PORT or 8080)")
	cmd.Flags().Bool("no-scheduler", false, "Do not run the recurring and reminder jobs in this process")
	cmd.Flags().Bool("skip-migrate", false, "Do not migrate the schema on startup")
	cmd.Flags().Bool("print-routes", false, "Print the registered routes before serving")
}

func runServe(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("serve")

	port, _ := cmd.Flags().GetString("port")
	noScheduler, _ := cmd.Flags().GetBool("no-scheduler")
	skipMigrate, _ := cmd.Flags().GetBool("skip-migrate")
	printRoutes, _ := cmd.Flags().GetBool("print-routes")
	if port == "" {
		port = config.App.Port
	}

	db, err := connect()
	if err != nil {
		return err
	}
	if !skipMigrate {
		if err := models.AutoMigrate(db); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if !noScheduler {
		scheduler := services.NewScheduler(config.App,
			services.NewRecurringService(db),
			services.NewReminderService(db, config.App, services.NewTwilioMessenger(config.App)))
		if err := scheduler.Start(ctx); err != nil {
			return fmt.Errorf("start scheduler: %w", err)
		}
		defer scheduler.Stop()
	}

	r := routes.SetupRouter()
	if printRoutes {
		for _, route := range r.Routes() {
			fmt.Printf("%-6s %s\n", route.Method, route.Path)
		}
	}

	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", port).Str("env", config.App.Environment).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
