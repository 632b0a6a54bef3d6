package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"invoicehub-backend/config"
	"invoicehub-backend/logger"
)

var version = "1.0.0"

var rootCmd = &cobra.Command{
	Use:   "invoicehub",
	Short: "InvoiceHub - invoicing, purchasing and inventory backend",
	Long: `InvoiceHub serves the invoicing REST API and runs its background jobs.

Without a subcommand it starts the HTTP server together with the scheduler,
the same as "invoicehub serve".`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runServe,
}

func Execute() {
	log := logger.WithComponent("cmd")

	if err := rootCmd.Execute(); err != nil {
		log.Error().
			Err(err).
			Msg("Command execution failed")
		fmt.Fprintf(os.Stderr, "Error executing command: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	addServeFlags(rootCmd)
}

// connect opens the database named by the loaded configuration.
func connect() (*gorm.DB, error) {
	if err := config.App.Validate(); err != nil {
		return nil, err
	}
	return config.ConnectDB(config.App)
}
