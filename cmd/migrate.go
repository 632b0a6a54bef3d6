package cmd

import (
	"github.com/spf13/cobra"

	"invoicehub-backend/logger"
	"invoicehub-backend/models"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		log := logger.WithComponent("migrate")

		db, err := connect()
		if err != nil {
			return err
		}
		if err := models.AutoMigrate(db); err != nil {
			return err
		}

		log.Info().Msg("schema is up to date")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
