package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"invoicehub-backend/config"
	"invoicehub-backend/logger"
	"invoicehub-backend/services"
	"invoicehub-backend/utils"
)

var rolloverCmd = &cobra.Command{
	Use:   "rollover",
	Short: "Generate the due invoices of every recurring invoice once",
	Long: `Runs the recurring rollover the scheduler runs daily. Running it twice for the
same date creates nothing the second time.`,
	Example: `  # Roll over for today (UTC)
  invoicehub rollover

  # Catch up a missed day
  invoicehub rollover --date 2025-06-30`,
	RunE: runRollover,
}

var remindersCmd = &cobra.Command{
	Use:   "reminders",
	Short: "Mark past-due invoices overdue and send reminders once",
	RunE:  runReminders,
}

func init() {
	rootCmd.AddCommand(rolloverCmd)
	rootCmd.AddCommand(remindersCmd)

	rolloverCmd.Flags().String("date", "", "Run date (format: YYYY-MM-DD, default: today)")
	remindersCmd.Flags().String("date", "", "Run date (format: YYYY-MM-DD, default: today)")
}

func runDate(cmd *cobra.Command) (time.Time, error) {
	raw, _ := cmd.Flags().GetString("date")
	if raw == "" {
		return utils.Today(), nil
	}
	date, err := utils.ParseDateKey(raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date format. Use YYYY-MM-DD: %w", err)
	}
	return date, nil
}

func runRollover(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("rollover")

	date, err := runDate(cmd)
	if err != nil {
		return err
	}
	db, err := connect()
	if err != nil {
		return err
	}

	result, err := services.NewRecurringService(db).Run(cmd.Context(), date)
	if err != nil {
		return err
	}

	log.Info().
		Str("date", utils.DateKey(date)).
		Int("due", result.Due).
		Int("created", result.Created).
		Int("skipped", result.Skipped).
		Int("failed", result.Failed).
		Msg("rollover finished")
	if result.Failed > 0 {
		return fmt.Errorf("%d recurring invoices failed to roll over", result.Failed)
	}
	return nil
}

func runReminders(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("reminders")

	date, err := runDate(cmd)
	if err != nil {
		return err
	}
	db, err := connect()
	if err != nil {
		return err
	}

	reminders := services.NewReminderService(db, config.App, services.NewTwilioMessenger(config.App))
	result, err := reminders.ProcessOverdueInvoices(cmd.Context(), date)
	if err != nil {
		return err
	}

	log.Info().
		Str("date", utils.DateKey(date)).
		Int("overdue", result.Overdue).
		Int("sent", result.Sent).
		Int("failed", result.Failed).
		Msg("reminders finished")
	return nil
}
