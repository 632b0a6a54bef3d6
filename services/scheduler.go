package services

import (
	"context"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"invoicehub-backend/config"
	"invoicehub-backend/logger"
	"invoicehub-backend/utils"
)

// Scheduler runs the recurring rollover and the overdue reminders on their cron schedules.
type Scheduler struct {
	cron      *cron.Cron
	cfg       *config.Config
	recurring *RecurringService
	reminders *ReminderService
	log       zerolog.Logger
}

func NewScheduler(cfg *config.Config, recurring *RecurringService, reminders *ReminderService) *Scheduler {
	return &Scheduler{
		cron:      cron.New(cron.WithLocation(utils.Today().Location())),
		cfg:       cfg,
		recurring: recurring,
		reminders: reminders,
		log:       logger.WithComponent("scheduler"),
	}
}

func (s *Scheduler) Start(ctx context.Context) error {
	if _, err := s.cron.AddFunc(s.cfg.RolloverSchedule, func() {
		if _, err := s.recurring.Run(ctx, utils.Today()); err != nil {
			s.log.Error().Err(err).Msg("recurring rollover run failed")
		}
	}); err != nil {
		return err
	}

	if _, err := s.cron.AddFunc(s.cfg.ReminderSchedule, func() {
		if _, err := s.reminders.ProcessOverdueInvoices(ctx, utils.Today()); err != nil {
			s.log.Error().Err(err).Msg("overdue reminder run failed")
		}
	}); err != nil {
		return err
	}

	s.cron.Start()
	s.log.Info().
		Str("rollover", s.cfg.RolloverSchedule).
		Str("reminders", s.cfg.ReminderSchedule).
		Msg("scheduler started")
	return nil
}

// Stop waits for running jobs to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}
