package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"invoicehub-backend/logger"
	"invoicehub-backend/models"
	"invoicehub-backend/utils"
)

var errAlreadyRolled = errors.New("invoice already rolled over today")

// RolloverResult summarises one run of the recurring job.
type RolloverResult struct {
	Due      int
	Created  int
	Skipped  int
	Failed   int
	Children []uuid.UUID
}

// RecurringService generates the next invoice of every recurring invoice that is due.
type RecurringService struct {
	db  *gorm.DB
	log zerolog.Logger
}

func NewRecurringService(db *gorm.DB) *RecurringService {
	return &RecurringService{db: db, log: logger.WithComponent("recurring")}
}

// Run processes every invoice due on or before today. Cancelled invoices no longer recur. Each invoice is claimed and cloned in
// its own transaction; a second run on the same day finds nothing to claim.
func (s *RecurringService) Run(ctx context.Context, today time.Time) (RolloverResult, error) {
	today = utils.BeginningOfDay(today.UTC())
	key := utils.DateKey(today)

	var ids []uuid.UUID
	err := s.db.WithContext(ctx).Model(&models.Invoice{}).
		Where("is_recurring = ? AND is_deleted = ? AND status <> ?", true, false, models.InvoiceCancelled).
		Where("next_recurring_date IS NOT NULL AND next_recurring_date < ?", today.AddDate(0, 0, 1)).
		Where("last_rolled_on IS NULL OR last_rolled_on = '' OR last_rolled_on < ?", key).
		Order("next_recurring_date ASC").
		Pluck("id", &ids).Error
	if err != nil {
		return RolloverResult{}, err
	}

	result := RolloverResult{Due: len(ids)}
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		child, err := s.rollOne(ctx, id, today)
		switch {
		case errors.Is(err, errAlreadyRolled):
			result.Skipped++
		case err != nil:
			result.Failed++
			s.log.Error().Err(err).Str("invoice_id", id.String()).Msg("recurring rollover failed")
		default:
			result.Created++
			result.Children = append(result.Children, child.ID)
			s.log.Info().
				Str("invoice_id", id.String()).
				Str("child_id", child.ID.String()).
				Str("number", child.InvoiceNumber).
				Msg("recurring invoice generated")
		}
	}

	s.log.Info().
		Str("date", key).
		Int("due", result.Due).
		Int("created", result.Created).
		Int("skipped", result.Skipped).
		Int("failed", result.Failed).
		Msg("recurring rollover finished")
	return result, nil
}

func (s *RecurringService) rollOne(ctx context.Context, id uuid.UUID, today time.Time) (*models.Invoice, error) {
	key := utils.DateKey(today)
	var child *models.Invoice

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var src models.Invoice
		if err := tx.Preload("Items", itemsOrder).Where("id = ?", id).First(&src).Error; err != nil {
			return err
		}
		next, err := utils.AdvanceByCycle(today, src.RecurringCycle, src.RecurringDuration)
		if err != nil {
			return err
		}

		// The conditional update is the claim: only one runner sees a row affected.
		claim := tx.Model(&models.Invoice{}).
			Where("id = ? AND is_recurring = ? AND is_deleted = ? AND status <> ?", id, true, false, models.InvoiceCancelled).
			Where("last_rolled_on IS NULL OR last_rolled_on = '' OR last_rolled_on < ?", key).
			Updates(map[string]interface{}{"last_rolled_on": key, "next_recurring_date": next})
		if claim.Error != nil {
			return claim.Error
		}
		if claim.RowsAffected == 0 {
			return errAlreadyRolled
		}

		child = cloneInvoice(&src, today)
		// Only the original keeps generating; the child records the shared schedule.
		child.IsRecurring = false
		child.NextRecurringDate = &next
		child.LastRolledOn = key
		return insertInvoice(ctx, tx, src.UserID, child, copyItems(src.Items))
	})
	if err != nil {
		return nil, err
	}
	return child, nil
}
