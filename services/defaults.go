package services

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"invoicehub-backend/models"
	"invoicehub-backend/utils"
)

// lockOwner serializes default-flag changes of one owner on the users row.
func lockOwner(tx *gorm.DB, userID uuid.UUID) error {
	var owner models.User
	err := lockForUpdate(tx).Select("id").Where("id = ?", userID).First(&owner).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return utils.NotFound("User not found")
	}
	if err != nil {
		return utils.Internal(err)
	}
	return nil
}

// lockCurrencies serializes changes of the global default currency.
func lockCurrencies(tx *gorm.DB) error {
	var ids []uuid.UUID
	if err := lockForUpdate(tx).Model(&models.Currency{}).Pluck("id", &ids).Error; err != nil {
		return utils.Internal(err)
	}
	return nil
}

// SetDefaultSignature makes id the only default signature of the owner and mirrors it on
// the user record.
func SetDefaultSignature(ctx context.Context, tx *gorm.DB, userID, id uuid.UUID) error {
	tx = tx.WithContext(ctx)
	if err := lockOwner(tx, userID); err != nil {
		return err
	}
	if err := tx.Model(&models.Signature{}).
		Where("user_id = ? AND id <> ? AND mark_as_default = ?", userID, id, true).
		Update("mark_as_default", false).Error; err != nil {
		return utils.Internal(err)
	}
	if err := tx.Model(&models.Signature{}).Where("id = ? AND user_id = ?", id, userID).
		Update("mark_as_default", true).Error; err != nil {
		return utils.Internal(err)
	}
	if err := tx.Model(&models.User{}).Where("id = ?", userID).
		Update("default_signature_id", id).Error; err != nil {
		return utils.Internal(err)
	}
	return nil
}

// ReassignDefaultSignature runs after the default signature is deleted or deactivated. The
// most recent eligible signature becomes the default; without one the user's default is cleared.
func ReassignDefaultSignature(ctx context.Context, tx *gorm.DB, userID uuid.UUID) error {
	tx = tx.WithContext(ctx)
	if err := lockOwner(tx, userID); err != nil {
		return err
	}
	if err := tx.Model(&models.Signature{}).
		Where("user_id = ? AND mark_as_default = ? AND (is_deleted = ? OR status = ?)", userID, true, true, false).
		Update("mark_as_default", false).Error; err != nil {
		return utils.Internal(err)
	}

	var current int64
	if err := tx.Model(&models.Signature{}).
		Where("user_id = ? AND mark_as_default = ?", userID, true).
		Count(&current).Error; err != nil {
		return utils.Internal(err)
	}
	if current > 0 {
		return nil
	}

	var next models.Signature
	err := tx.Where("user_id = ? AND is_deleted = ? AND status = ?", userID, false, true).
		Order("created_at DESC").First(&next).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		if err := tx.Model(&models.User{}).Where("id = ?", userID).
			Update("default_signature_id", nil).Error; err != nil {
			return utils.Internal(err)
		}
		return nil
	}
	if err != nil {
		return utils.Internal(err)
	}
	return SetDefaultSignature(ctx, tx, userID, next.ID)
}

// SetDefaultCurrency makes id the only default currency and propagates its code to every user.
func SetDefaultCurrency(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	tx = tx.WithContext(ctx)
	if err := lockCurrencies(tx); err != nil {
		return err
	}
	var currency models.Currency
	if err := tx.Where("id = ?", id).First(&currency).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound("Currency not found")
		}
		return utils.Internal(err)
	}
	if !currency.IsActive {
		return utils.BadRequest("Inactive currency cannot be the default")
	}

	if err := tx.Model(&models.Currency{}).Where("id <> ? AND is_default = ?", id, true).
		Update("is_default", false).Error; err != nil {
		return utils.Internal(err)
	}
	if err := tx.Model(&models.Currency{}).Where("id = ?", id).
		Update("is_default", true).Error; err != nil {
		return utils.Internal(err)
	}
	if err := tx.Model(&models.User{}).Where("1 = 1").
		Update("default_currency", currency.Code).Error; err != nil {
		return utils.Internal(err)
	}
	return nil
}

// ReassignDefaultCurrency runs after the default currency is removed or deactivated.
func ReassignDefaultCurrency(ctx context.Context, tx *gorm.DB) error {
	tx = tx.WithContext(ctx)
	if err := lockCurrencies(tx); err != nil {
		return err
	}
	if err := tx.Model(&models.Currency{}).Where("is_default = ? AND is_active = ?", true, false).
		Update("is_default", false).Error; err != nil {
		return utils.Internal(err)
	}

	var current int64
	if err := tx.Model(&models.Currency{}).Where("is_default = ?", true).Count(&current).Error; err != nil {
		return utils.Internal(err)
	}
	if current > 0 {
		return nil
	}

	var next models.Currency
	err := tx.Where("is_active = ?", true).Order("created_at DESC").First(&next).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		if err := tx.Model(&models.User{}).Where("1 = 1").Update("default_currency", "").Error; err != nil {
			return utils.Internal(err)
		}
		return nil
	}
	if err != nil {
		return utils.Internal(err)
	}
	return SetDefaultCurrency(ctx, tx, next.ID)
}
