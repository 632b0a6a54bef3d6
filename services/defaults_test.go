package services

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"invoicehub-backend/models"
)

func defaultSignatures(t *testing.T, db *gorm.DB, userID uuid.UUID) []uuid.UUID {
	t.Helper()
	var ids []uuid.UUID
	require.NoError(t, db.Model(&models.Signature{}).
		Where("user_id = ? AND mark_as_default = ?", userID, true).Pluck("id", &ids).Error)
	return ids
}

func TestDefaultSignature(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	user := createUser(t, db)

	first := &models.Signature{UserID: user.ID, SignatureName: "First", SignatureImage: "signatures/a.png", Status: true}
	second := &models.Signature{UserID: user.ID, SignatureName: "Second", SignatureImage: "signatures/b.png", Status: true}
	require.NoError(t, db.Create(first).Error)
	require.NoError(t, db.Create(second).Error)

	require.NoError(t, SetDefaultSignature(ctx, db, user.ID, first.ID))
	require.NoError(t, SetDefaultSignature(ctx, db, user.ID, second.ID))
	assert.Equal(t, []uuid.UUID{second.ID}, defaultSignatures(t, db, user.ID))

	var u models.User
	require.NoError(t, db.First(&u, "id = ?", user.ID).Error)
	require.NotNil(t, u.DefaultSignatureID)
	assert.Equal(t, second.ID, *u.DefaultSignatureID)

	// Deleting the default hands it to the remaining active signature.
	require.NoError(t, db.Model(second).Update("is_deleted", true).Error)
	require.NoError(t, ReassignDefaultSignature(ctx, db, user.ID))
	assert.Equal(t, []uuid.UUID{first.ID}, defaultSignatures(t, db, user.ID))

	require.NoError(t, db.Model(first).Update("status", false).Error)
	require.NoError(t, ReassignDefaultSignature(ctx, db, user.ID))
	assert.Empty(t, defaultSignatures(t, db, user.ID))
	var reloaded models.User
	require.NoError(t, db.First(&reloaded, "id = ?", user.ID).Error)
	assert.Nil(t, reloaded.DefaultSignatureID)
}

func TestDefaultSignatureConcurrent(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	user := createUser(t, db)

	signatures := make([]*models.Signature, 6)
	for i := range signatures {
		signatures[i] = &models.Signature{UserID: user.ID, SignatureName: "Sig", Status: true}
		require.NoError(t, db.Create(signatures[i]).Error)
	}

	var wg sync.WaitGroup
	errs := make(chan error, len(signatures))
	for _, sig := range signatures {
		wg.Add(1)
		go func(id uuid.UUID) {
			defer wg.Done()
			errs <- db.Transaction(func(tx *gorm.DB) error {
				return SetDefaultSignature(ctx, tx, user.ID, id)
			})
		}(sig.ID)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}
	assert.Len(t, defaultSignatures(t, db, user.ID), 1)

	// The table itself refuses a second default for the owner.
	extra := &models.Signature{UserID: user.ID, SignatureName: "Extra", Status: true, MarkAsDefault: true}
	assert.Error(t, db.Create(extra).Error)

	other := createUser(t, db)
	theirs := &models.Signature{UserID: other.ID, SignatureName: "Theirs", Status: true, MarkAsDefault: true}
	assert.NoError(t, db.Create(theirs).Error)
}

func TestDefaultCurrency(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	user := createUser(t, db)

	usd := &models.Currency{Name: "US Dollar", Code: "USD", Symbol: "$", IsActive: true}
	eur := &models.Currency{Name: "Euro", Code: "EUR", Symbol: "€", IsActive: true}
	old := &models.Currency{Name: "Old", Code: "OLD", IsActive: false}
	require.NoError(t, db.Create(usd).Error)
	require.NoError(t, db.Create(eur).Error)
	require.NoError(t, db.Create(old).Error)

	require.NoError(t, SetDefaultCurrency(ctx, db, usd.ID))
	require.NoError(t, SetDefaultCurrency(ctx, db, eur.ID))

	var defaults []string
	db.Model(&models.Currency{}).Where("is_default = ?", true).Pluck("code", &defaults)
	assert.Equal(t, []string{"EUR"}, defaults)

	var u models.User
	require.NoError(t, db.First(&u, "id = ?", user.ID).Error)
	assert.Equal(t, "EUR", u.DefaultCurrency)

	assert.Error(t, SetDefaultCurrency(ctx, db, old.ID))
	assert.Error(t, db.Create(&models.Currency{Name: "Pound", Code: "GBP", IsActive: true, IsDefault: true}).Error)

	require.NoError(t, db.Delete(&models.Currency{}, "id = ?", eur.ID).Error)
	require.NoError(t, ReassignDefaultCurrency(ctx, db))
	defaults = nil
	db.Model(&models.Currency{}).Where("is_default = ?", true).Pluck("code", &defaults)
	assert.Equal(t, []string{"USD"}, defaults)
	require.NoError(t, db.First(&u, "id = ?", user.ID).Error)
	assert.Equal(t, "USD", u.DefaultCurrency)
}
