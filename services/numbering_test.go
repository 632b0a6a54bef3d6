package services

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestFormatNumber(t *testing.T) {
	assert.Equal(t, "INV-000001", FormatNumber(PrefixInvoice, 1))
	assert.Equal(t, "PO-001234", FormatNumber(PrefixPurchaseOrder, 1234))
	assert.Equal(t, "DN-1234567", FormatNumber(PrefixDebitNote, 1234567))
}

func TestNextNumberPerOwnerAndPrefix(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	alice := createUser(t, db)
	bob := createUser(t, db)

	first, err := NextNumber(ctx, db, PrefixInvoice, alice.ID)
	require.NoError(t, err)
	second, err := NextNumber(ctx, db, PrefixInvoice, alice.ID)
	require.NoError(t, err)
	other, err := NextNumber(ctx, db, PrefixInvoice, bob.ID)
	require.NoError(t, err)
	quote, err := NextNumber(ctx, db, PrefixQuotation, alice.ID)
	require.NoError(t, err)

	assert.Equal(t, "INV-000001", first)
	assert.Equal(t, "INV-000002", second)
	assert.Equal(t, "INV-000001", other)
	assert.Equal(t, "QUO-000001", quote)
}

func TestNextNumberConcurrent(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	user := createUser(t, db)

	const workers = 20
	numbers := make(chan string, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := db.Transaction(func(tx *gorm.DB) error {
				n, err := NextNumber(ctx, tx, PrefixInvoice, user.ID)
				if err != nil {
					return err
				}
				numbers <- n
				return nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
	close(numbers)

	seen := map[string]bool{}
	for n := range numbers {
		assert.False(t, seen[n], "duplicate number %s", n)
		seen[n] = true
	}
	assert.Len(t, seen, workers)
	assert.True(t, seen[FormatNumber(PrefixInvoice, workers)])
}

func TestNextNumberReleasedOnRollback(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	user := createUser(t, db)

	_ = db.Transaction(func(tx *gorm.DB) error {
		_, err := NextNumber(ctx, tx, PrefixPurchase, user.ID)
		require.NoError(t, err)
		return assert.AnError
	})

	n, err := NextNumber(ctx, db, PrefixPurchase, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "PUR-000001", n)
}
