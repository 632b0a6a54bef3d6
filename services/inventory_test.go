package services

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"invoicehub-backend/models"
	"invoicehub-backend/utils"
)

func TestInventoryAdjust(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	user := createUser(t, db)
	product := createProduct(t, db, user.ID, models.ProductTypeProduct)
	svc := NewInventoryService(db)

	history, err := svc.Adjust(ctx, user.ID, product.ID, dec("10"), "opening stock")
	require.NoError(t, err)
	assert.Equal(t, models.Adjustment, history.Type)
	assert.True(t, history.ResultingQuantity.Equal(dec("10")))

	_, err = svc.Adjust(ctx, user.ID, product.ID, dec("-4"), "damaged")
	require.NoError(t, err)
	assert.True(t, stockOf(t, db, user.ID, product.ID).Equal(dec("6")))

	_, err = svc.Adjust(ctx, user.ID, product.ID, dec("-7"), "")
	assert.True(t, errors.Is(err, utils.ErrInsufficientStock))
	assert.Equal(t, http.StatusConflict, utils.AsAppError(err).Status)
	assert.True(t, stockOf(t, db, user.ID, product.ID).Equal(dec("6")))

	_, err = svc.Adjust(ctx, user.ID, product.ID, dec("0"), "")
	assert.Equal(t, http.StatusUnprocessableEntity, utils.AsAppError(err).Status)

	got, err := svc.Get(ctx, user.ID, product.ID)
	require.NoError(t, err)
	assert.Len(t, got.History, 2)
	require.NotNil(t, got.Product)
	assert.Equal(t, product.Name, got.Product.Name)
}

func TestInventoryServicesCarryNoStock(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	user := createUser(t, db)
	service := createProduct(t, db, user.ID, models.ProductTypeService)

	_, err := NewInventoryService(db).Adjust(ctx, user.ID, service.ID, dec("1"), "")
	assert.Equal(t, http.StatusBadRequest, utils.AsAppError(err).Status)
}

func TestInvoiceMovesStock(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	user := createUser(t, db)
	customer := createCustomer(t, db, user.ID)
	product := createProduct(t, db, user.ID, models.ProductTypeProduct)
	service := createProduct(t, db, user.ID, models.ProductTypeService)
	invoices := NewInvoiceService(db)

	_, err := NewInventoryService(db).Adjust(ctx, user.ID, product.ID, dec("10"), "")
	require.NoError(t, err)

	inv, err := invoices.Create(ctx, user.ID, invoiceInput(customer.ID,
		productItem(product.ID, "3", "50"),
		productItem(service.ID, "2", "20"),
	))
	require.NoError(t, err)
	assert.Equal(t, product.Name, inv.Items[0].Name)
	assert.True(t, stockOf(t, db, user.ID, product.ID).Equal(dec("7")))

	var serviceRows int64
	db.Model(&models.Inventory{}).Where("product_id = ?", service.ID).Count(&serviceRows)
	assert.Zero(t, serviceRows)

	t.Run("insufficient stock rolls the invoice back", func(t *testing.T) {
		var before int64
		db.Model(&models.Invoice{}).Count(&before)

		_, err := invoices.Create(ctx, user.ID, invoiceInput(customer.ID, productItem(product.ID, "8", "50")))
		assert.True(t, errors.Is(err, utils.ErrInsufficientStock))

		var after int64
		db.Model(&models.Invoice{}).Count(&after)
		assert.Equal(t, before, after)
		assert.True(t, stockOf(t, db, user.ID, product.ID).Equal(dec("7")))
	})

	t.Run("update books the difference", func(t *testing.T) {
		_, _, err := invoices.Update(ctx, user.ID, inv.ID, invoiceInput(customer.ID, productItem(product.ID, "5", "50")))
		require.NoError(t, err)
		assert.True(t, stockOf(t, db, user.ID, product.ID).Equal(dec("5")))
	})

	t.Run("cancel returns the stock once", func(t *testing.T) {
		_, err := invoices.UpdateStatus(ctx, user.ID, inv.ID, models.InvoiceCancelled)
		require.NoError(t, err)
		assert.True(t, stockOf(t, db, user.ID, product.ID).Equal(dec("10")))

		require.NoError(t, invoices.Delete(ctx, user.ID, inv.ID))
		assert.True(t, stockOf(t, db, user.ID, product.ID).Equal(dec("10")))
	})
}

func TestPurchaseAddsStock(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	user := createUser(t, db)
	supplier := createSupplier(t, db, user.ID)
	product := createProduct(t, db, user.ID, models.ProductTypeProduct)
	purchases := NewPurchaseService(db)

	p, err := purchases.Create(ctx, user.ID, PurchaseInput{
		DocumentInput: DocumentInput{Items: []ItemInput{productItem(product.ID, "12", "20")}},
		VendorID:      supplier.ID,
	})
	require.NoError(t, err)
	assert.True(t, stockOf(t, db, user.ID, product.ID).Equal(dec("12")))

	customer := createCustomer(t, db, user.ID)
	_, err = NewInvoiceService(db).Create(ctx, user.ID, invoiceInput(customer.ID, productItem(product.ID, "10", "30")))
	require.NoError(t, err)

	// Taking the purchase back would leave negative stock.
	err = purchases.Delete(ctx, user.ID, p.ID)
	assert.True(t, errors.Is(err, utils.ErrInsufficientStock))
	assert.True(t, stockOf(t, db, user.ID, product.ID).Equal(dec("2")))
}

func TestPurchaseUpdateAfterSales(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	user := createUser(t, db)
	supplier := createSupplier(t, db, user.ID)
	customer := createCustomer(t, db, user.ID)
	product := createProduct(t, db, user.ID, models.ProductTypeProduct)
	purchases := NewPurchaseService(db)

	purchaseOf := func(qty, rate string) PurchaseInput {
		return PurchaseInput{
			DocumentInput: DocumentInput{Items: []ItemInput{productItem(product.ID, qty, rate)}},
			VendorID:      supplier.ID,
		}
	}

	p, err := purchases.Create(ctx, user.ID, purchaseOf("10", "20"))
	require.NoError(t, err)
	_, err = NewInvoiceService(db).Create(ctx, user.ID, invoiceInput(customer.ID, productItem(product.ID, "5", "30")))
	require.NoError(t, err)
	assert.True(t, stockOf(t, db, user.ID, product.ID).Equal(dec("5")))

	t.Run("rate change moves no stock", func(t *testing.T) {
		var before int64
		db.Model(&models.InventoryHistory{}).Count(&before)

		updated, _, err := purchases.Update(ctx, user.ID, p.ID, purchaseOf("10", "22"))
		require.NoError(t, err)
		assert.True(t, updated.TotalAmount.Equal(dec("220")))
		assert.True(t, stockOf(t, db, user.ID, product.ID).Equal(dec("5")))

		var after int64
		db.Model(&models.InventoryHistory{}).Count(&after)
		assert.Equal(t, before, after)
	})

	t.Run("quantity change books the difference", func(t *testing.T) {
		_, _, err := purchases.Update(ctx, user.ID, p.ID, purchaseOf("12", "22"))
		require.NoError(t, err)
		assert.True(t, stockOf(t, db, user.ID, product.ID).Equal(dec("7")))

		_, _, err = purchases.Update(ctx, user.ID, p.ID, purchaseOf("6", "22"))
		require.NoError(t, err)
		assert.True(t, stockOf(t, db, user.ID, product.ID).Equal(dec("1")))
	})

	t.Run("net decrease below sold stock fails", func(t *testing.T) {
		_, _, err := purchases.Update(ctx, user.ID, p.ID, purchaseOf("4", "22"))
		assert.True(t, errors.Is(err, utils.ErrInsufficientStock))
		assert.True(t, stockOf(t, db, user.ID, product.ID).Equal(dec("1")))

		kept, err := purchases.Get(ctx, user.ID, p.ID)
		require.NoError(t, err)
		require.Len(t, kept.Items, 1)
		assert.True(t, kept.Items[0].Quantity.Equal(dec("6")))
	})
}

func TestStockLedgerAcrossPurchaseAndDebitNote(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	user := createUser(t, db)
	supplier := createSupplier(t, db, user.ID)
	product := createProduct(t, db, user.ID, models.ProductTypeProduct)
	other := createProduct(t, db, user.ID, models.ProductTypeProduct)
	purchases := NewPurchaseService(db)
	notes := NewDebitNoteService(db)

	p, err := purchases.Create(ctx, user.ID, PurchaseInput{
		DocumentInput: DocumentInput{Items: []ItemInput{productItem(product.ID, "8", "10")}},
		VendorID:      supplier.ID,
	})
	require.NoError(t, err)

	// Swap part of the order onto another product.
	_, _, err = purchases.Update(ctx, user.ID, p.ID, PurchaseInput{
		DocumentInput: DocumentInput{Items: []ItemInput{
			productItem(product.ID, "5", "10"),
			productItem(other.ID, "3", "12"),
		}},
		VendorID: supplier.ID,
	})
	require.NoError(t, err)
	assert.True(t, stockOf(t, db, user.ID, product.ID).Equal(dec("5")))
	assert.True(t, stockOf(t, db, user.ID, other.ID).Equal(dec("3")))

	dn, err := notes.Create(ctx, user.ID, DebitNoteInput{
		DocumentInput: DocumentInput{Items: []ItemInput{productItem(other.ID, "2", "12")}},
		VendorID:      supplier.ID,
		PurchaseID:    &p.ID,
	})
	require.NoError(t, err)
	_, err = notes.UpdateStatus(ctx, user.ID, dn.ID, models.DebitNoteApproved)
	require.NoError(t, err)
	assert.True(t, stockOf(t, db, user.ID, other.ID).Equal(dec("1")))

	require.NoError(t, notes.Delete(ctx, user.ID, dn.ID))
	assert.True(t, stockOf(t, db, user.ID, other.ID).Equal(dec("3")))
	assert.True(t, stockOf(t, db, user.ID, product.ID).Equal(dec("5")))

	_, err = notes.Get(ctx, user.ID, dn.ID)
	require.NoError(t, err)
	list, total, err := notes.List(ctx, user.ID, ListFilter{}, utils.Pagination{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, list)
}
