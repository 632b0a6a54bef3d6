package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"invoicehub-backend/models"
	"invoicehub-backend/utils"
)

func TestStatusForBalance(t *testing.T) {
	assert.Equal(t, models.PurchasePending, models.StatusForBalance(dec("0"), dec("100")))
	assert.Equal(t, models.PurchasePartiallyPaid, models.StatusForBalance(dec("10"), dec("90")))
	assert.Equal(t, models.PurchasePaid, models.StatusForBalance(dec("100"), dec("0")))
}

func TestSupplierPayments(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	user := createUser(t, db)
	supplier := createSupplier(t, db, user.ID)
	purchases := NewPurchaseService(db)
	payments := NewSupplierPaymentService(db)

	initial := dec("20")
	p, err := purchases.Create(ctx, user.ID, PurchaseInput{
		DocumentInput: DocumentInput{Items: []ItemInput{freeItem("Paper", "10", "10")}},
		VendorID:      supplier.ID,
		PaidAmount:    &initial,
	})
	require.NoError(t, err)
	assert.Equal(t, "PUR-000001", p.PurchaseNumber)

	p, err = purchases.Get(ctx, user.ID, p.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PurchasePartiallyPaid, p.Status)
	assert.True(t, p.BalanceAmount.Equal(dec("80")))

	_, err = payments.Create(ctx, user.ID, SupplierPaymentInput{PurchaseID: p.ID, Amount: dec("81")})
	assert.True(t, errors.Is(err, utils.ErrConflict))

	payment, err := payments.Create(ctx, user.ID, SupplierPaymentInput{PurchaseID: p.ID, Amount: dec("80")})
	require.NoError(t, err)
	assert.Equal(t, "SP-000002", payment.PaymentNumber)
	assert.Equal(t, supplier.ID, payment.SupplierID)

	p, err = purchases.Get(ctx, user.ID, p.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PurchasePaid, p.Status)

	list, total, err := payments.List(ctx, user.ID, ListFilter{}, &p.ID, utils.Pagination{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, list, 2)

	require.NoError(t, payments.Delete(ctx, user.ID, payment.ID))
	p, err = purchases.Get(ctx, user.ID, p.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PurchasePartiallyPaid, p.Status)
	assert.True(t, p.PaidAmount.Equal(dec("20")))
	assert.True(t, p.BalanceAmount.Equal(dec("80")))
}

func TestPurchaseOrderConvert(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	user := createUser(t, db)
	supplier := createSupplier(t, db, user.ID)
	product := createProduct(t, db, user.ID, models.ProductTypeProduct)
	orders := NewPurchaseOrderService(db)

	po, err := orders.Create(ctx, user.ID, PurchaseOrderInput{
		DocumentInput: DocumentInput{Items: []ItemInput{productItem(product.ID, "4", "15")}},
		VendorID:      supplier.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, models.PurchaseOrderPending, po.Status)

	var rows int64
	db.Model(&models.Inventory{}).Count(&rows)
	assert.Zero(t, rows, "orders do not move stock")

	p, err := orders.Convert(ctx, user.ID, po.ID)
	require.NoError(t, err)
	require.NotNil(t, p.PurchaseOrderID)
	assert.Equal(t, po.ID, *p.PurchaseOrderID)
	assert.True(t, p.TotalAmount.Equal(dec("60")))
	assert.True(t, stockOf(t, db, user.ID, product.ID).Equal(dec("4")))

	po, err = orders.Get(ctx, user.ID, po.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PurchaseOrderConverted, po.Status)

	_, err = orders.Convert(ctx, user.ID, po.ID)
	assert.True(t, errors.Is(err, utils.ErrInvalidTransition))
}

func TestDebitNoteApproval(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	user := createUser(t, db)
	supplier := createSupplier(t, db, user.ID)
	product := createProduct(t, db, user.ID, models.ProductTypeProduct)
	notes := NewDebitNoteService(db)

	_, err := NewInventoryService(db).Adjust(ctx, user.ID, product.ID, dec("5"), "")
	require.NoError(t, err)

	dn, err := notes.Create(ctx, user.ID, DebitNoteInput{
		DocumentInput: DocumentInput{Items: []ItemInput{productItem(product.ID, "2", "15")}},
		VendorID:      supplier.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, "DN-000001", dn.DebitNoteNumber)
	assert.Equal(t, models.DebitNotePending, dn.Status)
	assert.True(t, stockOf(t, db, user.ID, product.ID).Equal(dec("5")))

	dn, err = notes.UpdateStatus(ctx, user.ID, dn.ID, models.DebitNoteApproved)
	require.NoError(t, err)
	assert.NotNil(t, dn.ApprovedAt)
	assert.True(t, stockOf(t, db, user.ID, product.ID).Equal(dec("3")))

	_, err = notes.UpdateStatus(ctx, user.ID, dn.ID, models.DebitNoteRejected)
	assert.True(t, errors.Is(err, utils.ErrInvalidTransition))

	require.NoError(t, notes.Delete(ctx, user.ID, dn.ID))
	assert.True(t, stockOf(t, db, user.ID, product.ID).Equal(dec("5")))
}

func TestPurchaseSoftDelete(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	user := createUser(t, db)
	supplier := createSupplier(t, db, user.ID)
	purchases := NewPurchaseService(db)

	p, err := purchases.Create(ctx, user.ID, PurchaseInput{
		DocumentInput: DocumentInput{Items: []ItemInput{freeItem("Paper", "2", "5")}},
		VendorID:      supplier.ID,
	})
	require.NoError(t, err)

	require.NoError(t, purchases.Delete(ctx, user.ID, p.ID))
	assert.True(t, errors.Is(purchases.Delete(ctx, user.ID, p.ID), utils.ErrNotFound))

	deleted, err := purchases.Get(ctx, user.ID, p.ID)
	require.NoError(t, err)
	assert.True(t, deleted.IsDeleted)

	list, total, err := purchases.List(ctx, user.ID, ListFilter{}, utils.Pagination{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, list)

	_, _, err = purchases.Update(ctx, user.ID, p.ID, PurchaseInput{
		DocumentInput: DocumentInput{Items: []ItemInput{freeItem("Paper", "3", "5")}},
		VendorID:      supplier.ID,
	})
	assert.True(t, errors.Is(err, utils.ErrNotFound))
}
