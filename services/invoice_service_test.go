package services

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"invoicehub-backend/models"
	"invoicehub-backend/utils"
)

func invoiceInput(customerID uuid.UUID, items ...ItemInput) InvoiceInput {
	return InvoiceInput{
		DocumentInput: DocumentInput{Items: items},
		CustomerID:    customerID,
		InvoiceDate:   date("2025-06-01"),
	}
}

func freeItem(name, qty, rate string) ItemInput {
	return ItemInput{Name: name, Quantity: dec(qty), Rate: dec(rate)}
}

func productItem(productID uuid.UUID, qty, rate string) ItemInput {
	id := productID
	return ItemInput{ProductID: &id, Quantity: dec(qty), Rate: dec(rate)}
}

func TestInvoiceCreate(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	user := createUser(t, db)
	customer := createCustomer(t, db, user.ID)
	svc := NewInvoiceService(db)

	in := invoiceInput(customer.ID, freeItem("Consulting", "2", "150"), ItemInput{
		Name: "Setup", Quantity: dec("1"), Rate: dec("80"), Discount: dec("5"), Tax: dec("13.5"),
	})
	inv, err := svc.Create(ctx, user.ID, in)
	require.NoError(t, err)

	assert.Equal(t, "INV-000001", inv.InvoiceNumber)
	assert.Equal(t, models.InvoiceDraft, inv.Status)
	assert.True(t, inv.TaxableAmount.Equal(dec("380")))
	assert.True(t, inv.TotalAmount.Equal(dec("388.5")))
	assert.True(t, inv.BalanceAmount.Equal(dec("388.5")))
	assert.True(t, inv.PaidAmount.IsZero())
	assert.Equal(t, "2025-06-08", utils.DateKey(inv.DueDate))
	require.Len(t, inv.Items, 2)
	assert.Equal(t, "Consulting", inv.Items[0].Name)
	assert.Equal(t, "Setup", inv.Items[1].Name)
	require.NotNil(t, inv.Customer)
	assert.Equal(t, customer.Name, inv.Customer.Name)

	second, err := svc.Create(ctx, user.ID, in)
	require.NoError(t, err)
	assert.Equal(t, "INV-000002", second.InvoiceNumber)
}

func TestInvoiceCreateValidation(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	user := createUser(t, db)
	customer := createCustomer(t, db, user.ID)
	svc := NewInvoiceService(db)

	t.Run("no items", func(t *testing.T) {
		_, err := svc.Create(ctx, user.ID, invoiceInput(customer.ID))
		assert.Equal(t, http.StatusUnprocessableEntity, utils.AsAppError(err).Status)
	})

	t.Run("zero quantity", func(t *testing.T) {
		_, err := svc.Create(ctx, user.ID, invoiceInput(customer.ID, freeItem("x", "0", "1")))
		appErr := utils.AsAppError(err)
		assert.Equal(t, http.StatusUnprocessableEntity, appErr.Status)
		assert.Contains(t, appErr.Fields, "items[0].quantity")
	})

	t.Run("unknown customer", func(t *testing.T) {
		_, err := svc.Create(ctx, user.ID, invoiceInput(uuid.New(), freeItem("x", "1", "1")))
		assert.True(t, errors.Is(err, utils.ErrNotFound))
	})

	t.Run("customer of another owner", func(t *testing.T) {
		other := createUser(t, db)
		_, err := svc.Create(ctx, other.ID, invoiceInput(customer.ID, freeItem("x", "1", "1")))
		assert.True(t, errors.Is(err, utils.ErrNotFound))
	})

	t.Run("bad recurring cycle", func(t *testing.T) {
		in := invoiceInput(customer.ID, freeItem("x", "1", "1"))
		in.IsRecurring = true
		in.RecurringCycle = "hourly"
		_, err := svc.Create(ctx, user.ID, in)
		appErr := utils.AsAppError(err)
		assert.Equal(t, http.StatusUnprocessableEntity, appErr.Status)
		assert.Contains(t, appErr.Fields, "recurringCycle")
		assert.Contains(t, appErr.Fields, "recurringDuration")
	})

	t.Run("e-signature without image", func(t *testing.T) {
		in := invoiceInput(customer.ID, freeItem("x", "1", "1"))
		in.SignType = models.SignTypeE
		in.SignatureName = "J. Doe"
		_, err := svc.Create(ctx, user.ID, in)
		assert.Contains(t, utils.AsAppError(err).Fields, "signatureImage")
	})

	var count int64
	db.Model(&models.Invoice{}).Count(&count)
	assert.Zero(t, count)
}

func TestInvoicePayments(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	user := createUser(t, db)
	customer := createCustomer(t, db, user.ID)
	svc := NewInvoiceService(db)

	inv, err := svc.Create(ctx, user.ID, invoiceInput(customer.ID, freeItem("Work", "1", "100")))
	require.NoError(t, err)

	payment, err := svc.AddPayment(ctx, user.ID, inv.ID, PaymentInput{Amount: dec("40")})
	require.NoError(t, err)
	assert.Equal(t, "IP-000001", payment.PaymentNumber)

	inv, err = svc.Get(ctx, user.ID, inv.ID)
	require.NoError(t, err)
	assert.True(t, inv.PaidAmount.Equal(dec("40")))
	assert.True(t, inv.BalanceAmount.Equal(dec("60")))
	assert.Equal(t, models.InvoiceDraft, inv.Status)

	_, err = svc.AddPayment(ctx, user.ID, inv.ID, PaymentInput{Amount: dec("61")})
	assert.True(t, errors.Is(err, utils.ErrConflict))

	_, err = svc.AddPayment(ctx, user.ID, inv.ID, PaymentInput{Amount: dec("60")})
	require.NoError(t, err)
	inv, err = svc.Get(ctx, user.ID, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, models.InvoicePaid, inv.Status)
	assert.True(t, inv.BalanceAmount.IsZero())

	payments, err := svc.Payments(ctx, user.ID, inv.ID)
	require.NoError(t, err)
	assert.Len(t, payments, 2)

	_, err = svc.AddPayment(ctx, user.ID, inv.ID, PaymentInput{Amount: dec("0")})
	assert.Equal(t, http.StatusUnprocessableEntity, utils.AsAppError(err).Status)
}

func TestInvoiceStatusTransitions(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	user := createUser(t, db)
	customer := createCustomer(t, db, user.ID)
	svc := NewInvoiceService(db)

	inv, err := svc.Create(ctx, user.ID, invoiceInput(customer.ID, freeItem("Work", "1", "100")))
	require.NoError(t, err)

	_, err = svc.UpdateStatus(ctx, user.ID, inv.ID, models.InvoiceRefunded)
	assert.True(t, errors.Is(err, utils.ErrInvalidTransition))

	inv, err = svc.UpdateStatus(ctx, user.ID, inv.ID, models.InvoiceSent)
	require.NoError(t, err)
	assert.Equal(t, models.InvoiceSent, inv.Status)

	inv, err = svc.UpdateStatus(ctx, user.ID, inv.ID, models.InvoicePaid)
	require.NoError(t, err)
	assert.True(t, inv.PaidAmount.Equal(dec("100")))
	assert.True(t, inv.BalanceAmount.IsZero())

	_, err = svc.UpdateStatus(ctx, user.ID, inv.ID, models.InvoiceSent)
	assert.True(t, errors.Is(err, utils.ErrInvalidTransition))
}

func TestInvoiceUpdateKeepsPaidAmount(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	user := createUser(t, db)
	customer := createCustomer(t, db, user.ID)
	svc := NewInvoiceService(db)

	inv, err := svc.Create(ctx, user.ID, invoiceInput(customer.ID, freeItem("Work", "1", "100")))
	require.NoError(t, err)
	_, err = svc.AddPayment(ctx, user.ID, inv.ID, PaymentInput{Amount: dec("30")})
	require.NoError(t, err)

	updated, _, err := svc.Update(ctx, user.ID, inv.ID, invoiceInput(customer.ID, freeItem("Work", "2", "100")))
	require.NoError(t, err)
	assert.Equal(t, inv.InvoiceNumber, updated.InvoiceNumber)
	assert.True(t, updated.TotalAmount.Equal(dec("200")))
	assert.True(t, updated.BalanceAmount.Equal(dec("170")))

	_, _, err = svc.Update(ctx, user.ID, inv.ID, invoiceInput(customer.ID, freeItem("Work", "1", "10")))
	assert.True(t, errors.Is(err, utils.ErrConflict))
}

func TestInvoiceUpdateReopensPaidInvoice(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	user := createUser(t, db)
	customer := createCustomer(t, db, user.ID)
	svc := NewInvoiceService(db)

	inv, err := svc.Create(ctx, user.ID, invoiceInput(customer.ID, freeItem("Work", "1", "100")))
	require.NoError(t, err)
	_, err = svc.AddPayment(ctx, user.ID, inv.ID, PaymentInput{Amount: dec("100")})
	require.NoError(t, err)

	// Same total keeps the invoice settled.
	updated, _, err := svc.Update(ctx, user.ID, inv.ID, invoiceInput(customer.ID, freeItem("Work, revised", "1", "100")))
	require.NoError(t, err)
	assert.Equal(t, models.InvoicePaid, updated.Status)

	updated, _, err = svc.Update(ctx, user.ID, inv.ID, invoiceInput(customer.ID, freeItem("Work", "3", "100")))
	require.NoError(t, err)
	assert.Equal(t, models.InvoiceSent, updated.Status)
	assert.True(t, updated.PaidAmount.Equal(dec("100")))
	assert.True(t, updated.BalanceAmount.Equal(dec("200")))

	_, err = svc.AddPayment(ctx, user.ID, inv.ID, PaymentInput{Amount: dec("200")})
	require.NoError(t, err)
	settled, err := svc.Get(ctx, user.ID, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, models.InvoicePaid, settled.Status)
}

func TestInvoiceDeleteAndClone(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	user := createUser(t, db)
	customer := createCustomer(t, db, user.ID)
	svc := NewInvoiceService(db)

	in := invoiceInput(customer.ID, freeItem("Work", "3", "10"))
	in.IsRecurring = true
	in.RecurringCycle = utils.CycleMonthly
	in.RecurringDuration = 1
	src, err := svc.Create(ctx, user.ID, in)
	require.NoError(t, err)
	require.NotNil(t, src.NextRecurringDate)
	assert.Equal(t, "2025-07-01", utils.DateKey(*src.NextRecurringDate))

	clone, err := svc.Clone(ctx, user.ID, src.ID)
	require.NoError(t, err)
	assert.NotEqual(t, src.InvoiceNumber, clone.InvoiceNumber)
	assert.Equal(t, models.InvoiceDraft, clone.Status)
	assert.False(t, clone.IsRecurring)
	assert.Nil(t, clone.ParentInvoiceID)
	assert.Len(t, clone.Items, 1)
	assert.True(t, clone.TotalAmount.Equal(src.TotalAmount))

	require.NoError(t, svc.Delete(ctx, user.ID, src.ID))
	assert.True(t, errors.Is(svc.Delete(ctx, user.ID, src.ID), utils.ErrNotFound))

	// Soft-deleted invoices stay readable by id but leave the list.
	deleted, err := svc.Get(ctx, user.ID, src.ID)
	require.NoError(t, err)
	assert.True(t, deleted.IsDeleted)

	list, total, err := svc.List(ctx, user.ID, ListFilter{}, utils.Pagination{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, list, 1)
	assert.Equal(t, clone.ID, list[0].ID)
}
