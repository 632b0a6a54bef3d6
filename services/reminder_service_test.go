package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"invoicehub-backend/config"
	"invoicehub-backend/models"
)

type MockMessenger struct {
	SendFunc func(to, from, body string) (string, error)
	sent     []string
}

func (m *MockMessenger) Send(to, from, body string) (string, error) {
	m.sent = append(m.sent, to)
	return m.SendFunc(to, from, body)
}

func TestProcessOverdueInvoices(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	user := createUser(t, db)
	customer := createCustomer(t, db, user.ID)
	invoices := NewInvoiceService(db)

	sent := func(due string) *models.Invoice {
		in := invoiceInput(customer.ID, freeItem("Work", "1", "100"))
		in.InvoiceDate = date("2025-06-01")
		in.DueDate = date(due)
		in.Status = models.InvoiceSent
		inv, err := invoices.Create(ctx, user.ID, in)
		require.NoError(t, err)
		return inv
	}
	overdue := sent("2025-06-10")
	notYet := sent("2025-06-20")

	cfg := config.Defaults()
	cfg.TwilioPhoneNumber = "+15550009999"
	cfg.TwilioWhatsAppNumber = "+15550008888"
	messenger := &MockMessenger{SendFunc: func(to, from, body string) (string, error) { return "SM123", nil }}
	reminders := NewReminderService(db, cfg, messenger)

	result, err := reminders.ProcessOverdueInvoices(ctx, *date("2025-06-15"))
	require.NoError(t, err)
	assert.Equal(t, 1, result.Overdue)
	assert.Equal(t, 1, result.Sent)
	assert.Equal(t, []string{"whatsapp:+15550001111"}, messenger.sent)

	got, err := invoices.Get(ctx, user.ID, overdue.ID)
	require.NoError(t, err)
	assert.Equal(t, models.InvoiceOverdue, got.Status)
	got, err = invoices.Get(ctx, user.ID, notYet.ID)
	require.NoError(t, err)
	assert.Equal(t, models.InvoiceSent, got.Status)

	var logs []models.NotificationLog
	require.NoError(t, db.Find(&logs).Error)
	require.Len(t, logs, 1)
	assert.Equal(t, "sent", logs[0].Status)
	assert.Equal(t, "whatsapp", logs[0].Channel)
	assert.Contains(t, logs[0].Message, overdue.InvoiceNumber)
	assert.Contains(t, logs[0].Message, "100.00")

	t.Run("second run sends nothing", func(t *testing.T) {
		again, err := reminders.ProcessOverdueInvoices(ctx, *date("2025-06-15"))
		require.NoError(t, err)
		assert.Zero(t, again.Overdue)
		assert.Len(t, messenger.sent, 1)
	})

	t.Run("failures are logged", func(t *testing.T) {
		sent("2025-06-12")
		failing := &MockMessenger{SendFunc: func(to, from, body string) (string, error) { return "", errors.New("rate limited") }}
		result, err := NewReminderService(db, cfg, failing).ProcessOverdueForUser(ctx, *date("2025-06-15"), user.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, result.Failed)

		var failed models.NotificationLog
		require.NoError(t, db.Where("status = ?", "failed").First(&failed).Error)
		assert.Equal(t, "rate limited", failed.ErrorMessage)
	})

	t.Run("other owners are untouched", func(t *testing.T) {
		sent("2025-06-11")
		other := createUser(t, db)
		result, err := reminders.ProcessOverdueForUser(ctx, *date("2025-06-15"), other.ID)
		require.NoError(t, err)
		assert.Zero(t, result.Overdue)
	})

	t.Run("without a messenger reminders are skipped", func(t *testing.T) {
		result, err := NewReminderService(db, cfg, nil).ProcessOverdueInvoices(ctx, *date("2025-06-15"))
		require.NoError(t, err)
		assert.Equal(t, 1, result.Overdue)
		assert.Equal(t, 1, result.Skipped)
	})
}
