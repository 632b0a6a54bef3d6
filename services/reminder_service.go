// services/reminder_service.go
package services

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"invoicehub-backend/config"
	"invoicehub-backend/logger"
	"invoicehub-backend/models"
	"invoicehub-backend/utils"
)

const overdueTemplate = "Hi [CustomerName], invoice [InvoiceNumber] for [Amount] was due on [DueDate]. Please arrange payment at the earliest."

// Messenger delivers a text message and returns the provider id.
type Messenger interface {
	Send(to, from, body string) (string, error)
}

type twilioMessenger struct {
	client *twilio.RestClient
}

// NewTwilioMessenger returns nil when Twilio credentials are not configured.
func NewTwilioMessenger(cfg *config.Config) Messenger {
	if !cfg.TwilioEnabled() {
		return nil
	}
	return &twilioMessenger{
		client: twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: cfg.TwilioAccountSID,
			Password: cfg.TwilioAuthToken,
		}),
	}
}

func (m *twilioMessenger) Send(to, from, body string) (string, error) {
	params := &twilioApi.CreateMessageParams{}
	params.SetTo(to)
	params.SetFrom(from)
	params.SetBody(body)

	resp, err := m.client.Api.CreateMessage(params)
	if err != nil {
		return "", err
	}
	if resp.Sid != nil {
		return *resp.Sid, nil
	}
	return "", nil
}

// ReminderResult summarises one run of the overdue job.
type ReminderResult struct {
	Overdue int `json:"overdue"`
	Sent    int `json:"sent"`
	Failed  int `json:"failed"`
	Skipped int `json:"skipped"`
}

// ReminderService marks unpaid invoices past their due date as overdue and reminds the customer.
type ReminderService struct {
	db        *gorm.DB
	cfg       *config.Config
	messenger Messenger
	log       zerolog.Logger
}

func NewReminderService(db *gorm.DB, cfg *config.Config, messenger Messenger) *ReminderService {
	return &ReminderService{db: db, cfg: cfg, messenger: messenger, log: logger.WithComponent("reminders")}
}

// ProcessOverdueInvoices handles every owner's invoices; the scheduler runs it daily.
func (s *ReminderService) ProcessOverdueInvoices(ctx context.Context, today time.Time) (ReminderResult, error) {
	return s.process(ctx, today, nil)
}

// ProcessOverdueForUser limits the run to the invoices of one owner.
func (s *ReminderService) ProcessOverdueForUser(ctx context.Context, today time.Time, userID uuid.UUID) (ReminderResult, error) {
	return s.process(ctx, today, &userID)
}

func (s *ReminderService) process(ctx context.Context, today time.Time, userID *uuid.UUID) (ReminderResult, error) {
	today = utils.BeginningOfDay(today.UTC())

	q := s.db.WithContext(ctx).Preload("Customer").
		Where("status = ? AND is_deleted = ? AND due_date < ?", models.InvoiceSent, false, today)
	if userID != nil {
		q = q.Where("user_id = ?", *userID)
	}
	var invoices []models.Invoice
	err := q.Find(&invoices).Error
	if err != nil {
		return ReminderResult{}, err
	}

	var result ReminderResult
	for i := range invoices {
		inv := &invoices[i]

		res := s.db.WithContext(ctx).Model(&models.Invoice{}).
			Where("id = ? AND status = ?", inv.ID, models.InvoiceSent).
			Update("status", models.InvoiceOverdue)
		if res.Error != nil {
			s.log.Error().Err(res.Error).Str("invoice_id", inv.ID.String()).Msg("failed to mark invoice overdue")
			continue
		}
		if res.RowsAffected == 0 {
			continue
		}
		result.Overdue++

		switch s.notify(ctx, inv) {
		case "sent":
			result.Sent++
		case "failed":
			result.Failed++
		default:
			result.Skipped++
		}
	}

	s.log.Info().
		Int("overdue", result.Overdue).
		Int("sent", result.Sent).
		Int("failed", result.Failed).
		Int("skipped", result.Skipped).
		Msg("overdue processing completed")
	return result, nil
}

// notify sends the reminder for one invoice and records the attempt.
func (s *ReminderService) notify(ctx context.Context, inv *models.Invoice) string {
	phone := ""
	name := ""
	if inv.Customer != nil {
		phone = strings.TrimSpace(inv.Customer.Phone)
		name = inv.Customer.Name
	}

	message := strings.NewReplacer(
		"[CustomerName]", name,
		"[InvoiceNumber]", inv.InvoiceNumber,
		"[Amount]", inv.BalanceAmount.StringFixed(2),
		"[DueDate]", inv.DueDate.Format("02, Jan 2006"),
	).Replace(overdueTemplate)

	// WhatsApp when the number is in E.164 format and a sender is configured, SMS otherwise
	channel := "sms"
	to := phone
	from := s.cfg.TwilioPhoneNumber
	if strings.HasPrefix(phone, "+") && s.cfg.TwilioWhatsAppNumber != "" {
		channel = "whatsapp"
		to = "whatsapp:" + phone
		from = "whatsapp:" + s.cfg.TwilioWhatsAppNumber
	}

	status := "sent"
	errorMsg := ""
	sid := ""
	switch {
	case s.messenger == nil:
		status, errorMsg = "skipped", "messaging not configured"
	case phone == "" || !utils.ValidatePhone(phone):
		status, errorMsg = "skipped", "customer has no valid phone number"
	default:
		var err error
		sid, err = s.messenger.Send(to, from, message)
		if err != nil {
			status, errorMsg = "failed", err.Error()
			s.log.Warn().Err(err).Str("invoice_id", inv.ID.String()).Msg("failed to send overdue reminder")
		}
	}

	meta, _ := json.Marshal(map[string]string{"sid": sid, "invoiceNumber": inv.InvoiceNumber})
	entry := models.NotificationLog{
		UserID:       inv.UserID,
		CustomerID:   inv.CustomerID,
		InvoiceID:    inv.ID,
		Type:         "overdue",
		Channel:      channel,
		Message:      message,
		Status:       status,
		ErrorMessage: errorMsg,
		SentAt:       time.Now().UTC(),
		Meta:         datatypes.JSON(meta),
	}
	if err := s.db.WithContext(ctx).Create(&entry).Error; err != nil {
		s.log.Error().Err(err).Str("invoice_id", inv.ID.String()).Msg("failed to log reminder")
	}
	return status
}
