package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"invoicehub-backend/models"
	"invoicehub-backend/utils"
)

const defaultDueDays = 7

type InvoiceInput struct {
	DocumentInput
	CustomerID        uuid.UUID  `json:"customerId" binding:"required"`
	InvoiceDate       *time.Time `json:"invoiceDate"`
	DueDate           *time.Time `json:"dueDate"`
	PaymentMethod     string     `json:"payment_method"`
	Status            string     `json:"status"`
	IsRecurring       bool       `json:"isRecurring"`
	RecurringCycle    string     `json:"recurringCycle"`
	RecurringDuration int        `json:"recurringDuration"`
	NextRecurringDate *time.Time `json:"nextRecurringDate"`
}

type PaymentInput struct {
	Amount        decimal.Decimal `json:"amount"`
	PaymentMethod string          `json:"payment_method"`
	Date          *time.Time      `json:"date"`
	Notes         string          `json:"notes"`
}

// invoiceTransitions lists the statuses each status may move to.
var invoiceTransitions = map[string][]string{
	models.InvoiceDraft:   {models.InvoiceSent, models.InvoicePaid, models.InvoiceCancelled},
	models.InvoiceSent:    {models.InvoicePaid, models.InvoiceOverdue, models.InvoiceCancelled},
	models.InvoiceOverdue: {models.InvoicePaid, models.InvoiceCancelled},
	models.InvoicePaid:    {models.InvoiceRefunded},
}

func canTransition(table map[string][]string, from, to string) bool {
	for _, s := range table[from] {
		if s == to {
			return true
		}
	}
	return false
}

type InvoiceService struct {
	db *gorm.DB
}

func NewInvoiceService(db *gorm.DB) *InvoiceService {
	return &InvoiceService{db: db}
}

func (s *InvoiceService) preload(db *gorm.DB) *gorm.DB {
	return db.Preload("Items", itemsOrder).Preload("Customer").Preload("BankDetail").Preload("Signature")
}

// Get returns an invoice by id, including soft-deleted ones.
func (s *InvoiceService) Get(ctx context.Context, userID, id uuid.UUID) (*models.Invoice, error) {
	return findOwned[models.Invoice](ctx, s.preload(s.db), userID, id, "Invoice")
}

func (s *InvoiceService) List(ctx context.Context, userID uuid.UUID, f ListFilter, p utils.Pagination) ([]models.Invoice, int64, error) {
	q := s.db.WithContext(ctx).Model(&models.Invoice{}).Where("user_id = ? AND is_deleted = ?", userID, false)
	q = applyListFilter(q, f, "invoice_number", "invoice_date", "customer_id")

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, utils.Internal(err)
	}
	var invoices []models.Invoice
	if err := s.preload(q).Order("created_at DESC").Offset(p.Offset()).Limit(p.Limit).Find(&invoices).Error; err != nil {
		return nil, 0, utils.Internal(err)
	}
	return invoices, total, nil
}

func validateRecurring(in InvoiceInput) error {
	if !in.IsRecurring {
		return nil
	}
	fields := map[string]string{}
	switch in.RecurringCycle {
	case utils.CycleDaily, utils.CycleWeekly, utils.CycleMonthly, utils.CycleYearly:
	default:
		fields["recurringCycle"] = "must be one of: daily weekly monthly yearly"
	}
	if in.RecurringDuration < 1 {
		fields["recurringDuration"] = "must be at least 1"
	}
	if len(fields) > 0 {
		return utils.ValidationError(fields)
	}
	return nil
}

// fill copies the validated input onto inv. It returns the line items to store.
func (s *InvoiceService) fill(ctx context.Context, tx *gorm.DB, userID uuid.UUID, inv *models.Invoice, in InvoiceInput) ([]models.LineItem, error) {
	if err := validateRecurring(in); err != nil {
		return nil, err
	}
	if _, err := findLive[models.Customer](ctx, tx, userID, in.CustomerID, "Customer"); err != nil {
		return nil, err
	}
	if err := checkBank(ctx, tx, userID, in.BankDetailID); err != nil {
		return nil, err
	}
	items, err := BuildLineItems(ctx, tx, userID, in.Items)
	if err != nil {
		return nil, err
	}
	var previous *models.SignInfo
	if inv.ID != uuid.Nil {
		previous = &inv.SignInfo
	}
	sign, err := ResolveSign(ctx, tx, userID, in.DocumentInput, previous)
	if err != nil {
		return nil, err
	}

	inv.CustomerID = in.CustomerID
	inv.InvoiceDate = dateOr(in.InvoiceDate, utils.Today())
	inv.DueDate = dateOr(in.DueDate, inv.InvoiceDate.AddDate(0, 0, defaultDueDays))
	inv.ReferenceNo = in.ReferenceNo
	inv.PaymentMethod = in.PaymentMethod
	inv.BankDetailID = in.BankDetailID
	inv.Notes = in.Notes
	inv.TermsAndCondition = in.TermsAndCondition
	inv.SignInfo = sign

	inv.IsRecurring = in.IsRecurring
	inv.RecurringCycle = ""
	inv.RecurringDuration = 0
	inv.NextRecurringDate = nil
	if in.IsRecurring {
		inv.RecurringCycle = in.RecurringCycle
		inv.RecurringDuration = in.RecurringDuration
		next := dateOr(in.NextRecurringDate, time.Time{})
		if next.IsZero() {
			next, _ = utils.AdvanceByCycle(inv.InvoiceDate, in.RecurringCycle, in.RecurringDuration)
		}
		inv.NextRecurringDate = &next
	}

	ComputeTotals(items, in.Overrides, in.RoundOff).Apply(&inv.Amounts, in.RoundOff)
	if inv.PaidAmount.GreaterThan(inv.TotalAmount) {
		return nil, utils.Conflict("Invoice total is below the amount already paid")
	}
	inv.BalanceAmount = inv.TotalAmount.Sub(inv.PaidAmount)
	if inv.Status == models.InvoicePaid && inv.BalanceAmount.IsPositive() {
		inv.Status = models.InvoiceSent
	}
	return items, nil
}

// insertInvoice numbers, stores and books the stock of a new invoice inside tx.
func insertInvoice(ctx context.Context, tx *gorm.DB, userID uuid.UUID, inv *models.Invoice, items []models.LineItem) error {
	number, err := NextNumber(ctx, tx, PrefixInvoice, userID)
	if err != nil {
		return utils.Internal(err)
	}
	inv.UserID = userID
	inv.InvoiceNumber = number
	inv.Items = nil
	if err := tx.WithContext(ctx).Omit(clause.Associations).Create(inv).Error; err != nil {
		return utils.Internal(err)
	}
	if err := replaceItems(ctx, tx, models.DocInvoice, inv.ID, items); err != nil {
		return utils.Internal(err)
	}
	inv.Items = items
	return ApplyItems(ctx, tx, userID, items, -1, models.StockOut, models.DocInvoice, inv.ID, "Invoice "+number)
}

func (s *InvoiceService) Create(ctx context.Context, userID uuid.UUID, in InvoiceInput) (*models.Invoice, error) {
	status := in.Status
	if status == "" {
		status = models.InvoiceDraft
	}
	if status != models.InvoiceDraft && status != models.InvoiceSent {
		return nil, utils.ValidationError(map[string]string{"status": "must be one of: DRAFT SENT"})
	}

	var id uuid.UUID
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		inv := models.Invoice{Status: status, PaidAmount: decimal.Zero}
		items, err := s.fill(ctx, tx, userID, &inv, in)
		if err != nil {
			return err
		}
		if err := insertInvoice(ctx, tx, userID, &inv, items); err != nil {
			return err
		}
		id = inv.ID
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, userID, id)
}

// Update replaces the invoice content and books the net stock change of the items in the
// same transaction. The second result is an upload made obsolete.
func (s *InvoiceService) Update(ctx context.Context, userID, id uuid.UUID, in InvoiceInput) (*models.Invoice, string, error) {
	var obsolete string
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		inv, err := findLive[models.Invoice](ctx, lockForUpdate(tx).Preload("Items", itemsOrder), userID, id, "Invoice")
		if err != nil {
			return err
		}
		if inv.Status == models.InvoiceCancelled || inv.Status == models.InvoiceRefunded {
			return utils.Conflict("A " + inv.Status + " invoice cannot be edited")
		}
		oldItems := inv.Items
		oldSign := inv.SignInfo

		items, err := s.fill(ctx, tx, userID, inv, in)
		if err != nil {
			return err
		}
		inv.Items = nil
		if err := tx.Omit(clause.Associations).Save(inv).Error; err != nil {
			return utils.Internal(err)
		}
		if err := replaceItems(ctx, tx, models.DocInvoice, inv.ID, items); err != nil {
			return utils.Internal(err)
		}
		if err := RebookItems(ctx, tx, userID, oldItems, items, -1, models.DocInvoice, inv.ID, "Invoice "+inv.InvoiceNumber+" updated"); err != nil {
			return err
		}
		obsolete = replacedSignImage(oldSign, inv.SignInfo)
		return nil
	})
	if err != nil {
		return nil, "", err
	}
	inv, err := s.Get(ctx, userID, id)
	return inv, obsolete, err
}

// Delete soft deletes the invoice and returns its stock.
func (s *InvoiceService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		inv, err := findLive[models.Invoice](ctx, lockForUpdate(tx).Preload("Items"), userID, id, "Invoice")
		if err != nil {
			return err
		}
		if err := tx.Model(&models.Invoice{}).Where("id = ?", inv.ID).Update("is_deleted", true).Error; err != nil {
			return utils.Internal(err)
		}
		if inv.Status == models.InvoiceCancelled {
			return nil
		}
		return ReverseItems(ctx, tx, userID, inv.Items, -1, models.DocInvoice, inv.ID, "Invoice "+inv.InvoiceNumber+" deleted")
	})
}

// UpdateStatus moves the invoice along its lifecycle. Cancelling returns the stock; marking
// paid settles the balance.
func (s *InvoiceService) UpdateStatus(ctx context.Context, userID, id uuid.UUID, status string) (*models.Invoice, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		inv, err := findLive[models.Invoice](ctx, lockForUpdate(tx).Preload("Items"), userID, id, "Invoice")
		if err != nil {
			return err
		}
		if inv.Status == status {
			return nil
		}
		if !canTransition(invoiceTransitions, inv.Status, status) {
			return utils.InvalidTransition(inv.Status, status)
		}

		updates := map[string]interface{}{"status": status}
		if status == models.InvoicePaid {
			updates["paid_amount"] = inv.TotalAmount
			updates["balance_amount"] = decimal.Zero
		}
		if err := tx.Model(&models.Invoice{}).Where("id = ?", inv.ID).Updates(updates).Error; err != nil {
			return utils.Internal(err)
		}
		if status == models.InvoiceCancelled {
			return ReverseItems(ctx, tx, userID, inv.Items, -1, models.DocInvoice, inv.ID, "Invoice "+inv.InvoiceNumber+" cancelled")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, userID, id)
}

// Clone copies an invoice into a new draft with a fresh number and no payments.
func (s *InvoiceService) Clone(ctx context.Context, userID, id uuid.UUID) (*models.Invoice, error) {
	var cloneID uuid.UUID
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		src, err := findOwned[models.Invoice](ctx, tx.Preload("Items", itemsOrder), userID, id, "Invoice")
		if err != nil {
			return err
		}
		today := utils.Today()
		clone := cloneInvoice(src, today)
		clone.IsRecurring = false
		clone.RecurringCycle = ""
		clone.RecurringDuration = 0
		clone.NextRecurringDate = nil
		clone.LastRolledOn = ""
		clone.ParentInvoiceID = nil
		if err := insertInvoice(ctx, tx, userID, clone, copyItems(src.Items)); err != nil {
			return err
		}
		cloneID = clone.ID
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, userID, cloneID)
}

// cloneInvoice builds a new draft from src dated today.
func cloneInvoice(src *models.Invoice, today time.Time) *models.Invoice {
	parent := src.ID
	return &models.Invoice{
		CustomerID:        src.CustomerID,
		ReferenceNo:       src.ReferenceNo,
		InvoiceDate:       today,
		DueDate:           today.AddDate(0, 0, defaultDueDays),
		PaymentMethod:     src.PaymentMethod,
		Status:            models.InvoiceDraft,
		BankDetailID:      src.BankDetailID,
		Notes:             src.Notes,
		TermsAndCondition: src.TermsAndCondition,
		Amounts:           src.Amounts,
		PaidAmount:        decimal.Zero,
		BalanceAmount:     src.TotalAmount,
		IsRecurring:       src.IsRecurring,
		RecurringCycle:    src.RecurringCycle,
		RecurringDuration: src.RecurringDuration,
		ParentInvoiceID:   &parent,
		SignInfo:          src.SignInfo,
	}
}

// AddPayment records a customer payment and settles the invoice balance.
func (s *InvoiceService) AddPayment(ctx context.Context, userID, id uuid.UUID, in PaymentInput) (*models.InvoicePayment, error) {
	if !in.Amount.IsPositive() {
		return nil, utils.ValidationError(map[string]string{"amount": "must be greater than 0"})
	}

	var payment models.InvoicePayment
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		inv, err := findLive[models.Invoice](ctx, lockForUpdate(tx), userID, id, "Invoice")
		if err != nil {
			return err
		}
		if inv.Status == models.InvoiceCancelled || inv.Status == models.InvoiceRefunded {
			return utils.Conflict("Payments cannot be added to a " + inv.Status + " invoice")
		}
		if in.Amount.GreaterThan(inv.BalanceAmount) {
			return utils.Conflict("Payment exceeds the outstanding balance")
		}

		number, err := NextNumber(ctx, tx, PrefixInvoicePayment, userID)
		if err != nil {
			return utils.Internal(err)
		}
		payment = models.InvoicePayment{
			UserID:        userID,
			PaymentNumber: number,
			InvoiceID:     inv.ID,
			Amount:        in.Amount,
			PaymentMethod: in.PaymentMethod,
			PaymentDate:   dateOr(in.Date, utils.Today()),
			Notes:         in.Notes,
		}
		if err := tx.Create(&payment).Error; err != nil {
			return utils.Internal(err)
		}

		paid := inv.PaidAmount.Add(in.Amount)
		balance := inv.TotalAmount.Sub(paid)
		updates := map[string]interface{}{"paid_amount": paid, "balance_amount": balance}
		if !balance.IsPositive() {
			updates["status"] = models.InvoicePaid
		}
		if err := tx.Model(&models.Invoice{}).Where("id = ?", inv.ID).Updates(updates).Error; err != nil {
			return utils.Internal(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

func (s *InvoiceService) Payments(ctx context.Context, userID, id uuid.UUID) ([]models.InvoicePayment, error) {
	if _, err := findOwned[models.Invoice](ctx, s.db, userID, id, "Invoice"); err != nil {
		return nil, err
	}
	var payments []models.InvoicePayment
	err := s.db.WithContext(ctx).Where("invoice_id = ? AND user_id = ?", id, userID).
		Order("payment_date DESC, created_at DESC").Find(&payments).Error
	if err != nil {
		return nil, utils.Internal(err)
	}
	return payments, nil
}
