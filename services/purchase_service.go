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

type PurchaseInput struct {
	DocumentInput
	VendorID              uuid.UUID        `json:"vendorId" binding:"required"`
	PurchaseDate          *time.Time       `json:"purchaseDate"`
	DueDate               *time.Time       `json:"dueDate"`
	SupplierInvoiceNumber string           `json:"supplierInvoiceSerialNumber"`
	PaymentMode           string           `json:"paymentMode"`
	PaidAmount            *decimal.Decimal `json:"paidAmount"`
}

type SupplierPaymentInput struct {
	PurchaseID  uuid.UUID       `json:"purchaseId" binding:"required"`
	Amount      decimal.Decimal `json:"amount"`
	PaymentMode string          `json:"paymentMode"`
	PaymentDate *time.Time      `json:"paymentDate"`
	Notes       string          `json:"notes"`
}

type PurchaseService struct {
	db *gorm.DB
}

func NewPurchaseService(db *gorm.DB) *PurchaseService {
	return &PurchaseService{db: db}
}

func (s *PurchaseService) preload(db *gorm.DB) *gorm.DB {
	return db.Preload("Items", itemsOrder).Preload("Vendor").Preload("BankDetail").Preload("Signature")
}

func (s *PurchaseService) Get(ctx context.Context, userID, id uuid.UUID) (*models.Purchase, error) {
	return findOwned[models.Purchase](ctx, s.preload(s.db), userID, id, "Purchase")
}

func (s *PurchaseService) List(ctx context.Context, userID uuid.UUID, f ListFilter, p utils.Pagination) ([]models.Purchase, int64, error) {
	q := s.db.WithContext(ctx).Model(&models.Purchase{}).Where("user_id = ? AND is_deleted = ?", userID, false)
	q = applyListFilter(q, f, "purchase_number", "purchase_date", "vendor_id")

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, utils.Internal(err)
	}
	var purchases []models.Purchase
	if err := s.preload(q).Order("created_at DESC").Offset(p.Offset()).Limit(p.Limit).Find(&purchases).Error; err != nil {
		return nil, 0, utils.Internal(err)
	}
	return purchases, total, nil
}

func (s *PurchaseService) fill(ctx context.Context, tx *gorm.DB, userID uuid.UUID, p *models.Purchase, in PurchaseInput) ([]models.LineItem, error) {
	if _, err := findLive[models.Supplier](ctx, tx, userID, in.VendorID, "Supplier"); err != nil {
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
	if p.ID != uuid.Nil {
		previous = &p.SignInfo
	}
	sign, err := ResolveSign(ctx, tx, userID, in.DocumentInput, previous)
	if err != nil {
		return nil, err
	}

	p.VendorID = in.VendorID
	p.PurchaseDate = dateOr(in.PurchaseDate, utils.Today())
	p.DueDate = in.DueDate
	p.ReferenceNo = in.ReferenceNo
	p.SupplierInvoiceNumber = in.SupplierInvoiceNumber
	p.PaymentMode = in.PaymentMode
	p.BankDetailID = in.BankDetailID
	p.Notes = in.Notes
	p.TermsAndCondition = in.TermsAndCondition
	p.SignInfo = sign

	ComputeTotals(items, in.Overrides, in.RoundOff).Apply(&p.Amounts, in.RoundOff)
	if p.PaidAmount.GreaterThan(p.TotalAmount) {
		return nil, utils.Conflict("Purchase total is below the amount already paid")
	}
	p.BalanceAmount = p.TotalAmount.Sub(p.PaidAmount)
	p.Status = models.StatusForBalance(p.PaidAmount, p.BalanceAmount)
	return items, nil
}

// insertPurchase numbers and stores a purchase, books its stock and records the initial
// payment, all inside tx.
func insertPurchase(ctx context.Context, tx *gorm.DB, userID uuid.UUID, p *models.Purchase, items []models.LineItem, initial decimal.Decimal) error {
	number, err := NextNumber(ctx, tx, PrefixPurchase, userID)
	if err != nil {
		return utils.Internal(err)
	}
	p.UserID = userID
	p.PurchaseNumber = number
	p.PaidAmount = decimal.Zero
	p.BalanceAmount = p.TotalAmount
	p.Status = models.StatusForBalance(p.PaidAmount, p.BalanceAmount)
	p.Items = nil
	if err := tx.WithContext(ctx).Omit(clause.Associations).Create(p).Error; err != nil {
		return utils.Internal(err)
	}
	if err := replaceItems(ctx, tx, models.DocPurchase, p.ID, items); err != nil {
		return utils.Internal(err)
	}
	p.Items = items
	if err := ApplyItems(ctx, tx, userID, items, 1, models.StockIn, models.DocPurchase, p.ID, "Purchase "+number); err != nil {
		return err
	}
	if initial.IsPositive() {
		_, err := recordSupplierPayment(ctx, tx, userID, SupplierPaymentInput{
			PurchaseID:  p.ID,
			Amount:      initial,
			PaymentMode: p.PaymentMode,
			PaymentDate: &p.PurchaseDate,
			Notes:       "Initial payment",
		})
		return err
	}
	return nil
}

func (s *PurchaseService) Create(ctx context.Context, userID uuid.UUID, in PurchaseInput) (*models.Purchase, error) {
	initial := decimal.Zero
	if in.PaidAmount != nil {
		if in.PaidAmount.IsNegative() {
			return nil, utils.ValidationError(map[string]string{"paidAmount": "must not be negative"})
		}
		initial = *in.PaidAmount
	}

	var id uuid.UUID
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		p := models.Purchase{PaidAmount: decimal.Zero}
		items, err := s.fill(ctx, tx, userID, &p, in)
		if err != nil {
			return err
		}
		if err := insertPurchase(ctx, tx, userID, &p, items, initial); err != nil {
			return err
		}
		id = p.ID
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, userID, id)
}

func (s *PurchaseService) Update(ctx context.Context, userID, id uuid.UUID, in PurchaseInput) (*models.Purchase, string, error) {
	var obsolete string
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		p, err := findLive[models.Purchase](ctx, lockForUpdate(tx).Preload("Items", itemsOrder), userID, id, "Purchase")
		if err != nil {
			return err
		}
		oldItems := p.Items
		oldSign := p.SignInfo

		items, err := s.fill(ctx, tx, userID, p, in)
		if err != nil {
			return err
		}
		p.Items = nil
		if err := tx.Omit(clause.Associations).Save(p).Error; err != nil {
			return utils.Internal(err)
		}
		if err := replaceItems(ctx, tx, models.DocPurchase, p.ID, items); err != nil {
			return utils.Internal(err)
		}
		if err := RebookItems(ctx, tx, userID, oldItems, items, 1, models.DocPurchase, p.ID, "Purchase "+p.PurchaseNumber+" updated"); err != nil {
			return err
		}
		obsolete = replacedSignImage(oldSign, p.SignInfo)
		return nil
	})
	if err != nil {
		return nil, "", err
	}
	p, err := s.Get(ctx, userID, id)
	return p, obsolete, err
}

// Delete soft deletes the purchase and takes its stock back out.
func (s *PurchaseService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		p, err := findLive[models.Purchase](ctx, lockForUpdate(tx).Preload("Items"), userID, id, "Purchase")
		if err != nil {
			return err
		}
		if err := tx.Model(&models.Purchase{}).Where("id = ?", p.ID).Update("is_deleted", true).Error; err != nil {
			return utils.Internal(err)
		}
		return ReverseItems(ctx, tx, userID, p.Items, 1, models.DocPurchase, p.ID, "Purchase "+p.PurchaseNumber+" deleted")
	})
}

// recordSupplierPayment stores a payment against a purchase and updates its balance and status.
func recordSupplierPayment(ctx context.Context, tx *gorm.DB, userID uuid.UUID, in SupplierPaymentInput) (*models.SupplierPayment, error) {
	if !in.Amount.IsPositive() {
		return nil, utils.ValidationError(map[string]string{"amount": "must be greater than 0"})
	}
	p, err := findLive[models.Purchase](ctx, lockForUpdate(tx), userID, in.PurchaseID, "Purchase")
	if err != nil {
		return nil, err
	}
	if in.Amount.GreaterThan(p.BalanceAmount) {
		return nil, utils.Conflict("Payment exceeds the outstanding balance")
	}

	number, err := NextNumber(ctx, tx, PrefixSupplierPayment, userID)
	if err != nil {
		return nil, utils.Internal(err)
	}
	payment := models.SupplierPayment{
		UserID:        userID,
		PaymentNumber: number,
		PurchaseID:    p.ID,
		SupplierID:    p.VendorID,
		Amount:        in.Amount,
		PaymentMode:   in.PaymentMode,
		PaymentDate:   dateOr(in.PaymentDate, utils.Today()),
		Notes:         in.Notes,
	}
	if err := tx.WithContext(ctx).Create(&payment).Error; err != nil {
		return nil, utils.Internal(err)
	}
	if err := setPurchasePaid(ctx, tx, p, p.PaidAmount.Add(in.Amount)); err != nil {
		return nil, err
	}
	return &payment, nil
}

func setPurchasePaid(ctx context.Context, tx *gorm.DB, p *models.Purchase, paid decimal.Decimal) error {
	balance := p.TotalAmount.Sub(paid)
	err := tx.WithContext(ctx).Model(&models.Purchase{}).Where("id = ?", p.ID).Updates(map[string]interface{}{
		"paid_amount":    paid,
		"balance_amount": balance,
		"status":         models.StatusForBalance(paid, balance),
	}).Error
	if err != nil {
		return utils.Internal(err)
	}
	return nil
}

type SupplierPaymentService struct {
	db *gorm.DB
}

func NewSupplierPaymentService(db *gorm.DB) *SupplierPaymentService {
	return &SupplierPaymentService{db: db}
}

func (s *SupplierPaymentService) Create(ctx context.Context, userID uuid.UUID, in SupplierPaymentInput) (*models.SupplierPayment, error) {
	var payment *models.SupplierPayment
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		payment, err = recordSupplierPayment(ctx, tx, userID, in)
		return err
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, userID, payment.ID)
}

func (s *SupplierPaymentService) Get(ctx context.Context, userID, id uuid.UUID) (*models.SupplierPayment, error) {
	return findOwned[models.SupplierPayment](ctx, s.db.Preload("Purchase").Preload("Supplier"), userID, id, "Supplier payment")
}

func (s *SupplierPaymentService) List(ctx context.Context, userID uuid.UUID, f ListFilter, purchaseID *uuid.UUID, p utils.Pagination) ([]models.SupplierPayment, int64, error) {
	q := s.db.WithContext(ctx).Model(&models.SupplierPayment{}).Where("user_id = ?", userID)
	if f.Search != "" {
		q = q.Where("LOWER(payment_number) LIKE ?", f.Search)
	}
	if f.PartyID != nil {
		q = q.Where("supplier_id = ?", *f.PartyID)
	}
	if purchaseID != nil {
		q = q.Where("purchase_id = ?", *purchaseID)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, utils.Internal(err)
	}
	var payments []models.SupplierPayment
	err := q.Preload("Purchase").Preload("Supplier").Order("payment_date DESC, created_at DESC").
		Offset(p.Offset()).Limit(p.Limit).Find(&payments).Error
	if err != nil {
		return nil, 0, utils.Internal(err)
	}
	return payments, total, nil
}

// Delete removes a payment and restores the purchase balance.
func (s *SupplierPaymentService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		payment, err := findOwned[models.SupplierPayment](ctx, tx, userID, id, "Supplier payment")
		if err != nil {
			return err
		}
		p, err := findOwned[models.Purchase](ctx, lockForUpdate(tx), userID, payment.PurchaseID, "Purchase")
		if err != nil {
			return err
		}
		if err := tx.Delete(&models.SupplierPayment{}, "id = ?", payment.ID).Error; err != nil {
			return utils.Internal(err)
		}
		paid := p.PaidAmount.Sub(payment.Amount)
		if paid.IsNegative() {
			paid = decimal.Zero
		}
		return setPurchasePaid(ctx, tx, p, paid)
	})
}
