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

// Quotation conversion targets
const (
	ConvertToInvoice  = "invoice"
	ConvertToPurchase = "purchase"
)

type QuotationInput struct {
	DocumentInput
	CustomerID    uuid.UUID  `json:"customerId" binding:"required"`
	QuotationDate *time.Time `json:"quotation_date"`
	ExpiryDate    *time.Time `json:"expiry_date"`
	Status        string     `json:"status"`
}

type ConvertInput struct {
	ConvertType string     `json:"convert_type" binding:"required,oneof=invoice purchase"`
	VendorID    *uuid.UUID `json:"vendorId"`
}

// ConvertResult carries whichever document a quotation became.
type ConvertResult struct {
	Invoice  *models.Invoice
	Purchase *models.Purchase
}

var quotationTransitions = map[string][]string{
	models.QuotationDraft:    {models.QuotationSent, models.QuotationAccepted, models.QuotationRejected},
	models.QuotationSent:     {models.QuotationAccepted, models.QuotationRejected},
	models.QuotationRejected: {models.QuotationDraft},
	models.QuotationAccepted: {models.QuotationSent},
}

type QuotationService struct {
	db *gorm.DB
}

func NewQuotationService(db *gorm.DB) *QuotationService {
	return &QuotationService{db: db}
}

func (s *QuotationService) preload(db *gorm.DB) *gorm.DB {
	return db.Preload("Items", itemsOrder).Preload("Customer").Preload("BankDetail").Preload("Signature")
}

func (s *QuotationService) Get(ctx context.Context, userID, id uuid.UUID) (*models.Quotation, error) {
	return findOwned[models.Quotation](ctx, s.preload(s.db), userID, id, "Quotation")
}

func (s *QuotationService) List(ctx context.Context, userID uuid.UUID, f ListFilter, p utils.Pagination) ([]models.Quotation, int64, error) {
	q := s.db.WithContext(ctx).Model(&models.Quotation{}).Where("user_id = ? AND is_deleted = ?", userID, false)
	q = applyListFilter(q, f, "quotation_number", "quotation_date", "customer_id")

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, utils.Internal(err)
	}
	var quotations []models.Quotation
	if err := s.preload(q).Order("created_at DESC").Offset(p.Offset()).Limit(p.Limit).Find(&quotations).Error; err != nil {
		return nil, 0, utils.Internal(err)
	}
	return quotations, total, nil
}

func (s *QuotationService) fill(ctx context.Context, tx *gorm.DB, userID uuid.UUID, q *models.Quotation, in QuotationInput) ([]models.LineItem, error) {
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
	if q.ID != uuid.Nil {
		previous = &q.SignInfo
	}
	sign, err := ResolveSign(ctx, tx, userID, in.DocumentInput, previous)
	if err != nil {
		return nil, err
	}

	q.CustomerID = in.CustomerID
	q.QuotationDate = dateOr(in.QuotationDate, utils.Today())
	q.ExpiryDate = in.ExpiryDate
	q.ReferenceNo = in.ReferenceNo
	q.BankDetailID = in.BankDetailID
	q.Notes = in.Notes
	q.TermsAndCondition = in.TermsAndCondition
	q.SignInfo = sign
	ComputeTotals(items, in.Overrides, in.RoundOff).Apply(&q.Amounts, in.RoundOff)
	return items, nil
}

func (s *QuotationService) Create(ctx context.Context, userID uuid.UUID, in QuotationInput) (*models.Quotation, error) {
	status := in.Status
	if status == "" {
		status = models.QuotationDraft
	}
	if status != models.QuotationDraft && status != models.QuotationSent {
		return nil, utils.ValidationError(map[string]string{"status": "must be one of: draft sent"})
	}

	var id uuid.UUID
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		q := models.Quotation{UserID: userID, Status: status}
		items, err := s.fill(ctx, tx, userID, &q, in)
		if err != nil {
			return err
		}
		if q.QuotationNumber, err = NextNumber(ctx, tx, PrefixQuotation, userID); err != nil {
			return utils.Internal(err)
		}
		if err := tx.Omit(clause.Associations).Create(&q).Error; err != nil {
			return utils.Internal(err)
		}
		if err := replaceItems(ctx, tx, models.DocQuotation, q.ID, items); err != nil {
			return utils.Internal(err)
		}
		id = q.ID
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, userID, id)
}

// Update replaces the quotation content. A status in the input moves it along its lifecycle.
func (s *QuotationService) Update(ctx context.Context, userID, id uuid.UUID, in QuotationInput) (*models.Quotation, string, error) {
	var obsolete string
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		q, err := findLive[models.Quotation](ctx, lockForUpdate(tx), userID, id, "Quotation")
		if err != nil {
			return err
		}
		if q.Status == models.QuotationConverted {
			return utils.Conflict("A converted quotation cannot be edited")
		}
		if in.Status != "" && in.Status != q.Status {
			if !canTransition(quotationTransitions, q.Status, in.Status) {
				return utils.InvalidTransition(q.Status, in.Status)
			}
			q.Status = in.Status
		}
		oldSign := q.SignInfo
		items, err := s.fill(ctx, tx, userID, q, in)
		if err != nil {
			return err
		}
		if err := tx.Omit(clause.Associations).Save(q).Error; err != nil {
			return utils.Internal(err)
		}
		if err := replaceItems(ctx, tx, models.DocQuotation, q.ID, items); err != nil {
			return utils.Internal(err)
		}
		obsolete = replacedSignImage(oldSign, q.SignInfo)
		return nil
	})
	if err != nil {
		return nil, "", err
	}
	q, err := s.Get(ctx, userID, id)
	return q, obsolete, err
}

func (s *QuotationService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	res := s.db.WithContext(ctx).Model(&models.Quotation{}).
		Where("id = ? AND user_id = ? AND is_deleted = ?", id, userID, false).
		Update("is_deleted", true)
	if res.Error != nil {
		return utils.Internal(res.Error)
	}
	if res.RowsAffected == 0 {
		return utils.NotFound("Quotation not found")
	}
	return nil
}

// Convert turns a quotation into an invoice for its customer or a purchase from a supplier.
// Both the new document and the converted mark are written in one transaction.
func (s *QuotationService) Convert(ctx context.Context, userID, id uuid.UUID, in ConvertInput) (*ConvertResult, error) {
	var result ConvertResult
	var newID uuid.UUID
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		q, err := findLive[models.Quotation](ctx, lockForUpdate(tx).Preload("Items", itemsOrder), userID, id, "Quotation")
		if err != nil {
			return err
		}
		if q.Status == models.QuotationConverted || q.Status == models.QuotationRejected {
			return utils.InvalidTransition(q.Status, models.QuotationConverted)
		}
		quotationID := q.ID

		switch in.ConvertType {
		case ConvertToInvoice:
			today := utils.Today()
			inv := models.Invoice{
				CustomerID:        q.CustomerID,
				ReferenceNo:       q.ReferenceNo,
				InvoiceDate:       today,
				DueDate:           today.AddDate(0, 0, defaultDueDays),
				Status:            models.InvoiceDraft,
				BankDetailID:      q.BankDetailID,
				Notes:             q.Notes,
				TermsAndCondition: q.TermsAndCondition,
				Amounts:           q.Amounts,
				PaidAmount:        decimal.Zero,
				BalanceAmount:     q.TotalAmount,
				QuotationID:       &quotationID,
				SignInfo:          q.SignInfo,
			}
			if err := insertInvoice(ctx, tx, userID, &inv, copyItems(q.Items)); err != nil {
				return err
			}
			newID = inv.ID
		case ConvertToPurchase:
			if in.VendorID == nil {
				return utils.ValidationError(map[string]string{"vendorId": "is required to convert into a purchase"})
			}
			if _, err := findLive[models.Supplier](ctx, tx, userID, *in.VendorID, "Supplier"); err != nil {
				return err
			}
			p := models.Purchase{
				VendorID:          *in.VendorID,
				QuotationID:       &quotationID,
				PurchaseDate:      utils.Today(),
				ReferenceNo:       q.ReferenceNo,
				BankDetailID:      q.BankDetailID,
				Notes:             q.Notes,
				TermsAndCondition: q.TermsAndCondition,
				Amounts:           q.Amounts,
				SignInfo:          q.SignInfo,
			}
			if err := insertPurchase(ctx, tx, userID, &p, copyItems(q.Items), decimal.Zero); err != nil {
				return err
			}
			newID = p.ID
		default:
			return utils.ValidationError(map[string]string{"convert_type": "must be one of: invoice purchase"})
		}

		return tx.Model(&models.Quotation{}).Where("id = ?", q.ID).Updates(map[string]interface{}{
			"status":         models.QuotationConverted,
			"converted_type": in.ConvertType,
			"converted_id":   newID,
		}).Error
	})
	if err != nil {
		return nil, utils.AsAppError(err)
	}

	if in.ConvertType == ConvertToInvoice {
		result.Invoice, err = NewInvoiceService(s.db).Get(ctx, userID, newID)
	} else {
		result.Purchase, err = NewPurchaseService(s.db).Get(ctx, userID, newID)
	}
	if err != nil {
		return nil, err
	}
	return &result, nil
}
