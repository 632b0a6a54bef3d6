package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"invoicehub-backend/models"
	"invoicehub-backend/utils"
)

type DebitNoteInput struct {
	DocumentInput
	VendorID      uuid.UUID  `json:"vendorId" binding:"required"`
	PurchaseID    *uuid.UUID `json:"purchaseId"`
	DebitNoteDate *time.Time `json:"purchaseOrderDate"`
	DueDate       *time.Time `json:"dueDate"`
}

var debitNoteTransitions = map[string][]string{
	models.DebitNotePending: {models.DebitNoteApproved, models.DebitNoteRejected},
}

// DebitNoteService handles goods returned to suppliers. Stock leaves only on approval.
type DebitNoteService struct {
	db *gorm.DB
}

func NewDebitNoteService(db *gorm.DB) *DebitNoteService {
	return &DebitNoteService{db: db}
}

func (s *DebitNoteService) preload(db *gorm.DB) *gorm.DB {
	return db.Preload("Items", itemsOrder).Preload("Vendor").Preload("BankDetail").Preload("Signature")
}

func (s *DebitNoteService) Get(ctx context.Context, userID, id uuid.UUID) (*models.DebitNote, error) {
	return findOwned[models.DebitNote](ctx, s.preload(s.db), userID, id, "Debit note")
}

func (s *DebitNoteService) List(ctx context.Context, userID uuid.UUID, f ListFilter, p utils.Pagination) ([]models.DebitNote, int64, error) {
	q := s.db.WithContext(ctx).Model(&models.DebitNote{}).Where("user_id = ? AND is_deleted = ?", userID, false)
	q = applyListFilter(q, f, "debit_note_number", "debit_note_date", "vendor_id")

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, utils.Internal(err)
	}
	var notes []models.DebitNote
	if err := s.preload(q).Order("created_at DESC").Offset(p.Offset()).Limit(p.Limit).Find(&notes).Error; err != nil {
		return nil, 0, utils.Internal(err)
	}
	return notes, total, nil
}

func (s *DebitNoteService) fill(ctx context.Context, tx *gorm.DB, userID uuid.UUID, dn *models.DebitNote, in DebitNoteInput) ([]models.LineItem, error) {
	if _, err := findLive[models.Supplier](ctx, tx, userID, in.VendorID, "Supplier"); err != nil {
		return nil, err
	}
	if in.PurchaseID != nil {
		if _, err := findLive[models.Purchase](ctx, tx, userID, *in.PurchaseID, "Purchase"); err != nil {
			return nil, err
		}
	}
	if err := checkBank(ctx, tx, userID, in.BankDetailID); err != nil {
		return nil, err
	}
	items, err := BuildLineItems(ctx, tx, userID, in.Items)
	if err != nil {
		return nil, err
	}
	var previous *models.SignInfo
	if dn.ID != uuid.Nil {
		previous = &dn.SignInfo
	}
	sign, err := ResolveSign(ctx, tx, userID, in.DocumentInput, previous)
	if err != nil {
		return nil, err
	}

	dn.VendorID = in.VendorID
	dn.PurchaseID = in.PurchaseID
	dn.DebitNoteDate = dateOr(in.DebitNoteDate, utils.Today())
	dn.DueDate = in.DueDate
	dn.ReferenceNo = in.ReferenceNo
	dn.BankDetailID = in.BankDetailID
	dn.Notes = in.Notes
	dn.TermsAndCondition = in.TermsAndCondition
	dn.SignInfo = sign
	ComputeTotals(items, in.Overrides, in.RoundOff).Apply(&dn.Amounts, in.RoundOff)
	return items, nil
}

func (s *DebitNoteService) Create(ctx context.Context, userID uuid.UUID, in DebitNoteInput) (*models.DebitNote, error) {
	var id uuid.UUID
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dn := models.DebitNote{UserID: userID, Status: models.DebitNotePending}
		items, err := s.fill(ctx, tx, userID, &dn, in)
		if err != nil {
			return err
		}
		if dn.DebitNoteNumber, err = NextNumber(ctx, tx, PrefixDebitNote, userID); err != nil {
			return utils.Internal(err)
		}
		if err := tx.Omit(clause.Associations).Create(&dn).Error; err != nil {
			return utils.Internal(err)
		}
		if err := replaceItems(ctx, tx, models.DocDebitNote, dn.ID, items); err != nil {
			return utils.Internal(err)
		}
		id = dn.ID
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, userID, id)
}

func (s *DebitNoteService) Update(ctx context.Context, userID, id uuid.UUID, in DebitNoteInput) (*models.DebitNote, string, error) {
	var obsolete string
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dn, err := findLive[models.DebitNote](ctx, lockForUpdate(tx), userID, id, "Debit note")
		if err != nil {
			return err
		}
		if dn.Status != models.DebitNotePending {
			return utils.Conflict("Only pending debit notes can be edited")
		}
		oldSign := dn.SignInfo
		items, err := s.fill(ctx, tx, userID, dn, in)
		if err != nil {
			return err
		}
		if err := tx.Omit(clause.Associations).Save(dn).Error; err != nil {
			return utils.Internal(err)
		}
		if err := replaceItems(ctx, tx, models.DocDebitNote, dn.ID, items); err != nil {
			return utils.Internal(err)
		}
		obsolete = replacedSignImage(oldSign, dn.SignInfo)
		return nil
	})
	if err != nil {
		return nil, "", err
	}
	dn, err := s.Get(ctx, userID, id)
	return dn, obsolete, err
}

// UpdateStatus approves or rejects a pending debit note. Approval ships the items back to
// the supplier, so their stock leaves the inventory exactly once.
func (s *DebitNoteService) UpdateStatus(ctx context.Context, userID, id uuid.UUID, status string) (*models.DebitNote, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dn, err := findLive[models.DebitNote](ctx, lockForUpdate(tx).Preload("Items"), userID, id, "Debit note")
		if err != nil {
			return err
		}
		if dn.Status == status {
			return nil
		}
		if !canTransition(debitNoteTransitions, dn.Status, status) {
			return utils.InvalidTransition(dn.Status, status)
		}

		res := tx.Model(&models.DebitNote{}).
			Where("id = ? AND status = ?", dn.ID, models.DebitNotePending).
			Updates(statusUpdates(status))
		if res.Error != nil {
			return utils.Internal(res.Error)
		}
		if res.RowsAffected == 0 {
			return utils.Conflict("Debit note status changed concurrently")
		}
		if status == models.DebitNoteApproved {
			return ApplyItems(ctx, tx, userID, dn.Items, -1, models.StockOut, models.DocDebitNote, dn.ID, "Debit note "+dn.DebitNoteNumber)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, userID, id)
}

func statusUpdates(status string) map[string]interface{} {
	updates := map[string]interface{}{"status": status}
	if status == models.DebitNoteApproved {
		now := time.Now().UTC()
		updates["approved_at"] = &now
	}
	return updates
}

// Delete soft deletes the note. An approved note returns its stock.
func (s *DebitNoteService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dn, err := findLive[models.DebitNote](ctx, lockForUpdate(tx).Preload("Items"), userID, id, "Debit note")
		if err != nil {
			return err
		}
		if err := tx.Model(&models.DebitNote{}).Where("id = ?", dn.ID).Update("is_deleted", true).Error; err != nil {
			return utils.Internal(err)
		}
		if dn.Status != models.DebitNoteApproved {
			return nil
		}
		return ReverseItems(ctx, tx, userID, dn.Items, -1, models.DocDebitNote, dn.ID, "Debit note "+dn.DebitNoteNumber+" deleted")
	})
}
