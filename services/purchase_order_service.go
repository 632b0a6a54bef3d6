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

type PurchaseOrderInput struct {
	DocumentInput
	VendorID  uuid.UUID  `json:"vendorId" binding:"required"`
	OrderDate *time.Time `json:"purchaseOrderDate"`
	DueDate   *time.Time `json:"dueDate"`
}

type PurchaseOrderService struct {
	db *gorm.DB
}

func NewPurchaseOrderService(db *gorm.DB) *PurchaseOrderService {
	return &PurchaseOrderService{db: db}
}

func (s *PurchaseOrderService) preload(db *gorm.DB) *gorm.DB {
	return db.Preload("Items", itemsOrder).Preload("Vendor").Preload("BankDetail").Preload("Signature")
}

func (s *PurchaseOrderService) Get(ctx context.Context, userID, id uuid.UUID) (*models.PurchaseOrder, error) {
	return findOwned[models.PurchaseOrder](ctx, s.preload(s.db), userID, id, "Purchase order")
}

func (s *PurchaseOrderService) List(ctx context.Context, userID uuid.UUID, f ListFilter, p utils.Pagination) ([]models.PurchaseOrder, int64, error) {
	q := s.db.WithContext(ctx).Model(&models.PurchaseOrder{}).Where("user_id = ? AND is_deleted = ?", userID, false)
	q = applyListFilter(q, f, "purchase_order_number", "order_date", "vendor_id")

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, utils.Internal(err)
	}
	var orders []models.PurchaseOrder
	if err := s.preload(q).Order("created_at DESC").Offset(p.Offset()).Limit(p.Limit).Find(&orders).Error; err != nil {
		return nil, 0, utils.Internal(err)
	}
	return orders, total, nil
}

func (s *PurchaseOrderService) fill(ctx context.Context, tx *gorm.DB, userID uuid.UUID, po *models.PurchaseOrder, in PurchaseOrderInput) ([]models.LineItem, error) {
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
	if po.ID != uuid.Nil {
		previous = &po.SignInfo
	}
	sign, err := ResolveSign(ctx, tx, userID, in.DocumentInput, previous)
	if err != nil {
		return nil, err
	}

	po.VendorID = in.VendorID
	po.OrderDate = dateOr(in.OrderDate, utils.Today())
	po.DueDate = in.DueDate
	po.ReferenceNo = in.ReferenceNo
	po.BankDetailID = in.BankDetailID
	po.Notes = in.Notes
	po.TermsAndCondition = in.TermsAndCondition
	po.SignInfo = sign
	ComputeTotals(items, in.Overrides, in.RoundOff).Apply(&po.Amounts, in.RoundOff)
	return items, nil
}

func (s *PurchaseOrderService) Create(ctx context.Context, userID uuid.UUID, in PurchaseOrderInput) (*models.PurchaseOrder, error) {
	var id uuid.UUID
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		po := models.PurchaseOrder{UserID: userID, Status: models.PurchaseOrderPending}
		items, err := s.fill(ctx, tx, userID, &po, in)
		if err != nil {
			return err
		}
		if po.PurchaseOrderNumber, err = NextNumber(ctx, tx, PrefixPurchaseOrder, userID); err != nil {
			return utils.Internal(err)
		}
		if err := tx.Omit(clause.Associations).Create(&po).Error; err != nil {
			return utils.Internal(err)
		}
		if err := replaceItems(ctx, tx, models.DocPurchaseOrder, po.ID, items); err != nil {
			return utils.Internal(err)
		}
		id = po.ID
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, userID, id)
}

func (s *PurchaseOrderService) Update(ctx context.Context, userID, id uuid.UUID, in PurchaseOrderInput) (*models.PurchaseOrder, string, error) {
	var obsolete string
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		po, err := findLive[models.PurchaseOrder](ctx, lockForUpdate(tx), userID, id, "Purchase order")
		if err != nil {
			return err
		}
		if po.Status != models.PurchaseOrderPending {
			return utils.Conflict("Only pending purchase orders can be edited")
		}
		oldSign := po.SignInfo
		items, err := s.fill(ctx, tx, userID, po, in)
		if err != nil {
			return err
		}
		if err := tx.Omit(clause.Associations).Save(po).Error; err != nil {
			return utils.Internal(err)
		}
		if err := replaceItems(ctx, tx, models.DocPurchaseOrder, po.ID, items); err != nil {
			return utils.Internal(err)
		}
		obsolete = replacedSignImage(oldSign, po.SignInfo)
		return nil
	})
	if err != nil {
		return nil, "", err
	}
	po, err := s.Get(ctx, userID, id)
	return po, obsolete, err
}

func (s *PurchaseOrderService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	res := s.db.WithContext(ctx).Model(&models.PurchaseOrder{}).
		Where("id = ? AND user_id = ? AND is_deleted = ?", id, userID, false).
		Update("is_deleted", true)
	if res.Error != nil {
		return utils.Internal(res.Error)
	}
	if res.RowsAffected == 0 {
		return utils.NotFound("Purchase order not found")
	}
	return nil
}

// Convert turns a pending purchase order into a purchase that books the ordered stock.
func (s *PurchaseOrderService) Convert(ctx context.Context, userID, id uuid.UUID) (*models.Purchase, error) {
	var purchaseID uuid.UUID
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		po, err := findLive[models.PurchaseOrder](ctx, lockForUpdate(tx).Preload("Items", itemsOrder), userID, id, "Purchase order")
		if err != nil {
			return err
		}
		if po.Status != models.PurchaseOrderPending {
			return utils.InvalidTransition(po.Status, models.PurchaseOrderConverted)
		}

		orderID := po.ID
		p := models.Purchase{
			VendorID:          po.VendorID,
			PurchaseOrderID:   &orderID,
			PurchaseDate:      utils.Today(),
			DueDate:           po.DueDate,
			ReferenceNo:       po.ReferenceNo,
			BankDetailID:      po.BankDetailID,
			Notes:             po.Notes,
			TermsAndCondition: po.TermsAndCondition,
			Amounts:           po.Amounts,
			SignInfo:          po.SignInfo,
		}
		if err := insertPurchase(ctx, tx, userID, &p, copyItems(po.Items), decimal.Zero); err != nil {
			return err
		}

		err = tx.Model(&models.PurchaseOrder{}).Where("id = ?", po.ID).Updates(map[string]interface{}{
			"status":      models.PurchaseOrderConverted,
			"purchase_id": p.ID,
		}).Error
		if err != nil {
			return utils.Internal(err)
		}
		purchaseID = p.ID
		return nil
	})
	if err != nil {
		return nil, err
	}
	return NewPurchaseService(s.db).Get(ctx, userID, purchaseID)
}
