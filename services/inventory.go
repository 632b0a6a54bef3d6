package services

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"invoicehub-backend/models"
	"invoicehub-backend/utils"
)

// Movement is one signed change of a product's stock.
type Movement struct {
	UserID        uuid.UUID
	ProductID     uuid.UUID
	Type          string
	Quantity      decimal.Decimal // signed
	ReferenceType string
	ReferenceID   *uuid.UUID
	Notes         string
	ActorID       uuid.UUID
}

// ApplyStock changes the stored quantity and appends the matching history row. Call it inside
// the transaction of the document that causes the movement.
func ApplyStock(ctx context.Context, tx *gorm.DB, m Movement) (*models.InventoryHistory, error) {
	tx = tx.WithContext(ctx)

	seed := models.Inventory{UserID: m.UserID, ProductID: m.ProductID, Quantity: decimal.Zero}
	if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&seed).Error; err != nil {
		return nil, utils.Internal(err)
	}

	var inv models.Inventory
	err := lockForUpdate(tx).Where("user_id = ? AND product_id = ?", m.UserID, m.ProductID).First(&inv).Error
	if err != nil {
		return nil, utils.Internal(err)
	}

	next := inv.Quantity.Add(m.Quantity)
	if next.IsNegative() {
		var product models.Product
		name := m.ProductID.String()
		if tx.Select("name").Where("id = ?", m.ProductID).First(&product).Error == nil {
			name = product.Name
		}
		return nil, utils.InsufficientStock(name)
	}

	if err := tx.Model(&models.Inventory{}).Where("id = ?", inv.ID).Update("quantity", next).Error; err != nil {
		return nil, utils.Internal(err)
	}

	history := models.InventoryHistory{
		InventoryID:       inv.ID,
		UserID:            m.UserID,
		ProductID:         m.ProductID,
		Type:              m.Type,
		Adjustment:        m.Quantity,
		ResultingQuantity: next,
		ReferenceType:     m.ReferenceType,
		ReferenceID:       m.ReferenceID,
		Notes:             m.Notes,
		CreatedBy:         m.ActorID,
	}
	if err := tx.Create(&history).Error; err != nil {
		return nil, utils.Internal(err)
	}
	return &history, nil
}

// ApplyItems moves stock for every stock-tracked product on a document. sign is +1 for
// stock entering (purchases) and -1 for stock leaving (sales, debit notes).
func ApplyItems(ctx context.Context, tx *gorm.DB, userID uuid.UUID, items []models.LineItem, sign int64, movementType, refType string, refID uuid.UUID, notes string) error {
	tracked, err := trackedProducts(ctx, tx, items)
	if err != nil {
		return err
	}
	factor := decimal.NewFromInt(sign)
	for _, it := range items {
		if it.ProductID == nil || !tracked[*it.ProductID] {
			continue
		}
		id := refID
		_, err := ApplyStock(ctx, tx, Movement{
			UserID:        userID,
			ProductID:     *it.ProductID,
			Type:          movementType,
			Quantity:      it.Quantity.Mul(factor),
			ReferenceType: refType,
			ReferenceID:   &id,
			Notes:         notes,
			ActorID:       userID,
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// ReverseItems undoes an earlier ApplyItems with adjustment entries.
func ReverseItems(ctx context.Context, tx *gorm.DB, userID uuid.UUID, items []models.LineItem, originalSign int64, refType string, refID uuid.UUID, notes string) error {
	return ApplyItems(ctx, tx, userID, items, -originalSign, models.Adjustment, refType, refID, notes)
}

// RebookItems moves stock from an edited document's old items to its new ones. Quantities are
// netted per product first, so only a real net decrease can fail the stock check.
func RebookItems(ctx context.Context, tx *gorm.DB, userID uuid.UUID, oldItems, newItems []models.LineItem, sign int64, refType string, refID uuid.UUID, notes string) error {
	tracked, err := trackedProducts(ctx, tx, append(append([]models.LineItem{}, oldItems...), newItems...))
	if err != nil {
		return err
	}
	factor := decimal.NewFromInt(sign)
	net := make(map[uuid.UUID]decimal.Decimal)
	var order []uuid.UUID
	add := func(items []models.LineItem, f decimal.Decimal) {
		for _, it := range items {
			if it.ProductID == nil || !tracked[*it.ProductID] {
				continue
			}
			if _, seen := net[*it.ProductID]; !seen {
				order = append(order, *it.ProductID)
			}
			net[*it.ProductID] = net[*it.ProductID].Add(it.Quantity.Mul(f))
		}
	}
	add(oldItems, factor.Neg())
	add(newItems, factor)

	for _, productID := range order {
		delta := net[productID]
		if delta.IsZero() {
			continue
		}
		id := refID
		if _, err := ApplyStock(ctx, tx, Movement{
			UserID:        userID,
			ProductID:     productID,
			Type:          models.Adjustment,
			Quantity:      delta,
			ReferenceType: refType,
			ReferenceID:   &id,
			Notes:         notes,
			ActorID:       userID,
		}); err != nil {
			return err
		}
	}
	return nil
}

func trackedProducts(ctx context.Context, tx *gorm.DB, items []models.LineItem) (map[uuid.UUID]bool, error) {
	ids := make([]uuid.UUID, 0, len(items))
	for _, it := range items {
		if it.ProductID != nil {
			ids = append(ids, *it.ProductID)
		}
	}
	tracked := make(map[uuid.UUID]bool, len(ids))
	if len(ids) == 0 {
		return tracked, nil
	}
	var products []models.Product
	if err := tx.WithContext(ctx).Where("id IN ?", ids).Find(&products).Error; err != nil {
		return nil, utils.Internal(err)
	}
	for i := range products {
		tracked[products[i].ID] = products[i].TracksStock()
	}
	return tracked, nil
}

// QuantityFromHistory sums the history of one inventory row. It always equals the stored
// quantity.
func QuantityFromHistory(ctx context.Context, db *gorm.DB, inventoryID uuid.UUID) (decimal.Decimal, error) {
	var rows []models.InventoryHistory
	if err := db.WithContext(ctx).Where("inventory_id = ?", inventoryID).Find(&rows).Error; err != nil {
		return decimal.Zero, err
	}
	total := decimal.Zero
	for _, r := range rows {
		total = total.Add(r.Adjustment)
	}
	return total, nil
}

// InventoryService serves the stock views and manual adjustments.
type InventoryService struct {
	db *gorm.DB
}

func NewInventoryService(db *gorm.DB) *InventoryService {
	return &InventoryService{db: db}
}

func (s *InventoryService) List(ctx context.Context, userID uuid.UUID, search string, p utils.Pagination) ([]models.Inventory, int64, error) {
	q := s.db.WithContext(ctx).Model(&models.Inventory{}).Where("inventories.user_id = ?", userID)
	if search != "" {
		q = q.Joins("JOIN products ON products.id = inventories.product_id").
			Where("LOWER(products.name) LIKE ? OR LOWER(products.sku) LIKE ?", search, search)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, utils.Internal(err)
	}
	var rows []models.Inventory
	err := q.Preload("Product").Order("inventories.updated_at DESC").
		Offset(p.Offset()).Limit(p.Limit).Find(&rows).Error
	if err != nil {
		return nil, 0, utils.Internal(err)
	}
	return rows, total, nil
}

// Get returns the stock of one product with its full history, newest first.
func (s *InventoryService) Get(ctx context.Context, userID, productID uuid.UUID) (*models.Inventory, error) {
	var inv models.Inventory
	err := s.db.WithContext(ctx).
		Preload("Product").
		Preload("History", func(db *gorm.DB) *gorm.DB { return db.Order("created_at DESC") }).
		Where("user_id = ? AND product_id = ?", userID, productID).
		First(&inv).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NotFound("No inventory for this product")
		}
		return nil, utils.Internal(err)
	}
	return &inv, nil
}

// Adjust records a manual adjustment entry: positive quantities add stock, negative remove it.
func (s *InventoryService) Adjust(ctx context.Context, userID, productID uuid.UUID, quantity decimal.Decimal, notes string) (*models.InventoryHistory, error) {
	if quantity.IsZero() {
		return nil, utils.ValidationError(map[string]string{"quantity": "must not be zero"})
	}
	var history *models.InventoryHistory
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		product, err := findLive[models.Product](ctx, tx, userID, productID, "Product")
		if err != nil {
			return err
		}
		if !product.TracksStock() {
			return utils.BadRequest("Services do not carry stock")
		}
		history, err = ApplyStock(ctx, tx, Movement{
			UserID:        userID,
			ProductID:     productID,
			Type:          models.Adjustment,
			Quantity:      quantity,
			ReferenceType: "manual",
			Notes:         notes,
			ActorID:       userID,
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	return history, nil
}
