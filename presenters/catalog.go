package presenters

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"invoicehub-backend/models"
)

type ProductView struct {
	ID            uuid.UUID       `json:"id"`
	Type          string          `json:"type"`
	Name          string          `json:"name"`
	SKU           string          `json:"sku"`
	Category      string          `json:"category,omitempty"`
	Brand         string          `json:"brand,omitempty"`
	Unit          string          `json:"unit,omitempty"`
	Tax           string          `json:"tax,omitempty"`
	TaxRate       decimal.Decimal `json:"taxRate"`
	SellingPrice  decimal.Decimal `json:"sellingPrice"`
	PurchasePrice decimal.Decimal `json:"purchasePrice"`
	DiscountType  string          `json:"discountType"`
	DiscountValue decimal.Decimal `json:"discountValue"`
	AlertQuantity decimal.Decimal `json:"alertQuantity"`
	Barcode       string          `json:"barcode"`
	Description   string          `json:"productDescription"`
	Image         string          `json:"images"`
	IsDeleted     bool            `json:"isDeleted"`
}

func Product(p *models.Product, o Options) ProductView {
	view := ProductView{
		ID:            p.ID,
		Type:          p.Type,
		Name:          p.Name,
		SKU:           p.SKU,
		SellingPrice:  p.SellingPrice,
		PurchasePrice: p.PurchasePrice,
		DiscountType:  p.DiscountType,
		DiscountValue: p.DiscountValue,
		AlertQuantity: p.AlertQuantity,
		Barcode:       p.Barcode,
		Description:   p.Description,
		Image:         o.Image(p.Image),
		IsDeleted:     p.IsDeleted,
	}
	if p.Category != nil {
		view.Category = p.Category.Name
	}
	if p.Brand != nil {
		view.Brand = p.Brand.Name
	}
	if p.Unit != nil {
		view.Unit = p.Unit.Name
	}
	if p.Tax != nil {
		view.Tax = p.Tax.Name
		view.TaxRate = p.Tax.Rate
	}
	return view
}

func Products(list []models.Product, o Options) []ProductView {
	out := make([]ProductView, 0, len(list))
	for i := range list {
		out = append(out, Product(&list[i], o))
	}
	return out
}

type InventoryView struct {
	ID            uuid.UUID       `json:"id"`
	ProductID     uuid.UUID       `json:"productId"`
	ProductName   string          `json:"productName"`
	SKU           string          `json:"sku"`
	Quantity      decimal.Decimal `json:"quantity"`
	AlertQuantity decimal.Decimal `json:"alertQuantity"`
	LowStock      bool            `json:"lowStock"`
	UpdatedAt     string          `json:"updatedAt"`
	History       []HistoryView   `json:"inventory_history,omitempty"`
}

type HistoryView struct {
	Type          string          `json:"type"`
	Adjustment    decimal.Decimal `json:"adjustment"`
	Quantity      decimal.Decimal `json:"quantity"`
	ReferenceType string          `json:"referenceType,omitempty"`
	ReferenceID   *uuid.UUID      `json:"referenceId,omitempty"`
	Notes         string          `json:"notes"`
	Date          string          `json:"date"`
}

func Inventory(inv *models.Inventory) InventoryView {
	view := InventoryView{
		ID:        inv.ID,
		ProductID: inv.ProductID,
		Quantity:  inv.Quantity,
		UpdatedAt: FormatDate(inv.UpdatedAt),
	}
	if inv.Product != nil {
		view.ProductName = inv.Product.Name
		view.SKU = inv.Product.SKU
		view.AlertQuantity = inv.Product.AlertQuantity
		view.LowStock = inv.Product.AlertQuantity.IsPositive() && inv.Quantity.LessThanOrEqual(inv.Product.AlertQuantity)
	}
	for _, h := range inv.History {
		view.History = append(view.History, HistoryView{
			Type:          h.Type,
			Adjustment:    h.Adjustment,
			Quantity:      h.ResultingQuantity,
			ReferenceType: h.ReferenceType,
			ReferenceID:   h.ReferenceID,
			Notes:         h.Notes,
			Date:          FormatDate(h.CreatedAt),
		})
	}
	return view
}

func Inventories(list []models.Inventory) []InventoryView {
	out := make([]InventoryView, 0, len(list))
	for i := range list {
		out = append(out, Inventory(&list[i]))
	}
	return out
}
