package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Category struct {
	Base
	UserID   uuid.UUID  `gorm:"type:uuid;index;not null" json:"userId"`
	Name     string     `gorm:"not null" json:"name"`
	Slug     string     `gorm:"index" json:"slug"`
	Image    string     `json:"image"`
	ParentID *uuid.UUID `gorm:"type:uuid" json:"parentId"`
}

type Brand struct {
	Base
	UserID uuid.UUID `gorm:"type:uuid;index;not null" json:"userId"`
	Name   string    `gorm:"not null" json:"name"`
	Image  string    `json:"image"`
}

type Unit struct {
	Base
	UserID uuid.UUID `gorm:"type:uuid;index;not null" json:"userId"`
	Name   string    `gorm:"not null" json:"name"`
	Symbol string    `gorm:"size:20" json:"symbol"`
}

type TaxRate struct {
	Base
	UserID    uuid.UUID       `gorm:"type:uuid;index;not null" json:"userId"`
	Name      string          `gorm:"not null" json:"name"`
	Rate      decimal.Decimal `gorm:"type:decimal(10,4);not null" json:"taxRate"`
	Status    bool            `json:"status"`
	IsDeleted bool            `gorm:"index" json:"isDeleted"`
}

type TaxGroup struct {
	Base
	UserID    uuid.UUID `gorm:"type:uuid;index;not null" json:"userId"`
	Name      string    `gorm:"not null" json:"name"`
	Status    bool      `json:"status"`
	TaxRates  []TaxRate `gorm:"many2many:tax_group_rates" json:"taxRates"`
	IsDeleted bool      `gorm:"index" json:"isDeleted"`
}

// TotalRate is the combined percentage of the group's active rates.
func (g *TaxGroup) TotalRate() decimal.Decimal {
	total := decimal.Zero
	for _, r := range g.TaxRates {
		if r.Status && !r.IsDeleted {
			total = total.Add(r.Rate)
		}
	}
	return total
}

const (
	ProductTypeProduct = "product"
	ProductTypeService = "service"

	DiscountPercentage = "percentage"
	DiscountFixed      = "fixed"
)

type Product struct {
	Base
	UserID uuid.UUID `gorm:"type:uuid;index;not null;uniqueIndex:idx_product_owner_sku,priority:1" json:"userId"`

	Type          string          `gorm:"size:20;not null" json:"type"`
	Name          string          `gorm:"not null" json:"name"`
	SKU           string          `gorm:"size:64;not null;uniqueIndex:idx_product_owner_sku,priority:2" json:"sku"`
	CategoryID    *uuid.UUID      `gorm:"type:uuid;index" json:"categoryId"`
	BrandID       *uuid.UUID      `gorm:"type:uuid;index" json:"brandId"`
	UnitID        *uuid.UUID      `gorm:"type:uuid;index" json:"unitId"`
	TaxID         *uuid.UUID      `gorm:"type:uuid;index" json:"taxId"`
	SellingPrice  decimal.Decimal `gorm:"type:decimal(20,4)" json:"sellingPrice"`
	PurchasePrice decimal.Decimal `gorm:"type:decimal(20,4)" json:"purchasePrice"`
	DiscountType  string          `gorm:"size:20" json:"discountType"`
	DiscountValue decimal.Decimal `gorm:"type:decimal(20,4)" json:"discountValue"`
	AlertQuantity decimal.Decimal `gorm:"type:decimal(20,4)" json:"alertQuantity"`
	Barcode       string          `json:"barcode"`
	Description   string          `json:"productDescription"`
	Image         string          `json:"images"`
	IsDeleted     bool            `gorm:"index" json:"isDeleted"`

	Category *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Brand    *Brand    `gorm:"foreignKey:BrandID" json:"brand,omitempty"`
	Unit     *Unit     `gorm:"foreignKey:UnitID" json:"unit,omitempty"`
	Tax      *TaxRate  `gorm:"foreignKey:TaxID" json:"tax,omitempty"`
}

// TracksStock reports whether sales and purchases of the product move inventory.
func (p *Product) TracksStock() bool {
	return p.Type != ProductTypeService
}
