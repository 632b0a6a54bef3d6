package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Inventory movement types
const (
	StockIn    = "stock_in"
	StockOut   = "stock_out"
	Adjustment = "adjustment"
)

// Inventory is the current stock of one product for one owner.
type Inventory struct {
	Base
	UserID    uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_inventory_owner_product,priority:1" json:"userId"`
	ProductID uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_inventory_owner_product,priority:2" json:"productId"`
	Quantity  decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"quantity"`

	History []InventoryHistory `gorm:"foreignKey:InventoryID" json:"inventory_history,omitempty"`
	Product *Product           `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}

// InventoryHistory rows are append-only; Quantity always equals the sum of Adjustment.
type InventoryHistory struct {
	Base
	InventoryID       uuid.UUID       `gorm:"type:uuid;index;not null" json:"inventoryId"`
	UserID            uuid.UUID       `gorm:"type:uuid;index;not null" json:"userId"`
	ProductID         uuid.UUID       `gorm:"type:uuid;index;not null" json:"productId"`
	Type              string          `gorm:"size:20;not null" json:"type"`
	Adjustment        decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"adjustment"`
	ResultingQuantity decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"quantity"`
	ReferenceType     string          `gorm:"size:30;index" json:"referenceType"`
	ReferenceID       *uuid.UUID      `gorm:"type:uuid;index" json:"referenceId"`
	Notes             string          `json:"notes"`
	CreatedBy         uuid.UUID       `gorm:"type:uuid" json:"createdBy"`
}

// DocumentSequence is the per-owner counter behind human-readable document numbers.
type DocumentSequence struct {
	Name      string    `gorm:"size:20;primaryKey"`
	UserID    uuid.UUID `gorm:"type:uuid;primaryKey"`
	LastValue int64     `gorm:"not null"`
}
