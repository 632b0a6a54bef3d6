package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Polymorphic owners of line items.
const (
	DocInvoice       = "invoices"
	DocQuotation     = "quotations"
	DocPurchaseOrder = "purchase_orders"
	DocPurchase      = "purchases"
	DocDebitNote     = "debit_notes"
)

// LineItem is one row of a sales or purchase document.
type LineItem struct {
	Base
	DocumentID   uuid.UUID  `gorm:"type:uuid;index:idx_line_item_document,priority:2;not null" json:"-"`
	DocumentType string     `gorm:"size:30;index:idx_line_item_document,priority:1;not null" json:"-"`
	ProductID    *uuid.UUID `gorm:"type:uuid;index" json:"productId"`
	Name         string     `json:"name"`
	Unit         string     `json:"unit"`
	Position     int        `json:"-"`

	Quantity decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"quantity"`
	Rate     decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"rate"`
	Discount decimal.Decimal `gorm:"type:decimal(20,4)" json:"discount"`
	Tax      decimal.Decimal `gorm:"type:decimal(20,4)" json:"tax"`
	Amount   decimal.Decimal `gorm:"type:decimal(20,4)" json:"amount"`

	Product *Product `gorm:"foreignKey:ProductID" json:"-"`
}

// Amounts are the aggregate totals stored on every document.
type Amounts struct {
	TaxableAmount decimal.Decimal `gorm:"type:decimal(20,4)" json:"taxableAmount"`
	TotalDiscount decimal.Decimal `gorm:"type:decimal(20,4)" json:"totalDiscount"`
	TotalTax      decimal.Decimal `gorm:"type:decimal(20,4)" json:"vat"`
	TotalAmount   decimal.Decimal `gorm:"type:decimal(20,4)" json:"TotalAmount"`
	RoundOff      bool            `json:"roundOff"`
}
