package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Purchase order statuses
const (
	PurchaseOrderPending   = "pending"
	PurchaseOrderConverted = "converted"
	PurchaseOrderCancelled = "cancelled"
)

type PurchaseOrder struct {
	Base
	UserID              uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_po_owner_number,priority:1" json:"userId"`
	PurchaseOrderNumber string    `gorm:"size:20;not null;uniqueIndex:idx_po_owner_number,priority:2" json:"purchaseOrderId"`
	VendorID            uuid.UUID `gorm:"type:uuid;index;not null" json:"vendorId"`

	OrderDate         time.Time  `json:"purchaseOrderDate"`
	DueDate           *time.Time `json:"dueDate"`
	ReferenceNo       string     `json:"referenceNo"`
	Status            string     `gorm:"size:20;index;not null" json:"status"`
	BankDetailID      *uuid.UUID `gorm:"type:uuid" json:"bank"`
	Notes             string     `json:"notes"`
	TermsAndCondition string     `json:"termsAndCondition"`
	Amounts           `gorm:"embedded"`
	PurchaseID        *uuid.UUID `gorm:"type:uuid" json:"purchaseId"`

	SignInfo  `gorm:"embedded"`
	IsDeleted bool `gorm:"index" json:"isDeleted"`

	Items      []LineItem  `gorm:"polymorphic:Document;polymorphicValue:purchase_orders" json:"items"`
	Vendor     *Supplier   `gorm:"foreignKey:VendorID" json:"-"`
	BankDetail *BankDetail `gorm:"foreignKey:BankDetailID" json:"-"`
	Signature  *Signature  `gorm:"foreignKey:SignatureID" json:"-"`
}

// Purchase statuses
const (
	PurchasePending       = "pending"
	PurchasePartiallyPaid = "partially_paid"
	PurchasePaid          = "paid"
)

type Purchase struct {
	Base
	UserID         uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_purchase_owner_number,priority:1" json:"userId"`
	PurchaseNumber string    `gorm:"size:20;not null;uniqueIndex:idx_purchase_owner_number,priority:2" json:"purchaseId"`
	VendorID       uuid.UUID `gorm:"type:uuid;index;not null" json:"vendorId"`

	PurchaseOrderID       *uuid.UUID `gorm:"type:uuid;index" json:"purchaseOrderId"`
	QuotationID           *uuid.UUID `gorm:"type:uuid" json:"quotationId"`
	PurchaseDate          time.Time  `json:"purchaseDate"`
	DueDate               *time.Time `json:"dueDate"`
	ReferenceNo           string     `json:"referenceNo"`
	SupplierInvoiceNumber string     `json:"supplierInvoiceSerialNumber"`
	PaymentMode           string     `json:"paymentMode"`
	Status                string     `gorm:"size:20;index;not null" json:"status"`
	BankDetailID          *uuid.UUID `gorm:"type:uuid" json:"bank"`
	Notes                 string     `json:"notes"`
	TermsAndCondition     string     `json:"termsAndCondition"`

	Amounts       `gorm:"embedded"`
	PaidAmount    decimal.Decimal `gorm:"type:decimal(20,4)" json:"paidAmount"`
	BalanceAmount decimal.Decimal `gorm:"type:decimal(20,4)" json:"balanceAmount"`

	SignInfo  `gorm:"embedded"`
	IsDeleted bool `gorm:"index" json:"isDeleted"`

	Items      []LineItem  `gorm:"polymorphic:Document;polymorphicValue:purchases" json:"items"`
	Vendor     *Supplier   `gorm:"foreignKey:VendorID" json:"-"`
	BankDetail *BankDetail `gorm:"foreignKey:BankDetailID" json:"-"`
	Signature  *Signature  `gorm:"foreignKey:SignatureID" json:"-"`
}

// StatusForBalance derives the payment status from paid and outstanding amounts.
func StatusForBalance(paid, balance decimal.Decimal) string {
	switch {
	case balance.LessThanOrEqual(decimal.Zero):
		return PurchasePaid
	case paid.GreaterThan(decimal.Zero):
		return PurchasePartiallyPaid
	default:
		return PurchasePending
	}
}

type SupplierPayment struct {
	Base
	UserID        uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_supplier_payment_owner_number,priority:1" json:"userId"`
	PaymentNumber string          `gorm:"size:20;not null;uniqueIndex:idx_supplier_payment_owner_number,priority:2" json:"paymentId"`
	PurchaseID    uuid.UUID       `gorm:"type:uuid;index;not null" json:"purchaseId"`
	SupplierID    uuid.UUID       `gorm:"type:uuid;index;not null" json:"supplierId"`
	Amount        decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"amount"`
	PaymentMode   string          `json:"paymentMode"`
	PaymentDate   time.Time       `json:"paymentDate"`
	Notes         string          `json:"notes"`

	Purchase *Purchase `gorm:"foreignKey:PurchaseID" json:"-"`
	Supplier *Supplier `gorm:"foreignKey:SupplierID" json:"-"`
}

// Debit note statuses
const (
	DebitNotePending  = "pending"
	DebitNoteApproved = "approved"
	DebitNoteRejected = "rejected"
)

type DebitNote struct {
	Base
	UserID          uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_debit_note_owner_number,priority:1" json:"userId"`
	DebitNoteNumber string     `gorm:"size:20;not null;uniqueIndex:idx_debit_note_owner_number,priority:2" json:"debit_note_id"`
	VendorID        uuid.UUID  `gorm:"type:uuid;index;not null" json:"vendorId"`
	PurchaseID      *uuid.UUID `gorm:"type:uuid;index" json:"purchaseId"`

	DebitNoteDate     time.Time  `json:"purchaseOrderDate"`
	DueDate           *time.Time `json:"dueDate"`
	ReferenceNo       string     `json:"referenceNo"`
	Status            string     `gorm:"size:20;index;not null" json:"status"`
	BankDetailID      *uuid.UUID `gorm:"type:uuid" json:"bank"`
	Notes             string     `json:"notes"`
	TermsAndCondition string     `json:"termsAndCondition"`
	Amounts           `gorm:"embedded"`
	ApprovedAt        *time.Time `json:"approvedAt"`

	SignInfo  `gorm:"embedded"`
	IsDeleted bool `gorm:"index" json:"isDeleted"`

	Items      []LineItem  `gorm:"polymorphic:Document;polymorphicValue:debit_notes" json:"items"`
	Vendor     *Supplier   `gorm:"foreignKey:VendorID" json:"-"`
	BankDetail *BankDetail `gorm:"foreignKey:BankDetailID" json:"-"`
	Signature  *Signature  `gorm:"foreignKey:SignatureID" json:"-"`
}
