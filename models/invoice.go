package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Invoice statuses
const (
	InvoiceDraft     = "DRAFT"
	InvoiceSent      = "SENT"
	InvoicePaid      = "PAID"
	InvoiceOverdue   = "OVERDUE"
	InvoiceCancelled = "CANCELLED"
	InvoiceRefunded  = "REFUNDED"
)

type Invoice struct {
	Base
	UserID        uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_invoice_owner_number,priority:1" json:"userId"`
	InvoiceNumber string    `gorm:"size:20;not null;uniqueIndex:idx_invoice_owner_number,priority:2" json:"invoiceNumber"`
	CustomerID    uuid.UUID `gorm:"type:uuid;index;not null" json:"customerId"`

	ReferenceNo       string     `json:"referenceNo"`
	InvoiceDate       time.Time  `gorm:"index" json:"invoiceDate"`
	DueDate           time.Time  `gorm:"index" json:"dueDate"`
	PaymentMethod     string     `json:"payment_method"`
	Status            string     `gorm:"size:20;index;not null" json:"status"`
	BankDetailID      *uuid.UUID `gorm:"type:uuid" json:"bankId"`
	Notes             string     `json:"notes"`
	TermsAndCondition string     `json:"termsAndCondition"`

	Amounts       `gorm:"embedded"`
	PaidAmount    decimal.Decimal `gorm:"type:decimal(20,4)" json:"paidAmount"`
	BalanceAmount decimal.Decimal `gorm:"type:decimal(20,4)" json:"balance"`

	IsRecurring       bool       `gorm:"index" json:"isRecurring"`
	RecurringCycle    string     `gorm:"size:10" json:"recurringCycle"`
	RecurringDuration int        `json:"recurringDuration"`
	NextRecurringDate *time.Time `gorm:"index" json:"nextRecurringDate"`
	LastRolledOn      string     `gorm:"size:10" json:"lastRolledOn"`
	ParentInvoiceID   *uuid.UUID `gorm:"type:uuid;index" json:"parentInvoice"`
	QuotationID       *uuid.UUID `gorm:"type:uuid" json:"quotationId"`

	SignInfo  `gorm:"embedded"`
	IsDeleted bool `gorm:"index" json:"isDeleted"`

	Items      []LineItem  `gorm:"polymorphic:Document;polymorphicValue:invoices" json:"items"`
	Customer   *Customer   `gorm:"foreignKey:CustomerID" json:"-"`
	BankDetail *BankDetail `gorm:"foreignKey:BankDetailID" json:"-"`
	Signature  *Signature  `gorm:"foreignKey:SignatureID" json:"-"`
}

type InvoicePayment struct {
	Base
	UserID        uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_invoice_payment_owner_number,priority:1" json:"userId"`
	PaymentNumber string          `gorm:"size:20;not null;uniqueIndex:idx_invoice_payment_owner_number,priority:2" json:"paymentNumber"`
	InvoiceID     uuid.UUID       `gorm:"type:uuid;index;not null" json:"invoiceId"`
	Amount        decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"amount"`
	PaymentMethod string          `json:"payment_method"`
	PaymentDate   time.Time       `json:"date"`
	Notes         string          `json:"notes"`
}

// Quotation statuses
const (
	QuotationDraft     = "draft"
	QuotationSent      = "sent"
	QuotationAccepted  = "accepted"
	QuotationRejected  = "rejected"
	QuotationConverted = "converted"
)

type Quotation struct {
	Base
	UserID          uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_quotation_owner_number,priority:1" json:"userId"`
	QuotationNumber string    `gorm:"size:20;not null;uniqueIndex:idx_quotation_owner_number,priority:2" json:"quotation_id"`
	CustomerID      uuid.UUID `gorm:"type:uuid;index;not null" json:"customerId"`

	QuotationDate     time.Time  `json:"quotation_date"`
	ExpiryDate        *time.Time `json:"expiry_date"`
	ReferenceNo       string     `json:"reference_no"`
	Status            string     `gorm:"size:20;index;not null" json:"status"`
	BankDetailID      *uuid.UUID `gorm:"type:uuid" json:"bank"`
	Notes             string     `json:"notes"`
	TermsAndCondition string     `json:"termsAndCondition"`
	Amounts           `gorm:"embedded"`

	ConvertedType string     `gorm:"size:20" json:"convert_type"`
	ConvertedID   *uuid.UUID `gorm:"type:uuid" json:"convertedId"`

	SignInfo  `gorm:"embedded"`
	IsDeleted bool `gorm:"index" json:"isDeleted"`

	Items      []LineItem  `gorm:"polymorphic:Document;polymorphicValue:quotations" json:"items"`
	Customer   *Customer   `gorm:"foreignKey:CustomerID" json:"-"`
	BankDetail *BankDetail `gorm:"foreignKey:BankDetailID" json:"-"`
	Signature  *Signature  `gorm:"foreignKey:SignatureID" json:"-"`
}
