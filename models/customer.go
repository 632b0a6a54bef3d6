package models

import (
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	StatusActive   = "active"
	StatusDeactive = "deactive"
)

type Customer struct {
	Base
	UserID uuid.UUID `gorm:"type:uuid;index;uniqueIndex:idx_customers_owner_email,priority:1,where:is_deleted = false AND email_key <> '';not null" json:"userId"`

	Name     string `gorm:"not null" json:"name"`
	Email    string `gorm:"index" json:"email"`
	EmailKey string `gorm:"size:255;uniqueIndex:idx_customers_owner_email,priority:2,where:is_deleted = false AND email_key <> ''" json:"-"`
	Phone    string `json:"phone"`
	Website  string `json:"website"`
	Notes    string `json:"notes"`
	Image    string `json:"image"`
	Currency string `gorm:"size:10" json:"currency"`

	BillingAddress  Address `gorm:"embedded;embeddedPrefix:billing_" json:"billingAddress"`
	ShippingAddress Address `gorm:"embedded;embeddedPrefix:shipping_" json:"shippingAddress"`

	Balance   decimal.Decimal `gorm:"type:decimal(20,4)" json:"balance"`
	Status    string          `gorm:"size:20;not null" json:"status"`
	IsDeleted bool            `gorm:"index" json:"isDeleted"`
}

// BeforeSave keeps the case-folded email behind the per-owner uniqueness index.
func (c *Customer) BeforeSave(tx *gorm.DB) error {
	c.EmailKey = strings.ToLower(strings.TrimSpace(c.Email))
	return nil
}

// Supplier is the vendor side of purchase orders, purchases and debit notes.
type Supplier struct {
	Base
	UserID uuid.UUID `gorm:"type:uuid;index;not null" json:"userId"`

	Name    string  `gorm:"not null" json:"name"`
	Email   string  `gorm:"index" json:"email"`
	Phone   string  `json:"phone"`
	Address Address `gorm:"embedded;embeddedPrefix:address_" json:"address"`

	Balance     decimal.Decimal `gorm:"type:decimal(20,4)" json:"balance"`
	BalanceType string          `gorm:"size:10" json:"balanceType"` // credit or debit
	IsDeleted   bool            `gorm:"index" json:"isDeleted"`
}

type BankDetail struct {
	Base
	UserID uuid.UUID `gorm:"type:uuid;index;not null" json:"userId"`

	BankName          string `gorm:"not null" json:"bankName"`
	AccountHolderName string `gorm:"not null" json:"accountHolderName"`
	AccountNumber     string `gorm:"not null" json:"accountNumber"`
	IFSCCode          string `json:"IFSCCode"`
	BranchName        string `json:"branchName"`
	IsDeleted         bool   `gorm:"index" json:"isDeleted"`
}
