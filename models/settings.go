package models

import (
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type CompanySettings struct {
	Base
	UserID      uuid.UUID `gorm:"type:uuid;uniqueIndex;not null" json:"userId"`
	CompanyName string    `json:"companyName"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone"`
	Address     Address   `gorm:"embedded;embeddedPrefix:address_" json:"address"`
	Logo        string    `json:"siteLogo"`
	Favicon     string    `json:"favicon"`
}

type EmailSettings struct {
	Base
	UserID     uuid.UUID `gorm:"type:uuid;uniqueIndex;not null" json:"userId"`
	Provider   string    `gorm:"size:20" json:"provider"` // smtp, sendgrid, ...
	Host       string    `json:"host"`
	Port       int       `json:"port"`
	Username   string    `json:"username"`
	Password   string    `json:"-"`
	Encryption string    `gorm:"size:10" json:"encryption"`
	FromEmail  string    `json:"fromEmail"`
	FromName   string    `json:"fromName"`
}

type Localization struct {
	Base
	UserID         uuid.UUID `gorm:"type:uuid;uniqueIndex;not null" json:"userId"`
	Language       string    `gorm:"size:10" json:"language"`
	Timezone       string    `json:"timezone"`
	DateFormat     string    `json:"dateFormat"`
	TimeFormat     string    `json:"timeFormat"`
	CurrencySymbol string    `gorm:"size:10" json:"currencySymbol"`
	FinancialYear  string    `json:"financialYear"`
}

type InvoiceTemplate struct {
	Base
	UserID          uuid.UUID      `gorm:"type:uuid;uniqueIndex;not null" json:"userId"`
	DefaultTemplate string         `json:"default_invoice_template"`
	Options         datatypes.JSON `json:"options"`
}
