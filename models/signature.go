package models

import (
	"github.com/google/uuid"
)

type Signature struct {
	Base
	UserID         uuid.UUID `gorm:"type:uuid;index;uniqueIndex:idx_signatures_single_default,where:mark_as_default = true;not null" json:"userId"`
	SignatureName  string    `gorm:"not null" json:"signatureName"`
	SignatureImage string    `json:"signatureImage"`
	MarkAsDefault  bool      `gorm:"index" json:"markAsDefault"`
	Status         bool      `json:"status"`
	IsDeleted      bool      `gorm:"index" json:"isDeleted"`
}

// Currency is a global list shared by every tenant.
type Currency struct {
	Base
	Name      string `gorm:"not null" json:"name"`
	Code      string `gorm:"size:10;uniqueIndex;not null" json:"code"`
	Symbol    string `gorm:"size:10" json:"symbol"`
	IsDefault bool   `gorm:"uniqueIndex:idx_currencies_single_default,where:is_default = true" json:"isDefault"`
	IsActive  bool   `json:"isActive"`
}

// Sign types
const (
	SignTypeNone    = "none"
	SignTypeDigital = "digitalSignature"
	SignTypeE       = "eSignature"
)

// SignInfo is embedded in every signable document.
type SignInfo struct {
	SignType       string     `gorm:"size:20" json:"sign_type"`
	SignatureID    *uuid.UUID `gorm:"type:uuid" json:"signatureId"`
	SignatureName  string     `json:"signatureName"`
	SignatureImage string     `json:"signatureImage"`
}
