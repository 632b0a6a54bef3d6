package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type NotificationLog struct {
	Base
	UserID       uuid.UUID      `gorm:"type:uuid;index;not null" json:"userId"`
	CustomerID   uuid.UUID      `gorm:"type:uuid;index;not null" json:"customerId"`
	InvoiceID    uuid.UUID      `gorm:"type:uuid;index;not null" json:"invoiceId"`
	Type         string         `gorm:"size:20" json:"type"`    // overdue
	Channel      string         `gorm:"size:20" json:"channel"` // whatsapp, sms
	Message      string         `gorm:"type:text" json:"message"`
	Status       string         `gorm:"size:20" json:"status"` // sent, failed, skipped
	ErrorMessage string         `gorm:"type:text" json:"errorMessage"`
	SentAt       time.Time      `json:"sentAt"`
	Meta         datatypes.JSON `json:"meta"`
}
