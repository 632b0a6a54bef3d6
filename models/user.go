package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"invoicehub-backend/utils"
)

type User struct {
	Base
	FirstName string `gorm:"not null" json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `gorm:"uniqueIndex;not null" json:"email"`
	Password  string `gorm:"not null" json:"-"`
	Phone     string `json:"phone"`
	Image     string `json:"image"`
	Role      string `gorm:"size:20;not null" json:"role"`

	DefaultCurrency    string     `gorm:"size:10" json:"defaultCurrency"`
	DefaultSignatureID *uuid.UUID `gorm:"type:uuid" json:"defaultSignatureId"`

	LastLogin *time.Time `json:"lastLogin"`
	IsActive  bool       `json:"isActive"`
}

// Hash the password before the row is written
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if err := u.Base.BeforeCreate(tx); err != nil {
		return err
	}
	hashed, err := utils.HashPassword(u.Password)
	if err != nil {
		return err
	}
	u.Password = hashed
	return nil
}

func (u *User) FullName() string {
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}
