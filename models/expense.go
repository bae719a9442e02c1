package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Expense represents a single spending record belonging to a user.
type Expense struct {
	ID         uint            `gorm:"primaryKey" json:"id"`
	CreatedAt  time.Time       `json:"createdAt"`
	UpdatedAt  time.Time       `json:"updatedAt"`
	UserID     uint            `gorm:"index;not null" json:"user_id"`
	User       User            `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	Amount     decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"amount"`
	Date       time.Time       `gorm:"not null;index" json:"date"`
	Category   string          `gorm:"size:255;not null" json:"category"`
	CurrencyID uint            `gorm:"index;not null" json:"currency_id"`
	Currency   Currency        `gorm:"foreignKey:CurrencyID;references:ID" json:"currency"`
	Comment    string          `gorm:"size:1024" json:"comment,omitempty"`
}
