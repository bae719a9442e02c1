package models

import "time"

// Currency is read-only reference data seeded at migration time.
type Currency struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
	Code      string    `gorm:"size:8;uniqueIndex;not null" json:"code"`
	Name      string    `gorm:"size:64;not null" json:"name"`
	Symbol    string    `gorm:"size:8" json:"symbol"`
}
