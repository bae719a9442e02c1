package models

import "time"

// Family groups users whose expenses are visible to each other.
type Family struct {
	ID        uint `gorm:"primaryKey"`
	CreatedAt time.Time
	UpdatedAt time.Time
	Name      string `gorm:"size:255;not null"`
	OwnerID   uint   `gorm:"index;not null"` // user who created the family
}
