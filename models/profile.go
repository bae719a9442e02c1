package models

import "time"

// Profile represents a user's profile (one-to-one with User). The Name field
// is what listings show for family members; users without a profile fall back
// to their email address.
type Profile struct {
	ID        uint `gorm:"primaryKey"`
	CreatedAt time.Time
	UpdatedAt time.Time
	UserID    uint   `gorm:"uniqueIndex;not null"` // one-to-one relation
	Name      string `gorm:"size:255;not null"`
	Location  string `gorm:"size:255"`
	Website   string `gorm:"size:255"`
}
