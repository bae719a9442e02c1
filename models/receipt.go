package models

import "time"

// Receipt is a file attached to an expense (one per expense). ThumbPath is
// empty when the uploaded file was not a decodable image.
type Receipt struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
	ExpenseID   uint      `gorm:"uniqueIndex;not null" json:"expense_id"`
	Expense     Expense   `gorm:"foreignKey:ExpenseID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	FileName    string    `gorm:"size:255;not null" json:"file_name"`
	StorePath   string    `gorm:"column:store_path;size:512" json:"store_path"`
	ThumbPath   string    `gorm:"column:thumb_path;size:512" json:"thumb_path,omitempty"`
	ContentType string    `gorm:"size:128" json:"content_type"`
}
