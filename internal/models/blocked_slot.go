package models

import "time"

// BlockedSlot removes one exact slot timestamp from the calendar.
type BlockedSlot struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Date      time.Time `gorm:"not null;uniqueIndex" json:"date"`
	Reason    *string   `gorm:"size:255" json:"reason"`
	CreatedBy *uint     `json:"created_by"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
