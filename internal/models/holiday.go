package models

import "time"

const (
	HolidaySourceFeed   = "feed"
	HolidaySourceManual = "manual"
)

// Holiday is a day-level exception to the weekly pattern.
// IsHoliday=false reopens a day that is closed by default (makeup workday).
type Holiday struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	Date      string `gorm:"size:10;uniqueIndex;not null" json:"date"` // YYYY-MM-DD, shop timezone
	Name      string `gorm:"size:100" json:"name"`
	IsHoliday bool   `gorm:"not null" json:"is_holiday"`
	Source    string `gorm:"size:10;default:'manual'" json:"source"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
