package models

import (
	"time"

	"gorm.io/datatypes"
)

// ShopSettings is a single-row table (ID 1). Defaults live in the settings package.
type ShopSettings struct {
	ID uint `gorm:"primaryKey" json:"id"`

	ClosedWeekday      int                         `json:"closed_weekday"`
	LeadTimeMinutes    int                         `json:"lead_time_minutes"`
	SlotDurationMin    int                         `json:"slot_duration_min"`
	BookingHorizonDays int                         `json:"booking_horizon_days"`
	SlotTimes          datatypes.JSONSlice[string] `json:"slot_times"`

	UpdatedAt time.Time `json:"updated_at"`
}
