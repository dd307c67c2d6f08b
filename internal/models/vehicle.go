package models

import "time"

// Vehicle plates are unique across all customers.
type Vehicle struct {
	ID uint `gorm:"primaryKey" json:"id"`

	LicensePlate string `gorm:"size:10;uniqueIndex;not null" json:"license_plate"`
	CarModel     string `gorm:"size:100" json:"car_model"`

	CustomerID uint `gorm:"index;not null" json:"customer_id"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
