package models

import "time"

// AppointmentSnapshot holds what the customer typed at booking time.
// It is written once on insert and never updated afterwards.
type AppointmentSnapshot struct {
	CarModel     string `gorm:"size:100" json:"car_model"`
	LicensePlate string `gorm:"size:10" json:"license_plate"`
	PhoneNumber  string `gorm:"size:20" json:"phone_number"`
	CustomerName string `gorm:"size:100" json:"customer_name"`
}

type Appointment struct {
	ID uint `gorm:"primaryKey" json:"id"`

	// exact slot start in UTC; unique among non-cancelled rows (ux_appointments_active_date)
	Date time.Time `gorm:"not null;index" json:"date"`

	Snapshot AppointmentSnapshot `gorm:"embedded;embeddedPrefix:snapshot_" json:"snapshot"`

	Status string `gorm:"size:20;not null;default:'PENDING';index" json:"status"`

	ActualDuration *int       `json:"actual_duration"`
	WarrantyUntil  *time.Time `json:"warranty_until"`

	UserID uint `gorm:"index" json:"user_id"`

	ServiceID *uint    `json:"service_id"`
	Service   *Service `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"service,omitempty"`

	VehicleID uint     `gorm:"index" json:"vehicle_id"`
	Vehicle   *Vehicle `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"vehicle,omitempty"`

	// customer resolved from the phone number; may differ from the vehicle owner
	CustomerID uint      `gorm:"index" json:"customer_id"`
	Customer   *Customer `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"customer,omitempty"`

	ConfirmedAt *time.Time `json:"confirmed_at"`
	CancelledAt *time.Time `json:"cancelled_at"`
	CompletedAt *time.Time `json:"completed_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
