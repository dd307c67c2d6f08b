package models

import "time"

type ServiceStatus string

const (
	ServiceActive  ServiceStatus = "ACTIVE"
	ServiceRetired ServiceStatus = "RETIRED"
)

type Service struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Name           string  `gorm:"size:100;not null" json:"name"`
	Description    string  `gorm:"size:255" json:"description"`
	DurationMin    int     `json:"duration_min"`
	Price          float64 `json:"price"`
	WarrantyMonths int     `gorm:"default:0" json:"warranty_months"`

	// RETIRED services stay in the table so old appointments keep their reference
	Status ServiceStatus `gorm:"size:20;default:'ACTIVE';index" json:"status"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (s *Service) IsActive() bool {
	return s.Status == ServiceActive
}
