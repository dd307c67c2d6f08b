package models

import "time"

// Customer is identified by its normalized phone number.
type Customer struct {
	ID uint `gorm:"primaryKey" json:"id"`

	// nil until the first booking that supplies a name
	Name  *string `gorm:"size:100" json:"name"`
	Phone string  `gorm:"size:20;uniqueIndex;not null" json:"phone"`
	Notes string  `gorm:"size:500" json:"notes"`

	Vehicles []Vehicle `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"vehicles,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (c *Customer) HasName() bool {
	return c.Name != nil && *c.Name != ""
}
