package models

import (
	"time"

	"gorm.io/datatypes"
)

type AuditLog struct {
	ID uint `gorm:"primaryKey" json:"id"`

	UserID *uint  `json:"user_id"`
	Action string `gorm:"size:50;not null;index" json:"action"`

	Entity   string         `gorm:"size:50" json:"entity"`
	EntityID *uint          `json:"entity_id"`
	Metadata datatypes.JSON `json:"metadata"`

	RequestID string `gorm:"size:64;index" json:"request_id,omitempty"`

	CreatedAt time.Time `gorm:"index" json:"created_at"`
}
