package audit

import (
	"encoding/json"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/autoshop-scheduler/internal/models"
)

type Logger struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Logger {
	return &Logger{db: db}
}

func (l *Logger) Log(ev Event) error {
	var meta datatypes.JSON
	if ev.Metadata != nil {
		if b, err := json.Marshal(ev.Metadata); err == nil {
			meta = datatypes.JSON(b)
		}
	}

	log := models.AuditLog{
		UserID:    ev.UserID,
		Action:    ev.Action,
		Entity:    ev.Entity,
		EntityID:  ev.EntityID,
		Metadata:  meta,
		RequestID: ev.RequestID,
	}

	return l.db.Create(&log).Error
}
