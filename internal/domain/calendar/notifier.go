package calendar

import (
	"context"
	"time"
)

const (
	ChangeAppointmentCreated = "appointment.created"
	ChangeAppointmentStatus  = "appointment.status_changed"
	ChangeSlotBlocked        = "slot.blocked"
	ChangeSlotUnblocked      = "slot.unblocked"
	ChangeHolidays           = "holidays.changed"
	ChangeSettings           = "settings.changed"
)

type Change struct {
	Kind          string     `json:"kind"`
	Date          *time.Time `json:"date,omitempty"`
	AppointmentID *uint      `json:"appointment_id,omitempty"`
	Status        string     `json:"status,omitempty"`
}

// Notifier is told after every committed write that changes bookability.
type Notifier interface {
	CalendarChanged(ctx context.Context, change Change)
}

// Notifiers fans a change out to every registered notifier.
type Notifiers []Notifier

func (ns Notifiers) CalendarChanged(ctx context.Context, change Change) {
	for _, n := range ns {
		if n != nil {
			n.CalendarChanged(ctx, change)
		}
	}
}
