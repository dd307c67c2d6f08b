package appointment

import "github.com/BruksfildServices01/autoshop-scheduler/internal/httperr"

// ===============================
// Appointment Status
// ===============================

type Status string

const (
	StatusPending   Status = "PENDING"
	StatusConfirmed Status = "CONFIRMED"
	StatusCompleted Status = "COMPLETED"
	StatusCancelled Status = "CANCELLED"
)

var transitions = map[Status][]Status{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusCompleted, StatusCancelled},
}

func ParseStatus(s string) (Status, bool) {
	switch Status(s) {
	case StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled:
		return Status(s), true
	}
	return "", false
}

func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// ===============================
// Validations
// ===============================

// CanTransition returns invalid_transition for anything outside the state machine.
func CanTransition(from, to Status) error {
	for _, next := range transitions[from] {
		if next == to {
			return nil
		}
	}
	return httperr.ErrValidation(
		"invalid_transition",
		"預約狀態無法由 "+string(from)+" 變更為 "+string(to),
	)
}

func InitialStatus() Status {
	return StatusPending
}
