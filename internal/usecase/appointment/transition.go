package appointment

import (
	"context"
	"strings"
	"time"

	"github.com/BruksfildServices01/autoshop-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/autoshop-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/autoshop-scheduler/internal/domain/calendar"
	"github.com/BruksfildServices01/autoshop-scheduler/internal/metrics"
	"github.com/BruksfildServices01/autoshop-scheduler/internal/models"
	"github.com/BruksfildServices01/autoshop-scheduler/internal/timezone"
)

type TransitionInput struct {
	AppointmentID  uint
	Status         string
	ActualDuration *int

	ActorID uint
	// staff may apply any legal transition; customers may only cancel their own
	ActorIsStaff bool
}

type TransitionAppointment struct {
	repo    domain.Repository
	loc     *time.Location
	notify  calendar.Notifier
	audit   *audit.Dispatcher
	metrics *metrics.Metrics
	now     func() time.Time
}

func NewTransitionAppointment(
	repo domain.Repository,
	loc *time.Location,
	notify calendar.Notifier,
	audit *audit.Dispatcher,
	m *metrics.Metrics,
) *TransitionAppointment {
	if notify == nil {
		notify = calendar.Notifiers{}
	}
	return &TransitionAppointment{
		repo:    repo,
		loc:     loc,
		notify:  notify,
		audit:   audit,
		metrics: m,
		now:     timezone.Clock(loc),
	}
}

func (uc *TransitionAppointment) WithClock(now func() time.Time) *TransitionAppointment {
	uc.now = now
	return uc
}

func (uc *TransitionAppointment) Execute(
	ctx context.Context,
	in TransitionInput,
) (*models.Appointment, error) {

	to, ok := domain.ParseStatus(strings.ToUpper(strings.TrimSpace(in.Status)))
	if !ok {
		return nil, errInvalidStatus
	}

	ap, err := uc.repo.GetAppointment(ctx, in.AppointmentID)
	if err != nil {
		return nil, err
	}

	if !in.ActorIsStaff {
		if to != domain.StatusCancelled {
			return nil, errStaffOnly
		}
		if ap.UserID != in.ActorID {
			return nil, errNotOwner
		}
	}

	from := domain.Status(ap.Status)
	if err := domain.Apply(ap, to, ap.Service, in.ActualDuration, uc.now()); err != nil {
		return nil, err
	}

	if err := uc.repo.UpdateAppointmentStatus(ctx, ap, from); err != nil {
		return nil, err
	}

	uc.metrics.Transition(ap.Status)

	date := ap.Date
	uc.notify.CalendarChanged(ctx, calendar.Change{
		Kind:          calendar.ChangeAppointmentStatus,
		Date:          &date,
		AppointmentID: &ap.ID,
		Status:        ap.Status,
	})

	actorID := in.ActorID
	meta := map[string]any{
		"from": string(from),
		"to":   ap.Status,
	}
	if ap.WarrantyUntil != nil {
		meta["warranty_until"] = ap.WarrantyUntil
	}
	uc.audit.Dispatch(ctx, audit.Event{
		UserID:   &actorID,
		Action:   "appointment_" + actionFor(to),
		Entity:   "appointment",
		EntityID: &ap.ID,
		Metadata: meta,
	})

	return ap, nil
}

func actionFor(to domain.Status) string {
	switch to {
	case domain.StatusConfirmed:
		return "confirmed"
	case domain.StatusCancelled:
		return "cancelled"
	case domain.StatusCompleted:
		return "completed"
	default:
		return "updated"
	}
}
