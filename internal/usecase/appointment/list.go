package appointment

import (
	"context"
	"time"

	domain "github.com/BruksfildServices01/autoshop-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/autoshop-scheduler/internal/dto"
	"github.com/BruksfildServices01/autoshop-scheduler/internal/models"
	"github.com/BruksfildServices01/autoshop-scheduler/internal/settings"
)

// lister holds what every listing needs to render appointments.
type lister struct {
	repo     domain.Repository
	settings settings.Provider
	loc      *time.Location
}

func (l lister) render(
	ctx context.Context,
	appointments []models.Appointment,
) ([]dto.AppointmentListDTO, error) {
	s, err := l.settings.Get(ctx)
	if err != nil {
		return nil, err
	}
	slot := time.Duration(s.SlotDurationMin) * time.Minute

	out := make([]dto.AppointmentListDTO, 0, len(appointments))
	for _, ap := range appointments {
		out = append(out, dto.NewAppointmentListDTO(ap, l.loc, slot))
	}
	return out, nil
}

func (l lister) period(
	ctx context.Context,
	start time.Time,
	end time.Time,
) ([]dto.AppointmentListDTO, error) {
	appointments, err := l.repo.ListAppointmentsForPeriod(ctx, start, end)
	if err != nil {
		return nil, err
	}
	return l.render(ctx, appointments)
}

// ======================================================
// BY DATE
// ======================================================

type ListAppointmentsByDate struct {
	lister
}

func NewListAppointmentsByDate(
	repo domain.Repository,
	settings settings.Provider,
	loc *time.Location,
) *ListAppointmentsByDate {
	return &ListAppointmentsByDate{
		lister: lister{repo: repo, settings: settings, loc: loc},
	}
}

func (uc *ListAppointmentsByDate) Execute(
	ctx context.Context,
	date time.Time,
) ([]dto.AppointmentListDTO, error) {

	d := date.In(uc.loc)
	start := time.Date(
		d.Year(),
		d.Month(),
		d.Day(),
		0, 0, 0, 0,
		uc.loc,
	)
	end := start.AddDate(0, 0, 1)

	return uc.period(ctx, start, end)
}

// ======================================================
// BY MONTH
// ======================================================

type ListAppointmentsByMonth struct {
	lister
}

func NewListAppointmentsByMonth(
	repo domain.Repository,
	settings settings.Provider,
	loc *time.Location,
) *ListAppointmentsByMonth {
	return &ListAppointmentsByMonth{
		lister: lister{repo: repo, settings: settings, loc: loc},
	}
}

func (uc *ListAppointmentsByMonth) Execute(
	ctx context.Context,
	year int,
	month int,
) ([]dto.AppointmentListDTO, error) {

	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, uc.loc)
	end := start.AddDate(0, 1, 0)

	return uc.period(ctx, start, end)
}

// ======================================================
// MINE
// ======================================================

type ListMyAppointments struct {
	lister
}

func NewListMyAppointments(
	repo domain.Repository,
	settings settings.Provider,
	loc *time.Location,
) *ListMyAppointments {
	return &ListMyAppointments{
		lister: lister{repo: repo, settings: settings, loc: loc},
	}
}

func (uc *ListMyAppointments) Execute(
	ctx context.Context,
	userID uint,
) ([]dto.AppointmentListDTO, error) {

	appointments, err := uc.repo.ListAppointmentsForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return uc.render(ctx, appointments)
}
