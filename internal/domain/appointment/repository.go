package appointment

import (
	"context"
	"time"

	"github.com/BruksfildServices01/autoshop-scheduler/internal/domain/identity"
	"github.com/BruksfildServices01/autoshop-scheduler/internal/models"
)

type Repository interface {
	// -------- Transaction --------
	// fn receives a repository bound to the transaction.
	Transaction(
		ctx context.Context,
		fn func(tx Repository) error,
	) error

	// -------- Customer / Vehicle --------
	identity.Store

	// -------- Service --------
	GetService(
		ctx context.Context,
		id uint,
	) (*models.Service, error)

	// -------- Calendar exclusions --------
	GetHoliday(
		ctx context.Context,
		day string,
	) (*models.Holiday, error)

	IsSlotBlocked(
		ctx context.Context,
		date time.Time,
	) (bool, error)

	// -------- Appointment (create / conflict) --------
	// FindActiveAppointmentAt locks the matching row when lock is true.
	FindActiveAppointmentAt(
		ctx context.Context,
		date time.Time,
		lock bool,
	) (*models.Appointment, error)

	CreateAppointment(
		ctx context.Context,
		ap *models.Appointment,
	) error

	// -------- Appointment (state change) --------
	GetAppointment(
		ctx context.Context,
		id uint,
	) (*models.Appointment, error)

	// UpdateAppointmentStatus writes only if the row still has status from.
	UpdateAppointmentStatus(
		ctx context.Context,
		ap *models.Appointment,
		from Status,
	) error

	// -------- Listing --------
	ListAppointmentsForPeriod(
		ctx context.Context,
		start time.Time,
		end time.Time,
	) ([]models.Appointment, error)

	ListAppointmentsForUser(
		ctx context.Context,
		userID uint,
	) ([]models.Appointment, error)
}
