package appointment

import (
	"time"

	"github.com/BruksfildServices01/autoshop-scheduler/internal/httperr"
	"github.com/BruksfildServices01/autoshop-scheduler/internal/models"
)

// ===============================
// Domain Actions
// ===============================

func Confirm(ap *models.Appointment, now time.Time) error {
	if err := CanTransition(Status(ap.Status), StatusConfirmed); err != nil {
		return err
	}

	ap.Status = string(StatusConfirmed)
	ap.ConfirmedAt = &now
	return nil
}

func Cancel(ap *models.Appointment, now time.Time) error {
	if err := CanTransition(Status(ap.Status), StatusCancelled); err != nil {
		return err
	}

	ap.Status = string(StatusCancelled)
	ap.CancelledAt = &now
	return nil
}

// Complete closes the appointment. service may be nil when the booking had none.
func Complete(
	ap *models.Appointment,
	service *models.Service,
	actualDuration *int,
	now time.Time,
) error {
	if err := CanTransition(Status(ap.Status), StatusCompleted); err != nil {
		return err
	}

	if actualDuration != nil && *actualDuration < 0 {
		return httperr.ErrValidation("invalid_actual_duration", "實際施工時間不可為負數")
	}

	ap.Status = string(StatusCompleted)
	ap.CompletedAt = &now
	ap.ActualDuration = actualDuration

	if service != nil {
		ap.WarrantyUntil = ComputeWarrantyUntil(now, service.WarrantyMonths)
	}
	return nil
}

// Apply runs the action matching the requested status.
func Apply(
	ap *models.Appointment,
	to Status,
	service *models.Service,
	actualDuration *int,
	now time.Time,
) error {
	switch to {
	case StatusConfirmed:
		return Confirm(ap, now)
	case StatusCancelled:
		return Cancel(ap, now)
	case StatusCompleted:
		return Complete(ap, service, actualDuration, now)
	default:
		return CanTransition(Status(ap.Status), to)
	}
}
