package calendar

import (
	"context"
	"time"

	"github.com/BruksfildServices01/autoshop-scheduler/internal/models"
)

type Repository interface {
	// -------- Feed --------
	ListActiveAppointmentDates(
		ctx context.Context,
		start time.Time,
		end time.Time,
	) ([]time.Time, error)

	ListBlockedSlotDates(
		ctx context.Context,
		start time.Time,
		end time.Time,
	) ([]time.Time, error)

	ListHolidays(
		ctx context.Context,
		fromDay string,
		toDay string,
	) ([]models.Holiday, error)

	// -------- Blocked slots --------
	ListBlockedSlots(
		ctx context.Context,
		start time.Time,
		end time.Time,
	) ([]models.BlockedSlot, error)

	CreateBlockedSlot(
		ctx context.Context,
		slot *models.BlockedSlot,
	) error

	DeleteBlockedSlot(
		ctx context.Context,
		id uint,
	) (*models.BlockedSlot, error)

	// -------- Holidays --------
	UpsertHolidays(
		ctx context.Context,
		holidays []models.Holiday,
	) (int64, error)

	DeleteHoliday(
		ctx context.Context,
		id uint,
	) (*models.Holiday, error)
}
