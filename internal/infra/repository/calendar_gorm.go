package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/BruksfildServices01/autoshop-scheduler/internal/domain/calendar"
	"github.com/BruksfildServices01/autoshop-scheduler/internal/httperr"
	"github.com/BruksfildServices01/autoshop-scheduler/internal/models"
)

type CalendarGormRepository struct {
	db *gorm.DB
}

func NewCalendarGormRepository(db *gorm.DB) *CalendarGormRepository {
	return &CalendarGormRepository{db: db}
}

// --------------------------------------------------
// Feed
// --------------------------------------------------

func (r *CalendarGormRepository) ListActiveAppointmentDates(
	ctx context.Context,
	start time.Time,
	end time.Time,
) ([]time.Time, error) {

	var dates []time.Time
	if err := r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Where(
			"date >= ? AND date < ? AND status <> ?",
			start.UTC(), end.UTC(), "CANCELLED",
		).
		Order("date ASC").
		Pluck("date", &dates).Error; err != nil {
		return nil, httperr.ErrPersistence("list appointment dates", err)
	}
	return dates, nil
}

func (r *CalendarGormRepository) ListBlockedSlotDates(
	ctx context.Context,
	start time.Time,
	end time.Time,
) ([]time.Time, error) {

	var dates []time.Time
	if err := r.db.WithContext(ctx).
		Model(&models.BlockedSlot{}).
		Where("date >= ? AND date < ?", start.UTC(), end.UTC()).
		Order("date ASC").
		Pluck("date", &dates).Error; err != nil {
		return nil, httperr.ErrPersistence("list blocked dates", err)
	}
	return dates, nil
}

func (r *CalendarGormRepository) ListHolidays(
	ctx context.Context,
	fromDay string,
	toDay string,
) ([]models.Holiday, error) {

	var holidays []models.Holiday
	if err := r.db.WithContext(ctx).
		Where("date >= ? AND date <= ?", fromDay, toDay).
		Order("date ASC").
		Find(&holidays).Error; err != nil {
		return nil, httperr.ErrPersistence("list holidays", err)
	}
	return holidays, nil
}

// --------------------------------------------------
// Blocked slots
// --------------------------------------------------

func (r *CalendarGormRepository) ListBlockedSlots(
	ctx context.Context,
	start time.Time,
	end time.Time,
) ([]models.BlockedSlot, error) {

	var slots []models.BlockedSlot
	if err := r.db.WithContext(ctx).
		Where("date >= ? AND date < ?", start.UTC(), end.UTC()).
		Order("date ASC").
		Find(&slots).Error; err != nil {
		return nil, httperr.ErrPersistence("list blocked slots", err)
	}
	return slots, nil
}

func (r *CalendarGormRepository) CreateBlockedSlot(
	ctx context.Context,
	slot *models.BlockedSlot,
) error {

	slot.Date = slot.Date.UTC()

	if err := r.db.WithContext(ctx).Create(slot).Error; err != nil {
		if httperr.IsUniqueViolation(err) {
			return httperr.ErrConflict("slot_already_blocked", "此時段已經封鎖")
		}
		return httperr.ErrPersistence("create blocked slot", err)
	}
	return nil
}

func (r *CalendarGormRepository) DeleteBlockedSlot(
	ctx context.Context,
	id uint,
) (*models.BlockedSlot, error) {

	var slot models.BlockedSlot
	if err := r.db.WithContext(ctx).First(&slot, id).Error; err != nil {
		if errorsIsNotFound(err) {
			return nil, httperr.ErrNotFound("blocked_slot_not_found", "找不到此封鎖時段")
		}
		return nil, httperr.ErrPersistence("get blocked slot", err)
	}

	if err := r.db.WithContext(ctx).Delete(&slot).Error; err != nil {
		return nil, httperr.ErrPersistence("delete blocked slot", err)
	}
	return &slot, nil
}

// --------------------------------------------------
// Holidays
// --------------------------------------------------

func (r *CalendarGormRepository) UpsertHolidays(
	ctx context.Context,
	holidays []models.Holiday,
) (int64, error) {

	if len(holidays) == 0 {
		return 0, nil
	}

	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "date"}},
			DoUpdates: clause.AssignmentColumns([]string{"name", "is_holiday", "source", "updated_at"}),
		}).
		Create(&holidays)

	if res.Error != nil {
		return 0, httperr.ErrPersistence("upsert holidays", res.Error)
	}
	return res.RowsAffected, nil
}

func (r *CalendarGormRepository) DeleteHoliday(
	ctx context.Context,
	id uint,
) (*models.Holiday, error) {

	var holiday models.Holiday
	if err := r.db.WithContext(ctx).First(&holiday, id).Error; err != nil {
		if errorsIsNotFound(err) {
			return nil, httperr.ErrNotFound("holiday_not_found", "找不到此假日設定")
		}
		return nil, httperr.ErrPersistence("get holiday", err)
	}

	if err := r.db.WithContext(ctx).Delete(&holiday).Error; err != nil {
		return nil, httperr.ErrPersistence("delete holiday", err)
	}
	return &holiday, nil
}

var _ domain.Repository = (*CalendarGormRepository)(nil)
