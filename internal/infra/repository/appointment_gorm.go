package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/BruksfildServices01/autoshop-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/autoshop-scheduler/internal/httperr"
	"github.com/BruksfildServices01/autoshop-scheduler/internal/models"
)

type AppointmentGormRepository struct {
	db *gorm.DB
}

func NewAppointmentGormRepository(db *gorm.DB) *AppointmentGormRepository {
	return &AppointmentGormRepository{db: db}
}

// --------------------------------------------------
// Transaction
// --------------------------------------------------

func (r *AppointmentGormRepository) Transaction(
	ctx context.Context,
	fn func(tx domain.Repository) error,
) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&AppointmentGormRepository{db: tx})
	})
}

// --------------------------------------------------
// Service
// --------------------------------------------------

func (r *AppointmentGormRepository) GetService(
	ctx context.Context,
	id uint,
) (*models.Service, error) {

	var service models.Service
	if err := r.db.WithContext(ctx).First(&service, id).Error; err != nil {
		if errorsIsNotFound(err) {
			return nil, httperr.ErrNotFound("service_not_found", "找不到此服務項目")
		}
		return nil, httperr.ErrPersistence("get service", err)
	}
	return &service, nil
}

// --------------------------------------------------
// Calendar exclusions
// --------------------------------------------------

func (r *AppointmentGormRepository) GetHoliday(
	ctx context.Context,
	day string,
) (*models.Holiday, error) {

	var holidays []models.Holiday
	if err := r.db.WithContext(ctx).
		Where("date = ?", day).
		Limit(1).
		Find(&holidays).Error; err != nil {
		return nil, httperr.ErrPersistence("get holiday", err)
	}

	if len(holidays) == 0 {
		return nil, nil
	}
	return &holidays[0], nil
}

func (r *AppointmentGormRepository) IsSlotBlocked(
	ctx context.Context,
	date time.Time,
) (bool, error) {

	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.BlockedSlot{}).
		Where("date = ?", date.UTC()).
		Count(&count).Error; err != nil {
		return false, httperr.ErrPersistence("check blocked slot", err)
	}
	return count > 0, nil
}

// --------------------------------------------------
// Appointment (create / conflict)
// --------------------------------------------------

func (r *AppointmentGormRepository) FindActiveAppointmentAt(
	ctx context.Context,
	date time.Time,
	lock bool,
) (*models.Appointment, error) {

	q := r.db.WithContext(ctx).
		Where("date = ? AND status <> ?", date.UTC(), string(domain.StatusCancelled))

	if lock {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var apps []models.Appointment
	if err := q.Limit(1).Find(&apps).Error; err != nil {
		return nil, httperr.ErrPersistence("find active appointment", err)
	}

	if len(apps) == 0 {
		return nil, nil
	}
	return &apps[0], nil
}

// CreateAppointment relies on ux_appointments_active_date for the final word on conflicts.
func (r *AppointmentGormRepository) CreateAppointment(
	ctx context.Context,
	ap *models.Appointment,
) error {

	ap.Date = ap.Date.UTC()

	if err := r.db.WithContext(ctx).Create(ap).Error; err != nil {
		if httperr.IsUniqueViolation(err) {
			return domain.ErrSlotTaken
		}
		return httperr.ErrPersistence("create appointment", err)
	}
	return nil
}

// --------------------------------------------------
// Appointment (state change)
// --------------------------------------------------

func (r *AppointmentGormRepository) GetAppointment(
	ctx context.Context,
	id uint,
) (*models.Appointment, error) {

	var ap models.Appointment
	if err := r.db.WithContext(ctx).
		Preload("Service").
		First(&ap, id).Error; err != nil {

		if errorsIsNotFound(err) {
			return nil, httperr.ErrNotFound("appointment_not_found", "找不到此預約")
		}
		return nil, httperr.ErrPersistence("get appointment", err)
	}

	return &ap, nil
}

func (r *AppointmentGormRepository) UpdateAppointmentStatus(
	ctx context.Context,
	ap *models.Appointment,
	from domain.Status,
) error {

	res := r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Where("id = ? AND status = ?", ap.ID, string(from)).
		Updates(map[string]any{
			"status":          ap.Status,
			"actual_duration": ap.ActualDuration,
			"warranty_until":  ap.WarrantyUntil,
			"confirmed_at":    ap.ConfirmedAt,
			"cancelled_at":    ap.CancelledAt,
			"completed_at":    ap.CompletedAt,
		})

	if res.Error != nil {
		return httperr.ErrPersistence("update appointment status", res.Error)
	}

	if res.RowsAffected == 0 {
		return httperr.ErrConflict("status_changed", "預約狀態已被其他人變更，請重新整理")
	}
	return nil
}

// --------------------------------------------------
// Listing
// --------------------------------------------------

func (r *AppointmentGormRepository) ListAppointmentsForPeriod(
	ctx context.Context,
	start time.Time,
	end time.Time,
) ([]models.Appointment, error) {

	var apps []models.Appointment

	err := r.db.WithContext(ctx).
		Preload("Service").
		Preload("Vehicle").
		Where("date >= ? AND date < ?", start.UTC(), end.UTC()).
		Order("date ASC").
		Find(&apps).Error

	if err != nil {
		return nil, httperr.ErrPersistence("list appointments", err)
	}

	return apps, nil
}

func (r *AppointmentGormRepository) ListAppointmentsForUser(
	ctx context.Context,
	userID uint,
) ([]models.Appointment, error) {

	var apps []models.Appointment

	err := r.db.WithContext(ctx).
		Preload("Service").
		Where("user_id = ?", userID).
		Order("date DESC").
		Find(&apps).Error

	if err != nil {
		return nil, httperr.ErrPersistence("list user appointments", err)
	}

	return apps, nil
}

// Compile-time check
var _ domain.Repository = (*AppointmentGormRepository)(nil)
