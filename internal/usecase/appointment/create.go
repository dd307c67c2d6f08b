package appointment

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/BruksfildServices01/autoshop-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/autoshop-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/autoshop-scheduler/internal/domain/calendar"
	"github.com/BruksfildServices01/autoshop-scheduler/internal/domain/identity"
	"github.com/BruksfildServices01/autoshop-scheduler/internal/httperr"
	"github.com/BruksfildServices01/autoshop-scheduler/internal/metrics"
	"github.com/BruksfildServices01/autoshop-scheduler/internal/models"
	"github.com/BruksfildServices01/autoshop-scheduler/internal/settings"
	"github.com/BruksfildServices01/autoshop-scheduler/internal/timezone"
	"github.com/BruksfildServices01/autoshop-scheduler/internal/validators"
)

// ======================================================
// INPUT
// ======================================================

type CreateAppointmentInput struct {
	UserID uint

	Date time.Time

	CarModel     string
	LicensePlate string
	PhoneNumber  string
	CustomerName string

	ServiceID *uint
}

// ======================================================
// USE CASE
// ======================================================

type CreateAppointment struct {
	repo     domain.Repository
	settings settings.Provider
	loc      *time.Location
	notify   calendar.Notifier
	audit    *audit.Dispatcher
	metrics  *metrics.Metrics
	now      func() time.Time
}

func NewCreateAppointment(
	repo domain.Repository,
	settings settings.Provider,
	loc *time.Location,
	notify calendar.Notifier,
	audit *audit.Dispatcher,
	m *metrics.Metrics,
) *CreateAppointment {
	if notify == nil {
		notify = calendar.Notifiers{}
	}
	return &CreateAppointment{
		repo:     repo,
		settings: settings,
		loc:      loc,
		notify:   notify,
		audit:    audit,
		metrics:  m,
		now:      timezone.Clock(loc),
	}
}

func (uc *CreateAppointment) WithClock(now func() time.Time) *CreateAppointment {
	uc.now = now
	return uc
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *CreateAppointment) Execute(
	ctx context.Context,
	in CreateAppointmentInput,
) (*models.Appointment, error) {

	started := time.Now()

	ap, mismatch, err := uc.create(ctx, in)
	if err != nil {
		uc.rejected(ctx, in, err)
		return nil, err
	}

	uc.metrics.BookingCreated(time.Since(started))

	date := ap.Date
	uc.notify.CalendarChanged(ctx, calendar.Change{
		Kind:          calendar.ChangeAppointmentCreated,
		Date:          &date,
		AppointmentID: &ap.ID,
		Status:        ap.Status,
	})

	meta := map[string]any{
		"date":          ap.Date,
		"license_plate": ap.Snapshot.LicensePlate,
		"vehicle_id":    ap.VehicleID,
		"customer_id":   ap.CustomerID,
	}
	if mismatch {
		log.Printf(
			"appointment %d: plate %s is registered to another customer",
			ap.ID, ap.Snapshot.LicensePlate,
		)
		meta["owner_mismatch"] = true
	}

	userID := in.UserID
	uc.audit.Dispatch(ctx, audit.Event{
		UserID:   &userID,
		Action:   "appointment_created",
		Entity:   "appointment",
		EntityID: &ap.ID,
		Metadata: meta,
	})

	return ap, nil
}

func (uc *CreateAppointment) create(
	ctx context.Context,
	in CreateAppointmentInput,
) (*models.Appointment, bool, error) {

	// --------------------------------------------------
	// 1. Input
	// --------------------------------------------------
	plate := validators.NormalizeLicensePlate(in.LicensePlate)
	if err := validators.ValidateLicensePlate(plate); err != nil {
		return nil, false, httperr.ErrValidation("invalid_license_plate", err.Error())
	}

	phone := validators.NormalizePhone(in.PhoneNumber)
	if err := validators.ValidatePhone(phone); err != nil {
		return nil, false, httperr.ErrValidation("invalid_phone", err.Error())
	}

	carModel := strings.TrimSpace(in.CarModel)
	if carModel == "" {
		return nil, false, errMissingCarModel
	}

	// --------------------------------------------------
	// 2. Slot rules
	// --------------------------------------------------
	s, err := uc.settings.Get(ctx)
	if err != nil {
		return nil, false, err
	}
	rules := s.Rules(uc.loc)
	now := uc.now()

	if !rules.IsSlotStart(in.Date) {
		return nil, false, errInvalidSlot
	}
	if rules.BeyondHorizon(in.Date, now) {
		return nil, false, errBeyondHorizon
	}

	holiday, err := uc.repo.GetHoliday(ctx, rules.DayKey(in.Date))
	if err != nil {
		return nil, false, err
	}

	feed := calendar.Feed{}
	if holiday != nil {
		feed.DayExceptions = []calendar.DayException{{
			Date:      holiday.Date,
			Name:      holiday.Name,
			IsHoliday: holiday.IsHoliday,
		}}
	}
	if disabled, reason := calendar.NewCalendar(feed, rules).SlotStatus(in.Date, now); disabled {
		return nil, false, slotUnavailable(reason)
	}

	// --------------------------------------------------
	// 3. Service
	// --------------------------------------------------
	var service *models.Service
	if in.ServiceID != nil {
		service, err = uc.repo.GetService(ctx, *in.ServiceID)
		if err != nil {
			return nil, false, err
		}
		if !service.IsActive() {
			return nil, false, errServiceInactive
		}
	}

	// --------------------------------------------------
	// 4. Identity + conflict check + insert
	// --------------------------------------------------
	var (
		ap       *models.Appointment
		mismatch bool
	)
	err = uc.repo.Transaction(ctx, func(tx domain.Repository) error {
		res, err := identity.Resolve(ctx, tx, identity.Input{
			Phone:        phone,
			LicensePlate: plate,
			CarModel:     carModel,
			CustomerName: in.CustomerName,
		})
		if err != nil {
			return err
		}
		mismatch = res.OwnerMismatch

		blocked, err := tx.IsSlotBlocked(ctx, in.Date)
		if err != nil {
			return err
		}
		if blocked {
			return domain.ErrSlotBlocked
		}

		existing, err := tx.FindActiveAppointmentAt(ctx, in.Date, true)
		if err != nil {
			return err
		}
		if existing != nil {
			return domain.ErrSlotTaken
		}

		ap = &models.Appointment{
			Date: in.Date,
			Snapshot: models.AppointmentSnapshot{
				CarModel:     carModel,
				LicensePlate: plate,
				PhoneNumber:  phone,
				CustomerName: strings.TrimSpace(in.CustomerName),
			},
			Status:     string(domain.InitialStatus()),
			UserID:     in.UserID,
			ServiceID:  in.ServiceID,
			VehicleID:  res.Vehicle.ID,
			CustomerID: res.Customer.ID,
		}
		if err := tx.CreateAppointment(ctx, ap); err != nil {
			return err
		}

		ap.Service = service
		ap.Vehicle = res.Vehicle
		ap.Customer = res.Customer
		return nil
	})
	if err != nil {
		return nil, false, err
	}

	return ap, mismatch, nil
}

func (uc *CreateAppointment) rejected(ctx context.Context, in CreateAppointmentInput, err error) {
	var be httperr.BusinessError
	if !errors.As(err, &be) {
		uc.metrics.BookingRejected("internal")
		return
	}
	uc.metrics.BookingRejected(be.Code)

	if be.Kind != httperr.KindSlotConflict {
		return
	}

	userID := in.UserID
	uc.audit.Dispatch(ctx, audit.Event{
		UserID: &userID,
		Action: "appointment_conflict",
		Entity: "appointment",
		Metadata: map[string]any{
			"date":   in.Date,
			"reason": be.Code,
		},
	})
}
