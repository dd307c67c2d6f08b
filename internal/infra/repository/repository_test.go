package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/autoshop-scheduler/internal/db/dbtest"
	domain "github.com/BruksfildServices01/autoshop-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/autoshop-scheduler/internal/httperr"
	"github.com/BruksfildServices01/autoshop-scheduler/internal/models"
)

var slot = time.Date(2024, 6, 10, 0, 30, 0, 0, time.UTC) // 08:30 in Taipei

func seedVehicle(t *testing.T, repo *AppointmentGormRepository) *models.Vehicle {
	t.Helper()
	ctx := context.Background()

	c := &models.Customer{Phone: "0912345678"}
	created, err := repo.CreateCustomer(ctx, c)
	require.NoError(t, err)
	require.True(t, created)

	v := &models.Vehicle{LicensePlate: "ABC1235", CarModel: "Altis", CustomerID: c.ID}
	created, err = repo.CreateVehicle(ctx, v)
	require.NoError(t, err)
	require.True(t, created)
	return v
}

func newAppointment(vehicleID uint, at time.Time) *models.Appointment {
	return &models.Appointment{
		Date:      at,
		Status:    string(domain.StatusPending),
		VehicleID: vehicleID,
		Snapshot: models.AppointmentSnapshot{
			CarModel:     "Altis",
			LicensePlate: "ABC1235",
			PhoneNumber:  "0912345678",
		},
	}
}

func TestAppointmentRepo_ActiveSlotIsUnique(t *testing.T) {
	ctx := context.Background()
	repo := NewAppointmentGormRepository(dbtest.Open(t))
	v := seedVehicle(t, repo)

	first := newAppointment(v.ID, slot)
	require.NoError(t, repo.CreateAppointment(ctx, first))

	err := repo.CreateAppointment(ctx, newAppointment(v.ID, slot.In(time.FixedZone("CST", 8*3600))))
	assert.ErrorIs(t, err, domain.ErrSlotTaken)

	found, err := repo.FindActiveAppointmentAt(ctx, slot, true)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, first.ID, found.ID)

	// cancelling frees the slot
	now := time.Now()
	require.NoError(t, domain.Cancel(first, now))
	require.NoError(t, repo.UpdateAppointmentStatus(ctx, first, domain.StatusPending))

	found, err = repo.FindActiveAppointmentAt(ctx, slot, false)
	require.NoError(t, err)
	assert.Nil(t, found)

	assert.NoError(t, repo.CreateAppointment(ctx, newAppointment(v.ID, slot)))
}

func TestAppointmentRepo_UpdateStatusIsConditional(t *testing.T) {
	ctx := context.Background()
	repo := NewAppointmentGormRepository(dbtest.Open(t))
	v := seedVehicle(t, repo)

	ap := newAppointment(v.ID, slot)
	require.NoError(t, repo.CreateAppointment(ctx, ap))

	require.NoError(t, domain.Confirm(ap, time.Now()))
	require.NoError(t, repo.UpdateAppointmentStatus(ctx, ap, domain.StatusPending))

	// a second writer still believing the row is PENDING loses
	stale := *ap
	require.NoError(t, domain.Cancel(&stale, time.Now()))
	err := repo.UpdateAppointmentStatus(ctx, &stale, domain.StatusPending)
	assert.True(t, httperr.IsBusiness(err, "status_changed"))

	got, err := repo.GetAppointment(ctx, ap.ID)
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusConfirmed), got.Status)
	assert.NotNil(t, got.ConfirmedAt)
}

func TestAppointmentRepo_NotFound(t *testing.T) {
	ctx := context.Background()
	repo := NewAppointmentGormRepository(dbtest.Open(t))

	_, err := repo.GetAppointment(ctx, 99)
	assert.True(t, httperr.IsBusiness(err, "appointment_not_found"))
	assert.Equal(t, httperr.KindNotFound, httperr.KindOf(err))

	_, err = repo.GetService(ctx, 99)
	assert.True(t, httperr.IsBusiness(err, "service_not_found"))

	h, err := repo.GetHoliday(ctx, "2024-06-10")
	require.NoError(t, err)
	assert.Nil(t, h)
}

func TestAppointmentRepo_TransactionRollsBack(t *testing.T) {
	ctx := context.Background()
	repo := NewAppointmentGormRepository(dbtest.Open(t))
	v := seedVehicle(t, repo)

	err := repo.Transaction(ctx, func(tx domain.Repository) error {
		if err := tx.CreateAppointment(ctx, newAppointment(v.ID, slot)); err != nil {
			return err
		}
		return domain.ErrSlotBlocked
	})
	assert.ErrorIs(t, err, domain.ErrSlotBlocked)

	found, err := repo.FindActiveAppointmentAt(ctx, slot, false)
	require.NoError(t, err)
	assert.Nil(t, found)
}

func TestIdentityRepo_ConflictingInsertsReportNotCreated(t *testing.T) {
	ctx := context.Background()
	repo := NewAppointmentGormRepository(dbtest.Open(t))
	v := seedVehicle(t, repo)

	created, err := repo.CreateCustomer(ctx, &models.Customer{Phone: "0912345678"})
	require.NoError(t, err)
	assert.False(t, created)

	created, err = repo.CreateVehicle(ctx, &models.Vehicle{LicensePlate: "ABC1235", CustomerID: v.CustomerID})
	require.NoError(t, err)
	assert.False(t, created)

	c, err := repo.FindCustomerByPhone(ctx, "0912345678")
	require.NoError(t, err)
	require.NotNil(t, c)

	require.NoError(t, repo.FillCustomerName(ctx, c.ID, "王小明"))
	require.NoError(t, repo.FillCustomerName(ctx, c.ID, "別人"))
	c, err = repo.FindCustomerByPhone(ctx, "0912345678")
	require.NoError(t, err)
	assert.Equal(t, "王小明", *c.Name)

	require.NoError(t, repo.SetVehicleModel(ctx, v.ID, "Corolla"))
	got, err := repo.FindVehicleByPlate(ctx, "ABC1235")
	require.NoError(t, err)
	assert.Equal(t, "Corolla", got.CarModel)

	missing, err := repo.FindVehicleByPlate(ctx, "XYZ9999")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestCalendarRepo_FeedSources(t *testing.T) {
	ctx := context.Background()
	gdb := dbtest.Open(t)
	apps := NewAppointmentGormRepository(gdb)
	cal := NewCalendarGormRepository(gdb)
	v := seedVehicle(t, apps)

	cancelled := newAppointment(v.ID, slot.Add(2*time.Hour))
	require.NoError(t, apps.CreateAppointment(ctx, newAppointment(v.ID, slot)))
	require.NoError(t, apps.CreateAppointment(ctx, cancelled))
	require.NoError(t, domain.Cancel(cancelled, time.Now()))
	require.NoError(t, apps.UpdateAppointmentStatus(ctx, cancelled, domain.StatusPending))

	blockedAt := slot.Add(5 * time.Hour)
	require.NoError(t, cal.CreateBlockedSlot(ctx, &models.BlockedSlot{Date: blockedAt}))

	err := cal.CreateBlockedSlot(ctx, &models.BlockedSlot{Date: blockedAt})
	assert.True(t, httperr.IsBusiness(err, "slot_already_blocked"))

	start := slot.Add(-24 * time.Hour)
	end := slot.Add(24 * time.Hour)

	dates, err := cal.ListActiveAppointmentDates(ctx, start, end)
	require.NoError(t, err)
	require.Len(t, dates, 1)
	assert.True(t, slot.Equal(dates[0]))

	blocked, err := cal.ListBlockedSlotDates(ctx, start, end)
	require.NoError(t, err)
	require.Len(t, blocked, 1)
	assert.True(t, blockedAt.Equal(blocked[0]))

	slots, err := cal.ListBlockedSlots(ctx, start, end)
	require.NoError(t, err)
	require.Len(t, slots, 1)

	deleted, err := cal.DeleteBlockedSlot(ctx, slots[0].ID)
	require.NoError(t, err)
	assert.True(t, blockedAt.Equal(deleted.Date))

	_, err = cal.DeleteBlockedSlot(ctx, slots[0].ID)
	assert.True(t, httperr.IsBusiness(err, "blocked_slot_not_found"))
}

func TestCalendarRepo_UpsertHolidays(t *testing.T) {
	ctx := context.Background()
	cal := NewCalendarGormRepository(dbtest.Open(t))

	n, err := cal.UpsertHolidays(ctx, []models.Holiday{
		{Date: "2024-06-10", Name: "端午節", IsHoliday: true, Source: models.HolidaySourceFeed},
		{Date: "2024-09-17", Name: "中秋節", IsHoliday: true, Source: models.HolidaySourceFeed},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	_, err = cal.UpsertHolidays(ctx, []models.Holiday{
		{Date: "2024-06-10", Name: "端午節(店休)", IsHoliday: true, Source: models.HolidaySourceManual},
	})
	require.NoError(t, err)

	list, err := cal.ListHolidays(ctx, "2024-06-01", "2024-06-30")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "端午節(店休)", list[0].Name)
	assert.Equal(t, models.HolidaySourceManual, list[0].Source)

	n, err = cal.UpsertHolidays(ctx, nil)
	require.NoError(t, err)
	assert.Zero(t, n)

	_, err = cal.DeleteHoliday(ctx, list[0].ID)
	require.NoError(t, err)

	list, err = cal.ListHolidays(ctx, "2024-01-01", "2024-12-31")
	require.NoError(t, err)
	assert.Len(t, list, 1)
}
