package settings

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/BruksfildServices01/autoshop-scheduler/internal/httperr"
	"github.com/BruksfildServices01/autoshop-scheduler/internal/models"
)

const settingsRowID = 1

// Store reads and writes the single shop_settings row.
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Get(ctx context.Context) (*Settings, error) {
	var rows []models.ShopSettings
	if err := s.db.WithContext(ctx).
		Where("id = ?", settingsRowID).
		Limit(1).
		Find(&rows).Error; err != nil {
		return nil, httperr.ErrPersistence("get settings", err)
	}

	out := Defaults()
	if len(rows) == 0 {
		return &out, nil
	}

	row := rows[0]
	out.ClosedWeekday = row.ClosedWeekday
	out.LeadTimeMinutes = row.LeadTimeMinutes
	out.SlotDurationMin = row.SlotDurationMin
	out.BookingHorizonDays = row.BookingHorizonDays
	if len(row.SlotTimes) > 0 {
		out.SlotTimes = []string(row.SlotTimes)
	}
	return &out, nil
}

func (s *Store) Update(ctx context.Context, in Settings) (*Settings, error) {
	if err := in.Normalize(); err != nil {
		return nil, err
	}

	row := models.ShopSettings{
		ID:                 settingsRowID,
		ClosedWeekday:      in.ClosedWeekday,
		LeadTimeMinutes:    in.LeadTimeMinutes,
		SlotDurationMin:    in.SlotDurationMin,
		BookingHorizonDays: in.BookingHorizonDays,
		SlotTimes:          in.SlotTimes,
	}

	if err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"closed_weekday",
				"lead_time_minutes",
				"slot_duration_min",
				"booking_horizon_days",
				"slot_times",
				"updated_at",
			}),
		}).
		Create(&row).Error; err != nil {
		return nil, httperr.ErrPersistence("save settings", err)
	}

	return &in, nil
}

var (
	_ Provider = (*Store)(nil)
	_ Updater  = (*Store)(nil)
)
