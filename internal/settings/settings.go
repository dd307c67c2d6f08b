// Package settings provides the shop scheduling parameters through an
// injected Provider instead of a process-wide cache.
package settings

import (
	"context"
	"sort"
	"time"

	"github.com/BruksfildServices01/autoshop-scheduler/internal/domain/calendar"
	"github.com/BruksfildServices01/autoshop-scheduler/internal/httperr"
)

type Settings struct {
	ClosedWeekday      int      `json:"closed_weekday"`
	LeadTimeMinutes    int      `json:"lead_time_minutes"`
	SlotDurationMin    int      `json:"slot_duration_min"`
	BookingHorizonDays int      `json:"booking_horizon_days"`
	SlotTimes          []string `json:"slot_times"`
}

type Provider interface {
	Get(ctx context.Context) (*Settings, error)
}

type Updater interface {
	Update(ctx context.Context, s Settings) (*Settings, error)
}

func Defaults() Settings {
	return Settings{
		ClosedWeekday:      int(time.Sunday),
		LeadTimeMinutes:    60,
		SlotDurationMin:    120,
		BookingHorizonDays: 60,
		SlotTimes:          []string{"08:30", "10:30", "13:30", "15:30"},
	}
}

func (s Settings) Rules(loc *time.Location) calendar.Rules {
	return calendar.Rules{
		Location:      loc,
		ClosedWeekday: time.Weekday(s.ClosedWeekday),
		LeadTime:      time.Duration(s.LeadTimeMinutes) * time.Minute,
		SlotTimes:     s.SlotTimes,
		SlotDuration:  time.Duration(s.SlotDurationMin) * time.Minute,
		HorizonDays:   s.BookingHorizonDays,
	}
}

// Normalize sorts and de-duplicates the slot times and checks ranges.
func (s *Settings) Normalize() error {
	if s.ClosedWeekday < 0 || s.ClosedWeekday > 6 {
		return httperr.ErrValidation("invalid_closed_weekday", "公休日需介於 0 (週日) 到 6 (週六)")
	}
	if s.LeadTimeMinutes < 0 {
		return httperr.ErrValidation("invalid_lead_time", "預約緩衝時間不可為負數")
	}
	if s.SlotDurationMin <= 0 {
		return httperr.ErrValidation("invalid_slot_duration", "時段長度必須大於 0")
	}
	if s.BookingHorizonDays < 0 {
		return httperr.ErrValidation("invalid_horizon", "可預約天數不可為負數")
	}
	if len(s.SlotTimes) == 0 {
		return httperr.ErrValidation("invalid_slot_times", "至少需要一個預約時段")
	}

	seen := make(map[string]bool, len(s.SlotTimes))
	times := make([]string, 0, len(s.SlotTimes))
	for _, hm := range s.SlotTimes {
		t, err := time.Parse(calendar.TimeLayout, hm)
		if err != nil {
			return httperr.ErrValidation("invalid_slot_times", "時段格式需為 HH:MM")
		}
		label := t.Format(calendar.TimeLayout)
		if !seen[label] {
			seen[label] = true
			times = append(times, label)
		}
	}
	sort.Strings(times)
	s.SlotTimes = times
	return nil
}
