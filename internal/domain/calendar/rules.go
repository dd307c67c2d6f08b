package calendar

import (
	"fmt"
	"time"
)

const (
	DayLayout  = "2006-01-02"
	TimeLayout = "15:04"
)

// Rules are the shop-wide scheduling parameters the calendar decisions depend on.
type Rules struct {
	Location      *time.Location
	ClosedWeekday time.Weekday
	LeadTime      time.Duration
	SlotTimes     []string
	SlotDuration  time.Duration
	HorizonDays   int
}

func (r Rules) loc() *time.Location {
	if r.Location == nil {
		return time.UTC
	}
	return r.Location
}

// DayKey formats t as the shop-local calendar day.
func (r Rules) DayKey(t time.Time) string {
	return t.In(r.loc()).Format(DayLayout)
}

func (r Rules) ParseDay(day string) (time.Time, error) {
	return time.ParseInLocation(DayLayout, day, r.loc())
}

// SlotAt builds the slot start for a "15:04" label on the given day.
func (r Rules) SlotAt(day time.Time, hm string) (time.Time, error) {
	t, err := time.Parse(TimeLayout, hm)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid slot time %q: %w", hm, err)
	}
	d := day.In(r.loc())
	return time.Date(
		d.Year(), d.Month(), d.Day(),
		t.Hour(), t.Minute(), 0, 0,
		r.loc(),
	), nil
}

// IsSlotStart reports whether ts falls exactly on a configured slot start.
func (r Rules) IsSlotStart(ts time.Time) bool {
	local := ts.In(r.loc())
	if local.Second() != 0 || local.Nanosecond() != 0 {
		return false
	}
	label := local.Format(TimeLayout)
	for _, hm := range r.SlotTimes {
		if hm == label {
			return true
		}
	}
	return false
}

// BeyondHorizon reports whether ts is further out than the booking horizon.
func (r Rules) BeyondHorizon(ts, now time.Time) bool {
	if r.HorizonDays <= 0 {
		return false
	}
	today, _ := r.ParseDay(r.DayKey(now))
	limit := today.AddDate(0, 0, r.HorizonDays+1)
	return !ts.Before(limit)
}
