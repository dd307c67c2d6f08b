package calendar

import (
	"sort"
	"time"
)

const (
	ReasonPast      = "past"
	ReasonHoliday   = "holiday"
	ReasonClosedDay = "closed_day"
	ReasonBooked    = "booked"
	ReasonTooSoon   = "too_soon"
)

type DayException struct {
	Date      string `json:"date"`
	Name      string `json:"name"`
	IsHoliday bool   `json:"is_holiday"`
}

// Feed is the merged exclusion data for a date range.
type Feed struct {
	BookedTimestamps []time.Time    `json:"booked_timestamps"`
	DayExceptions    []DayException `json:"day_exceptions"`
}

// MergeBooked unions appointment and blocked timestamps, sorted and without duplicates.
func MergeBooked(sources ...[]time.Time) []time.Time {
	seen := make(map[int64]struct{})
	out := make([]time.Time, 0)
	for _, src := range sources {
		for _, ts := range src {
			key := ts.UnixNano()
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			out = append(out, ts.UTC())
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out
}

// Calendar answers "is this day / slot selectable" for one Feed snapshot.
// It is read-only; the reservation itself is protected by the storage layer.
type Calendar struct {
	rules      Rules
	booked     map[int64]struct{}
	exceptions map[string]DayException
}

func NewCalendar(feed Feed, rules Rules) *Calendar {
	c := &Calendar{
		rules:      rules,
		booked:     make(map[int64]struct{}, len(feed.BookedTimestamps)),
		exceptions: make(map[string]DayException, len(feed.DayExceptions)),
	}
	for _, ts := range feed.BookedTimestamps {
		c.booked[ts.UnixNano()] = struct{}{}
	}
	for _, ex := range feed.DayExceptions {
		c.exceptions[ex.Date] = ex
	}
	return c
}

// DayStatus returns whether the day is disabled and why.
func (c *Calendar) DayStatus(day, now time.Time) (bool, string) {
	key := c.rules.DayKey(day)

	if key < c.rules.DayKey(now) {
		return true, ReasonPast
	}

	ex, hasException := c.exceptions[key]
	if hasException && ex.IsHoliday {
		return true, ReasonHoliday
	}

	weekday := day.In(c.rules.loc()).Weekday()
	if weekday == c.rules.ClosedWeekday && !(hasException && !ex.IsHoliday) {
		return true, ReasonClosedDay
	}

	return false, ""
}

func (c *Calendar) DayDisabled(day, now time.Time) bool {
	disabled, _ := c.DayStatus(day, now)
	return disabled
}

// SlotStatus applies the day check, the booked set and the same-day lead buffer.
func (c *Calendar) SlotStatus(ts, now time.Time) (bool, string) {
	if disabled, reason := c.DayStatus(ts, now); disabled {
		return true, reason
	}

	if _, ok := c.booked[ts.UnixNano()]; ok {
		return true, ReasonBooked
	}

	if c.rules.DayKey(ts) == c.rules.DayKey(now) && ts.Before(now.Add(c.rules.LeadTime)) {
		return true, ReasonTooSoon
	}

	return false, ""
}

func (c *Calendar) SlotDisabled(ts, now time.Time) bool {
	disabled, _ := c.SlotStatus(ts, now)
	return disabled
}

type SlotView struct {
	Start     string    `json:"start"`
	End       string    `json:"end"`
	Timestamp time.Time `json:"timestamp"`
	Disabled  bool      `json:"disabled"`
	Reason    string    `json:"reason,omitempty"`
}

// DaySlots renders every configured slot of the day.
func (c *Calendar) DaySlots(day, now time.Time) ([]SlotView, error) {
	slots := make([]SlotView, 0, len(c.rules.SlotTimes))
	for _, hm := range c.rules.SlotTimes {
		start, err := c.rules.SlotAt(day, hm)
		if err != nil {
			return nil, err
		}
		end := start.Add(c.rules.SlotDuration)

		disabled, reason := c.SlotStatus(start, now)
		slots = append(slots, SlotView{
			Start:     start.Format(TimeLayout),
			End:       end.Format(TimeLayout),
			Timestamp: start,
			Disabled:  disabled,
			Reason:    reason,
		})
	}
	return slots, nil
}
