package calendar

import (
	"context"
	"time"

	"github.com/BruksfildServices01/autoshop-scheduler/internal/cache"
	domain "github.com/BruksfildServices01/autoshop-scheduler/internal/domain/calendar"
	"github.com/BruksfildServices01/autoshop-scheduler/internal/httperr"
	"github.com/BruksfildServices01/autoshop-scheduler/internal/settings"
	"github.com/BruksfildServices01/autoshop-scheduler/internal/timezone"
)

// maxFeedDays bounds one availability request.
const maxFeedDays = 93

var (
	errInvalidDay   = httperr.ErrValidation("invalid_date", "日期格式需為 YYYY-MM-DD")
	errInvalidRange = httperr.ErrValidation("invalid_range", "日期區間不正確")
)

// ======================================================
// FEED
// ======================================================

type GetAvailabilityFeed struct {
	repo  domain.Repository
	loc   *time.Location
	cache *cache.FeedCache
}

// NewGetAvailabilityFeed accepts a nil cache.
func NewGetAvailabilityFeed(
	repo domain.Repository,
	loc *time.Location,
	feedCache *cache.FeedCache,
) *GetAvailabilityFeed {
	return &GetAvailabilityFeed{
		repo:  repo,
		loc:   loc,
		cache: feedCache,
	}
}

// Execute returns booked timestamps and day exceptions for the inclusive
// range [fromDay, toDay].
func (uc *GetAvailabilityFeed) Execute(
	ctx context.Context,
	fromDay string,
	toDay string,
) (*domain.Feed, error) {

	from, err := time.ParseInLocation(domain.DayLayout, fromDay, uc.loc)
	if err != nil {
		return nil, errInvalidDay
	}
	to, err := time.ParseInLocation(domain.DayLayout, toDay, uc.loc)
	if err != nil {
		return nil, errInvalidDay
	}
	if to.Before(from) || to.Sub(from) > maxFeedDays*24*time.Hour {
		return nil, errInvalidRange
	}

	var cacheKey string
	if uc.cache != nil {
		feed, key, ok := uc.cache.Load(ctx, fromDay, toDay)
		if ok {
			return feed, nil
		}
		cacheKey = key
	}

	start := from
	end := to.AddDate(0, 0, 1)

	booked, err := uc.repo.ListActiveAppointmentDates(ctx, start, end)
	if err != nil {
		return nil, err
	}
	blocked, err := uc.repo.ListBlockedSlotDates(ctx, start, end)
	if err != nil {
		return nil, err
	}
	holidays, err := uc.repo.ListHolidays(ctx, fromDay, toDay)
	if err != nil {
		return nil, err
	}

	feed := &domain.Feed{
		BookedTimestamps: domain.MergeBooked(booked, blocked),
		DayExceptions:    make([]domain.DayException, 0, len(holidays)),
	}
	for _, h := range holidays {
		feed.DayExceptions = append(feed.DayExceptions, domain.DayException{
			Date:      h.Date,
			Name:      h.Name,
			IsHoliday: h.IsHoliday,
		})
	}

	if uc.cache != nil {
		uc.cache.Save(ctx, cacheKey, feed)
	}
	return feed, nil
}

// ======================================================
// DAY SLOTS
// ======================================================

type DayView struct {
	Date     string            `json:"date"`
	Disabled bool              `json:"disabled"`
	Reason   string            `json:"reason,omitempty"`
	Slots    []domain.SlotView `json:"slots"`
}

type GetDaySlots struct {
	feed     *GetAvailabilityFeed
	settings settings.Provider
	loc      *time.Location
	now      func() time.Time
}

func NewGetDaySlots(
	feed *GetAvailabilityFeed,
	settings settings.Provider,
	loc *time.Location,
) *GetDaySlots {
	return &GetDaySlots{
		feed:     feed,
		settings: settings,
		loc:      loc,
		now:      timezone.Clock(loc),
	}
}

func (uc *GetDaySlots) WithClock(now func() time.Time) *GetDaySlots {
	uc.now = now
	return uc
}

func (uc *GetDaySlots) Execute(
	ctx context.Context,
	day string,
) (*DayView, error) {

	feed, err := uc.feed.Execute(ctx, day, day)
	if err != nil {
		return nil, err
	}

	s, err := uc.settings.Get(ctx)
	if err != nil {
		return nil, err
	}
	rules := s.Rules(uc.loc)

	d, err := rules.ParseDay(day)
	if err != nil {
		return nil, errInvalidDay
	}

	now := uc.now()
	cal := domain.NewCalendar(*feed, rules)

	slots, err := cal.DaySlots(d, now)
	if err != nil {
		return nil, err
	}

	disabled, reason := cal.DayStatus(d, now)
	return &DayView{
		Date:     day,
		Disabled: disabled,
		Reason:   reason,
		Slots:    slots,
	}, nil
}
