package holidaysync

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/BruksfildServices01/autoshop-scheduler/internal/audit"
	"github.com/BruksfildServices01/autoshop-scheduler/internal/metrics"
	"github.com/BruksfildServices01/autoshop-scheduler/internal/models"
	"github.com/BruksfildServices01/autoshop-scheduler/internal/realtime"
	"github.com/BruksfildServices01/autoshop-scheduler/internal/settings"
	calendaruc "github.com/BruksfildServices01/autoshop-scheduler/internal/usecase/calendar"
)

var ErrNoFeedURL = errors.New("holiday feed url not configured")

type Result struct {
	Received int       `json:"received"`
	Kept     int       `json:"kept"`
	Upserted int64     `json:"upserted"`
	SyncedAt time.Time `json:"synced_at"`
	Error    string    `json:"error,omitempty"`
}

type fetcher interface {
	FetchAndParse(ctx context.Context, url string) ([]Entry, error)
}

// SyncService pulls the holiday feed and upserts it.
type SyncService struct {
	url         string
	parser      fetcher
	upsert      *calendaruc.UpsertHolidays
	settings    settings.Provider
	audit       *audit.Dispatcher
	metrics     *metrics.Metrics
	broadcaster *realtime.Broadcaster
}

func NewSyncService(
	url string,
	upsert *calendaruc.UpsertHolidays,
	settings settings.Provider,
	audit *audit.Dispatcher,
	m *metrics.Metrics,
	broadcaster *realtime.Broadcaster,
) *SyncService {
	return &SyncService{
		url:         url,
		parser:      NewParser(),
		upsert:      upsert,
		settings:    settings,
		audit:       audit,
		metrics:     m,
		broadcaster: broadcaster,
	}
}

// Sync runs one import. actorID is nil when called by the scheduler.
func (s *SyncService) Sync(ctx context.Context, actorID *uint) (*Result, error) {
	result := &Result{SyncedAt: time.Now().UTC()}

	err := s.run(ctx, actorID, result)
	if err != nil {
		result.Error = err.Error()
		s.metrics.HolidaySync("error", 0)
		log.Printf("holiday sync failed: %v", err)
	} else {
		s.metrics.HolidaySync("success", result.Upserted)
		log.Printf(
			"holiday sync: received=%d kept=%d upserted=%d",
			result.Received, result.Kept, result.Upserted,
		)
	}

	s.audit.Dispatch(ctx, audit.Event{
		UserID:   actorID,
		Action:   "holiday_sync",
		Entity:   "holiday",
		Metadata: result,
	})

	if s.broadcaster != nil {
		s.broadcaster.HolidaySyncFinished(realtime.HolidaySyncPayload{
			Received: result.Received,
			Kept:     result.Kept,
			Upserted: result.Upserted,
			Error:    result.Error,
		})
	}

	return result, err
}

func (s *SyncService) run(ctx context.Context, actorID *uint, result *Result) error {
	if s.url == "" {
		return ErrNoFeedURL
	}

	entries, err := s.parser.FetchAndParse(ctx, s.url)
	if err != nil {
		return err
	}
	result.Received = len(entries)

	cfg, err := s.settings.Get(ctx)
	if err != nil {
		return fmt.Errorf("loading settings: %w", err)
	}

	kept := Filter(entries, time.Weekday(cfg.ClosedWeekday))
	result.Kept = len(kept)

	in := make([]calendaruc.HolidayInput, 0, len(kept))
	for _, e := range kept {
		in = append(in, calendaruc.HolidayInput{
			Date:      e.Date,
			Name:      e.Name,
			IsHoliday: e.IsHoliday,
		})
	}

	n, err := s.upsert.Execute(ctx, in, models.HolidaySourceFeed, actorID)
	if err != nil {
		return fmt.Errorf("upserting holidays: %w", err)
	}
	result.Upserted = n
	return nil
}
