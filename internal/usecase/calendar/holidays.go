package calendar

import (
	"context"
	"strings"
	"time"

	"github.com/BruksfildServices01/autoshop-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/autoshop-scheduler/internal/domain/calendar"
	"github.com/BruksfildServices01/autoshop-scheduler/internal/models"
)

type HolidayInput struct {
	Date      string `json:"date" binding:"required"`
	Name      string `json:"name"`
	IsHoliday bool   `json:"is_holiday"`
}

// ======================================================
// UPSERT
// ======================================================

type UpsertHolidays struct {
	repo   domain.Repository
	notify domain.Notifier
	audit  *audit.Dispatcher
}

func NewUpsertHolidays(
	repo domain.Repository,
	notify domain.Notifier,
	audit *audit.Dispatcher,
) *UpsertHolidays {
	if notify == nil {
		notify = domain.Notifiers{}
	}
	return &UpsertHolidays{
		repo:   repo,
		notify: notify,
		audit:  audit,
	}
}

// Execute writes the entries keyed by date; an existing row for the same day
// is overwritten, and within one batch the last entry for a day wins.
// actorID is nil for the scheduled feed sync.
func (uc *UpsertHolidays) Execute(
	ctx context.Context,
	in []HolidayInput,
	source string,
	actorID *uint,
) (int64, error) {

	rows := make([]models.Holiday, 0, len(in))
	index := make(map[string]int, len(in))
	for _, h := range in {
		day := strings.TrimSpace(h.Date)
		if _, err := time.Parse(domain.DayLayout, day); err != nil {
			return 0, errInvalidDay
		}
		row := models.Holiday{
			Date:      day,
			Name:      strings.TrimSpace(h.Name),
			IsHoliday: h.IsHoliday,
			Source:    source,
		}
		// ON CONFLICT cannot touch the same row twice in one statement
		if i, ok := index[day]; ok {
			rows[i] = row
			continue
		}
		index[day] = len(rows)
		rows = append(rows, row)
	}
	if len(rows) == 0 {
		return 0, nil
	}

	n, err := uc.repo.UpsertHolidays(ctx, rows)
	if err != nil {
		return 0, err
	}

	uc.notify.CalendarChanged(ctx, domain.Change{Kind: domain.ChangeHolidays})

	uc.audit.Dispatch(ctx, audit.Event{
		UserID: actorID,
		Action: "holidays_upserted",
		Entity: "holiday",
		Metadata: map[string]any{
			"source":   source,
			"received": len(in),
			"distinct": len(rows),
			"upserted": n,
		},
	})

	return n, nil
}

// ======================================================
// DELETE
// ======================================================

type DeleteHoliday struct {
	repo   domain.Repository
	notify domain.Notifier
	audit  *audit.Dispatcher
}

func NewDeleteHoliday(
	repo domain.Repository,
	notify domain.Notifier,
	audit *audit.Dispatcher,
) *DeleteHoliday {
	if notify == nil {
		notify = domain.Notifiers{}
	}
	return &DeleteHoliday{
		repo:   repo,
		notify: notify,
		audit:  audit,
	}
}

func (uc *DeleteHoliday) Execute(
	ctx context.Context,
	id uint,
	actorID uint,
) error {

	h, err := uc.repo.DeleteHoliday(ctx, id)
	if err != nil {
		return err
	}

	uc.notify.CalendarChanged(ctx, domain.Change{Kind: domain.ChangeHolidays})

	uc.audit.Dispatch(ctx, audit.Event{
		UserID:   &actorID,
		Action:   "holiday_deleted",
		Entity:   "holiday",
		EntityID: &h.ID,
		Metadata: map[string]any{"date": h.Date, "name": h.Name},
	})
	return nil
}

// ======================================================
// LIST
// ======================================================

type ListHolidays struct {
	repo domain.Repository
}

func NewListHolidays(repo domain.Repository) *ListHolidays {
	return &ListHolidays{repo: repo}
}

func (uc *ListHolidays) Execute(
	ctx context.Context,
	fromDay string,
	toDay string,
) ([]models.Holiday, error) {

	if _, err := time.Parse(domain.DayLayout, fromDay); err != nil {
		return nil, errInvalidDay
	}
	if _, err := time.Parse(domain.DayLayout, toDay); err != nil {
		return nil, errInvalidDay
	}
	if toDay < fromDay {
		return nil, errInvalidRange
	}

	return uc.repo.ListHolidays(ctx, fromDay, toDay)
}
