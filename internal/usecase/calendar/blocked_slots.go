package calendar

import (
	"context"
	"strings"
	"time"

	"github.com/BruksfildServices01/autoshop-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/autoshop-scheduler/internal/domain/calendar"
	"github.com/BruksfildServices01/autoshop-scheduler/internal/httperr"
	"github.com/BruksfildServices01/autoshop-scheduler/internal/models"
	"github.com/BruksfildServices01/autoshop-scheduler/internal/settings"
)

var errInvalidSlot = httperr.ErrValidation("invalid_slot", "只能封鎖營業時段的開始時間")

// ======================================================
// BLOCK
// ======================================================

type BlockSlotInput struct {
	Date    time.Time
	Reason  string
	ActorID uint
}

type BlockSlot struct {
	repo     domain.Repository
	settings settings.Provider
	loc      *time.Location
	notify   domain.Notifier
	audit    *audit.Dispatcher
}

func NewBlockSlot(
	repo domain.Repository,
	settings settings.Provider,
	loc *time.Location,
	notify domain.Notifier,
	audit *audit.Dispatcher,
) *BlockSlot {
	if notify == nil {
		notify = domain.Notifiers{}
	}
	return &BlockSlot{
		repo:     repo,
		settings: settings,
		loc:      loc,
		notify:   notify,
		audit:    audit,
	}
}

// Execute blocks one slot. An existing appointment at that time is left alone;
// the block only stops new bookings.
func (uc *BlockSlot) Execute(
	ctx context.Context,
	in BlockSlotInput,
) (*models.BlockedSlot, error) {

	s, err := uc.settings.Get(ctx)
	if err != nil {
		return nil, err
	}
	if !s.Rules(uc.loc).IsSlotStart(in.Date) {
		return nil, errInvalidSlot
	}

	slot := &models.BlockedSlot{
		Date: in.Date.UTC(),
	}
	if reason := strings.TrimSpace(in.Reason); reason != "" {
		slot.Reason = &reason
	}
	if in.ActorID != 0 {
		actor := in.ActorID
		slot.CreatedBy = &actor
	}

	if err := uc.repo.CreateBlockedSlot(ctx, slot); err != nil {
		return nil, err
	}

	date := slot.Date
	uc.notify.CalendarChanged(ctx, domain.Change{
		Kind: domain.ChangeSlotBlocked,
		Date: &date,
	})

	uc.audit.Dispatch(ctx, audit.Event{
		UserID:   slot.CreatedBy,
		Action:   "slot_blocked",
		Entity:   "blocked_slot",
		EntityID: &slot.ID,
		Metadata: map[string]any{
			"date":   slot.Date,
			"reason": in.Reason,
		},
	})

	return slot, nil
}

// ======================================================
// UNBLOCK
// ======================================================

type UnblockSlot struct {
	repo   domain.Repository
	notify domain.Notifier
	audit  *audit.Dispatcher
}

func NewUnblockSlot(
	repo domain.Repository,
	notify domain.Notifier,
	audit *audit.Dispatcher,
) *UnblockSlot {
	if notify == nil {
		notify = domain.Notifiers{}
	}
	return &UnblockSlot{
		repo:   repo,
		notify: notify,
		audit:  audit,
	}
}

func (uc *UnblockSlot) Execute(
	ctx context.Context,
	id uint,
	actorID uint,
) error {

	slot, err := uc.repo.DeleteBlockedSlot(ctx, id)
	if err != nil {
		return err
	}

	date := slot.Date
	uc.notify.CalendarChanged(ctx, domain.Change{
		Kind: domain.ChangeSlotUnblocked,
		Date: &date,
	})

	uc.audit.Dispatch(ctx, audit.Event{
		UserID:   &actorID,
		Action:   "slot_unblocked",
		Entity:   "blocked_slot",
		EntityID: &slot.ID,
		Metadata: map[string]any{"date": slot.Date},
	})
	return nil
}

// ======================================================
// LIST
// ======================================================

type ListBlockedSlots struct {
	repo domain.Repository
	loc  *time.Location
}

func NewListBlockedSlots(
	repo domain.Repository,
	loc *time.Location,
) *ListBlockedSlots {
	return &ListBlockedSlots{repo: repo, loc: loc}
}

func (uc *ListBlockedSlots) Execute(
	ctx context.Context,
	fromDay string,
	toDay string,
) ([]models.BlockedSlot, error) {

	from, err := time.ParseInLocation(domain.DayLayout, fromDay, uc.loc)
	if err != nil {
		return nil, errInvalidDay
	}
	to, err := time.ParseInLocation(domain.DayLayout, toDay, uc.loc)
	if err != nil {
		return nil, errInvalidDay
	}
	if to.Before(from) {
		return nil, errInvalidRange
	}

	return uc.repo.ListBlockedSlots(ctx, from, to.AddDate(0, 0, 1))
}
