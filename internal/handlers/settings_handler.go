package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/autoshop-scheduler/internal/audit"
	"github.com/BruksfildServices01/autoshop-scheduler/internal/domain/calendar"
	"github.com/BruksfildServices01/autoshop-scheduler/internal/httperr"
	"github.com/BruksfildServices01/autoshop-scheduler/internal/settings"
)

// SettingsProvider is implemented by settings.CachedProvider.
type SettingsProvider interface {
	settings.Provider
	settings.Updater
}

type SettingsHandler struct {
	settings SettingsProvider
	notify   calendar.Notifier
	audit    *audit.Dispatcher
}

func NewSettingsHandler(
	provider SettingsProvider,
	notify calendar.Notifier,
	audit *audit.Dispatcher,
) *SettingsHandler {
	if notify == nil {
		notify = calendar.Notifiers{}
	}
	return &SettingsHandler{
		settings: provider,
		notify:   notify,
		audit:    audit,
	}
}

type UpdateSettingsRequest struct {
	ClosedWeekday      *int     `json:"closed_weekday" binding:"required,min=0,max=6"`
	LeadTimeMinutes    *int     `json:"lead_time_minutes" binding:"required,min=0"`
	SlotDurationMin    *int     `json:"slot_duration_min" binding:"required,min=1"`
	BookingHorizonDays *int     `json:"booking_horizon_days" binding:"required,min=0"`
	SlotTimes          []string `json:"slot_times" binding:"required,min=1"`
}

func (h *SettingsHandler) Get(c *gin.Context) {
	s, err := h.settings.Get(c.Request.Context())
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, s)
}

func (h *SettingsHandler) Update(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req UpdateSettingsRequest
	if !bindJSON(c, &req) {
		return
	}

	ctx := c.Request.Context()

	s, err := h.settings.Update(ctx, settings.Settings{
		ClosedWeekday:      *req.ClosedWeekday,
		LeadTimeMinutes:    *req.LeadTimeMinutes,
		SlotDurationMin:    *req.SlotDurationMin,
		BookingHorizonDays: *req.BookingHorizonDays,
		SlotTimes:          req.SlotTimes,
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	h.notify.CalendarChanged(ctx, calendar.Change{Kind: calendar.ChangeSettings})

	h.audit.Dispatch(ctx, audit.Event{
		UserID:   &userID,
		Action:   "settings_updated",
		Entity:   "shop_settings",
		Metadata: s,
	})

	c.JSON(http.StatusOK, s)
}
