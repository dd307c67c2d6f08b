package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/autoshop-scheduler/internal/holidaysync"
	"github.com/BruksfildServices01/autoshop-scheduler/internal/httperr"
	"github.com/BruksfildServices01/autoshop-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/autoshop-scheduler/internal/models"
	ucCalendar "github.com/BruksfildServices01/autoshop-scheduler/internal/usecase/calendar"
)

// HolidaySyncer is implemented by holidaysync.Scheduler.
type HolidaySyncer interface {
	TriggerSync(ctx context.Context, actorID *uint) (*holidaysync.Result, error)
}

// ======================================================
// HANDLER
// ======================================================

type CalendarHandler struct {
	blockUC        *ucCalendar.BlockSlot
	unblockUC      *ucCalendar.UnblockSlot
	listBlockedUC  *ucCalendar.ListBlockedSlots
	upsertUC       *ucCalendar.UpsertHolidays
	deleteUC       *ucCalendar.DeleteHoliday
	listHolidaysUC *ucCalendar.ListHolidays
	syncer         HolidaySyncer
	loc            *time.Location
}

func NewCalendarHandler(
	blockUC *ucCalendar.BlockSlot,
	unblockUC *ucCalendar.UnblockSlot,
	listBlockedUC *ucCalendar.ListBlockedSlots,
	upsertUC *ucCalendar.UpsertHolidays,
	deleteUC *ucCalendar.DeleteHoliday,
	listHolidaysUC *ucCalendar.ListHolidays,
	syncer HolidaySyncer,
	loc *time.Location,
) *CalendarHandler {
	return &CalendarHandler{
		blockUC:        blockUC,
		unblockUC:      unblockUC,
		listBlockedUC:  listBlockedUC,
		upsertUC:       upsertUC,
		deleteUC:       deleteUC,
		listHolidaysUC: listHolidaysUC,
		syncer:         syncer,
		loc:            loc,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type BlockSlotRequest struct {
	Date   string `json:"date" binding:"required"`
	Reason string `json:"reason" binding:"max=255"`
}

type UpsertHolidaysRequest struct {
	Holidays []ucCalendar.HolidayInput `json:"holidays" binding:"required,min=1,dive"`
}

// ======================================================
// BLOCKED SLOTS
// ======================================================

func (h *CalendarHandler) ListBlockedSlots(c *gin.Context) {
	from, to, ok := rangeQuery(c)
	if !ok {
		return
	}

	slots, err := h.listBlockedUC.Execute(c.Request.Context(), from, to)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.List(c, slots)
}

func (h *CalendarHandler) BlockSlot(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req BlockSlotRequest
	if !bindJSON(c, &req) {
		return
	}

	date, err := parseInstant(h.loc, req.Date)
	if err != nil {
		httperr.BadRequest(c, "invalid_date_or_time", "時段格式錯誤")
		return
	}

	slot, err := h.blockUC.Execute(c.Request.Context(), ucCalendar.BlockSlotInput{
		Date:    date,
		Reason:  req.Reason,
		ActorID: userID,
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusCreated, slot)
}

func (h *CalendarHandler) UnblockSlot(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := h.unblockUC.Execute(c.Request.Context(), id, userID); err != nil {
		httperr.Respond(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// ======================================================
// HOLIDAYS
// ======================================================

func (h *CalendarHandler) ListHolidays(c *gin.Context) {
	from, to, ok := rangeQuery(c)
	if !ok {
		return
	}

	holidays, err := h.listHolidaysUC.Execute(c.Request.Context(), from, to)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.List(c, holidays)
}

func (h *CalendarHandler) UpsertHolidays(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req UpsertHolidaysRequest
	if !bindJSON(c, &req) {
		return
	}

	n, err := h.upsertUC.Execute(
		c.Request.Context(),
		req.Holidays,
		models.HolidaySourceManual,
		&userID,
	)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"upserted": n})
}

func (h *CalendarHandler) DeleteHoliday(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := h.deleteUC.Execute(c.Request.Context(), id, userID); err != nil {
		httperr.Respond(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// SyncHolidays runs the feed import now and reports its counts.
func (h *CalendarHandler) SyncHolidays(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	if h.syncer == nil {
		httperr.Write(c, http.StatusServiceUnavailable, "holiday_sync_disabled", "未設定假日資料來源")
		return
	}

	result, err := h.syncer.TriggerSync(c.Request.Context(), &userID)
	if errors.Is(err, holidaysync.ErrNoFeedURL) {
		httperr.Write(c, http.StatusServiceUnavailable, "holiday_sync_disabled", "未設定假日資料來源")
		return
	}
	if err != nil {
		if result != nil {
			c.JSON(http.StatusBadGateway, result)
			return
		}
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func rangeQuery(c *gin.Context) (string, string, bool) {
	from := c.Query("from")
	to := c.Query("to")
	if from == "" || to == "" {
		httperr.BadRequest(c, "missing_params", "請指定查詢的起訖日期")
		return "", "", false
	}
	return from, to, true
}
