package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/autoshop-scheduler/internal/httperr"
	ucCalendar "github.com/BruksfildServices01/autoshop-scheduler/internal/usecase/calendar"
)

////////////////////////////////////////////////////////
// HANDLER
////////////////////////////////////////////////////////

type PublicHandler struct {
	feedUC *ucCalendar.GetAvailabilityFeed
	dayUC  *ucCalendar.GetDaySlots
}

func NewPublicHandler(
	feedUC *ucCalendar.GetAvailabilityFeed,
	dayUC *ucCalendar.GetDaySlots,
) *PublicHandler {
	return &PublicHandler{
		feedUC: feedUC,
		dayUC:  dayUC,
	}
}

////////////////////////////////////////////////////////
// AVAILABILITY FEED
////////////////////////////////////////////////////////

// Availability returns booked timestamps and day exceptions; the client
// derives disabled days and slots from them.
func (h *PublicHandler) Availability(c *gin.Context) {
	start := c.Query("start")
	end := c.Query("end")

	if start == "" || end == "" {
		httperr.BadRequest(c, "missing_params", "請指定查詢的起訖日期")
		return
	}

	feed, err := h.feedUC.Execute(c.Request.Context(), start, end)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, feed)
}

////////////////////////////////////////////////////////
// DAY SLOTS
////////////////////////////////////////////////////////

func (h *PublicHandler) DaySlots(c *gin.Context) {
	date := c.Query("date")
	if date == "" {
		httperr.BadRequest(c, "missing_date", "請指定日期")
		return
	}

	view, err := h.dayUC.Execute(c.Request.Context(), date)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}
