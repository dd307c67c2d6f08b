package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/autoshop-scheduler/internal/httperr"
	"github.com/BruksfildServices01/autoshop-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/autoshop-scheduler/internal/middleware"
	ucAppointment "github.com/BruksfildServices01/autoshop-scheduler/internal/usecase/appointment"
)

// ======================================================
// HANDLER
// ======================================================

type AppointmentHandler struct {
	createUC      *ucAppointment.CreateAppointment
	transitionUC  *ucAppointment.TransitionAppointment
	listByDateUC  *ucAppointment.ListAppointmentsByDate
	listByMonthUC *ucAppointment.ListAppointmentsByMonth
	listMineUC    *ucAppointment.ListMyAppointments
	loc           *time.Location
}

func NewAppointmentHandler(
	createUC *ucAppointment.CreateAppointment,
	transitionUC *ucAppointment.TransitionAppointment,
	listByDateUC *ucAppointment.ListAppointmentsByDate,
	listByMonthUC *ucAppointment.ListAppointmentsByMonth,
	listMineUC *ucAppointment.ListMyAppointments,
	loc *time.Location,
) *AppointmentHandler {
	return &AppointmentHandler{
		createUC:      createUC,
		transitionUC:  transitionUC,
		listByDateUC:  listByDateUC,
		listByMonthUC: listByMonthUC,
		listMineUC:    listMineUC,
		loc:           loc,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type CreateAppointmentRequest struct {
	// RFC 3339, or "2006-01-02 15:04" in shop time
	Date         string `json:"date" binding:"required"`
	CarModel     string `json:"car_model" binding:"required,max=100"`
	LicensePlate string `json:"license_plate" binding:"required,twplate"`
	PhoneNumber  string `json:"phone_number" binding:"required,twphone"`
	CustomerName string `json:"customer_name" binding:"max=100"`
	ServiceID    *uint  `json:"service_id"`
}

type UpdateStatusRequest struct {
	Status         string `json:"status" binding:"required"`
	ActualDuration *int   `json:"actual_duration"`
}

// ======================================================
// CREATE
// ======================================================

func (h *AppointmentHandler) Create(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req CreateAppointmentRequest
	if !bindJSON(c, &req) {
		return
	}

	date, err := parseInstant(h.loc, req.Date)
	if err != nil {
		httperr.BadRequest(c, "invalid_date_or_time", "預約時間格式錯誤")
		return
	}

	ap, err := h.createUC.Execute(
		c.Request.Context(),
		ucAppointment.CreateAppointmentInput{
			UserID:       userID,
			Date:         date,
			CarModel:     req.CarModel,
			LicensePlate: req.LicensePlate,
			PhoneNumber:  req.PhoneNumber,
			CustomerName: req.CustomerName,
			ServiceID:    req.ServiceID,
		},
	)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusCreated, ap)
}

// ======================================================
// LIST
// ======================================================

func (h *AppointmentHandler) ListMine(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	list, err := h.listMineUC.Execute(c.Request.Context(), userID)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.List(c, list)
}

func (h *AppointmentHandler) ListByDate(c *gin.Context) {
	dateStr := c.Query("date")
	if dateStr == "" {
		httperr.BadRequest(c, "missing_date", "請指定日期")
		return
	}

	date, err := parseDateIn(h.loc, dateStr)
	if err != nil {
		httperr.BadRequest(c, "invalid_date", "日期格式需為 YYYY-MM-DD")
		return
	}

	list, err := h.listByDateUC.Execute(c.Request.Context(), date)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.List(c, list)
}

func (h *AppointmentHandler) ListByMonth(c *gin.Context) {
	yearStr := c.Query("year")
	monthStr := c.Query("month")

	if yearStr == "" || monthStr == "" {
		httperr.BadRequest(c, "missing_year_or_month", "請指定年份與月份")
		return
	}

	year, err := strconv.Atoi(yearStr)
	if err != nil || year < 2000 || year > 2100 {
		httperr.BadRequest(c, "invalid_year", "年份格式錯誤")
		return
	}

	month, err := strconv.Atoi(monthStr)
	if err != nil || month < 1 || month > 12 {
		httperr.BadRequest(c, "invalid_month", "月份格式錯誤")
		return
	}

	list, err := h.listByMonthUC.Execute(c.Request.Context(), year, month)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"year":         year,
		"month":        month,
		"appointments": list,
	})
}

// ======================================================
// STATUS
// ======================================================

// Cancel lets a customer cancel their own booking.
func (h *AppointmentHandler) Cancel(c *gin.Context) {
	h.transition(c, UpdateStatusRequest{Status: "CANCELLED"})
}

// UpdateStatus is the staff endpoint for any legal transition.
func (h *AppointmentHandler) UpdateStatus(c *gin.Context) {
	var req UpdateStatusRequest
	if !bindJSON(c, &req) {
		return
	}
	h.transition(c, req)
}

func (h *AppointmentHandler) transition(c *gin.Context, req UpdateStatusRequest) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	ap, err := h.transitionUC.Execute(
		c.Request.Context(),
		ucAppointment.TransitionInput{
			AppointmentID:  id,
			Status:         req.Status,
			ActualDuration: req.ActualDuration,
			ActorID:        userID,
			ActorIsStaff:   middleware.IsStaff(c),
		},
	)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, ap)
}
