package routes

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/autoshop-scheduler/internal/audit"
	"github.com/BruksfildServices01/autoshop-scheduler/internal/cache"
	"github.com/BruksfildServices01/autoshop-scheduler/internal/config"
	"github.com/BruksfildServices01/autoshop-scheduler/internal/domain/calendar"
	"github.com/BruksfildServices01/autoshop-scheduler/internal/handlers"
	infraRepo "github.com/BruksfildServices01/autoshop-scheduler/internal/infra/repository"
	"github.com/BruksfildServices01/autoshop-scheduler/internal/metrics"
	"github.com/BruksfildServices01/autoshop-scheduler/internal/middleware"
	"github.com/BruksfildServices01/autoshop-scheduler/internal/realtime"
	ucAppointment "github.com/BruksfildServices01/autoshop-scheduler/internal/usecase/appointment"
	ucCalendar "github.com/BruksfildServices01/autoshop-scheduler/internal/usecase/calendar"
)

// Infra is the long-lived wiring built in main.
type Infra struct {
	DB       *gorm.DB
	Config   *config.Config
	Location *time.Location

	Settings  handlers.SettingsProvider
	FeedCache *cache.FeedCache
	Notifier  calendar.Notifier

	Audit    *audit.Dispatcher
	Metrics  *metrics.Metrics
	Gatherer prometheus.Gatherer

	Hub    *realtime.Hub
	Syncer handlers.HolidaySyncer
}

func RegisterRoutes(r *gin.Engine, in Infra) {

	// ======================================================
	// GLOBAL MIDDLEWARE
	// ======================================================
	r.Use(middleware.RequestID())
	r.Use(middleware.CORSMiddleware(in.Config.CORSOrigins))

	// ======================================================
	// INFRA (SINGLETONS)
	// ======================================================
	appointmentRepo := infraRepo.NewAppointmentGormRepository(in.DB)
	calendarRepo := infraRepo.NewCalendarGormRepository(in.DB)
	loc := in.Location

	// ======================================================
	// USE CASES / APPOINTMENTS
	// ======================================================
	createAppointmentUC := ucAppointment.NewCreateAppointment(
		appointmentRepo,
		in.Settings,
		loc,
		in.Notifier,
		in.Audit,
		in.Metrics,
	)

	transitionAppointmentUC := ucAppointment.NewTransitionAppointment(
		appointmentRepo,
		loc,
		in.Notifier,
		in.Audit,
		in.Metrics,
	)

	listAppointmentsByDateUC := ucAppointment.NewListAppointmentsByDate(appointmentRepo, in.Settings, loc)
	listAppointmentsByMonthUC := ucAppointment.NewListAppointmentsByMonth(appointmentRepo, in.Settings, loc)
	listMyAppointmentsUC := ucAppointment.NewListMyAppointments(appointmentRepo, in.Settings, loc)

	// ======================================================
	// USE CASES / CALENDAR
	// ======================================================
	feedUC := ucCalendar.NewGetAvailabilityFeed(calendarRepo, loc, in.FeedCache)
	daySlotsUC := ucCalendar.NewGetDaySlots(feedUC, in.Settings, loc)

	blockSlotUC := ucCalendar.NewBlockSlot(calendarRepo, in.Settings, loc, in.Notifier, in.Audit)
	unblockSlotUC := ucCalendar.NewUnblockSlot(calendarRepo, in.Notifier, in.Audit)
	listBlockedUC := ucCalendar.NewListBlockedSlots(calendarRepo, loc)

	upsertHolidaysUC := ucCalendar.NewUpsertHolidays(calendarRepo, in.Notifier, in.Audit)
	deleteHolidayUC := ucCalendar.NewDeleteHoliday(calendarRepo, in.Notifier, in.Audit)
	listHolidaysUC := ucCalendar.NewListHolidays(calendarRepo)

	// ======================================================
	// HANDLERS
	// ======================================================
	authHandler := handlers.NewAuthHandler(in.DB, in.Config)
	meHandler := handlers.NewMeHandler(in.DB)

	serviceHandler := handlers.NewServiceHandler(in.DB, in.Audit)
	customerHandler := handlers.NewCustomerHandler(in.DB, in.Audit)
	settingsHandler := handlers.NewSettingsHandler(in.Settings, in.Notifier, in.Audit)

	appointmentHandler := handlers.NewAppointmentHandler(
		createAppointmentUC,
		transitionAppointmentUC,
		listAppointmentsByDateUC,
		listAppointmentsByMonthUC,
		listMyAppointmentsUC,
		loc,
	)

	calendarHandler := handlers.NewCalendarHandler(
		blockSlotUC,
		unblockSlotUC,
		listBlockedUC,
		upsertHolidaysUC,
		deleteHolidayUC,
		listHolidaysUC,
		in.Syncer,
		loc,
	)

	auditLogsHandler := handlers.NewAuditLogsHandler(in.DB, loc)
	publicHandler := handlers.NewPublicHandler(feedUC, daySlotsUC)

	// ======================================================
	// OPS
	// ======================================================
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	if in.Gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(in.Gatherer, promhttp.HandlerOpts{})))
	}

	if in.Hub != nil {
		realtimeHandler := handlers.NewRealtimeHandler(in.Hub, in.Config.CORSOrigins)
		r.GET("/ws/calendar", realtimeHandler.Calendar)
	}

	// ======================================================
	// API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		// ------------------------------
		// PUBLIC
		// ------------------------------
		publicAPI := api.Group("/public")
		{
			publicAPI.GET("/services", serviceHandler.ListActive)
			publicAPI.GET("/availability", publicHandler.Availability)
			publicAPI.GET("/availability/day", publicHandler.DaySlots)
		}

		// ------------------------------
		// AUTH
		// ------------------------------
		api.POST("/auth/register", authHandler.Register)
		api.POST("/auth/login", authHandler.Login)

		// ------------------------------
		// CUSTOMER
		// ------------------------------
		secured := api.Group("/")
		secured.Use(middleware.AuthMiddleware(in.Config))
		{
			secured.GET("/me", meHandler.GetMe)
			secured.GET("/me/appointments", appointmentHandler.ListMine)

			secured.POST("/appointments", appointmentHandler.Create)
			secured.PATCH("/appointments/:id/cancel", appointmentHandler.Cancel)
		}

		// ------------------------------
		// STAFF
		// ------------------------------
		admin := api.Group("/admin")
		admin.Use(middleware.AuthMiddleware(in.Config), middleware.RequireStaff())
		{
			admin.GET("/appointments", appointmentHandler.ListByDate)
			admin.GET("/appointments/month", appointmentHandler.ListByMonth)
			admin.PATCH("/appointments/:id/status", appointmentHandler.UpdateStatus)

			admin.GET("/services", serviceHandler.List)
			admin.POST("/services", serviceHandler.Create)
			admin.PATCH("/services/:id", serviceHandler.Update)
			admin.POST("/services/:id/retire", serviceHandler.Retire)

			admin.GET("/customers", customerHandler.List)
			admin.PATCH("/customers/:id", customerHandler.Update)
			admin.GET("/vehicles", customerHandler.ListVehicles)

			admin.GET("/blocked-slots", calendarHandler.ListBlockedSlots)
			admin.POST("/blocked-slots", calendarHandler.BlockSlot)
			admin.DELETE("/blocked-slots/:id", calendarHandler.UnblockSlot)

			admin.GET("/holidays", calendarHandler.ListHolidays)
			admin.PUT("/holidays", calendarHandler.UpsertHolidays)
			admin.DELETE("/holidays/:id", calendarHandler.DeleteHoliday)
			admin.POST("/holidays/sync", calendarHandler.SyncHolidays)

			admin.GET("/settings", settingsHandler.Get)
			admin.PUT("/settings", settingsHandler.Update)

			admin.GET("/audit-logs", auditLogsHandler.List)
		}
	}
}
