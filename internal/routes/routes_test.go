package routes

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/autoshop-scheduler/internal/audit"
	"github.com/BruksfildServices01/autoshop-scheduler/internal/cache"
	"github.com/BruksfildServices01/autoshop-scheduler/internal/config"
	"github.com/BruksfildServices01/autoshop-scheduler/internal/db/dbtest"
	"github.com/BruksfildServices01/autoshop-scheduler/internal/domain/calendar"
	"github.com/BruksfildServices01/autoshop-scheduler/internal/metrics"
	"github.com/BruksfildServices01/autoshop-scheduler/internal/middleware"
	"github.com/BruksfildServices01/autoshop-scheduler/internal/models"
	"github.com/BruksfildServices01/autoshop-scheduler/internal/settings"
	"github.com/BruksfildServices01/autoshop-scheduler/internal/validators"
)

var loc = time.FixedZone("CST", 8*60*60)

func init() {
	gin.SetMode(gin.TestMode)
	if err := validators.RegisterBindings(); err != nil {
		panic(err)
	}
}

type server struct {
	t      *testing.T
	db     *gorm.DB
	engine *gin.Engine
	cfg    *config.Config
	audit  *audit.Dispatcher
}

func newServer(t *testing.T) *server {
	gdb := dbtest.Open(t)
	cfg := &config.Config{JWTSecret: "test-secret"}

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	feedCache := cache.NewFeedCache(cache.NewMemoryStore(), time.Minute, m)

	dispatcher := audit.NewDispatcher(audit.New(gdb))
	t.Cleanup(dispatcher.Close)

	r := gin.New()
	RegisterRoutes(r, Infra{
		DB:        gdb,
		Config:    cfg,
		Location:  loc,
		Settings:  settings.NewStore(gdb),
		FeedCache: feedCache,
		Notifier:  calendar.Notifiers{feedCache},
		Audit:     dispatcher,
		Metrics:   m,
		Gatherer:  reg,
	})

	return &server{t: t, db: gdb, engine: r, cfg: cfg, audit: dispatcher}
}

func (s *server) do(method, path, token string, body any) *httptest.ResponseRecorder {
	s.t.Helper()
	return s.doWithHeader(method, path, token, body, nil)
}

func (s *server) doWithHeader(method, path, token string, body any, header http.Header) *httptest.ResponseRecorder {
	s.t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(s.t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for k, v := range header {
		req.Header[k] = v
	}

	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func (s *server) register(email, phone string) string {
	s.t.Helper()

	w := s.do(http.MethodPost, "/api/auth/register", "", gin.H{
		"name":     "測試用戶",
		"email":    email,
		"password": "secret123",
		"phone":    phone,
	})
	require.Equal(s.t, http.StatusCreated, w.Code, w.Body.String())
	return decode(s.t, w)["token"].(string)
}

func (s *server) staffToken() string {
	s.t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("staffpass"), bcrypt.MinCost)
	require.NoError(s.t, err)

	u := models.User{Name: "師傅", Email: "staff@shop.tw", PasswordHash: string(hash), Role: models.RoleStaff}
	require.NoError(s.t, s.db.Create(&u).Error)

	token, err := middleware.IssueToken(s.cfg.JWTSecret, &u)
	require.NoError(s.t, err)
	return token
}

// nextOpenDay returns a shop-local day at least two days out that is not the
// default closed weekday.
func nextOpenDay() time.Time {
	d := time.Now().In(loc).AddDate(0, 0, 2)
	for d.Weekday() == time.Sunday {
		d = d.AddDate(0, 0, 1)
	}
	return d
}

func booking(day time.Time, plate, phone string) gin.H {
	return gin.H{
		"date":          day.Format("2006-01-02") + " 10:30",
		"car_model":     "Toyota Altis",
		"license_plate": plate,
		"phone_number":  phone,
		"customer_name": "王小明",
	}
}

func TestHealthAndRequestID(t *testing.T) {
	s := newServer(t)

	w := s.do(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get(middleware.HeaderRequestID))

	w = s.do(http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAuthFlow(t *testing.T) {
	s := newServer(t)
	s.register("amy@example.com", "0912345678")

	w := s.do(http.MethodPost, "/api/auth/register", "", gin.H{
		"name": "Amy", "email": "AMY@example.com", "password": "secret123",
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = s.do(http.MethodPost, "/api/auth/login", "", gin.H{"email": "amy@example.com", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(http.MethodPost, "/api/auth/login", "", gin.H{"email": "amy@example.com", "password": "secret123"})
	require.Equal(t, http.StatusOK, w.Code)
	token := decode(t, w)["token"].(string)

	w = s.do(http.MethodGet, "/api/me", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = s.do(http.MethodGet, "/api/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCreateAppointment_ValidationMessages(t *testing.T) {
	s := newServer(t)
	token := s.register("bob@example.com", "")
	day := nextOpenDay()

	w := s.do(http.MethodPost, "/api/appointments", token, booking(day, "ABC-1234", "0912345678"))
	require.Equal(t, http.StatusBadRequest, w.Code)
	body := decode(t, w)
	assert.Equal(t, "invalid_license_plate", body["error_code"])
	assert.Equal(t, validators.ErrPlateContainsFour.Error(), body["message"])

	w = s.do(http.MethodPost, "/api/appointments", token, booking(day, "ABC-1235", "12345"))
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid_phone", decode(t, w)["error_code"])

	req := booking(day, "ABC-1235", "0912345678")
	delete(req, "car_model")
	w = s.do(http.MethodPost, "/api/appointments", token, req)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "missing_field", decode(t, w)["error_code"])

	req = booking(day, "ABC-1235", "0912345678")
	req["date"] = "next tuesday"
	w = s.do(http.MethodPost, "/api/appointments", token, req)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid_date_or_time", decode(t, w)["error_code"])
}

func TestBookingLifecycle(t *testing.T) {
	s := newServer(t)
	alice := s.register("alice@example.com", "0912345678")
	carol := s.register("carol@example.com", "0987654321")
	staff := s.staffToken()
	day := nextOpenDay()
	dayKey := day.Format("2006-01-02")

	w := s.do(http.MethodPost, "/api/appointments", alice, booking(day, "ABC-1235", "0912345678"))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	id := uint(decode(t, w)["id"].(float64))

	w = s.do(http.MethodPost, "/api/appointments", carol, booking(day, "XYZ-5678", "0987654321"))
	require.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "slot_taken", decode(t, w)["error_code"])

	w = s.do(http.MethodGet, "/api/public/availability/day?date="+dayKey, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var view struct {
		Slots []calendar.SlotView `json:"slots"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
	for _, slot := range view.Slots {
		assert.Equal(t, slot.Start == "10:30", slot.Disabled, slot.Start)
	}

	// customers cannot use staff endpoints
	w = s.do(http.MethodGet, "/api/admin/appointments?date="+dayKey, alice, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(http.MethodGet, "/api/admin/appointments?date="+dayKey, staff, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "ABC1235")

	path := fmt.Sprintf("/api/admin/appointments/%d/status", id)
	w = s.do(http.MethodPatch, path, staff, gin.H{"status": "CONFIRMED"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "CONFIRMED", decode(t, w)["status"])

	w = s.do(http.MethodPatch, fmt.Sprintf("/api/appointments/%d/cancel", id), carol, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(http.MethodPatch, fmt.Sprintf("/api/appointments/%d/cancel", id), alice, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "CANCELLED", decode(t, w)["status"])

	w = s.do(http.MethodPatch, path, staff, gin.H{"status": "COMPLETED"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid_transition", decode(t, w)["error_code"])

	// the cancelled slot can be booked again
	w = s.do(http.MethodPost, "/api/appointments", carol, booking(day, "XYZ-5678", "0987654321"))
	assert.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = s.do(http.MethodGet, "/api/me/appointments", alice, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "CANCELLED")
}

func TestBlockedSlotsAndHolidays(t *testing.T) {
	s := newServer(t)
	staff := s.staffToken()
	customer := s.register("dan@example.com", "0911222333")
	day := nextOpenDay()
	dayKey := day.Format("2006-01-02")

	w := s.do(http.MethodPost, "/api/admin/blocked-slots", staff, gin.H{
		"date":   dayKey + " 10:30",
		"reason": "設備保養",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = s.do(http.MethodPost, "/api/appointments", customer, booking(day, "ABC-1235", "0911222333"))
	require.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "slot_blocked", decode(t, w)["error_code"])

	w = s.do(http.MethodPut, "/api/admin/holidays", staff, gin.H{
		"holidays": []gin.H{{"date": dayKey, "name": "店休", "is_holiday": true}},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = s.do(http.MethodGet, "/api/public/availability?start="+dayKey+"&end="+dayKey, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var feed calendar.Feed
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &feed))
	assert.Len(t, feed.BookedTimestamps, 1)
	require.Len(t, feed.DayExceptions, 1)
	assert.True(t, feed.DayExceptions[0].IsHoliday)

	req := booking(day, "ABC-1235", "0911222333")
	req["date"] = dayKey + " 13:30"
	w = s.do(http.MethodPost, "/api/appointments", customer, req)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "holiday", decode(t, w)["error_code"])

	w = s.do(http.MethodPost, "/api/admin/holidays/sync", staff, nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestSettingsValidation(t *testing.T) {
	s := newServer(t)
	staff := s.staffToken()

	w := s.do(http.MethodGet, "/api/admin/settings", staff, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 0, decode(t, w)["closed_weekday"])

	w = s.do(http.MethodPut, "/api/admin/settings", staff, gin.H{
		"closed_weekday":       1,
		"lead_time_minutes":    30,
		"slot_duration_min":    90,
		"booking_horizon_days": 30,
		"slot_times":           []string{"14:00", "09:00", "09:00"},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = s.do(http.MethodGet, "/api/admin/settings", staff, nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.EqualValues(t, 1, body["closed_weekday"])
	assert.Equal(t, []any{"09:00", "14:00"}, body["slot_times"])

	w = s.do(http.MethodPut, "/api/admin/settings", staff, gin.H{
		"closed_weekday":       9,
		"lead_time_minutes":    30,
		"slot_duration_min":    90,
		"booking_horizon_days": 30,
		"slot_times":           []string{"09:00"},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestServicesAndCustomers(t *testing.T) {
	s := newServer(t)
	staff := s.staffToken()
	customer := s.register("erin@example.com", "0922333444")

	w := s.do(http.MethodPost, "/api/admin/services", staff, gin.H{
		"name": "機油保養", "duration_min": 60, "price": 1800, "warranty_months": 3,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	serviceID := uint(decode(t, w)["id"].(float64))

	w = s.do(http.MethodPost, "/api/admin/services", staff, gin.H{"name": "缺時間"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(http.MethodGet, "/api/public/services", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 1, decode(t, w)["total"])

	day := nextOpenDay()
	req := booking(day, "ABC-1235", "0922333444")
	req["service_id"] = serviceID
	w = s.do(http.MethodPost, "/api/appointments", customer, req)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = s.do(http.MethodPost, fmt.Sprintf("/api/admin/services/%d/retire", serviceID), staff, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "RETIRED", decode(t, w)["status"])

	w = s.do(http.MethodGet, "/api/public/services", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 0, decode(t, w)["total"])

	req["date"] = day.Format("2006-01-02") + " 13:30"
	w = s.do(http.MethodPost, "/api/appointments", customer, req)
	assert.Equal(t, http.StatusNotFound, w.Code)

	// the booking created the customer and vehicle records
	w = s.do(http.MethodGet, "/api/admin/customers?query=0922", staff, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var customers struct {
		Data []models.Customer `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &customers))
	require.Len(t, customers.Data, 1)
	require.Len(t, customers.Data[0].Vehicles, 1)
	assert.Equal(t, "ABC1235", customers.Data[0].Vehicles[0].LicensePlate)

	w = s.do(http.MethodPatch, fmt.Sprintf("/api/admin/customers/%d", customers.Data[0].ID), staff, gin.H{
		"name": "王大明", "notes": "偏好早上",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "王大明", decode(t, w)["name"])

	w = s.do(http.MethodGet, "/api/admin/vehicles?plate=abc-1235", staff, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 1, decode(t, w)["total"])
}

func TestAuditTrailFollowsRequestID(t *testing.T) {
	s := newServer(t)
	staff := s.staffToken()
	day := nextOpenDay()

	header := http.Header{}
	header.Set(middleware.HeaderRequestID, "req-block-1")
	w := s.doWithHeader(http.MethodPost, "/api/admin/blocked-slots", staff, gin.H{
		"date": day.Format("2006-01-02") + " 08:30",
	}, header)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, "req-block-1", w.Header().Get(middleware.HeaderRequestID))

	// drain the async writer before reading the trail
	s.audit.Close()

	w = s.do(http.MethodGet, "/api/admin/audit-logs?request_id=req-block-1", staff, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var page struct {
		Data  []models.AuditLog `json:"data"`
		Total int64             `json:"total"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	require.EqualValues(t, 1, page.Total)
	assert.Equal(t, "slot_blocked", page.Data[0].Action)
	assert.Equal(t, "req-block-1", page.Data[0].RequestID)

	w = s.do(http.MethodGet, "/api/admin/audit-logs?from=not-a-day", staff, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
