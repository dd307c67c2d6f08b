package httperr

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func respond(err error) (int, HTTPError) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/x", nil)

	Respond(c, err)

	var body HTTPError
	_ = json.Unmarshal(w.Body.Bytes(), &body)
	return w.Code, body
}

func TestRespond_StatusByKind(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{ErrValidation("invalid_phone", "電話格式錯誤"), http.StatusBadRequest, "invalid_phone"},
		{ErrConflict("slot_taken", "此時段已被預約"), http.StatusConflict, "slot_taken"},
		{ErrNotFound("service_not_found", "找不到"), http.StatusNotFound, "service_not_found"},
		{ErrUnauthorized("staff_only", "僅限店家"), http.StatusForbidden, "staff_only"},
		{fmt.Errorf("wrapped: %w", ErrConflict("slot_blocked", "封鎖")), http.StatusConflict, "slot_blocked"},
		{gorm.ErrRecordNotFound, http.StatusNotFound, "not_found"},
		{ErrPersistence("insert", errors.New("disk full")), http.StatusInternalServerError, "internal_error"},
	}

	for _, tc := range cases {
		t.Run(tc.code, func(t *testing.T) {
			status, body := respond(tc.err)
			assert.Equal(t, tc.status, status)
			assert.Equal(t, tc.code, body.Code)
			assert.NotEmpty(t, body.Message)
		})
	}
}

func TestRespond_CodeOnlyUsesCodeAsMessage(t *testing.T) {
	status, body := respond(ErrBusiness("invalid_transition"))
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "invalid_transition", body.Message)
}

func TestErrPersistence(t *testing.T) {
	assert.Nil(t, ErrPersistence("x", nil))

	be := ErrConflict("slot_taken", "")
	assert.Equal(t, be, ErrPersistence("create", be))

	cause := errors.New("boom")
	err := ErrPersistence("create", cause)
	var pe *PersistenceError
	require.ErrorAs(t, err, &pe)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, KindPersistence, KindOf(err))
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, IsUniqueViolation(gorm.ErrDuplicatedKey))
	assert.True(t, IsUniqueViolation(fmt.Errorf("create: %w", &pgconn.PgError{Code: "23505"})))
	assert.True(t, IsUniqueViolation(errors.New("UNIQUE constraint failed: appointments.date")))
	assert.False(t, IsUniqueViolation(&pgconn.PgError{Code: "23503"}))
	assert.False(t, IsUniqueViolation(nil))
}

func TestIsBusiness(t *testing.T) {
	assert.True(t, IsBusiness(fmt.Errorf("x: %w", ErrValidation("holiday", "")), "holiday"))
	assert.False(t, IsBusiness(errors.New("holiday"), "holiday"))
}
