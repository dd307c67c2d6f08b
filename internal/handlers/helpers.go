package handlers

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/BruksfildServices01/autoshop-scheduler/internal/httperr"
	"github.com/BruksfildServices01/autoshop-scheduler/internal/middleware"
	"github.com/BruksfildServices01/autoshop-scheduler/internal/validators"
)

// bindJSON writes a 400 and returns false when the body does not bind.
// Plate and phone failures carry the validator's own message.
func bindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		writeBindError(c, err)
		return false
	}
	return true
}

func writeBindError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		value := fmt.Sprint(fe.Value())

		switch fe.Tag() {
		case validators.TagPlate:
			if vErr := validators.ValidateLicensePlate(value); vErr != nil {
				httperr.BadRequest(c, "invalid_license_plate", vErr.Error())
				return
			}
		case validators.TagPhone:
			if vErr := validators.ValidatePhone(value); vErr != nil {
				httperr.BadRequest(c, "invalid_phone", vErr.Error())
				return
			}
		case "required":
			httperr.BadRequest(c, "missing_field", "缺少必要欄位: "+fe.Field())
			return
		}

		httperr.BadRequest(c, "invalid_field", "欄位格式錯誤: "+fe.Field())
		return
	}

	httperr.BadRequest(c, "invalid_request", "資料格式錯誤")
}

func paramID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		httperr.BadRequest(c, "invalid_id", "編號格式錯誤")
		return 0, false
	}
	return uint(id), true
}

// currentUser reads the id set by AuthMiddleware.
func currentUser(c *gin.Context) (uint, bool) {
	id, ok := middleware.UserID(c)
	if !ok {
		httperr.Unauthorized(c, "user_not_in_context", "請先登入")
		return 0, false
	}
	return id, true
}

func parseDateIn(loc *time.Location, s string) (time.Time, error) {
	return time.ParseInLocation("2006-01-02", s, loc)
}

// parseInstant accepts RFC 3339, or a shop-local "2006-01-02 15:04".
func parseInstant(loc *time.Location, s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.ParseInLocation("2006-01-02 15:04", s, loc)
}
