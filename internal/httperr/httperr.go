package httperr

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

type HTTPError struct {
	Code    string `json:"error_code"`
	Message string `json:"message"`
}

func Write(c *gin.Context, status int, code, message string) {
	c.JSON(status, HTTPError{
		Code:    code,
		Message: message,
	})
}

func BadRequest(c *gin.Context, code, message string) {
	Write(c, http.StatusBadRequest, code, message)
}

func NotFound(c *gin.Context, code, message string) {
	Write(c, http.StatusNotFound, code, message)
}

func Conflict(c *gin.Context, code, message string) {
	Write(c, http.StatusConflict, code, message)
}

func Internal(c *gin.Context, code, message string) {
	Write(c, http.StatusInternalServerError, code, message)
}

func Unauthorized(c *gin.Context, code, message string) {
	Write(c, http.StatusUnauthorized, code, message)
}

func Forbidden(c *gin.Context, code, message string) {
	Write(c, http.StatusForbidden, code, message)
}

// Respond maps any use case error onto a status code and the JSON error body.
func Respond(c *gin.Context, err error) {
	var be BusinessError
	if !errors.As(err, &be) {
		if KindOf(err) == KindNotFound {
			NotFound(c, "not_found", "找不到資料")
			return
		}
		log.Printf("request %s %s failed: %v", c.Request.Method, c.FullPath(), err)
		Internal(c, "internal_error", "系統忙碌中，請稍後再試")
		return
	}

	message := be.Message
	if message == "" {
		message = be.Code
	}

	switch be.Kind {
	case KindSlotConflict:
		Conflict(c, be.Code, message)
	case KindNotFound:
		NotFound(c, be.Code, message)
	case KindUnauthorized:
		Forbidden(c, be.Code, message)
	case KindPersistence:
		log.Printf("request %s %s failed: %v", c.Request.Method, c.FullPath(), err)
		Internal(c, be.Code, message)
	default:
		BadRequest(c, be.Code, message)
	}
}
