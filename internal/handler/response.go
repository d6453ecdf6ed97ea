package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"autopilot/internal/identity"
	"autopilot/internal/strategy"
)

type apiResponse struct {
	Code    int            `json:"code"`
	Message string         `json:"message"`
	Data    any            `json:"data,omitempty"`
	Meta    map[string]any `json:"meta,omitempty"`
}

func Ok(c *gin.Context, data any, meta map[string]any) {
	c.JSON(http.StatusOK, apiResponse{
		Code:    0,
		Message: "ok",
		Data:    data,
		Meta:    meta,
	})
}

func Error(c *gin.Context, status int, message string, meta map[string]any) {
	c.JSON(status, apiResponse{
		Code:    status,
		Message: message,
		Meta:    meta,
	})
}

// Fail maps domain sentinel errors onto HTTP statuses. Anything unmapped is a
// 500 with the error text.
func Fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, strategy.ErrInvalidInput), errors.Is(err, identity.ErrInvalidInput):
		Error(c, http.StatusBadRequest, err.Error(), nil)
	case errors.Is(err, identity.ErrUnauthorized):
		Error(c, http.StatusUnauthorized, err.Error(), nil)
	case errors.Is(err, strategy.ErrForbidden):
		Error(c, http.StatusForbidden, err.Error(), nil)
	case errors.Is(err, strategy.ErrNotFound):
		Error(c, http.StatusNotFound, err.Error(), nil)
	case errors.Is(err, identity.ErrRateLimited):
		Error(c, http.StatusTooManyRequests, err.Error(), nil)
	default:
		Error(c, http.StatusInternalServerError, err.Error(), nil)
	}
}
