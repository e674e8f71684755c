package httpserver

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"tecnostore/internal/domain"
	"tecnostore/internal/service/session"
)

const emptyCartMessage = "Your cart is empty!"

type errorResponse struct {
	StatusCode int           `json:"statusCode"`
	Message    string        `json:"message"`
	Errors     []errorDetail `json:"errors"`
}

type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// statusFor maps domain errors onto HTTP statuses and error codes.
func statusFor(err error) (int, string, string) {
	switch {
	case errors.Is(err, domain.ErrInvalidInput), errors.Is(err, session.ErrInvalidSession):
		return http.StatusBadRequest, "InvalidInput", err.Error()
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, "ResourceNotFound", err.Error()
	case errors.Is(err, domain.ErrEmptyCart):
		return http.StatusConflict, "EmptyCart", emptyCartMessage
	case errors.Is(err, domain.ErrOutOfStock):
		return http.StatusConflict, "OutOfStock", err.Error()
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized, "Unauthorized", "unauthorized"
	default:
		return http.StatusInternalServerError, "General", "internal error"
	}
}

func writeError(c *gin.Context, logger *zap.Logger, err error) {
	status, code, msg := statusFor(err)
	if status >= http.StatusInternalServerError {
		logger.Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
	}
	c.AbortWithStatusJSON(status, errorResponse{
		StatusCode: status,
		Message:    msg,
		Errors:     []errorDetail{{Code: code, Message: msg}},
	})
}

func invalidBody(err error) error {
	return fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
}
