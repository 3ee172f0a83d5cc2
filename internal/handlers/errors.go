package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"golang-bookstore-gateway/internal/backend"
	"golang-bookstore-gateway/internal/middleware"
	"golang-bookstore-gateway/internal/services"
)

type ErrorResponse struct {
	Error   string               `json:"error"`
	Message string               `json:"message,omitempty"`
	Fields  []backend.FieldError `json:"fields,omitempty"`
}

// sessionFrom builds the service session from the authenticated
// request context.
func sessionFrom(c *gin.Context) services.Session {
	return services.Session{
		UserID: middleware.GetUserID(c),
		Token:  middleware.GetSessionToken(c),
	}
}

// userMessage is the display message for an error, preferring the
// backend's extracted message over Go error text.
func userMessage(err error) string {
	if apiErr, ok := backend.AsAPIError(err); ok {
		return apiErr.Message
	}
	return err.Error()
}

// writeError maps service and backend errors onto HTTP responses.
// Backend validation failures are surfaced itemized; everything else
// carries a single message.
func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrQuantityNotPositive),
		errors.Is(err, services.ErrEmptyCouponCode),
		errors.Is(err, services.ErrCartEmpty),
		errors.Is(err, services.ErrPaymentMethodRequired),
		errors.Is(err, services.ErrShippingAddressRequired):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "validation_error", Message: err.Error()})
		return
	case errors.Is(err, services.ErrLineNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "not_found", Message: err.Error()})
		return
	case errors.Is(err, services.ErrLineBusy):
		c.JSON(http.StatusConflict, ErrorResponse{Error: "line_busy", Message: err.Error()})
		return
	}

	if apiErr, ok := backend.AsAPIError(err); ok {
		switch apiErr.Kind {
		case backend.KindAuth:
			c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized", Message: apiErr.Message})
		case backend.KindValidation:
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "validation_error", Message: apiErr.Message, Fields: apiErr.Fields})
		case backend.KindInvalidCoupon:
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid_coupon", Message: apiErr.Message})
		case backend.KindConflict:
			c.JSON(http.StatusConflict, ErrorResponse{Error: "conflict", Message: apiErr.Message})
		case backend.KindNetwork:
			c.JSON(http.StatusBadGateway, ErrorResponse{Error: "backend_unavailable", Message: apiErr.Message})
		default:
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal_error", Message: apiErr.Message})
		}
		return
	}

	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal_error", Message: err.Error()})
}
