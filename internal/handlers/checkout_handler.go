package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"golang-bookstore-gateway/internal/middleware"
	"golang-bookstore-gateway/internal/services"
)

type CheckoutHandler struct {
	checkoutService CheckoutServiceInterface
}

func NewCheckoutHandler(checkoutService CheckoutServiceInterface) *CheckoutHandler {
	return &CheckoutHandler{checkoutService: checkoutService}
}

func (h *CheckoutHandler) RegisterRoutes(router *gin.RouterGroup, authMiddleware *middleware.AuthMiddleware) {
	checkout := router.Group("/checkout", authMiddleware.AuthRequired())
	{
		checkout.GET("/summary", h.GetSummary)
		checkout.POST("", h.PlaceOrder)
	}
}

// GetSummary prices the current cart including the locally computed
// shipping fee.
func (h *CheckoutHandler) GetSummary(c *gin.Context) {
	summary, err := h.checkoutService.Summary(c.Request.Context(), sessionFrom(c))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}

func (h *CheckoutHandler) PlaceOrder(c *gin.Context) {
	var req services.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid_request", Message: err.Error()})
		return
	}

	result, err := h.checkoutService.PlaceOrder(c.Request.Context(), sessionFrom(c), &req)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, result)
}
