package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"golang-bookstore-gateway/internal/middleware"
	"golang-bookstore-gateway/internal/models"
	"golang-bookstore-gateway/internal/services"
)

type CartHandler struct {
	cartService CartServiceInterface
}

func NewCartHandler(cartService CartServiceInterface) *CartHandler {
	return &CartHandler{cartService: cartService}
}

// RegisterRoutes registers the routes for cart management.
func (h *CartHandler) RegisterRoutes(router *gin.RouterGroup, authMiddleware *middleware.AuthMiddleware) {
	cart := router.Group("/cart", authMiddleware.AuthRequired())
	{
		cart.GET("", h.GetCart)
		cart.POST("/items", h.AddItem)
		cart.PUT("/items/:product_id", h.SetItemQuantity)
		cart.POST("/items/:product_id/increment", h.IncrementItem)
		cart.POST("/items/:product_id/decrement", h.DecrementItem)
		cart.DELETE("/items/:product_id", h.RemoveItem)
		cart.DELETE("", h.ClearCart)
		cart.POST("/coupons", h.ApplyCoupon)
		cart.DELETE("/coupons", h.RemoveCoupon)
	}
}

type AddItemRequest struct {
	ProductID string `json:"productId" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required,min=1"`
}

// SetQuantityRequest uses a pointer so a quantity of zero still passes
// the required check; zero routes to removal in the service layer.
type SetQuantityRequest struct {
	Quantity *int `json:"quantity" binding:"required,min=0"`
}

type ApplyCouponRequest struct {
	Code string `json:"code" binding:"required"`
}

// CartView is the cart read response. Error carries the last recorded
// operation failure so the page can render the stale cart alongside a
// retry notice instead of flashing empty. LineStates lists the lines
// with an edit still in flight, keyed by product id, so clients can
// disable that line's controls without locking the rest of the cart.
type CartView struct {
	Cart       *models.CartSnapshot          `json:"cart"`
	LineStates map[string]services.LineState `json:"lineStates,omitempty"`
	Error      string                        `json:"error,omitempty"`
}

// view assembles the response for one snapshot, folding in the busy
// state of any line with an in-flight mutation.
func (h *CartHandler) view(userID string, snapshot *models.CartSnapshot, errMsg string) CartView {
	out := CartView{Cart: snapshot, Error: errMsg}
	if snapshot == nil {
		return out
	}
	for i := range snapshot.Items {
		productID := snapshot.Items[i].ProductID()
		if state := h.cartService.LineStateFor(userID, productID); state != services.LineIdle {
			if out.LineStates == nil {
				out.LineStates = make(map[string]services.LineState)
			}
			out.LineStates[productID] = state
		}
	}
	return out
}

// GetCart refreshes the snapshot from the backend. A failed refresh
// still answers 200 with the previous snapshot; the failure is
// reported inline, never by discarding known cart state.
func (h *CartHandler) GetCart(c *gin.Context) {
	sess := sessionFrom(c)

	snapshot, err := h.cartService.Fetch(c.Request.Context(), sess)
	if err != nil {
		stale, _ := h.cartService.Snapshot(c.Request.Context(), sess.UserID)
		c.JSON(http.StatusOK, h.view(sess.UserID, stale, userMessage(err)))
		return
	}

	c.JSON(http.StatusOK, h.view(sess.UserID, snapshot, ""))
}

func (h *CartHandler) AddItem(c *gin.Context) {
	var req AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid_request", Message: err.Error()})
		return
	}

	sess := sessionFrom(c)
	snapshot, err := h.cartService.AddItem(c.Request.Context(), sess, req.ProductID, req.Quantity)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, h.view(sess.UserID, snapshot, ""))
}

func (h *CartHandler) SetItemQuantity(c *gin.Context) {
	var req SetQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid_request", Message: err.Error()})
		return
	}

	sess := sessionFrom(c)
	snapshot, err := h.cartService.SetItemQuantity(c.Request.Context(), sess, c.Param("product_id"), *req.Quantity)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, h.view(sess.UserID, snapshot, ""))
}

func (h *CartHandler) IncrementItem(c *gin.Context) {
	sess := sessionFrom(c)
	snapshot, err := h.cartService.IncrementItem(c.Request.Context(), sess, c.Param("product_id"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, h.view(sess.UserID, snapshot, ""))
}

func (h *CartHandler) DecrementItem(c *gin.Context) {
	sess := sessionFrom(c)
	snapshot, err := h.cartService.DecrementItem(c.Request.Context(), sess, c.Param("product_id"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, h.view(sess.UserID, snapshot, ""))
}

func (h *CartHandler) RemoveItem(c *gin.Context) {
	sess := sessionFrom(c)
	snapshot, err := h.cartService.RemoveItem(c.Request.Context(), sess, c.Param("product_id"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, h.view(sess.UserID, snapshot, ""))
}

func (h *CartHandler) ClearCart(c *gin.Context) {
	sess := sessionFrom(c)
	snapshot, err := h.cartService.Clear(c.Request.Context(), sess)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, h.view(sess.UserID, snapshot, ""))
}

func (h *CartHandler) ApplyCoupon(c *gin.Context) {
	var req ApplyCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid_request", Message: err.Error()})
		return
	}

	sess := sessionFrom(c)
	snapshot, err := h.cartService.ApplyCoupon(c.Request.Context(), sess, req.Code)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, h.view(sess.UserID, snapshot, ""))
}

func (h *CartHandler) RemoveCoupon(c *gin.Context) {
	sess := sessionFrom(c)
	snapshot, err := h.cartService.RemoveCoupon(c.Request.Context(), sess)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, h.view(sess.UserID, snapshot, ""))
}
