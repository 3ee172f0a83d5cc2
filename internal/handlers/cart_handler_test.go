package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"golang-bookstore-gateway/internal/backend"
	"golang-bookstore-gateway/internal/models"
	"golang-bookstore-gateway/internal/services"
)

type fakeCartService struct {
	fetch           func(sess services.Session) (*models.CartSnapshot, error)
	snapshot        func(userID string) (*models.CartSnapshot, error)
	addItem         func(sess services.Session, productID string, quantity int) (*models.CartSnapshot, error)
	setItemQuantity func(sess services.Session, productID string, quantity int) (*models.CartSnapshot, error)
	removeItem      func(sess services.Session, productID string) (*models.CartSnapshot, error)
	applyCoupon     func(sess services.Session, code string) (*models.CartSnapshot, error)
	lineState       func(userID, productID string) services.LineState
}

func (f *fakeCartService) Fetch(ctx context.Context, sess services.Session) (*models.CartSnapshot, error) {
	return f.fetch(sess)
}

func (f *fakeCartService) Snapshot(ctx context.Context, userID string) (*models.CartSnapshot, error) {
	return f.snapshot(userID)
}

func (f *fakeCartService) AddItem(ctx context.Context, sess services.Session, productID string, quantity int) (*models.CartSnapshot, error) {
	return f.addItem(sess, productID, quantity)
}

func (f *fakeCartService) SetItemQuantity(ctx context.Context, sess services.Session, productID string, quantity int) (*models.CartSnapshot, error) {
	return f.setItemQuantity(sess, productID, quantity)
}

func (f *fakeCartService) IncrementItem(ctx context.Context, sess services.Session, productID string) (*models.CartSnapshot, error) {
	return nil, nil
}

func (f *fakeCartService) DecrementItem(ctx context.Context, sess services.Session, productID string) (*models.CartSnapshot, error) {
	return nil, nil
}

func (f *fakeCartService) RemoveItem(ctx context.Context, sess services.Session, productID string) (*models.CartSnapshot, error) {
	return f.removeItem(sess, productID)
}

func (f *fakeCartService) Clear(ctx context.Context, sess services.Session) (*models.CartSnapshot, error) {
	return nil, nil
}

func (f *fakeCartService) ApplyCoupon(ctx context.Context, sess services.Session, code string) (*models.CartSnapshot, error) {
	return f.applyCoupon(sess, code)
}

func (f *fakeCartService) RemoveCoupon(ctx context.Context, sess services.Session) (*models.CartSnapshot, error) {
	return nil, nil
}

func (f *fakeCartService) LineStateFor(userID, productID string) services.LineState {
	if f.lineState != nil {
		return f.lineState(userID, productID)
	}
	return services.LineIdle
}

// cartRouter wires the handler behind a stub auth layer that seeds the
// request identity directly.
func cartRouter(service CartServiceInterface) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	handler := NewCartHandler(service)
	cart := router.Group("/cart", func(c *gin.Context) {
		c.Set("user_id", "u1")
		c.Set("session_token", "tok-1")
		c.Next()
	})
	{
		cart.GET("", handler.GetCart)
		cart.POST("/items", handler.AddItem)
		cart.PUT("/items/:product_id", handler.SetItemQuantity)
		cart.DELETE("/items/:product_id", handler.RemoveItem)
		cart.POST("/coupons", handler.ApplyCoupon)
	}
	return router
}

func doJSON(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestGetCartServesStaleSnapshotOnFailure(t *testing.T) {
	stale := &models.CartSnapshot{
		Items:     []models.CartLine{{Product: models.ProductRef{ID: "p1"}, Quantity: 2}},
		ItemCount: 2,
	}
	service := &fakeCartService{
		fetch: func(sess services.Session) (*models.CartSnapshot, error) {
			return nil, &backend.APIError{Kind: backend.KindNetwork, Message: "Something went wrong. Please try again."}
		},
		snapshot: func(userID string) (*models.CartSnapshot, error) {
			assert.Equal(t, "u1", userID)
			return stale, nil
		},
	}

	w := doJSON(cartRouter(service), http.MethodGet, "/cart", "")
	require.Equal(t, http.StatusOK, w.Code)

	var view CartView
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
	require.NotNil(t, view.Cart)
	assert.Equal(t, 2, view.Cart.ItemCount)
	assert.Equal(t, "Something went wrong. Please try again.", view.Error)
}

func TestGetCartForwardsSession(t *testing.T) {
	service := &fakeCartService{
		fetch: func(sess services.Session) (*models.CartSnapshot, error) {
			assert.Equal(t, "u1", sess.UserID)
			assert.Equal(t, "tok-1", sess.Token)
			return &models.CartSnapshot{}, nil
		},
	}

	w := doJSON(cartRouter(service), http.MethodGet, "/cart", "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAddItemRejectsMalformedBody(t *testing.T) {
	w := doJSON(cartRouter(&fakeCartService{}), http.MethodPost, "/cart/items", `{"productId":"p1"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSetItemQuantityZeroReachesService(t *testing.T) {
	gotQuantity := -1
	service := &fakeCartService{
		setItemQuantity: func(sess services.Session, productID string, quantity int) (*models.CartSnapshot, error) {
			gotQuantity = quantity
			return &models.CartSnapshot{}, nil
		},
	}

	// Zero is a valid target: the service routes it to removal.
	w := doJSON(cartRouter(service), http.MethodPut, "/cart/items/p1", `{"quantity":0}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 0, gotQuantity)
}

func TestSetItemQuantityMissingQuantityRejected(t *testing.T) {
	w := doJSON(cartRouter(&fakeCartService{}), http.MethodPut, "/cart/items/p1", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetCartReportsBusyLines(t *testing.T) {
	snapshot := &models.CartSnapshot{
		Items: []models.CartLine{
			{Product: models.ProductRef{ID: "p1"}, Quantity: 2},
			{Product: models.ProductRef{ID: "p2"}, Quantity: 1},
		},
	}
	service := &fakeCartService{
		fetch: func(sess services.Session) (*models.CartSnapshot, error) {
			return snapshot, nil
		},
		lineState: func(userID, productID string) services.LineState {
			if productID == "p1" {
				return services.LineUpdating
			}
			return services.LineIdle
		},
	}

	w := doJSON(cartRouter(service), http.MethodGet, "/cart", "")
	require.Equal(t, http.StatusOK, w.Code)

	var view CartView
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
	assert.Equal(t, services.LineUpdating, view.LineStates["p1"])
	_, present := view.LineStates["p2"]
	assert.False(t, present, "idle lines stay out of the busy map")
}

func TestSetItemQuantityUnknownLineMapsTo404(t *testing.T) {
	service := &fakeCartService{
		setItemQuantity: func(sess services.Session, productID string, quantity int) (*models.CartSnapshot, error) {
			return nil, services.ErrLineNotFound
		},
	}

	w := doJSON(cartRouter(service), http.MethodPut, "/cart/items/ghost", `{"quantity":3}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRemoveItemBusyLineMapsTo409(t *testing.T) {
	service := &fakeCartService{
		removeItem: func(sess services.Session, productID string) (*models.CartSnapshot, error) {
			return nil, services.ErrLineBusy
		},
	}

	w := doJSON(cartRouter(service), http.MethodDelete, "/cart/items/p1", "")
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestApplyCouponInvalidCouponMapsTo400(t *testing.T) {
	service := &fakeCartService{
		applyCoupon: func(sess services.Session, code string) (*models.CartSnapshot, error) {
			return nil, &backend.APIError{Kind: backend.KindInvalidCoupon, Message: "Coupon has expired"}
		},
	}

	w := doJSON(cartRouter(service), http.MethodPost, "/cart/coupons", `{"code":"OLD10"}`)
	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "invalid_coupon", resp.Error)
	assert.Equal(t, "Coupon has expired", resp.Message)
}

func TestBackendOutageMapsTo502(t *testing.T) {
	service := &fakeCartService{
		addItem: func(sess services.Session, productID string, quantity int) (*models.CartSnapshot, error) {
			return nil, &backend.APIError{Kind: backend.KindNetwork, Message: "down"}
		},
	}

	w := doJSON(cartRouter(service), http.MethodPost, "/cart/items", `{"productId":"p1","quantity":1}`)
	assert.Equal(t, http.StatusBadGateway, w.Code)
}
