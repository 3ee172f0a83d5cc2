package handlers

import (
	"context"

	"golang-bookstore-gateway/internal/models"
	"golang-bookstore-gateway/internal/services"
)

// CartServiceInterface is the cart store surface the handler consumes.
type CartServiceInterface interface {
	Fetch(ctx context.Context, sess services.Session) (*models.CartSnapshot, error)
	Snapshot(ctx context.Context, userID string) (*models.CartSnapshot, error)
	AddItem(ctx context.Context, sess services.Session, productID string, quantity int) (*models.CartSnapshot, error)
	SetItemQuantity(ctx context.Context, sess services.Session, productID string, quantity int) (*models.CartSnapshot, error)
	IncrementItem(ctx context.Context, sess services.Session, productID string) (*models.CartSnapshot, error)
	DecrementItem(ctx context.Context, sess services.Session, productID string) (*models.CartSnapshot, error)
	RemoveItem(ctx context.Context, sess services.Session, productID string) (*models.CartSnapshot, error)
	Clear(ctx context.Context, sess services.Session) (*models.CartSnapshot, error)
	ApplyCoupon(ctx context.Context, sess services.Session, code string) (*models.CartSnapshot, error)
	RemoveCoupon(ctx context.Context, sess services.Session) (*models.CartSnapshot, error)
	LineStateFor(userID, productID string) services.LineState
}

// CheckoutServiceInterface is the checkout surface the handler
// consumes.
type CheckoutServiceInterface interface {
	Summary(ctx context.Context, sess services.Session) (*services.CheckoutSummary, error)
	PlaceOrder(ctx context.Context, sess services.Session, req *services.CheckoutRequest) (*services.PlaceOrderResult, error)
}
