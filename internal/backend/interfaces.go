package backend

import (
	"context"

	"golang-bookstore-gateway/internal/models"
)

// CartAPI is the slice of the commerce backend the cart store depends
// on. Every mutating call returns the fresh authoritative snapshot.
type CartAPI interface {
	GetCart(ctx context.Context, token string) (*models.CartSnapshot, error)
	AddItem(ctx context.Context, token, productID string, quantity int) (*models.CartSnapshot, error)
	UpdateItem(ctx context.Context, token, productID string, quantity int) (*models.CartSnapshot, error)
	RemoveItem(ctx context.Context, token, productID string) (*models.CartSnapshot, error)
	ClearCart(ctx context.Context, token string) (*models.CartSnapshot, error)
	ApplyCoupon(ctx context.Context, token, code string) (*models.CartSnapshot, error)
	RemoveCoupon(ctx context.Context, token string) (*models.CartSnapshot, error)
}

// OrderAPI covers order creation and history.
type OrderAPI interface {
	CreateOrder(ctx context.Context, token string, req *CreateOrderRequest) (*models.Order, error)
	ListOrders(ctx context.Context, token string) ([]models.Order, error)
	GetOrder(ctx context.Context, token, orderID string) (*models.Order, error)
}

// ProductAPI covers catalog reads.
type ProductAPI interface {
	ListProducts(ctx context.Context, token string, limit, offset int) ([]models.Product, error)
	GetProduct(ctx context.Context, token, productID string) (*models.Product, error)
}
