package services

import (
	"context"

	"golang-bookstore-gateway/internal/backend"
	"golang-bookstore-gateway/internal/models"
)

// OrderService proxies order history reads. History is always fetched
// fresh: a customer landing on the order list right after checkout
// must see the new order.
type OrderService struct {
	api backend.OrderAPI
}

func NewOrderService(api backend.OrderAPI) *OrderService {
	return &OrderService{api: api}
}

func (s *OrderService) ListOrders(ctx context.Context, sess Session) ([]models.Order, error) {
	return s.api.ListOrders(ctx, sess.Token)
}

func (s *OrderService) GetOrder(ctx context.Context, sess Session, orderID string) (*models.Order, error) {
	return s.api.GetOrder(ctx, sess.Token, orderID)
}
