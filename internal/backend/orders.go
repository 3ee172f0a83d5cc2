package backend

import (
	"context"
	"net/http"

	"golang-bookstore-gateway/internal/models"
)

// CreateOrderRequest is the order submission payload. ShippingAddress
// must be nil for digital-only orders so the key is omitted from the
// JSON entirely, not sent as null.
type CreateOrderRequest struct {
	PaymentMethod   string                  `json:"paymentMethod"`
	Notes           string                  `json:"notes,omitempty"`
	ShippingAddress *models.ShippingAddress `json:"shippingAddress,omitempty"`
}

func (c *Client) CreateOrder(ctx context.Context, token string, req *CreateOrderRequest) (*models.Order, error) {
	raw, err := c.do(ctx, http.MethodPost, "/orders", token, req, false)
	if err != nil {
		return nil, err
	}

	var order models.Order
	if err := decode(raw, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

func (c *Client) ListOrders(ctx context.Context, token string) ([]models.Order, error) {
	raw, err := c.do(ctx, http.MethodGet, "/orders", token, nil, false)
	if err != nil {
		return nil, err
	}

	var orders []models.Order
	if err := decode(raw, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (c *Client) GetOrder(ctx context.Context, token, orderID string) (*models.Order, error) {
	raw, err := c.do(ctx, http.MethodGet, "/orders/"+orderID, token, nil, false)
	if err != nil {
		return nil, err
	}

	var order models.Order
	if err := decode(raw, &order); err != nil {
		return nil, err
	}
	return &order, nil
}
