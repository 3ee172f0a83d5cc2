package backend

import (
	"context"
	"net/http"

	"golang-bookstore-gateway/internal/models"
)

type addItemRequest struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

type updateItemRequest struct {
	Quantity int `json:"quantity"`
}

type applyCouponRequest struct {
	CouponCode string `json:"couponCode"`
}

func (c *Client) decodeCart(raw []byte) (*models.CartSnapshot, error) {
	var snapshot models.CartSnapshot
	if err := decode(raw, &snapshot); err != nil {
		return nil, err
	}
	return &snapshot, nil
}

func (c *Client) GetCart(ctx context.Context, token string) (*models.CartSnapshot, error) {
	raw, err := c.do(ctx, http.MethodGet, "/cart", token, nil, false)
	if err != nil {
		return nil, err
	}
	return c.decodeCart(raw)
}

// AddItem adds quantity units of a product. The backend merges with an
// existing line for the same product additively.
func (c *Client) AddItem(ctx context.Context, token, productID string, quantity int) (*models.CartSnapshot, error) {
	raw, err := c.do(ctx, http.MethodPost, "/cart/add", token, &addItemRequest{
		ProductID: productID,
		Quantity:  quantity,
	}, false)
	if err != nil {
		return nil, err
	}
	return c.decodeCart(raw)
}

func (c *Client) UpdateItem(ctx context.Context, token, productID string, quantity int) (*models.CartSnapshot, error) {
	raw, err := c.do(ctx, http.MethodPut, "/cart/update/"+productID, token, &updateItemRequest{
		Quantity: quantity,
	}, false)
	if err != nil {
		return nil, err
	}
	return c.decodeCart(raw)
}

func (c *Client) RemoveItem(ctx context.Context, token, productID string) (*models.CartSnapshot, error) {
	raw, err := c.do(ctx, http.MethodDelete, "/cart/remove/"+productID, token, nil, false)
	if err != nil {
		return nil, err
	}
	return c.decodeCart(raw)
}

func (c *Client) ClearCart(ctx context.Context, token string) (*models.CartSnapshot, error) {
	raw, err := c.do(ctx, http.MethodDelete, "/cart/clear", token, nil, false)
	if err != nil {
		return nil, err
	}
	return c.decodeCart(raw)
}

func (c *Client) ApplyCoupon(ctx context.Context, token, code string) (*models.CartSnapshot, error) {
	raw, err := c.do(ctx, http.MethodPost, "/cart/apply-coupon", token, &applyCouponRequest{
		CouponCode: code,
	}, true)
	if err != nil {
		return nil, err
	}
	return c.decodeCart(raw)
}

func (c *Client) RemoveCoupon(ctx context.Context, token string) (*models.CartSnapshot, error) {
	raw, err := c.do(ctx, http.MethodDelete, "/cart/remove-coupon", token, nil, true)
	if err != nil {
		return nil, err
	}
	return c.decodeCart(raw)
}
