package backend

import (
	"context"
	"fmt"
	"net/http"

	"golang-bookstore-gateway/internal/models"
)

func (c *Client) ListProducts(ctx context.Context, token string, limit, offset int) ([]models.Product, error) {
	path := fmt.Sprintf("/products?limit=%d&offset=%d", limit, offset)
	raw, err := c.do(ctx, http.MethodGet, path, token, nil, false)
	if err != nil {
		return nil, err
	}

	var products []models.Product
	if err := decode(raw, &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (c *Client) GetProduct(ctx context.Context, token, productID string) (*models.Product, error) {
	raw, err := c.do(ctx, http.MethodGet, "/products/"+productID, token, nil, false)
	if err != nil {
		return nil, err
	}

	var product models.Product
	if err := decode(raw, &product); err != nil {
		return nil, err
	}
	return &product, nil
}
