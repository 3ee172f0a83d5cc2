package services

import (
	"context"
	"fmt"
	"time"

	"golang-bookstore-gateway/internal/backend"
	"golang-bookstore-gateway/internal/models"
	"golang-bookstore-gateway/pkg/cache"
)

const productCacheTTL = time.Minute * 10

// ProductService proxies catalog reads to the backend with a
// cache-aside layer. The catalog changes rarely compared to carts, so
// a short TTL is enough.
type ProductService struct {
	api   backend.ProductAPI
	cache *cache.RedisCache
}

func NewProductService(api backend.ProductAPI, redisCache *cache.RedisCache) *ProductService {
	return &ProductService{
		api:   api,
		cache: redisCache,
	}
}

func (s *ProductService) ListProducts(ctx context.Context, sess Session, limit, offset int) ([]models.Product, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	cacheKey := fmt.Sprintf("products:%d:%d", limit, offset)
	if s.cache != nil {
		var cached []models.Product
		if err := s.cache.Get(ctx, cacheKey, &cached); err == nil {
			return cached, nil
		}
	}

	products, err := s.api.ListProducts(ctx, sess.Token, limit, offset)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		s.cache.Set(ctx, cacheKey, products, productCacheTTL)
	}
	return products, nil
}

func (s *ProductService) GetProduct(ctx context.Context, sess Session, productID string) (*models.Product, error) {
	cacheKey := "product:" + productID
	if s.cache != nil {
		var cached models.Product
		if err := s.cache.Get(ctx, cacheKey, &cached); err == nil {
			return &cached, nil
		}
	}

	product, err := s.api.GetProduct(ctx, sess.Token, productID)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		s.cache.Set(ctx, cacheKey, product, productCacheTTL)
	}
	return product, nil
}
