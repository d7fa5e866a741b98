package caching

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"webstore/internal/models"

	"github.com/redis/go-redis/v9"
)

// CacheService is a read-through cache for product lookups. Callers treat
// every error as a miss; the database stays authoritative.
type CacheService interface {
	GetProduct(ctx context.Context, productID int64) (*models.Product, error)
	SetProduct(ctx context.Context, product *models.Product, ttl time.Duration) error
	DeleteProduct(ctx context.Context, productID int64) error
	Ping(ctx context.Context) error
}

type redisCacheService struct {
	client *redis.Client
}

func NewRedisCacheService(client *redis.Client) CacheService {
	return &redisCacheService{client: client}
}

func productKey(productID int64) string {
	return fmt.Sprintf("webstore:product:%d", productID)
}

func (r *redisCacheService) GetProduct(ctx context.Context, productID int64) (*models.Product, error) {
	data, err := r.client.Get(ctx, productKey(productID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil // cache miss
		}
		return nil, err
	}

	var product models.Product
	if err := json.Unmarshal(data, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *redisCacheService) SetProduct(ctx context.Context, product *models.Product, ttl time.Duration) error {
	data, err := json.Marshal(product)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, productKey(product.ID), data, ttl).Err()
}

func (r *redisCacheService) DeleteProduct(ctx context.Context, productID int64) error {
	return r.client.Del(ctx, productKey(productID)).Err()
}

func (r *redisCacheService) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}
