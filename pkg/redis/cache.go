// Package redis caches catalog products so the busiest read path, product
// detail by id, skips the document store. Cache-aside: misses fall through
// to the repository, mutations invalidate.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	redisclient "github.com/redis/go-redis/v9"

	"github.com/craftloom/storefront/pkg/global"
	"github.com/craftloom/storefront/pkg/models"
)

const productTTL = 24 * time.Hour

// ErrCacheMiss is returned when the product is not cached.
var ErrCacheMiss = errors.New("cache miss")

type ProductCache struct {
	client *redisclient.Client
}

func NewProductCache() *ProductCache {
	return &ProductCache{
		client: redisclient.NewClient(&redisclient.Options{
			Addr:     global.GetEnvOrDefault("REDIS_ADDRESS", "localhost:6379"),
			Password: global.GetEnvOrDefault("REDIS_PASSWORD", ""),
			DB:       0,
			Protocol: 2,
		}),
	}
}

func productKey(id string) string {
	return fmt.Sprintf("product:%s", id)
}

func (c *ProductCache) Get(ctx context.Context, id string) (*models.Product, error) {
	raw, err := c.client.Get(ctx, productKey(id)).Result()
	if errors.Is(err, redisclient.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, err
	}

	var product models.Product
	if err := json.Unmarshal([]byte(raw), &product); err != nil {
		return nil, fmt.Errorf("unmarshal cached product: %w", err)
	}
	return &product, nil
}

func (c *ProductCache) Set(ctx context.Context, product *models.Product) error {
	raw, err := json.Marshal(product)
	if err != nil {
		return fmt.Errorf("marshal product %s: %w", product.ID, err)
	}
	return c.client.Set(ctx, productKey(product.ID), raw, productTTL).Err()
}

func (c *ProductCache) Invalidate(ctx context.Context, id string) error {
	return c.client.Del(ctx, productKey(id)).Err()
}

func (c *ProductCache) Close() error {
	return c.client.Close()
}
