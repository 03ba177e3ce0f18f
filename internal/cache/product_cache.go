package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"storemart-be/internal/logger"
	"storemart-be/internal/product"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const notFoundMarker = "notfound"

// ProductCache is a read-through cache in front of the product repository.
// Reads that miss or hit a Redis error fall back to the database; writes
// invalidate. Stock and avg_rating are mutated outside this repository, so
// cached entries carry a short TTL rather than relying on invalidation alone.
type ProductCache struct {
	repo  product.Repository
	redis *redis.Client
	ttl   time.Duration
}

func NewProductCache(repo product.Repository, client *redis.Client) *ProductCache {
	return &ProductCache{
		repo:  repo,
		redis: client,
		ttl:   time.Minute,
	}
}

func (c *ProductCache) key(id uint) string {
	return fmt.Sprintf("product:%d", id)
}

func (c *ProductCache) GetByID(ctx context.Context, id uint) (*product.Product, error) {
	log := logger.FromCtx(ctx).With(zap.Uint("product_id", id))
	key := c.key(id)

	data, err := c.redis.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		if string(data) == notFoundMarker {
			return nil, product.ErrProductNotFound
		}

		var p product.Product
		if err := json.Unmarshal(data, &p); err != nil {
			log.Warn("failed to unmarshal cached product, falling back to db", zap.Error(err))
			break
		}
		return &p, nil

	case errors.Is(err, redis.Nil):
		// cache miss

	default:
		log.Warn("redis error, falling back to db", zap.Error(err))
	}

	p, err := c.repo.GetByID(ctx, id)
	if errors.Is(err, product.ErrProductNotFound) {
		if setErr := c.redis.Set(ctx, key, notFoundMarker, c.ttl).Err(); setErr != nil {
			log.Warn("failed to cache notfound marker", zap.Error(setErr))
		}
		return nil, err
	}
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(p); err == nil {
		if setErr := c.redis.Set(ctx, key, data, c.ttl).Err(); setErr != nil {
			log.Warn("failed to cache product", zap.Error(setErr))
		}
	}

	return p, nil
}

func (c *ProductCache) List(ctx context.Context, opts product.QueryOptions) ([]product.Product, error) {
	return c.repo.List(ctx, opts)
}

func (c *ProductCache) Create(ctx context.Context, p *product.Product) error {
	return c.repo.Create(ctx, p)
}

func (c *ProductCache) Update(ctx context.Context, id uint, upd product.Update) (*product.Product, error) {
	p, err := c.repo.Update(ctx, id, upd)
	if err != nil {
		return nil, err
	}
	c.invalidate(ctx, id)
	return p, nil
}

func (c *ProductCache) Delete(ctx context.Context, id uint) error {
	if err := c.repo.Delete(ctx, id); err != nil {
		return err
	}
	c.invalidate(ctx, id)
	return nil
}

func (c *ProductCache) invalidate(ctx context.Context, id uint) {
	if err := c.redis.Del(ctx, c.key(id)).Err(); err != nil {
		logger.FromCtx(ctx).Warn("failed to invalidate product cache",
			zap.Uint("product_id", id),
			zap.Error(err),
		)
	}
}

var _ product.Repository = (*ProductCache)(nil)
