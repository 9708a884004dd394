package cache

import (
	"context"
	"errors"

	"catalog-be/internal/product"
)

var ErrCacheMiss = errors.New("cache miss")

// NoopProductCache always misses. Used when no Redis address is configured.
type NoopProductCache struct{}

func (NoopProductCache) Get(ctx context.Context, id int64) (*product.Product, error) {
	return nil, ErrCacheMiss
}

func (NoopProductCache) Set(ctx context.Context, p *product.Product) error { return nil }

func (NoopProductCache) Delete(ctx context.Context, id int64) error { return nil }
