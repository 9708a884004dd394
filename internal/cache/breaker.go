package cache

import (
	"context"
	"errors"

	"catalog-be/internal/breaker"
	"catalog-be/internal/product"

	"github.com/sony/gobreaker/v2"
)

// GuardedProductCache trips a circuit when the wrapped cache keeps failing.
// While open, reads miss and writes are skipped.
type GuardedProductCache struct {
	inner product.Cache
	cb    *gobreaker.CircuitBreaker[*product.Product]
}

func WithBreaker(inner product.Cache) *GuardedProductCache {
	return &GuardedProductCache{
		inner: inner,
		cb: breaker.New[*product.Product]("product-cache", func(err error) bool {
			return err == nil || errors.Is(err, ErrCacheMiss)
		}),
	}
}

func (g *GuardedProductCache) Get(ctx context.Context, id int64) (*product.Product, error) {
	p, err := g.cb.Execute(func() (*product.Product, error) {
		return g.inner.Get(ctx, id)
	})
	if isOpen(err) {
		return nil, ErrCacheMiss
	}
	return p, err
}

func (g *GuardedProductCache) Set(ctx context.Context, p *product.Product) error {
	_, err := g.cb.Execute(func() (*product.Product, error) {
		return nil, g.inner.Set(ctx, p)
	})
	if isOpen(err) {
		return nil
	}
	return err
}

func (g *GuardedProductCache) Delete(ctx context.Context, id int64) error {
	_, err := g.cb.Execute(func() (*product.Product, error) {
		return nil, g.inner.Delete(ctx, id)
	})
	if isOpen(err) {
		return nil
	}
	return err
}

func isOpen(err error) bool {
	return errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests)
}
