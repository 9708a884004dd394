package idempotency

import (
	"context"
	"errors"
	"time"

	"catalog-be/internal/breaker"

	"github.com/sony/gobreaker/v2"
)

type guardedStore struct {
	inner Store
	cb    *gobreaker.CircuitBreaker[*Record]
}

// WithBreaker wraps a Store so that a failing backend trips a circuit and
// calls return ErrUnavailable until it recovers.
func WithBreaker(inner Store) Store {
	return &guardedStore{
		inner: inner,
		cb:    breaker.New[*Record]("idempotency-store", IsDomainError),
	}
}

func (g *guardedStore) Reserve(ctx context.Context, key, requestHash string, ttl time.Duration) (*Record, error) {
	rec, err := g.cb.Execute(func() (*Record, error) {
		return g.inner.Reserve(ctx, key, requestHash, ttl)
	})
	return rec, translate(err)
}

func (g *guardedStore) Complete(ctx context.Context, key string, resp Response, ttl time.Duration) error {
	_, err := g.cb.Execute(func() (*Record, error) {
		return nil, g.inner.Complete(ctx, key, resp, ttl)
	})
	return translate(err)
}

func (g *guardedStore) Release(ctx context.Context, key string) error {
	_, err := g.cb.Execute(func() (*Record, error) {
		return nil, g.inner.Release(ctx, key)
	})
	return translate(err)
}

func translate(err error) error {
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return ErrUnavailable
	}
	return err
}
