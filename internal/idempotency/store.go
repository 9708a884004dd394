package idempotency

import (
	"context"
	"errors"
	"time"
)

var (
	ErrKeyRequired      = errors.New("idempotency key is required")
	ErrInFlight         = errors.New("a request with this idempotency key is still being processed")
	ErrHashMismatch     = errors.New("idempotency key was already used with a different request")
	ErrAlreadyCompleted = errors.New("idempotency key already completed")
	ErrUnavailable      = errors.New("idempotency store unavailable")
)

// Store tracks Idempotency-Key reservations and completed responses.
//
// Reserve claims key for a new request. It returns (nil, nil) when the claim
// succeeded, the stored record with ErrAlreadyCompleted when a response can be
// replayed, ErrInFlight while another request holds the key, and
// ErrHashMismatch when the key belongs to a different request.
type Store interface {
	Reserve(ctx context.Context, key, requestHash string, ttl time.Duration) (*Record, error)
	Complete(ctx context.Context, key string, resp Response, ttl time.Duration) error
	Release(ctx context.Context, key string) error
}

// IsDomainError reports errors that describe the key's state rather than a
// failing backend.
func IsDomainError(err error) bool {
	return err == nil ||
		errors.Is(err, ErrKeyRequired) ||
		errors.Is(err, ErrInFlight) ||
		errors.Is(err, ErrHashMismatch) ||
		errors.Is(err, ErrAlreadyCompleted)
}

func checkExisting(rec *Record, requestHash string) (*Record, error) {
	if rec.RequestHash != requestHash {
		return nil, ErrHashMismatch
	}
	if rec.State == StateCompleted && rec.Response != nil {
		return rec, ErrAlreadyCompleted
	}
	return nil, ErrInFlight
}
