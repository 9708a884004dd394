// Package breaker builds circuit breakers for calls to optional backing
// services (Redis). An open circuit means "degrade", never "fail the request".
package breaker

import (
	"time"

	"catalog-be/internal/logger"

	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"
)

const (
	defaultTimeout     = 30 * time.Second
	defaultInterval    = time.Minute
	consecutiveFailure = 5
)

// Settings returns breaker settings that trip after consecutive failures.
// isSuccessful marks domain errors that must not count against the backend.
func Settings(name string, isSuccessful func(error) bool) gobreaker.Settings {
	return gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Interval:    defaultInterval,
		Timeout:     defaultTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= consecutiveFailure
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.L().Warn("circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
		IsSuccessful: isSuccessful,
	}
}

func New[T any](name string, isSuccessful func(error) bool) *gobreaker.CircuitBreaker[T] {
	return gobreaker.NewCircuitBreaker[T](Settings(name, isSuccessful))
}
