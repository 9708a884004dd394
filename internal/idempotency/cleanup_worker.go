package idempotency

import (
	"context"
	"errors"
	"time"

	"catalog-be/internal/logger"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"
)

const (
	defaultCleanupInterval  = 10 * time.Minute
	defaultCleanupBatchSize = 500
)

var (
	cleanupRunsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "catalog_idempotency_cleanup_runs_total",
		Help: "Total number of idempotency cleanup runs grouped by result.",
	}, []string{"result"})
	cleanupDeletedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "catalog_idempotency_cleanup_deleted_total",
		Help: "Total number of deleted expired idempotency records.",
	})
)

// Expirer is implemented by stores that need explicit eviction.
type Expirer interface {
	DeleteExpired(before time.Time, limit int) (int, error)
}

type CleanupOption func(*CleanupWorker)

func WithLogger(l *zap.Logger) CleanupOption {
	return func(w *CleanupWorker) {
		w.logger = l
	}
}

func WithInterval(interval time.Duration) CleanupOption {
	return func(w *CleanupWorker) {
		w.interval = interval
	}
}

func WithBatchSize(batchSize int) CleanupOption {
	return func(w *CleanupWorker) {
		w.batchSize = batchSize
	}
}

// CleanupWorker periodically evicts expired records from an Expirer.
type CleanupWorker struct {
	store     Expirer
	logger    *zap.Logger
	interval  time.Duration
	batchSize int
}

func NewCleanupWorker(store Expirer, options ...CleanupOption) *CleanupWorker {
	w := &CleanupWorker{
		store:     store,
		interval:  defaultCleanupInterval,
		batchSize: defaultCleanupBatchSize,
	}
	for _, option := range options {
		option(w)
	}

	if w.logger == nil {
		w.logger = logger.L().With(zap.String("component", "idempotency-cleanup-worker"))
	}
	if w.interval <= 0 {
		w.interval = defaultCleanupInterval
	}
	if w.batchSize <= 0 {
		w.batchSize = defaultCleanupBatchSize
	}

	return w
}

// Run cleans up once immediately, then on every tick until ctx is done.
func (w *CleanupWorker) Run(ctx context.Context) error {
	if w.store == nil {
		w.logger.Warn("idempotency cleanup worker is disabled: store is nil")
		return nil
	}

	w.cleanup(ctx, time.Now().UTC())

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			w.cleanup(ctx, time.Now().UTC())
		}
	}
}

func (w *CleanupWorker) cleanup(ctx context.Context, before time.Time) {
	deleted, err := w.DeleteExpired(ctx, before)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		cleanupRunsTotal.WithLabelValues("error").Inc()
		w.logger.Warn("idempotency cleanup run failed", zap.Error(err))
		return
	}

	cleanupRunsTotal.WithLabelValues("ok").Inc()
	if deleted > 0 {
		w.logger.Info("idempotency cleanup completed", zap.Int("deleted", deleted))
	}
}

// DeleteExpired removes every record expired at or before before, in batches.
func (w *CleanupWorker) DeleteExpired(ctx context.Context, before time.Time) (int, error) {
	if before.IsZero() {
		before = time.Now().UTC()
	}

	total := 0
	for {
		if err := ctx.Err(); err != nil {
			return total, err
		}

		deleted, err := w.store.DeleteExpired(before, w.batchSize)
		if err != nil {
			return total, err
		}

		total += deleted
		if deleted > 0 {
			cleanupDeletedTotal.Add(float64(deleted))
		}

		if deleted < w.batchSize {
			break
		}
	}

	return total, nil
}
