package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"catalog-be/internal/auth"
	"catalog-be/internal/cache"
	"catalog-be/internal/config"
	"catalog-be/internal/db"
	"catalog-be/internal/idempotency"
	"catalog-be/internal/logger"
	"catalog-be/internal/metrics"
	"catalog-be/internal/middleware"
	"catalog-be/internal/order"
	"catalog-be/internal/product"
	"catalog-be/internal/transport"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

var (
	initDBFunc      = db.InitDB
	startServerFunc = startServer
)

// application is everything run() needs to serve traffic.
type application struct {
	handler http.Handler
	limiter *middleware.RateLimiter
	cleanup *idempotency.CleanupWorker
	redis   *redis.Client
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg := config.LoadConfig()
	logger.Init(cfg.AppEnv)
	defer logger.Sync()

	database := initDBFunc(cfg)
	defer database.Close()

	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.SeedData {
		if err := db.Seed(sigCtx, database); err != nil {
			logger.L().Warn("seeding demo data failed", zap.Error(err))
		}
	}

	app, err := newServer(cfg, database)
	if err != nil {
		return err
	}
	if app.redis != nil {
		defer app.redis.Close()
	}

	ctx, cancel := context.WithCancel(sigCtx)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		// background workers stop with the server
		defer cancel()
		logger.L().Info("🚀 HTTP server running", zap.String("port", cfg.AppPort))
		return startServerFunc(gctx, ":"+cfg.AppPort, app.handler)
	})
	g.Go(func() error {
		return app.limiter.Run(gctx)
	})
	if app.cleanup != nil {
		g.Go(func() error {
			return app.cleanup.Run(gctx)
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}
	logger.L().Info("server exited")
	return nil
}

// newServer builds services and the HTTP handler. Redis is optional: without
// it products are not cached and idempotency keys live in memory.
func newServer(cfg *config.Config, database *sql.DB) (*application, error) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	issuer, err := auth.NewTokenIssuer(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTAudience, cfg.JWTTTL)
	if err != nil {
		return nil, fmt.Errorf("token issuer: %w", err)
	}
	authenticator, err := auth.NewAuthenticator(cfg.AdminEmail, cfg.AdminPassword, issuer)
	if err != nil {
		return nil, fmt.Errorf("authenticator: %w", err)
	}

	health := transport.NewHealthHandler()
	health.Register("database", true, database.PingContext)

	app := &application{limiter: middleware.NewRateLimiter(cfg.InternalKey)}

	var (
		productCache product.Cache
		idemStore    idempotency.Store
	)
	if cfg.RedisAddr != "" {
		app.redis = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
		productCache = cache.WithBreaker(cache.NewRedisProductCache(app.redis))
		idemStore = idempotency.WithBreaker(idempotency.NewRedisStore(app.redis))
		health.Register("redis", false, func(ctx context.Context) error {
			return app.redis.Ping(ctx).Err()
		})
	} else {
		mem := idempotency.NewMemoryStore()
		productCache = cache.NoopProductCache{}
		idemStore = mem
		app.cleanup = idempotency.NewCleanupWorker(mem, idempotency.WithLogger(logger.L()))
	}

	productRepo := product.NewRepository(database)
	productSvc := product.NewService(productRepo, productCache)

	orderRepo := order.NewRepository(database)
	orderSvc := order.NewService(orderRepo, productRepo, metrics.NewOrderMetrics(reg))

	app.handler = transport.NewRouter(transport.Handlers{
		Products: transport.NewProductHandler(productSvc),
		Orders:   transport.NewOrderHandler(orderSvc),
		Auth:     transport.NewAuthHandler(authenticator, cfg.IsProduction()),
		Health:   health,
		// cleanup worker counters live on the default registry
		Metrics: metrics.Handler(prometheus.Gatherers{reg, prometheus.DefaultGatherer}),
	}, transport.Options{
		TokenParser:        issuer,
		RateLimiter:        app.limiter,
		IdempotencyStore:   idemStore,
		IdempotencyTTL:     cfg.IdempotencyTTL,
		ServerMetrics:      metrics.NewServerMetrics(reg),
		IdempotencyMetrics: metrics.NewIdempotencyMetrics(reg),
		CORSOrigin:         cfg.CORSOrigin,
		RequestTimeout:     cfg.RequestTimeout,
	})

	return app, nil
}

// startServer serves until ctx is done, then drains in-flight requests.
func startServer(ctx context.Context, addr string, handler http.Handler) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      35 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.L().Info("shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	return nil
}
