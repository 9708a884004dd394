package transport

import (
	"net/http"
	"time"

	"catalog-be/internal/idempotency"
	"catalog-be/internal/logger"
	"catalog-be/internal/metrics"
	"catalog-be/internal/middleware"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const defaultRequestTimeout = 30 * time.Second

type Handlers struct {
	Products *ProductHandler
	Orders   *OrderHandler
	Auth     *AuthHandler
	Health   *HealthHandler
	Metrics  http.Handler
}

type Options struct {
	TokenParser        middleware.TokenParser
	RateLimiter        *middleware.RateLimiter
	IdempotencyStore   idempotency.Store
	IdempotencyTTL     time.Duration
	ServerMetrics      *metrics.ServerMetrics
	IdempotencyMetrics *metrics.IdempotencyMetrics
	CORSOrigin         string
	RequestTimeout     time.Duration
}

// NewRouter wires every route and the middleware chain, and wraps the result
// for OpenTelemetry tracing.
func NewRouter(h Handlers, opts Options) http.Handler {
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = defaultRequestTimeout
	}
	if opts.RateLimiter == nil {
		opts.RateLimiter = middleware.NewRateLimiter("")
	}

	r := chi.NewRouter()

	// Global middleware
	r.Use(chimw.RealIP)
	r.Use(logger.RequestIDMiddleware)
	r.Use(middleware.CORS(opts.CORSOrigin))
	if opts.ServerMetrics != nil {
		r.Use(middleware.Metrics(opts.ServerMetrics))
	}
	r.Use(middleware.Auth(opts.TokenParser))
	r.Use(middleware.Logging)
	r.Use(chimw.Recoverer)
	r.Use(opts.RateLimiter.Middleware)
	r.Use(chimw.Timeout(opts.RequestTimeout))

	r.Method(http.MethodGet, "/health", h.Health)
	if h.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", h.Metrics)
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/login", h.Auth.Login)

		r.Get("/products", h.Products.List)
		r.Get("/products/{id}", h.Products.Get)

		// authenticated
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)
			if opts.IdempotencyStore != nil {
				r.Use(middleware.Idempotency(opts.IdempotencyStore, opts.IdempotencyTTL, opts.IdempotencyMetrics))
			}

			r.Post("/products", h.Products.Create)
			r.Put("/products/{id}", h.Products.Replace)
			r.Patch("/products/{id}", h.Products.Update)
			r.Delete("/products/{id}", h.Products.Delete)
			r.Post("/products/{id}/restock", h.Products.Restock)

			r.Get("/orders", h.Orders.List)
			r.Post("/orders", h.Orders.Create)
			r.Get("/orders/{id}", h.Orders.Get)
			r.Post("/orders/{id}/items", h.Orders.AddItem)
			r.Post("/orders/{id}/confirm", h.Orders.Confirm)
			r.Post("/orders/{id}/cancel", h.Orders.Cancel)
		})
	})

	return otelhttp.NewHandler(r, "catalog-be")
}
