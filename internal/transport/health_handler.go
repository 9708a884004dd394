package transport

import (
	"context"
	"net/http"
	"sort"
	"sync"
	"time"
)

type HealthStatus string

const (
	StatusHealthy   HealthStatus = "healthy"
	StatusUnhealthy HealthStatus = "unhealthy"
	StatusDegraded  HealthStatus = "degraded"
)

const healthCheckTimeout = 2 * time.Second

// CheckFunc pings one dependency.
type CheckFunc func(ctx context.Context) error

type HealthCheck struct {
	Name       string       `json:"name"`
	Status     HealthStatus `json:"status"`
	Message    string       `json:"message,omitempty"`
	DurationMs int64        `json:"duration_ms"`
}

type HealthResponse struct {
	Status        HealthStatus           `json:"status"`
	Timestamp     time.Time              `json:"timestamp"`
	Checks        map[string]HealthCheck `json:"checks,omitempty"`
	UptimeSeconds int64                  `json:"uptime_seconds"`
}

type registeredCheck struct {
	fn       CheckFunc
	critical bool
}

// HealthHandler reports dependency health. A failing critical check makes the
// service unhealthy (503); any other failure only degrades it.
type HealthHandler struct {
	mu        sync.RWMutex
	checks    map[string]registeredCheck
	startTime time.Time
}

func NewHealthHandler() *HealthHandler {
	return &HealthHandler{
		checks:    make(map[string]registeredCheck),
		startTime: time.Now(),
	}
}

func (h *HealthHandler) Register(name string, critical bool, fn CheckFunc) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.checks[name] = registeredCheck{fn: fn, critical: critical}
}

// GET /health
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mu.RLock()
	names := make([]string, 0, len(h.checks))
	for name := range h.checks {
		names = append(names, name)
	}
	checks := make(map[string]registeredCheck, len(h.checks))
	for k, v := range h.checks {
		checks[k] = v
	}
	h.mu.RUnlock()
	sort.Strings(names)

	ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
	defer cancel()

	resp := HealthResponse{
		Status:        StatusHealthy,
		Timestamp:     time.Now().UTC(),
		Checks:        make(map[string]HealthCheck, len(names)),
		UptimeSeconds: int64(time.Since(h.startTime).Seconds()),
	}

	for _, name := range names {
		c := checks[name]
		start := time.Now()
		err := c.fn(ctx)

		check := HealthCheck{
			Name:       name,
			Status:     StatusHealthy,
			DurationMs: time.Since(start).Milliseconds(),
		}
		if err != nil {
			check.Message = err.Error()
			if c.critical {
				check.Status = StatusUnhealthy
				resp.Status = StatusUnhealthy
			} else {
				check.Status = StatusDegraded
				if resp.Status == StatusHealthy {
					resp.Status = StatusDegraded
				}
			}
		}
		resp.Checks[name] = check
	}

	status := http.StatusOK
	if resp.Status == StatusUnhealthy {
		status = http.StatusServiceUnavailable
	}
	respondJSON(w, status, resp)
}
