package handler

import (
	"context"
	"net/http"
	"sync"
	"time"
)

const readinessTimeout = 3 * time.Second

// Pinger is a dependency the readiness check can probe.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingFunc adapts a function to Pinger.
type PingFunc func(ctx context.Context) error

// Ping calls f.
func (f PingFunc) Ping(ctx context.Context) error { return f(ctx) }

type dependency struct {
	name   string
	pinger Pinger
}

// HealthHandler serves liveness and readiness probes.
type HealthHandler struct {
	deps []dependency
}

// NewHealthHandler probes the entity store and the Redis cache. A nil
// pinger is left out of readiness.
func NewHealthHandler(postgres, redis Pinger) *HealthHandler {
	h := &HealthHandler{}
	for _, d := range []dependency{{"postgres", postgres}, {"redis", redis}} {
		if d.pinger != nil {
			h.deps = append(h.deps, d)
		}
	}
	return h
}

// Liveness always answers 200 while the process is serving.
func (h *HealthHandler) Liveness(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Readiness pings every dependency in parallel and answers 503 when any of
// them fails. The body reports each dependency.
func (h *HealthHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
	defer cancel()

	results := make([]string, len(h.deps))
	var wg sync.WaitGroup
	for i, d := range h.deps {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := d.pinger.Ping(ctx); err != nil {
				results[i] = err.Error()
				return
			}
			results[i] = "ok"
		}()
	}
	wg.Wait()

	checks := make(map[string]string, len(h.deps))
	status, code := "ready", http.StatusOK
	for i, d := range h.deps {
		checks[d.name] = results[i]
		if results[i] != "ok" {
			status, code = "unavailable", http.StatusServiceUnavailable
		}
	}

	writeJSON(w, code, map[string]any{"status": status, "checks": checks})
}
