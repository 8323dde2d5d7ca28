// Package httpapi assembles the service's HTTP surface. It stays thin:
// routing, middleware, and health only; behavior lives in the domain
// handlers it mounts.
package httpapi

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"fundwatch/pkg/platform/httputil"
	"fundwatch/pkg/platform/middleware/metadata"
	"fundwatch/pkg/platform/middleware/requesttime"
)

// Registrar is implemented by domain handlers that mount their own routes.
type Registrar interface {
	Register(r chi.Router)
}

// HealthChecker reports on one backing dependency.
type HealthChecker func(ctx context.Context) error

// NewRouter wires middleware, domain handlers, metrics, and health.
func NewRouter(handlers []Registrar, health map[string]HealthChecker) http.Handler {
	r := chi.NewRouter()

	r.Use(metadata.RequestID)
	r.Use(requesttime.Middleware)
	r.Use(metadata.ClientMetadata)

	for _, h := range handlers {
		h.Register(r)
	}

	r.Method(http.MethodGet, "/metrics", promhttp.Handler())
	r.Get("/healthz", handleHealth(health))

	return r
}

func handleHealth(checks map[string]HealthChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := http.StatusOK
		result := make(map[string]string, len(checks)+1)
		result["status"] = "ok"
		for name, check := range checks {
			if err := check(r.Context()); err != nil {
				status = http.StatusServiceUnavailable
				result[name] = err.Error()
				result["status"] = "degraded"
				continue
			}
			result[name] = "ok"
		}
		httputil.WriteJSON(w, status, result)
	}
}
