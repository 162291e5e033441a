package routers

import (
	"github.com/jaychopda/ai-interview-taking-system/internal/handlers"
	"github.com/jaychopda/ai-interview-taking-system/internal/metrics"

	"github.com/go-chi/chi/v5"
)

func HealthRoutes(r *chi.Mux, healthHandler *handlers.HealthHandler) {
	r.Get("/healthz", healthHandler.Healthz)
	r.Get("/readyz", healthHandler.Readyz)
	r.Handle("/metrics", metrics.Handler())
}
