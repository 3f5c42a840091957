package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"food-rescue-matching/internal/http/handlers"
	mw "food-rescue-matching/internal/http/middleware"
	"food-rescue-matching/internal/logx"
)

// New constructs the API router: probes, /metrics, assignment answers and the donation matching view.
func New(
	logger logx.Logger,
	h *handlers.Handlers,
	assignments *handlers.AssignmentHandler,
	donations *handlers.DonationHandler,
) http.Handler {
	r := base(logger, h)

	r.Route("/assignments/{id}", func(r chi.Router) {
		r.Post("/accept", assignments.Accept)
		r.Post("/reject", assignments.Reject)
	})
	r.Get("/donations/{id}/assignments", donations.Assignments)

	return r
}

// NewWorker constructs the worker's probe and /metrics router.
func NewWorker(logger logx.Logger, h *handlers.Handlers) http.Handler {
	return base(logger, h)
}

func base(logger logx.Logger, h *handlers.Handlers) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(mw.Observability(logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(5 * time.Second))

	r.Get("/ping", h.Ping)
	r.Method(http.MethodHead, "/healthcheck", http.HandlerFunc(h.HealthcheckHead))
	r.Handle("/metrics", promhttp.Handler())
	r.NotFound(http.HandlerFunc(h.NotFound))

	return r
}
