package httpx

import (
	"context"

	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/bandhitl/bank-loan-optimizer/internal/service"
)

// NewRouter wires middleware and routes. runs and db are nil when the
// service runs without a database.
func NewRouter(svc *service.PlanService, runs RunLister, db *pgxpool.Pool, logger *zap.Logger) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}

	r := chi.NewRouter()

	// middleware (keep it sane)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(RequestLogger(logger))

	// health
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if db != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 1*time.Second)
			defer cancel()

			if err := db.Ping(ctx); err != nil {
				WriteError(w, http.StatusServiceUnavailable, "db not ready")
				return
			}
		}

		WriteJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	})

	r.Route("/v1", func(r chi.Router) {
		ph := &PlansHandler{Svc: svc}
		r.Post("/loan-plans", ph.Create)
		r.Post("/loan-plans/breakdown", ph.Breakdown)

		hh := &HistoryHandler{Runs: runs}
		r.Get("/loan-plans/recent", hh.Recent)
	})

	return r
}
