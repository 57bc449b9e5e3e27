// Package handler exposes the operational HTTP surface. The bank itself is
// driven from the terminal; this listener only serves health and metrics.
package handler

import (
	"encoding/json"
	"net/http"

	"github.com/pmarczak/zloty-bank-go/internal/infra/observability"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Status is what /healthz reports about the running bank.
type Status struct {
	Status      string `json:"status"`
	BankBalance string `json:"bankBalance"`
	Clients     int    `json:"clients"`
	Accounts    int    `json:"accounts"`
}

// StatusFunc produces a point-in-time status snapshot.
type StatusFunc func() Status

// NewAdminRouter creates the router for the operational listener.
func NewAdminRouter(status StatusFunc, metrics *observability.Metrics, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	// --- Middleware ---
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(observability.ZapLoggerMiddleware(logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Heartbeat("/ping"))

	// --- Operational endpoints ---
	r.Get("/healthz", healthzHandler(status, logger))
	r.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))

	return r
}

func healthzHandler(status StatusFunc, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(status()); err != nil {
			logger.Error("healthz encode failed", zap.Error(err))
		}
	}
}
