package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/stokpintar/stokpintar/internal/auth"
	"github.com/stokpintar/stokpintar/internal/catalog"
	"github.com/stokpintar/stokpintar/internal/forecast"
	"github.com/stokpintar/stokpintar/internal/ledger"
	"github.com/stokpintar/stokpintar/internal/observability"
	"github.com/stokpintar/stokpintar/internal/shared"
	"github.com/stokpintar/stokpintar/jobs"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger         *slog.Logger
	Config         *Config
	SessionManager *shared.SessionManager

	AuthHandler     *auth.Handler
	CatalogHandler  *catalog.Handler
	LedgerHandler   *ledger.Handler
	ForecastHandler *forecast.Handler
	JobsHandler     *jobs.Handler

	Metrics *observability.Metrics
}

// NewRouter constructs the chi.Router with StokPintar defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:         params.Logger,
		Config:         params.Config,
		SessionManager: params.SessionManager,
		Metrics:        params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api", func(api chi.Router) {
		api.Route("/auth", params.AuthHandler.MountRoutes)

		api.Group(func(g chi.Router) {
			g.Use(shared.RequireAuth)
			params.CatalogHandler.MountRoutes(g)
			params.LedgerHandler.MountRoutes(g)
			// Forecast routes install their own owner-only gate.
			g.Route("/forecast", params.ForecastHandler.MountRoutes)
			if params.JobsHandler != nil {
				g.Route("/jobs", params.JobsHandler.MountRoutes)
			}
		})
	})

	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	return r
}
