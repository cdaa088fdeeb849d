// Package api exposes the intelligence engine over HTTP.
package api

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/sells-group/adjuster-intel/internal/model"
)

// Engine computes the intelligence records served by the API.
type Engine interface {
	Adjuster(ctx context.Context, id string) (*model.AdjusterIntelligence, error)
	Carrier(ctx context.Context, name string) (*model.CarrierIntelligence, error)
	Summary(ctx context.Context) (*model.PerformanceSummary, error)
}

// Pinger reports backing store health for /health.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Options configures the router's middleware.
type Options struct {
	// RateLimit is requests per second across all clients. Zero disables
	// limiting.
	RateLimit float64
	RateBurst int

	// CORSOrigins defaults to all origins when empty.
	CORSOrigins []string

	// Pinger is checked by /health when set.
	Pinger Pinger
}

// NewRouter builds the route tree.
func NewRouter(engine Engine, opts Options) http.Handler {
	h := &handler{engine: engine, pinger: opts.Pinger}

	origins := opts.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(requestLogger)
	r.Use(chimw.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-Id"},
		ExposedHeaders: []string{"X-Request-Id"},
		MaxAge:         300,
	}))

	r.Get("/health", h.health)

	r.Group(func(r chi.Router) {
		if opts.RateLimit > 0 {
			r.Use(rateLimit(opts.RateLimit, opts.RateBurst))
		}
		r.Get("/adjusters/{id}/intelligence", h.adjusterIntelligence)
		r.Get("/carriers/{name}/intelligence", h.carrierIntelligence)
		r.Get("/analytics/performance-summary", h.performanceSummary)
	})

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	return r
}
