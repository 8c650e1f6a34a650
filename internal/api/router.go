package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"golang.org/x/time/rate"

	"github.com/sells-group/boundary-api/internal/metrics"
)

// RouterOptions configures the middleware stack.
type RouterOptions struct {
	CORSOrigins []string // empty = allow all
	RateLimit   float64  // requests/second across /api, 0 = unlimited
	RateBurst   int
	Metrics     *metrics.Metrics // nil disables /metrics
}

// NewRouter builds the HTTP routes.
func NewRouter(h *Handler, opts RouterOptions) http.Handler {
	origins := opts.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", RequestIDHeader},
		ExposedHeaders: []string{RequestIDHeader},
		MaxAge:         300,
	}))
	if opts.Metrics != nil {
		r.Use(instrument(opts.Metrics))
	}

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, http.StatusNotFound, "not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
	})

	r.Get("/health", h.Health)
	if opts.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", opts.Metrics.Handler())
	}

	r.Route("/api", func(r chi.Router) {
		if opts.RateLimit > 0 {
			burst := opts.RateBurst
			if burst <= 0 {
				burst = 1
			}
			r.Use(rateLimit(rate.NewLimiter(rate.Limit(opts.RateLimit), burst)))
		}

		r.Get("/aimags", h.ListAimags)
		r.Get("/aimags/{aimagId}/sums", h.ListAimagSums)
		r.Get("/aimags/{aimagId}/sums/centers", h.ListAimagSumCenters)
		r.Get("/sums", h.ListSums)
		r.Get("/sums/{sumId}", h.GetSum)
		r.Get("/search", h.Search)
	})

	return r
}
