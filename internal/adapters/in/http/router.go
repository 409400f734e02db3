// internal/adapters/in/http/router.go
package httpin

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"phonemall/internal/adapters/in/http/middleware"
)

// HealthCheck reports whether a backing dependency is reachable.
type HealthCheck func(ctx context.Context) error

// RouterDeps collects everything main wires into the HTTP surface.
type RouterDeps struct {
	Mall    http.Handler
	Console http.Handler

	Verifier middleware.TokenVerifier

	AllowedOrigins []string
	RateLimitRPS   float64
	RateLimitBurst int
	SessionTTL     time.Duration
	SecureCookies  bool

	// Health checks run by /healthz, keyed by name.
	Health map[string]HealthCheck
}

// NewRouter builds the root handler. /mall and /console are mounted only
// when their handlers are present.
func NewRouter(deps RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLogger)
	r.Use(middleware.Recover)
	r.Use(middleware.CORS(deps.AllowedOrigins))
	r.Use(middleware.NewRateLimiter(deps.RateLimitRPS, deps.RateLimitBurst).Handler)

	r.Get("/healthz", healthz(deps.Health))

	r.Group(func(r chi.Router) {
		r.Use(middleware.Identity(deps.Verifier))
		r.Use(middleware.Session(middleware.SessionOptions{TTL: deps.SessionTTL, Secure: deps.SecureCookies}))

		if deps.Mall != nil {
			r.Mount("/mall", deps.Mall)
		}
		if deps.Console != nil {
			r.Mount("/console", deps.Console)
		}
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		render.Status(r, http.StatusNotFound)
		render.JSON(w, r, map[string]string{"error": "not_found"})
	})

	return r
}

func healthz(checks map[string]HealthCheck) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()

		status := http.StatusOK
		out := map[string]string{}
		for name, check := range checks {
			if err := check(ctx); err != nil {
				out[name] = err.Error()
				status = http.StatusServiceUnavailable
				continue
			}
			out[name] = "ok"
		}
		render.Status(r, status)
		render.JSON(w, r, map[string]any{"status": http.StatusText(status), "checks": out})
	}
}
