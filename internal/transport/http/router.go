// Package httptransport assembles the HTTP surface: shared middleware, role
// guarded route groups, health and metrics endpoints.
package httptransport

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	authHandler "medid/internal/auth/handler"
	certificationHandler "medid/internal/certification/handler"
	identityHandler "medid/internal/identity/handler"
	"medid/internal/platform/metrics"
	id "medid/pkg/domain"
	dErrors "medid/pkg/domain-errors"
	"medid/pkg/platform/httputil"
	authmw "medid/pkg/platform/middleware/auth"
	"medid/pkg/platform/middleware/metadata"
	"medid/pkg/platform/middleware/request"
	"medid/pkg/platform/middleware/requesttime"
)

// HealthCheck reports whether a backing dependency is reachable.
type HealthCheck func(ctx context.Context) error

// Dependencies are the handlers and cross-cutting services the router needs.
type Dependencies struct {
	Logger      *slog.Logger
	Metrics     *metrics.Metrics
	Gatherer    prometheus.Gatherer
	Validator   authmw.JWTValidator
	Revocations authmw.TokenRevocationChecker
	Health      map[string]HealthCheck
	// PublicLimit guards the unauthenticated routes. Optional.
	PublicLimit func(http.Handler) http.Handler

	Auth          *authHandler.Handler
	Identity      *identityHandler.Handler
	Certification *certificationHandler.Handler
}

// NewRouter wires every endpoint.
func NewRouter(d Dependencies) http.Handler {
	r := chi.NewRouter()
	r.Use(request.Recovery(d.Logger))
	r.Use(request.RequestID)
	r.Use(request.Logger(d.Logger))
	r.Use(requesttime.Middleware)
	r.Use(metadata.ClientMetadata)
	r.Use(Latency(d.Metrics))

	r.Get("/healthz", healthz(d.Health))
	if d.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{}))
	}

	// public
	r.Group(func(r chi.Router) {
		if d.PublicLimit != nil {
			r.Use(d.PublicLimit)
		}
		r.Use(timeout(60 * time.Second))
		d.Auth.RegisterPublic(r)
		d.Identity.RegisterPublic(r)
	})

	r.Group(func(r chi.Router) {
		r.Use(timeout(60 * time.Second))
		r.Use(authmw.RequireAuth(d.Validator, d.Revocations, d.Logger))

		d.Auth.RegisterAuthenticated(r)

		r.Group(func(r chi.Router) {
			r.Use(authmw.RequireRole(d.Logger, id.RoleMedical, id.RoleAdministrator))
			d.Certification.RegisterSubmit(r)
		})

		r.Group(func(r chi.Router) {
			r.Use(authmw.RequireRole(d.Logger, id.RoleAdministrator))
			d.Certification.RegisterReview(r)
			d.Identity.RegisterPatients(r)
		})
	})

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		httputil.WriteError(w, dErrors.New(dErrors.CodeNotFound, "route not found"))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		httputil.WriteJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method_not_allowed"})
	})
	return r
}

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

func healthz(checks map[string]HealthCheck) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		resp := healthResponse{Status: "ok", Checks: map[string]string{}}
		status := http.StatusOK
		for name, check := range checks {
			if err := check(ctx); err != nil {
				resp.Checks[name] = "unavailable"
				resp.Status = "degraded"
				status = http.StatusServiceUnavailable
				continue
			}
			resp.Checks[name] = "ok"
		}
		httputil.WriteJSON(w, status, resp)
	}
}

// timeout bounds the handler's context; services map the expiry to a
// timeout error.
func timeout(d time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), d)
			defer cancel()
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
