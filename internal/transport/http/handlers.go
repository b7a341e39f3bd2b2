package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/openshelf/openshelf/internal/audit"
	"github.com/openshelf/openshelf/internal/auth"
	"github.com/openshelf/openshelf/internal/catalog"
	"github.com/openshelf/openshelf/internal/rbac"
	"github.com/openshelf/openshelf/internal/tenant"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// Handler holds HTTP handlers and dependencies
type Handler struct {
	tenantService *tenant.Service
	brandService  *catalog.Service
	authService   *auth.Service
	tokens        *auth.TokenService
	auditLogger   audit.Logger
}

// NewHandler creates a new HTTP handler
func NewHandler(
	tenantService *tenant.Service,
	brandService *catalog.Service,
	authService *auth.Service,
	tokens *auth.TokenService,
	auditLogger audit.Logger,
) *Handler {
	return &Handler{
		tenantService: tenantService,
		brandService:  brandService,
		authService:   authService,
		tokens:        tokens,
		auditLogger:   auditLogger,
	}
}

// NewRouter creates a new HTTP router
func NewRouter(h *Handler, rateLimiter *RateLimiter) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(RateLimitMiddleware(rateLimiter))
	r.Use(func(handler http.Handler) http.Handler {
		return otelhttp.NewHandler(handler, "http_request",
			otelhttp.WithSpanNameFormatter(func(operation string, r *http.Request) string {
				return r.Method + " " + r.URL.Path
			}),
		)
	})
	r.Use(LoggingMiddleware())
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	// Health check
	r.Get("/health", h.HealthCheck)

	r.Route("/api", func(r chi.Router) {
		// Token issuance is the only unauthenticated endpoint.
		r.Post("/tokens", h.IssueToken)

		// Tenant management. The guarding permissions belong to the
		// root-only taxonomy, so only the root administrator passes.
		r.Route("/tenants", func(r chi.Router) {
			r.Use(h.AuthMiddleware)

			r.With(RequirePermission(rbac.PermTenantsView)).Get("/", h.ListTenants)
			r.With(RequirePermission(rbac.PermTenantsCreate)).Post("/", h.CreateTenant)
			r.With(RequirePermission(rbac.PermTenantsView)).Get("/{tenantKey}", h.GetTenant)
			r.With(RequirePermission(rbac.PermTenantsUpdate)).Post("/{tenantKey}/activate", h.ActivateTenant)
			r.With(RequirePermission(rbac.PermTenantsUpdate)).Post("/{tenantKey}/deactivate", h.DeactivateTenant)
		})

		// Brand catalog, tenant-scoped through the token.
		r.Route("/brands", func(r chi.Router) {
			r.Use(h.AuthMiddleware)

			r.With(RequirePermission(rbac.PermBrandsSearch)).Post("/search", h.SearchBrands)
			r.With(RequirePermission(rbac.PermBrandsView)).Get("/{brandID}", h.GetBrand)
			r.With(RequirePermission(rbac.PermBrandsCreate)).Post("/", h.CreateBrand)
			r.With(RequirePermission(rbac.PermBrandsUpdate)).Put("/{brandID}", h.UpdateBrand)
			r.With(RequirePermission(rbac.PermBrandsDelete)).Delete("/{brandID}", h.DeleteBrand)
		})
	})

	return r
}

// HealthCheck returns the health status
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "openshelf",
	})
}

// Helper functions
func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{
		"error": message,
	})
}
