package http

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openshelf/openshelf/internal/audit"
	"github.com/openshelf/openshelf/internal/auth"
	"github.com/openshelf/openshelf/internal/catalog"
	"github.com/openshelf/openshelf/internal/rbac"
	"github.com/openshelf/openshelf/internal/tenant"
)

const testSecret = "handler-test-secret"

type stubBrandRepo struct {
	lastTenantKey string
	brands        map[string]*catalog.Brand
}

func (r *stubBrandRepo) Search(_ context.Context, tenantKey string, _ catalog.SearchFilter) ([]catalog.Brand, int, error) {
	r.lastTenantKey = tenantKey
	var items []catalog.Brand
	for _, b := range r.brands {
		items = append(items, *b)
	}
	return items, len(items), nil
}

func (r *stubBrandRepo) GetByID(_ context.Context, tenantKey, id string) (*catalog.Brand, error) {
	r.lastTenantKey = tenantKey
	if b, ok := r.brands[id]; ok {
		return b, nil
	}
	return nil, catalog.ErrBrandNotFound
}

func (r *stubBrandRepo) Create(_ context.Context, b *catalog.Brand) error {
	r.lastTenantKey = b.TenantKey
	r.brands[b.ID] = b
	return nil
}

func (r *stubBrandRepo) Update(_ context.Context, b *catalog.Brand) error {
	r.brands[b.ID] = b
	return nil
}

func (r *stubBrandRepo) Delete(_ context.Context, tenantKey, id string) error {
	if _, ok := r.brands[id]; !ok {
		return catalog.ErrBrandNotFound
	}
	delete(r.brands, id)
	return nil
}

type memTenantRepo struct {
	tenants map[string]*tenant.Tenant
}

func (r *memTenantRepo) Create(_ context.Context, t *tenant.Tenant) error {
	r.tenants[t.Key] = t
	return nil
}

func (r *memTenantRepo) GetByKey(_ context.Context, key string) (*tenant.Tenant, error) {
	if t, ok := r.tenants[key]; ok {
		return t, nil
	}
	return nil, tenant.ErrTenantNotFound
}

func (r *memTenantRepo) Update(_ context.Context, t *tenant.Tenant) error {
	r.tenants[t.Key] = t
	return nil
}

func (r *memTenantRepo) List(_ context.Context, _, _ int) ([]*tenant.Tenant, error) {
	var out []*tenant.Tenant
	for _, t := range r.tenants {
		out = append(out, t)
	}
	return out, nil
}

type noopBootstrapper struct{ calls int }

func (b *noopBootstrapper) Bootstrap(context.Context, *tenant.Tenant) error {
	b.calls++
	return nil
}

type routerHarness struct {
	router     http.Handler
	tokens     *auth.TokenService
	brandRepo  *stubBrandRepo
	tenantRepo *memTenantRepo
	boot       *noopBootstrapper
}

func newRouterHarness(t *testing.T) *routerHarness {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	auditLogger := audit.NewSlogLogger()
	tokens := auth.NewTokenService([]byte(testSecret), "openshelf", time.Hour)

	brandRepo := &stubBrandRepo{brands: make(map[string]*catalog.Brand)}
	tenantRepo := &memTenantRepo{tenants: make(map[string]*tenant.Tenant)}
	boot := &noopBootstrapper{}

	h := NewHandler(
		tenant.NewService(tenantRepo, boot, auditLogger),
		catalog.NewService(brandRepo, log),
		nil, // token issuance is not exercised through these tests
		tokens,
		auditLogger,
	)
	return &routerHarness{
		router:     NewRouter(h, NewRateLimiter(1000, 1000)),
		tokens:     tokens,
		brandRepo:  brandRepo,
		tenantRepo: tenantRepo,
		boot:       boot,
	}
}

func (h *routerHarness) token(t *testing.T, tenantKey string, permissions []string) string {
	t.Helper()
	token, _, err := h.tokens.Issue("u1", "user@"+tenantKey+".test", tenantKey, permissions)
	require.NoError(t, err)
	return token
}

func (h *routerHarness) do(method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.router.ServeHTTP(rec, req)
	return rec
}

func TestHealthCheck(t *testing.T) {
	h := newRouterHarness(t)

	rec := h.do(http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "healthy")
}

func TestSearchBrands_RequiresToken(t *testing.T) {
	h := newRouterHarness(t)

	rec := h.do(http.MethodPost, "/api/brands/search", `{"page":1}`, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestSearchBrands_RequiresPermission(t *testing.T) {
	h := newRouterHarness(t)
	token := h.token(t, "acme", []string{rbac.PermBrandsView})

	rec := h.do(http.MethodPost, "/api/brands/search", `{"page":1}`, token)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestSearchBrands_ScopedToTokenTenant(t *testing.T) {
	h := newRouterHarness(t)
	token := h.token(t, "acme", rbac.BasicPermissions)

	rec := h.do(http.MethodPost, "/api/brands/search", `{"page":1,"page_size":10}`, token)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "acme", h.brandRepo.lastTenantKey)
	assert.Contains(t, rec.Body.String(), `"total_count":0`)
}

func TestAuthenticatedRequest_RejectsTenantHeader(t *testing.T) {
	h := newRouterHarness(t)
	token := h.token(t, "acme", rbac.BasicPermissions)

	req := httptest.NewRequest(http.MethodPost, "/api/brands/search", strings.NewReader(`{}`))
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("X-Tenant-Key", "other")
	rec := httptest.NewRecorder()
	h.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetBrand_NotFound(t *testing.T) {
	h := newRouterHarness(t)
	token := h.token(t, "acme", []string{rbac.PermBrandsView})

	rec := h.do(http.MethodGet, "/api/brands/nope", "", token)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateBrand_RoundTrip(t *testing.T) {
	h := newRouterHarness(t)
	token := h.token(t, "acme", []string{rbac.PermBrandsCreate})

	rec := h.do(http.MethodPost, "/api/brands/", `{"name":"Contoso"}`, token)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "acme", h.brandRepo.lastTenantKey)
	assert.Len(t, h.brandRepo.brands, 1)
}

func TestCreateBrand_InvalidName(t *testing.T) {
	h := newRouterHarness(t)
	token := h.token(t, "acme", []string{rbac.PermBrandsCreate})

	rec := h.do(http.MethodPost, "/api/brands/", `{"name":"  "}`, token)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateTenant_RequiresRootPermission(t *testing.T) {
	h := newRouterHarness(t)
	// A standard admin token holds the full standard taxonomy but not the
	// root-only tenant permissions.
	token := h.token(t, "acme", rbac.StandardPermissions)

	rec := h.do(http.MethodPost, "/api/tenants/", `{"key":"beta","name":"Beta","admin_email":"a@b.test"}`, token)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestCreateTenant_RootAdminBootstraps(t *testing.T) {
	h := newRouterHarness(t)
	token := h.token(t, rbac.RootTenantKey, rbac.RootPermissions)

	body := `{"key":"beta","name":"Beta Corp","admin_email":"admin@beta.test"}`
	rec := h.do(http.MethodPost, "/api/tenants/", body, token)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, 1, h.boot.calls)
	assert.Contains(t, h.tenantRepo.tenants, "beta")
}

func TestCreateTenant_DuplicateConflict(t *testing.T) {
	h := newRouterHarness(t)
	h.tenantRepo.tenants["beta"] = &tenant.Tenant{Key: "beta"}
	token := h.token(t, rbac.RootTenantKey, rbac.RootPermissions)

	rec := h.do(http.MethodPost, "/api/tenants/", `{"key":"beta","name":"Beta","admin_email":"a@b.test"}`, token)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestGetTenant_NotFound(t *testing.T) {
	h := newRouterHarness(t)
	token := h.token(t, rbac.RootTenantKey, rbac.RootPermissions)

	rec := h.do(http.MethodGet, "/api/tenants/ghost", "", token)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeactivateTenant(t *testing.T) {
	h := newRouterHarness(t)
	h.tenantRepo.tenants["beta"] = &tenant.Tenant{Key: "beta", IsActive: true}
	token := h.token(t, rbac.RootTenantKey, rbac.RootPermissions)

	rec := h.do(http.MethodPost, "/api/tenants/beta/deactivate", "", token)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, h.tenantRepo.tenants["beta"].IsActive)
}

func TestIssueToken_ValidatesBody(t *testing.T) {
	h := newRouterHarness(t)

	rec := h.do(http.MethodPost, "/api/tokens", `{"tenant_key":"acme"}`, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = h.do(http.MethodPost, "/api/tokens", `not json`, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestExpiredToken_Unauthorized(t *testing.T) {
	h := newRouterHarness(t)
	expired := auth.NewTokenService([]byte(testSecret), "openshelf", -time.Minute)
	token, _, err := expired.Issue("u1", "a@b.test", "acme", rbac.BasicPermissions)
	require.NoError(t, err)

	rec := h.do(http.MethodPost, "/api/brands/search", `{}`, token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
