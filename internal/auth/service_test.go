package auth

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openshelf/openshelf/internal/audit"
	"github.com/openshelf/openshelf/internal/bootstrap"
	"github.com/openshelf/openshelf/internal/identity"
	"github.com/openshelf/openshelf/internal/rbac"
	"github.com/openshelf/openshelf/internal/tenant"
)

type stubTenantRepo struct {
	tenants map[string]*tenant.Tenant
}

func (r *stubTenantRepo) Create(context.Context, *tenant.Tenant) error { return nil }
func (r *stubTenantRepo) Update(context.Context, *tenant.Tenant) error { return nil }
func (r *stubTenantRepo) List(context.Context, int, int) ([]*tenant.Tenant, error) {
	return nil, nil
}

func (r *stubTenantRepo) GetByKey(_ context.Context, key string) (*tenant.Tenant, error) {
	if t, ok := r.tenants[key]; ok {
		return t, nil
	}
	return nil, tenant.ErrTenantNotFound
}

type stubUserStore struct {
	user *identity.User
}

func (s *stubUserStore) FindByEmail(_ context.Context, normalizedEmail string) (*identity.User, error) {
	if s.user != nil && s.user.NormalizedEmail == normalizedEmail {
		return s.user, nil
	}
	return nil, identity.ErrUserNotFound
}

func (s *stubUserStore) Create(context.Context, *identity.User) error { return nil }

type stubRoleStore struct {
	roles  []*identity.Role
	claims map[string][]identity.Claim
}

func (s *stubRoleStore) FindByName(context.Context, string, string) (*identity.Role, error) {
	return nil, identity.ErrRoleNotFound
}
func (s *stubRoleStore) Create(context.Context, *identity.Role) error { return nil }
func (s *stubRoleStore) Claims(_ context.Context, roleID string) ([]identity.Claim, error) {
	return s.claims[roleID], nil
}
func (s *stubRoleStore) AddClaims(context.Context, string, []identity.Claim) error { return nil }
func (s *stubRoleStore) UserLinked(context.Context, string, string) (bool, error) {
	return false, nil
}
func (s *stubRoleStore) LinkUser(context.Context, string, string) error { return nil }
func (s *stubRoleStore) UserRoles(context.Context, string) ([]*identity.Role, error) {
	return s.roles, nil
}

type stubDB struct {
	users *stubUserStore
	roles *stubRoleStore
}

func (db *stubDB) DefinedMigrations() []string                      { return nil }
func (db *stubDB) PendingMigrations(context.Context) ([]string, error) { return nil, nil }
func (db *stubDB) ApplyMigrations(context.Context) error            { return nil }
func (db *stubDB) CanConnect(context.Context) bool                  { return true }
func (db *stubDB) Users() identity.UserStore                        { return db.users }
func (db *stubDB) Roles() identity.RoleStore                        { return db.roles }

type stubConnector struct {
	db *stubDB
}

func (c *stubConnector) Connect(context.Context, string) (bootstrap.Database, error) {
	return c.db, nil
}

const loginPassword = "DefaultPassw0rd!"

func newLoginHarness(t *testing.T) (*Service, *stubDB) {
	t.Helper()
	hasher := identity.NewPasswordHasher(8*1024, 1, 1, 16, 32)
	hash, err := hasher.Hash(loginPassword)
	require.NoError(t, err)

	role := &identity.Role{ID: "r1", TenantKey: "acme", Name: rbac.RoleAdmin}
	db := &stubDB{
		users: &stubUserStore{user: &identity.User{
			ID:              "u1",
			TenantKey:       "acme",
			Email:           "admin@acme.test",
			NormalizedEmail: "ADMIN@ACME.TEST",
			PasswordHash:    hash,
			IsActive:        true,
		}},
		roles: &stubRoleStore{
			roles: []*identity.Role{role},
			claims: map[string][]identity.Claim{
				"r1": {
					{Type: rbac.ClaimTypePermission, Value: rbac.PermBrandsView},
					{Type: "scope", Value: "ignored"},
					{Type: rbac.ClaimTypePermission, Value: rbac.PermBrandsView},
				},
			},
		},
	}

	repo := &stubTenantRepo{tenants: map[string]*tenant.Tenant{
		"acme": {Key: "acme", ConnectionString: "postgres://localhost/acme", IsActive: true},
	}}

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := NewService(
		repo,
		&stubConnector{db: db},
		hasher,
		NewTokenService([]byte("test-secret"), "openshelf", time.Hour),
		"",
		audit.NewSlogLogger(),
		log,
	)
	return svc, db
}

func TestLogin_Success(t *testing.T) {
	svc, _ := newLoginHarness(t)

	token, err := svc.Login(context.Background(), "acme", "admin@acme.test", loginPassword)
	require.NoError(t, err)
	assert.Equal(t, "Bearer", token.TokenType)

	claims, err := NewTokenService([]byte("test-secret"), "openshelf", time.Hour).Verify(token.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.Subject)
	assert.Equal(t, "acme", claims.TenantKey)
	// Non-permission claims are ignored and duplicates collapsed.
	assert.Equal(t, []string{rbac.PermBrandsView}, claims.Permissions)
}

func TestLogin_WrongPassword(t *testing.T) {
	svc, _ := newLoginHarness(t)

	_, err := svc.Login(context.Background(), "acme", "admin@acme.test", "nope")
	assert.ErrorIs(t, err, identity.ErrInvalidCredentials)
}

func TestLogin_UnknownUser(t *testing.T) {
	svc, _ := newLoginHarness(t)

	_, err := svc.Login(context.Background(), "acme", "ghost@acme.test", loginPassword)
	assert.ErrorIs(t, err, identity.ErrInvalidCredentials)
}

func TestLogin_UnknownTenantLooksLikeBadCredentials(t *testing.T) {
	svc, _ := newLoginHarness(t)

	_, err := svc.Login(context.Background(), "nosuch", "admin@acme.test", loginPassword)
	assert.ErrorIs(t, err, identity.ErrInvalidCredentials)
}

func TestLogin_InactiveTenant(t *testing.T) {
	svc, db := newLoginHarness(t)
	_ = db

	repo := &stubTenantRepo{tenants: map[string]*tenant.Tenant{
		"acme": {Key: "acme", ConnectionString: "postgres://localhost/acme", IsActive: false},
	}}
	svc.tenants = repo

	_, err := svc.Login(context.Background(), "acme", "admin@acme.test", loginPassword)
	assert.ErrorIs(t, err, ErrTenantInactive)
}

func TestLogin_InactiveUser(t *testing.T) {
	svc, db := newLoginHarness(t)
	db.users.user.IsActive = false

	_, err := svc.Login(context.Background(), "acme", "admin@acme.test", loginPassword)
	assert.ErrorIs(t, err, identity.ErrInvalidCredentials)
}

func TestLogin_UserFromOtherTenant(t *testing.T) {
	svc, db := newLoginHarness(t)
	db.users.user.TenantKey = "other"

	_, err := svc.Login(context.Background(), "acme", "admin@acme.test", loginPassword)
	assert.ErrorIs(t, err, identity.ErrInvalidCredentials)
}
