// Copyright 2026 The OpenShelf Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/openshelf/openshelf/internal/audit"
	"github.com/openshelf/openshelf/internal/id"
	"github.com/openshelf/openshelf/internal/identity"
	"github.com/openshelf/openshelf/internal/observability/logger"
	"github.com/openshelf/openshelf/internal/rbac"
	"github.com/openshelf/openshelf/internal/tenant"
)

// DefaultPassword is the initial password for seeded administrator
// accounts. Administrators are expected to change it on first login.
const DefaultPassword = "DefaultPassw0rd!"

// AdminUserName derives the canonical administrator username from a tenant
// key: lowercased trimmed key joined with the Admin role name.
func AdminUserName(tenantKey string) string {
	return strings.ToLower(strings.TrimSpace(tenantKey) + "." + rbac.RoleAdmin)
}

// AdminSeeder ensures the tenant's administrator account exists, is linked
// to the Admin role, and that the role's permission-claim set is a superset
// of the permission taxonomy.
type AdminSeeder struct {
	hasher      *identity.PasswordHasher
	rootEmail   string
	auditLogger audit.Logger
	log         *slog.Logger
}

// NewAdminSeeder creates a new admin seeder. rootEmail identifies the root
// tenant's administrator, the only account granted the root-only taxonomy.
func NewAdminSeeder(hasher *identity.PasswordHasher, rootEmail string, auditLogger audit.Logger, log *slog.Logger) *AdminSeeder {
	return &AdminSeeder{
		hasher:      hasher,
		rootEmail:   rootEmail,
		auditLogger: auditLogger,
		log:         log,
	}
}

// Seed runs the admin-user seeding and role-assignment steps. A tenant
// without a key or admin email is skipped entirely.
func (s *AdminSeeder) Seed(ctx context.Context, db Database, t *tenant.Tenant) error {
	if strings.TrimSpace(t.Key) == "" || t.AdminEmail == "" {
		return nil
	}

	if err := s.seedUser(ctx, db, t); err != nil {
		return err
	}

	return s.assignRole(ctx, db, t)
}

// seedUser creates the administrator account if no user matches the admin
// email. The lookup spans all tenants.
func (s *AdminSeeder) seedUser(ctx context.Context, db Database, t *tenant.Tenant) error {
	_, err := db.Users().FindByEmail(ctx, strings.ToUpper(t.AdminEmail))
	if err == nil {
		return nil
	}
	if !errors.Is(err, identity.ErrUserNotFound) {
		return fmt.Errorf("failed to look up admin user for tenant %s: %w", t.Key, err)
	}

	hash, err := s.hasher.Hash(DefaultPassword)
	if err != nil {
		return fmt.Errorf("failed to hash default admin password: %w", err)
	}

	key := strings.ToLower(strings.TrimSpace(t.Key))
	userName := AdminUserName(t.Key)
	now := time.Now()
	user := &identity.User{
		ID:                 id.NewUUIDv7(),
		TenantKey:          key,
		UserName:           userName,
		NormalizedUserName: strings.ToUpper(userName),
		Email:              t.AdminEmail,
		NormalizedEmail:    strings.ToUpper(t.AdminEmail),
		FirstName:          key,
		LastName:           rbac.RoleAdmin,
		PasswordHash:       hash,
		IsActive:           true,
		EmailConfirmed:     true,
		PhoneConfirmed:     true,
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	if err := db.Users().Create(ctx, user); err != nil {
		return fmt.Errorf("failed to create admin user for tenant %s: %w", t.Key, err)
	}

	s.log.Info("seeded tenant admin user", logger.TenantKey(t.Key), logger.Email(t.AdminEmail))
	s.auditLogger.Log(ctx, audit.Event{
		Type:     audit.TypeUserCreated,
		TenantID: t.Key,
		ActorID:  user.ID,
		Resource: user.UserName,
	})

	return nil
}

// assignRole links the administrator to the Admin role and converges the
// role's permission claims with the taxonomy. If either the user or the
// role cannot be found the step is skipped without error.
func (s *AdminSeeder) assignRole(ctx context.Context, db Database, t *tenant.Tenant) error {
	user, err := db.Users().FindByEmail(ctx, strings.ToUpper(t.AdminEmail))
	if errors.Is(err, identity.ErrUserNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to look up admin user for tenant %s: %w", t.Key, err)
	}

	role, err := db.Roles().FindByName(ctx, t.Key, strings.ToUpper(rbac.RoleAdmin))
	if errors.Is(err, identity.ErrRoleNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to look up admin role for tenant %s: %w", t.Key, err)
	}

	linked, err := db.Roles().UserLinked(ctx, user.ID, role.ID)
	if err != nil {
		return fmt.Errorf("failed to check admin role link for tenant %s: %w", t.Key, err)
	}
	if !linked {
		// Persisted immediately, separate from the batched claim save below.
		if err := db.Roles().LinkUser(ctx, user.ID, role.ID); err != nil && !errors.Is(err, identity.ErrLinkAlreadyExists) {
			return fmt.Errorf("failed to link admin user to role for tenant %s: %w", t.Key, err)
		}
		s.auditLogger.Log(ctx, audit.Event{
			Type:     audit.TypeRoleAssigned,
			TenantID: t.Key,
			ActorID:  user.ID,
			Resource: role.Name,
		})
	}

	return s.convergeClaims(ctx, db, t, role)
}

// convergeClaims unions every missing taxonomy permission into the admin
// role's claim set. The claim snapshot is fetched once and shared between
// the standard and root-only passes, so duplicate suppression works across
// both by exact string equality. All additions go out in one batched save.
func (s *AdminSeeder) convergeClaims(ctx context.Context, db Database, t *tenant.Tenant, role *identity.Role) error {
	claims, err := db.Roles().Claims(ctx, role.ID)
	if err != nil {
		return fmt.Errorf("failed to read claims of role %s: %w", role.Name, err)
	}

	granted := make(map[string]bool, len(claims))
	for _, c := range claims {
		if c.Type == rbac.ClaimTypePermission {
			granted[c.Value] = true
		}
	}

	var missing []identity.Claim
	appendMissing := func(perms []string) {
		for _, p := range perms {
			if !granted[p] {
				granted[p] = true
				missing = append(missing, identity.Claim{Type: rbac.ClaimTypePermission, Value: p})
			}
		}
	}

	appendMissing(rbac.StandardPermissions)
	if t.Key == rbac.RootTenantKey && t.AdminEmail == s.rootEmail {
		appendMissing(rbac.RootPermissions)
	}

	if len(missing) == 0 {
		return nil
	}

	if err := db.Roles().AddClaims(ctx, role.ID, missing); err != nil {
		return fmt.Errorf("failed to add permission claims to role %s: %w", role.Name, err)
	}

	s.log.Info("granted missing admin permissions",
		logger.TenantKey(t.Key),
		logger.String("role", role.Name),
		slog.Int("count", len(missing)),
	)
	s.auditLogger.Log(ctx, audit.Event{
		Type:     audit.TypePermissionsGranted,
		TenantID: t.Key,
		Resource: role.Name,
		Metadata: map[string]any{"count": len(missing)},
	})

	return nil
}
