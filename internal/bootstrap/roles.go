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

// RoleSeeder ensures the default role set exists for a tenant and that the
// Basic role carries the baseline permission set.
type RoleSeeder struct {
	auditLogger audit.Logger
	log         *slog.Logger
}

// NewRoleSeeder creates a new role seeder
func NewRoleSeeder(auditLogger audit.Logger, log *slog.Logger) *RoleSeeder {
	return &RoleSeeder{auditLogger: auditLogger, log: log}
}

// Seed creates each missing default role. Lookups ignore tenant scoping:
// this runs before any tenant context is established. Store errors
// propagate; the orchestrator does not retry.
func (s *RoleSeeder) Seed(ctx context.Context, db Database, t *tenant.Tenant) error {
	for _, name := range rbac.DefaultRoles {
		role, err := db.Roles().FindByName(ctx, t.Key, strings.ToUpper(name))
		switch {
		case errors.Is(err, identity.ErrRoleNotFound):
			role, err = s.createRole(ctx, db, t, name)
			if err != nil {
				return err
			}
		case err != nil:
			return fmt.Errorf("failed to look up role %s for tenant %s: %w", name, t.Key, err)
		}

		if name == rbac.RoleBasic {
			if err := s.seedBasicClaims(ctx, db, role); err != nil {
				return err
			}
		}
	}

	return nil
}

func (s *RoleSeeder) createRole(ctx context.Context, db Database, t *tenant.Tenant, name string) (*identity.Role, error) {
	now := time.Now()
	role := &identity.Role{
		ID:             id.NewUUIDv7(),
		TenantKey:      t.Key,
		Name:           name,
		NormalizedName: strings.ToUpper(name),
		Description:    fmt.Sprintf("%s Role for %s Tenant", name, t.Key),
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := db.Roles().Create(ctx, role); err != nil {
		return nil, fmt.Errorf("failed to create role %s for tenant %s: %w", name, t.Key, err)
	}

	s.log.Info("seeded tenant role", logger.TenantKey(t.Key), logger.String("role", name))
	s.auditLogger.Log(ctx, audit.Event{
		Type:     audit.TypeRoleSeeded,
		TenantID: t.Key,
		Resource: name,
	})

	return role, nil
}

// seedBasicClaims unions the baseline Basic permissions into the role's
// claim set. Existing claims are never removed.
func (s *RoleSeeder) seedBasicClaims(ctx context.Context, db Database, role *identity.Role) error {
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
	for _, perm := range rbac.BasicPermissions {
		if !granted[perm] {
			missing = append(missing, identity.Claim{Type: rbac.ClaimTypePermission, Value: perm})
		}
	}
	if len(missing) == 0 {
		return nil
	}

	if err := db.Roles().AddClaims(ctx, role.ID, missing); err != nil {
		return fmt.Errorf("failed to add baseline claims to role %s: %w", role.Name, err)
	}

	return nil
}
