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
	"fmt"
	"log/slog"
	"strings"

	"github.com/openshelf/openshelf/internal/observability/logger"
	"github.com/openshelf/openshelf/internal/tenant"
)

// Bootstrapper provisions a tenant-scoped database and converges its seeded
// state: schema migrations, default roles, the administrator account and
// its permission-claim set. The whole sequence is idempotent; re-running it
// against an already-provisioned tenant performs no redundant writes beyond
// the monotonic permission-claim union.
type Bootstrapper struct {
	connector      Connector
	validator      *ConnStringValidator
	roles          *RoleSeeder
	admin          *AdminSeeder
	seeders        []Seeder
	provider       string
	rootConnString string
	log            *slog.Logger
}

// NewBootstrapper creates a new tenant bootstrapper. seeders run in order
// after role and admin seeding.
func NewBootstrapper(
	connector Connector,
	validator *ConnStringValidator,
	roles *RoleSeeder,
	admin *AdminSeeder,
	seeders []Seeder,
	provider string,
	rootConnString string,
	log *slog.Logger,
) *Bootstrapper {
	return &Bootstrapper{
		connector:      connector,
		validator:      validator,
		roles:          roles,
		admin:          admin,
		seeders:        seeders,
		provider:       provider,
		rootConnString: rootConnString,
		log:            log,
	}
}

// Bootstrap runs the full provisioning sequence for one tenant. Steps run
// strictly sequentially. Missing configuration (no connection string, no
// defined migrations) is a silent no-op, not an error; store failures
// during seeding propagate to the caller.
func (b *Bootstrapper) Bootstrap(ctx context.Context, t *tenant.Tenant) error {
	connString := strings.TrimSpace(t.ConnectionString)
	if connString == "" {
		connString = strings.TrimSpace(b.rootConnString)
	}
	if connString == "" {
		return nil
	}

	if !b.validator.Validate(b.provider, connString, t.Key) {
		return nil
	}

	db, err := b.connector.Connect(ctx, connString)
	if err != nil {
		return fmt.Errorf("failed to bind tenant %s database: %w", t.Key, err)
	}

	// No migrations defined means this is not a bootstrapped entity type.
	if len(db.DefinedMigrations()) == 0 {
		return nil
	}

	pending, err := db.PendingMigrations(ctx)
	if err != nil {
		return fmt.Errorf("failed to read pending migrations for tenant %s: %w", t.Key, err)
	}
	if len(pending) > 0 {
		b.log.Info("applying tenant database migrations",
			logger.TenantKey(t.Key),
			logger.String("pending", strings.Join(pending, ",")),
		)
		if err := db.ApplyMigrations(ctx); err != nil {
			return fmt.Errorf("failed to apply migrations for tenant %s: %w", t.Key, err)
		}
	}

	// An unreachable database skips seeding but not the extensions.
	if db.CanConnect(ctx) {
		b.log.Info("tenant database connection succeeded", logger.TenantKey(t.Key))

		if err := b.roles.Seed(ctx, db, t); err != nil {
			return err
		}
		if err := b.admin.Seed(ctx, db, t); err != nil {
			return err
		}
	}

	for _, seeder := range b.seeders {
		if err := seeder.Seed(ctx, db, t); err != nil {
			return err
		}
	}

	return nil
}
