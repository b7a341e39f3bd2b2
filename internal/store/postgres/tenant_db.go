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

package postgres

import (
	"context"
	"embed"
	"fmt"
	"sync"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/openshelf/openshelf/internal/bootstrap"
	"github.com/openshelf/openshelf/internal/identity"
)

//go:embed migrations/tenant/*.sql
var tenantMigrations embed.FS

const tenantMigrationsDir = "migrations/tenant"

// Connector binds tenant connection strings to pooled tenant databases.
// Pools are cached per connection string, so tenants sharing a database
// share one pool. Binding is lazy: no connection is established until the
// pool is first used.
type Connector struct {
	mu    sync.Mutex
	pools map[string]*TenantDB
}

// NewConnector creates a new tenant database connector
func NewConnector() *Connector {
	return &Connector{pools: make(map[string]*TenantDB)}
}

// Connect returns the tenant database bound to the connection string.
func (c *Connector) Connect(ctx context.Context, connString string) (bootstrap.Database, error) {
	return c.connect(ctx, connString)
}

func (c *Connector) connect(ctx context.Context, connString string) (*TenantDB, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if db, ok := c.pools[connString]; ok {
		return db, nil
	}

	poolConfig, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("failed to parse tenant connection string: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create tenant connection pool: %w", err)
	}

	db := newTenantDB(pool)
	c.pools[connString] = db
	return db, nil
}

// Close closes every cached pool.
func (c *Connector) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, db := range c.pools {
		db.pool.Close()
	}
	c.pools = make(map[string]*TenantDB)
}

// TenantDB is one tenant-scoped database: its pool, its migration state
// and its identity stores. Implements bootstrap.Database.
type TenantDB struct {
	pool  *pgxpool.Pool
	users *UserStore
	roles *RoleStore
}

func newTenantDB(pool *pgxpool.Pool) *TenantDB {
	return &TenantDB{
		pool:  pool,
		users: NewUserStore(pool),
		roles: NewRoleStore(pool),
	}
}

// DefinedMigrations lists the embedded tenant migration scripts in apply
// order.
func (db *TenantDB) DefinedMigrations() []string {
	entries, err := tenantMigrations.ReadDir(tenantMigrationsDir)
	if err != nil {
		return nil
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

// PendingMigrations lists defined migrations not yet recorded as applied.
func (db *TenantDB) PendingMigrations(ctx context.Context) ([]string, error) {
	if _, err := db.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			name       TEXT PRIMARY KEY,
			applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
	`); err != nil {
		return nil, fmt.Errorf("failed to ensure migration table: %w", err)
	}

	rows, err := db.pool.Query(ctx, `SELECT name FROM schema_migrations`)
	if err != nil {
		return nil, fmt.Errorf("failed to read applied migrations: %w", err)
	}
	defer rows.Close()

	applied := make(map[string]bool)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan migration name: %w", err)
		}
		applied[name] = true
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	var pending []string
	for _, name := range db.DefinedMigrations() {
		if !applied[name] {
			pending = append(pending, name)
		}
	}
	return pending, nil
}

// ApplyMigrations runs each pending migration script in its own
// transaction, recording it as applied.
func (db *TenantDB) ApplyMigrations(ctx context.Context) error {
	pending, err := db.PendingMigrations(ctx)
	if err != nil {
		return err
	}

	for _, name := range pending {
		script, err := tenantMigrations.ReadFile(tenantMigrationsDir + "/" + name)
		if err != nil {
			return fmt.Errorf("failed to read migration %s: %w", name, err)
		}

		tx, err := db.pool.Begin(ctx)
		if err != nil {
			return fmt.Errorf("failed to begin migration %s: %w", name, err)
		}
		if _, err := tx.Exec(ctx, string(script)); err != nil {
			_ = tx.Rollback(ctx)
			return fmt.Errorf("failed to apply migration %s: %w", name, err)
		}
		if _, err := tx.Exec(ctx, `INSERT INTO schema_migrations (name) VALUES ($1)`, name); err != nil {
			_ = tx.Rollback(ctx)
			return fmt.Errorf("failed to record migration %s: %w", name, err)
		}
		if err := tx.Commit(ctx); err != nil {
			return fmt.Errorf("failed to commit migration %s: %w", name, err)
		}
	}

	return nil
}

// CanConnect reports whether the database answers a ping.
func (db *TenantDB) CanConnect(ctx context.Context) bool {
	return db.pool.Ping(ctx) == nil
}

// Users returns the tenant's user store
func (db *TenantDB) Users() identity.UserStore { return db.users }

// Roles returns the tenant's role store
func (db *TenantDB) Roles() identity.RoleStore { return db.roles }
