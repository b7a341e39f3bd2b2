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

	"github.com/openshelf/openshelf/internal/identity"
	"github.com/openshelf/openshelf/internal/tenant"
)

// Database is the per-tenant persistence handle the bootstrapper drives.
// Implementations are expected to bind lazily: constructing one must not
// require the database to be reachable, since reachability is probed
// separately via CanConnect.
type Database interface {
	// DefinedMigrations lists every migration the schema defines,
	// applied or not. An empty list means the entity type is not
	// bootstrapped at all.
	DefinedMigrations() []string

	// PendingMigrations lists defined migrations not yet applied.
	PendingMigrations(ctx context.Context) ([]string, error)

	// ApplyMigrations applies all pending migrations in order.
	ApplyMigrations(ctx context.Context) error

	// CanConnect reports whether the database answers a ping.
	CanConnect(ctx context.Context) bool

	// Users returns the tenant database's user store.
	Users() identity.UserStore

	// Roles returns the tenant database's role store.
	Roles() identity.RoleStore
}

// Connector binds a resolved connection string to a tenant database handle.
// Implementations own the handle's lifecycle and may cache and reuse
// handles across bootstrap runs and request serving.
type Connector interface {
	Connect(ctx context.Context, connString string) (Database, error)
}

// Seeder is a tenant-aware seed extension. Extensions run after role and
// admin seeding, in the order supplied to the bootstrapper; an extension
// failure propagates and aborts the remaining sequence.
type Seeder interface {
	Seed(ctx context.Context, db Database, t *tenant.Tenant) error
}
