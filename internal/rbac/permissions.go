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

package rbac

// -----------------------------------------------------------------------------
// Role Name Constants
// These are the canonical names for the default roles every tenant gets.
// -----------------------------------------------------------------------------

const (
	// RoleAdmin is the tenant administrator role. Its claim set is kept in
	// sync with the full standard permission taxonomy on every bootstrap.
	RoleAdmin = "Admin"

	// RoleBasic is the lowest-privilege default role. It carries the
	// baseline read-only permission set.
	RoleBasic = "Basic"
)

// DefaultRoles is the ordered list of roles seeded for every tenant.
var DefaultRoles = []string{RoleAdmin, RoleBasic}

// ClaimTypePermission is the claim type under which permission strings are
// attached to roles.
const ClaimTypePermission = "permission"

// RootTenantKey identifies the distinguished root tenant. The root tenant's
// administrator additionally receives the root-only permission set.
const RootTenantKey = "root"

// -----------------------------------------------------------------------------
// Permission Constants
// The taxonomy is append-only: permissions added in later versions are
// retroactively granted to existing administrators by the bootstrap
// convergence pass.
// -----------------------------------------------------------------------------

const (
	PermBrandsView   = "brands.view"
	PermBrandsSearch = "brands.search"
	PermBrandsCreate = "brands.create"
	PermBrandsUpdate = "brands.update"
	PermBrandsDelete = "brands.delete"

	PermUsersView   = "users.view"
	PermUsersCreate = "users.create"
	PermUsersUpdate = "users.update"
	PermUsersDelete = "users.delete"

	PermRolesView   = "roles.view"
	PermRolesCreate = "roles.create"
	PermRolesUpdate = "roles.update"
	PermRolesDelete = "roles.delete"

	PermRoleClaimsView   = "roleclaims.view"
	PermRoleClaimsUpdate = "roleclaims.update"
)

// Root-only permissions. Granted exclusively to the root tenant's
// administrator.
const (
	PermTenantsView   = "tenants.view"
	PermTenantsCreate = "tenants.create"
	PermTenantsUpdate = "tenants.update"
)

// StandardPermissions is the ordered full permission taxonomy applied to
// every tenant's Admin role.
var StandardPermissions = []string{
	PermBrandsView,
	PermBrandsSearch,
	PermBrandsCreate,
	PermBrandsUpdate,
	PermBrandsDelete,
	PermUsersView,
	PermUsersCreate,
	PermUsersUpdate,
	PermUsersDelete,
	PermRolesView,
	PermRolesCreate,
	PermRolesUpdate,
	PermRolesDelete,
	PermRoleClaimsView,
	PermRoleClaimsUpdate,
}

// RootPermissions is the ordered extension taxonomy applied only to the root
// tenant's administrator, on top of StandardPermissions.
var RootPermissions = []string{
	PermTenantsView,
	PermTenantsCreate,
	PermTenantsUpdate,
}

// BasicPermissions is the baseline permission set attached to the Basic role
// during role seeding.
var BasicPermissions = []string{
	PermBrandsView,
	PermBrandsSearch,
}
