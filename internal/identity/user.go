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

package identity

import (
	"context"
	"errors"
	"time"
)

// Domain errors
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUserAlreadyExists  = errors.New("user already exists")
	ErrRoleNotFound       = errors.New("role not found")
	ErrRoleAlreadyExists  = errors.New("role already exists")
	ErrLinkAlreadyExists  = errors.New("user role link already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// User represents an identity within a tenant. The identity store's lookup
// contract is case-insensitive: NormalizedUserName and NormalizedEmail hold
// the uppercased forms and carry the uniqueness constraints.
type User struct {
	ID                 string
	TenantKey          string
	UserName           string
	NormalizedUserName string
	Email              string
	NormalizedEmail    string
	FirstName          string
	LastName           string
	PasswordHash       string
	IsActive           bool
	EmailConfirmed     bool
	PhoneConfirmed     bool
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// Role represents a named role scoped to a tenant. Name + tenant key is
// unique.
type Role struct {
	ID             string
	TenantKey      string
	Name           string
	NormalizedName string
	Description    string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Claim is a typed claim attached to a role. Permission grants use the
// rbac.ClaimTypePermission type with the permission string as value.
type Claim struct {
	Type  string
	Value string
}

// UserStore defines the interface for user persistence.
//
// Lookups deliberately span all tenants (no tenant predicate): the bootstrap
// workflow runs before any tenant context is established and must see users
// created under any key.
type UserStore interface {
	// FindByEmail retrieves a user by normalized email across all tenants.
	FindByEmail(ctx context.Context, normalizedEmail string) (*User, error)

	// Create persists a new user.
	Create(ctx context.Context, user *User) error
}

// RoleStore defines the interface for role, claim and user-role-link
// persistence. Like UserStore, lookups span all tenants except where a
// tenant key is passed explicitly.
type RoleStore interface {
	// FindByName retrieves a role by normalized name and tenant key.
	FindByName(ctx context.Context, tenantKey, normalizedName string) (*Role, error)

	// Create persists a new role.
	Create(ctx context.Context, role *Role) error

	// Claims retrieves all claims attached to a role.
	Claims(ctx context.Context, roleID string) ([]Claim, error)

	// AddClaims attaches claims to a role in a single batched write.
	AddClaims(ctx context.Context, roleID string, claims []Claim) error

	// UserLinked reports whether a user-role link exists.
	UserLinked(ctx context.Context, userID, roleID string) (bool, error)

	// LinkUser creates a user-role link, persisted immediately.
	LinkUser(ctx context.Context, userID, roleID string) error

	// UserRoles retrieves all roles linked to a user.
	UserRoles(ctx context.Context, userID string) ([]*Role, error)
}
