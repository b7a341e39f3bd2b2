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
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/openshelf/openshelf/internal/identity"
)

// RoleStore implements identity.RoleStore
type RoleStore struct {
	pool *pgxpool.Pool
}

// NewRoleStore creates a new role store
func NewRoleStore(pool *pgxpool.Pool) *RoleStore {
	return &RoleStore{pool: pool}
}

// FindByName retrieves a role by tenant key and normalized name
func (s *RoleStore) FindByName(ctx context.Context, tenantKey, normalizedName string) (*identity.Role, error) {
	var r identity.Role
	err := s.pool.QueryRow(ctx, `
		SELECT id, tenant_key, name, normalized_name, description, created_at, updated_at
		FROM roles
		WHERE tenant_key = $1 AND normalized_name = $2
	`, tenantKey, normalizedName).Scan(
		&r.ID, &r.TenantKey, &r.Name, &r.NormalizedName, &r.Description, &r.CreatedAt, &r.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, identity.ErrRoleNotFound
		}
		return nil, fmt.Errorf("failed to get role: %w", err)
	}

	return &r, nil
}

// Create inserts a new role
func (s *RoleStore) Create(ctx context.Context, role *identity.Role) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO roles (id, tenant_key, name, normalized_name, description, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, role.ID, role.TenantKey, role.Name, role.NormalizedName, role.Description, role.CreatedAt, role.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return identity.ErrRoleAlreadyExists
		}
		return fmt.Errorf("failed to insert role: %w", err)
	}

	return nil
}

// Claims retrieves all claims attached to a role
func (s *RoleStore) Claims(ctx context.Context, roleID string) ([]identity.Claim, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT claim_type, claim_value
		FROM role_claims
		WHERE role_id = $1
	`, roleID)
	if err != nil {
		return nil, fmt.Errorf("failed to query role claims: %w", err)
	}
	defer rows.Close()

	var claims []identity.Claim
	for rows.Next() {
		var c identity.Claim
		if err := rows.Scan(&c.Type, &c.Value); err != nil {
			return nil, fmt.Errorf("failed to scan claim: %w", err)
		}
		claims = append(claims, c)
	}

	return claims, rows.Err()
}

// AddClaims attaches claims to a role as one batched write. The primary
// key on (role, type, value) guards against concurrent duplicates.
func (s *RoleStore) AddClaims(ctx context.Context, roleID string, claims []identity.Claim) error {
	if len(claims) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, c := range claims {
		batch.Queue(`
			INSERT INTO role_claims (role_id, claim_type, claim_value)
			VALUES ($1, $2, $3)
			ON CONFLICT DO NOTHING
		`, roleID, c.Type, c.Value)
	}

	results := s.pool.SendBatch(ctx, batch)
	defer results.Close()

	for range claims {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("failed to insert role claim: %w", err)
		}
	}

	return nil
}

// UserLinked reports whether a user-role link exists
func (s *RoleStore) UserLinked(ctx context.Context, userID, roleID string) (bool, error) {
	var exists bool
	err := s.pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM user_roles WHERE user_id = $1 AND role_id = $2
		)
	`, userID, roleID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check user role link: %w", err)
	}

	return exists, nil
}

// LinkUser creates a user-role link
func (s *RoleStore) LinkUser(ctx context.Context, userID, roleID string) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO user_roles (user_id, role_id)
		VALUES ($1, $2)
	`, userID, roleID)
	if err != nil {
		if isUniqueViolation(err) {
			return identity.ErrLinkAlreadyExists
		}
		return fmt.Errorf("failed to link user to role: %w", err)
	}

	return nil
}

// UserRoles retrieves all roles linked to a user
func (s *RoleStore) UserRoles(ctx context.Context, userID string) ([]*identity.Role, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT r.id, r.tenant_key, r.name, r.normalized_name, r.description, r.created_at, r.updated_at
		FROM roles r
		JOIN user_roles ur ON ur.role_id = r.id
		WHERE ur.user_id = $1
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query user roles: %w", err)
	}
	defer rows.Close()

	var roles []*identity.Role
	for rows.Next() {
		var r identity.Role
		if err := rows.Scan(&r.ID, &r.TenantKey, &r.Name, &r.NormalizedName, &r.Description, &r.CreatedAt, &r.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan role: %w", err)
		}
		roles = append(roles, &r)
	}

	return roles, rows.Err()
}
