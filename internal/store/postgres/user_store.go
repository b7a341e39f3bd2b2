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

// UserStore implements identity.UserStore
type UserStore struct {
	pool *pgxpool.Pool
}

// NewUserStore creates a new user store
func NewUserStore(pool *pgxpool.Pool) *UserStore {
	return &UserStore{pool: pool}
}

// FindByEmail retrieves a user by normalized email. The lookup spans all
// tenants sharing the database.
func (s *UserStore) FindByEmail(ctx context.Context, normalizedEmail string) (*identity.User, error) {
	var u identity.User
	err := s.pool.QueryRow(ctx, `
		SELECT id, tenant_key, user_name, normalized_user_name,
			email, normalized_email, first_name, last_name, password_hash,
			is_active, email_confirmed, phone_confirmed, created_at, updated_at
		FROM users
		WHERE normalized_email = $1
	`, normalizedEmail).Scan(
		&u.ID, &u.TenantKey, &u.UserName, &u.NormalizedUserName,
		&u.Email, &u.NormalizedEmail, &u.FirstName, &u.LastName, &u.PasswordHash,
		&u.IsActive, &u.EmailConfirmed, &u.PhoneConfirmed, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, identity.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return &u, nil
}

// Create inserts a new user
func (s *UserStore) Create(ctx context.Context, user *identity.User) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO users (
			id, tenant_key, user_name, normalized_user_name,
			email, normalized_email, first_name, last_name, password_hash,
			is_active, email_confirmed, phone_confirmed, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`,
		user.ID, user.TenantKey, user.UserName, user.NormalizedUserName,
		user.Email, user.NormalizedEmail, user.FirstName, user.LastName, user.PasswordHash,
		user.IsActive, user.EmailConfirmed, user.PhoneConfirmed, user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return identity.ErrUserAlreadyExists
		}
		return fmt.Errorf("failed to insert user: %w", err)
	}

	return nil
}
