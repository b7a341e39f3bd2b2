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

package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/openshelf/openshelf/internal/audit"
	"github.com/openshelf/openshelf/internal/bootstrap"
	"github.com/openshelf/openshelf/internal/identity"
	"github.com/openshelf/openshelf/internal/observability/logger"
	"github.com/openshelf/openshelf/internal/rbac"
	"github.com/openshelf/openshelf/internal/tenant"
)

var ErrTenantInactive = errors.New("tenant is not active")

// Token is an issued access token with its expiry.
type Token struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// Service authenticates users against their tenant database and issues
// access tokens carrying the user's resolved permission set.
type Service struct {
	tenants        tenant.Repository
	connector      bootstrap.Connector
	hasher         *identity.PasswordHasher
	tokens         *TokenService
	rootConnString string
	auditLogger    audit.Logger
	log            *slog.Logger
}

// NewService creates a new auth service
func NewService(
	tenants tenant.Repository,
	connector bootstrap.Connector,
	hasher *identity.PasswordHasher,
	tokens *TokenService,
	rootConnString string,
	auditLogger audit.Logger,
	log *slog.Logger,
) *Service {
	return &Service{
		tenants:        tenants,
		connector:      connector,
		hasher:         hasher,
		tokens:         tokens,
		rootConnString: rootConnString,
		auditLogger:    auditLogger,
		log:            log,
	}
}

// Login verifies the credentials against the tenant's user store and
// returns a signed access token. Credential failures are indistinguishable
// from unknown users.
func (s *Service) Login(ctx context.Context, tenantKey, email, password string) (*Token, error) {
	t, err := s.tenants.GetByKey(ctx, strings.ToLower(strings.TrimSpace(tenantKey)))
	if errors.Is(err, tenant.ErrTenantNotFound) {
		return nil, identity.ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("failed to resolve tenant: %w", err)
	}
	if !t.IsActive {
		return nil, ErrTenantInactive
	}

	connString := strings.TrimSpace(t.ConnectionString)
	if connString == "" {
		connString = strings.TrimSpace(s.rootConnString)
	}
	if connString == "" {
		return nil, identity.ErrInvalidCredentials
	}

	db, err := s.connector.Connect(ctx, connString)
	if err != nil {
		return nil, fmt.Errorf("failed to bind tenant %s database: %w", t.Key, err)
	}

	user, err := db.Users().FindByEmail(ctx, strings.ToUpper(email))
	if errors.Is(err, identity.ErrUserNotFound) {
		s.loginFailed(ctx, t.Key, email)
		return nil, identity.ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if user.TenantKey != t.Key || !user.IsActive {
		s.loginFailed(ctx, t.Key, email)
		return nil, identity.ErrInvalidCredentials
	}

	ok, err := s.hasher.Verify(password, user.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("failed to verify password: %w", err)
	}
	if !ok {
		s.loginFailed(ctx, t.Key, email)
		return nil, identity.ErrInvalidCredentials
	}

	permissions, err := s.resolvePermissions(ctx, db.Roles(), user.ID)
	if err != nil {
		return nil, err
	}

	accessToken, expiresAt, err := s.tokens.Issue(user.ID, user.Email, t.Key, permissions)
	if err != nil {
		return nil, err
	}

	s.log.Info("user authenticated", logger.TenantKey(t.Key), logger.UserID(user.ID))
	s.auditLogger.Log(ctx, audit.Event{
		Type:     audit.TypeLoginSuccess,
		TenantID: t.Key,
		ActorID:  user.ID,
	})
	s.auditLogger.Log(ctx, audit.Event{
		Type:     audit.TypeTokenIssued,
		TenantID: t.Key,
		ActorID:  user.ID,
		Metadata: map[string]any{"expires_at": expiresAt},
	})

	return &Token{AccessToken: accessToken, TokenType: "Bearer", ExpiresAt: expiresAt}, nil
}

// resolvePermissions collects the distinct permission-claim values across
// every role linked to the user.
func (s *Service) resolvePermissions(ctx context.Context, roles identity.RoleStore, userID string) ([]string, error) {
	linked, err := roles.UserRoles(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list user roles: %w", err)
	}

	seen := make(map[string]bool)
	var permissions []string
	for _, role := range linked {
		claims, err := roles.Claims(ctx, role.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to read claims of role %s: %w", role.Name, err)
		}
		for _, c := range claims {
			if c.Type != rbac.ClaimTypePermission || seen[c.Value] {
				continue
			}
			seen[c.Value] = true
			permissions = append(permissions, c.Value)
		}
	}

	return permissions, nil
}

func (s *Service) loginFailed(ctx context.Context, tenantKey, email string) {
	s.log.Warn("login failed", logger.TenantKey(tenantKey), logger.Email(email))
	s.auditLogger.Log(ctx, audit.Event{
		Type:     audit.TypeLoginFailed,
		TenantID: tenantKey,
		Resource: email,
	})
}
