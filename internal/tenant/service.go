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

package tenant

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/openshelf/openshelf/internal/audit"
)

// Bootstrapper provisions a tenant's database and seeds its roles and
// administrator. Implemented by the bootstrap package.
type Bootstrapper interface {
	Bootstrap(ctx context.Context, t *Tenant) error
}

// Service provides tenant management business logic
type Service struct {
	repo         Repository
	bootstrapper Bootstrapper
	auditLogger  audit.Logger
}

// NewService creates a new tenant service
func NewService(repo Repository, bootstrapper Bootstrapper, auditLogger audit.Logger) *Service {
	return &Service{
		repo:         repo,
		bootstrapper: bootstrapper,
		auditLogger:  auditLogger,
	}
}

// CreateTenant registers a new tenant in the master catalog and immediately
// bootstraps it (database provisioning, role and admin seeding).
func (s *Service) CreateTenant(ctx context.Context, key, name, connectionString, adminEmail string) (*Tenant, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, fmt.Errorf("tenant key is required")
	}
	if name == "" {
		return nil, fmt.Errorf("tenant name is required")
	}
	if adminEmail == "" {
		return nil, fmt.Errorf("tenant admin email is required")
	}

	if _, err := s.repo.GetByKey(ctx, key); err == nil {
		return nil, ErrTenantAlreadyExists
	}

	now := time.Now()
	t := &Tenant{
		Key:              key,
		Name:             name,
		ConnectionString: connectionString,
		AdminEmail:       adminEmail,
		IsActive:         true,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if err := s.repo.Create(ctx, t); err != nil {
		return nil, fmt.Errorf("failed to create tenant: %w", err)
	}

	s.auditLogger.Log(ctx, audit.Event{
		Type:     audit.TypeTenantCreated,
		TenantID: t.Key,
		Resource: t.Name,
	})

	if err := s.bootstrapper.Bootstrap(ctx, t); err != nil {
		return nil, fmt.Errorf("failed to bootstrap tenant %s: %w", t.Key, err)
	}

	return t, nil
}

// GetTenant retrieves a tenant by key
func (s *Service) GetTenant(ctx context.Context, key string) (*Tenant, error) {
	return s.repo.GetByKey(ctx, key)
}

// ListTenants lists tenants with pagination
func (s *Service) ListTenants(ctx context.Context, limit, offset int) ([]*Tenant, error) {
	return s.repo.List(ctx, limit, offset)
}

// SetActive activates or deactivates a tenant
func (s *Service) SetActive(ctx context.Context, key string, active bool) (*Tenant, error) {
	t, err := s.repo.GetByKey(ctx, key)
	if err != nil {
		return nil, err
	}

	if t.IsActive == active {
		return t, nil
	}

	t.IsActive = active
	t.UpdatedAt = time.Now()
	if err := s.repo.Update(ctx, t); err != nil {
		return nil, fmt.Errorf("failed to update tenant: %w", err)
	}

	eventType := audit.TypeTenantActivated
	if !active {
		eventType = audit.TypeTenantDeactivated
	}
	s.auditLogger.Log(ctx, audit.Event{
		Type:     eventType,
		TenantID: t.Key,
		Resource: t.Name,
	})

	return t, nil
}
