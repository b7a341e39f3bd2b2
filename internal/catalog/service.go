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

package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/openshelf/openshelf/internal/id"
	"github.com/openshelf/openshelf/internal/observability/logger"
)

var ErrInvalidBrand = errors.New("invalid brand")

const maxNameLength = 75

// Service implements brand catalog operations on top of a Repository.
type Service struct {
	repo Repository
	log  *slog.Logger
}

// NewService creates a new catalog service
func NewService(repo Repository, log *slog.Logger) *Service {
	return &Service{repo: repo, log: log}
}

// SearchBrands returns one page of brands matching the filter.
func (s *Service) SearchBrands(ctx context.Context, tenantKey string, filter SearchFilter) (Page, error) {
	filter.Normalize()
	items, total, err := s.repo.Search(ctx, tenantKey, filter)
	if err != nil {
		return Page{}, fmt.Errorf("failed to search brands: %w", err)
	}
	return NewPage(items, filter, total), nil
}

// GetBrand fetches a single brand by ID.
func (s *Service) GetBrand(ctx context.Context, tenantKey, brandID string) (*Brand, error) {
	if brandID == "" {
		return nil, fmt.Errorf("%w: missing brand id", ErrInvalidBrand)
	}
	return s.repo.GetByID(ctx, tenantKey, brandID)
}

// CreateBrand validates and stores a new brand, assigning its ID.
func (s *Service) CreateBrand(ctx context.Context, tenantKey string, brand *Brand) error {
	if err := validate(brand); err != nil {
		return err
	}

	now := time.Now()
	brand.ID = id.NewUUIDv7()
	brand.TenantKey = tenantKey
	brand.CreatedAt = now
	brand.UpdatedAt = now

	if err := s.repo.Create(ctx, brand); err != nil {
		return fmt.Errorf("failed to create brand: %w", err)
	}

	s.log.Info("brand created", logger.TenantKey(tenantKey), logger.String("brand_id", brand.ID))
	return nil
}

// UpdateBrand validates and persists changes to an existing brand.
func (s *Service) UpdateBrand(ctx context.Context, tenantKey, brandID string, name, description string) (*Brand, error) {
	brand, err := s.repo.GetByID(ctx, tenantKey, brandID)
	if err != nil {
		return nil, err
	}

	brand.Name = name
	brand.Description = description
	if err := validate(brand); err != nil {
		return nil, err
	}

	brand.UpdatedAt = time.Now()
	if err := s.repo.Update(ctx, brand); err != nil {
		return nil, fmt.Errorf("failed to update brand: %w", err)
	}

	s.log.Info("brand updated", logger.TenantKey(tenantKey), logger.String("brand_id", brandID))
	return brand, nil
}

// DeleteBrand removes a brand.
func (s *Service) DeleteBrand(ctx context.Context, tenantKey, brandID string) error {
	if brandID == "" {
		return fmt.Errorf("%w: missing brand id", ErrInvalidBrand)
	}
	if err := s.repo.Delete(ctx, tenantKey, brandID); err != nil {
		return err
	}
	s.log.Info("brand deleted", logger.TenantKey(tenantKey), logger.String("brand_id", brandID))
	return nil
}

func validate(brand *Brand) error {
	name := strings.TrimSpace(brand.Name)
	if name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidBrand)
	}
	if len(name) > maxNameLength {
		return fmt.Errorf("%w: name exceeds %d characters", ErrInvalidBrand, maxNameLength)
	}
	brand.Name = name
	return nil
}
