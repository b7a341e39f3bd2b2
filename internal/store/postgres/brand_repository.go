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
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/openshelf/openshelf/internal/catalog"
	"github.com/openshelf/openshelf/internal/tenant"
)

// brandOrderColumns whitelists sortable columns.
var brandOrderColumns = map[string]string{
	"name":       "name",
	"created_at": "created_at",
	"updated_at": "updated_at",
}

// BrandRepository implements catalog.Repository. Brands live in the tenant
// database, so every operation first routes to the tenant's pool through
// the shared connector.
type BrandRepository struct {
	tenants        tenant.Repository
	connector      *Connector
	rootConnString string
}

// NewBrandRepository creates a new brand repository
func NewBrandRepository(tenants tenant.Repository, connector *Connector, rootConnString string) *BrandRepository {
	return &BrandRepository{
		tenants:        tenants,
		connector:      connector,
		rootConnString: rootConnString,
	}
}

// tenantPool resolves the tenant's database pool, falling back to the
// shared root database when the tenant has no connection string.
func (r *BrandRepository) tenantPool(ctx context.Context, tenantKey string) (*pgxpool.Pool, error) {
	t, err := r.tenants.GetByKey(ctx, tenantKey)
	if err != nil {
		return nil, err
	}

	connString := strings.TrimSpace(t.ConnectionString)
	if connString == "" {
		connString = strings.TrimSpace(r.rootConnString)
	}
	if connString == "" {
		return nil, fmt.Errorf("tenant %s has no database", tenantKey)
	}

	db, err := r.connector.connect(ctx, connString)
	if err != nil {
		return nil, err
	}
	return db.pool, nil
}

// Search returns one page of brands plus the total match count.
func (r *BrandRepository) Search(ctx context.Context, tenantKey string, filter catalog.SearchFilter) ([]catalog.Brand, int, error) {
	pool, err := r.tenantPool(ctx, tenantKey)
	if err != nil {
		return nil, 0, err
	}

	where := "tenant_key = $1"
	args := []any{tenantKey}
	if filter.Keyword != "" {
		where += " AND (name ILIKE $2 OR description ILIKE $2)"
		args = append(args, "%"+filter.Keyword+"%")
	}

	var total int
	if err := pool.QueryRow(ctx, "SELECT COUNT(*) FROM brands WHERE "+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count brands: %w", err)
	}

	orderBy, ok := brandOrderColumns[strings.ToLower(filter.OrderBy)]
	if !ok {
		orderBy = "name"
	}

	query := fmt.Sprintf(
		"SELECT id, tenant_key, name, description, created_at, updated_at FROM brands WHERE %s ORDER BY %s LIMIT %d OFFSET %d",
		where, orderBy, filter.PageSize, filter.Offset(),
	)
	rows, err := pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to search brands: %w", err)
	}
	defer rows.Close()

	var brands []catalog.Brand
	for rows.Next() {
		var b catalog.Brand
		if err := rows.Scan(&b.ID, &b.TenantKey, &b.Name, &b.Description, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, 0, fmt.Errorf("failed to scan brand: %w", err)
		}
		brands = append(brands, b)
	}

	return brands, total, rows.Err()
}

// GetByID retrieves a brand by ID within the tenant scope
func (r *BrandRepository) GetByID(ctx context.Context, tenantKey, id string) (*catalog.Brand, error) {
	pool, err := r.tenantPool(ctx, tenantKey)
	if err != nil {
		return nil, err
	}

	var b catalog.Brand
	err = pool.QueryRow(ctx, `
		SELECT id, tenant_key, name, description, created_at, updated_at
		FROM brands
		WHERE tenant_key = $1 AND id = $2
	`, tenantKey, id).Scan(&b.ID, &b.TenantKey, &b.Name, &b.Description, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, catalog.ErrBrandNotFound
		}
		return nil, fmt.Errorf("failed to get brand: %w", err)
	}

	return &b, nil
}

// Create inserts a new brand
func (r *BrandRepository) Create(ctx context.Context, brand *catalog.Brand) error {
	pool, err := r.tenantPool(ctx, brand.TenantKey)
	if err != nil {
		return err
	}

	_, err = pool.Exec(ctx, `
		INSERT INTO brands (id, tenant_key, name, description, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, brand.ID, brand.TenantKey, brand.Name, brand.Description, brand.CreatedAt, brand.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return catalog.ErrBrandAlreadyExists
		}
		return fmt.Errorf("failed to insert brand: %w", err)
	}

	return nil
}

// Update persists changes to a brand
func (r *BrandRepository) Update(ctx context.Context, brand *catalog.Brand) error {
	pool, err := r.tenantPool(ctx, brand.TenantKey)
	if err != nil {
		return err
	}

	result, err := pool.Exec(ctx, `
		UPDATE brands SET name = $3, description = $4, updated_at = $5
		WHERE tenant_key = $1 AND id = $2
	`, brand.TenantKey, brand.ID, brand.Name, brand.Description, brand.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return catalog.ErrBrandAlreadyExists
		}
		return fmt.Errorf("failed to update brand: %w", err)
	}
	if result.RowsAffected() == 0 {
		return catalog.ErrBrandNotFound
	}

	return nil
}

// Delete removes a brand
func (r *BrandRepository) Delete(ctx context.Context, tenantKey, id string) error {
	pool, err := r.tenantPool(ctx, tenantKey)
	if err != nil {
		return err
	}

	result, err := pool.Exec(ctx, `
		DELETE FROM brands WHERE tenant_key = $1 AND id = $2
	`, tenantKey, id)
	if err != nil {
		return fmt.Errorf("failed to delete brand: %w", err)
	}
	if result.RowsAffected() == 0 {
		return catalog.ErrBrandNotFound
	}

	return nil
}
