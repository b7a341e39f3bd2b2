package tenant

import (
	"context"
	"errors"
)

var (
	ErrTenantNotFound      = errors.New("tenant not found")
	ErrTenantAlreadyExists = errors.New("tenant already exists")
)

// Repository defines the interface for tenant catalog storage
type Repository interface {
	Create(ctx context.Context, tenant *Tenant) error
	GetByKey(ctx context.Context, key string) (*Tenant, error)
	Update(ctx context.Context, tenant *Tenant) error
	List(ctx context.Context, limit, offset int) ([]*Tenant, error)
}
