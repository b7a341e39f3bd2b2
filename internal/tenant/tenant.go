package tenant

import (
	"time"
)

// Tenant represents an isolated customer account in the master catalog.
// Key is immutable once created. ConnectionString is optional: when empty
// the tenant rides on the shared root database.
type Tenant struct {
	Key              string    `json:"key"`
	Name             string    `json:"name"`
	ConnectionString string    `json:"connection_string,omitempty"`
	AdminEmail       string    `json:"admin_email"`
	IsActive         bool      `json:"is_active"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}
