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

package http

import "context"

type contextKey string

const (
	tenantKeyKey   contextKey = "tenant_key"
	userIDKey      contextKey = "user_id"
	permissionsKey contextKey = "permissions"
)

// GetUserID retrieves the authenticated user ID from context.
func GetUserID(ctx context.Context) string {
	if val, ok := ctx.Value(userIDKey).(string); ok {
		return val
	}
	return ""
}

// GetTenantKey retrieves the tenant key from context. Tenant context is
// derived exclusively from the verified access token, never from headers.
func GetTenantKey(ctx context.Context) string {
	if val, ok := ctx.Value(tenantKeyKey).(string); ok {
		return val
	}
	return ""
}

// GetPermissions retrieves the caller's permission set from context.
func GetPermissions(ctx context.Context) []string {
	if val, ok := ctx.Value(permissionsKey).([]string); ok {
		return val
	}
	return nil
}

// HasPermission reports whether the caller holds the permission.
func HasPermission(ctx context.Context, permission string) bool {
	for _, p := range GetPermissions(ctx) {
		if p == permission {
			return true
		}
	}
	return false
}
