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

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/openshelf/openshelf/internal/observability/logger"
	"github.com/openshelf/openshelf/internal/tenant"
)

// CreateTenantRequest carries a new tenant registration
type CreateTenantRequest struct {
	Key              string `json:"key"`
	Name             string `json:"name"`
	ConnectionString string `json:"connection_string,omitempty"`
	AdminEmail       string `json:"admin_email"`
}

// CreateTenant registers a tenant and bootstraps its database
func (h *Handler) CreateTenant(w http.ResponseWriter, r *http.Request) {
	var req CreateTenantRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	t, err := h.tenantService.CreateTenant(r.Context(), req.Key, req.Name, req.ConnectionString, req.AdminEmail)
	if err != nil {
		if errors.Is(err, tenant.ErrTenantAlreadyExists) {
			respondError(w, http.StatusConflict, "tenant already exists")
			return
		}
		slog.ErrorContext(r.Context(), "failed to create tenant",
			logger.Error(err),
			logger.TenantKey(req.Key),
		)
		respondError(w, http.StatusInternalServerError, "failed to create tenant")
		return
	}

	respondJSON(w, http.StatusCreated, t)
}

// ListTenants lists tenants with limit/offset paging
func (h *Handler) ListTenants(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 50)
	offset := queryInt(r, "offset", 0)

	tenants, err := h.tenantService.ListTenants(r.Context(), limit, offset)
	if err != nil {
		slog.ErrorContext(r.Context(), "failed to list tenants", logger.Error(err))
		respondError(w, http.StatusInternalServerError, "failed to list tenants")
		return
	}
	if tenants == nil {
		tenants = []*tenant.Tenant{}
	}

	respondJSON(w, http.StatusOK, map[string]any{"tenants": tenants})
}

// GetTenant retrieves a tenant by key
func (h *Handler) GetTenant(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "tenantKey")

	t, err := h.tenantService.GetTenant(r.Context(), key)
	if err != nil {
		if errors.Is(err, tenant.ErrTenantNotFound) {
			respondError(w, http.StatusNotFound, "tenant not found")
			return
		}
		slog.ErrorContext(r.Context(), "failed to get tenant", logger.Error(err), logger.TenantKey(key))
		respondError(w, http.StatusInternalServerError, "failed to get tenant")
		return
	}

	respondJSON(w, http.StatusOK, t)
}

// ActivateTenant re-enables a tenant
func (h *Handler) ActivateTenant(w http.ResponseWriter, r *http.Request) {
	h.setTenantActive(w, r, true)
}

// DeactivateTenant disables a tenant
func (h *Handler) DeactivateTenant(w http.ResponseWriter, r *http.Request) {
	h.setTenantActive(w, r, false)
}

func (h *Handler) setTenantActive(w http.ResponseWriter, r *http.Request, active bool) {
	key := chi.URLParam(r, "tenantKey")

	t, err := h.tenantService.SetActive(r.Context(), key, active)
	if err != nil {
		if errors.Is(err, tenant.ErrTenantNotFound) {
			respondError(w, http.StatusNotFound, "tenant not found")
			return
		}
		slog.ErrorContext(r.Context(), "failed to update tenant", logger.Error(err), logger.TenantKey(key))
		respondError(w, http.StatusInternalServerError, "failed to update tenant")
		return
	}

	respondJSON(w, http.StatusOK, t)
}

func queryInt(r *http.Request, name string, def int) int {
	if v := r.URL.Query().Get(name); v != "" {
		if i, err := strconv.Atoi(v); err == nil && i >= 0 {
			return i
		}
	}
	return def
}
