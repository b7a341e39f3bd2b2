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

	"github.com/go-chi/chi/v5"
	"github.com/openshelf/openshelf/internal/catalog"
	"github.com/openshelf/openshelf/internal/observability/logger"
)

// SearchBrands returns one page of brands for the caller's tenant
func (h *Handler) SearchBrands(w http.ResponseWriter, r *http.Request) {
	var filter catalog.SearchFilter
	if err := json.NewDecoder(r.Body).Decode(&filter); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	page, err := h.brandService.SearchBrands(r.Context(), GetTenantKey(r.Context()), filter)
	if err != nil {
		slog.ErrorContext(r.Context(), "brand search failed",
			logger.Error(err),
			logger.TenantKey(GetTenantKey(r.Context())),
		)
		respondError(w, http.StatusInternalServerError, "failed to search brands")
		return
	}

	respondJSON(w, http.StatusOK, page)
}

// GetBrand retrieves one brand by ID
func (h *Handler) GetBrand(w http.ResponseWriter, r *http.Request) {
	brandID := chi.URLParam(r, "brandID")

	brand, err := h.brandService.GetBrand(r.Context(), GetTenantKey(r.Context()), brandID)
	if err != nil {
		h.respondBrandError(w, r, err, "failed to get brand")
		return
	}

	respondJSON(w, http.StatusOK, brand)
}

// BrandRequest carries brand create/update fields
type BrandRequest struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// CreateBrand stores a new brand
func (h *Handler) CreateBrand(w http.ResponseWriter, r *http.Request) {
	var req BrandRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	brand := &catalog.Brand{Name: req.Name, Description: req.Description}
	if err := h.brandService.CreateBrand(r.Context(), GetTenantKey(r.Context()), brand); err != nil {
		h.respondBrandError(w, r, err, "failed to create brand")
		return
	}

	respondJSON(w, http.StatusCreated, brand)
}

// UpdateBrand persists changes to a brand
func (h *Handler) UpdateBrand(w http.ResponseWriter, r *http.Request) {
	brandID := chi.URLParam(r, "brandID")

	var req BrandRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	brand, err := h.brandService.UpdateBrand(r.Context(), GetTenantKey(r.Context()), brandID, req.Name, req.Description)
	if err != nil {
		h.respondBrandError(w, r, err, "failed to update brand")
		return
	}

	respondJSON(w, http.StatusOK, brand)
}

// DeleteBrand removes a brand
func (h *Handler) DeleteBrand(w http.ResponseWriter, r *http.Request) {
	brandID := chi.URLParam(r, "brandID")

	if err := h.brandService.DeleteBrand(r.Context(), GetTenantKey(r.Context()), brandID); err != nil {
		h.respondBrandError(w, r, err, "failed to delete brand")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "brand deleted"})
}

func (h *Handler) respondBrandError(w http.ResponseWriter, r *http.Request, err error, message string) {
	switch {
	case errors.Is(err, catalog.ErrBrandNotFound):
		respondError(w, http.StatusNotFound, "brand not found")
	case errors.Is(err, catalog.ErrBrandAlreadyExists):
		respondError(w, http.StatusConflict, "brand already exists")
	case errors.Is(err, catalog.ErrInvalidBrand):
		respondError(w, http.StatusBadRequest, err.Error())
	default:
		slog.ErrorContext(r.Context(), message,
			logger.Error(err),
			logger.TenantKey(GetTenantKey(r.Context())),
		)
		respondError(w, http.StatusInternalServerError, message)
	}
}
