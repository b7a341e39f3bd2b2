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

	"github.com/openshelf/openshelf/internal/auth"
	"github.com/openshelf/openshelf/internal/identity"
	"github.com/openshelf/openshelf/internal/observability/logger"
)

// TokenRequest carries tenant-scoped credentials
type TokenRequest struct {
	TenantKey string `json:"tenant_key"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

// IssueToken authenticates the credentials and returns an access token
func (h *Handler) IssueToken(w http.ResponseWriter, r *http.Request) {
	var req TokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.TenantKey == "" || req.Email == "" || req.Password == "" {
		respondError(w, http.StatusBadRequest, "tenant_key, email and password are required")
		return
	}

	token, err := h.authService.Login(r.Context(), req.TenantKey, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, identity.ErrInvalidCredentials):
			respondError(w, http.StatusUnauthorized, "invalid credentials")
		case errors.Is(err, auth.ErrTenantInactive):
			respondError(w, http.StatusUnauthorized, "tenant is not active")
		default:
			slog.ErrorContext(r.Context(), "token issuance failed",
				logger.Error(err),
				logger.TenantKey(req.TenantKey),
			)
			respondError(w, http.StatusInternalServerError, "failed to issue token")
		}
		return
	}

	respondJSON(w, http.StatusOK, token)
}
