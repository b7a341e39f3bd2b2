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

import "context"

// Repository defines brand persistence operations. All queries are scoped
// to a single tenant key.
type Repository interface {
	Search(ctx context.Context, tenantKey string, filter SearchFilter) ([]Brand, int, error)
	GetByID(ctx context.Context, tenantKey, id string) (*Brand, error)
	Create(ctx context.Context, brand *Brand) error
	Update(ctx context.Context, brand *Brand) error
	Delete(ctx context.Context, tenantKey, id string) error
}
