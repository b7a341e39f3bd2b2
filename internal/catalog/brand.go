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
	"errors"
	"time"
)

var (
	ErrBrandNotFound      = errors.New("brand not found")
	ErrBrandAlreadyExists = errors.New("brand already exists")
)

// Brand is a tenant-scoped catalog brand.
type Brand struct {
	ID          string    `json:"id"`
	TenantKey   string    `json:"-"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// SearchFilter carries the paging and filtering parameters of a brand
// search. Zero values are normalized to the defaults.
type SearchFilter struct {
	Page     int    `json:"page"`
	PageSize int    `json:"page_size"`
	Keyword  string `json:"keyword"`
	OrderBy  string `json:"order_by"`
}

// Normalize clamps the filter into valid ranges
func (f *SearchFilter) Normalize() {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.PageSize < 1 {
		f.PageSize = DefaultPageSize
	}
	if f.PageSize > MaxPageSize {
		f.PageSize = MaxPageSize
	}
}

// Offset returns the row offset for the normalized filter.
func (f SearchFilter) Offset() int {
	return (f.Page - 1) * f.PageSize
}

// Page is one page of search results with paging metadata.
type Page struct {
	Items      []Brand `json:"items"`
	Page       int     `json:"page"`
	PageSize   int     `json:"page_size"`
	TotalCount int     `json:"total_count"`
	TotalPages int     `json:"total_pages"`
}

// NewPage assembles the result envelope for one page of brands.
func NewPage(items []Brand, filter SearchFilter, total int) Page {
	if items == nil {
		items = []Brand{}
	}
	pages := total / filter.PageSize
	if total%filter.PageSize != 0 {
		pages++
	}
	return Page{
		Items:      items,
		Page:       filter.Page,
		PageSize:   filter.PageSize,
		TotalCount: total,
		TotalPages: pages,
	}
}

// HasNext reports whether a later page exists.
func (p Page) HasNext() bool { return p.Page < p.TotalPages }

// HasPrevious reports whether an earlier page exists.
func (p Page) HasPrevious() bool { return p.Page > 1 }
