/*
 * Copyright 2026 lunarhue.
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package types

const (
	// DefaultPageIndex is the first page. Paging is 1-based everywhere.
	DefaultPageIndex = 1
	// DefaultPageSize is used when a caller does not choose a page size.
	DefaultPageSize = 10
)

// PaginateRequest describes one page of a filtered, sorted listing.
// PageIndex is 1-based. Search is free text handed to the caller-supplied
// search transform. SortColumn must match a key registered as sortable by
// the caller; unknown columns fall back to the default ordering.
type PaginateRequest struct {
	PageIndex  int    `json:"page_index" yaml:"page_index"`
	PageSize   int    `json:"page_size" yaml:"page_size"`
	Search     string `json:"search,omitempty" yaml:"search"`
	SortColumn string `json:"sort_column,omitempty" yaml:"sort_column"`
	SortOrder  string `json:"sort_order,omitempty" yaml:"sort_order"`
}

// NewPaginateRequest returns a request for the first page with defaults
// (PageIndex=1, PageSize=10, ascending sort).
func NewPaginateRequest() *PaginateRequest {
	return &PaginateRequest{
		PageIndex: DefaultPageIndex,
		PageSize:  DefaultPageSize,
		SortOrder: SortAsc.String(),
	}
}

// Normalize fills zero values with the documented defaults. Negative values
// are left untouched so the pagination engine can reject them explicitly.
func (p *PaginateRequest) Normalize() *PaginateRequest {
	if p.PageIndex == 0 {
		p.PageIndex = DefaultPageIndex
	}
	if p.PageSize == 0 {
		p.PageSize = DefaultPageSize
	}
	if p.SortOrder == "" {
		p.SortOrder = SortAsc.String()
	}
	return p
}

// Offset returns the number of rows to skip for this page.
func (p *PaginateRequest) Offset() int {
	return (p.PageIndex - 1) * p.PageSize
}

// PaginateResult is one materialized page plus the total size of the
// filtered set before paging was applied.
type PaginateResult[T any] struct {
	PageIndex int  `json:"page_index"`
	PageSize  int  `json:"page_size"`
	Count     int  `json:"count"`
	Data      []*T `json:"data"`
}

// NewEmptyPaginateResult returns a result with no data for the given page.
func NewEmptyPaginateResult[T any](pageIndex, pageSize int) *PaginateResult[T] {
	return &PaginateResult[T]{PageIndex: pageIndex, PageSize: pageSize, Data: make([]*T, 0)}
}

// HasNextPage reports whether rows exist past this page.
func (p *PaginateResult[T]) HasNextPage() bool {
	return p.PageIndex*p.PageSize < p.Count
}

// HasPreviousPage reports whether this is not the first page.
func (p *PaginateResult[T]) HasPreviousPage() bool {
	return p.PageIndex > 1
}
