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

package repository

import (
	"context"
	"sort"
	"strings"

	"github.com/lunarhue/keel/database"
	"github.com/lunarhue/keel/types"
	"github.com/uptrace/bun"
)

// defaultOrderColumn is the documented deterministic fallback ordering:
// when no valid sort column is requested, pages are ordered by the primary
// key "id" ascending so repeated calls return reproducible pages.
const defaultOrderColumn = "id"

// Paginate runs the shared pagination pipeline over the entity collection:
// filter, then search transform, then sorting restricted to the registered
// sortable columns, then count, then offset/limit materialization.
//
// The reported Count is the size of the filtered and searched set before
// paging, so Data never holds more than request.PageSize items and a page
// index past the end yields empty Data with the correct Count.
//
// A PageIndex or PageSize below 1 is a caller contract violation and is
// rejected with a types.ValidationError; use types.NewPaginateRequest for
// the documented defaults.
func Paginate[T any](ctx context.Context, db bun.IDB, request *types.PaginateRequest, opts *QueryOptions) (*types.PaginateResult[T], error) {
	if request == nil {
		request = types.NewPaginateRequest()
	}
	if request.PageIndex < 1 {
		return nil, types.NewValidationError("page_index", "must be >= 1")
	}
	if request.PageSize < 1 {
		return nil, types.NewValidationError("page_size", "must be >= 1")
	}
	if opts == nil {
		opts = &QueryOptions{}
	}

	var entities []*T
	query := db.NewSelect().Model(&entities)
	if opts.Filter != nil {
		query = opts.Filter(query)
	}
	if opts.Search != nil {
		query = opts.Search(query)
	}

	result := types.NewEmptyPaginateResult[T](request.PageIndex, request.PageSize)

	total, err := query.Count(ctx)
	if err != nil {
		return nil, database.Classify("count", entityName[T](), err)
	}
	result.Count = total
	if total == 0 {
		return result, nil
	}

	query = applySort(query, request, opts.SortableColumns)

	err = query.
		Offset(request.Offset()).
		Limit(request.PageSize).
		Scan(ctx)
	if err != nil {
		return nil, database.Classify("select", entityName[T](), err)
	}

	result.Data = entities
	if result.Data == nil {
		result.Data = make([]*T, 0)
	}
	return result, nil
}

// applySort orders by the requested column when it is registered as
// sortable (matched case-insensitively), otherwise by the deterministic
// default. An unknown column never alters ordering behavior.
func applySort(query *bun.SelectQuery, request *types.PaginateRequest, sortable map[string]string) *bun.SelectQuery {
	requested := strings.ToLower(strings.TrimSpace(request.SortColumn))
	if requested != "" {
		if column, ok := normalizeSortable(sortable)[requested]; ok {
			direction := types.ParseSortOrder(request.SortOrder)
			return query.OrderExpr("? ?", bun.Ident(column), bun.Safe(direction.SQL()))
		}
	}
	return query.OrderExpr("? ASC", bun.Ident(defaultOrderColumn))
}

// normalizeSortable lowers the registered column names for direct lookup.
// Names differing only in case collapse to one entry; the lexicographically
// greatest original name wins, so resolution is stable call to call.
func normalizeSortable(sortable map[string]string) map[string]string {
	if len(sortable) == 0 {
		return nil
	}
	names := make([]string, 0, len(sortable))
	for name := range sortable {
		names = append(names, name)
	}
	sort.Strings(names)
	normalized := make(map[string]string, len(names))
	for _, name := range names {
		normalized[strings.ToLower(name)] = sortable[name]
	}
	return normalized
}
