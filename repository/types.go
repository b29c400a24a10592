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

	"github.com/lunarhue/keel/types"
	"github.com/uptrace/bun"
)

// StagedOp is one pending mutation, executed inside the commit transaction.
// It returns the number of affected rows.
type StagedOp func(ctx context.Context, tx bun.Tx) (int64, error)

// Stager collects staged mutations. The unit of work implements it; no
// repository method ever commits on its own.
type Stager interface {
	Stage(op StagedOp)
}

// QueryOptions carries the dynamic composition points of a paginated
// listing: an optional pre-filter (e.g. tenant scoping), an optional search
// transform (e.g. free-text matching across columns), and the allow-list of
// sortable columns mapped from their case-insensitive request names to
// column identifiers. Columns absent from the map are never sorted by.
type QueryOptions struct {
	Filter          func(*bun.SelectQuery) *bun.SelectQuery
	Search          func(*bun.SelectQuery) *bun.SelectQuery
	SortableColumns map[string]string
}

// ReadRepository defines the read side of a generic entity repository.
type ReadRepository[T any] interface {
	// GetByID returns the entity with the given key, or a
	// types.NotFoundError when absent.
	GetByID(ctx context.Context, id any) (*T, error)

	// GetAll materializes the whole collection. Bounding the size of the
	// collection is the caller's responsibility.
	GetAll(ctx context.Context) ([]*T, error)

	// GetPaginated returns one page of the collection via the shared
	// pagination engine.
	GetPaginated(ctx context.Context, request *types.PaginateRequest, opts *QueryOptions) (*types.PaginateResult[T], error)
}

// WriteRepository defines the staged mutation side. Staged changes become
// durable only when the owning unit of work commits.
type WriteRepository[T any] interface {
	// Add stages an insert. The row is visible to reads only after commit.
	Add(entity *T)

	// Update stages a full-entity replace keyed by the entity's identity.
	Update(entity *T)

	// Remove stages a delete keyed by the entity's identity.
	Remove(entity *T)
}

// Repository combines reads, staged writes, and an escape hatch for custom
// query composition beyond CRUD and paging.
type Repository[T any] interface {
	ReadRepository[T]
	WriteRepository[T]
	Query() *bun.SelectQuery
}
