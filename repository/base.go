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
	"database/sql"
	"errors"
	"reflect"
	"time"

	"github.com/lunarhue/keel/database"
	"github.com/lunarhue/keel/types"
	"github.com/uptrace/bun"
)

type baseRepositoryImpl[T any] struct {
	db     *bun.DB
	stager Stager
}

// NewRepository returns a generic repository over the provided Bun DB.
// Reads run against the database directly; mutations are staged through
// the stager and only become durable when its owner commits.
func NewRepository[T any](db *bun.DB, stager Stager) Repository[T] {
	return &baseRepositoryImpl[T]{db: db, stager: stager}
}

func entityName[T any]() string {
	t := reflect.TypeOf((*T)(nil)).Elem()
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t.Name()
}

func (r *baseRepositoryImpl[T]) GetByID(ctx context.Context, id any) (*T, error) {
	var entity T
	err := r.db.NewSelect().Model(&entity).Where("id = ?", id).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, types.NewNotFoundError(entityName[T](), id)
		}
		return nil, database.Classify("select", entityName[T](), err)
	}
	return &entity, nil
}

func (r *baseRepositoryImpl[T]) GetAll(ctx context.Context) ([]*T, error) {
	var entities []*T
	err := r.db.NewSelect().Model(&entities).Scan(ctx)
	if err != nil {
		return nil, database.Classify("select", entityName[T](), err)
	}
	return entities, nil
}

func (r *baseRepositoryImpl[T]) GetPaginated(ctx context.Context, request *types.PaginateRequest, opts *QueryOptions) (*types.PaginateResult[T], error) {
	return Paginate[T](ctx, r.db, request, opts)
}

func (r *baseRepositoryImpl[T]) Add(entity *T) {
	r.stager.Stage(func(ctx context.Context, tx bun.Tx) (int64, error) {
		if audited, ok := any(entity).(types.Audited); ok {
			audited.StampCreated(time.Now().UTC(), actorID(ctx))
		}
		res, err := tx.NewInsert().Model(entity).Exec(ctx)
		if err != nil {
			return 0, err
		}
		return res.RowsAffected()
	})
}

func (r *baseRepositoryImpl[T]) Update(entity *T) {
	r.stager.Stage(func(ctx context.Context, tx bun.Tx) (int64, error) {
		if audited, ok := any(entity).(types.Audited); ok {
			audited.StampUpdated(time.Now().UTC(), actorID(ctx))
		}
		res, err := tx.NewUpdate().Model(entity).WherePK().Exec(ctx)
		if err != nil {
			return 0, err
		}
		return res.RowsAffected()
	})
}

func (r *baseRepositoryImpl[T]) Remove(entity *T) {
	r.stager.Stage(func(ctx context.Context, tx bun.Tx) (int64, error) {
		res, err := tx.NewDelete().Model(entity).WherePK().Exec(ctx)
		if err != nil {
			return 0, err
		}
		return res.RowsAffected()
	})
}

func (r *baseRepositoryImpl[T]) Query() *bun.SelectQuery {
	return r.db.NewSelect().Model((*T)(nil))
}

func actorID(ctx context.Context) string {
	if actor, ok := types.ActorFrom(ctx); ok {
		return actor.ID
	}
	return ""
}
