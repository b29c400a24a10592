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
	"testing"

	"github.com/lunarhue/keel/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
)

// listStager collects staged ops and replays them in one transaction, the
// way a unit of work commit does.
type listStager struct {
	db  *bun.DB
	ops []StagedOp
}

func (s *listStager) Stage(op StagedOp) { s.ops = append(s.ops, op) }

func (s *listStager) flush(ctx context.Context) (int64, error) {
	var affected int64
	err := s.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		for _, op := range s.ops {
			n, err := op(ctx, tx)
			if err != nil {
				return err
			}
			affected += n
		}
		return nil
	})
	s.ops = nil
	return affected, err
}

func TestGetByIDNotFound(t *testing.T) {
	db := openTestDB(t)
	repo := NewRepository[Book](db, &listStager{db: db})

	_, err := repo.GetByID(context.Background(), int64(404))
	assert.True(t, types.IsNotFound(err))
	assert.Contains(t, err.Error(), "Book")
}

func TestAddIsStagedUntilFlush(t *testing.T) {
	db := openTestDB(t)
	stager := &listStager{db: db}
	repo := NewRepository[Book](db, stager)
	ctx := context.Background()

	repo.Add(&Book{Title: "Alpha", Genre: "go"})

	// Nothing touches the database before the staged ops run.
	all, err := repo.GetAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)

	affected, err := stager.flush(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)

	all, err = repo.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestAddStampsAuditFieldsFromActor(t *testing.T) {
	db := openTestDB(t)
	stager := &listStager{db: db}
	repo := NewRepository[Book](db, stager)
	ctx := types.WithActor(context.Background(), &types.Actor{ID: "u-1"})

	repo.Add(&Book{Title: "Alpha"})
	_, err := stager.flush(ctx)
	require.NoError(t, err)

	book, err := repo.GetByID(ctx, int64(1))
	require.NoError(t, err)
	assert.Equal(t, "u-1", book.CreatedBy)
	assert.Equal(t, "u-1", book.UpdatedBy)
	require.NotNil(t, book.CreatedAt)
	require.NotNil(t, book.UpdatedAt)
}

func TestUpdateAndRemoveAreStaged(t *testing.T) {
	db := openTestDB(t)
	stager := &listStager{db: db}
	repo := NewRepository[Book](db, stager)
	ctx := types.WithActor(context.Background(), &types.Actor{ID: "u-2"})

	repo.Add(&Book{Title: "Alpha"})
	repo.Add(&Book{Title: "Bravo"})
	_, err := stager.flush(ctx)
	require.NoError(t, err)

	alpha, err := repo.GetByID(ctx, int64(1))
	require.NoError(t, err)
	alpha.Genre = "reference"
	repo.Update(alpha)

	bravo, err := repo.GetByID(ctx, int64(2))
	require.NoError(t, err)
	repo.Remove(bravo)

	affected, err := stager.flush(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), affected)

	updated, err := repo.GetByID(ctx, int64(1))
	require.NoError(t, err)
	assert.Equal(t, "reference", updated.Genre)
	assert.Equal(t, "u-2", updated.UpdatedBy)

	_, err = repo.GetByID(ctx, int64(2))
	assert.True(t, types.IsNotFound(err))
}

func TestFlushRollsBackOnConstraintViolation(t *testing.T) {
	db := openTestDB(t)
	stager := &listStager{db: db}
	repo := NewRepository[Book](db, stager)
	ctx := context.Background()

	repo.Add(&Book{Title: "Alpha"})
	repo.Add(&Book{Title: "Alpha"}) // violates the unique title constraint

	_, err := stager.flush(ctx)
	require.Error(t, err)

	// The first insert must not survive the failed transaction.
	all, err := repo.GetAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestQueryEscapeHatch(t *testing.T) {
	db := openTestDB(t)
	stager := &listStager{db: db}
	repo := NewRepository[Book](db, stager)
	ctx := context.Background()

	seedBooks(t, db, fiveBooks())

	count, err := repo.Query().Where("pages > ?", 200).Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestGetPaginatedDelegates(t *testing.T) {
	db := openTestDB(t)
	repo := NewRepository[Book](db, &listStager{db: db})

	seedBooks(t, db, fiveBooks())

	page, err := repo.GetPaginated(context.Background(), &types.PaginateRequest{PageIndex: 2, PageSize: 2}, nil)
	require.NoError(t, err)
	assert.Equal(t, 5, page.Count)
	assert.Len(t, page.Data, 2)
	assert.True(t, page.HasPreviousPage())
}
