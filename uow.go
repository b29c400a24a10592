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

// Package keel is a request-processing scaffold for layered services:
// dispatched requests pass through an ordered behavior chain before
// reaching their handler, and handlers access entities through generic
// repositories coordinated by a per-request unit of work.
package keel

import (
	"context"
	"database/sql"
	"errors"
	"reflect"
	"sync"

	"github.com/lunarhue/keel/database"
	"github.com/lunarhue/keel/repository"
	"github.com/uptrace/bun"
)

var (
	// ErrUnitOfWorkDisposed is returned when a disposed unit of work is used.
	ErrUnitOfWorkDisposed = errors.New("unit of work already disposed")

	// ErrUnitOfWorkFailed is returned when a unit of work is reused after a
	// failed commit. The underlying transaction was rolled back; start a
	// fresh unit of work instead.
	ErrUnitOfWorkFailed = errors.New("unit of work not reusable after failed commit")
)

// UnitOfWork is one transactional boundary. It lazily creates and caches
// one generic repository per entity type, collects the mutations those
// repositories stage, and commits them in a single transaction.
//
// A UnitOfWork belongs to exactly one request dispatch and must not be
// shared across concurrent requests. Internal locking only guards against
// accidental misuse, not a supported concurrency model.
type UnitOfWork struct {
	db       *bun.DB
	mu       sync.Mutex
	repos    map[reflect.Type]any
	pending  []repository.StagedOp
	failed   bool
	disposed bool
}

// NewUnitOfWork returns a unit of work bound to the given database handle.
func NewUnitOfWork(db *bun.DB) *UnitOfWork {
	return &UnitOfWork{
		db:    db,
		repos: make(map[reflect.Type]any),
	}
}

// RepositoryFor returns the unit of work's repository for T, creating and
// caching it on first use. Repeated calls for the same type return the
// same instance, so staged changes accumulate on one pending list.
// Calling it on a disposed unit of work is a programming error and panics.
func RepositoryFor[T any](u *UnitOfWork) repository.Repository[T] {
	u.mu.Lock()
	defer u.mu.Unlock()

	if u.disposed {
		panic("keel: RepositoryFor called on a disposed unit of work")
	}
	key := reflect.TypeOf((*T)(nil)).Elem()
	if cached, ok := u.repos[key]; ok {
		return cached.(repository.Repository[T])
	}
	repo := repository.NewRepository[T](u.db, u)
	u.repos[key] = repo
	return repo
}

// Stage records a pending mutation for the next Commit. It implements
// repository.Stager; repositories created by this unit of work call it.
// Staging on a disposed unit of work is a programming error and panics:
// the mutation could never be committed, and dropping it silently would
// hide the misuse.
func (u *UnitOfWork) Stage(op repository.StagedOp) {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.disposed {
		panic("keel: Stage called on a disposed unit of work")
	}
	u.pending = append(u.pending, op)
}

// Pending returns the number of staged mutations awaiting commit.
func (u *UnitOfWork) Pending() int {
	u.mu.Lock()
	defer u.mu.Unlock()
	return len(u.pending)
}

// Commit executes every staged mutation inside one transaction and returns
// the total number of affected rows. On any failure the transaction rolls
// back, nothing is applied, and the unit of work becomes unusable. A
// canceled context aborts the commit with no partial effect.
func (u *UnitOfWork) Commit(ctx context.Context) (int64, error) {
	u.mu.Lock()
	defer u.mu.Unlock()

	if u.disposed {
		return 0, ErrUnitOfWorkDisposed
	}
	if u.failed {
		return 0, ErrUnitOfWorkFailed
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if len(u.pending) == 0 {
		return 0, nil
	}

	var affected int64
	err := u.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		for _, op := range u.pending {
			if err := ctx.Err(); err != nil {
				return err
			}
			n, err := op(ctx, tx)
			if err != nil {
				return err
			}
			affected += n
		}
		return nil
	})
	if err != nil {
		u.failed = true
		return 0, database.Classify("commit", "unit of work", err)
	}

	u.pending = u.pending[:0]
	return affected, nil
}

// Dispose releases the unit of work, discarding any uncommitted staged
// mutations. It is idempotent. A later Commit fails with
// ErrUnitOfWorkDisposed; RepositoryFor and Stage on a disposed instance
// panic. The shared database handle itself stays open.
func (u *UnitOfWork) Dispose() {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.disposed {
		return
	}
	u.disposed = true
	u.pending = nil
	u.repos = nil
}
