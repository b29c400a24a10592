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

package database

import (
	"database/sql"
	"errors"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/lunarhue/keel/types"
)

type SQLError int

const (
	UnknownErr SQLError = iota
	NoRowsErr
	NoTableErr
	NoColumnErr
	DuplicateKeyErr
	NotNullViolationErr
	ForeignKeyViolationErr
	CheckConstraintViolationErr
	DataTruncatedErr
	ConnectionErr
)

// mysqlErrNumbers maps MySQL server error numbers onto SQLError values.
var mysqlErrNumbers = map[uint16]SQLError{
	1054: NoColumnErr,
	1062: DuplicateKeyErr,
	1048: NotNullViolationErr,
	1146: NoTableErr,
	1216: ForeignKeyViolationErr,
	1217: ForeignKeyViolationErr,
	1451: ForeignKeyViolationErr,
	1452: ForeignKeyViolationErr,
	3819: CheckConstraintViolationErr,
	1265: DataTruncatedErr,
}

// textMarkers holds SQLSTATE codes and driver message fragments used to
// classify postgres and sqlite errors, which surface as plain text.
var textMarkers = []struct {
	kind    SQLError
	markers []string
}{
	{DuplicateKeyErr, []string{"sqlstate 23505", "duplicate key value", "unique constraint failed"}},
	{NotNullViolationErr, []string{"sqlstate 23502", "not-null constraint", "not null constraint failed"}},
	{ForeignKeyViolationErr, []string{"sqlstate 23503", "foreign key violation", "foreign key constraint failed"}},
	{CheckConstraintViolationErr, []string{"sqlstate 23514", "check constraint"}},
	{NoTableErr, []string{"sqlstate 42p01", "undefined table", "no such table"}},
	{NoColumnErr, []string{"sqlstate 42703", "undefined column", "no such column"}},
	{DataTruncatedErr, []string{"sqlstate 22001", "string data right truncation", "data truncated"}},
	{ConnectionErr, []string{"connection refused", "connection reset", "broken pipe", "bad connection"}},
}

// IsSqlError reports whether err originated in the database and classifies it.
func IsSqlError(err error) (bool, SQLError) {
	if err == nil {
		return false, UnknownErr
	}
	if errors.Is(err, sql.ErrNoRows) {
		return true, NoRowsErr
	}
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		if kind, ok := mysqlErrNumbers[mysqlErr.Number]; ok {
			return true, kind
		}
		return true, UnknownErr
	}
	s := strings.ToLower(err.Error())
	for _, entry := range textMarkers {
		for _, marker := range entry.markers {
			if strings.Contains(s, marker) {
				return true, entry.kind
			}
		}
	}
	return false, UnknownErr
}

// Classify converts a driver error into the caller-facing taxonomy: no rows
// becomes NotFoundError, constraint conflicts become ConflictError, and
// everything else becomes a PersistenceError wrapping the original.
// The op and name arguments describe the failed operation and the resource
// involved, for error messages only.
func Classify(op, name string, err error) error {
	if err == nil {
		return nil
	}
	is, kind := IsSqlError(err)
	if !is {
		return types.NewPersistenceError(op, err)
	}
	switch kind {
	case NoRowsErr:
		return types.NewNotFoundError(name, nil)
	case DuplicateKeyErr:
		conflict := types.NewConflictError(name, "duplicate key")
		conflict.Err = err
		return conflict
	case NotNullViolationErr, ForeignKeyViolationErr, CheckConstraintViolationErr:
		conflict := types.NewConflictError(name, "constraint violation")
		conflict.Err = err
		return conflict
	default:
		return types.NewPersistenceError(op, err)
	}
}
