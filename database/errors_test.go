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
	"fmt"
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/lunarhue/keel/types"
	"github.com/stretchr/testify/assert"
)

func TestIsSqlErrorRecognizesNoRows(t *testing.T) {
	is, kind := IsSqlError(sql.ErrNoRows)
	assert.True(t, is)
	assert.Equal(t, NoRowsErr, kind)

	is, kind = IsSqlError(fmt.Errorf("scan: %w", sql.ErrNoRows))
	assert.True(t, is)
	assert.Equal(t, NoRowsErr, kind)
}

func TestIsSqlErrorRecognizesMySQLNumbers(t *testing.T) {
	is, kind := IsSqlError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry"})
	assert.True(t, is)
	assert.Equal(t, DuplicateKeyErr, kind)

	is, kind = IsSqlError(&mysql.MySQLError{Number: 1452, Message: "Cannot add or update a child row"})
	assert.True(t, is)
	assert.Equal(t, ForeignKeyViolationErr, kind)

	is, kind = IsSqlError(&mysql.MySQLError{Number: 9999, Message: "strange"})
	assert.True(t, is)
	assert.Equal(t, UnknownErr, kind)
}

func TestIsSqlErrorRecognizesTextMarkers(t *testing.T) {
	cases := []struct {
		err  string
		kind SQLError
	}{
		{`duplicate key value violates unique constraint "books_title_key" (SQLSTATE 23505)`, DuplicateKeyErr},
		{"UNIQUE constraint failed: books.title", DuplicateKeyErr},
		{"NOT NULL constraint failed: books.title", NotNullViolationErr},
		{"FOREIGN KEY constraint failed", ForeignKeyViolationErr},
		{"no such table: books", NoTableErr},
		{"no such column: shelf", NoColumnErr},
		{"dial tcp 127.0.0.1:5432: connection refused", ConnectionErr},
	}
	for _, tc := range cases {
		is, kind := IsSqlError(errors.New(tc.err))
		assert.True(t, is, tc.err)
		assert.Equal(t, tc.kind, kind, tc.err)
	}

	is, _ := IsSqlError(errors.New("something unrelated"))
	assert.False(t, is)

	is, _ = IsSqlError(nil)
	assert.False(t, is)
}

func TestClassifyMapsOntoTaxonomy(t *testing.T) {
	assert.NoError(t, Classify("select", "Book", nil))

	err := Classify("select", "Book", sql.ErrNoRows)
	assert.True(t, types.IsNotFound(err))

	err = Classify("commit", "Book", &mysql.MySQLError{Number: 1062, Message: "Duplicate entry"})
	assert.True(t, types.IsConflict(err))

	err = Classify("commit", "Book", errors.New("NOT NULL constraint failed: books.title"))
	assert.True(t, types.IsConflict(err))

	driverErr := errors.New("driver: bad connection")
	err = Classify("commit", "Book", driverErr)
	assert.True(t, types.IsPersistence(err))
	assert.ErrorIs(t, err, driverErr)
}
