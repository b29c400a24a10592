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

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewPaginateRequestDefaults(t *testing.T) {
	request := NewPaginateRequest()
	assert.Equal(t, 1, request.PageIndex)
	assert.Equal(t, 10, request.PageSize)
	assert.Equal(t, "asc", request.SortOrder)
	assert.Equal(t, 0, request.Offset())
}

func TestNormalizeFillsZeroValuesOnly(t *testing.T) {
	request := (&PaginateRequest{}).Normalize()
	assert.Equal(t, DefaultPageIndex, request.PageIndex)
	assert.Equal(t, DefaultPageSize, request.PageSize)

	// Negative values are contract violations, not defaults; they stay put
	// so the pagination engine can reject them.
	negative := (&PaginateRequest{PageIndex: -1, PageSize: -5}).Normalize()
	assert.Equal(t, -1, negative.PageIndex)
	assert.Equal(t, -5, negative.PageSize)

	chosen := (&PaginateRequest{PageIndex: 3, PageSize: 25}).Normalize()
	assert.Equal(t, 3, chosen.PageIndex)
	assert.Equal(t, 25, chosen.PageSize)
}

func TestOffsetIsOneBased(t *testing.T) {
	assert.Equal(t, 0, (&PaginateRequest{PageIndex: 1, PageSize: 10}).Offset())
	assert.Equal(t, 10, (&PaginateRequest{PageIndex: 2, PageSize: 10}).Offset())
	assert.Equal(t, 8, (&PaginateRequest{PageIndex: 5, PageSize: 2}).Offset())
}

func TestPaginateResultNavigationFlags(t *testing.T) {
	type book struct{ ID int64 }

	// Five rows, two per page: the first page has more ahead, no pages behind.
	first := &PaginateResult[book]{PageIndex: 1, PageSize: 2, Count: 5}
	assert.True(t, first.HasNextPage())
	assert.False(t, first.HasPreviousPage())

	middle := &PaginateResult[book]{PageIndex: 2, PageSize: 2, Count: 5}
	assert.True(t, middle.HasNextPage())
	assert.True(t, middle.HasPreviousPage())

	last := &PaginateResult[book]{PageIndex: 3, PageSize: 2, Count: 5}
	assert.False(t, last.HasNextPage())
	assert.True(t, last.HasPreviousPage())

	// A page index past the end keeps Count authoritative and both flags sane.
	beyond := &PaginateResult[book]{PageIndex: 9, PageSize: 2, Count: 5}
	assert.False(t, beyond.HasNextPage())
	assert.True(t, beyond.HasPreviousPage())

	empty := NewEmptyPaginateResult[book](1, 10)
	assert.NotNil(t, empty.Data)
	assert.Empty(t, empty.Data)
	assert.False(t, empty.HasNextPage())
	assert.False(t, empty.HasPreviousPage())
}

func TestParseSortOrder(t *testing.T) {
	assert.Equal(t, SortAsc, ParseSortOrder("asc"))
	assert.Equal(t, SortDesc, ParseSortOrder("desc"))
	assert.Equal(t, SortDesc, ParseSortOrder("DESC"))
	assert.Equal(t, SortAsc, ParseSortOrder(""))
	assert.Equal(t, SortAsc, ParseSortOrder("sideways"))
	assert.Equal(t, "DESC", SortDesc.SQL())
}
