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

import "strings"

// SortOrder is the direction of an ordered listing.
type SortOrder int

const (
	SortAsc SortOrder = iota
	SortDesc
)

func (s SortOrder) String() string {
	if s == SortDesc {
		return "desc"
	}
	return "asc"
}

// SQL returns the ORDER BY keyword for the direction.
func (s SortOrder) SQL() string {
	if s == SortDesc {
		return "DESC"
	}
	return "ASC"
}

// ParseSortOrder maps a caller-supplied string to a direction.
// Anything that is not "desc" (case-insensitive) sorts ascending.
func ParseSortOrder(s string) SortOrder {
	if strings.EqualFold(strings.TrimSpace(s), "desc") {
		return SortDesc
	}
	return SortAsc
}
