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

import "time"

// AuditFields holds the optional creation/modification trail of an entity.
// Entities embed it alongside their key field; the unit of work stamps it
// at commit time with the acting user from the request context.
type AuditFields struct {
	CreatedAt *time.Time `bun:"created_at,nullzero" json:"created_at,omitempty"`
	CreatedBy string     `bun:"created_by,nullzero" json:"created_by,omitempty"`
	UpdatedAt *time.Time `bun:"updated_at,nullzero" json:"updated_at,omitempty"`
	UpdatedBy string     `bun:"updated_by,nullzero" json:"updated_by,omitempty"`
}

// StampCreated records the creating actor and time.
func (a *AuditFields) StampCreated(now time.Time, actor string) {
	a.CreatedAt = &now
	a.CreatedBy = actor
	a.UpdatedAt = &now
	a.UpdatedBy = actor
}

// StampUpdated records the modifying actor and time.
func (a *AuditFields) StampUpdated(now time.Time, actor string) {
	a.UpdatedAt = &now
	a.UpdatedBy = actor
}

// Audited is implemented by entities that embed AuditFields.
type Audited interface {
	StampCreated(now time.Time, actor string)
	StampUpdated(now time.Time, actor string)
}
