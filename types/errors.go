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
	"errors"
	"fmt"
	"strings"
)

// ValidationError reports one or more failed request checks. It is raised
// before a handler runs and is never retried.
type ValidationError struct {
	Fields map[string]string
}

func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: reason}}
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	parts := make([]string, 0, len(e.Fields))
	for field, reason := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s: %s", field, reason))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// AuthorizationError reports a missing actor context or a denied policy
// check, distinct from validation failures.
type AuthorizationError struct {
	Reason string
}

func NewAuthorizationError(reason string) *AuthorizationError {
	return &AuthorizationError{Reason: reason}
}

func (e *AuthorizationError) Error() string {
	if e.Reason == "" {
		return "authorization failed"
	}
	return "authorization failed: " + e.Reason
}

// ConflictError reports a uniqueness or state conflict and names the
// conflicting resource.
type ConflictError struct {
	Name   string
	Reason string
	Err    error
}

func NewConflictError(name, reason string) *ConflictError {
	return &ConflictError{Name: name, Reason: reason}
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("conflict with %q: %s", e.Name, e.Reason)
}

func (e *ConflictError) Unwrap() error { return e.Err }

// NotFoundError reports an absent entity or key.
type NotFoundError struct {
	Entity string
	Key    any
}

func NewNotFoundError(entity string, key any) *NotFoundError {
	return &NotFoundError{Entity: entity, Key: key}
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with key %v not found", e.Entity, e.Key)
}

// PersistenceError wraps a commit or query failure from the underlying
// database scope. A unit of work that produced one must not be reused.
type PersistenceError struct {
	Op  string
	Err error
}

func NewPersistenceError(op string, err error) *PersistenceError {
	return &PersistenceError{Op: op, Err: err}
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence failure during %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// LoggingSinkError reports a failed audit emission. It is always recovered
// locally and never propagated to the request caller.
type LoggingSinkError struct {
	Err error
}

func (e *LoggingSinkError) Error() string {
	return fmt.Sprintf("audit sink failure: %v", e.Err)
}

func (e *LoggingSinkError) Unwrap() error { return e.Err }

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var target *ValidationError
	return errors.As(err, &target)
}

// IsAuthorization reports whether err is an AuthorizationError.
func IsAuthorization(err error) bool {
	var target *AuthorizationError
	return errors.As(err, &target)
}

// IsConflict reports whether err is a ConflictError.
func IsConflict(err error) bool {
	var target *ConflictError
	return errors.As(err, &target)
}

// IsNotFound reports whether err is a NotFoundError.
func IsNotFound(err error) bool {
	var target *NotFoundError
	return errors.As(err, &target)
}

// IsPersistence reports whether err is a PersistenceError.
func IsPersistence(err error) bool {
	var target *PersistenceError
	return errors.As(err, &target)
}
