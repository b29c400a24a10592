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

package pipeline

import "github.com/lunarhue/keel/types"

// Envelope is the uniform response wrapper transports serialize back to
// callers: a success flag, a human-readable message, and the payload.
type Envelope[T any] struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    *T     `json:"data,omitempty"`
}

// OK wraps a successful payload.
func OK[T any](data T, message ...string) Envelope[T] {
	e := Envelope[T]{Success: true, Data: &data}
	if len(message) > 0 {
		e.Message = message[0]
	}
	return e
}

// Fail wraps a failure. The message comes from the error's own rendering;
// persistence errors are reported without their driver detail.
func Fail[T any](err error) Envelope[T] {
	e := Envelope[T]{Success: false}
	if err == nil {
		e.Message = "request failed"
		return e
	}
	if types.IsPersistence(err) {
		e.Message = "a persistence failure occurred"
		return e
	}
	e.Message = err.Error()
	return e
}

// Wrap builds the envelope for a handler outcome in one call.
func Wrap[T any](data T, err error) Envelope[T] {
	if err != nil {
		return Fail[T](err)
	}
	return OK(data)
}
