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

import "context"

// Actor is the authenticated identity behind one request, provided by the
// transport layer and carried through the request context. A zero ID means
// the actor is not authenticated.
type Actor struct {
	ID     string     `json:"id"`
	Name   string     `json:"name,omitempty"`
	Claims JsonObject `json:"claims,omitempty"`
}

// Authenticated reports whether the actor carries a verified identity.
func (a *Actor) Authenticated() bool {
	return a != nil && a.ID != ""
}

// HasClaim reports whether the actor carries the named claim with the
// given value.
func (a *Actor) HasClaim(name string, value interface{}) bool {
	if a == nil || a.Claims == nil {
		return false
	}
	got, ok := a.Claims[name]
	return ok && got == value
}

type actorContextKey struct{}

// WithActor returns a context carrying the actor.
func WithActor(ctx context.Context, actor *Actor) context.Context {
	return context.WithValue(ctx, actorContextKey{}, actor)
}

// ActorFrom extracts the actor from the context, if any.
func ActorFrom(ctx context.Context) (*Actor, bool) {
	actor, ok := ctx.Value(actorContextKey{}).(*Actor)
	return actor, ok && actor != nil
}
