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

import (
	"context"

	"github.com/lunarhue/keel/types"
)

// Authorizer decides whether the request may proceed. Returning a
// *types.AuthorizationError (or any error) denies the request.
type Authorizer interface {
	Authorize(ctx context.Context, request any) error
}

// AuthorizerFunc adapts a function to the Authorizer interface.
type AuthorizerFunc func(ctx context.Context, request any) error

func (f AuthorizerFunc) Authorize(ctx context.Context, request any) error {
	return f(ctx, request)
}

// AllowAll permits every request. It is the default policy so the
// authorization stage always runs and is always auditable, even for
// requests with no policy of their own.
var AllowAll Authorizer = AuthorizerFunc(func(context.Context, any) error {
	return nil
})

// authorizationBehavior enforces the registration's policy: the actor
// requirement first, then the request's authorizer. Policy denial is an
// AuthorizationError, never a ValidationError.
type authorizationBehavior struct {
	dispatcher *Dispatcher
}

func (b *authorizationBehavior) Name() string { return BehaviorAuthorization }

func (b *authorizationBehavior) Wrap(next Handler) Handler {
	return func(ctx context.Context, request any) (any, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		reg, err := b.dispatcher.lookup(request)
		if err != nil {
			return nil, err
		}

		if reg.requiresAuth {
			actor, ok := types.ActorFrom(ctx)
			if !ok {
				return nil, types.NewAuthorizationError("no actor in request context")
			}
			if !actor.Authenticated() {
				return nil, types.NewAuthorizationError("actor is not authenticated")
			}
		}

		authorizer := reg.authorizer
		if authorizer == nil {
			authorizer = AllowAll
		}
		if err := authorizer.Authorize(ctx, request); err != nil {
			if types.IsAuthorization(err) {
				return nil, err
			}
			return nil, types.NewAuthorizationError(err.Error())
		}

		return next(ctx, request)
	}
}
