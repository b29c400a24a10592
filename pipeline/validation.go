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
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/lunarhue/keel/types"
)

// Validator is a custom request check, run after struct-tag validation.
// Returning a *types.ValidationError reports field-level failures; any
// other error is wrapped as a general validation failure.
type Validator interface {
	Validate(ctx context.Context, request any) error
}

// ValidatorFunc adapts a function to the Validator interface.
type ValidatorFunc func(ctx context.Context, request any) error

func (f ValidatorFunc) Validate(ctx context.Context, request any) error {
	return f(ctx, request)
}

// validate is shared across all dispatchers; struct metadata caching makes
// it cheap to reuse.
var validate = validator.New(validator.WithRequiredStructEnabled())

// validationBehavior checks the request against its struct tags and the
// registration's custom validators. A failure short-circuits the chain, so
// nothing inside it runs and no staged mutation can ever be committed for
// an invalid request.
type validationBehavior struct {
	dispatcher *Dispatcher
}

func (b *validationBehavior) Name() string { return BehaviorValidation }

func (b *validationBehavior) Wrap(next Handler) Handler {
	return func(ctx context.Context, request any) (any, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		if isStruct(request) {
			if err := validate.StructCtx(ctx, request); err != nil {
				return nil, asValidationError(err)
			}
		}

		reg, err := b.dispatcher.lookup(request)
		if err != nil {
			return nil, err
		}
		for _, v := range reg.validators {
			if err := v.Validate(ctx, request); err != nil {
				if types.IsValidation(err) {
					return nil, err
				}
				return nil, types.NewValidationError("request", err.Error())
			}
		}
		return next(ctx, request)
	}
}

func isStruct(request any) bool {
	t := reflect.TypeOf(request)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t != nil && t.Kind() == reflect.Struct
}

// asValidationError flattens validator.ValidationErrors into the field map
// of a types.ValidationError, keyed by the failing field's namespace below
// the root struct.
func asValidationError(err error) error {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return types.NewValidationError("request", err.Error())
	}
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		name := fe.Namespace()
		if i := strings.Index(name, "."); i >= 0 {
			name = name[i+1:]
		}
		reason := "failed on rule " + fe.Tag()
		if fe.Param() != "" {
			reason += "=" + fe.Param()
		}
		fields[name] = reason
	}
	return &types.ValidationError{Fields: fields}
}
