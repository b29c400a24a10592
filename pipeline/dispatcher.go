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
	"fmt"
	"reflect"
	"sync"

	"github.com/lunarhue/keel/utils"
)

// Handler is the type-erased innermost stage of the chain. Behaviors wrap
// it; the typed handler registered via Register sits at its core.
type Handler func(ctx context.Context, request any) (any, error)

// HandlerFunc is a typed request handler.
type HandlerFunc[Req, Res any] func(ctx context.Context, request Req) (Res, error)

// Behavior is one cross-cutting stage of the chain.
type Behavior interface {
	// Name identifies the behavior in configuration.
	Name() string

	// Wrap returns a Handler that runs this behavior's concern around next.
	Wrap(next Handler) Handler
}

// registration holds everything the chain needs to process one request type.
type registration struct {
	name         string
	requestType  reflect.Type
	handler      Handler
	validators   []Validator
	authorizer   Authorizer
	requiresAuth bool
}

// Dispatcher routes each request to its registered handler through the
// configured behavior chain. Registration happens at startup; Dispatch is
// safe for concurrent use afterwards.
type Dispatcher struct {
	mu            sync.RWMutex
	registrations map[reflect.Type]*registration
	behaviors     []Behavior
	sink          Sink
	logger        *utils.Logger
}

// Option customizes a Dispatcher at construction time.
type Option func(*Dispatcher)

// WithSink routes audit records to the given sink instead of the default
// logger-backed one.
func WithSink(sink Sink) Option {
	return func(d *Dispatcher) { d.sink = sink }
}

// WithLogger sets the fallback logger used when the audit sink fails.
func WithLogger(logger *utils.Logger) Option {
	return func(d *Dispatcher) { d.logger = logger }
}

// New builds a dispatcher with the behavior chain declared by cfg. An
// unknown or duplicate behavior name in cfg.Order is a configuration error.
func New(cfg Config, opts ...Option) (*Dispatcher, error) {
	order, err := cfg.normalize()
	if err != nil {
		return nil, err
	}

	d := &Dispatcher{
		registrations: make(map[reflect.Type]*registration),
		logger:        utils.NewLogger("PIPELINE"),
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.sink == nil {
		d.sink = NewLoggerSink(d.logger)
	}

	for _, name := range order {
		switch name {
		case BehaviorValidation:
			d.behaviors = append(d.behaviors, &validationBehavior{dispatcher: d})
		case BehaviorLogging:
			d.behaviors = append(d.behaviors, &loggingBehavior{dispatcher: d})
		case BehaviorAuthorization:
			d.behaviors = append(d.behaviors, &authorizationBehavior{dispatcher: d})
		}
	}
	return d, nil
}

// RegisterOption customizes one request registration.
type RegisterOption func(*registration)

// WithValidators attaches custom validators, run after struct-tag
// validation in registration order.
func WithValidators(validators ...Validator) RegisterOption {
	return func(r *registration) { r.validators = append(r.validators, validators...) }
}

// WithAuthorizer replaces the default allow-all authorizer for this request.
func WithAuthorizer(authorizer Authorizer) RegisterOption {
	return func(r *registration) { r.authorizer = authorizer }
}

// RequireAuthentication marks the request as needing an authenticated actor
// in the context; anonymous dispatches are rejected before the handler runs.
func RequireAuthentication() RegisterOption {
	return func(r *registration) { r.requiresAuth = true }
}

// Register binds a handler to the request type Req. Each request type may
// have exactly one handler; a second registration is an error.
func Register[Req, Res any](d *Dispatcher, handler HandlerFunc[Req, Res], opts ...RegisterOption) error {
	if handler == nil {
		return fmt.Errorf("nil handler")
	}
	t := reflect.TypeOf((*Req)(nil)).Elem()

	d.mu.Lock()
	defer d.mu.Unlock()
	if _, exists := d.registrations[t]; exists {
		return fmt.Errorf("handler already registered for %s", t)
	}

	reg := &registration{
		name:        t.String(),
		requestType: t,
		handler: func(ctx context.Context, request any) (any, error) {
			typed, ok := request.(Req)
			if !ok {
				return nil, fmt.Errorf("request type mismatch: got %T, want %s", request, t)
			}
			return handler(ctx, typed)
		},
	}
	for _, opt := range opts {
		opt(reg)
	}
	d.registrations[t] = reg
	return nil
}

// Dispatch sends the request through the behavior chain to its handler and
// returns the typed response. Behavior order follows the dispatcher's
// configuration; a behavior that fails short-circuits everything inside it,
// handler included.
func Dispatch[Req, Res any](ctx context.Context, d *Dispatcher, request Req) (Res, error) {
	var zero Res
	out, err := d.dispatch(ctx, request)
	if err != nil {
		return zero, err
	}
	res, ok := out.(Res)
	if !ok {
		return zero, fmt.Errorf("response type mismatch: got %T, want %T", out, zero)
	}
	return res, nil
}

func (d *Dispatcher) dispatch(ctx context.Context, request any) (any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	reg, err := d.lookup(request)
	if err != nil {
		return nil, err
	}

	chain := reg.handler
	for i := len(d.behaviors) - 1; i >= 0; i-- {
		chain = d.behaviors[i].Wrap(chain)
	}
	return chain(ctx, request)
}

func (d *Dispatcher) lookup(request any) (*registration, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	reg, ok := d.registrations[reflect.TypeOf(request)]
	if !ok {
		return nil, fmt.Errorf("no handler registered for %T", request)
	}
	return reg, nil
}
