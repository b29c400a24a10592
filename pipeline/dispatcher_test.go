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
	"errors"
	"testing"

	"github.com/lunarhue/keel/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type createNote struct {
	Title string `validate:"required,min=3"`
	Body  string
}

type noteCreated struct {
	ID int64
}

type captureSink struct {
	records []Record
}

func (s *captureSink) Emit(_ context.Context, record Record) error {
	s.records = append(s.records, record)
	return nil
}

func newDispatcher(t *testing.T, cfg Config, opts ...Option) *Dispatcher {
	t.Helper()
	d, err := New(cfg, opts...)
	require.NoError(t, err)
	return d
}

func TestDispatchReachesHandler(t *testing.T) {
	d := newDispatcher(t, DefaultConfig())
	require.NoError(t, Register(d, func(_ context.Context, req createNote) (noteCreated, error) {
		assert.Equal(t, "a note", req.Title)
		return noteCreated{ID: 7}, nil
	}))

	res, err := Dispatch[createNote, noteCreated](context.Background(), d, createNote{Title: "a note"})
	require.NoError(t, err)
	assert.Equal(t, int64(7), res.ID)
}

func TestDispatchRunsStagesInConfiguredOrder(t *testing.T) {
	var events []string
	sink := SinkFunc(func(_ context.Context, _ Record) error {
		events = append(events, "log")
		return nil
	})

	register := func(d *Dispatcher) {
		err := Register(d,
			func(_ context.Context, _ createNote) (noteCreated, error) {
				events = append(events, "handle")
				return noteCreated{}, nil
			},
			WithValidators(ValidatorFunc(func(_ context.Context, _ any) error {
				events = append(events, "validate")
				return nil
			})),
			WithAuthorizer(AuthorizerFunc(func(_ context.Context, _ any) error {
				events = append(events, "authorize")
				return nil
			})),
		)
		require.NoError(t, err)
	}

	d := newDispatcher(t, DefaultConfig(), WithSink(sink))
	register(d)
	_, err := Dispatch[createNote, noteCreated](context.Background(), d, createNote{Title: "a note"})
	require.NoError(t, err)
	// The sink fires after the inner stages return, so logging appears last.
	assert.Equal(t, []string{"validate", "authorize", "handle", "log"}, events)

	events = nil
	reordered := newDispatcher(t, Config{Order: []string{BehaviorAuthorization, BehaviorValidation, BehaviorLogging}}, WithSink(sink))
	register(reordered)
	_, err = Dispatch[createNote, noteCreated](context.Background(), reordered, createNote{Title: "a note"})
	require.NoError(t, err)
	assert.Equal(t, []string{"authorize", "validate", "handle", "log"}, events)
}

func TestDispatchRejectsInvalidRequest(t *testing.T) {
	sink := &captureSink{}
	d := newDispatcher(t, DefaultConfig(), WithSink(sink))

	handled := false
	require.NoError(t, Register(d, func(_ context.Context, _ createNote) (noteCreated, error) {
		handled = true
		return noteCreated{}, nil
	}))

	_, err := Dispatch[createNote, noteCreated](context.Background(), d, createNote{Title: "x"})
	require.Error(t, err)
	assert.True(t, types.IsValidation(err))
	assert.False(t, handled)
	// Validation sits outside logging in the default order, so an invalid
	// request never produces an audit record.
	assert.Empty(t, sink.records)

	var verr *types.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "Title")
}

func TestDispatchRunsCustomValidators(t *testing.T) {
	d := newDispatcher(t, DefaultConfig())
	require.NoError(t, Register(d,
		func(_ context.Context, _ createNote) (noteCreated, error) {
			return noteCreated{}, nil
		},
		WithValidators(ValidatorFunc(func(_ context.Context, request any) error {
			if request.(createNote).Body == "" {
				return types.NewValidationError("Body", "must not be empty")
			}
			return nil
		})),
	))

	_, err := Dispatch[createNote, noteCreated](context.Background(), d, createNote{Title: "a note"})
	assert.True(t, types.IsValidation(err))

	_, err = Dispatch[createNote, noteCreated](context.Background(), d, createNote{Title: "a note", Body: "text"})
	assert.NoError(t, err)
}

func TestRequireAuthentication(t *testing.T) {
	sink := &captureSink{}
	d := newDispatcher(t, DefaultConfig(), WithSink(sink))

	handled := false
	require.NoError(t, Register(d,
		func(_ context.Context, _ createNote) (noteCreated, error) {
			handled = true
			return noteCreated{}, nil
		},
		RequireAuthentication(),
	))

	// Anonymous dispatch is denied before the handler.
	_, err := Dispatch[createNote, noteCreated](context.Background(), d, createNote{Title: "a note"})
	assert.True(t, types.IsAuthorization(err))
	assert.False(t, handled)

	// The denial is still audited: logging wraps authorization.
	require.Len(t, sink.records, 1)
	assert.NotEmpty(t, sink.records[0].Error)

	ctx := types.WithActor(context.Background(), &types.Actor{ID: "u-1"})
	_, err = Dispatch[createNote, noteCreated](ctx, d, createNote{Title: "a note"})
	require.NoError(t, err)
	assert.True(t, handled)
	require.Len(t, sink.records, 2)
	assert.Equal(t, "u-1", sink.records[1].Actor)

	// An actor without identity does not count as authenticated.
	anon := types.WithActor(context.Background(), &types.Actor{Name: "ghost"})
	_, err = Dispatch[createNote, noteCreated](anon, d, createNote{Title: "a note"})
	assert.True(t, types.IsAuthorization(err))
}

func TestAuthorizerRunsOnEveryDispatch(t *testing.T) {
	calls := 0
	d := newDispatcher(t, DefaultConfig())
	require.NoError(t, Register(d,
		func(_ context.Context, _ createNote) (noteCreated, error) {
			return noteCreated{}, nil
		},
		WithAuthorizer(AuthorizerFunc(func(_ context.Context, _ any) error {
			calls++
			return nil
		})),
	))

	for i := 0; i < 3; i++ {
		_, err := Dispatch[createNote, noteCreated](context.Background(), d, createNote{Title: "a note"})
		require.NoError(t, err)
	}
	assert.Equal(t, 3, calls)
}

func TestAuthorizerDenialBecomesAuthorizationError(t *testing.T) {
	d := newDispatcher(t, DefaultConfig())
	require.NoError(t, Register(d,
		func(_ context.Context, _ createNote) (noteCreated, error) {
			return noteCreated{}, nil
		},
		WithAuthorizer(AuthorizerFunc(func(_ context.Context, _ any) error {
			return errors.New("tenant mismatch")
		})),
	))

	_, err := Dispatch[createNote, noteCreated](context.Background(), d, createNote{Title: "a note"})
	require.Error(t, err)
	assert.True(t, types.IsAuthorization(err))
	assert.False(t, types.IsValidation(err))
	assert.Contains(t, err.Error(), "tenant mismatch")
}

func TestDispatchUnregisteredRequest(t *testing.T) {
	d := newDispatcher(t, DefaultConfig())
	_, err := Dispatch[createNote, noteCreated](context.Background(), d, createNote{Title: "a note"})
	assert.ErrorContains(t, err, "no handler registered")
}

func TestRegisterRejectsDuplicates(t *testing.T) {
	d := newDispatcher(t, DefaultConfig())
	handler := func(_ context.Context, _ createNote) (noteCreated, error) {
		return noteCreated{}, nil
	}
	require.NoError(t, Register(d, handler))
	assert.Error(t, Register(d, handler))
	assert.Error(t, Register[createNote, noteCreated](d, nil))
}

func TestNewRejectsBadBehaviorOrder(t *testing.T) {
	_, err := New(Config{Order: []string{"caching"}})
	assert.ErrorContains(t, err, "unknown pipeline behavior")

	_, err = New(Config{Order: []string{BehaviorLogging, BehaviorLogging}})
	assert.ErrorContains(t, err, "duplicate pipeline behavior")
}

func TestDispatchObservesCanceledContext(t *testing.T) {
	d := newDispatcher(t, DefaultConfig())
	require.NoError(t, Register(d, func(_ context.Context, _ createNote) (noteCreated, error) {
		return noteCreated{}, nil
	}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Dispatch[createNote, noteCreated](ctx, d, createNote{Title: "a note"})
	assert.ErrorIs(t, err, context.Canceled)
}
