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
	"time"

	"github.com/google/uuid"
	"github.com/lunarhue/keel/types"
)

// loggingBehavior emits one audit record per request: correlation id,
// request name, actor, source address, duration, and outcome. It sits
// outside authorization in the default order, so denied requests are
// recorded too. Sink failures are contained here and never alter the
// request outcome.
type loggingBehavior struct {
	dispatcher *Dispatcher
}

func (b *loggingBehavior) Name() string { return BehaviorLogging }

func (b *loggingBehavior) Wrap(next Handler) Handler {
	return func(ctx context.Context, request any) (any, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		cid, ok := CorrelationIDFrom(ctx)
		if !ok {
			cid = uuid.NewString()
			ctx = WithCorrelationID(ctx, cid)
		}

		start := time.Now()
		response, err := next(ctx, request)

		record := Record{
			Time:          start.UTC(),
			CorrelationID: cid,
			Request:       fmt.Sprintf("%T", request),
			Duration:      time.Since(start),
		}
		if actor, ok := types.ActorFrom(ctx); ok {
			record.Actor = actor.ID
		}
		if source, ok := SourceFrom(ctx); ok {
			record.Source = source
		}
		if err != nil {
			record.Error = err.Error()
		}
		b.emit(ctx, record)

		return response, err
	}
}

// emit delivers the record and absorbs every sink failure, error and panic
// alike. The failure is reported through the fallback logger as a
// types.LoggingSinkError so operators can see the sink is broken.
func (b *loggingBehavior) emit(ctx context.Context, record Record) {
	defer func() {
		if r := recover(); r != nil {
			sinkErr := &types.LoggingSinkError{Err: fmt.Errorf("panic: %v", r)}
			b.dispatcher.logger.WithField("correlation_id", record.CorrelationID).Warn(sinkErr.Error())
		}
	}()
	if err := b.dispatcher.sink.Emit(ctx, record); err != nil {
		sinkErr := &types.LoggingSinkError{Err: err}
		b.dispatcher.logger.WithField("correlation_id", record.CorrelationID).Warn(sinkErr.Error())
	}
}
