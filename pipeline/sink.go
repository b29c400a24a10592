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
	"time"

	"github.com/lunarhue/keel/utils"
	"github.com/sirupsen/logrus"
)

// Record is one audit entry describing a dispatched request.
type Record struct {
	Time          time.Time     `json:"time"`
	CorrelationID string        `json:"correlation_id"`
	Request       string        `json:"request"`
	Actor         string        `json:"actor,omitempty"`
	Source        string        `json:"source,omitempty"`
	Duration      time.Duration `json:"duration"`
	Error         string        `json:"error,omitempty"`
}

// Sink receives audit records. Emissions happen on the request path, so a
// slow sink slows requests; a failing or panicking sink never does more
// than lose its own record.
type Sink interface {
	Emit(ctx context.Context, record Record) error
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(ctx context.Context, record Record) error

func (f SinkFunc) Emit(ctx context.Context, record Record) error {
	return f(ctx, record)
}

// loggerSink writes audit records as structured log entries.
type loggerSink struct {
	logger *utils.Logger
}

// NewLoggerSink returns a sink backed by the given logger. A nil logger
// uses the package default.
func NewLoggerSink(logger *utils.Logger) Sink {
	if logger == nil {
		logger = utils.NewLogger("PIPELINE")
	}
	return &loggerSink{logger: logger}
}

func (s *loggerSink) Emit(_ context.Context, record Record) error {
	fields := logrus.Fields{
		"correlation_id": record.CorrelationID,
		"request":        record.Request,
		"duration":       record.Duration.String(),
	}
	if record.Actor != "" {
		fields["actor"] = record.Actor
	}
	if record.Source != "" {
		fields["source"] = record.Source
	}
	if record.Error != "" {
		fields["error"] = record.Error
		s.logger.WithFields(fields).Warn("request failed")
		return nil
	}
	s.logger.WithFields(fields).Info("request handled")
	return nil
}
