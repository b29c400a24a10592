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

package utils

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
)

// Logger is the concrete logger handed out by the registry.
type Logger = logrus.Logger

var (
	loggerRegistryMu sync.RWMutex
	loggerRegistry   = map[string]*logrus.Logger{}

	defaultLevel  = EnvDefaultString("LOG_LEVEL", "info")
	defaultFormat = EnvDefaultString("LOG_FORMAT", "text")
)

// EnvDefaultString returns the environment value for key, or def when unset.
func EnvDefaultString(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}

// EnvDefaultBool returns the environment value for key as a bool, or def
// when unset. "1" and "true" are truthy.
func EnvDefaultBool(key string, def bool) bool {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	s := strings.ToLower(strings.TrimSpace(v))
	return s == "1" || s == "true"
}

// NewLogger returns the named logger, creating and caching it on first use.
// Loggers share the process-wide level and format defaults but can be tuned
// individually with SetLoggerLevel.
func NewLogger(name string) *logrus.Logger {
	loggerRegistryMu.RLock()
	logger, ok := loggerRegistry[name]
	loggerRegistryMu.RUnlock()
	if ok {
		return logger
	}

	loggerRegistryMu.Lock()
	defer loggerRegistryMu.Unlock()
	if logger, ok = loggerRegistry[name]; ok {
		return logger
	}

	logger = logrus.New()
	logger.SetOutput(os.Stdout)
	logger.SetLevel(parseLevel(defaultLevel))
	logger.SetFormatter(newFormatter(name, defaultFormat))
	loggerRegistry[name] = logger
	return logger
}

// SetLoggerLevel adjusts the level of the named logger.
func SetLoggerLevel(name, level string) {
	NewLogger(name).SetLevel(parseLevel(level))
}

func parseLevel(level string) logrus.Level {
	parsed, err := logrus.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		return logrus.InfoLevel
	}
	return parsed
}

func newFormatter(name, format string) logrus.Formatter {
	if strings.EqualFold(format, "json") {
		return &logrus.JSONFormatter{
			TimestampFormat: "2006-01-02 15:04:05.000",
			FieldMap: logrus.FieldMap{
				logrus.FieldKeyTime: "time",
				logrus.FieldKeyMsg:  "message",
			},
		}
	}
	return &prefixedTextFormatter{
		name: name,
		text: logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "2006-01-02 15:04:05.000",
		},
	}
}

// prefixedTextFormatter prepends the registry name so interleaved output
// from several subsystems stays readable.
type prefixedTextFormatter struct {
	name string
	text logrus.TextFormatter
}

func (f *prefixedTextFormatter) Format(e *logrus.Entry) ([]byte, error) {
	clone := *e
	clone.Message = fmt.Sprintf("[%s] %s", f.name, e.Message)
	return f.text.Format(&clone)
}
