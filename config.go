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

package keel

import (
	"fmt"
	"os"

	"github.com/lunarhue/keel/database"
	"github.com/lunarhue/keel/pipeline"
	"github.com/lunarhue/keel/utils"
	"gopkg.in/yaml.v3"
)

// LoggingConfig tunes the process-wide logger defaults. Per-subsystem
// levels can still be changed with utils.SetLoggerLevel.
type LoggingConfig struct {
	Level  string `json:"level" yaml:"level"`
	Format string `json:"format" yaml:"format"` // text or json
}

// Config is the top-level application configuration: the database
// connection, the pipeline behavior order, and logging defaults.
type Config struct {
	Database database.Config `json:"database" yaml:"database"`
	Pipeline pipeline.Config `json:"pipeline" yaml:"pipeline"`
	Logging  LoggingConfig   `json:"logging" yaml:"logging"`
}

// DefaultConfig returns a configuration with the standard behavior order
// and default connection pool settings. The database connection itself
// (type, host, credentials) must still be filled in.
func DefaultConfig() *Config {
	return &Config{
		Database: database.Config{ConnectionConfig: *database.DefaultConnectionConfig()},
		Pipeline: pipeline.DefaultConfig(),
		Logging:  LoggingConfig{Level: "info", Format: "text"},
	}
}

// LoadConfig reads a YAML configuration file, layering it over the
// defaults. Fields absent from the file keep their default values.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if cfg.Logging.Level != "" {
		utils.SetLoggerLevel("DATABASE", cfg.Logging.Level)
		utils.SetLoggerLevel("PIPELINE", cfg.Logging.Level)
	}
	return cfg, nil
}
