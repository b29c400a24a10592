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

import "fmt"

// Built-in behavior names usable in Config.Order.
const (
	BehaviorValidation    = "validation"
	BehaviorLogging       = "logging"
	BehaviorAuthorization = "authorization"
)

// Config declares the behavior chain. Order lists behavior names from
// outermost to innermost; the first entry sees the request first and the
// response last.
type Config struct {
	Order []string `json:"order" yaml:"order"`
}

// DefaultConfig returns the standard chain: validate before doing any work,
// log every attempt including unauthorized ones, authorize last so denials
// are recorded.
func DefaultConfig() Config {
	return Config{
		Order: []string{BehaviorValidation, BehaviorLogging, BehaviorAuthorization},
	}
}

// normalize fills an empty order with the default and rejects unknown or
// duplicate behavior names.
func (c Config) normalize() ([]string, error) {
	order := c.Order
	if len(order) == 0 {
		order = DefaultConfig().Order
	}
	seen := make(map[string]bool, len(order))
	for _, name := range order {
		switch name {
		case BehaviorValidation, BehaviorLogging, BehaviorAuthorization:
		default:
			return nil, fmt.Errorf("unknown pipeline behavior %q", name)
		}
		if seen[name] {
			return nil, fmt.Errorf("duplicate pipeline behavior %q", name)
		}
		seen[name] = true
	}
	return order, nil
}
