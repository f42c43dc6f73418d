// Copyright 2024 The PrivCount Go Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package config loads the YAML configuration shared by all parties in
// a reporting round: the reconstruction threshold, the tally reporter
// identities, and the counters being collected.
package config

import (
	"fmt"
	"os"

	"sigs.k8s.io/yaml"
)

// RoundConfig describes one reporting round. It is a public system
// parameter: every data collector and tally reporter in the round must
// agree on it.
type RoundConfig struct {
	// Threshold is the number of reporter shares needed to reconstruct
	// an aggregate counter value.
	Threshold int `json:"threshold"`
	// Reporters lists the tally reporter identities, in share
	// coordinate order. The share count equals the reporter count.
	Reporters []string `json:"reporters"`
	// Counters lists the metric names collected this round.
	Counters []string `json:"counters"`
}

// Load reads and validates a round configuration from a YAML file.
func Load(path string) (*RoundConfig, error) {
	yamlBytes, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("unable to read config file %q: %v", path, err)
	}
	cfg := &RoundConfig{}
	if err := yaml.UnmarshalStrict(yamlBytes, cfg); err != nil {
		return nil, fmt.Errorf("unable to parse config file %q: %v", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %q: %w", path, err)
	}
	return cfg, nil
}

// NumShares returns the number of shares each counter splits into, one
// per reporter.
func (c *RoundConfig) NumShares() int {
	return len(c.Reporters)
}

// Validate checks the configuration's internal consistency.
func (c *RoundConfig) Validate() error {
	if c.Threshold < 1 {
		return fmt.Errorf("threshold must be at least 1, got %d", c.Threshold)
	}
	if c.Threshold > len(c.Reporters) {
		return fmt.Errorf("threshold %d exceeds reporter count %d", c.Threshold, len(c.Reporters))
	}
	seenReporters := make(map[string]bool, len(c.Reporters))
	for _, r := range c.Reporters {
		if r == "" {
			return fmt.Errorf("reporter identity must not be empty")
		}
		if seenReporters[r] {
			return fmt.Errorf("duplicate reporter identity %q", r)
		}
		seenReporters[r] = true
	}
	if len(c.Counters) == 0 {
		return fmt.Errorf("at least one counter is required")
	}
	seenCounters := make(map[string]bool, len(c.Counters))
	for _, name := range c.Counters {
		if name == "" {
			return fmt.Errorf("counter name must not be empty")
		}
		if seenCounters[name] {
			return fmt.Errorf("duplicate counter name %q", name)
		}
		seenCounters[name] = true
	}
	return nil
}
