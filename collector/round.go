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

package collector

import (
	"errors"
	"fmt"
	"sync"

	glog "github.com/golang/glog"
	"github.com/google/uuid"
	"github.com/privatemetrics/privcount/sharecrypt"
	"github.com/privatemetrics/privcount/shares"
)

// ErrDuplicateCounter is returned when creating a counter whose name is
// already tracked in the round.
var ErrDuplicateCounter = errors.New("collector: counter already exists in this round")

// Round groups all of one data collector's counters for a single
// reporting round. Every counter in the round shares the same threshold
// and the same set of tally reporters, and the round finalizes all of
// them at once into one bundle per reporter.
type Round struct {
	id        string
	threshold int
	reporters []string
	enc       sharecrypt.Encryptor

	mu       sync.Mutex
	counters map[string]*Counter
	order    []string
}

// NewRound creates a reporting round with a fresh round ID. Shares are
// sealed to the given reporters in coordinate order.
func NewRound(threshold int, reporters []string, enc sharecrypt.Encryptor) (*Round, error) {
	if threshold < 1 {
		return nil, fmt.Errorf("collector: threshold must be at least 1, got %d", threshold)
	}
	if threshold > len(reporters) {
		return nil, fmt.Errorf("collector: threshold %d exceeds reporter count %d", threshold, len(reporters))
	}
	seen := make(map[string]bool, len(reporters))
	for _, r := range reporters {
		if r == "" {
			return nil, fmt.Errorf("collector: reporter identity must not be empty")
		}
		if seen[r] {
			return nil, fmt.Errorf("collector: duplicate reporter identity %q", r)
		}
		seen[r] = true
	}
	return &Round{
		id:        uuid.NewString(),
		threshold: threshold,
		reporters: append([]string(nil), reporters...),
		enc:       enc,
		counters:  make(map[string]*Counter),
	}, nil
}

// ID returns the round's unique identifier.
func (r *Round) ID() string { return r.id }

// NewCounter creates a counter for the named metric in this round.
func (r *Round) NewCounter(name string, initial uint64) (*Counter, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.counters[name]; ok {
		return nil, fmt.Errorf("%w: %q", ErrDuplicateCounter, name)
	}
	c, err := NewCounter(name, r.threshold, len(r.reporters), initial, r.enc, r.reporters)
	if err != nil {
		return nil, err
	}
	r.counters[name] = c
	r.order = append(r.order, name)
	return c, nil
}

// Counter returns the named counter, if it exists in this round.
func (r *Round) Counter(name string) (*Counter, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.counters[name]
	return c, ok
}

// Finalize finalizes every counter in the round and groups the emitted
// shares into one bundle per reporter identity, in counter creation
// order. Each counter is consumed; a partially finalized round cannot
// be retried.
func (r *Round) Finalize() (map[string][]shares.ClientCounterShare, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	glog.Infof("Finalizing round %s: %d counters for %d tally reporters", r.id, len(r.order), len(r.reporters))
	bundles := make(map[string][]shares.ClientCounterShare, len(r.reporters))
	for _, name := range r.order {
		ccs, err := r.counters[name].Finalize()
		if err != nil {
			return nil, fmt.Errorf("collector: finalizing counter %q in round %s: %w", name, r.id, err)
		}
		for i, s := range ccs {
			recipient := r.reporters[i]
			bundles[recipient] = append(bundles[recipient], s)
		}
	}
	return bundles, nil
}
