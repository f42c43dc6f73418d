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

// Package reporter implements the tally-reporter side of the counting
// protocol: decrypting the shares received from data collectors,
// combining same-counter shares additively, and publishing one combined
// share per counter for quorum reconstruction.
package reporter

import (
	"fmt"
	"sort"
	"sync"

	glog "github.com/golang/glog"
	"github.com/privatemetrics/privcount/field"
	"github.com/privatemetrics/privcount/sharecrypt"
	"github.com/privatemetrics/privcount/shares"
)

// Reporter is one tally reporter. It holds the decryptor for its own
// identity and a running combined share per counter name. Combination
// is commutative and associative, so shares may be ingested in any
// order and incrementally as collectors report.
type Reporter struct {
	id  string
	dec sharecrypt.Decryptor

	mu      sync.Mutex
	tallies map[string]shares.CounterShare
}

// New creates a reporter around its decryptor. The reporter's identity
// is the decryptor's recipient identity.
func New(dec sharecrypt.Decryptor) *Reporter {
	return &Reporter{
		id:      dec.Recipient(),
		dec:     dec,
		tallies: make(map[string]shares.CounterShare),
	}
}

// ID returns the reporter's identity.
func (r *Reporter) ID() string { return r.id }

// Ingest decrypts one collector share and folds it into the running
// tally for its counter. A share for a known counter at a different x
// coordinate is a data-integrity violation and aborts that counter's
// aggregation.
func (r *Reporter) Ingest(s shares.ClientCounterShare) error {
	cs, err := s.Decrypt(r.dec)
	if err != nil {
		glog.Warningf("Reporter %s: failed to decrypt share of counter %q: %v", r.id, s.Name, err)
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.tallies[cs.Name]
	if !ok {
		r.tallies[cs.Name] = cs
		return nil
	}
	combined, err := existing.Add(cs)
	if err != nil {
		glog.Warningf("Reporter %s: mismatched share for counter %q: %v", r.id, cs.Name, err)
		return err
	}
	r.tallies[cs.Name] = combined
	return nil
}

// IngestBundle ingests every share in a collector's bundle, stopping at
// the first failure.
func (r *Reporter) IngestBundle(bundle []shares.ClientCounterShare) error {
	for _, s := range bundle {
		if err := r.Ingest(s); err != nil {
			return err
		}
	}
	return nil
}

// Publish returns the reporter's combined share for every counter it
// has seen, sorted by counter name. These are what quorum members
// exchange for reconstruction; individual collector contributions are
// no longer recoverable from them.
func (r *Reporter) Publish() []shares.CounterShare {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]shares.CounterShare, 0, len(r.tallies))
	for _, cs := range r.tallies {
		out = append(out, cs)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// TallyCounts reconstructs the aggregate value of every counter from
// the shares published by a quorum of reporters. Each counter needs at
// least threshold shares across the quorum; a counter below the
// threshold fails the whole tally rather than being silently dropped.
func TallyCounts(published [][]shares.CounterShare, threshold int) (map[string]field.Element, error) {
	byName := make(map[string][]shares.CounterShare)
	for _, reporterShares := range published {
		for _, cs := range reporterShares {
			byName[cs.Name] = append(byName[cs.Name], cs)
		}
	}

	totals := make(map[string]field.Element, len(byName))
	for name, ss := range byName {
		value, err := shares.Reconstruct(ss, threshold)
		if err != nil {
			return nil, fmt.Errorf("reporter: tallying counter %q: %w", name, err)
		}
		totals[name] = value
	}
	glog.Infof("Tallied %d counters from %d reporters", len(totals), len(published))
	return totals, nil
}
