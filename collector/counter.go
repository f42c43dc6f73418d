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

// Package collector implements the data-collector side of the counting
// protocol: blinded counters that are split into per-reporter shares at
// construction time and support O(1) increments.
package collector

import (
	"errors"
	"fmt"
	"sync"

	"github.com/privatemetrics/privcount/field"
	"github.com/privatemetrics/privcount/polynomial"
	"github.com/privatemetrics/privcount/sharecrypt"
	"github.com/privatemetrics/privcount/shares"
)

// ErrCounterFinalized is returned when incrementing or finalizing a
// counter whose shares have already been issued. Later increments would
// not be reflected in those shares.
var ErrCounterFinalized = errors.New("collector: counter already finalized")

type sealedShare struct {
	x   field.Element
	ey2 sharecrypt.Ciphertext
}

// Counter is one named metric owned by a data collector. Its true value
// is never stored: at construction the value is Shamir-split across the
// reporters, each share is split again into a locally-held offset and a
// half sealed to its reporter, and a random blinding value z is
// subtracted from every offset. Increments touch only z, so they cost
// O(1) regardless of the share count; finalize re-adds z to every
// offset, which restores the true share values plus all increments.
type Counter struct {
	name      string
	threshold int
	nShares   int

	offsets []field.Element
	secrets []sealedShare

	// mu serializes access to the accumulator so concurrent increments
	// are safe and finalize observes a consistent snapshot.
	mu        sync.Mutex
	z         field.Element
	finalized bool
}

// NewCounter creates a counter with the given initial value, splitting
// it into nShares shares of which any threshold reconstruct. recipients
// names the reporter each share is sealed to, in coordinate order
// (recipient i receives the share at x = i+1).
func NewCounter(name string, threshold, nShares int, initial uint64, enc sharecrypt.Encryptor, recipients []string) (*Counter, error) {
	if name == "" {
		return nil, fmt.Errorf("collector: counter name must not be empty")
	}
	if threshold < 1 {
		return nil, fmt.Errorf("collector: threshold must be at least 1, got %d", threshold)
	}
	if threshold > nShares {
		return nil, fmt.Errorf("collector: threshold %d exceeds share count %d", threshold, nShares)
	}
	if len(recipients) != nShares {
		return nil, fmt.Errorf("collector: got %d recipients, want %d", len(recipients), nShares)
	}

	// Any threshold points determine a degree threshold-1 polynomial;
	// fewer reveal nothing about its intercept.
	poly, err := polynomial.Random(threshold-1, field.New(initial))
	if err != nil {
		return nil, err
	}

	c := &Counter{
		name:      name,
		threshold: threshold,
		nShares:   nShares,
		offsets:   make([]field.Element, 0, nShares),
		secrets:   make([]sealedShare, 0, nShares),
	}
	for i := 1; i <= nShares; i++ {
		x := field.New(uint64(i))
		y1, y2, err := poly.EvaluateAt(x).Split()
		if err != nil {
			return nil, err
		}
		ey2, err := enc.Encrypt(y2, recipients[i-1])
		if err != nil {
			return nil, fmt.Errorf("collector: unable to seal share %d of counter %q: %w", i, name, err)
		}
		c.offsets = append(c.offsets, y1)
		c.secrets = append(c.secrets, sealedShare{x: x, ey2: ey2})
	}

	// Blind every offset with a single random z. z becomes the running
	// accumulator: incrementing it increments the counter, and finalize
	// adds it back into each offset.
	if c.z, err = field.Random(); err != nil {
		return nil, err
	}
	for i := range c.offsets {
		c.offsets[i] = c.offsets[i].Subtract(c.z)
	}
	return c, nil
}

// Name returns the counter's metric name.
func (c *Counter) Name() string { return c.name }

// Threshold returns the number of shares needed to reconstruct.
func (c *Counter) Threshold() int { return c.threshold }

// NumShares returns the number of shares the counter splits into.
func (c *Counter) NumShares() int { return c.nShares }

// Inc adds n to the counter. Safe for concurrent use.
func (c *Counter) Inc(n uint64) error {
	return c.apply(field.New(n))
}

// Dec subtracts n from the counter. Safe for concurrent use.
func (c *Counter) Dec(n uint64) error {
	return c.apply(field.New(n).Negate())
}

func (c *Counter) apply(delta field.Element) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.finalized {
		return ErrCounterFinalized
	}
	c.z = c.z.Add(delta)
	return nil
}

// Finalize consumes the counter and emits one share per reporter, with
// the accumulator folded back into each cleartext half. It is one-shot:
// a second call fails, as does any later increment.
func (c *Counter) Finalize() ([]shares.ClientCounterShare, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.finalized {
		return nil, ErrCounterFinalized
	}
	c.finalized = true

	out := make([]shares.ClientCounterShare, 0, c.nShares)
	for i, sec := range c.secrets {
		out = append(out, shares.ClientCounterShare{
			Name: c.name,
			X:    sec.x,
			Y1:   c.offsets[i].Add(c.z),
			EY2:  sec.ey2,
		})
	}
	return out, nil
}
