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

package collector_test

import (
	"errors"
	"testing"

	"github.com/privatemetrics/privcount/collector"
	"github.com/privatemetrics/privcount/sharecrypt"
)

func TestNewRoundValidation(t *testing.T) {
	enc := sharecrypt.SimulatedEncryptor{}
	for _, tc := range []struct {
		name      string
		threshold int
		reporters []string
	}{
		{"zero threshold", 0, reporterIdentities(3)},
		{"threshold above reporters", 4, reporterIdentities(3)},
		{"empty reporter identity", 2, []string{"tr-1", ""}},
		{"duplicate reporter identity", 2, []string{"tr-1", "tr-1"}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := collector.NewRound(tc.threshold, tc.reporters, enc); err == nil {
				t.Error("NewRound() err = nil, want error")
			}
		})
	}
}

func TestRoundTracksCounters(t *testing.T) {
	enc := sharecrypt.SimulatedEncryptor{}
	r, err := collector.NewRound(2, reporterIdentities(3), enc)
	if err != nil {
		t.Fatalf("NewRound() err = %v, want nil", err)
	}
	if r.ID() == "" {
		t.Error("ID() = empty, want a round identifier")
	}

	c, err := r.NewCounter("cells", 0)
	if err != nil {
		t.Fatalf("NewCounter() err = %v, want nil", err)
	}
	if _, err := r.NewCounter("cells", 0); !errors.Is(err, collector.ErrDuplicateCounter) {
		t.Errorf("duplicate NewCounter() err = %v, want ErrDuplicateCounter", err)
	}
	got, ok := r.Counter("cells")
	if !ok || got != c {
		t.Errorf("Counter(cells) = %v, %v, want the created counter, true", got, ok)
	}
	if _, ok := r.Counter("circuits"); ok {
		t.Error("Counter(circuits) ok = true, want false")
	}
}

func TestRoundFinalizeBundlesPerReporter(t *testing.T) {
	enc := sharecrypt.SimulatedEncryptor{}
	reporters := reporterIdentities(3)
	r, err := collector.NewRound(2, reporters, enc)
	if err != nil {
		t.Fatalf("NewRound() err = %v, want nil", err)
	}
	for _, name := range []string{"cells", "circuits"} {
		c, err := r.NewCounter(name, 0)
		if err != nil {
			t.Fatalf("NewCounter(%q) err = %v, want nil", name, err)
		}
		if err := c.Inc(7); err != nil {
			t.Fatalf("Inc() err = %v, want nil", err)
		}
	}

	bundles, err := r.Finalize()
	if err != nil {
		t.Fatalf("Finalize() err = %v, want nil", err)
	}
	if len(bundles) != len(reporters) {
		t.Fatalf("Finalize() produced %d bundles, want %d", len(bundles), len(reporters))
	}
	for _, rep := range reporters {
		bundle := bundles[rep]
		if len(bundle) != 2 {
			t.Fatalf("bundle for %s has %d shares, want 2", rep, len(bundle))
		}
		for _, s := range bundle {
			if s.EY2.Recipient != rep {
				t.Errorf("share of %q in %s's bundle is sealed to %q", s.Name, rep, s.EY2.Recipient)
			}
		}
		if bundle[0].Name != "cells" || bundle[1].Name != "circuits" {
			t.Errorf("bundle for %s out of creation order: %q, %q", rep, bundle[0].Name, bundle[1].Name)
		}
	}

	if _, err := r.Finalize(); !errors.Is(err, collector.ErrCounterFinalized) {
		t.Errorf("second Finalize() err = %v, want ErrCounterFinalized", err)
	}
}
