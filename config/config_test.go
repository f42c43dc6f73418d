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

package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/privatemetrics/privcount/config"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "round.yaml")
	if err := os.WriteFile(path, []byte(contents), 0644); err != nil {
		t.Fatalf("os.WriteFile() err = %v, want nil", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
threshold: 3
reporters:
  - tr-1
  - tr-2
  - tr-3
  - tr-4
counters:
  - cells
  - circuits
`)
	got, err := config.Load(path)
	if err != nil {
		t.Fatalf("config.Load() err = %v, want nil", err)
	}
	want := &config.RoundConfig{
		Threshold: 3,
		Reporters: []string{"tr-1", "tr-2", "tr-3", "tr-4"},
		Counters:  []string{"cells", "circuits"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("config.Load() returned unexpected config (-want +got):\n%s", diff)
	}
	if got.NumShares() != 4 {
		t.Errorf("NumShares() = %d, want 4", got.NumShares())
	}
}

func TestLoadRejectsInvalidConfigs(t *testing.T) {
	for _, tc := range []struct {
		name     string
		contents string
	}{
		{
			name:     "not yaml",
			contents: "{{{",
		},
		{
			name:     "unknown field",
			contents: "threshold: 1\nreporters: [tr-1]\ncounters: [cells]\nextra: true\n",
		},
		{
			name:     "zero threshold",
			contents: "threshold: 0\nreporters: [tr-1]\ncounters: [cells]\n",
		},
		{
			name:     "threshold above reporters",
			contents: "threshold: 3\nreporters: [tr-1, tr-2]\ncounters: [cells]\n",
		},
		{
			name:     "duplicate reporter",
			contents: "threshold: 2\nreporters: [tr-1, tr-1]\ncounters: [cells]\n",
		},
		{
			name:     "empty reporter",
			contents: "threshold: 1\nreporters: ['']\ncounters: [cells]\n",
		},
		{
			name:     "no counters",
			contents: "threshold: 1\nreporters: [tr-1]\ncounters: []\n",
		},
		{
			name:     "duplicate counter",
			contents: "threshold: 1\nreporters: [tr-1]\ncounters: [cells, cells]\n",
		},
		{
			name:     "empty counter name",
			contents: "threshold: 1\nreporters: [tr-1]\ncounters: ['']\n",
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			path := writeConfig(t, tc.contents)
			if _, err := config.Load(path); err == nil {
				t.Error("config.Load() err = nil, want error")
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("config.Load() err = nil, want error")
	}
}
