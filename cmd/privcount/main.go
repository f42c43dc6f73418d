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

// This binary is the main entrypoint for the privcount command line
// tool. It runs complete in-process reporting rounds so the protocol
// can be demonstrated and inspected without any network transport.
package main

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"sort"
	"strings"

	"flag"
	"github.com/alecthomas/colour"
	glog "github.com/golang/glog"
	"github.com/google/subcommands"
	"github.com/google/tink/go/keyset"
	"github.com/privatemetrics/privcount/collector"
	"github.com/privatemetrics/privcount/config"
	"github.com/privatemetrics/privcount/reporter"
	"github.com/privatemetrics/privcount/sharecrypt"
	"github.com/privatemetrics/privcount/shares"
)

const privcountVersion string = "0.1.0"

// demoCmd handles CLI options for the demo round command.
type demoCmd struct {
	configFile string
	collectors int
	hybrid     bool
}

func (*demoCmd) Name() string { return "demo" }
func (*demoCmd) Synopsis() string {
	return "runs a complete in-process reporting round and reconstructs the totals"
}
func (*demoCmd) Usage() string {
	return `Usage: privcount demo [--config-file=<round_yaml>] [--collectors=<n>] [--hybrid]

Runs one reporting round: each simulated data collector increments every
configured counter, finalizes its counters into per-reporter share
bundles, each tally reporter decrypts and combines its shares, and a
random threshold-sized quorum reconstructs the aggregate totals.

Examples:
  Run with the built-in 3-of-6 round:
    $ privcount demo

  Run a round described by a config file, with real hybrid encryption:
    $ privcount demo --config-file="round.yaml" --hybrid

Flags:
`
}
func (d *demoCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&d.configFile, "config-file", "", "Path to a round config YAML file. Optional.")
	f.IntVar(&d.collectors, "collectors", 2, "Number of simulated data collectors.")
	f.BoolVar(&d.hybrid, "hybrid", false, "Seal share halves with Tink hybrid encryption instead of the simulated scheme.")
}

func (d *demoCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg := &config.RoundConfig{
		Threshold: 3,
		Reporters: []string{"tr-1", "tr-2", "tr-3", "tr-4", "tr-5", "tr-6"},
		Counters:  []string{"cells", "circuits"},
	}
	if d.configFile != "" {
		var err error
		if cfg, err = config.Load(d.configFile); err != nil {
			glog.Errorf("Failed to load round config: %v", err)
			return subcommands.ExitFailure
		}
	}
	if d.collectors < 1 {
		glog.Errorf("Need at least one collector, got %d", d.collectors)
		return subcommands.ExitFailure
	}

	enc, decryptors, err := buildCrypto(cfg.Reporters, d.hybrid)
	if err != nil {
		glog.Errorf("Failed to set up share encryption: %v", err)
		return subcommands.ExitFailure
	}

	reporters := make([]*reporter.Reporter, len(cfg.Reporters))
	for i, dec := range decryptors {
		reporters[i] = reporter.New(dec)
	}

	// Each collector increments every counter by a distinct amount so
	// the expected totals are easy to verify by eye.
	want := make(map[string]uint64, len(cfg.Counters))
	for dc := 0; dc < d.collectors; dc++ {
		round, err := collector.NewRound(cfg.Threshold, cfg.Reporters, enc)
		if err != nil {
			glog.Errorf("Failed to create round: %v", err)
			return subcommands.ExitFailure
		}
		glog.Infof("Collector %d opened round %s", dc+1, round.ID())
		for ci, name := range cfg.Counters {
			c, err := round.NewCounter(name, 0)
			if err != nil {
				glog.Errorf("Failed to create counter %q: %v", name, err)
				return subcommands.ExitFailure
			}
			amount := uint64((dc + 1) * (ci + 1) * 10)
			if err := c.Inc(amount); err != nil {
				glog.Errorf("Failed to increment counter %q: %v", name, err)
				return subcommands.ExitFailure
			}
			want[name] += amount
		}
		bundles, err := round.Finalize()
		if err != nil {
			glog.Errorf("Failed to finalize round: %v", err)
			return subcommands.ExitFailure
		}
		for i, rep := range reporters {
			if err := rep.IngestBundle(bundles[cfg.Reporters[i]]); err != nil {
				glog.Errorf("Reporter %s failed to ingest bundle: %v", rep.ID(), err)
				return subcommands.ExitFailure
			}
		}
	}

	// Any threshold of the reporters can form the quorum; pick one at
	// random the way a real round would end up with whichever reporters
	// respond first.
	quorum := rand.Perm(len(reporters))[:cfg.Threshold]
	sort.Ints(quorum)
	quorumIDs := make([]string, len(quorum))
	published := make([][]shares.CounterShare, len(quorum))
	for i, idx := range quorum {
		quorumIDs[i] = reporters[idx].ID()
		published[i] = reporters[idx].Publish()
	}
	fmt.Printf("Quorum: %s (threshold %d of %d reporters)\n", strings.Join(quorumIDs, ", "), cfg.Threshold, len(reporters))

	totals, err := reporter.TallyCounts(published, cfg.Threshold)
	if err != nil {
		glog.Errorf("Failed to tally counts: %v", err)
		return subcommands.ExitFailure
	}

	ok := true
	for _, name := range cfg.Counters {
		got := totals[name].Uint64()
		if got == want[name] {
			colour.Printf("^2 - %s = %d^R\n", name, got)
		} else {
			colour.Printf("^1 - %s = %d, want %d^R\n", name, got, want[name])
			ok = false
		}
	}
	if !ok {
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

// buildCrypto creates the shared encryptor and one decryptor per
// reporter, either simulated or Tink-backed.
func buildCrypto(reporters []string, useHybrid bool) (sharecrypt.Encryptor, []sharecrypt.Decryptor, error) {
	if !useHybrid {
		decryptors := make([]sharecrypt.Decryptor, len(reporters))
		for i, id := range reporters {
			decryptors[i] = sharecrypt.NewSimulatedDecryptor(id)
		}
		return sharecrypt.SimulatedEncryptor{}, decryptors, nil
	}

	publicKeys := make(map[string]*keyset.Handle, len(reporters))
	decryptors := make([]sharecrypt.Decryptor, len(reporters))
	for i, id := range reporters {
		private, err := sharecrypt.NewHybridKeyset()
		if err != nil {
			return nil, nil, err
		}
		public, err := private.Public()
		if err != nil {
			return nil, nil, fmt.Errorf("unable to derive public keyset for %q: %v", id, err)
		}
		publicKeys[id] = public
		if decryptors[i], err = sharecrypt.NewHybridDecryptor(id, private); err != nil {
			return nil, nil, err
		}
	}
	enc, err := sharecrypt.NewHybridEncryptor(publicKeys)
	if err != nil {
		return nil, nil, err
	}
	return enc, decryptors, nil
}

// versionCmd prints the current version of the privcount tool.
type versionCmd struct{}

func (*versionCmd) Name() string             { return "version" }
func (*versionCmd) Synopsis() string         { return "prints the current version" }
func (*versionCmd) Usage() string            { return "Usage: privcount version\n" }
func (*versionCmd) SetFlags(f *flag.FlagSet) {}
func (v *versionCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	fmt.Println(privcountVersion)
	return subcommands.ExitSuccess
}

func main() {
	subcommands.Register(subcommands.HelpCommand(), "")
	subcommands.Register(subcommands.FlagsCommand(), "")
	subcommands.Register(subcommands.CommandsCommand(), "")
	subcommands.Register(&demoCmd{}, "")
	subcommands.Register(&versionCmd{}, "")

	flag.Parse()
	ctx := context.Background()
	os.Exit(int(subcommands.Execute(ctx)))
}
