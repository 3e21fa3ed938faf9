// Command umap-bench drives a mixed put/get/remove workload against a
// unifiedmap.Map, then reports diagnostics and exercises a SaveFile/
// LoadFile round trip. Flags and run-config layering follow
// calvinalkan-agent-task's internal/cli/run.go and config.go.
package main

import (
	"fmt"
	"math/rand"
	"os"
	"strconv"
	"time"

	flag "github.com/spf13/pflag"

	"github.com/calvinalkan/unifiedmap/pkg/unifiedmap"
	"github.com/calvinalkan/unifiedmap/pkg/unifiedmap/persist"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, out, errOut *os.File) int {
	fs := flag.NewFlagSet("umap-bench", flag.ContinueOnError)
	fs.SetOutput(errOut)

	configPath := fs.StringP("config", "c", "", "JWCC run-config `file` (capacity_hint, load_factor, ops, seed)")
	capacityHint := fs.Int("capacity", -1, "override capacity_hint")
	loadFactor := fs.Float64("load-factor", -1, "override load_factor")
	ops := fs.Int("ops", -1, "override ops")
	seed := fs.Int64("seed", -1, "override seed")
	savePath := fs.StringP("save", "s", "", "round-trip the populated map through this file (default: a temp file)")

	fs.Usage = func() {
		fmt.Fprintln(errOut, "Usage: umap-bench [flags]")
		fmt.Fprintln(errOut)
		fmt.Fprintln(errOut, "Flags:")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return 1
	}

	cfg := defaultRunConfig()

	if *configPath != "" {
		loaded, err := loadRunConfig(*configPath)
		if err != nil {
			fmt.Fprintln(errOut, "error:", err)

			return 1
		}

		cfg = loaded
	}

	if *capacityHint >= 0 {
		cfg.CapacityHint = *capacityHint
	}

	if *loadFactor > 0 {
		cfg.LoadFactor = *loadFactor
	}

	if *ops >= 0 {
		cfg.Ops = *ops
	}

	if *seed >= 0 {
		cfg.Seed = *seed
	}

	if err := runBench(cfg, *savePath, out); err != nil {
		fmt.Fprintln(errOut, "error:", err)

		return 1
	}

	return 0
}

func runBench(cfg runConfig, savePath string, out *os.File) error {
	m, err := unifiedmap.NewWithCapacityAndLoad[string, string](cfg.CapacityHint, cfg.LoadFactor)
	if err != nil {
		return fmt.Errorf("constructing map: %w", err)
	}

	rng := rand.New(rand.NewSource(cfg.Seed)) //nolint:gosec // benchmark workload, not cryptographic

	const keySpaceFactor = 2

	keySpace := cfg.CapacityHint * keySpaceFactor
	if keySpace == 0 {
		keySpace = cfg.Ops
	}

	start := time.Now()

	var puts, gets, removes int

	for range cfg.Ops {
		key := strconv.Itoa(rng.Intn(keySpace))

		switch rng.Intn(3) {
		case 0:
			m.Put(key, key)

			puts++
		case 1:
			m.Get(key)

			gets++
		case 2:
			m.Remove(key)

			removes++
		}
	}

	elapsed := time.Since(start)

	fmt.Fprintf(out, "workload: %d ops (%d put, %d get, %d remove) in %s\n", cfg.Ops, puts, gets, removes, elapsed)
	fmt.Fprintf(out, "final size: %d\n", m.Size())

	diag := unifiedmap.DiagnosticsOf(m)
	fmt.Fprintf(out, "colliding buckets: %d\n", diag.CollidingBuckets)
	fmt.Fprintf(out, "memory words: %d\n", diag.MemoryWords)

	return roundTrip(m, savePath, out)
}

// roundTrip exercises persist.SaveFile/LoadFile against the populated map
// and reports whether the reloaded map's size matches.
func roundTrip(m *unifiedmap.Map[string, string], savePath string, out *os.File) error {
	path := savePath
	if path == "" {
		f, err := os.CreateTemp("", "umap-bench-*.bin")
		if err != nil {
			return fmt.Errorf("creating temp file: %w", err)
		}

		path = f.Name()

		_ = f.Close()

		defer os.Remove(path)
	}

	if err := persist.SaveFile(path, m); err != nil {
		return fmt.Errorf("saving %q: %w", path, err)
	}

	reloaded, err := persist.LoadFile[string, string](path)
	if err != nil {
		return fmt.Errorf("loading %q: %w", path, err)
	}

	fmt.Fprintf(out, "round trip via %s: size %d -> %d (match: %v)\n", path, m.Size(), reloaded.Size(), reloaded.Size() == m.Size())

	return nil
}
