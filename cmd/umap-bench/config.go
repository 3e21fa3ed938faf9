package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/tailscale/hujson"
)

// runConfig is the shape of a *.hujson run-config file, mirroring
// calvinalkan-agent-task's own Config/hujson.Standardize two-step in
// config.go, scaled down to the handful of knobs a benchmark run needs.
type runConfig struct {
	CapacityHint int     `json:"capacity_hint"` //nolint:tagliatelle // snake_case for config file
	LoadFactor   float64 `json:"load_factor"`   //nolint:tagliatelle
	Ops          int     `json:"ops"`
	Seed         int64   `json:"seed"`
}

// defaultRunConfig mirrors DefaultConfig in the teacher's config.go: the
// values used when no config file is given and no flag overrides them.
func defaultRunConfig() runConfig {
	return runConfig{
		CapacityHint: 1024,
		LoadFactor:   0.75,
		Ops:          100_000,
		Seed:         1,
	}
}

// loadRunConfig reads and parses a JWCC run-config file the same way
// config.go's parseConfig does: hujson.Standardize first to strip comments
// and trailing commas, then plain encoding/json.
func loadRunConfig(path string) (runConfig, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is from caller
	if err != nil {
		return runConfig{}, fmt.Errorf("reading %q: %w", path, err)
	}

	standardized, err := hujson.Standardize(data)
	if err != nil {
		return runConfig{}, fmt.Errorf("invalid JWCC in %q: %w", path, err)
	}

	cfg := defaultRunConfig()

	if err := json.Unmarshal(standardized, &cfg); err != nil {
		return runConfig{}, fmt.Errorf("invalid JSON in %q: %w", path, err)
	}

	return cfg, nil
}
