package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// EngineConfig is the on-disk YAML shape for configuring an evaluation
// (§4.B Limits, §4.J batch daemon, §4.I persistence), grounded on the
// teacher's own preference for small, typed config structs over ad hoc
// flag parsing (internal/config/constants.go's named-constant tables are
// the closest teacher analogue; this is the first place in the corpus
// that loads configuration from a file rather than compiling it in, so
// it follows the pack's own `gopkg.in/yaml.v3` convention instead).
type EngineConfig struct {
	// Engine holds per-evaluation limits (§4.B Limits, §5). These fields
	// are parsed, but neither cmd/p4ilrun nor cmd/p4batchd passes them on:
	// both construct engine.Limits{}.
	Engine struct {
		MaxRecursionDepth int           `yaml:"max_recursion_depth"`
		Deadline          time.Duration `yaml:"deadline"`
	} `yaml:"engine"`

	// Batch configures cmd/p4batchd's fan-out (§4.J, §5).
	Batch struct {
		Concurrency int    `yaml:"concurrency"`
		JobsDir     string `yaml:"jobs_dir"`
		HealthAddr  string `yaml:"health_addr"`
	} `yaml:"batch"`

	// Store configures internal/store's sqlite persistence (§4.I).
	Store struct {
		Path string `yaml:"path"`
	} `yaml:"store"`
}

// DefaultEngineConfig mirrors engine.DefaultMaxDepth and a conservative
// batch/store default, used whenever no config file is supplied.
func DefaultEngineConfig() EngineConfig {
	var c EngineConfig
	c.Engine.MaxRecursionDepth = 4096
	c.Batch.Concurrency = 4
	c.Batch.HealthAddr = ":8090"
	c.Store.Path = "p4spectec.db"
	return c
}

// LoadEngineConfig reads and parses a YAML config file over
// DefaultEngineConfig: a field the file does not set keeps its default,
// and a field the file sets (even to zero) takes the file's value.
func LoadEngineConfig(path string) (EngineConfig, error) {
	cfg := DefaultEngineConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return EngineConfig{}, fmt.Errorf("config: reading %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return EngineConfig{}, fmt.Errorf("config: parsing %s: %w", path, err)
	}
	return cfg, nil
}
