package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadEngineConfigOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	doc := "engine:\n  max_recursion_depth: 128\n  deadline: 2s\nbatch:\n  concurrency: 8\n"
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatalf("writing fixture config: %v", err)
	}

	cfg, err := LoadEngineConfig(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Engine.MaxRecursionDepth != 128 {
		t.Fatalf("max_recursion_depth = %d, want 128", cfg.Engine.MaxRecursionDepth)
	}
	if cfg.Engine.Deadline != 2*time.Second {
		t.Fatalf("deadline = %v, want 2s", cfg.Engine.Deadline)
	}
	if cfg.Batch.Concurrency != 8 {
		t.Fatalf("concurrency = %d, want 8", cfg.Batch.Concurrency)
	}
	if cfg.Store.Path != DefaultEngineConfig().Store.Path {
		t.Fatalf("store path should keep default when unset in yaml, got %q", cfg.Store.Path)
	}
}

func TestLoadEngineConfigMissingFile(t *testing.T) {
	if _, err := LoadEngineConfig(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("expected an error for a missing config file")
	}
}
