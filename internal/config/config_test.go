package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "swarmloop.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
[engine]
target_fps = 30
clusters = 4
max_workers = 8
barrier_timeout = "20ms"

[window]
headless = true
headless_frames = 120

[database]
enabled = true
snapshot_interval = 10
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Engine.TargetFPS != 30 || cfg.Engine.Clusters != 4 || cfg.Engine.MaxWorkers != 8 {
		t.Errorf("engine = %+v", cfg.Engine)
	}
	if cfg.Engine.BarrierTimeout != 20*time.Millisecond {
		t.Errorf("barrier_timeout = %v", cfg.Engine.BarrierTimeout)
	}
	if cfg.Engine.PoolCapacity != 1000 {
		t.Errorf("pool_capacity default lost: %d", cfg.Engine.PoolCapacity)
	}
	if !cfg.Window.Headless || cfg.Window.HeadlessFrames != 120 || cfg.Window.Title != "swarmloop" {
		t.Errorf("window = %+v", cfg.Window)
	}
	if !cfg.Database.Enabled || cfg.Database.SnapshotInterval != 10 || cfg.Database.ConnMaxLifetime != 30*time.Minute {
		t.Errorf("database = %+v", cfg.Database)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestLoadResolvesWorkers(t *testing.T) {
	cfg, err := Load(writeConfig(t, "[engine]\npool_capacity = 2\nmax_workers = 16\n"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Engine.Clusters != 2 {
		t.Errorf("clusters = %d, want capped at capacity 2", cfg.Engine.Clusters)
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.toml")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("missing file: %v", err)
	}
	if _, err := Load(writeConfig(t, "[engine\n")); err == nil {
		t.Error("malformed file accepted")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		want   error
	}{
		{"fps", func(c *Config) { c.Engine.TargetFPS = 0 }, ErrTargetFPS},
		{"capacity", func(c *Config) { c.Engine.PoolCapacity = -1 }, ErrCapacity},
		{"zero clusters", func(c *Config) { c.Engine.Clusters = -2 }, ErrClusters},
		{"too many clusters", func(c *Config) { c.Engine.Clusters = c.Engine.MaxWorkers + 1 }, ErrClusters},
		{"window", func(c *Config) { c.Window.Width = 0 }, ErrWindowSize},
		{"profile", func(c *Config) { c.Profile.Mode = "gpu" }, ErrProfileMode},
		{"level", func(c *Config) { c.Logging.Level = "loud" }, ErrLoggingLevel},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)
			if err := cfg.Validate(); !errors.Is(err, tt.want) {
				t.Errorf("Validate = %v, want %v", err, tt.want)
			}
		})
	}

	headless := Default()
	headless.Window.Headless = true
	headless.Window.Width = 0
	if err := headless.Validate(); err != nil {
		t.Errorf("headless window size checked: %v", err)
	}
}

func TestShippedConfigIsValid(t *testing.T) {
	cfg, err := Load(filepath.Join("..", "..", "config", "swarmloop.toml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
	if cfg.Scene.Path != "data/yaml/scene.yaml" || cfg.Scene.Seed != 0 {
		t.Errorf("scene = %+v", cfg.Scene)
	}
	if cfg.Engine.BarrierTimeout != 50*time.Millisecond {
		t.Errorf("barrier_timeout = %v", cfg.Engine.BarrierTimeout)
	}
}
