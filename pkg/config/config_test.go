package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/matzehuels/wayfinder/pkg/errors"
	"github.com/matzehuels/wayfinder/pkg/graph"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "wayfinder.toml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\") error = %v", err)
	}
	if cfg.Traffic.Step != graph.DefaultTrafficStep {
		t.Errorf("Traffic.Step = %v, want %v", cfg.Traffic.Step, graph.DefaultTrafficStep)
	}
	if cfg.Server.Addr != ":8080" {
		t.Errorf("Server.Addr = %q, want :8080", cfg.Server.Addr)
	}
	if cfg.Cache.Backend != CacheMemory {
		t.Errorf("Cache.Backend = %q, want memory", cfg.Cache.Backend)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
[map]
path = "city.json"
pick_radius = 20

[traffic]
step = 25
moderate_threshold = 3.0

[server]
addr = ":9090"
session_ttl = "10m"

[cache]
backend = "redis"
redis_addr = "redis.internal:6379"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Map.Path != "city.json" {
		t.Errorf("Map.Path = %q", cfg.Map.Path)
	}
	if cfg.Map.PickRadius != 20 {
		t.Errorf("Map.PickRadius = %v, want 20", cfg.Map.PickRadius)
	}
	if cfg.Traffic.Step != 25 {
		t.Errorf("Traffic.Step = %v, want 25", cfg.Traffic.Step)
	}
	// Unset fields keep defaults.
	if cfg.Traffic.NormalThreshold != graph.DefaultNormalThreshold {
		t.Errorf("Traffic.NormalThreshold = %v, want default", cfg.Traffic.NormalThreshold)
	}
	if cfg.Traffic.ModerateThreshold != 3.0 {
		t.Errorf("Traffic.ModerateThreshold = %v, want 3.0", cfg.Traffic.ModerateThreshold)
	}
	if cfg.Server.Addr != ":9090" {
		t.Errorf("Server.Addr = %q", cfg.Server.Addr)
	}
	if cfg.SessionTTL() != 10*time.Minute {
		t.Errorf("SessionTTL() = %v, want 10m", cfg.SessionTTL())
	}
	if cfg.Cache.Backend != CacheRedis || cfg.Cache.RedisAddr != "redis.internal:6379" {
		t.Errorf("Cache = %+v", cfg.Cache)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"malformed toml", `[map` + "\n"},
		{"bad backend", "[cache]\nbackend = \"mongo\"\n"},
		{"inverted thresholds", "[traffic]\nnormal_threshold = 3.0\nmoderate_threshold = 2.0\n"},
		{"negative step", "[traffic]\nstep = -5\n"},
		{"bad duration", "[server]\nsession_ttl = \"soon\"\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, tt.content)
			if _, err := Load(path); !errors.Is(err, errors.ErrCodeInvalidConfig) {
				t.Errorf("Load() error = %v, want INVALID_CONFIG", err)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.toml")); !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("Load(missing) error = %v, want INVALID_CONFIG", err)
	}
}

func TestConversions(t *testing.T) {
	cfg := Default()
	opts := cfg.GraphOptions()
	if opts.TrafficStep != graph.DefaultTrafficStep || opts.WeightFloor != graph.DefaultWeightFloor {
		t.Errorf("GraphOptions() = %+v", opts)
	}
	th := cfg.Thresholds()
	if th.Normal != graph.DefaultNormalThreshold || th.Moderate != graph.DefaultModerateThreshold {
		t.Errorf("Thresholds() = %+v", th)
	}
}
