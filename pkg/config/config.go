// Package config loads wayfinder settings from a TOML file. Every
// field has a working default, so an empty or absent file yields a
// usable configuration.
package config

import (
	"os"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/wayfinder/pkg/errors"
	"github.com/matzehuels/wayfinder/pkg/graph"
	"github.com/matzehuels/wayfinder/pkg/planner"
	"github.com/matzehuels/wayfinder/pkg/spatial"
)

// Cache backend names accepted in the [cache] section.
const (
	CacheMemory = "memory"
	CacheFile   = "file"
	CacheRedis  = "redis"
	CacheNone   = "none"
)

// Config is the full wayfinder configuration.
type Config struct {
	Map     Map     `toml:"map"`
	Traffic Traffic `toml:"traffic"`
	Server  Server  `toml:"server"`
	Cache   Cache   `toml:"cache"`
}

// Map selects the topology to load.
type Map struct {
	// Path to a JSON map file. Empty means the built-in demo map.
	Path string `toml:"path"`

	// PickRadius is the maximum distance at which a coordinate query
	// resolves to a node or edge.
	PickRadius float64 `toml:"pick_radius"`
}

// Traffic tunes weight mutation and congestion classification.
type Traffic struct {
	Step              float64 `toml:"step"`
	WeightFloor       float64 `toml:"weight_floor"`
	NormalThreshold   float64 `toml:"normal_threshold"`
	ModerateThreshold float64 `toml:"moderate_threshold"`
}

// Server configures the HTTP API.
type Server struct {
	Addr       string   `toml:"addr"`
	SessionTTL duration `toml:"session_ttl"`
}

// Cache selects the route-result cache backend.
type Cache struct {
	Backend string `toml:"backend"`

	// Dir is the cache directory for the file backend. Empty means the
	// user cache directory.
	Dir string `toml:"dir"`

	RedisAddr     string `toml:"redis_addr"`
	RedisPassword string `toml:"redis_password"`
	RedisDB       int    `toml:"redis_db"`
}

// duration adds TOML string parsing ("30m", "1h") to time.Duration.
type duration time.Duration

func (d *duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = duration(parsed)
	return nil
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Map: Map{
			PickRadius: spatial.DefaultPickRadius,
		},
		Traffic: Traffic{
			Step:              graph.DefaultTrafficStep,
			WeightFloor:       graph.DefaultWeightFloor,
			NormalThreshold:   graph.DefaultNormalThreshold,
			ModerateThreshold: graph.DefaultModerateThreshold,
		},
		Server: Server{
			Addr:       ":8080",
			SessionTTL: duration(planner.DefaultTTL),
		},
		Cache: Cache{
			Backend:   CacheMemory,
			RedisAddr: "localhost:6379",
		},
	}
}

// Load reads a TOML config file, fills unset fields with defaults, and
// validates the result. An empty path returns the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read config %s", path)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse config %s", path)
	}
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// applyDefaults re-fills fields an explicit file set to zero. TOML has
// no way to distinguish "absent" from "zero" for numbers, so zero means
// "use the default" everywhere.
func (c *Config) applyDefaults() {
	def := Default()
	if c.Map.PickRadius == 0 {
		c.Map.PickRadius = def.Map.PickRadius
	}
	if c.Traffic.Step == 0 {
		c.Traffic.Step = def.Traffic.Step
	}
	if c.Traffic.WeightFloor == 0 {
		c.Traffic.WeightFloor = def.Traffic.WeightFloor
	}
	if c.Traffic.NormalThreshold == 0 {
		c.Traffic.NormalThreshold = def.Traffic.NormalThreshold
	}
	if c.Traffic.ModerateThreshold == 0 {
		c.Traffic.ModerateThreshold = def.Traffic.ModerateThreshold
	}
	if c.Server.Addr == "" {
		c.Server.Addr = def.Server.Addr
	}
	if c.Server.SessionTTL == 0 {
		c.Server.SessionTTL = def.Server.SessionTTL
	}
	if c.Cache.Backend == "" {
		c.Cache.Backend = def.Cache.Backend
	}
	if c.Cache.RedisAddr == "" {
		c.Cache.RedisAddr = def.Cache.RedisAddr
	}
}

// Validate rejects configurations that cannot work.
func (c *Config) Validate() error {
	if c.Traffic.Step < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "traffic.step must be positive, got %v", c.Traffic.Step)
	}
	if c.Traffic.WeightFloor < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "traffic.weight_floor must be positive, got %v", c.Traffic.WeightFloor)
	}
	if c.Traffic.NormalThreshold >= c.Traffic.ModerateThreshold {
		return errors.New(errors.ErrCodeInvalidConfig,
			"traffic.normal_threshold (%v) must be below traffic.moderate_threshold (%v)",
			c.Traffic.NormalThreshold, c.Traffic.ModerateThreshold)
	}
	if c.Map.PickRadius < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "map.pick_radius must be positive, got %v", c.Map.PickRadius)
	}
	switch c.Cache.Backend {
	case CacheMemory, CacheFile, CacheRedis, CacheNone:
	default:
		return errors.New(errors.ErrCodeInvalidConfig,
			"cache.backend must be one of memory, file, redis, none; got %q", c.Cache.Backend)
	}
	return nil
}

// GraphOptions converts the traffic section into overlay options.
func (c *Config) GraphOptions() graph.Options {
	return graph.Options{
		TrafficStep: c.Traffic.Step,
		WeightFloor: c.Traffic.WeightFloor,
	}
}

// Thresholds converts the traffic section into congestion thresholds.
func (c *Config) Thresholds() graph.Thresholds {
	return graph.Thresholds{
		Normal:   c.Traffic.NormalThreshold,
		Moderate: c.Traffic.ModerateThreshold,
	}
}

// SessionTTL returns the configured session TTL as a time.Duration.
func (c *Config) SessionTTL() time.Duration {
	return time.Duration(c.Server.SessionTTL)
}
