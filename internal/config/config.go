// Package config loads the application configuration from YAML with
// ${ENV_VAR} placeholder expansion.
package config

import (
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Logging struct {
		Level string `yaml:"level"`
	} `yaml:"logging"`

	Database struct {
		Path string `yaml:"path"`
	} `yaml:"database"`

	Redis struct {
		Enabled         bool   `yaml:"enabled"`
		Address         string `yaml:"address"`
		Password        string `yaml:"password"`
		DB              int    `yaml:"db"`
		CacheTTLSeconds int    `yaml:"cache_ttl_seconds"`
	} `yaml:"redis"`

	Catalog struct {
		Path                  string `yaml:"path"`
		ReloadIntervalSeconds int    `yaml:"reload_interval_seconds"`
	} `yaml:"catalog"`

	Latency struct {
		Enabled   bool           `yaml:"enabled"`
		DefaultMS int            `yaml:"default_ms"`
		PerOpMS   map[string]int `yaml:"per_op_ms"`
	} `yaml:"latency"`

	Session struct {
		TimeoutMinutes int `yaml:"timeout_minutes"`
	} `yaml:"session"`

	Monitoring struct {
		HealthCheckPort   int  `yaml:"health_check_port"`
		PrometheusEnabled bool `yaml:"prometheus_enabled"`
		PrometheusPort    int  `yaml:"prometheus_port"`
	} `yaml:"monitoring"`
}

func Load(path string) (*Config, error) {
	if path == "" {
		path = "configs/config.yaml"
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	// Support ${ENV_VAR} placeholders in YAML config.
	data = []byte(os.ExpandEnv(string(data)))

	var cfg Config
	if err = yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Database.Path == "" {
		cfg.Database.Path = "data/beautyhub.db"
	}
	if cfg.Catalog.Path == "" {
		cfg.Catalog.Path = "configs/vendors.yaml"
	}

	if dir := filepath.Dir(cfg.Database.Path); dir != "." && !isMemoryDSN(cfg.Database.Path) {
		if err = os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}

	return &cfg, nil
}

func isMemoryDSN(path string) bool {
	return path == ":memory:" || filepath.Base(path) == ":memory:" ||
		len(path) > 5 && path[:5] == "file:"
}

// CacheTTL returns the Redis cache TTL, defaulting to five minutes.
func (c *Config) CacheTTL() time.Duration {
	if c.Redis.CacheTTLSeconds <= 0 {
		return 5 * time.Minute
	}
	return time.Duration(c.Redis.CacheTTLSeconds) * time.Second
}

// CatalogReloadInterval returns the seed reload poll interval,
// defaulting to thirty seconds.
func (c *Config) CatalogReloadInterval() time.Duration {
	if c.Catalog.ReloadIntervalSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.Catalog.ReloadIntervalSeconds) * time.Second
}

// SessionTimeout returns the wizard session idle timeout, defaulting to
// thirty minutes.
func (c *Config) SessionTimeout() time.Duration {
	if c.Session.TimeoutMinutes <= 0 {
		return 30 * time.Minute
	}
	return time.Duration(c.Session.TimeoutMinutes) * time.Minute
}

// LatencyDelays converts the configured per-operation delays to
// durations. Returns nil when latency simulation is disabled.
func (c *Config) LatencyDelays() (map[string]time.Duration, time.Duration) {
	if !c.Latency.Enabled {
		return nil, 0
	}
	delays := make(map[string]time.Duration, len(c.Latency.PerOpMS))
	for op, ms := range c.Latency.PerOpMS {
		delays[op] = time.Duration(ms) * time.Millisecond
	}
	return delays, time.Duration(c.Latency.DefaultMS) * time.Millisecond
}
