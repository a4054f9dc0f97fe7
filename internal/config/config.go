package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/aretw0/anilink/pkg/domain"
	"gopkg.in/yaml.v3"
)

// DefaultPath is where the CLI looks for a config file when none is given.
const DefaultPath = "anilink.yaml"

// Store backends.
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
)

// Config is the structure of anilink.yaml.
type Config struct {
	Log      LogConfig        `yaml:"log"`
	Store    StoreConfig      `yaml:"store"`
	HTTP     HTTPConfig       `yaml:"http"`
	Metrics  MetricsConfig    `yaml:"metrics"`
	Subjects []domain.Subject `yaml:"subjects"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type StoreConfig struct {
	Backend string `yaml:"backend"`
	// Verify rejects records whose state is outside the subject's lifecycle.
	Verify bool `yaml:"verify"`

	Redis RedisConfig `yaml:"redis"`
}

type RedisConfig struct {
	Addr     string        `yaml:"addr"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	Prefix   string        `yaml:"prefix"`
	TTL      time.Duration `yaml:"ttl"`
	// Lock enables distributed per-subject locking across replicas.
	Lock    bool          `yaml:"lock"`
	LockTTL time.Duration `yaml:"lock_ttl"`
}

type HTTPConfig struct {
	Addr string `yaml:"addr"`
}

type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Store: StoreConfig{
			Backend: BackendMemory,
			Verify:  true,
			Redis: RedisConfig{
				Addr:    "localhost:6379",
				Prefix:  "anilink:subject:",
				Lock:    true,
				LockTTL: 30 * time.Second,
			},
		},
		HTTP: HTTPConfig{
			Addr: ":8080",
		},
		Metrics: MetricsConfig{
			Enabled: true,
		},
	}
}

// Load reads a YAML config file on top of Default.
// A missing file is not an error: the defaults are returned.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks the fields that cannot be defaulted.
func (c Config) Validate() error {
	switch c.Store.Backend {
	case BackendMemory, BackendRedis:
	default:
		return fmt.Errorf("unknown store backend %q (want %q or %q)", c.Store.Backend, BackendMemory, BackendRedis)
	}

	seen := make(map[string]bool, len(c.Subjects))
	for i, s := range c.Subjects {
		if s.ID == "" {
			return fmt.Errorf("subjects[%d]: id is required", i)
		}
		if s.ActionLabel == "" {
			return fmt.Errorf("subjects[%d] (%s): action is required", i, s.ID)
		}
		if seen[s.ID] {
			return fmt.Errorf("subjects[%d]: duplicate id %q", i, s.ID)
		}
		seen[s.ID] = true
	}
	return nil
}
