package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Storage backends.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
)

// ErrUnknownBackend is returned for an unrecognised storage backend.
var ErrUnknownBackend = errors.New("unknown storage backend")

// Config holds all stash configuration.
type Config struct {
	CachePath   string          `yaml:"cache_path"`
	HistoryPath string          `yaml:"history_path"`
	Storage     StorageConfig   `yaml:"storage"`
	HTTP        HTTPConfig      `yaml:"http"`
	Inference   InferenceConfig `yaml:"inference"`
	Log         LogConfig       `yaml:"log"`
}

// StorageConfig selects where cache documents live.
type StorageConfig struct {
	Backend     string        `yaml:"backend"`
	Dir         string        `yaml:"dir"`
	DBPath      string        `yaml:"db_path"`
	RedisAddr   string        `yaml:"redis_addr"`
	RedisPrefix string        `yaml:"redis_prefix"`
	Timeout     time.Duration `yaml:"timeout"`
}

// HTTPConfig controls the URL fetcher.
type HTTPConfig struct {
	Timeout   time.Duration `yaml:"timeout"`
	UserAgent string        `yaml:"user_agent"`
}

// InferenceConfig points at an Ollama-compatible generate endpoint.
type InferenceConfig struct {
	URL     string        `yaml:"url"`
	Model   string        `yaml:"model"`
	Stream  bool          `yaml:"stream"`
	Timeout time.Duration `yaml:"timeout"`
}

// LogConfig controls log output. Format is "console" or "json".
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns a Config with sensible defaults.
func Default() *Config {
	return &Config{
		CachePath:   "cache.json",
		HistoryPath: "data.json",
		Storage: StorageConfig{
			Backend: BackendFile,
			DBPath:  "stash.db",
			Timeout: 5 * time.Second,
		},
		HTTP: HTTPConfig{
			Timeout:   10 * time.Second,
			UserAgent: "stash",
		},
		Inference: InferenceConfig{
			URL:     "http://localhost:11434",
			Model:   "mistral",
			Timeout: 2 * time.Minute,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Load reads a YAML config file and expands environment variables.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	expanded := os.ExpandEnv(string(data))

	cfg := Default()
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadOrDefault is Load, except that a missing file yields Default().
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

// Validate checks settings that would otherwise fail at first use.
func (c *Config) Validate() error {
	switch c.Storage.Backend {
	case BackendFile, BackendSQLite:
	case BackendRedis:
		if c.Storage.RedisAddr == "" {
			return fmt.Errorf("storage: redis backend requires redis_addr")
		}
	default:
		return fmt.Errorf("storage: %w %q", ErrUnknownBackend, c.Storage.Backend)
	}
	return nil
}
