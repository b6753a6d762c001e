// Package config loads the tagsight service configuration: a TOML base file,
// an optional per-environment overlay, and environment variable overrides,
// finalized section by section.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"

	"tagsight/internal/reasoning"
	"tagsight/internal/tagger"
	"tagsight/internal/vision"
)

const (
	BaseConfigFile       = "config.toml"
	OverlayConfigPattern = "config.%s.toml"

	EnvTagsightEnv             = "TAGSIGHT_ENV"
	EnvTagsightShutdownTimeout = "TAGSIGHT_SHUTDOWN_TIMEOUT"
	EnvTagsightVersion         = "TAGSIGHT_VERSION"
)

var taggerEnv = &tagger.Env{
	Endpoint: "TAGSIGHT_TAGGER_ENDPOINT",
}

var reasoningEnv = &reasoning.Env{
	Endpoint: "TAGSIGHT_REASONING_ENDPOINT",
	Model:    "TAGSIGHT_REASONING_MODEL",
	Enabled:  "TAGSIGHT_REASONING_ENABLED",
}

var visionEnv = &vision.Env{
	Endpoint: "TAGSIGHT_VISION_ENDPOINT",
	Model:    "TAGSIGHT_VISION_MODEL",
	Token:    "TAGSIGHT_VISION_TOKEN",
}

// Config is the root configuration for the tagsight service.
type Config struct {
	Server          ServerConfig     `toml:"server"`
	API             APIConfig        `toml:"api"`
	Tagger          tagger.Config    `toml:"tagger"`
	Reasoning       reasoning.Config `toml:"reasoning"`
	Vision          vision.Config    `toml:"vision"`
	Vocabulary      VocabularyConfig `toml:"vocabulary"`
	ShutdownTimeout string           `toml:"shutdown_timeout"`
	Version         string           `toml:"version"`
}

// Env returns the TAGSIGHT_ENV value, defaulting to "local".
func (c *Config) Env() string {
	if env := os.Getenv(EnvTagsightEnv); env != "" {
		return env
	}
	return "local"
}

// ShutdownTimeoutDuration returns ShutdownTimeout as a time.Duration.
func (c *Config) ShutdownTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.ShutdownTimeout)
	return d
}

// Load reads the base config (if present), applies any environment overlay,
// and finalizes all values. If no config.toml exists, defaults and
// environment variables provide all configuration.
func Load() (*Config, error) {
	cfg := &Config{}

	if _, err := os.Stat(BaseConfigFile); err == nil {
		loaded, err := load(BaseConfigFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if path := overlayPath(); path != "" {
		overlay, err := load(path)
		if err != nil {
			return nil, fmt.Errorf("load overlay %s: %w", path, err)
		}
		cfg.Merge(overlay)
	}

	if err := cfg.finalize(); err != nil {
		return nil, fmt.Errorf("finalize config: %w", err)
	}

	return cfg, nil
}

// Merge overwrites non-zero fields from overlay across all sub-configs.
func (c *Config) Merge(overlay *Config) {
	if overlay.ShutdownTimeout != "" {
		c.ShutdownTimeout = overlay.ShutdownTimeout
	}
	if overlay.Version != "" {
		c.Version = overlay.Version
	}
	c.Server.Merge(&overlay.Server)
	c.API.Merge(&overlay.API)
	c.Tagger.Merge(&overlay.Tagger)
	c.Reasoning.Merge(&overlay.Reasoning)
	c.Vision.Merge(&overlay.Vision)
	c.Vocabulary.Merge(&overlay.Vocabulary)
}

func (c *Config) finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if err := c.validate(); err != nil {
		return err
	}
	if err := c.Server.Finalize(); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	if err := c.API.Finalize(); err != nil {
		return fmt.Errorf("api: %w", err)
	}
	if err := c.Tagger.Finalize(taggerEnv); err != nil {
		return fmt.Errorf("tagger: %w", err)
	}
	if err := c.Reasoning.Finalize(reasoningEnv); err != nil {
		return fmt.Errorf("reasoning: %w", err)
	}
	if err := c.Vision.Finalize(visionEnv); err != nil {
		return fmt.Errorf("vision: %w", err)
	}
	if err := c.Vocabulary.Finalize(); err != nil {
		return fmt.Errorf("vocabulary: %w", err)
	}
	return nil
}

func (c *Config) loadDefaults() {
	if c.ShutdownTimeout == "" {
		c.ShutdownTimeout = "30s"
	}
	if c.Version == "" {
		c.Version = "0.1.0"
	}
}

func (c *Config) loadEnv() {
	if v := os.Getenv(EnvTagsightShutdownTimeout); v != "" {
		c.ShutdownTimeout = v
	}
	if v := os.Getenv(EnvTagsightVersion); v != "" {
		c.Version = v
	}
}

func (c *Config) validate() error {
	if _, err := time.ParseDuration(c.ShutdownTimeout); err != nil {
		return fmt.Errorf("invalid shutdown_timeout: %w", err)
	}
	return nil
}

func load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	return &cfg, nil
}

func overlayPath() string {
	if env := os.Getenv(EnvTagsightEnv); env != "" {
		path := fmt.Sprintf(OverlayConfigPattern, env)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
