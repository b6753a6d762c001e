package reasoning

import (
	"os"
	"strconv"
)

// Config holds reasoning-model endpoint parameters. Enabled gates whether
// the verification and captioning stage runs at all; the copyright lookup
// follows the same flag.
type Config struct {
	Endpoint string `toml:"endpoint"`
	Model    string `toml:"model"`
	Enabled  bool   `toml:"enabled"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	Endpoint string
	Model    string
	Enabled  string
}

// Finalize applies defaults and environment variable overrides.
func (c *Config) Finalize(env *Env) error {
	c.loadDefaults()
	if env != nil {
		c.loadEnv(env)
	}
	return nil
}

// Merge overwrites fields from overlay. Enabled always applies.
func (c *Config) Merge(overlay *Config) {
	c.Enabled = overlay.Enabled

	if overlay.Endpoint != "" {
		c.Endpoint = overlay.Endpoint
	}
	if overlay.Model != "" {
		c.Model = overlay.Model
	}
}

func (c *Config) loadDefaults() {
	if c.Model == "" {
		c.Model = "llava"
	}
}

func (c *Config) loadEnv(env *Env) {
	if env.Endpoint != "" {
		if v := os.Getenv(env.Endpoint); v != "" {
			c.Endpoint = v
		}
	}
	if env.Model != "" {
		if v := os.Getenv(env.Model); v != "" {
			c.Model = v
		}
	}
	if env.Enabled != "" {
		if v := os.Getenv(env.Enabled); v != "" {
			if enabled, err := strconv.ParseBool(v); err == nil {
				c.Enabled = enabled
			}
		}
	}
}
