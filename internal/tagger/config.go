package tagger

import "os"

// Config holds local tagger endpoint parameters. The endpoint is validated
// per interrogation rather than at startup so the service can boot with the
// tagger unconfigured.
type Config struct {
	Endpoint string `toml:"endpoint"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	Endpoint string
}

// Finalize applies environment variable overrides.
func (c *Config) Finalize(env *Env) error {
	if env != nil && env.Endpoint != "" {
		if v := os.Getenv(env.Endpoint); v != "" {
			c.Endpoint = v
		}
	}
	return nil
}

// Merge overwrites non-zero fields from overlay.
func (c *Config) Merge(overlay *Config) {
	if overlay.Endpoint != "" {
		c.Endpoint = overlay.Endpoint
	}
}
