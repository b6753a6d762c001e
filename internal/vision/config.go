package vision

import "os"

// Config holds cloud vision-model parameters. Validated per call rather than
// at startup so the service can boot with the cloud backend unconfigured.
type Config struct {
	Endpoint string `toml:"endpoint"`
	Model    string `toml:"model"`
	Token    string `toml:"token"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	Endpoint string
	Model    string
	Token    string
}

// Finalize applies environment variable overrides.
func (c *Config) Finalize(env *Env) error {
	if env == nil {
		return nil
	}
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
	if env.Token != "" {
		if v := os.Getenv(env.Token); v != "" {
			c.Token = v
		}
	}
	return nil
}

// Merge overwrites non-zero fields from overlay.
func (c *Config) Merge(overlay *Config) {
	if overlay.Endpoint != "" {
		c.Endpoint = overlay.Endpoint
	}
	if overlay.Model != "" {
		c.Model = overlay.Model
	}
	if overlay.Token != "" {
		c.Token = overlay.Token
	}
}
