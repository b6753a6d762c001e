package config

import (
	"fmt"
	"os"

	"tagsight/pkg/formatting"
	"tagsight/pkg/middleware"
)

var corsEnv = &middleware.CORSEnv{
	Enabled:          "TAGSIGHT_CORS_ENABLED",
	Origins:          "TAGSIGHT_CORS_ORIGINS",
	AllowedMethods:   "TAGSIGHT_CORS_ALLOWED_METHODS",
	AllowedHeaders:   "TAGSIGHT_CORS_ALLOWED_HEADERS",
	AllowCredentials: "TAGSIGHT_CORS_ALLOW_CREDENTIALS",
	MaxAge:           "TAGSIGHT_CORS_MAX_AGE",
}

// APIConfig holds API routing, CORS, and upload settings.
type APIConfig struct {
	BasePath      string                `toml:"base_path"`
	MaxUploadSize string                `toml:"max_upload_size"`
	CORS          middleware.CORSConfig `toml:"cors"`
}

// MaxUploadSizeBytes returns the parsed upload cap, falling back to 20MB.
func (c *APIConfig) MaxUploadSizeBytes() int64 {
	size, err := formatting.ParseBytes(c.MaxUploadSize)
	if err != nil {
		return 20 * 1024 * 1024
	}
	return size
}

// Finalize applies defaults, environment variable overrides, and validation
// for the API config and its nested CORS config.
func (c *APIConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if err := c.CORS.Finalize(corsEnv); err != nil {
		return fmt.Errorf("cors: %w", err)
	}
	return nil
}

// Merge overwrites non-zero fields from overlay.
func (c *APIConfig) Merge(overlay *APIConfig) {
	if overlay.BasePath != "" {
		c.BasePath = overlay.BasePath
	}
	if overlay.MaxUploadSize != "" {
		c.MaxUploadSize = overlay.MaxUploadSize
	}
	c.CORS.Merge(&overlay.CORS)
}

func (c *APIConfig) loadDefaults() {
	if c.BasePath == "" {
		c.BasePath = "/api"
	}
	if c.MaxUploadSize == "" {
		c.MaxUploadSize = "20MB"
	}
}

func (c *APIConfig) loadEnv() {
	if v := os.Getenv("TAGSIGHT_API_BASE_PATH"); v != "" {
		c.BasePath = v
	}
	if v := os.Getenv("TAGSIGHT_API_MAX_UPLOAD_SIZE"); v != "" {
		c.MaxUploadSize = v
	}
}
