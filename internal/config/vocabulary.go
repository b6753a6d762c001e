package config

import "os"

// VocabularyConfig points at an external reference table. When Path is empty
// the embedded table is used.
type VocabularyConfig struct {
	Path string `toml:"path"`
}

// Finalize applies environment variable overrides.
func (c *VocabularyConfig) Finalize() error {
	if v := os.Getenv("TAGSIGHT_VOCABULARY_PATH"); v != "" {
		c.Path = v
	}
	return nil
}

// Merge overwrites non-zero fields from overlay.
func (c *VocabularyConfig) Merge(overlay *VocabularyConfig) {
	if overlay.Path != "" {
		c.Path = overlay.Path
	}
}
