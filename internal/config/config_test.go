package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"tagsight/internal/config"
)

const baseConfig = `
shutdown_timeout = "30s"
version = "0.2.0"

[server]
host = "0.0.0.0"
port = 8080
read_timeout = "1m"
write_timeout = "15m"

[api]
base_path = "/api"
max_upload_size = "10MB"

[api.cors]
enabled = false

[tagger]
endpoint = "http://localhost:5000/tag"

[reasoning]
endpoint = "http://localhost:11434"
model = "llava"
enabled = true

[vision]
endpoint = "https://api.example.com/v1/chat/completions"
model = "gpt-vision"
token = "secret"

[vocabulary]
path = ""
`

const overlayConfig = `
[server]
port = 9090

[reasoning]
endpoint = "http://modelhost:11434"
enabled = true
`

func writeConfig(t *testing.T, dir, filename, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, filename), []byte(content), 0644); err != nil {
		t.Fatalf("write %s: %v", filename, err)
	}
}

func chdir(t *testing.T, dir string) {
	t.Helper()
	orig, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() { os.Chdir(orig) })
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "config.toml", baseConfig)
	chdir(t, dir)

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("server port: got %d, want 8080", cfg.Server.Port)
	}
	if cfg.Server.WriteTimeoutDuration() != 15*time.Minute {
		t.Errorf("write timeout: got %v, want 15m", cfg.Server.WriteTimeoutDuration())
	}
	if cfg.API.BasePath != "/api" {
		t.Errorf("api base_path: got %s, want /api", cfg.API.BasePath)
	}
	if cfg.API.MaxUploadSizeBytes() != 10*1024*1024 {
		t.Errorf("max upload: got %d, want 10MB", cfg.API.MaxUploadSizeBytes())
	}
	if cfg.Tagger.Endpoint != "http://localhost:5000/tag" {
		t.Errorf("tagger endpoint: got %s", cfg.Tagger.Endpoint)
	}
	if !cfg.Reasoning.Enabled || cfg.Reasoning.Model != "llava" {
		t.Errorf("reasoning: got %+v", cfg.Reasoning)
	}
	if cfg.Vision.Token != "secret" {
		t.Errorf("vision token: got %s", cfg.Vision.Token)
	}
	if cfg.ShutdownTimeoutDuration() != 30*time.Second {
		t.Errorf("shutdown timeout: got %v, want 30s", cfg.ShutdownTimeoutDuration())
	}
}

func TestLoadWithoutFileUsesDefaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.Server.Addr() != "0.0.0.0:8080" {
		t.Errorf("addr: got %s, want 0.0.0.0:8080", cfg.Server.Addr())
	}
	if cfg.API.BasePath != "/api" {
		t.Errorf("api base_path default: got %s", cfg.API.BasePath)
	}
	if cfg.Reasoning.Model != "llava" {
		t.Errorf("reasoning model default: got %s", cfg.Reasoning.Model)
	}
	if cfg.Reasoning.Enabled {
		t.Error("reasoning should default to disabled")
	}
}

func TestLoadWithOverlay(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "config.toml", baseConfig)
	writeConfig(t, dir, "config.staging.toml", overlayConfig)
	chdir(t, dir)
	t.Setenv("TAGSIGHT_ENV", "staging")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("overlay port: got %d, want 9090", cfg.Server.Port)
	}
	if cfg.Reasoning.Endpoint != "http://modelhost:11434" {
		t.Errorf("overlay reasoning endpoint: got %s", cfg.Reasoning.Endpoint)
	}
	// Untouched by the overlay.
	if cfg.Tagger.Endpoint != "http://localhost:5000/tag" {
		t.Errorf("base tagger endpoint lost: got %s", cfg.Tagger.Endpoint)
	}
}

func TestEnvOverrides(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("TAGSIGHT_SERVER_PORT", "7070")
	t.Setenv("TAGSIGHT_TAGGER_ENDPOINT", "http://tagger:5000/tag")
	t.Setenv("TAGSIGHT_REASONING_ENABLED", "true")
	t.Setenv("TAGSIGHT_REASONING_ENDPOINT", "http://ollama:11434")
	t.Setenv("TAGSIGHT_VISION_TOKEN", "env-token")
	t.Setenv("TAGSIGHT_API_MAX_UPLOAD_SIZE", "5MB")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.Server.Port != 7070 {
		t.Errorf("port: got %d, want 7070", cfg.Server.Port)
	}
	if cfg.Tagger.Endpoint != "http://tagger:5000/tag" {
		t.Errorf("tagger endpoint: got %s", cfg.Tagger.Endpoint)
	}
	if !cfg.Reasoning.Enabled {
		t.Error("reasoning should be enabled from env")
	}
	if cfg.Vision.Token != "env-token" {
		t.Errorf("vision token: got %s", cfg.Vision.Token)
	}
	if cfg.API.MaxUploadSizeBytes() != 5*1024*1024 {
		t.Errorf("max upload: got %d, want 5MB", cfg.API.MaxUploadSizeBytes())
	}
}

func TestInvalidValuesRejected(t *testing.T) {
	t.Run("bad port", func(t *testing.T) {
		chdir(t, t.TempDir())
		t.Setenv("TAGSIGHT_SERVER_PORT", "99999")

		if _, err := config.Load(); err == nil {
			t.Error("expected error for out-of-range port")
		}
	})

	t.Run("bad shutdown timeout", func(t *testing.T) {
		chdir(t, t.TempDir())
		t.Setenv("TAGSIGHT_SHUTDOWN_TIMEOUT", "soon")

		if _, err := config.Load(); err == nil {
			t.Error("expected error for unparseable shutdown timeout")
		}
	})
}
