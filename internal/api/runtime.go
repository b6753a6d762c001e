package api

import (
	"net/http"

	"tagsight/internal/config"
	"tagsight/internal/infrastructure"
)

// Runtime extends Infrastructure with API-specific dependencies.
type Runtime struct {
	*infrastructure.Infrastructure
	HTTPClient *http.Client
}

// NewRuntime creates an API runtime with a module-scoped logger. Backend
// clients share a single HTTP client; per-call deadlines come from request
// contexts rather than a client timeout.
func NewRuntime(cfg *config.Config, infra *infrastructure.Infrastructure) *Runtime {
	return &Runtime{
		Infrastructure: &infrastructure.Infrastructure{
			Lifecycle:  infra.Lifecycle,
			Logger:     infra.Logger.With("module", "api"),
			Vocabulary: infra.Vocabulary,
		},
		HTTPClient: &http.Client{},
	}
}
