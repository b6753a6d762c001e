// Package infrastructure provides core service initialization for application startup.
// It assembles common dependencies (logging, lifecycle, vocabulary) that domain systems require.
package infrastructure

import (
	"log/slog"
	"os"

	"tagsight/internal/config"
	"tagsight/internal/vocabulary"
	"tagsight/pkg/lifecycle"
)

// Infrastructure holds the core systems required by all domain modules.
// It provides a single point of initialization for lifecycle coordination,
// logging, and the tag vocabulary.
type Infrastructure struct {
	Lifecycle  *lifecycle.Coordinator
	Logger     *slog.Logger
	Vocabulary vocabulary.System
}

// New creates an Infrastructure from the application configuration.
// It initializes all systems but does not start them; call Start separately.
func New(cfg *config.Config) (*Infrastructure, error) {
	lc := lifecycle.New()
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	vocab := vocabulary.New(cfg.Vocabulary.Path, logger)

	return &Infrastructure{
		Lifecycle:  lc,
		Logger:     logger,
		Vocabulary: vocab,
	}, nil
}

// Start registers infrastructure systems with the lifecycle coordinator.
// The vocabulary reference table loads in the background; requests arriving
// before it completes fall back to heuristic classification.
func (i *Infrastructure) Start() error {
	i.Lifecycle.OnStartup(i.Vocabulary.Load)
	return nil
}
