// Package interrogation orchestrates the hybrid tagging pipeline: local
// tagger, copyright enrichment, reasoning-model verification, and merge. The
// hybrid path is lenient: every stage failure is absorbed locally and the
// pipeline always completes. The cloud path it also fronts is strict.
package interrogation

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/JaimeStill/go-agents-orchestration/pkg/state"

	"tagsight/internal/backend"
	"tagsight/internal/enrich"
	"tagsight/internal/reasoning"
	"tagsight/internal/tagger"
	"tagsight/internal/vision"
	"tagsight/internal/vocabulary"
)

// System defines the public contract for interrogation operations.
type System interface {
	// Interrogate runs the hybrid pipeline over the image. The returned
	// error covers only precondition failures detected before the
	// pipeline starts; mid-pipeline degradation is reported through the
	// result's stage statuses.
	Interrogate(ctx context.Context, image []byte, backends *Backends, onProgress ProgressFunc) (*Result, error)

	// Caption fetches a natural-language description on demand, without
	// rerunning the tagging stages.
	Caption(ctx context.Context, image []byte, cfg *reasoning.Config) (string, error)

	// Cloud runs the strict single-backend interrogation path.
	Cloud(ctx context.Context, image []byte, cfg *vision.Config) (*Result, error)
}

type system struct {
	vocab     vocabulary.System
	tagger    *tagger.Client
	reasoning *reasoning.Client
	enricher  *enrich.Enricher
	vision    *vision.Client
	logger    *slog.Logger
}

// New creates the interrogation System from its collaborating clients.
func New(
	vocab vocabulary.System,
	taggerClient *tagger.Client,
	reasoningClient *reasoning.Client,
	enricher *enrich.Enricher,
	visionClient *vision.Client,
	logger *slog.Logger,
) System {
	return &system{
		vocab:     vocab,
		tagger:    taggerClient,
		reasoning: reasoningClient,
		enricher:  enricher,
		vision:    visionClient,
		logger:    logger.With("system", "interrogation"),
	}
}

func (sys *system) Interrogate(
	ctx context.Context,
	image []byte,
	backends *Backends,
	onProgress ProgressFunc,
) (*Result, error) {
	if err := validateHybrid(image, backends); err != nil {
		return nil, err
	}

	sys.vocab.Load()

	r := &run{
		sys:      sys,
		backends: backends,
		progress: newReporter(onProgress),
	}
	r.progress.report("starting interrogation", 0)

	graph, err := r.buildGraph()
	if err != nil {
		return nil, fmt.Errorf("build pipeline: %w", err)
	}

	initial := state.New(nil).Set(keyImage, image)

	final, err := graph.Execute(ctx, initial)
	if err != nil {
		return nil, fmt.Errorf("execute pipeline: %w", err)
	}

	result, err := r.extractResult(final)
	if err != nil {
		return nil, err
	}

	sys.logger.InfoContext(ctx, "interrogation complete",
		"id", result.ID,
		"tags", len(result.Tags),
		"degraded_stages", len(result.Degraded()),
	)

	return result, nil
}

func (sys *system) Caption(ctx context.Context, image []byte, cfg *reasoning.Config) (string, error) {
	if len(image) == 0 {
		return "", ErrNoImage
	}

	sys.vocab.Load()

	_, summary, err := sys.reasoning.FetchTagsAndSummary(ctx, image, cfg, nil)
	if err != nil {
		return "", err
	}
	return summary, nil
}

func (sys *system) Cloud(ctx context.Context, image []byte, cfg *vision.Config) (*Result, error) {
	if len(image) == 0 {
		return nil, ErrNoImage
	}

	sys.vocab.Load()

	output, err := sys.vision.Interrogate(ctx, image, cfg)
	if err != nil {
		return nil, err
	}

	return newResult(output.Tags, output.Description, nil), nil
}

// validateHybrid enforces the blocking preconditions: an image payload and a
// tagger endpoint, plus a reasoning endpoint whenever that stage is enabled.
func validateHybrid(image []byte, backends *Backends) error {
	if len(image) == 0 {
		return ErrNoImage
	}
	if backends == nil || backends.Tagger.Endpoint == "" {
		return fmt.Errorf("%w: tagger endpoint not set", backend.ErrConfiguration)
	}
	if backends.Reasoning.Enabled && backends.Reasoning.Endpoint == "" {
		return fmt.Errorf("%w: reasoning endpoint not set", backend.ErrConfiguration)
	}
	return nil
}
