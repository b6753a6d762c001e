package api

import (
	"tagsight/internal/enrich"
	"tagsight/internal/interrogation"
	"tagsight/internal/reasoning"
	"tagsight/internal/tagger"
	"tagsight/internal/vision"
)

// Domain holds all domain systems that comprise the API.
type Domain struct {
	Interrogations interrogation.System
}

// NewDomain creates all domain systems from the API runtime.
func NewDomain(runtime *Runtime) *Domain {
	taggerClient := tagger.NewClient(
		runtime.HTTPClient,
		runtime.Vocabulary,
		runtime.Logger,
	)

	reasoningClient := reasoning.NewClient(
		runtime.HTTPClient,
		runtime.Vocabulary,
		runtime.Logger,
	)

	enricher := enrich.New(
		reasoningClient,
		runtime.Vocabulary,
		runtime.Logger,
	)

	visionClient := vision.NewClient(
		runtime.HTTPClient,
		runtime.Vocabulary,
		runtime.Logger,
	)

	interrogationSystem := interrogation.New(
		runtime.Vocabulary,
		taggerClient,
		reasoningClient,
		enricher,
		visionClient,
		runtime.Logger,
	)

	return &Domain{
		Interrogations: interrogationSystem,
	}
}
