package api

import (
	"net/http"

	"tagsight/internal/config"
	"tagsight/internal/interrogation"
	"tagsight/pkg/routes"
)

func registerRoutes(
	mux *http.ServeMux,
	domain *Domain,
	cfg *config.Config,
	runtime *Runtime,
) {
	handler := interrogation.NewHandler(
		domain.Interrogations,
		interrogation.Backends{
			Tagger:    cfg.Tagger,
			Reasoning: cfg.Reasoning,
		},
		cfg.Vision,
		cfg.API.MaxUploadSizeBytes(),
		runtime.Logger,
	)

	routes.Register(mux, handler.Routes())
}
