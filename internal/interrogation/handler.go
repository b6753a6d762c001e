package interrogation

import (
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"tagsight/internal/vision"
	"tagsight/pkg/handlers"
	"tagsight/pkg/routes"
)

// Handler provides HTTP endpoints for interrogation operations.
type Handler struct {
	sys       System
	backends  Backends
	vision    vision.Config
	maxUpload int64
	logger    *slog.Logger
}

// NewHandler creates a Handler bound to the configured backends.
func NewHandler(
	sys System,
	backends Backends,
	visionCfg vision.Config,
	maxUpload int64,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		sys:       sys,
		backends:  backends,
		vision:    visionCfg,
		maxUpload: maxUpload,
		logger:    logger.With("handler", "interrogations"),
	}
}

// Routes returns the route group definition for interrogation endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/interrogations",
		Routes: []routes.Route{
			{Method: "POST", Pattern: "", Handler: h.Interrogate},
			{Method: "POST", Pattern: "/caption", Handler: h.Caption},
			{Method: "POST", Pattern: "/cloud", Handler: h.Cloud},
		},
	}
}

// Interrogate runs the hybrid pipeline over an uploaded image. The caption
// query parameter disables the reasoning stage for this request
// (caption=false), trading the description for cost and latency.
func (h *Handler) Interrogate(w http.ResponseWriter, r *http.Request) {
	image, ok := h.readImage(w, r)
	if !ok {
		return
	}

	backends := h.backends
	if v := r.URL.Query().Get("caption"); v != "" {
		if caption, err := strconv.ParseBool(v); err == nil && !caption {
			backends.Reasoning.Enabled = false
		}
	}

	result, err := h.sys.Interrogate(r.Context(), image, &backends, h.logProgress(r))
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// Caption fetches a description for an uploaded image on demand.
func (h *Handler) Caption(w http.ResponseWriter, r *http.Request) {
	image, ok := h.readImage(w, r)
	if !ok {
		return
	}

	description, err := h.sys.Caption(r.Context(), image, &h.backends.Reasoning)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, map[string]string{
		"description": description,
	})
}

// Cloud runs the strict single-backend interrogation path.
func (h *Handler) Cloud(w http.ResponseWriter, r *http.Request) {
	image, ok := h.readImage(w, r)
	if !ok {
		return
	}

	result, err := h.sys.Cloud(r.Context(), image, &h.vision)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

func (h *Handler) readImage(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload)

	if err := r.ParseMultipartForm(h.maxUpload); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return nil, false
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrNoImage)
		return nil, false
	}
	defer file.Close()

	image, err := io.ReadAll(file)
	if err != nil || len(image) == 0 {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrNoImage)
		return nil, false
	}

	return image, true
}

func (h *Handler) logProgress(r *http.Request) ProgressFunc {
	return func(p Progress) {
		h.logger.InfoContext(r.Context(), "interrogation progress",
			"label", p.Label,
			"percent", p.Percent,
		)
	}
}
