package interrogation

import (
	"time"

	"github.com/google/uuid"

	"tagsight/internal/reasoning"
	"tagsight/internal/tagger"
	"tagsight/internal/tags"
)

// Stage identifies a pipeline stage in progress and status reporting.
type Stage string

// Pipeline stages, in execution order.
const (
	StageLocal     Stage = "local_tags"
	StageEnrich    Stage = "copyright_enrichment"
	StageReasoning Stage = "reasoning_model"
	StageMerge     Stage = "merge"
)

// StageStatus records whether a stage produced its output or degraded.
// Degraded stages contribute empty output; the pipeline still completes.
type StageStatus struct {
	Stage  Stage  `json:"stage"`
	OK     bool   `json:"ok"`
	Detail string `json:"detail,omitempty"`
}

// Backends bundles the per-interrogation backend configuration.
type Backends struct {
	Tagger    tagger.Config
	Reasoning reasoning.Config
}

// Result is the final output of one interrogation. It is created fresh per
// request and immutable once returned; consumers filter on derived views.
type Result struct {
	ID          uuid.UUID     `json:"id"`
	Tags        []tags.Tag    `json:"tags"`
	Description string        `json:"description,omitempty"`
	Stages      []StageStatus `json:"stages"`
	CompletedAt time.Time     `json:"completed_at"`
}

// Degraded returns the stages that failed to produce output.
func (r *Result) Degraded() []StageStatus {
	var out []StageStatus
	for _, s := range r.Stages {
		if !s.OK {
			out = append(out, s)
		}
	}
	return out
}
