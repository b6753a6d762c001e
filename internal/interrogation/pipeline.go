package interrogation

import (
	"context"
	"fmt"
	"time"

	gaoconfig "github.com/JaimeStill/go-agents-orchestration/pkg/config"
	"github.com/JaimeStill/go-agents-orchestration/pkg/state"
	"github.com/google/uuid"

	"tagsight/internal/tags"
)

// State keys shared between pipeline nodes.
const (
	keyImage         = "image"
	keyLocalTags     = "local_tags"
	keyEnrichedTags  = "enriched_tags"
	keyReasoningTags = "reasoning_tags"
	keySummary       = "summary"
	keyMergedTags    = "merged_tags"
)

// run carries the per-interrogation context pipeline nodes share: backend
// configuration, the progress reporter, and accumulated stage statuses.
// Nodes execute strictly sequentially, so plain fields suffice.
type run struct {
	sys      *system
	backends *Backends
	progress *reporter
	stages   []StageStatus
}

func (r *run) ok(stage Stage) {
	r.stages = append(r.stages, StageStatus{Stage: stage, OK: true})
}

func (r *run) degraded(stage Stage, err error) {
	r.stages = append(r.stages, StageStatus{Stage: stage, OK: false, Detail: err.Error()})
}

// buildGraph assembles the stage graph:
//
//	local → enrich → reasoning → merge
//	                ↘ (reasoning disabled) ↘ merge
//
// Every node absorbs its stage failure into empty output and a StageStatus
// entry, so the graph always reaches merge.
func (r *run) buildGraph() (state.StateGraph, error) {
	cfg := gaoconfig.DefaultGraphConfig("tagsight-interrogate")
	cfg.Observer = "noop"

	graph, err := state.NewGraph(cfg)
	if err != nil {
		return nil, err
	}

	if err := graph.AddNode("local", r.localNode()); err != nil {
		return nil, err
	}
	if err := graph.AddNode("enrich", r.enrichNode()); err != nil {
		return nil, err
	}
	if err := graph.AddNode("reasoning", r.reasoningNode()); err != nil {
		return nil, err
	}
	if err := graph.AddNode("merge", r.mergeNode()); err != nil {
		return nil, err
	}

	reasoningEnabled := func(state.State) bool {
		return r.backends.Reasoning.Enabled
	}

	if err := graph.AddEdge("local", "enrich", nil); err != nil {
		return nil, err
	}
	if err := graph.AddEdge("enrich", "reasoning", reasoningEnabled); err != nil {
		return nil, err
	}
	if err := graph.AddEdge("enrich", "merge", state.Not(reasoningEnabled)); err != nil {
		return nil, err
	}
	if err := graph.AddEdge("reasoning", "merge", nil); err != nil {
		return nil, err
	}

	if err := graph.SetEntryPoint("local"); err != nil {
		return nil, err
	}
	if err := graph.SetExitPoint("merge"); err != nil {
		return nil, err
	}

	return graph, nil
}

// localNode fetches deterministic tags from the local tagger. Failures
// degrade to an empty tag list; the reasoning stage then acts as the
// fallback vocabulary.
func (r *run) localNode() state.StateNode {
	return state.NewFunctionNode(func(ctx context.Context, s state.State) (state.State, error) {
		image, err := extractImage(s)
		if err != nil {
			return s, err
		}

		list, err := r.sys.tagger.FetchTags(ctx, image, &r.backends.Tagger)
		if err != nil {
			r.sys.logger.WarnContext(ctx, "local tagger degraded", "error", err)
			r.degraded(StageLocal, err)
			list = nil
		} else {
			r.ok(StageLocal)
		}

		r.progress.report("local tags fetched", 25)
		return s.Set(keyLocalTags, list), nil
	})
}

// enrichNode derives copyright tags from the local tags. Runs before the
// reasoning stage so series context can ground the generated description.
// Reports its milestone even with zero candidates.
func (r *run) enrichNode() state.StateNode {
	return state.NewFunctionNode(func(ctx context.Context, s state.State) (state.State, error) {
		local, err := extractTags(s, keyLocalTags)
		if err != nil {
			return s, err
		}

		enriched, err := r.sys.enricher.Copyrights(ctx, local, &r.backends.Reasoning)
		if err != nil {
			// Heuristic results are still usable; only the model
			// lookup degraded.
			r.degraded(StageEnrich, err)
		} else {
			r.ok(StageEnrich)
		}

		r.progress.report("copyrights resolved", 50)
		return s.Set(keyEnrichedTags, enriched), nil
	})
}

// reasoningNode runs joint tag verification and captioning, grounded on the
// enriched local tags. Best-effort: failures degrade to no tags and no
// description.
func (r *run) reasoningNode() state.StateNode {
	return state.NewFunctionNode(func(ctx context.Context, s state.State) (state.State, error) {
		image, err := extractImage(s)
		if err != nil {
			return s, err
		}
		enriched, err := extractTags(s, keyEnrichedTags)
		if err != nil {
			return s, err
		}

		list, summary, err := r.sys.reasoning.FetchTagsAndSummary(ctx, image, &r.backends.Reasoning, enriched)
		if err != nil {
			r.sys.logger.WarnContext(ctx, "reasoning model degraded", "error", err)
			r.degraded(StageReasoning, err)
			list, summary = nil, ""
		} else {
			r.ok(StageReasoning)
		}

		r.progress.report("reasoning model queried", 85)
		s = s.Set(keyReasoningTags, list)
		return s.Set(keySummary, summary), nil
	})
}

// mergeNode reconciles the enriched local tags with the reasoning-model tags.
func (r *run) mergeNode() state.StateNode {
	return state.NewFunctionNode(func(ctx context.Context, s state.State) (state.State, error) {
		enriched, err := extractTags(s, keyEnrichedTags)
		if err != nil {
			return s, err
		}

		var model []tags.Tag
		if val, exists := s.Get(keyReasoningTags); exists {
			if list, valid := val.([]tags.Tag); valid {
				model = list
			}
		}

		merged := tags.Merge(enriched, model)
		r.ok(StageMerge)

		r.progress.report("results merged", 95)
		return s.Set(keyMergedTags, merged), nil
	})
}

func (r *run) extractResult(s state.State) (*Result, error) {
	merged, err := extractTags(s, keyMergedTags)
	if err != nil {
		return nil, err
	}

	var summary string
	if val, exists := s.Get(keySummary); exists {
		if text, valid := val.(string); valid {
			summary = text
		}
	}

	r.progress.report("interrogation complete", 100)

	return newResult(merged, summary, r.stages), nil
}

func newResult(merged []tags.Tag, summary string, stages []StageStatus) *Result {
	return &Result{
		ID:          uuid.New(),
		Tags:        merged,
		Description: summary,
		Stages:      stages,
		CompletedAt: time.Now(),
	}
}

func extractImage(s state.State) ([]byte, error) {
	val, exists := s.Get(keyImage)
	if !exists {
		return nil, fmt.Errorf("missing %s in state", keyImage)
	}
	image, valid := val.([]byte)
	if !valid {
		return nil, fmt.Errorf("%s is not []byte", keyImage)
	}
	return image, nil
}

func extractTags(s state.State, key string) ([]tags.Tag, error) {
	val, exists := s.Get(key)
	if !exists {
		return nil, fmt.Errorf("missing %s in state", key)
	}
	if val == nil {
		return nil, nil
	}
	list, valid := val.([]tags.Tag)
	if !valid {
		return nil, fmt.Errorf("%s is not []tags.Tag", key)
	}
	return list, nil
}
