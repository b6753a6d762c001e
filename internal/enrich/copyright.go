// Package enrich derives copyright/series tags from the tags already
// present: bracket-pattern heuristics first, with a batched reasoning-model
// lookup for character tags the heuristics cannot resolve.
package enrich

import (
	"context"
	"log/slog"
	"regexp"
	"slices"

	"tagsight/internal/reasoning"
	"tagsight/internal/tags"
	"tagsight/internal/vocabulary"
)

// CopyrightResolver is the slice of the reasoning client the enricher needs.
type CopyrightResolver interface {
	FetchCopyrights(ctx context.Context, names []string, cfg *reasoning.Config) ([]tags.Tag, error)
}

// seriesPattern matches the parenthetical disambiguation suffix of reference
// vocabulary names, e.g. artoria_pendragon_(fate).
var seriesPattern = regexp.MustCompile(`_\(([^()]+)\)$`)

// Enricher appends copyright tags derived from existing tags.
type Enricher struct {
	resolver CopyrightResolver
	vocab    vocabulary.System
	logger   *slog.Logger
}

// New creates an Enricher.
func New(resolver CopyrightResolver, vocab vocabulary.System, logger *slog.Logger) *Enricher {
	return &Enricher{
		resolver: resolver,
		vocab:    vocab,
		logger:   logger.With("system", "enrich"),
	}
}

// Copyrights returns the input tags plus derived copyright tags, re-sorted
// descending by score.
//
// For every tag with a parenthetical suffix naming a known copyright, the
// series is appended directly, inheriting the originating tag's score and
// source. Tags with an unknown suffix, and character-category tags with no
// suffix, are queued for one batched reasoning-model lookup. The lookup is
// best-effort: on failure the heuristic results are returned along with the
// error so the caller can record the degradation.
func (e *Enricher) Copyrights(
	ctx context.Context,
	in []tags.Tag,
	cfg *reasoning.Config,
) ([]tags.Tag, error) {
	out := slices.Clone(in)

	present := make(map[string]struct{}, len(in))
	for _, t := range in {
		present[tags.Normalize(t.Name)] = struct{}{}
	}

	var queue []string
	for _, t := range in {
		if match := seriesPattern.FindStringSubmatch(t.Name); match != nil {
			series := tags.Normalize(match[1])
			if e.vocab.InCategory(series, vocabulary.CategoryCopyright) {
				if _, ok := present[series]; !ok {
					present[series] = struct{}{}
					out = append(out, tags.Tag{
						Name:     series,
						Score:    t.Score,
						Category: vocabulary.CategoryCopyright,
						Source:   t.Source,
					})
				}
				continue
			}
			queue = append(queue, tags.Normalize(t.Name))
			continue
		}

		if t.Category == vocabulary.CategoryCharacter {
			queue = append(queue, tags.Normalize(t.Name))
		}
	}

	var lookupErr error
	if len(queue) > 0 && cfg != nil && cfg.Enabled {
		discovered, err := e.resolver.FetchCopyrights(ctx, dedupe(queue), cfg)
		if err != nil {
			e.logger.WarnContext(ctx, "copyright lookup degraded", "error", err)
			lookupErr = err
		}

		for _, t := range discovered {
			name := tags.Normalize(t.Name)
			if _, ok := present[name]; ok {
				continue
			}
			present[name] = struct{}{}
			out = append(out, t)
		}
	}

	tags.SortByScore(out)
	return out, lookupErr
}

func dedupe(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}
