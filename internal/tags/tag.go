// Package tags defines the canonical tag type produced by the classifier
// backends and the reconciliation rules that combine their outputs.
package tags

import (
	"encoding/json"
	"slices"
	"strings"

	"tagsight/internal/vocabulary"
)

// Source records which backend produced a tag.
type Source string

// Tag provenance values. SourceBoth supersedes either single source when the
// same normalized name appears in both producers.
const (
	SourceLocal     Source = "local"
	SourceReasoning Source = "reasoning_model"
	SourceBoth      Source = "both"
)

var sources = []Source{SourceLocal, SourceReasoning, SourceBoth}

// Valid reports whether s is a known source.
func (s Source) Valid() bool {
	return slices.Contains(sources, s)
}

// UnmarshalJSON validates that the decoded string is a known source value.
func (s *Source) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	v := Source(raw)
	if !v.Valid() {
		return ErrInvalidSource
	}
	*s = v
	return nil
}

// Tag is a single classification result with confidence and provenance.
type Tag struct {
	Name     string              `json:"name"`
	Score    float64             `json:"score"`
	Category vocabulary.Category `json:"category"`
	Source   Source              `json:"source"`
}

// Normalize converts a raw tag name to the reference vocabulary convention:
// lowercase, underscore-delimited.
func Normalize(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	return strings.ReplaceAll(name, " ", "_")
}

// NormalizeScore rescales a confidence value into [0, 1]. Producers that
// emit percentages are detected by magnitude: anything above 1 is divided
// by 100. Results are clamped to the unit interval.
func NormalizeScore(score float64) float64 {
	if score > 1 {
		score /= 100
	}
	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}

// SortByScore sorts tags in place, descending by score. The sort is stable
// so equal-score tags keep their producer ordering.
func SortByScore(list []Tag) {
	slices.SortStableFunc(list, func(a, b Tag) int {
		switch {
		case a.Score > b.Score:
			return -1
		case a.Score < b.Score:
			return 1
		default:
			return 0
		}
	})
}

// Names returns the normalized names of the given tags.
func Names(list []Tag) []string {
	names := make([]string, len(list))
	for i, t := range list {
		names[i] = Normalize(t.Name)
	}
	return names
}
