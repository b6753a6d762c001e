package tags

// Merge reconciles local tagger output with reasoning-model output into a
// single deduplicated, provenance-tagged set.
//
// The local tagger is treated as ground truth: every local tag is admitted
// with source local. A reasoning-model tag whose normalized name matches an
// existing entry confirms it: the entry keeps the maximum of the two scores
// and its source becomes both. Reasoning-only names are admitted as new
// entries only when the local tagger produced nothing at all, so generative
// output serves as a fallback vocabulary rather than a supplementary one.
//
// Merge is pure and deterministic given stable-sorted inputs; the result is
// sorted descending by score.
func Merge(local, reasoning []Tag) []Tag {
	merged := make(map[string]Tag, len(local))
	order := make([]string, 0, len(local))

	for _, t := range local {
		key := Normalize(t.Name)
		if _, ok := merged[key]; ok {
			continue
		}
		t.Name = key
		t.Source = SourceLocal
		merged[key] = t
		order = append(order, key)
	}

	localEmpty := len(merged) == 0

	for _, t := range reasoning {
		key := Normalize(t.Name)

		if existing, ok := merged[key]; ok {
			existing.Score = max(existing.Score, t.Score)
			existing.Source = SourceBoth
			merged[key] = existing
			continue
		}

		if !localEmpty {
			continue
		}

		t.Name = key
		t.Source = SourceReasoning
		merged[key] = t
		order = append(order, key)
	}

	result := make([]Tag, 0, len(order))
	for _, key := range order {
		result = append(result, merged[key])
	}

	SortByScore(result)
	return result
}
