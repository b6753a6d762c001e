package vocabulary

import (
	"regexp"
	"strings"
)

// ratingWords are standalone rating tags emitted by local taggers.
var ratingWords = map[string]struct{}{
	"safe":         {},
	"sensitive":    {},
	"questionable": {},
	"explicit":     {},
}

// metaWords are quality and resolution descriptors that belong to the meta
// category even when absent from the reference table.
var metaWords = map[string]struct{}{
	"highres":        {},
	"absurdres":      {},
	"lowres":         {},
	"masterpiece":    {},
	"best_quality":   {},
	"worst_quality":  {},
	"jpeg_artifacts": {},
	"scan":           {},
}

// subjectCountPattern matches multi-subject count tags like "2girls" or "3boys".
var subjectCountPattern = regexp.MustCompile(`^\d+(?:girls?|boys?|others?|koma)$`)

// classifyHeuristic applies the fallback ordering used when a name misses
// the reference table: rating, then meta, then subject counts, then general.
func classifyHeuristic(name string) Category {
	if strings.HasPrefix(name, "rating:") {
		return CategoryRating
	}
	if _, ok := ratingWords[name]; ok {
		return CategoryRating
	}
	if _, ok := metaWords[name]; ok {
		return CategoryMeta
	}
	if subjectCountPattern.MatchString(name) {
		return CategoryGeneral
	}
	return CategoryGeneral
}
