package reasoning

import (
	"regexp"
	"strings"

	"tagsight/internal/tags"
)

// Response segmentation for the prompt-contractual "Tags: ... Summary: ..."
// layout. The patterns are deliberately tolerant: models drift on casing,
// spacing, and ordering, and the Summary section is frequently dropped.
var (
	tagsSection    = regexp.MustCompile(`(?is)tags:\s*(.*?)\s*(?:\bsummary:|$)`)
	summarySection = regexp.MustCompile(`(?is)summary:\s*(.+)$`)
)

// splitResponse segments a model response into its raw comma-separated tag
// list and its summary text. When the Summary marker is absent, whatever
// text remains outside the tags section serves as the summary. Returns
// found=false when no Tags marker is present at all.
func splitResponse(content string) (rawTags, summary string, found bool) {
	match := tagsSection.FindStringSubmatchIndex(content)
	if match == nil {
		return "", "", false
	}

	rawTags = strings.TrimSpace(content[match[2]:match[3]])

	if sm := summarySection.FindStringSubmatch(content); sm != nil {
		return rawTags, strings.TrimSpace(sm[1]), true
	}

	// Summary marker missing: remove the tags section and treat the rest
	// as the summary.
	remainder := content[:match[0]] + content[match[1]:]
	return rawTags, strings.TrimSpace(remainder), true
}

// parseTagList converts a raw comma-separated tag list into canonical tags
// with the given category resolver, default confidence, and source.
func parseTagList(raw string, classify func(string) tags.Tag) []tags.Tag {
	parts := strings.Split(raw, ",")
	result := make([]tags.Tag, 0, len(parts))
	seen := make(map[string]struct{}, len(parts))

	for _, part := range parts {
		name := tags.Normalize(part)
		if name == "" {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		result = append(result, classify(name))
	}

	return result
}
