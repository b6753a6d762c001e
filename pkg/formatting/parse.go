// Package formatting provides parsing utilities for values produced by
// generative models and for human-readable configuration strings.
package formatting

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrParseFailed is returned when content cannot be parsed as JSON,
// either directly or after extracting it from surrounding prose.
var ErrParseFailed = errors.New("failed to parse response")

var jsonBlockRegex = regexp.MustCompile(`(?s)` + "```" + `(?:json)?\s*\n?(.*?)\n?` + "```")

// Parse attempts to unmarshal content as JSON into T.
// If direct parsing fails, it extracts JSON from a markdown code fence
// and retries. Returns ErrParseFailed if both attempts fail.
func Parse[T any](content string) (T, error) {
	var result T
	content = strings.TrimSpace(content)

	if err := json.Unmarshal([]byte(content), &result); err == nil {
		return result, nil
	}

	matches := jsonBlockRegex.FindStringSubmatch(content)
	if len(matches) >= 2 {
		cleaned := strings.TrimSpace(matches[1])
		if err := json.Unmarshal([]byte(cleaned), &result); err == nil {
			return result, nil
		}
	}

	return result, fmt.Errorf("%w: %s", ErrParseFailed, content)
}

// ParseArray extracts the first bracketed JSON array from content and
// unmarshals it as a string slice. Models asked for a strict JSON array
// routinely wrap it in prose; everything outside the outermost brackets
// is discarded before parsing. Returns ErrParseFailed when no array is
// present or the bracketed text is not valid JSON.
func ParseArray(content string) ([]string, error) {
	start := strings.Index(content, "[")
	end := strings.LastIndex(content, "]")
	if start == -1 || end == -1 || end < start {
		return nil, fmt.Errorf("%w: no JSON array in content", ErrParseFailed)
	}

	var result []string
	if err := json.Unmarshal([]byte(content[start:end+1]), &result); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrParseFailed, content[start:end+1])
	}

	return result, nil
}
