package tagger

import (
	"bytes"
	"encoding/json"
	"fmt"

	"tagsight/internal/backend"
)

// rawTag is a name/score pair before normalization and categorization.
type rawTag struct {
	Name  string
	Score float64
}

// decodePayload normalizes the tagger's response into raw tag pairs. The
// remote format is not contractually fixed, so known shapes are attempted
// as explicit decoders in priority order:
//
//  1. object map of name -> score
//  2. list of per-image wrappers whose first entry carries a "tags" payload
//  3. list of [name, score] pairs
//  4. list of objects with name|tag and score|confidence|probability fields
//
// Wrappers are probed before plain object lists because both are arrays of
// objects; a wrapper is identified by its "tags" field.
func decodePayload(data []byte) ([]rawTag, error) {
	switch string(bytes.TrimSpace(data)) {
	case "", "{}", "[]", "null":
		return nil, nil
	}

	if result, ok := decodeMap(data); ok {
		return result, nil
	}
	if result, ok := decodeWrapperList(data); ok {
		return result, nil
	}
	if result, ok := decodePairList(data); ok {
		return result, nil
	}
	if result, ok := decodeObjectList(data); ok {
		return result, nil
	}
	return nil, fmt.Errorf("%w: unrecognized tag payload shape", backend.ErrParse)
}

func decodeMap(data []byte) ([]rawTag, bool) {
	var m map[string]float64
	if err := json.Unmarshal(data, &m); err != nil || len(m) == 0 {
		return nil, false
	}

	result := make([]rawTag, 0, len(m))
	for name, score := range m {
		result = append(result, rawTag{Name: name, Score: score})
	}
	return result, true
}

func decodeWrapperList(data []byte) ([]rawTag, bool) {
	var wrappers []struct {
		Tags json.RawMessage `json:"tags"`
	}
	if err := json.Unmarshal(data, &wrappers); err != nil {
		return nil, false
	}
	if len(wrappers) == 0 || len(wrappers[0].Tags) == 0 {
		return nil, false
	}

	inner, err := decodePayload(wrappers[0].Tags)
	if err != nil {
		return nil, false
	}
	return inner, true
}

func decodePairList(data []byte) ([]rawTag, bool) {
	var pairs [][]json.RawMessage
	if err := json.Unmarshal(data, &pairs); err != nil || len(pairs) == 0 {
		return nil, false
	}

	result := make([]rawTag, 0, len(pairs))
	for _, pair := range pairs {
		if len(pair) < 2 {
			return nil, false
		}

		var name string
		var score float64
		if err := json.Unmarshal(pair[0], &name); err != nil {
			return nil, false
		}
		if err := json.Unmarshal(pair[1], &score); err != nil {
			return nil, false
		}
		result = append(result, rawTag{Name: name, Score: score})
	}
	return result, true
}

func decodeObjectList(data []byte) ([]rawTag, bool) {
	var objects []struct {
		Name        *string  `json:"name"`
		Tag         *string  `json:"tag"`
		Score       *float64 `json:"score"`
		Confidence  *float64 `json:"confidence"`
		Probability *float64 `json:"probability"`
	}
	if err := json.Unmarshal(data, &objects); err != nil || len(objects) == 0 {
		return nil, false
	}

	result := make([]rawTag, 0, len(objects))
	for _, obj := range objects {
		name := firstString(obj.Name, obj.Tag)
		score := firstFloat(obj.Score, obj.Confidence, obj.Probability)
		if name == nil || score == nil {
			return nil, false
		}
		result = append(result, rawTag{Name: *name, Score: *score})
	}
	return result, true
}

func firstString(values ...*string) *string {
	for _, v := range values {
		if v != nil {
			return v
		}
	}
	return nil
}

func firstFloat(values ...*float64) *float64 {
	for _, v := range values {
		if v != nil {
			return v
		}
	}
	return nil
}
