// Package vision implements the cloud single-backend interrogation path: one
// structured-output call to a hosted vision-language model. Unlike the hybrid
// pipeline this path is strict: any failure aborts the interrogation and
// surfaces to the caller.
package vision

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"tagsight/internal/backend"
	"tagsight/internal/reasoning"
	"tagsight/internal/tags"
	"tagsight/internal/vocabulary"
	"tagsight/pkg/formatting"
)

const maxResponseSize = 4 << 20

const interrogatePrompt = `Analyze the image and tag it. Return JSON matching the provided schema: a "tags" array of objects with "name" (lowercase, underscore_delimited), "category" (one of general, character, copyright, artist, meta, rating), and "score" (0 to 1), plus a "description" string of natural-language prose.`

// Output is the cloud path's interrogation result.
type Output struct {
	Tags        []tags.Tag `json:"tags"`
	Description string     `json:"description"`
}

// Client invokes a chat-completions-style vision endpoint with a structured
// output schema.
type Client struct {
	http   *http.Client
	vocab  vocabulary.System
	logger *slog.Logger
}

// NewClient creates a vision Client. A nil httpClient uses http.DefaultClient.
func NewClient(httpClient *http.Client, vocab vocabulary.System, logger *slog.Logger) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		http:   httpClient,
		vocab:  vocab,
		logger: logger.With("system", "vision"),
	}
}

type chatRequest struct {
	Model          string          `json:"model"`
	Messages       []chatMessage   `json:"messages"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type chatMessage struct {
	Role    string        `json:"role"`
	Content []contentPart `json:"content"`
}

type contentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *imageURL `json:"image_url,omitempty"`
}

type imageURL struct {
	URL string `json:"url"`
}

type responseFormat struct {
	Type       string         `json:"type"`
	JSONSchema map[string]any `json:"json_schema,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// structuredResult mirrors the schema requested from the model. Categories
// arrive as plain strings so an invalid value degrades to local
// classification instead of failing the decode.
type structuredResult struct {
	Tags []struct {
		Name     string  `json:"name"`
		Category string  `json:"category"`
		Score    float64 `json:"score"`
	} `json:"tags"`
	Description string `json:"description"`
}

// Interrogate sends the image for structured tagging and captioning.
func (c *Client) Interrogate(ctx context.Context, image []byte, cfg *Config) (*Output, error) {
	if err := validate(cfg); err != nil {
		return nil, err
	}

	request := chatRequest{
		Model: cfg.Model,
		Messages: []chatMessage{{
			Role: "user",
			Content: []contentPart{
				{Type: "text", Text: interrogatePrompt},
				{Type: "image_url", ImageURL: &imageURL{
					URL: "data:image/png;base64," + base64.StdEncoding.EncodeToString(image),
				}},
			},
		}},
		ResponseFormat: &responseFormat{
			Type:       "json_schema",
			JSONSchema: interrogationSchema,
		},
	}

	payload, err := json.Marshal(request)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, cfg.Endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", backend.ErrConfiguration, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if cfg.Token != "" {
		req.Header.Set("Authorization", "Bearer "+cfg.Token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", backend.ErrNetwork, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: vision model returned status %d", backend.ErrNetwork, resp.StatusCode)
	}

	var decoded chatResponse
	limited := io.LimitReader(resp.Body, maxResponseSize)
	if err := json.NewDecoder(limited).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("%w: %w", backend.ErrParse, err)
	}
	if len(decoded.Choices) == 0 {
		return nil, fmt.Errorf("%w: empty choices in response", backend.ErrParse)
	}

	structured, err := formatting.Parse[structuredResult](decoded.Choices[0].Message.Content)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", backend.ErrParse, err)
	}

	return c.normalize(structured), nil
}

func (c *Client) normalize(structured structuredResult) *Output {
	list := make([]tags.Tag, 0, len(structured.Tags))
	for _, t := range structured.Tags {
		name := tags.Normalize(t.Name)
		if name == "" {
			continue
		}

		category := vocabulary.Category(t.Category)
		if !category.Valid() {
			category = c.vocab.Classify(name)
		}

		list = append(list, tags.Tag{
			Name:     name,
			Score:    tags.NormalizeScore(t.Score),
			Category: category,
			Source:   tags.SourceReasoning,
		})
	}

	tags.SortByScore(list)

	return &Output{
		Tags:        list,
		Description: reasoning.Sanitize(structured.Description),
	}
}

func validate(cfg *Config) error {
	if cfg == nil || cfg.Endpoint == "" {
		return fmt.Errorf("%w: vision endpoint not set", backend.ErrConfiguration)
	}
	if cfg.Model == "" {
		return fmt.Errorf("%w: vision model not set", backend.ErrConfiguration)
	}
	return nil
}

// interrogationSchema is the structured-output contract sent with each
// request. Categories are constrained to the vocabulary enum so the model
// cannot invent new ones.
var interrogationSchema = map[string]any{
	"name":   "interrogation",
	"strict": true,
	"schema": map[string]any{
		"type": "object",
		"properties": map[string]any{
			"tags": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"name":     map[string]any{"type": "string"},
						"category": map[string]any{"type": "string", "enum": categoryNames()},
						"score":    map[string]any{"type": "number"},
					},
					"required": []string{"name", "category", "score"},
				},
			},
			"description": map[string]any{"type": "string"},
		},
		"required": []string{"tags", "description"},
	},
}

func categoryNames() []string {
	names := make([]string, 0, len(vocabulary.Categories()))
	for _, c := range vocabulary.Categories() {
		names = append(names, string(c))
	}
	return names
}
