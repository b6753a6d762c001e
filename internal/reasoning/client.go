// Package reasoning implements the client for the generative vision-language
// backend. It drives two prompt contracts against the same generate-style
// endpoint: joint tag verification plus captioning, and batched
// copyright/series resolution.
package reasoning

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
	"tagsight/internal/tags"
	"tagsight/internal/vocabulary"
	"tagsight/pkg/formatting"
)

const (
	generatePath    = "/api/generate"
	maxResponseSize = 4 << 20

	// defaultConfidence is assigned to every tag extracted from a
	// verification response; the model reports no per-tag scores.
	defaultConfidence = 0.7

	// Copyright names confirmed against the reference vocabulary score
	// higher than names accepted purely on the model's say-so. The
	// hallucination signal survives in the score instead of being thrown
	// away.
	confirmedCopyrightScore   = 0.9
	unconfirmedCopyrightScore = 0.5
)

// Client invokes the reasoning model over HTTP.
type Client struct {
	http   *http.Client
	vocab  vocabulary.System
	logger *slog.Logger
}

// NewClient creates a reasoning Client. A nil httpClient uses http.DefaultClient.
func NewClient(httpClient *http.Client, vocab vocabulary.System, logger *slog.Logger) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		http:   httpClient,
		vocab:  vocab,
		logger: logger.With("system", "reasoning"),
	}
}

type generateRequest struct {
	Model  string   `json:"model"`
	Prompt string   `json:"prompt"`
	System string   `json:"system,omitempty"`
	Images []string `json:"images,omitempty"`
	Format string   `json:"format,omitempty"`
	Stream bool     `json:"stream"`
}

type generateResponse struct {
	Response string `json:"response"`
}

// FetchTagsAndSummary asks the model to verify the supplied tags against the
// image, add visually apparent missing ones, and produce a natural-language
// description. Extracted tags carry the default confidence and
// reasoning-model provenance; the summary is sanitized before return.
func (c *Client) FetchTagsAndSummary(
	ctx context.Context,
	image []byte,
	cfg *Config,
	existing []tags.Tag,
) ([]tags.Tag, string, error) {
	if err := validate(cfg); err != nil {
		return nil, "", err
	}

	content, err := c.generate(ctx, cfg, generateRequest{
		Model:  cfg.Model,
		Prompt: verifyPrompt(tags.Names(existing)),
		System: verifySystem,
		Images: []string{base64.StdEncoding.EncodeToString(image)},
	})
	if err != nil {
		return nil, "", err
	}

	rawTags, summary, found := splitResponse(content)
	if !found {
		return nil, "", fmt.Errorf("%w: no tags section in response", backend.ErrParse)
	}

	list := parseTagList(rawTags, func(name string) tags.Tag {
		return tags.Tag{
			Name:     name,
			Score:    defaultConfidence,
			Category: c.vocab.Classify(name),
			Source:   tags.SourceReasoning,
		}
	})

	c.logger.DebugContext(ctx, "verification response parsed",
		"tags", len(list),
		"summary_len", len(summary),
	)

	return list, Sanitize(summary), nil
}

// FetchCopyrights asks the model for the series each character name belongs
// to and returns them as copyright tags. Vocabulary-confirmed names score
// higher than unconfirmed ones.
func (c *Client) FetchCopyrights(
	ctx context.Context,
	names []string,
	cfg *Config,
) ([]tags.Tag, error) {
	if len(names) == 0 {
		return nil, nil
	}
	if err := validate(cfg); err != nil {
		return nil, err
	}

	content, err := c.generate(ctx, cfg, generateRequest{
		Model:  cfg.Model,
		Prompt: copyrightPrompt(names),
		Format: "json",
	})
	if err != nil {
		return nil, err
	}

	series, err := formatting.ParseArray(content)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", backend.ErrParse, err)
	}

	result := make([]tags.Tag, 0, len(series))
	seen := make(map[string]struct{}, len(series))
	for _, s := range series {
		name := tags.Normalize(s)
		if name == "" {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}

		score := unconfirmedCopyrightScore
		if c.vocab.InCategory(name, vocabulary.CategoryCopyright) {
			score = confirmedCopyrightScore
		}

		result = append(result, tags.Tag{
			Name:     name,
			Score:    score,
			Category: vocabulary.CategoryCopyright,
			Source:   tags.SourceReasoning,
		})
	}

	return result, nil
}

func (c *Client) generate(ctx context.Context, cfg *Config, request generateRequest) (string, error) {
	payload, err := json.Marshal(request)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx, http.MethodPost,
		cfg.Endpoint+generatePath,
		bytes.NewReader(payload),
	)
	if err != nil {
		return "", fmt.Errorf("%w: %w", backend.ErrConfiguration, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %w", backend.ErrNetwork, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: reasoning model returned status %d", backend.ErrNetwork, resp.StatusCode)
	}

	var decoded generateResponse
	limited := io.LimitReader(resp.Body, maxResponseSize)
	if err := json.NewDecoder(limited).Decode(&decoded); err != nil {
		return "", fmt.Errorf("%w: %w", backend.ErrParse, err)
	}

	return decoded.Response, nil
}

func validate(cfg *Config) error {
	if cfg == nil || cfg.Endpoint == "" {
		return fmt.Errorf("%w: reasoning endpoint not set", backend.ErrConfiguration)
	}
	if cfg.Model == "" {
		return fmt.Errorf("%w: reasoning model not set", backend.ErrConfiguration)
	}
	return nil
}
