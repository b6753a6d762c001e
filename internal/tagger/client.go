// Package tagger implements the client for the deterministic local image
// tagger. It normalizes the tagger's varied response shapes into canonical
// tags with categories resolved through the reference vocabulary.
package tagger

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"

	"tagsight/internal/backend"
	"tagsight/internal/tags"
	"tagsight/internal/vocabulary"
)

// maxResponseSize caps how much of a tagger response is read, guarding
// against runaway bodies from misconfigured endpoints.
const maxResponseSize = 4 << 20

// hallucinationThreshold is the confidence below which known lighting-artifact
// tags are suppressed.
const hallucinationThreshold = 0.85

// artifactTags are skin-color tags the tagger emits under colored lighting.
// They are documented false positives unless confidence is high.
var artifactTags = map[string]struct{}{
	"blue_skin":   {},
	"green_skin":  {},
	"purple_skin": {},
	"red_skin":    {},
	"grey_skin":   {},
	"orange_skin": {},
	"yellow_skin": {},
	"pink_skin":   {},
}

// Client invokes the local tagger over multipart HTTP upload.
type Client struct {
	http   *http.Client
	vocab  vocabulary.System
	logger *slog.Logger
}

// NewClient creates a tagger Client. A nil httpClient uses http.DefaultClient.
func NewClient(httpClient *http.Client, vocab vocabulary.System, logger *slog.Logger) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		http:   httpClient,
		vocab:  vocab,
		logger: logger.With("system", "tagger"),
	}
}

// FetchTags submits the image to the configured tagger endpoint and returns
// normalized tags sorted descending by score. Fails with ErrConfiguration
// before any network call when the endpoint is unset.
func (c *Client) FetchTags(ctx context.Context, image []byte, cfg *Config) ([]tags.Tag, error) {
	if cfg == nil || cfg.Endpoint == "" {
		return nil, fmt.Errorf("%w: tagger endpoint not set", backend.ErrConfiguration)
	}

	body, contentType, err := encodeUpload(image)
	if err != nil {
		return nil, fmt.Errorf("encode upload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, cfg.Endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", backend.ErrConfiguration, err)
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, c.transportError(cfg.Endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: tagger returned status %d", backend.ErrNetwork, resp.StatusCode)
	}

	payload, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %w", backend.ErrNetwork, err)
	}

	raw, err := decodePayload(payload)
	if err != nil {
		return nil, err
	}

	result := c.normalize(raw)

	c.logger.DebugContext(ctx, "local tags fetched",
		"received", len(raw),
		"kept", len(result),
	)

	return result, nil
}

// normalize converts raw pairs into canonical tags: names normalized, scores
// rescaled into [0, 1], lighting artifacts suppressed below the confidence
// threshold, categories resolved, sorted descending by score.
func (c *Client) normalize(raw []rawTag) []tags.Tag {
	result := make([]tags.Tag, 0, len(raw))
	for _, r := range raw {
		name := tags.Normalize(r.Name)
		if name == "" {
			continue
		}

		score := tags.NormalizeScore(r.Score)
		if _, artifact := artifactTags[name]; artifact && score < hallucinationThreshold {
			continue
		}

		result = append(result, tags.Tag{
			Name:     name,
			Score:    score,
			Category: c.vocab.Classify(name),
			Source:   tags.SourceLocal,
		})
	}

	tags.SortByScore(result)
	return result
}

// transportError wraps a transport failure as ErrNetwork. When the endpoint
// is not local, the failure frequently turns out to be a blocked cross-origin
// deployment, so the message points the operator at a reverse-proxy fix.
func (c *Client) transportError(endpoint string, err error) error {
	if localEndpoint(endpoint) {
		return fmt.Errorf("%w: %w", backend.ErrNetwork, err)
	}
	return fmt.Errorf(
		"%w: %w (the tagger endpoint is not local; if requests are blocked "+
			"cross-origin, route them through a reverse proxy on this host)",
		backend.ErrNetwork, err,
	)
}

func localEndpoint(endpoint string) bool {
	u, err := url.Parse(endpoint)
	if err != nil {
		return false
	}
	host := u.Hostname()
	return host == "localhost" || host == "127.0.0.1" || host == "::1" || strings.HasSuffix(host, ".local")
}

// encodeUpload builds the multipart body: a single "file" field carrying the
// PNG bytes. The filename is arbitrary by contract.
func encodeUpload(image []byte) (*bytes.Buffer, string, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	part, err := writer.CreateFormFile("file", "image.png")
	if err != nil {
		return nil, "", err
	}
	if _, err := part.Write(image); err != nil {
		return nil, "", err
	}
	if err := writer.Close(); err != nil {
		return nil, "", err
	}

	return body, writer.FormDataContentType(), nil
}
