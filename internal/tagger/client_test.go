package tagger_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"tagsight/internal/backend"
	"tagsight/internal/tagger"
	"tagsight/internal/tags"
	"tagsight/internal/vocabulary"
)

func testClient(t *testing.T) *tagger.Client {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	vocab := vocabulary.New("", logger)
	vocab.Load()
	return tagger.NewClient(nil, vocab, logger)
}

func fakeTagger(t *testing.T, payload string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(32 << 20); err != nil {
			t.Errorf("expected multipart upload: %v", err)
		}
		if _, _, err := r.FormFile("file"); err != nil {
			t.Errorf("expected file field: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, payload)
	}))
	t.Cleanup(server.Close)
	return server
}

func TestFetchTagsResponseShapes(t *testing.T) {
	cases := []struct {
		name    string
		payload string
	}{
		{"object map", `{"1girl": 0.95, "dress": 0.7}`},
		{"wrapper list", `[{"tags": {"1girl": 0.95, "dress": 0.7}}]`},
		{"pair list", `[["1girl", 0.95], ["dress", 0.7]]`},
		{"object list", `[{"name": "1girl", "score": 0.95}, {"name": "dress", "score": 0.7}]`},
		{"object list with confidence", `[{"tag": "1girl", "confidence": 0.95}, {"tag": "dress", "probability": 0.7}]`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			server := fakeTagger(t, tc.payload)
			client := testClient(t)

			got, err := client.FetchTags(context.Background(), []byte("png"), &tagger.Config{Endpoint: server.URL})
			if err != nil {
				t.Fatalf("FetchTags error: %v", err)
			}
			if len(got) != 2 {
				t.Fatalf("len = %d, want 2", len(got))
			}
			if got[0].Name != "1girl" || got[0].Score != 0.95 {
				t.Errorf("first tag = %+v, want 1girl@0.95", got[0])
			}
			if got[0].Source != tags.SourceLocal {
				t.Errorf("source = %v, want local", got[0].Source)
			}
			if got[0].Category != vocabulary.CategoryGeneral {
				t.Errorf("category = %v, want general", got[0].Category)
			}
		})
	}
}

func TestFetchTagsPercentRescale(t *testing.T) {
	server := fakeTagger(t, `{"1girl": 95, "dress": 70}`)
	client := testClient(t)

	got, err := client.FetchTags(context.Background(), []byte("png"), &tagger.Config{Endpoint: server.URL})
	if err != nil {
		t.Fatalf("FetchTags error: %v", err)
	}
	for _, tag := range got {
		if tag.Score > 1 {
			t.Errorf("%s score = %v, want rescaled into [0, 1]", tag.Name, tag.Score)
		}
	}
	if got[0].Score != 0.95 {
		t.Errorf("top score = %v, want 0.95", got[0].Score)
	}
}

func TestFetchTagsSuppressesLightingArtifacts(t *testing.T) {
	server := fakeTagger(t, `{"1girl": 0.95, "blue_skin": 0.5, "green_skin": 0.9}`)
	client := testClient(t)

	got, err := client.FetchTags(context.Background(), []byte("png"), &tagger.Config{Endpoint: server.URL})
	if err != nil {
		t.Fatalf("FetchTags error: %v", err)
	}

	names := tags.Names(got)
	for _, name := range names {
		if name == "blue_skin" {
			t.Error("blue_skin below threshold should be suppressed")
		}
	}

	var kept bool
	for _, name := range names {
		if name == "green_skin" {
			kept = true
		}
	}
	if !kept {
		t.Error("green_skin above threshold should be kept")
	}
}

func TestFetchTagsEmptyPayloads(t *testing.T) {
	for _, payload := range []string{"{}", "[]", "null", ""} {
		t.Run("payload "+payload, func(t *testing.T) {
			server := fakeTagger(t, payload)
			client := testClient(t)

			got, err := client.FetchTags(context.Background(), []byte("png"), &tagger.Config{Endpoint: server.URL})
			if err != nil {
				t.Fatalf("FetchTags error: %v", err)
			}
			if len(got) != 0 {
				t.Errorf("len = %d, want 0", len(got))
			}
		})
	}
}

func TestFetchTagsNormalizesNames(t *testing.T) {
	server := fakeTagger(t, `{"Long Hair": 0.8}`)
	client := testClient(t)

	got, err := client.FetchTags(context.Background(), []byte("png"), &tagger.Config{Endpoint: server.URL})
	if err != nil {
		t.Fatalf("FetchTags error: %v", err)
	}
	if len(got) != 1 || got[0].Name != "long_hair" {
		t.Errorf("got %v, want [long_hair]", tags.Names(got))
	}
}

func TestFetchTagsErrors(t *testing.T) {
	t.Run("missing endpoint is a configuration error", func(t *testing.T) {
		client := testClient(t)
		_, err := client.FetchTags(context.Background(), []byte("png"), &tagger.Config{})
		if !errors.Is(err, backend.ErrConfiguration) {
			t.Errorf("error = %v, want ErrConfiguration", err)
		}
	})

	t.Run("non-200 status is a network error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		t.Cleanup(server.Close)

		client := testClient(t)
		_, err := client.FetchTags(context.Background(), []byte("png"), &tagger.Config{Endpoint: server.URL})
		if !errors.Is(err, backend.ErrNetwork) {
			t.Errorf("error = %v, want ErrNetwork", err)
		}
	})

	t.Run("unrecognized payload is a parse error", func(t *testing.T) {
		server := fakeTagger(t, `"just a string"`)
		client := testClient(t)
		_, err := client.FetchTags(context.Background(), []byte("png"), &tagger.Config{Endpoint: server.URL})
		if !errors.Is(err, backend.ErrParse) {
			t.Errorf("error = %v, want ErrParse", err)
		}
	})

	t.Run("unreachable remote endpoint hints at reverse proxy", func(t *testing.T) {
		client := testClient(t)
		_, err := client.FetchTags(context.Background(), []byte("png"), &tagger.Config{
			Endpoint: "http://tagger.invalid:9999",
		})
		if !errors.Is(err, backend.ErrNetwork) {
			t.Fatalf("error = %v, want ErrNetwork", err)
		}
		if !strings.Contains(err.Error(), "reverse proxy") {
			t.Errorf("remote endpoint failure should mention a reverse proxy: %v", err)
		}
	})

	t.Run("unreachable local endpoint has no proxy hint", func(t *testing.T) {
		client := testClient(t)
		_, err := client.FetchTags(context.Background(), []byte("png"), &tagger.Config{
			Endpoint: "http://127.0.0.1:1",
		})
		if !errors.Is(err, backend.ErrNetwork) {
			t.Fatalf("error = %v, want ErrNetwork", err)
		}
		if strings.Contains(err.Error(), "reverse proxy") {
			t.Errorf("local endpoint failure should not mention a reverse proxy: %v", err)
		}
	})
}
