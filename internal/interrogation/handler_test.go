package interrogation_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"tagsight/internal/enrich"
	"tagsight/internal/interrogation"
	"tagsight/internal/reasoning"
	"tagsight/internal/tagger"
	"tagsight/internal/vision"
	"tagsight/internal/vocabulary"
	"tagsight/pkg/routes"
)

func testHandlerMux(t *testing.T, backends interrogation.Backends) *http.ServeMux {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	vocab := vocabulary.New("", logger)
	vocab.Load()

	reasoningClient := reasoning.NewClient(nil, vocab, logger)
	sys := interrogation.New(
		vocab,
		tagger.NewClient(nil, vocab, logger),
		reasoningClient,
		enrich.New(reasoningClient, vocab, logger),
		vision.NewClient(nil, vocab, logger),
		logger,
	)

	handler := interrogation.NewHandler(sys, backends, vision.Config{}, 1<<20, logger)

	mux := http.NewServeMux()
	routes.Register(mux, handler.Routes())
	return mux
}

func uploadRequest(t *testing.T, path string, image []byte) *http.Request {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", "image.png")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := part.Write(image); err != nil {
		t.Fatal(err)
	}
	if err := writer.Close(); err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest("POST", path, body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func TestHandlerInterrogate(t *testing.T) {
	server := fakeTagger(t, `{"1girl": 0.95}`)
	mux := testHandlerMux(t, interrogation.Backends{
		Tagger: tagger.Config{Endpoint: server.URL},
	})

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, uploadRequest(t, "/interrogations", []byte("png")))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var result interrogation.Result
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode result: %v", err)
	}
	if len(result.Tags) != 1 || result.Tags[0].Name != "1girl" {
		t.Errorf("tags = %+v", result.Tags)
	}
}

func TestHandlerInterrogateCaptionQuery(t *testing.T) {
	server := fakeTagger(t, `{"1girl": 0.95}`)
	// Reasoning configured but disabled per-request via caption=false; the
	// unreachable endpoint would otherwise degrade the reasoning stage.
	mux := testHandlerMux(t, interrogation.Backends{
		Tagger:    tagger.Config{Endpoint: server.URL},
		Reasoning: reasoning.Config{Endpoint: "http://127.0.0.1:1", Model: "llava", Enabled: true},
	})

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, uploadRequest(t, "/interrogations?caption=false", []byte("png")))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var result interrogation.Result
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode result: %v", err)
	}
	if len(result.Degraded()) != 0 {
		t.Errorf("degraded = %v, want reasoning skipped entirely", result.Degraded())
	}
	if result.Description != "" {
		t.Errorf("description = %q, want empty", result.Description)
	}
}

func TestHandlerMissingFile(t *testing.T) {
	mux := testHandlerMux(t, interrogation.Backends{
		Tagger: tagger.Config{Endpoint: "http://x"},
	})

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	writer.WriteField("other", "value")
	writer.Close()

	req := httptest.NewRequest("POST", "/interrogations", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestHandlerMissingBackendConfig(t *testing.T) {
	mux := testHandlerMux(t, interrogation.Backends{})

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, uploadRequest(t, "/interrogations", []byte("png")))

	if rec.Code != http.StatusPreconditionFailed {
		t.Errorf("status = %d, want 412", rec.Code)
	}
}

func TestHandlerUploadTooLarge(t *testing.T) {
	mux := testHandlerMux(t, interrogation.Backends{
		Tagger: tagger.Config{Endpoint: "http://x"},
	})

	oversized := make([]byte, 2<<20)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, uploadRequest(t, "/interrogations", oversized))

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestHandlerCaption(t *testing.T) {
	model := fakeModel(t, "Tags: cat\nSummary: A cat resting.")
	mux := testHandlerMux(t, interrogation.Backends{
		Reasoning: reasoning.Config{Endpoint: model.URL, Model: "llava", Enabled: true},
	})

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, uploadRequest(t, "/interrogations/caption", []byte("png")))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["description"] != "A cat resting." {
		t.Errorf("description = %q", body["description"])
	}
}

func TestHandlerCloudUnconfigured(t *testing.T) {
	mux := testHandlerMux(t, interrogation.Backends{})

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, uploadRequest(t, "/interrogations/cloud", []byte("png")))

	if rec.Code != http.StatusPreconditionFailed {
		t.Errorf("status = %d, want 412", rec.Code)
	}
}
