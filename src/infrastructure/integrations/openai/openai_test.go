package openai_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Emmand87/ricomu-knowledge-service/src/infrastructure/integrations/openai"
)

func TestEmbedTexts(t *testing.T) {
	var gotRequest struct {
		Model string   `json:"model"`
		Input []string `json:"input"`
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/embeddings" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("Authorization = %q, want bearer token", got)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotRequest); err != nil {
			t.Fatalf("failed to decode request: %v", err)
		}

		// Return vectors out of order; the client must sort by index.
		json.NewEncoder(w).Encode(map[string]interface{}{
			"data": []map[string]interface{}{
				{"index": 1, "embedding": []float64{0.3, 0.4}},
				{"index": 0, "embedding": []float64{0.1, 0.2}},
			},
		})
	}))
	defer server.Close()

	client := openai.NewClient(server.URL, "test-key", "test-model", server.Client())

	embeddings, err := client.EmbedTexts(context.Background(), []string{"first", "second"})
	if err != nil {
		t.Fatalf("EmbedTexts() error = %v", err)
	}

	if gotRequest.Model != "test-model" {
		t.Errorf("request model = %q, want %q", gotRequest.Model, "test-model")
	}
	if len(gotRequest.Input) != 2 || gotRequest.Input[0] != "first" {
		t.Errorf("request input = %v, want both texts in order", gotRequest.Input)
	}

	if len(embeddings) != 2 {
		t.Fatalf("got %d embeddings, want 2", len(embeddings))
	}
	if embeddings[0][0] != 0.1 || embeddings[1][0] != 0.3 {
		t.Errorf("embeddings = %v, want vectors ordered by index", embeddings)
	}
}

func TestEmbedTextsBatchMismatch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"data": []map[string]interface{}{
				{"index": 0, "embedding": []float64{0.1}},
			},
		})
	}))
	defer server.Close()

	client := openai.NewClient(server.URL, "test-key", "", server.Client())

	_, err := client.EmbedTexts(context.Background(), []string{"one", "two"})
	if err == nil {
		t.Error("EmbedTexts() expected error for short batch, got nil")
	}
}

func TestEmbedTextsAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"error": map[string]interface{}{
				"message": "invalid api key",
				"type":    "invalid_request_error",
			},
		})
	}))
	defer server.Close()

	client := openai.NewClient(server.URL, "bad-key", "", server.Client())

	_, err := client.EmbedTexts(context.Background(), []string{"text"})
	if err == nil {
		t.Fatal("EmbedTexts() expected error, got nil")
	}

	var apiErr *openai.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("EmbedTexts() error = %v, want APIError", err)
	}
	if apiErr.Message != "invalid api key" {
		t.Errorf("APIError.Message = %q, want provider message", apiErr.Message)
	}
}
