package fetch_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Emmand87/ricomu-knowledge-service/src/infrastructure/fetch"
)

func TestFetch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/doc":
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			w.Write([]byte("<p>content</p>"))
		case "/empty":
			w.WriteHeader(http.StatusOK)
		case "/missing":
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	client := fetch.NewClient(server.Client())

	t.Run("successful fetch returns body and content type", func(t *testing.T) {
		body, contentType, err := client.Fetch(context.Background(), server.URL+"/doc")
		if err != nil {
			t.Fatalf("Fetch() error = %v", err)
		}
		if string(body) != "<p>content</p>" {
			t.Errorf("body = %q, want document content", body)
		}
		if contentType != "text/html; charset=utf-8" {
			t.Errorf("contentType = %q, want html", contentType)
		}
	})

	t.Run("empty body is not an error", func(t *testing.T) {
		body, _, err := client.Fetch(context.Background(), server.URL+"/empty")
		if err != nil {
			t.Fatalf("Fetch() error = %v", err)
		}
		if len(body) != 0 {
			t.Errorf("body = %q, want empty", body)
		}
	})

	t.Run("non-2xx status is a StatusError", func(t *testing.T) {
		_, _, err := client.Fetch(context.Background(), server.URL+"/missing")

		var statusErr *fetch.StatusError
		if !errors.As(err, &statusErr) {
			t.Fatalf("Fetch() error = %v, want StatusError", err)
		}
		if statusErr.StatusCode != http.StatusNotFound {
			t.Errorf("StatusCode = %d, want 404", statusErr.StatusCode)
		}
	})

	t.Run("unreachable host is an error", func(t *testing.T) {
		_, _, err := client.Fetch(context.Background(), "http://127.0.0.1:1/unreachable")
		if err == nil {
			t.Error("Fetch() expected error for unreachable host, got nil")
		}
	})
}
