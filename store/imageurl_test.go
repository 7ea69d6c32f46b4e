package store

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mwantia/assetdesk/data"
)

func TestURLBuilder_Build(t *testing.T) {
	b := NewURLBuilder("", "p1", "")

	u, err := b.Build("image-abc123-640x480-png", DefaultDisplayWidth)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	expected := "https://cdn.sanity.io/images/p1/production/abc123-640x480.png?w=800"
	if u != expected {
		t.Errorf("Expected '%s', got '%s'", expected, u)
	}

	again, _ := b.Build("image-abc123-640x480-png", DefaultDisplayWidth)
	if again != u {
		t.Error("Build is not deterministic")
	}

	if _, err := b.Build("not-a-ref", 0); !errors.Is(err, data.ErrInvalidRef) {
		t.Errorf("Expected ErrInvalidRef, got %v", err)
	}
}

func TestHTTPFetcher_Fetch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/images/p1/production/abc-2x2.jpg" {
			http.NotFound(w, r)
			return
		}
		if r.URL.Query().Get("w") != "800" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		w.Write([]byte("payload"))
	}))
	defer server.Close()

	fetcher := NewHTTPFetcher(NewURLBuilder(server.URL, "p1", "production"))

	got, err := fetcher.Fetch(t.Context(), "image-abc-2x2-jpg", 800)
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if string(got) != "payload" {
		t.Errorf("Expected 'payload', got %q", got)
	}

	if _, err := fetcher.Fetch(t.Context(), "image-missing-2x2-jpg", 800); !errors.Is(err, data.ErrNotExist) {
		t.Errorf("Expected ErrNotExist, got %v", err)
	}
	if _, err := fetcher.Fetch(t.Context(), "image-abc-2x2-jpg", 100); err == nil {
		t.Error("Expected error for non-2xx status")
	}
}

func TestDescribeImage_Fallback(t *testing.T) {
	info := DescribeImage([]byte("garbage"), data.ContentTypeImageWebP)
	if info.Format != "webp" || info.Width != 0 {
		t.Errorf("Unexpected fallback info: %+v", info)
	}

	info = DescribeImage([]byte("garbage"), "")
	if info.Format != "jpg" {
		t.Errorf("Expected jpg default, got %+v", info)
	}
}
