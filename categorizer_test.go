package categorizer

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestFetch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("User-Agent") == "" {
			t.Error("expected User-Agent header to be set")
		}
		w.Write([]byte("<html><body>hello</body></html>"))
	}))
	defer server.Close()

	c := New(DefaultConfig())
	body, err := c.Fetch(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if body != "<html><body>hello</body></html>" {
		t.Errorf("unexpected body: %q", body)
	}
}

func TestFetchNonSuccessStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	c := New(DefaultConfig())
	_, err := c.Fetch(context.Background(), server.URL)

	var fetchErr *FetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("expected *FetchError, got %T: %v", err, err)
	}
	if fetchErr.StatusCode != http.StatusNotFound {
		t.Errorf("expected status 404 in error, got %d", fetchErr.StatusCode)
	}
}

func TestFetchInvalidScheme(t *testing.T) {
	c := New(DefaultConfig())

	for _, target := range []string{"ftp://example.com", "example.com", "://bad"} {
		_, err := c.Fetch(context.Background(), target)
		var validationErr *ValidationError
		if !errors.As(err, &validationErr) {
			t.Errorf("Fetch(%q): expected *ValidationError, got %T: %v", target, err, err)
		}
	}
}

func TestFetchBodyLimit(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		for i := 0; i < 100; i++ {
			w.Write([]byte("0123456789"))
		}
	}))
	defer server.Close()

	config := DefaultConfig()
	config.MaxBodyBytes = 64
	c := New(config)

	body, err := c.Fetch(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if len(body) != 64 {
		t.Errorf("expected body truncated to 64 bytes, got %d", len(body))
	}
}

func TestFetchContextCancellation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(2 * time.Second)
	}))
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	c := New(DefaultConfig())
	_, err := c.Fetch(ctx, server.URL)
	if err == nil {
		t.Fatal("expected error from cancelled fetch")
	}
}
