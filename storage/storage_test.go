package storage

import (
	"context"
	"strings"
	"testing"
)

func TestSaveAndReadSnapshot(t *testing.T) {
	s, err := New(Config{BasePath: t.TempDir()})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	ctx := context.Background()
	content := "<html><body>snapshot</body></html>"

	relPath, err := s.SaveSnapshot(ctx, "https://example.com", content)
	if err != nil {
		t.Fatalf("SaveSnapshot failed: %v", err)
	}
	if !strings.HasPrefix(relPath, "snapshots/") {
		t.Errorf("expected relative path under snapshots/, got %q", relPath)
	}
	if !strings.HasSuffix(relPath, ".html") {
		t.Errorf("expected .html suffix, got %q", relPath)
	}

	got, err := s.ReadSnapshot(ctx, relPath)
	if err != nil {
		t.Fatalf("ReadSnapshot failed: %v", err)
	}
	if got != content {
		t.Errorf("read %q, want %q", got, content)
	}
}

func TestSaveSnapshotOverwritesSameURL(t *testing.T) {
	s, err := New(Config{BasePath: t.TempDir()})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	ctx := context.Background()
	first, err := s.SaveSnapshot(ctx, "https://example.com", "v1")
	if err != nil {
		t.Fatalf("SaveSnapshot failed: %v", err)
	}
	second, err := s.SaveSnapshot(ctx, "https://example.com", "v2")
	if err != nil {
		t.Fatalf("SaveSnapshot failed: %v", err)
	}

	if first != second {
		t.Errorf("same URL should map to the same path: %q vs %q", first, second)
	}

	got, err := s.ReadSnapshot(ctx, second)
	if err != nil {
		t.Fatalf("ReadSnapshot failed: %v", err)
	}
	if got != "v2" {
		t.Errorf("expected latest content, got %q", got)
	}
}

func TestSnapshotKeyStable(t *testing.T) {
	a := SnapshotKey("https://example.com")
	b := SnapshotKey("https://example.com")
	c := SnapshotKey("https://example.org")

	if a != b {
		t.Error("same URL should yield the same key")
	}
	if a == c {
		t.Error("different URLs should yield different keys")
	}
	if len(a) != 16 {
		t.Errorf("expected 16 hex chars, got %d", len(a))
	}
}

func TestDeleteSnapshot(t *testing.T) {
	s, err := New(Config{BasePath: t.TempDir()})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	ctx := context.Background()
	relPath, err := s.SaveSnapshot(ctx, "https://example.com", "content")
	if err != nil {
		t.Fatalf("SaveSnapshot failed: %v", err)
	}

	if err := s.DeleteSnapshot(ctx, relPath); err != nil {
		t.Fatalf("DeleteSnapshot failed: %v", err)
	}
	if _, err := s.ReadSnapshot(ctx, relPath); err == nil {
		t.Error("expected read of deleted snapshot to fail")
	}

	// Deleting again is not an error
	if err := s.DeleteSnapshot(ctx, relPath); err != nil {
		t.Errorf("deleting a missing snapshot should not fail: %v", err)
	}
}
