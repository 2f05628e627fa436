// Package storage persists raw HTML snapshots of processed websites (on the
// local filesystem or in S3-compatible object storage) and maintains the
// registry of previously processed URLs.
package storage

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Config contains storage configuration
type Config struct {
	BasePath string // Base directory for all stored files
}

// DefaultConfig returns default storage configuration
func DefaultConfig() Config {
	return Config{
		BasePath: "./storage",
	}
}

// Storage handles filesystem snapshot operations
type Storage struct {
	config Config
}

// New creates a new Storage instance
func New(config Config) (*Storage, error) {
	if err := os.MkdirAll(config.BasePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create base storage directory: %w", err)
	}

	return &Storage{
		config: config,
	}, nil
}

// SnapshotKey derives the stable file key for a URL
func SnapshotKey(url string) string {
	sum := sha256.Sum256([]byte(url))
	return hex.EncodeToString(sum[:8])
}

// SaveSnapshot writes the raw HTML fetched for a URL under
// snapshots/YYYY/MM/<key>.html and returns the path relative to the base
// directory. Re-processing the same URL in the same month overwrites the
// previous snapshot.
func (s *Storage) SaveSnapshot(_ context.Context, url, content string) (string, error) {
	now := time.Now()
	dirPath := filepath.Join(s.config.BasePath, "snapshots",
		fmt.Sprintf("%04d", now.Year()), fmt.Sprintf("%02d", int(now.Month())))

	if err := os.MkdirAll(dirPath, 0755); err != nil {
		return "", fmt.Errorf("failed to create snapshot directory: %w", err)
	}

	filePath := filepath.Join(dirPath, SnapshotKey(url)+".html")
	if err := os.WriteFile(filePath, []byte(content), 0644); err != nil {
		return "", fmt.Errorf("failed to write snapshot file: %w", err)
	}

	relPath, err := filepath.Rel(s.config.BasePath, filePath)
	if err != nil {
		return "", fmt.Errorf("failed to get relative path: %w", err)
	}

	return relPath, nil
}

// ReadSnapshot reads a snapshot from the filesystem
func (s *Storage) ReadSnapshot(_ context.Context, relPath string) (string, error) {
	data, err := os.ReadFile(filepath.Join(s.config.BasePath, relPath))
	if err != nil {
		return "", fmt.Errorf("failed to read snapshot file: %w", err)
	}
	return string(data), nil
}

// DeleteSnapshot removes a snapshot; deleting a missing file is not an error
func (s *Storage) DeleteSnapshot(_ context.Context, relPath string) error {
	if err := os.Remove(filepath.Join(s.config.BasePath, relPath)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete snapshot file: %w", err)
	}
	return nil
}
