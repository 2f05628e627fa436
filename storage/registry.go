package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/zombar/categorizer/models"
)

// registryValue is the on-disk per-URL record. Older registry files stored a
// bare collection-name string; Load accepts both forms.
type registryValue struct {
	CollectionName string `json:"collection_name"`
	Timestamp      string `json:"timestamp,omitempty"`
}

// Registry is the JSON file mapping previously processed URLs to their
// snapshot collection and processing time. Writes are atomic: the file is
// rewritten to a temp path and renamed into place.
type Registry struct {
	path string

	mu      sync.Mutex
	entries map[string]registryValue
}

// NewRegistry loads (or initializes) the registry at path
func NewRegistry(path string) (*Registry, error) {
	r := &Registry{
		path:    path,
		entries: make(map[string]registryValue),
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return r, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read registry: %w", err)
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse registry: %w", err)
	}

	for url, value := range raw {
		var entry registryValue
		if err := json.Unmarshal(value, &entry); err != nil {
			// Legacy format: value is the collection name string
			var name string
			if err := json.Unmarshal(value, &name); err != nil {
				return nil, fmt.Errorf("failed to parse registry entry for %s: %w", url, err)
			}
			entry = registryValue{CollectionName: name}
		}
		r.entries[url] = entry
	}

	return r, nil
}

// Add records a processed URL and persists the registry
func (r *Registry) Add(url, collectionName string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.entries[url] = registryValue{
		CollectionName: collectionName,
		Timestamp:      time.Now().UTC().Format(time.RFC3339),
	}
	return r.flushLocked()
}

// Remove deletes a URL from the registry and returns the removed entry's
// collection name. Returns false when the URL was not present.
func (r *Registry) Remove(url string) (string, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.entries[url]
	if !ok {
		return "", false, nil
	}
	delete(r.entries, url)
	return entry.CollectionName, true, r.flushLocked()
}

// List returns all entries sorted by URL
func (r *Registry) List() []models.RegistryEntry {
	r.mu.Lock()
	defer r.mu.Unlock()

	entries := make([]models.RegistryEntry, 0, len(r.entries))
	for url, value := range r.entries {
		entries = append(entries, models.RegistryEntry{
			URL:            url,
			CollectionName: value.CollectionName,
			Timestamp:      value.Timestamp,
		})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].URL < entries[j].URL })
	return entries
}

func (r *Registry) flushLocked() error {
	data, err := json.MarshalIndent(r.entries, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal registry: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(r.path), 0755); err != nil {
		return fmt.Errorf("failed to create registry directory: %w", err)
	}

	tmp := r.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write registry: %w", err)
	}
	if err := os.Rename(tmp, r.path); err != nil {
		return fmt.Errorf("failed to replace registry: %w", err)
	}
	return nil
}
