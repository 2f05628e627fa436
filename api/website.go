package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/zombar/categorizer/assistant"
	"github.com/zombar/categorizer/auth"
	"github.com/zombar/categorizer/db"
	"github.com/zombar/categorizer/models"
)

// ProcessRequest is the website processing kickoff payload
type ProcessRequest struct {
	URL string `json:"url"`
}

// handleWebsiteProcess starts asynchronous processing of a URL and
// acknowledges immediately; progress is observed via the status endpoint.
func (s *Server) handleWebsiteProcess(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req ProcessRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.URL == "" {
		respondError(w, http.StatusBadRequest, "URL is required")
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.processTimeout)
		defer cancel()

		if _, err := s.websites.Process(ctx, req.URL); err != nil {
			slog.Error("website processing failed", "url", req.URL, "error", err)
		}
	}()

	respondJSON(w, http.StatusAccepted, map[string]interface{}{
		"success": true,
		"message": "Website processing started",
		"url":     req.URL,
	})
}

// handleWebsiteStatus returns the record for one URL. The URL arrives
// percent-encoded in the path, so the raw path is unescaped after the prefix
// is stripped.
func (s *Server) handleWebsiteStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	target, ok := pathParam(r, "/api/website/status/")
	if !ok {
		respondError(w, http.StatusBadRequest, "url is required")
		return
	}

	website, err := s.websites.Status(target)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			respondError(w, http.StatusNotFound, "Website not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "database error")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"website": website,
	})
}

// handleWebsiteList lists all records, most recently processed first
func (s *Server) handleWebsiteList(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	websites, err := s.websites.List()
	if err != nil {
		respondError(w, http.StatusInternalServerError, "database error")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success":  true,
		"websites": websites,
	})
}

// handleWebsiteByIndustry lists records matching a primary industry
func (s *Server) handleWebsiteByIndustry(w http.ResponseWriter, r *http.Request) {
	s.handleWebsiteFilter(w, r, "/api/website/industry/", s.websites.ListByIndustry)
}

// handleWebsiteByType lists records matching a website type
func (s *Server) handleWebsiteByType(w http.ResponseWriter, r *http.Request) {
	s.handleWebsiteFilter(w, r, "/api/website/type/", s.websites.ListByType)
}

func (s *Server) handleWebsiteFilter(w http.ResponseWriter, r *http.Request, prefix string, list func(string) ([]*models.Website, error)) {
	if r.Method != http.MethodGet {
		respondError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	value, ok := pathParam(r, prefix)
	if !ok {
		respondError(w, http.StatusBadRequest, "filter value is required")
		return
	}

	websites, err := list(value)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "database error")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success":  true,
		"websites": websites,
	})
}

// handlePreviousWebsites lists the processed-URL registry
func (s *Server) handlePreviousWebsites(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	entries := []models.RegistryEntry{}
	if s.registry != nil {
		entries = s.registry.List()
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success":  true,
		"websites": entries,
	})
}

// RemoveWebsiteRequest is the registry removal payload
type RemoveWebsiteRequest struct {
	URL string `json:"url"`
}

// handleRemoveWebsite drops a URL from the processed-URL registry and cleans
// up its stored snapshot
func (s *Server) handleRemoveWebsite(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		respondError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req RemoveWebsiteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.URL == "" {
		respondError(w, http.StatusBadRequest, "url is required")
		return
	}

	if s.registry == nil {
		respondError(w, http.StatusNotFound, "Website not found")
		return
	}

	collectionName, removed, err := s.registry.Remove(req.URL)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to update registry")
		return
	}
	if !removed {
		respondError(w, http.StatusNotFound, "Website not found")
		return
	}

	// Snapshot cleanup is best-effort; the registry entry is already gone
	if s.snapshots != nil && collectionName != "" {
		if err := s.snapshots.DeleteSnapshot(r.Context(), collectionName); err != nil {
			slog.Warn("failed to delete snapshot", "url", req.URL, "key", collectionName, "error", err)
		}
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Website removed",
	})
}

// LoadWebsiteRequest asks the assistant to load a processed website
type LoadWebsiteRequest struct {
	WebsiteURL string `json:"websiteUrl"`
}

// handleLoadWebsite asks the QA service to load a previously processed
// website into its answering context
func (s *Server) handleLoadWebsite(w http.ResponseWriter, r *http.Request, _ *auth.Claims) {
	if r.Method != http.MethodPost {
		respondError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req LoadWebsiteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.WebsiteURL == "" {
		respondError(w, http.StatusBadRequest, "Website URL is required")
		return
	}

	if s.assistant == nil {
		respondError(w, http.StatusServiceUnavailable, "assistant is not configured")
		return
	}

	message, err := s.assistant.Load(r.Context(), req.WebsiteURL)
	if err != nil {
		var loadErr *assistant.LoadError
		if errors.As(err, &loadErr) {
			respondError(w, http.StatusNotFound, loadErr.Msg)
			return
		}
		slog.Error("failed to load website", "url", req.WebsiteURL, "error", err)
		respondError(w, http.StatusInternalServerError, "Error loading website")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": message,
	})
}

// pathParam extracts and unescapes the remainder of the path after prefix.
// The escaped path is used so percent-encoded URLs survive as one segment.
func pathParam(r *http.Request, prefix string) (string, bool) {
	rest := strings.TrimPrefix(r.URL.EscapedPath(), prefix)
	if rest == "" || rest == r.URL.EscapedPath() {
		return "", false
	}
	value, err := url.PathUnescape(rest)
	if err != nil || value == "" {
		return "", false
	}
	return value, true
}
