// Package assistant is the HTTP client for the question-answering service
// that generates chat replies about processed website content. The service
// itself is an opaque collaborator; only its /chat contract lives here.
package assistant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// DefaultBaseURL is where the QA service listens in development
const DefaultBaseURL = "http://localhost:5000"

// Client talks to the question-answering service
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a client for the QA service at baseURL
func NewClient(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
}

// LoadError reports that the QA service declined to load a website, as
// opposed to a transport failure reaching the service.
type LoadError struct {
	Msg string
}

func (e *LoadError) Error() string { return e.Msg }

// chatRequest is the QA service's /chat payload
type chatRequest struct {
	Message    string `json:"message"`
	WebsiteURL string `json:"website_url,omitempty"`
	ChatID     string `json:"chat_id,omitempty"`
}

// chatResponse is the QA service's /chat reply envelope
type chatResponse struct {
	Success  bool   `json:"success"`
	Response string `json:"response"`
	Error    string `json:"error,omitempty"`
}

// loadRequest is the QA service's /load-website payload
type loadRequest struct {
	WebsiteURL string `json:"websiteUrl"`
}

// loadResponse is the QA service's /load-website reply envelope
type loadResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

// Load asks the QA service to load a previously processed website into its
// answering context. A declined load returns a *LoadError carrying the
// service's reason.
func (c *Client) Load(ctx context.Context, websiteURL string) (string, error) {
	payload, err := json.Marshal(loadRequest{WebsiteURL: websiteURL})
	if err != nil {
		return "", fmt.Errorf("failed to marshal load request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/load-website", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create load request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("assistant request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("assistant returned HTTP %d: %s", resp.StatusCode, string(body))
	}

	var parsed loadResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("failed to decode assistant response: %w", err)
	}
	if !parsed.Success {
		msg := parsed.Error
		if msg == "" {
			msg = "Failed to load website"
		}
		return "", &LoadError{Msg: msg}
	}

	return parsed.Message, nil
}

// Ask sends a user question about websiteURL and returns the assistant's
// answer.
func (c *Client) Ask(ctx context.Context, chatID, websiteURL, question string) (string, error) {
	payload, err := json.Marshal(chatRequest{
		Message:    question,
		WebsiteURL: websiteURL,
		ChatID:     chatID,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal chat request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create chat request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("assistant request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("assistant returned HTTP %d: %s", resp.StatusCode, string(body))
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("failed to decode assistant response: %w", err)
	}
	if !parsed.Success && parsed.Error != "" {
		return "", fmt.Errorf("assistant error: %s", parsed.Error)
	}

	return parsed.Response, nil
}
