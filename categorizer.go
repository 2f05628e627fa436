// Package categorizer fetches websites and classifies them by keyword
// heuristics: a primary industry and website type scored from page text, a
// set of structural functionality tags, and a target-audience label.
package categorizer

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// Config contains categorization engine configuration
type Config struct {
	HTTPTimeout  time.Duration
	UserAgent    string
	MaxBodyBytes int64 // Maximum HTML payload read per fetch
}

// DefaultConfig returns default engine configuration
func DefaultConfig() Config {
	return Config{
		HTTPTimeout:  30 * time.Second,
		UserAgent:    "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36",
		MaxBodyBytes: 10 * 1024 * 1024, // 10MB
	}
}

// Categorizer fetches and analyzes website content
type Categorizer struct {
	config     Config
	httpClient *http.Client
}

// New creates a new Categorizer instance
func New(config Config) *Categorizer {
	if config.UserAgent == "" {
		config.UserAgent = DefaultConfig().UserAgent
	}
	if config.MaxBodyBytes <= 0 {
		config.MaxBodyBytes = DefaultConfig().MaxBodyBytes
	}

	return &Categorizer{
		config: config,
		httpClient: &http.Client{
			Timeout: config.HTTPTimeout,
			// Propagate trace context on outbound fetches
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
}

// Fetch retrieves the HTML content of a URL. Network failures and
// non-success responses surface as a *FetchError.
func (c *Categorizer) Fetch(ctx context.Context, targetURL string) (string, error) {
	parsed, err := url.Parse(targetURL)
	if err != nil {
		return "", &ValidationError{Msg: fmt.Sprintf("invalid URL: %v", err)}
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", &ValidationError{Msg: "URL must be http or https"}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, targetURL, nil)
	if err != nil {
		return "", &FetchError{URL: targetURL, Err: err}
	}
	req.Header.Set("User-Agent", c.config.UserAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &FetchError{URL: targetURL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &FetchError{URL: targetURL, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.config.MaxBodyBytes))
	if err != nil {
		return "", &FetchError{URL: targetURL, Err: err}
	}

	return string(body), nil
}
