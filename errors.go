package categorizer

import (
	"errors"
	"fmt"
)

// ErrCancelled is returned when a processing attempt is cut short by context
// cancellation. The website record is still moved to a terminal failed state.
var ErrCancelled = errors.New("processing cancelled")

// FetchError reports a failure to retrieve a URL's content: a network error
// (StatusCode 0) or a non-success HTTP response.
type FetchError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("failed to fetch %s: HTTP %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("failed to fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// AnalysisError reports unparseable HTML or an analyzer failure.
type AnalysisError struct {
	Err error
}

func (e *AnalysisError) Error() string {
	return fmt.Sprintf("failed to analyze content: %v", e.Err)
}

func (e *AnalysisError) Unwrap() error { return e.Err }

// ValidationError reports missing or malformed caller input.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }
