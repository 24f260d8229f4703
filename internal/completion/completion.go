package completion

import (
	"context"
	"fmt"
	"time"
)

// requestTimeout bounds a single completion call. The upstream models can be
// slow on large documents, so this is deliberately generous.
const requestTimeout = 120 * time.Second

// InlineData is an image attached to a prompt.
type InlineData struct {
	MIMEType string
	Data     []byte
}

// Completer defines the interface for text-completion providers.
type Completer interface {
	// Complete sends a prompt, optionally with an inline image, and returns
	// the generated text. An empty string means the provider produced no
	// content, which is not an error.
	Complete(ctx context.Context, prompt string, image *InlineData) (string, error)
	// Close closes the provider and releases resources
	Close() error
}

// TransportError indicates the provider could not be reached (network
// failure or timeout). The request is not retried.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("completion transport error: %v", e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// APIError indicates the provider answered with a non-success response,
// including quota and auth failures.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("completion api error (%d): %s", e.StatusCode, e.Message)
}
