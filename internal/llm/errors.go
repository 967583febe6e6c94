package llm

import (
	"fmt"
)

// TransportError indicates the request could not complete: connection,
// DNS or TLS failure, timeout, or a non-2xx HTTP status.
type TransportError struct {
	Provider   string
	StatusCode int // 0 when no HTTP response was received
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s request failed (HTTP %d): %v", e.Provider, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s request failed: %v", e.Provider, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// EnvelopeError indicates the backend answered with a well-formed document
// that lacks the fields expected to carry the generated text.
type EnvelopeError struct {
	Provider string
	Reason   string
}

func (e *EnvelopeError) Error() string {
	return fmt.Sprintf("%s response envelope: %s", e.Provider, e.Reason)
}
