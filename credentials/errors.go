package credentials

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrNoCredential indicates no credential record is stored. The caller must
// send the user through the authorization flow.
var ErrNoCredential = errors.New("no credential stored")

// RejectionError is a structured error returned by the provider during code
// exchange or refresh (e.g. invalid_grant). For a refresh this means the
// refresh token itself is no longer usable and the full authorization flow
// must be redone.
type RejectionError struct {
	Op          string // "code exchange", "refresh"
	Code        string // OAuth error code, e.g. "invalid_grant"
	Description string
	Body        []byte // raw provider response body
}

func (e *RejectionError) Error() string {
	if e.Description != "" {
		return fmt.Sprintf("%s rejected by provider: %s (%s)", e.Op, e.Code, e.Description)
	}
	return fmt.Sprintf("%s rejected by provider: %s", e.Op, e.Code)
}

// Payload returns the provider's error payload unmodified so callers can
// report it verbatim. Falls back to a synthesized OAuth error object when the
// raw body is unavailable or not JSON.
func (e *RejectionError) Payload() json.RawMessage {
	if len(e.Body) > 0 && json.Valid(e.Body) {
		return json.RawMessage(e.Body)
	}
	body, _ := json.Marshal(map[string]string{
		"error":             e.Code,
		"error_description": e.Description,
	})
	return body
}

// TransportError is a network or timeout failure talking to the provider.
// Retryable by the caller; the credential layer never retries internally.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s transport failure: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// StorageError is a failed write of the credential record. Read-side storage
// failures are not surfaced as errors at all - they degrade to "no
// credential" instead.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s: storage write failed: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }
