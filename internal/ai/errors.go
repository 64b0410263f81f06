package ai

import (
	"encoding/json"
	"fmt"
)

// ErrInvalidResponse means the model replied with content that breaks the requested schema
type ErrInvalidResponse struct {
	Content json.RawMessage
	Err     error
}

func (e *ErrInvalidResponse) Error() string {
	return fmt.Sprintf("invalid model response: %v", e.Err)
}

func (e *ErrInvalidResponse) Unwrap() error { return e.Err }

// ErrProviderUnavailable means the service could not be reached or answered with an error
type ErrProviderUnavailable struct {
	StatusCode int
	Err        error
}

func (e *ErrProviderUnavailable) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("model provider unavailable: %v", e.Err)
	}
	return "model provider unavailable"
}

func (e *ErrProviderUnavailable) Unwrap() error { return e.Err }

// ErrTruncated means generation stopped at the token limit
type ErrTruncated struct {
	Content string
}

func (e *ErrTruncated) Error() string {
	return "model response truncated at max tokens"
}
