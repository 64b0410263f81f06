// Package ai talks to large-language-model services. Callers describe the prompt and,
// optionally, a JSON schema; providers return validated JSON or plain text.
package ai

import (
	"context"
	"encoding/json"
)

// Provider generates a completion for one request
type Provider interface {
	Generate(ctx context.Context, req Request) (*Response, error)
	ModelID() string
}

type Request struct {
	System string
	Prompt string

	// Schema, when set, asks for JSON conforming to it; Content is then validated JSON.
	// When nil, Content is the raw text.
	Schema *Schema

	MaxTokens   int
	Temperature float64
}

// Schema is a named JSON Schema definition
type Schema struct {
	Name        string
	Description string
	Definition  map[string]any
}

type Response struct {
	Content    json.RawMessage
	Text       string
	Model      string
	StopReason string
	Usage      Usage
}

type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}
