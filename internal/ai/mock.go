package ai

import (
	"context"
	"encoding/json"
	"sync"
)

// MockResponse is one canned reply for MockProvider
type MockResponse struct {
	Content string
	Err     error
}

// MockProvider replies with canned responses in FIFO order and records every request.
// With Fallback set it keeps answering once the queue is empty.
type MockProvider struct {
	mu        sync.Mutex
	responses []MockResponse
	Fallback  func(req Request) (string, error)
	Calls     []Request
}

func NewMockProvider(responses ...MockResponse) *MockProvider {
	return &MockProvider{responses: responses}
}

func (m *MockProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	m.mu.Lock()
	m.Calls = append(m.Calls, req)

	var next MockResponse
	switch {
	case len(m.responses) > 0:
		next = m.responses[0]
		m.responses = m.responses[1:]
	case m.Fallback != nil:
		content, err := m.Fallback(req)
		next = MockResponse{Content: content, Err: err}
	default:
		m.mu.Unlock()
		return nil, &ErrProviderUnavailable{}
	}
	m.mu.Unlock()

	if next.Err != nil {
		return nil, next.Err
	}
	if err := ctx.Err(); err != nil {
		return nil, &ErrProviderUnavailable{Err: err}
	}

	resp := &Response{Text: next.Content, Model: "mock", StopReason: "stop"}
	if req.Schema != nil {
		raw := json.RawMessage(next.Content)
		if err := validateResponse(req.Schema, raw); err != nil {
			return nil, err
		}
		resp.Content = raw
	}
	return resp, nil
}

func (m *MockProvider) ModelID() string {
	return "mock"
}

func (m *MockProvider) AddResponse(resp MockResponse) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses = append(m.responses, resp)
}

func (m *MockProvider) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}
