package services

import (
	"context"
	"sync"
)

// MockSummarizer is a mock implementation of Summarizer for testing
type MockSummarizer struct {
	SummarizeFunc func(ctx context.Context, req ReviewRequest) (*ReviewResponse, error)
	ReadyErr      error

	// Track calls for testing
	SummarizeCalls []ReviewRequest

	mu sync.Mutex // protects all fields above
}

// Ensure MockSummarizer implements Summarizer interface
var _ Summarizer = (*MockSummarizer)(nil)

// NewMockSummarizer creates a new mock summarizer
func NewMockSummarizer() *MockSummarizer {
	return &MockSummarizer{
		SummarizeCalls: make([]ReviewRequest, 0),
	}
}

// Summarize records the call and returns SummarizeFunc's result, or a
// canned review by default
func (m *MockSummarizer) Summarize(ctx context.Context, req ReviewRequest) (*ReviewResponse, error) {
	m.mu.Lock()
	m.SummarizeCalls = append(m.SummarizeCalls, req)
	fn := m.SummarizeFunc
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, req)
	}

	return &ReviewResponse{
		Success: true,
		Review:  "Mock review",
	}, nil
}

func (m *MockSummarizer) Ready(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ReadyErr
}

// Calls returns a copy of the recorded requests
func (m *MockSummarizer) Calls() []ReviewRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]ReviewRequest, len(m.SummarizeCalls))
	copy(out, m.SummarizeCalls)
	return out
}
