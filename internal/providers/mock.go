package providers

import (
	"context"
	"fmt"
	"sync"
	"time"
)

const MockClientName = "mock"

// MockClient is an LLMClient for testing.
type MockClient struct {
	// Configurable behavior
	Latency    time.Duration
	ShouldFail bool
	FailAfter  int // fail after N requests (0 = never)

	// Response is returned for every request unless Responses is set, in
	// which case responses are consumed in order (last one repeats).
	Response  string
	Responses []string

	mu       sync.Mutex
	requests []*GenerationRequest
}

// NewMockClient creates a new mock client with sensible defaults.
func NewMockClient() *MockClient {
	return &MockClient{
		Response: "mock response",
	}
}

// Name returns the client identifier.
func (c *MockClient) Name() string {
	return MockClientName
}

// Generate returns the configured canned response.
func (c *MockClient) Generate(ctx context.Context, req *GenerationRequest) (*GenerationResult, error) {
	start := time.Now()

	c.mu.Lock()
	c.requests = append(c.requests, req)
	count := len(c.requests)
	content := c.Response
	if len(c.Responses) > 0 {
		idx := count - 1
		if idx >= len(c.Responses) {
			idx = len(c.Responses) - 1
		}
		content = c.Responses[idx]
	}
	c.mu.Unlock()

	if c.ShouldFail {
		return nil, &GenerationError{Provider: MockClientName, Cause: fmt.Errorf("mock client configured to fail")}
	}
	if c.FailAfter > 0 && count > c.FailAfter {
		return nil, &GenerationError{Provider: MockClientName, Cause: fmt.Errorf("mock client failed after %d requests", c.FailAfter)}
	}

	if c.Latency > 0 {
		select {
		case <-time.After(c.Latency):
		case <-ctx.Done():
			return nil, &GenerationError{Provider: MockClientName, Cause: ctx.Err()}
		}
	}

	promptTokens := len(req.Prompt) / 4
	completionTokens := len(content) / 4
	return &GenerationResult{
		Content:          content,
		Provider:         MockClientName,
		ModelUsed:        req.Model,
		RequestID:        fmt.Sprintf("mock-%d", count),
		PromptTokens:     promptTokens,
		CompletionTokens: completionTokens,
		TotalTokens:      promptTokens + completionTokens,
		ExecutionTime:    time.Since(start),
	}, nil
}

// RequestCount returns the number of requests made.
func (c *MockClient) RequestCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.requests)
}

// Requests returns a copy of all requests received so far.
func (c *MockClient) Requests() []*GenerationRequest {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]*GenerationRequest, len(c.requests))
	copy(out, c.requests)
	return out
}

// Reset clears the recorded requests.
func (c *MockClient) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.requests = nil
}

// Verify interface
var _ LLMClient = (*MockClient)(nil)
