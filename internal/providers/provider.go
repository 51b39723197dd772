// Package providers implements generation clients for QA synthesis.
package providers

import (
	"context"
	"fmt"
	"time"
)

// LLMClient is the interface the pipeline consumes for generation. The
// pipeline treats it as a black box: any transport or service error
// surfaces as a *GenerationError and is never inspected further.
type LLMClient interface {
	// Generate sends one generation request and returns the raw text
	// response.
	Generate(ctx context.Context, req *GenerationRequest) (*GenerationResult, error)

	// Name returns the client identifier (e.g. "openai").
	Name() string
}

// GenerationRequest is one request to a generation provider.
type GenerationRequest struct {
	// Model overrides the client default when non-empty.
	Model string

	// System is the system instruction.
	System string

	// Prompt is the user instruction text.
	Prompt string

	// ImageURLs are attached as referenceable media. Only input-side
	// assets are ever listed here.
	ImageURLs []string

	// MaxTokens caps the completion length (0 = provider default).
	MaxTokens int

	// ForceJSON requests the provider's structured-output mode.
	ForceJSON bool

	// RequestID is generated if empty.
	RequestID string
}

// GenerationResult is the raw response from a generation call.
type GenerationResult struct {
	Content   string `json:"content"`
	Provider  string `json:"provider"`
	ModelUsed string `json:"model_used"`
	RequestID string `json:"request_id"`

	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`

	ExecutionTime time.Duration `json:"execution_time"`
}

// GenerationError wraps any provider failure into a single error kind with
// an attached cause, so callers classify all generation failures uniformly.
type GenerationError struct {
	Provider string
	Cause    error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("generation failed (provider %s): %v", e.Provider, e.Cause)
}

func (e *GenerationError) Unwrap() error {
	return e.Cause
}
