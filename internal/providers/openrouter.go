package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/google/uuid"
)

const (
	OpenRouterName    = "openrouter"
	OpenRouterBaseURL = "https://openrouter.ai/api/v1"
)

// OpenRouterConfig holds configuration for the OpenRouter client.
type OpenRouterConfig struct {
	APIKey     string
	BaseURL    string
	Model      string
	Timeout    time.Duration
	MaxRetries int           // transport retry attempts (default: 3)
	RetryDelay time.Duration // base delay between retries (default: 1s)
}

// OpenRouterClient implements LLMClient against any OpenAI-compatible
// chat completions endpoint.
type OpenRouterClient struct {
	apiKey     string
	baseURL    string
	model      string
	client     *http.Client
	maxRetries int
	retryDelay time.Duration
}

// NewOpenRouterClient creates a new OpenRouter client.
func NewOpenRouterClient(cfg OpenRouterConfig) *OpenRouterClient {
	if cfg.BaseURL == "" {
		cfg.BaseURL = OpenRouterBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = "openai/gpt-4o"
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 120 * time.Second
	}
	if cfg.MaxRetries == 0 {
		cfg.MaxRetries = 3
	}
	if cfg.RetryDelay == 0 {
		cfg.RetryDelay = time.Second
	}

	return &OpenRouterClient{
		apiKey:     cfg.APIKey,
		baseURL:    cfg.BaseURL,
		model:      cfg.Model,
		client:     &http.Client{Timeout: cfg.Timeout},
		maxRetries: cfg.MaxRetries,
		retryDelay: cfg.RetryDelay,
	}
}

// Name returns the client identifier.
func (c *OpenRouterClient) Name() string {
	return OpenRouterName
}

// Generate sends a chat completion request.
func (c *OpenRouterClient) Generate(ctx context.Context, req *GenerationRequest) (*GenerationResult, error) {
	start := time.Now()

	requestID := req.RequestID
	if requestID == "" {
		requestID = uuid.New().String()
	}
	model := req.Model
	if model == "" {
		model = c.model
	}

	userContent := []routerContentPart{{Type: "text", Text: req.Prompt}}
	for _, url := range req.ImageURLs {
		userContent = append(userContent, routerContentPart{
			Type:     "image_url",
			ImageURL: &routerImageURL{URL: url},
		})
	}

	rReq := routerRequest{
		Model: model,
		Messages: []routerMessage{
			{Role: "system", Content: req.System},
			{Role: "user", Content: userContent},
		},
		MaxTokens: req.MaxTokens,
	}
	if req.System == "" {
		rReq.Messages = rReq.Messages[1:]
	}
	if req.ForceJSON {
		rReq.ResponseFormat = &routerResponseFormat{Type: "json_object"}
	}

	rResp, err := c.doRequest(ctx, "/chat/completions", &rReq)
	if err != nil {
		return nil, &GenerationError{Provider: OpenRouterName, Cause: err}
	}
	if len(rResp.Choices) == 0 {
		return nil, &GenerationError{Provider: OpenRouterName, Cause: fmt.Errorf("no choices in response")}
	}

	return &GenerationResult{
		Content:          strings.TrimSpace(rResp.Choices[0].Message.Content),
		Provider:         OpenRouterName,
		ModelUsed:        rResp.Model,
		RequestID:        requestID,
		PromptTokens:     rResp.Usage.PromptTokens,
		CompletionTokens: rResp.Usage.CompletionTokens,
		TotalTokens:      rResp.Usage.TotalTokens,
		ExecutionTime:    time.Since(start),
	}, nil
}

// doRequest posts the request with transport-level retries on rate limits,
// server errors, and network failures.
func (c *OpenRouterClient) doRequest(ctx context.Context, path string, body *routerRequest) (*routerResponse, error) {
	bodyBytes, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	var rResp routerResponse
	err = retry.Do(
		func() error {
			req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(bodyBytes))
			if err != nil {
				return retry.Unrecoverable(fmt.Errorf("failed to create request: %w", err))
			}
			req.Header.Set("Content-Type", "application/json")
			req.Header.Set("Authorization", "Bearer "+c.apiKey)

			resp, err := c.client.Do(req)
			if err != nil {
				return fmt.Errorf("request failed: %w", err)
			}
			respBody, err := io.ReadAll(resp.Body)
			resp.Body.Close()
			if err != nil {
				return fmt.Errorf("failed to read response: %w", err)
			}

			if resp.StatusCode != http.StatusOK {
				statusErr := fmt.Errorf("openrouter error (status %d): %s", resp.StatusCode, string(respBody))
				if shouldRetryStatus(resp.StatusCode) {
					return statusErr
				}
				return retry.Unrecoverable(statusErr)
			}

			if err := json.Unmarshal(respBody, &rResp); err != nil {
				return retry.Unrecoverable(fmt.Errorf("failed to unmarshal response: %w", err))
			}
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(uint(c.maxRetries)),
		retry.Delay(c.retryDelay),
		retry.DelayType(retry.BackOffDelay),
		retry.MaxDelay(10*time.Second),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		return nil, err
	}
	return &rResp, nil
}

// shouldRetryStatus returns true for status codes worth retrying.
func shouldRetryStatus(statusCode int) bool {
	return statusCode == http.StatusTooManyRequests || statusCode >= 500
}

// OpenRouter API types

type routerRequest struct {
	Model          string                `json:"model"`
	Messages       []routerMessage       `json:"messages"`
	MaxTokens      int                   `json:"max_tokens,omitempty"`
	ResponseFormat *routerResponseFormat `json:"response_format,omitempty"`
}

type routerMessage struct {
	Role    string `json:"role"`
	Content any    `json:"content"` // string or []routerContentPart
}

type routerContentPart struct {
	Type     string          `json:"type"`
	Text     string          `json:"text,omitempty"`
	ImageURL *routerImageURL `json:"image_url,omitempty"`
}

type routerImageURL struct {
	URL string `json:"url"`
}

type routerResponseFormat struct {
	Type string `json:"type"`
}

type routerResponse struct {
	ID      string `json:"id"`
	Model   string `json:"model"`
	Choices []struct {
		Message struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
}

// Verify interface
var _ LLMClient = (*OpenRouterClient)(nil)
