package providers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func routerCompletion(content string) map[string]any {
	return map[string]any{
		"id":    "test-id",
		"model": "openai/gpt-4o",
		"choices": []map[string]any{
			{
				"message": map[string]any{
					"role":    "assistant",
					"content": content,
				},
				"finish_reason": "stop",
			},
		},
		"usage": map[string]int{
			"prompt_tokens":     10,
			"completion_tokens": 8,
			"total_tokens":      18,
		},
	}
}

func TestOpenRouterClient_Generate(t *testing.T) {
	t.Run("successful generation", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/chat/completions" {
				t.Errorf("unexpected path: %s", r.URL.Path)
			}
			if auth := r.Header.Get("Authorization"); auth != "Bearer test-key" {
				t.Errorf("unexpected authorization: %s", auth)
			}
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(routerCompletion(`{"ok": true}`))
		}))
		defer server.Close()

		client := NewOpenRouterClient(OpenRouterConfig{
			APIKey:  "test-key",
			BaseURL: server.URL,
		})

		result, err := client.Generate(context.Background(), &GenerationRequest{
			System: "system text",
			Prompt: "user text",
		})
		if err != nil {
			t.Fatalf("Generate() error = %v", err)
		}
		if result.Content != `{"ok": true}` {
			t.Errorf("Content = %q", result.Content)
		}
		if result.TotalTokens != 18 {
			t.Errorf("TotalTokens = %d, want 18", result.TotalTokens)
		}
	})

	t.Run("attaches image urls and json format", func(t *testing.T) {
		var captured routerRequest
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewDecoder(r.Body).Decode(&captured)
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(routerCompletion("ok"))
		}))
		defer server.Close()

		client := NewOpenRouterClient(OpenRouterConfig{APIKey: "k", BaseURL: server.URL})
		_, err := client.Generate(context.Background(), &GenerationRequest{
			System:    "sys",
			Prompt:    "describe",
			ImageURLs: []string{"https://example.com/a.png"},
			ForceJSON: true,
		})
		if err != nil {
			t.Fatalf("Generate() error = %v", err)
		}

		if captured.ResponseFormat == nil || captured.ResponseFormat.Type != "json_object" {
			t.Errorf("ResponseFormat = %+v, want json_object", captured.ResponseFormat)
		}
		if len(captured.Messages) != 2 {
			t.Fatalf("messages = %d, want system + user", len(captured.Messages))
		}
		parts, ok := captured.Messages[1].Content.([]any)
		if !ok || len(parts) != 2 {
			t.Fatalf("user content = %#v, want text part + image part", captured.Messages[1].Content)
		}
		img, _ := parts[1].(map[string]any)
		if img["type"] != "image_url" {
			t.Errorf("second part type = %v, want image_url", img["type"])
		}
	})

	t.Run("retries server errors", func(t *testing.T) {
		var calls atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if calls.Add(1) == 1 {
				http.Error(w, "temporary", http.StatusInternalServerError)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(routerCompletion("recovered"))
		}))
		defer server.Close()

		client := NewOpenRouterClient(OpenRouterConfig{
			APIKey:     "k",
			BaseURL:    server.URL,
			MaxRetries: 3,
			RetryDelay: time.Millisecond,
		})
		result, err := client.Generate(context.Background(), &GenerationRequest{Prompt: "p"})
		if err != nil {
			t.Fatalf("Generate() error = %v", err)
		}
		if result.Content != "recovered" {
			t.Errorf("Content = %q", result.Content)
		}
		if calls.Load() != 2 {
			t.Errorf("calls = %d, want 2", calls.Load())
		}
	})

	t.Run("does not retry client errors", func(t *testing.T) {
		var calls atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			http.Error(w, "bad request", http.StatusBadRequest)
		}))
		defer server.Close()

		client := NewOpenRouterClient(OpenRouterConfig{
			APIKey:     "k",
			BaseURL:    server.URL,
			MaxRetries: 3,
			RetryDelay: time.Millisecond,
		})
		_, err := client.Generate(context.Background(), &GenerationRequest{Prompt: "p"})
		if err == nil {
			t.Fatal("expected error")
		}
		var genErr *GenerationError
		if !errors.As(err, &genErr) {
			t.Fatalf("error = %T, want *GenerationError", err)
		}
		if calls.Load() != 1 {
			t.Errorf("calls = %d, want 1 (no retry)", calls.Load())
		}
	})
}
