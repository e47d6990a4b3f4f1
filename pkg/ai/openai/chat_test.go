package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/OFFIS-RIT/symphony/pkg/ai"
)

type headingOutput struct {
	Heading string `json:"heading"`
}

func newTestServer(t *testing.T, content string, seen *map[string]any) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if seen != nil {
			_ = json.NewDecoder(r.Body).Decode(seen)
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":      "cmpl-1",
			"object":  "chat.completion",
			"created": 0,
			"model":   "test-model",
			"choices": []map[string]any{{
				"index":         0,
				"finish_reason": "stop",
				"message": map[string]any{
					"role":    "assistant",
					"content": content,
				},
			}},
			"usage": map[string]any{
				"prompt_tokens":     7,
				"completion_tokens": 3,
				"total_tokens":      10,
			},
		})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestGenerateCompletionWithFormat(t *testing.T) {
	var body map[string]any
	srv := newTestServer(t, `{"heading":"Market"}`, &body)

	client := NewOpenAIClient(NewOpenAIClientParams{
		Model:                 "default-model",
		BaseURL:               srv.URL,
		APIKey:                "test",
		MaxConcurrentRequests: 2,
	})

	var out headingOutput
	err := client.GenerateCompletionWithFormat(
		context.Background(),
		"heading",
		"a heading",
		"prompt",
		&out,
		ai.WithModel("gemini-2.5-flash"),
		ai.WithSystemPrompts("system one"),
	)
	if err != nil {
		t.Fatalf("GenerateCompletionWithFormat() error = %v", err)
	}
	if out.Heading != "Market" {
		t.Fatalf("expected heading Market, got %q", out.Heading)
	}

	if body["model"] != "gemini-2.5-flash" {
		t.Fatalf("expected model override, got %v", body["model"])
	}
	msgs, _ := body["messages"].([]any)
	if len(msgs) != 2 {
		t.Fatalf("expected system and user message, got %d", len(msgs))
	}
	first, _ := msgs[0].(map[string]any)
	if first["role"] != "system" {
		t.Fatalf("expected first message to be system, got %v", first["role"])
	}

	m := client.GetMetrics()
	if m.Requests != 1 || m.TotalTokens != 10 || m.InputTokens != 7 {
		t.Fatalf("unexpected metrics %+v", m)
	}

	client.ResetMetrics()
	if got := client.GetMetrics(); got != (ai.ModelMetrics{}) {
		t.Fatalf("expected zero metrics after reset, got %+v", got)
	}
}

func TestGenerateCompletionWithFormat_EmptyContent(t *testing.T) {
	srv := newTestServer(t, "", nil)
	client := NewOpenAIClient(NewOpenAIClientParams{BaseURL: srv.URL, APIKey: "test"})

	var out headingOutput
	if err := client.GenerateCompletionWithFormat(context.Background(), "h", "d", "p", &out); err == nil {
		t.Fatalf("expected error for empty model response")
	}
}
