package ai

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
)

type recordingClient struct {
	models  []string
	metrics ModelMetrics
}

func (c *recordingClient) GenerateCompletionWithFormat(
	ctx context.Context,
	name, description, prompt string,
	out any,
	opts ...GenerateOption,
) error {
	c.models = append(c.models, ApplyOptions(GenerateOptions{}, opts...).Model)
	c.metrics.Add(ModelMetrics{TotalTokens: 10, Requests: 1, DurationMs: 100})
	return nil
}

func (c *recordingClient) LoadModel(ctx context.Context, opts ...GenerateOption) error {
	c.models = append(c.models, ApplyOptions(GenerateOptions{}, opts...).Model)
	return nil
}

func (c *recordingClient) ResetMetrics()            { c.metrics = ModelMetrics{} }
func (c *recordingClient) GetMetrics() ModelMetrics { return c.metrics }

func TestRouter_Dispatch(t *testing.T) {
	openai := &recordingClient{}
	gemini := &recordingClient{}
	ollama := &recordingClient{}

	r, err := NewRouter("ollama", map[string]Client{
		"openai":     openai,
		"google-gla": gemini,
		"ollama":     ollama,
	})
	if err != nil {
		t.Fatalf("NewRouter() error = %v", err)
	}

	ctx := context.Background()
	calls := []string{
		"google-gla:gemini-2.5-flash-preview-04-17",
		"openai:gpt-4o-mini",
		"llama3:8b",
		"",
	}
	for _, model := range calls {
		if err := r.GenerateCompletionWithFormat(ctx, "n", "d", "p", nil, WithModel(model)); err != nil {
			t.Fatalf("GenerateCompletionWithFormat(%q) error = %v", model, err)
		}
	}

	if diff := cmp.Diff([]string{"gemini-2.5-flash-preview-04-17"}, gemini.models); diff != "" {
		t.Fatalf("gemini models mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"gpt-4o-mini"}, openai.models); diff != "" {
		t.Fatalf("openai models mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"llama3:8b", ""}, ollama.models); diff != "" {
		t.Fatalf("ollama models mismatch (-want +got):\n%s", diff)
	}

	m := r.GetMetrics()
	if m.Requests != 4 || m.TotalTokens != 40 || m.DurationMs != 400 {
		t.Fatalf("unexpected aggregated metrics %+v", m)
	}
	if m.TokenPerSecond != 100 {
		t.Fatalf("expected 100 tokens/s, got %v", m.TokenPerSecond)
	}

	r.ResetMetrics()
	if got := r.GetMetrics(); got != (ModelMetrics{}) {
		t.Fatalf("expected zero metrics after reset, got %+v", got)
	}
}

func TestRouter_LoadModel(t *testing.T) {
	gemini := &recordingClient{}
	r, err := NewRouter("google-gla", map[string]Client{"google-gla": gemini})
	if err != nil {
		t.Fatalf("NewRouter() error = %v", err)
	}
	if err := r.LoadModel(context.Background(), WithModel("google-gla:gemini-2.0-flash")); err != nil {
		t.Fatalf("LoadModel() error = %v", err)
	}
	if diff := cmp.Diff([]string{"gemini-2.0-flash"}, gemini.models); diff != "" {
		t.Fatalf("models mismatch (-want +got):\n%s", diff)
	}
}

func TestNewRouter_UnknownFallback(t *testing.T) {
	if _, err := NewRouter("missing", map[string]Client{"openai": &recordingClient{}}); err == nil {
		t.Fatalf("expected error for unknown fallback provider")
	}
}
