package symphony

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestDefaultStages(t *testing.T) {
	s := DefaultStages()
	if err := s.Validate(); err != nil {
		t.Fatalf("default stages invalid: %v", err)
	}
	for _, name := range StageNames() {
		cfg := s.Stage(name)
		if cfg.Model != "google-gla:gemini-2.5-flash-preview-04-17" {
			t.Fatalf("stage %s: unexpected default model %q", name, cfg.Model)
		}
		if strings.Contains(cfg.Instruction, "\n") {
			t.Fatalf("stage %s: instruction should be folded onto one line", name)
		}
	}
	if got := s.Stage(StageCreateContext).Instruction; got != "You are an expert at distilling information into clear, concise context documents." {
		t.Fatalf("unexpected context instruction %q", got)
	}
	if diff := cmp.Diff([]string{"google-gla:gemini-2.5-flash-preview-04-17"}, s.Models()); diff != "" {
		t.Fatalf("Models() mismatch (-want +got):\n%s", diff)
	}
}

func TestQuestionRange(t *testing.T) {
	r := DefaultStages().QuestionRange
	tests := []struct {
		round, min, max int
	}{
		{0, 5, 8},
		{1, 7, 11},
		{2, 9, 14},
	}
	for _, tc := range tests {
		lo, hi := r.For(tc.round)
		if lo != tc.min || hi != tc.max {
			t.Fatalf("For(%d) = %d-%d, want %d-%d", tc.round, lo, hi, tc.min, tc.max)
		}
	}
}

func TestParseStages_Overlay(t *testing.T) {
	data := []byte(`
stages:
  brainstorm:
    model: ollama:llama3.1
    temperature: 1.2
    thinking: medium
question_range:
  base_min: 3
`)
	s, err := ParseStages(data)
	if err != nil {
		t.Fatalf("ParseStages() error = %v", err)
	}
	b := s.Stage(StageBrainstorm)
	if b.Model != "ollama:llama3.1" {
		t.Fatalf("model not overridden: %q", b.Model)
	}
	if b.Temperature == nil || *b.Temperature != 1.2 {
		t.Fatalf("temperature not overridden: %v", b.Temperature)
	}
	if b.Thinking != "medium" {
		t.Fatalf("thinking not overridden: %q", b.Thinking)
	}
	if s.Stage(StageCreateContext).Thinking != "" {
		t.Fatalf("thinking should default to off")
	}
	if b.Instruction != DefaultStages().Stage(StageBrainstorm).Instruction {
		t.Fatalf("instruction should keep its default")
	}
	if s.Stage(StageCreateContext).Model != DefaultStages().Stage(StageCreateContext).Model {
		t.Fatalf("untouched stage changed")
	}
	if s.QuestionRange.BaseMin != 3 || s.QuestionRange.BaseMax != 8 {
		t.Fatalf("unexpected question range %+v", s.QuestionRange)
	}
	if len(s.Models()) != 2 {
		t.Fatalf("expected 2 distinct models, got %v", s.Models())
	}
}

func TestParseStages_Errors(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		wantErr string
	}{
		{
			name:    "unknown stage",
			data:    "stages:\n  summarize:\n    model: x\n",
			wantErr: `unknown stage "summarize"`,
		},
		{
			name:    "wrong schema",
			data:    "stages:\n  brainstorm:\n    output_schema: BrainstormSynthesis\n",
			wantErr: `output_schema must be "BrainstormResponses"`,
		},
		{
			name:    "empty model",
			data:    "stages:\n  create_context:\n    model: \"\"\n",
			wantErr: "model must not be empty",
		},
		{
			name:    "unknown thinking level",
			data:    "stages:\n  brainstorm:\n    thinking: extreme\n",
			wantErr: "thinking must be low, medium or high",
		},
		{
			name:    "bad range",
			data:    "question_range:\n  base_min: 9\n",
			wantErr: "base_min <= base_max",
		},
		{
			name:    "bad yaml",
			data:    "stages: [",
			wantErr: "parse stages",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseStages([]byte(tc.data))
			if err == nil {
				t.Fatalf("expected error containing %q", tc.wantErr)
			}
			if !strings.Contains(err.Error(), tc.wantErr) {
				t.Fatalf("error %q does not contain %q", err.Error(), tc.wantErr)
			}
		})
	}
}

func TestLoadStages(t *testing.T) {
	s, err := LoadStages("")
	if err != nil {
		t.Fatalf("LoadStages(\"\") error = %v", err)
	}
	if diff := cmp.Diff(DefaultStages(), s); diff != "" {
		t.Fatalf("empty path should return defaults (-want +got):\n%s", diff)
	}

	path := filepath.Join(t.TempDir(), "stages.yaml")
	if err := os.WriteFile(path, []byte("stages:\n  synthesize_responses:\n    model: openai:gpt-4o\n"), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	s, err = LoadStages(path)
	if err != nil {
		t.Fatalf("LoadStages() error = %v", err)
	}
	if s.Stage(StageSynthesizeResponses).Model != "openai:gpt-4o" {
		t.Fatalf("override not applied")
	}

	if _, err := LoadStages(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}
