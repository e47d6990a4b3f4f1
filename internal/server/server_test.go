package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	mid "github.com/OFFIS-RIT/symphony/internal/server/middleware"
	"github.com/OFFIS-RIT/symphony/pkg/ai"
	"github.com/OFFIS-RIT/symphony/pkg/common"
	"github.com/OFFIS-RIT/symphony/pkg/symphony"

	"github.com/google/go-cmp/cmp"
	"github.com/labstack/echo/v4"
)

type stubClient struct {
	mu      sync.Mutex
	calls   int
	reset   bool
	answers map[string]string
	err     error
}

func (s *stubClient) GenerateCompletionWithFormat(
	ctx context.Context,
	name, description, prompt string,
	out any,
	opts ...ai.GenerateOption,
) error {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	return json.Unmarshal([]byte(s.answers[name]), out)
}

func (s *stubClient) LoadModel(ctx context.Context, opts ...ai.GenerateOption) error { return nil }
func (s *stubClient) ResetMetrics()                                                  { s.reset = true }
func (s *stubClient) GetMetrics() ai.ModelMetrics {
	return ai.ModelMetrics{Requests: s.calls, TotalTokens: 10 * s.calls}
}

func newStub() *stubClient {
	return &stubClient{answers: map[string]string{
		"BrainstormingContext": `{"context":"A shared family cookbook."}`,
		"BrainstormQuestions":  `{"question_groups":[{"heading":"Users","questions":[{"short_summary":"Who cooks?","full_description":"Who does the cooking?"}]}]}`,
		"BrainstormResponses":  `{"responses":[{"question_id":"g1-q1","question":"Who cooks?","answers":["Parents","Kids"]}]}`,
		"BrainstormSynthesis":  `{"synthesized_content":"# Summary","attributed_content":"# Attributed"}`,
	}}
}

func newTestServer(t *testing.T, client ai.Client, apiKey string) *echo.Echo {
	t.Helper()
	o, err := symphony.NewOrchestrator(symphony.NewOrchestratorParams{Client: client})
	if err != nil {
		t.Fatalf("NewOrchestrator() error = %v", err)
	}
	return New(&mid.App{
		Symphony:            o,
		AiClient:            client,
		APIKey:              apiKey,
		MaxModelCount:       3,
		MaxParticipantCount: 4,
	}, "1M")
}

func do(e *echo.Echo, method, target, body string, header map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return v
}

func TestHealth(t *testing.T) {
	e := newTestServer(t, newStub(), "secret")
	rec := do(e, http.MethodGet, "/health", "", nil)
	if rec.Code != http.StatusOK || rec.Body.String() != "OK" {
		t.Fatalf("unexpected health response %d %q", rec.Code, rec.Body.String())
	}
	if rec.Header().Get(echo.HeaderXRequestID) == "" {
		t.Fatalf("expected a request id header")
	}
}

func TestCreateContextEndpoint(t *testing.T) {
	e := newTestServer(t, newStub(), "")

	rec := do(e, http.MethodPost, "/api/create-context", `{"idea_text":"A recipe app"}`, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	got := decode[common.BrainstormingContext](t, rec)
	if got.Context != "A shared family cookbook." {
		t.Fatalf("unexpected context %q", got.Context)
	}

	rec = do(e, http.MethodPost, "/api/create-context", `{"document_content":"notes"}`, nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("missing idea_text: status = %d", rec.Code)
	}
	rec = do(e, http.MethodPost, "/api/create-context", `{"idea_text":`, nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("malformed body: status = %d", rec.Code)
	}
}

func TestGenerateQuestionsEndpoint(t *testing.T) {
	stub := newStub()
	e := newTestServer(t, stub, "")

	tests := []struct {
		name       string
		target     string
		body       string
		wantStatus int
		wantSets   int
	}{
		{"default count", "/api/generate-questions", `{"context":"c"}`, http.StatusOK, 1},
		{"body count", "/api/generate-questions", `{"context":"c","model_count":2}`, http.StatusOK, 2},
		{"query count", "/api/generate-questions?model_count=3", `{"context":"c"}`, http.StatusOK, 3},
		{"too many", "/api/generate-questions", `{"context":"c","model_count":4}`, http.StatusBadRequest, 0},
		{"zero", "/api/generate-questions", `{"context":"c","model_count":0}`, http.StatusBadRequest, 0},
		{"not a number", "/api/generate-questions?model_count=two", `{"context":"c"}`, http.StatusBadRequest, 0},
		{"missing context", "/api/generate-questions", `{}`, http.StatusBadRequest, 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := do(e, http.MethodPost, tc.target, tc.body, nil)
			if rec.Code != tc.wantStatus {
				t.Fatalf("status = %d, want %d (%s)", rec.Code, tc.wantStatus, rec.Body.String())
			}
			if tc.wantStatus != http.StatusOK {
				return
			}
			sets := decode[[]common.BrainstormQuestions](t, rec)
			if len(sets) != tc.wantSets {
				t.Fatalf("got %d sets, want %d", len(sets), tc.wantSets)
			}
			if sets[0].QuestionGroups[0].Questions[0].ID == "" {
				t.Fatalf("expected generated question ids")
			}
		})
	}
}

func TestSynthesizeQuestionsEndpoint(t *testing.T) {
	stub := newStub()
	e := newTestServer(t, stub, "")

	set := `{"question_groups":[{"heading":"Users","questions":[{"id":"a","short_summary":"Who?","full_description":""}]}]}`
	rec := do(e, http.MethodPost, "/api/synthesize-questions", "["+set+"]", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d (%s)", rec.Code, rec.Body.String())
	}
	if stub.calls != 0 {
		t.Fatalf("a single set must not reach the model, got %d calls", stub.calls)
	}
	got := decode[common.BrainstormQuestions](t, rec)
	if got.QuestionGroups[0].Questions[0].ID != "a" {
		t.Fatalf("single set should be returned unchanged: %+v", got)
	}

	rec = do(e, http.MethodPost, "/api/synthesize-questions", "["+set+","+set+"]", nil)
	if rec.Code != http.StatusOK || stub.calls != 1 {
		t.Fatalf("status = %d, calls = %d", rec.Code, stub.calls)
	}

	rec = do(e, http.MethodPost, "/api/synthesize-questions", "[]", nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("empty list: status = %d", rec.Code)
	}
}

func TestChunkQuestionsEndpoint(t *testing.T) {
	e := newTestServer(t, newStub(), "")

	body := `{"question_groups":[{"heading":"Users","questions":[{"short_summary":"Who?","full_description":"Who exactly?"}]},{"heading":"Money","questions":[]}]}`
	rec := do(e, http.MethodPost, "/api/chunk-questions", body, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d (%s)", rec.Code, rec.Body.String())
	}
	want := []common.QuestionChunk{
		{Heading: "Users", Questions: []common.ChunkQuestion{{ID: "g1-q1", ShortSummary: "Who?", FullDescription: "Who exactly?"}}},
		{Heading: "Money", Questions: []common.ChunkQuestion{}},
	}
	if diff := cmp.Diff(want, decode[[]common.QuestionChunk](t, rec)); diff != "" {
		t.Fatalf("chunks mismatch (-want +got):\n%s", diff)
	}
}

func TestBrainstormEndpoint(t *testing.T) {
	stub := newStub()
	e := newTestServer(t, stub, "")

	body := `{"context":{"context":"c"},"question_chunks":[{"heading":"Users","questions":[{"id":"g1-q1","short_summary":"Who cooks?","full_description":""}]}]}`
	rec := do(e, http.MethodPost, "/api/brainstorm", body, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d (%s)", rec.Code, rec.Body.String())
	}
	got := decode[[][]common.BrainstormResponse](t, rec)
	if len(got) != 2 {
		t.Fatalf("default participant count should be 2, got %d", len(got))
	}
	want := []common.BrainstormResponse{{QuestionID: "g1-q1", Question: "Who cooks?", Answers: []string{"Parents", "Kids"}}}
	if diff := cmp.Diff(want, got[1]); diff != "" {
		t.Fatalf("responses mismatch (-want +got):\n%s", diff)
	}

	rec = do(e, http.MethodPost, "/api/brainstorm?participant_count=3", body, nil)
	if rec.Code != http.StatusOK || len(decode[[][]common.BrainstormResponse](t, rec)) != 3 {
		t.Fatalf("query participant count not applied: %d %s", rec.Code, rec.Body.String())
	}

	rec = do(e, http.MethodPost, "/api/brainstorm", `{"context":{"context":"c"},"question_chunks":[]}`, nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("no chunks: status = %d", rec.Code)
	}
	rec = do(e, http.MethodPost, "/api/brainstorm", strings.Replace(body, `"question_chunks"`, `"participant_count":5,"question_chunks"`, 1), nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("too many participants: status = %d", rec.Code)
	}
}

func TestSynthesizeEndpoint(t *testing.T) {
	e := newTestServer(t, newStub(), "")

	body := `[[{"question":"Who cooks?","answers":["Parents"]}],[{"question":"Who cooks?","answers":["Kids"]}]]`
	rec := do(e, http.MethodPost, "/api/synthesize", body, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d (%s)", rec.Code, rec.Body.String())
	}
	got := decode[common.BrainstormSynthesis](t, rec)
	if got.SynthesizedContent != "# Summary" || got.AttributedContent == nil || *got.AttributedContent != "# Attributed" {
		t.Fatalf("unexpected synthesis %+v", got)
	}

	rec = do(e, http.MethodPost, "/api/synthesize", "[]", nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("empty responses: status = %d", rec.Code)
	}
}

func TestStageFailureIsServerError(t *testing.T) {
	stub := newStub()
	stub.err = errors.New("provider unavailable")
	e := newTestServer(t, stub, "")

	rec := do(e, http.MethodPost, "/api/create-context", `{"idea_text":"x"}`, nil)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", rec.Code)
	}
	got := decode[map[string]string](t, rec)
	if !strings.Contains(got["error"], "provider unavailable") {
		t.Fatalf("error message should carry the cause: %q", got["error"])
	}
}

func TestAPIKeyAuth(t *testing.T) {
	e := newTestServer(t, newStub(), "secret")

	rec := do(e, http.MethodGet, "/api/stages", "", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("missing key: status = %d", rec.Code)
	}
	rec = do(e, http.MethodGet, "/api/stages", "", map[string]string{"Authorization": "Bearer wrong"})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("wrong key: status = %d", rec.Code)
	}
	rec = do(e, http.MethodGet, "/api/stages", "", map[string]string{"Authorization": "Bearer secret"})
	if rec.Code != http.StatusOK {
		t.Fatalf("valid key: status = %d", rec.Code)
	}
	got := decode[symphony.Stages](t, rec)
	if got.Stage(symphony.StageBrainstorm).Model == "" {
		t.Fatalf("stages response missing brainstorm model: %s", rec.Body.String())
	}
}

func TestMetricsEndpoints(t *testing.T) {
	stub := newStub()
	e := newTestServer(t, stub, "")

	do(e, http.MethodPost, "/api/create-context", `{"idea_text":"x"}`, nil)
	rec := do(e, http.MethodGet, "/api/metrics", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	got := decode[ai.ModelMetrics](t, rec)
	if got.Requests != 1 || got.TotalTokens != 10 {
		t.Fatalf("unexpected metrics %+v", got)
	}

	rec = do(e, http.MethodDelete, "/api/metrics", "", nil)
	if rec.Code != http.StatusOK || !stub.reset {
		t.Fatalf("reset not applied: %d", rec.Code)
	}
}
