package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/OFFIS-RIT/symphony/pkg/common"
)

const (
	DefaultBaseURL = "http://localhost:8080"
	DefaultTimeout = 60 * time.Second
)

// APIError is returned for any non 2xx answer of the service.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
}

type HTTPClient struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

type NewHTTPClientParams struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

func NewHTTPClient(params NewHTTPClientParams) *HTTPClient {
	baseURL := params.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	timeout := params.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  params.APIKey,
		http:    &http.Client{Timeout: timeout},
	}
}

func (c *HTTPClient) post(ctx context.Context, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	res, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request %s: %w", path, err)
	}
	defer res.Body.Close()

	data, err := io.ReadAll(res.Body)
	if err != nil {
		return fmt.Errorf("read response %s: %w", path, err)
	}
	if res.StatusCode < 200 || res.StatusCode > 299 {
		return &APIError{StatusCode: res.StatusCode, Message: errorMessage(data)}
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response %s: %w", path, err)
	}
	return nil
}

// errorMessage extracts the error text from an {"error": ...} or
// {"message": ...} body and falls back to the raw body.
func errorMessage(data []byte) string {
	var body struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(data, &body); err == nil {
		if body.Error != "" {
			return body.Error
		}
		if body.Message != "" {
			return body.Message
		}
	}
	return strings.TrimSpace(string(data))
}

func (c *HTTPClient) CreateContext(ctx context.Context, in common.IdeaInput) (*common.BrainstormingContext, error) {
	out := new(common.BrainstormingContext)
	if err := c.post(ctx, "/api/create-context", in, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) GenerateQuestions(
	ctx context.Context,
	in common.BrainstormingContext,
	modelCount int,
) ([]common.BrainstormQuestions, error) {
	body := struct {
		common.BrainstormingContext
		ModelCount int `json:"model_count"`
	}{in, modelCount}

	var out []common.BrainstormQuestions
	if err := c.post(ctx, "/api/generate-questions", body, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) SynthesizeQuestions(ctx context.Context, sets []common.BrainstormQuestions) (*common.BrainstormQuestions, error) {
	out := new(common.BrainstormQuestions)
	if err := c.post(ctx, "/api/synthesize-questions", sets, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) ChunkQuestions(ctx context.Context, q common.BrainstormQuestions) ([]common.QuestionChunk, error) {
	var out []common.QuestionChunk
	if err := c.post(ctx, "/api/chunk-questions", q, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) Brainstorm(
	ctx context.Context,
	in common.BrainstormingContext,
	chunks []common.QuestionChunk,
	participantCount int,
) ([][]common.BrainstormResponse, error) {
	body := struct {
		Context          common.BrainstormingContext `json:"context"`
		QuestionChunks   []common.QuestionChunk      `json:"question_chunks"`
		ParticipantCount int                         `json:"participant_count"`
	}{in, chunks, participantCount}

	var out [][]common.BrainstormResponse
	if err := c.post(ctx, "/api/brainstorm", body, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) Synthesize(ctx context.Context, all [][]common.BrainstormResponse) (*common.BrainstormSynthesis, error) {
	out := new(common.BrainstormSynthesis)
	if err := c.post(ctx, "/api/synthesize", all, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) Close() error {
	c.http.CloseIdleConnections()
	return nil
}
