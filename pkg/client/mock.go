package client

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/OFFIS-RIT/symphony/pkg/common"
)

//go:embed mock_data.json
var defaultFixtures []byte

// ErrNoFixture is returned when the fixture file has no entry for a call.
var ErrNoFixture = errors.New("no mock data available")

// MockClient answers every call from a fixture document keyed by endpoint.
// It never touches the network and ignores its arguments.
type MockClient struct {
	fixtures map[string]json.RawMessage
}

// NewMockClient loads the fixtures at path, or the embedded ones when path
// is empty.
func NewMockClient(path string) (*MockClient, error) {
	data := defaultFixtures
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read fixtures: %w", err)
		}
		data = b
	}

	fixtures := map[string]json.RawMessage{}
	if err := json.Unmarshal(data, &fixtures); err != nil {
		return nil, fmt.Errorf("parse fixtures: %w", err)
	}
	return &MockClient{fixtures: fixtures}, nil
}

func (m *MockClient) fixture(key string, out any) error {
	raw, ok := m.fixtures[key]
	if !ok {
		return fmt.Errorf("%w for endpoint: %s", ErrNoFixture, key)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode fixture %s: %w", key, err)
	}
	return nil
}

// SampleIdea returns the sample idea shipped with the fixtures, if any.
func (m *MockClient) SampleIdea() string {
	var s string
	if err := m.fixture("idea_text", &s); err != nil {
		return ""
	}
	return s
}

func (m *MockClient) CreateContext(ctx context.Context, in common.IdeaInput) (*common.BrainstormingContext, error) {
	out := new(common.BrainstormingContext)
	if err := m.fixture("create_context", out); err != nil {
		return nil, err
	}
	return out, nil
}

func (m *MockClient) GenerateQuestions(ctx context.Context, in common.BrainstormingContext, modelCount int) ([]common.BrainstormQuestions, error) {
	var out []common.BrainstormQuestions
	if err := m.fixture("generate_questions", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (m *MockClient) SynthesizeQuestions(ctx context.Context, sets []common.BrainstormQuestions) (*common.BrainstormQuestions, error) {
	out := new(common.BrainstormQuestions)
	if err := m.fixture("synthesize_questions", out); err != nil {
		return nil, err
	}
	return out, nil
}

func (m *MockClient) ChunkQuestions(ctx context.Context, q common.BrainstormQuestions) ([]common.QuestionChunk, error) {
	var out []common.QuestionChunk
	if err := m.fixture("chunk_questions", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (m *MockClient) Brainstorm(
	ctx context.Context,
	in common.BrainstormingContext,
	chunks []common.QuestionChunk,
	participantCount int,
) ([][]common.BrainstormResponse, error) {
	var out [][]common.BrainstormResponse
	if err := m.fixture("brainstorm", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (m *MockClient) Synthesize(ctx context.Context, all [][]common.BrainstormResponse) (*common.BrainstormSynthesis, error) {
	out := new(common.BrainstormSynthesis)
	if err := m.fixture("synthesize", out); err != nil {
		return nil, err
	}
	return out, nil
}

func (m *MockClient) Close() error { return nil }
