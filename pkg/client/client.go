// Package client exposes the brainstorming service endpoints as typed calls.
// NewClient returns either an HTTP client or a fixture backed mock with the
// same surface, so callers never branch on which one they got.
package client

import (
	"context"
	"time"

	"github.com/OFFIS-RIT/symphony/pkg/common"
)

type Client interface {
	CreateContext(ctx context.Context, in common.IdeaInput) (*common.BrainstormingContext, error)
	GenerateQuestions(ctx context.Context, in common.BrainstormingContext, modelCount int) ([]common.BrainstormQuestions, error)
	SynthesizeQuestions(ctx context.Context, sets []common.BrainstormQuestions) (*common.BrainstormQuestions, error)
	ChunkQuestions(ctx context.Context, q common.BrainstormQuestions) ([]common.QuestionChunk, error)
	Brainstorm(ctx context.Context, in common.BrainstormingContext, chunks []common.QuestionChunk, participantCount int) ([][]common.BrainstormResponse, error)
	Synthesize(ctx context.Context, all [][]common.BrainstormResponse) (*common.BrainstormSynthesis, error)
	Close() error
}

type ClientParams struct {
	// Mock selects the fixture backed client.
	Mock bool
	// FixturesPath overrides the embedded fixtures in mock mode.
	FixturesPath string

	BaseURL string
	APIKey  string
	// Timeout bounds each HTTP request; zero means DefaultTimeout.
	Timeout time.Duration
}

// NewClient builds the client selected by params.
func NewClient(params ClientParams) (Client, error) {
	if params.Mock {
		return NewMockClient(params.FixturesPath)
	}
	return NewHTTPClient(NewHTTPClientParams{
		BaseURL: params.BaseURL,
		APIKey:  params.APIKey,
		Timeout: params.Timeout,
	}), nil
}

// SampleSource is implemented by clients that ship a sample idea.
type SampleSource interface {
	SampleIdea() string
}

// SampleIdea returns the sample idea of c, or "" when c has none.
func SampleIdea(c Client) string {
	if s, ok := c.(SampleSource); ok {
		return s.SampleIdea()
	}
	return ""
}
