package wizard

import (
	"context"
	"time"

	"github.com/OFFIS-RIT/symphony/pkg/common"
)

// Estimate is the expected processing time of a brainstorm.
type Estimate struct {
	Min time.Duration
	Max time.Duration
}

// Prompter is the user facing side of the wizard. Every review method
// returns the navigation the user chose.
type Prompter interface {
	Idea(ctx context.Context, def IdeaAnswer) (IdeaAnswer, Action, error)
	// ReviewContext returns the possibly edited context text.
	ReviewContext(ctx context.Context, c common.BrainstormingContext) (string, Action, error)
	Configure(ctx context.Context, current Settings, estimate Estimate) (Settings, Action, error)
	ReviewQuestionSets(ctx context.Context, sets []common.BrainstormQuestions) (Action, error)
	ReviewSynthesizedQuestions(ctx context.Context, q common.BrainstormQuestions) (Action, error)
	// AnswerQuestions collects the human's answers, starting from previous.
	AnswerQuestions(ctx context.Context, chunks []common.QuestionChunk, previous []common.BrainstormResponse) ([]common.BrainstormResponse, Action, error)
	ReviewResponses(ctx context.Context, chunks []common.QuestionChunk, all [][]common.BrainstormResponse) (Action, error)
	ReviewSynthesis(ctx context.Context, res common.BrainstormSynthesis) (Action, error)

	// Failed reports a failed step. ActionNext retries it.
	Failed(ctx context.Context, step Step, err error) (Action, error)
	Status(msg string)
	Exported(locations []string)
}
