package symphony

import (
	"context"
	"fmt"
	"strings"

	"github.com/OFFIS-RIT/symphony/pkg/common"
	"github.com/OFFIS-RIT/symphony/pkg/logger"

	"golang.org/x/sync/errgroup"
)

type responseOutput struct {
	QuestionID string   `json:"question_id" jsonschema_description:"The id attribute of the answered question, copied exactly."`
	Question   string   `json:"question" jsonschema_description:"The short summary of the answered question."`
	Answers    []string `json:"answers" jsonschema_description:"Between 3 and 5 unique, specific and actionable responses."`
}

type responsesOutput struct {
	Responses []responseOutput `json:"responses" jsonschema_description:"One entry per question."`
}

// BrainstormResponses lets participantCount simulated participants answer
// every chunk. Chunks are answered in order within a participant and their
// responses concatenated; participants run concurrently. The result is
// indexed [participant][response].
func (o *Orchestrator) BrainstormResponses(
	ctx context.Context,
	in common.BrainstormingContext,
	chunks []common.QuestionChunk,
	participantCount int,
) ([][]common.BrainstormResponse, error) {
	if participantCount < 1 {
		return nil, fmt.Errorf("participant_count: %w", ErrInvalidCount)
	}

	results := make([][]common.BrainstormResponse, participantCount)
	g, gCtx := errgroup.WithContext(ctx)
	if o.maxParallel > 0 {
		g.SetLimit(o.maxParallel)
	}

	for p := range participantCount {
		g.Go(func() error {
			responses := make([]common.BrainstormResponse, 0)
			for _, chunk := range chunks {
				rs, err := o.brainstormChunk(gCtx, in, chunk, p)
				if err != nil {
					return err
				}
				responses = append(responses, rs...)
			}
			results[p] = responses
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func (o *Orchestrator) brainstormChunk(
	ctx context.Context,
	in common.BrainstormingContext,
	chunk common.QuestionChunk,
	participant int,
) ([]common.BrainstormResponse, error) {
	prompt, err := buildBrainstormPrompt(in, chunk, participant)
	if err != nil {
		return nil, &InvocationError{Stage: StageBrainstorm, Err: err}
	}

	out, err := invoke[responsesOutput](ctx, o, StageBrainstorm, "Answers to the brainstorming questions", prompt)
	if err != nil {
		return nil, err
	}

	res, dropped := attachResponses(chunk, out.Responses)
	if dropped > 0 {
		logger.Warn("Dropped responses that match no question",
			"participant", participant+1, "topic", chunk.Heading, "dropped", dropped)
	}
	return res, nil
}

// attachResponses matches model responses to the questions of chunk: first by
// question ID, then by exact short summary, then by position among the
// questions still unanswered. A repeated ID yields to a summary naming another
// unanswered question, and repeated summaries fill their questions in order.
// Matched responses carry the question's ID and short summary. The result
// follows the chunk's question order; questions without a response are
// omitted. The number of responses that matched no question is returned as
// well.
func attachResponses(chunk common.QuestionChunk, got []responseOutput) ([]common.BrainstormResponse, int) {
	byID := make(map[string]int, len(chunk.Questions))
	bySummary := make(map[string][]int, len(chunk.Questions))
	for i, q := range chunk.Questions {
		if q.ID != "" {
			if _, ok := byID[q.ID]; !ok {
				byID[q.ID] = i
			}
		}
		bySummary[q.ShortSummary] = append(bySummary[q.ShortSummary], i)
	}

	answers := make([][]string, len(chunk.Questions))
	answered := make([]bool, len(chunk.Questions))
	var unmatched []responseOutput

	assign := func(i int, r responseOutput) {
		answered[i] = true
		answers[i] = append(answers[i], cleanAnswers(r.Answers)...)
	}

	match := func(r responseOutput) (int, bool) {
		idx, idOK := byID[strings.TrimSpace(r.QuestionID)]
		if idOK && !answered[idx] {
			return idx, true
		}
		candidates := bySummary[strings.TrimSpace(r.Question)]
		for _, i := range candidates {
			if !answered[i] {
				return i, true
			}
		}
		switch {
		case idOK:
			return idx, true
		case len(candidates) > 0:
			return candidates[0], true
		}
		return 0, false
	}

	for _, r := range got {
		if i, ok := match(r); ok {
			assign(i, r)
			continue
		}
		unmatched = append(unmatched, r)
	}

	dropped := 0
	next := 0
	for _, r := range unmatched {
		for next < len(answered) && answered[next] {
			next++
		}
		if next >= len(answered) {
			dropped++
			continue
		}
		assign(next, r)
	}

	res := make([]common.BrainstormResponse, 0, len(chunk.Questions))
	for i, q := range chunk.Questions {
		if !answered[i] {
			continue
		}
		res = append(res, common.BrainstormResponse{
			QuestionID: q.ID,
			Question:   q.ShortSummary,
			Answers:    answers[i],
		})
	}
	return res, dropped
}

func cleanAnswers(in []string) []string {
	out := make([]string, 0, len(in))
	for _, a := range in {
		if a = strings.TrimSpace(a); a != "" {
			out = append(out, a)
		}
	}
	return out
}
