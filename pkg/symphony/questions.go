package symphony

import (
	"context"
	"fmt"
	"strings"

	"github.com/OFFIS-RIT/symphony/internal/util"
	"github.com/OFFIS-RIT/symphony/pkg/common"
	"github.com/OFFIS-RIT/symphony/pkg/logger"

	"golang.org/x/sync/errgroup"
)

type questionOutput struct {
	ShortSummary    string `json:"short_summary" jsonschema_description:"A short summary of the question."`
	FullDescription string `json:"full_description" jsonschema_description:"A more detailed description of the question."`
}

type questionGroupOutput struct {
	Heading   string           `json:"heading" jsonschema_description:"The heading shared by the questions in this group."`
	Questions []questionOutput `json:"questions" jsonschema_description:"The questions in this group."`
}

type questionSetOutput struct {
	QuestionGroups []questionGroupOutput `json:"question_groups" jsonschema_description:"Groups of similar questions under relevant headings."`
}

// toQuestions converts model output into a question set, assigning a fresh ID
// to every question.
func toQuestions(out questionSetOutput) (common.BrainstormQuestions, error) {
	res := common.BrainstormQuestions{
		QuestionGroups: make([]common.BrainstormQuestionGroup, 0, len(out.QuestionGroups)),
	}
	for _, g := range out.QuestionGroups {
		group := common.BrainstormQuestionGroup{
			Heading:   strings.TrimSpace(g.Heading),
			Questions: make([]common.BrainstormQuestion, 0, len(g.Questions)),
		}
		for _, q := range g.Questions {
			id, err := util.NewID()
			if err != nil {
				return common.BrainstormQuestions{}, err
			}
			group.Questions = append(group.Questions, common.BrainstormQuestion{
				ID:              id,
				ShortSummary:    strings.TrimSpace(q.ShortSummary),
				FullDescription: strings.TrimSpace(q.FullDescription),
			})
		}
		res.QuestionGroups = append(res.QuestionGroups, group)
	}
	return res, nil
}

func (o *Orchestrator) questionSet(ctx context.Context, stage StageName, description, prompt string) (common.BrainstormQuestions, error) {
	out, err := invoke[questionSetOutput](ctx, o, stage, description, prompt)
	if err != nil {
		return common.BrainstormQuestions{}, err
	}
	res, err := toQuestions(out)
	if err != nil {
		return common.BrainstormQuestions{}, &InvocationError{Stage: stage, Err: err}
	}
	if err := o.check(stage, res); err != nil {
		return common.BrainstormQuestions{}, err
	}
	logger.Debug("Question set ready", "stage", stage, "groups", len(res.QuestionGroups), "questions", res.QuestionCount())
	return res, nil
}

// GenerateQuestions runs modelCount independent question generation rounds.
// Round i asks for a wider range of questions than round i-1. Results are
// returned in round order regardless of completion order.
func (o *Orchestrator) GenerateQuestions(
	ctx context.Context,
	in common.BrainstormingContext,
	modelCount int,
) ([]common.BrainstormQuestions, error) {
	if modelCount < 1 {
		return nil, fmt.Errorf("model_count: %w", ErrInvalidCount)
	}

	results := make([]common.BrainstormQuestions, modelCount)
	g, gCtx := errgroup.WithContext(ctx)
	if o.maxParallel > 0 {
		g.SetLimit(o.maxParallel)
	}

	for i := range modelCount {
		g.Go(func() error {
			prompt := buildQuestionsPrompt(in, o.stages.QuestionRange, i)
			set, err := o.questionSet(gCtx, StageGenerateQuestions, "Grouped brainstorming questions", prompt)
			if err != nil {
				return err
			}
			results[i] = set
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	logger.Debug("Generated question sets", "sets", len(results))
	return results, nil
}

// SynthesizeQuestions merges several question sets into one, removing
// duplicates. A single set is returned unchanged without calling the model.
func (o *Orchestrator) SynthesizeQuestions(
	ctx context.Context,
	sets []common.BrainstormQuestions,
) (*common.BrainstormQuestions, error) {
	switch len(sets) {
	case 0:
		return nil, ErrNoQuestionSets
	case 1:
		res := sets[0]
		return &res, nil
	}

	prompt, err := buildSynthesizeQuestionsPrompt(sets)
	if err != nil {
		return nil, &InvocationError{Stage: StageSynthesizeQuestions, Err: err}
	}

	res, err := o.questionSet(ctx, StageSynthesizeQuestions, "A single deduplicated list of grouped brainstorming questions", prompt)
	if err != nil {
		return nil, err
	}
	return &res, nil
}

// ChunkQuestions flattens question groups into the chunks answered by the
// brainstorm stage. It never calls the model. Questions without an ID get
// the positional ID g<group>-q<question>, both 1-based, or g<group>-q<question>-<n>
// when that ID is already taken, so the result only depends on its input.
func ChunkQuestions(q common.BrainstormQuestions) []common.QuestionChunk {
	taken := make(map[string]bool)
	for _, group := range q.QuestionGroups {
		for _, question := range group.Questions {
			if question.ID != "" {
				taken[question.ID] = true
			}
		}
	}

	chunks := make([]common.QuestionChunk, 0, len(q.QuestionGroups))
	for gi, group := range q.QuestionGroups {
		chunk := common.QuestionChunk{
			Heading:   group.Heading,
			Questions: make([]common.ChunkQuestion, 0, len(group.Questions)),
		}
		for qi, question := range group.Questions {
			id := question.ID
			if id == "" {
				base := fmt.Sprintf("g%d-q%d", gi+1, qi+1)
				id = base
				for n := 2; taken[id]; n++ {
					id = fmt.Sprintf("%s-%d", base, n)
				}
				taken[id] = true
			}
			chunk.Questions = append(chunk.Questions, common.ChunkQuestion{
				ID:              id,
				ShortSummary:    question.ShortSummary,
				FullDescription: question.FullDescription,
			})
		}
		chunks = append(chunks, chunk)
	}
	return chunks
}

// ChunkQuestions is the package level ChunkQuestions exposed on the
// orchestrator so every stage is reachable from one value.
func (o *Orchestrator) ChunkQuestions(q common.BrainstormQuestions) []common.QuestionChunk {
	return ChunkQuestions(q)
}
