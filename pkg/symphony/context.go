package symphony

import (
	"context"
	"strings"

	"github.com/OFFIS-RIT/symphony/pkg/common"
)

type contextOutput struct {
	Context string `json:"context" jsonschema_description:"The distilled context document for the brainstorming session."`
}

// CreateContext distills an idea and its optional supporting document into the
// context document every later stage works from.
func (o *Orchestrator) CreateContext(ctx context.Context, in common.IdeaInput) (*common.BrainstormingContext, error) {
	prompt, err := buildContextPrompt(in)
	if err != nil {
		return nil, &InvocationError{Stage: StageCreateContext, Err: err}
	}

	out, err := invoke[contextOutput](ctx, o, StageCreateContext, "A clear, concise context document", prompt)
	if err != nil {
		return nil, err
	}

	res := &common.BrainstormingContext{Context: strings.TrimSpace(out.Context)}
	if err := o.check(StageCreateContext, res); err != nil {
		return nil, err
	}
	return res, nil
}
