package symphony

import (
	"context"
	"strings"

	"github.com/OFFIS-RIT/symphony/pkg/common"
)

type synthesisOutput struct {
	SynthesizedContent string `json:"synthesized_content" jsonschema_description:"The clean, non-attributed synthesis document in markdown."`
	AttributedContent  string `json:"attributed_content" jsonschema_description:"The synthesis document in markdown, showing which participant generated which idea."`
}

// SynthesizeResponses merges every participant's answers into the final
// document, with and without attribution.
func (o *Orchestrator) SynthesizeResponses(
	ctx context.Context,
	all [][]common.BrainstormResponse,
) (*common.BrainstormSynthesis, error) {
	if len(all) == 0 {
		return nil, ErrNoResponses
	}

	out, err := invoke[synthesisOutput](ctx, o, StageSynthesizeResponses,
		"Attributed and non-attributed synthesis of the brainstorming session",
		buildSynthesizeResponsesPrompt(all))
	if err != nil {
		return nil, err
	}

	res := &common.BrainstormSynthesis{
		SynthesizedContent: strings.TrimSpace(out.SynthesizedContent),
	}
	if attributed := strings.TrimSpace(out.AttributedContent); attributed != "" {
		res.AttributedContent = &attributed
	}
	if err := o.check(StageSynthesizeResponses, res); err != nil {
		return nil, err
	}
	return res, nil
}
