package wizard

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/OFFIS-RIT/symphony/pkg/common"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
)

const boxWidth = 78

// SurveyPrompter asks on the terminal using survey prompts.
type SurveyPrompter struct {
	stdio terminal.Stdio
	out   io.Writer
}

func NewSurveyPrompter() *SurveyPrompter {
	return &SurveyPrompter{
		stdio: terminal.Stdio{In: os.Stdin, Out: os.Stdout, Err: os.Stderr},
		out:   os.Stdout,
	}
}

type navOption struct {
	label  string
	action Action
}

func (p *SurveyPrompter) ask(ctx context.Context, prompt survey.Prompt, response any, opts ...survey.AskOpt) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	opts = append(opts, survey.WithStdio(p.stdio.In, p.stdio.Out, p.stdio.Err))
	return survey.AskOne(prompt, response, opts...)
}

// navigate asks where to go next. An interrupt quits.
func (p *SurveyPrompter) navigate(ctx context.Context, options ...navOption) (Action, error) {
	labels := make([]string, 0, len(options)+1)
	for _, o := range options {
		labels = append(labels, o.label)
	}
	labels = append(labels, "Quit")

	var choice string
	if err := p.ask(ctx, &survey.Select{Message: "What next?", Options: labels}, &choice); err != nil {
		return quitOnInterrupt(err)
	}
	for _, o := range options {
		if o.label == choice {
			return o.action, nil
		}
	}
	return ActionQuit, nil
}

func quitOnInterrupt(err error) (Action, error) {
	if errors.Is(err, terminal.InterruptErr) {
		return ActionQuit, nil
	}
	return ActionQuit, err
}

func (p *SurveyPrompter) print(s string) {
	fmt.Fprintln(p.out, s)
}

func (p *SurveyPrompter) title(s string) {
	p.print("\n" + styleTitle.Render(s))
}

func (p *SurveyPrompter) Idea(ctx context.Context, def IdeaAnswer) (IdeaAnswer, Action, error) {
	p.title("Step 1: Share Your Idea")

	var ans IdeaAnswer
	if err := p.ask(ctx, &survey.Multiline{
		Message: "I have an idea for...",
		Default: def.Text,
	}, &ans.Text, survey.WithValidator(survey.Required)); err != nil {
		a, err := quitOnInterrupt(err)
		return ans, a, err
	}
	if err := p.ask(ctx, &survey.Input{
		Message: "Supporting document (optional):",
		Help:    "Path to a .txt or .md file, or an http(s) URL",
		Default: def.Document,
	}, &ans.Document); err != nil {
		a, err := quitOnInterrupt(err)
		return ans, a, err
	}
	return ans, ActionNext, nil
}

func (p *SurveyPrompter) ReviewContext(ctx context.Context, c common.BrainstormingContext) (string, Action, error) {
	p.title("Step 2: Brainstorming Context")
	p.print(boxStyle(colorInfo, boxWidth).Render(c.Context))

	text := c.Context
	edit := false
	if err := p.ask(ctx, &survey.Confirm{Message: "Edit the context?"}, &edit); err != nil {
		a, err := quitOnInterrupt(err)
		return text, a, err
	}
	if edit {
		if err := p.ask(ctx, &survey.Editor{
			Message:       "Context",
			Default:       c.Context,
			AppendDefault: true,
			HideDefault:   true,
			FileName:      "*.md",
		}, &text); err != nil {
			a, err := quitOnInterrupt(err)
			return text, a, err
		}
	}

	action, err := p.navigate(ctx,
		navOption{"Configure brainstorming", ActionNext},
		navOption{"Back to idea", ActionBack},
	)
	return text, action, err
}

func (p *SurveyPrompter) Configure(ctx context.Context, current Settings, estimate Estimate) (Settings, Action, error) {
	p.title("Step 3: Configure Brainstorming Session")

	models := make([]string, 0, MaxModelCount)
	for i := MinModelCount; i <= MaxModelCount; i++ {
		models = append(models, strconv.Itoa(i))
	}
	participants := make([]string, 0, MaxParticipantCount)
	for i := MinParticipantCount; i <= MaxParticipantCount; i++ {
		participants = append(participants, strconv.Itoa(i))
	}

	var modelChoice, participantChoice string
	settings := current
	if err := p.ask(ctx, &survey.Select{
		Message: "Number of question-generating models to use:",
		Options: models,
		Default: strconv.Itoa(current.ModelCount),
	}, &modelChoice); err != nil {
		a, err := quitOnInterrupt(err)
		return settings, a, err
	}
	if err := p.ask(ctx, &survey.Select{
		Message: "Number of AI brainstorming participants:",
		Options: participants,
		Default: strconv.Itoa(current.ParticipantCount),
	}, &participantChoice); err != nil {
		a, err := quitOnInterrupt(err)
		return settings, a, err
	}
	if err := p.ask(ctx, &survey.Confirm{
		Message: "I want to participate in the brainstorming",
		Default: current.IncludeHuman,
	}, &settings.IncludeHuman); err != nil {
		a, err := quitOnInterrupt(err)
		return settings, a, err
	}
	settings.ModelCount, _ = strconv.Atoi(modelChoice)
	settings.ParticipantCount, _ = strconv.Atoi(participantChoice)

	if settings.ParticipantCount != current.ParticipantCount {
		lo, hi := EstimateDuration(settings.ParticipantCount)
		estimate = Estimate{Min: lo, Max: hi}
	}
	p.print(styleMuted.Render(fmt.Sprintf("Estimated processing time: %d-%d minutes",
		int(estimate.Min.Minutes()), int(estimate.Max.Minutes()))))

	action, err := p.navigate(ctx,
		navOption{"Generate questions", ActionNext},
		navOption{"Back to context", ActionBack},
	)
	return settings, action, err
}

func (p *SurveyPrompter) ReviewQuestionSets(ctx context.Context, sets []common.BrainstormQuestions) (Action, error) {
	p.title("Step 4: Brainstorming Questions")
	p.print(renderQuestionSets(sets))

	next := "Start brainstorming"
	if len(sets) > 1 {
		next = "Synthesize questions"
	}
	return p.navigate(ctx,
		navOption{next, ActionNext},
		navOption{"Back to configuration", ActionBack},
	)
}

func (p *SurveyPrompter) ReviewSynthesizedQuestions(ctx context.Context, q common.BrainstormQuestions) (Action, error) {
	p.title("Step 5: Synthesized Questions")
	p.print(renderQuestions(q))

	return p.navigate(ctx,
		navOption{"Start brainstorming", ActionNext},
		navOption{"Back to question generation", ActionBack},
	)
}

func (p *SurveyPrompter) AnswerQuestions(
	ctx context.Context,
	chunks []common.QuestionChunk,
	previous []common.BrainstormResponse,
) ([]common.BrainstormResponse, Action, error) {
	p.title("Step 6: Human Participation")
	p.print(styleMuted.Render("Provide your own responses, one per line. Leave a question empty to skip it."))

	prev := map[string][]string{}
	for _, r := range previous {
		prev[r.QuestionID] = r.Answers
	}

	var out []common.BrainstormResponse
	for _, chunk := range chunks {
		p.print("\n" + styleHeading.Render(chunk.Heading))
		for _, q := range chunk.Questions {
			var text string
			if err := p.ask(ctx, &survey.Multiline{
				Message: q.ShortSummary,
				Help:    q.FullDescription,
				Default: strings.Join(prev[q.ID], "\n"),
			}, &text); err != nil {
				a, err := quitOnInterrupt(err)
				return out, a, err
			}
			out = append(out, common.BrainstormResponse{
				QuestionID: q.ID,
				Question:   q.ShortSummary,
				Answers:    parseAnswers(text),
			})
		}
	}

	action, err := p.navigate(ctx,
		navOption{"Continue to AI brainstorming", ActionNext},
		navOption{"Back to questions", ActionBack},
	)
	return out, action, err
}

func (p *SurveyPrompter) ReviewResponses(ctx context.Context, chunks []common.QuestionChunk, all [][]common.BrainstormResponse) (Action, error) {
	p.title("Step 7: Brainstorming Responses")
	p.print(renderResponses(chunks, all))

	return p.navigate(ctx,
		navOption{"Synthesize results", ActionNext},
		navOption{"Back to previous step", ActionBack},
	)
}

func (p *SurveyPrompter) ReviewSynthesis(ctx context.Context, res common.BrainstormSynthesis) (Action, error) {
	p.title("Step 8: Final Synthesis")
	p.print(boxStyle(colorSuccess, boxWidth).Render(res.SynthesizedContent))
	if res.AttributedContent != nil {
		p.print(styleTitle.Render("Attributed Version"))
		p.print(boxStyle(colorInfo, boxWidth).Render(*res.AttributedContent))
	} else {
		p.print(styleMuted.Render("Attributed version not available for this synthesis."))
	}

	return p.navigate(ctx,
		navOption{"Save and finish", ActionNext},
		navOption{"Back to brainstorming", ActionBack},
		navOption{"Start new brainstorming session", ActionRestart},
	)
}

func (p *SurveyPrompter) Failed(ctx context.Context, step Step, err error) (Action, error) {
	p.print(boxStyle(colorError, boxWidth).Render(styleError.Render("An error occurred: ") + err.Error()))
	return p.navigate(ctx,
		navOption{"Retry", ActionNext},
		navOption{"Go back", ActionBack},
	)
}

func (p *SurveyPrompter) Status(msg string) {
	p.print(styleMuted.Render(msg))
}

func (p *SurveyPrompter) Exported(locations []string) {
	for _, loc := range locations {
		p.print(styleSuccess.Render("Saved ") + loc)
	}
}
