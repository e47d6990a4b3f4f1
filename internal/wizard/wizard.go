// Package wizard drives a brainstorming session step by step: idea, context,
// configuration, questions, optional human answers, AI brainstorming and the
// final synthesis. Every result is kept in the Session until a change earlier
// in the flow invalidates it, so moving back and forth does not repeat calls.
package wizard

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/OFFIS-RIT/symphony/internal/export"
	"github.com/OFFIS-RIT/symphony/pkg/client"
	"github.com/OFFIS-RIT/symphony/pkg/common"
	"github.com/OFFIS-RIT/symphony/pkg/logger"
)

// Step is a state of the wizard.
type Step int

const (
	StepIdea Step = iota + 1
	StepContext
	StepConfigure
	StepQuestions
	StepSynthesizeQuestions
	StepHumanAnswers
	StepBrainstorm
	StepSynthesis
	StepDone
)

var stepNames = map[Step]string{
	StepIdea:                "idea",
	StepContext:             "context",
	StepConfigure:           "configure",
	StepQuestions:           "questions",
	StepSynthesizeQuestions: "synthesize_questions",
	StepHumanAnswers:        "human_answers",
	StepBrainstorm:          "brainstorm",
	StepSynthesis:           "synthesis",
	StepDone:                "done",
}

func (s Step) String() string {
	if name, ok := stepNames[s]; ok {
		return name
	}
	return fmt.Sprintf("step(%d)", int(s))
}

// Action is the navigation chosen by the user at the end of a step.
type Action int

const (
	ActionNext Action = iota
	ActionBack
	ActionRestart
	ActionQuit
)

const (
	MinModelCount       = 1
	MaxModelCount       = 3
	MinParticipantCount = 2
	MaxParticipantCount = 5
)

// Settings configure the brainstorming session.
type Settings struct {
	ModelCount       int
	ParticipantCount int
	IncludeHuman     bool
}

// DefaultSettings are the settings a new session starts with.
func DefaultSettings() Settings {
	return Settings{ModelCount: MinModelCount, ParticipantCount: MinParticipantCount}
}

func (s Settings) clamp() Settings {
	s.ModelCount = min(max(s.ModelCount, MinModelCount), MaxModelCount)
	s.ParticipantCount = min(max(s.ParticipantCount, MinParticipantCount), MaxParticipantCount)
	return s
}

// EstimateDuration returns the expected processing time range for a
// brainstorm with the given number of AI participants.
func EstimateDuration(participants int) (time.Duration, time.Duration) {
	return time.Duration(participants*2) * time.Minute, time.Duration(participants*5) * time.Minute
}

// IdeaAnswer is what the user enters at the idea step.
type IdeaAnswer struct {
	Text string
	// Document is an optional path to a .txt/.md file or an http(s) URL.
	Document string
}

// Session holds everything produced so far.
type Session struct {
	Step     Step
	Idea     common.IdeaInput
	Document string
	Settings Settings

	Context              *common.BrainstormingContext
	QuestionSets         []common.BrainstormQuestions
	SynthesizedQuestions *common.BrainstormQuestions
	Chunks               []common.QuestionChunk
	HumanResponses       []common.BrainstormResponse
	AllResponses         [][]common.BrainstormResponse
	Synthesis            *common.BrainstormSynthesis
	Exported             []string
}

func newSession() *Session {
	return &Session{Step: StepIdea, Settings: DefaultSettings()}
}

func (s *Session) clearFromContext() {
	s.Context = nil
	s.clearFromQuestions()
}

func (s *Session) clearFromQuestions() {
	s.QuestionSets = nil
	s.clearFromSynthesizedQuestions()
}

func (s *Session) clearFromSynthesizedQuestions() {
	s.SynthesizedQuestions = nil
	s.Chunks = nil
	s.HumanResponses = nil
	s.clearFromBrainstorm()
}

func (s *Session) clearFromBrainstorm() {
	s.AllResponses = nil
	s.Synthesis = nil
	s.Exported = nil
}

// DocumentLoader returns the text of a supporting document.
type DocumentLoader func(ctx context.Context, source string) (string, error)

type Wizard struct {
	client     client.Client
	prompter   Prompter
	loadDoc    DocumentLoader
	exporter   export.Exporter
	sampleIdea string
	now        func() time.Time
}

type NewWizardParams struct {
	Client   client.Client
	Prompter Prompter
	// LoadDocument reads supporting documents. Without it documents are rejected.
	LoadDocument DocumentLoader
	// Exporter stores the final synthesis when the session is finished.
	Exporter export.Exporter
	// SampleIdea pre-fills the idea prompt.
	SampleIdea string
}

func NewWizard(params NewWizardParams) (*Wizard, error) {
	if params.Client == nil || params.Prompter == nil {
		return nil, errors.New("wizard needs a client and a prompter")
	}
	return &Wizard{
		client:     params.Client,
		prompter:   params.Prompter,
		loadDoc:    params.LoadDocument,
		exporter:   params.Exporter,
		sampleIdea: params.SampleIdea,
		now:        time.Now,
	}, nil
}

// Run drives a session until it is finished or the user quits. The returned
// session is the last one worked on.
func (w *Wizard) Run(ctx context.Context) (*Session, error) {
	s := newSession()
	for s.Step != StepDone {
		if err := ctx.Err(); err != nil {
			return s, err
		}

		logger.Debug("Wizard step", "step", s.Step)
		action, err := w.step(ctx, s)
		if err != nil {
			var stageErr *stageError
			if !errors.As(err, &stageErr) {
				return s, err
			}
			logger.Error("Failed to run step", "step", s.Step, "err", stageErr.err)
			action, err = w.prompter.Failed(ctx, s.Step, stageErr.err)
			if err != nil {
				return s, err
			}
			if action == ActionNext {
				// retry the step
				continue
			}
		}

		switch action {
		case ActionQuit:
			return s, nil
		case ActionRestart:
			s = newSession()
		case ActionBack:
			s.Step = w.back(s)
		default:
			s.Step = w.next(s)
		}
	}
	return s, nil
}

// stageError marks a failed service call; the user may retry it.
type stageError struct {
	err error
}

func (e *stageError) Error() string { return e.err.Error() }

func (w *Wizard) step(ctx context.Context, s *Session) (Action, error) {
	switch s.Step {
	case StepIdea:
		return w.idea(ctx, s)
	case StepContext:
		return w.context(ctx, s)
	case StepConfigure:
		return w.configure(ctx, s)
	case StepQuestions:
		return w.questions(ctx, s)
	case StepSynthesizeQuestions:
		return w.synthesizeQuestions(ctx, s)
	case StepHumanAnswers:
		return w.humanAnswers(ctx, s)
	case StepBrainstorm:
		return w.brainstorm(ctx, s)
	case StepSynthesis:
		return w.synthesis(ctx, s)
	}
	return ActionQuit, fmt.Errorf("unknown step %s", s.Step)
}

// next returns the step after s.Step. Question synthesis is skipped for a
// single question set and human answers when the user does not take part.
func (w *Wizard) next(s *Session) Step {
	switch s.Step {
	case StepQuestions:
		if s.Settings.ModelCount > 1 {
			return StepSynthesizeQuestions
		}
		return w.afterQuestions(s)
	case StepSynthesizeQuestions:
		return w.afterQuestions(s)
	case StepSynthesis:
		return StepDone
	}
	return s.Step + 1
}

func (w *Wizard) afterQuestions(s *Session) Step {
	if s.Settings.IncludeHuman {
		return StepHumanAnswers
	}
	return StepBrainstorm
}

func (w *Wizard) back(s *Session) Step {
	switch s.Step {
	case StepIdea:
		return StepIdea
	case StepSynthesizeQuestions:
		s.clearFromSynthesizedQuestions()
		return StepQuestions
	case StepHumanAnswers:
		s.HumanResponses = nil
		return w.beforeAnswers(s)
	case StepBrainstorm:
		s.clearFromBrainstorm()
		if s.Settings.IncludeHuman {
			return StepHumanAnswers
		}
		return w.beforeAnswers(s)
	case StepSynthesis:
		s.Synthesis = nil
		s.Exported = nil
		return StepBrainstorm
	}
	return s.Step - 1
}

func (w *Wizard) beforeAnswers(s *Session) Step {
	if s.Settings.ModelCount > 1 {
		return StepSynthesizeQuestions
	}
	return StepQuestions
}

func (w *Wizard) idea(ctx context.Context, s *Session) (Action, error) {
	def := IdeaAnswer{Text: s.Idea.IdeaText, Document: s.Document}
	if def.Text == "" {
		def.Text = w.sampleIdea
	}
	ans, action, err := w.prompter.Idea(ctx, def)
	if err != nil || action != ActionNext {
		return action, err
	}

	text := strings.TrimSpace(ans.Text)
	if text == "" {
		return ActionQuit, &stageError{errors.New("the idea must not be empty")}
	}

	var doc *string
	source := strings.TrimSpace(ans.Document)
	if source != "" {
		if w.loadDoc == nil {
			return ActionQuit, &stageError{errors.New("supporting documents are not available")}
		}
		content, err := w.loadDoc(ctx, source)
		if err != nil {
			return ActionQuit, &stageError{fmt.Errorf("load document: %w", err)}
		}
		doc = &content
	}

	if text != s.Idea.IdeaText || deref(doc) != deref(s.Idea.DocumentContent) {
		s.clearFromContext()
	}
	s.Idea = common.IdeaInput{IdeaText: text, DocumentContent: doc}
	s.Document = source
	return ActionNext, nil
}

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func (w *Wizard) context(ctx context.Context, s *Session) (Action, error) {
	if s.Context == nil {
		w.prompter.Status("Creating context document...")
		res, err := w.client.CreateContext(ctx, s.Idea)
		if err != nil {
			return ActionQuit, &stageError{err}
		}
		s.Context = res
	}

	edited, action, err := w.prompter.ReviewContext(ctx, *s.Context)
	if err != nil {
		return action, err
	}
	if edited = strings.TrimSpace(edited); edited != "" && edited != s.Context.Context {
		s.clearFromQuestions()
		s.Context.Context = edited
	}
	return action, nil
}

func (w *Wizard) configure(ctx context.Context, s *Session) (Action, error) {
	lo, hi := EstimateDuration(s.Settings.ParticipantCount)
	settings, action, err := w.prompter.Configure(ctx, s.Settings, Estimate{Min: lo, Max: hi})
	if err != nil {
		return action, err
	}

	settings = settings.clamp()
	if settings.ModelCount != s.Settings.ModelCount {
		s.clearFromQuestions()
	}
	if settings.ParticipantCount != s.Settings.ParticipantCount || settings.IncludeHuman != s.Settings.IncludeHuman {
		s.clearFromBrainstorm()
	}
	s.Settings = settings
	return action, nil
}

func (w *Wizard) questions(ctx context.Context, s *Session) (Action, error) {
	if s.QuestionSets == nil {
		w.prompter.Status(fmt.Sprintf("Generating questions using %d model(s)...", s.Settings.ModelCount))
		sets, err := w.client.GenerateQuestions(ctx, *s.Context, s.Settings.ModelCount)
		if err != nil {
			return ActionQuit, &stageError{err}
		}
		if len(sets) == 0 {
			return ActionQuit, &stageError{errors.New("no questions were generated")}
		}
		s.QuestionSets = sets
	}

	// A single set is already the final set.
	if s.Settings.ModelCount == 1 && s.Chunks == nil {
		set := s.QuestionSets[0]
		chunks, err := w.client.ChunkQuestions(ctx, set)
		if err != nil {
			return ActionQuit, &stageError{err}
		}
		s.SynthesizedQuestions = &set
		s.Chunks = chunks
	}

	return w.prompter.ReviewQuestionSets(ctx, s.QuestionSets)
}

func (w *Wizard) synthesizeQuestions(ctx context.Context, s *Session) (Action, error) {
	if s.SynthesizedQuestions == nil {
		w.prompter.Status("Synthesizing questions...")
		res, err := w.client.SynthesizeQuestions(ctx, s.QuestionSets)
		if err != nil {
			return ActionQuit, &stageError{err}
		}
		chunks, err := w.client.ChunkQuestions(ctx, *res)
		if err != nil {
			return ActionQuit, &stageError{err}
		}
		s.SynthesizedQuestions = res
		s.Chunks = chunks
	}

	return w.prompter.ReviewSynthesizedQuestions(ctx, *s.SynthesizedQuestions)
}

func (w *Wizard) humanAnswers(ctx context.Context, s *Session) (Action, error) {
	answers, action, err := w.prompter.AnswerQuestions(ctx, s.Chunks, s.HumanResponses)
	if err != nil || action != ActionNext {
		return action, err
	}

	cleaned := CleanHumanResponses(answers)
	s.HumanResponses = cleaned
	s.clearFromBrainstorm()
	return ActionNext, nil
}

// CleanHumanResponses drops blank and bullet-only answers and questions left
// without answers.
func CleanHumanResponses(in []common.BrainstormResponse) []common.BrainstormResponse {
	out := make([]common.BrainstormResponse, 0, len(in))
	for _, r := range in {
		answers := make([]string, 0, len(r.Answers))
		for _, a := range r.Answers {
			if a = stripBullet(a); a != "" {
				answers = append(answers, a)
			}
		}
		if len(answers) == 0 {
			continue
		}
		r.Answers = answers
		out = append(out, r)
	}
	return out
}

func (w *Wizard) brainstorm(ctx context.Context, s *Session) (Action, error) {
	if s.AllResponses == nil {
		lo, hi := EstimateDuration(s.Settings.ParticipantCount)
		w.prompter.Status(fmt.Sprintf("Generating AI responses, this takes about %d-%d minutes...",
			int(lo.Minutes()), int(hi.Minutes())))
		res, err := w.client.Brainstorm(ctx, *s.Context, s.Chunks, s.Settings.ParticipantCount)
		if err != nil {
			return ActionQuit, &stageError{err}
		}
		// The human takes part as the last participant.
		if s.Settings.IncludeHuman && len(s.HumanResponses) > 0 {
			res = append(res, s.HumanResponses)
		}
		s.AllResponses = res
	}

	return w.prompter.ReviewResponses(ctx, s.Chunks, s.AllResponses)
}

func (w *Wizard) synthesis(ctx context.Context, s *Session) (Action, error) {
	if s.Synthesis == nil {
		w.prompter.Status("Synthesizing all brainstorming responses...")
		res, err := w.client.Synthesize(ctx, s.AllResponses)
		if err != nil {
			return ActionQuit, &stageError{err}
		}
		s.Synthesis = res
	}

	action, err := w.prompter.ReviewSynthesis(ctx, *s.Synthesis)
	if err != nil || action != ActionNext {
		return action, err
	}

	if w.exporter != nil && s.Exported == nil {
		locs, err := export.Synthesis(ctx, w.exporter, *s.Synthesis, w.now())
		if err != nil {
			return ActionQuit, &stageError{err}
		}
		s.Exported = locs
		w.prompter.Exported(locs)
	}
	return ActionNext, nil
}
