// Package symphony chains the model-backed stages of a brainstorming session:
// distilling an idea into context, generating and merging questions, letting
// simulated participants answer them and synthesizing the answers.
package symphony

import (
	"context"
	"errors"
	"time"

	"github.com/OFFIS-RIT/symphony/internal/util"
	"github.com/OFFIS-RIT/symphony/pkg/ai"
	"github.com/OFFIS-RIT/symphony/pkg/logger"

	"github.com/go-playground/validator"
)

// Orchestrator runs the pipeline stages against an ai.Client.
//
// An Orchestrator should be created using NewOrchestrator. It holds no
// per-session state and is safe for concurrent use.
type Orchestrator struct {
	client      ai.Client
	stages      *Stages
	maxRetries  int
	maxParallel int
	validate    *validator.Validate
}

// NewOrchestratorParams configures an Orchestrator.
//
// Stages defaults to DefaultStages. MaxRetries is the number of attempts per
// model call; values below one mean a single attempt. MaxParallel bounds the
// concurrent question rounds and participants; zero means no bound.
type NewOrchestratorParams struct {
	Client      ai.Client
	Stages      *Stages
	MaxRetries  int
	MaxParallel int
}

func NewOrchestrator(params NewOrchestratorParams) (*Orchestrator, error) {
	if params.Client == nil {
		return nil, errors.New("ai client is required")
	}
	stages := params.Stages
	if stages == nil {
		stages = DefaultStages()
	}
	if err := stages.Validate(); err != nil {
		return nil, err
	}

	return &Orchestrator{
		client:      params.Client,
		stages:      stages,
		maxRetries:  max(params.MaxRetries, 1),
		maxParallel: params.MaxParallel,
		validate:    validator.New(),
	}, nil
}

// Stages returns the effective stage configuration.
func (o *Orchestrator) Stages() *Stages {
	return o.stages
}

func (o *Orchestrator) generateOptions(stage StageName) []ai.GenerateOption {
	cfg := o.stages.Stage(stage)
	opts := []ai.GenerateOption{
		ai.WithModel(cfg.Model),
		ai.WithSystemPrompts(cfg.Instruction),
	}
	if cfg.Temperature != nil {
		opts = append(opts, ai.WithTemperature(*cfg.Temperature))
	}
	if cfg.Thinking != "" {
		opts = append(opts, ai.WithThinking(cfg.Thinking))
	}
	return opts
}

// invoke runs one model call for stage and decodes the answer into a fresh T.
// Every failure is reported as an *InvocationError.
func invoke[T any](ctx context.Context, o *Orchestrator, stage StageName, description, prompt string) (T, error) {
	cfg := o.stages.Stage(stage)
	opts := o.generateOptions(stage)

	logger.Debug("Invoking stage", "stage", stage, "model", cfg.Model)
	start := time.Now()

	out, err := util.RetryWithContext(ctx, o.maxRetries, func(ctx context.Context) (T, error) {
		var out T
		err := o.client.GenerateCompletionWithFormat(ctx, cfg.OutputSchema, description, prompt, &out, opts...)
		if err != nil {
			logger.Debug("Stage attempt failed", "stage", stage, "err", err)
		}
		return out, err
	})
	if err != nil {
		var zero T
		return zero, &InvocationError{Stage: stage, Err: err}
	}

	logger.Debug("Stage finished", "stage", stage, "duration", time.Since(start))
	return out, nil
}

// check validates a converted stage result with its validate tags.
func (o *Orchestrator) check(stage StageName, v any) error {
	if err := o.validate.Struct(v); err != nil {
		return &InvocationError{Stage: stage, Err: errors.Join(ErrEmptyOutput, err)}
	}
	return nil
}
