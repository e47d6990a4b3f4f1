package symphony

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// StageName identifies one model-backed step of the pipeline.
type StageName string

const (
	StageCreateContext       StageName = "create_context"
	StageGenerateQuestions   StageName = "generate_questions"
	StageSynthesizeQuestions StageName = "synthesize_questions"
	StageBrainstorm          StageName = "brainstorm"
	StageSynthesizeResponses StageName = "synthesize_responses"
)

// stageSchemas maps every stage to the name of the schema it must produce.
var stageSchemas = map[StageName]string{
	StageCreateContext:       "BrainstormingContext",
	StageGenerateQuestions:   "BrainstormQuestions",
	StageSynthesizeQuestions: "BrainstormQuestions",
	StageBrainstorm:          "BrainstormResponses",
	StageSynthesizeResponses: "BrainstormSynthesis",
}

// StageNames returns all stages in pipeline order.
func StageNames() []StageName {
	return []StageName{
		StageCreateContext,
		StageGenerateQuestions,
		StageSynthesizeQuestions,
		StageBrainstorm,
		StageSynthesizeResponses,
	}
}

//go:embed defaults.yaml
var defaultStagesYAML []byte

// StageConfig is the configuration of a single stage. OutputSchema is a
// contract check, not a choice: it must equal the schema the stage decodes.
type StageConfig struct {
	Model        string   `yaml:"model" json:"model"`
	OutputSchema string   `yaml:"output_schema" json:"output_schema"`
	Instruction  string   `yaml:"instruction" json:"instruction"`
	Temperature  *float64 `yaml:"temperature,omitempty" json:"temperature,omitempty"`
	// Thinking is the reasoning effort passed to reasoning models: low,
	// medium or high. Empty leaves reasoning off.
	Thinking string `yaml:"thinking,omitempty" json:"thinking,omitempty"`
}

var thinkingLevels = map[string]bool{"": true, "low": true, "medium": true, "high": true}

// QuestionRange controls how many questions each generation round asks for.
type QuestionRange struct {
	BaseMin int `yaml:"base_min" json:"base_min"`
	StepMin int `yaml:"step_min" json:"step_min"`
	BaseMax int `yaml:"base_max" json:"base_max"`
	StepMax int `yaml:"step_max" json:"step_max"`
}

// For returns the requested question count range for the 0-indexed round.
func (r QuestionRange) For(round int) (int, int) {
	return r.BaseMin + round*r.StepMin, r.BaseMax + round*r.StepMax
}

// Stages is the complete, validated stage configuration.
type Stages struct {
	Stages        map[StageName]StageConfig `yaml:"stages" json:"stages"`
	QuestionRange QuestionRange             `yaml:"question_range" json:"question_range"`
}

// Stage returns the configuration for name. Validated Stages always contain
// every stage.
func (s *Stages) Stage(name StageName) StageConfig {
	return s.Stages[name]
}

// Models returns the distinct models referenced by the stages in pipeline order.
func (s *Stages) Models() []string {
	seen := make(map[string]struct{})
	var models []string
	for _, name := range StageNames() {
		m := s.Stages[name].Model
		if _, ok := seen[m]; ok {
			continue
		}
		seen[m] = struct{}{}
		models = append(models, m)
	}
	return models
}

// Validate checks that every stage is configured and produces the schema it is
// expected to produce.
func (s *Stages) Validate() error {
	var errs []error
	for _, name := range StageNames() {
		cfg, ok := s.Stages[name]
		if !ok {
			errs = append(errs, fmt.Errorf("stage %s is not configured", name))
			continue
		}
		if strings.TrimSpace(cfg.Model) == "" {
			errs = append(errs, fmt.Errorf("stage %s: model must not be empty", name))
		}
		if strings.TrimSpace(cfg.Instruction) == "" {
			errs = append(errs, fmt.Errorf("stage %s: instruction must not be empty", name))
		}
		if want := stageSchemas[name]; cfg.OutputSchema != want {
			errs = append(errs, fmt.Errorf("stage %s: output_schema must be %q, got %q", name, want, cfg.OutputSchema))
		}
		if cfg.Temperature != nil && (*cfg.Temperature < 0 || *cfg.Temperature > 2) {
			errs = append(errs, fmt.Errorf("stage %s: temperature must be between 0 and 2", name))
		}
		if !thinkingLevels[cfg.Thinking] {
			errs = append(errs, fmt.Errorf("stage %s: thinking must be low, medium or high, got %q", name, cfg.Thinking))
		}
	}

	r := s.QuestionRange
	if r.BaseMin < 1 || r.BaseMax < r.BaseMin {
		errs = append(errs, fmt.Errorf("question_range: need 1 <= base_min <= base_max"))
	}
	if r.StepMin < 0 || r.StepMax < r.StepMin {
		errs = append(errs, fmt.Errorf("question_range: need 0 <= step_min <= step_max"))
	}
	return errors.Join(errs...)
}

// rawStageConfig uses pointers to tell missing keys from explicit values.
type rawStageConfig struct {
	Model        *string  `yaml:"model"`
	OutputSchema *string  `yaml:"output_schema"`
	Instruction  *string  `yaml:"instruction"`
	Temperature  *float64 `yaml:"temperature"`
	Thinking     *string  `yaml:"thinking"`
}

type rawQuestionRange struct {
	BaseMin *int `yaml:"base_min"`
	StepMin *int `yaml:"step_min"`
	BaseMax *int `yaml:"base_max"`
	StepMax *int `yaml:"step_max"`
}

type rawStages struct {
	Stages        map[string]*rawStageConfig `yaml:"stages"`
	QuestionRange *rawQuestionRange          `yaml:"question_range"`
}

// DefaultStages returns the embedded default configuration.
func DefaultStages() *Stages {
	s, err := parseStages(&Stages{Stages: map[StageName]StageConfig{}}, defaultStagesYAML)
	if err != nil {
		panic(fmt.Sprintf("invalid embedded stage configuration: %v", err))
	}
	return s
}

// LoadStages returns the default configuration overlaid with the YAML file at
// path. An empty path returns the defaults. Keys missing from the file keep
// their default values.
func LoadStages(path string) (*Stages, error) {
	if path == "" {
		return DefaultStages(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read stages file: %w", err)
	}
	return ParseStages(data)
}

// ParseStages overlays the YAML document data onto the default configuration.
func ParseStages(data []byte) (*Stages, error) {
	return parseStages(DefaultStages(), data)
}

func parseStages(base *Stages, data []byte) (*Stages, error) {
	var raw rawStages
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse stages: %w", err)
	}

	out := &Stages{
		Stages:        make(map[StageName]StageConfig, len(stageSchemas)),
		QuestionRange: base.QuestionRange,
	}
	for name, cfg := range base.Stages {
		out.Stages[name] = cfg
	}

	for key, rs := range raw.Stages {
		name := StageName(key)
		if _, known := stageSchemas[name]; !known {
			return nil, fmt.Errorf("unknown stage %q", key)
		}
		if rs == nil {
			continue
		}
		cfg := out.Stages[name]
		if rs.Model != nil {
			cfg.Model = *rs.Model
		}
		if rs.OutputSchema != nil {
			cfg.OutputSchema = *rs.OutputSchema
		}
		if rs.Instruction != nil {
			cfg.Instruction = strings.TrimSpace(*rs.Instruction)
		}
		if rs.Temperature != nil {
			t := *rs.Temperature
			cfg.Temperature = &t
		}
		if rs.Thinking != nil {
			cfg.Thinking = strings.TrimSpace(*rs.Thinking)
		}
		out.Stages[name] = cfg
	}

	if qr := raw.QuestionRange; qr != nil {
		if qr.BaseMin != nil {
			out.QuestionRange.BaseMin = *qr.BaseMin
		}
		if qr.StepMin != nil {
			out.QuestionRange.StepMin = *qr.StepMin
		}
		if qr.BaseMax != nil {
			out.QuestionRange.BaseMax = *qr.BaseMax
		}
		if qr.StepMax != nil {
			out.QuestionRange.StepMax = *qr.StepMax
		}
	}

	if err := out.Validate(); err != nil {
		return nil, err
	}
	return out, nil
}
