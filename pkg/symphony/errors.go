package symphony

import (
	"errors"
	"fmt"
)

var (
	// ErrNoQuestionSets is returned when question synthesis receives no sets.
	ErrNoQuestionSets = errors.New("at least one question set is required")
	// ErrNoResponses is returned when response synthesis receives no participants.
	ErrNoResponses = errors.New("at least one participant's responses are required")
	// ErrInvalidCount is returned for a model or participant count below one.
	ErrInvalidCount = errors.New("count must be at least 1")
	// ErrEmptyOutput is wrapped in an InvocationError when the model returned
	// a well-formed answer that is missing required content.
	ErrEmptyOutput = errors.New("model returned no usable content")
)

// InvocationError reports that a stage's model call failed or that its output
// could not be coerced into the stage's schema.
type InvocationError struct {
	Stage StageName
	Err   error
}

func (e *InvocationError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Stage, e.Err)
}

func (e *InvocationError) Unwrap() error {
	return e.Err
}
