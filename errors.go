package textpipe

import (
	"errors"
	"fmt"
)

// PipelineError is the terminal error of a Pipe. Stage names the operator
// that failed, Item is the input it was handling when known, and Reason is
// the underlying error: an upstream failure, a
// *charset.MalformedSequenceError, a *charset.UnmappableCharacterError, or
// whatever a user function returned.
type PipelineError struct {
	Stage  string
	Item   any
	Reason error
}

func (e *PipelineError) Error() string {
	if e.Item != nil {
		return fmt.Sprintf("textpipe: %s: item %v: %v", e.Stage, e.Item, e.Reason)
	}
	return fmt.Sprintf("textpipe: %s: %v", e.Stage, e.Reason)
}

func (e *PipelineError) Unwrap() error {
	return e.Reason
}

// wrap returns err as a *PipelineError. Errors that already carry one are
// returned unchanged so a failure is reported by the stage that caused it.
func wrap(stage string, item any, err error) error {
	var pe *PipelineError
	if errors.As(err, &pe) {
		return err
	}
	return &PipelineError{Stage: stage, Item: item, Reason: err}
}

func failed[T any](stage string, err error) Pipe[T] {
	return Pipe[T]{
		seq: func(yield func(T, error) bool) {
			var zero T
			yield(zero, wrap(stage, nil, err))
		},
	}
}
