package pipeline

import (
	"errors"
	"fmt"

	"github.com/issuepilot/pkg/models"
)

// ErrUserCancelled is the explicit, first-class terminal state for a user
// choosing to quit at any prompt. It is not a failure: callers exit 0.
var ErrUserCancelled = errors.New("cancelled by user")

// GenerationError wraps a text-service failure (empty or error result).
// It is recoverable: the caller offers regeneration or a manual fallback.
type GenerationError struct {
	Stage string
	Err   error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("generation failed during %s: %v", e.Stage, e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }

// ValidationError reports generated content that failed a named rule.
// It loops back into regeneration rather than halting the pipeline.
type ValidationError struct {
	Rule   string
	Detail string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation rule %s failed: %s", e.Rule, e.Detail)
}

// MissingTargetError halts a target-requiring operation that lacked a
// usable issue number. Zero side effects have occurred when it is raised.
type MissingTargetError struct {
	Operation models.Operation
	Detail    string
}

func (e *MissingTargetError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("operation %q has no usable issue number: %s", e.Operation, e.Detail)
	}
	return fmt.Sprintf("operation %q requires an issue number but none was given", e.Operation)
}

// UnsupportedOperationError rejects an operation outside the fixed enum at
// dispatch time. The extractor is permissive; this is where leniency ends.
type UnsupportedOperationError struct {
	Operation models.Operation
}

func (e *UnsupportedOperationError) Error() string {
	return fmt.Sprintf("unsupported operation %q", e.Operation)
}

// ExternalOperationError reports a tracker rejection of the final mutation.
// The tracker is the source of truth; the message is surfaced verbatim and
// no local recovery is attempted.
type ExternalOperationError struct {
	Operation models.Operation
	Err       error
}

func (e *ExternalOperationError) Error() string {
	return fmt.Sprintf("tracker rejected %s: %v", e.Operation, e.Err)
}

func (e *ExternalOperationError) Unwrap() error { return e.Err }
