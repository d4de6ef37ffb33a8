package contract

import (
	"errors"
	"fmt"
)

var (
	ErrModelInvoke     = errors.New("model invoke failed")
	ErrSchemaViolation = errors.New("model response violates schema")
	ErrPromptMissing   = errors.New("required prompt is missing")
	ErrValidation      = errors.New("validation failed")
	ErrCapability      = errors.New("capability failed")
)

type FailureKind string

const (
	FailureValidation FailureKind = "validation"
	FailureModel      FailureKind = "model"
	FailureCapability FailureKind = "capability"
	FailurePanic      FailureKind = "panic"
)

// ClassifyFailure maps a wrapped sentinel to the failure kind reported by assistants.
func ClassifyFailure(err error) FailureKind {
	switch {
	case errors.Is(err, ErrCapability):
		return FailureCapability
	case errors.Is(err, ErrValidation), errors.Is(err, ErrPromptMissing):
		return FailureValidation
	default:
		return FailureModel
	}
}

// AssistantError is the typed failure of a delegated assistant call.
type AssistantError struct {
	Assistant AgentType
	Label     string
	Kind      FailureKind
	Err       error
}

func (e *AssistantError) Error() string {
	msg := "<nil>"
	if e.Err != nil {
		msg = e.Err.Error()
	}
	return fmt.Sprintf("Error in %s: %s", e.Label, msg)
}

func (e *AssistantError) Unwrap() error {
	return e.Err
}

// CapabilityError carries a backend failure raised while a tool was executing.
// Its message is the backend's own message.
type CapabilityError struct {
	Tool string
	Err  error
}

func (e *CapabilityError) Error() string {
	if e.Err == nil {
		return "capability " + e.Tool + " failed"
	}
	return e.Err.Error()
}

func (e *CapabilityError) Unwrap() []error {
	return []error{ErrCapability, e.Err}
}

// Handoff stops the engine loop and hands the conversation back to the user.
type Handoff struct {
	Message string
}

func (h *Handoff) Error() string {
	return "handoff to user: " + h.Message
}
