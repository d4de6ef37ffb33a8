package orchestratornode

import (
	"fmt"
	"time"

	contractx "github.com/tanpawarit/enchanted-day-orchestrator/agent/contract"
)

type GraphInput struct {
	Prompt    string
	WeddingID *string
}

type GraphOutput struct {
	Response string
}

type GraphState struct {
	Prompt    string
	WeddingID *string
	Now       time.Time

	Composite string
	Reply     string
}

// ValidateRequest accepts any non-empty prompt as-is.
func ValidateRequest(in GraphInput, nowFn func() time.Time) (*GraphState, error) {
	if in.Prompt == "" {
		return nil, fmt.Errorf("%w: orchestrator prompt", contractx.ErrPromptMissing)
	}

	return &GraphState{
		Prompt:    in.Prompt,
		WeddingID: in.WeddingID,
		Now:       nowFn().UTC(),
	}, nil
}
