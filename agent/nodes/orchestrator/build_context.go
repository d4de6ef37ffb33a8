package orchestratornode

import (
	"fmt"

	contractx "github.com/tanpawarit/enchanted-day-orchestrator/agent/contract"
)

type PromptComposer interface {
	ComposePrompt(prompt string, weddingID *string) string
}

func BuildContext(in *GraphState, resources PromptComposer) (*GraphState, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}
	in.Composite = resources.ComposePrompt(in.Prompt, in.WeddingID)
	return in, nil
}
