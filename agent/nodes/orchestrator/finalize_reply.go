package orchestratornode

import (
	"fmt"

	contractx "github.com/tanpawarit/enchanted-day-orchestrator/agent/contract"
)

// FinalizeReply passes the engine text through unchanged.
func FinalizeReply(in *GraphState) (GraphOutput, error) {
	if in == nil {
		return GraphOutput{}, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}
	return GraphOutput{Response: in.Reply}, nil
}
