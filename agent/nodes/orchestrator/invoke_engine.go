package orchestratornode

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	contractx "github.com/tanpawarit/enchanted-day-orchestrator/agent/contract"
)

func InvokeEngine(ctx context.Context, in *GraphState, runner contractx.Runner) (*GraphState, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}

	reply, err := runner.Run(ctx, in.Composite)
	if err != nil {
		return nil, err
	}
	log.Debug().Int("reply_len", len(reply)).Dur("elapsed", time.Since(in.Now)).Msg("orchestrator engine replied")

	in.Reply = reply
	return in, nil
}
