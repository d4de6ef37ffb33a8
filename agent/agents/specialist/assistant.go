package specialist

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	einotool "github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/schema"
	"github.com/rs/zerolog/log"
	contractx "github.com/tanpawarit/enchanted-day-orchestrator/agent/contract"
	toolx "github.com/tanpawarit/enchanted-day-orchestrator/agent/tool"
	metricsx "github.com/tanpawarit/enchanted-day-orchestrator/pkg/metrics"
)

// Assistant answers one delegated query with a scoped reasoning engine.
type Assistant struct {
	def          Definition
	runner       contractx.Runner
	capabilities []string
	metrics      metricsx.Recorder
}

var _ contractx.Assistant = (*Assistant)(nil)

func (a *Assistant) Name() contractx.AgentType {
	return a.def.Name
}

func (a *Assistant) Definition() Definition {
	return cloneDefinition(a.def)
}

// Capabilities lists the tool names bound to this assistant's engine.
func (a *Assistant) Capabilities() []string {
	out := make([]string, len(a.capabilities))
	copy(out, a.capabilities)
	return out
}

// Invoke runs the query. Every failure, including a panic inside the engine,
// comes back as *contract.AssistantError.
func (a *Assistant) Invoke(ctx context.Context, query string) (out string, err error) {
	started := time.Now()
	defer func() {
		if r := recover(); r != nil {
			out = ""
			err = &contractx.AssistantError{
				Assistant: a.def.Name,
				Label:     a.def.Label,
				Kind:      contractx.FailurePanic,
				Err:       fmt.Errorf("%v", r),
			}
		}

		status := metricsx.StatusOK
		if err != nil {
			status = metricsx.StatusError
			log.Warn().Err(err).Str("assistant", string(a.def.Name)).Msg("assistant invocation failed")
		}
		a.metrics.ObserveAssistant(string(a.def.Name), status, time.Since(started))
	}()

	if strings.TrimSpace(query) == "" {
		return "", a.fail(fmt.Errorf("%w: query is empty", contractx.ErrValidation))
	}

	out, err = a.runner.Run(ctx, query)
	if err != nil {
		return "", a.fail(err)
	}
	return out, nil
}

func (a *Assistant) fail(err error) *contractx.AssistantError {
	return &contractx.AssistantError{
		Assistant: a.def.Name,
		Label:     a.def.Label,
		Kind:      contractx.ClassifyFailure(err),
		Err:       err,
	}
}

type assistantArgs struct {
	Query string `json:"query"`
}

// Tool exposes the assistant to a parent engine. Failures are flattened to
// their message and never returned as errors.
func (a *Assistant) Tool() einotool.InvokableTool {
	params := map[string]*schema.ParameterInfo{
		"query": {Type: schema.String, Desc: "The request for this assistant, with every relevant detail such as the wedding id", Required: true},
	}
	return toolx.NewFunc(a.def.ToolName, a.def.Description, params, func(ctx context.Context, args string) (string, error) {
		var in assistantArgs
		raw := strings.TrimSpace(args)
		if raw == "" {
			raw = "{}"
		}
		if err := decodeQuery(raw, &in); err != nil {
			return a.fail(err).Error(), nil
		}

		out, err := a.Invoke(ctx, in.Query)
		if err != nil {
			return err.Error(), nil
		}
		return out, nil
	})
}

func decodeQuery(raw string, out *assistantArgs) error {
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		return fmt.Errorf("%w: invalid assistant arguments: %v", contractx.ErrValidation, err)
	}
	return nil
}
