package engine

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	einomodel "github.com/cloudwego/eino/components/model"
	einotool "github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"
	"github.com/rs/zerolog/log"
	contractx "github.com/tanpawarit/enchanted-day-orchestrator/agent/contract"
	metricsx "github.com/tanpawarit/enchanted-day-orchestrator/pkg/metrics"
)

const DefaultMaxSteps = 12

var ErrMaxSteps = errors.New("reasoning step limit reached")

type Config struct {
	Agent        contractx.AgentType
	SystemPrompt string
	Model        einomodel.ToolCallingChatModel
	Tools        []einotool.InvokableTool
	MaxSteps     int
	Metrics      metricsx.Recorder
}

// Engine binds a tool-calling chat model to a fixed tool set. Tool calls
// naming anything outside that set are answered, never executed.
type Engine struct {
	agent    contractx.AgentType
	runner   compose.Runnable[map[string]any, *schema.Message]
	tools    map[string]einotool.InvokableTool
	names    []string
	maxSteps int
	metrics  metricsx.Recorder
}

func New(ctx context.Context, cfg Config) (*Engine, error) {
	if cfg.Model == nil {
		return nil, fmt.Errorf("%w: chat model is required for agent=%s", contractx.ErrValidation, cfg.Agent)
	}
	if strings.TrimSpace(cfg.SystemPrompt) == "" {
		return nil, fmt.Errorf("%w: system prompt for agent=%s", contractx.ErrPromptMissing, cfg.Agent)
	}

	tools := make(map[string]einotool.InvokableTool, len(cfg.Tools))
	infos := make([]*schema.ToolInfo, 0, len(cfg.Tools))
	names := make([]string, 0, len(cfg.Tools))
	for _, t := range cfg.Tools {
		if t == nil {
			continue
		}
		info, err := t.Info(ctx)
		if err != nil {
			return nil, fmt.Errorf("read tool info for agent=%s: %w", cfg.Agent, err)
		}
		if info == nil || strings.TrimSpace(info.Name) == "" {
			return nil, fmt.Errorf("%w: tool without a name bound to agent=%s", contractx.ErrValidation, cfg.Agent)
		}
		if _, dup := tools[info.Name]; dup {
			return nil, fmt.Errorf("%w: tool=%s bound twice to agent=%s", contractx.ErrValidation, info.Name, cfg.Agent)
		}
		tools[info.Name] = t
		infos = append(infos, info)
		names = append(names, info.Name)
	}

	var chatModel einomodel.BaseChatModel = cfg.Model
	if len(infos) > 0 {
		bound, err := cfg.Model.WithTools(infos)
		if err != nil {
			return nil, fmt.Errorf("%w: bind tools for agent=%s: %v", contractx.ErrModelInvoke, cfg.Agent, err)
		}
		chatModel = bound
	}

	runner, err := compileStepGraph(ctx, chatModel, cfg.SystemPrompt, string(cfg.Agent)+".step_graph")
	if err != nil {
		return nil, fmt.Errorf("%w: compile step graph for agent=%s: %v", contractx.ErrModelInvoke, cfg.Agent, err)
	}

	maxSteps := cfg.MaxSteps
	if maxSteps <= 0 {
		maxSteps = DefaultMaxSteps
	}

	return &Engine{
		agent:    cfg.Agent,
		runner:   runner,
		tools:    tools,
		names:    names,
		maxSteps: maxSteps,
		metrics:  metricsx.OrNoop(cfg.Metrics),
	}, nil
}

// ToolNames lists the bound tools in binding order.
func (e *Engine) ToolNames() []string {
	out := make([]string, len(e.names))
	copy(out, e.names)
	return out
}

// Run drives the model until it answers without tool calls.
func (e *Engine) Run(ctx context.Context, query string) (string, error) {
	history := []*schema.Message{schema.UserMessage(query)}

	for step := 0; step < e.maxSteps; step++ {
		msg, err := e.runner.Invoke(ctx, map[string]any{historyKey: history})
		if err != nil {
			return "", fmt.Errorf("%w: agent=%s step=%d: %v", contractx.ErrModelInvoke, e.agent, step, err)
		}
		if msg == nil {
			return "", fmt.Errorf("%w: empty model response for agent=%s", contractx.ErrSchemaViolation, e.agent)
		}

		if len(msg.ToolCalls) == 0 {
			return msg.Content, nil
		}

		history = append(history, msg)
		for _, call := range msg.ToolCalls {
			content, err := e.call(ctx, call)
			if err != nil {
				var handoff *contractx.Handoff
				if errors.As(err, &handoff) {
					return handoff.Message, nil
				}
				return "", err
			}
			history = append(history, schema.ToolMessage(content, call.ID))
		}
	}

	return "", fmt.Errorf("%w: agent=%s steps=%d", ErrMaxSteps, e.agent, e.maxSteps)
}

func (e *Engine) call(ctx context.Context, call schema.ToolCall) (string, error) {
	name := strings.TrimSpace(call.Function.Name)
	t, ok := e.tools[name]
	if !ok {
		log.Warn().Str("agent", string(e.agent)).Str("tool", name).Msg("model requested unbound tool")
		e.metrics.ObserveCapability(string(e.agent), name, "unavailable")
		return unavailable(e.agent, name), nil
	}

	args := strings.TrimSpace(call.Function.Arguments)
	if args == "" {
		args = "{}"
	}

	out, err := t.InvokableRun(ctx, args)
	if err != nil {
		var handoff *contractx.Handoff
		if errors.As(err, &handoff) {
			e.metrics.ObserveCapability(string(e.agent), name, "handoff")
			return "", err
		}
		e.metrics.ObserveCapability(string(e.agent), name, metricsx.StatusError)
		log.Error().Err(err).Str("agent", string(e.agent)).Str("tool", name).Msg("capability failed")

		var capErr *contractx.CapabilityError
		if errors.As(err, &capErr) {
			return "", err
		}
		return "", &contractx.CapabilityError{Tool: name, Err: err}
	}

	e.metrics.ObserveCapability(string(e.agent), name, metricsx.StatusOK)
	return out, nil
}

func unavailable(agent contractx.AgentType, name string) string {
	raw, _ := json.Marshal(contractx.ToolResult{
		Tool:  name,
		Error: fmt.Sprintf("tool=%s is unavailable for agent=%s", name, agent),
	})
	return string(raw)
}
