package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"time"

	einotool "github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/compose"
	contractx "github.com/tanpawarit/enchanted-day-orchestrator/agent/contract"
	enginex "github.com/tanpawarit/enchanted-day-orchestrator/agent/engine"
	nodex "github.com/tanpawarit/enchanted-day-orchestrator/agent/nodes/orchestrator"
	metricsx "github.com/tanpawarit/enchanted-day-orchestrator/pkg/metrics"
)

// Assistants supplies the delegated assistants as tools.
type Assistants interface {
	Tools() []einotool.InvokableTool
}

type Deps struct {
	Assistants   Assistants
	Utilities    []einotool.InvokableTool
	Resources    nodex.PromptComposer
	Models       contractx.ModelFactory
	SystemPrompt string
	Metrics      metricsx.Recorder
	MaxSteps     int
}

// Orchestrator owns one engine binding. Build a fresh one per request.
type Orchestrator struct {
	resources nodex.PromptComposer
	engine    *enginex.Engine

	graphRunner compose.Runnable[nodex.GraphInput, nodex.GraphOutput]

	now func() time.Time
}

func New(ctx context.Context, deps Deps) (*Orchestrator, error) {
	if deps.Assistants == nil {
		return nil, errors.New("assistants are required")
	}
	if deps.Resources == nil {
		return nil, errors.New("resource context is required")
	}
	if deps.Models == nil {
		return nil, errors.New("model factory is required")
	}

	chatModel, err := deps.Models.NewChatModel(ctx, contractx.AgentTypeOrchestrator)
	if err != nil {
		return nil, fmt.Errorf("%w: create orchestrator model: %v", contractx.ErrModelInvoke, err)
	}

	tools := append(deps.Assistants.Tools(), deps.Utilities...)
	eng, err := enginex.New(ctx, enginex.Config{
		Agent:        contractx.AgentTypeOrchestrator,
		SystemPrompt: deps.SystemPrompt,
		Model:        chatModel,
		Tools:        tools,
		MaxSteps:     deps.MaxSteps,
		Metrics:      deps.Metrics,
	})
	if err != nil {
		return nil, err
	}

	o := &Orchestrator{
		resources: deps.Resources,
		engine:    eng,
		now:       time.Now,
	}

	graphRunner, err := o.compileInvokeGraph(ctx)
	if err != nil {
		return nil, err
	}
	o.graphRunner = graphRunner

	return o, nil
}

// Capabilities lists the tools bound to the orchestrator engine.
func (o *Orchestrator) Capabilities() []string {
	return o.engine.ToolNames()
}

func (o *Orchestrator) Invoke(ctx context.Context, prompt string, weddingID *string) (string, error) {
	out, err := o.graphRunner.Invoke(ctx, nodex.GraphInput{
		Prompt:    prompt,
		WeddingID: weddingID,
	})
	if err != nil {
		return "", err
	}
	return out.Response, nil
}
