package specialist

import (
	"context"
	"fmt"

	einotool "github.com/cloudwego/eino/components/tool"
	contractx "github.com/tanpawarit/enchanted-day-orchestrator/agent/contract"
	enginex "github.com/tanpawarit/enchanted-day-orchestrator/agent/engine"
	promptx "github.com/tanpawarit/enchanted-day-orchestrator/agent/prompt"
	"github.com/tanpawarit/enchanted-day-orchestrator/agent/record"
	toolx "github.com/tanpawarit/enchanted-day-orchestrator/agent/tool"
	metricsx "github.com/tanpawarit/enchanted-day-orchestrator/pkg/metrics"
)

type Deps struct {
	Store    record.Store
	Models   contractx.ModelFactory
	Prompts  promptx.PromptSet
	Metrics  metricsx.Recorder
	MaxSteps int
}

// Registry holds the repository assistant and the five specialized ones.
type Registry struct {
	repository  *Assistant
	specialized []*Assistant
	byName      map[contractx.AgentType]*Assistant
}

func NewRegistry(ctx context.Context, deps Deps) (*Registry, error) {
	if deps.Store == nil {
		return nil, fmt.Errorf("%w: record store is required", contractx.ErrValidation)
	}
	if deps.Models == nil {
		return nil, fmt.Errorf("%w: model factory is required", contractx.ErrValidation)
	}
	deps.Metrics = metricsx.OrNoop(deps.Metrics)

	repository, err := newAssistant(ctx, deps, repositoryDefinition, nil)
	if err != nil {
		return nil, err
	}

	reg := &Registry{
		repository:  repository,
		specialized: make([]*Assistant, 0, len(specializedDefinitions)),
		byName:      map[contractx.AgentType]*Assistant{repository.Name(): repository},
	}
	for _, def := range specializedDefinitions {
		var extra []einotool.InvokableTool
		if def.Escalates {
			extra = append(extra, repository.Tool())
		}
		a, err := newAssistant(ctx, deps, def, extra)
		if err != nil {
			return nil, err
		}
		reg.specialized = append(reg.specialized, a)
		reg.byName[a.Name()] = a
	}
	return reg, nil
}

func newAssistant(ctx context.Context, deps Deps, def Definition, extra []einotool.InvokableTool) (*Assistant, error) {
	tools, err := toolx.ForCollections(deps.Store, def.Collections)
	if err != nil {
		return nil, fmt.Errorf("build tools for agent=%s: %w", def.Name, err)
	}
	tools = append(tools, extra...)

	chatModel, err := deps.Models.NewChatModel(ctx, def.Name)
	if err != nil {
		return nil, fmt.Errorf("%w: create %s model: %v", contractx.ErrModelInvoke, def.Name, err)
	}

	eng, err := enginex.New(ctx, enginex.Config{
		Agent:        def.Name,
		SystemPrompt: deps.Prompts.For(def.Name),
		Model:        chatModel,
		Tools:        tools,
		MaxSteps:     deps.MaxSteps,
		Metrics:      deps.Metrics,
	})
	if err != nil {
		return nil, err
	}

	return &Assistant{
		def:          cloneDefinition(def),
		runner:       eng,
		capabilities: eng.ToolNames(),
		metrics:      deps.Metrics,
	}, nil
}

func (r *Registry) Repository() *Assistant {
	return r.repository
}

// Specialized returns vendor, guest, budget, timeline and crisis in that order.
func (r *Registry) Specialized() []*Assistant {
	out := make([]*Assistant, len(r.specialized))
	copy(out, r.specialized)
	return out
}

func (r *Registry) Get(name contractx.AgentType) (*Assistant, bool) {
	a, ok := r.byName[name]
	return a, ok
}

// Tools returns the assistant tools an orchestrator binds: the five
// specialized assistants followed by the repository assistant.
func (r *Registry) Tools() []einotool.InvokableTool {
	out := make([]einotool.InvokableTool, 0, len(r.specialized)+1)
	for _, a := range r.specialized {
		out = append(out, a.Tool())
	}
	return append(out, r.repository.Tool())
}
