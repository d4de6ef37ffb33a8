package orchestrator

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/tanpawarit/enchanted-day-orchestrator/agent/agents/specialist"
	contractx "github.com/tanpawarit/enchanted-day-orchestrator/agent/contract"
	promptx "github.com/tanpawarit/enchanted-day-orchestrator/agent/prompt"
	"github.com/tanpawarit/enchanted-day-orchestrator/agent/record"
	"github.com/tanpawarit/enchanted-day-orchestrator/agent/resource"
	toolx "github.com/tanpawarit/enchanted-day-orchestrator/agent/tool"
)

type scriptedModel struct {
	mu        sync.Mutex
	responses []*schema.Message
	idx       int
	inputs    [][]*schema.Message
	err       error
}

func (m *scriptedModel) Generate(ctx context.Context, input []*schema.Message, opts ...einomodel.Option) (*schema.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.inputs = append(m.inputs, input)
	if m.err != nil {
		return nil, m.err
	}
	if m.idx >= len(m.responses) {
		return nil, errors.New("no scripted response left")
	}
	msg := m.responses[m.idx]
	m.idx++
	return msg, nil
}

func (m *scriptedModel) Stream(ctx context.Context, input []*schema.Message, opts ...einomodel.Option) (*schema.StreamReader[*schema.Message], error) {
	return nil, errors.New("stream not implemented in scripted model")
}

func (m *scriptedModel) WithTools(tools []*schema.ToolInfo) (einomodel.ToolCallingChatModel, error) {
	return m, nil
}

func (m *scriptedModel) userMessage(call int) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if call >= len(m.inputs) {
		return ""
	}
	for _, msg := range m.inputs[call] {
		if msg.Role == schema.User {
			return msg.Content
		}
	}
	return ""
}

func (m *scriptedModel) toolMessages(call int) []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if call >= len(m.inputs) {
		return nil
	}
	var out []string
	for _, msg := range m.inputs[call] {
		if msg.Role == schema.Tool {
			out = append(out, msg.Content)
		}
	}
	return out
}

type scriptedFactory struct {
	mu     sync.Mutex
	models map[contractx.AgentType]*scriptedModel
}

func (f *scriptedFactory) model(agent contractx.AgentType) *scriptedModel {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.models == nil {
		f.models = map[contractx.AgentType]*scriptedModel{}
	}
	m, ok := f.models[agent]
	if !ok {
		m = &scriptedModel{}
		f.models[agent] = m
	}
	return m
}

func (f *scriptedFactory) NewChatModel(ctx context.Context, agent contractx.AgentType) (einomodel.ToolCallingChatModel, error) {
	return f.model(agent), nil
}

func call(id, name, args string) *schema.Message {
	return &schema.Message{
		Role: schema.Assistant,
		ToolCalls: []schema.ToolCall{{
			ID:       id,
			Function: schema.FunctionCall{Name: name, Arguments: args},
		}},
	}
}

func answer(text string) *schema.Message {
	return &schema.Message{Role: schema.Assistant, Content: text}
}

func resources() resource.Config {
	return resource.Config{
		WeddingsTable:             "ed-weddings",
		VendorsTable:              "ed-vendors",
		VendorCommunicationsTable: "ed-vendor-communications",
		TransactionsTable:         "ed-transactions",
		BudgetCategoriesTable:     "ed-budget-categories",
		BudgetPhasesTable:         "ed-budget-phases",
		OverallBudgetsTable:       "ed-overall-budgets",
		PlusOnesTable:             "ed-plus-ones",
		GuestsTable:               "ed-guests",
		CommunicationsTable:       "ed-communications",
		MoodboardsTable:           "ed-moodboards",
		MilestonesTable:           "ed-milestones",
		ProjectDeadlinesTable:     "ed-project-deadlines",
		ContingencyPlansTable:     "ed-contingency-plans",
		ActivitiesTable:           "ed-activities",
		TasksTable:                "ed-tasks",
		MediaBucket:               "ed-media",
		EventBusName:              "ed-events",
	}
}

func newTestOrchestrator(t *testing.T, store record.Store, models *scriptedFactory) *Orchestrator {
	t.Helper()

	ctx := context.Background()
	prompts := promptx.LoadPromptSet()
	reg, err := specialist.NewRegistry(ctx, specialist.Deps{
		Store:   store,
		Models:  models,
		Prompts: prompts,
	})
	if err != nil {
		t.Fatalf("NewRegistry() error = %v", err)
	}

	o, err := New(ctx, Deps{
		Assistants:   reg,
		Utilities:    toolx.Utilities(toolx.UtilityDeps{}),
		Resources:    resources(),
		Models:       models,
		SystemPrompt: prompts.Orchestrator,
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return o
}

func TestOrchestratorCapabilities(t *testing.T) {
	t.Parallel()

	o := newTestOrchestrator(t, record.NewMemoryStore(nil), &scriptedFactory{})

	want := []string{
		"vendor_management_assistant",
		"guest_experience_assistant",
		"budget_optimization_assistant",
		"timeline_management_assistant",
		"crisis_management_assistant",
		"wedding_repository_assistant",
		toolx.ToolGenerateImage,
		toolx.ToolImageReader,
		toolx.ToolGenerateVideo,
		toolx.ToolUseCloud,
		toolx.ToolHandoffToUser,
		toolx.ToolJournal,
	}
	if got := o.Capabilities(); strings.Join(got, ",") != strings.Join(want, ",") {
		t.Fatalf("Capabilities() = %v, want %v", got, want)
	}
}

func TestOrchestratorDelegatesVendorListing(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := record.NewMemoryStore(nil)
	vendors, err := store.Accessor(record.Vendors)
	if err != nil {
		t.Fatalf("Accessor() error = %v", err)
	}
	for _, rec := range []record.Record{
		{"id": "v-1", "wedding_id": "W1", "name": "Bloom Florals", "category": "florist"},
		{"id": "v-2", "wedding_id": "W2", "name": "Other Wedding Band"},
	} {
		if _, err := vendors.Put(ctx, rec); err != nil {
			t.Fatalf("Put() error = %v", err)
		}
	}

	models := &scriptedFactory{}
	models.model(contractx.AgentTypeOrchestrator).responses = []*schema.Message{
		call("o1", "vendor_management_assistant", `{"query":"List all vendors for wedding W1"}`),
		answer("W1 has one vendor booked: Bloom Florals (florist)."),
	}
	models.model(contractx.AgentTypeVendor).responses = []*schema.Message{
		call("v1", "vendors", `{"operation":"query","filter":{"wedding_id":"W1"}}`),
		answer("Bloom Florals, florist."),
	}

	o := newTestOrchestrator(t, store, models)

	wid := "W1"
	out, err := o.Invoke(ctx, "List all vendors for wedding W1", &wid)
	if err != nil {
		t.Fatalf("Invoke() error = %v", err)
	}
	if out != "W1 has one vendor booked: Bloom Florals (florist)." {
		t.Fatalf("unexpected reply: %q", out)
	}

	orchestratorModel := models.model(contractx.AgentTypeOrchestrator)
	composite := orchestratorModel.userMessage(0)
	if !strings.HasPrefix(composite, "Available Wedding Planning Resources:\n") {
		t.Fatalf("composite prompt missing header: %q", composite)
	}
	for _, line := range []string{"- Vendors Table: ed-vendors\n", "- Wedding ID: W1"} {
		if !strings.Contains(composite, line) {
			t.Fatalf("composite prompt missing %q: %q", line, composite)
		}
	}
	if !strings.HasSuffix(composite, "\n\nUser Request: List all vendors for wedding W1") {
		t.Fatalf("composite prompt missing request: %q", composite)
	}

	if got := orchestratorModel.toolMessages(1); len(got) != 1 || got[0] != "Bloom Florals, florist." {
		t.Fatalf("orchestrator tool results = %v", got)
	}

	vendorModel := models.model(contractx.AgentTypeVendor)
	if got := vendorModel.userMessage(0); got != "List all vendors for wedding W1" {
		t.Fatalf("vendor assistant got query %q", got)
	}
	results := vendorModel.toolMessages(1)
	if len(results) != 1 {
		t.Fatalf("vendor tool results = %v", results)
	}
	if !strings.Contains(results[0], "Bloom Florals") || strings.Contains(results[0], "Other Wedding Band") {
		t.Fatalf("vendor query not scoped to W1: %s", results[0])
	}
}

func TestOrchestratorSurfacesAssistantFailureAsText(t *testing.T) {
	t.Parallel()

	models := &scriptedFactory{}
	models.model(contractx.AgentTypeOrchestrator).responses = []*schema.Message{
		call("o1", "budget_optimization_assistant", `{"query":"How much is left for W1?"}`),
		answer("The budget service is unavailable right now."),
	}
	models.model(contractx.AgentTypeBudget).err = errors.New("upstream 503")

	o := newTestOrchestrator(t, record.NewMemoryStore(nil), models)

	out, err := o.Invoke(context.Background(), "How much budget is left?", nil)
	if err != nil {
		t.Fatalf("Invoke() error = %v", err)
	}
	if out != "The budget service is unavailable right now." {
		t.Fatalf("unexpected reply: %q", out)
	}

	results := models.model(contractx.AgentTypeOrchestrator).toolMessages(1)
	if len(results) != 1 || !strings.HasPrefix(results[0], "Error in budget optimization: ") {
		t.Fatalf("assistant failure not flattened: %v", results)
	}
	if composite := models.model(contractx.AgentTypeOrchestrator).userMessage(0); !strings.Contains(composite, "- Wedding ID: not provided") {
		t.Fatalf("composite prompt missing placeholder: %q", composite)
	}
}

func TestOrchestratorPassesEmptyAnswersThrough(t *testing.T) {
	t.Parallel()

	models := &scriptedFactory{}
	models.model(contractx.AgentTypeOrchestrator).responses = []*schema.Message{
		call("o1", "guest_experience_assistant", `{"query":"Any RSVPs today?"}`),
		answer(""),
	}
	models.model(contractx.AgentTypeGuest).responses = []*schema.Message{answer("")}

	o := newTestOrchestrator(t, record.NewMemoryStore(nil), models)

	out, err := o.Invoke(context.Background(), "Any RSVPs today?", nil)
	if err != nil {
		t.Fatalf("Invoke() error = %v", err)
	}
	if out != "" {
		t.Fatalf("expected empty reply, got %q", out)
	}
	if got := models.model(contractx.AgentTypeOrchestrator).toolMessages(1); len(got) != 1 || got[0] != "" {
		t.Fatalf("guest assistant result = %q, want empty", got)
	}
}

func TestOrchestratorRejectsEmptyPrompt(t *testing.T) {
	t.Parallel()

	models := &scriptedFactory{}
	o := newTestOrchestrator(t, record.NewMemoryStore(nil), models)

	if _, err := o.Invoke(context.Background(), "", nil); !errors.Is(err, contractx.ErrPromptMissing) {
		t.Fatalf("expected ErrPromptMissing, got %v", err)
	}
	if n := len(models.model(contractx.AgentTypeOrchestrator).inputs); n != 0 {
		t.Fatalf("model must not be called, got %d calls", n)
	}
}

func TestOrchestratorPropagatesModelFailure(t *testing.T) {
	t.Parallel()

	models := &scriptedFactory{}
	models.model(contractx.AgentTypeOrchestrator).err = errors.New("rate limited")
	o := newTestOrchestrator(t, record.NewMemoryStore(nil), models)

	if _, err := o.Invoke(context.Background(), "Plan my week", nil); !errors.Is(err, contractx.ErrModelInvoke) {
		t.Fatalf("expected ErrModelInvoke, got %v", err)
	}
}

func TestNewRequiresDependencies(t *testing.T) {
	t.Parallel()

	if _, err := New(context.Background(), Deps{}); err == nil {
		t.Fatalf("expected error for missing dependencies")
	}
}
