package prompt

import (
	_ "embed"
	"strings"

	contractx "github.com/tanpawarit/enchanted-day-orchestrator/agent/contract"
)

var (
	//go:embed template/orchestrator.txt
	orchestratorRaw string

	//go:embed template/repository.txt
	repositoryRaw string

	//go:embed template/vendor.txt
	vendorRaw string

	//go:embed template/guest.txt
	guestRaw string

	//go:embed template/budget.txt
	budgetRaw string

	//go:embed template/timeline.txt
	timelineRaw string

	//go:embed template/crisis.txt
	crisisRaw string
)

// PromptSet holds loaded prompt content.
type PromptSet struct {
	Orchestrator string
	Repository   string
	Vendor       string
	Guest        string
	Budget       string
	Timeline     string
	Crisis       string
}

// LoadPromptSet returns a PromptSet with trimmed prompt strings.
func LoadPromptSet() PromptSet {
	return PromptSet{
		Orchestrator: strings.TrimSpace(orchestratorRaw),
		Repository:   strings.TrimSpace(repositoryRaw),
		Vendor:       strings.TrimSpace(vendorRaw),
		Guest:        strings.TrimSpace(guestRaw),
		Budget:       strings.TrimSpace(budgetRaw),
		Timeline:     strings.TrimSpace(timelineRaw),
		Crisis:       strings.TrimSpace(crisisRaw),
	}
}

// For returns the system prompt of an agent, or "" when none is defined.
func (p PromptSet) For(agentType contractx.AgentType) string {
	switch agentType {
	case contractx.AgentTypeOrchestrator:
		return p.Orchestrator
	case contractx.AgentTypeRepository:
		return p.Repository
	case contractx.AgentTypeVendor:
		return p.Vendor
	case contractx.AgentTypeGuest:
		return p.Guest
	case contractx.AgentTypeBudget:
		return p.Budget
	case contractx.AgentTypeTimeline:
		return p.Timeline
	case contractx.AgentTypeCrisis:
		return p.Crisis
	default:
		return ""
	}
}
