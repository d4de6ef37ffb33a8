package specialist

import (
	contractx "github.com/tanpawarit/enchanted-day-orchestrator/agent/contract"
	"github.com/tanpawarit/enchanted-day-orchestrator/agent/record"
)

// Definition is the static shape of one assistant: its tool identity and
// the exact collections it may touch.
type Definition struct {
	Name        contractx.AgentType
	ToolName    string
	Label       string
	Description string
	Collections []record.Collection
	// Escalates binds the repository assistant as an extra tool.
	Escalates bool
}

var repositoryDefinition = Definition{
	Name:        contractx.AgentTypeRepository,
	ToolName:    "wedding_repository_assistant",
	Label:       "wedding repository",
	Description: "Read and write any wedding planning data across all collections. Use for cross-domain lookups and for anything no specialist covers, such as mood boards.",
	Collections: record.All(),
}

var specializedDefinitions = []Definition{
	{
		Name:        contractx.AgentTypeVendor,
		ToolName:    "vendor_management_assistant",
		Label:       "vendor management",
		Description: "Find, compare, book and negotiate with vendors, track vendor messages, contracts and payments.",
		Collections: []record.Collection{
			record.Vendors,
			record.VendorCommunications,
			record.Transactions,
			record.BudgetCategories,
			record.BudgetPhases,
			record.OverallBudgets,
			record.PlusOnes,
			record.Communications,
			record.Activities,
			record.Tasks,
		},
		Escalates: true,
	},
	{
		Name:        contractx.AgentTypeGuest,
		ToolName:    "guest_experience_assistant",
		Label:       "guest management",
		Description: "Manage the guest list, RSVPs, plus-ones, dietary needs, seating and guest communications.",
		Collections: []record.Collection{
			record.Guests,
			record.PlusOnes,
			record.Communications,
			record.Activities,
			record.Tasks,
		},
	},
	{
		Name:        contractx.AgentTypeBudget,
		ToolName:    "budget_optimization_assistant",
		Label:       "budget optimization",
		Description: "Track spending, rebalance budget categories and phases, and find savings.",
		Collections: []record.Collection{
			record.Transactions,
			record.BudgetCategories,
			record.BudgetPhases,
			record.OverallBudgets,
			record.Activities,
			record.Tasks,
		},
	},
	{
		Name:        contractx.AgentTypeTimeline,
		ToolName:    "timeline_management_assistant",
		Label:       "timeline management",
		Description: "Plan milestones and deadlines, spot schedule risks and maintain contingency plans.",
		Collections: []record.Collection{
			record.Milestones,
			record.ProjectDeadlines,
			record.ContingencyPlans,
			record.Activities,
			record.Tasks,
		},
		Escalates: true,
	},
	{
		Name:        contractx.AgentTypeCrisis,
		ToolName:    "crisis_management_assistant",
		Label:       "crisis management",
		Description: "Handle urgent problems such as vendor cancellations, weather or venue issues, and coordinate the response.",
		Collections: []record.Collection{
			record.VendorCommunications,
			record.Communications,
			record.Activities,
			record.Tasks,
		},
		Escalates: true,
	},
}

// Definitions returns the repository definition followed by the five
// specialized ones.
func Definitions() []Definition {
	out := make([]Definition, 0, len(specializedDefinitions)+1)
	out = append(out, cloneDefinition(repositoryDefinition))
	for _, d := range specializedDefinitions {
		out = append(out, cloneDefinition(d))
	}
	return out
}

func cloneDefinition(d Definition) Definition {
	d.Collections = append([]record.Collection(nil), d.Collections...)
	return d
}
