package record

import "strings"

// Collection names one persisted record collection.
type Collection string

const (
	Weddings             Collection = "weddings"
	Vendors              Collection = "vendors"
	VendorCommunications Collection = "vendor_communications"
	Transactions         Collection = "transactions"
	BudgetCategories     Collection = "budget_categories"
	BudgetPhases         Collection = "budget_phases"
	OverallBudgets       Collection = "overall_budgets"
	PlusOnes             Collection = "plus_ones"
	Guests               Collection = "guests"
	Communications       Collection = "communications"
	Moodboards           Collection = "moodboards"
	Milestones           Collection = "milestones"
	ProjectDeadlines     Collection = "project_deadlines"
	ContingencyPlans     Collection = "contingency_plans"
	Activities           Collection = "activities"
	Tasks                Collection = "tasks"
)

var all = []Collection{
	Weddings,
	Vendors,
	VendorCommunications,
	Transactions,
	BudgetCategories,
	BudgetPhases,
	OverallBudgets,
	PlusOnes,
	Guests,
	Communications,
	Moodboards,
	Milestones,
	ProjectDeadlines,
	ContingencyPlans,
	Activities,
	Tasks,
}

var descriptions = map[Collection]string{
	Weddings:             "wedding profiles (couple, date, venue, style, status)",
	Vendors:              "vendor profiles, services, contracts and payment schedules",
	VendorCommunications: "message history exchanged with vendors",
	Transactions:         "expense and income ledger entries",
	BudgetCategories:     "budget categories with allocated and spent amounts",
	BudgetPhases:         "budget allocations per wedding phase",
	OverallBudgets:       "overall budget totals and currency",
	PlusOnes:             "plus-one guests attached to invited guests",
	Guests:               "guest list, RSVP status, dietary and seating details",
	Communications:       "messages exchanged with guests",
	Moodboards:           "mood boards, colour palettes, media and inspiration links",
	Milestones:           "planning milestones and their progress",
	ProjectDeadlines:     "project deadlines with priority and status",
	ContingencyPlans:     "contingency plans, triggers and actions",
	Activities:           "activity feed of planning actions",
	Tasks:                "to-do items assigned across the planning team",
}

// All returns the sixteen collections in their canonical order.
func All() []Collection {
	out := make([]Collection, len(all))
	copy(out, all)
	return out
}

func (c Collection) Valid() bool {
	_, ok := descriptions[c]
	return ok
}

func (c Collection) Description() string {
	return descriptions[c]
}

// EnvVar is the environment variable holding the physical table name.
func (c Collection) EnvVar() string {
	return strings.ToUpper(string(c)) + "_TABLE_NAME"
}

// Label is the human readable name used in prompts, e.g. "Vendor Communications".
func (c Collection) Label() string {
	parts := strings.Split(string(c), "_")
	for i, p := range parts {
		if p == "" {
			continue
		}
		parts[i] = strings.ToUpper(p[:1]) + p[1:]
	}
	return strings.Join(parts, " ")
}
