package resource

import (
	"fmt"
	"strings"

	contractx "github.com/tanpawarit/enchanted-day-orchestrator/agent/contract"
	"github.com/tanpawarit/enchanted-day-orchestrator/agent/record"
)

// Config names the external resources of one deployment. Every field is
// required; config.MustNew panics at startup when one is missing.
type Config struct {
	WeddingsTable             string `envconfig:"WEDDINGS_TABLE_NAME" required:"true"`
	VendorsTable              string `envconfig:"VENDORS_TABLE_NAME" required:"true"`
	VendorCommunicationsTable string `envconfig:"VENDOR_COMMUNICATIONS_TABLE_NAME" required:"true"`
	TransactionsTable         string `envconfig:"TRANSACTIONS_TABLE_NAME" required:"true"`
	BudgetCategoriesTable     string `envconfig:"BUDGET_CATEGORIES_TABLE_NAME" required:"true"`
	BudgetPhasesTable         string `envconfig:"BUDGET_PHASES_TABLE_NAME" required:"true"`
	OverallBudgetsTable       string `envconfig:"OVERALL_BUDGETS_TABLE_NAME" required:"true"`
	PlusOnesTable             string `envconfig:"PLUS_ONES_TABLE_NAME" required:"true"`
	GuestsTable               string `envconfig:"GUESTS_TABLE_NAME" required:"true"`
	CommunicationsTable       string `envconfig:"COMMUNICATIONS_TABLE_NAME" required:"true"`
	MoodboardsTable           string `envconfig:"MOODBOARDS_TABLE_NAME" required:"true"`
	MilestonesTable           string `envconfig:"MILESTONES_TABLE_NAME" required:"true"`
	ProjectDeadlinesTable     string `envconfig:"PROJECT_DEADLINES_TABLE_NAME" required:"true"`
	ContingencyPlansTable     string `envconfig:"CONTINGENCY_PLANS_TABLE_NAME" required:"true"`
	ActivitiesTable           string `envconfig:"ACTIVITIES_TABLE_NAME" required:"true"`
	TasksTable                string `envconfig:"TASKS_TABLE_NAME" required:"true"`

	MediaBucket  string `envconfig:"S3_BUCKET" required:"true"`
	EventBusName string `envconfig:"EVENT_BUS_NAME" required:"true"`
}

// Tables maps each collection to its configured table name.
func (c Config) Tables() record.Tables {
	return record.Tables{
		record.Weddings:             c.WeddingsTable,
		record.Vendors:              c.VendorsTable,
		record.VendorCommunications: c.VendorCommunicationsTable,
		record.Transactions:         c.TransactionsTable,
		record.BudgetCategories:     c.BudgetCategoriesTable,
		record.BudgetPhases:         c.BudgetPhasesTable,
		record.OverallBudgets:       c.OverallBudgetsTable,
		record.PlusOnes:             c.PlusOnesTable,
		record.Guests:               c.GuestsTable,
		record.Communications:       c.CommunicationsTable,
		record.Moodboards:           c.MoodboardsTable,
		record.Milestones:           c.MilestonesTable,
		record.ProjectDeadlines:     c.ProjectDeadlinesTable,
		record.ContingencyPlans:     c.ContingencyPlansTable,
		record.Activities:           c.ActivitiesTable,
		record.Tasks:                c.TasksTable,
	}
}

func (c Config) Validate() error {
	tables := c.Tables()
	for _, col := range record.All() {
		if strings.TrimSpace(tables[col]) == "" {
			return fmt.Errorf("%w: %s is not set", contractx.ErrValidation, col.EnvVar())
		}
	}
	if strings.TrimSpace(c.MediaBucket) == "" {
		return fmt.Errorf("%w: S3_BUCKET is not set", contractx.ErrValidation)
	}
	if strings.TrimSpace(c.EventBusName) == "" {
		return fmt.Errorf("%w: EVENT_BUS_NAME is not set", contractx.ErrValidation)
	}
	return nil
}

// ContextBlock renders the resource context prepended to every orchestrator
// prompt.
func (c Config) ContextBlock(weddingID *string) string {
	tables := c.Tables()

	var b strings.Builder
	b.WriteString("Available Wedding Planning Resources:\n")
	for _, col := range record.All() {
		fmt.Fprintf(&b, "- %s Table: %s\n", col.Label(), tables[col])
	}
	fmt.Fprintf(&b, "- Media Bucket: %s\n", c.MediaBucket)
	fmt.Fprintf(&b, "- Event Bus: %s\n", c.EventBusName)

	wid := "not provided"
	if weddingID != nil {
		wid = *weddingID
	}
	fmt.Fprintf(&b, "- Wedding ID: %s", wid)
	return b.String()
}

// ComposePrompt joins the context block and the user request.
func (c Config) ComposePrompt(prompt string, weddingID *string) string {
	return c.ContextBlock(weddingID) + "\n\nUser Request: " + prompt
}
