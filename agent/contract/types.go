package contract

type AgentType string

const (
	AgentTypeOrchestrator AgentType = "orchestrator"
	AgentTypeRepository   AgentType = "repository"
	AgentTypeVendor       AgentType = "vendor"
	AgentTypeGuest        AgentType = "guest"
	AgentTypeBudget       AgentType = "budget"
	AgentTypeTimeline     AgentType = "timeline"
	AgentTypeCrisis       AgentType = "crisis"
)

// ResponseAgent is the agent name reported in every successful response body.
const ResponseAgent = "Assistant"

type ToolResult struct {
	Tool   string `json:"tool"`
	Result any    `json:"result,omitempty"`
	Error  string `json:"error,omitempty"`
}
