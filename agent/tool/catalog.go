package tool

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	einotool "github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/schema"
	contractx "github.com/tanpawarit/enchanted-day-orchestrator/agent/contract"
	"github.com/tanpawarit/enchanted-day-orchestrator/agent/record"
)

const (
	ToolGenerateImage = "generate_image"
	ToolImageReader   = "image_reader"
	ToolGenerateVideo = "generate_video"
	ToolUseCloud      = "use_cloud"
	ToolHandoffToUser = "handoff_to_user"
	ToolJournal       = "journal"
)

// runFunc executes one tool call with the raw JSON arguments.
type runFunc func(ctx context.Context, args string) (string, error)

// funcTool adapts a ToolInfo and a runFunc into an eino InvokableTool.
type funcTool struct {
	info *schema.ToolInfo
	run  runFunc
}

var _ einotool.InvokableTool = (*funcTool)(nil)

func newFuncTool(info *schema.ToolInfo, run runFunc) *funcTool {
	return &funcTool{info: info, run: run}
}

func (t *funcTool) Info(ctx context.Context) (*schema.ToolInfo, error) {
	return t.info, nil
}

func (t *funcTool) InvokableRun(ctx context.Context, args string, _ ...einotool.Option) (string, error) {
	return t.run(ctx, args)
}

// NewFunc exposes a plain function as a tool. Assistants use it to become
// capabilities of the agents above them.
func NewFunc(name, desc string, params map[string]*schema.ParameterInfo, run func(ctx context.Context, args string) (string, error)) einotool.InvokableTool {
	return newFuncTool(&schema.ToolInfo{
		Name:        name,
		Desc:        desc,
		ParamsOneOf: schema.NewParamsOneOfByParams(params),
	}, run)
}

// ForCollections builds one record tool per collection.
func ForCollections(store record.Store, collections []record.Collection) ([]einotool.InvokableTool, error) {
	tools := make([]einotool.InvokableTool, 0, len(collections))
	for _, c := range collections {
		t, err := NewRecordTool(store, c)
		if err != nil {
			return nil, err
		}
		tools = append(tools, t)
	}
	return tools, nil
}

// Names lists tool names in order.
func Names(ctx context.Context, tools []einotool.InvokableTool) []string {
	names := make([]string, 0, len(tools))
	for _, t := range tools {
		info, err := t.Info(ctx)
		if err != nil || info == nil {
			continue
		}
		names = append(names, info.Name)
	}
	return names
}

func decodeArgs(tool, args string, out any) error {
	raw := strings.TrimSpace(args)
	if raw == "" {
		raw = "{}"
	}
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		return fmt.Errorf("%w: tool=%s invalid arguments: %v", contractx.ErrValidation, tool, err)
	}
	return nil
}

func encodeResult(tool string, result any) (string, error) {
	raw, err := json.Marshal(contractx.ToolResult{Tool: tool, Result: result})
	if err != nil {
		return "", fmt.Errorf("marshal %s result: %w", tool, err)
	}
	return string(raw), nil
}

// softError reports a failure back to the model as a tool result.
func softError(tool string, err error) (string, error) {
	raw, mErr := json.Marshal(contractx.ToolResult{Tool: tool, Error: err.Error()})
	if mErr != nil {
		return "", fmt.Errorf("marshal %s error: %w", tool, mErr)
	}
	return string(raw), nil
}
