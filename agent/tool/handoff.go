package tool

import (
	"context"
	"fmt"
	"strings"

	einotool "github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/schema"
	contractx "github.com/tanpawarit/enchanted-day-orchestrator/agent/contract"
)

type handoffArgs struct {
	Message        string `json:"message"`
	BreakoutOfLoop bool   `json:"breakout_of_loop,omitempty"`
}

func newHandoffTool() einotool.InvokableTool {
	info := &schema.ToolInfo{
		Name: ToolHandoffToUser,
		Desc: "Hand the conversation back to the user with a question or confirmation request.",
		ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
			"message":          {Type: schema.String, Desc: "Question or note for the user", Required: true},
			"breakout_of_loop": {Type: schema.Boolean, Desc: "Stop now and return the message as the final answer"},
		}),
	}

	return newFuncTool(info, func(ctx context.Context, args string) (string, error) {
		var in handoffArgs
		if err := decodeArgs(ToolHandoffToUser, args, &in); err != nil {
			return softError(ToolHandoffToUser, err)
		}
		msg := strings.TrimSpace(in.Message)
		if msg == "" {
			return softError(ToolHandoffToUser, fmt.Errorf("%w: message is required", contractx.ErrValidation))
		}
		if in.BreakoutOfLoop {
			return "", &contractx.Handoff{Message: msg}
		}
		return encodeResult(ToolHandoffToUser, map[string]any{
			"status":      "awaiting_user",
			"message":     msg,
			"instruction": "Include this question for the user in your final answer.",
		})
	})
}
