package tool

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	einotool "github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/schema"
	contractx "github.com/tanpawarit/enchanted-day-orchestrator/agent/contract"
)

const (
	ActionListObjects = "s3.list_objects"
	ActionGetObject   = "s3.get_object"
	ActionPutObject   = "s3.put_object"
	ActionPublish     = "events.publish"

	maxInlineObjectBytes = 64 << 10
)

type useCloudArgs struct {
	Action      string          `json:"action"`
	Prefix      string          `json:"prefix,omitempty"`
	Key         string          `json:"key,omitempty"`
	Body        string          `json:"body,omitempty"`
	ContentType string          `json:"content_type,omitempty"`
	DetailType  string          `json:"detail_type,omitempty"`
	Detail      json.RawMessage `json:"detail,omitempty"`
}

type cloudEvent struct {
	DetailType string          `json:"detail_type"`
	Detail     json.RawMessage `json:"detail"`
}

func newUseCloudTool(deps UtilityDeps) einotool.InvokableTool {
	info := &schema.ToolInfo{
		Name: ToolUseCloud,
		Desc: "Access the media bucket and the event bus of this deployment.",
		ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
			"action": {
				Type:     schema.String,
				Desc:     "Operation to run",
				Enum:     []string{ActionListObjects, ActionGetObject, ActionPutObject, ActionPublish},
				Required: true,
			},
			"prefix":       {Type: schema.String, Desc: "Key prefix for s3.list_objects"},
			"key":          {Type: schema.String, Desc: "Object key for s3.get_object and s3.put_object"},
			"body":         {Type: schema.String, Desc: "Text body for s3.put_object"},
			"content_type": {Type: schema.String, Desc: "Content type for s3.put_object"},
			"detail_type":  {Type: schema.String, Desc: "Event type for events.publish"},
			"detail":       {Type: schema.Object, Desc: "Event payload for events.publish"},
		}),
	}

	return newFuncTool(info, func(ctx context.Context, args string) (string, error) {
		var in useCloudArgs
		if err := decodeArgs(ToolUseCloud, args, &in); err != nil {
			return softError(ToolUseCloud, err)
		}

		action := strings.ToLower(strings.TrimSpace(in.Action))
		switch action {
		case ActionListObjects:
			if deps.Objects == nil {
				return notConfigured(ToolUseCloud, "media bucket")
			}
			keys, err := deps.Objects.List(ctx, in.Prefix)
			if err != nil {
				return softError(ToolUseCloud, err)
			}
			return encodeResult(ToolUseCloud, map[string]any{"bucket": deps.Objects.Bucket(), "keys": keys})

		case ActionGetObject:
			if deps.Objects == nil {
				return notConfigured(ToolUseCloud, "media bucket")
			}
			if strings.TrimSpace(in.Key) == "" {
				return softError(ToolUseCloud, fmt.Errorf("%w: key is required", contractx.ErrValidation))
			}
			body, contentType, err := deps.Objects.Get(ctx, in.Key)
			if err != nil {
				return softError(ToolUseCloud, err)
			}
			out := map[string]any{"key": in.Key, "content_type": contentType, "size": len(body)}
			if isText(contentType) && len(body) <= maxInlineObjectBytes {
				out["body"] = string(body)
			}
			return encodeResult(ToolUseCloud, out)

		case ActionPutObject:
			if deps.Objects == nil {
				return notConfigured(ToolUseCloud, "media bucket")
			}
			if strings.TrimSpace(in.Key) == "" {
				return softError(ToolUseCloud, fmt.Errorf("%w: key is required", contractx.ErrValidation))
			}
			contentType := in.ContentType
			if contentType == "" {
				contentType = "text/plain; charset=utf-8"
			}
			if err := deps.Objects.Put(ctx, in.Key, []byte(in.Body), contentType); err != nil {
				return softError(ToolUseCloud, err)
			}
			return encodeResult(ToolUseCloud, map[string]any{"uri": objectURI(deps.Objects.Bucket(), in.Key)})

		case ActionPublish:
			if deps.Events == nil || strings.TrimSpace(deps.EventBus) == "" {
				return notConfigured(ToolUseCloud, "event bus")
			}
			if strings.TrimSpace(in.DetailType) == "" {
				return softError(ToolUseCloud, fmt.Errorf("%w: detail_type is required", contractx.ErrValidation))
			}
			detail := in.Detail
			if len(detail) == 0 {
				detail = json.RawMessage("{}")
			}
			body, err := json.Marshal(cloudEvent{DetailType: in.DetailType, Detail: detail})
			if err != nil {
				return softError(ToolUseCloud, err)
			}
			msgID, err := deps.Events.Publish(ctx, deps.EventBus, body)
			if err != nil {
				return softError(ToolUseCloud, err)
			}
			return encodeResult(ToolUseCloud, map[string]any{"event_bus": deps.EventBus, "message_id": msgID})

		default:
			return softError(ToolUseCloud, fmt.Errorf("%w: unsupported action %q", contractx.ErrValidation, in.Action))
		}
	})
}

func isText(contentType string) bool {
	ct := strings.ToLower(contentType)
	return strings.HasPrefix(ct, "text/") ||
		strings.HasPrefix(ct, "application/json") ||
		strings.HasPrefix(ct, "application/x-ndjson")
}
