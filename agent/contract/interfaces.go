package contract

import (
	"context"

	einomodel "github.com/cloudwego/eino/components/model"
)

// Runner answers one natural-language query, possibly invoking tools.
type Runner interface {
	Run(ctx context.Context, query string) (string, error)
}

type Assistant interface {
	Name() AgentType
	Invoke(ctx context.Context, query string) (string, error)
}

type ModelFactory interface {
	NewChatModel(ctx context.Context, agentType AgentType) (einomodel.ToolCallingChatModel, error)
}

type EventPublisher interface {
	Publish(ctx context.Context, topic string, body []byte) (string, error)
}
