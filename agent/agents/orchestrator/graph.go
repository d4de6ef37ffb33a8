package orchestrator

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/compose"
	nodex "github.com/tanpawarit/enchanted-day-orchestrator/agent/nodes/orchestrator"
)

const graphName = "orchestrator.invoke"

type graphNode struct {
	name   string
	lambda *compose.Lambda
}

// compileInvokeGraph chains the request nodes in order between START and END.
func (o *Orchestrator) compileInvokeGraph(
	ctx context.Context,
) (compose.Runnable[nodex.GraphInput, nodex.GraphOutput], error) {
	nodes := []graphNode{
		{"validate_request", compose.InvokableLambda(func(ctx context.Context, in nodex.GraphInput) (*nodex.GraphState, error) {
			return nodex.ValidateRequest(in, o.now)
		})},
		{"build_context", compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (*nodex.GraphState, error) {
			return nodex.BuildContext(in, o.resources)
		})},
		{"invoke_engine", compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (*nodex.GraphState, error) {
			return nodex.InvokeEngine(ctx, in, o.engine)
		})},
		{"finalize_reply", compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (nodex.GraphOutput, error) {
			return nodex.FinalizeReply(in)
		})},
	}

	graph := compose.NewGraph[nodex.GraphInput, nodex.GraphOutput]()
	prev := compose.START
	for _, n := range nodes {
		if err := graph.AddLambdaNode(n.name, n.lambda); err != nil {
			return nil, fmt.Errorf("add node %s: %w", n.name, err)
		}
		if err := graph.AddEdge(prev, n.name); err != nil {
			return nil, fmt.Errorf("add edge %s->%s: %w", prev, n.name, err)
		}
		prev = n.name
	}
	if err := graph.AddEdge(prev, compose.END); err != nil {
		return nil, fmt.Errorf("add edge %s->%s: %w", prev, compose.END, err)
	}

	runner, err := graph.Compile(ctx, compose.WithGraphName(graphName))
	if err != nil {
		return nil, fmt.Errorf("compile %s graph: %w", graphName, err)
	}
	return runner, nil
}
