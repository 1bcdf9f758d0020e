package concierge

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/compose"

	nodex "github.com/imobiflow/imobiflow/agent/nodes/concierge"
)

func (c *Concierge) compileHandleMessageGraph(
	ctx context.Context,
) (compose.Runnable[nodex.GraphInput, nodex.GraphOutput], error) {
	graph := compose.NewGraph[nodex.GraphInput, nodex.GraphOutput]()

	if err := graph.AddLambdaNode("validate_request",
		compose.InvokableLambda(func(ctx context.Context, in nodex.GraphInput) (*nodex.GraphState, error) {
			return nodex.ValidateRequest(in, c.now)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node validate_request: %w", err)
	}

	if err := graph.AddLambdaNode("load_lead",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (*nodex.GraphState, error) {
			return nodex.LoadLead(ctx, in, c.crm)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node load_lead: %w", err)
	}

	if err := graph.AddLambdaNode("onboarding",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (nodex.GraphOutput, error) {
			return nodex.Onboarding(in, c.prompts.Onboarding)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node onboarding: %w", err)
	}

	if err := graph.AddLambdaNode("assemble_context",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (*nodex.GraphState, error) {
			return nodex.AssembleContext(ctx, in, c.turns, c.prompts, c.historyLimit)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node assemble_context: %w", err)
	}

	if err := graph.AddLambdaNode("reason_loop",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (*nodex.GraphState, error) {
			return nodex.ReasonLoop(ctx, in, c.chatModel, c.registry, c.maxToolRounds, c.prompts.Degraded)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node reason_loop: %w", err)
	}

	if err := graph.AddLambdaNode("persist_turns",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (nodex.GraphOutput, error) {
			return nodex.PersistTurns(ctx, in, c.turns)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node persist_turns: %w", err)
	}

	branch := compose.NewGraphBranch(
		func(ctx context.Context, in *nodex.GraphState) (string, error) {
			if in == nil || in.Lead == nil {
				return "onboarding", nil
			}
			return "assemble_context", nil
		},
		map[string]bool{
			"onboarding":       true,
			"assemble_context": true,
		},
	)

	if err := graph.AddEdge(compose.START, "validate_request"); err != nil {
		return nil, fmt.Errorf("add edge start->validate_request: %w", err)
	}
	if err := graph.AddEdge("validate_request", "load_lead"); err != nil {
		return nil, fmt.Errorf("add edge validate_request->load_lead: %w", err)
	}
	if err := graph.AddBranch("load_lead", branch); err != nil {
		return nil, fmt.Errorf("add lead branch: %w", err)
	}
	if err := graph.AddEdge("onboarding", compose.END); err != nil {
		return nil, fmt.Errorf("add edge onboarding->end: %w", err)
	}
	if err := graph.AddEdge("assemble_context", "reason_loop"); err != nil {
		return nil, fmt.Errorf("add edge assemble_context->reason_loop: %w", err)
	}
	if err := graph.AddEdge("reason_loop", "persist_turns"); err != nil {
		return nil, fmt.Errorf("add edge reason_loop->persist_turns: %w", err)
	}
	if err := graph.AddEdge("persist_turns", compose.END); err != nil {
		return nil, fmt.Errorf("add edge persist_turns->end: %w", err)
	}

	runner, err := graph.Compile(ctx, compose.WithGraphName("concierge.handle_message"))
	if err != nil {
		return nil, fmt.Errorf("compile concierge graph: %w", err)
	}
	return runner, nil
}
