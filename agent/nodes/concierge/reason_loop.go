package conciergenode

import (
	"context"
	"fmt"
	"strings"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/rs/zerolog/log"

	contractx "github.com/imobiflow/imobiflow/agent/contract"
	toolx "github.com/imobiflow/imobiflow/agent/tool"
)

// ReasonLoop drives the bounded generate/execute cycle. Each round sends the
// full message list to the model; tool calls are executed in request order and
// their results re-injected before the next round. A round with no tool calls
// ends the loop with the assistant text. Hitting maxRounds yields the degraded
// reply instead of an error.
func ReasonLoop(
	ctx context.Context,
	in *GraphState,
	chatModel einomodel.BaseChatModel,
	registry *toolx.Registry,
	maxRounds int,
	degradedReply string,
) (*GraphState, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}

	messages := in.Messages
	for round := 0; round < maxRounds; round++ {
		resp, err := chatModel.Generate(ctx, messages)
		if err != nil {
			return nil, fmt.Errorf("%w: concierge generate round %d: %v", contractx.ErrModelInvoke, round+1, err)
		}

		if len(resp.ToolCalls) == 0 {
			in.Messages = messages
			in.Reply = strings.TrimSpace(resp.Content)
			return in, nil
		}

		messages = append(messages, resp)
		for _, call := range resp.ToolCalls {
			result := registry.Execute(ctx, call.Function.Name, call.Function.Arguments)
			messages = append(messages, schema.ToolMessage(result, call.ID))
		}
	}

	log.Warn().
		Str("session_id", in.SessionID).
		Int("max_rounds", maxRounds).
		Msg("reasoning loop hit the round cap, replying degraded")

	in.Messages = messages
	in.Reply = degradedReply
	return in, nil
}
