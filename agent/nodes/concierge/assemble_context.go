package conciergenode

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/schema"

	contractx "github.com/imobiflow/imobiflow/agent/contract"
	promptx "github.com/imobiflow/imobiflow/agent/prompt"
	crmx "github.com/imobiflow/imobiflow/crm"
)

// AssembleContext builds the message list for the reasoning loop: the
// profile-rendered system prompt, the replayed history oldest-first, then the
// current user turn. Tool turns are not persisted, so history replays as a
// plain user/assistant transcript.
func AssembleContext(
	ctx context.Context,
	in *GraphState,
	ctxStore contractx.ContextStore,
	prompts promptx.Set,
	historyLimit int,
) (*GraphState, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}
	if in.Lead == nil {
		return nil, fmt.Errorf("%w: lead is required to assemble context", contractx.ErrValidation)
	}

	history, err := ctxStore.History(ctx, in.SessionID, historyLimit)
	if err != nil {
		return nil, fmt.Errorf("load conversation history: %w", err)
	}
	in.History = history

	messages := make([]*schema.Message, 0, len(history)+2)
	messages = append(messages, schema.SystemMessage(prompts.RenderConcierge(promptx.LeadProfile(in.Lead))))
	for i := range history {
		turn := &history[i]
		switch turn.Role {
		case crmx.RoleAssistant:
			messages = append(messages, schema.AssistantMessage(turn.Message, nil))
		default:
			messages = append(messages, schema.UserMessage(turn.Message))
		}
	}
	messages = append(messages, schema.UserMessage(in.Text))

	in.Messages = messages
	return in, nil
}
