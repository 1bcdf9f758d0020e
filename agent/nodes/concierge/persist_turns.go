package conciergenode

import (
	"context"
	"fmt"

	contractx "github.com/imobiflow/imobiflow/agent/contract"
	crmx "github.com/imobiflow/imobiflow/crm"
)

// PersistTurns appends the user message and the final assistant reply to the
// session transcript. Intermediate tool exchanges stay in-memory only; the
// durable history is the user-visible conversation.
func PersistTurns(ctx context.Context, in *GraphState, ctxStore contractx.ContextStore) (GraphOutput, error) {
	if in == nil {
		return GraphOutput{}, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}

	userTurn := crmx.ConversationTurn{
		SessionID: in.SessionID,
		Phone:     in.Phone,
		Role:      crmx.RoleUser,
		Message:   in.Text,
	}
	if err := ctxStore.AppendTurn(ctx, userTurn); err != nil {
		return GraphOutput{}, fmt.Errorf("append user turn: %w", err)
	}

	assistantTurn := crmx.ConversationTurn{
		SessionID: in.SessionID,
		Phone:     in.Phone,
		Role:      crmx.RoleAssistant,
		Message:   in.Reply,
	}
	if err := ctxStore.AppendTurn(ctx, assistantTurn); err != nil {
		return GraphOutput{}, fmt.Errorf("append assistant turn: %w", err)
	}

	return GraphOutput{Reply: in.Reply}, nil
}
