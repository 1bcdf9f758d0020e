package contract

import (
	"context"

	crmx "github.com/imobiflow/imobiflow/crm"
)

// CRMStore is the relational side of the Conversation Store contract:
// leads, properties and the interaction audit log.
type CRMStore interface {
	LeadByPhone(ctx context.Context, phone string) (*crmx.Lead, error)
	CreateLead(ctx context.Context, lead *crmx.Lead) error
	UpdateLead(ctx context.Context, id int64, expectedVersion int64, patch crmx.LeadPatch) error
	CreateInteraction(ctx context.Context, interaction *crmx.Interaction) error
	PropertyByID(ctx context.Context, id int64) (*crmx.Property, error)
	ListProperties(ctx context.Context, filter crmx.PropertyFilter) ([]crmx.Property, error)
}

// ContextStore persists conversation turns. History replays oldest-first;
// ordering is by creation time only.
type ContextStore interface {
	History(ctx context.Context, sessionID string, limit int) ([]crmx.ConversationTurn, error)
	AppendTurn(ctx context.Context, turn crmx.ConversationTurn) error
}

// Notifier publishes fire-and-forget events to an external queue. A nil
// Notifier means "no broker notifications".
type Notifier interface {
	Publish(ctx context.Context, destination string, payload any) error
}
