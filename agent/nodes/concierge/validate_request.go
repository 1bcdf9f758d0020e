package conciergenode

import (
	"errors"
	"strings"
	"time"

	"github.com/cloudwego/eino/schema"

	crmx "github.com/imobiflow/imobiflow/crm"
)

var (
	ErrInvalidPhone   = errors.New("phone is empty")
	ErrInvalidMessage = errors.New("message is empty")
)

type GraphInput struct {
	Phone     string
	SessionID string
	Text      string
}

type GraphOutput struct {
	Reply string
}

type GraphState struct {
	Phone     string
	SessionID string
	Text      string
	Now       time.Time

	Lead    *crmx.Lead
	History []crmx.ConversationTurn

	Messages []*schema.Message
	Reply    string
}

// ValidateRequest normalizes the addressing fields. The phone is reduced to
// digits here once; every downstream lookup uses the normalized form.
func ValidateRequest(in GraphInput, nowFn func() time.Time) (*GraphState, error) {
	phone := crmx.NormalizePhone(in.Phone)
	if phone == "" {
		return nil, ErrInvalidPhone
	}

	text := strings.TrimSpace(in.Text)
	if text == "" {
		return nil, ErrInvalidMessage
	}

	sessionID := strings.TrimSpace(in.SessionID)
	if sessionID == "" {
		sessionID = phone
	}

	return &GraphState{
		Phone:     phone,
		SessionID: sessionID,
		Text:      text,
		Now:       nowFn().UTC(),
	}, nil
}
