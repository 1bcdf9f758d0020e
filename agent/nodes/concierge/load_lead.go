package conciergenode

import (
	"context"
	"errors"
	"fmt"

	contractx "github.com/imobiflow/imobiflow/agent/contract"
	crmx "github.com/imobiflow/imobiflow/crm"
)

// LoadLead resolves the lead behind the phone. An unknown phone is not an
// error: the nil Lead routes the graph to the onboarding path.
func LoadLead(ctx context.Context, in *GraphState, store contractx.CRMStore) (*GraphState, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}

	lead, err := store.LeadByPhone(ctx, in.Phone)
	if err != nil {
		if errors.Is(err, crmx.ErrLeadNotFound) {
			in.Lead = nil
			return in, nil
		}
		return nil, fmt.Errorf("load lead by phone: %w", err)
	}

	in.Lead = lead
	return in, nil
}
