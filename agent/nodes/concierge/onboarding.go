package conciergenode

import (
	"fmt"

	contractx "github.com/imobiflow/imobiflow/agent/contract"
)

// Onboarding answers a phone the CRM does not know yet. The reply is a fixed
// instruction to register through the site; nothing is written, so repeated
// messages from the same unknown phone are idempotent.
func Onboarding(in *GraphState, reply string) (GraphOutput, error) {
	if in == nil {
		return GraphOutput{}, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}
	return GraphOutput{Reply: reply}, nil
}
