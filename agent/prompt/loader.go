package prompt

import (
	_ "embed"
	"strings"
)

var (
	//go:embed template/concierge.txt
	conciergeRaw string

	//go:embed template/qualifier.txt
	qualifierRaw string

	//go:embed template/onboarding.txt
	onboardingRaw string

	//go:embed template/degraded.txt
	degradedRaw string
)

// Set holds the loaded prompt content.
type Set struct {
	Concierge  string
	Qualifier  string
	Onboarding string
	Degraded   string
}

// LoadSet returns the embedded prompts, trimmed. Safe for concurrent use.
func LoadSet() Set {
	return Set{
		Concierge:  strings.TrimSpace(conciergeRaw),
		Qualifier:  strings.TrimSpace(qualifierRaw),
		Onboarding: strings.TrimSpace(onboardingRaw),
		Degraded:   strings.TrimSpace(degradedRaw),
	}
}

// RenderConcierge injects the lead profile into the concierge system prompt.
func (s Set) RenderConcierge(leadProfile string) string {
	return strings.ReplaceAll(s.Concierge, "{lead_profile}", leadProfile)
}
