package prompt

import (
	"strings"
	"testing"

	crmx "github.com/imobiflow/imobiflow/crm"
)

func TestLeadProfileRendersBudgetInReais(t *testing.T) {
	t.Parallel()

	profile := LeadProfile(&crmx.Lead{
		Name:           "Maria",
		Qualification:  crmx.QualificationHot,
		BudgetMinCents: 30_000_000,
		BudgetMaxCents: 50_000_000,
	})

	if !strings.Contains(profile, "Maria") {
		t.Fatalf("name missing: %q", profile)
	}
	if !strings.Contains(profile, "R$ 300.000,00 a R$ 500.000,00") {
		t.Fatalf("budget not rendered in reais: %q", profile)
	}
	if !strings.Contains(profile, string(crmx.QualificationHot)) {
		t.Fatalf("qualification missing: %q", profile)
	}
}

func TestLeadProfileDefaults(t *testing.T) {
	t.Parallel()

	profile := LeadProfile(&crmx.Lead{})
	for _, want := range []string{"Não informado", "Não especificado", "Sem notas adicionais"} {
		if !strings.Contains(profile, want) {
			t.Fatalf("missing default %q in %q", want, profile)
		}
	}

	if LeadProfile(nil) != "" {
		t.Fatal("nil lead must render empty")
	}
}

func TestRenderConciergeInjectsProfile(t *testing.T) {
	t.Parallel()

	set := Set{Concierge: "Contexto:\n{lead_profile}\nFim."}
	out := set.RenderConcierge("PERFIL")
	if !strings.Contains(out, "PERFIL") || strings.Contains(out, "{lead_profile}") {
		t.Fatalf("placeholder not replaced: %q", out)
	}
}

func TestLoadSetEmbedsPrompts(t *testing.T) {
	t.Parallel()

	set := LoadSet()
	if set.Concierge == "" || set.Qualifier == "" || set.Onboarding == "" || set.Degraded == "" {
		t.Fatal("embedded prompts must not be empty")
	}
	if !strings.Contains(set.Concierge, "{lead_profile}") {
		t.Fatal("concierge prompt must carry the profile placeholder")
	}
}
