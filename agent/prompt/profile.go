package prompt

import (
	"fmt"
	"strings"

	crmx "github.com/imobiflow/imobiflow/crm"
)

// LeadProfile projects a lead into the natural-language summary embedded in
// the concierge system prompt. Budget bounds are rendered in reais; missing
// fields fall back to the CRM defaults so the model never sees empty slots.
func LeadProfile(lead *crmx.Lead) string {
	if lead == nil {
		return ""
	}

	name := strings.TrimSpace(lead.Name)
	if name == "" {
		name = "um cliente ainda sem nome cadastrado"
	}

	budgetMin := "Não informado"
	if lead.BudgetMinCents > 0 {
		budgetMin = crmx.FormatBRL(lead.BudgetMinCents)
	}
	budgetMax := "Não informado"
	if lead.BudgetMaxCents > 0 {
		budgetMax = crmx.FormatBRL(lead.BudgetMaxCents)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "O lead atual é %s.\n", name)
	fmt.Fprintf(&b, "Qualificação: %s (Perfil: %s, Urgência: %s).\n",
		orDefault(string(lead.Qualification), string(crmx.QualificationUnqualified)),
		orDefault(string(lead.BuyerProfile), "Não definido"),
		orDefault(string(lead.UrgencyLevel), string(crmx.UrgencyMedium)),
	)
	fmt.Fprintf(&b, "Interesse: %s.\n", orDefault(string(lead.TransactionInterest), string(crmx.TransactionSale)))
	fmt.Fprintf(&b, "Orçamento: %s a %s.\n", budgetMin, budgetMax)
	fmt.Fprintf(&b, "Bairros Preferidos: %s.\n", orDefault(lead.PreferredNeighborhoods, "Não especificado"))
	fmt.Fprintf(&b, "Tipos Preferidos: %s.\n", orDefault(lead.PreferredPropertyTypes, "Não especificado"))
	fmt.Fprintf(&b, "Notas: %s.\n", orDefault(lead.Notes, "Sem notas adicionais"))
	b.WriteString("Use estas informações para personalizar a resposta.")
	return b.String()
}

func orDefault(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}
