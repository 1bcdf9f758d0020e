package qualify

import (
	"context"
	"errors"
	"strings"
	"testing"

	crmx "github.com/imobiflow/imobiflow/crm"
)

type fakeInvoker struct {
	raw   string
	err   error
	calls int

	lastSystem string
	lastUser   string
}

func (f *fakeInvoker) Extract(ctx context.Context, systemPrompt, userMessage string) (string, error) {
	f.calls++
	f.lastSystem = systemPrompt
	f.lastUser = userMessage
	if f.err != nil {
		return "", f.err
	}
	return f.raw, nil
}

func TestQualifyParsesStructuredOutput(t *testing.T) {
	t.Parallel()

	invoker := &fakeInvoker{
		raw: `{
			"qualification": "quente",
			"buyerProfile": "investidor",
			"urgencyLevel": "alta",
			"transactionInterest": "venda",
			"budgetMin": 400000,
			"budgetMax": 500000,
			"preferredNeighborhoods": "Asa Sul, Sudoeste",
			"preferredPropertyTypes": "apartamento",
			"notes": "Quer fechar este mês."
		}`,
	}
	q := New(invoker, "prompt")

	result := q.Qualify(context.Background(), Input{
		Message: "Procuro apartamento na Asa Sul, até 500 mil, para fechar este mês.",
		Source:  "site",
	})

	if result.Qualification != crmx.QualificationHot {
		t.Fatalf("unexpected qualification: %s", result.Qualification)
	}
	if result.BuyerProfile != crmx.BuyerInvestor {
		t.Fatalf("unexpected buyer profile: %s", result.BuyerProfile)
	}
	if result.BudgetMinCents != 40_000_000 {
		t.Fatalf("budget min not converted to cents: %d", result.BudgetMinCents)
	}
	if result.BudgetMaxCents != 50_000_000 {
		t.Fatalf("budget max not converted to cents: %d", result.BudgetMaxCents)
	}
	if result.PreferredNeighborhoods != "Asa Sul, Sudoeste" {
		t.Fatalf("unexpected neighborhoods: %q", result.PreferredNeighborhoods)
	}
	if invoker.calls != 1 {
		t.Fatalf("expected one invoke, got %d", invoker.calls)
	}
	if !strings.Contains(invoker.lastUser, "Fonte: site") {
		t.Fatalf("source missing from user message: %q", invoker.lastUser)
	}
}

func TestQualifyRejectsUnknownEnumValues(t *testing.T) {
	t.Parallel()

	invoker := &fakeInvoker{
		raw: `{
			"qualification": "incandescente",
			"buyerProfile": "bilionario",
			"urgencyLevel": "ontem",
			"transactionInterest": "permuta",
			"budgetMin": 0,
			"budgetMax": 0,
			"preferredNeighborhoods": "",
			"preferredPropertyTypes": "",
			"notes": "n/a"
		}`,
	}
	q := New(invoker, "prompt")

	result := q.Qualify(context.Background(), Input{Message: "oi"})
	if result.Qualification != crmx.QualificationUnqualified {
		t.Fatalf("unexpected qualification: %s", result.Qualification)
	}
	if result.BuyerProfile != crmx.BuyerCurious {
		t.Fatalf("unexpected buyer profile: %s", result.BuyerProfile)
	}
	if result.UrgencyLevel != crmx.UrgencyLow {
		t.Fatalf("unexpected urgency: %s", result.UrgencyLevel)
	}
	if result.TransactionInterest != crmx.TransactionSale {
		t.Fatalf("unexpected transaction interest: %s", result.TransactionInterest)
	}
}

func TestQualifyInvokeFailureFallsBackToDefault(t *testing.T) {
	t.Parallel()

	invoker := &fakeInvoker{err: errors.New("model unavailable")}
	q := New(invoker, "prompt")

	message := "Procuro casa em Taguatinga"
	result := q.Qualify(context.Background(), Input{Message: message})

	if result.Qualification != crmx.QualificationUnqualified {
		t.Fatalf("unexpected qualification: %s", result.Qualification)
	}
	if !strings.Contains(result.Notes, message) {
		t.Fatalf("original message not preserved in notes: %q", result.Notes)
	}
}

func TestQualifyParseFailureFallsBackToDefault(t *testing.T) {
	t.Parallel()

	invoker := &fakeInvoker{raw: "isso não é json"}
	q := New(invoker, "prompt")

	result := q.Qualify(context.Background(), Input{Message: "olá"})
	if result.Qualification != crmx.QualificationUnqualified {
		t.Fatalf("unexpected qualification: %s", result.Qualification)
	}
	if !strings.Contains(result.Notes, "Falha na qualificação automática") {
		t.Fatalf("unexpected notes: %q", result.Notes)
	}
}

func TestQualifyMentionsInterestedProperty(t *testing.T) {
	t.Parallel()

	invoker := &fakeInvoker{err: errors.New("short circuit")}
	q := New(invoker, "prompt")

	q.Qualify(context.Background(), Input{Message: "oi", InterestedPropertyID: 42})
	if !strings.Contains(invoker.lastUser, "ID: 42") {
		t.Fatalf("property interest missing from user message: %q", invoker.lastUser)
	}
}
