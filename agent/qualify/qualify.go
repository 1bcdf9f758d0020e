// Package qualify runs the one-shot qualification extraction over a lead's
// first message. Extraction failure never blocks lead creation: every error
// collapses into the default unqualified record.
package qualify

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	crmx "github.com/imobiflow/imobiflow/crm"
)

// Invoker is the structured-output slice of the reasoning port: it returns a
// JSON document conforming to the qualification schema.
type Invoker interface {
	Extract(ctx context.Context, systemPrompt, userMessage string) (string, error)
}

type Input struct {
	Message              string
	Source               string
	InterestedPropertyID int64
}

// Result carries the extracted qualification. Budget bounds are in cents.
type Result struct {
	Qualification          crmx.Qualification
	BuyerProfile           crmx.BuyerProfile
	UrgencyLevel           crmx.UrgencyLevel
	TransactionInterest    crmx.TransactionInterest
	BudgetMinCents         int64
	BudgetMaxCents         int64
	PreferredNeighborhoods string
	PreferredPropertyTypes string
	Notes                  string
}

// llmOutput mirrors the schema the model is asked for: budgets in reais,
// enums as plain strings that still need validation.
type llmOutput struct {
	Qualification          string  `json:"qualification"`
	BuyerProfile           string  `json:"buyerProfile"`
	UrgencyLevel           string  `json:"urgencyLevel"`
	TransactionInterest    string  `json:"transactionInterest"`
	BudgetMin              float64 `json:"budgetMin"`
	BudgetMax              float64 `json:"budgetMax"`
	PreferredNeighborhoods string  `json:"preferredNeighborhoods"`
	PreferredPropertyTypes string  `json:"preferredPropertyTypes"`
	Notes                  string  `json:"notes"`
}

type Qualifier struct {
	invoker      Invoker
	systemPrompt string
}

func New(invoker Invoker, systemPrompt string) *Qualifier {
	return &Qualifier{
		invoker:      invoker,
		systemPrompt: systemPrompt,
	}
}

// Qualify extracts the qualification record from the lead's first message.
// It never fails: invocation or parse errors yield DefaultResult.
func (q *Qualifier) Qualify(ctx context.Context, in Input) Result {
	userMessage := fmt.Sprintf("Mensagem do Lead (Fonte: %s): %q", orUnknown(in.Source), in.Message)
	if in.InterestedPropertyID > 0 {
		userMessage += fmt.Sprintf("\nO lead demonstrou interesse inicial no imóvel ID: %d.", in.InterestedPropertyID)
	}

	raw, err := q.invoker.Extract(ctx, q.systemPrompt, userMessage)
	if err != nil {
		log.Warn().Err(err).Msg("lead qualification invoke failed, using defaults")
		return DefaultResult(in.Message)
	}

	var out llmOutput
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		log.Warn().Err(err).Msg("lead qualification parse failed, using defaults")
		return DefaultResult(in.Message)
	}

	return Result{
		Qualification:          crmx.ParseQualification(out.Qualification),
		BuyerProfile:           crmx.ParseBuyerProfile(out.BuyerProfile),
		UrgencyLevel:           crmx.ParseUrgency(out.UrgencyLevel),
		TransactionInterest:    crmx.ParseTransactionInterest(out.TransactionInterest),
		BudgetMinCents:         crmx.MajorToCents(out.BudgetMin),
		BudgetMaxCents:         crmx.MajorToCents(out.BudgetMax),
		PreferredNeighborhoods: strings.TrimSpace(out.PreferredNeighborhoods),
		PreferredPropertyTypes: strings.TrimSpace(out.PreferredPropertyTypes),
		Notes:                  strings.TrimSpace(out.Notes),
	}
}

// DefaultResult is the documented fallback record; the original message is
// preserved in the notes so a human can re-qualify later.
func DefaultResult(message string) Result {
	return Result{
		Qualification:       crmx.QualificationUnqualified,
		BuyerProfile:        crmx.BuyerCurious,
		UrgencyLevel:        crmx.UrgencyLow,
		TransactionInterest: crmx.TransactionSale,
		Notes:               "Falha na qualificação automática. Mensagem original: " + message,
	}
}

func orUnknown(source string) string {
	if strings.TrimSpace(source) == "" {
		return "desconhecida"
	}
	return source
}
