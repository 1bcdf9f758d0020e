package tool

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog/log"

	crmx "github.com/imobiflow/imobiflow/crm"
	financex "github.com/imobiflow/imobiflow/finance"
	valuationx "github.com/imobiflow/imobiflow/valuation"
)

type bankSimulationResult struct {
	BankName     string  `json:"bankName"`
	System       string  `json:"system"`
	AnnualRate   float64 `json:"annualRate"`
	FirstPayment string  `json:"firstPayment"`
	LoanAmount   string  `json:"loanAmount"`
}

func executeSimulateFinancing(_ context.Context, args map[string]any) string {
	propertyValue := numberArg(args, "propertyValue")
	downPayment := numberArg(args, "downPayment")
	termMonths := intArg(args, "termMonths")

	if propertyValue <= 0 {
		return "Erro: informe o valor do imóvel para simular o financiamento."
	}
	if termMonths <= 0 {
		return "Erro: informe o prazo do financiamento em meses."
	}

	simulations := financex.Simulate(financex.SimulationInput{
		PropertyValueCents: crmx.MajorToCents(propertyValue),
		DownPaymentCents:   crmx.MajorToCents(downPayment),
		TermMonths:         termMonths,
	})
	if len(simulations) == 0 {
		return "O valor de entrada cobre o valor do imóvel; não é necessário financiamento."
	}

	results := make([]bankSimulationResult, 0, len(simulations))
	for _, sim := range simulations {
		results = append(results, bankSimulationResult{
			BankName:     sim.BankName,
			System:       string(sim.System),
			AnnualRate:   sim.AnnualRate,
			FirstPayment: crmx.FormatBRL(sim.FirstPaymentCents),
			LoanAmount:   crmx.FormatBRL(sim.LoanAmountCents),
		})
	}

	payload, err := json.Marshal(map[string]any{
		"results": results,
		"message": fmt.Sprintf("Simulação de financiamento em %d meses para os principais bancos (primeira parcela estimada).", termMonths),
	})
	if err != nil {
		log.Error().Err(err).Msg("financing simulation payload marshal failed")
		return "Erro: não foi possível montar a simulação de financiamento."
	}
	return string(payload)
}

func executeEstimatePropertyValue(_ context.Context, args map[string]any) string {
	totalArea := numberArg(args, "totalArea")
	if totalArea <= 0 {
		return "Erro: informe a área total do imóvel em m² para estimar o valor."
	}

	result := valuationx.Estimate(valuationx.Input{
		PropertyType: stringArg(args, "propertyType"),
		Neighborhood: stringArg(args, "neighborhood"),
		TotalAreaSqm: totalArea,
		Bedrooms:     intArg(args, "bedrooms"),
		Bathrooms:    intArg(args, "bathrooms"),
		Condition:    stringArg(args, "condition"),
	})

	payload, err := json.Marshal(map[string]any{
		"estimatedMin": crmx.FormatBRL(result.EstimatedMinCents),
		"estimatedMax": crmx.FormatBRL(result.EstimatedMaxCents),
		"message":      "Faixa estimada de valor de mercado do imóvel.",
	})
	if err != nil {
		log.Error().Err(err).Msg("valuation payload marshal failed")
		return "Erro: não foi possível estimar o valor do imóvel."
	}
	return string(payload)
}
