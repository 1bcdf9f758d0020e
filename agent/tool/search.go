package tool

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog/log"

	contractx "github.com/imobiflow/imobiflow/agent/contract"
	crmx "github.com/imobiflow/imobiflow/crm"
)

const searchResultLimit = 3

const (
	noResultsMessage  = "Nenhum imóvel encontrado com os critérios fornecidos."
	searchFailedReply = "Ocorreu um erro ao buscar os imóveis. Tente novamente mais tarde."
)

type propertyResult struct {
	ID              int64  `json:"id"`
	Title           string `json:"title"`
	ReferenceCode   string `json:"referenceCode"`
	PropertyType    string `json:"propertyType"`
	TransactionType string `json:"transactionType"`
	Neighborhood    string `json:"neighborhood"`
	City            string `json:"city"`
	Price           string `json:"price"`
	Bedrooms        int    `json:"bedrooms"`
	URL             string `json:"url"`
}

type searchPayload struct {
	Count   int              `json:"count"`
	Results []propertyResult `json:"results"`
	Message string           `json:"message"`
}

// executeSearchProperties queries the catalog with the model-provided
// filters. Prices arrive in reais and are converted to cents before the
// query; the "available" status filter is always applied.
func executeSearchProperties(ctx context.Context, store contractx.CRMStore, args map[string]any) string {
	filter := crmx.PropertyFilter{
		TransactionType: string(crmx.ParseTransactionInterest(stringArg(args, "transactionType"))),
		PropertyType:    stringArg(args, "propertyType"),
		Neighborhood:    stringArg(args, "neighborhood"),
		MinBedrooms:     intArg(args, "bedrooms"),
		Status:          crmx.PropertyStatusAvailable,
	}
	if minPrice := numberArg(args, "minPrice"); minPrice > 0 {
		filter.MinPriceCents = crmx.MajorToCents(minPrice)
	}
	if maxPrice := numberArg(args, "maxPrice"); maxPrice > 0 {
		filter.MaxPriceCents = crmx.MajorToCents(maxPrice)
	}

	properties, err := store.ListProperties(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("property search failed")
		return searchFailedReply
	}

	if len(properties) == 0 {
		return noResultsMessage
	}

	shown := properties
	if len(shown) > searchResultLimit {
		shown = shown[:searchResultLimit]
	}

	results := make([]propertyResult, 0, len(shown))
	for i := range shown {
		p := &shown[i]
		results = append(results, propertyResult{
			ID:              p.ID,
			Title:           p.Title,
			ReferenceCode:   p.ReferenceCode,
			PropertyType:    p.PropertyType,
			TransactionType: p.TransactionType,
			Neighborhood:    p.Neighborhood,
			City:            p.City,
			Price:           displayPrice(p),
			Bedrooms:        p.Bedrooms,
			URL:             p.URL(),
		})
	}

	payload, err := json.Marshal(searchPayload{
		Count:   len(properties),
		Results: results,
		Message: fmt.Sprintf("Encontrados %d imóveis. Exibindo os %d primeiros.", len(properties), searchResultLimit),
	})
	if err != nil {
		log.Error().Err(err).Msg("property search payload marshal failed")
		return searchFailedReply
	}
	return string(payload)
}

func displayPrice(p *crmx.Property) string {
	switch {
	case p.SalePriceCents > 0:
		return crmx.FormatBRL(p.SalePriceCents)
	case p.RentPriceCents > 0:
		return crmx.FormatBRL(p.RentPriceCents) + "/mês"
	default:
		return "Preço sob consulta"
	}
}
