package tool

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/schema"

	contractx "github.com/imobiflow/imobiflow/agent/contract"
)

const (
	ToolSearchProperties      = "searchProperties"
	ToolScheduleVisit         = "scheduleVisit"
	ToolSimulateFinancing     = "simulateFinancing"
	ToolEstimatePropertyValue = "estimatePropertyValue"
)

// Executor runs one tool call. The return value is always a string (plain
// error message or JSON payload) because it is re-injected verbatim into the
// message list; executors never return a Go error into the reasoning loop.
type Executor func(ctx context.Context, args map[string]any) string

// Registry maps tool names to their catalog entry and executor. The catalog
// is the only information the reasoning backend sees about capabilities.
type Registry struct {
	infos     []*schema.ToolInfo
	executors map[string]Executor
}

func New(infos []*schema.ToolInfo, executors map[string]Executor) *Registry {
	return &Registry{
		infos:     infos,
		executors: executors,
	}
}

func (r *Registry) Infos() []*schema.ToolInfo {
	return r.infos
}

// Execute resolves a tool by name and runs it with the JSON-encoded
// arguments. Unknown tools and malformed arguments are recoverable protocol
// errors: they come back as literal strings for the model to read.
func (r *Registry) Execute(ctx context.Context, name string, rawArgs string) string {
	exec, ok := r.executors[name]
	if !ok {
		return "Erro: Ferramenta desconhecida: " + name
	}

	args := map[string]any{}
	if trimmed := strings.TrimSpace(rawArgs); trimmed != "" {
		if err := json.Unmarshal([]byte(trimmed), &args); err != nil {
			return fmt.Sprintf("Erro: argumentos inválidos para a ferramenta %s: %v", name, err)
		}
	}

	return exec(ctx, args)
}

// Deps wires the executors to the CRM and the optional broker notifier.
type Deps struct {
	CRM              contractx.CRMStore
	Notifier         contractx.Notifier
	BrokerWebhookURL string
}

// Default assembles the production catalog.
func Default(deps Deps) (*Registry, error) {
	if deps.CRM == nil {
		return nil, fmt.Errorf("%w: crm store is required", contractx.ErrValidation)
	}

	executors := map[string]Executor{
		ToolSearchProperties: func(ctx context.Context, args map[string]any) string {
			return executeSearchProperties(ctx, deps.CRM, args)
		},
		ToolScheduleVisit: func(ctx context.Context, args map[string]any) string {
			return executeScheduleVisit(ctx, deps.CRM, deps.Notifier, deps.BrokerWebhookURL, args)
		},
		ToolSimulateFinancing:     executeSimulateFinancing,
		ToolEstimatePropertyValue: executeEstimatePropertyValue,
	}

	return New(catalogInfos(), executors), nil
}

func catalogInfos() []*schema.ToolInfo {
	return []*schema.ToolInfo{
		{
			Name: ToolSearchProperties,
			Desc: "Busca imóveis disponíveis no banco de dados com base nos critérios do cliente (orçamento, tipo, localização, etc.). Use esta ferramenta para responder a perguntas sobre imóveis específicos ou para sugerir opções.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"transactionType": {
					Type:     schema.String,
					Desc:     "Tipo de transação: 'venda', 'locacao' ou 'ambos'.",
					Enum:     []string{"venda", "locacao", "ambos"},
					Required: true,
				},
				"propertyType": {
					Type: schema.String,
					Desc: "Tipo de imóvel: 'casa', 'apartamento', 'cobertura', 'terreno', 'comercial', 'rural', 'lancamento'.",
				},
				"neighborhood": {
					Type: schema.String,
					Desc: "Bairro ou região de interesse.",
				},
				"minPrice": {
					Type: schema.Number,
					Desc: "Preço mínimo (em Reais).",
				},
				"maxPrice": {
					Type: schema.Number,
					Desc: "Preço máximo (em Reais).",
				},
				"bedrooms": {
					Type: schema.Number,
					Desc: "Número mínimo de quartos.",
				},
			}),
		},
		{
			Name: ToolScheduleVisit,
			Desc: "Agenda uma visita a um imóvel para um lead. Use esta função quando o cliente solicitar explicitamente agendar uma visita.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"propertyId": {
					Type:     schema.Number,
					Desc:     "O ID do imóvel que o cliente deseja visitar. Deve ser obtido de uma busca anterior (searchProperties).",
					Required: true,
				},
				"date": {
					Type:     schema.String,
					Desc:     "A data e hora sugerida para a visita no formato 'YYYY-MM-DD HH:MM'.",
					Required: true,
				},
				"leadPhone": {
					Type:     schema.String,
					Desc:     "O número de telefone do lead (cliente) que está solicitando o agendamento.",
					Required: true,
				},
			}),
		},
		{
			Name: ToolSimulateFinancing,
			Desc: "Simula o financiamento imobiliário nos principais bancos, nos sistemas Price e SAC. Use quando o cliente perguntar sobre parcelas ou financiamento.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"propertyValue": {
					Type:     schema.Number,
					Desc:     "Valor do imóvel (em Reais).",
					Required: true,
				},
				"downPayment": {
					Type:     schema.Number,
					Desc:     "Valor de entrada (em Reais).",
					Required: true,
				},
				"termMonths": {
					Type:     schema.Number,
					Desc:     "Prazo do financiamento em meses (ex: 360).",
					Required: true,
				},
			}),
		},
		{
			Name: ToolEstimatePropertyValue,
			Desc: "Estima a faixa de valor de mercado de um imóvel do cliente. Use quando o cliente quiser saber quanto vale o imóvel dele.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"propertyType": {
					Type:     schema.String,
					Desc:     "Tipo do imóvel: 'apartamento', 'casa', 'cobertura', 'terreno', 'comercial'.",
					Required: true,
				},
				"neighborhood": {
					Type:     schema.String,
					Desc:     "Bairro do imóvel.",
					Required: true,
				},
				"totalArea": {
					Type:     schema.Number,
					Desc:     "Área total em m².",
					Required: true,
				},
				"bedrooms": {
					Type: schema.Number,
					Desc: "Número de quartos.",
				},
				"bathrooms": {
					Type: schema.Number,
					Desc: "Número de banheiros.",
				},
				"condition": {
					Type: schema.String,
					Desc: "Estado de conservação: 'excelente', 'bom', 'regular', 'necessita_reforma'.",
				},
			}),
		},
	}
}

/* ---------------------------- argument helpers --------------------------- */

func stringArg(args map[string]any, key string) string {
	v, ok := args[key]
	if !ok {
		return ""
	}
	s, _ := v.(string)
	return strings.TrimSpace(s)
}

func numberArg(args map[string]any, key string) float64 {
	v, ok := args[key]
	if !ok {
		return 0
	}
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	case int64:
		return float64(n)
	case json.Number:
		f, _ := n.Float64()
		return f
	default:
		return 0
	}
}

func intArg(args map[string]any, key string) int {
	return int(numberArg(args, key))
}
