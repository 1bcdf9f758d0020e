package qualify

import (
	"context"
	"fmt"
	"strings"

	openaisdk "github.com/openai/openai-go"
	"github.com/openai/openai-go/shared"

	contractx "github.com/imobiflow/imobiflow/agent/contract"
)

// qualificationSchema is the strict output contract sent to the model. The
// response is still re-validated locally; see crm enum parsers.
var qualificationSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"qualification": map[string]any{
			"type":        "string",
			"description": "Classificação do lead: 'quente' (pronto para comprar/alugar), 'morno' (interessado, mas não urgente), 'frio' (apenas pesquisando) ou 'nao_qualificado'.",
			"enum":        []string{"quente", "morno", "frio", "nao_qualificado"},
		},
		"buyerProfile": map[string]any{
			"type":        "string",
			"description": "Perfil do comprador: 'investidor', 'primeira_casa', 'upgrade', 'curioso', 'indeciso', 'proprietario'.",
			"enum":        []string{"investidor", "primeira_casa", "upgrade", "curioso", "indeciso", "proprietario"},
		},
		"urgencyLevel": map[string]any{
			"type":        "string",
			"description": "Nível de urgência: 'baixa', 'media', 'alta', 'urgente'.",
			"enum":        []string{"baixa", "media", "alta", "urgente"},
		},
		"transactionInterest": map[string]any{
			"type":        "string",
			"description": "Tipo de transação de interesse: 'venda', 'locacao' ou 'ambos'.",
			"enum":        []string{"venda", "locacao", "ambos"},
		},
		"budgetMin": map[string]any{
			"type":        "number",
			"description": "Orçamento mínimo estimado (em reais). Se não for possível estimar, use 0.",
		},
		"budgetMax": map[string]any{
			"type":        "number",
			"description": "Orçamento máximo estimado (em reais). Se não for possível estimar, use 0.",
		},
		"preferredNeighborhoods": map[string]any{
			"type":        "string",
			"description": "Lista de bairros preferidos, separados por vírgula. Se não houver, use string vazia.",
		},
		"preferredPropertyTypes": map[string]any{
			"type":        "string",
			"description": "Lista de tipos de imóveis preferidos (ex: 'casa', 'apartamento', 'cobertura'), separados por vírgula. Se não houver, use string vazia.",
		},
		"notes": map[string]any{
			"type":        "string",
			"description": "Resumo da intenção do lead em uma frase, para ser adicionado às notas do lead.",
		},
	},
	"required": []string{
		"qualification", "buyerProfile", "urgencyLevel", "transactionInterest",
		"budgetMin", "budgetMax", "preferredNeighborhoods", "preferredPropertyTypes", "notes",
	},
	"additionalProperties": false,
}

// OpenAIInvoker extracts qualification data through a chat completion with a
// strict json_schema response format.
type OpenAIInvoker struct {
	client *openaisdk.Client
	model  string
}

func NewOpenAIInvoker(client *openaisdk.Client, model string) (*OpenAIInvoker, error) {
	if client == nil {
		return nil, fmt.Errorf("%w: openai client is required", contractx.ErrValidation)
	}
	model = strings.TrimSpace(model)
	if model == "" {
		return nil, fmt.Errorf("%w: qualifier model is required", contractx.ErrValidation)
	}
	return &OpenAIInvoker{client: client, model: model}, nil
}

func (i *OpenAIInvoker) Extract(ctx context.Context, systemPrompt, userMessage string) (string, error) {
	resp, err := i.client.Chat.Completions.New(ctx, openaisdk.ChatCompletionNewParams{
		Model: shared.ChatModel(i.model),
		Messages: []openaisdk.ChatCompletionMessageParamUnion{
			openaisdk.SystemMessage(systemPrompt),
			openaisdk.UserMessage(userMessage),
		},
		ResponseFormat: openaisdk.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONSchema: &shared.ResponseFormatJSONSchemaParam{
				JSONSchema: shared.ResponseFormatJSONSchemaJSONSchemaParam{
					Name:   "LeadQualification",
					Strict: openaisdk.Bool(true),
					Schema: qualificationSchema,
				},
			},
		},
	})
	if err != nil {
		return "", fmt.Errorf("%w: qualification completion: %v", contractx.ErrModelInvoke, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: qualification completion returned no choices", contractx.ErrSchemaViolation)
	}

	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	if content == "" {
		return "", fmt.Errorf("%w: qualification completion returned empty content", contractx.ErrSchemaViolation)
	}
	return content, nil
}
