package llm

import (
	"fmt"
	"strings"
	"time"

	contractx "github.com/imobiflow/imobiflow/agent/contract"
	openrouterx "github.com/imobiflow/imobiflow/pkg/openrouter"
)

type Role string

const (
	RoleConcierge Role = "concierge"
	RoleQualifier Role = "qualifier"
)

// Config holds the shared OpenRouter settings plus per-role overrides. The
// concierge drives the conversation; the qualifier runs the one-shot
// structured extraction.
type Config struct {
	BaseURL            string        `envconfig:"BASE_URL" split_words:"true" default:"https://openrouter.ai/api/v1"`
	APIKey             string        `envconfig:"API_KEY" split_words:"true" required:"true"`
	Model              string        `envconfig:"MODEL" split_words:"true" required:"true"`
	MaxCompletionToken int           `envconfig:"MAX_COMPLETION_TOKEN" split_words:"true" default:"2000"`
	Temperature        float32       `envconfig:"TEMPERATURE" split_words:"true" default:"0.5"`
	Timeout            time.Duration `envconfig:"TIMEOUT" split_words:"true" default:"30s"`
	SiteURL            string        `envconfig:"SITE_URL" split_words:"true"`
	SiteName           string        `envconfig:"SITE_NAME" split_words:"true"`

	ConciergeModel       string  `envconfig:"CONCIERGE_MODEL" split_words:"true"`
	QualifierModel       string  `envconfig:"QUALIFIER_MODEL" split_words:"true"`
	ConciergeTemperature float32 `envconfig:"CONCIERGE_TEMPERATURE" split_words:"true" default:"-1"`
	QualifierTemperature float32 `envconfig:"QUALIFIER_TEMPERATURE" split_words:"true" default:"-1"`
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.APIKey) == "" {
		return fmt.Errorf("%w: openrouter api key is required", contractx.ErrValidation)
	}
	if strings.TrimSpace(c.Model) == "" {
		return fmt.Errorf("%w: default model is required", contractx.ErrValidation)
	}
	return nil
}

// OpenRouterFor resolves the effective model configuration for a role.
func (c Config) OpenRouterFor(role Role) openrouterx.Config {
	modelName := strings.TrimSpace(c.Model)
	temp := c.Temperature

	switch role {
	case RoleConcierge:
		if v := strings.TrimSpace(c.ConciergeModel); v != "" {
			modelName = v
		}
		if c.ConciergeTemperature >= 0 {
			temp = c.ConciergeTemperature
		}
	case RoleQualifier:
		if v := strings.TrimSpace(c.QualifierModel); v != "" {
			modelName = v
		}
		if c.QualifierTemperature >= 0 {
			temp = c.QualifierTemperature
		}
	}

	maxCompletionToken := c.MaxCompletionToken
	return openrouterx.Config{
		BaseURL:            strings.TrimSpace(c.BaseURL),
		APIKey:             strings.TrimSpace(c.APIKey),
		Model:              modelName,
		MaxCompletionToken: &maxCompletionToken,
		Temperature:        temp,
		Timeout:            c.Timeout,
		SiteURL:            strings.TrimSpace(c.SiteURL),
		SiteName:           strings.TrimSpace(c.SiteName),
	}
}
