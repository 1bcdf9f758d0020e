package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog/log"

	conciergex "github.com/imobiflow/imobiflow/agent/agents/concierge"
	contractx "github.com/imobiflow/imobiflow/agent/contract"
	intakex "github.com/imobiflow/imobiflow/agent/intake"
	llmx "github.com/imobiflow/imobiflow/agent/llm"
	promptx "github.com/imobiflow/imobiflow/agent/prompt"
	qualifyx "github.com/imobiflow/imobiflow/agent/qualify"
	toolx "github.com/imobiflow/imobiflow/agent/tool"
	crmx "github.com/imobiflow/imobiflow/crm"
	configx "github.com/imobiflow/imobiflow/pkg/config"
	_ "github.com/imobiflow/imobiflow/pkg/logger/autoload"
	openrouterx "github.com/imobiflow/imobiflow/pkg/openrouter"
	qstashx "github.com/imobiflow/imobiflow/pkg/qstash"
)

type AppConfig struct {
	BrokerWebhookURL string `envconfig:"BROKER_WEBHOOK_URL" split_words:"true"`
	MaxToolRounds    int    `envconfig:"MAX_TOOL_ROUNDS" split_words:"true"`
	HistoryLimit     int    `envconfig:"HISTORY_LIMIT" split_words:"true"`
}

func main() {
	ctx := context.Background()

	appCfg := configx.MustNew[AppConfig]("")

	llmCfg := configx.MustNew[llmx.Config]("OPENROUTER")
	if err := llmCfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid openrouter configuration")
	}

	pgCfg := configx.MustNew[crmx.PostgresConfig]("POSTGRES")
	store, err := crmx.Open(ctx, *pgCfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open crm store")
	}
	defer store.Close()

	var notifier contractx.Notifier
	if appCfg.BrokerWebhookURL != "" {
		qstashCfg := configx.MustNew[qstashx.Config]("QSTASH")
		notifier = qstashx.MustNew(*qstashCfg)
	}

	registry, err := toolx.Default(toolx.Deps{
		CRM:              store,
		Notifier:         notifier,
		BrokerWebhookURL: appCfg.BrokerWebhookURL,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build tool catalog")
	}

	prompts := promptx.LoadSet()

	conciergeModelCfg := llmCfg.OpenRouterFor(llmx.RoleConcierge)
	chatModel, err := conciergeModelCfg.New(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create concierge chat model")
	}

	qualifierModelCfg := llmCfg.OpenRouterFor(llmx.RoleQualifier)
	invoker, err := qualifyx.NewOpenAIInvoker(openrouterx.NewClient(qualifierModelCfg), qualifierModelCfg.Model)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create qualification invoker")
	}
	qualifier := qualifyx.New(invoker, prompts.Qualifier)

	intakeSvc, err := intakex.New(store, qualifier)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create intake service")
	}

	concierge, err := conciergex.New(store, store, chatModel, registry, prompts, conciergex.Config{
		MaxToolRounds: appCfg.MaxToolRounds,
		HistoryLimit:  appCfg.HistoryLimit,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create concierge")
	}

	log.Info().Msg("imobiflow concierge ready")
	runREPL(ctx, concierge, intakeSvc)
}

// runREPL is the development channel: each line is "<phone>: <message>", or
// "register <phone> <name>: <message>" to run the intake flow first.
func runREPL(ctx context.Context, concierge *conciergex.Concierge, intakeSvc *intakex.Service) {
	fmt.Println("imobiflow> formato: <telefone>: <mensagem>  |  register <telefone> <nome>: <mensagem>")

	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "exit" || line == "quit" {
			return
		}

		if rest, ok := strings.CutPrefix(line, "register "); ok {
			handleRegister(ctx, intakeSvc, rest)
			continue
		}

		phone, message, ok := strings.Cut(line, ":")
		if !ok {
			fmt.Println("formato: <telefone>: <mensagem>")
			continue
		}

		reply, err := concierge.HandleMessage(ctx, strings.TrimSpace(phone), strings.TrimSpace(message))
		if err != nil {
			log.Error().Err(err).Msg("handle message failed")
			continue
		}
		fmt.Println(reply)
	}

	if err := scanner.Err(); err != nil {
		log.Error().Err(err).Msg("stdin read failed")
	}
}

func handleRegister(ctx context.Context, intakeSvc *intakex.Service, rest string) {
	head, message, ok := strings.Cut(rest, ":")
	if !ok {
		fmt.Println("formato: register <telefone> <nome>: <mensagem>")
		return
	}
	phone, name, _ := strings.Cut(strings.TrimSpace(head), " ")

	lead, err := intakeSvc.Register(ctx, intakex.RegisterInput{
		Name:    strings.TrimSpace(name),
		Phone:   phone,
		Source:  "repl",
		Message: strings.TrimSpace(message),
	})
	if err != nil {
		log.Error().Err(err).Msg("register lead failed")
		return
	}
	fmt.Printf("lead %d registrado (%s, qualificação: %s)\n", lead.ID, lead.Phone, lead.Qualification)
}
