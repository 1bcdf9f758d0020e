package concierge

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/compose"

	contractx "github.com/imobiflow/imobiflow/agent/contract"
	nodex "github.com/imobiflow/imobiflow/agent/nodes/concierge"
	promptx "github.com/imobiflow/imobiflow/agent/prompt"
	toolx "github.com/imobiflow/imobiflow/agent/tool"
)

var (
	ErrInvalidPhone   = nodex.ErrInvalidPhone
	ErrInvalidMessage = nodex.ErrInvalidMessage
)

const (
	defaultMaxToolRounds = 8
	defaultHistoryLimit  = 50
)

type Config struct {
	MaxToolRounds int
	HistoryLimit  int
}

// Concierge is the conversational front of the CRM: it answers a registered
// lead with the tool-equipped reasoning loop and routes unknown phones to the
// onboarding reply.
type Concierge struct {
	crm       contractx.CRMStore
	turns     contractx.ContextStore
	chatModel einomodel.BaseChatModel
	registry  *toolx.Registry
	prompts   promptx.Set

	graphRunner compose.Runnable[nodex.GraphInput, nodex.GraphOutput]

	maxToolRounds int
	historyLimit  int

	now func() time.Time
}

func New(
	crm contractx.CRMStore,
	turns contractx.ContextStore,
	chatModel einomodel.ToolCallingChatModel,
	registry *toolx.Registry,
	prompts promptx.Set,
	cfg Config,
) (*Concierge, error) {
	if crm == nil {
		return nil, errors.New("crm store is required")
	}
	if turns == nil {
		return nil, errors.New("context store is required")
	}
	if chatModel == nil {
		return nil, errors.New("chat model is required")
	}
	if registry == nil {
		return nil, errors.New("tool registry is required")
	}
	if strings.TrimSpace(prompts.Concierge) == "" {
		return nil, fmt.Errorf("%w: concierge prompt is empty", contractx.ErrPromptMissing)
	}

	boundModel, err := chatModel.WithTools(registry.Infos())
	if err != nil {
		return nil, fmt.Errorf("bind tool catalog to chat model: %w", err)
	}

	maxToolRounds := cfg.MaxToolRounds
	if maxToolRounds <= 0 {
		maxToolRounds = defaultMaxToolRounds
	}
	historyLimit := cfg.HistoryLimit
	if historyLimit <= 0 {
		historyLimit = defaultHistoryLimit
	}

	c := &Concierge{
		crm:           crm,
		turns:         turns,
		chatModel:     boundModel,
		registry:      registry,
		prompts:       prompts,
		maxToolRounds: maxToolRounds,
		historyLimit:  historyLimit,
		now:           time.Now,
	}

	graphRunner, err := c.compileHandleMessageGraph(context.Background())
	if err != nil {
		return nil, err
	}
	c.graphRunner = graphRunner

	return c, nil
}

// HandleMessage processes one inbound message addressed by phone. The session
// defaults to the phone itself, which is the WhatsApp-style channel contract.
func (c *Concierge) HandleMessage(ctx context.Context, phone string, text string) (string, error) {
	return c.HandleSession(ctx, phone, phone, text)
}

// HandleSession is HandleMessage with an explicit session, for channels that
// keep several conversations per phone.
func (c *Concierge) HandleSession(ctx context.Context, phone string, sessionID string, text string) (string, error) {
	out, err := c.graphRunner.Invoke(ctx, nodex.GraphInput{
		Phone:     phone,
		SessionID: sessionID,
		Text:      text,
	})
	if err != nil {
		return "", err
	}
	return out.Reply, nil
}
