package tool

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	contractx "github.com/imobiflow/imobiflow/agent/contract"
	crmx "github.com/imobiflow/imobiflow/crm"
)

const (
	leadNotFoundReply   = "Erro: Não foi possível encontrar o lead com o telefone fornecido. Peça ao cliente para confirmar o telefone."
	scheduleFailedReply = "Erro: Não foi possível agendar a visita agora. Tente novamente mais tarde."
)

// executeScheduleVisit books a visit: one Interaction audit record, an
// unconditional lead stage advance to visita_agendada, and a best-effort
// broker notification. The steps are independent at-least-once operations;
// there is no rollback if a later one fails.
func executeScheduleVisit(
	ctx context.Context,
	store contractx.CRMStore,
	notifier contractx.Notifier,
	brokerWebhookURL string,
	args map[string]any,
) string {
	propertyID := int64(numberArg(args, "propertyId"))
	date := stringArg(args, "date")
	leadPhone := stringArg(args, "leadPhone")

	if propertyID <= 0 {
		return "Erro: informe o ID do imóvel que o cliente deseja visitar."
	}
	if date == "" {
		return "Erro: informe a data desejada para a visita."
	}

	lead, err := store.LeadByPhone(ctx, leadPhone)
	if err != nil {
		if errors.Is(err, crmx.ErrLeadNotFound) {
			return leadNotFoundReply
		}
		log.Error().Err(err).Msg("schedule visit: lead lookup failed")
		return scheduleFailedReply
	}

	property, err := store.PropertyByID(ctx, propertyID)
	if err != nil {
		if errors.Is(err, crmx.ErrPropertyNotFound) {
			return fmt.Sprintf("Erro: Imóvel com ID %d não encontrado. Por favor, verifique o ID.", propertyID)
		}
		log.Error().Err(err).Msg("schedule visit: property lookup failed")
		return scheduleFailedReply
	}

	metadata, _ := json.Marshal(map[string]any{
		"propertyId": propertyID,
		"date":       date,
	})
	interaction := &crmx.Interaction{
		LeadID:      lead.ID,
		Type:        string(crmx.StageVisitScheduled),
		Subject:     fmt.Sprintf("Visita Agendada para %s", property.Title),
		Description: fmt.Sprintf("Visita agendada para o imóvel %s (%s) em %s.", property.Title, property.ReferenceCode, date),
		Metadata:    string(metadata),
	}
	if err := store.CreateInteraction(ctx, interaction); err != nil {
		log.Error().Err(err).Msg("schedule visit: interaction write failed")
		return scheduleFailedReply
	}

	if err := advanceStage(ctx, store, lead); err != nil {
		log.Error().Err(err).Int64("lead_id", lead.ID).Msg("schedule visit: stage update failed")
		return scheduleFailedReply
	}

	notifyBroker(ctx, notifier, brokerWebhookURL, lead, property, date)

	return fmt.Sprintf(
		"Visita agendada com sucesso para o imóvel %q em %s. O corretor responsável entrará em contato para confirmar os detalhes.",
		property.Title, date,
	)
}

// advanceStage sets the lead to visita_agendada. The write is compare-and-set
// on the lead version; a single retry re-reads the lead so a concurrent
// qualification update does not fail the booking.
func advanceStage(ctx context.Context, store contractx.CRMStore, lead *crmx.Lead) error {
	stage := crmx.StageVisitScheduled
	patch := crmx.LeadPatch{Stage: &stage}

	err := store.UpdateLead(ctx, lead.ID, lead.Version, patch)
	if !errors.Is(err, crmx.ErrConcurrentUpdate) {
		return err
	}

	fresh, err := store.LeadByPhone(ctx, lead.Phone)
	if err != nil {
		return err
	}
	return store.UpdateLead(ctx, fresh.ID, fresh.Version, patch)
}

func notifyBroker(
	ctx context.Context,
	notifier contractx.Notifier,
	brokerWebhookURL string,
	lead *crmx.Lead,
	property *crmx.Property,
	date string,
) {
	if notifier == nil || brokerWebhookURL == "" {
		return
	}

	event := map[string]any{
		"event":         "visit_scheduled",
		"leadId":        lead.ID,
		"leadPhone":     lead.Phone,
		"propertyId":    property.ID,
		"referenceCode": property.ReferenceCode,
		"date":          date,
	}
	if err := notifier.Publish(ctx, brokerWebhookURL, event); err != nil {
		log.Warn().Err(err).Msg("schedule visit: broker notification failed")
	}
}
