// Package intake registers leads arriving from the site forms and portals.
// Every registration runs the qualification extraction first; the extraction
// may degrade to the default record but never blocks the write.
package intake

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	contractx "github.com/imobiflow/imobiflow/agent/contract"
	qualifyx "github.com/imobiflow/imobiflow/agent/qualify"
	crmx "github.com/imobiflow/imobiflow/crm"
)

const interactionTypeFirstContact = "novo_contato"

type RegisterInput struct {
	Name                 string
	Phone                string
	Email                string
	Source               string
	Message              string
	InterestedPropertyID int64
}

type Service struct {
	crm       contractx.CRMStore
	qualifier *qualifyx.Qualifier
}

func New(crm contractx.CRMStore, qualifier *qualifyx.Qualifier) (*Service, error) {
	if crm == nil {
		return nil, errors.New("crm store is required")
	}
	if qualifier == nil {
		return nil, errors.New("qualifier is required")
	}
	return &Service{crm: crm, qualifier: qualifier}, nil
}

// Register creates the lead for a first contact, or refreshes the
// qualification of an already known phone. The first message is logged as an
// interaction either way.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*crmx.Lead, error) {
	phone := crmx.NormalizePhone(in.Phone)
	if phone == "" {
		return nil, fmt.Errorf("%w: phone is required", contractx.ErrValidation)
	}
	message := strings.TrimSpace(in.Message)
	if message == "" {
		return nil, fmt.Errorf("%w: message is required", contractx.ErrValidation)
	}

	result := s.qualifier.Qualify(ctx, qualifyx.Input{
		Message:              message,
		Source:               in.Source,
		InterestedPropertyID: in.InterestedPropertyID,
	})

	lead, err := s.crm.LeadByPhone(ctx, phone)
	switch {
	case err == nil:
		if err := s.refresh(ctx, lead, result); err != nil {
			return nil, err
		}
		lead, err = s.crm.LeadByPhone(ctx, phone)
		if err != nil {
			return nil, fmt.Errorf("reload lead after refresh: %w", err)
		}
	case errors.Is(err, crmx.ErrLeadNotFound):
		lead = &crmx.Lead{
			Phone:                  phone,
			Name:                   strings.TrimSpace(in.Name),
			Email:                  strings.TrimSpace(in.Email),
			Source:                 strings.TrimSpace(in.Source),
			Qualification:          result.Qualification,
			BuyerProfile:           result.BuyerProfile,
			UrgencyLevel:           result.UrgencyLevel,
			TransactionInterest:    result.TransactionInterest,
			BudgetMinCents:         result.BudgetMinCents,
			BudgetMaxCents:         result.BudgetMaxCents,
			PreferredNeighborhoods: result.PreferredNeighborhoods,
			PreferredPropertyTypes: result.PreferredPropertyTypes,
			Notes:                  result.Notes,
			Stage:                  crmx.StageNew,
		}
		if err := s.crm.CreateLead(ctx, lead); err != nil {
			return nil, fmt.Errorf("create lead: %w", err)
		}
	default:
		return nil, fmt.Errorf("lookup lead by phone: %w", err)
	}

	interaction := &crmx.Interaction{
		LeadID:      lead.ID,
		Type:        interactionTypeFirstContact,
		Subject:     "Novo contato recebido",
		Description: message,
	}
	if err := s.crm.CreateInteraction(ctx, interaction); err != nil {
		log.Warn().Err(err).Int64("lead_id", lead.ID).Msg("intake: first contact interaction write failed")
	}

	return lead, nil
}

// refresh overwrites the qualification fields of a known lead with the new
// extraction. The write is compare-and-set; one retry absorbs a concurrent
// update from the conversation path.
func (s *Service) refresh(ctx context.Context, lead *crmx.Lead, result qualifyx.Result) error {
	patch := crmx.LeadPatch{
		Qualification:       &result.Qualification,
		BuyerProfile:        &result.BuyerProfile,
		UrgencyLevel:        &result.UrgencyLevel,
		TransactionInterest: &result.TransactionInterest,
		Notes:               &result.Notes,
	}
	if result.BudgetMinCents > 0 {
		patch.BudgetMinCents = &result.BudgetMinCents
	}
	if result.BudgetMaxCents > 0 {
		patch.BudgetMaxCents = &result.BudgetMaxCents
	}
	if result.PreferredNeighborhoods != "" {
		patch.PreferredNeighborhoods = &result.PreferredNeighborhoods
	}
	if result.PreferredPropertyTypes != "" {
		patch.PreferredPropertyTypes = &result.PreferredPropertyTypes
	}

	err := s.crm.UpdateLead(ctx, lead.ID, lead.Version, patch)
	if !errors.Is(err, crmx.ErrConcurrentUpdate) {
		if err != nil {
			return fmt.Errorf("refresh lead qualification: %w", err)
		}
		return nil
	}

	fresh, err := s.crm.LeadByPhone(ctx, lead.Phone)
	if err != nil {
		return fmt.Errorf("reload lead for retry: %w", err)
	}
	if err := s.crm.UpdateLead(ctx, fresh.ID, fresh.Version, patch); err != nil {
		return fmt.Errorf("refresh lead qualification (retry): %w", err)
	}
	return nil
}
