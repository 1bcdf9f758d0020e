package crm

import (
	"strconv"
	"strings"
	"time"

	"github.com/uptrace/bun"
)

// Enum values follow the CRM's pt-BR vocabulary; the agent never invents
// values outside these sets.

type Qualification string

const (
	QualificationHot         Qualification = "quente"
	QualificationWarm        Qualification = "morno"
	QualificationCold        Qualification = "frio"
	QualificationUnqualified Qualification = "nao_qualificado"
)

type BuyerProfile string

const (
	BuyerInvestor  BuyerProfile = "investidor"
	BuyerFirstHome BuyerProfile = "primeira_casa"
	BuyerUpgrade   BuyerProfile = "upgrade"
	BuyerCurious   BuyerProfile = "curioso"
	BuyerUndecided BuyerProfile = "indeciso"
	BuyerOwner     BuyerProfile = "proprietario"
)

type UrgencyLevel string

const (
	UrgencyLow    UrgencyLevel = "baixa"
	UrgencyMedium UrgencyLevel = "media"
	UrgencyHigh   UrgencyLevel = "alta"
	UrgencyUrgent UrgencyLevel = "urgente"
)

type TransactionInterest string

const (
	TransactionSale   TransactionInterest = "venda"
	TransactionRental TransactionInterest = "locacao"
	TransactionBoth   TransactionInterest = "ambos"
)

type Stage string

const (
	StageNew            Stage = "novo"
	StageInContact      Stage = "em_contato"
	StageQualified      Stage = "qualificado"
	StageVisitScheduled Stage = "visita_agendada"
	StageProposal       Stage = "proposta"
	StageClosed         Stage = "fechado"
	StageLost           Stage = "perdido"
)

const PropertyStatusAvailable = "disponivel"

// Turn roles mirror the chat-completions protocol.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleTool      = "tool"
)

// Lead is uniquely addressed by normalized phone. Budget bounds are stored
// in cents; Version backs compare-and-set updates.
type Lead struct {
	bun.BaseModel `bun:"table:leads,alias:l"`

	ID                     int64               `bun:"id,pk,autoincrement"`
	Phone                  string              `bun:"phone,notnull,unique"`
	Name                   string              `bun:"name"`
	Email                  string              `bun:"email"`
	Source                 string              `bun:"source"`
	Qualification          Qualification       `bun:"qualification"`
	BuyerProfile           BuyerProfile        `bun:"buyer_profile"`
	UrgencyLevel           UrgencyLevel        `bun:"urgency_level"`
	TransactionInterest    TransactionInterest `bun:"transaction_interest"`
	BudgetMinCents         int64               `bun:"budget_min_cents"`
	BudgetMaxCents         int64               `bun:"budget_max_cents"`
	PreferredNeighborhoods string              `bun:"preferred_neighborhoods"`
	PreferredPropertyTypes string              `bun:"preferred_property_types"`
	Notes                  string              `bun:"notes"`
	Stage                  Stage               `bun:"stage,default:'novo'"`
	Version                int64               `bun:"version,notnull,default:1"`
	CreatedAt              time.Time           `bun:"created_at,nullzero,default:current_timestamp"`
	UpdatedAt              time.Time           `bun:"updated_at,nullzero,default:current_timestamp"`
}

// LeadPatch carries a partial lead update; nil fields are left untouched.
type LeadPatch struct {
	Name                   *string
	Email                  *string
	Qualification          *Qualification
	BuyerProfile           *BuyerProfile
	UrgencyLevel           *UrgencyLevel
	TransactionInterest    *TransactionInterest
	BudgetMinCents         *int64
	BudgetMaxCents         *int64
	PreferredNeighborhoods *string
	PreferredPropertyTypes *string
	Notes                  *string
	Stage                  *Stage
}

type Property struct {
	bun.BaseModel `bun:"table:properties,alias:p"`

	ID              int64  `bun:"id,pk,autoincrement"`
	Title           string `bun:"title,notnull"`
	Slug            string `bun:"slug"`
	ReferenceCode   string `bun:"reference_code"`
	PropertyType    string `bun:"property_type"`
	TransactionType string `bun:"transaction_type"`
	Neighborhood    string `bun:"neighborhood"`
	City            string `bun:"city"`
	SalePriceCents  int64  `bun:"sale_price_cents"`
	RentPriceCents  int64  `bun:"rent_price_cents"`
	Bedrooms        int    `bun:"bedrooms"`
	Status          string `bun:"status,default:'disponivel'"`
}

// URL returns the browsable path for the property, preferring the slug.
func (p *Property) URL() string {
	if strings.TrimSpace(p.Slug) != "" {
		return "/imovel/" + p.Slug
	}
	return "/imovel/" + strconv.FormatInt(p.ID, 10)
}

// Interaction is the append-only audit record written by tool executors.
type Interaction struct {
	bun.BaseModel `bun:"table:interactions,alias:i"`

	ID          int64     `bun:"id,pk,autoincrement"`
	LeadID      int64     `bun:"lead_id,notnull"`
	Type        string    `bun:"type,notnull"`
	Subject     string    `bun:"subject"`
	Description string    `bun:"description"`
	Metadata    string    `bun:"metadata"`
	CreatedAt   time.Time `bun:"created_at,nullzero,default:current_timestamp"`
}

// ConversationTurn is one message of a session. Creation time is the sole
// sequencing guarantee.
type ConversationTurn struct {
	bun.BaseModel `bun:"table:conversation_turns,alias:t"`

	ID        int64     `bun:"id,pk,autoincrement"`
	SessionID string    `bun:"session_id,notnull"`
	Phone     string    `bun:"phone,notnull"`
	Role      string    `bun:"role,notnull"`
	Message   string    `bun:"message,notnull"`
	CreatedAt time.Time `bun:"created_at,nullzero,default:current_timestamp"`
}

// PropertyFilter narrows ListProperties. Price bounds are in cents; zero
// values mean "unset".
type PropertyFilter struct {
	TransactionType string
	PropertyType    string
	Neighborhood    string
	MinPriceCents   int64
	MaxPriceCents   int64
	MinBedrooms     int
	Status          string
}

// NormalizePhone strips every non-digit rune so that "(61) 99999-0000" and
// "61999990000" address the same lead.
func NormalizePhone(phone string) string {
	var b strings.Builder
	b.Grow(len(phone))
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
