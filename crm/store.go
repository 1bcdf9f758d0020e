package crm

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
)

var (
	ErrLeadNotFound     = errors.New("lead not found")
	ErrPropertyNotFound = errors.New("property not found")
	ErrConcurrentUpdate = errors.New("lead was updated concurrently")
)

type PostgresConfig struct {
	DSN          string        `envconfig:"DSN" split_words:"true" required:"true"`
	MaxOpenConns int           `envconfig:"MAX_OPEN_CONNS" split_words:"true" default:"10"`
	PingTimeout  time.Duration `envconfig:"PING_TIMEOUT" split_words:"true" default:"5s"`
}

// Store is the CRM persistence layer backing the Conversation Store
// contract. It is constructed once at process start, health-checked, and
// closed at shutdown.
type Store struct {
	db *bun.DB
}

func NewStore(db *bun.DB) *Store {
	return &Store{db: db}
}

// Open dials Postgres, verifies connectivity, and returns a ready store.
func Open(ctx context.Context, cfg PostgresConfig) (*Store, error) {
	dsn := strings.TrimSpace(cfg.DSN)
	if dsn == "" {
		return nil, errors.New("postgres dsn is required")
	}

	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
	if cfg.MaxOpenConns > 0 {
		sqldb.SetMaxOpenConns(cfg.MaxOpenConns)
	}

	db := bun.NewDB(sqldb, pgdialect.New())

	pingTimeout := cfg.PingTimeout
	if pingTimeout <= 0 {
		pingTimeout = 5 * time.Second
	}
	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

/* ------------------------------- Leads --------------------------------- */

// LeadByPhone looks up a lead by phone in any formatting; the number is
// normalized before comparison.
func (s *Store) LeadByPhone(ctx context.Context, phone string) (*Lead, error) {
	normalized := NormalizePhone(phone)
	if normalized == "" {
		return nil, fmt.Errorf("%w: empty phone", ErrLeadNotFound)
	}

	lead := new(Lead)
	err := s.db.NewSelect().
		Model(lead).
		Where("phone = ?", normalized).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrLeadNotFound
		}
		return nil, fmt.Errorf("select lead by phone: %w", err)
	}
	return lead, nil
}

func (s *Store) CreateLead(ctx context.Context, lead *Lead) error {
	if lead == nil {
		return errors.New("nil lead")
	}
	lead.Phone = NormalizePhone(lead.Phone)
	if lead.Phone == "" {
		return errors.New("lead phone is required")
	}
	if lead.Stage == "" {
		lead.Stage = StageNew
	}
	if lead.Version <= 0 {
		lead.Version = 1
	}

	if _, err := s.db.NewInsert().Model(lead).Exec(ctx); err != nil {
		return fmt.Errorf("insert lead: %w", err)
	}
	return nil
}

// UpdateLead applies a partial update guarded by the lead's version:
// a concurrent writer bumping the version first makes this call fail with
// ErrConcurrentUpdate so qualification data is never silently lost.
func (s *Store) UpdateLead(ctx context.Context, id int64, expectedVersion int64, patch LeadPatch) error {
	q := s.db.NewUpdate().
		Model((*Lead)(nil)).
		Where("id = ?", id).
		Where("version = ?", expectedVersion).
		Set("version = version + 1").
		Set("updated_at = ?", time.Now().UTC())

	if patch.Name != nil {
		q = q.Set("name = ?", *patch.Name)
	}
	if patch.Email != nil {
		q = q.Set("email = ?", *patch.Email)
	}
	if patch.Qualification != nil {
		q = q.Set("qualification = ?", *patch.Qualification)
	}
	if patch.BuyerProfile != nil {
		q = q.Set("buyer_profile = ?", *patch.BuyerProfile)
	}
	if patch.UrgencyLevel != nil {
		q = q.Set("urgency_level = ?", *patch.UrgencyLevel)
	}
	if patch.TransactionInterest != nil {
		q = q.Set("transaction_interest = ?", *patch.TransactionInterest)
	}
	if patch.BudgetMinCents != nil {
		q = q.Set("budget_min_cents = ?", *patch.BudgetMinCents)
	}
	if patch.BudgetMaxCents != nil {
		q = q.Set("budget_max_cents = ?", *patch.BudgetMaxCents)
	}
	if patch.PreferredNeighborhoods != nil {
		q = q.Set("preferred_neighborhoods = ?", *patch.PreferredNeighborhoods)
	}
	if patch.PreferredPropertyTypes != nil {
		q = q.Set("preferred_property_types = ?", *patch.PreferredPropertyTypes)
	}
	if patch.Notes != nil {
		q = q.Set("notes = ?", *patch.Notes)
	}
	if patch.Stage != nil {
		q = q.Set("stage = ?", *patch.Stage)
	}

	res, err := q.Exec(ctx)
	if err != nil {
		return fmt.Errorf("update lead: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update lead rows affected: %w", err)
	}
	if affected == 0 {
		return ErrConcurrentUpdate
	}
	return nil
}

/* ---------------------------- Interactions ------------------------------ */

func (s *Store) CreateInteraction(ctx context.Context, interaction *Interaction) error {
	if interaction == nil {
		return errors.New("nil interaction")
	}
	if interaction.LeadID <= 0 {
		return errors.New("interaction lead id is required")
	}
	if _, err := s.db.NewInsert().Model(interaction).Exec(ctx); err != nil {
		return fmt.Errorf("insert interaction: %w", err)
	}
	return nil
}

/* ------------------------------ Properties ------------------------------ */

func (s *Store) PropertyByID(ctx context.Context, id int64) (*Property, error) {
	prop := new(Property)
	err := s.db.NewSelect().
		Model(prop).
		Where("id = ?", id).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPropertyNotFound
		}
		return nil, fmt.Errorf("select property: %w", err)
	}
	return prop, nil
}

// ListProperties applies the filter; neighborhood is a case-insensitive
// substring match and price bounds compare against the column matching the
// property's transaction type.
func (s *Store) ListProperties(ctx context.Context, filter PropertyFilter) ([]Property, error) {
	var props []Property
	q := s.db.NewSelect().Model(&props)

	if t := strings.TrimSpace(filter.TransactionType); t != "" && t != string(TransactionBoth) {
		q = q.Where("transaction_type IN (?, ?)", t, string(TransactionBoth))
	}
	if t := strings.TrimSpace(filter.PropertyType); t != "" {
		q = q.Where("property_type = ?", t)
	}
	if n := strings.TrimSpace(filter.Neighborhood); n != "" {
		q = q.Where("neighborhood ILIKE ?", "%"+n+"%")
	}
	if filter.MinPriceCents > 0 {
		q = q.Where("(sale_price_cents >= ? OR rent_price_cents >= ?)", filter.MinPriceCents, filter.MinPriceCents)
	}
	if filter.MaxPriceCents > 0 {
		q = q.Where("(sale_price_cents BETWEEN 1 AND ? OR rent_price_cents BETWEEN 1 AND ?)", filter.MaxPriceCents, filter.MaxPriceCents)
	}
	if filter.MinBedrooms > 0 {
		q = q.Where("bedrooms >= ?", filter.MinBedrooms)
	}
	if st := strings.TrimSpace(filter.Status); st != "" {
		q = q.Where("status = ?", st)
	}

	if err := q.Order("id ASC").Scan(ctx); err != nil {
		return nil, fmt.Errorf("list properties: %w", err)
	}
	return props, nil
}

/* --------------------------- Conversation turns ------------------------- */

// History returns up to limit turns of a session, oldest first.
func (s *Store) History(ctx context.Context, sessionID string, limit int) ([]ConversationTurn, error) {
	if strings.TrimSpace(sessionID) == "" {
		return nil, errors.New("session id is required")
	}
	if limit <= 0 {
		limit = 50
	}

	var turns []ConversationTurn
	err := s.db.NewSelect().
		Model(&turns).
		Where("session_id = ?", sessionID).
		Order("created_at DESC", "id DESC").
		Limit(limit).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("select conversation turns: %w", err)
	}

	// Query newest-first to honor the limit, replay oldest-first.
	for i, j := 0, len(turns)-1; i < j; i, j = i+1, j-1 {
		turns[i], turns[j] = turns[j], turns[i]
	}
	return turns, nil
}

func (s *Store) AppendTurn(ctx context.Context, turn ConversationTurn) error {
	if strings.TrimSpace(turn.SessionID) == "" {
		return errors.New("session id is required")
	}
	if strings.TrimSpace(turn.Role) == "" {
		return errors.New("turn role is required")
	}
	turn.Phone = NormalizePhone(turn.Phone)
	if turn.CreatedAt.IsZero() {
		turn.CreatedAt = time.Now().UTC()
	}

	if _, err := s.db.NewInsert().Model(&turn).Exec(ctx); err != nil {
		return fmt.Errorf("insert conversation turn: %w", err)
	}
	return nil
}
