package services

import (
	"context"
	"strings"
	"time"

	"bankoffice/internal/apperr"
	"bankoffice/internal/db"
	"bankoffice/internal/models"
	"bankoffice/internal/money"
	"bankoffice/internal/store"
	"bankoffice/internal/validator"
	"bankoffice/internal/websocket"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

type TransactionStore interface {
	Create(ctx context.Context, tx store.Execer, t models.Transaction) error
	Update(ctx context.Context, tx store.Execer, t models.Transaction) (int64, error)
	Delete(ctx context.Context, tx store.Execer, id string) (int64, error)
	GetByID(ctx context.Context, id string) (models.Transaction, error)
	List(ctx context.Context, filter store.TransactionFilter) ([]models.Transaction, error)
}

type AccountResolver interface {
	FindByID(ctx context.Context, id string) (models.Account, bool, error)
}

type TransactionHub interface {
	PublishTransaction(customerID string, event websocket.TransactionEvent)
}

// LedgerService records transaction metadata against existing accounts. It
// never touches balances.
type LedgerService struct {
	txRunner     db.TxRunner
	transactions TransactionStore
	accounts     AccountResolver
	hub          TransactionHub
	log          zerolog.Logger
	now          func() time.Time
}

func NewLedgerService(txRunner db.TxRunner, transactions TransactionStore, accounts AccountResolver, hub TransactionHub, log zerolog.Logger) *LedgerService {
	return &LedgerService{
		txRunner:     txRunner,
		transactions: transactions,
		accounts:     accounts,
		hub:          hub,
		log:          log.With().Str("component", "ledger").Logger(),
		now:          time.Now,
	}
}

type TransactionInput struct {
	Type                 models.TransactionType
	Amount               decimal.Decimal
	Timestamp            time.Time
	Description          string
	SourceAccountID      *string
	DestinationAccountID *string
}

type TransactionQuery struct {
	Type      models.TransactionType
	AccountID string
	Limit     int
	Offset    int
}

// resolved is a proposed transaction whose account references all exist.
type resolved struct {
	source      *string
	destination *string
	owners      []string
}

func (s *LedgerService) Create(ctx context.Context, in TransactionInput) (models.Transaction, error) {
	refs, err := s.check(ctx, in)
	if err != nil {
		return models.Transaction{}, err
	}
	now := s.now().UTC()
	t := models.Transaction{
		ID:                   uuid.NewString(),
		Type:                 in.Type,
		Amount:               in.Amount,
		Timestamp:            in.Timestamp,
		Description:          in.Description,
		SourceAccountID:      refs.source,
		DestinationAccountID: refs.destination,
		CreatedAt:            now,
	}
	if t.Timestamp.IsZero() {
		t.Timestamp = now
	}
	err = s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		return s.transactions.Create(ctx, tx, t)
	})
	if err != nil {
		return models.Transaction{}, err
	}
	s.publish(refs.owners, websocket.TransactionCreated, t)
	return t, nil
}

// Update re-checks the whole proposed state as if it were a new transaction.
func (s *LedgerService) Update(ctx context.Context, id string, in TransactionInput) (models.Transaction, error) {
	current, err := s.transactions.GetByID(ctx, id)
	if err != nil {
		return models.Transaction{}, notFoundOr(err, "transaction", id)
	}
	refs, err := s.check(ctx, in)
	if err != nil {
		return models.Transaction{}, err
	}
	updated := current
	updated.Type = in.Type
	updated.Amount = in.Amount
	updated.Description = in.Description
	updated.SourceAccountID = refs.source
	updated.DestinationAccountID = refs.destination
	if !in.Timestamp.IsZero() {
		updated.Timestamp = in.Timestamp
	}

	var rows int64
	err = s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		var err error
		rows, err = s.transactions.Update(ctx, tx, updated)
		return err
	})
	if err != nil {
		return models.Transaction{}, err
	}
	if rows == 0 {
		return models.Transaction{}, apperr.NotFound("transaction", id)
	}
	// accounts the transaction was moved away from still hear about it
	owners := refs.owners
	for _, owner := range s.ownersOf(ctx, current.SourceAccountID, current.DestinationAccountID) {
		owners = appendOwner(owners, owner)
	}
	s.publish(owners, websocket.TransactionUpdated, updated)
	return updated, nil
}

func (s *LedgerService) Delete(ctx context.Context, id string) error {
	current, err := s.transactions.GetByID(ctx, id)
	if err != nil {
		return notFoundOr(err, "transaction", id)
	}
	var rows int64
	err = s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		var err error
		rows, err = s.transactions.Delete(ctx, tx, id)
		return err
	})
	if err != nil {
		return err
	}
	if rows == 0 {
		return apperr.NotFound("transaction", id)
	}
	s.publish(s.ownersOf(ctx, current.SourceAccountID, current.DestinationAccountID), websocket.TransactionDeleted, current)
	return nil
}

func (s *LedgerService) FindByID(ctx context.Context, id string) (models.Transaction, error) {
	t, err := s.transactions.GetByID(ctx, id)
	if err != nil {
		return models.Transaction{}, notFoundOr(err, "transaction", id)
	}
	return t, nil
}

func (s *LedgerService) FindAll(ctx context.Context, q TransactionQuery) ([]models.Transaction, error) {
	limit, offset := page(q.Limit, q.Offset)
	return s.transactions.List(ctx, store.TransactionFilter{
		Type:      q.Type,
		AccountID: q.AccountID,
		Limit:     limit,
		Offset:    offset,
	})
}

// check runs the pre-persistence pipeline: parse both references, resolve
// them, check the amount, then apply the type rules.
func (s *LedgerService) check(ctx context.Context, in TransactionInput) (resolved, error) {
	source, err := parseReference("source_account_id", in.SourceAccountID)
	if err != nil {
		return resolved{}, err
	}
	destination, err := parseReference("destination_account_id", in.DestinationAccountID)
	if err != nil {
		return resolved{}, err
	}

	var refs resolved
	refs.source = source
	refs.destination = destination
	for _, ref := range []*string{source, destination} {
		if ref == nil {
			continue
		}
		account, ok, err := s.accounts.FindByID(ctx, *ref)
		if err != nil {
			return resolved{}, err
		}
		if !ok {
			return resolved{}, apperr.NotFound("account", *ref)
		}
		refs.owners = appendOwner(refs.owners, account.CustomerID)
	}

	if err := money.CheckAmount(in.Amount); err != nil {
		return resolved{}, apperr.InvalidInput("amount", err.Error())
	}
	if err := validator.ValidateTransaction(in.Type, source, destination); err != nil {
		return resolved{}, err
	}
	return refs, nil
}

// ownersOf is best effort: accounts deleted since the transaction was written
// are skipped.
func (s *LedgerService) ownersOf(ctx context.Context, refs ...*string) []string {
	var owners []string
	for _, ref := range refs {
		if ref == nil {
			continue
		}
		account, ok, err := s.accounts.FindByID(ctx, *ref)
		if err != nil {
			s.log.Warn().Err(err).Str("account_id", *ref).Msg("could not resolve account owner")
			continue
		}
		if ok {
			owners = appendOwner(owners, account.CustomerID)
		}
	}
	return owners
}

func (s *LedgerService) publish(owners []string, kind websocket.EventKind, t models.Transaction) {
	if s.hub == nil {
		return
	}
	event := websocket.TransactionEvent{
		Kind:                 kind,
		TransactionID:        t.ID,
		Type:                 string(t.Type),
		Amount:               money.Format(t.Amount),
		SourceAccountID:      t.SourceAccountID,
		DestinationAccountID: t.DestinationAccountID,
		At:                   s.now().UTC(),
	}
	for _, owner := range owners {
		s.hub.PublishTransaction(owner, event)
	}
}

// parseReference treats a blank id as absent and returns the canonical form of
// a valid one, so differently cased spellings compare equal in the
// same-account rule.
func parseReference(field string, raw *string) (*string, error) {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return nil, nil
	}
	parsed, err := uuid.Parse(strings.TrimSpace(*raw))
	if err != nil {
		return nil, &apperr.MalformedReferenceError{Field: field, Value: *raw}
	}
	id := parsed.String()
	return &id, nil
}

func appendOwner(owners []string, owner string) []string {
	for _, o := range owners {
		if o == owner {
			return owners
		}
	}
	return append(owners, owner)
}
