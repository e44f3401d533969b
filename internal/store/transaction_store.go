package store

import (
	"context"
	"fmt"
	"strings"

	"bankoffice/internal/models"
)

type TransactionStore struct {
	db DB
}

type TransactionFilter struct {
	Type      models.TransactionType
	AccountID string
	Limit     int
	Offset    int
}

const transactionColumns = `id, type, amount, occurred_at, description, source_account_id, destination_account_id, created_at`

func NewTransactionStore(db DB) *TransactionStore {
	return &TransactionStore{db: db}
}

func (s *TransactionStore) Create(ctx context.Context, tx Execer, t models.Transaction) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO transactions (id, type, amount, occurred_at, description, source_account_id, destination_account_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, t.ID, t.Type, t.Amount, t.Timestamp, t.Description, t.SourceAccountID, t.DestinationAccountID)
	return err
}

func (s *TransactionStore) Update(ctx context.Context, tx Execer, t models.Transaction) (int64, error) {
	return affected(tx.ExecContext(ctx, `
		UPDATE transactions
		SET type = $1, amount = $2, occurred_at = $3, description = $4,
		    source_account_id = $5, destination_account_id = $6
		WHERE id = $7
	`, t.Type, t.Amount, t.Timestamp, t.Description, t.SourceAccountID, t.DestinationAccountID, t.ID))
}

func (s *TransactionStore) Delete(ctx context.Context, tx Execer, id string) (int64, error) {
	return affected(tx.ExecContext(ctx, `DELETE FROM transactions WHERE id = $1`, id))
}

func (s *TransactionStore) GetByID(ctx context.Context, id string) (models.Transaction, error) {
	var row models.Transaction
	err := s.db.GetContext(ctx, &row, `SELECT `+transactionColumns+` FROM transactions WHERE id = $1`, id)
	if err != nil {
		return models.Transaction{}, err
	}
	return row, nil
}

func (s *TransactionStore) List(ctx context.Context, filter TransactionFilter) ([]models.Transaction, error) {
	var where []string
	var args []any
	if filter.Type != "" {
		args = append(args, filter.Type)
		where = append(where, fmt.Sprintf("type = $%d", len(args)))
	}
	if filter.AccountID != "" {
		args = append(args, filter.AccountID)
		where = append(where, fmt.Sprintf("(source_account_id = $%d OR destination_account_id = $%d)", len(args), len(args)))
	}
	query := `SELECT ` + transactionColumns + ` FROM transactions`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	args = append(args, filter.Limit, filter.Offset)
	query += fmt.Sprintf(` ORDER BY occurred_at DESC LIMIT $%d OFFSET $%d`, len(args)-1, len(args))

	var rows []models.Transaction
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, err
	}
	return rows, nil
}
