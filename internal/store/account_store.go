package store

import (
	"context"

	"bankoffice/internal/models"
)

type AccountStore struct {
	db DB
}

const accountColumns = `id, account_number, agency, balance, account_type, account_status, customer_id, created_at, updated_at`

func NewAccountStore(db DB) *AccountStore {
	return &AccountStore{db: db}
}

func (s *AccountStore) Create(ctx context.Context, tx Execer, a models.Account) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO accounts (id, account_number, agency, balance, account_type, account_status, customer_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, a.ID, a.AccountNumber, a.Agency, a.Balance, a.AccountType, a.AccountStatus, a.CustomerID)
	return err
}

func (s *AccountStore) Update(ctx context.Context, tx Execer, a models.Account) (int64, error) {
	return affected(tx.ExecContext(ctx, `
		UPDATE accounts
		SET account_number = $1, agency = $2, balance = $3, account_type = $4,
		    account_status = $5, customer_id = $6, updated_at = NOW()
		WHERE id = $7
	`, a.AccountNumber, a.Agency, a.Balance, a.AccountType, a.AccountStatus, a.CustomerID, a.ID))
}

func (s *AccountStore) Delete(ctx context.Context, tx Execer, id string) (int64, error) {
	return affected(tx.ExecContext(ctx, `DELETE FROM accounts WHERE id = $1`, id))
}

func (s *AccountStore) GetByID(ctx context.Context, id string) (models.Account, error) {
	var row models.Account
	err := s.db.GetContext(ctx, &row, `SELECT `+accountColumns+` FROM accounts WHERE id = $1`, id)
	if err != nil {
		return models.Account{}, err
	}
	return row, nil
}

func (s *AccountStore) ExistsByID(ctx context.Context, id string) (bool, error) {
	return exists(ctx, s.db, `SELECT EXISTS(SELECT 1 FROM accounts WHERE id = $1)`, id)
}

func (s *AccountStore) ExistsByNumber(ctx context.Context, number string) (bool, error) {
	return exists(ctx, s.db, `SELECT EXISTS(SELECT 1 FROM accounts WHERE account_number = $1)`, number)
}

func (s *AccountStore) ExistsByCustomer(ctx context.Context, customerID string) (bool, error) {
	return exists(ctx, s.db, `SELECT EXISTS(SELECT 1 FROM accounts WHERE customer_id = $1)`, customerID)
}

// List returns accounts newest first; an empty customerID lists every account.
func (s *AccountStore) List(ctx context.Context, customerID string, limit, offset int) ([]models.Account, error) {
	var rows []models.Account
	var err error
	if customerID == "" {
		err = s.db.SelectContext(ctx, &rows, `
			SELECT `+accountColumns+`
			FROM accounts
			ORDER BY created_at DESC
			LIMIT $1 OFFSET $2
		`, limit, offset)
	} else {
		err = s.db.SelectContext(ctx, &rows, `
			SELECT `+accountColumns+`
			FROM accounts
			WHERE customer_id = $1
			ORDER BY created_at DESC
			LIMIT $2 OFFSET $3
		`, customerID, limit, offset)
	}
	if err != nil {
		return nil, err
	}
	return rows, nil
}
