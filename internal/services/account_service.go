package services

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"bankoffice/internal/apperr"
	"bankoffice/internal/db"
	"bankoffice/internal/models"
	"bankoffice/internal/money"
	"bankoffice/internal/store"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

type AccountStore interface {
	Create(ctx context.Context, tx store.Execer, a models.Account) error
	Update(ctx context.Context, tx store.Execer, a models.Account) (int64, error)
	Delete(ctx context.Context, tx store.Execer, id string) (int64, error)
	GetByID(ctx context.Context, id string) (models.Account, error)
	ExistsByID(ctx context.Context, id string) (bool, error)
	ExistsByNumber(ctx context.Context, number string) (bool, error)
	List(ctx context.Context, customerID string, limit, offset int) ([]models.Account, error)
}

type CustomerLookup interface {
	Exists(ctx context.Context, id string) (bool, error)
}

type AccountService struct {
	txRunner  db.TxRunner
	accounts  AccountStore
	customers CustomerLookup
	now       func() time.Time
}

func NewAccountService(txRunner db.TxRunner, accounts AccountStore, customers CustomerLookup) *AccountService {
	return &AccountService{
		txRunner:  txRunner,
		accounts:  accounts,
		customers: customers,
		now:       time.Now,
	}
}

type AccountInput struct {
	AccountNumber string
	Agency        string
	Balance       decimal.Decimal
	AccountType   models.AccountType
	AccountStatus models.AccountStatus
	CustomerID    string
}

func (s *AccountService) Create(ctx context.Context, in AccountInput) (models.Account, error) {
	if err := checkAccountInput(in); err != nil {
		return models.Account{}, err
	}
	taken, err := s.accounts.ExistsByNumber(ctx, in.AccountNumber)
	if err != nil {
		return models.Account{}, err
	}
	if taken {
		return models.Account{}, apperr.Duplicate("account_number", in.AccountNumber)
	}
	if err := s.requireCustomer(ctx, in.CustomerID); err != nil {
		return models.Account{}, err
	}

	now := s.now().UTC()
	account := models.Account{
		ID:            uuid.NewString(),
		AccountNumber: in.AccountNumber,
		Agency:        in.Agency,
		Balance:       in.Balance,
		AccountType:   in.AccountType,
		AccountStatus: in.AccountStatus,
		CustomerID:    in.CustomerID,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if account.AccountStatus == "" {
		account.AccountStatus = models.AccountActive
	}
	err = s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		return s.accounts.Create(ctx, tx, account)
	})
	if err != nil {
		return models.Account{}, duplicateFromConstraint(err, map[string]string{"account_number": in.AccountNumber})
	}
	return account, nil
}

// Update replaces every field of the account. The owning customer must be
// named on each call, and the number may only move to one nobody else holds.
func (s *AccountService) Update(ctx context.Context, id string, in AccountInput) (models.Account, error) {
	current, err := s.accounts.GetByID(ctx, id)
	if err != nil {
		return models.Account{}, notFoundOr(err, "account", id)
	}
	if err := checkAccountInput(in); err != nil {
		return models.Account{}, err
	}
	if err := s.requireCustomer(ctx, in.CustomerID); err != nil {
		return models.Account{}, err
	}
	if in.AccountNumber != current.AccountNumber {
		taken, err := s.accounts.ExistsByNumber(ctx, in.AccountNumber)
		if err != nil {
			return models.Account{}, err
		}
		if taken {
			return models.Account{}, apperr.Duplicate("account_number", in.AccountNumber)
		}
	}

	updated := current
	updated.AccountNumber = in.AccountNumber
	updated.Agency = in.Agency
	updated.Balance = in.Balance
	updated.AccountType = in.AccountType
	if in.AccountStatus != "" {
		updated.AccountStatus = in.AccountStatus
	}
	updated.CustomerID = in.CustomerID
	updated.UpdatedAt = s.now().UTC()

	var rows int64
	err = s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		var err error
		rows, err = s.accounts.Update(ctx, tx, updated)
		return err
	})
	if err != nil {
		return models.Account{}, duplicateFromConstraint(err, map[string]string{"account_number": in.AccountNumber})
	}
	if rows == 0 {
		return models.Account{}, apperr.NotFound("account", id)
	}
	return updated, nil
}

// Delete removes the account only. Transactions that reference it keep the id.
func (s *AccountService) Delete(ctx context.Context, id string) error {
	var rows int64
	err := s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		var err error
		rows, err = s.accounts.Delete(ctx, tx, id)
		return err
	})
	if err != nil {
		return err
	}
	if rows == 0 {
		return apperr.NotFound("account", id)
	}
	return nil
}

func (s *AccountService) Exists(ctx context.Context, id string) (bool, error) {
	return s.accounts.ExistsByID(ctx, id)
}

// FindByID reports a missing account through ok rather than an error.
func (s *AccountService) FindByID(ctx context.Context, id string) (models.Account, bool, error) {
	account, err := s.accounts.GetByID(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Account{}, false, nil
	}
	if err != nil {
		return models.Account{}, false, err
	}
	return account, true, nil
}

func (s *AccountService) List(ctx context.Context, customerID string, limit, offset int) ([]models.Account, error) {
	limit, offset = page(limit, offset)
	return s.accounts.List(ctx, customerID, limit, offset)
}

func (s *AccountService) requireCustomer(ctx context.Context, customerID string) error {
	exists, err := s.customers.Exists(ctx, customerID)
	if err != nil {
		return err
	}
	if !exists {
		return apperr.NotFound("customer", customerID)
	}
	return nil
}

func checkAccountInput(in AccountInput) error {
	if strings.TrimSpace(in.CustomerID) == "" {
		return &apperr.InvalidReferenceError{Field: "customer_id"}
	}
	if err := money.CheckBalance(in.Balance); err != nil {
		return apperr.InvalidInput("balance", err.Error())
	}
	return nil
}
