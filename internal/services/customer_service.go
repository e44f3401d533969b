package services

import (
	"context"
	"time"

	"bankoffice/internal/apperr"
	"bankoffice/internal/auth"
	"bankoffice/internal/db"
	"bankoffice/internal/models"
	"bankoffice/internal/store"
	"bankoffice/internal/validator"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type CustomerStore interface {
	Create(ctx context.Context, tx store.Execer, c models.Customer) error
	Update(ctx context.Context, tx store.Execer, c models.Customer) (int64, error)
	Delete(ctx context.Context, tx store.Execer, id string) (int64, error)
	GetByID(ctx context.Context, id string) (models.Customer, error)
	GetByEmail(ctx context.Context, email string) (models.Customer, error)
	ExistsByID(ctx context.Context, id string) (bool, error)
	ExistsByCPF(ctx context.Context, cpf string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	List(ctx context.Context, limit, offset int) ([]models.Customer, error)
}

type AccountOwnership interface {
	ExistsByCustomer(ctx context.Context, customerID string) (bool, error)
}

type CustomerService struct {
	txRunner  db.TxRunner
	customers CustomerStore
	accounts  AccountOwnership
	now       func() time.Time
}

func NewCustomerService(txRunner db.TxRunner, customers CustomerStore, accounts AccountOwnership) *CustomerService {
	return &CustomerService{
		txRunner:  txRunner,
		customers: customers,
		accounts:  accounts,
		now:       time.Now,
	}
}

type CustomerInput struct {
	Name        string
	CPF         string
	Email       string
	Phone       string
	DateOfBirth string
	Address     models.Address
	Password    string
}

// CustomerUpdate carries the contact fields; identity and credentials are fixed.
type CustomerUpdate struct {
	Name        string
	Email       string
	Phone       string
	DateOfBirth string
	Address     models.Address
}

// Create registers a customer. CPF uniqueness is checked before email so a
// request clashing on both reports the CPF.
func (s *CustomerService) Create(ctx context.Context, in CustomerInput) (models.Customer, error) {
	if err := validator.ValidateEmail(in.Email); err != nil {
		return models.Customer{}, apperr.InvalidInput("email", "must be a valid email")
	}
	if err := validator.ValidateCPF(in.CPF); err != nil {
		return models.Customer{}, apperr.InvalidInput("cpf", "must have 11 digits")
	}
	if err := validator.ValidatePassword(in.Password); err != nil {
		return models.Customer{}, apperr.InvalidInput("password", "must be at least 8 characters")
	}
	cpf := validator.NormalizeCPF(in.CPF)
	email := normalizeEmail(in.Email)

	taken, err := s.customers.ExistsByCPF(ctx, cpf)
	if err != nil {
		return models.Customer{}, err
	}
	if taken {
		return models.Customer{}, apperr.Duplicate("cpf", cpf)
	}
	taken, err = s.customers.ExistsByEmail(ctx, email)
	if err != nil {
		return models.Customer{}, err
	}
	if taken {
		return models.Customer{}, apperr.Duplicate("email", email)
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return models.Customer{}, err
	}
	customer := models.Customer{
		ID:           uuid.NewString(),
		Name:         in.Name,
		CPF:          cpf,
		Email:        email,
		Phone:        in.Phone,
		DateOfBirth:  in.DateOfBirth,
		Address:      in.Address,
		PasswordHash: hash,
		CreatedAt:    s.now().UTC(),
	}
	err = s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		return s.customers.Create(ctx, tx, customer)
	})
	if err != nil {
		return models.Customer{}, duplicateFromConstraint(err, map[string]string{"cpf": cpf, "email": email})
	}
	return customer, nil
}

func (s *CustomerService) FindByID(ctx context.Context, id string) (models.Customer, error) {
	customer, err := s.customers.GetByID(ctx, id)
	if err != nil {
		return models.Customer{}, notFoundOr(err, "customer", id)
	}
	return customer, nil
}

func (s *CustomerService) FindByEmail(ctx context.Context, email string) (models.Customer, error) {
	email = normalizeEmail(email)
	customer, err := s.customers.GetByEmail(ctx, email)
	if err != nil {
		return models.Customer{}, notFoundOr(err, "customer", email)
	}
	return customer, nil
}

func (s *CustomerService) Update(ctx context.Context, id string, in CustomerUpdate) (models.Customer, error) {
	current, err := s.FindByID(ctx, id)
	if err != nil {
		return models.Customer{}, err
	}
	if err := validator.ValidateEmail(in.Email); err != nil {
		return models.Customer{}, apperr.InvalidInput("email", "must be a valid email")
	}
	email := normalizeEmail(in.Email)
	if email != current.Email {
		taken, err := s.customers.ExistsByEmail(ctx, email)
		if err != nil {
			return models.Customer{}, err
		}
		if taken {
			return models.Customer{}, apperr.Duplicate("email", email)
		}
	}

	updated := current
	updated.Name = in.Name
	updated.Email = email
	updated.Phone = in.Phone
	updated.DateOfBirth = in.DateOfBirth
	updated.Address = in.Address

	var rows int64
	err = s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		var err error
		rows, err = s.customers.Update(ctx, tx, updated)
		return err
	})
	if err != nil {
		return models.Customer{}, duplicateFromConstraint(err, map[string]string{"email": email})
	}
	if rows == 0 {
		return models.Customer{}, apperr.NotFound("customer", id)
	}
	return updated, nil
}

// Delete refuses to orphan accounts; they must be removed first.
func (s *CustomerService) Delete(ctx context.Context, id string) error {
	exists, err := s.customers.ExistsByID(ctx, id)
	if err != nil {
		return err
	}
	if !exists {
		return apperr.NotFound("customer", id)
	}
	owns, err := s.accounts.ExistsByCustomer(ctx, id)
	if err != nil {
		return err
	}
	if owns {
		return &apperr.RuleViolationError{Reason: "customer still owns accounts"}
	}
	var rows int64
	err = s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		var err error
		rows, err = s.customers.Delete(ctx, tx, id)
		return err
	})
	if err != nil {
		return err
	}
	if rows == 0 {
		return apperr.NotFound("customer", id)
	}
	return nil
}

func (s *CustomerService) Exists(ctx context.Context, id string) (bool, error) {
	return s.customers.ExistsByID(ctx, id)
}

func (s *CustomerService) List(ctx context.Context, limit, offset int) ([]models.Customer, error) {
	limit, offset = page(limit, offset)
	return s.customers.List(ctx, limit, offset)
}
