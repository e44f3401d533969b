package handlers

import (
	"context"

	"bankoffice/internal/models"
	"bankoffice/internal/services"
)

type CustomerService interface {
	Create(ctx context.Context, in services.CustomerInput) (models.Customer, error)
	FindByID(ctx context.Context, id string) (models.Customer, error)
	Update(ctx context.Context, id string, in services.CustomerUpdate) (models.Customer, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, limit, offset int) ([]models.Customer, error)
}

type AccountService interface {
	Create(ctx context.Context, in services.AccountInput) (models.Account, error)
	Update(ctx context.Context, id string, in services.AccountInput) (models.Account, error)
	Delete(ctx context.Context, id string) error
	FindByID(ctx context.Context, id string) (models.Account, bool, error)
	List(ctx context.Context, customerID string, limit, offset int) ([]models.Account, error)
}

type LedgerService interface {
	Create(ctx context.Context, in services.TransactionInput) (models.Transaction, error)
	Update(ctx context.Context, id string, in services.TransactionInput) (models.Transaction, error)
	Delete(ctx context.Context, id string) error
	FindByID(ctx context.Context, id string) (models.Transaction, error)
	FindAll(ctx context.Context, q services.TransactionQuery) ([]models.Transaction, error)
}

type AccessLogService interface {
	Create(ctx context.Context, in services.AccessLogInput) (models.AccessLog, error)
	FindByID(ctx context.Context, id string) (models.AccessLog, error)
	List(ctx context.Context, customerID string, limit, offset int) ([]models.AccessLog, error)
}

type AuthService interface {
	Login(ctx context.Context, email, password string, meta services.RequestMeta) error
	VerifyToken(ctx context.Context, email, token string, meta services.RequestMeta) (services.Session, error)
	Session(ctx context.Context, sessionID string, meta services.RequestMeta) (models.Customer, error)
	Logout(ctx context.Context, sessionID string) error
}
