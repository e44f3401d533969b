package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type AccountType string

const (
	AccountChecking   AccountType = "CHECKING"
	AccountSavings    AccountType = "SAVINGS"
	AccountInvestment AccountType = "INVESTMENT"
)

type AccountStatus string

const (
	AccountActive   AccountStatus = "ACTIVE"
	AccountInactive AccountStatus = "INACTIVE"
	AccountBlocked  AccountStatus = "BLOCKED"
	AccountClosed   AccountStatus = "CLOSED"
)

type TransactionType string

const (
	TransactionDeposit    TransactionType = "DEPOSIT"
	TransactionWithdrawal TransactionType = "WITHDRAWAL"
	TransactionTransfer   TransactionType = "TRANSFER"
	TransactionPayment    TransactionType = "PAYMENT"
)

type Address struct {
	Street       string `json:"street"`
	Number       string `json:"number"`
	Complement   string `json:"complement,omitempty"`
	Neighborhood string `json:"neighborhood"`
	City         string `json:"city"`
	State        string `json:"state"`
	ZipCode      string `json:"zip_code"`
}

type Customer struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	CPF          string    `json:"cpf"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone"`
	DateOfBirth  string    `json:"date_of_birth"`
	Address      Address   `json:"address"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

type Account struct {
	ID            string          `db:"id" json:"id"`
	AccountNumber string          `db:"account_number" json:"account_number"`
	Agency        string          `db:"agency" json:"agency"`
	Balance       decimal.Decimal `db:"balance" json:"balance"`
	AccountType   AccountType     `db:"account_type" json:"account_type"`
	AccountStatus AccountStatus   `db:"account_status" json:"account_status"`
	CustomerID    string          `db:"customer_id" json:"customer_id"`
	CreatedAt     time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time       `db:"updated_at" json:"updated_at"`
}

type Transaction struct {
	ID                   string          `db:"id" json:"id"`
	Type                 TransactionType `db:"type" json:"type"`
	Amount               decimal.Decimal `db:"amount" json:"amount"`
	Timestamp            time.Time       `db:"occurred_at" json:"timestamp"`
	Description          string          `db:"description" json:"description"`
	SourceAccountID      *string         `db:"source_account_id" json:"source_account_id"`
	DestinationAccountID *string         `db:"destination_account_id" json:"destination_account_id"`
	CreatedAt            time.Time       `db:"created_at" json:"created_at"`
}

type AccessLog struct {
	ID         string    `db:"id" json:"id"`
	CustomerID *string   `db:"customer_id" json:"customer_id"`
	Action     string    `db:"action" json:"action"`
	Status     string    `db:"status" json:"status"`
	IPAddress  string    `db:"ip_address" json:"ip_address"`
	UserAgent  string    `db:"user_agent" json:"user_agent"`
	Path       string    `db:"path" json:"path"`
	Timestamp  time.Time `db:"accessed_at" json:"timestamp"`
}
