package handlers

import (
	"net/http"

	"bankoffice/internal/apperr"
	"bankoffice/internal/models"
	"bankoffice/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

// customer_id carries no tag: a missing owner is an invalid reference, which
// the service reports on its own.
type accountRequest struct {
	AccountNumber string               `json:"account_number" validate:"required,max=20"`
	Agency        string               `json:"agency" validate:"required,max=10"`
	Balance       decimal.Decimal      `json:"balance"`
	AccountType   models.AccountType   `json:"account_type" validate:"required,oneof=CHECKING SAVINGS INVESTMENT"`
	AccountStatus models.AccountStatus `json:"account_status" validate:"omitempty,oneof=ACTIVE INACTIVE BLOCKED CLOSED"`
	CustomerID    string               `json:"customer_id"`
}

func (req accountRequest) input() services.AccountInput {
	return services.AccountInput{
		AccountNumber: req.AccountNumber,
		Agency:        req.Agency,
		Balance:       req.Balance,
		AccountType:   req.AccountType,
		AccountStatus: req.AccountStatus,
		CustomerID:    req.CustomerID,
	}
}

func (h *Handler) CreateAccount(w http.ResponseWriter, r *http.Request) {
	var req accountRequest
	if err := decode(r, &req); err != nil {
		respondServiceError(w, r, err)
		return
	}
	account, err := h.accounts.Create(r.Context(), req.input())
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, account)
}

func (h *Handler) ListAccounts(w http.ResponseWriter, r *http.Request) {
	limit, offset, err := pageParams(r)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	accounts, err := h.accounts.List(r.Context(), r.URL.Query().Get("customer_id"), limit, offset)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, nonNil(accounts))
}

func (h *Handler) GetAccount(w http.ResponseWriter, r *http.Request) {
	accountID := chi.URLParam(r, "id")
	account, ok, err := h.accounts.FindByID(r.Context(), accountID)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	if !ok {
		respondServiceError(w, r, apperr.NotFound("account", accountID))
		return
	}
	respondJSON(w, http.StatusOK, account)
}

func (h *Handler) UpdateAccount(w http.ResponseWriter, r *http.Request) {
	var req accountRequest
	if err := decode(r, &req); err != nil {
		respondServiceError(w, r, err)
		return
	}
	account, err := h.accounts.Update(r.Context(), chi.URLParam(r, "id"), req.input())
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, account)
}

func (h *Handler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	if err := h.accounts.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		respondServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
