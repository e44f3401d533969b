package handlers

import (
	"net/http"
	"time"

	"bankoffice/internal/models"
	"bankoffice/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

type transactionRequest struct {
	Type                 models.TransactionType `json:"type" validate:"required,oneof=DEPOSIT WITHDRAWAL TRANSFER PAYMENT"`
	Amount               decimal.Decimal        `json:"amount"`
	Timestamp            *time.Time             `json:"timestamp"`
	Description          string                 `json:"description" validate:"max=255"`
	SourceAccountID      *string                `json:"source_account_id"`
	DestinationAccountID *string                `json:"destination_account_id"`
}

func (req transactionRequest) input() services.TransactionInput {
	in := services.TransactionInput{
		Type:                 req.Type,
		Amount:               req.Amount,
		Description:          req.Description,
		SourceAccountID:      req.SourceAccountID,
		DestinationAccountID: req.DestinationAccountID,
	}
	if req.Timestamp != nil {
		in.Timestamp = *req.Timestamp
	}
	return in
}

func (h *Handler) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	var req transactionRequest
	if err := decode(r, &req); err != nil {
		respondServiceError(w, r, err)
		return
	}
	tx, err := h.transactions.Create(r.Context(), req.input())
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, tx)
}

func (h *Handler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	limit, offset, err := pageParams(r)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	txs, err := h.transactions.FindAll(r.Context(), services.TransactionQuery{
		Type:      models.TransactionType(r.URL.Query().Get("type")),
		AccountID: r.URL.Query().Get("account_id"),
		Limit:     limit,
		Offset:    offset,
	})
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, nonNil(txs))
}

func (h *Handler) GetTransaction(w http.ResponseWriter, r *http.Request) {
	tx, err := h.transactions.FindByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, tx)
}

func (h *Handler) UpdateTransaction(w http.ResponseWriter, r *http.Request) {
	var req transactionRequest
	if err := decode(r, &req); err != nil {
		respondServiceError(w, r, err)
		return
	}
	tx, err := h.transactions.Update(r.Context(), chi.URLParam(r, "id"), req.input())
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, tx)
}

func (h *Handler) DeleteTransaction(w http.ResponseWriter, r *http.Request) {
	if err := h.transactions.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		respondServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
