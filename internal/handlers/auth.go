package handlers

import (
	"net/http"

	"bankoffice/internal/middleware"
	"bankoffice/internal/services"
	"bankoffice/internal/websocket"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/hlog"
)

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type verifyTokenRequest struct {
	Email string `json:"email" validate:"required,email"`
	Token string `json:"token" validate:"required"`
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decode(r, &req); err != nil {
		respondServiceError(w, r, err)
		return
	}
	if err := h.auth.Login(r.Context(), req.Email, req.Password, services.MetaFromRequest(r)); err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{
		"message": "verification token sent",
	})
}

func (h *Handler) VerifyToken(w http.ResponseWriter, r *http.Request) {
	var req verifyTokenRequest
	if err := decode(r, &req); err != nil {
		respondServiceError(w, r, err)
		return
	}
	sess, err := h.auth.VerifyToken(r.Context(), req.Email, req.Token, services.MetaFromRequest(r))
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, sess)
}

func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	customer, err := h.auth.Session(r.Context(), chi.URLParam(r, "sessionID"), services.MetaFromRequest(r))
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, customer)
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := middleware.SessionIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	if err := h.auth.Logout(r.Context(), sessionID); err != nil {
		respondServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) TransactionFeed(w http.ResponseWriter, r *http.Request) {
	customerID, ok := middleware.CustomerIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	websocket.ServeWS(w, r, h.hub, customerID, *hlog.FromRequest(r))
}
