package handlers

import (
	"net/http"
	"time"

	"bankoffice/internal/services"

	"github.com/go-chi/chi/v5"
)

// Request metadata left blank is taken from the request itself.
type accessLogRequest struct {
	CustomerID *string    `json:"customer_id"`
	Action     string     `json:"action" validate:"required,max=50"`
	Status     string     `json:"status" validate:"required,max=50"`
	IPAddress  string     `json:"ip_address" validate:"max=64"`
	UserAgent  string     `json:"user_agent" validate:"max=512"`
	Path       string     `json:"path" validate:"max=512"`
	Timestamp  *time.Time `json:"timestamp"`
}

func (h *Handler) CreateAccessLog(w http.ResponseWriter, r *http.Request) {
	var req accessLogRequest
	if err := decode(r, &req); err != nil {
		respondServiceError(w, r, err)
		return
	}
	meta := services.MetaFromRequest(r)
	if req.IPAddress != "" {
		meta.IP = req.IPAddress
	}
	if req.UserAgent != "" {
		meta.UserAgent = req.UserAgent
	}
	if req.Path != "" {
		meta.Path = req.Path
	}
	in := services.AccessLogInput{
		CustomerID: req.CustomerID,
		Action:     req.Action,
		Status:     req.Status,
		Meta:       meta,
	}
	if req.Timestamp != nil {
		in.Timestamp = *req.Timestamp
	}
	entry, err := h.accessLogs.Create(r.Context(), in)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, entry)
}

func (h *Handler) ListAccessLogs(w http.ResponseWriter, r *http.Request) {
	limit, offset, err := pageParams(r)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	entries, err := h.accessLogs.List(r.Context(), r.URL.Query().Get("customer_id"), limit, offset)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, nonNil(entries))
}

func (h *Handler) GetAccessLog(w http.ResponseWriter, r *http.Request) {
	entry, err := h.accessLogs.FindByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, entry)
}
