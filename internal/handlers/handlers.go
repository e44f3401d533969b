package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"bankoffice/internal/apperr"
	"bankoffice/internal/notify"
	"bankoffice/internal/services"
	"bankoffice/internal/session"
	"bankoffice/internal/validator"

	"github.com/rs/zerolog/hlog"
)

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// respondServiceError is the one place service errors become HTTP statuses.
func respondServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		invalidInput *apperr.InvalidInputError
		notFound     *apperr.NotFoundError
		duplicate    *apperr.DuplicateError
		violation    *apperr.RuleViolationError
		malformed    *apperr.MalformedReferenceError
		invalidRef   *apperr.InvalidReferenceError
	)
	switch {
	case errors.As(err, &invalidInput):
		respondJSON(w, http.StatusBadRequest, map[string]any{
			"error":  "invalid input",
			"fields": invalidInput.Fields,
		})
	case errors.As(err, &notFound):
		respondError(w, http.StatusNotFound, err.Error())
	case errors.As(err, &duplicate), errors.As(err, &violation):
		respondError(w, http.StatusConflict, err.Error())
	case errors.As(err, &malformed), errors.As(err, &invalidRef):
		respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrInvalidCredentials):
		respondError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, session.ErrTokenNotFound), errors.Is(err, session.ErrTokenExpired), errors.Is(err, services.ErrEmailMismatch):
		respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, session.ErrSessionNotFound):
		respondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, notify.ErrUnavailable), errors.Is(err, session.ErrIssuerClosed):
		respondError(w, http.StatusServiceUnavailable, "service temporarily unavailable")
	default:
		hlog.FromRequest(r).Error().Err(err).Msg("request failed")
		respondError(w, http.StatusInternalServerError, "internal error")
	}
}

// decode reads a JSON body into dst and runs its validate tags.
func decode(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return apperr.InvalidInput("body", "must be a valid JSON object")
	}
	return validator.Struct(dst)
}

func pageParams(r *http.Request) (int, int, error) {
	limit, err := intQuery(r, "limit")
	if err != nil {
		return 0, 0, err
	}
	offset, err := intQuery(r, "offset")
	if err != nil {
		return 0, 0, err
	}
	return limit, offset, nil
}

func intQuery(r *http.Request, key string) (int, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return 0, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 0 {
		return 0, apperr.InvalidInput(key, "must be a non-negative integer")
	}
	return value, nil
}

// nonNil keeps empty lists encoding as [] rather than null.
func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
