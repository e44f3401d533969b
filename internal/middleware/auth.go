package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"bankoffice/internal/auth"
)

type contextKey string

const (
	customerIDKey contextKey = "customer_id"
	sessionIDKey  contextKey = "session_id"
)

// SessionResolver confirms that the session named in a token is still open.
type SessionResolver interface {
	ResolveSession(sessionID string) (string, error)
}

func CustomerIDFromContext(ctx context.Context) (string, bool) {
	customerID, ok := ctx.Value(customerIDKey).(string)
	return customerID, ok
}

func SessionIDFromContext(ctx context.Context) (string, bool) {
	sessionID, ok := ctx.Value(sessionIDKey).(string)
	return sessionID, ok
}

type authOptions struct {
	queryToken bool
}

type AuthOption func(*authOptions)

// AllowQueryToken also accepts the token as ?token=, for clients such as
// browser websockets that cannot set headers.
func AllowQueryToken() AuthOption {
	return func(o *authOptions) {
		o.queryToken = true
	}
}

// Auth admits requests carrying a valid bearer token whose session has not
// been ended. A token outliving its session is refused.
func Auth(secret string, sessions SessionResolver, opts ...AuthOption) func(http.Handler) http.Handler {
	var o authOptions
	for _, opt := range opts {
		opt(&o)
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, msg := bearerToken(r, o.queryToken)
			if raw == "" {
				unauthorized(w, msg)
				return
			}
			claims, err := auth.ParseToken(secret, raw)
			if err != nil {
				unauthorized(w, "invalid token")
				return
			}
			customerID, err := sessions.ResolveSession(claims.SessionID)
			if err != nil || customerID != claims.CustomerID {
				unauthorized(w, "session is no longer active")
				return
			}
			ctx := context.WithValue(r.Context(), customerIDKey, claims.CustomerID)
			ctx = context.WithValue(ctx, sessionIDKey, claims.SessionID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request, queryToken bool) (string, string) {
	header := r.Header.Get("Authorization")
	if header == "" {
		if queryToken {
			if token := r.URL.Query().Get("token"); token != "" {
				return token, ""
			}
		}
		return "", "missing authorization header"
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
		return "", "invalid authorization header"
	}
	return strings.TrimSpace(parts[1]), ""
}

func unauthorized(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
