package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"bankoffice/internal/auth"
)

type sessionTable map[string]string

func (s sessionTable) ResolveSession(sessionID string) (string, error) {
	customerID, ok := s[sessionID]
	if !ok {
		return "", errors.New("session not found")
	}
	return customerID, nil
}

func mustToken(t *testing.T, customerID, sessionID string) string {
	t.Helper()
	token, _, err := auth.GenerateToken("secret", customerID, sessionID, time.Minute)
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}
	return token
}

func rejectAll(t *testing.T) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatalf("handler should not be called")
	})
}

func TestAuthMissingHeader(t *testing.T) {
	handler := Auth("secret", sessionTable{})(rejectAll(t))
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("expected json error body, got %q", ct)
	}
}

func TestAuthInvalidHeader(t *testing.T) {
	handler := Auth("secret", sessionTable{})(rejectAll(t))
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Token abc")
	handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rr.Code)
	}
}

func TestAuthInvalidToken(t *testing.T) {
	handler := Auth("secret", sessionTable{})(rejectAll(t))
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer invalid")
	handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rr.Code)
	}
}

func TestAuthEndedSession(t *testing.T) {
	handler := Auth("secret", sessionTable{})(rejectAll(t))
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+mustToken(t, "c1", "s1"))
	handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rr.Code)
	}
}

func TestAuthValidToken(t *testing.T) {
	handler := Auth("secret", sessionTable{"s1": "c1"})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		customerID, ok := CustomerIDFromContext(r.Context())
		if !ok || customerID != "c1" {
			t.Fatalf("expected c1 in context")
		}
		sessionID, ok := SessionIDFromContext(r.Context())
		if !ok || sessionID != "s1" {
			t.Fatalf("expected s1 in context")
		}
		w.WriteHeader(http.StatusOK)
	}))
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+mustToken(t, "c1", "s1"))
	handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
}

func TestAuthQueryToken(t *testing.T) {
	token := mustToken(t, "c1", "s1")
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })

	rr := httptest.NewRecorder()
	Auth("secret", sessionTable{"s1": "c1"})(ok).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/ws?token="+token, nil))
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("query token accepted without opt-in: %d", rr.Code)
	}

	rr = httptest.NewRecorder()
	Auth("secret", sessionTable{"s1": "c1"}, AllowQueryToken())(ok).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/ws?token="+token, nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
}
