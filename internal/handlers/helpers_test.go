package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"bankoffice/internal/auth"
	"bankoffice/internal/config"
	"bankoffice/internal/models"
	"bankoffice/internal/services"
	"bankoffice/internal/websocket"

	"github.com/rs/zerolog"
)

type stubCustomerService struct {
	createFn   func(ctx context.Context, in services.CustomerInput) (models.Customer, error)
	findByIDFn func(ctx context.Context, id string) (models.Customer, error)
	updateFn   func(ctx context.Context, id string, in services.CustomerUpdate) (models.Customer, error)
	deleteFn   func(ctx context.Context, id string) error
	listFn     func(ctx context.Context, limit, offset int) ([]models.Customer, error)
}

func (s stubCustomerService) Create(ctx context.Context, in services.CustomerInput) (models.Customer, error) {
	return s.createFn(ctx, in)
}

func (s stubCustomerService) FindByID(ctx context.Context, id string) (models.Customer, error) {
	return s.findByIDFn(ctx, id)
}

func (s stubCustomerService) Update(ctx context.Context, id string, in services.CustomerUpdate) (models.Customer, error) {
	return s.updateFn(ctx, id, in)
}

func (s stubCustomerService) Delete(ctx context.Context, id string) error {
	return s.deleteFn(ctx, id)
}

func (s stubCustomerService) List(ctx context.Context, limit, offset int) ([]models.Customer, error) {
	return s.listFn(ctx, limit, offset)
}

type stubAccountService struct {
	createFn   func(ctx context.Context, in services.AccountInput) (models.Account, error)
	updateFn   func(ctx context.Context, id string, in services.AccountInput) (models.Account, error)
	deleteFn   func(ctx context.Context, id string) error
	findByIDFn func(ctx context.Context, id string) (models.Account, bool, error)
	listFn     func(ctx context.Context, customerID string, limit, offset int) ([]models.Account, error)
}

func (s stubAccountService) Create(ctx context.Context, in services.AccountInput) (models.Account, error) {
	return s.createFn(ctx, in)
}

func (s stubAccountService) Update(ctx context.Context, id string, in services.AccountInput) (models.Account, error) {
	return s.updateFn(ctx, id, in)
}

func (s stubAccountService) Delete(ctx context.Context, id string) error {
	return s.deleteFn(ctx, id)
}

func (s stubAccountService) FindByID(ctx context.Context, id string) (models.Account, bool, error) {
	return s.findByIDFn(ctx, id)
}

func (s stubAccountService) List(ctx context.Context, customerID string, limit, offset int) ([]models.Account, error) {
	return s.listFn(ctx, customerID, limit, offset)
}

type stubLedgerService struct {
	createFn   func(ctx context.Context, in services.TransactionInput) (models.Transaction, error)
	updateFn   func(ctx context.Context, id string, in services.TransactionInput) (models.Transaction, error)
	deleteFn   func(ctx context.Context, id string) error
	findByIDFn func(ctx context.Context, id string) (models.Transaction, error)
	findAllFn  func(ctx context.Context, q services.TransactionQuery) ([]models.Transaction, error)
}

func (s stubLedgerService) Create(ctx context.Context, in services.TransactionInput) (models.Transaction, error) {
	return s.createFn(ctx, in)
}

func (s stubLedgerService) Update(ctx context.Context, id string, in services.TransactionInput) (models.Transaction, error) {
	return s.updateFn(ctx, id, in)
}

func (s stubLedgerService) Delete(ctx context.Context, id string) error {
	return s.deleteFn(ctx, id)
}

func (s stubLedgerService) FindByID(ctx context.Context, id string) (models.Transaction, error) {
	return s.findByIDFn(ctx, id)
}

func (s stubLedgerService) FindAll(ctx context.Context, q services.TransactionQuery) ([]models.Transaction, error) {
	return s.findAllFn(ctx, q)
}

type stubAccessLogService struct {
	createFn   func(ctx context.Context, in services.AccessLogInput) (models.AccessLog, error)
	findByIDFn func(ctx context.Context, id string) (models.AccessLog, error)
	listFn     func(ctx context.Context, customerID string, limit, offset int) ([]models.AccessLog, error)
}

func (s stubAccessLogService) Create(ctx context.Context, in services.AccessLogInput) (models.AccessLog, error) {
	return s.createFn(ctx, in)
}

func (s stubAccessLogService) FindByID(ctx context.Context, id string) (models.AccessLog, error) {
	return s.findByIDFn(ctx, id)
}

func (s stubAccessLogService) List(ctx context.Context, customerID string, limit, offset int) ([]models.AccessLog, error) {
	return s.listFn(ctx, customerID, limit, offset)
}

type stubAuthService struct {
	loginFn   func(ctx context.Context, email, password string, meta services.RequestMeta) error
	verifyFn  func(ctx context.Context, email, token string, meta services.RequestMeta) (services.Session, error)
	sessionFn func(ctx context.Context, sessionID string, meta services.RequestMeta) (models.Customer, error)
	logoutFn  func(ctx context.Context, sessionID string) error
}

func (s stubAuthService) Login(ctx context.Context, email, password string, meta services.RequestMeta) error {
	return s.loginFn(ctx, email, password, meta)
}

func (s stubAuthService) VerifyToken(ctx context.Context, email, token string, meta services.RequestMeta) (services.Session, error) {
	return s.verifyFn(ctx, email, token, meta)
}

func (s stubAuthService) Session(ctx context.Context, sessionID string, meta services.RequestMeta) (models.Customer, error) {
	return s.sessionFn(ctx, sessionID, meta)
}

func (s stubAuthService) Logout(ctx context.Context, sessionID string) error {
	return s.logoutFn(ctx, sessionID)
}

type sessionTable map[string]string

func (s sessionTable) ResolveSession(sessionID string) (string, error) {
	customerID, ok := s[sessionID]
	if !ok {
		return "", errors.New("session not found")
	}
	return customerID, nil
}

// testDeps lets each test override only the services it exercises.
type testDeps struct {
	customers  stubCustomerService
	accounts   stubAccountService
	ledger     stubLedgerService
	accessLogs stubAccessLogService
	auth       stubAuthService
}

const (
	testCustomerID = "c1"
	testSessionID  = "s1"
)

func newTestHandler(deps testDeps) *Handler {
	cfg := config.Config{
		AppEnv:         "test",
		Port:           "0",
		JWTSecret:      "secret",
		SessionTTL:     time.Minute,
		AllowedOrigins: "*",
	}
	return New(cfg, zerolog.Nop(), deps.customers, deps.accounts, deps.ledger, deps.accessLogs, deps.auth,
		sessionTable{testSessionID: testCustomerID}, websocket.NewHub())
}

// serve routes a request through the full router. Authenticated requests carry
// a bearer token for the test session.
func serve(t *testing.T, h *Handler, method, path string, body any, authenticated bool) *httptest.ResponseRecorder {
	t.Helper()
	var payload bytes.Buffer
	if body != nil {
		if raw, ok := body.(string); ok {
			payload.WriteString(raw)
		} else if err := json.NewEncoder(&payload).Encode(body); err != nil {
			t.Fatalf("failed to encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &payload)
	req.Header.Set("Content-Type", "application/json")
	if authenticated {
		token, _, err := auth.GenerateToken("secret", testCustomerID, testSessionID, time.Minute)
		if err != nil {
			t.Fatalf("failed to generate token: %v", err)
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	h.Routes().ServeHTTP(rr, req)
	return rr
}

func decodeBody(t *testing.T, rr *httptest.ResponseRecorder, dst any) {
	t.Helper()
	if err := json.Unmarshal(rr.Body.Bytes(), dst); err != nil {
		t.Fatalf("failed to decode response %q: %v", rr.Body.String(), err)
	}
}

func stringPtr(value string) *string {
	return &value
}
