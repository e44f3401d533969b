package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"bankoffice/internal/apperr"
	"bankoffice/internal/auth"
	"bankoffice/internal/models"
	"bankoffice/internal/session"

	"github.com/rs/zerolog"
)

const ActionLogin = "LOGIN"

const (
	StatusInvalidCredentials = "FAILURE-INVALID_CREDENTIALS"
	StatusTokenSent          = "SUCCESS-TOKEN_SENT"
	StatusTokenInvalid       = "FAILURE-TOKEN_INVALID"
	StatusTokenExpired       = "FAILURE-TOKEN_EXPIRED"
	StatusEmailMismatch      = "FAILURE-EMAIL_MISMATCH"
	StatusTokenValidated     = "SUCCESS-TOKEN_VALIDATED"
	StatusSessionNotFound    = "FAILURE-SESSION_NOT_FOUND"
	StatusUserNotFound       = "FAILURE-USER_NOT_FOUND"
	StatusSessionFound       = "SUCCESS-SESSION_FOUND"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailMismatch      = errors.New("email does not match the verification token")
)

type CustomerFinder interface {
	FindByID(ctx context.Context, id string) (models.Customer, error)
	FindByEmail(ctx context.Context, email string) (models.Customer, error)
}

type TokenIssuer interface {
	IssueToken(customerID string, ttl time.Duration) (string, error)
	ConsumeToken(token string) (string, error)
	IssueSession(customerID string) (string, error)
	ResolveSession(sessionID string) (string, error)
	EndSession(sessionID string) error
}

type TokenSender interface {
	Send(ctx context.Context, recipient, token string) error
}

type AccessRecorder interface {
	Record(ctx context.Context, customerID *string, action, status string, meta RequestMeta)
}

type AuthConfig struct {
	JWTSecret  string
	TokenTTL   time.Duration
	SessionTTL time.Duration
}

// AuthService runs the two-step login: a password check that mails a one-time
// token, then a token exchange that opens a session. Every outcome that
// identifies a customer or a token is written to the access log.
type AuthService struct {
	customers CustomerFinder
	issuer    TokenIssuer
	sender    TokenSender
	recorder  AccessRecorder
	cfg       AuthConfig
	log       zerolog.Logger
}

func NewAuthService(customers CustomerFinder, issuer TokenIssuer, sender TokenSender, recorder AccessRecorder, cfg AuthConfig, log zerolog.Logger) *AuthService {
	return &AuthService{
		customers: customers,
		issuer:    issuer,
		sender:    sender,
		recorder:  recorder,
		cfg:       cfg,
		log:       log.With().Str("component", "auth").Logger(),
	}
}

// Session is what a successful token exchange hands back to the client.
type Session struct {
	SessionID   string    `json:"session_id"`
	CustomerID  string    `json:"customer_id"`
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
}

func (s *AuthService) Login(ctx context.Context, email, password string, meta RequestMeta) error {
	customer, err := s.customers.FindByEmail(ctx, email)
	if errors.Is(err, apperr.ErrCustomerNotFound) {
		return ErrInvalidCredentials
	}
	if err != nil {
		return err
	}
	if !auth.CheckPassword(customer.PasswordHash, password) {
		s.recorder.Record(ctx, &customer.ID, ActionLogin, StatusInvalidCredentials, meta)
		return ErrInvalidCredentials
	}
	token, err := s.issuer.IssueToken(customer.ID, s.cfg.TokenTTL)
	if err != nil {
		return err
	}
	if err := s.sender.Send(ctx, customer.Email, token); err != nil {
		// an undeliverable token must not stay redeemable
		_, _ = s.issuer.ConsumeToken(token)
		return fmt.Errorf("send verification token: %w", err)
	}
	s.recorder.Record(ctx, &customer.ID, ActionLogin, StatusTokenSent, meta)
	return nil
}

// VerifyToken redeems a login token. The token is spent even when the email
// does not match, so a guessed token cannot be retried.
func (s *AuthService) VerifyToken(ctx context.Context, email, token string, meta RequestMeta) (Session, error) {
	customerID, err := s.issuer.ConsumeToken(token)
	switch {
	case errors.Is(err, session.ErrTokenExpired):
		s.recorder.Record(ctx, nil, ActionLogin, StatusTokenExpired, meta)
		return Session{}, err
	case errors.Is(err, session.ErrTokenNotFound):
		s.recorder.Record(ctx, nil, ActionLogin, StatusTokenInvalid, meta)
		return Session{}, err
	case err != nil:
		return Session{}, err
	}

	// a token whose customer is gone cannot match any email; the entry is then
	// written without a customer, since access_logs references customers
	customer, err := s.customers.FindByID(ctx, customerID)
	if errors.Is(err, apperr.ErrCustomerNotFound) {
		s.recorder.Record(ctx, nil, ActionLogin, StatusEmailMismatch, meta)
		return Session{}, ErrEmailMismatch
	}
	if err != nil {
		return Session{}, err
	}
	if customer.Email != normalizeEmail(email) {
		s.recorder.Record(ctx, &customer.ID, ActionLogin, StatusEmailMismatch, meta)
		return Session{}, ErrEmailMismatch
	}

	sessionID, err := s.issuer.IssueSession(customer.ID)
	if err != nil {
		return Session{}, err
	}
	accessToken, expiresAt, err := auth.GenerateToken(s.cfg.JWTSecret, customer.ID, sessionID, s.cfg.SessionTTL)
	if err != nil {
		_ = s.issuer.EndSession(sessionID)
		return Session{}, err
	}
	s.recorder.Record(ctx, &customer.ID, ActionLogin, StatusTokenValidated, meta)
	s.log.Info().Str("customer_id", customer.ID).Msg("session opened")
	return Session{
		SessionID:   sessionID,
		CustomerID:  customer.ID,
		AccessToken: accessToken,
		TokenType:   "Bearer",
		ExpiresAt:   expiresAt.UTC(),
	}, nil
}

func (s *AuthService) Session(ctx context.Context, sessionID string, meta RequestMeta) (models.Customer, error) {
	customerID, err := s.issuer.ResolveSession(strings.TrimSpace(sessionID))
	if errors.Is(err, session.ErrSessionNotFound) {
		s.recorder.Record(ctx, nil, ActionLogin, StatusSessionNotFound, meta)
		return models.Customer{}, err
	}
	if err != nil {
		return models.Customer{}, err
	}
	customer, err := s.customers.FindByID(ctx, customerID)
	if errors.Is(err, apperr.ErrCustomerNotFound) {
		s.recorder.Record(ctx, nil, ActionLogin, StatusUserNotFound, meta)
		return models.Customer{}, err
	}
	if err != nil {
		return models.Customer{}, err
	}
	s.recorder.Record(ctx, &customer.ID, ActionLogin, StatusSessionFound, meta)
	return customer, nil
}

func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	if err := s.issuer.EndSession(sessionID); err != nil {
		return err
	}
	s.log.Info().Str("session_id", sessionID).Msg("session closed")
	return nil
}
