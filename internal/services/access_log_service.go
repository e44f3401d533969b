package services

import (
	"context"
	"net"
	"net/http"
	"strings"
	"time"

	"bankoffice/internal/apperr"
	"bankoffice/internal/db"
	"bankoffice/internal/models"
	"bankoffice/internal/store"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog"
)

type AccessLogStore interface {
	Append(ctx context.Context, tx store.Execer, entry models.AccessLog) error
	GetByID(ctx context.Context, id string) (models.AccessLog, error)
	List(ctx context.Context, customerID string, limit, offset int) ([]models.AccessLog, error)
}

// RequestMeta is the part of an HTTP request kept on an access log row.
type RequestMeta struct {
	IP        string
	UserAgent string
	Path      string
}

// MetaFromRequest takes the client address from the first X-Forwarded-For hop
// when a proxy set one.
func MetaFromRequest(r *http.Request) RequestMeta {
	return RequestMeta{
		IP:        clientIP(r),
		UserAgent: r.UserAgent(),
		Path:      r.URL.Path,
	}
}

func clientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		first := strings.TrimSpace(strings.Split(forwarded, ",")[0])
		if first != "" {
			return first
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

type AccessLogService struct {
	txRunner  db.TxRunner
	logs      AccessLogStore
	customers CustomerLookup
	log       zerolog.Logger
	now       func() time.Time
}

func NewAccessLogService(txRunner db.TxRunner, logs AccessLogStore, customers CustomerLookup, log zerolog.Logger) *AccessLogService {
	return &AccessLogService{
		txRunner:  txRunner,
		logs:      logs,
		customers: customers,
		log:       log.With().Str("component", "access_log").Logger(),
		now:       time.Now,
	}
}

type AccessLogInput struct {
	CustomerID *string
	Action     string
	Status     string
	Meta       RequestMeta
	Timestamp  time.Time
}

// Record appends an audit row for the caller's flow. A failed write is logged
// and swallowed; the row is written even if the request context is cancelled.
func (s *AccessLogService) Record(ctx context.Context, customerID *string, action, status string, meta RequestMeta) {
	entry := s.entry(AccessLogInput{CustomerID: customerID, Action: action, Status: status, Meta: meta})
	ctx = context.WithoutCancel(ctx)
	err := s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		return s.logs.Append(ctx, tx, entry)
	})
	if err != nil {
		event := s.log.Error().Err(err).Str("action", action).Str("status", status)
		if customerID != nil {
			event = event.Str("customer_id", *customerID)
		}
		event.Msg("failed to record access log")
	}
}

// Create is the explicit write used by the logs endpoint. Unlike Record it
// reports failures and checks the customer reference.
func (s *AccessLogService) Create(ctx context.Context, in AccessLogInput) (models.AccessLog, error) {
	if in.CustomerID != nil && *in.CustomerID != "" {
		exists, err := s.customers.Exists(ctx, *in.CustomerID)
		if err != nil {
			return models.AccessLog{}, err
		}
		if !exists {
			return models.AccessLog{}, apperr.NotFound("customer", *in.CustomerID)
		}
	} else {
		in.CustomerID = nil
	}
	entry := s.entry(in)
	err := s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		return s.logs.Append(ctx, tx, entry)
	})
	if err != nil {
		return models.AccessLog{}, err
	}
	return entry, nil
}

func (s *AccessLogService) FindByID(ctx context.Context, id string) (models.AccessLog, error) {
	entry, err := s.logs.GetByID(ctx, id)
	if err != nil {
		return models.AccessLog{}, notFoundOr(err, "access log", id)
	}
	return entry, nil
}

func (s *AccessLogService) List(ctx context.Context, customerID string, limit, offset int) ([]models.AccessLog, error) {
	limit, offset = page(limit, offset)
	return s.logs.List(ctx, customerID, limit, offset)
}

func (s *AccessLogService) entry(in AccessLogInput) models.AccessLog {
	ts := in.Timestamp
	if ts.IsZero() {
		ts = s.now()
	}
	return models.AccessLog{
		ID:         uuid.NewString(),
		CustomerID: in.CustomerID,
		Action:     in.Action,
		Status:     in.Status,
		IPAddress:  in.Meta.IP,
		UserAgent:  in.Meta.UserAgent,
		Path:       in.Meta.Path,
		Timestamp:  ts.UTC(),
	}
}
