package services

import (
	"context"
	"sync"
	"time"

	"bankoffice/internal/models"
	"bankoffice/internal/store"
	"bankoffice/internal/websocket"

	"github.com/jmoiron/sqlx"
)

type fakeTxRunner struct {
	err error
}

func (f fakeTxRunner) WithTx(ctx context.Context, fn func(*sqlx.Tx) error) error {
	if f.err != nil {
		return f.err
	}
	return fn(nil)
}

type stubCustomerStore struct {
	createFn        func(ctx context.Context, tx store.Execer, c models.Customer) error
	updateFn        func(ctx context.Context, tx store.Execer, c models.Customer) (int64, error)
	deleteFn        func(ctx context.Context, tx store.Execer, id string) (int64, error)
	getByIDFn       func(ctx context.Context, id string) (models.Customer, error)
	getByEmailFn    func(ctx context.Context, email string) (models.Customer, error)
	existsByIDFn    func(ctx context.Context, id string) (bool, error)
	existsByCPFFn   func(ctx context.Context, cpf string) (bool, error)
	existsByEmailFn func(ctx context.Context, email string) (bool, error)
	listFn          func(ctx context.Context, limit, offset int) ([]models.Customer, error)
}

func (s stubCustomerStore) Create(ctx context.Context, tx store.Execer, c models.Customer) error {
	if s.createFn == nil {
		return nil
	}
	return s.createFn(ctx, tx, c)
}

func (s stubCustomerStore) Update(ctx context.Context, tx store.Execer, c models.Customer) (int64, error) {
	if s.updateFn == nil {
		return 1, nil
	}
	return s.updateFn(ctx, tx, c)
}

func (s stubCustomerStore) Delete(ctx context.Context, tx store.Execer, id string) (int64, error) {
	if s.deleteFn == nil {
		return 1, nil
	}
	return s.deleteFn(ctx, tx, id)
}

func (s stubCustomerStore) GetByID(ctx context.Context, id string) (models.Customer, error) {
	return s.getByIDFn(ctx, id)
}

func (s stubCustomerStore) GetByEmail(ctx context.Context, email string) (models.Customer, error) {
	return s.getByEmailFn(ctx, email)
}

func (s stubCustomerStore) ExistsByID(ctx context.Context, id string) (bool, error) {
	if s.existsByIDFn == nil {
		return true, nil
	}
	return s.existsByIDFn(ctx, id)
}

func (s stubCustomerStore) ExistsByCPF(ctx context.Context, cpf string) (bool, error) {
	if s.existsByCPFFn == nil {
		return false, nil
	}
	return s.existsByCPFFn(ctx, cpf)
}

func (s stubCustomerStore) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	if s.existsByEmailFn == nil {
		return false, nil
	}
	return s.existsByEmailFn(ctx, email)
}

func (s stubCustomerStore) List(ctx context.Context, limit, offset int) ([]models.Customer, error) {
	return s.listFn(ctx, limit, offset)
}

type stubOwnership struct {
	owns bool
	err  error
}

func (s stubOwnership) ExistsByCustomer(context.Context, string) (bool, error) {
	return s.owns, s.err
}

type stubCustomerLookup map[string]bool

func (s stubCustomerLookup) Exists(_ context.Context, id string) (bool, error) {
	return s[id], nil
}

type stubAccountStore struct {
	createFn         func(ctx context.Context, tx store.Execer, a models.Account) error
	updateFn         func(ctx context.Context, tx store.Execer, a models.Account) (int64, error)
	deleteFn         func(ctx context.Context, tx store.Execer, id string) (int64, error)
	getByIDFn        func(ctx context.Context, id string) (models.Account, error)
	existsByIDFn     func(ctx context.Context, id string) (bool, error)
	existsByNumberFn func(ctx context.Context, number string) (bool, error)
	listFn           func(ctx context.Context, customerID string, limit, offset int) ([]models.Account, error)
}

func (s stubAccountStore) Create(ctx context.Context, tx store.Execer, a models.Account) error {
	if s.createFn == nil {
		return nil
	}
	return s.createFn(ctx, tx, a)
}

func (s stubAccountStore) Update(ctx context.Context, tx store.Execer, a models.Account) (int64, error) {
	if s.updateFn == nil {
		return 1, nil
	}
	return s.updateFn(ctx, tx, a)
}

func (s stubAccountStore) Delete(ctx context.Context, tx store.Execer, id string) (int64, error) {
	if s.deleteFn == nil {
		return 1, nil
	}
	return s.deleteFn(ctx, tx, id)
}

func (s stubAccountStore) GetByID(ctx context.Context, id string) (models.Account, error) {
	return s.getByIDFn(ctx, id)
}

func (s stubAccountStore) ExistsByID(ctx context.Context, id string) (bool, error) {
	return s.existsByIDFn(ctx, id)
}

func (s stubAccountStore) ExistsByNumber(ctx context.Context, number string) (bool, error) {
	if s.existsByNumberFn == nil {
		return false, nil
	}
	return s.existsByNumberFn(ctx, number)
}

func (s stubAccountStore) List(ctx context.Context, customerID string, limit, offset int) ([]models.Account, error) {
	return s.listFn(ctx, customerID, limit, offset)
}

// accountTable resolves accounts from a fixed map keyed by id.
type accountTable map[string]models.Account

func (t accountTable) FindByID(_ context.Context, id string) (models.Account, bool, error) {
	a, ok := t[id]
	return a, ok, nil
}

type stubTransactionStore struct {
	createFn  func(ctx context.Context, tx store.Execer, t models.Transaction) error
	updateFn  func(ctx context.Context, tx store.Execer, t models.Transaction) (int64, error)
	deleteFn  func(ctx context.Context, tx store.Execer, id string) (int64, error)
	getByIDFn func(ctx context.Context, id string) (models.Transaction, error)
	listFn    func(ctx context.Context, filter store.TransactionFilter) ([]models.Transaction, error)
}

func (s stubTransactionStore) Create(ctx context.Context, tx store.Execer, t models.Transaction) error {
	if s.createFn == nil {
		return nil
	}
	return s.createFn(ctx, tx, t)
}

func (s stubTransactionStore) Update(ctx context.Context, tx store.Execer, t models.Transaction) (int64, error) {
	if s.updateFn == nil {
		return 1, nil
	}
	return s.updateFn(ctx, tx, t)
}

func (s stubTransactionStore) Delete(ctx context.Context, tx store.Execer, id string) (int64, error) {
	if s.deleteFn == nil {
		return 1, nil
	}
	return s.deleteFn(ctx, tx, id)
}

func (s stubTransactionStore) GetByID(ctx context.Context, id string) (models.Transaction, error) {
	return s.getByIDFn(ctx, id)
}

func (s stubTransactionStore) List(ctx context.Context, filter store.TransactionFilter) ([]models.Transaction, error) {
	return s.listFn(ctx, filter)
}

type published struct {
	customerID string
	event      websocket.TransactionEvent
}

type recordingHub struct {
	events []published
}

func (h *recordingHub) PublishTransaction(customerID string, event websocket.TransactionEvent) {
	h.events = append(h.events, published{customerID: customerID, event: event})
}

type stubAccessLogStore struct {
	appendFn  func(ctx context.Context, tx store.Execer, entry models.AccessLog) error
	getByIDFn func(ctx context.Context, id string) (models.AccessLog, error)
	listFn    func(ctx context.Context, customerID string, limit, offset int) ([]models.AccessLog, error)
}

func (s stubAccessLogStore) Append(ctx context.Context, tx store.Execer, entry models.AccessLog) error {
	if s.appendFn == nil {
		return nil
	}
	return s.appendFn(ctx, tx, entry)
}

func (s stubAccessLogStore) GetByID(ctx context.Context, id string) (models.AccessLog, error) {
	return s.getByIDFn(ctx, id)
}

func (s stubAccessLogStore) List(ctx context.Context, customerID string, limit, offset int) ([]models.AccessLog, error) {
	return s.listFn(ctx, customerID, limit, offset)
}

type recorded struct {
	customerID *string
	action     string
	status     string
	meta       RequestMeta
}

type recordingRecorder struct {
	mu      sync.Mutex
	entries []recorded
}

func (r *recordingRecorder) Record(_ context.Context, customerID *string, action, status string, meta RequestMeta) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, recorded{customerID: customerID, action: action, status: status, meta: meta})
}

func (r *recordingRecorder) statuses() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.entries))
	for _, e := range r.entries {
		out = append(out, e.status)
	}
	return out
}

type stubSender struct {
	err  error
	sent map[string]string
}

func (s *stubSender) Send(_ context.Context, recipient, token string) error {
	if s.err != nil {
		return s.err
	}
	if s.sent == nil {
		s.sent = make(map[string]string)
	}
	s.sent[recipient] = token
	return nil
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}
