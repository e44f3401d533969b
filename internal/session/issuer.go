// Package session keeps login verification tokens and session identifiers in
// process memory. Nothing is persisted: a restart invalidates every entry.
package session

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

var (
	ErrTokenNotFound   = errors.New("verification token not found")
	ErrTokenExpired    = errors.New("verification token expired")
	ErrSessionNotFound = errors.New("session not found")
	ErrIssuerClosed    = errors.New("session issuer closed")
)

type tokenEntry struct {
	customerID string
	expiresAt  time.Time
}

type Issuer struct {
	mu       sync.Mutex
	tokens   map[string]tokenEntry
	sessions map[string]string
	closed   bool
	now      func() time.Time
	newID    func() string
}

type Option func(*Issuer)

// WithClock replaces time.Now, mostly for tests that need to cross a TTL.
func WithClock(now func() time.Time) Option {
	return func(i *Issuer) {
		i.now = now
	}
}

func NewIssuer(opts ...Option) *Issuer {
	i := &Issuer{
		tokens:   make(map[string]tokenEntry),
		sessions: make(map[string]string),
		now:      time.Now,
		newID:    uuid.NewString,
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

func (i *Issuer) IssueToken(customerID string, ttl time.Duration) (string, error) {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.closed {
		return "", ErrIssuerClosed
	}
	token := i.uniqueLocked(func(id string) bool {
		_, taken := i.tokens[id]
		return taken
	})
	i.tokens[token] = tokenEntry{customerID: customerID, expiresAt: i.now().Add(ttl)}
	return token, nil
}

// ConsumeToken hands out the customer id at most once. Expiry is checked here
// and nowhere else; an expired entry is dropped when it is found.
func (i *Issuer) ConsumeToken(token string) (string, error) {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.closed {
		return "", ErrIssuerClosed
	}
	entry, ok := i.tokens[token]
	if !ok {
		return "", ErrTokenNotFound
	}
	delete(i.tokens, token)
	if !i.now().Before(entry.expiresAt) {
		return "", ErrTokenExpired
	}
	return entry.customerID, nil
}

func (i *Issuer) IssueSession(customerID string) (string, error) {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.closed {
		return "", ErrIssuerClosed
	}
	id := i.uniqueLocked(func(id string) bool {
		_, taken := i.sessions[id]
		return taken
	})
	i.sessions[id] = customerID
	return id, nil
}

func (i *Issuer) ResolveSession(sessionID string) (string, error) {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.closed {
		return "", ErrIssuerClosed
	}
	customerID, ok := i.sessions[sessionID]
	if !ok {
		return "", ErrSessionNotFound
	}
	return customerID, nil
}

func (i *Issuer) EndSession(sessionID string) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.closed {
		return ErrIssuerClosed
	}
	if _, ok := i.sessions[sessionID]; !ok {
		return ErrSessionNotFound
	}
	delete(i.sessions, sessionID)
	return nil
}

// Close drops every outstanding token and session. It is safe to call twice.
func (i *Issuer) Close() error {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.closed = true
	i.tokens = make(map[string]tokenEntry)
	i.sessions = make(map[string]string)
	return nil
}

func (i *Issuer) uniqueLocked(taken func(string) bool) string {
	for {
		id := i.newID()
		if !taken(id) {
			return id
		}
	}
}
