package websocket

import (
	"encoding/json"
	"sync"
	"time"
)

type EventKind string

const (
	TransactionCreated EventKind = "transaction.created"
	TransactionUpdated EventKind = "transaction.updated"
	TransactionDeleted EventKind = "transaction.deleted"
)

// TransactionEvent is what a customer sees when a transaction touching one of
// their accounts changes.
type TransactionEvent struct {
	Kind                 EventKind `json:"kind"`
	TransactionID        string    `json:"transaction_id"`
	Type                 string    `json:"type,omitempty"`
	Amount               string    `json:"amount,omitempty"`
	SourceAccountID      *string   `json:"source_account_id,omitempty"`
	DestinationAccountID *string   `json:"destination_account_id,omitempty"`
	At                   time.Time `json:"at"`
}

// Hub fans events out to the sockets each customer has open. Slow sockets
// drop events rather than stall the publisher.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]map[*Client]struct{}
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[string]map[*Client]struct{}),
	}
}

func (h *Hub) Register(customerID string, client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[customerID] == nil {
		h.clients[customerID] = make(map[*Client]struct{})
	}
	h.clients[customerID][client] = struct{}{}
}

func (h *Hub) Unregister(customerID string, client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[customerID] == nil {
		return
	}
	delete(h.clients[customerID], client)
	if len(h.clients[customerID]) == 0 {
		delete(h.clients, customerID)
	}
}

func (h *Hub) Connected(customerID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[customerID])
}

func (h *Hub) PublishTransaction(customerID string, event TransactionEvent) {
	payload, err := json.Marshal(event)
	if err != nil {
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for client := range h.clients[customerID] {
		select {
		case client.send <- payload:
		default:
		}
	}
}
