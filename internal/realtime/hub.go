// Package realtime fans game events out to websocket subscribers. The
// hub keeps three registries: which users watch which garden, which
// connections belong to which user, and the reverse connection-to-user
// map for teardown. Garden membership is resolved to connections at
// delivery time, so a user who reconnects mid-broadcast never ends up
// with a stale subscription.
package realtime

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/happyharvest/garden/internal/logger"
)

// Message is the envelope delivered to websocket clients
type Message struct {
	ID        string      `json:"id"`
	Type      string      `json:"type"`
	Timestamp int64       `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// NewMessage builds a Message with a fresh ID and the current timestamp
func NewMessage(msgType string, payload interface{}) Message {
	return Message{
		ID:        uuid.New().String(),
		Type:      msgType,
		Timestamp: time.Now().Unix(),
		Payload:   payload,
	}
}

// sender is the outbound half of a connection. The websocket pump
// implements it; tests substitute a channel recorder.
type sender interface {
	Send(msg Message) bool // false when the buffer is full
	Close()
}

// Hub tracks garden subscriptions and connected users
type Hub struct {
	mu sync.RWMutex

	// gardenSubs maps gardenID -> set of userIDs watching that garden
	gardenSubs map[string]map[string]struct{}

	// userConns maps userID -> set of connIDs (multi-device)
	userConns map[string]map[string]sender

	// connUsers maps connID -> userID for teardown
	connUsers map[string]string
}

// NewHub creates a new Hub
func NewHub() *Hub {
	return &Hub{
		gardenSubs: make(map[string]map[string]struct{}),
		userConns:  make(map[string]map[string]sender),
		connUsers:  make(map[string]string),
	}
}

// Subscribe adds a user to a garden's subscriber set. Subscribing twice
// is a no-op.
func (h *Hub) Subscribe(gardenID, userID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	subs, ok := h.gardenSubs[gardenID]
	if !ok {
		subs = make(map[string]struct{})
		h.gardenSubs[gardenID] = subs
	}
	subs[userID] = struct{}{}
}

// Unsubscribe removes a user from a garden's subscriber set. Empty sets
// are pruned so the registry does not leak gardens.
func (h *Hub) Unsubscribe(gardenID, userID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	subs, ok := h.gardenSubs[gardenID]
	if !ok {
		return
	}
	delete(subs, userID)
	if len(subs) == 0 {
		delete(h.gardenSubs, gardenID)
	}
}

// RegisterConnection attaches a connection to a user and returns the
// connection ID used for teardown.
func (h *Hub) RegisterConnection(userID string, s sender) string {
	connID := uuid.New().String()

	h.mu.Lock()
	defer h.mu.Unlock()

	conns, ok := h.userConns[userID]
	if !ok {
		conns = make(map[string]sender)
		h.userConns[userID] = conns
	}
	conns[connID] = s
	h.connUsers[connID] = userID

	return connID
}

// RemoveConnection detaches a connection. When it was the user's last
// connection, the user's garden subscriptions are dropped too.
func (h *Hub) RemoveConnection(connID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	userID, ok := h.connUsers[connID]
	if !ok {
		return
	}
	delete(h.connUsers, connID)

	conns, ok := h.userConns[userID]
	if !ok {
		return
	}
	if s, ok := conns[connID]; ok {
		s.Close()
		delete(conns, connID)
	}
	if len(conns) > 0 {
		return
	}
	delete(h.userConns, userID)

	// Last connection gone: prune the user from every garden set
	for gardenID, subs := range h.gardenSubs {
		delete(subs, userID)
		if len(subs) == 0 {
			delete(h.gardenSubs, gardenID)
		}
	}
}

// Broadcast delivers a message to every connection of every user
// subscribed to the garden. Sends are non-blocking; a slow client drops
// events rather than stalling the rest.
func (h *Hub) Broadcast(gardenID string, msg Message) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	subs, ok := h.gardenSubs[gardenID]
	if !ok {
		return
	}

	for userID := range subs {
		for connID, s := range h.userConns[userID] {
			if !s.Send(msg) {
				logger.Warn(LogMsgSendBufferFull,
					"conn_id", connID, "user_id", userID, "type", msg.Type)
			}
		}
	}
}

// Unicast delivers a message to every connection of a single user,
// regardless of garden subscriptions.
func (h *Hub) Unicast(userID string, msg Message) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for connID, s := range h.userConns[userID] {
		if !s.Send(msg) {
			logger.Warn(LogMsgSendBufferFull,
				"conn_id", connID, "user_id", userID, "type", msg.Type)
		}
	}
}

// IsSubscribed reports whether a user is in a garden's subscriber set
func (h *Hub) IsSubscribed(gardenID, userID string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, ok := h.gardenSubs[gardenID][userID]
	return ok
}

// SubscriberCount returns how many users watch a garden
func (h *Hub) SubscriberCount(gardenID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.gardenSubs[gardenID])
}

// ConnectionCount returns how many live connections a user has
func (h *Hub) ConnectionCount(userID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.userConns[userID])
}
