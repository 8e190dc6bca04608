// Package session fans out sign-in, sign-out and role changes to the
// clients listening for them.
package session

import (
	"sync"
	"time"

	"stylemanager-backend/gate"
)

type EventType string

const (
	SignedIn    EventType = "signed_in"
	SignedOut   EventType = "signed_out"
	RoleChanged EventType = "role_changed"
)

// Event is one change to a user's session.
type Event struct {
	Type   EventType `json:"type"`
	UserID string    `json:"user_id"`
	Role   gate.Role `json:"role,omitempty"`
	At     time.Time `json:"at"`
}

const bufferSize = 8

// Hub keeps the listeners of each user.
type Hub struct {
	mu     sync.RWMutex
	subs   map[string]map[int]chan Event
	nextID int
}

// Global hub instance
var Default = NewHub()

func NewHub() *Hub {
	return &Hub{subs: make(map[string]map[int]chan Event)}
}

// Subscribe registers a listener for userID. The returned func releases it
// and closes the channel; calling it more than once is safe.
func (h *Hub) Subscribe(userID string) (<-chan Event, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.nextID++
	id := h.nextID
	ch := make(chan Event, bufferSize)
	if h.subs[userID] == nil {
		h.subs[userID] = make(map[int]chan Event)
	}
	h.subs[userID][id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			delete(h.subs[userID], id)
			if len(h.subs[userID]) == 0 {
				delete(h.subs, userID)
			}
			close(ch)
		})
	}
}

// Publish delivers e to every listener of e.UserID. A listener whose buffer
// is full misses the event rather than blocking the publisher.
func (h *Hub) Publish(e Event) int {
	if e.At.IsZero() {
		e.At = time.Now().UTC()
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	delivered := 0
	for _, ch := range h.subs[e.UserID] {
		select {
		case ch <- e:
			delivered++
		default:
		}
	}
	return delivered
}

// Listeners reports how many subscriptions userID currently has.
func (h *Hub) Listeners(userID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs[userID])
}
