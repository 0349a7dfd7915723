// Package realtime fans course-request lifecycle events out to websocket
// subscribers.  Each connection watches exactly one course request; the
// hub maps request public ids to the set of connections watching them.
package realtime

import (
	"context"
	"log"
	"sync"
)

// Event kinds carried in the websocket envelope.  These values are part
// of the frontend contract.
const (
	EventStatusChange       = "status_change"
	EventProgressUpdate     = "progress_update"
	EventGenerationComplete = "generation_complete"
	EventError              = "error"
)

// StatusData is the data payload of an envelope: the request's current
// status, generation progress and an optional message.
type StatusData struct {
	Status   string `json:"status,omitempty"`
	Progress *uint8 `json:"progress,omitempty"`
	Message  string `json:"message,omitempty"`
}

// Envelope is the wire format sent to subscribers:
// {"event": ..., "request_id": ..., "data": {...}}.
type Envelope struct {
	Event     string     `json:"event"`
	RequestID string     `json:"request_id"`
	Data      StatusData `json:"data"`
}

// Hub maintains the set of active subscribers grouped by course request
// and broadcasts envelopes to the matching group.  Lifecycle events are
// handled before broadcasts so a freshly registered subscriber never
// misses an envelope queued behind its registration.
type Hub struct {
	mu         sync.RWMutex
	subs       map[string]map[*Client]bool // request public id -> clients
	broadcast  chan Envelope
	register   chan *Client
	unregister chan *Client
}

// NewHub creates a hub with a buffered broadcast queue.
func NewHub() *Hub {
	return &Hub{
		subs:       make(map[string]map[*Client]bool),
		broadcast:  make(chan Envelope, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

// Register attaches a client to its request's subscriber group.
func (h *Hub) Register(c *Client) { h.register <- c }

// Unregister detaches a client; safe to call for a client that was
// already removed.
func (h *Hub) Unregister(c *Client) { h.unregister <- c }

// Publish queues an envelope for every subscriber of its request id.
// Publishing to a request nobody watches is a no-op.
func (h *Hub) Publish(env Envelope) { h.broadcast <- env }

// SubscriberCount reports how many clients watch the given request.
func (h *Hub) SubscriberCount(requestID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs[requestID])
}

// Run processes registrations and broadcasts until ctx is cancelled, then
// closes every subscriber.  Lifecycle events take priority over
// broadcasts so group membership is settled before messages dispatch.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case c := <-h.register:
			h.add(c)
			continue
		case c := <-h.unregister:
			h.remove(c)
			continue
		default:
		}

		select {
		case <-ctx.Done():
			h.closeAll()
			return
		case c := <-h.register:
			h.add(c)
		case c := <-h.unregister:
			h.remove(c)
		case env := <-h.broadcast:
			h.dispatch(env)
		}
	}
}

func (h *Hub) add(c *Client) {
	h.mu.Lock()
	group, ok := h.subs[c.requestID]
	if !ok {
		group = make(map[*Client]bool)
		h.subs[c.requestID] = group
	}
	group[c] = true
	n := len(group)
	h.mu.Unlock()
	log.Printf("hub: subscriber joined request=%s total=%d", c.requestID, n)
}

func (h *Hub) remove(c *Client) {
	h.mu.Lock()
	group, ok := h.subs[c.requestID]
	if ok && group[c] {
		delete(group, c)
		close(c.send)
		if len(group) == 0 {
			delete(h.subs, c.requestID)
		}
	}
	h.mu.Unlock()
	if ok {
		log.Printf("hub: subscriber left request=%s", c.requestID)
	}
}

// dispatch sends to every subscriber of the envelope's request.  A client
// with a full send buffer is dropped rather than allowed to stall the
// hub; its write pump will notice the closed channel and tear down.
func (h *Hub) dispatch(env Envelope) {
	h.mu.Lock()
	group := h.subs[env.RequestID]
	var stalled []*Client
	for c := range group {
		select {
		case c.send <- env:
		default:
			stalled = append(stalled, c)
		}
	}
	for _, c := range stalled {
		delete(group, c)
		close(c.send)
	}
	if group != nil && len(group) == 0 {
		delete(h.subs, env.RequestID)
	}
	h.mu.Unlock()
	if len(stalled) > 0 {
		log.Printf("hub: dropped %d stalled subscriber(s) request=%s", len(stalled), env.RequestID)
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	n := 0
	for id, group := range h.subs {
		for c := range group {
			close(c.send)
			n++
		}
		delete(h.subs, id)
	}
	h.mu.Unlock()
	log.Printf("hub: stopped, closed %d subscriber(s)", n)
}
