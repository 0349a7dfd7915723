package authclient

import (
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// ChannelState is the lifecycle of one status subscription.
type ChannelState int

const (
	ChannelConnecting ChannelState = iota
	ChannelOpen
	ChannelClosed
	ChannelErrored
)

func (s ChannelState) String() string {
	switch s {
	case ChannelConnecting:
		return "connecting"
	case ChannelOpen:
		return "open"
	case ChannelClosed:
		return "closed"
	case ChannelErrored:
		return "errored"
	}
	return "unknown"
}

// StreamConfig tunes the reconnect policy.  Retries use a fixed delay,
// not exponential backoff: the channel either comes back within a few
// beats or the subscription settles closed and the user reconnects
// explicitly.
type StreamConfig struct {
	ReconnectDelay time.Duration // fixed interval between attempts (default 3s)
	MaxReconnects  int           // attempts before settling closed (default 5)
	Dialer         *websocket.Dialer
}

func (c StreamConfig) withDefaults() StreamConfig {
	if c.ReconnectDelay <= 0 {
		c.ReconnectDelay = 3 * time.Second
	}
	if c.MaxReconnects <= 0 {
		c.MaxReconnects = 5
	}
	if c.Dialer == nil {
		c.Dialer = &websocket.Dialer{HandshakeTimeout: 10 * time.Second}
	}
	return c
}

// StatusStream is one realtime subscription tracking one course request.
// Events apply in arrival order; progress_update merges into the
// retained status while every other kind replaces it (see applyUpdate).
// An error event updates the status but does not close the transport;
// only a transport failure moves the channel to Errored.
type StatusStream struct {
	requestID string
	url       string
	header    http.Header
	cfg       StreamConfig

	// OnUpdate observes every envelope after it has been applied, in
	// arrival order.  Notify fires once per generation_complete or
	// error envelope.  Both optional; set before Connect.
	OnUpdate func(StatusUpdate)
	Notify   func(StatusUpdate)

	mu        sync.Mutex
	state     ChannelState
	status    RequestStatus
	lastEvent *StatusUpdate
	attempts  int
	conn      *websocket.Conn
	stopping  bool
	running   bool
}

// NewStatusStream builds a subscription for the given websocket URL.
// The header carries the bearer token.  Call Connect to open it.
func NewStatusStream(requestID, url string, header http.Header, cfg StreamConfig) *StatusStream {
	return &StatusStream{
		requestID: requestID,
		url:       url,
		header:    header,
		cfg:       cfg.withDefaults(),
		state:     ChannelClosed,
	}
}

// RequestID returns the tracked course request's public id.
func (s *StatusStream) RequestID() string { return s.requestID }

// State returns the channel state.
func (s *StatusStream) State() ChannelState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Status returns the accumulated request status.
func (s *StatusStream) Status() RequestStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// LastEvent returns the most recently applied envelope.
func (s *StatusStream) LastEvent() (StatusUpdate, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lastEvent == nil {
		return StatusUpdate{}, false
	}
	return *s.lastEvent, true
}

// ReconnectAttempts returns the attempt count of the current outage.
func (s *StatusStream) ReconnectAttempts() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.attempts
}

// Connect opens the channel.  Calling it while the channel is already
// connecting or open is a no-op: at most one active connection exists
// per request.
func (s *StatusStream) Connect() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return
	}
	s.running = true
	s.stopping = false
	s.attempts = 0
	s.state = ChannelConnecting
	go s.run()
}

// Reconnect reopens a channel that exhausted its retry budget.  No-op
// while the channel is still live.
func (s *StatusStream) Reconnect() { s.Connect() }

// Disconnect closes the channel and stops reconnecting.  Idempotent:
// safe on an already-closed subscription.
func (s *StatusStream) Disconnect() {
	s.mu.Lock()
	s.stopping = true
	s.state = ChannelClosed
	conn := s.conn
	s.conn = nil
	s.mu.Unlock()
	if conn != nil {
		_ = conn.Close()
	}
}

// run owns the dial/read/reconnect cycle.  A dial failure or transport
// drop moves the channel to Errored and retries after the fixed delay;
// once the budget is spent the channel settles Closed until an explicit
// Reconnect.
func (s *StatusStream) run() {
	defer func() {
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
	}()

	for {
		conn, resp, err := s.cfg.Dialer.Dial(s.url, s.header)
		if resp != nil && resp.Body != nil {
			_ = resp.Body.Close()
		}
		if err != nil {
			if !s.noteFailure() {
				return
			}
			time.Sleep(s.cfg.ReconnectDelay)
			continue
		}

		s.mu.Lock()
		if s.stopping {
			s.mu.Unlock()
			_ = conn.Close()
			return
		}
		s.conn = conn
		s.state = ChannelOpen
		s.attempts = 0
		s.mu.Unlock()

		s.readLoop(conn)

		s.mu.Lock()
		s.conn = nil
		stopping := s.stopping
		s.mu.Unlock()
		if stopping {
			return
		}
		if !s.noteFailure() {
			return
		}
		time.Sleep(s.cfg.ReconnectDelay)
	}
}

// noteFailure counts one failed attempt.  Returns false when the budget
// is exhausted or the stream is stopping, leaving the state Closed.
func (s *StatusStream) noteFailure() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopping {
		s.state = ChannelClosed
		return false
	}
	s.attempts++
	if s.attempts > s.cfg.MaxReconnects {
		s.state = ChannelClosed
		return false
	}
	s.state = ChannelErrored
	return true
}

// readLoop applies envelopes in arrival order until the transport drops.
// Callbacks run on this goroutine, which is what guarantees in-order
// delivery to the observer.
func (s *StatusStream) readLoop(conn *websocket.Conn) {
	for {
		var upd StatusUpdate
		if err := conn.ReadJSON(&upd); err != nil {
			_ = conn.Close()
			return
		}

		s.mu.Lock()
		s.status = applyUpdate(s.status, upd)
		s.lastEvent = &upd
		s.mu.Unlock()

		if s.OnUpdate != nil {
			s.OnUpdate(upd)
		}
		if s.Notify != nil && terminalNotification(upd.Event) {
			s.Notify(upd)
		}
	}
}

// StreamManager tracks one StatusStream per course request for
// dashboards that watch several requests at once.
type StreamManager struct {
	baseURL     string
	tokenSource func() string
	cfg         StreamConfig

	// Applied to every stream the manager opens.
	OnUpdate func(StatusUpdate)
	Notify   func(StatusUpdate)

	mu      sync.Mutex
	streams map[string]*StatusStream
}

// NewStreamManager builds a manager for the backend at baseURL
// ("http://host" or "ws://host"); tokenSource supplies the current
// bearer token at dial time so refreshed tokens are picked up.
func NewStreamManager(baseURL string, tokenSource func() string, cfg StreamConfig) *StreamManager {
	return &StreamManager{
		baseURL:     strings.TrimRight(baseURL, "/"),
		tokenSource: tokenSource,
		cfg:         cfg,
		streams:     make(map[string]*StatusStream),
	}
}

// Connect opens (or returns the already-open) stream for a request id.
func (m *StreamManager) Connect(requestID string) *StatusStream {
	m.mu.Lock()
	st, ok := m.streams[requestID]
	if !ok {
		header := http.Header{}
		if m.tokenSource != nil {
			if tok := m.tokenSource(); tok != "" {
				header.Set("Authorization", "Bearer "+tok)
			}
		}
		st = NewStatusStream(requestID, m.wsURL(requestID), header, m.cfg)
		st.OnUpdate = m.OnUpdate
		st.Notify = m.Notify
		m.streams[requestID] = st
	}
	m.mu.Unlock()
	st.Connect()
	return st
}

// Get returns the stream for a request id, if any.
func (m *StreamManager) Get(requestID string) (*StatusStream, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	st, ok := m.streams[requestID]
	return st, ok
}

// Disconnect closes and forgets one subscription.  Safe to call for an
// unknown or already-closed id.
func (m *StreamManager) Disconnect(requestID string) {
	m.mu.Lock()
	st, ok := m.streams[requestID]
	delete(m.streams, requestID)
	m.mu.Unlock()
	if ok {
		st.Disconnect()
	}
}

// DisconnectAll closes every open subscription.  Each close is
// independent, so one misbehaving channel cannot keep the rest open.
func (m *StreamManager) DisconnectAll() {
	m.mu.Lock()
	all := make([]*StatusStream, 0, len(m.streams))
	for id, st := range m.streams {
		all = append(all, st)
		delete(m.streams, id)
	}
	m.mu.Unlock()
	for _, st := range all {
		st.Disconnect()
	}
}

// wsURL derives the websocket endpoint for a request id, converting an
// http(s) base to ws(s).
func (m *StreamManager) wsURL(requestID string) string {
	base := m.baseURL
	switch {
	case strings.HasPrefix(base, "https://"):
		base = "wss://" + strings.TrimPrefix(base, "https://")
	case strings.HasPrefix(base, "http://"):
		base = "ws://" + strings.TrimPrefix(base, "http://")
	}
	return base + "/v1/course-requests/" + requestID + "/ws"
}
