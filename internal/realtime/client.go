package realtime

import (
	"log"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4 * 1024
)

// Client is the middleman between one websocket connection and the hub.
// Each client watches a single course request.
type Client struct {
	hub       *Hub
	conn      *websocket.Conn
	requestID string
	send      chan Envelope
}

// NewClient wraps an upgraded connection subscribed to one request.
func NewClient(hub *Hub, conn *websocket.Conn, requestID string) *Client {
	return &Client{
		hub:       hub,
		conn:      conn,
		requestID: requestID,
		send:      make(chan Envelope, 64),
	}
}

// QueueSnapshot places an envelope on this client's send queue ahead of
// hub traffic.  Used to deliver the persisted request state right after
// subscribing, so a reconnecting dashboard is never blank while waiting
// for the next live event.
func (c *Client) QueueSnapshot(env Envelope) {
	select {
	case c.send <- env:
	default:
	}
}

// Start launches the read and write pumps.  The caller must have
// registered the client with the hub first.
func (c *Client) Start() {
	go c.writePump()
	go c.readPump()
}

// readPump drains the connection so pings and close frames are handled.
// Subscribers never send application data; anything received is ignored.
func (c *Client) readPump() {
	defer func() {
		c.hub.Unregister(c)
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		return
	}
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				log.Printf("hub: unexpected close request=%s: %v", c.requestID, err)
			}
			return
		}
	}
}

// writePump forwards hub envelopes to the connection and keeps it alive
// with periodic pings.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case env, ok := <-c.send:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return
			}
			if !ok {
				// Hub closed the channel.
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(env); err != nil {
				return
			}
		case <-ticker.C:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return
			}
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
