// Package ws pushes server events to signed-in users over gorilla/websocket.
//
// Connections are grouped by user id; one user may hold several (tabs,
// devices). The hub loop owns the registry; everything else talks to it
// through channels.
//
//	hub := ws.NewHub()
//	go hub.Run(ctx)
//	router.Get("/ws/cart", "ws.cart", func(w http.ResponseWriter, r *http.Request) {
//	    ws.Upgrade(w, r, hub, userID)
//	})
//	hub.SendTo(userID, payload)
package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/shashiranjanraj/shopfront/pkg/logger"
	"github.com/shashiranjanraj/shopfront/pkg/metrics"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4 * 1024
	sendBuffer     = 32
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// SetCheckOrigin replaces the default allow-all origin checker.
func SetCheckOrigin(fn func(r *http.Request) bool) {
	upgrader.CheckOrigin = fn
}

// ─── Client ───────────────────────────────────────────────────────────────────

type Client struct {
	hub    *Hub
	userID uint
	conn   *websocket.Conn
	send   chan []byte
}

// readPump only services control frames; clients have nothing to say.
func (c *Client) readPump() {
	defer func() {
		c.hub.leave(c)
		c.conn.Close()
	}()
	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Warn("ws: unexpected close", "user_id", c.userID, "error", err)
			}
			return
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// ─── Hub ──────────────────────────────────────────────────────────────────────

type envelope struct {
	userID uint
	data   []byte
}

type Hub struct {
	clients    map[uint]map[*Client]struct{}
	register   chan *Client
	unregister chan *Client
	direct     chan envelope
	done       chan struct{}
	count      atomic.Int64
}

// NewHub creates a hub. Start it with Run before upgrading connections.
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[uint]map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		direct:     make(chan envelope, 256),
		done:       make(chan struct{}),
	}
}

// Run owns the client registry until ctx is cancelled, then closes every
// connection.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			for _, set := range h.clients {
				for c := range set {
					h.drop(c)
				}
			}
			return

		case c := <-h.register:
			if h.clients[c.userID] == nil {
				h.clients[c.userID] = make(map[*Client]struct{})
			}
			h.clients[c.userID][c] = struct{}{}
			h.count.Add(1)
			metrics.WSConnections.Inc()
			logger.Info("ws: client connected", "user_id", c.userID, "total", h.count.Load())

		case c := <-h.unregister:
			if _, ok := h.clients[c.userID][c]; ok {
				h.drop(c)
				logger.Info("ws: client disconnected", "user_id", c.userID, "total", h.count.Load())
			}

		case msg := <-h.direct:
			for c := range h.clients[msg.userID] {
				select {
				case c.send <- msg.data:
				default:
					h.drop(c)
				}
			}
		}
	}
}

// drop must only be called from Run.
func (h *Hub) drop(c *Client) {
	set := h.clients[c.userID]
	delete(set, c)
	if len(set) == 0 {
		delete(h.clients, c.userID)
	}
	close(c.send)
	h.count.Add(-1)
	metrics.WSConnections.Dec()
}

func (h *Hub) join(c *Client) bool {
	select {
	case h.register <- c:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) leave(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

// SendTo queues data for every connection of userID. It never blocks; when
// the hub is backed up the message is dropped.
func (h *Hub) SendTo(userID uint, data []byte) bool {
	select {
	case h.direct <- envelope{userID: userID, data: data}:
		return true
	default:
		logger.Warn("ws: hub queue full, message dropped", "user_id", userID)
		return false
	}
}

// SendJSON marshals v and sends it to userID.
func (h *Hub) SendJSON(userID uint, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	h.SendTo(userID, data)
	return nil
}

// ClientCount returns the number of open connections.
func (h *Hub) ClientCount() int { return int(h.count.Load()) }

// ─── Upgrade ─────────────────────────────────────────────────────────────────

// Upgrade switches the request to a websocket owned by userID.
func Upgrade(w http.ResponseWriter, r *http.Request, hub *Hub, userID uint) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.WithCtx(r.Context()).Warn("ws: upgrade failed", "error", err)
		return
	}
	c := &Client{hub: hub, userID: userID, conn: conn, send: make(chan []byte, sendBuffer)}
	if !hub.join(c) {
		conn.Close()
		return
	}
	go c.writePump()
	go c.readPump()
}
