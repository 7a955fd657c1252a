// Package ws pushes order lifecycle events to connected dashboards over
// WebSocket. The feed is one-way: clients subscribe by connecting, the
// server broadcasts, and anything a client sends is discarded.
//
//	hub := ws.NewHub()
//	go hub.Run()
//	router.Handle("/ws/orders", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
//	    ws.Upgrade(w, r, hub)
//	}))
//	hub.Broadcast <- payload
package ws

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/rishavanand/bazario/pkg/logger"
)

const (
	writeTimeout = 10 * time.Second
	pongTimeout  = 60 * time.Second
	pingEvery    = 54 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// SetCheckOrigin replaces the default allow-all origin check.
func SetCheckOrigin(fn func(r *http.Request) bool) {
	upgrader.CheckOrigin = fn
}

// Hub fans broadcast payloads out to every connected subscriber.
type Hub struct {
	// Broadcast delivers a payload to all connected clients. A subscriber
	// whose send buffer is full is dropped rather than slowing the rest.
	Broadcast chan []byte

	subscribers map[*subscriber]struct{}
	join        chan *subscriber
	leave       chan *subscriber
}

// NewHub builds a hub; start its loop with go hub.Run().
func NewHub() *Hub {
	return &Hub{
		Broadcast:   make(chan []byte, 256),
		subscribers: make(map[*subscriber]struct{}),
		join:        make(chan *subscriber),
		leave:       make(chan *subscriber),
	}
}

// Run is the hub event loop. It owns the subscriber set, so membership and
// broadcast never race.
func (h *Hub) Run() {
	for {
		select {
		case sub := <-h.join:
			h.subscribers[sub] = struct{}{}
			logger.Info("ws: subscriber connected", "total", len(h.subscribers))

		case sub := <-h.leave:
			if _, ok := h.subscribers[sub]; ok {
				delete(h.subscribers, sub)
				close(sub.out)
				logger.Info("ws: subscriber disconnected", "total", len(h.subscribers))
			}

		case payload := <-h.Broadcast:
			for sub := range h.subscribers {
				select {
				case sub.out <- payload:
				default:
					delete(h.subscribers, sub)
					close(sub.out)
				}
			}
		}
	}
}

// ClientCount returns the number of connected subscribers. Only accurate
// when read from the Run goroutine; elsewhere it is a snapshot.
func (h *Hub) ClientCount() int { return len(h.subscribers) }

// Upgrade switches the HTTP connection to WebSocket and subscribes it to
// the hub's broadcasts.
func Upgrade(w http.ResponseWriter, r *http.Request, hub *Hub) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Error("ws: upgrade failed", "error", err)
		return
	}

	sub := &subscriber{hub: hub, conn: conn, out: make(chan []byte, 256)}
	hub.join <- sub
	go sub.writeLoop()
	go sub.readLoop()
}

type subscriber struct {
	hub  *Hub
	conn *websocket.Conn
	out  chan []byte
}

// readLoop discards inbound frames; its job is pong handling and noticing
// the close.
func (s *subscriber) readLoop() {
	defer func() {
		s.hub.leave <- s
		s.conn.Close()
	}()

	s.conn.SetReadLimit(4096)
	s.conn.SetReadDeadline(time.Now().Add(pongTimeout)) //nolint:errcheck
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(pongTimeout))
	})

	for {
		if _, _, err := s.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Warn("ws: unexpected close", "error", err)
			}
			return
		}
	}
}

func (s *subscriber) writeLoop() {
	ping := time.NewTicker(pingEvery)
	defer func() {
		ping.Stop()
		s.conn.Close()
	}()

	for {
		select {
		case payload, ok := <-s.out:
			s.conn.SetWriteDeadline(time.Now().Add(writeTimeout)) //nolint:errcheck
			if !ok {
				s.conn.WriteMessage(websocket.CloseMessage, []byte{}) //nolint:errcheck
				return
			}
			if err := s.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		case <-ping.C:
			s.conn.SetWriteDeadline(time.Now().Add(writeTimeout)) //nolint:errcheck
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
