// Package wshub mirrors domain events onto read-only WebSocket subscribers,
// so a frontend can watch a pool's deposits, withdrawals, and draws without
// polling the HTTP API.
package wshub

import (
	"encoding/json"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"

	"github.com/luckystake/pool-engine/events"
)

// Message is the JSON frame pushed to connected clients.
type Message struct {
	Type   events.EventType `json:"type"`
	PoolID int64            `json:"pool_id"`
	Event  events.Event     `json:"event"`
}

type client struct {
	conn   *websocket.Conn
	poolID int64
}

// Hub manages WebSocket connections and fans domain events out to every
// client subscribed to the event's pool.
type Hub struct {
	clients    map[*client]bool
	broadcast  chan events.Event
	register   chan *client
	unregister chan *client
	mu         sync.RWMutex
}

// NewHub creates a new WebSocket hub.
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*client]bool),
		broadcast:  make(chan events.Event, 256),
		register:   make(chan *client),
		unregister: make(chan *client),
	}
}

// Run drives the hub's event loop. Must be called in a goroutine.
func (h *Hub) Run() {
	for {
		select {
		case c := <-h.register:
			h.mu.Lock()
			h.clients[c] = true
			h.mu.Unlock()
			log.WithField("total", len(h.clients)).Debug("ws client connected")

		case c := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				c.conn.Close()
			}
			h.mu.Unlock()

		case event := <-h.broadcast:
			poolID := events.PoolIDOf(event)
			msg := Message{Type: event.Type(), PoolID: poolID, Event: event}
			data, err := json.Marshal(msg)
			if err != nil {
				log.WithError(err).Warn("failed to marshal ws message")
				continue
			}

			h.mu.RLock()
			for c := range h.clients {
				if c.poolID != 0 && c.poolID != poolID {
					continue
				}
				if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
					c.conn.Close()
					delete(h.clients, c)
				}
			}
			h.mu.RUnlock()
		}
	}
}

// Broadcast queues a domain event for delivery to subscribed clients. Drops
// the event rather than blocking the caller if the buffer is full.
func (h *Hub) Broadcast(event events.Event) {
	select {
	case h.broadcast <- event:
	default:
		log.Warn("ws broadcast buffer full, dropping event")
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(_ *http.Request) bool { return true },
}

// HandleWS upgrades GET /v1/pools/{poolID}/stream into a WebSocket that
// streams that pool's events. An unset or zero poolID subscribes to every
// pool's events.
func (h *Hub) HandleWS(w http.ResponseWriter, r *http.Request, poolID int64) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.WithError(err).Error("ws upgrade failed")
		return
	}

	c := &client{conn: conn, poolID: poolID}
	h.register <- c

	go func() {
		defer func() { h.unregister <- c }()
		conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		conn.SetPongHandler(func(string) error {
			conn.SetReadDeadline(time.Now().Add(60 * time.Second))
			return nil
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				break
			}
		}
	}()

	go func() {
		ticker := time.NewTicker(30 * time.Second)
		defer ticker.Stop()
		for range ticker.C {
			h.mu.RLock()
			_, ok := h.clients[c]
			h.mu.RUnlock()
			if !ok {
				return
			}
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}()
}

// ParsePoolID is a small helper for handlers pulling the pool ID path
// parameter before calling HandleWS.
func ParsePoolID(s string) (int64, error) {
	return strconv.ParseInt(s, 10, 64)
}
