package ws

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"baradari/internal/metrics"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

// Event is the envelope every hub message travels in.
type Event struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

// Presence is invoked when a user's first connection opens (online=true)
// and when their last connection closes (online=false). Writes behind it
// are best-effort; the hub ignores failures.
type Presence func(userID string, online bool)

type Hub struct {
	mu         sync.RWMutex
	clients    map[string]map[*Client]bool
	register   chan *Client
	unregister chan *Client
	presence   Presence
}

type Client struct {
	conn   *websocket.Conn
	userID string
	send   chan []byte
	hub    *Hub
}

func NewHub(presence Presence) *Hub {
	return &Hub{
		clients:    make(map[string]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		presence:   presence,
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			conns := h.clients[client.userID]
			if conns == nil {
				conns = make(map[*Client]bool)
				h.clients[client.userID] = conns
			}
			first := len(conns) == 0
			conns[client] = true
			h.mu.Unlock()

			metrics.WsConnections.Inc()
			if first && h.presence != nil {
				h.presence(client.userID, true)
			}
			log.Debug().Str("user_id", client.userID).Msg("ws client registered")

		case client := <-h.unregister:
			h.mu.Lock()
			conns := h.clients[client.userID]
			last := false
			if conns != nil && conns[client] {
				delete(conns, client)
				close(client.send)
				metrics.WsConnections.Dec()
				if len(conns) == 0 {
					delete(h.clients, client.userID)
					last = true
				}
			}
			h.mu.Unlock()

			if last && h.presence != nil {
				h.presence(client.userID, false)
			}
			log.Debug().Str("user_id", client.userID).Msg("ws client unregistered")
		}
	}
}

// Notify delivers an event to every open connection of the given users.
// Unknown users are skipped; a slow client loses the event rather than
// blocking the hub.
func (h *Hub) Notify(userIDs []string, eventType string, payload interface{}) {
	msg, err := json.Marshal(Event{Type: eventType, Payload: payload})
	if err != nil {
		log.Error().Err(err).Str("event", eventType).Msg("marshal ws event")
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, id := range userIDs {
		for client := range h.clients[id] {
			select {
			case client.send <- msg:
			default:
			}
		}
	}
}

// Online reports whether the user has at least one open connection.
func (h *Hub) Online(userID string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[userID]) > 0
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// Handler upgrades the connection after validating the token query
// parameter with authenticate, which returns the caller's user id.
func Handler(hub *Hub, authenticate func(token string) (string, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := r.URL.Query().Get("token")
		if token == "" {
			http.Error(w, "token required", http.StatusUnauthorized)
			return
		}

		userID, err := authenticate(token)
		if err != nil {
			http.Error(w, "invalid token", http.StatusUnauthorized)
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Error().Err(err).Msg("ws upgrade failed")
			return
		}

		client := &Client{
			conn:   conn,
			userID: userID,
			send:   make(chan []byte, 256),
			hub:    hub,
		}
		hub.register <- client

		welcome, _ := json.Marshal(Event{
			Type: "connected",
			Payload: map[string]interface{}{
				"userId": userID,
				"time":   time.Now().Unix(),
			},
		})
		client.send <- welcome

		go client.writePump()
		go client.readPump()
	}
}

func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(4096)
	c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Debug().Err(err).Str("user_id", c.userID).Msg("ws read error")
			}
			break
		}

		var event Event
		if err := json.Unmarshal(message, &event); err != nil {
			continue
		}

		switch event.Type {
		case "ping":
			c.sendEvent("pong", map[string]interface{}{"time": time.Now().Unix()})
		case "typing_start", "typing_end":
			c.forwardTyping(event)
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(30 * time.Second)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// forwardTyping relays a typing indicator to the chat partner named in
// the payload's "to" field.
func (c *Client) forwardTyping(event Event) {
	payload, ok := event.Payload.(map[string]interface{})
	if !ok {
		return
	}
	to, ok := payload["to"].(string)
	if !ok || to == "" {
		return
	}

	c.hub.Notify([]string{to}, event.Type, map[string]interface{}{
		"chatId":    payload["chatId"],
		"userId":    c.userID,
		"timestamp": time.Now().Unix(),
	})
}

func (c *Client) sendEvent(eventType string, payload interface{}) {
	msg, err := json.Marshal(Event{Type: eventType, Payload: payload})
	if err != nil {
		return
	}
	select {
	case c.send <- msg:
	default:
	}
}
