package realtime

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

// Tables with change triggers; these are the topics a client may follow.
var Topics = []string{"transactions", "budgets", "accounts", "notifications", "alerts"}

var ErrUnknownTopic = errors.New("unknown topic")

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = pongWait * 9 / 10
	sendBufferSize = 32
)

// ParseTopics validates a comma separated topic list. Empty means all topics.
func ParseTopics(raw string) ([]string, error) {
	if strings.TrimSpace(raw) == "" {
		return Topics, nil
	}
	var topics []string
	seen := make(map[string]bool)
	for _, t := range strings.Split(raw, ",") {
		t = strings.TrimSpace(strings.ToLower(t))
		if t == "" || seen[t] {
			continue
		}
		known := false
		for _, k := range Topics {
			if k == t {
				known = true
				break
			}
		}
		if !known {
			return nil, fmt.Errorf("%w: %s", ErrUnknownTopic, t)
		}
		seen[t] = true
		topics = append(topics, t)
	}
	return topics, nil
}

type client struct {
	id     string
	userID int
	conn   *websocket.Conn
	send   chan []byte
	done   chan struct{}
	unsubs []func()
	once   sync.Once
}

// Hub bridges registry channels to websocket connections.
type Hub struct {
	registry *Registry
	upgrader websocket.Upgrader
	log      zerolog.Logger

	mu      sync.RWMutex
	clients map[string]*client
	dropped uint64
}

func NewHub(registry *Registry, allowedOrigins []string, log zerolog.Logger) *Hub {
	h := &Hub{
		registry: registry,
		log:      log,
		clients:  make(map[string]*client),
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     originChecker(allowedOrigins),
	}
	return h
}

func originChecker(allowed []string) func(*http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		for _, o := range allowed {
			if o == "*" || strings.EqualFold(o, origin) {
				return true
			}
		}
		return false
	}
}

// Serve upgrades the request and streams the user's events for topics
// until the client disconnects.
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request, userID int, topics []string) error {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}

	c := h.attach(conn, userID, topics)
	go h.writePump(c)
	h.readPump(c)
	return nil
}

// attach registers conn as a client and subscribes it to the user's
// channels for topics.
func (h *Hub) attach(conn *websocket.Conn, userID int, topics []string) *client {
	c := &client{
		id:     uuid.New().String(),
		userID: userID,
		conn:   conn,
		send:   make(chan []byte, sendBufferSize),
		done:   make(chan struct{}),
	}

	h.mu.Lock()
	h.clients[c.id] = c
	h.mu.Unlock()

	for _, topic := range topics {
		c.unsubs = append(c.unsubs, h.registry.Subscribe(UserChannel(topic, userID), h.deliver(c)))
	}

	h.log.Info().Str("client_id", c.id).Int("user_id", userID).Strs("topics", topics).Msg("Websocket client connected")
	return c
}

func (h *Hub) deliver(c *client) Listener {
	return func(event Event) {
		msg, err := json.Marshal(event)
		if err != nil {
			h.log.Error().Err(err).Msg("Failed to encode event")
			return
		}
		select {
		case <-c.done:
		case c.send <- msg:
		default:
			h.log.Warn().Str("client_id", c.id).Msg("Websocket client too slow, dropping")
			h.mu.Lock()
			h.dropped++
			h.mu.Unlock()
			h.remove(c)
		}
	}
}

// remove detaches c from the registry and closes its connection. Safe to
// call from several goroutines.
func (h *Hub) remove(c *client) {
	c.once.Do(func() {
		for _, unsub := range c.unsubs {
			unsub()
		}
		h.mu.Lock()
		delete(h.clients, c.id)
		h.mu.Unlock()
		close(c.done)
		c.conn.Close()
		h.log.Info().Str("client_id", c.id).Msg("Websocket client disconnected")
	})
}

func (h *Hub) readPump(c *client) {
	defer h.remove(c)

	c.conn.SetReadLimit(512)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) writePump(c *client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		h.remove(c)
	}()

	for {
		select {
		case <-c.done:
			return
		case msg := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
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

type HubStats struct {
	Clients int    `json:"clients"`
	Dropped uint64 `json:"dropped"`
}

func (h *Hub) Stats() HubStats {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return HubStats{Clients: len(h.clients), Dropped: h.dropped}
}
