package websocket

import (
	"context"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"greentask/internal/domain/entity"
	"greentask/internal/infrastructure/ratelimit"
	"greentask/pkg/logger"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
	sendBuffer     = 64
)

// Client is one browser tab listening for a session's toasts.
type Client struct {
	SessionID string
	Conn      *websocket.Conn
	Send      chan []byte
}

// Manager keeps at most one client per session and pushes toasts to it.
type Manager struct {
	clients    map[string]*Client
	Register   chan *Client
	Unregister chan *Client
	mutex      sync.RWMutex
	done       chan struct{}
	limiter    *ratelimit.RateLimiter
	log        logger.Logger
}

// NewManager creates a manager. Inbound frames are throttled per session
// when limiter is not nil.
func NewManager(log logger.Logger, limiter *ratelimit.RateLimiter) *Manager {
	return &Manager{
		clients:    make(map[string]*Client),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		done:       make(chan struct{}),
		limiter:    limiter,
		log:        log,
	}
}

// Start runs the manager's main loop in a goroutine
func (m *Manager) Start(ctx context.Context) {
	go func() {
		for {
			select {
			case client := <-m.Register:
				m.mutex.Lock()
				if previous, ok := m.clients[client.SessionID]; ok {
					close(previous.Send)
				}
				m.clients[client.SessionID] = client
				m.mutex.Unlock()
				m.log.Debug("toast client registered", "session", client.SessionID)

			case client := <-m.Unregister:
				m.mutex.Lock()
				if current, ok := m.clients[client.SessionID]; ok && current == client {
					delete(m.clients, client.SessionID)
					close(client.Send)
				}
				m.mutex.Unlock()
				m.log.Debug("toast client unregistered", "session", client.SessionID)

			case <-ctx.Done():
				m.closeAll()
				close(m.done)
				return
			}
		}
	}()
}

// Attach registers conn as the toast client of sessionID and starts its
// pumps. It returns nil once the manager has stopped.
func (m *Manager) Attach(sessionID string, conn *websocket.Conn) *Client {
	client := &Client{
		SessionID: sessionID,
		Conn:      conn,
		Send:      make(chan []byte, sendBuffer),
	}
	select {
	case m.Register <- client:
	case <-m.done:
		conn.Close()
		return nil
	}
	go client.ReadPump(m)
	go client.WritePump(m.log)
	return client
}

// Publish pushes n as a toast. It never blocks: a client whose buffer is
// full misses the toast.
func (m *Manager) Publish(sessionID string, n entity.Notification) {
	frame, err := encode(MessageTypeToast, NewToast(n))
	if err != nil {
		m.log.Error("encode toast", "session", sessionID, "error", err)
		return
	}
	if !m.trySend(sessionID, nil, frame) {
		m.log.Debug("toast dropped", "session", sessionID, "notification", n.ID)
	}
}

// Close disconnects the session's client, if any.
func (m *Manager) Close(sessionID string) {
	m.mutex.Lock()
	if client, ok := m.clients[sessionID]; ok {
		delete(m.clients, sessionID)
		close(client.Send)
	}
	m.mutex.Unlock()

	if m.limiter != nil {
		m.limiter.Forget(sessionID)
	}
}

func (m *Manager) Connected(sessionID string) bool {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	_, ok := m.clients[sessionID]
	return ok
}

// trySend queues frame for the session's client. When only is set the frame
// is delivered only if that exact client is still registered.
func (m *Manager) trySend(sessionID string, only *Client, frame []byte) bool {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	client, ok := m.clients[sessionID]
	if !ok || (only != nil && client != only) {
		return false
	}
	select {
	case client.Send <- frame:
		return true
	default:
		return false
	}
}

func (m *Manager) closeAll() {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	for id, client := range m.clients {
		delete(m.clients, id)
		close(client.Send)
	}
}

// ReadPump reads messages from the WebSocket connection
func (c *Client) ReadPump(m *Manager) {
	defer func() {
		select {
		case m.Unregister <- c:
		case <-m.done:
		}
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	_ = c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		return c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				m.log.Warn("toast client read failed", "session", c.SessionID, "error", err)
			}
			return
		}
		if m.limiter != nil {
			if allowed, _ := m.limiter.Allow(c.SessionID, ratelimit.ActionFrame); !allowed {
				continue
			}
		}
		if out, ok := reply(message); ok {
			m.trySend(c.SessionID, c, out)
		}
	}
}

// WritePump sends messages to the WebSocket connection
func (c *Client) WritePump(log logger.Logger) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			_ = c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.Conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				log.Warn("toast client write failed", "session", c.SessionID, "error", err)
				return
			}
		case <-ticker.C:
			_ = c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
