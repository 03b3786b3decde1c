// Package realtime pushes booking events to connected clients over WebSockets.
// Every client joins the room named after its user id.
package realtime

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	sendBuffer = 64
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

// Emitter delivers an event to everyone in a room.
type Emitter interface {
	Emit(ctx context.Context, room, event string, payload any) error
}

// Message is the frame written to clients.
type Message struct {
	Event     string    `json:"event"`
	Room      string    `json:"room"`
	Payload   any       `json:"payload,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Client is one live connection.
type Client struct {
	ID     string
	UserID string
	Send   chan []byte
}

// Hub tracks rooms and their clients.
type Hub struct {
	mu       sync.RWMutex
	rooms    map[string]map[*Client]struct{}
	presence Presence
	logger   *zap.Logger
}

var _ Emitter = (*Hub)(nil)

func NewHub(presence Presence, logger *zap.Logger) *Hub {
	if presence == nil {
		presence = NewMemoryPresence()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{
		rooms:    make(map[string]map[*Client]struct{}),
		presence: presence,
		logger:   logger,
	}
}

// Join registers a new client in the user's room.
func (h *Hub) Join(ctx context.Context, userID string) *Client {
	c := &Client{ID: uuid.New().String(), UserID: userID, Send: make(chan []byte, sendBuffer)}

	h.mu.Lock()
	if h.rooms[userID] == nil {
		h.rooms[userID] = make(map[*Client]struct{})
	}
	h.rooms[userID][c] = struct{}{}
	h.mu.Unlock()

	if err := h.presence.Set(ctx, userID, c.ID); err != nil {
		h.logger.Warn("Presence update failed", zap.String("userId", userID), zap.Error(err))
	}
	return c
}

// Leave removes the client and closes its send channel. Safe to call twice.
func (h *Hub) Leave(ctx context.Context, c *Client) {
	h.mu.Lock()
	members, ok := h.rooms[c.UserID]
	if !ok {
		h.mu.Unlock()
		return
	}
	if _, ok := members[c]; !ok {
		h.mu.Unlock()
		return
	}
	delete(members, c)
	if len(members) == 0 {
		delete(h.rooms, c.UserID)
	}
	close(c.Send)
	h.mu.Unlock()

	if err := h.presence.Remove(ctx, c.UserID, c.ID); err != nil {
		h.logger.Warn("Presence removal failed", zap.String("userId", c.UserID), zap.Error(err))
	}
}

// Emit broadcasts to a room. Slow clients whose buffer is full miss the frame.
func (h *Hub) Emit(_ context.Context, room, event string, payload any) error {
	data, err := json.Marshal(Message{Event: event, Room: room, Payload: payload, Timestamp: time.Now().UTC()})
	if err != nil {
		return err
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.rooms[room] {
		select {
		case c.Send <- data:
		default:
			h.logger.Debug("Dropping frame for slow client", zap.String("clientId", c.ID))
		}
	}
	return nil
}

// Online reports whether the user has a live connection on any instance.
func (h *Hub) Online(ctx context.Context, userID string) bool {
	conns, err := h.presence.Get(ctx, userID)
	return err == nil && len(conns) > 0
}

// RoomSize returns the number of local clients in a room.
func (h *Hub) RoomSize(room string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[room])
}

// Serve runs the read and write pumps for an upgraded connection until it closes.
func (h *Hub) Serve(ctx context.Context, conn *websocket.Conn, userID string) {
	c := h.Join(ctx, userID)
	h.logger.Debug("WebSocket client joined", zap.String("userId", userID), zap.String("clientId", c.ID))

	go h.writePump(c, conn)
	h.readPump(ctx, c, conn)
}

// readPump drains inbound frames; clients do not send commands, but reading keeps pongs flowing.
func (h *Hub) readPump(ctx context.Context, c *Client, conn *websocket.Conn) {
	defer func() {
		h.Leave(context.Background(), c)
		conn.Close()
	}()

	conn.SetReadLimit(512)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		if err := h.presence.Set(ctx, c.UserID, c.ID); err != nil {
			h.logger.Debug("Presence refresh failed", zap.Error(err))
		}
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) writePump(c *Client, conn *websocket.Conn) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.Send:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
