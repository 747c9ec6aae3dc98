package websocket

import (
	"errors"
	"log/slog"
	"sync"

	"talehub/internal/microservices/http-api/service"
)

// ErrNotRegistered is returned when joining a room with an unknown client.
var ErrNotRegistered = errors.New("client is not registered")

// Hub tracks every live connection and the rooms it joined. It implements
// service.EventPublisher; delivery is fire-and-forget and at-most-once.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]*Client
	rooms   map[string]*room
	logger  *slog.Logger
}

var _ service.EventPublisher = (*Hub)(nil)

func NewHub(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		clients: make(map[string]*Client),
		rooms:   make(map[string]*room),
		logger:  logger.With("component", "ws_hub"),
	}
}

func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[c.ID] = c
	h.logger.Debug("client registered", "client_id", c.ID, "user_id", c.UserID)
}

// Unregister drops the client from every room and closes its send channel.
// Calling it twice is harmless.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c.ID]; !ok {
		return
	}
	for name := range c.rooms {
		h.leaveLocked(c, name)
	}
	delete(h.clients, c.ID)
	close(c.send)
	h.logger.Debug("client unregistered", "client_id", c.ID, "user_id", c.UserID)
}

func (h *Hub) Join(clientID, roomName string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	c, ok := h.clients[clientID]
	if !ok {
		return ErrNotRegistered
	}
	r, ok := h.rooms[roomName]
	if !ok {
		r = newRoom(roomName)
		h.rooms[roomName] = r
	}
	if r.add(c) {
		c.rooms[roomName] = struct{}{}
		h.logger.Debug("client joined room", "client_id", c.ID, "room", roomName)
	}
	return nil
}

func (h *Hub) Leave(clientID, roomName string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if c, ok := h.clients[clientID]; ok {
		h.leaveLocked(c, roomName)
	}
}

func (h *Hub) leaveLocked(c *Client, roomName string) {
	delete(c.rooms, roomName)
	r, ok := h.rooms[roomName]
	if !ok {
		return
	}
	r.remove(c)
	if r.empty() {
		delete(h.rooms, roomName)
	}
}

// RoomSize returns the number of clients currently in roomName.
func (h *Hub) RoomSize(roomName string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if r, ok := h.rooms[roomName]; ok {
		return len(r.clients)
	}
	return 0
}

// ClientCount returns the number of registered connections.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Publish delivers event to every client in roomName without blocking. A
// client whose buffer is full misses the message.
func (h *Hub) Publish(roomName, event string, payload any) {
	frame, err := encode(event, payload)
	if err != nil {
		h.logger.Error("failed to encode event", "room", roomName, "event", event, "error", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	r, ok := h.rooms[roomName]
	if !ok {
		return
	}
	for _, c := range r.clients {
		if !c.enqueue(frame) {
			h.logger.Warn("dropping event for slow client",
				"client_id", c.ID,
				"user_id", c.UserID,
				"room", roomName,
				"event", event,
			)
		}
	}
}

// handle applies one client frame.
func (h *Hub) handle(c *Client, msg inboundMessage) {
	switch msg.Event {
	case EventJoinFeed:
		h.join(c, service.FeedRoom)
	case EventJoinStory:
		id := msg.id()
		if id == "" {
			c.sendError("join-story requires a story id")
			return
		}
		h.join(c, service.StoryRoom(id))
	case EventLeaveStory:
		id := msg.id()
		if id == "" {
			c.sendError("leave-story requires a story id")
			return
		}
		h.Leave(c.ID, service.StoryRoom(id))
	case EventJoinUser:
		id := msg.id()
		if id != "" && id != c.UserID {
			c.sendError("cannot join another user's room")
			return
		}
		h.join(c, service.UserRoom(c.UserID))
	default:
		c.sendError("unknown event " + msg.Event)
	}
}

func (h *Hub) join(c *Client, roomName string) {
	if err := h.Join(c.ID, roomName); err != nil {
		h.logger.Warn("join failed", "client_id", c.ID, "room", roomName, "error", err)
	}
}
