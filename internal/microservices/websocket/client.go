package websocket

import (
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"
)

const ( // ping pong(2-way heartbeat) to keep connection alive
	WriteWait      = 10 * time.Second    // max time to write a message to the peer
	PongWait       = 60 * time.Second    // no pong within this window = dead connection
	PingPeriod     = (PongWait * 9) / 10 // must be shorter than PongWait
	MaxMessageSize = 512                 // maximum inbound frame size

	sendBufferSize = 64

	// inbound frame budget per connection
	frameRate  = 10
	frameBurst = 20
)

// Client is one websocket connection owned by an authenticated user.
type Client struct {
	ID       string
	UserID   string
	Username string

	conn    *websocket.Conn
	send    chan []byte // outbound frames, drained by writePump
	hub     *Hub
	limiter *rate.Limiter
	rooms   map[string]struct{} // guarded by hub.mu
	logger  *slog.Logger
}

func NewClient(hub *Hub, conn *websocket.Conn, userID, username string) *Client {
	id := uuid.NewString()
	return &Client{
		ID:       id,
		UserID:   userID,
		Username: username,
		conn:     conn,
		send:     make(chan []byte, sendBufferSize),
		hub:      hub,
		limiter:  rate.NewLimiter(frameRate, frameBurst),
		rooms:    make(map[string]struct{}),
		logger:   hub.logger.With("client_id", id, "user_id", userID),
	}
}

// enqueue hands frame to the write pump. It reports false when the buffer
// is full. Callers hold the hub read lock, so send is never closed here.
func (c *Client) enqueue(frame []byte) bool {
	select {
	case c.send <- frame:
		return true
	default:
		return false
	}
}

func (c *Client) sendError(msg string) {
	frame, err := encode(EventError, msg)
	if err != nil {
		return
	}
	c.hub.mu.RLock()
	defer c.hub.mu.RUnlock()
	if _, ok := c.hub.clients[c.ID]; ok {
		c.enqueue(frame)
	}
}

// ReadPump reads frames until the connection fails, then unregisters.
func (c *Client) ReadPump() {
	defer func() {
		c.hub.Unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(MaxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(PongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(PongWait))
	})

	for {
		_, frame, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Warn("websocket read failed", "error", err)
			}
			return
		}
		if !c.limiter.Allow() {
			c.sendError("rate limit exceeded")
			continue
		}
		msg, err := decode(frame)
		if err != nil {
			c.sendError(err.Error())
			continue
		}
		c.hub.handle(c, msg)
	}
}

// WritePump drains the send channel and keeps the connection alive with pings.
func (c *Client) WritePump() {
	ticker := time.NewTicker(PingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case frame, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(WriteWait))
			if !ok {
				// hub closed the channel
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				c.logger.Debug("websocket write failed", "error", err)
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(WriteWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
