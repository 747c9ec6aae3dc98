package websocket

import (
	"net/http"

	"talehub/internal/microservices/http-api/middleware"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// NewUpgrader accepts connections from allowedOrigins. "*" allows any
// origin, and requests without an Origin header (non-browser clients) are
// always accepted.
func NewUpgrader(allowedOrigins []string) *websocket.Upgrader {
	allowAll := false
	allowed := make(map[string]struct{}, len(allowedOrigins))
	for _, o := range allowedOrigins {
		if o == "*" {
			allowAll = true
		}
		allowed[o] = struct{}{}
	}
	return &websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			if allowAll || origin == "" {
				return true
			}
			_, ok := allowed[origin]
			return ok
		},
	}
}

// WSHandler upgrades an authenticated request to a websocket connection.
// It must run behind middleware.AuthMiddleware.
func WSHandler(hub *Hub, upgrader *websocket.Upgrader) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := middleware.UserID(c)
		if userID == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
			return
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			// Upgrade has already written the error response
			hub.logger.Warn("websocket upgrade failed", "user_id", userID, "error", err)
			return
		}

		client := NewClient(hub, conn, userID, c.GetString(middleware.UsernameKey))
		hub.Register(client)

		go client.WritePump()
		go client.ReadPump()
	}
}
