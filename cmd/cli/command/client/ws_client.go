package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"talehub/cmd/cli/dto"

	"github.com/gorilla/websocket"
)

// ws_client.go = handles the realtime event stream for the talehub CLI.

// WebsocketURL turns the API base URL into the /ws endpoint.
func WebsocketURL(apiURL string) (string, error) {
	u, err := url.Parse(strings.TrimRight(apiURL, "/"))
	if err != nil {
		return "", fmt.Errorf("invalid api url: %w", err)
	}
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	case "http", "":
		u.Scheme = "ws"
	}
	u.Path += "/ws"
	return u.String(), nil
}

// Watch joins the caller's private room and the feed, then calls onEvent for
// every server push until ctx is done or the connection drops.
func Watch(ctx context.Context, apiURL, token string, onEvent func(dto.Event)) error {
	wsURL, err := WebsocketURL(apiURL)
	if err != nil {
		return err
	}

	header := http.Header{}
	header.Add("Authorization", "Bearer "+token)

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, wsURL, header)
	if err != nil {
		return fmt.Errorf("connection failed: %w", err)
	}
	defer conn.Close()

	for _, event := range []string{"join-user", "join-feed"} {
		if err := conn.WriteJSON(map[string]string{"event": event}); err != nil {
			return err
		}
	}

	// unblock ReadJSON on cancel
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			_ = conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			conn.Close()
		case <-done:
		}
	}()

	for {
		var ev dto.Event
		if err := conn.ReadJSON(&ev); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("read failed: %w", err)
		}
		onEvent(ev)
	}
}
