package websocket

import (
	"encoding/json"
	"fmt"
)

// Events a client may send.
const (
	EventJoinFeed   = "join-feed"
	EventJoinStory  = "join-story"
	EventLeaveStory = "leave-story"
	EventJoinUser   = "join-user"
)

// EventError is sent back when a client frame is rejected.
const EventError = "error"

// Message is one JSON text frame in either direction. Inbound frames carry a
// room id string in Data; outbound frames carry the event payload.
type Message struct {
	Event string `json:"event"`
	Data  any    `json:"data,omitempty"`
}

type inboundMessage struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// id returns Data as a string, accepting either a JSON string or a bare number.
func (m inboundMessage) id() string {
	if len(m.Data) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(m.Data, &s); err == nil {
		return s
	}
	var n json.Number
	if err := json.Unmarshal(m.Data, &n); err == nil {
		return n.String()
	}
	return ""
}

func encode(event string, data any) ([]byte, error) {
	payload, err := json.Marshal(Message{Event: event, Data: data})
	if err != nil {
		return nil, fmt.Errorf("encode %s event: %w", event, err)
	}
	return payload, nil
}

func decode(frame []byte) (inboundMessage, error) {
	var msg inboundMessage
	if err := json.Unmarshal(frame, &msg); err != nil {
		return msg, fmt.Errorf("malformed frame: %w", err)
	}
	if msg.Event == "" {
		return msg, fmt.Errorf("frame has no event")
	}
	return msg, nil
}
