package dto

import "time"

type Notification struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Message   string    `json:"message"`
	Read      bool      `json:"read"`
	Sender    *Author   `json:"sender,omitempty"`
	StoryID   *string   `json:"storyId,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

type Pagination struct {
	CurrentPage int   `json:"currentPage"`
	TotalPages  int   `json:"totalPages"`
	TotalCount  int64 `json:"totalCount"`
	HasNext     bool  `json:"hasNext"`
	HasPrev     bool  `json:"hasPrev"`
}

type NotificationList struct {
	Data       []Notification `json:"data"`
	Pagination Pagination     `json:"pagination"`
}

type UnreadCount struct {
	Count int64 `json:"count"`
}

// Event is one server push received over the websocket.
type Event struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

// Field reads key from an object payload.
func (e Event) Field(key string) any {
	if m, ok := e.Data.(map[string]any); ok {
		return m[key]
	}
	return nil
}
