package service

import "log/slog"

// Server to client event names.
const (
	EventNewNotification = "newnotification"
	EventNewStory        = "newStory"
)

// FeedRoom is joined by every client viewing the global story feed.
const FeedRoom = "feed"

// UserRoom is the private room of one user. All of their connections join it.
func UserRoom(userID string) string { return "user_" + userID }

// StoryRoom is joined by clients viewing one story.
func StoryRoom(storyID string) string { return "story_" + storyID }

// EventPublisher delivers an event to every connection currently in room.
// Delivery is best effort and at most once. Publishing to an empty room is
// a no-op.
type EventPublisher interface {
	Publish(room, event string, payload any)
}

// NopPublisher drops every event. Used when no realtime transport is wired.
type NopPublisher struct{}

func (NopPublisher) Publish(string, string, any) {}

func loggerOrDefault(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.Default()
	}
	return logger
}

func publisherOrNop(p EventPublisher) EventPublisher {
	if p == nil {
		return NopPublisher{}
	}
	return p
}
