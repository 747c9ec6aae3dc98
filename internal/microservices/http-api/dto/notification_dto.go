package dto

import (
	"time"

	"talehub/internal/microservices/http-api/models"
)

// NotificationStory is the story summary carried by a notification.
type NotificationStory struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

type NotificationChapter struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	ChapterNumber int    `json:"chapterNumber"`
}

// NotificationResponse is what the recipient sees, over HTTP and over the
// socket. The sender is reduced to a public summary.
type NotificationResponse struct {
	ID          string               `json:"id"`
	RecipientID string               `json:"recipientId"`
	SenderID    string               `json:"senderId"`
	Sender      *UserSummary         `json:"sender,omitempty"`
	Type        string               `json:"type"`
	StoryID     *string              `json:"storyId,omitempty"`
	Story       *NotificationStory   `json:"story,omitempty"`
	ChapterID   *string              `json:"chapterId,omitempty"`
	Chapter     *NotificationChapter `json:"chapter,omitempty"`
	Message     string               `json:"message"`
	Read        bool                 `json:"read"`
	CreatedAt   time.Time            `json:"createdAt"`
}

func FromNotificationModel(n *models.Notification) NotificationResponse {
	resp := NotificationResponse{
		ID:          n.ID,
		RecipientID: n.RecipientID,
		SenderID:    n.SenderID,
		Sender:      NewUserSummary(n.Sender),
		Type:        string(n.Type),
		StoryID:     n.StoryID,
		ChapterID:   n.ChapterID,
		Message:     n.Message,
		Read:        n.Read,
		CreatedAt:   n.CreatedAt,
	}
	if n.Story != nil {
		resp.Story = &NotificationStory{ID: n.Story.ID, Title: n.Story.Title}
	}
	if n.Chapter != nil {
		resp.Chapter = &NotificationChapter{ID: n.Chapter.ID, Title: n.Chapter.Title, ChapterNumber: n.Chapter.ChapterNumber}
	}
	return resp
}

func FromNotificationModels(list []models.Notification) []NotificationResponse {
	out := make([]NotificationResponse, 0, len(list))
	for i := range list {
		out = append(out, FromNotificationModel(&list[i]))
	}
	return out
}

type NotificationListResponse struct {
	Data       []NotificationResponse `json:"data"`
	Pagination Pagination             `json:"pagination"`
}

type UnreadCountResponse struct {
	Count int64 `json:"count"`
}
