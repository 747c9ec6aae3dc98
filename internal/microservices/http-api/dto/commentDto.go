package dto

import (
	"time"

	"talehub/internal/microservices/http-api/models"
)

type ReplyResponse struct {
	ID        string       `json:"id"`
	UserID    string       `json:"userId"`
	User      *UserSummary `json:"user,omitempty"`
	Text      string       `json:"text"`
	CreatedAt time.Time    `json:"createdAt"`
}

// StoryCommentResponse for returning a story comment with its replies
type StoryCommentResponse struct {
	ID         string          `json:"id"`
	StoryID    string          `json:"storyId"`
	UserID     string          `json:"userId"`
	User       *UserSummary    `json:"user,omitempty"`
	Text       string          `json:"text"`
	Likes      []string        `json:"likes"`
	LikesCount int             `json:"likesCount"`
	Replies    []ReplyResponse `json:"replies"`
	CreatedAt  time.Time       `json:"createdAt"`
	UpdatedAt  time.Time       `json:"updatedAt"`
}

// FromStoryComment converts a StoryComment model to its response DTO
func FromStoryComment(c *models.StoryComment) StoryCommentResponse {
	likes := c.LikeIDs()
	replies := make([]ReplyResponse, 0, len(c.Replies))
	for _, r := range c.Replies {
		replies = append(replies, ReplyResponse{
			ID:        r.ID,
			UserID:    r.UserID,
			User:      NewUserSummary(r.User),
			Text:      r.Text,
			CreatedAt: r.CreatedAt,
		})
	}
	return StoryCommentResponse{
		ID:         c.ID,
		StoryID:    c.StoryID,
		UserID:     c.UserID,
		User:       NewUserSummary(c.User),
		Text:       c.Text,
		Likes:      likes,
		LikesCount: len(likes),
		Replies:    replies,
		CreatedAt:  c.CreatedAt,
		UpdatedAt:  c.UpdatedAt,
	}
}

// StoryCommentListResponse for returning paginated comments
type StoryCommentListResponse struct {
	Data       []StoryCommentResponse `json:"data"`
	Pagination Pagination             `json:"pagination"`
}
