package dto

import (
	"strings"
	"time"

	"talehub/internal/microservices/http-api/models"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

const MaxCommentLength = 2000

type CreateChapterRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	Notes   string `json:"notes"`
}

func (r CreateChapterRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Required.Error("title is required"), validation.Length(1, MaxTitleLength)),
		validation.Field(&r.Content, validation.Required.Error("content is required")),
	)
}

type UpdateChapterRequest struct {
	Title   *string `json:"title"`
	Content *string `json:"content"`
	Notes   *string `json:"notes"`
}

func (r UpdateChapterRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.NilOrNotEmpty, validation.Length(1, MaxTitleLength)),
		validation.Field(&r.Content, validation.NilOrNotEmpty),
	)
}

func (r UpdateChapterRequest) ApplyTo(c *models.Chapter) {
	if r.Title != nil {
		c.Title = strings.TrimSpace(*r.Title)
	}
	if r.Content != nil {
		c.Content = *r.Content
	}
	if r.Notes != nil {
		c.Notes = *r.Notes
	}
}

// CommentRequest is the body of every comment and reply endpoint.
type CommentRequest struct {
	Text string `json:"text"`
}

func (r CommentRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Text, validation.Required.Error("text is required"), validation.Length(1, MaxCommentLength)),
	)
}

type ChapterSummary struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	ChapterNumber int       `json:"chapterNumber"`
	CreatedAt     time.Time `json:"createdAt"`
}

func FromChapterSummary(c *models.Chapter) ChapterSummary {
	return ChapterSummary{ID: c.ID, Title: c.Title, ChapterNumber: c.ChapterNumber, CreatedAt: c.CreatedAt}
}

type ChapterCommentResponse struct {
	ID        string       `json:"id"`
	UserID    string       `json:"userId"`
	User      *UserSummary `json:"user,omitempty"`
	Text      string       `json:"text"`
	CreatedAt time.Time    `json:"createdAt"`
}

func FromChapterComment(c *models.ChapterComment) ChapterCommentResponse {
	return ChapterCommentResponse{
		ID:        c.ID,
		UserID:    c.UserID,
		User:      NewUserSummary(c.User),
		Text:      c.Text,
		CreatedAt: c.CreatedAt,
	}
}

type ChapterResponse struct {
	ID            string                   `json:"id"`
	Title         string                   `json:"title"`
	Content       string                   `json:"content"`
	StoryID       string                   `json:"storyId"`
	ChapterNumber int                      `json:"chapterNumber"`
	AuthorID      string                   `json:"authorId"`
	Notes         string                   `json:"notes"`
	Likes         []string                 `json:"likes"`
	LikesCount    int                      `json:"likesCount"`
	Comments      []ChapterCommentResponse `json:"comments"`
	CreatedAt     time.Time                `json:"createdAt"`
	UpdatedAt     time.Time                `json:"updatedAt"`
}

func FromChapterModel(c *models.Chapter) ChapterResponse {
	likes := c.LikeIDs()
	comments := make([]ChapterCommentResponse, 0, len(c.Comments))
	for i := range c.Comments {
		comments = append(comments, FromChapterComment(&c.Comments[i]))
	}
	return ChapterResponse{
		ID:            c.ID,
		Title:         c.Title,
		Content:       c.Content,
		StoryID:       c.StoryID,
		ChapterNumber: c.ChapterNumber,
		AuthorID:      c.AuthorID,
		Notes:         c.Notes,
		Likes:         likes,
		LikesCount:    len(likes),
		Comments:      comments,
		CreatedAt:     c.CreatedAt,
		UpdatedAt:     c.UpdatedAt,
	}
}

func FromChapterModels(chapters []models.Chapter) []ChapterResponse {
	out := make([]ChapterResponse, 0, len(chapters))
	for i := range chapters {
		out = append(out, FromChapterModel(&chapters[i]))
	}
	return out
}
