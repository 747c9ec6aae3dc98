package dto

import (
	"time"

	"talehub/internal/microservices/http-api/models"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

// UpdateProgressRequest records a reading session. TimeSpent is in minutes
// and accumulates into totalTimeRead.
type UpdateProgressRequest struct {
	ChapterID       *string  `json:"chapterId"`
	ChapterNumber   *int     `json:"chapterNumber"`
	ReadingPosition *float64 `json:"readingPosition"`
	TimeSpent       int      `json:"timeSpent"`
}

func (r UpdateProgressRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.ChapterID, validation.NilOrNotEmpty, is.UUID),
		validation.Field(&r.ChapterNumber, validation.Min(1)),
		validation.Field(&r.ReadingPosition, validation.Min(0.0), validation.Max(100.0)),
		validation.Field(&r.TimeSpent, validation.Min(0)),
	)
}

// ProgressResponse is one reading progress record. Story is only set on the
// "continue reading" list.
type ProgressResponse struct {
	ID                    string         `json:"id"`
	UserID                string         `json:"userId"`
	StoryID               string         `json:"storyId"`
	Story                 *StoryResponse `json:"story,omitempty"`
	LastReadChapterID     *string        `json:"lastReadChapter,omitempty"`
	LastReadChapterNumber int            `json:"lastReadChapterNumber"`
	ReadingPosition       float64        `json:"readingPosition"`
	LastReadAt            time.Time      `json:"lastReadAt"`
	TotalTimeRead         int            `json:"totalTimeRead"`
	ChaptersRead          []string       `json:"chaptersRead"`
	CreatedAt             time.Time      `json:"createdAt"`
	UpdatedAt             time.Time      `json:"updatedAt"`
}

func FromProgressModel(p *models.ReadingProgress) ProgressResponse {
	chaptersRead := []string(p.ChaptersRead)
	if chaptersRead == nil {
		chaptersRead = []string{}
	}
	resp := ProgressResponse{
		ID:                    p.ID,
		UserID:                p.UserID,
		StoryID:               p.StoryID,
		LastReadChapterID:     p.LastReadChapterID,
		LastReadChapterNumber: p.LastReadChapterNumber,
		ReadingPosition:       p.ReadingPosition,
		LastReadAt:            p.LastReadAt,
		TotalTimeRead:         p.TotalTimeRead,
		ChaptersRead:          chaptersRead,
		CreatedAt:             p.CreatedAt,
		UpdatedAt:             p.UpdatedAt,
	}
	if p.Story != nil {
		story := FromStoryModel(p.Story)
		resp.Story = &story
	}
	return resp
}

type ProgressListResponse struct {
	Data []ProgressResponse `json:"data"`
}
