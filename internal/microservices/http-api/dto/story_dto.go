package dto

import (
	"strings"
	"time"

	"talehub/internal/microservices/http-api/models"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

const (
	MaxTitleLength       = 200
	MaxDescriptionLength = 5000
	MaxTags              = 20
)

var storyStatuses = []interface{}{
	string(models.StatusOngoing),
	string(models.StatusCompleted),
	string(models.StatusHiatus),
}

// ChapterInput is one chapter submitted together with a new story.
type ChapterInput struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	Notes   string `json:"notes"`
}

func (c ChapterInput) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Title, validation.Required, validation.Length(1, MaxTitleLength)),
		validation.Field(&c.Content, validation.Required),
	)
}

// CreateStoryRequest. Tags, TargetAudience, Language and Status are optional;
// IsPublished defaults to true.
type CreateStoryRequest struct {
	Title          string         `json:"title"`
	Description    string         `json:"description"`
	Category       string         `json:"category"`
	Tags           []string       `json:"tags"`
	TargetAudience string         `json:"targetAudience"`
	Language       string         `json:"language"`
	Status         string         `json:"status"`
	IsPublished    *bool          `json:"isPublished"`
	Chapters       []ChapterInput `json:"chapters"`
}

func (r CreateStoryRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Required.Error("title is required"), validation.Length(1, MaxTitleLength)),
		validation.Field(&r.Description, validation.Required.Error("description is required"), validation.Length(1, MaxDescriptionLength)),
		validation.Field(&r.Category, validation.Required.Error("category is required")),
		validation.Field(&r.Tags, validation.Length(0, MaxTags)),
		validation.Field(&r.Status, validation.In(storyStatuses...)),
		validation.Field(&r.Chapters, validation.Required.Error("at least one chapter is required")),
	)
}

// ToModel builds the story and its initial chapters. Ids and numbering are
// filled in by the repository.
func (r CreateStoryRequest) ToModel(authorID string) (*models.Story, []models.Chapter) {
	story := &models.Story{
		Title:          strings.TrimSpace(r.Title),
		Description:    r.Description,
		AuthorID:       authorID,
		Tags:           normalizeTags(r.Tags),
		Category:       r.Category,
		TargetAudience: r.TargetAudience,
		Language:       r.Language,
		Status:         models.StoryStatus(r.Status),
		IsPublished:    true,
	}
	if story.Language == "" {
		story.Language = "English"
	}
	if story.Status == "" {
		story.Status = models.StatusOngoing
	}
	if r.IsPublished != nil {
		story.IsPublished = *r.IsPublished
	}

	chapters := make([]models.Chapter, 0, len(r.Chapters))
	for _, c := range r.Chapters {
		chapters = append(chapters, models.Chapter{
			Title:   strings.TrimSpace(c.Title),
			Content: c.Content,
			Notes:   c.Notes,
		})
	}
	return story, chapters
}

// UpdateStoryRequest only touches the fields that are present.
type UpdateStoryRequest struct {
	Title          *string   `json:"title"`
	Description    *string   `json:"description"`
	Category       *string   `json:"category"`
	Tags           *[]string `json:"tags"`
	TargetAudience *string   `json:"targetAudience"`
	Language       *string   `json:"language"`
	Status         *string   `json:"status"`
	IsPublished    *bool     `json:"isPublished"`
}

func (r UpdateStoryRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.NilOrNotEmpty, validation.Length(1, MaxTitleLength)),
		validation.Field(&r.Description, validation.NilOrNotEmpty, validation.Length(1, MaxDescriptionLength)),
		validation.Field(&r.Category, validation.NilOrNotEmpty),
		validation.Field(&r.Status, validation.In(storyStatuses...)),
	)
}

func (r UpdateStoryRequest) ApplyTo(s *models.Story) {
	if r.Title != nil {
		s.Title = strings.TrimSpace(*r.Title)
	}
	if r.Description != nil {
		s.Description = *r.Description
	}
	if r.Category != nil {
		s.Category = *r.Category
	}
	if r.Tags != nil {
		s.Tags = normalizeTags(*r.Tags)
	}
	if r.TargetAudience != nil {
		s.TargetAudience = *r.TargetAudience
	}
	if r.Language != nil {
		s.Language = *r.Language
	}
	if r.Status != nil {
		s.Status = models.StoryStatus(*r.Status)
	}
	if r.IsPublished != nil {
		s.IsPublished = *r.IsPublished
	}
}

func normalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]bool, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" || seen[strings.ToLower(t)] {
			continue
		}
		seen[strings.ToLower(t)] = true
		out = append(out, t)
	}
	return out
}

type UserSummary struct {
	ID             string `json:"id"`
	Username       string `json:"username"`
	ProfilePicture string `json:"profilePicture,omitempty"`
}

func NewUserSummary(u *models.User) *UserSummary {
	if u == nil {
		return nil
	}
	return &UserSummary{ID: u.ID, Username: u.Username, ProfilePicture: u.ProfilePicture}
}

type StoryResponse struct {
	ID             string       `json:"id"`
	Title          string       `json:"title"`
	Description    string       `json:"description"`
	AuthorID       string       `json:"authorId"`
	Author         *UserSummary `json:"author,omitempty"`
	Tags           []string     `json:"tags"`
	Category       string       `json:"category"`
	TargetAudience string       `json:"targetAudience"`
	Language       string       `json:"language"`
	Status         string       `json:"status"`
	IsPublished    bool         `json:"isPublished"`
	Reads          int64        `json:"reads"`
	Likes          []string     `json:"likes"`
	LikesCount     int          `json:"likesCount"`
	CreatedAt      time.Time    `json:"createdAt"`
	UpdatedAt      time.Time    `json:"updatedAt"`
}

func FromStoryModel(s *models.Story) StoryResponse {
	tags := []string(s.Tags)
	if tags == nil {
		tags = []string{}
	}
	likes := s.LikeIDs()
	return StoryResponse{
		ID:             s.ID,
		Title:          s.Title,
		Description:    s.Description,
		AuthorID:       s.AuthorID,
		Author:         NewUserSummary(s.Author),
		Tags:           tags,
		Category:       s.Category,
		TargetAudience: s.TargetAudience,
		Language:       s.Language,
		Status:         string(s.Status),
		IsPublished:    s.IsPublished,
		Reads:          s.Reads,
		Likes:          likes,
		LikesCount:     len(likes),
		CreatedAt:      s.CreatedAt,
		UpdatedAt:      s.UpdatedAt,
	}
}

func FromStoryModels(stories []models.Story) []StoryResponse {
	out := make([]StoryResponse, 0, len(stories))
	for i := range stories {
		out = append(out, FromStoryModel(&stories[i]))
	}
	return out
}

// StoryDetailResponse is a story with its chapter table of contents.
type StoryDetailResponse struct {
	StoryResponse
	Chapters []ChapterSummary `json:"chapters"`
}

func FromStoryDetail(s *models.Story) StoryDetailResponse {
	chapters := make([]ChapterSummary, 0, len(s.Chapters))
	for i := range s.Chapters {
		chapters = append(chapters, FromChapterSummary(&s.Chapters[i]))
	}
	return StoryDetailResponse{StoryResponse: FromStoryModel(s), Chapters: chapters}
}

type StoryListResponse struct {
	Data        []StoryResponse `json:"data"`
	Pagination  StoryPagination `json:"pagination"`
	SearchQuery string          `json:"searchQuery,omitempty"`
}

type MustWatchStory struct {
	StoryResponse
	CommentsCount   int64   `json:"commentsCount"`
	EngagementScore float64 `json:"engagementScore"`
}

type MustWatchResponse struct {
	Data []MustWatchStory `json:"data"`
}

type LikeResponse struct {
	Liked      bool  `json:"liked"`
	LikesCount int64 `json:"likesCount"`
}

type ReadResponse struct {
	Reads int64 `json:"reads"`
}
