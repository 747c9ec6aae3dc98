package dto

import "time"

// Client-side copies of the API payloads the CLI prints.

type Author struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

type Story struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Author      *Author   `json:"author,omitempty"`
	Category    string    `json:"category"`
	Tags        []string  `json:"tags"`
	Status      string    `json:"status"`
	Reads       int64     `json:"reads"`
	LikesCount  int       `json:"likesCount"`
	CreatedAt   time.Time `json:"createdAt"`
}

type StoryPagination struct {
	CurrentPage  int   `json:"currentPage"`
	TotalPages   int   `json:"totalPages"`
	TotalStories int64 `json:"totalStories"`
	HasNext      bool  `json:"hasNext"`
	HasPrev      bool  `json:"hasPrev"`
}

type StoryList struct {
	Data        []Story         `json:"data"`
	Pagination  StoryPagination `json:"pagination"`
	SearchQuery string          `json:"searchQuery,omitempty"`
}

type MustWatchStory struct {
	Story
	CommentsCount   int64   `json:"commentsCount"`
	EngagementScore float64 `json:"engagementScore"`
}

type MustWatchList struct {
	Data []MustWatchStory `json:"data"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
