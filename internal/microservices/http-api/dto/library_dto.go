package dto

import (
	"time"

	"talehub/internal/microservices/http-api/models"
)

type BookmarkToggleResponse struct {
	Bookmarked bool `json:"bookmarked"`
}

type BookmarkResponse struct {
	ID        string        `json:"id"`
	Story     StoryResponse `json:"story"`
	CreatedAt time.Time     `json:"createdAt"`
}

func FromBookmarkModel(b *models.Bookmark) BookmarkResponse {
	resp := BookmarkResponse{ID: b.ID, CreatedAt: b.CreatedAt}
	if b.Story != nil {
		resp.Story = FromStoryModel(b.Story)
	}
	return resp
}

type BookmarkListResponse struct {
	Data []BookmarkResponse `json:"data"`
}
