package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type StoryStatus string

const (
	StatusOngoing   StoryStatus = "Ongoing"
	StatusCompleted StoryStatus = "Completed"
	StatusHiatus    StoryStatus = "Hiatus"
)

// Valid reports whether s is one of the known statuses.
func (s StoryStatus) Valid() bool {
	switch s {
	case StatusOngoing, StatusCompleted, StatusHiatus:
		return true
	}
	return false
}

type Story struct {
	ID             string                      `gorm:"primaryKey;type:uuid" json:"id"`
	Title          string                      `gorm:"not null" json:"title"`
	Description    string                      `gorm:"type:text;not null" json:"description"`
	AuthorID       string                      `gorm:"type:uuid;not null;index" json:"authorId"`
	Tags           datatypes.JSONSlice[string] `gorm:"type:jsonb" json:"tags"`
	Category       string                      `gorm:"not null;index:idx_stories_published_category,priority:2" json:"category"`
	TargetAudience string                      `json:"targetAudience"`
	Language       string                      `gorm:"default:'English'" json:"language"`
	Status         StoryStatus                 `gorm:"default:'Ongoing';not null" json:"status"`
	IsPublished    bool                        `gorm:"not null;index:idx_stories_published_category,priority:1" json:"isPublished"`
	Reads          int64                       `gorm:"default:0;not null;index" json:"reads"`
	CreatedAt      time.Time                   `gorm:"index" json:"createdAt"`
	UpdatedAt      time.Time                   `json:"updatedAt"`

	// Associations
	Author   *User       `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
	Likes    []StoryLike `gorm:"foreignKey:StoryID;constraint:OnDelete:CASCADE;" json:"-"`
	Chapters []Chapter   `gorm:"foreignKey:StoryID;constraint:OnDelete:CASCADE;" json:"-"`
}

func (s *Story) BeforeCreate(tx *gorm.DB) (err error) {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	return
}

func (Story) TableName() string {
	return "stories"
}

// LikeIDs returns the ids of the users that liked the story.
func (s *Story) LikeIDs() []string {
	ids := make([]string, 0, len(s.Likes))
	for _, l := range s.Likes {
		ids = append(ids, l.UserID)
	}
	return ids
}

// LikedBy reports whether userID is in the likes set.
func (s *Story) LikedBy(userID string) bool {
	for _, l := range s.Likes {
		if l.UserID == userID {
			return true
		}
	}
	return false
}

type StoryLike struct {
	StoryID   string    `gorm:"primaryKey;type:uuid" json:"storyId"`
	UserID    string    `gorm:"primaryKey;type:uuid;index" json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
}

func (StoryLike) TableName() string {
	return "story_likes"
}

// StoryEngagement is a published story together with the counters that feed
// the must-watch ranking. It is not a table.
type StoryEngagement struct {
	Story         Story
	LikesCount    int64
	CommentsCount int64
}
