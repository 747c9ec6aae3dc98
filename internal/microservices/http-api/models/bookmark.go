package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Bookmark has no unique constraint on (user, story); the toggle checks for
// an existing row first.
type Bookmark struct {
	ID        string    `gorm:"primaryKey;type:uuid" json:"id"`
	UserID    string    `gorm:"type:uuid;not null;index:idx_bookmarks_user_story" json:"userId"`
	StoryID   string    `gorm:"type:uuid;not null;index:idx_bookmarks_user_story" json:"storyId"`
	CreatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"createdAt"`

	Story *Story `gorm:"foreignKey:StoryID;constraint:OnDelete:CASCADE;" json:"story,omitempty"`
}

func (b *Bookmark) BeforeCreate(tx *gorm.DB) (err error) {
	if b.ID == "" {
		b.ID = uuid.New().String()
	}
	return
}

func (Bookmark) TableName() string {
	return "bookmarks"
}
