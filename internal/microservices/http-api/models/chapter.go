package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Chapter struct {
	ID            string    `gorm:"primaryKey;type:uuid" json:"id"`
	Title         string    `gorm:"not null" json:"title"`
	Content       string    `gorm:"type:text;not null" json:"content"`
	StoryID       string    `gorm:"type:uuid;not null;index:idx_chapters_story_number,priority:1" json:"storyId"`
	ChapterNumber int       `gorm:"not null;index:idx_chapters_story_number,priority:2" json:"chapterNumber"`
	AuthorID      string    `gorm:"type:uuid;not null" json:"authorId"`
	Notes         string    `gorm:"type:text" json:"notes"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`

	// Associations
	Likes    []ChapterLike    `gorm:"foreignKey:ChapterID;constraint:OnDelete:CASCADE;" json:"-"`
	Comments []ChapterComment `gorm:"foreignKey:ChapterID;constraint:OnDelete:CASCADE;" json:"comments"`
}

func (c *Chapter) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	return
}

func (Chapter) TableName() string {
	return "chapters"
}

func (c *Chapter) LikeIDs() []string {
	ids := make([]string, 0, len(c.Likes))
	for _, l := range c.Likes {
		ids = append(ids, l.UserID)
	}
	return ids
}

type ChapterLike struct {
	ChapterID string    `gorm:"primaryKey;type:uuid" json:"chapterId"`
	UserID    string    `gorm:"primaryKey;type:uuid" json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
}

func (ChapterLike) TableName() string {
	return "chapter_likes"
}

// ChapterComment is an entry of the comment list owned by a chapter.
type ChapterComment struct {
	ID        string    `gorm:"primaryKey;type:uuid" json:"id"`
	ChapterID string    `gorm:"type:uuid;not null;index" json:"-"`
	UserID    string    `gorm:"type:uuid;not null" json:"userId"`
	Text      string    `gorm:"type:text;not null" json:"text"`
	CreatedAt time.Time `json:"createdAt"`

	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (c *ChapterComment) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	return
}

func (ChapterComment) TableName() string {
	return "chapter_comments"
}
