package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ReadingProgress is the reading state of one user in one story.
type ReadingProgress struct {
	ID                    string                      `gorm:"primaryKey;type:uuid" json:"id"`
	UserID                string                      `gorm:"type:uuid;not null;uniqueIndex:idx_progress_user_story" json:"userId"`
	StoryID               string                      `gorm:"type:uuid;not null;uniqueIndex:idx_progress_user_story" json:"storyId"`
	LastReadChapterID     *string                     `gorm:"type:uuid" json:"lastReadChapter,omitempty"`
	LastReadChapterNumber int                         `gorm:"default:1" json:"lastReadChapterNumber"`
	ReadingPosition       float64                     `gorm:"default:0" json:"readingPosition"`
	LastReadAt            time.Time                   `gorm:"index" json:"lastReadAt"`
	TotalTimeRead         int                         `gorm:"default:0" json:"totalTimeRead"` // minutes
	ChaptersRead          datatypes.JSONSlice[string] `gorm:"type:jsonb" json:"chaptersRead"`
	CreatedAt             time.Time                   `json:"createdAt"`
	UpdatedAt             time.Time                   `json:"updatedAt"`

	Story *Story `gorm:"foreignKey:StoryID;constraint:OnDelete:CASCADE;" json:"story,omitempty"`
}

func (p *ReadingProgress) BeforeCreate(tx *gorm.DB) (err error) {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	return
}

func (ReadingProgress) TableName() string {
	return "reading_progress"
}

// MarkChapterRead appends chapterID to ChaptersRead unless already present.
func (p *ReadingProgress) MarkChapterRead(chapterID string) bool {
	for _, id := range p.ChaptersRead {
		if id == chapterID {
			return false
		}
	}
	p.ChaptersRead = append(p.ChaptersRead, chapterID)
	return true
}
