package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type NotificationType string

const (
	NotificationLikeStory      NotificationType = "like_story"
	NotificationLikeChapter    NotificationType = "like_chapter"
	NotificationCommentStory   NotificationType = "comment_story"
	NotificationCommentChapter NotificationType = "comment_chapter"
	NotificationFollow         NotificationType = "follow"
	NotificationNewChapter     NotificationType = "new_chapter"
)

// Notification is immutable once created except for Read.
type Notification struct {
	ID          string           `gorm:"primaryKey;type:uuid" json:"id"`
	RecipientID string           `gorm:"type:uuid;not null;index:idx_notifications_recipient_created,priority:1" json:"recipientId"`
	SenderID    string           `gorm:"type:uuid;not null" json:"senderId"`
	Type        NotificationType `gorm:"not null" json:"type"`
	StoryID     *string          `gorm:"type:uuid" json:"storyId,omitempty"`
	ChapterID   *string          `gorm:"type:uuid" json:"chapterId,omitempty"`
	Message     string           `json:"message"`
	Read        bool             `gorm:"default:false;index" json:"read"`
	CreatedAt   time.Time        `gorm:"index:idx_notifications_recipient_created,priority:2,sort:desc" json:"createdAt"`

	// Associations
	Sender  *User    `gorm:"foreignKey:SenderID" json:"sender,omitempty"`
	Story   *Story   `gorm:"foreignKey:StoryID;constraint:OnDelete:CASCADE;" json:"story,omitempty"`
	Chapter *Chapter `gorm:"foreignKey:ChapterID;constraint:OnDelete:CASCADE;" json:"chapter,omitempty"`
}

func (n *Notification) BeforeCreate(tx *gorm.DB) (err error) {
	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	return
}

func (Notification) TableName() string {
	return "notifications"
}
