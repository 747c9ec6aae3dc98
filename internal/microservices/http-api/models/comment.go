package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// StoryComment is a top-level comment on a story. Only these count towards
// the engagement score.
type StoryComment struct {
	ID        string    `gorm:"primaryKey;type:uuid" json:"id"`
	StoryID   string    `gorm:"type:uuid;not null;index" json:"storyId"`
	UserID    string    `gorm:"type:uuid;not null;index" json:"userId"`
	Text      string    `gorm:"type:text;not null" json:"text"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`

	// Associations
	User    *User               `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Story   *Story              `gorm:"foreignKey:StoryID;constraint:OnDelete:CASCADE;" json:"-"`
	Likes   []StoryCommentLike  `gorm:"foreignKey:CommentID;constraint:OnDelete:CASCADE;" json:"-"`
	Replies []StoryCommentReply `gorm:"foreignKey:CommentID;constraint:OnDelete:CASCADE;" json:"replies"`
}

func (c *StoryComment) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	return
}

func (StoryComment) TableName() string {
	return "story_comments"
}

func (c *StoryComment) LikeIDs() []string {
	ids := make([]string, 0, len(c.Likes))
	for _, l := range c.Likes {
		ids = append(ids, l.UserID)
	}
	return ids
}

type StoryCommentLike struct {
	CommentID string    `gorm:"primaryKey;type:uuid" json:"commentId"`
	UserID    string    `gorm:"primaryKey;type:uuid" json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
}

func (StoryCommentLike) TableName() string {
	return "story_comment_likes"
}

type StoryCommentReply struct {
	ID        string    `gorm:"primaryKey;type:uuid" json:"id"`
	CommentID string    `gorm:"type:uuid;not null;index" json:"-"`
	UserID    string    `gorm:"type:uuid;not null" json:"userId"`
	Text      string    `gorm:"type:text;not null" json:"text"`
	CreatedAt time.Time `json:"createdAt"`

	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (r *StoryCommentReply) BeforeCreate(tx *gorm.DB) (err error) {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	return
}

func (StoryCommentReply) TableName() string {
	return "story_comment_replies"
}
