package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID             string    `gorm:"primaryKey;type:uuid" json:"id"`
	Username       string    `gorm:"uniqueIndex;not null" json:"username"`
	Email          string    `gorm:"uniqueIndex;not null" json:"email"`
	Password       string    `gorm:"column:password_hash;not null" json:"-"` // Not show in JSON
	ProfilePicture string    `json:"profilePicture"`
	Bio            string    `gorm:"type:text" json:"bio"`
	Role           string    `gorm:"default:'user';not null" json:"role"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// BeforeCreate hook to set UUID before creating a User
func (user *User) BeforeCreate(tx *gorm.DB) (err error) {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	return
}

func (User) TableName() string {
	return "users"
}

// Follow is one edge of the social graph. A single row means
// FollowingID is in Follower's following set and FollowerID is in
// Following's followers set, so both sides always agree.
type Follow struct {
	FollowerID  string    `gorm:"primaryKey;type:uuid" json:"followerId"`
	FollowingID string    `gorm:"primaryKey;type:uuid;index" json:"followingId"`
	CreatedAt   time.Time `json:"createdAt"`

	Follower  *User `gorm:"foreignKey:FollowerID;constraint:OnDelete:CASCADE;" json:"follower,omitempty"`
	Following *User `gorm:"foreignKey:FollowingID;constraint:OnDelete:CASCADE;" json:"following,omitempty"`
}

func (Follow) TableName() string {
	return "follows"
}
