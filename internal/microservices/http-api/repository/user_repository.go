package repository

import (
	"context"

	"talehub/internal/microservices/http-api/models"

	"gorm.io/gorm"
)

// UserRepository covers profiles and the follow graph. Accounts themselves
// are created by the identity service.
type UserRepository interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
	ToggleFollow(ctx context.Context, followerID, followingID string) (following bool, err error)
	IsFollowing(ctx context.Context, followerID, followingID string) (bool, error)
	ListFollowers(ctx context.Context, userID string) ([]models.User, error)
	ListFollowing(ctx context.Context, userID string) ([]models.User, error)
	FollowerIDs(ctx context.Context, userID string) ([]string, error)
	CountFollowers(ctx context.Context, userID string) (int64, error)
	CountFollowing(ctx context.Context, userID string) (int64, error)
}

// userRepository is the GORM implementation of UserRepository.
type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new instance of UserRepository in a GORM implementation
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	// prevent returning a zero-value user struct when nothing matched
	if err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

// ToggleFollow removes the edge if it exists and creates it otherwise. The
// single row serves both the follower's and the followed user's view.
func (r *userRepository) ToggleFollow(ctx context.Context, followerID, followingID string) (bool, error) {
	var following bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("follower_id = ? AND following_id = ?", followerID, followingID).Delete(&models.Follow{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected > 0 {
			return nil
		}
		following = true
		return tx.Omit("Follower", "Following").Create(&models.Follow{FollowerID: followerID, FollowingID: followingID}).Error
	})
	if err != nil {
		return false, translate(err)
	}
	return following, nil
}

func (r *userRepository) IsFollowing(ctx context.Context, followerID, followingID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Follow{}).
		Where("follower_id = ? AND following_id = ?", followerID, followingID).
		Count(&count).Error
	return count > 0, translate(err)
}

func (r *userRepository) ListFollowers(ctx context.Context, userID string) ([]models.User, error) {
	var users []models.User
	err := r.db.WithContext(ctx).
		Joins("JOIN follows ON follows.follower_id = users.id").
		Where("follows.following_id = ?", userID).
		Order("follows.created_at DESC").
		Find(&users).Error
	if err != nil {
		return nil, translate(err)
	}
	return users, nil
}

func (r *userRepository) ListFollowing(ctx context.Context, userID string) ([]models.User, error) {
	var users []models.User
	err := r.db.WithContext(ctx).
		Joins("JOIN follows ON follows.following_id = users.id").
		Where("follows.follower_id = ?", userID).
		Order("follows.created_at DESC").
		Find(&users).Error
	if err != nil {
		return nil, translate(err)
	}
	return users, nil
}

func (r *userRepository) FollowerIDs(ctx context.Context, userID string) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).Model(&models.Follow{}).
		Where("following_id = ?", userID).
		Pluck("follower_id", &ids).Error
	if err != nil {
		return nil, translate(err)
	}
	return ids, nil
}

func (r *userRepository) CountFollowers(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Follow{}).Where("following_id = ?", userID).Count(&count).Error
	return count, translate(err)
}

func (r *userRepository) CountFollowing(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Follow{}).Where("follower_id = ?", userID).Count(&count).Error
	return count, translate(err)
}
