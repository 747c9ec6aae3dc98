package repository

import (
	"context"

	"talehub/internal/microservices/http-api/models"

	"gorm.io/gorm"
)

type BookmarkRepository interface {
	Find(ctx context.Context, userID, storyID string) (*models.Bookmark, error)
	Create(ctx context.Context, bookmark *models.Bookmark) error
	Delete(ctx context.Context, id string) error
	ListByUser(ctx context.Context, userID string) ([]models.Bookmark, error)
}

type bookmarkRepository struct {
	db *gorm.DB
}

func NewBookmarkRepository(db *gorm.DB) BookmarkRepository {
	return &bookmarkRepository{db: db}
}

func (r *bookmarkRepository) Find(ctx context.Context, userID, storyID string) (*models.Bookmark, error) {
	var bookmark models.Bookmark
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND story_id = ?", userID, storyID).
		First(&bookmark).Error
	if err != nil {
		return nil, translate(err)
	}
	return &bookmark, nil
}

func (r *bookmarkRepository) Create(ctx context.Context, bookmark *models.Bookmark) error {
	return translate(r.db.WithContext(ctx).Omit("Story").Create(bookmark).Error)
}

func (r *bookmarkRepository) Delete(ctx context.Context, id string) error {
	return translate(r.db.WithContext(ctx).Delete(&models.Bookmark{}, "id = ?", id).Error)
}

// ListByUser returns the user's bookmarks with their stories, newest first.
func (r *bookmarkRepository) ListByUser(ctx context.Context, userID string) ([]models.Bookmark, error) {
	var bookmarks []models.Bookmark
	err := r.db.WithContext(ctx).
		Preload("Story").
		Preload("Story.Author").
		Preload("Story.Likes").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&bookmarks).Error
	if err != nil {
		return nil, translate(err)
	}
	return bookmarks, nil
}
