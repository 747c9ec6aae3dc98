package repository

import (
	"context"

	"talehub/internal/microservices/http-api/models"

	"gorm.io/gorm"
)

type StoryCommentRepository interface {
	Create(ctx context.Context, comment *models.StoryComment) error
	GetByID(ctx context.Context, id string) (*models.StoryComment, error)
	ListByStory(ctx context.Context, storyID string, offset, limit int) ([]models.StoryComment, int64, error)
	Delete(ctx context.Context, id string) error
	ToggleLike(ctx context.Context, commentID, userID string) (liked bool, count int64, err error)
	AddReply(ctx context.Context, reply *models.StoryCommentReply) error
}

type storyCommentRepository struct {
	db *gorm.DB
}

func NewStoryCommentRepository(db *gorm.DB) StoryCommentRepository {
	return &storyCommentRepository{db: db}
}

// Create a new top-level comment
func (r *storyCommentRepository) Create(ctx context.Context, comment *models.StoryComment) error {
	return translate(r.db.WithContext(ctx).Omit("User", "Story", "Likes", "Replies").Create(comment).Error)
}

// GetByID retrieves a comment with its author, likes and replies
func (r *storyCommentRepository) GetByID(ctx context.Context, id string) (*models.StoryComment, error) {
	var comment models.StoryComment
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Likes").
		Preload("Replies", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Preload("Replies.User").
		First(&comment, "id = ?", id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &comment, nil
}

// ListByStory retrieves the comments of a story, newest first
func (r *storyCommentRepository) ListByStory(ctx context.Context, storyID string, offset, limit int) ([]models.StoryComment, int64, error) {
	var comments []models.StoryComment
	var total int64

	// Count total comments
	if err := r.db.WithContext(ctx).Model(&models.StoryComment{}).Where("story_id = ?", storyID).Count(&total).Error; err != nil {
		return nil, 0, translate(err)
	}

	err := r.db.WithContext(ctx).
		Where("story_id = ?", storyID).
		Preload("User").
		Preload("Likes").
		Preload("Replies", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Preload("Replies.User").
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&comments).Error
	if err != nil {
		return nil, 0, translate(err)
	}

	return comments, total, nil
}

func (r *storyCommentRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Delete(&models.StoryComment{}, "id = ?", id)
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *storyCommentRepository) ToggleLike(ctx context.Context, commentID, userID string) (bool, int64, error) {
	var liked bool
	var count int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("comment_id = ? AND user_id = ?", commentID, userID).Delete(&models.StoryCommentLike{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			if err := insertLike(tx, &models.StoryCommentLike{CommentID: commentID, UserID: userID}).Error; err != nil {
				return err
			}
			liked = true
		}
		return tx.Model(&models.StoryCommentLike{}).Where("comment_id = ?", commentID).Count(&count).Error
	})
	if err != nil {
		return false, 0, translate(err)
	}
	return liked, count, nil
}

func (r *storyCommentRepository) AddReply(ctx context.Context, reply *models.StoryCommentReply) error {
	return translate(r.db.WithContext(ctx).Omit("User").Create(reply).Error)
}
