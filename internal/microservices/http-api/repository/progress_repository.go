package repository

import (
	"context"

	"talehub/internal/microservices/http-api/models"

	"gorm.io/gorm"
)

type progressRepository struct {
	db *gorm.DB
}

type ProgressRepository interface {
	Get(ctx context.Context, userID, storyID string) (*models.ReadingProgress, error)
	Create(ctx context.Context, progress *models.ReadingProgress) error
	Save(ctx context.Context, progress *models.ReadingProgress) error
	ListByUser(ctx context.Context, userID string) ([]models.ReadingProgress, error)
}

func NewProgressRepository(db *gorm.DB) ProgressRepository {
	return &progressRepository{db: db}
}

func (r *progressRepository) Get(ctx context.Context, userID, storyID string) (*models.ReadingProgress, error) {
	var progress models.ReadingProgress
	if err := r.db.WithContext(ctx).Where("user_id = ? AND story_id = ?", userID, storyID).First(&progress).Error; err != nil {
		return nil, translate(err)
	}
	return &progress, nil
}

// Create inserts a new record. A concurrent insert for the same (user, story)
// surfaces as ErrDuplicate.
func (r *progressRepository) Create(ctx context.Context, progress *models.ReadingProgress) error {
	return translate(r.db.WithContext(ctx).Omit("Story").Create(progress).Error)
}

func (r *progressRepository) Save(ctx context.Context, progress *models.ReadingProgress) error {
	return translate(r.db.WithContext(ctx).Omit("Story").Save(progress).Error)
}

// ListByUser returns the user's progress, most recently read first.
func (r *progressRepository) ListByUser(ctx context.Context, userID string) ([]models.ReadingProgress, error) {
	var list []models.ReadingProgress
	err := r.db.WithContext(ctx).
		Preload("Story").
		Preload("Story.Author").
		Where("user_id = ?", userID).
		Order("last_read_at DESC").
		Find(&list).Error
	if err != nil {
		return nil, translate(err)
	}
	return list, nil
}
