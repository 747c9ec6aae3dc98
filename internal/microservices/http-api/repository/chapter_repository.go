package repository

import (
	"context"

	"talehub/internal/microservices/http-api/models"

	"gorm.io/gorm"
)

type ChapterRepository interface {
	Create(ctx context.Context, chapter *models.Chapter) error
	GetByID(ctx context.Context, id string) (*models.Chapter, error)
	ListByStory(ctx context.Context, storyID string) ([]models.Chapter, error)
	CountByStory(ctx context.Context, storyID string) (int64, error)
	Update(ctx context.Context, chapter *models.Chapter) error
	UpdateNumber(ctx context.Context, id string, number int) error
	Delete(ctx context.Context, id string) error
	ToggleLike(ctx context.Context, chapterID, userID string) (liked bool, count int64, err error)
	AddComment(ctx context.Context, comment *models.ChapterComment) error
}

type chapterRepository struct {
	db *gorm.DB
}

func NewChapterRepository(db *gorm.DB) ChapterRepository {
	return &chapterRepository{db: db}
}

func (r *chapterRepository) Create(ctx context.Context, chapter *models.Chapter) error {
	return translate(r.db.WithContext(ctx).Omit("Likes", "Comments").Create(chapter).Error)
}

func (r *chapterRepository) GetByID(ctx context.Context, id string) (*models.Chapter, error) {
	var chapter models.Chapter
	err := r.db.WithContext(ctx).
		Preload("Likes").
		Preload("Comments", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Preload("Comments.User").
		First(&chapter, "id = ?", id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &chapter, nil
}

// ListByStory returns the chapters of a story ordered by chapter number.
func (r *chapterRepository) ListByStory(ctx context.Context, storyID string) ([]models.Chapter, error) {
	var chapters []models.Chapter
	err := r.db.WithContext(ctx).
		Preload("Likes").
		Where("story_id = ?", storyID).
		Order("chapter_number ASC").
		Find(&chapters).Error
	if err != nil {
		return nil, translate(err)
	}
	return chapters, nil
}

func (r *chapterRepository) CountByStory(ctx context.Context, storyID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Chapter{}).Where("story_id = ?", storyID).Count(&count).Error
	return count, translate(err)
}

func (r *chapterRepository) Update(ctx context.Context, chapter *models.Chapter) error {
	return translate(r.db.WithContext(ctx).
		Model(chapter).
		Select("Title", "Content", "Notes", "UpdatedAt").
		Updates(chapter).Error)
}

func (r *chapterRepository) UpdateNumber(ctx context.Context, id string, number int) error {
	return translate(r.db.WithContext(ctx).Model(&models.Chapter{}).
		Where("id = ?", id).
		UpdateColumn("chapter_number", number).Error)
}

func (r *chapterRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Delete(&models.Chapter{}, "id = ?", id)
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *chapterRepository) ToggleLike(ctx context.Context, chapterID, userID string) (bool, int64, error) {
	var liked bool
	var count int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("chapter_id = ? AND user_id = ?", chapterID, userID).Delete(&models.ChapterLike{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			if err := insertLike(tx, &models.ChapterLike{ChapterID: chapterID, UserID: userID}).Error; err != nil {
				return err
			}
			liked = true
		}
		return tx.Model(&models.ChapterLike{}).Where("chapter_id = ?", chapterID).Count(&count).Error
	})
	if err != nil {
		return false, 0, translate(err)
	}
	return liked, count, nil
}

func (r *chapterRepository) AddComment(ctx context.Context, comment *models.ChapterComment) error {
	return translate(r.db.WithContext(ctx).Omit("User").Create(comment).Error)
}
