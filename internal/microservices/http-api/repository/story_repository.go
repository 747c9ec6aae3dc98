package repository

import (
	"context"
	"time"

	"talehub/internal/microservices/http-api/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type StorySort string

const (
	SortRecent   StorySort = "recent"
	SortPopular  StorySort = "popular"
	SortTrending StorySort = "trending"
)

const likesCountExpr = "(SELECT COUNT(*) FROM story_likes WHERE story_likes.story_id = stories.id)"

// StoryFilter selects a page of published stories.
type StoryFilter struct {
	Category string // empty means every category
	Sort     StorySort
	Offset   int
	Limit    int
}

type StoryRepository interface {
	Create(ctx context.Context, story *models.Story, chapters []models.Chapter) error
	GetByID(ctx context.Context, id string) (*models.Story, error)
	Update(ctx context.Context, story *models.Story) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter StoryFilter) ([]models.Story, int64, error)
	Search(ctx context.Context, q string, offset, limit int) ([]models.Story, int64, error)
	ListByAuthor(ctx context.Context, authorID string, includeUnpublished bool) ([]models.Story, error)
	CountByAuthor(ctx context.Context, authorID string) (int64, error)
	ListEngagement(ctx context.Context) ([]models.StoryEngagement, error)
	IncrementReads(ctx context.Context, id string) (int64, error)
	Touch(ctx context.Context, id string) error
	ToggleLike(ctx context.Context, storyID, userID string) (liked bool, count int64, err error)
}

type storyRepository struct {
	db *gorm.DB
}

func NewStoryRepository(db *gorm.DB) StoryRepository {
	return &storyRepository{db: db}
}

// Create inserts the story and its first chapters in one transaction.
func (r *storyRepository) Create(ctx context.Context, story *models.Story, chapters []models.Chapter) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := insertStory(tx, story).Error; err != nil {
			return err
		}
		for i := range chapters {
			chapters[i].StoryID = story.ID
			chapters[i].AuthorID = story.AuthorID
			chapters[i].ChapterNumber = i + 1
		}
		if len(chapters) > 0 {
			if err := tx.Create(&chapters).Error; err != nil {
				return err
			}
		}
		story.Chapters = chapters
		return nil
	})
	return translate(err)
}

// insertStory writes the story row alone. is_published has no column default
// so a draft is stored as false.
func insertStory(tx *gorm.DB, story *models.Story) *gorm.DB {
	return tx.Omit("Likes", "Chapters", "Author").Create(story)
}

// insertLike adds a like row. A concurrent toggle that already inserted the
// same (target, user) pair wins and this insert becomes a no-op.
func insertLike(tx *gorm.DB, like any) *gorm.DB {
	return tx.Clauses(clause.OnConflict{DoNothing: true}).Create(like)
}

func (r *storyRepository) GetByID(ctx context.Context, id string) (*models.Story, error) {
	var story models.Story
	err := r.db.WithContext(ctx).
		Preload("Author").
		Preload("Likes").
		Preload("Chapters", func(db *gorm.DB) *gorm.DB {
			return db.Order("chapter_number ASC")
		}).
		First(&story, "id = ?", id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &story, nil
}

// Update persists the editable columns only. reads is never written here.
func (r *storyRepository) Update(ctx context.Context, story *models.Story) error {
	return translate(r.db.WithContext(ctx).
		Model(story).
		Select("Title", "Description", "Tags", "Category", "TargetAudience", "Language", "Status", "IsPublished", "UpdatedAt").
		Updates(story).Error)
}

// Delete removes the story. Chapters, likes, comments, bookmarks and progress
// go with it through ON DELETE CASCADE.
func (r *storyRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Delete(&models.Story{}, "id = ?", id)
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *storyRepository) List(ctx context.Context, filter StoryFilter) ([]models.Story, int64, error) {
	var stories []models.Story
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Story{}).Where("is_published = ?", true)
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	// count and find each build their own statement from here
	query = query.Session(&gorm.Session{})

	// Count total stories
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, translate(err)
	}

	switch filter.Sort {
	case SortPopular:
		query = query.Order(likesCountExpr + " DESC").Order("reads DESC").Order("created_at DESC")
	case SortTrending:
		query = query.Order("reads DESC").Order(likesCountExpr + " DESC").Order("updated_at DESC")
	default:
		query = query.Order("created_at DESC")
	}

	err := query.
		Preload("Author").
		Preload("Likes").
		Offset(filter.Offset).
		Limit(filter.Limit).
		Find(&stories).Error
	if err != nil {
		return nil, 0, translate(err)
	}
	return stories, total, nil
}

func (r *storyRepository) Search(ctx context.Context, q string, offset, limit int) ([]models.Story, int64, error) {
	var stories []models.Story
	var total int64

	pattern := likePattern(q)
	query := r.db.WithContext(ctx).Model(&models.Story{}).
		Where("is_published = ?", true).
		Where("title ILIKE ? OR description ILIKE ? OR category ILIKE ? OR tags::text ILIKE ?",
			pattern, pattern, pattern, pattern).
		Session(&gorm.Session{})

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, translate(err)
	}

	err := query.
		Preload("Author").
		Preload("Likes").
		Order("reads DESC").
		Order(likesCountExpr + " DESC").
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&stories).Error
	if err != nil {
		return nil, 0, translate(err)
	}
	return stories, total, nil
}

func (r *storyRepository) ListByAuthor(ctx context.Context, authorID string, includeUnpublished bool) ([]models.Story, error) {
	var stories []models.Story
	query := r.db.WithContext(ctx).Where("author_id = ?", authorID)
	if !includeUnpublished {
		query = query.Where("is_published = ?", true)
	}
	if err := query.Preload("Likes").Order("created_at DESC").Find(&stories).Error; err != nil {
		return nil, translate(err)
	}
	return stories, nil
}

func (r *storyRepository) CountByAuthor(ctx context.Context, authorID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Story{}).
		Where("author_id = ? AND is_published = ?", authorID, true).
		Count(&count).Error
	return count, translate(err)
}

type countRow struct {
	StoryID string
	Count   int64
}

// ListEngagement returns every published story with its like and top-level
// comment counts. Chapter comments are not counted.
func (r *storyRepository) ListEngagement(ctx context.Context) ([]models.StoryEngagement, error) {
	db := r.db.WithContext(ctx)

	var stories []models.Story
	if err := db.Preload("Author").Preload("Likes").Where("is_published = ?", true).Find(&stories).Error; err != nil {
		return nil, translate(err)
	}

	var comments []countRow
	err := db.Model(&models.StoryComment{}).
		Select("story_id, COUNT(*) AS count").
		Group("story_id").
		Scan(&comments).Error
	if err != nil {
		return nil, translate(err)
	}
	commentCounts := make(map[string]int64, len(comments))
	for _, row := range comments {
		commentCounts[row.StoryID] = row.Count
	}

	out := make([]models.StoryEngagement, 0, len(stories))
	for _, s := range stories {
		out = append(out, models.StoryEngagement{
			Story:         s,
			LikesCount:    int64(len(s.Likes)),
			CommentsCount: commentCounts[s.ID],
		})
	}
	return out, nil
}

// IncrementReads bumps the counter atomically and returns the new value.
func (r *storyRepository) IncrementReads(ctx context.Context, id string) (int64, error) {
	var reads int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.Story{}).
			Where("id = ?", id).
			UpdateColumn("reads", gorm.Expr("reads + 1"))
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}
		return tx.Model(&models.Story{}).Select("reads").Where("id = ?", id).Scan(&reads).Error
	})
	if err != nil {
		return 0, translate(err)
	}
	return reads, nil
}

func (r *storyRepository) Touch(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Model(&models.Story{}).
		Where("id = ?", id).
		UpdateColumn("updated_at", time.Now())
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *storyRepository) ToggleLike(ctx context.Context, storyID, userID string) (bool, int64, error) {
	var liked bool
	var count int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("story_id = ? AND user_id = ?", storyID, userID).Delete(&models.StoryLike{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			if err := insertLike(tx, &models.StoryLike{StoryID: storyID, UserID: userID}).Error; err != nil {
				return err
			}
			liked = true
		}
		return tx.Model(&models.StoryLike{}).Where("story_id = ?", storyID).Count(&count).Error
	})
	if err != nil {
		return false, 0, translate(err)
	}
	return liked, count, nil
}
