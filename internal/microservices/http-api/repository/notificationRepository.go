package repository

import (
	"context"

	"talehub/internal/microservices/http-api/models"

	"gorm.io/gorm"
)

type NotificationRepository interface {
	Create(ctx context.Context, notification *models.Notification) error
	GetByID(ctx context.Context, id string) (*models.Notification, error)
	ListByRecipient(ctx context.Context, recipientID string, offset, limit int) ([]models.Notification, int64, error)
	CountUnread(ctx context.Context, recipientID string) (int64, error)
	MarkRead(ctx context.Context, id string) error
	MarkAllRead(ctx context.Context, recipientID string) (int64, error)
	Delete(ctx context.Context, id string) error
}

type notificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) Create(ctx context.Context, notification *models.Notification) error {
	return translate(r.db.WithContext(ctx).Omit("Sender", "Story", "Chapter").Create(notification).Error)
}

// populated loads the sender, story and chapter summaries.
func (r *notificationRepository) populated(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Sender").
		Preload("Story", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "title", "author_id")
		}).
		Preload("Chapter", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "title", "chapter_number", "story_id")
		})
}

func (r *notificationRepository) GetByID(ctx context.Context, id string) (*models.Notification, error) {
	var notification models.Notification
	if err := r.populated(ctx).First(&notification, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &notification, nil
}

func (r *notificationRepository) ListByRecipient(ctx context.Context, recipientID string, offset, limit int) ([]models.Notification, int64, error) {
	var notifications []models.Notification
	var total int64

	if err := r.db.WithContext(ctx).Model(&models.Notification{}).Where("recipient_id = ?", recipientID).Count(&total).Error; err != nil {
		return nil, 0, translate(err)
	}

	err := r.populated(ctx).
		Where("recipient_id = ?", recipientID).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&notifications).Error
	if err != nil {
		return nil, 0, translate(err)
	}
	return notifications, total, nil
}

func (r *notificationRepository) CountUnread(ctx context.Context, recipientID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Notification{}).
		Where("recipient_id = ? AND read = ?", recipientID, false).
		Count(&count).Error
	return count, translate(err)
}

func (r *notificationRepository) MarkRead(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Model(&models.Notification{}).Where("id = ?", id).Update("read", true)
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *notificationRepository) MarkAllRead(ctx context.Context, recipientID string) (int64, error) {
	result := r.db.WithContext(ctx).Model(&models.Notification{}).
		Where("recipient_id = ? AND read = ?", recipientID, false).
		Update("read", true)
	return result.RowsAffected, translate(result.Error)
}

func (r *notificationRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Delete(&models.Notification{}, "id = ?", id)
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
