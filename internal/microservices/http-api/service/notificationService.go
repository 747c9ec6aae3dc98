package service

import (
	"context"
	"fmt"
	"log/slog"

	"talehub/internal/microservices/http-api/dto"
	"talehub/internal/microservices/http-api/models"
	"talehub/internal/microservices/http-api/repository"
)

const defaultNotificationLimit = 20

// Notifier persists a notification and pushes it to the recipient's room.
// Failures are logged and never returned: the caller's primary write has
// already succeeded.
type Notifier interface {
	Notify(ctx context.Context, notification *models.Notification)
}

type nopNotifier struct{}

func (nopNotifier) Notify(context.Context, *models.Notification) {}

func notifierOrNop(n Notifier) Notifier {
	if n == nil {
		return nopNotifier{}
	}
	return n
}

type NotificationService interface {
	Notifier
	List(ctx context.Context, userID string, page, limit int) (*dto.NotificationListResponse, error)
	UnreadCount(ctx context.Context, userID string) (int64, error)
	MarkRead(ctx context.Context, userID, id string) error
	MarkAllRead(ctx context.Context, userID string) (int64, error)
	Delete(ctx context.Context, userID, id string) error
}

type notificationService struct {
	repo      repository.NotificationRepository
	publisher EventPublisher
	logger    *slog.Logger
}

func NewNotificationService(repo repository.NotificationRepository, publisher EventPublisher, logger *slog.Logger) NotificationService {
	return &notificationService{
		repo:      repo,
		publisher: publisherOrNop(publisher),
		logger:    loggerOrDefault(logger),
	}
}

// Notify runs persist then publish. Nobody is notified about their own actions.
func (s *notificationService) Notify(ctx context.Context, n *models.Notification) {
	if n.RecipientID == "" || n.RecipientID == n.SenderID {
		return
	}

	if err := s.repo.Create(ctx, n); err != nil {
		s.logger.Error("failed to create notification",
			"type", n.Type,
			"recipient_id", n.RecipientID,
			"sender_id", n.SenderID,
			"error", err,
		)
		return
	}

	payload := n
	populated, err := s.repo.GetByID(ctx, n.ID)
	if err != nil {
		s.logger.Warn("publishing unpopulated notification", "notification_id", n.ID, "error", err)
	} else {
		payload = populated
	}

	s.publisher.Publish(UserRoom(n.RecipientID), EventNewNotification, dto.FromNotificationModel(payload))
}

func (s *notificationService) List(ctx context.Context, userID string, page, limit int) (*dto.NotificationListResponse, error) {
	page, limit = normalizePaging(page, limit, defaultNotificationLimit)
	list, total, err := s.repo.ListByRecipient(ctx, userID, (page-1)*limit, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	return &dto.NotificationListResponse{
		Data:       dto.FromNotificationModels(list),
		Pagination: dto.NewPagination(page, limit, total),
	}, nil
}

func (s *notificationService) UnreadCount(ctx context.Context, userID string) (int64, error) {
	count, err := s.repo.CountUnread(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to count notifications: %w", err)
	}
	return count, nil
}

// owned loads the notification and checks it belongs to userID.
func (s *notificationService) owned(ctx context.Context, userID, id string) (*models.Notification, error) {
	n, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "notification")
	}
	if n.RecipientID != userID {
		return nil, newForbiddenError("not your notification")
	}
	return n, nil
}

func (s *notificationService) MarkRead(ctx context.Context, userID, id string) error {
	if _, err := s.owned(ctx, userID, id); err != nil {
		return err
	}
	if err := s.repo.MarkRead(ctx, id); err != nil {
		return lookupError(err, "notification")
	}
	return nil
}

func (s *notificationService) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	updated, err := s.repo.MarkAllRead(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to mark notifications read: %w", err)
	}
	return updated, nil
}

func (s *notificationService) Delete(ctx context.Context, userID, id string) error {
	if _, err := s.owned(ctx, userID, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return lookupError(err, "notification")
	}
	return nil
}
