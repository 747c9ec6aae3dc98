package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"talehub/internal/microservices/http-api/dto"
	"talehub/internal/microservices/http-api/models"
	"talehub/internal/microservices/http-api/repository"
)

type BookmarkService interface {
	Toggle(ctx context.Context, userID, storyID string) (*dto.BookmarkToggleResponse, error)
	Status(ctx context.Context, userID, storyID string) (*dto.BookmarkToggleResponse, error)
	List(ctx context.Context, userID string) (*dto.BookmarkListResponse, error)
}

type bookmarkService struct {
	bookmarks repository.BookmarkRepository
	stories   repository.StoryRepository
	logger    *slog.Logger
}

func NewBookmarkService(bookmarks repository.BookmarkRepository, stories repository.StoryRepository, logger *slog.Logger) BookmarkService {
	return &bookmarkService{
		bookmarks: bookmarks,
		stories:   stories,
		logger:    loggerOrDefault(logger),
	}
}

func (s *bookmarkService) Toggle(ctx context.Context, userID, storyID string) (*dto.BookmarkToggleResponse, error) {
	if _, err := s.stories.GetByID(ctx, storyID); err != nil {
		return nil, lookupError(err, "story")
	}

	existing, err := s.bookmarks.Find(ctx, userID, storyID)
	switch {
	case err == nil:
		if err := s.bookmarks.Delete(ctx, existing.ID); err != nil {
			return nil, fmt.Errorf("failed to remove bookmark: %w", err)
		}
		return &dto.BookmarkToggleResponse{Bookmarked: false}, nil
	case errors.Is(err, repository.ErrNotFound):
		if err := s.bookmarks.Create(ctx, &models.Bookmark{UserID: userID, StoryID: storyID}); err != nil {
			return nil, fmt.Errorf("failed to add bookmark: %w", err)
		}
		return &dto.BookmarkToggleResponse{Bookmarked: true}, nil
	default:
		return nil, fmt.Errorf("failed to check bookmark: %w", err)
	}
}

func (s *bookmarkService) Status(ctx context.Context, userID, storyID string) (*dto.BookmarkToggleResponse, error) {
	_, err := s.bookmarks.Find(ctx, userID, storyID)
	if errors.Is(err, repository.ErrNotFound) {
		return &dto.BookmarkToggleResponse{Bookmarked: false}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to check bookmark: %w", err)
	}
	return &dto.BookmarkToggleResponse{Bookmarked: true}, nil
}

// List returns the user's bookmarks. Rows whose story no longer resolves are
// purged on the way out.
func (s *bookmarkService) List(ctx context.Context, userID string) (*dto.BookmarkListResponse, error) {
	bookmarks, err := s.bookmarks.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookmarks: %w", err)
	}

	data := make([]dto.BookmarkResponse, 0, len(bookmarks))
	for i := range bookmarks {
		if bookmarks[i].Story == nil {
			if err := s.bookmarks.Delete(ctx, bookmarks[i].ID); err != nil {
				s.logger.Warn("failed to purge orphan bookmark", "bookmark_id", bookmarks[i].ID, "error", err)
			}
			continue
		}
		data = append(data, dto.FromBookmarkModel(&bookmarks[i]))
	}
	return &dto.BookmarkListResponse{Data: data}, nil
}
