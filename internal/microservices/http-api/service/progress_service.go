package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"talehub/internal/microservices/http-api/dto"
	"talehub/internal/microservices/http-api/models"
	"talehub/internal/microservices/http-api/repository"
)

type ProgressService interface {
	Update(ctx context.Context, userID, storyID string, req dto.UpdateProgressRequest) (*dto.ProgressResponse, error)
	Get(ctx context.Context, userID, storyID string) (*dto.ProgressResponse, error)
	List(ctx context.Context, userID string) (*dto.ProgressListResponse, error)
}

type progressService struct {
	progress repository.ProgressRepository
	stories  repository.StoryRepository
	chapters repository.ChapterRepository
	now      func() time.Time
	logger   *slog.Logger
}

func NewProgressService(
	progress repository.ProgressRepository,
	stories repository.StoryRepository,
	chapters repository.ChapterRepository,
	logger *slog.Logger,
) ProgressService {
	return &progressService{
		progress: progress,
		stories:  stories,
		chapters: chapters,
		now:      time.Now,
		logger:   loggerOrDefault(logger),
	}
}

// Update upserts the (user, story) record. A concurrent first insert loses
// the unique index race and is retried as an update.
func (s *progressService) Update(ctx context.Context, userID, storyID string, req dto.UpdateProgressRequest) (*dto.ProgressResponse, error) {
	p, err := s.upsert(ctx, userID, storyID, req)
	if err != nil {
		return nil, err
	}
	resp := dto.FromProgressModel(p)
	return &resp, nil
}

func (s *progressService) upsert(ctx context.Context, userID, storyID string, req dto.UpdateProgressRequest) (*models.ReadingProgress, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	if _, err := s.stories.GetByID(ctx, storyID); err != nil {
		return nil, lookupError(err, "story")
	}

	chapterNumber := req.ChapterNumber
	if req.ChapterID != nil {
		chapter, err := s.chapters.GetByID(ctx, *req.ChapterID)
		if err != nil {
			return nil, lookupError(err, "chapter")
		}
		if chapter.StoryID != storyID {
			return nil, newValidationError("chapter does not belong to this story")
		}
		chapterNumber = &chapter.ChapterNumber
	}

	existing, err := s.progress.Get(ctx, userID, storyID)
	switch {
	case err == nil:
		s.apply(existing, req.ChapterID, chapterNumber, req)
		if err := s.progress.Save(ctx, existing); err != nil {
			return nil, fmt.Errorf("failed to save progress: %w", err)
		}
		return existing, nil
	case !errors.Is(err, repository.ErrNotFound):
		return nil, fmt.Errorf("failed to load progress: %w", err)
	}

	created := &models.ReadingProgress{UserID: userID, StoryID: storyID, LastReadChapterNumber: 1}
	s.apply(created, req.ChapterID, chapterNumber, req)
	err = s.progress.Create(ctx, created)
	if err == nil {
		return created, nil
	}
	if !errors.Is(err, repository.ErrDuplicate) {
		return nil, fmt.Errorf("failed to create progress: %w", err)
	}

	s.logger.Debug("progress insert raced, retrying as update", "user_id", userID, "story_id", storyID)
	existing, err = s.progress.Get(ctx, userID, storyID)
	if err != nil {
		return nil, fmt.Errorf("failed to load progress: %w", err)
	}
	s.apply(existing, req.ChapterID, chapterNumber, req)
	if err := s.progress.Save(ctx, existing); err != nil {
		return nil, fmt.Errorf("failed to save progress: %w", err)
	}
	return existing, nil
}

func (s *progressService) apply(p *models.ReadingProgress, chapterID *string, chapterNumber *int, req dto.UpdateProgressRequest) {
	if chapterID != nil {
		p.LastReadChapterID = chapterID
		p.MarkChapterRead(*chapterID)
	}
	if chapterNumber != nil {
		p.LastReadChapterNumber = *chapterNumber
	}
	if req.ReadingPosition != nil {
		p.ReadingPosition = *req.ReadingPosition
	}
	p.TotalTimeRead += req.TimeSpent
	p.LastReadAt = s.now()
	if p.ChaptersRead == nil {
		p.ChaptersRead = []string{}
	}
}

func (s *progressService) Get(ctx context.Context, userID, storyID string) (*dto.ProgressResponse, error) {
	p, err := s.progress.Get(ctx, userID, storyID)
	if err != nil {
		return nil, lookupError(err, "reading progress")
	}
	resp := dto.FromProgressModel(p)
	return &resp, nil
}

// List is the "continue reading" shelf, most recent first.
func (s *progressService) List(ctx context.Context, userID string) (*dto.ProgressListResponse, error) {
	list, err := s.progress.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list progress: %w", err)
	}
	data := make([]dto.ProgressResponse, 0, len(list))
	for i := range list {
		data = append(data, dto.FromProgressModel(&list[i]))
	}
	return &dto.ProgressListResponse{Data: data}, nil
}
