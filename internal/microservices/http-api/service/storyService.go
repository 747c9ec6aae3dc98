package service

import (
	"context"
	"fmt"
	"log/slog"

	"talehub/internal/cache"
	"talehub/internal/microservices/http-api/dto"
	"talehub/internal/microservices/http-api/models"
	"talehub/internal/microservices/http-api/repository"
)

type StoryService interface {
	Create(ctx context.Context, authorID string, req dto.CreateStoryRequest) (*dto.StoryDetailResponse, error)
	Get(ctx context.Context, id string) (*dto.StoryDetailResponse, error)
	Update(ctx context.Context, actorID, id string, req dto.UpdateStoryRequest) (*dto.StoryResponse, error)
	Delete(ctx context.Context, actorID, id string) error
	ListByAuthor(ctx context.Context, authorID, viewerID string) ([]dto.StoryResponse, error)
	ToggleLike(ctx context.Context, actorID, storyID string) (*dto.LikeResponse, error)
	IncrementReads(ctx context.Context, storyID string) (*dto.ReadResponse, error)
}

type storyService struct {
	stories   repository.StoryRepository
	cache     cache.QueryCache
	notifier  Notifier
	publisher EventPublisher
	logger    *slog.Logger
}

func NewStoryService(
	stories repository.StoryRepository,
	queryCache cache.QueryCache,
	notifier Notifier,
	publisher EventPublisher,
	logger *slog.Logger,
) StoryService {
	if queryCache == nil {
		queryCache = cache.Noop{}
	}
	return &storyService{
		stories:   stories,
		cache:     queryCache,
		notifier:  notifierOrNop(notifier),
		publisher: publisherOrNop(publisher),
		logger:    loggerOrDefault(logger),
	}
}

func (s *storyService) Create(ctx context.Context, authorID string, req dto.CreateStoryRequest) (*dto.StoryDetailResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	story, chapters := req.ToModel(authorID)
	if err := s.stories.Create(ctx, story, chapters); err != nil {
		return nil, fmt.Errorf("failed to create story: %w", err)
	}
	s.cache.InvalidateAll(ctx)

	// reload for the author summary, fall back to what we wrote
	if loaded, err := s.stories.GetByID(ctx, story.ID); err == nil {
		story = loaded
	} else {
		s.logger.Warn("failed to reload created story", "story_id", story.ID, "error", err)
	}

	if story.IsPublished {
		s.publisher.Publish(FeedRoom, EventNewStory, dto.FromStoryModel(story))
	}

	s.logger.Info("story created", "story_id", story.ID, "author_id", authorID, "chapters", len(chapters))
	resp := dto.FromStoryDetail(story)
	return &resp, nil
}

func (s *storyService) Get(ctx context.Context, id string) (*dto.StoryDetailResponse, error) {
	story, err := s.stories.GetByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "story")
	}
	resp := dto.FromStoryDetail(story)
	return &resp, nil
}

// authored loads the story and checks actorID wrote it.
func (s *storyService) authored(ctx context.Context, actorID, id string) (*models.Story, error) {
	story, err := s.stories.GetByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "story")
	}
	if story.AuthorID != actorID {
		return nil, newForbiddenError("only the author can modify this story")
	}
	return story, nil
}

func (s *storyService) Update(ctx context.Context, actorID, id string, req dto.UpdateStoryRequest) (*dto.StoryResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	story, err := s.authored(ctx, actorID, id)
	if err != nil {
		return nil, err
	}

	req.ApplyTo(story)
	if err := s.stories.Update(ctx, story); err != nil {
		return nil, fmt.Errorf("failed to update story: %w", err)
	}
	s.cache.InvalidateAll(ctx)

	resp := dto.FromStoryModel(story)
	return &resp, nil
}

func (s *storyService) Delete(ctx context.Context, actorID, id string) error {
	if _, err := s.authored(ctx, actorID, id); err != nil {
		return err
	}
	if err := s.stories.Delete(ctx, id); err != nil {
		return lookupError(err, "story")
	}
	s.cache.InvalidateAll(ctx)
	s.logger.Info("story deleted", "story_id", id, "author_id", actorID)
	return nil
}

// ListByAuthor shows drafts only to the author themself.
func (s *storyService) ListByAuthor(ctx context.Context, authorID, viewerID string) ([]dto.StoryResponse, error) {
	stories, err := s.stories.ListByAuthor(ctx, authorID, authorID == viewerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list stories by author: %w", err)
	}
	return dto.FromStoryModels(stories), nil
}

func (s *storyService) ToggleLike(ctx context.Context, actorID, storyID string) (*dto.LikeResponse, error) {
	story, err := s.stories.GetByID(ctx, storyID)
	if err != nil {
		return nil, lookupError(err, "story")
	}

	liked, count, err := s.stories.ToggleLike(ctx, storyID, actorID)
	if err != nil {
		return nil, fmt.Errorf("failed to toggle story like: %w", err)
	}
	s.cache.InvalidateAll(ctx)

	if liked && actorID != story.AuthorID {
		s.notifier.Notify(ctx, &models.Notification{
			RecipientID: story.AuthorID,
			SenderID:    actorID,
			Type:        models.NotificationLikeStory,
			StoryID:     &story.ID,
			Message:     fmt.Sprintf("liked your story %q", story.Title),
		})
	}

	return &dto.LikeResponse{Liked: liked, LikesCount: count}, nil
}

func (s *storyService) IncrementReads(ctx context.Context, storyID string) (*dto.ReadResponse, error) {
	reads, err := s.stories.IncrementReads(ctx, storyID)
	if err != nil {
		return nil, lookupError(err, "story")
	}
	s.cache.InvalidateAll(ctx)
	return &dto.ReadResponse{Reads: reads}, nil
}
