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

type ChapterService interface {
	Create(ctx context.Context, actorID, storyID string, req dto.CreateChapterRequest) (*dto.ChapterResponse, error)
	Get(ctx context.Context, id string) (*dto.ChapterResponse, error)
	ListByStory(ctx context.Context, storyID string) ([]dto.ChapterResponse, error)
	Update(ctx context.Context, actorID, id string, req dto.UpdateChapterRequest) (*dto.ChapterResponse, error)
	Delete(ctx context.Context, actorID, id string) error
	ToggleLike(ctx context.Context, actorID, chapterID string) (*dto.LikeResponse, error)
	AddComment(ctx context.Context, actorID, chapterID string, req dto.CommentRequest) (*dto.ChapterCommentResponse, error)
}

type chapterService struct {
	chapters repository.ChapterRepository
	stories  repository.StoryRepository
	users    repository.UserRepository
	cache    cache.QueryCache
	notifier Notifier
	logger   *slog.Logger
}

func NewChapterService(
	chapters repository.ChapterRepository,
	stories repository.StoryRepository,
	users repository.UserRepository,
	queryCache cache.QueryCache,
	notifier Notifier,
	logger *slog.Logger,
) ChapterService {
	if queryCache == nil {
		queryCache = cache.Noop{}
	}
	return &chapterService{
		chapters: chapters,
		stories:  stories,
		users:    users,
		cache:    queryCache,
		notifier: notifierOrNop(notifier),
		logger:   loggerOrDefault(logger),
	}
}

// Create appends a chapter to the story and tells every follower of the
// author about it.
func (s *chapterService) Create(ctx context.Context, actorID, storyID string, req dto.CreateChapterRequest) (*dto.ChapterResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	story, err := s.stories.GetByID(ctx, storyID)
	if err != nil {
		return nil, lookupError(err, "story")
	}
	if story.AuthorID != actorID {
		return nil, newForbiddenError("only the author can add chapters")
	}

	count, err := s.chapters.CountByStory(ctx, storyID)
	if err != nil {
		return nil, fmt.Errorf("failed to count chapters: %w", err)
	}

	chapter := &models.Chapter{
		Title:         req.Title,
		Content:       req.Content,
		Notes:         req.Notes,
		StoryID:       storyID,
		AuthorID:      actorID,
		ChapterNumber: int(count) + 1,
	}
	if err := s.chapters.Create(ctx, chapter); err != nil {
		return nil, fmt.Errorf("failed to create chapter: %w", err)
	}
	s.touchStory(ctx, storyID)
	s.cache.InvalidateAll(ctx)

	followers, err := s.users.FollowerIDs(ctx, story.AuthorID)
	if err != nil {
		s.logger.Error("failed to load followers for chapter fan-out", "author_id", story.AuthorID, "error", err)
	}
	for _, followerID := range followers {
		s.notifier.Notify(ctx, &models.Notification{
			RecipientID: followerID,
			SenderID:    actorID,
			Type:        models.NotificationNewChapter,
			StoryID:     &story.ID,
			ChapterID:   &chapter.ID,
			Message:     fmt.Sprintf("published chapter %d of %q", chapter.ChapterNumber, story.Title),
		})
	}

	s.logger.Info("chapter published",
		"story_id", storyID,
		"chapter_id", chapter.ID,
		"chapter_number", chapter.ChapterNumber,
		"followers_notified", len(followers),
	)
	resp := dto.FromChapterModel(chapter)
	return &resp, nil
}

func (s *chapterService) Get(ctx context.Context, id string) (*dto.ChapterResponse, error) {
	chapter, err := s.chapters.GetByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "chapter")
	}
	resp := dto.FromChapterModel(chapter)
	return &resp, nil
}

func (s *chapterService) ListByStory(ctx context.Context, storyID string) ([]dto.ChapterResponse, error) {
	if _, err := s.stories.GetByID(ctx, storyID); err != nil {
		return nil, lookupError(err, "story")
	}
	chapters, err := s.chapters.ListByStory(ctx, storyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list chapters: %w", err)
	}
	return dto.FromChapterModels(chapters), nil
}

func (s *chapterService) authored(ctx context.Context, actorID, id string) (*models.Chapter, error) {
	chapter, err := s.chapters.GetByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "chapter")
	}
	if chapter.AuthorID != actorID {
		return nil, newForbiddenError("only the author can modify this chapter")
	}
	return chapter, nil
}

func (s *chapterService) Update(ctx context.Context, actorID, id string, req dto.UpdateChapterRequest) (*dto.ChapterResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	chapter, err := s.authored(ctx, actorID, id)
	if err != nil {
		return nil, err
	}

	req.ApplyTo(chapter)
	if err := s.chapters.Update(ctx, chapter); err != nil {
		return nil, fmt.Errorf("failed to update chapter: %w", err)
	}
	resp := dto.FromChapterModel(chapter)
	return &resp, nil
}

// Delete removes the chapter and renumbers the rest so numbers stay 1..N.
func (s *chapterService) Delete(ctx context.Context, actorID, id string) error {
	chapter, err := s.authored(ctx, actorID, id)
	if err != nil {
		return err
	}

	if err := s.chapters.Delete(ctx, id); err != nil {
		return lookupError(err, "chapter")
	}

	remaining, err := s.chapters.ListByStory(ctx, chapter.StoryID)
	if err != nil {
		return fmt.Errorf("failed to load chapters for renumbering: %w", err)
	}
	renumbered := 0
	for i := range remaining {
		want := i + 1
		if remaining[i].ChapterNumber == want {
			continue
		}
		if err := s.chapters.UpdateNumber(ctx, remaining[i].ID, want); err != nil {
			return fmt.Errorf("failed to renumber chapter %s: %w", remaining[i].ID, err)
		}
		renumbered++
	}

	s.touchStory(ctx, chapter.StoryID)
	s.cache.InvalidateAll(ctx)
	s.logger.Info("chapter deleted", "story_id", chapter.StoryID, "chapter_id", id, "renumbered", renumbered)
	return nil
}

func (s *chapterService) ToggleLike(ctx context.Context, actorID, chapterID string) (*dto.LikeResponse, error) {
	chapter, err := s.chapters.GetByID(ctx, chapterID)
	if err != nil {
		return nil, lookupError(err, "chapter")
	}

	liked, count, err := s.chapters.ToggleLike(ctx, chapterID, actorID)
	if err != nil {
		return nil, fmt.Errorf("failed to toggle chapter like: %w", err)
	}

	if liked && actorID != chapter.AuthorID {
		s.notifier.Notify(ctx, &models.Notification{
			RecipientID: chapter.AuthorID,
			SenderID:    actorID,
			Type:        models.NotificationLikeChapter,
			StoryID:     &chapter.StoryID,
			ChapterID:   &chapter.ID,
			Message:     fmt.Sprintf("liked your chapter %q", chapter.Title),
		})
	}

	return &dto.LikeResponse{Liked: liked, LikesCount: count}, nil
}

// AddComment does not invalidate the query cache. Chapter comments do not
// feed any cached listing.
func (s *chapterService) AddComment(ctx context.Context, actorID, chapterID string, req dto.CommentRequest) (*dto.ChapterCommentResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	chapter, err := s.chapters.GetByID(ctx, chapterID)
	if err != nil {
		return nil, lookupError(err, "chapter")
	}

	comment := &models.ChapterComment{
		ChapterID: chapterID,
		UserID:    actorID,
		Text:      req.Text,
	}
	if err := s.chapters.AddComment(ctx, comment); err != nil {
		return nil, fmt.Errorf("failed to add chapter comment: %w", err)
	}

	if actorID != chapter.AuthorID {
		s.notifier.Notify(ctx, &models.Notification{
			RecipientID: chapter.AuthorID,
			SenderID:    actorID,
			Type:        models.NotificationCommentChapter,
			StoryID:     &chapter.StoryID,
			ChapterID:   &chapter.ID,
			Message:     fmt.Sprintf("commented on your chapter %q", chapter.Title),
		})
	}

	resp := dto.FromChapterComment(comment)
	return &resp, nil
}

// touchStory bumps the parent's updatedAt, which the trending sort reads.
func (s *chapterService) touchStory(ctx context.Context, storyID string) {
	if err := s.stories.Touch(ctx, storyID); err != nil {
		s.logger.Warn("failed to touch story", "story_id", storyID, "error", err)
	}
}
