package service

import (
	"context"
	"fmt"
	"log/slog"

	"talehub/internal/microservices/http-api/dto"
	"talehub/internal/microservices/http-api/models"
	"talehub/internal/microservices/http-api/repository"
)

const defaultCommentLimit = 10

type StoryCommentService interface {
	Create(ctx context.Context, actorID, storyID string, req dto.CommentRequest) (*dto.StoryCommentResponse, error)
	List(ctx context.Context, storyID string, page, limit int) (*dto.StoryCommentListResponse, error)
	ToggleLike(ctx context.Context, actorID, commentID string) (*dto.LikeResponse, error)
	Reply(ctx context.Context, actorID, commentID string, req dto.CommentRequest) (*dto.StoryCommentResponse, error)
	Delete(ctx context.Context, actorID, commentID string) error
}

type storyCommentService struct {
	comments repository.StoryCommentRepository
	stories  repository.StoryRepository
	notifier Notifier
	logger   *slog.Logger
}

func NewStoryCommentService(
	comments repository.StoryCommentRepository,
	stories repository.StoryRepository,
	notifier Notifier,
	logger *slog.Logger,
) StoryCommentService {
	return &storyCommentService{
		comments: comments,
		stories:  stories,
		notifier: notifierOrNop(notifier),
		logger:   loggerOrDefault(logger),
	}
}

func (s *storyCommentService) Create(ctx context.Context, actorID, storyID string, req dto.CommentRequest) (*dto.StoryCommentResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	story, err := s.stories.GetByID(ctx, storyID)
	if err != nil {
		return nil, lookupError(err, "story")
	}

	comment := &models.StoryComment{
		StoryID: storyID,
		UserID:  actorID,
		Text:    req.Text,
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}

	if actorID != story.AuthorID {
		s.notifier.Notify(ctx, &models.Notification{
			RecipientID: story.AuthorID,
			SenderID:    actorID,
			Type:        models.NotificationCommentStory,
			StoryID:     &story.ID,
			Message:     fmt.Sprintf("commented on your story %q", story.Title),
		})
	}

	return s.reload(ctx, comment), nil
}

// reload returns the populated comment, or what we have if loading fails.
func (s *storyCommentService) reload(ctx context.Context, comment *models.StoryComment) *dto.StoryCommentResponse {
	if loaded, err := s.comments.GetByID(ctx, comment.ID); err == nil {
		comment = loaded
	} else {
		s.logger.Warn("failed to reload comment", "comment_id", comment.ID, "error", err)
	}
	resp := dto.FromStoryComment(comment)
	return &resp
}

func (s *storyCommentService) List(ctx context.Context, storyID string, page, limit int) (*dto.StoryCommentListResponse, error) {
	page, limit = normalizePaging(page, limit, defaultCommentLimit)
	comments, total, err := s.comments.ListByStory(ctx, storyID, (page-1)*limit, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}

	data := make([]dto.StoryCommentResponse, 0, len(comments))
	for i := range comments {
		data = append(data, dto.FromStoryComment(&comments[i]))
	}
	return &dto.StoryCommentListResponse{
		Data:       data,
		Pagination: dto.NewPagination(page, limit, total),
	}, nil
}

func (s *storyCommentService) ToggleLike(ctx context.Context, actorID, commentID string) (*dto.LikeResponse, error) {
	if _, err := s.comments.GetByID(ctx, commentID); err != nil {
		return nil, lookupError(err, "comment")
	}
	liked, count, err := s.comments.ToggleLike(ctx, commentID, actorID)
	if err != nil {
		return nil, fmt.Errorf("failed to toggle comment like: %w", err)
	}
	return &dto.LikeResponse{Liked: liked, LikesCount: count}, nil
}

func (s *storyCommentService) Reply(ctx context.Context, actorID, commentID string, req dto.CommentRequest) (*dto.StoryCommentResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	comment, err := s.comments.GetByID(ctx, commentID)
	if err != nil {
		return nil, lookupError(err, "comment")
	}

	reply := &models.StoryCommentReply{
		CommentID: commentID,
		UserID:    actorID,
		Text:      req.Text,
	}
	if err := s.comments.AddReply(ctx, reply); err != nil {
		return nil, fmt.Errorf("failed to add reply: %w", err)
	}
	return s.reload(ctx, comment), nil
}

// Delete is allowed for the commenter and for the story's author.
func (s *storyCommentService) Delete(ctx context.Context, actorID, commentID string) error {
	comment, err := s.comments.GetByID(ctx, commentID)
	if err != nil {
		return lookupError(err, "comment")
	}
	if comment.UserID != actorID {
		story, err := s.stories.GetByID(ctx, comment.StoryID)
		if err != nil {
			return lookupError(err, "story")
		}
		if story.AuthorID != actorID {
			return newForbiddenError("you can only delete your own comments")
		}
	}

	if err := s.comments.Delete(ctx, commentID); err != nil {
		return lookupError(err, "comment")
	}
	return nil
}
