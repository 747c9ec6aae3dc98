package service

import (
	"context"
	"fmt"
	"log/slog"

	"talehub/internal/microservices/http-api/dto"
	"talehub/internal/microservices/http-api/models"
	"talehub/internal/microservices/http-api/repository"
)

type UserService interface {
	ToggleFollow(ctx context.Context, actorID, targetID string) (*dto.FollowResponse, error)
	Profile(ctx context.Context, viewerID, userID string) (*dto.UserProfileResponse, error)
	Followers(ctx context.Context, userID string) ([]dto.UserSummary, error)
	Following(ctx context.Context, userID string) ([]dto.UserSummary, error)
}

type userService struct {
	users    repository.UserRepository
	stories  repository.StoryRepository
	notifier Notifier
	logger   *slog.Logger
}

func NewUserService(users repository.UserRepository, stories repository.StoryRepository, notifier Notifier, logger *slog.Logger) UserService {
	return &userService{
		users:    users,
		stories:  stories,
		notifier: notifierOrNop(notifier),
		logger:   loggerOrDefault(logger),
	}
}

// ToggleFollow follows targetID, or unfollows when already following.
func (s *userService) ToggleFollow(ctx context.Context, actorID, targetID string) (*dto.FollowResponse, error) {
	if actorID == targetID {
		return nil, newValidationError("you cannot follow yourself")
	}
	if _, err := s.users.FindByID(ctx, targetID); err != nil {
		return nil, lookupError(err, "user")
	}

	following, err := s.users.ToggleFollow(ctx, actorID, targetID)
	if err != nil {
		return nil, fmt.Errorf("failed to toggle follow: %w", err)
	}

	if following {
		s.notifier.Notify(ctx, &models.Notification{
			RecipientID: targetID,
			SenderID:    actorID,
			Type:        models.NotificationFollow,
			Message:     "started following you",
		})
	}

	count, err := s.users.CountFollowers(ctx, targetID)
	if err != nil {
		return nil, fmt.Errorf("failed to count followers: %w", err)
	}
	return &dto.FollowResponse{Following: following, FollowersCount: count}, nil
}

func (s *userService) Profile(ctx context.Context, viewerID, userID string) (*dto.UserProfileResponse, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, lookupError(err, "user")
	}

	resp := &dto.UserProfileResponse{
		ID:             user.ID,
		Username:       user.Username,
		ProfilePicture: user.ProfilePicture,
		Bio:            user.Bio,
	}
	if resp.FollowersCount, err = s.users.CountFollowers(ctx, userID); err != nil {
		return nil, fmt.Errorf("failed to count followers: %w", err)
	}
	if resp.FollowingCount, err = s.users.CountFollowing(ctx, userID); err != nil {
		return nil, fmt.Errorf("failed to count following: %w", err)
	}
	if resp.StoriesCount, err = s.stories.CountByAuthor(ctx, userID); err != nil {
		return nil, fmt.Errorf("failed to count stories: %w", err)
	}
	if viewerID != "" && viewerID != userID {
		if resp.IsFollowing, err = s.users.IsFollowing(ctx, viewerID, userID); err != nil {
			return nil, fmt.Errorf("failed to check follow: %w", err)
		}
	}
	return resp, nil
}

func (s *userService) Followers(ctx context.Context, userID string) ([]dto.UserSummary, error) {
	if _, err := s.users.FindByID(ctx, userID); err != nil {
		return nil, lookupError(err, "user")
	}
	users, err := s.users.ListFollowers(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list followers: %w", err)
	}
	return dto.FromUserModels(users), nil
}

func (s *userService) Following(ctx context.Context, userID string) ([]dto.UserSummary, error) {
	if _, err := s.users.FindByID(ctx, userID); err != nil {
		return nil, lookupError(err, "user")
	}
	users, err := s.users.ListFollowing(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list following: %w", err)
	}
	return dto.FromUserModels(users), nil
}
