package handler_test

import (
	"context"

	"talehub/internal/microservices/http-api/dto"
	"talehub/internal/microservices/http-api/middleware"
	"talehub/internal/microservices/http-api/models"
	"talehub/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
)

// --- MOCK SERVICES ---

type MockFeedService struct {
	mock.Mock
}

func (m *MockFeedService) ListStories(ctx context.Context, q service.ListStoriesQuery) (*dto.StoryListResponse, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.StoryListResponse), args.Error(1)
}

func (m *MockFeedService) SearchStories(ctx context.Context, q service.SearchQuery) (*dto.StoryListResponse, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.StoryListResponse), args.Error(1)
}

func (m *MockFeedService) MustWatch(ctx context.Context, limit int) (*dto.MustWatchResponse, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.MustWatchResponse), args.Error(1)
}

type MockStoryService struct {
	mock.Mock
}

func (m *MockStoryService) Create(ctx context.Context, authorID string, req dto.CreateStoryRequest) (*dto.StoryDetailResponse, error) {
	args := m.Called(ctx, authorID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.StoryDetailResponse), args.Error(1)
}

func (m *MockStoryService) Get(ctx context.Context, id string) (*dto.StoryDetailResponse, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.StoryDetailResponse), args.Error(1)
}

func (m *MockStoryService) Update(ctx context.Context, actorID, id string, req dto.UpdateStoryRequest) (*dto.StoryResponse, error) {
	args := m.Called(ctx, actorID, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.StoryResponse), args.Error(1)
}

func (m *MockStoryService) Delete(ctx context.Context, actorID, id string) error {
	return m.Called(ctx, actorID, id).Error(0)
}

func (m *MockStoryService) ListByAuthor(ctx context.Context, authorID, viewerID string) ([]dto.StoryResponse, error) {
	args := m.Called(ctx, authorID, viewerID)
	return args.Get(0).([]dto.StoryResponse), args.Error(1)
}

func (m *MockStoryService) ToggleLike(ctx context.Context, actorID, storyID string) (*dto.LikeResponse, error) {
	args := m.Called(ctx, actorID, storyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.LikeResponse), args.Error(1)
}

func (m *MockStoryService) IncrementReads(ctx context.Context, storyID string) (*dto.ReadResponse, error) {
	args := m.Called(ctx, storyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ReadResponse), args.Error(1)
}

type MockNotificationService struct {
	mock.Mock
}

func (m *MockNotificationService) Notify(ctx context.Context, n *models.Notification) {
	m.Called(ctx, n)
}

func (m *MockNotificationService) List(ctx context.Context, userID string, page, limit int) (*dto.NotificationListResponse, error) {
	args := m.Called(ctx, userID, page, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.NotificationListResponse), args.Error(1)
}

func (m *MockNotificationService) UnreadCount(ctx context.Context, userID string) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockNotificationService) MarkRead(ctx context.Context, userID, id string) error {
	return m.Called(ctx, userID, id).Error(0)
}

func (m *MockNotificationService) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockNotificationService) Delete(ctx context.Context, userID, id string) error {
	return m.Called(ctx, userID, id).Error(0)
}

type MockBookmarkService struct {
	mock.Mock
}

func (m *MockBookmarkService) Toggle(ctx context.Context, userID, storyID string) (*dto.BookmarkToggleResponse, error) {
	args := m.Called(ctx, userID, storyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.BookmarkToggleResponse), args.Error(1)
}

func (m *MockBookmarkService) Status(ctx context.Context, userID, storyID string) (*dto.BookmarkToggleResponse, error) {
	args := m.Called(ctx, userID, storyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.BookmarkToggleResponse), args.Error(1)
}

func (m *MockBookmarkService) List(ctx context.Context, userID string) (*dto.BookmarkListResponse, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.BookmarkListResponse), args.Error(1)
}

type MockStoryCommentService struct {
	mock.Mock
}

func (m *MockStoryCommentService) Create(ctx context.Context, actorID, storyID string, req dto.CommentRequest) (*dto.StoryCommentResponse, error) {
	args := m.Called(ctx, actorID, storyID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.StoryCommentResponse), args.Error(1)
}

func (m *MockStoryCommentService) List(ctx context.Context, storyID string, page, limit int) (*dto.StoryCommentListResponse, error) {
	args := m.Called(ctx, storyID, page, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.StoryCommentListResponse), args.Error(1)
}

func (m *MockStoryCommentService) ToggleLike(ctx context.Context, actorID, commentID string) (*dto.LikeResponse, error) {
	args := m.Called(ctx, actorID, commentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.LikeResponse), args.Error(1)
}

func (m *MockStoryCommentService) Reply(ctx context.Context, actorID, commentID string, req dto.CommentRequest) (*dto.StoryCommentResponse, error) {
	args := m.Called(ctx, actorID, commentID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.StoryCommentResponse), args.Error(1)
}

func (m *MockStoryCommentService) Delete(ctx context.Context, actorID, commentID string) error {
	return m.Called(ctx, actorID, commentID).Error(0)
}

// --- SETUP ---

// mockAuthMiddleware stands in for OptionalAuth: a non-empty userID makes the
// request authenticated.
func mockAuthMiddleware(userID string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if userID != "" {
			c.Set(middleware.UserIDKey, userID)
			c.Set(middleware.UsernameKey, "testuser")
		}
		c.Next()
	}
}

// newAPI returns an engine and the /api group, authenticated as userID.
func newAPI(userID string) (*gin.Engine, *gin.RouterGroup) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	api := r.Group("/api", mockAuthMiddleware(userID))
	return r, api
}
