package handler_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"talehub/internal/microservices/http-api/dto"
	"talehub/internal/microservices/http-api/handler"
	"talehub/internal/microservices/http-api/middleware"
	"talehub/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func setupStoryRouter(userID string) (*gin.Engine, *MockFeedService, *MockStoryService) {
	feed := new(MockFeedService)
	stories := new(MockStoryService)
	r, api := newAPI(userID)
	handler.NewStoryHandler(feed, stories).RegisterRoutes(api, middleware.RequireAuth())
	return r, feed, stories
}

func perform(r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestStoryHandler_ListEnvelope(t *testing.T) {
	r, feed, _ := setupStoryRouter("")

	feed.On("ListStories", mock.Anything, service.ListStoriesQuery{Page: 2, Limit: 5, Category: "Fantasy", Sort: "popular"}).
		Return(&dto.StoryListResponse{
			Data:       []dto.StoryResponse{{ID: "s1", Title: "Saga", Likes: []string{}, Tags: []string{}}},
			Pagination: dto.NewStoryPagination(2, 5, 11),
		}, nil)

	w := perform(r, http.MethodGet, "/api/stories?page=2&limit=5&category=Fantasy&sort=popular", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Len(t, body["data"], 1)
	pagination := body["pagination"].(map[string]any)
	assert.Equal(t, float64(2), pagination["currentPage"])
	assert.Equal(t, float64(3), pagination["totalPages"])
	assert.Equal(t, float64(11), pagination["totalStories"])
	assert.Equal(t, true, pagination["hasNext"])
	assert.Equal(t, true, pagination["hasPrev"])
	feed.AssertExpectations(t)
}

func TestStoryHandler_ListMalformedQueryFallsBack(t *testing.T) {
	r, feed, _ := setupStoryRouter("")

	feed.On("ListStories", mock.Anything, service.ListStoriesQuery{Page: 0, Limit: 0}).
		Return(&dto.StoryListResponse{Data: []dto.StoryResponse{}}, nil)

	w := perform(r, http.MethodGet, "/api/stories?page=abc&limit=lots", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	feed.AssertExpectations(t)
}

func TestStoryHandler_Search(t *testing.T) {
	r, feed, _ := setupStoryRouter("")

	feed.On("SearchStories", mock.Anything, service.SearchQuery{Q: "d"}).
		Return(nil, &service.ValidationError{Message: "search query must be at least 2 characters"})
	feed.On("SearchStories", mock.Anything, service.SearchQuery{Q: "dragon", Page: 1}).
		Return(&dto.StoryListResponse{Data: []dto.StoryResponse{}, SearchQuery: "dragon"}, nil)

	w := perform(r, http.MethodGet, "/api/stories/search?q=d", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "at least 2 characters")

	w = perform(r, http.MethodGet, "/api/stories/search?q=dragon&page=1", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"searchQuery":"dragon"`)
}

func TestStoryHandler_MustWatch(t *testing.T) {
	r, feed, _ := setupStoryRouter("")

	feed.On("MustWatch", mock.Anything, 3).Return(&dto.MustWatchResponse{Data: []dto.MustWatchStory{
		{StoryResponse: dto.StoryResponse{ID: "b"}, EngagementScore: 42},
	}}, nil)

	w := perform(r, http.MethodGet, "/api/stories/must-watch?limit=3", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"engagementScore":42`)
}

func TestStoryHandler_GetErrors(t *testing.T) {
	r, _, stories := setupStoryRouter("")

	stories.On("Get", mock.Anything, "missing").Return(nil, &service.NotFoundError{Message: "story not found"})
	stories.On("Get", mock.Anything, "broken").Return(nil, errors.New("pq: connection refused"))

	w := perform(r, http.MethodGet, "/api/stories/missing", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"story not found"}`, w.Body.String())

	w = perform(r, http.MethodGet, "/api/stories/broken", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "connection refused", "internal details stay in the log")
}

func TestStoryHandler_WriteRoutesRequireAuth(t *testing.T) {
	r, _, stories := setupStoryRouter("")

	for _, tc := range []struct{ method, path string }{
		{http.MethodPost, "/api/stories"},
		{http.MethodPut, "/api/stories/s1"},
		{http.MethodDelete, "/api/stories/s1"},
		{http.MethodPost, "/api/stories/s1/like"},
	} {
		w := perform(r, tc.method, tc.path, map[string]string{})
		assert.Equal(t, http.StatusUnauthorized, w.Code, "%s %s", tc.method, tc.path)
	}
	stories.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
}

func TestStoryHandler_Create(t *testing.T) {
	r, _, stories := setupStoryRouter("author-1")

	req := dto.CreateStoryRequest{Title: "Saga", Description: "A tale", Category: "Fantasy"}
	stories.On("Create", mock.Anything, "author-1", req).
		Return(&dto.StoryDetailResponse{StoryResponse: dto.StoryResponse{ID: "s1", Title: "Saga"}}, nil)

	w := perform(r, http.MethodPost, "/api/stories", req)
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"id":"s1"`)

	w = perform(r, http.MethodPost, "/api/stories", "not an object")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	stories.AssertNumberOfCalls(t, "Create", 1)
}

func TestStoryHandler_UpdateForbidden(t *testing.T) {
	r, _, stories := setupStoryRouter("intruder")

	title := "Hijacked"
	stories.On("Update", mock.Anything, "intruder", "s1", dto.UpdateStoryRequest{Title: &title}).
		Return(nil, &service.ForbiddenError{Message: "only the author can edit this story"})

	w := perform(r, http.MethodPut, "/api/stories/s1", map[string]string{"title": title})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestStoryHandler_LikeAndRead(t *testing.T) {
	r, _, stories := setupStoryRouter("reader")

	stories.On("ToggleLike", mock.Anything, "reader", "s1").Return(&dto.LikeResponse{Liked: true, LikesCount: 4}, nil)
	stories.On("IncrementReads", mock.Anything, "s1").Return(&dto.ReadResponse{Reads: 10}, nil)

	w := perform(r, http.MethodPost, "/api/stories/s1/like", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"liked":true,"likesCount":4}`, w.Body.String())

	w = perform(r, http.MethodPatch, "/api/stories/s1/read", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"reads":10}`, w.Body.String())
}

func TestStoryHandler_ListByAuthorPassesViewer(t *testing.T) {
	r, _, stories := setupStoryRouter("author-1")

	stories.On("ListByAuthor", mock.Anything, "author-1", "author-1").Return([]dto.StoryResponse{{ID: "draft"}}, nil)

	w := perform(r, http.MethodGet, "/api/stories/user/author-1", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"id":"draft"`)
	stories.AssertExpectations(t)
}
