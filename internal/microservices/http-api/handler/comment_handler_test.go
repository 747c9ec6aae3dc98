package handler_test

import (
	"net/http"
	"testing"

	"talehub/internal/microservices/http-api/dto"
	"talehub/internal/microservices/http-api/handler"
	"talehub/internal/microservices/http-api/middleware"
	"talehub/internal/microservices/http-api/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestCommentHandler(t *testing.T) {
	svc := new(MockStoryCommentService)
	r, api := newAPI("reader")
	handler.NewCommentHandler(svc).RegisterRoutes(api, middleware.RequireAuth())

	req := dto.CommentRequest{Text: "loved it"}
	svc.On("Create", mock.Anything, "reader", "s1", req).Return(&dto.StoryCommentResponse{ID: "c1", Text: "loved it"}, nil)
	svc.On("Create", mock.Anything, "reader", "s1", dto.CommentRequest{}).Return(nil, &service.ValidationError{Message: "text: comment text is required."})
	svc.On("List", mock.Anything, "s1", 1, 10).Return(&dto.StoryCommentListResponse{
		Data:       []dto.StoryCommentResponse{{ID: "c1"}},
		Pagination: dto.NewPagination(1, 10, 1),
	}, nil)
	svc.On("ToggleLike", mock.Anything, "reader", "c1").Return(&dto.LikeResponse{Liked: true, LikesCount: 1}, nil)
	svc.On("Reply", mock.Anything, "reader", "c1", dto.CommentRequest{Text: "me too"}).Return(&dto.StoryCommentResponse{ID: "c1"}, nil)
	svc.On("Delete", mock.Anything, "reader", "c2").Return(&service.ForbiddenError{Message: "you can only delete your own comments"})

	w := perform(r, http.MethodPost, "/api/story-comments/s1", req)
	assert.Equal(t, http.StatusCreated, w.Code)

	w = perform(r, http.MethodPost, "/api/story-comments/s1", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = perform(r, http.MethodGet, "/api/story-comments/s1?page=1&limit=10", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"totalCount":1`)

	w = perform(r, http.MethodPost, "/api/story-comments/comment/c1/like", nil)
	assert.JSONEq(t, `{"liked":true,"likesCount":1}`, w.Body.String())

	w = perform(r, http.MethodPost, "/api/story-comments/comment/c1/reply", dto.CommentRequest{Text: "me too"})
	assert.Equal(t, http.StatusCreated, w.Code)

	w = perform(r, http.MethodDelete, "/api/story-comments/comment/c2", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	svc.AssertExpectations(t)
}
