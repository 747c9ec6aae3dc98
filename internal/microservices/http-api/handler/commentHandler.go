package handler

import (
	"net/http"

	"talehub/internal/microservices/http-api/dto"
	"talehub/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
)

type CommentHandler struct {
	commentService service.StoryCommentService
}

func NewCommentHandler(commentService service.StoryCommentService) *CommentHandler {
	return &CommentHandler{
		commentService: commentService,
	}
}

// RegisterRoutes registers story comment routes
func (h *CommentHandler) RegisterRoutes(api *gin.RouterGroup, protected ...gin.HandlerFunc) {
	rg := api.Group("/story-comments")
	{
		rg.GET("/:storyId", h.ListByStory)
		rg.POST("/:storyId", protect(protected, h.Create)...)
	}

	comments := rg.Group("/comment")
	{
		comments.POST("/:commentId/like", protect(protected, h.Like)...)
		comments.POST("/:commentId/reply", protect(protected, h.Reply)...)
		comments.DELETE("/:commentId", protect(protected, h.Delete)...)
	}
}

// Create creates a new comment on a story
// POST /api/story-comments/:storyId
func (h *CommentHandler) Create(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var req dto.CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	comment, err := h.commentService.Create(ctx, userID, c.Param("storyId"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, comment)
}

// ListByStory returns the story's comments, newest first
// GET /api/story-comments/:storyId?page&limit
func (h *CommentHandler) ListByStory(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	resp, err := h.commentService.List(ctx, c.Param("storyId"), queryInt(c, "page"), queryInt(c, "limit"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Like toggles the caller's like on a comment
// POST /api/story-comments/comment/:commentId/like
func (h *CommentHandler) Like(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	resp, err := h.commentService.ToggleLike(ctx, userID, c.Param("commentId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Reply adds a reply under a comment
// POST /api/story-comments/comment/:commentId/reply
func (h *CommentHandler) Reply(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var req dto.CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	comment, err := h.commentService.Reply(ctx, userID, c.Param("commentId"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, comment)
}

// Delete removes a comment (the commenter's own, or any on the author's story)
// DELETE /api/story-comments/comment/:commentId
func (h *CommentHandler) Delete(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	if err := h.commentService.Delete(ctx, userID, c.Param("commentId")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "comment deleted"})
}
