package handler

import (
	"net/http"

	"talehub/internal/microservices/http-api/dto"
	"talehub/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
)

type ChapterHandler struct {
	svc service.ChapterService
}

func NewChapterHandler(svc service.ChapterService) *ChapterHandler {
	return &ChapterHandler{svc: svc}
}

func (h *ChapterHandler) RegisterRoutes(api *gin.RouterGroup, protected ...gin.HandlerFunc) {
	rg := api.Group("/chapters")

	rg.GET("/story/:storyId", h.ListByStory)
	rg.GET("/:id", h.Get)

	rg.POST("/story/:storyId", protect(protected, h.Create)...)
	rg.PUT("/:id", protect(protected, h.Update)...)
	rg.DELETE("/:id", protect(protected, h.Delete)...)
	rg.POST("/:id/like", protect(protected, h.Like)...)
	rg.POST("/:id/comment", protect(protected, h.Comment)...)
}

// Create appends a chapter to the story; only its author may do so.
// POST /api/chapters/story/:storyId
func (h *ChapterHandler) Create(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var req dto.CreateChapterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	chapter, err := h.svc.Create(ctx, userID, c.Param("storyId"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, chapter)
}

func (h *ChapterHandler) ListByStory(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	chapters, err := h.svc.ListByStory(ctx, c.Param("storyId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": chapters})
}

func (h *ChapterHandler) Get(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	chapter, err := h.svc.Get(ctx, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, chapter)
}

func (h *ChapterHandler) Update(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var req dto.UpdateChapterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	chapter, err := h.svc.Update(ctx, userID, c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, chapter)
}

func (h *ChapterHandler) Delete(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	if err := h.svc.Delete(ctx, userID, c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "chapter deleted"})
}

func (h *ChapterHandler) Like(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	resp, err := h.svc.ToggleLike(ctx, userID, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ChapterHandler) Comment(c *gin.Context) {
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

	comment, err := h.svc.AddComment(ctx, userID, c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, comment)
}
