package handler

import (
	"net/http"

	"talehub/internal/microservices/http-api/dto"
	"talehub/internal/microservices/http-api/middleware"
	"talehub/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
)

type StoryHandler struct {
	feed    service.FeedService
	stories service.StoryService
}

func NewStoryHandler(feed service.FeedService, stories service.StoryService) *StoryHandler {
	return &StoryHandler{feed: feed, stories: stories}
}

// RegisterRoutes mounts /stories. protected guards the write routes.
func (h *StoryHandler) RegisterRoutes(api *gin.RouterGroup, protected ...gin.HandlerFunc) {
	rg := api.Group("/stories")

	// Public routes
	rg.GET("", h.List)
	rg.GET("/search", h.Search)
	rg.GET("/must-watch", h.MustWatch)
	rg.GET("/user/:userId", h.ListByAuthor)
	rg.GET("/:id", h.Get)
	rg.PATCH("/:id/read", h.Read)

	// Author and reader actions
	rg.POST("", protect(protected, h.Create)...)
	rg.PUT("/:id", protect(protected, h.Update)...)
	rg.DELETE("/:id", protect(protected, h.Delete)...)
	rg.POST("/:id/like", protect(protected, h.Like)...)
}

// List handles GET /stories?page&limit&category&sort
func (h *StoryHandler) List(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	resp, err := h.feed.ListStories(ctx, service.ListStoriesQuery{
		Page:     queryInt(c, "page"),
		Limit:    queryInt(c, "limit"),
		Category: c.Query("category"),
		Sort:     c.Query("sort"),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Search handles GET /stories/search?q&page&limit
func (h *StoryHandler) Search(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	resp, err := h.feed.SearchStories(ctx, service.SearchQuery{
		Q:     c.Query("q"),
		Page:  queryInt(c, "page"),
		Limit: queryInt(c, "limit"),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *StoryHandler) MustWatch(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	resp, err := h.feed.MustWatch(ctx, queryInt(c, "limit"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ListByAuthor includes drafts when the viewer is the author.
func (h *StoryHandler) ListByAuthor(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	stories, err := h.stories.ListByAuthor(ctx, c.Param("userId"), middleware.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": stories})
}

func (h *StoryHandler) Get(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	story, err := h.stories.Get(ctx, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, story)
}

func (h *StoryHandler) Create(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var req dto.CreateStoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	story, err := h.stories.Create(ctx, userID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, story)
}

func (h *StoryHandler) Update(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var req dto.UpdateStoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	story, err := h.stories.Update(ctx, userID, c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, story)
}

func (h *StoryHandler) Delete(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	if err := h.stories.Delete(ctx, userID, c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "story deleted"})
}

func (h *StoryHandler) Like(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	resp, err := h.stories.ToggleLike(ctx, userID, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Read counts a view. Anonymous readers count too.
func (h *StoryHandler) Read(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	resp, err := h.stories.IncrementReads(ctx, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
