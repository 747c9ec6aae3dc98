package handler

import (
	"net/http"

	"talehub/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
)

// BookmarkHandler serves the caller's reading list.
type BookmarkHandler struct {
	svc service.BookmarkService
}

func NewBookmarkHandler(svc service.BookmarkService) *BookmarkHandler {
	return &BookmarkHandler{svc: svc}
}

// RegisterRoutes mounts /bookmarks. Every route needs a user.
func (h *BookmarkHandler) RegisterRoutes(api *gin.RouterGroup, protected ...gin.HandlerFunc) {
	rg := api.Group("/bookmarks")
	rg.Use(protected...)

	rg.GET("", h.List)
	rg.POST("/:storyId", h.Toggle)
	rg.GET("/:storyId/status", h.Status)
}

func (h *BookmarkHandler) Toggle(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	resp, err := h.svc.Toggle(ctx, userID, c.Param("storyId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *BookmarkHandler) Status(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	resp, err := h.svc.Status(ctx, userID, c.Param("storyId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *BookmarkHandler) List(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	resp, err := h.svc.List(ctx, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
