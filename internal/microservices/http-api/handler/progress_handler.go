package handler

import (
	"net/http"

	"talehub/internal/microservices/http-api/dto"
	"talehub/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
)

type ProgressHandler struct {
	progressService service.ProgressService
}

func NewProgressHandler(progressService service.ProgressService) *ProgressHandler {
	return &ProgressHandler{progressService: progressService}
}

// RegisterRoutes registers the reading progress routes
func (h *ProgressHandler) RegisterRoutes(api *gin.RouterGroup, protected ...gin.HandlerFunc) {
	rg := api.Group("/progress")
	rg.Use(protected...)

	rg.GET("", h.GetAllProgress)
	rg.GET("/:storyId", h.GetProgress)
	rg.PUT("/:storyId", h.UpdateProgress)
}

func (h *ProgressHandler) GetAllProgress(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	progressList, err := h.progressService.List(ctx, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, progressList)
}

func (h *ProgressHandler) GetProgress(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	progress, err := h.progressService.Get(ctx, userID, c.Param("storyId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, progress)
}

// UpdateProgress upserts the caller's position in a story
// PUT /api/progress/:storyId
func (h *ProgressHandler) UpdateProgress(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var req dto.UpdateProgressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	progress, err := h.progressService.Update(ctx, userID, c.Param("storyId"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, progress)
}
