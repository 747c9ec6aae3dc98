package handler

import (
	"net/http"

	"talehub/internal/microservices/http-api/dto"
	"talehub/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
)

type NotificationHandler struct {
	svc service.NotificationService
}

func NewNotificationHandler(svc service.NotificationService) *NotificationHandler {
	return &NotificationHandler{svc: svc}
}

func (h *NotificationHandler) RegisterRoutes(api *gin.RouterGroup, protected ...gin.HandlerFunc) {
	rg := api.Group("/notifications")
	rg.Use(protected...)

	rg.GET("", h.List)
	rg.GET("/unread-count", h.UnreadCount)
	rg.PATCH("/read-all", h.MarkAllAsRead)
	rg.PATCH("/:id/read", h.MarkAsRead)
	rg.DELETE("/:id", h.Delete)
}

// List returns the user's notifications, newest first
func (h *NotificationHandler) List(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	resp, err := h.svc.List(ctx, userID, queryInt(c, "page"), queryInt(c, "limit"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *NotificationHandler) UnreadCount(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	count, err := h.svc.UnreadCount(ctx, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.UnreadCountResponse{Count: count})
}

// MarkAsRead marks a specific notification as read
func (h *NotificationHandler) MarkAsRead(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	if err := h.svc.MarkRead(ctx, userID, c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "notification marked as read"})
}

// MarkAllAsRead marks all notifications as read for the user
func (h *NotificationHandler) MarkAllAsRead(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	updated, err := h.svc.MarkAllRead(ctx, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"updated": updated})
}

func (h *NotificationHandler) Delete(c *gin.Context) {
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
	c.JSON(http.StatusOK, gin.H{"message": "notification deleted"})
}
