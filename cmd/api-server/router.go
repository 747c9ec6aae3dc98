package main

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"talehub/internal/config"
	"talehub/internal/microservices/http-api/handler"
	"talehub/internal/microservices/http-api/middleware"
	"talehub/internal/microservices/http-api/service"
	"talehub/internal/microservices/websocket"

	"github.com/gin-gonic/gin"
)

type services struct {
	verifier      service.TokenVerifier
	feed          service.FeedService
	stories       service.StoryService
	chapters      service.ChapterService
	comments      service.StoryCommentService
	bookmarks     service.BookmarkService
	notifications service.NotificationService
	progress      service.ProgressService
	users         service.UserService
}

func newRateLimiter(cfg *config.Config) *middleware.RateLimiter {
	return middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
}

func sweepLimiter(ctx context.Context, limiter *middleware.RateLimiter) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			limiter.Sweep()
		}
	}
}

func requestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Debug("http request",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
			"user_id", middleware.UserID(c),
		)
	}
}

func newRouter(svc services, hub *websocket.Hub, limiter *middleware.RateLimiter, wsOrigins []string, logger *slog.Logger) *gin.Engine {
	if logger == nil {
		logger = slog.Default()
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestLogger(logger))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":     "ok",
			"ws_clients": hub.ClientCount(),
		})
	})

	r.GET("/ws", middleware.AuthMiddleware(svc.verifier), websocket.WSHandler(hub, websocket.NewUpgrader(wsOrigins)))

	api := r.Group("/api", middleware.OptionalAuth(svc.verifier))
	protected := []gin.HandlerFunc{middleware.RequireAuth(), limiter.Middleware()}

	handler.NewStoryHandler(svc.feed, svc.stories).RegisterRoutes(api, protected...)
	handler.NewChapterHandler(svc.chapters).RegisterRoutes(api, protected...)
	handler.NewCommentHandler(svc.comments).RegisterRoutes(api, protected...)
	handler.NewBookmarkHandler(svc.bookmarks).RegisterRoutes(api, protected...)
	handler.NewNotificationHandler(svc.notifications).RegisterRoutes(api, protected...)
	handler.NewProgressHandler(svc.progress).RegisterRoutes(api, protected...)
	handler.NewUserHandler(svc.users).RegisterRoutes(api, protected...)

	return r
}
