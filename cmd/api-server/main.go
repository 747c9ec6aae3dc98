package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"talehub/database"
	"talehub/internal/cache"
	"talehub/internal/config"
	"talehub/internal/microservices/http-api/handler"
	"talehub/internal/microservices/http-api/repository"
	"talehub/internal/microservices/http-api/service"
	"talehub/internal/microservices/websocket"

	"github.com/gin-gonic/gin"
	"github.com/rs/cors"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("could not load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	logger := newLogger(cfg)
	slog.SetDefault(logger)

	logger.Info("server starting",
		"environment", cfg.GoEnv,
		"port", cfg.HTTPPort,
		"cache_backend", cfg.CacheBackend,
	)

	db, err := database.ConnectDB(cfg, logger)
	if err != nil {
		log.Fatalf("could not connect to database: %v", err)
	}
	defer func() {
		if err := database.Close(db); err != nil {
			logger.Error("failed to close database", "error", err)
		}
	}()

	queryCache, closeCache, err := newQueryCache(cfg, logger)
	if err != nil {
		log.Fatalf("could not create query cache: %v", err)
	}
	defer closeCache()

	hub := websocket.NewHub(logger)

	// Repositories
	storyRepo := repository.NewStoryRepository(db)
	chapterRepo := repository.NewChapterRepository(db)
	commentRepo := repository.NewStoryCommentRepository(db)
	bookmarkRepo := repository.NewBookmarkRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	progressRepo := repository.NewProgressRepository(db)
	userRepo := repository.NewUserRepository(db)

	// Services
	notificationSvc := service.NewNotificationService(notificationRepo, hub, logger)
	svc := services{
		verifier:      service.NewTokenVerifier(cfg.JWTSecret),
		feed:          service.NewFeedService(storyRepo, queryCache, logger),
		stories:       service.NewStoryService(storyRepo, queryCache, notificationSvc, hub, logger),
		chapters:      service.NewChapterService(chapterRepo, storyRepo, userRepo, queryCache, notificationSvc, logger),
		comments:      service.NewStoryCommentService(commentRepo, storyRepo, notificationSvc, logger),
		bookmarks:     service.NewBookmarkService(bookmarkRepo, storyRepo, logger),
		notifications: notificationSvc,
		progress:      service.NewProgressService(progressRepo, storyRepo, chapterRepo, logger),
		users:         service.NewUserService(userRepo, storyRepo, notificationSvc, logger),
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	handler.RequestTimeout = cfg.RequestTimeout

	limiter := newRateLimiter(cfg)
	router := newRouter(svc, hub, limiter, cfg.WSAllowedOrigins, logger)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowCredentials: true,
		MaxAge:           300,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           corsHandler.Handler(router),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go sweepLimiter(ctx, limiter)

	errChan := make(chan error, 1)
	go func() {
		logger.Info("http server listening", "addr", srv.Addr, "tls", cfg.TLSEnabled)
		var err error
		if cfg.TLSEnabled {
			err = srv.ListenAndServeTLS(cfg.TLSCertPath, cfg.TLSKeyPath)
		} else {
			err = srv.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("received shutdown signal")
	case err := <-errChan:
		logger.Error("server error", "error", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
	}
	logger.Info("server stopped")
}

func newLogger(cfg *config.Config) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if cfg.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}

func newQueryCache(cfg *config.Config, logger *slog.Logger) (cache.QueryCache, func(), error) {
	if cfg.CacheBackend != "redis" {
		return cache.NewMemoryCache(cfg.CacheTTL, cfg.CacheMaxEntries), func() {}, nil
	}

	opts, err := cache.RedisOptions(cfg.RedisURL, cfg.RedisPassword)
	if err != nil {
		return nil, nil, err
	}
	rc, err := cache.NewRedisCache(opts, cfg.CacheTTL, logger)
	if err != nil {
		return nil, nil, err
	}
	return rc, func() {
		if err := rc.Close(); err != nil {
			logger.Warn("failed to close redis cache", "error", err)
		}
	}, nil
}
