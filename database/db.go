package database

import (
	"fmt"
	"log/slog" // use slog for structured logging
	"time"

	"talehub/internal/config"
	"talehub/internal/microservices/http-api/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// ConnectDB opens the postgres connection pool and migrates every model.
func ConnectDB(cfg *config.Config, log *slog.Logger) (*gorm.DB, error) {
	gormLogger := logger.Default.LogMode(logger.Warn)
	if cfg.IsDevelopment() && cfg.LogLevel == "debug" {
		gormLogger = logger.Default.LogMode(logger.Info)
	}

	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{Logger: gormLogger})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	// Verify the connection
	if err := sqlDB.Ping(); err != nil {
		// close the pool if ping fails to avoid resource leak
		sqlDB.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := Migrate(db, log); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Info("Connected to the database successfully")
	return db, nil
}

// Migrate creates or updates the schema for every model.
func Migrate(db *gorm.DB, log *slog.Logger) error {
	// order matters: referenced tables first
	if err := db.AutoMigrate(
		&models.User{},
		&models.Follow{},
		&models.Story{},
		&models.StoryLike{},
		&models.Chapter{},
		&models.ChapterLike{},
		&models.ChapterComment{},
		&models.StoryComment{},
		&models.StoryCommentLike{},
		&models.StoryCommentReply{},
		&models.Bookmark{},
		&models.Notification{},
		&models.ReadingProgress{},
	); err != nil {
		return err
	}

	log.Info("Database migrations applied successfully")
	return nil
}

// Close releases the pool behind db.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
