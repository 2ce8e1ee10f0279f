package handlers

import (
	"github.com/TandelPriyanshi/BorrowBase-sub000/internal/config"
	"github.com/TandelPriyanshi/BorrowBase-sub000/internal/database"
	"github.com/TandelPriyanshi/BorrowBase-sub000/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// SetupTestDB initializes an in-memory SQLite DB for testing
func SetupTestDB() {
	db, _ := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	database.DB = db
	database.DB.AutoMigrate(
		&models.User{},
		&models.Resource{},
		&models.ResourcePhoto{},
		&models.BorrowRequest{},
		&models.Message{},
		&models.Review{},
		&models.Notification{},
		&models.QueuedNotification{},
		&models.SystemSetting{},
	)

	if config.AppConfig == nil {
		config.AppConfig = &config.Config{
			JWTSecret:     "test-secret",
			RefreshSecret: "test-refresh-secret",
			FrontendURL:   "http://localhost:3000",
		}
	}
}
