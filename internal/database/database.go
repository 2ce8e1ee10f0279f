package database

import (
	"log"
	"time"

	"github.com/TandelPriyanshi/BorrowBase-sub000/internal/config"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

func Connect() {
	dsn := config.AppConfig.DatabaseURL
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("Failed to get underlying sql.DB: %v", err)
	}

	// Connection pool settings
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)

	DB = db
	log.Println("Connected to PostgreSQL with connection pooling (max: 25, idle: 10)")
}

// IsFeatureEnabled reports whether a feature flag is on. Features are on
// by default; only an explicit "false" row written by an admin turns one
// off, so a deployment that never ran the seeder still has chat and
// reviews working.
func IsFeatureEnabled(key string) bool {
	if DB == nil {
		return true
	}
	var setting struct {
		Value string
	}
	if err := DB.Table("system_settings").Select("value").Where("key = ?", key).First(&setting).Error; err != nil {
		return true
	}
	return setting.Value != "false"
}
