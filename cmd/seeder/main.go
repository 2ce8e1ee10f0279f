package main

import (
	"log"

	"github.com/TandelPriyanshi/BorrowBase-sub000/internal/config"
	"github.com/TandelPriyanshi/BorrowBase-sub000/internal/database"
	"github.com/TandelPriyanshi/BorrowBase-sub000/internal/models"
	"github.com/TandelPriyanshi/BorrowBase-sub000/internal/seeds"
)

func main() {
	config.LoadConfig()
	database.Connect()

	log.Println("🔄 Running migrations (just in case)...")
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

	if _, err := seeds.GetOrCreateSystemUser(); err != nil {
		log.Fatalf("❌ Failed to seed system user: %v", err)
	}

	users, err := seeds.SeedDemoUsers()
	if err != nil {
		log.Fatalf("❌ Failed to seed demo users: %v", err)
	}

	if err := seeds.SeedDemoResources(users); err != nil {
		log.Fatalf("❌ Failed to seed demo resources: %v", err)
	}

	if err := seeds.SeedSystemSettings(); err != nil {
		log.Fatalf("❌ Failed to seed system settings: %v", err)
	}

	log.Println("✅ Database Seeding Complete!")
}
