package seeds

import (
	"log"

	"github.com/TandelPriyanshi/BorrowBase-sub000/internal/database"
	"github.com/TandelPriyanshi/BorrowBase-sub000/internal/models"
	"github.com/google/uuid"
)

// SeedDemoResources lists a handful of items against the demo users so a
// fresh environment has something to browse and request.
func SeedDemoResources(users []models.User) error {
	log.Println("📦 Seeding Demo Resources...")

	if len(users) == 0 {
		log.Println("   ⚠️ No demo users, skipping resources")
		return nil
	}

	templates := []struct {
		OwnerIdx    int
		Title       string
		Description string
		Category    string
		Condition   models.ResourceCondition
		PhotoURL    string
	}{
		{0, "Bosch Cordless Drill", "18V drill with two batteries and a bit set. Great for shelves and light masonry.", "tools", models.ConditionGood, "https://images.borrowbase.app/seed/drill.jpg"},
		{0, "Extension Ladder (3.5m)", "Aluminium ladder, folds for transport. Pick up only.", "tools", models.ConditionFair, "https://images.borrowbase.app/seed/ladder.jpg"},
		{1, "Canon EOS 1500D", "DSLR with 18-55mm kit lens, 32GB card included. Please handle with care.", "electronics", models.ConditionLikeNew, "https://images.borrowbase.app/seed/camera.jpg"},
		{1, "Trek Mountain Bike", "Medium frame, recently serviced. Helmet included.", "sports", models.ConditionGood, "https://images.borrowbase.app/seed/bike.jpg"},
		{2, "Catan (Base + Seafarers)", "Complete set, all pieces sleeved and counted.", "games", models.ConditionLikeNew, "https://images.borrowbase.app/seed/catan.jpg"},
		{2, "Camping Tent (4-person)", "Waterproof dome tent with groundsheet. Used twice.", "outdoor", models.ConditionLikeNew, "https://images.borrowbase.app/seed/tent.jpg"},
	}

	for _, t := range templates {
		owner := users[t.OwnerIdx%len(users)]

		var existing models.Resource
		if err := database.DB.Where("owner_id = ? AND title = ?", owner.ID, t.Title).First(&existing).Error; err == nil {
			continue
		}

		resource := models.Resource{
			ID:          uuid.New().String(),
			OwnerID:     owner.ID,
			Title:       t.Title,
			Description: t.Description,
			Category:    t.Category,
			Condition:   t.Condition,
			Status:      models.ResourceStatusAvailable,
			Photos: []models.ResourcePhoto{
				{ID: uuid.New().String(), URL: t.PhotoURL, Position: 0, IsPrimary: true},
			},
		}

		if err := database.DB.Create(&resource).Error; err != nil {
			return err
		}
		log.Printf("   ✅ Listed: %s (%s)", t.Title, owner.Username)
	}

	return nil
}

// SeedSystemSettings ensures the platform toggles exist with open defaults.
func SeedSystemSettings() error {
	log.Println("⚙️  Seeding System Settings...")

	defaults := map[string]string{
		models.SettingMaintenanceMode:  "false",
		models.SettingMaintenanceETA:   "",
		models.SettingRegistrationOpen: "true",
		models.SettingFeatureChat:      "true",
		models.SettingFeatureReviews:   "true",
	}

	for key, value := range defaults {
		var existing models.SystemSetting
		if err := database.DB.Where("key = ?", key).First(&existing).Error; err == nil {
			continue
		}
		if err := database.DB.Create(&models.SystemSetting{Key: key, Value: value}).Error; err != nil {
			return err
		}
		log.Printf("   ✅ Setting: %s = %s", key, value)
	}

	return nil
}
