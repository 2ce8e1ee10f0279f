package seeds

import (
	"log"
	"time"

	"github.com/TandelPriyanshi/BorrowBase-sub000/internal/database"
	"github.com/TandelPriyanshi/BorrowBase-sub000/internal/models"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

func GetOrCreateSystemUser() (models.User, error) {
	log.Println("👤 Checking System User...")

	username := "borrowbase"
	email := "official@borrowbase.app"

	var user models.User
	err := database.DB.Where("username = ?", username).First(&user).Error

	if err == nil {
		log.Printf("   ✅ System User found: %s", user.Username)
		return user, nil
	}

	// Create if not exists
	hash, _ := bcrypt.GenerateFromPassword([]byte("BorrowBaseOfficial2026!"), bcrypt.DefaultCost)

	user = models.User{
		ID:        uuid.New().String(),
		Username:  username,
		Email:     email,
		Password:  string(hash),
		Role:      models.RoleAdmin,
		Name:      "BorrowBase Team",
		Bio:       "Official BorrowBase account. Announcements and support.",
		AvatarURL: "https://api.dicebear.com/7.x/identicon/svg?seed=borrowbase",
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	if err := database.DB.Create(&user).Error; err != nil {
		return models.User{}, err
	}

	log.Printf("   ✅ System User Created: %s", user.Username)
	return user, nil
}

// SeedDemoUsers creates a small neighbourhood of demo accounts for local
// development. Idempotent on username.
func SeedDemoUsers() ([]models.User, error) {
	log.Println("👥 Seeding Demo Users...")

	hash, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)

	templates := []models.User{
		{
			Username: "priya_t", Email: "priya@example.com", Name: "Priya Tandel",
			Bio:     "Weekend gardener, happy to lend tools.",
			Address: "Sector 7, Gandhinagar",
		},
		{
			Username: "arjun_m", Email: "arjun@example.com", Name: "Arjun Mehta",
			Bio:     "Cyclist and amateur photographer.",
			Address: "Koramangala, Bengaluru",
		},
		{
			Username: "sara_k", Email: "sara@example.com", Name: "Sara Khan",
			Bio:     "Board game collector. Ask me about Catan.",
			Address: "Bandra West, Mumbai",
		},
	}

	users := make([]models.User, 0, len(templates))
	for _, t := range templates {
		var existing models.User
		if err := database.DB.Where("username = ?", t.Username).First(&existing).Error; err == nil {
			users = append(users, existing)
			continue
		}

		t.ID = uuid.New().String()
		t.Password = string(hash)
		t.Role = models.RoleUser
		t.AvatarURL = "https://api.dicebear.com/7.x/avataaars/svg?seed=" + t.Username
		if err := database.DB.Create(&t).Error; err != nil {
			return nil, err
		}
		log.Printf("   ✅ Created user: %s", t.Username)
		users = append(users, t)
	}

	return users, nil
}
