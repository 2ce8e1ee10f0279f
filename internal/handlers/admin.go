package handlers

import (
	"net/http"
	"time"

	"github.com/TandelPriyanshi/BorrowBase-sub000/internal/database"
	"github.com/TandelPriyanshi/BorrowBase-sub000/internal/models"
	"github.com/TandelPriyanshi/BorrowBase-sub000/internal/services"
	"github.com/TandelPriyanshi/BorrowBase-sub000/pkg/logger"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// CreateAnnouncement POST /admin/announcements
// Persists a system_announcement notification for every user (through the
// dispatch queue so large user counts do not block the request) and pushes
// the live event to connected clients.
func CreateAnnouncement(c *gin.Context) {
	adminID := c.MustGet("userId").(string)

	var input struct {
		Message    string `json:"message" binding:"required"`
		Priority   string `json:"priority"`
		ExpiresIn  int    `json:"expiresInHours"`
		ScheduleAt string `json:"scheduleAt"` // RFC3339, optional
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	priority := models.PriorityNormal
	switch models.NotificationPriority(input.Priority) {
	case models.PriorityLow, models.PriorityNormal, models.PriorityHigh:
		priority = models.NotificationPriority(input.Priority)
	case "":
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown priority"})
		return
	}

	scheduledFor := time.Now()
	if input.ScheduleAt != "" {
		t, err := time.Parse(time.RFC3339, input.ScheduleAt)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid scheduleAt"})
			return
		}
		scheduledFor = t
	}

	var expiresAt *time.Time
	if input.ExpiresIn > 0 {
		t := scheduledFor.Add(time.Duration(input.ExpiresIn) * time.Hour)
		expiresAt = &t
	}

	var userIDs []string
	if err := database.DB.Model(&models.User{}).
		Where("is_blocked = ?", false).
		Pluck("id", &userIDs).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to enumerate users"})
		return
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		for _, uid := range userIDs {
			if err := services.Enqueue(tx, models.QueuedNotification{
				UserID:       uid,
				ActorID:      adminID,
				Type:         models.NotificationTypeSystem,
				Priority:     priority,
				Message:      input.Message,
				ScheduledFor: scheduledFor,
				ExpiresAt:    expiresAt,
				MaxRetries:   3,
			}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		logger.Error().Err(err).Msg("Failed to enqueue announcement")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create announcement"})
		return
	}

	// Immediate announcements also go out live right away
	if !scheduledFor.After(time.Now()) {
		BroadcastSystemAnnouncement(map[string]interface{}{
			"message":   input.Message,
			"priority":  priority,
			"createdAt": time.Now(),
		})
	}

	logger.Info().Str("admin_id", adminID).Int("recipients", len(userIDs)).Msg("System announcement queued")

	c.JSON(http.StatusCreated, gin.H{
		"message":    "Announcement queued",
		"recipients": len(userIDs),
	})
}

// BlockUser PUT /admin/users/:id/block
func BlockUser(c *gin.Context) {
	targetID := c.Param("id")

	var user models.User
	if err := database.DB.First(&user, "id = ?", targetID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	if user.Role == models.RoleAdmin {
		c.JSON(http.StatusForbidden, gin.H{"error": "Cannot block an admin"})
		return
	}

	database.DB.Model(&user).Update("is_blocked", true)
	database.RevokeRefreshToken(targetID)

	logger.Info().Str("user_id", targetID).Msg("User blocked")
	c.JSON(http.StatusOK, gin.H{"message": "User blocked"})
}

// UnblockUser DELETE /admin/users/:id/block
func UnblockUser(c *gin.Context) {
	targetID := c.Param("id")

	result := database.DB.Model(&models.User{}).Where("id = ?", targetID).Update("is_blocked", false)
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "User unblocked"})
}

// GetSettings GET /admin/settings
func GetSettings(c *gin.Context) {
	var settings []models.SystemSetting
	database.DB.Find(&settings)

	out := make(map[string]string, len(settings))
	for _, s := range settings {
		out[s.Key] = s.Value
	}

	c.JSON(http.StatusOK, gin.H{"settings": out})
}

// UpdateSettings PUT /admin/settings
func UpdateSettings(c *gin.Context) {
	var input map[string]string
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	allowed := map[string]bool{
		models.SettingMaintenanceMode:  true,
		models.SettingMaintenanceETA:   true,
		models.SettingRegistrationOpen: true,
		models.SettingFeatureChat:      true,
		models.SettingFeatureReviews:   true,
	}

	for key, value := range input {
		if !allowed[key] {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown setting: " + key})
			return
		}
		setting := models.SystemSetting{Key: key, Value: value}
		database.DB.Save(&setting)
	}

	c.JSON(http.StatusOK, gin.H{"message": "Settings updated"})
}

// PublicGetSystemStatus GET /system/status - lets the maintenance page render
func PublicGetSystemStatus(c *gin.Context) {
	var setting models.SystemSetting
	database.DB.Where("key = ?", models.SettingMaintenanceMode).Limit(1).Find(&setting)

	c.JSON(http.StatusOK, gin.H{
		"maintenance": setting.Value == "true",
	})
}
