package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/TandelPriyanshi/BorrowBase-sub000/internal/database"
	"github.com/TandelPriyanshi/BorrowBase-sub000/internal/models"
	"github.com/TandelPriyanshi/BorrowBase-sub000/internal/services"
	"github.com/TandelPriyanshi/BorrowBase-sub000/pkg/logger"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// GetNotifications GET /notifications
func GetNotifications(c *gin.Context) {
	userID := c.MustGet("userId").(string)

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if limit < 1 || limit > 100 {
		limit = 50
	}
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if offset < 0 {
		offset = 0
	}

	var notifications []models.Notification
	if err := database.DB.Preload("Actor").Preload("Resource").
		Where("user_id = ?", userID).
		Order("created_at desc").
		Limit(limit).Offset(offset).
		Find(&notifications).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch notifications"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"notifications": notifications})
}

// GetUnreadCount GET /notifications/unread-count
func GetUnreadCount(c *gin.Context) {
	userID := c.MustGet("userId").(string)

	var count int64
	database.DB.Model(&models.Notification{}).Where("user_id = ? AND is_read = ?", userID, false).Count(&count)

	c.JSON(http.StatusOK, gin.H{"count": count})
}

// MarkNotificationRead PUT /notifications/:id/read
func MarkNotificationRead(c *gin.Context) {
	userID := c.MustGet("userId").(string)
	notificationID := c.Param("id")

	var notification models.Notification
	if err := database.DB.First(&notification, "id = ?", notificationID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Notification not found"})
		return
	}

	if notification.UserID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
		return
	}

	now := time.Now()
	notification.IsRead = true
	notification.ReadAt = &now
	database.DB.Save(&notification)

	PushUnreadCount(userID)

	c.JSON(http.StatusOK, gin.H{"message": "Marked as read"})
}

// MarkAllNotificationsRead PUT /notifications/read-all
func MarkAllNotificationsRead(c *gin.Context) {
	userID := c.MustGet("userId").(string)

	now := time.Now()
	database.DB.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Updates(map[string]interface{}{"is_read": true, "read_at": &now})

	PushUnreadCount(userID)

	c.JSON(http.StatusOK, gin.H{"message": "All marked as read"})
}

// DeleteNotification DELETE /notifications/:id
func DeleteNotification(c *gin.Context) {
	userID := c.MustGet("userId").(string)
	notificationID := c.Param("id")

	var notification models.Notification
	if err := database.DB.First(&notification, "id = ?", notificationID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Notification not found"})
		return
	}

	if notification.UserID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
		return
	}

	database.DB.Delete(&notification)

	c.JSON(http.StatusOK, gin.H{"message": "Notification deleted"})
}

// CreateNotification persists and pushes a notification in one go.
// When the socket layer is down the row is queued for the dispatcher instead.
func CreateNotification(tx *gorm.DB, notification models.Notification) error {
	if SocketServer == nil {
		// No live channel, let the background dispatcher deliver it
		return services.Enqueue(tx, models.QueuedNotification{
			UserID:          notification.UserID,
			ActorID:         notification.ActorID,
			Type:            notification.Type,
			Priority:        notification.Priority,
			ResourceID:      notification.ResourceID,
			BorrowRequestID: notification.BorrowRequestID,
			Message:         notification.Message,
		})
	}

	if err := tx.Create(&notification).Error; err != nil {
		logger.Error().Err(err).Str("user_id", notification.UserID).Msg("Failed to create notification")
		return err
	}

	// Load the actor for the frontend. Must use tx: the row may not be
	// committed yet inside a transaction.
	var full models.Notification
	if err := tx.Preload("Actor").Preload("Resource").First(&full, "id = ?", notification.ID).Error; err != nil {
		full = notification
	}

	SendNotificationToUser(notification.UserID, map[string]interface{}{
		"id":              full.ID,
		"type":            full.Type,
		"priority":        full.Priority,
		"message":         full.Message,
		"actor":           full.Actor,
		"resourceId":      full.ResourceID,
		"borrowRequestId": full.BorrowRequestID,
		"createdAt":       full.CreatedAt,
		"isRead":          full.IsRead,
	})
	PushUnreadCount(notification.UserID)
	return nil
}
