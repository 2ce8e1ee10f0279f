package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/TandelPriyanshi/BorrowBase-sub000/internal/database"
	"github.com/TandelPriyanshi/BorrowBase-sub000/internal/models"
	"github.com/TandelPriyanshi/BorrowBase-sub000/pkg/logger"
	"github.com/gin-gonic/gin"
)

// conversationEntry is one row of the conversations list
type conversationEntry struct {
	User        models.User    `json:"user"`
	LastMessage models.Message `json:"lastMessage"`
	UnreadCount int64          `json:"unreadCount"`
	IsOnline    bool           `json:"isOnline"`
}

// GetConversations GET /chat/conversations
// Partners ordered by most recent message, with unread counts.
func GetConversations(c *gin.Context) {
	userID := c.MustGet("userId").(string)

	var messages []models.Message
	if err := database.DB.
		Where("sender_id = ? OR recipient_id = ?", userID, userID).
		Order("created_at desc").
		Limit(500).
		Find(&messages).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch conversations"})
		return
	}

	// First message per partner wins; the list is already newest-first
	lastByPartner := make(map[string]models.Message)
	order := make([]string, 0)
	for _, m := range messages {
		partner := m.SenderID
		if partner == userID {
			partner = m.RecipientID
		}
		if _, seen := lastByPartner[partner]; !seen {
			lastByPartner[partner] = m
			order = append(order, partner)
		}
	}

	conversations := make([]conversationEntry, 0, len(order))
	for _, partnerID := range order {
		var partner models.User
		if err := database.DB.First(&partner, "id = ?", partnerID).Error; err != nil {
			continue
		}

		var unread int64
		database.DB.Model(&models.Message{}).
			Where("sender_id = ? AND recipient_id = ? AND is_read = ?", partnerID, userID, false).
			Count(&unread)

		conversations = append(conversations, conversationEntry{
			User:        partner,
			LastMessage: lastByPartner[partnerID],
			UnreadCount: unread,
			IsOnline:    IsUserOnline(partnerID),
		})
	}

	c.JSON(http.StatusOK, gin.H{"conversations": conversations})
}

// GetMessages GET /chat/messages?userId=... - message history with one user
func GetMessages(c *gin.Context) {
	currentUserID := c.MustGet("userId").(string)
	otherUserID := c.Query("userId")

	if otherUserID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "userId required"})
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
	if limit < 1 || limit > 200 {
		limit = 100
	}

	var messages []models.Message
	err := database.DB.Where(
		"(sender_id = ? AND recipient_id = ?) OR (sender_id = ? AND recipient_id = ?)",
		currentUserID, otherUserID, otherUserID, currentUserID,
	).Order("created_at asc, id asc").Limit(limit).
		Preload("Sender").Preload("Recipient").
		Find(&messages).Error

	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch messages"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"messages": messages})
}

// canMessage reports whether two users share a borrow request or an
// existing conversation.
func canMessage(a, b string) bool {
	var borrows int64
	database.DB.Model(&models.BorrowRequest{}).
		Where("(requester_id = ? AND owner_id = ?) OR (requester_id = ? AND owner_id = ?)", a, b, b, a).
		Count(&borrows)
	if borrows > 0 {
		return true
	}

	var messages int64
	database.DB.Model(&models.Message{}).
		Where("(sender_id = ? AND recipient_id = ?) OR (sender_id = ? AND recipient_id = ?)", a, b, b, a).
		Count(&messages)
	return messages > 0
}

type SendMessageInput struct {
	RecipientID     string  `json:"recipientId" binding:"required"`
	Content         string  `json:"content" binding:"required"`
	Type            string  `json:"type"`
	AttachmentURL   string  `json:"attachmentUrl"`
	ClientMessageID *string `json:"clientMessageId"`
}

// SendMessage POST /chat/messages
func SendMessage(c *gin.Context) {
	senderID := c.MustGet("userId").(string)

	var req SendMessageInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	if req.RecipientID == senderID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cannot message yourself"})
		return
	}

	msgType := req.Type
	if msgType == "" {
		msgType = models.MessageTypeText
	}
	if !models.IsValidMessageType(msgType) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown message type"})
		return
	}

	content, err := SanitizeMessageContent(req.Content, msgType)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var recipient models.User
	if err := database.DB.Select("id", "is_blocked").First(&recipient, "id = ?", req.RecipientID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Recipient not found"})
		return
	}

	// Messaging is unlocked by a borrow request between the two parties
	// (either direction, any status) or an existing thread
	if !canMessage(senderID, req.RecipientID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "You can only message users you have a borrow request with"})
		return
	}

	// Idempotent resend: return the existing row for a known client id
	if req.ClientMessageID != nil && *req.ClientMessageID != "" {
		var existing models.Message
		if err := database.DB.
			Where("sender_id = ? AND client_message_id = ?", senderID, *req.ClientMessageID).
			First(&existing).Error; err == nil {
			c.JSON(http.StatusOK, gin.H{"message": existing, "duplicate": true})
			return
		}
	}

	msg := models.Message{
		SenderID:        senderID,
		RecipientID:     req.RecipientID,
		Content:         content,
		Type:            msgType,
		AttachmentURL:   req.AttachmentURL,
		ClientMessageID: req.ClientMessageID,
		CreatedAt:       time.Now(),
	}

	if err := database.DB.Create(&msg).Error; err != nil {
		// A concurrent resend can lose the race to the unique index on
		// (sender, client id); hand back the row that won.
		if req.ClientMessageID != nil && *req.ClientMessageID != "" {
			var existing models.Message
			if database.DB.
				Where("sender_id = ? AND client_message_id = ?", senderID, *req.ClientMessageID).
				First(&existing).Error == nil {
				c.JSON(http.StatusOK, gin.H{"message": existing, "duplicate": true})
				return
			}
		}
		if isUniqueViolation(err) {
			c.JSON(http.StatusConflict, gin.H{"error": "Duplicate message"})
			return
		}
		logger.Error().Err(err).Msg("Failed to persist message")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to send message"})
		return
	}

	database.DB.Preload("Sender").Preload("Recipient").First(&msg, "id = ?", msg.ID)

	// Real-time delivery to both parties (sender included for multi-device)
	if SocketServer != nil {
		data := map[string]interface{}{
			"message": msg,
		}
		SocketServer.BroadcastToRoom("/", msg.RecipientID, "new_message", data)
		SocketServer.BroadcastToRoom("/", msg.SenderID, "new_message", data)
	}

	// Offline recipients get a notification record so the message still
	// surfaces in their bell on next visit
	if !IsUserOnline(msg.RecipientID) {
		CreateNotification(database.DB, models.Notification{
			UserID:   msg.RecipientID,
			ActorID:  senderID,
			Type:     models.NotificationTypeChatMessage,
			Priority: models.PriorityNormal,
			Message:  msg.Sender.Name + " sent you a message",
		})
	}

	c.JSON(http.StatusOK, gin.H{"message": msg})
}

// MarkRead POST /chat/read/:senderId - marks messages from a sender as read
func MarkRead(c *gin.Context) {
	currentUserID := c.MustGet("userId").(string)
	senderID := c.Param("senderId")

	now := time.Now()
	result := database.DB.Model(&models.Message{}).
		Where("sender_id = ? AND recipient_id = ? AND is_read = ?", senderID, currentUserID, false).
		Updates(map[string]interface{}{
			"is_read": true,
			"read_at": &now,
		})

	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to mark read"})
		return
	}

	// Tell the sender their messages were read
	if SocketServer != nil && result.RowsAffected > 0 {
		SocketServer.BroadcastToRoom("/", senderID, "message_read", map[string]interface{}{
			"senderId": currentUserID, // The one who read the messages
		})
	}

	c.JSON(http.StatusOK, gin.H{"markedRead": result.RowsAffected})
}
