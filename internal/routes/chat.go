package routes

import (
	"github.com/TandelPriyanshi/BorrowBase-sub000/internal/handlers"
	"github.com/TandelPriyanshi/BorrowBase-sub000/internal/middleware"
	"github.com/TandelPriyanshi/BorrowBase-sub000/internal/models"
	"github.com/gin-gonic/gin"
)

func RegisterChatRoutes(r gin.IRouter) {
	chat := r.Group("/chat")
	// Strict auth for chat even if the parent group is optional
	chat.Use(middleware.AuthMiddleware(), middleware.FeatureGate(models.SettingFeatureChat, "Direct Messaging"))
	{
		chat.GET("/conversations", handlers.GetConversations)
		chat.GET("/messages", handlers.GetMessages) // ?userId=...
		chat.POST("/messages", middleware.ChatRateLimit(), handlers.SendMessage)
		chat.POST("/read/:senderId", handlers.MarkRead)
	}
}
