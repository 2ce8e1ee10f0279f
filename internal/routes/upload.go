package routes

import (
	"github.com/TandelPriyanshi/BorrowBase-sub000/internal/handlers"
	"github.com/TandelPriyanshi/BorrowBase-sub000/internal/middleware"
	"github.com/gin-gonic/gin"
)

func RegisterUploadRoutes(r gin.IRouter) {
	uploads := r.Group("/uploads")
	uploads.Use(middleware.AuthMiddleware(), middleware.UploadRateLimit())
	{
		uploads.POST("/resource-photo", handlers.UploadResourcePhoto)
		uploads.POST("/avatar", handlers.UploadAvatar)
		uploads.POST("/chat-attachment", handlers.UploadChatAttachment)
	}
}
