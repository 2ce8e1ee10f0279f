package routes

import (
	"github.com/TandelPriyanshi/BorrowBase-sub000/internal/handlers"
	"github.com/TandelPriyanshi/BorrowBase-sub000/internal/middleware"
	"github.com/gin-gonic/gin"
)

func RegisterAuthRoutes(r gin.IRouter) {
	r.POST("/register", middleware.RequireRegistrationOpen(), handlers.Register)
	r.POST("/login", handlers.Login)
	r.POST("/refresh", handlers.Refresh)
	r.POST("/logout", middleware.AuthMiddleware(), handlers.Logout)

	// OAuth
	r.GET("/google/login", handlers.GoogleLogin)
	r.GET("/google/callback", handlers.GoogleCallback)

	// Password Reset
	r.POST("/forgot-password", handlers.ForgotPassword)
	r.POST("/reset-password", handlers.ResetPassword)

	// Utils
	r.GET("/check-username", handlers.CheckUsername)
}
