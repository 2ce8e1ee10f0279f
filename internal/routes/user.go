package routes

import (
	"github.com/TandelPriyanshi/BorrowBase-sub000/internal/handlers"
	"github.com/TandelPriyanshi/BorrowBase-sub000/internal/middleware"
	"github.com/gin-gonic/gin"
)

func RegisterUserRoutes(r gin.IRouter) {
	users := r.Group("/users")
	{
		protected := users.Group("")
		protected.Use(middleware.AuthMiddleware())
		{
			protected.GET("/profile", handlers.GetProfile)
			protected.PUT("/profile", handlers.UpdateProfile)
		}

		// Public profile pages
		users.GET("/:id", handlers.GetPublicProfile)
		users.GET("/:id/reviews", handlers.GetUserReviews)
	}
}
