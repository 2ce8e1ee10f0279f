package routes

import (
	"github.com/TandelPriyanshi/BorrowBase-sub000/internal/handlers"
	"github.com/TandelPriyanshi/BorrowBase-sub000/internal/middleware"
	"github.com/gin-gonic/gin"
)

func RegisterResourceRoutes(r gin.IRouter) {
	resources := r.Group("/resources")
	{
		// Browsing is public (optional auth enables excludeMine)
		resources.GET("", handlers.ListResources)
		resources.GET("/:id", handlers.GetResource)

		protected := resources.Group("")
		protected.Use(middleware.AuthMiddleware())
		{
			protected.POST("", handlers.CreateResource)
			protected.PUT("/:id", handlers.UpdateResource)
			protected.DELETE("/:id", handlers.DeleteResource)
			protected.POST("/:id/photos", handlers.AddResourcePhoto)
			protected.DELETE("/:id/photos/:photoId", handlers.DeleteResourcePhoto)
		}
	}
}
