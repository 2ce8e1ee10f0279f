package routes

import (
	"github.com/TandelPriyanshi/BorrowBase-sub000/internal/handlers"
	"github.com/TandelPriyanshi/BorrowBase-sub000/internal/middleware"
	"github.com/gin-gonic/gin"
)

// RegisterAdminRoutes wires the admin surface. Admin routes bypass
// maintenance mode so operators can turn it off again.
func RegisterAdminRoutes(r gin.IRouter) {
	admin := r.Group("/admin")
	admin.Use(middleware.AuthMiddleware(), middleware.AdminOnly())
	{
		admin.POST("/announcements", handlers.CreateAnnouncement)

		admin.PUT("/users/:id/block", handlers.BlockUser)
		admin.DELETE("/users/:id/block", handlers.UnblockUser)

		admin.GET("/settings", handlers.GetSettings)
		admin.PUT("/settings", handlers.UpdateSettings)
	}
}
