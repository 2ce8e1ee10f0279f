package routes

import (
	"github.com/TandelPriyanshi/BorrowBase-sub000/internal/handlers"
	"github.com/TandelPriyanshi/BorrowBase-sub000/internal/middleware"
	"github.com/gin-gonic/gin"
)

func RegisterBorrowRoutes(r gin.IRouter) {
	borrow := r.Group("/borrow-requests")
	borrow.Use(middleware.AuthMiddleware())
	{
		borrow.POST("", handlers.CreateBorrowRequest)
		borrow.GET("", handlers.ListBorrowRequests) // ?role=incoming|outgoing&status=...
		borrow.GET("/:id", handlers.GetBorrowRequest)
		borrow.PUT("/:id/status", handlers.UpdateBorrowStatus)
	}
}
