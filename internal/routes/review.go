package routes

import (
	"github.com/TandelPriyanshi/BorrowBase-sub000/internal/handlers"
	"github.com/TandelPriyanshi/BorrowBase-sub000/internal/middleware"
	"github.com/TandelPriyanshi/BorrowBase-sub000/internal/models"
	"github.com/gin-gonic/gin"
)

func RegisterReviewRoutes(r gin.IRouter) {
	reviews := r.Group("/reviews")
	reviews.Use(middleware.AuthMiddleware(), middleware.FeatureGate(models.SettingFeatureReviews, "Reviews"))
	{
		reviews.POST("", handlers.CreateReview)
	}
}
