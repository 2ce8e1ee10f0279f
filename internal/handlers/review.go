package handlers

import (
	"errors"
	"net/http"

	"github.com/TandelPriyanshi/BorrowBase-sub000/internal/database"
	"github.com/TandelPriyanshi/BorrowBase-sub000/internal/models"
	"github.com/TandelPriyanshi/BorrowBase-sub000/internal/services"
	"github.com/TandelPriyanshi/BorrowBase-sub000/pkg/logger"
	"github.com/TandelPriyanshi/BorrowBase-sub000/pkg/utils"
	"github.com/gin-gonic/gin"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

type ReviewInput struct {
	BorrowRequestID string `json:"borrowRequestId" binding:"required"`
	Rating          int    `json:"rating" binding:"required"`
	Comment         string `json:"comment"`
}

// isUniqueViolation detects a Postgres duplicate-key error (SQLSTATE 23505)
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	return false
}

// CreateReview POST /reviews
// Only parties of a completed borrow request, once per direction.
func CreateReview(c *gin.Context) {
	userID := c.MustGet("userId").(string)

	var input ReviewInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if input.Rating < 1 || input.Rating > 5 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Rating must be between 1 and 5"})
		return
	}

	var request models.BorrowRequest
	if err := database.DB.First(&request, "id = ?", input.BorrowRequestID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Borrow request not found"})
		return
	}

	if request.Status != models.BorrowStatusCompleted {
		c.JSON(http.StatusConflict, gin.H{"error": "Reviews open once the borrow is completed"})
		return
	}

	var revieweeID string
	switch userID {
	case request.OwnerID:
		revieweeID = request.RequesterID
	case request.RequesterID:
		revieweeID = request.OwnerID
	default:
		c.JSON(http.StatusForbidden, gin.H{"error": "Only the parties of this borrow can review"})
		return
	}

	review := models.Review{
		BorrowRequestID: request.ID,
		ReviewerID:      userID,
		RevieweeID:      revieweeID,
		Rating:          input.Rating,
		Comment:         utils.SanitizeHTML(utils.TruncateString(input.Comment, 1000)),
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&review).Error; err != nil {
			return err
		}
		return services.RecomputeUserRating(tx, revieweeID)
	})

	if err != nil {
		if isUniqueViolation(err) {
			c.JSON(http.StatusConflict, gin.H{"error": "You already reviewed this borrow"})
			return
		}
		logger.Error().Err(err).Msg("Failed to create review")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create review"})
		return
	}

	database.DB.Preload("Reviewer").First(&review, "id = ?", review.ID)

	CreateNotification(database.DB, models.Notification{
		UserID:          revieweeID,
		ActorID:         userID,
		Type:            models.NotificationTypeReviewReceived,
		Priority:        models.PriorityNormal,
		BorrowRequestID: &request.ID,
		Message:         review.Reviewer.Name + " left you a review",
	})

	c.JSON(http.StatusCreated, gin.H{"review": review})
}

// GetUserReviews GET /users/:id/reviews
func GetUserReviews(c *gin.Context) {
	targetID := c.Param("id")

	var reviews []models.Review
	if err := database.DB.Preload("Reviewer").
		Where("reviewee_id = ?", targetID).
		Order("created_at desc").
		Limit(100).
		Find(&reviews).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch reviews"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"reviews": reviews})
}
