package handlers

import (
	"net/http"

	"github.com/TandelPriyanshi/BorrowBase-sub000/internal/database"
	"github.com/TandelPriyanshi/BorrowBase-sub000/internal/models"
	"github.com/TandelPriyanshi/BorrowBase-sub000/pkg/utils"
	"github.com/gin-gonic/gin"
)

// GetProfile GET /users/profile - the authenticated user's own record
func GetProfile(c *gin.Context) {
	userID := c.MustGet("userId").(string)

	var user models.User
	if err := database.DB.First(&user, "id = ?", userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user})
}

type UpdateProfileInput struct {
	Name      string   `json:"name"`
	Bio       string   `json:"bio"`
	Phone     string   `json:"phone"`
	AvatarURL string   `json:"avatarUrl"`
	Address   string   `json:"address"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

// UpdateProfile PUT /users/profile
func UpdateProfile(c *gin.Context) {
	userID := c.MustGet("userId").(string)

	var input UpdateProfileInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var user models.User
	if err := database.DB.First(&user, "id = ?", userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	if input.Name != "" {
		user.Name = utils.TruncateString(input.Name, 100)
	}
	user.Bio = utils.SanitizeHTML(utils.TruncateString(input.Bio, 500))
	user.Phone = utils.TruncateString(input.Phone, 20)
	if input.AvatarURL != "" {
		user.AvatarURL = input.AvatarURL
	}
	if input.Address != "" {
		user.Address = utils.TruncateString(input.Address, 200)
	}
	if input.Latitude != nil && input.Longitude != nil {
		if *input.Latitude < -90 || *input.Latitude > 90 || *input.Longitude < -180 || *input.Longitude > 180 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid coordinates"})
			return
		}
		user.Latitude = input.Latitude
		user.Longitude = input.Longitude
	}

	if err := database.DB.Save(&user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update profile"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user})
}

// GetPublicProfile GET /users/:id - profile as other users see it
func GetPublicProfile(c *gin.Context) {
	targetID := c.Param("id")

	var user models.User
	if err := database.DB.First(&user, "id = ?", targetID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	var listings []models.Resource
	database.DB.Preload("Photos").
		Where("owner_id = ? AND status != ?", targetID, models.ResourceStatusUnlisted).
		Order("created_at desc").
		Find(&listings)

	var completedLends int64
	database.DB.Model(&models.BorrowRequest{}).
		Where("owner_id = ? AND status = ?", targetID, models.BorrowStatusCompleted).
		Count(&completedLends)

	c.JSON(http.StatusOK, gin.H{
		"user": gin.H{
			"id":            user.ID,
			"name":          user.Name,
			"username":      user.Username,
			"bio":           user.Bio,
			"avatarUrl":     user.AvatarURL,
			"address":       user.Address,
			"ratingAverage": user.RatingAverage,
			"ratingCount":   user.RatingCount,
			"createdAt":     user.CreatedAt,
		},
		"resources":      listings,
		"completedLends": completedLends,
		"isOnline":       IsUserOnline(user.ID),
	})
}
