package handlers

import (
	"net/http"
	"strconv"

	"github.com/TandelPriyanshi/BorrowBase-sub000/internal/database"
	"github.com/TandelPriyanshi/BorrowBase-sub000/internal/models"
	"github.com/TandelPriyanshi/BorrowBase-sub000/pkg/utils"
	"github.com/gin-gonic/gin"
)

type ResourceInput struct {
	Title       string   `json:"title" binding:"required"`
	Description string   `json:"description"`
	Category    string   `json:"category" binding:"required"`
	Condition   string   `json:"condition"`
	PhotoURLs   []string `json:"photoUrls"`
}

// CreateResource POST /resources
func CreateResource(c *gin.Context) {
	userID := c.MustGet("userId").(string)

	var input ResourceInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if len(input.Title) < 3 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Title must be at least 3 characters"})
		return
	}
	if !models.IsValidCategory(input.Category) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown category"})
		return
	}
	condition := models.ConditionGood
	if input.Condition != "" {
		if !models.IsValidCondition(input.Condition) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown condition"})
			return
		}
		condition = models.ResourceCondition(input.Condition)
	}

	resource := models.Resource{
		OwnerID:     userID,
		Title:       utils.SanitizeHTML(utils.TruncateString(input.Title, 120)),
		Description: utils.SanitizeHTML(utils.TruncateString(input.Description, 2000)),
		Category:    input.Category,
		Condition:   condition,
		Status:      models.ResourceStatusAvailable,
	}

	for i, url := range input.PhotoURLs {
		if i >= 10 {
			break
		}
		resource.Photos = append(resource.Photos, models.ResourcePhoto{
			URL:       url,
			Position:  i,
			IsPrimary: i == 0,
		})
	}

	if err := database.DB.Create(&resource).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create resource"})
		return
	}

	database.CacheInvalidate("resources:*")

	c.JSON(http.StatusCreated, gin.H{"resource": resource})
}

// ListResources GET /resources with category/status/condition/owner/q filters
func ListResources(c *gin.Context) {
	query := database.DB.Model(&models.Resource{}).Preload("Photos").Preload("Owner")

	if category := c.Query("category"); category != "" {
		query = query.Where("category = ?", category)
	}
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	} else {
		query = query.Where("status != ?", models.ResourceStatusUnlisted)
	}
	if condition := c.Query("condition"); condition != "" {
		query = query.Where("condition = ?", condition)
	}
	if owner := c.Query("owner"); owner != "" {
		query = query.Where("owner_id = ?", owner)
	}
	if q := c.Query("q"); q != "" {
		pattern := utils.SanitizeSearchQuery(q)
		query = query.Where("title ILIKE ? OR description ILIKE ?", pattern, pattern)
	}
	// Hide the caller's own listings from browse when asked (the frontend's
	// "browse" tab passes excludeMine=true)
	if c.Query("excludeMine") == "true" {
		if userID, exists := c.Get("userId"); exists {
			query = query.Where("owner_id != ?", userID)
		}
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if limit < 1 || limit > 100 {
		limit = 20
	}
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}

	var total int64
	query.Count(&total)

	var resources []models.Resource
	if err := query.Order("created_at desc").Limit(limit).Offset((page - 1) * limit).Find(&resources).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch resources"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"resources": resources,
		"total":     total,
		"page":      page,
		"limit":     limit,
	})
}

// GetResource GET /resources/:id
func GetResource(c *gin.Context) {
	resourceID := c.Param("id")

	var resource models.Resource
	if err := database.DB.Preload("Photos").Preload("Owner").First(&resource, "id = ?", resourceID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Resource not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"resource": resource})
}

// UpdateResource PUT /resources/:id (owner only)
func UpdateResource(c *gin.Context) {
	userID := c.MustGet("userId").(string)
	resourceID := c.Param("id")

	var resource models.Resource
	if err := database.DB.First(&resource, "id = ?", resourceID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Resource not found"})
		return
	}
	if resource.OwnerID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only the owner can edit this resource"})
		return
	}

	var input struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		Category    string `json:"category"`
		Condition   string `json:"condition"`
		Status      string `json:"status"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if input.Title != "" {
		if len(input.Title) < 3 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Title must be at least 3 characters"})
			return
		}
		resource.Title = utils.SanitizeHTML(utils.TruncateString(input.Title, 120))
	}
	if input.Description != "" {
		resource.Description = utils.SanitizeHTML(utils.TruncateString(input.Description, 2000))
	}
	if input.Category != "" {
		if !models.IsValidCategory(input.Category) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown category"})
			return
		}
		resource.Category = input.Category
	}
	if input.Condition != "" {
		if !models.IsValidCondition(input.Condition) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown condition"})
			return
		}
		resource.Condition = models.ResourceCondition(input.Condition)
	}
	if input.Status != "" {
		// Owners may list/unlist; "borrowed" is managed by the borrow flow
		switch models.ResourceStatus(input.Status) {
		case models.ResourceStatusAvailable, models.ResourceStatusUnlisted:
			if resource.Status == models.ResourceStatusBorrowed {
				c.JSON(http.StatusConflict, gin.H{"error": "Resource is currently borrowed"})
				return
			}
			resource.Status = models.ResourceStatus(input.Status)
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status"})
			return
		}
	}

	if err := database.DB.Save(&resource).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update resource"})
		return
	}

	database.CacheInvalidate("resources:*")

	c.JSON(http.StatusOK, gin.H{"resource": resource})
}

// DeleteResource DELETE /resources/:id (owner only, blocked while borrowed)
func DeleteResource(c *gin.Context) {
	userID := c.MustGet("userId").(string)
	resourceID := c.Param("id")

	var resource models.Resource
	if err := database.DB.First(&resource, "id = ?", resourceID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Resource not found"})
		return
	}
	if resource.OwnerID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only the owner can delete this resource"})
		return
	}

	var openBorrows int64
	database.DB.Model(&models.BorrowRequest{}).
		Where("resource_id = ? AND status = ?", resourceID, models.BorrowStatusApproved).
		Count(&openBorrows)
	if openBorrows > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "Resource has an active borrow and cannot be deleted"})
		return
	}

	// Pending requests for a deleted listing are pointless, close them out
	database.DB.Model(&models.BorrowRequest{}).
		Where("resource_id = ? AND status = ?", resourceID, models.BorrowStatusPending).
		Update("status", models.BorrowStatusRejected)

	database.DB.Delete(&resource)
	database.CacheInvalidate("resources:*")

	c.JSON(http.StatusOK, gin.H{"message": "Resource deleted"})
}

// AddResourcePhoto POST /resources/:id/photos
func AddResourcePhoto(c *gin.Context) {
	userID := c.MustGet("userId").(string)
	resourceID := c.Param("id")

	var resource models.Resource
	if err := database.DB.Preload("Photos").First(&resource, "id = ?", resourceID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Resource not found"})
		return
	}
	if resource.OwnerID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only the owner can add photos"})
		return
	}
	if len(resource.Photos) >= 10 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Photo limit reached"})
		return
	}

	var input struct {
		URL       string `json:"url" binding:"required"`
		IsPrimary bool   `json:"isPrimary"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	photo := models.ResourcePhoto{
		ResourceID: resourceID,
		URL:        input.URL,
		Position:   len(resource.Photos),
		IsPrimary:  input.IsPrimary || len(resource.Photos) == 0,
	}

	if photo.IsPrimary {
		database.DB.Model(&models.ResourcePhoto{}).
			Where("resource_id = ?", resourceID).
			Update("is_primary", false)
	}

	if err := database.DB.Create(&photo).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add photo"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"photo": photo})
}

// DeleteResourcePhoto DELETE /resources/:id/photos/:photoId
func DeleteResourcePhoto(c *gin.Context) {
	userID := c.MustGet("userId").(string)
	resourceID := c.Param("id")
	photoID := c.Param("photoId")

	var resource models.Resource
	if err := database.DB.First(&resource, "id = ?", resourceID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Resource not found"})
		return
	}
	if resource.OwnerID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only the owner can remove photos"})
		return
	}

	result := database.DB.Where("id = ? AND resource_id = ?", photoID, resourceID).Delete(&models.ResourcePhoto{})
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Photo not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Photo removed"})
}
