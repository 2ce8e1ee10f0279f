package handlers

import (
	"net/http"
	"time"

	"github.com/TandelPriyanshi/BorrowBase-sub000/internal/database"
	"github.com/TandelPriyanshi/BorrowBase-sub000/internal/models"
	"github.com/TandelPriyanshi/BorrowBase-sub000/pkg/logger"
	"github.com/TandelPriyanshi/BorrowBase-sub000/pkg/utils"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type BorrowRequestInput struct {
	ResourceID string `json:"resourceId" binding:"required"`
	StartDate  string `json:"startDate" binding:"required"` // RFC3339 or YYYY-MM-DD
	EndDate    string `json:"endDate" binding:"required"`
	Message    string `json:"message"`
}

func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}

// CreateBorrowRequest POST /borrow-requests
func CreateBorrowRequest(c *gin.Context) {
	userID := c.MustGet("userId").(string)

	var input BorrowRequestInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	start, err := parseDate(input.StartDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid startDate"})
		return
	}
	end, err := parseDate(input.EndDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid endDate"})
		return
	}

	// Server-side date checks, not just the frontend's field validation
	today := time.Now().Truncate(24 * time.Hour)
	if start.Before(today) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Start date must not be in the past"})
		return
	}
	if !end.After(start) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "End date must be after start date"})
		return
	}

	var resource models.Resource
	if err := database.DB.First(&resource, "id = ?", input.ResourceID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Resource not found"})
		return
	}
	if resource.OwnerID == userID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "You cannot borrow your own resource"})
		return
	}
	if resource.Status != models.ResourceStatusAvailable {
		c.JSON(http.StatusConflict, gin.H{"error": "Resource is not available"})
		return
	}

	// One open request per requester per resource
	var existing int64
	database.DB.Model(&models.BorrowRequest{}).
		Where("resource_id = ? AND requester_id = ? AND status IN ?",
			input.ResourceID, userID, []models.BorrowStatus{models.BorrowStatusPending, models.BorrowStatusApproved}).
		Count(&existing)
	if existing > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "You already have an open request for this resource"})
		return
	}

	// An approved request overlapping the range blocks new ones
	var approved []models.BorrowRequest
	database.DB.Where("resource_id = ? AND status = ?", input.ResourceID, models.BorrowStatusApproved).
		Find(&approved)
	for i := range approved {
		if approved[i].Overlaps(start, end) {
			c.JSON(http.StatusConflict, gin.H{"error": "Resource is already booked for these dates"})
			return
		}
	}

	request := models.BorrowRequest{
		ResourceID:  input.ResourceID,
		RequesterID: userID,
		OwnerID:     resource.OwnerID,
		StartDate:   start,
		EndDate:     end,
		Status:      models.BorrowStatusPending,
		Message:     utils.SanitizeHTML(utils.TruncateString(input.Message, 500)),
	}

	if err := database.DB.Create(&request).Error; err != nil {
		logger.Error().Err(err).Msg("Failed to create borrow request")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create borrow request"})
		return
	}

	database.DB.Preload("Resource").Preload("Requester").First(&request, "id = ?", request.ID)

	CreateNotification(database.DB, models.Notification{
		UserID:          resource.OwnerID,
		ActorID:         userID,
		Type:            models.NotificationTypeBorrowCreated,
		Priority:        models.PriorityHigh,
		ResourceID:      &resource.ID,
		BorrowRequestID: &request.ID,
		Message:         request.Requester.Name + " wants to borrow \"" + resource.Title + "\"",
	})

	c.JSON(http.StatusCreated, gin.H{"borrowRequest": request})
}

// ListBorrowRequests GET /borrow-requests?role=incoming|outgoing&status=...
func ListBorrowRequests(c *gin.Context) {
	userID := c.MustGet("userId").(string)

	query := database.DB.Model(&models.BorrowRequest{}).
		Preload("Resource").Preload("Resource.Photos").
		Preload("Requester").Preload("Owner")

	switch c.DefaultQuery("role", "incoming") {
	case "incoming":
		query = query.Where("owner_id = ?", userID)
	case "outgoing":
		query = query.Where("requester_id = ?", userID)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "role must be incoming or outgoing"})
		return
	}

	if status := c.Query("status"); status != "" {
		if !models.IsValidBorrowStatus(status) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown status"})
			return
		}
		query = query.Where("status = ?", status)
	}

	var requests []models.BorrowRequest
	if err := query.Order("created_at desc").Find(&requests).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch borrow requests"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"borrowRequests": requests})
}

// GetBorrowRequest GET /borrow-requests/:id (parties only)
func GetBorrowRequest(c *gin.Context) {
	userID := c.MustGet("userId").(string)
	requestID := c.Param("id")

	var request models.BorrowRequest
	if err := database.DB.Preload("Resource").Preload("Resource.Photos").
		Preload("Requester").Preload("Owner").
		First(&request, "id = ?", requestID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Borrow request not found"})
		return
	}

	if request.OwnerID != userID && request.RequesterID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"borrowRequest": request})
}

// UpdateBorrowStatus PUT /borrow-requests/:id/status
// Owner: approve, reject, complete. Requester: cancel.
func UpdateBorrowStatus(c *gin.Context) {
	userID := c.MustGet("userId").(string)
	requestID := c.Param("id")

	var input struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !models.IsValidBorrowStatus(input.Status) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown status"})
		return
	}
	target := models.BorrowStatus(input.Status)

	var request models.BorrowRequest
	if err := database.DB.Preload("Resource").First(&request, "id = ?", requestID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Borrow request not found"})
		return
	}

	// Who may trigger which transition
	switch target {
	case models.BorrowStatusApproved, models.BorrowStatusRejected, models.BorrowStatusCompleted:
		if request.OwnerID != userID {
			c.JSON(http.StatusForbidden, gin.H{"error": "Only the owner can do that"})
			return
		}
	case models.BorrowStatusCancelled:
		if request.RequesterID != userID {
			c.JSON(http.StatusForbidden, gin.H{"error": "Only the requester can cancel"})
			return
		}
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cannot set that status directly"})
		return
	}

	if !models.CanTransition(request.Status, target) {
		c.JSON(http.StatusConflict, gin.H{
			"error": "Cannot move request from " + string(request.Status) + " to " + string(target),
		})
		return
	}

	now := time.Now()

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{"status": target}

		switch target {
		case models.BorrowStatusApproved:
			updates["responded_at"] = &now
			if err := tx.Model(&models.Resource{}).
				Where("id = ?", request.ResourceID).
				Update("status", models.ResourceStatusBorrowed).Error; err != nil {
				return err
			}
			// Other pending requests that overlap the approved window lose
			if err := autoRejectOverlapping(tx, &request, now); err != nil {
				return err
			}
		case models.BorrowStatusRejected:
			updates["responded_at"] = &now
		case models.BorrowStatusCancelled:
			updates["responded_at"] = &now
			if request.Status == models.BorrowStatusApproved {
				if err := tx.Model(&models.Resource{}).
					Where("id = ?", request.ResourceID).
					Update("status", models.ResourceStatusAvailable).Error; err != nil {
					return err
				}
			}
		case models.BorrowStatusCompleted:
			updates["completed_at"] = &now
			if err := tx.Model(&models.Resource{}).
				Where("id = ?", request.ResourceID).
				Update("status", models.ResourceStatusAvailable).Error; err != nil {
				return err
			}
		}

		return tx.Model(&request).Updates(updates).Error
	})

	if err != nil {
		logger.Error().Err(err).Str("request_id", requestID).Msg("Borrow status update failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update borrow request"})
		return
	}

	notifyBorrowTransition(&request, target, userID)

	database.DB.Preload("Resource").Preload("Requester").Preload("Owner").First(&request, "id = ?", requestID)
	c.JSON(http.StatusOK, gin.H{"borrowRequest": request})
}

// autoRejectOverlapping rejects pending requests that overlap the approved
// window and notifies their requesters.
func autoRejectOverlapping(tx *gorm.DB, approved *models.BorrowRequest, now time.Time) error {
	var pending []models.BorrowRequest
	if err := tx.Where("resource_id = ? AND status = ? AND id != ?",
		approved.ResourceID, models.BorrowStatusPending, approved.ID).
		Find(&pending).Error; err != nil {
		return err
	}

	for i := range pending {
		p := &pending[i]
		if !p.Overlaps(approved.StartDate, approved.EndDate) {
			continue
		}
		if err := tx.Model(p).Updates(map[string]interface{}{
			"status":       models.BorrowStatusRejected,
			"responded_at": &now,
		}).Error; err != nil {
			return err
		}
		CreateNotification(tx, models.Notification{
			UserID:          p.RequesterID,
			ActorID:         approved.OwnerID,
			Type:            models.NotificationTypeBorrowRejected,
			Priority:        models.PriorityNormal,
			ResourceID:      &approved.ResourceID,
			BorrowRequestID: &p.ID,
			Message:         "\"" + approved.Resource.Title + "\" was lent to someone else for those dates",
		})
	}
	return nil
}

// notifyBorrowTransition tells the counterparty what happened
func notifyBorrowTransition(request *models.BorrowRequest, target models.BorrowStatus, actorID string) {
	title := request.Resource.Title

	var (
		recipient string
		ntype     models.NotificationType
		message   string
	)

	switch target {
	case models.BorrowStatusApproved:
		recipient = request.RequesterID
		ntype = models.NotificationTypeBorrowApproved
		message = "Your request to borrow \"" + title + "\" was approved"
	case models.BorrowStatusRejected:
		recipient = request.RequesterID
		ntype = models.NotificationTypeBorrowRejected
		message = "Your request to borrow \"" + title + "\" was declined"
	case models.BorrowStatusCancelled:
		recipient = request.OwnerID
		ntype = models.NotificationTypeBorrowCancelled
		message = "The request for \"" + title + "\" was cancelled"
	case models.BorrowStatusCompleted:
		recipient = request.RequesterID
		ntype = models.NotificationTypeBorrowCompleted
		message = "The borrow of \"" + title + "\" is complete. Leave a review!"
	default:
		return
	}

	CreateNotification(database.DB, models.Notification{
		UserID:          recipient,
		ActorID:         actorID,
		Type:            ntype,
		Priority:        models.PriorityHigh,
		ResourceID:      &request.ResourceID,
		BorrowRequestID: &request.ID,
		Message:         message,
	})
}
