package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/TandelPriyanshi/BorrowBase-sub000/internal/database"
	"github.com/TandelPriyanshi/BorrowBase-sub000/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func reviewBody(borrowRequestID string, rating int, comment string) *bytes.Buffer {
	body, _ := json.Marshal(gin.H{
		"borrowRequestId": borrowRequestID,
		"rating":          rating,
		"comment":         comment,
	})
	return bytes.NewBuffer(body)
}

func seedCompletedBorrow(suffix string) (owner, requester models.User, request models.BorrowRequest) {
	owner = models.User{ID: "own_rv" + suffix, Username: "own_rv" + suffix, Email: "own_rv" + suffix + "@example.com", Name: "Owner"}
	requester = models.User{ID: "req_rv" + suffix, Username: "req_rv" + suffix, Email: "req_rv" + suffix + "@example.com", Name: "Requester"}
	database.DB.Create(&owner)
	database.DB.Create(&requester)

	resource := models.Resource{ID: "res_rv" + suffix, OwnerID: owner.ID, Title: "Saw", Category: "tools", Condition: models.ConditionGood, Status: models.ResourceStatusAvailable}
	database.DB.Create(&resource)

	now := time.Now()
	request = models.BorrowRequest{
		ID: "brv" + suffix, ResourceID: resource.ID, RequesterID: requester.ID, OwnerID: owner.ID,
		StartDate: now.Add(-72 * time.Hour), EndDate: now.Add(-24 * time.Hour),
		Status: models.BorrowStatusCompleted, CompletedAt: &now,
	}
	database.DB.Create(&request)
	return
}

func TestCreateReview_Success(t *testing.T) {
	SetupTestDB()
	gin.SetMode(gin.TestMode)

	owner, requester, request := seedCompletedBorrow("1")

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest("POST", "/api/reviews", reviewBody(request.ID, 5, "Great borrower, returned early"))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Set("userId", owner.ID)

	CreateReview(c)

	assert.Equal(t, http.StatusCreated, w.Code)

	var review models.Review
	err := database.DB.Where("borrow_request_id = ? AND reviewer_id = ?", request.ID, owner.ID).First(&review).Error
	assert.NoError(t, err)
	assert.Equal(t, requester.ID, review.RevieweeID)
	assert.Equal(t, 5, review.Rating)

	// Aggregate is recomputed in the same transaction
	var reviewee models.User
	database.DB.First(&reviewee, "id = ?", requester.ID)
	assert.Equal(t, float64(5), reviewee.RatingAverage)
	assert.Equal(t, 1, reviewee.RatingCount)
}

func TestCreateReview_NotCompleted(t *testing.T) {
	SetupTestDB()
	gin.SetMode(gin.TestMode)

	owner, _, request := seedCompletedBorrow("2")
	database.DB.Model(&models.BorrowRequest{}).Where("id = ?", request.ID).
		Update("status", models.BorrowStatusApproved)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest("POST", "/api/reviews", reviewBody(request.ID, 4, ""))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Set("userId", owner.ID)

	CreateReview(c)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestCreateReview_StrangerForbidden(t *testing.T) {
	SetupTestDB()
	gin.SetMode(gin.TestMode)

	_, _, request := seedCompletedBorrow("3")
	stranger := models.User{ID: "stranger_rv3", Username: "stranger_rv3", Email: "stranger_rv3@example.com"}
	database.DB.Create(&stranger)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest("POST", "/api/reviews", reviewBody(request.ID, 3, ""))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Set("userId", stranger.ID)

	CreateReview(c)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestCreateReview_InvalidRating(t *testing.T) {
	SetupTestDB()
	gin.SetMode(gin.TestMode)

	owner, _, request := seedCompletedBorrow("4")

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest("POST", "/api/reviews", reviewBody(request.ID, 6, ""))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Set("userId", owner.ID)

	CreateReview(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateReview_OncePerDirection(t *testing.T) {
	SetupTestDB()
	gin.SetMode(gin.TestMode)

	owner, _, request := seedCompletedBorrow("5")

	w1 := httptest.NewRecorder()
	c1, _ := gin.CreateTestContext(w1)
	c1.Request, _ = http.NewRequest("POST", "/api/reviews", reviewBody(request.ID, 5, "first"))
	c1.Request.Header.Set("Content-Type", "application/json")
	c1.Set("userId", owner.ID)
	CreateReview(c1)
	assert.Equal(t, http.StatusCreated, w1.Code)

	w2 := httptest.NewRecorder()
	c2, _ := gin.CreateTestContext(w2)
	c2.Request, _ = http.NewRequest("POST", "/api/reviews", reviewBody(request.ID, 1, "second"))
	c2.Request.Header.Set("Content-Type", "application/json")
	c2.Set("userId", owner.ID)
	CreateReview(c2)
	assert.NotEqual(t, http.StatusCreated, w2.Code)

	// Only the first review lands
	var count int64
	database.DB.Model(&models.Review{}).
		Where("borrow_request_id = ? AND reviewer_id = ?", request.ID, owner.ID).
		Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestGetUserReviews(t *testing.T) {
	SetupTestDB()
	gin.SetMode(gin.TestMode)

	owner, requester, request := seedCompletedBorrow("6")
	database.DB.Create(&models.Review{
		ID: "rv6", BorrowRequestID: request.ID, ReviewerID: owner.ID, RevieweeID: requester.ID,
		Rating: 4, Comment: "All good",
	})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest("GET", "/api/users/"+requester.ID+"/reviews", nil)
	c.Params = gin.Params{{Key: "id", Value: requester.ID}}

	GetUserReviews(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var response struct {
		Reviews []models.Review `json:"reviews"`
	}
	json.Unmarshal(w.Body.Bytes(), &response)
	assert.Len(t, response.Reviews, 1)
}
