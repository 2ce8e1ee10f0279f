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

func TestCreateResource_UnknownCategory(t *testing.T) {
	SetupTestDB()
	gin.SetMode(gin.TestMode)

	user := models.User{ID: "u_rc1", Username: "u_rc1", Email: "u_rc1@example.com"}
	database.DB.Create(&user)

	body, _ := json.Marshal(gin.H{"title": "Mystery Box", "category": "contraband"})
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest("POST", "/api/resources", bytes.NewBuffer(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Set("userId", "u_rc1")

	CreateResource(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateResource_Success(t *testing.T) {
	SetupTestDB()
	gin.SetMode(gin.TestMode)

	user := models.User{ID: "u_rc2", Username: "u_rc2", Email: "u_rc2@example.com"}
	database.DB.Create(&user)

	body, _ := json.Marshal(gin.H{
		"title":     "Pressure Washer",
		"category":  "tools",
		"condition": "good",
		"photoUrls": []string{"https://cdn.example.com/a.jpg", "https://cdn.example.com/b.jpg"},
	})
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest("POST", "/api/resources", bytes.NewBuffer(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Set("userId", "u_rc2")

	CreateResource(c)

	assert.Equal(t, http.StatusCreated, w.Code)

	var resource models.Resource
	err := database.DB.Preload("Photos").Where("owner_id = ?", "u_rc2").First(&resource).Error
	assert.NoError(t, err)
	assert.Equal(t, models.ResourceStatusAvailable, resource.Status)
	assert.Len(t, resource.Photos, 2)
	if len(resource.Photos) == 2 {
		assert.True(t, resource.Photos[0].IsPrimary)
		assert.False(t, resource.Photos[1].IsPrimary)
	}
}

func TestUpdateResource_NonOwnerForbidden(t *testing.T) {
	SetupTestDB()
	gin.SetMode(gin.TestMode)

	owner := models.User{ID: "u_ru1", Username: "u_ru1", Email: "u_ru1@example.com"}
	other := models.User{ID: "u_ru2", Username: "u_ru2", Email: "u_ru2@example.com"}
	database.DB.Create(&owner)
	database.DB.Create(&other)
	database.DB.Create(&models.Resource{ID: "res_ru1", OwnerID: "u_ru1", Title: "Kayak", Category: "outdoor", Condition: models.ConditionGood, Status: models.ResourceStatusAvailable})

	body, _ := json.Marshal(gin.H{"title": "My Kayak Now"})
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest("PUT", "/api/resources/res_ru1", bytes.NewBuffer(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Params = gin.Params{{Key: "id", Value: "res_ru1"}}
	c.Set("userId", "u_ru2")

	UpdateResource(c)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestUpdateResource_CannotUnlistWhileBorrowed(t *testing.T) {
	SetupTestDB()
	gin.SetMode(gin.TestMode)

	owner := models.User{ID: "u_ru3", Username: "u_ru3", Email: "u_ru3@example.com"}
	database.DB.Create(&owner)
	database.DB.Create(&models.Resource{ID: "res_ru3", OwnerID: "u_ru3", Title: "Sander", Category: "tools", Condition: models.ConditionGood, Status: models.ResourceStatusBorrowed})

	body, _ := json.Marshal(gin.H{"status": "unlisted"})
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest("PUT", "/api/resources/res_ru3", bytes.NewBuffer(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Params = gin.Params{{Key: "id", Value: "res_ru3"}}
	c.Set("userId", "u_ru3")

	UpdateResource(c)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestDeleteResource_BlockedByActiveBorrow(t *testing.T) {
	SetupTestDB()
	gin.SetMode(gin.TestMode)

	owner := models.User{ID: "u_rd1", Username: "u_rd1", Email: "u_rd1@example.com"}
	requester := models.User{ID: "u_rd2", Username: "u_rd2", Email: "u_rd2@example.com"}
	database.DB.Create(&owner)
	database.DB.Create(&requester)
	database.DB.Create(&models.Resource{ID: "res_rd1", OwnerID: "u_rd1", Title: "Trailer", Category: "other", Condition: models.ConditionFair, Status: models.ResourceStatusBorrowed})
	database.DB.Create(&models.BorrowRequest{
		ID: "br_rd1", ResourceID: "res_rd1", RequesterID: "u_rd2", OwnerID: "u_rd1",
		StartDate: time.Now(), EndDate: time.Now().Add(48 * time.Hour), Status: models.BorrowStatusApproved,
	})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest("DELETE", "/api/resources/res_rd1", nil)
	c.Params = gin.Params{{Key: "id", Value: "res_rd1"}}
	c.Set("userId", "u_rd1")

	DeleteResource(c)

	assert.Equal(t, http.StatusConflict, w.Code)

	var count int64
	database.DB.Model(&models.Resource{}).Where("id = ?", "res_rd1").Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestDeleteResource_RejectsPendingRequests(t *testing.T) {
	SetupTestDB()
	gin.SetMode(gin.TestMode)

	owner := models.User{ID: "u_rd3", Username: "u_rd3", Email: "u_rd3@example.com"}
	requester := models.User{ID: "u_rd4", Username: "u_rd4", Email: "u_rd4@example.com"}
	database.DB.Create(&owner)
	database.DB.Create(&requester)
	database.DB.Create(&models.Resource{ID: "res_rd3", OwnerID: "u_rd3", Title: "Telescope", Category: "other", Condition: models.ConditionLikeNew, Status: models.ResourceStatusAvailable})
	database.DB.Create(&models.BorrowRequest{
		ID: "br_rd3", ResourceID: "res_rd3", RequesterID: "u_rd4", OwnerID: "u_rd3",
		StartDate: time.Now().Add(24 * time.Hour), EndDate: time.Now().Add(72 * time.Hour), Status: models.BorrowStatusPending,
	})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest("DELETE", "/api/resources/res_rd3", nil)
	c.Params = gin.Params{{Key: "id", Value: "res_rd3"}}
	c.Set("userId", "u_rd3")

	DeleteResource(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var request models.BorrowRequest
	database.DB.First(&request, "id = ?", "br_rd3")
	assert.Equal(t, models.BorrowStatusRejected, request.Status)

	// Soft deleted, default scope hides it
	var count int64
	database.DB.Model(&models.Resource{}).Where("id = ?", "res_rd3").Count(&count)
	assert.Equal(t, int64(0), count)
}
