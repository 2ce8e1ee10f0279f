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
	"github.com/TandelPriyanshi/BorrowBase-sub000/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestCreateAnnouncement_QueuesPerUser(t *testing.T) {
	SetupTestDB()
	gin.SetMode(gin.TestMode)

	admin := models.User{ID: "adm_an1", Username: "adm_an1", Email: "adm_an1@example.com", Role: models.RoleAdmin}
	u1 := models.User{ID: "u_an1", Username: "u_an1", Email: "u_an1@example.com"}
	blocked := models.User{ID: "u_an2", Username: "u_an2", Email: "u_an2@example.com", IsBlocked: true}
	database.DB.Create(&admin)
	database.DB.Create(&u1)
	database.DB.Create(&blocked)

	body, _ := json.Marshal(gin.H{"message": "Maintenance tonight at 22:00", "priority": "high"})
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest("POST", "/api/admin/announcements", bytes.NewBuffer(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Set("userId", "adm_an1")

	CreateAnnouncement(c)

	assert.Equal(t, http.StatusCreated, w.Code)

	// Blocked users are skipped
	var forBlocked int64
	database.DB.Model(&models.QueuedNotification{}).
		Where("user_id = ? AND actor_id = ?", "u_an2", "adm_an1").
		Count(&forBlocked)
	assert.Equal(t, int64(0), forBlocked)

	var q models.QueuedNotification
	err := database.DB.Where("user_id = ? AND actor_id = ?", "u_an1", "adm_an1").First(&q).Error
	assert.NoError(t, err)
	assert.Equal(t, models.NotificationTypeSystem, q.Type)
	assert.Equal(t, models.PriorityHigh, q.Priority)

	// The dispatcher turns the queued row into a notification
	d := services.NewDispatcher(database.DB, nil)
	assert.NoError(t, d.ProcessDue())

	var n models.Notification
	err = database.DB.Where("user_id = ? AND type = ?", "u_an1", models.NotificationTypeSystem).First(&n).Error
	assert.NoError(t, err)
	assert.Equal(t, "Maintenance tonight at 22:00", n.Message)
}

func TestCreateAnnouncement_ScheduledStaysQueued(t *testing.T) {
	SetupTestDB()
	gin.SetMode(gin.TestMode)

	admin := models.User{ID: "adm_an2", Username: "adm_an2", Email: "adm_an2@example.com", Role: models.RoleAdmin}
	user := models.User{ID: "u_an3", Username: "u_an3", Email: "u_an3@example.com"}
	database.DB.Create(&admin)
	database.DB.Create(&user)

	scheduleAt := time.Now().Add(2 * time.Hour).Format(time.RFC3339)
	body, _ := json.Marshal(gin.H{"message": "Future announcement", "scheduleAt": scheduleAt})
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest("POST", "/api/admin/announcements", bytes.NewBuffer(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Set("userId", "adm_an2")

	CreateAnnouncement(c)

	assert.Equal(t, http.StatusCreated, w.Code)

	// Not due yet, the dispatcher must leave it alone
	d := services.NewDispatcher(database.DB, nil)
	assert.NoError(t, d.ProcessDue())

	var q models.QueuedNotification
	database.DB.Where("user_id = ? AND message = ?", "u_an3", "Future announcement").First(&q)
	assert.False(t, q.Sent)
	assert.False(t, q.Dead)
}

func TestBlockUser_AdminUnblockable(t *testing.T) {
	SetupTestDB()
	gin.SetMode(gin.TestMode)

	target := models.User{ID: "adm_bl1", Username: "adm_bl1", Email: "adm_bl1@example.com", Role: models.RoleAdmin}
	database.DB.Create(&target)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest("PUT", "/api/admin/users/adm_bl1/block", nil)
	c.Params = gin.Params{{Key: "id", Value: "adm_bl1"}}
	c.Set("userId", "adm_root")

	BlockUser(c)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestBlockUser_SetsFlag(t *testing.T) {
	SetupTestDB()
	gin.SetMode(gin.TestMode)

	target := models.User{ID: "u_bl2", Username: "u_bl2", Email: "u_bl2@example.com"}
	database.DB.Create(&target)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest("PUT", "/api/admin/users/u_bl2/block", nil)
	c.Params = gin.Params{{Key: "id", Value: "u_bl2"}}
	c.Set("userId", "adm_root")

	BlockUser(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var user models.User
	database.DB.First(&user, "id = ?", "u_bl2")
	assert.True(t, user.IsBlocked)
}

func TestUpdateSettings_RejectsUnknownKey(t *testing.T) {
	SetupTestDB()
	gin.SetMode(gin.TestMode)

	body, _ := json.Marshal(gin.H{"secret_backdoor": "true"})
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest("PUT", "/api/admin/settings", bytes.NewBuffer(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Set("userId", "adm_root")

	UpdateSettings(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateSettings_PersistsAllowedKeys(t *testing.T) {
	SetupTestDB()
	gin.SetMode(gin.TestMode)

	body, _ := json.Marshal(gin.H{models.SettingMaintenanceMode: "true", models.SettingMaintenanceETA: "23:00 UTC"})
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest("PUT", "/api/admin/settings", bytes.NewBuffer(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Set("userId", "adm_root")

	UpdateSettings(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var setting models.SystemSetting
	database.DB.First(&setting, "key = ?", models.SettingMaintenanceMode)
	assert.Equal(t, "true", setting.Value)
}
