package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/TandelPriyanshi/BorrowBase-sub000/internal/database"
	"github.com/TandelPriyanshi/BorrowBase-sub000/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupMiddlewareDB(t *testing.T) {
	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := db.AutoMigrate(&models.SystemSetting{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	database.DB = db
}

func featureGateStatus(key string) int {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest("GET", "/api/chat/conversations", nil)

	handler := FeatureGate(key, "Chat")
	handler(c)
	if c.IsAborted() {
		return w.Code
	}
	return http.StatusOK
}

// A deployment that never ran the seeder has no feature rows at all;
// the gate must let traffic through until an admin disables a feature.
func TestFeatureGateDefaultsOpen(t *testing.T) {
	setupMiddlewareDB(t)
	database.DB.Where("key = ?", models.SettingFeatureChat).Delete(&models.SystemSetting{})

	assert.Equal(t, http.StatusOK, featureGateStatus(models.SettingFeatureChat))
}

func TestFeatureGateHonorsExplicitToggle(t *testing.T) {
	setupMiddlewareDB(t)

	setting := models.SystemSetting{Key: models.SettingFeatureChat, Value: "false"}
	database.DB.Save(&setting)
	assert.Equal(t, http.StatusForbidden, featureGateStatus(models.SettingFeatureChat))

	setting.Value = "true"
	database.DB.Save(&setting)
	assert.Equal(t, http.StatusOK, featureGateStatus(models.SettingFeatureChat))
}
