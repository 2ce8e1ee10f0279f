package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/TandelPriyanshi/BorrowBase-sub000/internal/database"
	"github.com/TandelPriyanshi/BorrowBase-sub000/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"
)

func registerBody(name, email, username, password string) *bytes.Buffer {
	body, _ := json.Marshal(gin.H{
		"name":     name,
		"email":    email,
		"username": username,
		"password": password,
	})
	return bytes.NewBuffer(body)
}

func TestRegister_WeakPassword(t *testing.T) {
	SetupTestDB()
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest("POST", "/api/auth/register", registerBody("Weak", "weak@example.com", "weak_pw", "password"))
	c.Request.Header.Set("Content-Type", "application/json")

	Register(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRegister_InvalidUsername(t *testing.T) {
	SetupTestDB()
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest("POST", "/api/auth/register", registerBody("Bad", "badname@example.com", "no spaces!", "Str0ng!Pass"))
	c.Request.Header.Set("Content-Type", "application/json")

	Register(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRegister_Success(t *testing.T) {
	SetupTestDB()
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest("POST", "/api/auth/register", registerBody("New User", "newuser_auth@example.com", "newuser_auth", "Str0ng!Pass"))
	c.Request.Header.Set("Content-Type", "application/json")

	Register(c)

	assert.Equal(t, http.StatusCreated, w.Code)

	var response struct {
		Token string      `json:"token"`
		User  models.User `json:"user"`
	}
	json.Unmarshal(w.Body.Bytes(), &response)
	assert.NotEmpty(t, response.Token)
	assert.Equal(t, "newuser_auth", response.User.Username)

	var user models.User
	err := database.DB.Where("email = ?", "newuser_auth@example.com").First(&user).Error
	assert.NoError(t, err)
	// Password is hashed, never stored plain
	assert.NotEqual(t, "Str0ng!Pass", user.Password)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	SetupTestDB()
	gin.SetMode(gin.TestMode)

	existing := models.User{ID: "dup_email", Username: "dup_email", Email: "dupe@example.com", Password: "x"}
	database.DB.Create(&existing)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest("POST", "/api/auth/register", registerBody("Dupe", "dupe@example.com", "dup_email2", "Str0ng!Pass"))
	c.Request.Header.Set("Content-Type", "application/json")

	Register(c)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestLogin_WrongPassword(t *testing.T) {
	SetupTestDB()
	gin.SetMode(gin.TestMode)

	hash, _ := bcrypt.GenerateFromPassword([]byte("Right1!Pass"), bcrypt.DefaultCost)
	user := models.User{ID: "login_wp", Username: "login_wp", Email: "login_wp@example.com", Password: string(hash)}
	database.DB.Create(&user)

	body, _ := json.Marshal(gin.H{"email": "login_wp@example.com", "password": "Wrong1!Pass"})
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest("POST", "/api/auth/login", bytes.NewBuffer(body))
	c.Request.Header.Set("Content-Type", "application/json")

	Login(c)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLogin_BlockedUser(t *testing.T) {
	SetupTestDB()
	gin.SetMode(gin.TestMode)

	hash, _ := bcrypt.GenerateFromPassword([]byte("Right1!Pass"), bcrypt.DefaultCost)
	user := models.User{ID: "login_bl", Username: "login_bl", Email: "login_bl@example.com", Password: string(hash), IsBlocked: true}
	database.DB.Create(&user)

	body, _ := json.Marshal(gin.H{"email": "login_bl@example.com", "password": "Right1!Pass"})
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest("POST", "/api/auth/login", bytes.NewBuffer(body))
	c.Request.Header.Set("Content-Type", "application/json")

	Login(c)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestLogin_Success(t *testing.T) {
	SetupTestDB()
	gin.SetMode(gin.TestMode)

	hash, _ := bcrypt.GenerateFromPassword([]byte("Right1!Pass"), bcrypt.DefaultCost)
	user := models.User{ID: "login_ok", Username: "login_ok", Email: "login_ok@example.com", Password: string(hash)}
	database.DB.Create(&user)

	body, _ := json.Marshal(gin.H{"email": "login_ok@example.com", "password": "Right1!Pass"})
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest("POST", "/api/auth/login", bytes.NewBuffer(body))
	c.Request.Header.Set("Content-Type", "application/json")

	Login(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var response struct {
		Token        string `json:"token"`
		RefreshToken string `json:"refreshToken"`
	}
	json.Unmarshal(w.Body.Bytes(), &response)
	assert.NotEmpty(t, response.Token)
	assert.NotEmpty(t, response.RefreshToken)
}

func TestRefresh_InvalidToken(t *testing.T) {
	SetupTestDB()
	gin.SetMode(gin.TestMode)

	body, _ := json.Marshal(gin.H{"refreshToken": "not-a-jwt"})
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest("POST", "/api/auth/refresh", bytes.NewBuffer(body))
	c.Request.Header.Set("Content-Type", "application/json")

	Refresh(c)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCheckUsername(t *testing.T) {
	SetupTestDB()
	gin.SetMode(gin.TestMode)

	taken := models.User{ID: "cu_taken", Username: "cu_taken", Email: "cu_taken@example.com"}
	database.DB.Create(&taken)

	// Taken
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest("GET", "/api/auth/check-username?username=cu_taken", nil)
	CheckUsername(c)
	assert.Equal(t, http.StatusOK, w.Code)

	var response struct {
		Available   bool     `json:"available"`
		Suggestions []string `json:"suggestions"`
	}
	json.Unmarshal(w.Body.Bytes(), &response)
	assert.False(t, response.Available)
	assert.NotEmpty(t, response.Suggestions)

	// Free
	w2 := httptest.NewRecorder()
	c2, _ := gin.CreateTestContext(w2)
	c2.Request, _ = http.NewRequest("GET", "/api/auth/check-username?username=cu_free", nil)
	CheckUsername(c2)

	var response2 struct {
		Available bool `json:"available"`
	}
	json.Unmarshal(w2.Body.Bytes(), &response2)
	assert.True(t, response2.Available)
}
