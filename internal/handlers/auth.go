package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
	"unicode"

	appConfig "github.com/TandelPriyanshi/BorrowBase-sub000/internal/config"
	"github.com/TandelPriyanshi/BorrowBase-sub000/internal/database"
	"github.com/TandelPriyanshi/BorrowBase-sub000/internal/models"
	"github.com/TandelPriyanshi/BorrowBase-sub000/pkg/logger"
	"github.com/TandelPriyanshi/BorrowBase-sub000/pkg/utils"
	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"gorm.io/gorm"
)

// --- Helpers ---

func validatePasswordStrength(password string) error {
	var (
		hasMinLen  = false
		hasUpper   = false
		hasLower   = false
		hasNumber  = false
		hasSpecial = false
	)
	if len(password) >= 8 {
		hasMinLen = true
	}
	for _, char := range password {
		switch {
		case unicode.IsUpper(char):
			hasUpper = true
		case unicode.IsLower(char):
			hasLower = true
		case unicode.IsNumber(char):
			hasNumber = true
		case unicode.IsPunct(char) || unicode.IsSymbol(char):
			hasSpecial = true
		}
	}
	if !hasMinLen || !hasUpper || !hasLower || !hasNumber || !hasSpecial {
		return fmt.Errorf("password must be at least 8 characters long and contain at least one uppercase letter, one lowercase letter, one number, and one special character")
	}
	return nil
}

// issueTokenPair creates an access + refresh token pair and stores the
// refresh JTI so rotation can invalidate older tokens.
func issueTokenPair(userID string) (string, string, error) {
	accessToken, err := utils.GenerateToken(userID)
	if err != nil {
		return "", "", err
	}

	refreshToken, jti, err := utils.GenerateRefreshToken(userID)
	if err != nil {
		return "", "", err
	}

	if err := database.StoreRefreshToken(userID, jti, utils.RefreshTokenTTL); err != nil {
		logger.Warn().Err(err).Str("user_id", userID).Msg("Failed to store refresh token, refresh flow disabled for this session")
	}

	return accessToken, refreshToken, nil
}

// --- Local Auth ---

type RegisterInput struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	Username string `json:"username" binding:"required"`
	Address  string `json:"address"`
}

type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func Register(c *gin.Context) {
	var input RegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := validatePasswordStrength(input.Password); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if !utils.ValidateUsername(input.Username) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Username must be 3-30 characters and contain only letters, numbers, underscores, or hyphens"})
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to hash password")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
		return
	}

	user := models.User{
		Name:     input.Name,
		Email:    input.Email,
		Username: input.Username,
		Password: string(hashedPassword),
		Address:  input.Address,
	}

	if result := database.DB.Create(&user); result.Error != nil {
		// Differentiate between email and username conflict
		var existingUser models.User
		if err := database.DB.Where("email = ?", input.Email).First(&existingUser).Error; err == nil {
			c.JSON(http.StatusConflict, gin.H{"error": "An account with this email already exists. Please sign in instead."})
			return
		}
		if err := database.DB.Where("username = ?", input.Username).First(&existingUser).Error; err == nil {
			c.JSON(http.StatusConflict, gin.H{"error": "This username is already taken. Please choose another one."})
			return
		}

		logger.Warn().Err(result.Error).Str("email", input.Email).Msg("Registration failed: unique violation")
		c.JSON(http.StatusConflict, gin.H{"error": "User with this email or username already exists"})
		return
	}

	accessToken, refreshToken, err := issueTokenPair(user.ID)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to generate tokens")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	logger.Info().Str("user_id", user.ID).Msg("User registered successfully")

	c.JSON(http.StatusCreated, gin.H{
		"token":        accessToken,
		"refreshToken": refreshToken,
		"user":         user,
	})
}

func Login(c *gin.Context) {
	var input LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var user models.User
	if result := database.DB.Where("email = ?", input.Email).First(&user); result.Error != nil {
		logger.Warn().Str("email", input.Email).Msg("Login failed: user not found")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)); err != nil {
		logger.Warn().Str("email", input.Email).Msg("Login failed: invalid password")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	if user.IsBlocked {
		c.JSON(http.StatusForbidden, gin.H{"error": "Account is blocked"})
		return
	}

	accessToken, refreshToken, err := issueTokenPair(user.ID)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to generate tokens")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	logger.Info().Str("user_id", user.ID).Msg("User logged in")

	c.JSON(http.StatusOK, gin.H{
		"token":        accessToken,
		"refreshToken": refreshToken,
		"user":         user,
	})
}

// Refresh rotates a refresh token into a new access + refresh pair.
// This is the target of the frontend's 401 interceptor.
func Refresh(c *gin.Context) {
	var input struct {
		RefreshToken string `json:"refreshToken" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "refreshToken required"})
		return
	}

	claims, err := utils.ValidateRefreshToken(input.RefreshToken)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired refresh token"})
		return
	}

	// Rotation: only the most recently issued refresh token is accepted
	if !database.IsRefreshTokenActive(claims.UserID, claims.GetJTI()) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Refresh token has been revoked"})
		return
	}

	var user models.User
	if err := database.DB.Select("id", "is_blocked").First(&user, "id = ?", claims.UserID).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found"})
		return
	}
	if user.IsBlocked {
		c.JSON(http.StatusForbidden, gin.H{"error": "Account is blocked"})
		return
	}

	accessToken, refreshToken, err := issueTokenPair(claims.UserID)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to rotate tokens")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token":        accessToken,
		"refreshToken": refreshToken,
	})
}

// Logout invalidates the access token server-side via the Redis blacklist
// and revokes the stored refresh token.
func Logout(c *gin.Context) {
	claimsInterface, exists := c.Get("claims")
	if !exists {
		// Fallback: try to extract from header if middleware didn't set it
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusOK, gin.H{"message": "Already logged out"})
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusOK, gin.H{"message": "Already logged out"})
			return
		}

		claims, err := utils.ValidateToken(parts[1])
		if err != nil {
			c.JSON(http.StatusOK, gin.H{"message": "Already logged out"})
			return
		}
		claimsInterface = claims
	}

	claims, ok := claimsInterface.(*utils.Claims)
	if !ok || claims == nil {
		c.JSON(http.StatusOK, gin.H{"message": "Already logged out"})
		return
	}

	database.RevokeRefreshToken(claims.UserID)

	jti := claims.GetJTI()
	if jti == "" {
		logger.Warn().Msg("Logout called with legacy token (no JTI)")
		c.JSON(http.StatusOK, gin.H{"message": "Successfully logged out"})
		return
	}

	// Blacklist for the token's remaining lifetime
	expiresAt := claims.GetExpiresAt()
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		c.JSON(http.StatusOK, gin.H{"message": "Successfully logged out"})
		return
	}

	if err := database.BlacklistToken(jti, ttl); err != nil {
		// Log but still respond success
		logger.Error().Err(err).Str("jti", jti).Msg("Failed to blacklist token")
	}

	c.JSON(http.StatusOK, gin.H{"message": "Successfully logged out"})
}

func CheckUsername(c *gin.Context) {
	username := c.Query("username")
	if len(username) < 3 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Username too short"})
		return
	}

	var count int64
	database.DB.Model(&models.User{}).Where("username = ?", username).Count(&count)

	if count > 0 {
		suggestions := []string{
			fmt.Sprintf("%s_lends", username),
			fmt.Sprintf("%s%d", username, time.Now().Unix()%100),
		}
		c.JSON(http.StatusOK, gin.H{
			"available":   false,
			"suggestions": suggestions,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"available": true})
}

// --- Password Reset ---

func ForgotPassword(c *gin.Context) {
	var input struct {
		Email string `json:"email" binding:"required,email"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var user models.User
	if err := database.DB.Where("email = ?", input.Email).First(&user).Error; err != nil {
		// Same response whether or not the account exists
		c.JSON(http.StatusOK, gin.H{"message": "If an account exists, a reset link has been sent"})
		return
	}

	resetToken := utils.GenerateID()
	user.ResetToken = resetToken
	user.ResetTokenExpiry = time.Now().Add(1 * time.Hour)
	database.DB.Save(&user)

	// Mail delivery is handled out-of-band; the link is logged so ops can
	// hand it over manually until the mailer lands.
	logger.Info().
		Str("user_id", user.ID).
		Str("reset_url", fmt.Sprintf("%s/reset-password?token=%s", appConfig.AppConfig.FrontendURL, resetToken)).
		Msg("Password reset requested")

	c.JSON(http.StatusOK, gin.H{"message": "If an account exists, a reset link has been sent"})
}

func ResetPassword(c *gin.Context) {
	var input struct {
		Token    string `json:"token" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := validatePasswordStrength(input.Password); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var user models.User
	if err := database.DB.Where("reset_token = ?", input.Token).First(&user).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid or expired reset token"})
		return
	}

	if time.Now().After(user.ResetTokenExpiry) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid or expired reset token"})
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
		return
	}

	user.Password = string(hashedPassword)
	user.ResetToken = ""
	user.ResetTokenExpiry = time.Time{}
	database.DB.Save(&user)

	// Force re-login everywhere
	database.RevokeRefreshToken(user.ID)

	logger.Info().Str("user_id", user.ID).Msg("Password reset completed")

	c.JSON(http.StatusOK, gin.H{"message": "Password has been reset. Please sign in."})
}

// --- OAuth ---

var googleOauthConfig *oauth2.Config

func InitOAuthConfig() {
	if appConfig.AppConfig.GoogleClientID != "" {
		googleOauthConfig = &oauth2.Config{
			RedirectURL:  appConfig.AppConfig.GoogleCallbackURL,
			ClientID:     appConfig.AppConfig.GoogleClientID,
			ClientSecret: appConfig.AppConfig.GoogleClientSecret,
			Scopes:       []string{"https://www.googleapis.com/auth/userinfo.email", "https://www.googleapis.com/auth/userinfo.profile"},
			Endpoint:     google.Endpoint,
		}
	} else {
		logger.Warn().Msg("Google OAuth keys missing")
	}
}

func GoogleLogin(c *gin.Context) {
	if googleOauthConfig == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Google OAuth not configured"})
		return
	}
	url := googleOauthConfig.AuthCodeURL("state-token", oauth2.AccessTypeOffline)
	c.Redirect(http.StatusTemporaryRedirect, url)
}

func GoogleCallback(c *gin.Context) {
	if googleOauthConfig == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Google OAuth not configured"})
		return
	}

	code := c.Query("code")
	token, err := googleOauthConfig.Exchange(context.Background(), code)
	if err != nil {
		logger.Error().Err(err).Msg("Google OAuth exchange failed")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to exchange token"})
		return
	}

	client := googleOauthConfig.Client(context.Background(), token)
	resp, err := client.Get("https://www.googleapis.com/oauth2/v2/userinfo")
	if err != nil {
		logger.Error().Err(err).Msg("Failed to get Google user info")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get user info"})
		return
	}
	defer resp.Body.Close()

	var userInfo struct {
		ID      string `json:"id"`
		Email   string `json:"email"`
		Name    string `json:"name"`
		Picture string `json:"picture"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&userInfo); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to parse user info"})
		return
	}

	// Find or create the user by email
	var user models.User
	err = database.DB.Where("email = ?", userInfo.Email).First(&user).Error
	if err == gorm.ErrRecordNotFound {
		user = models.User{
			Name:      userInfo.Name,
			Email:     userInfo.Email,
			Username:  fmt.Sprintf("user_%d", time.Now().UnixNano()%1000000),
			AvatarURL: userInfo.Picture,
		}
		if err := database.DB.Create(&user).Error; err != nil {
			logger.Error().Err(err).Msg("Failed to create OAuth user")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
			return
		}
	} else if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	accessToken, refreshToken, err := issueTokenPair(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	// Hand tokens back to the SPA via redirect
	redirectURL := fmt.Sprintf("%s/auth/callback?token=%s&refreshToken=%s",
		appConfig.AppConfig.FrontendURL, accessToken, refreshToken)
	c.Redirect(http.StatusTemporaryRedirect, redirectURL)
}
