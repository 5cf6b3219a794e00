package api

import (
	"errors"                                // Error comparison
	"net/http"                              // HTTP status codes
	"smart_condominium/internal/config"     // Token lifetimes and secret
	"smart_condominium/internal/domain"     // Importing domain models
	"smart_condominium/internal/middleware" // Validation error rendering
	"smart_condominium/internal/utils"      // Utility functions
	"strings"                               // String manipulation

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logging library
	"golang.org/x/crypto/bcrypt"   // Password hashing
	"gorm.io/gorm"                 // GORM ORM library
)

// Request struct for registration
type RegisterRequest struct {
	Username    string  `json:"username" binding:"required,max=150"`       // Username must be provided
	Password    string  `json:"password" binding:"required,min=8,max=128"` // Plain password, hashed before saving
	Email       string  `json:"email" binding:"omitempty,email"`           // Optional email
	FirstName   string  `json:"first_name" binding:"max=150"`              // First name
	LastName    string  `json:"last_name" binding:"max=150"`               // Last name
	DNI         string  `json:"dni" binding:"required,max=20"`             // National identity number
	PhoneNumber string  `json:"phone_number" binding:"omitempty,phone"`    // Optional phone number
	BirthDate   *string `json:"birth_date" binding:"omitempty,date"`       // Optional YYYY-MM-DD
}

// Request struct for login
type LoginRequest struct {
	Username string `json:"username" binding:"required"` // Username must be provided
	Password string `json:"password" binding:"required"` // Password must be provided
}

// Request struct for token refresh
type RefreshRequest struct {
	Refresh string `json:"refresh" binding:"required"` // Refresh token
}

// RegisterHandler creates a resident account and signs the user in
func RegisterHandler(db *gorm.DB, rdb *redis.Client, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RegisterRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			middleware.HandleValidationError(c, err) // Field-level details
			return
		}
		// Hash the password and create the user
		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			// If hashing fails, return internal server error
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
			return
		}
		// Self-registered accounts are always residents; admins promote them later
		user := domain.User{
			Username:    strings.ToLower(req.Username), // Lowercase username to ensure uniqueness
			Password:    string(hash),                  // Hashed password
			Email:       req.Email,                     // Email
			FirstName:   req.FirstName,                 // First name
			LastName:    req.LastName,                  // Last name
			DNI:         req.DNI,                       // Identity number
			PhoneNumber: req.PhoneNumber,               // Phone number
			BirthDate:   req.BirthDate,                 // Birth date
			UserType:    domain.UserTypeResident,       // Default user type
			IsActive:    true,                          // Active on creation
		}
		// Attempt to create the user in the database
		if err := db.WithContext(c.Request.Context()).Create(&user).Error; err != nil {
			saveError(c, err, "User") // Duplicate username or DNI
			return
		}
		tokens, err := utils.GenerateTokenPair(user.ID, cfg.JWTSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
			return
		}
		invalidate(c.Request.Context(), rdb, usersCachePrefix) // New user on the admin list
		logrus.WithFields(logrus.Fields{"user_id": user.ID, "username": user.Username}).Info("User registered")
		// Return success response
		c.JSON(http.StatusCreated, gin.H{
			"user":    user,           // Created user
			"access":  tokens.Access,  // Access token
			"refresh": tokens.Refresh, // Refresh token
		})
	}
}

// LoginHandler authenticates a user and returns a token pair with the profile
func LoginHandler(db *gorm.DB, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LoginRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			middleware.HandleValidationError(c, err)
			return
		}
		var user domain.User // Fetch user from database
		if err := db.WithContext(c.Request.Context()).Where("username = ?", strings.ToLower(req.Username)).First(&user).Error; err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch user"})
				return
			}
			// If user not found, return unauthorized
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
			return
		}
		// Compare provided password with stored hash
		if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
			return
		}
		// Disabled accounts cannot sign in
		if !user.IsActive {
			c.JSON(http.StatusForbidden, gin.H{"error": "User account is disabled"})
			return
		}
		// Generate JWT tokens
		tokens, err := utils.GenerateTokenPair(user.ID, cfg.JWTSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
		if err != nil {
			// If token generation fails, return internal server error
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
			return
		}
		// Return the tokens in the response
		c.JSON(http.StatusOK, gin.H{
			"access":  tokens.Access,  // Access token
			"refresh": tokens.Refresh, // Refresh token
			"user":    user,           // Authenticated user
		})
	}
}

// RefreshHandler exchanges a valid refresh token for a new access token
func RefreshHandler(db *gorm.DB, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RefreshRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			middleware.HandleValidationError(c, err)
			return
		}
		claims, err := utils.ParseJWT(req.Refresh, utils.RefreshToken, cfg.JWTSecret) // Access tokens are rejected
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired refresh token"})
			return
		}
		var user domain.User // The account must still exist and be active
		if err := db.WithContext(c.Request.Context()).First(&user, claims.UserID).Error; err != nil || !user.IsActive {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired refresh token"})
			return
		}
		access, err := utils.GenerateJWT(user.ID, utils.AccessToken, cfg.JWTSecret, cfg.AccessTokenTTL)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"access": access})
	}
}
