package middleware

import (
	"net/http"                          // HTTP status codes
	"smart_condominium/internal/domain" // Importing domain models

	"github.com/gin-gonic/gin" // Gin web framework
	"gorm.io/gorm"             // GORM ORM library
)

// CurrentUserKey is the context key holding the authenticated *domain.User
const CurrentUserKey = "currentUser"

// RequireUserType loads the authenticated user from the database and checks its type.
// With no types any active user passes. The user is stored under CurrentUserKey so
// later handlers in the chain do not query it again.
func RequireUserType(db *gorm.DB, types ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c) // Reuse the user loaded by an earlier middleware
		if user == nil {
			userID, exists := c.Get(UserIDKey) // Get userID from context
			// Check if userID exists in context
			if !exists {
				// If not, abort with unauthorized status
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
				return
			}
			var u domain.User // Fetch user from database
			if err := db.WithContext(c.Request.Context()).First(&u, userID).Error; err != nil {
				// Token for a deleted user
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
				return
			}
			// Deactivated accounts keep valid tokens until expiry; refuse them here
			if !u.IsActive {
				c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "User account is disabled"})
				return
			}
			user = &u
			c.Set(CurrentUserKey, user) // Store user in context
		}
		// Check the user's type against the accepted ones
		if len(types) > 0 && !user.HasUserType(types...) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Insufficient permissions"})
			return
		}
		c.Next() // Proceed to the next handler
	}
}

// AdminOnlyMiddleware allows only admin users
func AdminOnlyMiddleware(db *gorm.DB) gin.HandlerFunc {
	return RequireUserType(db, domain.UserTypeAdmin)
}

// CurrentUser returns the user stored by RequireUserType, or nil
func CurrentUser(c *gin.Context) *domain.User {
	v, ok := c.Get(CurrentUserKey)
	if !ok {
		return nil
	}
	user, _ := v.(*domain.User)
	return user
}
