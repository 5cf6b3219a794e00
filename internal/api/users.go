package api

import (
	"context"                               // Context for cache invalidation
	"net/http"                              // HTTP status codes
	"smart_condominium/internal/domain"     // Importing domain models
	"smart_condominium/internal/middleware" // Current user and validation

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logging library
	"golang.org/x/crypto/bcrypt"   // Password hashing
	"gorm.io/gorm"                 // GORM ORM library
)

// usersCachePrefix prefixes every cached page of the admin user list
const usersCachePrefix = "admin:users:"

// UpdateUserRequest holds the editable profile fields. Nil fields are left unchanged.
type UpdateUserRequest struct {
	Email       *string `json:"email" binding:"omitempty,email"`
	Password    *string `json:"password" binding:"omitempty,min=8,max=128"`
	FirstName   *string `json:"first_name" binding:"omitempty,max=150"`
	LastName    *string `json:"last_name" binding:"omitempty,max=150"`
	PhoneNumber *string `json:"phone_number" binding:"omitempty,phone"`
	BirthDate   *string `json:"birth_date" binding:"omitempty,date"`
	IsActive    *bool   `json:"is_active"` // Admin only
}

// UpdateRoleRequest changes a user's type
type UpdateRoleRequest struct {
	UserType string `json:"user_type" binding:"required,oneof=admin resident security maintenance"`
}

// selfOrAdmin lets admins act on any account and everybody else only on their own
func selfOrAdmin(c *gin.Context, id uint) bool {
	current := middleware.CurrentUser(c)
	if current == nil || (current.ID != id && !current.IsAdmin()) {
		c.JSON(http.StatusForbidden, gin.H{"error": "You can only access your own account"})
		return false
	}
	return true
}

// invalidateUsers drops the cached lists that embed user data: the admin user list and
// the unit list with its residents
func invalidateUsers(ctx context.Context, rdb *redis.Client) {
	invalidate(ctx, rdb, usersCachePrefix)
	invalidate(ctx, rdb, unitsCachePrefix)
}

// ListUsersHandler returns all users, paginated and cached
func ListUsersHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		query := db.Model(&domain.User{}).Order("id asc") // Stable page order
		if t := c.Query("user_type"); t != "" {
			query = query.Where("user_type = ?", t) // Filter by user type
		}
		prefix := usersCachePrefix + "type=" + c.Query("user_type") + ":"
		cachedList[domain.User](c, rdb, prefix, query, "users")
	}
}

// GetUserHandler returns a single user
func GetUserHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c, "id")
		if !ok || !selfOrAdmin(c, id) {
			return
		}
		var user domain.User
		if !findOr404(c, db, &user, id, "User") {
			return
		}
		c.JSON(http.StatusOK, user)
	}
}

// UpdateUserHandler edits a user's profile
func UpdateUserHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c, "id")
		if !ok || !selfOrAdmin(c, id) {
			return
		}
		var req UpdateUserRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			middleware.HandleValidationError(c, err)
			return
		}
		var user domain.User
		if !findOr404(c, db, &user, id, "User") {
			return
		}
		updates := map[string]any{} // Only the fields that were sent
		if req.Email != nil {
			updates["email"] = *req.Email
		}
		if req.FirstName != nil {
			updates["first_name"] = *req.FirstName
		}
		if req.LastName != nil {
			updates["last_name"] = *req.LastName
		}
		if req.PhoneNumber != nil {
			updates["phone_number"] = *req.PhoneNumber
		}
		if req.BirthDate != nil {
			updates["birth_date"] = *req.BirthDate
		}
		if req.Password != nil {
			hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
				return
			}
			updates["password"] = string(hash)
		}
		if req.IsActive != nil {
			// Only admins may enable or disable accounts
			if !middleware.CurrentUser(c).IsAdmin() {
				c.JSON(http.StatusForbidden, gin.H{"error": "Admin access required"})
				return
			}
			updates["is_active"] = *req.IsActive
		}
		if len(updates) > 0 {
			if err := db.WithContext(c.Request.Context()).Model(&user).Updates(updates).Error; err != nil {
				saveError(c, err, "User")
				return
			}
			invalidateUsers(c.Request.Context(), rdb)
		}
		if !findOr404(c, db, &user, id, "User") { // Reload the stored values
			return
		}
		c.JSON(http.StatusOK, user)
	}
}

// DeleteUserHandler removes a user account
func DeleteUserHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c, "id")
		if !ok || !selfOrAdmin(c, id) {
			return
		}
		var user domain.User
		if !findOr404(c, db, &user, id, "User") {
			return
		}
		// Unit memberships are join rows, not owned by a foreign key
		err := db.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
			if err := tx.Model(&user).Association("Units").Clear(); err != nil {
				return err // Return error to rollback
			}
			return tx.Delete(&user).Error
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete user"})
			return
		}
		invalidateUsers(c.Request.Context(), rdb)
		logrus.WithFields(logrus.Fields{
			"user_id":    id,                                 // Deleted user
			"deleted_by": middleware.CurrentUser(c).ID,       // Acting user
			"self":       middleware.CurrentUser(c).ID == id, // Account closed by its owner
		}).Info("User deleted")
		c.Status(http.StatusNoContent)
	}
}

// UpdateRoleHandler changes a user's type (admin only)
func UpdateRoleHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c, "id")
		if !ok {
			return
		}
		var req UpdateRoleRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			middleware.HandleValidationError(c, err)
			return
		}
		var user domain.User
		if !findOr404(c, db, &user, id, "User") {
			return
		}
		previous := user.UserType // Kept for the audit log
		if err := db.WithContext(c.Request.Context()).Model(&user).Update("user_type", req.UserType).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update role"})
			return
		}
		user.UserType = req.UserType
		invalidateUsers(c.Request.Context(), rdb)
		logrus.WithFields(logrus.Fields{
			"user_id":    id,                           // Target user
			"from":       previous,                     // Previous user type
			"to":         req.UserType,                 // New user type
			"changed_by": middleware.CurrentUser(c).ID, // Acting admin
		}).Info("User role changed")
		c.JSON(http.StatusOK, user)
	}
}
