package api

import (
	"net/http"                              // HTTP status codes
	"smart_condominium/internal/domain"     // Importing domain models
	"smart_condominium/internal/middleware" // Validation error rendering

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logging library
	"gorm.io/gorm"                 // GORM ORM library
)

// unitsCachePrefix prefixes every cached page of the unit list
const unitsCachePrefix = "units:"

// UnitRequest is the body of unit create and update
type UnitRequest struct {
	Number string `json:"number" binding:"required,max=10"` // Unit number, e.g. 101
	Floor  int    `json:"floor" binding:"gte=0"`            // Floor the unit is on
}

// ResidentRequest adds a user to a unit
type ResidentRequest struct {
	UserID uint `json:"user_id" binding:"required"` // User to add
}

// ListUnitsHandler returns the units with their residents
func ListUnitsHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		query := db.Model(&domain.Unit{}).Order("number asc")
		cachedList[domain.Unit](c, rdb, unitsCachePrefix, query, "units", "Residents")
	}
}

// GetUnitHandler returns one unit with its residents
func GetUnitHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c, "id")
		if !ok {
			return
		}
		var unit domain.Unit
		if !findOr404(c, db.Preload("Residents"), &unit, id, "Unit") {
			return
		}
		c.JSON(http.StatusOK, unit)
	}
}

// CreateUnitHandler creates a unit (admin only)
func CreateUnitHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req UnitRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			middleware.HandleValidationError(c, err)
			return
		}
		unit := domain.Unit{Number: req.Number, Floor: req.Floor, Residents: []domain.User{}}
		if err := db.WithContext(c.Request.Context()).Omit("Residents").Create(&unit).Error; err != nil {
			saveError(c, err, "Unit") // Duplicate unit number
			return
		}
		invalidate(c.Request.Context(), rdb, unitsCachePrefix)
		c.JSON(http.StatusCreated, unit)
	}
}

// UpdateUnitHandler edits a unit (admin only)
func UpdateUnitHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c, "id")
		if !ok {
			return
		}
		var req UnitRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			middleware.HandleValidationError(c, err)
			return
		}
		var unit domain.Unit
		if !findOr404(c, db.Preload("Residents"), &unit, id, "Unit") {
			return
		}
		unit.Number = req.Number
		unit.Floor = req.Floor
		err := db.WithContext(c.Request.Context()).Model(&unit).
			Select("number", "floor").
			Updates(map[string]any{"number": req.Number, "floor": req.Floor}).Error
		if err != nil {
			saveError(c, err, "Unit")
			return
		}
		invalidate(c.Request.Context(), rdb, unitsCachePrefix)
		c.JSON(http.StatusOK, unit)
	}
}

// DeleteUnitHandler removes a unit (admin only). Expenses, plates and requests of the
// unit go with it through their foreign keys.
func DeleteUnitHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c, "id")
		if !ok {
			return
		}
		var unit domain.Unit
		if !findOr404(c, db, &unit, id, "Unit") {
			return
		}
		err := db.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
			if err := tx.Model(&unit).Association("Residents").Clear(); err != nil {
				return err // Return error to rollback
			}
			return tx.Delete(&unit).Error
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete unit"})
			return
		}
		invalidate(c.Request.Context(), rdb, unitsCachePrefix)
		c.Status(http.StatusNoContent)
	}
}

// AddResidentHandler links a user to a unit (admin only)
func AddResidentHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c, "id")
		if !ok {
			return
		}
		var req ResidentRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			middleware.HandleValidationError(c, err)
			return
		}
		var unit domain.Unit
		if !findOr404(c, db, &unit, id, "Unit") {
			return
		}
		var user domain.User
		if !findOr404(c, db, &user, req.UserID, "User") {
			return
		}
		// Append is idempotent on the join table
		if err := db.WithContext(c.Request.Context()).Model(&unit).Association("Residents").Append(&user); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add resident"})
			return
		}
		invalidate(c.Request.Context(), rdb, unitsCachePrefix)
		logrus.WithFields(logrus.Fields{
			"unit_id": unit.ID, // Unit
			"user_id": user.ID, // New resident
		}).Info("Resident added to unit")
		if !findOr404(c, db.Preload("Residents"), &unit, id, "Unit") {
			return
		}
		c.JSON(http.StatusOK, unit)
	}
}

// RemoveResidentHandler unlinks a user from a unit (admin only)
func RemoveResidentHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c, "id")
		if !ok {
			return
		}
		userID, ok := parseID(c, "user_id")
		if !ok {
			return
		}
		var unit domain.Unit
		if !findOr404(c, db, &unit, id, "Unit") {
			return
		}
		user := domain.User{ID: userID}
		if err := db.WithContext(c.Request.Context()).Model(&unit).Association("Residents").Delete(&user); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove resident"})
			return
		}
		invalidate(c.Request.Context(), rdb, unitsCachePrefix)
		c.Status(http.StatusNoContent)
	}
}
