package api

import (
	"net/http"                              // HTTP status codes
	"smart_condominium/internal/domain"     // Importing domain models
	"smart_condominium/internal/middleware" // Validation error rendering

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"gorm.io/gorm"                 // GORM ORM library
)

// areasCachePrefix prefixes every cached page of the common area list
const areasCachePrefix = "common-areas:"

// CommonAreaRequest is the body of common area create and update
type CommonAreaRequest struct {
	Name          string `json:"name" binding:"required,max=100"`
	Description   string `json:"description"`
	AvailableFrom string `json:"available_from" binding:"required,hhmm"`
	AvailableTo   string `json:"available_to" binding:"required,hhmm"`
	Capacity      int    `json:"capacity" binding:"required,gt=0"`
}

func (r CommonAreaRequest) toModel() domain.CommonArea {
	return domain.CommonArea{
		Name:          r.Name,
		Description:   r.Description,
		AvailableFrom: r.AvailableFrom,
		AvailableTo:   r.AvailableTo,
		Capacity:      r.Capacity,
	}
}

// bindCommonArea binds and checks that the opening hours are a proper range
func bindCommonArea(c *gin.Context) (domain.CommonArea, bool) {
	var req CommonAreaRequest // Bind JSON request to struct
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return domain.CommonArea{}, false
	}
	// hhmm only admits zero-padded clocks, which compare lexically
	if req.AvailableFrom >= req.AvailableTo {
		c.JSON(http.StatusBadRequest, gin.H{"error": "available_from must be before available_to"})
		return domain.CommonArea{}, false
	}
	return req.toModel(), true
}

// ListCommonAreasHandler returns the common areas
func ListCommonAreasHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		query := db.Model(&domain.CommonArea{}).Order("name asc")
		cachedList[domain.CommonArea](c, rdb, areasCachePrefix, query, "common areas")
	}
}

// GetCommonAreaHandler returns one common area
func GetCommonAreaHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c, "id")
		if !ok {
			return
		}
		var area domain.CommonArea
		if !findOr404(c, db, &area, id, "Common area") {
			return
		}
		c.JSON(http.StatusOK, area)
	}
}

// CreateCommonAreaHandler creates a common area (admin only)
func CreateCommonAreaHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		area, ok := bindCommonArea(c)
		if !ok {
			return
		}
		if err := db.WithContext(c.Request.Context()).Create(&area).Error; err != nil {
			saveError(c, err, "Common area")
			return
		}
		invalidate(c.Request.Context(), rdb, areasCachePrefix)
		c.JSON(http.StatusCreated, area)
	}
}

// UpdateCommonAreaHandler replaces a common area (admin only)
func UpdateCommonAreaHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c, "id")
		if !ok {
			return
		}
		var existing domain.CommonArea
		if !findOr404(c, db, &existing, id, "Common area") {
			return
		}
		area, ok := bindCommonArea(c)
		if !ok {
			return
		}
		area.ID = existing.ID
		if err := db.WithContext(c.Request.Context()).Save(&area).Error; err != nil {
			saveError(c, err, "Common area")
			return
		}
		invalidate(c.Request.Context(), rdb, areasCachePrefix)
		c.JSON(http.StatusOK, area)
	}
}

// DeleteCommonAreaHandler removes a common area and, by cascade, its reservations (admin only)
func DeleteCommonAreaHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c, "id")
		if !ok {
			return
		}
		var area domain.CommonArea
		if !findOr404(c, db, &area, id, "Common area") {
			return
		}
		if err := db.WithContext(c.Request.Context()).Delete(&area).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete common area"})
			return
		}
		invalidate(c.Request.Context(), rdb, areasCachePrefix)
		c.Status(http.StatusNoContent)
	}
}
