package api

import (
	"errors"                                // Error comparison
	"net/http"                              // HTTP status codes
	"smart_condominium/internal/domain"     // Importing domain models
	"smart_condominium/internal/middleware" // Validation error rendering
	"smart_condominium/internal/security"   // Recognition service
	"smart_condominium/internal/storage"    // Captured images
	"strings"                               // String manipulation

	"github.com/gin-gonic/gin" // Gin web framework
	"gorm.io/gorm"             // GORM ORM library
)

// SecurityEventRequest is the body of manual security event create and update
type SecurityEventRequest struct {
	EventType   string `json:"event_type" binding:"required,oneof=face_recognition plate_recognition unauthorized_access suspicious_activity"`
	Description string `json:"description"`
	UserID      *uint  `json:"user"`
}

// bindSecurityEvent binds an event body and checks the referenced user
func bindSecurityEvent(c *gin.Context, db *gorm.DB) (*SecurityEventRequest, bool) {
	var req SecurityEventRequest // Bind JSON request to struct
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return nil, false
	}
	if req.UserID != nil {
		var user domain.User
		if !findOr404(c, db, &user, *req.UserID, "User") {
			return nil, false
		}
	}
	return &req, true
}

// ListSecurityEventsHandler returns security events, newest first.
// Filters: event_type, user_id, start_date, end_date.
func ListSecurityEventsHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		query := db.Model(&domain.SecurityEvent{}).Order("timestamp desc, id desc")
		if t := c.Query("event_type"); t != "" {
			query = query.Where("event_type = ?", t) // Filter by type
		}
		if userID := c.Query("user_id"); userID != "" {
			query = query.Where("user_id = ?", userID) // Filter by user
		}
		query, ok := dateRange(c, query, "timestamp")
		if !ok {
			return
		}
		resp, ok := paginate[domain.SecurityEvent](c, query, "security events")
		if !ok {
			return
		}
		c.JSON(http.StatusOK, resp)
	}
}

// GetSecurityEventHandler returns one security event
func GetSecurityEventHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c, "id")
		if !ok {
			return
		}
		var ev domain.SecurityEvent
		if !findOr404(c, db, &ev, id, "Security event") {
			return
		}
		c.JSON(http.StatusOK, ev)
	}
}

// CreateSecurityEventHandler records a manual security event
func CreateSecurityEventHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		req, ok := bindSecurityEvent(c, db)
		if !ok {
			return
		}
		ev := domain.SecurityEvent{EventType: req.EventType, Description: req.Description, UserID: req.UserID}
		if err := db.WithContext(c.Request.Context()).Create(&ev).Error; err != nil {
			saveError(c, err, "Security event")
			return
		}
		c.JSON(http.StatusCreated, ev)
	}
}

// UpdateSecurityEventHandler edits a security event
func UpdateSecurityEventHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c, "id")
		if !ok {
			return
		}
		var ev domain.SecurityEvent
		if !findOr404(c, db, &ev, id, "Security event") {
			return
		}
		req, ok := bindSecurityEvent(c, db)
		if !ok {
			return
		}
		ev.EventType = req.EventType
		ev.Description = req.Description
		ev.UserID = req.UserID
		if err := db.WithContext(c.Request.Context()).Save(&ev).Error; err != nil {
			saveError(c, err, "Security event")
			return
		}
		c.JSON(http.StatusOK, ev)
	}
}

// DeleteSecurityEventHandler removes a security event
func DeleteSecurityEventHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c, "id")
		if !ok {
			return
		}
		res := db.WithContext(c.Request.Context()).Delete(&domain.SecurityEvent{}, id)
		if res.Error != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete security event"})
			return
		}
		if res.RowsAffected == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "Security event not found"})
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// CameraEventHandler classifies a camera frame and records the resulting security event
func CameraEventHandler(svc *security.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		req, image, ok := bindImage(c)
		if !ok {
			return
		}
		ev, err := svc.CameraEvent(c.Request.Context(), image, req.CameraID)
		if err != nil {
			recognitionError(c, err)
			return
		}
		c.JSON(http.StatusCreated, ev)
	}
}

// GetMediaHandler serves a captured image by its storage key
func GetMediaHandler(store storage.ObjectStorage) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := strings.TrimPrefix(c.Param("key"), "/") // Wildcard keeps the leading slash
		if key == "" || strings.Contains(key, "..") {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid key"})
			return
		}
		data, err := store.Get(c.Request.Context(), key)
		if errors.Is(err, storage.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Image not found"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch image"})
			return
		}
		c.Data(http.StatusOK, http.DetectContentType(data), data)
	}
}
