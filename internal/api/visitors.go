package api

import (
	"net/http"                              // HTTP status codes
	"smart_condominium/internal/domain"     // Importing domain models
	"smart_condominium/internal/middleware" // Current user and validation
	"time"                                  // Entry and exit stamps

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/google/uuid"     // QR code values
	"github.com/sirupsen/logrus" // Logging library
	"gorm.io/gorm"               // GORM ORM library
)

// VisitorRequest is the body of visitor create and update
type VisitorRequest struct {
	Name          string    `json:"name" binding:"required,max=100"`
	DNI           string    `json:"dni" binding:"required,max=20"`
	PhoneNumber   string    `json:"phone_number" binding:"omitempty,phone"`
	VisitedUnitID uint      `json:"visited_unit" binding:"required"`
	ScheduledAt   time.Time `json:"scheduled_at" binding:"required"`
	Purpose       string    `json:"purpose" binding:"max=200"`
}

// VisitorUpdateRequest also lets staff set the status
type VisitorUpdateRequest struct {
	VisitorRequest
	Status string `json:"status" binding:"omitempty,oneof=CREADA VALIDADA DENEGADA CADUCADA"`
}

// ListVisitorsHandler returns visitors, latest schedule first.
// Filters: unit_id, status, start_date and end_date (on the scheduled day), qr_code.
func ListVisitorsHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		query := db.Model(&domain.Visitor{}).Order("scheduled_at desc")
		if unitID := c.Query("unit_id"); unitID != "" {
			query = query.Where("visited_unit_id = ?", unitID) // Filter by unit
		}
		if status := c.Query("status"); status != "" {
			query = query.Where("status = ?", status) // Filter by status
		}
		query, ok := dateRange(c, query, "scheduled_at") // Scheduled day range
		if !ok {
			return
		}
		if code := c.Query("qr_code"); code != "" {
			query = query.Where("qr_code = ?", code) // Lookup by scanned QR
		}
		resp, ok := paginate[domain.Visitor](c, query, "visitors")
		if !ok {
			return
		}
		c.JSON(http.StatusOK, resp)
	}
}

// GetVisitorHandler returns one visitor
func GetVisitorHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c, "id")
		if !ok {
			return
		}
		var v domain.Visitor
		if !findOr404(c, db, &v, id, "Visitor") {
			return
		}
		c.JSON(http.StatusOK, v)
	}
}

// CreateVisitorHandler schedules a visit and issues its QR code
func CreateVisitorHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req VisitorRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			middleware.HandleValidationError(c, err)
			return
		}
		var unit domain.Unit
		if !findOr404(c, db, &unit, req.VisitedUnitID, "Unit") {
			return
		}
		qr := uuid.NewString() // Opaque value encoded in the visitor's QR
		v := domain.Visitor{
			Name:          req.Name,                    // Visitor name
			DNI:           req.DNI,                     // Identity number
			PhoneNumber:   req.PhoneNumber,             // Phone number
			VisitedUnitID: unit.ID,                     // Visited unit
			ScheduledAt:   req.ScheduledAt,             // Expected arrival
			Status:        domain.VisitorStatusCreated, // New visits start as created
			QRCode:        &qr,                         // QR code value
			Purpose:       req.Purpose,                 // Reason for the visit
		}
		if err := db.WithContext(c.Request.Context()).Omit("VisitedUnit").Create(&v).Error; err != nil {
			saveError(c, err, "Visitor") // Duplicate DNI
			return
		}
		logrus.WithFields(logrus.Fields{
			"visitor_id": v.ID,                         // New visitor
			"unit_id":    unit.ID,                      // Visited unit
			"created_by": middleware.CurrentUser(c).ID, // Inviting user
		}).Info("Visitor scheduled")
		c.JSON(http.StatusCreated, v)
	}
}

// UpdateVisitorHandler edits a visitor
func UpdateVisitorHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c, "id")
		if !ok {
			return
		}
		var v domain.Visitor
		if !findOr404(c, db, &v, id, "Visitor") {
			return
		}
		var req VisitorUpdateRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			middleware.HandleValidationError(c, err)
			return
		}
		var unit domain.Unit
		if !findOr404(c, db, &unit, req.VisitedUnitID, "Unit") {
			return
		}
		v.Name = req.Name
		v.DNI = req.DNI
		v.PhoneNumber = req.PhoneNumber
		v.VisitedUnitID = unit.ID
		v.ScheduledAt = req.ScheduledAt
		v.Purpose = req.Purpose
		if req.Status != "" {
			v.Status = req.Status
		}
		if err := db.WithContext(c.Request.Context()).Omit("VisitedUnit").Save(&v).Error; err != nil {
			saveError(c, err, "Visitor")
			return
		}
		c.JSON(http.StatusOK, v)
	}
}

// DeleteVisitorHandler removes a visitor
func DeleteVisitorHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c, "id")
		if !ok {
			return
		}
		res := db.WithContext(c.Request.Context()).Delete(&domain.Visitor{}, id)
		if res.Error != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete visitor"})
			return
		}
		if res.RowsAffected == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "Visitor not found"})
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// VisitorEntryHandler stamps the arrival of a visitor and validates the visit
func VisitorEntryHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c, "id")
		if !ok {
			return
		}
		var v domain.Visitor
		if !findOr404(c, db, &v, id, "Visitor") {
			return
		}
		// Only scheduled visits that have not arrived yet may enter
		if v.EntryTime != nil {
			c.JSON(http.StatusConflict, gin.H{"error": "Visitor entry already registered"})
			return
		}
		if v.Status == domain.VisitorStatusDenied || v.Status == domain.VisitorStatusExpired {
			c.JSON(http.StatusConflict, gin.H{"error": "Visit is " + v.Status})
			return
		}
		now := time.Now()
		err := db.WithContext(c.Request.Context()).Model(&v).Updates(map[string]any{
			"entry_time": now,                           // Arrival stamp
			"status":     domain.VisitorStatusValidated, // Visit validated at the gate
		}).Error
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to register entry"})
			return
		}
		v.EntryTime = &now
		v.Status = domain.VisitorStatusValidated
		logrus.WithFields(logrus.Fields{
			"visitor_id": v.ID,                         // Visitor
			"unit_id":    v.VisitedUnitID,              // Visited unit
			"guard_id":   middleware.CurrentUser(c).ID, // Registering guard
		}).Info("Visitor entered")
		c.JSON(http.StatusOK, v)
	}
}

// VisitorExitHandler stamps the departure of a visitor
func VisitorExitHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c, "id")
		if !ok {
			return
		}
		var v domain.Visitor
		if !findOr404(c, db, &v, id, "Visitor") {
			return
		}
		if v.EntryTime == nil {
			c.JSON(http.StatusConflict, gin.H{"error": "Visitor has not entered"})
			return
		}
		if v.ExitTime != nil {
			c.JSON(http.StatusConflict, gin.H{"error": "Visitor exit already registered"})
			return
		}
		now := time.Now()
		if err := db.WithContext(c.Request.Context()).Model(&v).Update("exit_time", now).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to register exit"})
			return
		}
		v.ExitTime = &now
		logrus.WithFields(logrus.Fields{
			"visitor_id": v.ID,                         // Visitor
			"guard_id":   middleware.CurrentUser(c).ID, // Registering guard
		}).Info("Visitor left")
		c.JSON(http.StatusOK, v)
	}
}
