package api

import (
	"net/http"                              // HTTP status codes
	"smart_condominium/internal/domain"     // Importing domain models
	"smart_condominium/internal/middleware" // Current user and validation
	"smart_condominium/internal/security"   // Recognition service
	"strings"                               // String manipulation

	"github.com/gin-gonic/gin" // Gin web framework
	"gorm.io/gorm"             // GORM ORM library
)

// VehiclePlateRequest is the body of plate create and update
type VehiclePlateRequest struct {
	PlateNumber string `json:"plate_number" binding:"required,max=15"`
	VehicleID   uint   `json:"vehicle" binding:"required"`
	UnitID      uint   `json:"unit" binding:"required"`
	IsActive    *bool  `json:"is_active"` // Defaults to true
	Status      string `json:"status" binding:"omitempty,oneof=AUTHORIZED PENDING REVOKED"`
}

// bindVehiclePlate binds a plate body and resolves its vehicle and unit. The owner is
// the vehicle's owner.
func bindVehiclePlate(c *gin.Context, db *gorm.DB, p *domain.VehiclePlate) bool {
	var req VehiclePlateRequest // Bind JSON request to struct
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return false
	}
	var vehicle domain.Vehicle
	if !findOr404(c, db, &vehicle, req.VehicleID, "Vehicle") {
		return false
	}
	var unit domain.Unit
	if !findOr404(c, db, &unit, req.UnitID, "Unit") {
		return false
	}
	p.PlateNumber = strings.ToUpper(strings.Join(strings.Fields(req.PlateNumber), ""))
	p.VehicleID = vehicle.ID
	p.UnitID = unit.ID
	p.OwnerID = vehicle.OwnerID
	p.IsActive = req.IsActive == nil || *req.IsActive
	p.Status = req.Status
	if p.Status == "" {
		p.Status = domain.PlateStatusAuthorized
	}
	return true
}

// ListVehiclePlatesHandler returns the plate authorization list. Non-staff users only see
// their own plates. Filters: plate_number (substring), status, unit_id.
func ListVehiclePlatesHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		query := db.Model(&domain.VehiclePlate{}).Order("plate_number asc")
		if user := middleware.CurrentUser(c); !user.HasUserType(staffTypes...) {
			query = query.Where("owner_id = ?", user.ID) // Own plates only
		}
		if plate := c.Query("plate_number"); plate != "" {
			query = query.Where("plate_number LIKE ?", "%"+strings.ToUpper(plate)+"%") // Plate substring
		}
		if status := c.Query("status"); status != "" {
			query = query.Where("status = ?", status) // Filter by status
		}
		if unitID := c.Query("unit_id"); unitID != "" {
			query = query.Where("unit_id = ?", unitID) // Filter by unit
		}
		resp, ok := paginate[domain.VehiclePlate](c, query, "vehicle plates")
		if !ok {
			return
		}
		c.JSON(http.StatusOK, resp)
	}
}

// GetVehiclePlateHandler returns one plate
func GetVehiclePlateHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c, "id")
		if !ok {
			return
		}
		var p domain.VehiclePlate
		if !findOr404(c, db, &p, id, "Vehicle plate") {
			return
		}
		if user := middleware.CurrentUser(c); p.OwnerID != user.ID && !user.HasUserType(staffTypes...) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Vehicle plate not found"})
			return
		}
		c.JSON(http.StatusOK, p)
	}
}

// CreateVehiclePlateHandler adds a plate to the authorization list (admin only)
func CreateVehiclePlateHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var p domain.VehiclePlate
		if !bindVehiclePlate(c, db, &p) {
			return
		}
		// Select every column so an explicit is_active=false is not replaced by the default
		err := db.WithContext(c.Request.Context()).
			Select("PlateNumber", "VehicleID", "UnitID", "OwnerID", "IsActive", "Status", "CreatedAt", "UpdatedAt").
			Create(&p).Error
		if err != nil {
			saveError(c, err, "Vehicle plate") // Duplicate plate
			return
		}
		c.JSON(http.StatusCreated, p)
	}
}

// UpdateVehiclePlateHandler replaces a plate (admin only)
func UpdateVehiclePlateHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c, "id")
		if !ok {
			return
		}
		var p domain.VehiclePlate
		if !findOr404(c, db, &p, id, "Vehicle plate") {
			return
		}
		if !bindVehiclePlate(c, db, &p) {
			return
		}
		if err := db.WithContext(c.Request.Context()).Omit("Vehicle", "Unit", "Owner").Save(&p).Error; err != nil {
			saveError(c, err, "Vehicle plate")
			return
		}
		c.JSON(http.StatusOK, p)
	}
}

// DeleteVehiclePlateHandler removes a plate (admin only)
func DeleteVehiclePlateHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c, "id")
		if !ok {
			return
		}
		res := db.WithContext(c.Request.Context()).Delete(&domain.VehiclePlate{}, id)
		if res.Error != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete vehicle plate"})
			return
		}
		if res.RowsAffected == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "Vehicle plate not found"})
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// RecognizePlateHandler reads a plate from a camera image and decides access
func RecognizePlateHandler(svc *security.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		req, image, ok := bindImage(c)
		if !ok {
			return
		}
		res, err := svc.RecognizePlate(c.Request.Context(), image, req.CameraID)
		if err != nil {
			recognitionError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"success":        true,                            // Plate read
			"plate_number":   res.PlateNumber,                 // Recognized plate
			"confidence":     res.Confidence,                  // Read confidence
			"is_authorized":  res.IsAuthorized,                // On the authorization list
			"access_granted": res.IsAuthorized,                // Gate decision
			"log_id":         res.Log.ID,                      // Access log row
			"message":        "Placa reconocida exitosamente", // Success message
		})
	}
}

// ListVehicleAccessLogsHandler returns the gate access log, newest first.
// Filters: plate_number (substring), start_date, end_date, access_type.
func ListVehicleAccessLogsHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		query := db.Model(&domain.VehicleAccessLog{}).Order("timestamp desc, id desc")
		if plate := c.Query("plate_number"); plate != "" {
			query = query.Where("plate_number LIKE ?", "%"+strings.ToUpper(plate)+"%") // Plate substring
		}
		if t := c.Query("access_type"); t != "" {
			query = query.Where("access_type = ?", t) // Filter by decision
		}
		query, ok := dateRange(c, query, "timestamp")
		if !ok {
			return
		}
		resp, ok := paginate[domain.VehicleAccessLog](c, query, "access logs")
		if !ok {
			return
		}
		c.JSON(http.StatusOK, resp)
	}
}
