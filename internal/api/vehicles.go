package api

import (
	"net/http"                              // HTTP status codes
	"smart_condominium/internal/domain"     // Importing domain models
	"smart_condominium/internal/middleware" // Current user and validation
	"strings"                               // String manipulation

	"github.com/gin-gonic/gin" // Gin web framework
	"gorm.io/gorm"             // GORM ORM library
)

// VehicleRequest is the body of vehicle create and update
type VehicleRequest struct {
	PlateNumber string `json:"plate_number" binding:"required,max=10"` // Registration plate
	Brand       string `json:"brand" binding:"max=50"`                 // Maker
	Model       string `json:"model" binding:"max=50"`                 // Model name
}

// staffTypes may see every vehicle and plate
var staffTypes = []string{domain.UserTypeAdmin, domain.UserTypeSecurity}

// ListVehiclesHandler returns the user's vehicles; admins and security see all
func ListVehiclesHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		query := db.Model(&domain.Vehicle{}).Order("id asc")
		if user := middleware.CurrentUser(c); !user.HasUserType(staffTypes...) {
			query = query.Where("owner_id = ?", user.ID) // Own vehicles only
		}
		if plate := c.Query("plate_number"); plate != "" {
			query = query.Where("plate_number LIKE ?", "%"+strings.ToUpper(plate)+"%") // Plate substring
		}
		resp, ok := paginate[domain.Vehicle](c, query, "vehicles", "Owner")
		if !ok {
			return
		}
		c.JSON(http.StatusOK, resp)
	}
}

// vehicleFor loads a vehicle the current user may see: their own, or any for staff
func vehicleFor(c *gin.Context, db *gorm.DB) (*domain.Vehicle, bool) {
	id, ok := parseID(c, "id")
	if !ok {
		return nil, false
	}
	var v domain.Vehicle
	if !findOr404(c, db.Preload("Owner"), &v, id, "Vehicle") {
		return nil, false
	}
	if user := middleware.CurrentUser(c); v.OwnerID != user.ID && !user.HasUserType(staffTypes...) {
		c.JSON(http.StatusForbidden, gin.H{"error": "You can only access your own vehicles"})
		return nil, false
	}
	return &v, true
}

// GetVehicleHandler returns one vehicle
func GetVehicleHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		v, ok := vehicleFor(c, db)
		if !ok {
			return
		}
		c.JSON(http.StatusOK, v)
	}
}

// CreateVehicleHandler registers a vehicle owned by the authenticated user
func CreateVehicleHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req VehicleRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			middleware.HandleValidationError(c, err)
			return
		}
		owner := middleware.CurrentUser(c)
		v := domain.Vehicle{
			OwnerID:     owner.ID,                         // Authenticated user
			PlateNumber: strings.ToUpper(req.PlateNumber), // Plates are stored upper-case
			Brand:       req.Brand,                        // Maker
			Model:       req.Model,                        // Model name
		}
		if err := db.WithContext(c.Request.Context()).Omit("Owner").Create(&v).Error; err != nil {
			saveError(c, err, "Vehicle") // Duplicate plate
			return
		}
		v.Owner = *owner
		c.JSON(http.StatusCreated, v)
	}
}

// UpdateVehicleHandler edits a vehicle
func UpdateVehicleHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		v, ok := vehicleFor(c, db)
		if !ok {
			return
		}
		var req VehicleRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			middleware.HandleValidationError(c, err)
			return
		}
		v.PlateNumber = strings.ToUpper(req.PlateNumber)
		v.Brand = req.Brand
		v.Model = req.Model
		if err := db.WithContext(c.Request.Context()).Omit("Owner").Save(v).Error; err != nil {
			saveError(c, err, "Vehicle")
			return
		}
		c.JSON(http.StatusOK, v)
	}
}

// DeleteVehicleHandler removes a vehicle and, by cascade, its authorized plates
func DeleteVehicleHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		v, ok := vehicleFor(c, db)
		if !ok {
			return
		}
		if err := db.WithContext(c.Request.Context()).Delete(&domain.Vehicle{}, v.ID).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete vehicle"})
			return
		}
		c.Status(http.StatusNoContent)
	}
}
