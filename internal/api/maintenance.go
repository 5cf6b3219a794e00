package api

import (
	"net/http"                              // HTTP status codes
	"smart_condominium/internal/domain"     // Importing domain models
	"smart_condominium/internal/middleware" // Current user and validation
	"smart_condominium/internal/storage"    // Request photos
	"smart_condominium/internal/utils"      // Image decoding

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
	"gorm.io/gorm"               // GORM ORM library
)

// MaintenanceRequestBody is the body of a new maintenance request
type MaintenanceRequestBody struct {
	UnitID      uint   `json:"unit" binding:"required"`        // Unit needing the work
	Description string `json:"description" binding:"required"` // What is wrong
	Image       string `json:"image"`                          // Optional base64 photo
}

// MaintenanceStatusRequest moves a request through its workflow
type MaintenanceStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// maintenanceStaff may see and update every request
var maintenanceStaff = []string{domain.UserTypeAdmin, domain.UserTypeMaintenance}

// residesIn reports whether the user lives in the unit
func residesIn(c *gin.Context, db *gorm.DB, userID, unitID uint) (bool, error) {
	var n int64
	err := db.WithContext(c.Request.Context()).Table("unit_residents").
		Where("user_id = ? AND unit_id = ?", userID, unitID).
		Count(&n).Error
	return n > 0, err
}

// ListMaintenanceRequestsHandler returns the requests of the user's units, newest first.
// Admins and maintenance staff see every request. Filter: status.
func ListMaintenanceRequestsHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		query := db.Model(&domain.MaintenanceRequest{}).Order("created_at desc, id desc")
		if user := middleware.CurrentUser(c); !user.HasUserType(maintenanceStaff...) {
			// Units the user resides in
			query = query.Where("unit_id IN (?)", db.Table("unit_residents").Select("unit_id").Where("user_id = ?", user.ID))
		}
		if status := c.Query("status"); status != "" {
			query = query.Where("status = ?", status) // Filter by status
		}
		resp, ok := paginate[domain.MaintenanceRequest](c, query, "maintenance requests")
		if !ok {
			return
		}
		c.JSON(http.StatusOK, resp)
	}
}

// CreateMaintenanceRequestHandler opens a maintenance request for one of the user's units
func CreateMaintenanceRequestHandler(db *gorm.DB, store storage.ObjectStorage) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req MaintenanceRequestBody // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			if middleware.IsBodyTooLarge(err) {
				c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "Image too large"})
				return
			}
			middleware.HandleValidationError(c, err)
			return
		}
		var unit domain.Unit
		if !findOr404(c, db, &unit, req.UnitID, "Unit") {
			return
		}
		user := middleware.CurrentUser(c)
		if !user.HasUserType(maintenanceStaff...) {
			ok, err := residesIn(c, db, user.ID, unit.ID)
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check unit residents"})
				return
			}
			if !ok {
				c.JSON(http.StatusForbidden, gin.H{"error": "You can only open requests for your own units"})
				return
			}
		}
		mr := domain.MaintenanceRequest{
			UnitID:      unit.ID,                         // Unit needing the work
			Description: req.Description,                 // What is wrong
			Status:      domain.MaintenanceStatusPending, // New requests are pending
		}
		if req.Image != "" {
			image, err := utils.DecodeBase64Image(req.Image)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid image data"})
				return
			}
			key, err := storage.Save(c.Request.Context(), store, storage.PrefixMaintenance, image)
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store image"})
				return
			}
			mr.Image = key
		}
		if err := db.WithContext(c.Request.Context()).Omit("Unit").Create(&mr).Error; err != nil {
			saveError(c, err, "Maintenance request")
			return
		}
		logrus.WithFields(logrus.Fields{
			"request_id": mr.ID,   // New request
			"unit_id":    unit.ID, // Unit needing the work
			"user_id":    user.ID, // Reporting user
		}).Info("Maintenance request created")
		c.JSON(http.StatusCreated, mr)
	}
}

// UpdateMaintenanceStatusHandler changes the status of a request and notifies the unit
func UpdateMaintenanceStatusHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c, "id")
		if !ok {
			return
		}
		var req MaintenanceStatusRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			middleware.HandleValidationError(c, err)
			return
		}
		// "EN PROCESO" has a space, which oneof cannot express without quoting
		switch req.Status {
		case domain.MaintenanceStatusPending, domain.MaintenanceStatusInProgress, domain.MaintenanceStatusDone:
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": []middleware.ValidationDetail{
				{Field: "status", Message: "Must be one of: PENDIENTE, EN PROCESO, FINALIZADA"},
			}})
			return
		}
		var mr domain.MaintenanceRequest
		if !findOr404(c, db, &mr, id, "Maintenance request") {
			return
		}
		if err := db.WithContext(c.Request.Context()).Model(&mr).Update("status", req.Status).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update maintenance request"})
			return
		}
		mr.Status = req.Status
		notify(c.Request.Context(), db, unitResidentIDs(c.Request.Context(), db, mr.UnitID),
			domain.NotificationMaintenance,
			"Solicitud de mantenimiento actualizada",
			"Su solicitud de mantenimiento está ahora "+mr.Status,
			map[string]any{"maintenance_request_id": mr.ID, "status": mr.Status})
		c.JSON(http.StatusOK, mr)
	}
}
