package api

import (
	"errors"                                // Error comparison
	"net/http"                              // HTTP status codes
	"smart_condominium/internal/domain"     // Importing domain models
	"smart_condominium/internal/middleware" // Current user and validation

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
	"gorm.io/gorm"               // GORM ORM library
)

// errSlotTaken is returned inside the booking transaction when the slot overlaps another reservation
var errSlotTaken = errors.New("slot taken")

// ReservationRequest is the body of reservation create and update
type ReservationRequest struct {
	AreaID    uint   `json:"area_id" binding:"required"`         // Common area to book
	Date      string `json:"date" binding:"required,date"`       // YYYY-MM-DD
	StartTime string `json:"start_time" binding:"required,hhmm"` // HH:MM
	EndTime   string `json:"end_time" binding:"required,hhmm"`   // HH:MM
}

// ListReservationsHandler returns reservations, newest date first. Filters: area_id, date, user_id.
func ListReservationsHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		query := db.Model(&domain.Reservation{}).Order("date desc, start_time asc")
		if areaID := c.Query("area_id"); areaID != "" {
			query = query.Where("area_id = ?", areaID) // Filter by area
		}
		if date := c.Query("date"); date != "" {
			query = query.Where("date = ?", date) // Filter by day
		}
		if userID := c.Query("user_id"); userID != "" {
			query = query.Where("user_id = ?", userID) // Filter by user
		}
		resp, ok := paginate[domain.Reservation](c, query, "reservations", "User", "Area")
		if !ok {
			return
		}
		c.JSON(http.StatusOK, resp)
	}
}

// GetReservationHandler returns one reservation
func GetReservationHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c, "id")
		if !ok {
			return
		}
		var r domain.Reservation
		if !findOr404(c, db.Preload("User").Preload("Area"), &r, id, "Reservation") {
			return
		}
		c.JSON(http.StatusOK, r)
	}
}

// bookSlot validates req against the area's hours and saves r inside a transaction that
// first checks it against every other reservation of the area on that date. It writes
// the error response itself.
func bookSlot(c *gin.Context, db *gorm.DB, r *domain.Reservation, req ReservationRequest) bool {
	var area domain.CommonArea
	if !findOr404(c, db, &area, req.AreaID, "Common area") {
		return false
	}
	if err := domain.ValidateSlot(area, req.StartTime, req.EndTime); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return false
	}
	r.AreaID = area.ID
	r.Date = req.Date
	r.StartTime = req.StartTime
	r.EndTime = req.EndTime
	err := db.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		var sameDay []domain.Reservation // Bookings of the area that day, excluding r itself on update
		q := tx.Select("id", "start_time", "end_time").
			Where("area_id = ? AND date = ?", r.AreaID, r.Date)
		if r.ID != 0 {
			q = q.Where("id <> ?", r.ID)
		}
		if err := q.Find(&sameDay).Error; err != nil {
			return err
		}
		for _, other := range sameDay {
			if r.Overlaps(other) {
				return errSlotTaken // Return error to rollback
			}
		}
		return tx.Omit("User", "Area").Save(r).Error
	})
	if errors.Is(err, errSlotTaken) {
		c.JSON(http.StatusConflict, gin.H{"error": "The area is already reserved for that time"})
		return false
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save reservation"})
		return false
	}
	r.Area = area
	return true
}

// CreateReservationHandler books a common area for the authenticated user
func CreateReservationHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ReservationRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			middleware.HandleValidationError(c, err)
			return
		}
		user := middleware.CurrentUser(c)
		r := domain.Reservation{UserID: user.ID}
		if !bookSlot(c, db, &r, req) {
			return
		}
		r.User = *user
		logrus.WithFields(logrus.Fields{
			"reservation_id": r.ID,     // New reservation
			"user_id":        user.ID,  // Booking user
			"area_id":        r.AreaID, // Booked area
			"date":           r.Date,   // Booked day
		}).Info("Reservation created")
		c.JSON(http.StatusCreated, r)
	}
}

// ownReservation loads a reservation the current user may modify: their own, or any for admins
func ownReservation(c *gin.Context, db *gorm.DB) (*domain.Reservation, bool) {
	id, ok := parseID(c, "id")
	if !ok {
		return nil, false
	}
	var r domain.Reservation
	if !findOr404(c, db.Preload("User"), &r, id, "Reservation") {
		return nil, false
	}
	if user := middleware.CurrentUser(c); r.UserID != user.ID && !user.IsAdmin() {
		c.JSON(http.StatusForbidden, gin.H{"error": "You can only modify your own reservations"})
		return nil, false
	}
	return &r, true
}

// UpdateReservationHandler moves a reservation, applying the same checks as creation
func UpdateReservationHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		r, ok := ownReservation(c, db)
		if !ok {
			return
		}
		var req ReservationRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			middleware.HandleValidationError(c, err)
			return
		}
		if !bookSlot(c, db, r, req) {
			return
		}
		c.JSON(http.StatusOK, r)
	}
}

// DeleteReservationHandler cancels a reservation
func DeleteReservationHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		r, ok := ownReservation(c, db)
		if !ok {
			return
		}
		if err := db.WithContext(c.Request.Context()).Delete(&domain.Reservation{}, r.ID).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete reservation"})
			return
		}
		c.Status(http.StatusNoContent)
	}
}
