package api

import (
	"context"                               // Context for the database call
	"encoding/json"                         // Payload encoding
	"net/http"                              // HTTP status codes
	"smart_condominium/internal/domain"     // Importing domain models
	"smart_condominium/internal/middleware" // Current user and validation

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
	"gorm.io/datatypes"          // JSON column type
	"gorm.io/gorm"               // GORM ORM library
)

// NotificationRequest is the body of an admin notification
type NotificationRequest struct {
	UserID           uint           `json:"user_id" binding:"required"`
	NotificationType string         `json:"notification_type" binding:"required,oneof=AVISO PAGO ALERTA RESERVA MANTENIMIENTO"`
	Title            string         `json:"title" binding:"required,max=200"`
	Message          string         `json:"message" binding:"required"`
	Payload          datatypes.JSON `json:"payload"`
}

// notify queues one notification per user. Failures are logged: a notification never
// blocks the write that triggered it.
func notify(ctx context.Context, db *gorm.DB, userIDs []uint, kind, title, message string, payload map[string]any) {
	if len(userIDs) == 0 {
		return
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		raw = []byte("{}")
	}
	rows := make([]domain.Notification, 0, len(userIDs))
	for _, id := range userIDs {
		rows = append(rows, domain.Notification{
			UserID:           id,
			NotificationType: kind,
			Title:            title,
			Message:          message,
			Payload:          datatypes.JSON(raw),
			Status:           domain.NotificationStatusPending,
		})
	}
	if err := db.WithContext(ctx).Omit("User").Create(&rows).Error; err != nil {
		logrus.WithFields(logrus.Fields{
			"type":  kind,         // Notification type
			"users": len(userIDs), // Recipients
			"error": err.Error(),  // Error message
		}).Warn("Failed to queue notifications")
	}
}

// unitResidentIDs returns the IDs of the users living in a unit
func unitResidentIDs(ctx context.Context, db *gorm.DB, unitID uint) []uint {
	var ids []uint
	if err := db.WithContext(ctx).Table("unit_residents").Where("unit_id = ?", unitID).Pluck("user_id", &ids).Error; err != nil {
		logrus.WithFields(logrus.Fields{"unit_id": unitID, "error": err.Error()}).Warn("Failed to load unit residents")
	}
	return ids
}

// ListNotificationsHandler returns the current user's notifications, newest first
func ListNotificationsHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		query := db.Model(&domain.Notification{}).
			Where("user_id = ?", middleware.CurrentUser(c).ID).
			Order("sent_at desc, id desc")
		if status := c.Query("status"); status != "" {
			query = query.Where("status = ?", status) // Filter by status
		}
		resp, ok := paginate[domain.Notification](c, query, "notifications")
		if !ok {
			return
		}
		c.JSON(http.StatusOK, resp)
	}
}

// CreateNotificationHandler sends a notification to a user (admin only)
func CreateNotificationHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req NotificationRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			middleware.HandleValidationError(c, err)
			return
		}
		var user domain.User
		if !findOr404(c, db, &user, req.UserID, "User") {
			return
		}
		n := domain.Notification{
			UserID:           user.ID,
			NotificationType: req.NotificationType,
			Title:            req.Title,
			Message:          req.Message,
			Payload:          req.Payload,
			Status:           domain.NotificationStatusSent,
		}
		if len(n.Payload) == 0 {
			n.Payload = datatypes.JSON("{}")
		}
		if err := db.WithContext(c.Request.Context()).Omit("User").Create(&n).Error; err != nil {
			saveError(c, err, "Notification")
			return
		}
		c.JSON(http.StatusCreated, n)
	}
}

// MarkNotificationReadHandler marks one of the current user's notifications as read
func MarkNotificationReadHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c, "id")
		if !ok {
			return
		}
		var n domain.Notification
		// Other users' notifications are reported as missing
		if !findOr404(c, db.Where("user_id = ?", middleware.CurrentUser(c).ID), &n, id, "Notification") {
			return
		}
		if err := db.WithContext(c.Request.Context()).Model(&n).Update("status", domain.NotificationStatusRead).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update notification"})
			return
		}
		n.Status = domain.NotificationStatusRead
		c.JSON(http.StatusOK, n)
	}
}
