package domain

import (
	"time"

	"gorm.io/datatypes"
)

// Notification types
const (
	NotificationNotice      = "AVISO"
	NotificationPayment     = "PAGO"
	NotificationAlert       = "ALERTA"
	NotificationReservation = "RESERVA"
	NotificationMaintenance = "MANTENIMIENTO"
)

// Notification statuses
const (
	NotificationStatusPending = "PENDIENTE"
	NotificationStatusSent    = "ENVIADA"
	NotificationStatusRead    = "LEÍDA"
)

// Notification Model
type Notification struct {
	ID               uint           `gorm:"primaryKey" json:"id"`
	UserID           uint           `gorm:"index;not null" json:"-"`
	User             User           `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	NotificationType string         `gorm:"size:20;not null" json:"notification_type"`
	Title            string         `gorm:"size:200;not null" json:"title"`
	Message          string         `gorm:"type:text" json:"message"`
	Payload          datatypes.JSON `json:"payload"` // Extra data such as the related reservation id
	SentAt           time.Time      `gorm:"autoCreateTime;index" json:"sent_at"`
	Status           string         `gorm:"size:20;not null;default:PENDIENTE" json:"status"`
}
