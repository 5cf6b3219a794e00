package domain

import "time"

// Security event types
const (
	EventFaceRecognition    = "face_recognition"
	EventPlateRecognition   = "plate_recognition"
	EventUnauthorizedAccess = "unauthorized_access"
	EventSuspiciousActivity = "suspicious_activity"
)

// SecurityEventTypes lists every accepted event type
var SecurityEventTypes = []string{EventFaceRecognition, EventPlateRecognition, EventUnauthorizedAccess, EventSuspiciousActivity}

// FaceRecord Model, one stored encoding per enrolled user
type FaceRecord struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	UserID       uint      `gorm:"uniqueIndex;not null" json:"-"`
	User         User      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"user"`
	FaceEncoding string    `gorm:"type:text;not null" json:"face_encoding"` // Comma-joined floats
	CreatedAt    time.Time `json:"created_at"`
}

// SecurityEvent Model, the audit row written by every recognition attempt
type SecurityEvent struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	EventType   string    `gorm:"size:30;index;not null" json:"event_type"`
	Description string    `gorm:"type:text" json:"description"`
	Timestamp   time.Time `gorm:"autoCreateTime;index" json:"timestamp"`
	Image       string    `gorm:"size:255" json:"image"` // Object storage key
	UserID      *uint     `gorm:"index" json:"user"`
	User        *User     `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"-"`
}
