package domain

import "time"

// Visitor statuses
const (
	VisitorStatusCreated   = "CREADA"
	VisitorStatusValidated = "VALIDADA"
	VisitorStatusDenied    = "DENEGADA"
	VisitorStatusExpired   = "CADUCADA"
)

// Visitor Model
type Visitor struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	Name          string     `gorm:"size:100;not null" json:"name"`
	DNI           string     `gorm:"column:dni;size:20;uniqueIndex;not null" json:"dni"`
	PhoneNumber   string     `gorm:"size:17" json:"phone_number"`
	VisitedUnitID uint       `gorm:"index;not null" json:"visited_unit"`
	VisitedUnit   Unit       `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	ScheduledAt   time.Time  `gorm:"index" json:"scheduled_at"`
	EntryTime     *time.Time `json:"entry_time"`
	ExitTime      *time.Time `json:"exit_time"`
	Status        string     `gorm:"size:20;not null;default:CREADA" json:"status"`
	QRCode        *string    `gorm:"column:qr_code;size:200;uniqueIndex" json:"qr_code"`
	Purpose       string     `gorm:"size:200" json:"purpose"`
}
