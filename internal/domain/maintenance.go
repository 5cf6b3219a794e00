package domain

import "time"

// Maintenance request statuses
const (
	MaintenanceStatusPending    = "PENDIENTE"
	MaintenanceStatusInProgress = "EN PROCESO"
	MaintenanceStatusDone       = "FINALIZADA"
)

// MaintenanceRequest Model
type MaintenanceRequest struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UnitID      uint      `gorm:"index;not null" json:"unit"`
	Unit        Unit      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	Description string    `gorm:"type:text;not null" json:"description"`
	Status      string    `gorm:"size:20;not null;default:PENDIENTE" json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	Image       string    `gorm:"size:255" json:"image"` // Object storage key
}
