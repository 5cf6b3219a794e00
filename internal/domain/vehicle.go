package domain

import "time"

// Plate statuses
const (
	PlateStatusAuthorized = "AUTHORIZED"
	PlateStatusPending    = "PENDING"
	PlateStatusRevoked    = "REVOKED"
)

// Access types recorded for each plate read
const (
	AccessGranted = "GRANTED"
	AccessDenied  = "DENIED"
	AccessPending = "PENDING"
)

// UnknownPlate is logged when text was read but no plate pattern matched
const UnknownPlate = "UNKNOWN"

// Vehicle Model
type Vehicle struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	OwnerID     uint   `gorm:"index;not null" json:"-"`
	Owner       User   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"owner"`
	PlateNumber string `gorm:"size:10;uniqueIndex;not null" json:"plate_number"`
	Brand       string `gorm:"size:50" json:"brand"`
	Model       string `gorm:"size:50" json:"model"`
}

// VehiclePlate Model, the authorization list consulted by the gate camera
type VehiclePlate struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	PlateNumber string    `gorm:"size:15;uniqueIndex;not null" json:"plate_number"`
	VehicleID   uint      `gorm:"index;not null" json:"vehicle"`
	Vehicle     Vehicle   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	UnitID      uint      `gorm:"index;not null" json:"unit"`
	Unit        Unit      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	OwnerID     uint      `gorm:"index;not null" json:"owner"`
	Owner       User      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	IsActive    bool      `gorm:"not null;default:true" json:"is_active"`
	Status      string    `gorm:"size:20;not null;default:AUTHORIZED" json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// VehicleAccessLog Model
type VehicleAccessLog struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	PlateNumber     string    `gorm:"size:15;index;not null" json:"plate_number"`
	VehicleImage    string    `gorm:"size:255" json:"vehicle_image"` // Object storage key
	ConfidenceScore float64   `gorm:"not null" json:"confidence_score"`
	IsAuthorized    bool      `gorm:"not null;default:false" json:"is_authorized"`
	AccessGranted   bool      `gorm:"not null;default:false" json:"access_granted"`
	AccessType      string    `gorm:"size:20;not null;default:PENDING" json:"access_type"`
	Timestamp       time.Time `gorm:"autoCreateTime;index" json:"timestamp"`
	CameraLocation  string    `gorm:"size:100" json:"camera_location"`
	Notes           string    `gorm:"type:text" json:"notes"`
}
