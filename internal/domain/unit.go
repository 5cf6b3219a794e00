package domain

// Unit Model
type Unit struct {
	ID        uint   `gorm:"primaryKey" json:"id"`                       // Primary key
	Number    string `gorm:"size:10;uniqueIndex;not null" json:"number"` // Unit number, e.g. 101
	Floor     int    `gorm:"not null" json:"floor"`                      // Floor the unit is on
	Residents []User `gorm:"many2many:unit_residents;" json:"residents"` // Users living in the unit
}

// CommonArea Model
type CommonArea struct {
	ID            uint   `gorm:"primaryKey" json:"id"`
	Name          string `gorm:"size:100;not null" json:"name"`
	Description   string `gorm:"type:text" json:"description"`
	AvailableFrom string `gorm:"size:5;not null" json:"available_from"` // HH:MM
	AvailableTo   string `gorm:"size:5;not null" json:"available_to"`   // HH:MM
	Capacity      int    `gorm:"not null" json:"capacity"`
}
