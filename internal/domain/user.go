package domain

import "time"

// User types
const (
	UserTypeAdmin       = "admin"
	UserTypeResident    = "resident"
	UserTypeSecurity    = "security"
	UserTypeMaintenance = "maintenance"
)

// UserTypes lists every accepted user type
var UserTypes = []string{UserTypeAdmin, UserTypeResident, UserTypeSecurity, UserTypeMaintenance}

// IsValidUserType reports whether t is one of UserTypes
func IsValidUserType(t string) bool {
	for _, v := range UserTypes {
		if v == t {
			return true
		}
	}
	return false
}

// User Model
type User struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Username    string    `gorm:"size:150;uniqueIndex;not null" json:"username"`
	Email       string    `gorm:"size:254" json:"email"`
	Password    string    `gorm:"not null" json:"-"` // Hashed password
	FirstName   string    `gorm:"size:150" json:"first_name"`
	LastName    string    `gorm:"size:150" json:"last_name"`
	DNI         string    `gorm:"column:dni;size:20;uniqueIndex;not null" json:"dni"`
	PhoneNumber string    `gorm:"size:17" json:"phone_number"`
	BirthDate   *string   `gorm:"size:10" json:"birth_date"` // YYYY-MM-DD
	UserType    string    `gorm:"size:20;not null;default:resident" json:"user_type"`
	IsActive    bool      `gorm:"not null;default:true" json:"is_active"`
	Units       []Unit    `gorm:"many2many:unit_residents;" json:"-"`
	CreatedAt   time.Time `json:"date_joined"`
	UpdatedAt   time.Time `json:"-"`
}

// IsAdmin reports whether the user has the admin user type
func (u *User) IsAdmin() bool {
	return u.UserType == UserTypeAdmin
}

// HasUserType reports whether the user's type is one of types
func (u *User) HasUserType(types ...string) bool {
	for _, t := range types {
		if u.UserType == t {
			return true
		}
	}
	return false
}
