package model

import "gorm.io/gorm"

// Account roles. New registrations default to patient; doctor is assigned
// through the doctor application workflow and admin only through seeding.
const (
	RolePatient = "patient"
	RoleDoctor  = "doctor"
	RoleAdmin   = "admin"
)

// User represents an authenticated account.
// The password hash never leaves the server.
type User struct {
	gorm.Model
	Name          string         `json:"name"`
	Email         string         `json:"email" gorm:"uniqueIndex;size:191"`
	Password      string         `json:"-"`
	Phone         string         `json:"phone"`
	Role          string         `json:"role" gorm:"size:16;default:patient"`
	IsDoctor      bool           `json:"isDoctor" gorm:"default:false"`
	Notifications []Notification `json:"notifications,omitempty" gorm:"foreignKey:UserID"`
}

// ValidRole reports whether s is one of the known account roles.
func ValidRole(s string) bool {
	return s == RolePatient || s == RoleDoctor || s == RoleAdmin
}
