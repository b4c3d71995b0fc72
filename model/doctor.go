package model

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Doctor profile approval states.
const (
	DoctorPending  = "pending"
	DoctorApproved = "approved"
	DoctorRejected = "rejected"
)

// Doctor is the professional profile linked 1:1 to a doctor-role account.
// Approval is terminal: a rejected profile is never transitioned back,
// re-application creates a new profile.
type Doctor struct {
	gorm.Model
	UserID         uint           `json:"userId" gorm:"index;not null"`
	FullName       string         `json:"fullname"`
	Email          string         `json:"email"`
	Phone          string         `json:"phone"`
	Specialization string         `json:"specialization"`
	Experience     string         `json:"experience"`
	Fees           float64        `json:"fees"`
	Timings        datatypes.JSON `json:"timings" gorm:"type:json"`
	Address        string         `json:"address"`
	Documents      string         `json:"documents"`
	Status         string         `json:"status" gorm:"size:16;default:pending"`
}

// ValidDoctorStatus reports whether s is a known approval state.
func ValidDoctorStatus(s string) bool {
	return s == DoctorPending || s == DoctorApproved || s == DoctorRejected
}
