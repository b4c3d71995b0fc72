package model

import (
	"time"

	"gorm.io/datatypes"
)

// Notification types emitted by the doctor and appointment workflows.
const (
	NotificationApplyDoctor         = "apply-doctor-request"
	NotificationNewAppointment      = "new-appointment-request"
	NotificationStatusUpdated       = "status-updated"
	NotificationDoctorStatusUpdated = "doctor-account-request-updated"
)

// Notification is a single immutable entry in an account's inbox.
// Each entry is its own row so appends are single INSERTs; concurrent
// workflow completions can never overwrite each other's entries.
type Notification struct {
	ID          uint           `json:"id" gorm:"primaryKey"`
	UserID      uint           `json:"-" gorm:"index;not null"`
	Type        string         `json:"type" gorm:"size:64"`
	Message     string         `json:"message"`
	OnClickPath string         `json:"onClickPath,omitempty"`
	Data        datatypes.JSON `json:"data,omitempty" gorm:"type:json"`
	CreatedAt   time.Time      `json:"createdAt"`
}
