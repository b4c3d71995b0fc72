package model

import (
	"time"

	"gorm.io/gorm"
)

// Appointment lifecycle states.
const (
	AppointmentPending   = "pending"
	AppointmentScheduled = "scheduled"
	AppointmentCompleted = "completed"
	AppointmentCancelled = "cancelled"
)

// Appointment links a patient account to a doctor profile.
// AppointmentTime is set only when a doctor schedules the booking.
type Appointment struct {
	gorm.Model
	UserID          uint       `json:"userId" gorm:"index;not null"`
	DoctorID        uint       `json:"doctorId" gorm:"index;not null"`
	Date            time.Time  `json:"date"`
	Document        string     `json:"document"`
	AppointmentTime *time.Time `json:"appointmentTime,omitempty"`
	Status          string     `json:"status" gorm:"size:16;default:pending"`
}

// appointmentTransitions encodes the allowed lifecycle edges:
// pending -> scheduled -> completed, with cancellation reachable from
// pending and scheduled. completed and cancelled are terminal.
var appointmentTransitions = map[string][]string{
	AppointmentPending:   {AppointmentScheduled, AppointmentCancelled},
	AppointmentScheduled: {AppointmentCompleted, AppointmentCancelled},
}

// CanTransitionAppointment reports whether an appointment may move from one
// status to another.
func CanTransitionAppointment(from, to string) bool {
	for _, next := range appointmentTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// ValidAppointmentStatus reports whether s is a known lifecycle state.
func ValidAppointmentStatus(s string) bool {
	switch s {
	case AppointmentPending, AppointmentScheduled, AppointmentCompleted, AppointmentCancelled:
		return true
	}
	return false
}
