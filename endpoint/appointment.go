package endpoint

import (
	"fmt"
	"strconv"
	"time"

	"github.com/docspot/docspot-api/model"
	"github.com/docspot/docspot-api/util"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// BookAppointment godoc
// @Summary      Book an appointment (patient only)
// @Description  Creates a pending appointment and notifies the doctor's account best-effort
// @Tags         Appointments
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Success      201 {object} util.APIResponse "Appointment booked"
// @Failure      400 {object} util.APIResponse "Invalid payload"
// @Failure      401 {object} util.APIResponse "Unauthorized"
// @Failure      403 {object} util.APIResponse "Forbidden"
// @Failure      500 {object} util.APIResponse "Server error"
// @Router       /api/appointment/book [post]
func BookAppointment(c *gin.Context) {
	user, ok := getUserOrRespond(c)
	if !ok {
		return
	}

	doctorID, err := strconv.ParseUint(c.PostForm("doctorId"), 10, 32)
	if err != nil || doctorID == 0 {
		util.CallUserError(c, util.APIErrorParams{Msg: "doctorId is required", Err: fmt.Errorf("invalid doctor id")})
		return
	}

	date, err := time.Parse(time.RFC3339, c.PostForm("date"))
	if err != nil {
		util.CallUserError(c, util.APIErrorParams{Msg: "date must be an RFC3339 timestamp", Err: err})
		return
	}

	document, err := saveUploadedDocument(c, "document")
	if err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to store uploaded document", Err: err})
		return
	}

	db, ok := getDBOrRespond(c)
	if !ok {
		return
	}

	appointment := model.Appointment{
		UserID:   user.ID,
		DoctorID: uint(doctorID),
		Date:     date,
		Document: document,
		Status:   model.AppointmentPending,
	}
	if err := db.Create(&appointment).Error; err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to book appointment", Err: err})
		return
	}

	// Best-effort: a missing doctor or owning account skips the notification
	// without failing the booking.
	var doctor model.Doctor
	if err := db.First(&doctor, appointment.DoctorID).Error; err == nil {
		var owner model.User
		if err := db.First(&owner, doctor.UserID).Error; err == nil {
			notifyUser(db, owner.ID, model.Notification{
				Type:        model.NotificationNewAppointment,
				Message:     fmt.Sprintf("A new appointment request from %s", user.Name),
				OnClickPath: "/doctor/appointments",
			})
		}
	}

	util.LogEvent(util.Event{
		EventType: util.EventAppointmentBooked,
		UserID:    fmt.Sprintf("%d", user.ID),
		Email:     user.Email,
		IP:        c.ClientIP(),
		Message:   fmt.Sprintf("Appointment %d booked with doctor %d", appointment.ID, appointment.DoctorID),
	})

	util.CallSuccessCreated(c, util.APISuccessParams{Msg: "Appointment booked", Data: appointment})
}

// UserAppointments godoc
// @Summary      Appointments for the authenticated patient
// @Tags         Appointments
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} util.APIResponse "Appointments retrieved"
// @Failure      401 {object} util.APIResponse "Unauthorized"
// @Failure      500 {object} util.APIResponse "Server error"
// @Router       /api/appointment/user [get]
func UserAppointments(c *gin.Context) {
	user, ok := getUserOrRespond(c)
	if !ok {
		return
	}
	db, ok := getDBOrRespond(c)
	if !ok {
		return
	}

	var appointments []model.Appointment
	if err := db.Where("user_id = ?", user.ID).Find(&appointments).Error; err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to retrieve appointments", Err: err})
		return
	}

	util.CallSuccessOK(c, util.APISuccessParams{Msg: "Appointments retrieved", Data: appointments})
}

// DoctorAppointments godoc
// @Summary      Appointments for the caller's doctor profile
// @Tags         Appointments
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} util.APIResponse "Appointments retrieved"
// @Failure      404 {object} util.APIResponse "Doctor profile not found"
// @Failure      500 {object} util.APIResponse "Server error"
// @Router       /api/appointment/doctor [get]
func DoctorAppointments(c *gin.Context) {
	user, ok := getUserOrRespond(c)
	if !ok {
		return
	}
	db, ok := getDBOrRespond(c)
	if !ok {
		return
	}

	var doctor model.Doctor
	if err := db.Where("user_id = ?", user.ID).First(&doctor).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			util.CallErrorNotFound(c, util.APIErrorParams{Msg: "Doctor profile not found", Err: err})
			return
		}
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to retrieve doctor", Err: err})
		return
	}

	var appointments []model.Appointment
	if err := db.Where("doctor_id = ?", doctor.ID).Find(&appointments).Error; err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to retrieve appointments", Err: err})
		return
	}

	util.CallSuccessOK(c, util.APISuccessParams{Msg: "Appointments retrieved", Data: appointments})
}

type updateAppointmentStatusRequest struct {
	AppointmentID   uint   `json:"appointmentId" binding:"required"`
	Status          string `json:"status" binding:"required"`
	AppointmentTime string `json:"appointmentTime"`
}

// UpdateAppointmentStatus godoc
// @Summary      Transition an appointment (doctor only, own appointments)
// @Description  Scheduling requires a concrete appointment time; the patient is notified and mailed
// @Tags         Appointments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body updateAppointmentStatusRequest true "Target status"
// @Success      200 {object} util.APIResponse "Status updated"
// @Failure      400 {object} util.APIResponse "Invalid status or transition"
// @Failure      403 {object} util.APIResponse "Appointment belongs to another doctor"
// @Failure      404 {object} util.APIResponse "Appointment or doctor profile not found"
// @Failure      500 {object} util.APIResponse "Server error"
// @Router       /api/appointment/update-status [post]
func UpdateAppointmentStatus(c *gin.Context) {
	user, ok := getUserOrRespond(c)
	if !ok {
		return
	}

	var req updateAppointmentStatusRequest
	if !bindJSONOrRespond(c, &req, "Invalid request payload") {
		return
	}

	if !model.ValidAppointmentStatus(req.Status) {
		util.CallUserError(c, util.APIErrorParams{Msg: "Invalid status", Err: fmt.Errorf("unknown status %q", req.Status)})
		return
	}

	// Scheduling without a concrete time is rejected rather than silently
	// leaving the time unset.
	var appointmentTime *time.Time
	if req.Status == model.AppointmentScheduled {
		if req.AppointmentTime == "" {
			util.CallUserError(c, util.APIErrorParams{Msg: "appointmentTime is required when scheduling", Err: fmt.Errorf("missing appointment time")})
			return
		}
		parsed, err := time.Parse(time.RFC3339, req.AppointmentTime)
		if err != nil {
			util.CallUserError(c, util.APIErrorParams{Msg: "appointmentTime must be an RFC3339 timestamp", Err: err})
			return
		}
		appointmentTime = &parsed
	}

	db, ok := getDBOrRespond(c)
	if !ok {
		return
	}

	var doctor model.Doctor
	if err := db.Where("user_id = ?", user.ID).First(&doctor).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			util.CallErrorNotFound(c, util.APIErrorParams{Msg: "Doctor profile not found", Err: err})
			return
		}
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to retrieve doctor", Err: err})
		return
	}

	var appointment model.Appointment
	if err := db.First(&appointment, req.AppointmentID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			util.CallErrorNotFound(c, util.APIErrorParams{Msg: "Appointment not found", Err: err})
			return
		}
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to retrieve appointment", Err: err})
		return
	}

	// A doctor may only transition appointments on their own profile.
	if appointment.DoctorID != doctor.ID {
		util.LogUnauthorizedAccess(fmt.Sprintf("%d", user.ID), user.Email, c.ClientIP(), c.Request.URL.Path, "appointment belongs to another doctor")
		util.CallForbidden(c, util.APIErrorParams{Msg: "Access denied", Err: fmt.Errorf("appointment belongs to another doctor")})
		return
	}

	if !model.CanTransitionAppointment(appointment.Status, req.Status) {
		util.CallUserError(c, util.APIErrorParams{
			Msg: fmt.Sprintf("Cannot change appointment from %s to %s", appointment.Status, req.Status),
			Err: fmt.Errorf("invalid transition"),
		})
		return
	}

	appointment.Status = req.Status
	if appointmentTime != nil {
		appointment.AppointmentTime = appointmentTime
	}
	if err := db.Save(&appointment).Error; err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to update appointment", Err: err})
		return
	}

	// The status change is authoritative; notification and mail are
	// best-effort side effects.
	var timeInfo string
	if appointment.AppointmentTime != nil {
		timeInfo = fmt.Sprintf(" on %s", appointment.AppointmentTime.Format(time.RFC1123))
	}
	notifyUser(db, appointment.UserID, model.Notification{
		Type:        model.NotificationStatusUpdated,
		Message:     fmt.Sprintf("Your appointment has been %s%s", req.Status, timeInfo),
		OnClickPath: "/doctor-appointments",
	})

	var patient model.User
	if err := db.First(&patient, appointment.UserID).Error; err == nil {
		util.DispatchMail(util.Mail{
			To:      patient.Email,
			Subject: "Appointment Status Update - DocSpot",
			Body: fmt.Sprintf("Hello %s,\n\nYour appointment with Dr. %s has been %s%s.\n\nLog in to your dashboard for more details.\n\nBest regards,\nDocSpot Team",
				patient.Name, doctor.FullName, req.Status, timeInfo),
		})
	}

	util.LogEvent(util.Event{
		EventType: util.EventAppointmentUpdated,
		UserID:    fmt.Sprintf("%d", user.ID),
		Email:     util.GetUserEmail(db, appointment.UserID),
		IP:        c.ClientIP(),
		Message:   fmt.Sprintf("Appointment %d moved to %s", appointment.ID, req.Status),
	})

	util.CallSuccessOK(c, util.APISuccessParams{Msg: "Appointment status updated", Data: appointment})
}
