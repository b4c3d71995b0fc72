package endpoint

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/docspot/docspot-api/model"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestListUsers_PatientsOnly(t *testing.T) {
	r, db := setupEndpointTest(t)
	patient := createTestUser(db, t, model.RolePatient)
	createTestUser(db, t, model.RoleAdmin)
	createTestUser(db, t, model.RoleDoctor)

	w, response, err := doRequestWithHandler(r, requestSpec{
		method:       http.MethodGet,
		registerPath: "/api/user/all",
		requestPath:  "/api/user/all",
		handler:      ListUsers,
	})
	assert.NoError(t, err)
	assertSuccessResponse(t, w, response)

	users, ok := response["data"].([]interface{})
	assert.True(t, ok)
	assert.Len(t, users, 1)
	first, ok := users[0].(map[string]interface{})
	assert.True(t, ok)
	assert.Equal(t, patient.Email, first["email"])
	_, exposed := first["password"]
	assert.False(t, exposed, "password hash must never leave the API")
}

func TestDeleteUser_RemovesAccountAndNotifications(t *testing.T) {
	r, db := setupEndpointTest(t)
	user := createTestUser(db, t, model.RolePatient)
	db.Create(&model.Notification{UserID: user.ID, Type: model.NotificationStatusUpdated, Message: "old news"})

	w, response, err := doRequestWithHandler(r, requestSpec{
		method:       http.MethodPost,
		registerPath: "/api/user/delete/:id",
		requestPath:  fmt.Sprintf("/api/user/delete/%d", user.ID),
		handler:      DeleteUser,
	})
	assert.NoError(t, err)
	assertSuccessResponse(t, w, response)

	var count int64
	db.Model(&model.User{}).Where("id = ?", user.ID).Count(&count)
	assert.Equal(t, int64(0), count)

	var notifCount int64
	db.Model(&model.Notification{}).Where("user_id = ?", user.ID).Count(&notifCount)
	assert.Equal(t, int64(0), notifCount)
}

func TestDeleteUser_KeepsAppointments(t *testing.T) {
	r, db := setupEndpointTest(t)
	user := createTestUser(db, t, model.RolePatient)
	doctorOwner := createTestUser(db, t, model.RoleDoctor)
	doctor := createTestDoctor(db, t, doctorOwner.ID, model.DoctorApproved)
	appointment := createTestAppointment(db, t, user.ID, doctor.ID, model.AppointmentPending)

	w, response, err := doRequestWithHandler(r, requestSpec{
		method:       http.MethodPost,
		registerPath: "/api/user/delete/:id",
		requestPath:  fmt.Sprintf("/api/user/delete/%d", user.ID),
		handler:      DeleteUser,
	})
	assert.NoError(t, err)
	assertSuccessResponse(t, w, response)

	var kept model.Appointment
	assert.NoError(t, db.First(&kept, appointment.ID).Error)
}

func TestDeleteUser_NotFound(t *testing.T) {
	r, _ := setupEndpointTest(t)

	w, _, err := doRequestWithHandler(r, requestSpec{
		method:       http.MethodPost,
		registerPath: "/api/user/delete/:id",
		requestPath:  "/api/user/delete/9999",
		handler:      DeleteUser,
	})
	assert.NoError(t, err)
	assertStatus(t, w, http.StatusNotFound)
}

func TestDeleteUser_InvalidID(t *testing.T) {
	r, _ := setupEndpointTest(t)

	w, _, err := doRequestWithHandler(r, requestSpec{
		method:       http.MethodPost,
		registerPath: "/api/user/delete/:id",
		requestPath:  "/api/user/delete/abc",
		handler:      DeleteUser,
	})
	assert.NoError(t, err)
	assertStatus(t, w, http.StatusBadRequest)
}

func TestListNotifications_ChronologicalOrder(t *testing.T) {
	r, db := setupEndpointTest(t)
	user := createTestUser(db, t, model.RolePatient)

	earlier := time.Now().Add(-time.Hour)
	db.Create(&model.Notification{UserID: user.ID, Type: model.NotificationNewAppointment, Message: "first", CreatedAt: earlier})
	db.Create(&model.Notification{UserID: user.ID, Type: model.NotificationStatusUpdated, Message: "second", CreatedAt: time.Now()})

	w, response, err := doRequestWithHandler(r, requestSpec{
		method:       http.MethodGet,
		registerPath: "/api/user/notifications",
		requestPath:  "/api/user/notifications",
		middlewares:  []gin.HandlerFunc{withUser(&user)},
		handler:      ListNotifications,
	})
	assert.NoError(t, err)
	assertSuccessResponse(t, w, response)

	notifications, ok := response["data"].([]interface{})
	assert.True(t, ok)
	if assert.Len(t, notifications, 2) {
		first, _ := notifications[0].(map[string]interface{})
		assert.Equal(t, "first", first["message"])
	}
}

func TestListNotifications_Empty(t *testing.T) {
	r, db := setupEndpointTest(t)
	user := createTestUser(db, t, model.RolePatient)

	w, response, err := doRequestWithHandler(r, requestSpec{
		method:       http.MethodGet,
		registerPath: "/api/user/notifications",
		requestPath:  "/api/user/notifications",
		middlewares:  []gin.HandlerFunc{withUser(&user)},
		handler:      ListNotifications,
	})
	assert.NoError(t, err)
	assertSuccessResponse(t, w, response)

	notifications, ok := response["data"].([]interface{})
	if ok {
		assert.Len(t, notifications, 0)
	}
}
