package endpoint

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/docspot/docspot-api/config"
	"github.com/docspot/docspot-api/middleware"
	"github.com/docspot/docspot-api/model"
	"github.com/docspot/docspot-api/util"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

// endpointTestModels defines the standard set of models migrated for endpoint tests
var endpointTestModels = []interface{}{
	&model.User{},
	&model.Doctor{},
	&model.Appointment{},
	&model.Notification{},
	&model.AuditLog{},
}

// setupEndpointTestDB initializes a test database with all standard models migrated.
// Cleanup is automatically registered via t.Cleanup().
func setupEndpointTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := config.ConnectDatabase()
	if err != nil {
		t.Fatalf("failed to connect test DB: %v", err)
	}

	if err := db.AutoMigrate(endpointTestModels...); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}

	for _, m := range endpointTestModels {
		db.Where("1 = 1").Delete(m)
	}

	t.Cleanup(func() {
		for _, m := range endpointTestModels {
			_ = db.Migrator().DropTable(m)
		}
	})

	return db
}

// setupEndpointTest returns a Gin engine and database connection configured for endpoint tests.
func setupEndpointTest(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := setupEndpointTestDB(t)
	r := gin.New()
	r.Use(middleware.DatabaseMiddleware(db))
	return r, db
}

// withUser injects an authenticated account into the request context the way
// the auth middleware would, without needing a token.
func withUser(user *model.User) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.ContextKeyUserID, user.ID)
		c.Set(middleware.ContextKeyUser, user)
		c.Next()
	}
}

type requestSpec struct {
	method       string
	registerPath string
	requestPath  string
	middlewares  []gin.HandlerFunc
	handler      gin.HandlerFunc
	body         interface{}
	contentType  string
	headers      map[string]string
}

func performRequest(r *gin.Engine, spec requestSpec) (*httptest.ResponseRecorder, map[string]interface{}, error) {
	var reader *strings.Reader
	contentType := ""
	switch v := spec.body.(type) {
	case nil:
		reader = strings.NewReader("")
	case string:
		reader = strings.NewReader(v)
		contentType = "application/json"
	default:
		b, _ := json.Marshal(spec.body)
		reader = strings.NewReader(string(b))
		contentType = "application/json"
	}
	if spec.contentType != "" {
		contentType = spec.contentType
	}

	req := httptest.NewRequest(spec.method, spec.requestPath, reader)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	for key, value := range spec.headers {
		req.Header.Set(key, value)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var response map[string]interface{}
	if w.Body.Len() > 0 {
		if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
			return w, nil, err
		}
	}
	return w, response, nil
}

func doRequestWithHandler(r *gin.Engine, spec requestSpec) (*httptest.ResponseRecorder, map[string]interface{}, error) {
	handlers := append(append([]gin.HandlerFunc{}, spec.middlewares...), spec.handler)
	r.Handle(spec.method, spec.registerPath, handlers...)
	return performRequest(r, spec)
}

// assertStatus asserts that the response HTTP status code matches the expected value
func assertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	assert.Equal(t, expected, w.Code)
}

// assertSuccessResponse asserts that the response indicates success with HTTP 200
func assertSuccessResponse(t *testing.T, w *httptest.ResponseRecorder, response map[string]interface{}) {
	t.Helper()
	assert.Equal(t, http.StatusOK, w.Code)
	if response == nil {
		return
	}
	if success, ok := response["success"].(bool); ok {
		assert.True(t, success)
	}
}

const testPassword = "password123"

func createTestUser(db *gorm.DB, t *testing.T, role string) model.User {
	t.Helper()
	hashed, err := util.HashPassword(testPassword)
	assert.NoError(t, err)
	user := model.User{
		Name:     "Test User",
		Email:    fmt.Sprintf("user%d@test.com", time.Now().UnixNano()),
		Password: hashed,
		Phone:    "081234567890",
		Role:     role,
		IsDoctor: role == model.RoleDoctor,
	}
	err = db.Create(&user).Error
	assert.NoError(t, err)
	return user
}

func createTestDoctor(db *gorm.DB, t *testing.T, userID uint, status string) model.Doctor {
	t.Helper()
	doctor := model.Doctor{
		UserID:         userID,
		FullName:       "Dr. Test",
		Email:          fmt.Sprintf("doctor%d@test.com", time.Now().UnixNano()),
		Phone:          "081234567891",
		Specialization: "Cardiology",
		Experience:     "5 years",
		Fees:           150,
		Address:        "123 Clinic St",
		Status:         status,
	}
	err := db.Create(&doctor).Error
	assert.NoError(t, err)
	return doctor
}

func createTestAppointment(db *gorm.DB, t *testing.T, userID, doctorID uint, status string) model.Appointment {
	t.Helper()
	appointment := model.Appointment{
		UserID:   userID,
		DoctorID: doctorID,
		Date:     time.Now().Add(48 * time.Hour),
		Status:   status,
	}
	err := db.Create(&appointment).Error
	assert.NoError(t, err)
	return appointment
}

func countNotifications(db *gorm.DB, userID uint, notificationType string) int64 {
	var count int64
	db.Model(&model.Notification{}).Where("user_id = ? AND type = ?", userID, notificationType).Count(&count)
	return count
}
