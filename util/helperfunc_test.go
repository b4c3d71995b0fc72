package util

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestContains(t *testing.T) {
	list := []string{"patient", "doctor", "admin"}
	assert.True(t, Contains("doctor", list))
	assert.False(t, Contains("Doctor", list))
	assert.False(t, Contains("nurse", list))
	assert.False(t, Contains("patient", nil))
}

func TestNormalizeName(t *testing.T) {
	assert.Equal(t, "Jane Doe", NormalizeName("  Jane   Doe "))
	assert.Equal(t, "Jane", NormalizeName("Jane"))
	assert.Equal(t, "", NormalizeName("   "))
}

func callEnvelope(t *testing.T, fn func(*gin.Context)) (*httptest.ResponseRecorder, APIResponse) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	fn(c)

	var response APIResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	return w, response
}

func TestCallSuccessOK(t *testing.T) {
	w, response := callEnvelope(t, func(c *gin.Context) {
		CallSuccessOK(c, APISuccessParams{Msg: "done", Data: "payload"})
	})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, response.Success)
	assert.Equal(t, "done", response.Message)
	assert.Equal(t, "payload", response.Data)
	assert.Empty(t, response.Error)
}

func TestCallSuccessCreated(t *testing.T) {
	w, response := callEnvelope(t, func(c *gin.Context) {
		CallSuccessCreated(c, APISuccessParams{Msg: "created"})
	})
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.True(t, response.Success)
}

func TestCallErrorHelpers(t *testing.T) {
	cases := []struct {
		name   string
		fn     func(*gin.Context, APIErrorParams)
		status int
	}{
		{"user error", CallUserError, http.StatusBadRequest},
		{"not authorized", CallUserNotAuthorized, http.StatusUnauthorized},
		{"forbidden", CallForbidden, http.StatusForbidden},
		{"not found", CallErrorNotFound, http.StatusNotFound},
		{"server error", CallServerError, http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w, response := callEnvelope(t, func(c *gin.Context) {
				tc.fn(c, APIErrorParams{Msg: "boom", Err: errors.New("cause")})
			})
			assert.Equal(t, tc.status, w.Code)
			assert.False(t, response.Success)
			assert.Equal(t, "boom", response.Message)
			assert.Equal(t, "cause", response.Error)
		})
	}
}
