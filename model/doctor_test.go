package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/datatypes"
)

func TestValidDoctorStatus(t *testing.T) {
	for _, s := range []string{DoctorPending, DoctorApproved, DoctorRejected} {
		assert.True(t, ValidDoctorStatus(s), s)
	}
	for _, s := range []string{"", "Approved", "blocked", "active"} {
		assert.False(t, ValidDoctorStatus(s), s)
	}
}

func TestDoctorJSON_FieldNames(t *testing.T) {
	d := Doctor{
		UserID:         4,
		FullName:       "Dr. Jane Doe",
		Email:          "dr.jane@example.com",
		Specialization: "Cardiology",
		Fees:           150,
		Timings:        datatypes.JSON(`["09:00-12:00"]`),
		Status:         DoctorPending,
	}

	b, err := json.Marshal(d)
	assert.NoError(t, err)

	var decoded map[string]interface{}
	assert.NoError(t, json.Unmarshal(b, &decoded))

	assert.Equal(t, "Dr. Jane Doe", decoded["fullname"])
	assert.Equal(t, float64(4), decoded["userId"])
	assert.Equal(t, float64(150), decoded["fees"])
	assert.Equal(t, "pending", decoded["status"])
	assert.Equal(t, []interface{}{"09:00-12:00"}, decoded["timings"])
}
