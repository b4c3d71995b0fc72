package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHashPassword_VerifyRoundtrip(t *testing.T) {
	hash, err := HashPassword("password123")
	assert.NoError(t, err)
	assert.NotEqual(t, "password123", hash)

	assert.True(t, VerifyPassword("password123", hash))
	assert.False(t, VerifyPassword("password124", hash))
	assert.False(t, VerifyPassword("", hash))
}

func TestVerifyPassword_BadHash(t *testing.T) {
	assert.False(t, VerifyPassword("password123", "not-a-bcrypt-hash"))
}

func TestHashPassword_UniquePerCall(t *testing.T) {
	first, err := HashPassword("password123")
	assert.NoError(t, err)
	second, err := HashPassword("password123")
	assert.NoError(t, err)
	// bcrypt salts every hash
	assert.NotEqual(t, first, second)
}

func TestJWTSecretRoundtrip(t *testing.T) {
	SetJWTSecret("roundtrip-secret")
	assert.Equal(t, []byte("roundtrip-secret"), GetJWTSecretByte())

	// The returned slice is a copy; mutating it must not leak back.
	b := GetJWTSecretByte()
	b[0] = 'X'
	assert.Equal(t, []byte("roundtrip-secret"), GetJWTSecretByte())
}
