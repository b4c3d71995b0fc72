package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUserEmailCache_SetGet(t *testing.T) {
	InitUserEmailCache(10)

	_, ok := UserEmailCacheGet(1)
	assert.False(t, ok)

	UserEmailCacheSet(1, "one@test.com")
	email, ok := UserEmailCacheGet(1)
	assert.True(t, ok)
	assert.Equal(t, "one@test.com", email)

	// Overwrite keeps a single entry.
	UserEmailCacheSet(1, "updated@test.com")
	email, _ = UserEmailCacheGet(1)
	assert.Equal(t, "updated@test.com", email)
}

func TestUserEmailCache_EvictsLeastRecentlyUsed(t *testing.T) {
	InitUserEmailCache(2)

	UserEmailCacheSet(1, "one@test.com")
	UserEmailCacheSet(2, "two@test.com")

	// Touch 1 so 2 becomes the eviction candidate.
	_, _ = UserEmailCacheGet(1)
	UserEmailCacheSet(3, "three@test.com")

	_, ok := UserEmailCacheGet(2)
	assert.False(t, ok)
	_, ok = UserEmailCacheGet(1)
	assert.True(t, ok)
	_, ok = UserEmailCacheGet(3)
	assert.True(t, ok)
}

func TestGetUserEmail_NilDBAndMiss(t *testing.T) {
	InitUserEmailCache(10)
	assert.Equal(t, "", GetUserEmail(nil, 42))
	assert.Equal(t, "", GetUserEmail(nil, 0))
}
