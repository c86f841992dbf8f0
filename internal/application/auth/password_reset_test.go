package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTTLText(t *testing.T) {
	assert.Equal(t, "1 hour", ttlText(60))
	assert.Equal(t, "2 hours", ttlText(120))
	assert.Equal(t, "15 minutes", ttlText(15))
}

func TestResetMailBody(t *testing.T) {
	body := resetMailBody("tok-123", "/reset-password/", 60)
	assert.Contains(t, body, "Your token: tok-123\n")
	assert.Contains(t, body, "PATCH request to /reset-password/")
	assert.Contains(t, body, "params needed: new_password")
	assert.Contains(t, body, "valid for 1 hour and is one time use only")
}

func TestPasswordFingerprint(t *testing.T) {
	a := PasswordFingerprint("$2a$10$hash-a")
	assert.Len(t, a, 64)
	assert.Equal(t, a, PasswordFingerprint("$2a$10$hash-a"))
	assert.NotEqual(t, a, PasswordFingerprint("$2a$10$hash-b"))
	assert.NotContains(t, a, "hash-a")
}
