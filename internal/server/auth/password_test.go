package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndCheckPassword(t *testing.T) {
	digest, err := HashPassword("Password123")
	require.NoError(t, err)
	require.NotEqual(t, "Password123", digest, "digest must not be the plaintext")

	assert.True(t, CheckPassword(digest, "Password123"))
	assert.False(t, CheckPassword(digest, "password123"))
	assert.False(t, CheckPassword(digest, ""))
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "a@b.com", NormalizeEmail("  A@B.COM  "))
	assert.Equal(t, "alice@example.com", NormalizeEmail("alice@example.com"))
	assert.Equal(t, "", NormalizeEmail("   "))
}

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
		wantMsgs int
	}{
		{"valid", "Password123", 0},
		{"too short", "Pw1", 1},
		{"no uppercase", "password123", 1},
		{"no digit", "Passwordabc", 1},
		{"short and simple", "abc", 2},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			msgs := ValidatePassword(tc.password)
			assert.Len(t, msgs, tc.wantMsgs)
		})
	}
}
