package auth

import (
	"regexp"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

const bcryptCost = 12

// MinPasswordLength is the minimum accepted password length.
const MinPasswordLength = 8

var (
	lowerRe = regexp.MustCompile(`[a-z]`)
	upperRe = regexp.MustCompile(`[A-Z]`)
	digitRe = regexp.MustCompile(`\d`)
)

// HashPassword returns the bcrypt digest of a plaintext password.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword reports whether password matches the stored digest.
// bcrypt's comparison is constant-time over the derived key.
func CheckPassword(digest, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(password)) == nil
}

// NormalizeEmail trims surrounding whitespace and lowercases the address.
// Emails are always stored and compared in this form.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidatePassword returns Rails-style validation messages for a candidate
// password: length and complexity (at least one lowercase letter, one
// uppercase letter and one digit).
func ValidatePassword(password string) []string {
	var msgs []string
	if len(password) < MinPasswordLength {
		msgs = append(msgs, "Password is too short (minimum is 8 characters)")
	}
	if !lowerRe.MatchString(password) || !upperRe.MatchString(password) || !digitRe.MatchString(password) {
		msgs = append(msgs, "Password must contain at least one uppercase letter, one lowercase letter, and one number")
	}
	return msgs
}
