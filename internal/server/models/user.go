package models

import "time"

// User is an account that can log in, own a browser session, and be
// assigned to tasks. Email is always stored normalized (trimmed,
// lowercased). PersistenceToken mirrors the session cookie value: a cookie
// authenticates only while it equals the current token.
type User struct {
	ID               string
	Name             string
	Email            string
	PasswordDigest   string
	PersistenceToken string
	Admin            bool
	LoginCount       int
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
