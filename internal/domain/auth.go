package domain

import "time"

// RefreshCredential is the durable, opaque credential backing silent token
// refresh. It travels in an HTTP-only cookie and is rotated on every use.
type RefreshCredential struct {
	Token     string
	UserID    string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Expired reports whether the credential is past its expiry at the given time.
func (c RefreshCredential) Expired(now time.Time) bool {
	return now.After(c.ExpiresAt)
}
