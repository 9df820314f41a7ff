package domain

import "time"

// Grant is a single-use authorization code proving that a user
// authenticated for a client application. Only the fingerprint of the code
// is stored; the plaintext is handed to the user agent once.
type Grant struct {
	ID        string
	ClientID  string
	UserID    string
	CodeHash  string
	ExpiresAt time.Time
	CreatedAt time.Time
}

// IsExpired reports whether the grant can no longer be redeemed at now.
func (g Grant) IsExpired(now time.Time) bool {
	return !now.Before(g.ExpiresAt)
}
