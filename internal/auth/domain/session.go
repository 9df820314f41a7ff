package domain

import "time"

// Session is an issued bearer credential. The bearer key itself is never
// stored, only its fingerprint. Sessions are never mutated after creation.
type Session struct {
	ID        string
	UserID    string
	ClientID  string
	KeyHash   string
	IDToken   string
	ExpiresAt time.Time
	CreatedAt time.Time
}

// IsExpired reports whether the session has passed its absolute expiry.
func (s Session) IsExpired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}
