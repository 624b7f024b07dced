package model

import (
	"time"
)

// ResetToken is a single-use, time-limited credential authorizing exactly
// one password change. The raw token value is the bearer secret; there is
// at most one live token per user at any time.
type ResetToken struct {
	ID        string    `db:"id"`
	UserID    string    `db:"user_id"`
	Email     string    `db:"email"` // denormalized at issuance, for audit only
	Token     string    `db:"token"`
	ExpiresAt time.Time `db:"expires_at"`
	CreatedAt time.Time `db:"created_at"`
}

func (t *ResetToken) IsExpired(now time.Time) bool {
	return now.After(t.ExpiresAt)
}

// Remaining returns the time left before expiry, never negative.
func (t *ResetToken) Remaining(now time.Time) time.Duration {
	d := t.ExpiresAt.Sub(now)
	if d < 0 {
		return 0
	}
	return d
}
