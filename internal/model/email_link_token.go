package model

import (
	"time"

	"github.com/google/uuid"
)

// EmailLinkToken is the stored side of a reservation link. Only the SHA-256
// hash of the secret is persisted; the raw secret exists solely in the link
// handed to the counselor.
type EmailLinkToken struct {
	ID          uuid.UUID  `json:"id"`
	CounselorID uuid.UUID  `json:"counselor_id"`
	TokenHash   string     `json:"-"`
	ExpiresAt   time.Time  `json:"expires_at"`
	UsedAt      *time.Time `json:"used_at"` // nil = unused; set once, never cleared
	CreatedAt   time.Time  `json:"created_at"`
}

// IsExpired reports whether the token is past its expiry at the given time.
func (t *EmailLinkToken) IsExpired(now time.Time) bool {
	return now.After(t.ExpiresAt)
}

// IsUsed reports whether the token already authorized a booking.
func (t *EmailLinkToken) IsUsed() bool {
	return t.UsedAt != nil
}
