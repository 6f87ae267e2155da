package model

import (
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleAdmin     Role = "ADMIN"
	RoleCounselor Role = "COUNSELOR"
)

// User is a counselor or administrator account. Accounts are provisioned by
// the surrounding platform; this service only reads them.
type User struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// Identity is the authenticated caller attached to a request by the HTTP
// layer. Authentication itself happens upstream.
type Identity struct {
	UserID uuid.UUID
	Role   Role
}

// IsAdmin reports whether the caller holds the elevated role.
func (i Identity) IsAdmin() bool {
	return i.Role == RoleAdmin
}
