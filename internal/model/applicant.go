package model

import (
	"time"

	"github.com/google/uuid"
)

// Applicant is resolved or created by email as a side effect of a booking.
type Applicant struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Phone     *string   `json:"phone"` // nil = not provided
	CreatedAt time.Time `json:"created_at"`
}
