package model

import (
	"time"

	"github.com/google/uuid"
)

// Booking ties one applicant to one slot seat. Created exactly once per
// successful booking attempt; the slot's booked_count equals the number of
// live bookings against it.
type Booking struct {
	ID          uuid.UUID `json:"id"`
	SlotID      uuid.UUID `json:"slot_id"`
	ApplicantID uuid.UUID `json:"applicant_id"`
	CreatedAt   time.Time `json:"created_at"`
}
