package model

import (
	"time"

	"github.com/google/uuid"
)

type SlotStatus string

const (
	SlotStatusOpen   SlotStatus = "OPEN"
	SlotStatusClosed SlotStatus = "CLOSED"
)

// DefaultSlotCapacity applies when a slot is created without one.
const DefaultSlotCapacity = 3

// ScheduleSlot is a 30-minute bookable window owned by one counselor.
// (counselor_id, start_at) is unique and booked_count never exceeds capacity.
type ScheduleSlot struct {
	ID          uuid.UUID  `json:"id"`
	CounselorID uuid.UUID  `json:"counselor_id"`
	StartAt     time.Time  `json:"start_at"`
	EndAt       time.Time  `json:"end_at"`
	Capacity    int        `json:"capacity"`
	BookedCount int        `json:"booked_count"`
	Status      SlotStatus `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
}

// IsOpen reports whether the slot accepts new bookings at all.
func (s *ScheduleSlot) IsOpen() bool {
	return s.Status == SlotStatusOpen
}

// IsFull reports whether the slot has no remaining seats.
func (s *ScheduleSlot) IsFull() bool {
	return s.BookedCount >= s.Capacity
}
