package service

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/counselbook/reserve/internal/apperr"
	"github.com/counselbook/reserve/internal/model"
	"github.com/counselbook/reserve/internal/timeslot"
)

// SlotService owns the slot lifecycle: creation on the 30-minute grid,
// ownership-scoped updates and deletion, and owner listings.
type SlotService struct {
	slots  SlotStore
	logger *zap.Logger
}

func NewSlotService(slots SlotStore, logger *zap.Logger) *SlotService {
	return &SlotService{
		slots:  slots,
		logger: logger,
	}
}

type CreateSlotInput struct {
	StartAt  string
	Capacity *int
	Status   *model.SlotStatus
}

type UpdateSlotInput struct {
	StartAt  *string
	Capacity *int
	Status   *model.SlotStatus
}

// Create publishes a new slot for the caller. The end instant is always
// derived, never supplied.
func (s *SlotService) Create(ctx context.Context, ident model.Identity, in CreateSlotInput) (*model.ScheduleSlot, error) {
	startAt, err := timeslot.ParseLocal(in.StartAt)
	if err != nil {
		return nil, err
	}
	endAt := timeslot.ComputeEnd(startAt)
	if err := timeslot.ValidateSlotSpan(startAt, endAt); err != nil {
		return nil, err
	}

	capacity := model.DefaultSlotCapacity
	if in.Capacity != nil {
		capacity = *in.Capacity
	}
	if capacity < 1 {
		return nil, apperr.Invalid("capacity must be at least 1")
	}

	status := model.SlotStatusOpen
	if in.Status != nil {
		if err := validateStatus(*in.Status); err != nil {
			return nil, err
		}
		status = *in.Status
	}

	existing, err := s.slots.GetByOwnerAndStart(ctx, ident.UserID, startAt)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperr.Conflict("a slot with the same start time already exists for this counselor")
	}

	slot := &model.ScheduleSlot{
		CounselorID: ident.UserID,
		StartAt:     startAt,
		EndAt:       endAt,
		Capacity:    capacity,
		Status:      status,
	}

	if err := s.slots.Create(ctx, slot); err != nil {
		return nil, err
	}

	s.logger.Info("slot created",
		zap.String("slot_id", slot.ID.String()),
		zap.String("counselor_id", slot.CounselorID.String()),
		zap.Time("start_at", slot.StartAt))

	return slot, nil
}

// Update applies a partial patch. Changing the start re-validates the grid
// and re-checks the uniqueness conflict excluding the slot itself.
func (s *SlotService) Update(ctx context.Context, id uuid.UUID, ident model.Identity, in UpdateSlotInput) (*model.ScheduleSlot, error) {
	slot, err := s.getExisting(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := authorizeOwner(ident, slot.CounselorID); err != nil {
		return nil, err
	}

	if in.StartAt != nil {
		startAt, err := timeslot.ParseLocal(*in.StartAt)
		if err != nil {
			return nil, err
		}
		endAt := timeslot.ComputeEnd(startAt)
		if err := timeslot.ValidateSlotSpan(startAt, endAt); err != nil {
			return nil, err
		}

		conflicting, err := s.slots.GetByOwnerAndStart(ctx, slot.CounselorID, startAt)
		if err != nil {
			return nil, err
		}
		if conflicting != nil && conflicting.ID != slot.ID {
			return nil, apperr.Conflict("a slot with the same start time already exists for this counselor")
		}

		slot.StartAt = startAt
		slot.EndAt = endAt
	}

	if in.Capacity != nil {
		if *in.Capacity < 1 {
			return nil, apperr.Invalid("capacity must be at least 1")
		}
		if *in.Capacity < slot.BookedCount {
			return nil, apperr.Conflict("capacity cannot be lowered below the current booked count")
		}
		slot.Capacity = *in.Capacity
	}

	if in.Status != nil {
		if err := validateStatus(*in.Status); err != nil {
			return nil, err
		}
		slot.Status = *in.Status
	}

	if err := s.slots.Update(ctx, slot); err != nil {
		return nil, err
	}

	s.logger.Info("slot updated",
		zap.String("slot_id", slot.ID.String()),
		zap.String("counselor_id", slot.CounselorID.String()))

	return slot, nil
}

// Delete removes a slot. Slots with live bookings are refused so no booking
// is ever stranded against a vanished slot.
func (s *SlotService) Delete(ctx context.Context, id uuid.UUID, ident model.Identity) error {
	slot, err := s.getExisting(ctx, id)
	if err != nil {
		return err
	}

	if err := authorizeOwner(ident, slot.CounselorID); err != nil {
		return err
	}

	if slot.BookedCount > 0 {
		return apperr.Conflict("slot has active bookings and cannot be deleted")
	}

	if err := s.slots.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("slot deleted",
		zap.String("slot_id", id.String()),
		zap.String("counselor_id", slot.CounselorID.String()))

	return nil
}

// ListOwned returns a counselor's slots ascending by start time.
func (s *SlotService) ListOwned(ctx context.Context, counselorID uuid.UUID) ([]*model.ScheduleSlot, error) {
	return s.slots.ListByOwner(ctx, counselorID)
}

// Get returns one slot by id.
func (s *SlotService) Get(ctx context.Context, id uuid.UUID) (*model.ScheduleSlot, error) {
	return s.getExisting(ctx, id)
}

func (s *SlotService) getExisting(ctx context.Context, id uuid.UUID) (*model.ScheduleSlot, error) {
	slot, err := s.slots.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if slot == nil {
		return nil, apperr.NotFound("slot not found")
	}
	return slot, nil
}

func validateStatus(status model.SlotStatus) error {
	if status != model.SlotStatusOpen && status != model.SlotStatusClosed {
		return apperr.Invalid("status must be OPEN or CLOSED")
	}
	return nil
}
