package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/counselbook/reserve/internal/apperr"
	"github.com/counselbook/reserve/internal/model"
	"github.com/counselbook/reserve/internal/timeslot"
)

// ReserveService is the public, token-gated read side: it projects a
// counselor's open, unfilled, future slots for the reservation page.
type ReserveService struct {
	tokens TokenVerifier
	users  UserStore
	slots  SlotStore
	logger *zap.Logger
}

func NewReserveService(tokens TokenVerifier, users UserStore, slots SlotStore, logger *zap.Logger) *ReserveService {
	return &ReserveService{
		tokens: tokens,
		users:  users,
		slots:  slots,
		logger: logger,
	}
}

// ReservePage is what the public reservation page renders.
type ReservePage struct {
	CounselorID uuid.UUID
	Slots       []*model.ScheduleSlot
}

// ListBookable returns the counselor's bookable slots, optionally limited to
// one KST calendar date, ascending by start time.
func (s *ReserveService) ListBookable(ctx context.Context, counselorID uuid.UUID, date *string) ([]*model.ScheduleSlot, error) {
	var dayStart, dayEnd *time.Time
	if date != nil && *date != "" {
		from, to, err := timeslot.DayBounds(*date)
		if err != nil {
			return nil, err
		}
		dayStart, dayEnd = &from, &to
	}

	return s.slots.ListBookable(ctx, counselorID, time.Now(), dayStart, dayEnd)
}

// GetPage verifies the link (without consuming it) and returns the counselor
// plus their bookable slots.
func (s *ReserveService) GetPage(ctx context.Context, rawToken string, date *string) (*ReservePage, error) {
	token, err := s.tokens.Verify(ctx, rawToken)
	if err != nil {
		return nil, err
	}

	counselor, err := s.users.GetByID(ctx, token.CounselorID)
	if err != nil {
		return nil, err
	}
	if counselor == nil {
		return nil, apperr.Unauthorized("counselor for this link no longer exists")
	}

	slots, err := s.ListBookable(ctx, token.CounselorID, date)
	if err != nil {
		return nil, err
	}

	return &ReservePage{
		CounselorID: counselor.ID,
		Slots:       slots,
	}, nil
}
