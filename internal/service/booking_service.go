package service

import (
	"context"
	netmail "net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/counselbook/reserve/internal/apperr"
	"github.com/counselbook/reserve/internal/mail"
	"github.com/counselbook/reserve/internal/metrics"
	"github.com/counselbook/reserve/internal/model"
)

// BookingService performs the capacity-bounded, token-consuming booking.
// It is the only writer of booked_count and used_at; every other path is
// read-only.
type BookingService struct {
	tokens   TokenVerifier
	slots    SlotStore
	bookings BookingStore
	mailer   mail.Mailer
	logger   *zap.Logger
}

func NewBookingService(
	tokens TokenVerifier,
	slots SlotStore,
	bookings BookingStore,
	mailer mail.Mailer,
	logger *zap.Logger,
) *BookingService {
	return &BookingService{
		tokens:   tokens,
		slots:    slots,
		bookings: bookings,
		mailer:   mailer,
		logger:   logger,
	}
}

type BookInput struct {
	Token  string
	SlotID uuid.UUID
	Email  string
	Name   string
	Phone  *string
}

// Book consumes the token and reserves a seat. The pre-checks here fail fast
// without side effects; the conditional writes inside the store transaction
// remain authoritative under concurrency.
func (s *BookingService) Book(ctx context.Context, in BookInput) (*model.Booking, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, apperr.Invalid("name is required")
	}
	if _, err := netmail.ParseAddress(in.Email); err != nil {
		return nil, apperr.Invalid("a valid email is required")
	}

	token, err := s.tokens.Verify(ctx, in.Token)
	if err != nil {
		s.countOutcome(err)
		return nil, err
	}

	slot, err := s.slots.GetByID(ctx, in.SlotID)
	if err != nil {
		return nil, err
	}
	if slot == nil {
		return nil, apperr.NotFound("slot not found")
	}
	if slot.CounselorID != token.CounselorID {
		return nil, apperr.Forbidden("link does not authorize booking this counselor's slots")
	}
	if !slot.IsOpen() {
		return nil, apperr.Closed("slot is closed for booking")
	}
	if slot.IsFull() {
		metrics.IncBookingAttempt("slot_full")
		return nil, apperr.SlotFull("slot has no remaining seats")
	}

	booking, err := s.bookings.Book(ctx, slot.ID, token.ID, in.Email, name, in.Phone)
	if err != nil {
		s.countOutcome(err)
		return nil, err
	}

	metrics.IncBookingAttempt("success")
	s.logger.Info("booking created",
		zap.String("booking_id", booking.ID.String()),
		zap.String("slot_id", slot.ID.String()),
		zap.String("counselor_id", slot.CounselorID.String()))

	// Confirmation mail must never block or fail the committed booking.
	go func(to string, slotStart time.Time) {
		sendCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := s.mailer.SendBookingConfirmation(sendCtx, to, slotStart); err != nil {
			s.logger.Warn("booking confirmation mail failed", zap.Error(err))
		}
	}(in.Email, slot.StartAt)

	return booking, nil
}

func (s *BookingService) countOutcome(err error) {
	switch apperr.KindOf(err) {
	case apperr.KindSlotFull:
		metrics.IncBookingAttempt("slot_full")
	case apperr.KindUnauthorized:
		metrics.IncBookingAttempt("unauthorized")
	}
}
