package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/counselbook/reserve/internal/model"
)

// Store interfaces are declared on the consumer side so services can be
// tested against in-memory implementations. The pgx repositories in
// internal/repository satisfy them.

type SlotStore interface {
	Create(ctx context.Context, slot *model.ScheduleSlot) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.ScheduleSlot, error)
	GetByOwnerAndStart(ctx context.Context, counselorID uuid.UUID, startAt time.Time) (*model.ScheduleSlot, error)
	Update(ctx context.Context, slot *model.ScheduleSlot) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListByOwner(ctx context.Context, counselorID uuid.UUID) ([]*model.ScheduleSlot, error)
	ListBookable(ctx context.Context, counselorID uuid.UUID, now time.Time, dayStart, dayEnd *time.Time) ([]*model.ScheduleSlot, error)
}

type TokenStore interface {
	Create(ctx context.Context, token *model.EmailLinkToken) error
	GetByHash(ctx context.Context, tokenHash string) (*model.EmailLinkToken, error)
}

type UserStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.User, error)
}

// BookingStore runs the booking as one atomic transaction. Implementations
// must take the seat and consume the token conditionally so concurrent racers
// lose with apperr.KindSlotFull / apperr.KindUnauthorized respectively.
type BookingStore interface {
	Book(ctx context.Context, slotID, tokenID uuid.UUID, email, name string, phone *string) (*model.Booking, error)
}

// TokenVerifier is the read-only token check consumed by the booking and
// public reserve flows.
type TokenVerifier interface {
	Verify(ctx context.Context, rawToken string) (*model.EmailLinkToken, error)
}
