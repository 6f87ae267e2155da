package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/counselbook/reserve/internal/apperr"
	"github.com/counselbook/reserve/internal/model"
	"github.com/counselbook/reserve/internal/repository/base"
)

type BookingRepository struct {
	*base.Repository
}

func NewBookingRepository(pool *pgxpool.Pool) *BookingRepository {
	return &BookingRepository{Repository: base.NewRepository(pool)}
}

// Book runs the whole booking as one transaction: resolve the applicant,
// take a seat, consume the token, insert the booking row. The two UPDATEs
// are conditional on current row state, so losing either race rolls the
// transaction back without any partial write becoming visible.
func (r *BookingRepository) Book(ctx context.Context, slotID, tokenID uuid.UUID, email, name string, phone *string) (*model.Booking, error) {
	tx, err := r.Pool().Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	// Resolve or create the applicant by email. An existing record keeps
	// its name and phone; the no-op update is only there for RETURNING.
	applicantQuery := `
		INSERT INTO applicants (email, name, phone)
		VALUES ($1, $2, $3)
		ON CONFLICT (email) DO UPDATE SET email = EXCLUDED.email
		RETURNING id
	`

	var applicantID uuid.UUID
	if err := tx.QueryRow(ctx, applicantQuery, email, name, phone).Scan(&applicantID); err != nil {
		return nil, fmt.Errorf("resolve applicant: %w", err)
	}

	// Seat increment, conditional on remaining capacity at commit time.
	seatQuery := `
		UPDATE schedule_slots
		SET booked_count = booked_count + 1
		WHERE id = $1 AND booked_count < capacity
	`

	tag, err := tx.Exec(ctx, seatQuery, slotID)
	if err != nil {
		return nil, fmt.Errorf("increment booked count: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, apperr.SlotFull("slot has no remaining seats")
	}

	// Token consumption, conditional on it still being unused.
	consumeQuery := `
		UPDATE email_link_tokens
		SET used_at = now()
		WHERE id = $1 AND used_at IS NULL
	`

	tag, err = tx.Exec(ctx, consumeQuery, tokenID)
	if err != nil {
		return nil, fmt.Errorf("consume link token: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, apperr.Unauthorized("link has already been used")
	}

	bookingQuery := `
		INSERT INTO bookings (slot_id, applicant_id)
		VALUES ($1, $2)
		RETURNING id, created_at
	`

	booking := &model.Booking{SlotID: slotID, ApplicantID: applicantID}
	if err := tx.QueryRow(ctx, bookingQuery, slotID, applicantID).Scan(&booking.ID, &booking.CreatedAt); err != nil {
		return nil, fmt.Errorf("create booking: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit transaction: %w", err)
	}

	return booking, nil
}

// ListBySlot returns the bookings recorded against one slot.
func (r *BookingRepository) ListBySlot(ctx context.Context, slotID uuid.UUID) ([]*model.Booking, error) {
	query := `
		SELECT id, slot_id, applicant_id, created_at
		FROM bookings
		WHERE slot_id = $1
		ORDER BY created_at
	`

	rows, err := r.Query(ctx, query, slotID)
	if err != nil {
		return nil, fmt.Errorf("list bookings by slot: %w", err)
	}
	defer rows.Close()

	var bookings []*model.Booking
	for rows.Next() {
		var booking model.Booking
		err := rows.Scan(
			&booking.ID,
			&booking.SlotID,
			&booking.ApplicantID,
			&booking.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan booking: %w", err)
		}
		bookings = append(bookings, &booking)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate bookings: %w", err)
	}

	return bookings, nil
}
