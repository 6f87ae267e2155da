package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/counselbook/reserve/internal/model"
	"github.com/counselbook/reserve/internal/repository/base"
)

const slotColumns = "id, counselor_id, start_at, end_at, capacity, booked_count, status, created_at"

type SlotRepository struct {
	*base.Repository
}

func NewSlotRepository(pool *pgxpool.Pool) *SlotRepository {
	return &SlotRepository{Repository: base.NewRepository(pool)}
}

func scanSlot(row interface{ Scan(...any) error }, slot *model.ScheduleSlot) error {
	return row.Scan(
		&slot.ID,
		&slot.CounselorID,
		&slot.StartAt,
		&slot.EndAt,
		&slot.Capacity,
		&slot.BookedCount,
		&slot.Status,
		&slot.CreatedAt,
	)
}

// Create persists a new slot.
func (r *SlotRepository) Create(ctx context.Context, slot *model.ScheduleSlot) error {
	query := `
		INSERT INTO schedule_slots (counselor_id, start_at, end_at, capacity, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, booked_count, created_at
	`

	err := r.QueryRow(
		ctx, query,
		slot.CounselorID,
		slot.StartAt,
		slot.EndAt,
		slot.Capacity,
		slot.Status,
	).Scan(&slot.ID, &slot.BookedCount, &slot.CreatedAt)

	if err != nil {
		return fmt.Errorf("create slot: %w", err)
	}

	return nil
}

// GetByID returns the slot with the given id, or nil when absent.
func (r *SlotRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.ScheduleSlot, error) {
	query := `
		SELECT ` + slotColumns + `
		FROM schedule_slots
		WHERE id = $1
	`

	var slot model.ScheduleSlot
	if err := scanSlot(r.QueryRow(ctx, query, id), &slot); err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get slot by id: %w", err)
	}

	return &slot, nil
}

// GetByOwnerAndStart returns the slot at (counselor, start), or nil.
func (r *SlotRepository) GetByOwnerAndStart(ctx context.Context, counselorID uuid.UUID, startAt time.Time) (*model.ScheduleSlot, error) {
	query := `
		SELECT ` + slotColumns + `
		FROM schedule_slots
		WHERE counselor_id = $1 AND start_at = $2
	`

	var slot model.ScheduleSlot
	if err := scanSlot(r.QueryRow(ctx, query, counselorID, startAt), &slot); err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get slot by owner and start: %w", err)
	}

	return &slot, nil
}

// Update overwrites the mutable slot fields.
func (r *SlotRepository) Update(ctx context.Context, slot *model.ScheduleSlot) error {
	query := `
		UPDATE schedule_slots
		SET start_at = $1, end_at = $2, capacity = $3, status = $4
		WHERE id = $5
	`

	affected, err := r.ExecAffected(ctx, query, slot.StartAt, slot.EndAt, slot.Capacity, slot.Status, slot.ID)
	if err != nil {
		return fmt.Errorf("update slot: %w", err)
	}

	if affected == 0 {
		return fmt.Errorf("slot not found")
	}

	return nil
}

// Delete removes the slot.
func (r *SlotRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `
		DELETE FROM schedule_slots
		WHERE id = $1
	`

	affected, err := r.ExecAffected(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete slot: %w", err)
	}

	if affected == 0 {
		return fmt.Errorf("slot not found")
	}

	return nil
}

// ListByOwner returns all of a counselor's slots ordered by start time.
func (r *SlotRepository) ListByOwner(ctx context.Context, counselorID uuid.UUID) ([]*model.ScheduleSlot, error) {
	query := `
		SELECT ` + slotColumns + `
		FROM schedule_slots
		WHERE counselor_id = $1
		ORDER BY start_at
	`

	rows, err := r.Query(ctx, query, counselorID)
	if err != nil {
		return nil, fmt.Errorf("list slots by owner: %w", err)
	}
	defer rows.Close()

	var slots []*model.ScheduleSlot
	for rows.Next() {
		var slot model.ScheduleSlot
		if err := scanSlot(rows, &slot); err != nil {
			return nil, fmt.Errorf("scan slot: %w", err)
		}
		slots = append(slots, &slot)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate slots: %w", err)
	}

	return slots, nil
}

// ListBookable returns a counselor's OPEN, unfilled slots starting at or
// after now, optionally limited to [dayStart, dayEnd), ordered by start time.
func (r *SlotRepository) ListBookable(ctx context.Context, counselorID uuid.UUID, now time.Time, dayStart, dayEnd *time.Time) ([]*model.ScheduleSlot, error) {
	query := `
		SELECT ` + slotColumns + `
		FROM schedule_slots
		WHERE counselor_id = $1
		  AND status = 'OPEN'
		  AND booked_count < capacity
		  AND start_at >= $2
		  AND ($3::timestamptz IS NULL OR (start_at >= $3 AND start_at < $4))
		ORDER BY start_at
	`

	rows, err := r.Query(ctx, query, counselorID, now, dayStart, dayEnd)
	if err != nil {
		return nil, fmt.Errorf("list bookable slots: %w", err)
	}
	defer rows.Close()

	var slots []*model.ScheduleSlot
	for rows.Next() {
		var slot model.ScheduleSlot
		if err := scanSlot(rows, &slot); err != nil {
			return nil, fmt.Errorf("scan slot: %w", err)
		}
		slots = append(slots, &slot)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate slots: %w", err)
	}

	return slots, nil
}
