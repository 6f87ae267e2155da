package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/counselbook/reserve/internal/apperr"
	"github.com/counselbook/reserve/internal/model"
	"github.com/counselbook/reserve/internal/timeslot"
)

func newSlotServiceForTest() (*SlotService, *memStore) {
	store := newMemStore()
	return NewSlotService(slotStore{store}, zap.NewNop()), store
}

func counselorIdent() model.Identity {
	return model.Identity{UserID: uuid.New(), Role: model.RoleCounselor}
}

func TestSlotServiceCreate_Defaults(t *testing.T) {
	svc, _ := newSlotServiceForTest()
	ident := counselorIdent()

	slot, err := svc.Create(context.Background(), ident, CreateSlotInput{StartAt: "2025-02-15T09:00:00"})
	require.NoError(t, err)

	assert.Equal(t, ident.UserID, slot.CounselorID)
	assert.Equal(t, model.DefaultSlotCapacity, slot.Capacity)
	assert.Equal(t, model.SlotStatusOpen, slot.Status)
	assert.Equal(t, 0, slot.BookedCount)
	assert.Equal(t, "2025-02-15T09:30:00+09:00", timeslot.FormatLocal(slot.EndAt))
}

func TestSlotServiceCreate_DuplicateStartConflicts(t *testing.T) {
	svc, _ := newSlotServiceForTest()
	ident := counselorIdent()

	_, err := svc.Create(context.Background(), ident, CreateSlotInput{StartAt: "2025-02-15T09:00:00"})
	require.NoError(t, err)

	// Same (counselor, start) always conflicts, other fields do not matter.
	capacity := 10
	status := model.SlotStatusClosed
	_, err = svc.Create(context.Background(), ident, CreateSlotInput{
		StartAt:  "2025-02-15T09:00:00",
		Capacity: &capacity,
		Status:   &status,
	})
	require.Error(t, err)
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))

	// A different counselor can use the same start time.
	_, err = svc.Create(context.Background(), counselorIdent(), CreateSlotInput{StartAt: "2025-02-15T09:00:00"})
	assert.NoError(t, err)
}

func TestSlotServiceCreate_Validation(t *testing.T) {
	svc, _ := newSlotServiceForTest()
	ident := counselorIdent()

	zero := 0
	badStatus := model.SlotStatus("PAUSED")

	testCases := []struct {
		name string
		in   CreateSlotInput
	}{
		{"unparsable start", CreateSlotInput{StartAt: "yesterday"}},
		{"off-grid start", CreateSlotInput{StartAt: "2025-02-15T09:10:00"}},
		{"non-zero seconds", CreateSlotInput{StartAt: "2025-02-15T09:00:30"}},
		{"zero capacity", CreateSlotInput{StartAt: "2025-02-15T09:00:00", Capacity: &zero}},
		{"unknown status", CreateSlotInput{StartAt: "2025-02-15T09:00:00", Status: &badStatus}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), ident, tc.in)
			require.Error(t, err)
			assert.Equal(t, apperr.KindInvalid, apperr.KindOf(err))
		})
	}
}

func TestSlotServiceUpdate_PartialPatch(t *testing.T) {
	svc, _ := newSlotServiceForTest()
	ident := counselorIdent()

	slot, err := svc.Create(context.Background(), ident, CreateSlotInput{StartAt: "2025-02-15T09:00:00"})
	require.NoError(t, err)

	capacity := 5
	updated, err := svc.Update(context.Background(), slot.ID, ident, UpdateSlotInput{Capacity: &capacity})
	require.NoError(t, err)

	assert.Equal(t, 5, updated.Capacity)
	assert.True(t, updated.StartAt.Equal(slot.StartAt), "untouched fields keep their values")
	assert.Equal(t, slot.Status, updated.Status)
}

func TestSlotServiceUpdate_StartChangeRevalidates(t *testing.T) {
	svc, _ := newSlotServiceForTest()
	ident := counselorIdent()

	first, err := svc.Create(context.Background(), ident, CreateSlotInput{StartAt: "2025-02-15T09:00:00"})
	require.NoError(t, err)
	second, err := svc.Create(context.Background(), ident, CreateSlotInput{StartAt: "2025-02-15T10:00:00"})
	require.NoError(t, err)

	// Moving onto another slot's start conflicts.
	target := "2025-02-15T09:00:00"
	_, err = svc.Update(context.Background(), second.ID, ident, UpdateSlotInput{StartAt: &target})
	require.Error(t, err)
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))

	// Re-submitting a slot's own start is not a conflict with itself.
	_, err = svc.Update(context.Background(), first.ID, ident, UpdateSlotInput{StartAt: &target})
	assert.NoError(t, err)

	misaligned := "2025-02-15T09:05:00"
	_, err = svc.Update(context.Background(), second.ID, ident, UpdateSlotInput{StartAt: &misaligned})
	require.Error(t, err)
	assert.Equal(t, apperr.KindInvalid, apperr.KindOf(err))
}

func TestSlotServiceUpdate_Ownership(t *testing.T) {
	svc, _ := newSlotServiceForTest()
	owner := counselorIdent()

	slot, err := svc.Create(context.Background(), owner, CreateSlotInput{StartAt: "2025-02-15T09:00:00"})
	require.NoError(t, err)

	status := model.SlotStatusClosed

	// Another counselor is rejected.
	_, err = svc.Update(context.Background(), slot.ID, counselorIdent(), UpdateSlotInput{Status: &status})
	require.Error(t, err)
	assert.Equal(t, apperr.KindForbidden, apperr.KindOf(err))

	// An admin may touch any slot.
	admin := model.Identity{UserID: uuid.New(), Role: model.RoleAdmin}
	updated, err := svc.Update(context.Background(), slot.ID, admin, UpdateSlotInput{Status: &status})
	require.NoError(t, err)
	assert.Equal(t, model.SlotStatusClosed, updated.Status)
}

func TestSlotServiceUpdate_CapacityFloor(t *testing.T) {
	svc, store := newSlotServiceForTest()
	ident := counselorIdent()

	slot, err := svc.Create(context.Background(), ident, CreateSlotInput{StartAt: "2025-02-15T09:00:00"})
	require.NoError(t, err)

	store.mu.Lock()
	store.slots[slot.ID].BookedCount = 2
	store.mu.Unlock()

	one := 1
	_, err = svc.Update(context.Background(), slot.ID, ident, UpdateSlotInput{Capacity: &one})
	require.Error(t, err)
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))
}

func TestSlotServiceUpdate_NotFound(t *testing.T) {
	svc, _ := newSlotServiceForTest()

	_, err := svc.Update(context.Background(), uuid.New(), counselorIdent(), UpdateSlotInput{})
	require.Error(t, err)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestSlotServiceDelete(t *testing.T) {
	svc, store := newSlotServiceForTest()
	ident := counselorIdent()

	slot, err := svc.Create(context.Background(), ident, CreateSlotInput{StartAt: "2025-02-15T09:00:00"})
	require.NoError(t, err)

	// A stranger may not delete it.
	err = svc.Delete(context.Background(), slot.ID, counselorIdent())
	require.Error(t, err)
	assert.Equal(t, apperr.KindForbidden, apperr.KindOf(err))

	// Live bookings block deletion.
	store.mu.Lock()
	store.slots[slot.ID].BookedCount = 1
	store.mu.Unlock()
	err = svc.Delete(context.Background(), slot.ID, ident)
	require.Error(t, err)
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))

	store.mu.Lock()
	store.slots[slot.ID].BookedCount = 0
	store.mu.Unlock()
	require.NoError(t, svc.Delete(context.Background(), slot.ID, ident))

	_, err = svc.Get(context.Background(), slot.ID)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestSlotServiceListOwned_OrderedByStart(t *testing.T) {
	svc, _ := newSlotServiceForTest()
	ident := counselorIdent()

	for _, startAt := range []string{"2025-02-15T11:00:00", "2025-02-15T09:00:00", "2025-02-15T10:00:00"} {
		_, err := svc.Create(context.Background(), ident, CreateSlotInput{StartAt: startAt})
		require.NoError(t, err)
	}

	slots, err := svc.ListOwned(context.Background(), ident.UserID)
	require.NoError(t, err)
	require.Len(t, slots, 3)
	for i := 1; i < len(slots); i++ {
		assert.True(t, slots[i-1].StartAt.Before(slots[i].StartAt))
	}
}
