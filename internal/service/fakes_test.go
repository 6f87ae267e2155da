package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/counselbook/reserve/internal/apperr"
	"github.com/counselbook/reserve/internal/model"
)

// memStore is a mutex-guarded in-memory implementation of every store
// interface. Book applies the same check-then-write semantics the SQL
// transaction has, so the concurrency properties can be exercised with real
// goroutines.
type memStore struct {
	mu         sync.Mutex
	users      map[uuid.UUID]*model.User
	slots      map[uuid.UUID]*model.ScheduleSlot
	tokens     map[uuid.UUID]*model.EmailLinkToken
	applicants map[string]*model.Applicant
	bookings   []*model.Booking
}

func newMemStore() *memStore {
	return &memStore{
		users:      make(map[uuid.UUID]*model.User),
		slots:      make(map[uuid.UUID]*model.ScheduleSlot),
		tokens:     make(map[uuid.UUID]*model.EmailLinkToken),
		applicants: make(map[string]*model.Applicant),
	}
}

func copySlot(s *model.ScheduleSlot) *model.ScheduleSlot {
	c := *s
	return &c
}

func copyToken(t *model.EmailLinkToken) *model.EmailLinkToken {
	c := *t
	if t.UsedAt != nil {
		usedAt := *t.UsedAt
		c.UsedAt = &usedAt
	}
	return &c
}

func (m *memStore) addUser(user *model.User) *model.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	m.users[user.ID] = user
	return user
}

func (m *memStore) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[id]
	if !ok {
		return nil, nil
	}
	c := *user
	return &c, nil
}

// slotStore adapts memStore to the SlotStore interface; separate type because
// GetByID exists on both the user and slot surfaces.
type slotStore struct{ *memStore }

func (m slotStore) Create(ctx context.Context, slot *model.ScheduleSlot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	slot.ID = uuid.New()
	slot.CreatedAt = time.Now()
	m.slots[slot.ID] = copySlot(slot)
	return nil
}

func (m slotStore) GetByID(ctx context.Context, id uuid.UUID) (*model.ScheduleSlot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	slot, ok := m.slots[id]
	if !ok {
		return nil, nil
	}
	return copySlot(slot), nil
}

func (m slotStore) GetByOwnerAndStart(ctx context.Context, counselorID uuid.UUID, startAt time.Time) (*model.ScheduleSlot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, slot := range m.slots {
		if slot.CounselorID == counselorID && slot.StartAt.Equal(startAt) {
			return copySlot(slot), nil
		}
	}
	return nil, nil
}

func (m slotStore) Update(ctx context.Context, slot *model.ScheduleSlot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slots[slot.ID] = copySlot(slot)
	return nil
}

func (m slotStore) Delete(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.slots, id)
	return nil
}

func (m slotStore) ListByOwner(ctx context.Context, counselorID uuid.UUID) ([]*model.ScheduleSlot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var slots []*model.ScheduleSlot
	for _, slot := range m.slots {
		if slot.CounselorID == counselorID {
			slots = append(slots, copySlot(slot))
		}
	}
	sort.Slice(slots, func(i, j int) bool { return slots[i].StartAt.Before(slots[j].StartAt) })
	return slots, nil
}

func (m slotStore) ListBookable(ctx context.Context, counselorID uuid.UUID, now time.Time, dayStart, dayEnd *time.Time) ([]*model.ScheduleSlot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var slots []*model.ScheduleSlot
	for _, slot := range m.slots {
		if slot.CounselorID != counselorID || slot.Status != model.SlotStatusOpen {
			continue
		}
		if slot.BookedCount >= slot.Capacity || slot.StartAt.Before(now) {
			continue
		}
		if dayStart != nil && (slot.StartAt.Before(*dayStart) || !slot.StartAt.Before(*dayEnd)) {
			continue
		}
		slots = append(slots, copySlot(slot))
	}
	sort.Slice(slots, func(i, j int) bool { return slots[i].StartAt.Before(slots[j].StartAt) })
	return slots, nil
}

type tokenStore struct{ *memStore }

func (m tokenStore) Create(ctx context.Context, token *model.EmailLinkToken) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	token.ID = uuid.New()
	token.CreatedAt = time.Now()
	m.tokens[token.ID] = copyToken(token)
	return nil
}

func (m tokenStore) GetByHash(ctx context.Context, tokenHash string) (*model.EmailLinkToken, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, token := range m.tokens {
		if token.TokenHash == tokenHash {
			return copyToken(token), nil
		}
	}
	return nil, nil
}

type bookingStore struct{ *memStore }

// Book mirrors the SQL transaction: both conditional checks happen before
// any write, all under one lock.
func (m bookingStore) Book(ctx context.Context, slotID, tokenID uuid.UUID, email, name string, phone *string) (*model.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	slot, ok := m.slots[slotID]
	if !ok {
		return nil, apperr.NotFound("slot not found")
	}
	if slot.BookedCount >= slot.Capacity {
		return nil, apperr.SlotFull("slot has no remaining seats")
	}

	token, ok := m.tokens[tokenID]
	if !ok || token.UsedAt != nil {
		return nil, apperr.Unauthorized("link has already been used")
	}

	applicant, ok := m.applicants[email]
	if !ok {
		applicant = &model.Applicant{
			ID:        uuid.New(),
			Email:     email,
			Name:      name,
			Phone:     phone,
			CreatedAt: time.Now(),
		}
		m.applicants[email] = applicant
	}

	slot.BookedCount++
	now := time.Now()
	token.UsedAt = &now

	booking := &model.Booking{
		ID:          uuid.New(),
		SlotID:      slotID,
		ApplicantID: applicant.ID,
		CreatedAt:   now,
	}
	m.bookings = append(m.bookings, booking)

	c := *booking
	return &c, nil
}

func (m *memStore) slotByID(id uuid.UUID) *model.ScheduleSlot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return copySlot(m.slots[id])
}

func (m *memStore) bookingCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.bookings)
}
