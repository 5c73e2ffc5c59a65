package booking

import (
	"context"
	"fmt"
	"sync"

	bookingRepo "serviqo/database/repository/booking"
	slotRepo "serviqo/database/repository/slot"
	"serviqo/models"
)

// fakeSlotRepo and fakeBookingRepo back the engine with in-memory state.
// They share one mutex so the capacity reservation is atomic the same way
// the transactional implementation is.

type fakeSlotRepo struct {
	mu    *sync.Mutex
	slots map[string]*models.AvailabilitySlot
	excs  map[string]*models.AvailabilityException
}

type fakeBookingRepo struct {
	mu    *sync.Mutex
	slots *fakeSlotRepo
	rows  map[string]*models.Booking
	seq   map[string]int
}

func newFakeRepos() (*fakeSlotRepo, *fakeBookingRepo) {
	mu := &sync.Mutex{}
	sr := &fakeSlotRepo{
		mu:    mu,
		slots: make(map[string]*models.AvailabilitySlot),
		excs:  make(map[string]*models.AvailabilityException),
	}
	br := &fakeBookingRepo{
		mu:    mu,
		slots: sr,
		rows:  make(map[string]*models.Booking),
		seq:   make(map[string]int),
	}
	return sr, br
}

func (r *fakeSlotRepo) Create(_ context.Context, slot *models.AvailabilitySlot) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *slot
	r.slots[slot.ID] = &copied
	return nil
}

func (r *fakeSlotRepo) GetByID(_ context.Context, providerID, slotID string) (*models.AvailabilitySlot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.slots[slotID]
	if !ok || s.Deleted || s.ProviderID != providerID {
		return nil, slotRepo.ErrNotFound
	}
	copied := *s
	return &copied, nil
}

func (r *fakeSlotRepo) Update(_ context.Context, slot *models.AvailabilitySlot) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.slots[slot.ID]; !ok {
		return slotRepo.ErrNotFound
	}
	copied := *slot
	r.slots[slot.ID] = &copied
	return nil
}

func (r *fakeSlotRepo) SoftDelete(_ context.Context, providerID, slotID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.slots[slotID]
	if !ok || s.ProviderID != providerID {
		return slotRepo.ErrNotFound
	}
	s.Deleted = true
	return nil
}

func (r *fakeSlotRepo) ListByProvider(_ context.Context, providerID string) ([]models.AvailabilitySlot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.AvailabilitySlot
	for _, s := range r.slots {
		if s.ProviderID == providerID && !s.Deleted {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (r *fakeSlotRepo) ListByProviderDay(_ context.Context, providerID string, dayOfWeek int) ([]models.AvailabilitySlot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.AvailabilitySlot
	for _, s := range r.slots {
		if s.ProviderID == providerID && s.DayOfWeek == dayOfWeek && !s.Deleted {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (r *fakeSlotRepo) CreateException(_ context.Context, exc *models.AvailabilityException) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *exc
	r.excs[exc.ID] = &copied
	return nil
}

func (r *fakeSlotRepo) ListExceptions(_ context.Context, providerID string) ([]models.AvailabilityException, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.AvailabilityException
	for _, e := range r.excs {
		if e.ProviderID == providerID {
			out = append(out, *e)
		}
	}
	return out, nil
}

func (r *fakeSlotRepo) DeleteException(_ context.Context, providerID, exceptionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.excs[exceptionID]
	if !ok || e.ProviderID != providerID {
		return slotRepo.ErrNotFound
	}
	delete(r.excs, exceptionID)
	return nil
}

func (r *fakeSlotRepo) FindCoveringException(_ context.Context, providerID, date string) (*models.AvailabilityException, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.excs {
		if e.ProviderID == providerID && e.Covers(date) {
			copied := *e
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *fakeSlotRepo) EnsureIndexes() error { return nil }

func (r *fakeBookingRepo) CreateWithCapacity(_ context.Context, booking *models.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	slot, ok := r.slots.slots[booking.SlotID]
	if !ok || slot.Deleted || !slot.IsAvailable || !slot.HasSpaceAvailable() {
		return bookingRepo.ErrNoCapacity
	}
	slot.CurrentBookings++
	copied := *booking
	r.rows[booking.ID] = &copied
	return nil
}

func (r *fakeBookingRepo) Create(_ context.Context, booking *models.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *booking
	r.rows[booking.ID] = &copied
	return nil
}

func (r *fakeBookingRepo) ReleaseCapacity(_ context.Context, booking *models.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rows[booking.ID]; !ok {
		return bookingRepo.ErrNotFound
	}
	copied := *booking
	r.rows[booking.ID] = &copied
	if slot, ok := r.slots.slots[booking.SlotID]; ok && slot.CurrentBookings > 0 {
		slot.CurrentBookings--
	}
	return nil
}

func (r *fakeBookingRepo) GetByID(_ context.Context, bookingID string) (*models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.rows[bookingID]
	if !ok {
		return nil, bookingRepo.ErrNotFound
	}
	copied := *b
	return &copied, nil
}

func (r *fakeBookingRepo) GetByRequestID(_ context.Context, requestID string) (*models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, b := range r.rows {
		if b.RequestID == requestID {
			copied := *b
			return &copied, nil
		}
	}
	return nil, bookingRepo.ErrNotFound
}

func (r *fakeBookingRepo) Update(_ context.Context, booking *models.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rows[booking.ID]; !ok {
		return bookingRepo.ErrNotFound
	}
	copied := *booking
	r.rows[booking.ID] = &copied
	return nil
}

func (r *fakeBookingRepo) ListForParty(_ context.Context, partyID string, role models.Role) ([]models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Booking
	for _, b := range r.rows {
		switch role {
		case models.RoleProvider:
			if b.ProviderID == partyID && !b.HiddenByProvider {
				out = append(out, *b)
			}
		default:
			if b.CustomerID == partyID && !b.HiddenByCustomer {
				out = append(out, *b)
			}
		}
	}
	return out, nil
}

func (r *fakeBookingRepo) ListActiveForProvider(_ context.Context, providerID string) ([]models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Booking
	for _, b := range r.rows {
		if b.ProviderID == providerID &&
			(b.Status == models.BookingStatusPending || b.Status == models.BookingStatusConfirmed) {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (r *fakeBookingRepo) ListOverdueConfirmed(_ context.Context, before string) ([]models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Booking
	for _, b := range r.rows {
		if b.Status == models.BookingStatusConfirmed && b.Date < before {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (r *fakeBookingRepo) SetHiddenFlag(_ context.Context, bookingID string, role models.Role) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.rows[bookingID]
	if !ok {
		return bookingRepo.ErrNotFound
	}
	if role == models.RoleProvider {
		b.HiddenByProvider = true
	} else {
		b.HiddenByCustomer = true
	}
	return nil
}

func (r *fakeBookingRepo) SetReviewedFlag(_ context.Context, bookingID string, role models.Role) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.rows[bookingID]
	if !ok {
		return bookingRepo.ErrNotFound
	}
	if role == models.RoleProvider {
		b.ProviderReviewed = true
	} else {
		b.CustomerReviewed = true
	}
	return nil
}

func (r *fakeBookingRepo) NextNumber(_ context.Context, prefix string, year int) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := fmt.Sprintf("%s-%d", prefix, year)
	r.seq[key]++
	return fmt.Sprintf("%s-%d-%05d", prefix, year, r.seq[key]), nil
}

func (r *fakeBookingRepo) EnsureIndexes() error { return nil }

// capturingPublisher records emitted events for assertions.
type capturingPublisher struct {
	mu     sync.Mutex
	events []models.DomainEvent
}

func (p *capturingPublisher) Publish(_ context.Context, event models.DomainEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
}

func (p *capturingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, e := range p.events {
		out[i] = e.Type
	}
	return out
}
