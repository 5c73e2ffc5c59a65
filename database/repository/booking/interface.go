package bookingRepo

import (
	"context"
	"time"

	"serviqo/models"
)

// BookingRepository persists bookings, guards the per-slot capacity counter,
// and allocates the yearly booking sequence.
type BookingRepository interface {
	// CreateWithCapacity atomically verifies remaining capacity on the
	// booking's slot, increments the counter, and inserts the booking row.
	// Returns ErrNoCapacity when the slot is full or unavailable.
	CreateWithCapacity(ctx context.Context, booking *models.Booking) error
	// Create inserts a booking that does not reserve slot capacity
	// (quote-path bookings without a slot reference).
	Create(ctx context.Context, booking *models.Booking) error
	// ReleaseCapacity atomically persists a capacity-freeing status change
	// and decrements the slot counter.
	ReleaseCapacity(ctx context.Context, booking *models.Booking) error

	GetByID(ctx context.Context, bookingID string) (*models.Booking, error)
	// GetByRequestID returns the booking materialized for a quote request,
	// or ErrNotFound when none exists.
	GetByRequestID(ctx context.Context, requestID string) (*models.Booking, error)
	Update(ctx context.Context, booking *models.Booking) error
	ListForParty(ctx context.Context, partyID string, role models.Role) ([]models.Booking, error)
	ListActiveForProvider(ctx context.Context, providerID string) ([]models.Booking, error)
	ListOverdueConfirmed(ctx context.Context, before string) ([]models.Booking, error)
	SetHiddenFlag(ctx context.Context, bookingID string, role models.Role) error
	SetReviewedFlag(ctx context.Context, bookingID string, role models.Role) error

	// NextNumber allocates the next human-readable number for the year,
	// e.g. "BK-2026-00042". The underlying counter update is atomic.
	NextNumber(ctx context.Context, prefix string, year int) (string, error)

	EnsureIndexes() error
}

// OverdueCutoff formats today's date for the complete-overdue sweep; all
// confirmed bookings dated strictly before it are completed.
func OverdueCutoff(now time.Time) string {
	return now.Format("2006-01-02")
}
