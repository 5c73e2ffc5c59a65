package booking

import (
	"context"

	"go.uber.org/zap"

	bookingRepo "serviqo/database/repository/booking"
	slotRepo "serviqo/database/repository/slot"
	"serviqo/models"
	"serviqo/services/notification"
)

// BookingService owns the confirmed-reservation lifecycle: instant booking
// creation under the capacity invariant, transition-table guarded state
// changes, the complete-overdue sweep, and the per-party visibility flags.
type BookingService interface {
	// CreateInstantBooking creates a booking directly in the confirmed
	// state. The returned string is a non-empty advisory warning when the
	// booking date falls inside a blackout and enforcement is off.
	CreateInstantBooking(ctx context.Context, customerID string, in models.CreateBookingInput) (*models.Booking, string, error)

	Get(ctx context.Context, actorID string, role models.Role, bookingID string) (*models.Booking, error)
	List(ctx context.Context, actorID string, role models.Role) ([]models.Booking, error)

	Accept(ctx context.Context, providerID, bookingID string) (*models.Booking, error)
	Reject(ctx context.Context, providerID, bookingID string) (*models.Booking, error)
	Start(ctx context.Context, providerID, bookingID string) (*models.Booking, error)
	Complete(ctx context.Context, providerID, bookingID string) (*models.Booking, error)
	MarkNoShow(ctx context.Context, providerID, bookingID string) (*models.Booking, error)
	Cancel(ctx context.Context, actorID string, role models.Role, bookingID string, in models.CancelBookingInput) (*models.Booking, error)
	Dispute(ctx context.Context, bookingID string) (*models.Booking, error)

	// CompleteOverdue moves every confirmed booking dated strictly before
	// today to completed and returns the count mutated.
	CompleteOverdue(ctx context.Context) (int, error)

	Hide(ctx context.Context, actorID string, role models.Role, bookingID string) error
	MarkReviewed(ctx context.Context, actorID string, role models.Role, bookingID string) error

	// MaterializeFromQuote creates the confirmed booking backing an
	// accepted quote, reserving slot capacity when the request names one.
	MaterializeFromQuote(ctx context.Context, req *models.BookingRequest) (*models.Booking, error)
}

// DefaultBookingEngine is the production implementation.
type DefaultBookingEngine struct {
	Repo      bookingRepo.BookingRepository
	Slots     slotRepo.SlotRepository
	Publisher notification.Publisher
	Logger    *zap.Logger
}
