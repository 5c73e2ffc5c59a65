package booking

import (
	"context"
	"time"

	"go.uber.org/zap"

	bookingRepo "serviqo/database/repository/booking"
	"serviqo/models"
	"serviqo/utils"
)

// Accept moves a pending booking to confirmed. Provider only.
func (e *DefaultBookingEngine) Accept(ctx context.Context, providerID, bookingID string) (*models.Booking, error) {
	return e.transition(ctx, providerID, models.RoleProvider, bookingID, models.BookingActionAccept, func(b *models.Booking, now time.Time) {
		b.ConfirmedAt = &now
	}, models.EventBookingConfirmed, false)
}

// Reject moves a pending booking to rejected and releases its capacity.
func (e *DefaultBookingEngine) Reject(ctx context.Context, providerID, bookingID string) (*models.Booking, error) {
	return e.transition(ctx, providerID, models.RoleProvider, bookingID, models.BookingActionReject, nil, models.EventBookingRejected, true)
}

// Start moves a confirmed booking to in_progress. Provider only.
func (e *DefaultBookingEngine) Start(ctx context.Context, providerID, bookingID string) (*models.Booking, error) {
	return e.transition(ctx, providerID, models.RoleProvider, bookingID, models.BookingActionStart, func(b *models.Booking, now time.Time) {
		b.StartedAt = &now
	}, models.EventBookingStarted, false)
}

// Complete finishes a booking on its service day; past-dated confirmed
// bookings are swept by CompleteOverdue instead.
func (e *DefaultBookingEngine) Complete(ctx context.Context, providerID, bookingID string) (*models.Booking, error) {
	booking, err := e.getOwned(ctx, providerID, models.RoleProvider, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.Status == models.BookingStatusConfirmed && booking.Date != time.Now().Format(utils.DateLayout) {
		return nil, utils.NewConflictError("booking %s is dated %s; only same-day bookings can be completed directly", booking.BookingNumber, booking.Date)
	}
	return e.transition(ctx, providerID, models.RoleProvider, bookingID, models.BookingActionComplete, func(b *models.Booking, now time.Time) {
		b.CompletedAt = &now
	}, models.EventBookingCompleted, false)
}

// MarkNoShow records that the customer did not show up. Provider only.
func (e *DefaultBookingEngine) MarkNoShow(ctx context.Context, providerID, bookingID string) (*models.Booking, error) {
	return e.transition(ctx, providerID, models.RoleProvider, bookingID, models.BookingActionNoShow, nil, models.EventBookingNoShow, false)
}

// Cancel is valid for either party from pending or confirmed; it records
// the cancellation metadata and releases the slot capacity.
func (e *DefaultBookingEngine) Cancel(ctx context.Context, actorID string, role models.Role, bookingID string, in models.CancelBookingInput) (*models.Booking, error) {
	if in.Reason == "" {
		return nil, utils.NewValidationError("reason", "cancellation reason is required")
	}
	return e.transition(ctx, actorID, role, bookingID, models.BookingActionCancel, func(b *models.Booking, now time.Time) {
		b.CancelledAt = &now
		b.CancelledBy = actorID
		b.CancellationReason = in.Reason
		if in.Fee != nil {
			fee := models.AmountFromFloat(*in.Fee)
			b.CancellationFee = &fee
		}
	}, models.EventBookingCancelled, true)
}

// Dispute is the administrative override, reachable from any non-terminal
// state and not exposed on the normal party surface.
func (e *DefaultBookingEngine) Dispute(ctx context.Context, bookingID string) (*models.Booking, error) {
	return e.transition(ctx, "", models.RoleAdmin, bookingID, models.BookingActionDispute, nil, models.EventBookingDisputed, false)
}

// transition is the single path for all status changes: ownership check,
// transition-table lookup, stamping, persistence, event emission. A
// rejected lookup leaves the row untouched and reports the current status.
func (e *DefaultBookingEngine) transition(
	ctx context.Context,
	actorID string,
	role models.Role,
	bookingID string,
	action models.BookingAction,
	stamp func(*models.Booking, time.Time),
	eventType string,
	releaseCapacity bool,
) (*models.Booking, error) {
	booking, err := e.getOwned(ctx, actorID, role, bookingID)
	if err != nil {
		return nil, err
	}

	next, ok := models.NextBookingStatus(booking.Status, action)
	if !ok {
		return nil, utils.NewStateError(string(booking.Status), string(action))
	}

	now := time.Now()
	booking.Status = next
	if stamp != nil {
		stamp(booking, now)
	}

	if releaseCapacity && booking.SlotID != "" {
		err = e.Repo.ReleaseCapacity(ctx, booking)
	} else {
		err = e.Repo.Update(ctx, booking)
	}
	if err != nil {
		return nil, err
	}

	e.Logger.Info("booking transition",
		zap.String("booking_number", booking.BookingNumber),
		zap.String("action", string(action)),
		zap.String("status", string(booking.Status)),
	)
	e.emit(ctx, eventType, booking)
	return booking, nil
}

// CompleteOverdue sweeps all confirmed bookings dated strictly before today
// into completed, returning the count mutated. The sweep is caller
// triggered, not a background timer.
func (e *DefaultBookingEngine) CompleteOverdue(ctx context.Context) (int, error) {
	cutoff := bookingRepo.OverdueCutoff(time.Now())
	overdue, err := e.Repo.ListOverdueConfirmed(ctx, cutoff)
	if err != nil {
		return 0, err
	}

	count := 0
	for i := range overdue {
		b := &overdue[i]
		now := time.Now()
		b.Status = models.BookingStatusCompleted
		b.CompletedAt = &now
		if err := e.Repo.Update(ctx, b); err != nil {
			e.Logger.Error("overdue sweep: failed to complete booking",
				zap.String("booking_number", b.BookingNumber), zap.Error(err))
			continue
		}
		count++
		e.emit(ctx, models.EventBookingCompleted, b)
	}

	e.Logger.Info("overdue sweep finished", zap.Int("completed", count), zap.String("cutoff", cutoff))
	return count, nil
}

// Hide sets the acting party's visibility flag. It is idempotent, never
// changes status, and never touches the other party's flag.
func (e *DefaultBookingEngine) Hide(ctx context.Context, actorID string, role models.Role, bookingID string) error {
	if _, err := e.getOwned(ctx, actorID, role, bookingID); err != nil {
		return err
	}
	return e.Repo.SetHiddenFlag(ctx, bookingID, role)
}

// MarkReviewed records that the acting party has left a review; review
// content lives with the external reviews collaborator.
func (e *DefaultBookingEngine) MarkReviewed(ctx context.Context, actorID string, role models.Role, bookingID string) error {
	if _, err := e.getOwned(ctx, actorID, role, bookingID); err != nil {
		return err
	}
	return e.Repo.SetReviewedFlag(ctx, bookingID, role)
}
