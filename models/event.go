package models

import "time"

// Domain event types emitted by the booking and quote engines. The
// notification collaborator consumes these; no transition sends anything
// directly.
const (
	EventBookingCreated   = "booking.created"
	EventBookingConfirmed = "booking.confirmed"
	EventBookingStarted   = "booking.started"
	EventBookingCompleted = "booking.completed"
	EventBookingCancelled = "booking.cancelled"
	EventBookingRejected  = "booking.rejected"
	EventBookingNoShow    = "booking.no_show"
	EventBookingDisputed  = "booking.disputed"

	EventQuoteSubmitted = "quote.submitted"
	EventQuoteAccepted  = "quote.accepted"
	EventQuoteRejected  = "quote.rejected"
	EventQuoteCancelled = "quote.cancelled"
	EventQuoteExpired   = "quote.expired"
)

// DomainEvent is the envelope handed to the notification collaborator.
type DomainEvent struct {
	Type       string    `json:"type"`
	OccurredAt time.Time `json:"occurred_at"`
	CustomerID string    `json:"customer_id"`
	ProviderID string    `json:"provider_id"`

	Booking *Booking        `json:"booking,omitempty"`
	Request *BookingRequest `json:"request,omitempty"`
}
