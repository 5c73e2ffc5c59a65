package models

import "time"

// Booking represents a confirmed-path (instant) reservation.
type Booking struct {
	ID            string    `bson:"id" json:"id"`
	BookingNumber string    `bson:"booking_number" json:"booking_number"` // BK-<year>-<5-digit-seq>
	CustomerID    string    `bson:"customer_id" json:"customer_id"`
	ProviderID    string    `bson:"provider_id" json:"provider_id"`
	ServiceID     string    `bson:"service_id" json:"service_id"`
	SlotID        string    `bson:"slot_id" json:"slot_id"`
	RequestID     string    `bson:"request_id,omitempty" json:"request_id,omitempty"` // set when materialized from a quote
	Date          string    `bson:"date" json:"date"` // "YYYY-MM-DD"
	StartTime     TimeOfDay `bson:"start_time" json:"start_time"`
	EndTime       TimeOfDay `bson:"end_time" json:"end_time"`
	DurationMin   int       `bson:"duration_minutes" json:"duration_minutes"`

	Address string  `bson:"address,omitempty" json:"address,omitempty"`
	Lat     float64 `bson:"lat,omitempty" json:"lat,omitempty"`
	Lng     float64 `bson:"lng,omitempty" json:"lng,omitempty"`

	ServicePrice Amount `bson:"service_price" json:"service_price"`
	TravelFee    Amount `bson:"travel_fee" json:"travel_fee"`
	PlatformFee  Amount `bson:"platform_fee" json:"platform_fee"`
	TotalAmount  Amount `bson:"total_amount" json:"total_amount"`
	Currency     string `bson:"currency" json:"currency"`

	// PaymentStatus is owned by the external payments collaborator; the
	// engine stores it opaquely.
	PaymentStatus string `bson:"payment_status" json:"payment_status"`

	Status BookingStatus `bson:"status" json:"status"`

	ConfirmedAt *time.Time `bson:"confirmed_at,omitempty" json:"confirmed_at,omitempty"`
	StartedAt   *time.Time `bson:"started_at,omitempty" json:"started_at,omitempty"`
	CompletedAt *time.Time `bson:"completed_at,omitempty" json:"completed_at,omitempty"`
	CancelledAt *time.Time `bson:"cancelled_at,omitempty" json:"cancelled_at,omitempty"`

	CancelledBy        string  `bson:"cancelled_by,omitempty" json:"cancelled_by,omitempty"`
	CancellationReason string  `bson:"cancellation_reason,omitempty" json:"cancellation_reason,omitempty"`
	CancellationFee    *Amount `bson:"cancellation_fee,omitempty" json:"cancellation_fee,omitempty"`

	// Per-party visibility flags. Each is only ever mutated by its own
	// party and never affects the other's view of the row.
	HiddenByProvider bool `bson:"hidden_by_provider" json:"hidden_by_provider"`
	HiddenByCustomer bool `bson:"hidden_by_customer" json:"hidden_by_customer"`

	CustomerReviewed bool `bson:"customer_reviewed" json:"customer_reviewed"`
	ProviderReviewed bool `bson:"provider_reviewed" json:"provider_reviewed"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// HiddenFor reports whether the booking is hidden from the given party.
func (b *Booking) HiddenFor(role Role) bool {
	switch role {
	case RoleProvider:
		return b.HiddenByProvider
	case RoleCustomer:
		return b.HiddenByCustomer
	}
	return false
}
