package models

import "time"

// BookingRequest is the quote path: a customer asks, the provider prices,
// and acceptance materializes a confirmed Booking.
type BookingRequest struct {
	ID            string `bson:"id" json:"id"`
	RequestNumber string `bson:"request_number" json:"request_number"` // RQ-<year>-<5-digit-seq>
	CustomerID    string `bson:"customer_id" json:"customer_id"`
	ProviderID    string `bson:"provider_id" json:"provider_id"`
	ServiceID     string `bson:"service_id" json:"service_id"`

	// BookingID is set exactly once, on acceptance.
	BookingID string `bson:"booking_id,omitempty" json:"booking_id,omitempty"`

	Title         string    `bson:"title" json:"title"`
	Description   string    `bson:"description,omitempty" json:"description,omitempty"`
	SlotID        string    `bson:"slot_id,omitempty" json:"slot_id,omitempty"`
	PreferredDate string    `bson:"preferred_date" json:"preferred_date"` // "YYYY-MM-DD"
	PreferredTime TimeOfDay `bson:"preferred_time" json:"preferred_time"`

	BudgetMin *Amount `bson:"budget_min,omitempty" json:"budget_min,omitempty"`
	BudgetMax *Amount `bson:"budget_max,omitempty" json:"budget_max,omitempty"`

	QuotedPrice     *Amount    `bson:"quoted_price,omitempty" json:"quoted_price,omitempty"`
	QuoteDetails    string     `bson:"quote_details,omitempty" json:"quote_details,omitempty"`
	EstimatedHours  float64    `bson:"estimated_hours,omitempty" json:"estimated_hours,omitempty"`
	QuoteValidUntil *time.Time `bson:"quote_valid_until,omitempty" json:"quote_valid_until,omitempty"`

	Status RequestStatus `bson:"status" json:"status"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// IsExpired derives expiry from the wall clock; a lapsed quoted request is
// ineligible for acceptance even before any explicit expired transition is
// persisted.
func (r *BookingRequest) IsExpired(now time.Time) bool {
	return r.Status == RequestStatusQuoted &&
		r.QuoteValidUntil != nil &&
		r.QuoteValidUntil.Before(now)
}
