package models

import "time"

// CreateSlotInput is the payload for creating an availability slot.
type CreateSlotInput struct {
	DayOfWeek   int        `json:"day_of_week" binding:"required"`
	StartTime   TimeOfDay  `json:"start_time" binding:"required"`
	EndTime     TimeOfDay  `json:"end_time" binding:"required"`
	MaxBookings int        `json:"max_bookings" binding:"required"`
	BreakStart  *TimeOfDay `json:"break_time_start,omitempty"`
	BreakEnd    *TimeOfDay `json:"break_time_end,omitempty"`
}

// CreateExceptionInput is the payload for creating a blackout period.
type CreateExceptionInput struct {
	StartDate   string `json:"start_date" binding:"required"`
	EndDate     string `json:"end_date" binding:"required"`
	Reason      string `json:"reason" binding:"required"`
	Description string `json:"description,omitempty"`
}

// CreateBookingInput is the payload for an instant booking.
type CreateBookingInput struct {
	ProviderID   string    `json:"provider_id" binding:"required"`
	ServiceID    string    `json:"service_id" binding:"required"`
	SlotID       string    `json:"slot_id" binding:"required"`
	Date         string    `json:"date" binding:"required"`
	StartTime    TimeOfDay `json:"start_time" binding:"required"`
	EndTime      TimeOfDay `json:"end_time" binding:"required"`
	Address      string    `json:"address,omitempty"`
	Lat          float64   `json:"lat,omitempty"`
	Lng          float64   `json:"lng,omitempty"`
	ServicePrice float64   `json:"service_price" binding:"required"`
	TravelFee    float64   `json:"travel_fee,omitempty"`
}

// CancelBookingInput carries the mandatory cancellation metadata.
type CancelBookingInput struct {
	Reason string   `json:"reason" binding:"required"`
	Fee    *float64 `json:"fee,omitempty"`
}

// CreateRequestInput is the payload for opening a request-for-quote.
type CreateRequestInput struct {
	ProviderID    string    `json:"provider_id" binding:"required"`
	ServiceID     string    `json:"service_id" binding:"required"`
	Title         string    `json:"title" binding:"required"`
	Description   string    `json:"description,omitempty"`
	SlotID        string    `json:"slot_id,omitempty"`
	PreferredDate string    `json:"preferred_date" binding:"required"`
	PreferredTime TimeOfDay `json:"preferred_time" binding:"required"`
	BudgetMin     *float64  `json:"budget_min,omitempty"`
	BudgetMax     *float64  `json:"budget_max,omitempty"`
}

// SubmitQuoteInput is the provider's answer to a request-for-quote.
type SubmitQuoteInput struct {
	Price          float64    `json:"price" binding:"required"`
	Details        string     `json:"details,omitempty"`
	ValidUntil     *time.Time `json:"valid_until,omitempty"`
	EstimatedHours float64    `json:"estimated_hours,omitempty"`
}
