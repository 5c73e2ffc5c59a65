package models

import "time"

// AvailabilitySlot represents a provider's recurring weekly booking window.
type AvailabilitySlot struct {
	ID              string     `bson:"id" json:"id"`
	ProviderID      string     `bson:"provider_id" json:"provider_id"`
	DayOfWeek       int        `bson:"day_of_week" json:"day_of_week"` // 1 (Monday) .. 7 (Sunday)
	StartTime       TimeOfDay  `bson:"start_time" json:"start_time"`
	EndTime         TimeOfDay  `bson:"end_time" json:"end_time"`
	BreakStart      *TimeOfDay `bson:"break_start,omitempty" json:"break_start,omitempty"`
	BreakEnd        *TimeOfDay `bson:"break_end,omitempty" json:"break_end,omitempty"`
	MaxBookings     int        `bson:"max_bookings" json:"max_bookings"`
	CurrentBookings int        `bson:"current_bookings" json:"current_bookings"`
	IsAvailable     bool       `bson:"is_available" json:"is_available"`
	Deleted         bool       `bson:"deleted" json:"-"`
	DeletedAt       *time.Time `bson:"deleted_at,omitempty" json:"-"`
	CreatedAt       time.Time  `bson:"created_at" json:"created_at"`
	UpdatedAt       time.Time  `bson:"updated_at" json:"updated_at"`
}

// HasSpaceAvailable reports whether the slot can take one more booking.
func (s *AvailabilitySlot) HasSpaceAvailable() bool {
	return s.CurrentBookings < s.MaxBookings
}

// Overlaps tests a candidate window against this slot's window. Bounds are
// inclusive, so two windows that merely touch at a boundary still conflict.
// The test is symmetric.
func (s *AvailabilitySlot) Overlaps(start, end TimeOfDay) bool {
	return start <= s.EndTime && end >= s.StartTime
}

// ContainsTime reports whether a time of day falls within the slot's window.
func (s *AvailabilitySlot) ContainsTime(t TimeOfDay) bool {
	return t >= s.StartTime && t <= s.EndTime
}

// SlotUpdate carries a partial slot edit; nil fields are left untouched.
type SlotUpdate struct {
	StartTime   *TimeOfDay `json:"start_time,omitempty"`
	EndTime     *TimeOfDay `json:"end_time,omitempty"`
	BreakStart  *TimeOfDay `json:"break_start,omitempty"`
	BreakEnd    *TimeOfDay `json:"break_end,omitempty"`
	MaxBookings *int       `json:"max_bookings,omitempty"`
	IsAvailable *bool      `json:"is_available,omitempty"`
}
