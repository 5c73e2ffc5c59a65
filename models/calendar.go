package models

// CalendarSlot is a slot instantiated on a concrete date for display.
type CalendarSlot struct {
	SlotID            string    `json:"slot_id"`
	StartTime         TimeOfDay `json:"start_time"`
	EndTime           TimeOfDay `json:"end_time"`
	MaxBookings       int       `json:"max_bookings"`
	RemainingCapacity int       `json:"remaining_capacity"`
	IsAvailable       bool      `json:"is_available"`
}

// CalendarDay is one day of a provider's weekly calendar view, with the
// blackout overlay applied.
type CalendarDay struct {
	Date          string         `json:"date"` // "YYYY-MM-DD"
	DayOfWeek     int            `json:"day_of_week"`
	Blocked       bool           `json:"blocked"`
	BlockedReason string         `json:"blocked_reason,omitempty"`
	Slots         []CalendarSlot `json:"slots"`
}
