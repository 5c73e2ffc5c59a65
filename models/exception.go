package models

import "time"

// AvailabilityException is a date-ranged blackout (vacation, sick leave)
// that suppresses a provider's slots without deleting them.
type AvailabilityException struct {
	ID          string     `bson:"id" json:"id"`
	ProviderID  string     `bson:"provider_id" json:"provider_id"`
	StartDate   string     `bson:"start_date" json:"start_date"` // inclusive, "YYYY-MM-DD"
	EndDate     string     `bson:"end_date" json:"end_date"`     // inclusive
	Reason      string     `bson:"reason" json:"reason"`
	Description string     `bson:"description,omitempty" json:"description,omitempty"`
	ApprovedBy  string     `bson:"approved_by,omitempty" json:"approved_by,omitempty"`
	ApprovedAt  *time.Time `bson:"approved_at,omitempty" json:"approved_at,omitempty"`
	CreatedAt   time.Time  `bson:"created_at" json:"created_at"`
}

// Covers reports whether a "YYYY-MM-DD" date falls inside the blackout
// range. Zero-padded ISO dates compare correctly as strings.
func (e *AvailabilityException) Covers(date string) bool {
	return date >= e.StartDate && date <= e.EndDate
}
